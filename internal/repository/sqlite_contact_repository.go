package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/metrixmedia/backend/internal/model"
)

// SQLiteContactRepository stores submissions in a SQLite file.
type SQLiteContactRepository struct {
	dbConn *sqlx.DB
}

var _ ContactRepository = (*SQLiteContactRepository)(nil)

// NewSQLiteContactRepository wraps an open, migrated SQLite connection.
func NewSQLiteContactRepository(db *sqlx.DB) *SQLiteContactRepository {
	return &SQLiteContactRepository{dbConn: db}
}

func (r *SQLiteContactRepository) Ping(ctx context.Context) error {
	return r.dbConn.PingContext(ctx)
}

// Create inserts a new submission.
func (r *SQLiteContactRepository) Create(ctx context.Context, draft model.ContactDraft) (*model.ContactSubmission, error) {
	sub, err := newSubmission(draft, time.Now())
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO contact_submissions (id, name, email, company, message, website, submitted_at)
	          VALUES (:id, :name, :email, :company, :message, :website, :submitted_at)`
	if _, err := r.dbConn.NamedExecContext(ctx, query, sub); err != nil {
		return nil, fmt.Errorf("inserting contact submission %s: %w", sub.ID, err)
	}
	return sub, nil
}

// List returns all submissions, oldest first.
func (r *SQLiteContactRepository) List(ctx context.Context) ([]*model.ContactSubmission, error) {
	var subs []*model.ContactSubmission
	err := r.dbConn.SelectContext(ctx, &subs,
		`SELECT id, name, email, company, message, website, submitted_at
		 FROM contact_submissions
		 ORDER BY submitted_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing contact submissions: %w", err)
	}
	for _, s := range subs {
		s.SubmittedAt = s.SubmittedAt.UTC()
	}
	return subs, nil
}
