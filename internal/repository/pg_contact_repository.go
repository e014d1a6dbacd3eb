package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metrixmedia/backend/internal/model"
)

// PgContactRepository is the PostgreSQL implementation of ContactRepository.
type PgContactRepository struct {
	pool *pgxpool.Pool
}

// NewPgContactRepository creates a PgContactRepository backed by the given pool.
func NewPgContactRepository(pool *pgxpool.Pool) *PgContactRepository {
	return &PgContactRepository{pool: pool}
}

// Ensure PgContactRepository implements ContactRepository at compile time.
var _ ContactRepository = (*PgContactRepository)(nil)

func (r *PgContactRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

// Create inserts a contact_submissions row and returns it as stored.
func (r *PgContactRepository) Create(ctx context.Context, draft model.ContactDraft) (*model.ContactSubmission, error) {
	sub, err := newSubmission(draft, time.Now())
	if err != nil {
		return nil, err
	}

	err = r.pool.QueryRow(ctx,
		`INSERT INTO contact_submissions (id, name, email, company, message, website, submitted_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING submitted_at`,
		sub.ID, sub.Name, sub.Email, sub.Company, sub.Message, sub.Website, sub.SubmittedAt,
	).Scan(&sub.SubmittedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting contact submission %s: %w", sub.ID, err)
	}
	sub.SubmittedAt = sub.SubmittedAt.UTC()
	return sub, nil
}

// List returns all submissions, oldest first.
func (r *PgContactRepository) List(ctx context.Context) ([]*model.ContactSubmission, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, name, email, company, message, website, submitted_at
		 FROM contact_submissions
		 ORDER BY submitted_at, id`)
	if err != nil {
		return nil, fmt.Errorf("listing contact submissions: %w", err)
	}
	defer rows.Close()

	var subs []*model.ContactSubmission
	for rows.Next() {
		var s model.ContactSubmission
		if err := rows.Scan(&s.ID, &s.Name, &s.Email, &s.Company, &s.Message, &s.Website, &s.SubmittedAt); err != nil {
			return nil, fmt.Errorf("scanning contact submission: %w", err)
		}
		s.SubmittedAt = s.SubmittedAt.UTC()
		subs = append(subs, &s)
	}
	return subs, rows.Err()
}
