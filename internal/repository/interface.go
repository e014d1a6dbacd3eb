package repository

import (
	"context"

	"github.com/metrixmedia/backend/internal/model"
)

// DB checks that the storage backend is reachable.
type DB interface {
	Ping(ctx context.Context) error
}

// ContactRepository persists contact form submissions. It owns id and
// submittedAt assignment.
type ContactRepository interface {
	DB
	// Create stores a new submission built from draft and returns the stored
	// record. Empty optional fields are stored as NULL.
	Create(ctx context.Context, draft model.ContactDraft) (*model.ContactSubmission, error)
	// List returns every stored submission.
	List(ctx context.Context) ([]*model.ContactSubmission, error)
}
