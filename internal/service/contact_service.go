package service

import (
	"context"
	"strings"

	"github.com/metrixmedia/backend/internal/model"
)

// ContactService defines the business logic for contact form submissions.
type ContactService interface {
	// Submit runs a validated draft through the honeypot, the store and the
	// notifier. Only store failures are returned as errors (wrapping
	// ErrPersistence); notification failures are logged and absorbed.
	Submit(ctx context.Context, draft model.ContactDraft) (Outcome, error)

	// List returns every stored submission.
	List(ctx context.Context) ([]*model.ContactSubmission, error)
}

// IsSpam reports whether the hidden website field was filled in.
func IsSpam(draft model.ContactDraft) bool {
	return strings.TrimSpace(draft.Website) != ""
}
