package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/metrixmedia/backend/internal/model"
)

// ErrHoneypotFilled is returned by every backend for a draft whose website
// field is set. Such drafts are spam and are never stored.
var ErrHoneypotFilled = errors.New("submission has the honeypot field set")

// newSubmission assigns an id and timestamp to draft and normalizes empty
// optional fields to nil. Timestamps are truncated to microseconds so every
// backend returns the value it was given.
func newSubmission(draft model.ContactDraft, now time.Time) (*model.ContactSubmission, error) {
	if nullable(draft.Website) != nil {
		return nil, ErrHoneypotFilled
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generating submission id: %w", err)
	}
	return &model.ContactSubmission{
		ID:          id.String(),
		Name:        draft.Name,
		Email:       draft.Email,
		Company:     nullable(draft.Company),
		Message:     draft.Message,
		SubmittedAt: now.UTC().Truncate(time.Microsecond),
	}, nil
}

func nullable(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

// MemoryContactRepository keeps submissions in process memory. Data is lost
// on restart; it is the fallback when no DATABASE_URL is configured.
type MemoryContactRepository struct {
	mu    sync.RWMutex
	order []string
	byID  map[string]*model.ContactSubmission
	now   func() time.Time
}

var _ ContactRepository = (*MemoryContactRepository)(nil)

// NewMemoryContactRepository creates an empty in-memory repository.
func NewMemoryContactRepository() *MemoryContactRepository {
	return &MemoryContactRepository{
		byID: make(map[string]*model.ContactSubmission),
		now:  time.Now,
	}
}

func (r *MemoryContactRepository) Ping(ctx context.Context) error {
	return ctx.Err()
}

// Create stores a copy of the new submission.
func (r *MemoryContactRepository) Create(ctx context.Context, draft model.ContactDraft) (*model.ContactSubmission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	sub, err := newSubmission(draft, r.now())
	if err != nil {
		return nil, err
	}

	stored := *sub
	r.mu.Lock()
	r.byID[stored.ID] = &stored
	r.order = append(r.order, stored.ID)
	r.mu.Unlock()

	return sub, nil
}

// List returns submissions in insertion order.
func (r *MemoryContactRepository) List(ctx context.Context) ([]*model.ContactSubmission, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*model.ContactSubmission, 0, len(r.order))
	for _, id := range r.order {
		c := *r.byID[id]
		out = append(out, &c)
	}
	return out, nil
}
