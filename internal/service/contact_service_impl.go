package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/metrixmedia/backend/internal/metrics"
	"github.com/metrixmedia/backend/internal/model"
	"github.com/metrixmedia/backend/internal/notify"
	"github.com/metrixmedia/backend/internal/repository"
)

// DefaultNotifyTimeout bounds a single notification send.
const DefaultNotifyTimeout = 10 * time.Second

// ContactConfig holds the addressing and limits of contact notifications.
type ContactConfig struct {
	ToEmail       string
	FromEmail     string
	NotifyTimeout time.Duration
}

type contactServiceImpl struct {
	repo     repository.ContactRepository
	notifier notify.Notifier
	metrics  *metrics.Metrics
	cfg      ContactConfig
}

// NewContactService creates a ContactService. m may be nil.
func NewContactService(repo repository.ContactRepository, notifier notify.Notifier, cfg ContactConfig, m *metrics.Metrics) ContactService {
	if cfg.NotifyTimeout <= 0 {
		cfg.NotifyTimeout = DefaultNotifyTimeout
	}
	if notifier == nil {
		notifier = notify.Disabled{}
	}
	return &contactServiceImpl{repo: repo, notifier: notifier, metrics: m, cfg: cfg}
}

func (s *contactServiceImpl) Submit(ctx context.Context, draft model.ContactDraft) (Outcome, error) {
	if IsSpam(draft) {
		slog.InfoContext(ctx, "contact submission caught by honeypot", "email", draft.Email)
		return OutcomeSpam, nil
	}

	sub, err := s.repo.Create(ctx, draft)
	if err != nil {
		return OutcomeAccepted, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	slog.InfoContext(ctx, "contact submission stored", "id", sub.ID)

	s.sendNotification(ctx, sub)
	return OutcomeAccepted, nil
}

// sendNotification reports whether the email went out. The send survives
// the request being cancelled but not the notify timeout.
func (s *contactServiceImpl) sendNotification(ctx context.Context, sub *model.ContactSubmission) bool {
	msg, err := BuildContactEmail(sub, s.cfg.ToEmail, s.cfg.FromEmail)
	if err != nil {
		slog.ErrorContext(ctx, "building contact notification", "id", sub.ID, "error", err)
		s.metrics.Notification(metrics.NotifyFailed)
		return false
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.NotifyTimeout)
	defer cancel()

	if err := s.notifier.Send(sendCtx, msg); err != nil {
		if errors.Is(err, notify.ErrDisabled) {
			slog.WarnContext(ctx, "contact notification skipped", "id", sub.ID, "reason", err.Error())
			s.metrics.Notification(metrics.NotifyDisabled)
			return false
		}
		slog.ErrorContext(ctx, "failed to send contact notification", "id", sub.ID, "error", err)
		s.metrics.Notification(metrics.NotifyFailed)
		return false
	}

	s.metrics.Notification(metrics.NotifySent)
	return true
}

func (s *contactServiceImpl) List(ctx context.Context) ([]*model.ContactSubmission, error) {
	subs, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return subs, nil
}
