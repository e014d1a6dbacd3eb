// Package notify delivers contact form notifications by email.
package notify

import (
	"context"
	"errors"

	"github.com/metrixmedia/backend/internal/config"
)

// Message is a single outbound email.
type Message struct {
	To      string
	From    string
	ReplyTo string
	Subject string
	Text    string
	HTML    string
}

// Notifier sends a Message. Implementations must honour ctx cancellation.
type Notifier interface {
	Send(ctx context.Context, msg Message) error
}

// ErrDisabled is returned by Disabled for every send.
var ErrDisabled = errors.New("email notifications are not configured")

// Disabled is the Notifier used when no provider credential is configured.
type Disabled struct{}

var _ Notifier = Disabled{}

func (Disabled) Send(context.Context, Message) error { return ErrDisabled }

// DefaultBurst is the number of sends Throttled admits back to back.
const DefaultBurst = 5

// New builds the Notifier selected by cfg. Real providers are wrapped in a
// Throttled limiter of cfg.NotifyPerMinute.
func New(cfg *config.Config) Notifier {
	var n Notifier
	switch cfg.NotifierKind() {
	case config.NotifierMailgun:
		n = NewMailgun(cfg.Mailgun)
	case config.NotifierSMTP:
		n = NewSMTP(cfg.SMTP)
	default:
		return Disabled{}
	}
	return NewThrottled(n, cfg.NotifyPerMinute, DefaultBurst)
}
