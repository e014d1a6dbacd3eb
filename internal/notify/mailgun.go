package notify

import (
	"context"
	"fmt"

	mailgun "github.com/mailgun/mailgun-go/v5"
	"github.com/metrixmedia/backend/internal/config"
)

type mailgunSendFunc func(ctx context.Context, m mailgun.Message) error

// Mailgun sends through the Mailgun HTTP API.
type Mailgun struct {
	domain string
	send   mailgunSendFunc
}

var _ Notifier = (*Mailgun)(nil)

// NewMailgun creates a Mailgun notifier for cfg.Domain.
func NewMailgun(cfg config.MailgunConfig) *Mailgun {
	return NewMailgunWithClient(cfg.Domain, mailgun.NewMailgun(cfg.APIKey))
}

// NewMailgunWithClient uses an existing client, e.g. one pointed at the EU
// region.
func NewMailgunWithClient(domain string, mg mailgun.Mailgun) *Mailgun {
	return &Mailgun{
		domain: domain,
		send: func(ctx context.Context, m mailgun.Message) error {
			_, err := mg.Send(ctx, m)
			return err
		},
	}
}

func (m *Mailgun) Send(ctx context.Context, msg Message) error {
	message := mailgun.NewMessage(m.domain, msg.From, msg.Subject, msg.Text)
	if err := message.AddRecipient(msg.To); err != nil {
		return fmt.Errorf("add recipient: %w", err)
	}
	if msg.HTML != "" {
		message.SetHTML(msg.HTML)
	}
	if msg.ReplyTo != "" {
		message.SetReplyTo(msg.ReplyTo)
		message.AddHeader("X-Originating-Email", msg.ReplyTo)
	}

	if err := m.send(ctx, message); err != nil {
		return fmt.Errorf("mailgun send: %w", err)
	}
	return nil
}
