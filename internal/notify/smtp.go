package notify

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strconv"

	"github.com/jordan-wright/email"
	"github.com/metrixmedia/backend/internal/config"
)

type smtpSendFunc func(e *email.Email, addr string, auth smtp.Auth) error

// SMTP sends through a relay with github.com/jordan-wright/email.
type SMTP struct {
	addr string
	auth smtp.Auth
	send smtpSendFunc
}

var _ Notifier = (*SMTP)(nil)

// NewSMTP creates an SMTP notifier. PLAIN auth is used when a user is set.
// With SSL the connection is TLS from the first byte (port 465 style).
func NewSMTP(cfg config.SMTPConfig) *SMTP {
	port := cfg.Port
	if port == 0 {
		port = 587
	}
	s := &SMTP{addr: net.JoinHostPort(cfg.Host, strconv.Itoa(port))}
	if cfg.User != "" {
		s.auth = smtp.PlainAuth("", cfg.User, cfg.Pass, cfg.Host)
	}

	if cfg.SSL {
		tlsConfig := &tls.Config{ServerName: cfg.Host}
		s.send = func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.SendWithTLS(addr, auth, tlsConfig)
		}
	} else {
		s.send = func(e *email.Email, addr string, auth smtp.Auth) error {
			return e.Send(addr, auth)
		}
	}
	return s
}

// Send delivers msg. The library call has no context, so it runs in its own
// goroutine and is abandoned (left to finish) once ctx is done.
func (s *SMTP) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	e := email.NewEmail()
	e.From = msg.From
	e.To = []string{msg.To}
	if msg.ReplyTo != "" {
		e.ReplyTo = []string{msg.ReplyTo}
	}
	e.Subject = msg.Subject
	e.Text = []byte(msg.Text)
	if msg.HTML != "" {
		e.HTML = []byte(msg.HTML)
	}

	done := make(chan error, 1)
	go func() { done <- s.send(e, s.addr, s.auth) }()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("smtp send via %s: %w", s.addr, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("smtp send via %s abandoned: %w", s.addr, ctx.Err())
	}
}
