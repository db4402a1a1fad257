// internal/mailer/mailer.go
//
// SMTP delivery for the contact form.
// A Mailer with no configured host is "disabled": Send returns ErrDisabled
// and the contact endpoint answers 503 instead of silently dropping mail.

package mailer

import (
	"context"
	"errors"
	"fmt"

	gomail "github.com/wneessen/go-mail"
)

// ErrDisabled is returned by Send when no SMTP host is configured.
var ErrDisabled = errors.New("mailer: not configured")

// Config holds SMTP connection settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // envelope sender
	To       string // contact-form recipient
}

type Mailer struct{ cfg Config }

func New(cfg Config) *Mailer { return &Mailer{cfg: cfg} }

// Enabled reports whether SMTP settings are present.
func (m *Mailer) Enabled() bool { return m.cfg.Host != "" }

// Send delivers one contact-form message. The visitor's address goes into
// Reply-To; the envelope sender stays ours so SPF/DKIM hold.
func (m *Mailer) Send(ctx context.Context, name, replyTo, subject, body string) error {
	if !m.Enabled() {
		return ErrDisabled
	}

	msg := gomail.NewMsg()
	if err := msg.From(m.cfg.From); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := msg.To(m.cfg.To); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	if err := msg.ReplyTo(replyTo); err != nil {
		return fmt.Errorf("set reply-to: %w", err)
	}
	msg.Subject(subject)
	msg.SetBodyString(gomail.TypeTextPlain, fmt.Sprintf("From: %s <%s>\n\n%s", name, replyTo, body))

	client, err := gomail.NewClient(m.cfg.Host,
		gomail.WithPort(m.cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(m.cfg.Username),
		gomail.WithPassword(m.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	return client.DialAndSendWithContext(ctx, msg)
}
