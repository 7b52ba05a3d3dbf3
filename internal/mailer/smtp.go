package mailer

import (
	"context"

	gomail "gopkg.in/gomail.v2"
)

// SMTPMailer delivers mail over SMTP. Used in production and development;
// tests use the Mock instead.
type SMTPMailer struct {
	dialer *gomail.Dialer
}

// NewSMTP returns an SMTPMailer for the given server. Username and
// password may be empty for an unauthenticated relay (the development
// setup).
func NewSMTP(host string, port int, username, password string) *SMTPMailer {
	return &SMTPMailer{dialer: gomail.NewDialer(host, port, username, password)}
}

// Send delivers one message. The context is honored only up front; gomail
// does not support cancellation mid-dial.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	gm := gomail.NewMessage()
	gm.SetHeader("From", msg.From)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Text)

	return m.dialer.DialAndSend(gm)
}
