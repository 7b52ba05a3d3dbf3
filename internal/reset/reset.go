// Package reset implements the password-reset flow: issue an emailed
// token, then consume it to replace the password.
package reset

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"prayerchain/internal/data"
	"prayerchain/internal/logger"
	"prayerchain/internal/mailer"
	"prayerchain/internal/normalize"
)

// Window is how long a reset token stays valid.
const Window = time.Hour

// Subject is the reset mail subject line.
const Subject = "Prayer Chain Password Reset"

// Store is the slice of the agents store the flow needs.
type Store interface {
	FindByEmail(ctx context.Context, email string) (*data.Agent, error)
	FindByResetToken(ctx context.Context, token string) (*data.Agent, error)
	Save(ctx context.Context, agent *data.Agent) (*data.Agent, error)
}

// Flow runs password resets against a store and a mailer.
type Flow struct {
	store   Store
	mail    mailer.Mailer
	from    string
	baseURL string
	log     *logger.Logger

	// now is stubbed in tests
	now func() time.Time
}

// NewFlow wires a reset flow. baseURL is the public origin embedded in the
// reset link, from the sender address.
func NewFlow(store Store, mail mailer.Mailer, from, baseURL string, log *logger.Logger) *Flow {
	return &Flow{
		store:   store,
		mail:    mail,
		from:    from,
		baseURL: baseURL,
		log:     log,
		now:     time.Now,
	}
}

// Request generates an unguessable token for the agent with the given
// email, persists it with a one-hour expiry, and then mails the reset
// link. The token is durable before the send is attempted; a send failure
// is logged and does not roll it back.
func (f *Flow) Request(ctx context.Context, email string) (*data.Agent, error) {
	agent, err := f.store.FindByEmail(ctx, normalize.Email(email))
	if err != nil {
		return nil, err
	}

	work := agent.Clone()
	expires := f.now().Add(Window)
	work.ResetPasswordToken = uuid.NewString()
	work.ResetPasswordExpires = &expires

	saved, err := f.store.Save(ctx, work)
	if err != nil {
		return nil, err
	}

	msg := mailer.Message{
		To:      saved.Email,
		From:    f.from,
		Subject: Subject,
		Text: fmt.Sprintf(
			"You are receiving this because you (or someone else) requested a password reset.\n\n"+
				"Follow this link to complete the process:\n\n%s/reset/%s\n\n"+
				"If you did not request this, ignore this email and your password will remain unchanged.\n",
			f.baseURL, saved.ResetPasswordToken),
	}
	if err := f.mail.Send(ctx, msg); err != nil {
		// fire-and-forget relative to the caller: the token is already
		// persisted, so the agent can retry the link request
		f.log.Error("reset mail send failed", "to", saved.Email, "err", err)
	}

	return saved, nil
}

// Consume replaces the password for the agent holding the token and
// invalidates the token in the same save. Expiry is checked here, lazily,
// against the current clock; an unknown token and a stale one both come
// back as ErrTokenExpired.
func (f *Flow) Consume(ctx context.Context, token, password, confirm string) (*data.Agent, error) {
	if password != confirm {
		ve := data.NewValidationError()
		ve.Add("password", "Passwords don't match")
		return nil, ve
	}

	agent, err := f.store.FindByResetToken(ctx, token)
	if err != nil {
		if err == data.ErrNotFound {
			return nil, data.ErrTokenExpired
		}
		return nil, err
	}
	if agent.ResetPasswordExpires == nil || agent.ResetPasswordExpires.Before(f.now()) {
		return nil, data.ErrTokenExpired
	}

	work := agent.Clone()
	work.SetPassword(password)
	work.ResetPasswordToken = ""
	work.ResetPasswordExpires = nil

	return f.store.Save(ctx, work)
}

// Peek reports whether the token is currently consumable, for the page
// that renders the new-password form.
func (f *Flow) Peek(ctx context.Context, token string) error {
	agent, err := f.store.FindByResetToken(ctx, token)
	if err != nil {
		if err == data.ErrNotFound {
			return data.ErrTokenExpired
		}
		return err
	}
	if agent.ResetPasswordExpires == nil || agent.ResetPasswordExpires.Before(f.now()) {
		return data.ErrTokenExpired
	}
	return nil
}
