// Package mailer abstracts outgoing mail. The transport is chosen once at
// process start and injected; aggregate logic never touches ambient mail
// state.
package mailer

import "context"

// Message is an outgoing plain-text email.
type Message struct {
	To      string
	From    string
	Subject string
	Text    string
}

// Mailer delivers messages. Implementations do not expose transport
// details to callers.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
