package mailer

import (
	"context"
	"sync"
)

// Mock records sent mail instead of delivering it. The test environment
// wires this in place of SMTP.
type Mock struct {
	mu       sync.Mutex
	SentMail []Message
	// Err, when set, is returned from Send after recording nothing.
	Err error
}

// NewMock returns an empty recording mailer.
func NewMock() *Mock {
	return &Mock{}
}

// Send records the message, or fails with the configured error.
func (m *Mock) Send(ctx context.Context, msg Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.SentMail = append(m.SentMail, msg)
	return nil
}

// Sent returns a copy of the recorded messages.
func (m *Mock) Sent() []Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Message(nil), m.SentMail...)
}

// Reset drops the recorded messages.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SentMail = nil
}
