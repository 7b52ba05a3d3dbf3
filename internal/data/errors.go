package data

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrNotFound signals a missing root document or a missing nested id
	// under the caller's own agent.
	ErrNotFound = errors.New("not found")
	// ErrForbidden signals an ownership check failure: the referenced
	// document belongs to a different agent.
	ErrForbidden = errors.New("forbidden")
	// ErrTokenExpired signals a stale or unknown password reset token.
	ErrTokenExpired = errors.New("password reset token is invalid or has expired")
)

// ValidationError carries every violated field of a save attempt, keyed by
// field path. It is recoverable: the caller re-renders with the messages.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError returns an empty ValidationError ready to collect
// violations.
func NewValidationError() *ValidationError {
	return &ValidationError{Fields: map[string]string{}}
}

// Add records a violation for a field path. The first message for a path
// wins; later violations of the same path are dropped.
func (e *ValidationError) Add(path, message string) {
	if _, ok := e.Fields[path]; ok {
		return
	}
	e.Fields[path] = message
}

// Any reports whether at least one violation was recorded.
func (e *ValidationError) Any() bool {
	return len(e.Fields) > 0
}

// Messages returns every violation message, ordered by field path so the
// output is deterministic.
func (e *ValidationError) Messages() []string {
	paths := make([]string, 0, len(e.Fields))
	for p := range e.Fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	msgs := make([]string, 0, len(paths))
	for _, p := range paths {
		msgs = append(msgs, e.Fields[p])
	}
	return msgs
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", strings.Join(e.Messages(), "; "))
}

// AsValidation unwraps err into a *ValidationError if it is one.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
