package googlebooks

import (
	"errors"
	"fmt"
)

// Sentinel errors for Google Books API operations.
var (
	ErrNoResults     = errors.New("googlebooks: no matching volume")
	ErrNoDescription = errors.New("googlebooks: volume has no description")
	ErrRateLimited   = errors.New("googlebooks: rate limited by server")
	ErrServer        = errors.New("googlebooks: server error")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op    string // Operation: "fetchDescription"
	Title string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("googlebooks %s [%q]: %v", e.Op, e.Title, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, title string, err error) error {
	return &Error{Op: op, Title: title, Err: err}
}
