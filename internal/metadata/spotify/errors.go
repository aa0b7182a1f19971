package spotify

import (
	"errors"
	"fmt"
)

// Sentinel errors for Spotify Web API operations.
var (
	ErrMissingCredentials = errors.New("spotify: client credentials not configured")
	ErrUnauthorized       = errors.New("spotify: unauthorized")
	ErrRateLimited        = errors.New("spotify: rate limited by server")
	ErrServer             = errors.New("spotify: server error")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op    string // Operation: "token", "searchPlaylists"
	Query string // If applicable
	Err   error
}

func (e *Error) Error() string {
	if e.Query != "" {
		return fmt.Sprintf("spotify %s [%q]: %v", e.Op, e.Query, e.Err)
	}
	return fmt.Sprintf("spotify %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op, query string, err error) error {
	return &Error{Op: op, Query: query, Err: err}
}
