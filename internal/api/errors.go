package api

import (
	"errors"
	"fmt"
)

var (
	ErrNetwork = errors.New("collaborator api unreachable")
	ErrDecode  = errors.New("malformed collaborator response")
)

// ServerError is returned for any non-2xx reply.
type ServerError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *ServerError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.StatusCode)
}

// IsServerError reports whether err carries a non-2xx reply, and its status.
func IsServerError(err error) (int, bool) {
	var se *ServerError
	if errors.As(err, &se) {
		return se.StatusCode, true
	}
	return 0, false
}
