package client

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/validation"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// APIError is a 4xx/5xx answer that carried a body.
type APIError struct {
	StatusCode int
	Message    string
	Fields     []validation.FieldError
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.display())
}

func (e *APIError) display() string {
	for _, f := range e.Fields {
		if f.Message != "" {
			return fmt.Sprintf("%s %s", f.Field, f.Message)
		}
		if len(f.Messages) > 0 {
			return f.Messages[0]
		}
	}
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status %d", e.StatusCode)
}

// DisplayMessage turns any error from this package into a single line fit
// for showing to a user.
func DisplayMessage(err error) string {
	var apiErr *APIError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &apiErr):
		return apiErr.display()
	case errors.Is(err, ErrUnavailable):
		return "Server is unavailable, try again later"
	case errors.Is(err, ErrUnauthorized):
		return "Session expired, please log in again"
	case errors.Is(err, ErrNotFound):
		return "Account no longer exists"
	default:
		return err.Error()
	}
}
