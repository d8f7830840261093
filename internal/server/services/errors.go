package services

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/validation"
)

// RejectedError is a client-side failure: bad input, a taken email, an
// unknown email or a wrong password. Kind is one of common.ErrValidation,
// common.ErrAlreadyExists, common.ErrorNotFound or common.ErrorUnauthorized
// and is reachable through errors.Is.
type RejectedError struct {
	Kind   error
	Fields []validation.FieldError
}

func (e *RejectedError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msg := f.Message
		if msg == "" {
			msg = strings.Join(f.Messages, "; ")
		}
		parts = append(parts, f.Field+": "+msg)
	}
	return fmt.Sprintf("%v (%s)", e.Kind, strings.Join(parts, ", "))
}

func (e *RejectedError) Unwrap() error {
	return e.Kind
}

func reject(kind error, field, message, value string) *RejectedError {
	return &RejectedError{
		Kind:   kind,
		Fields: []validation.FieldError{{Field: field, Message: message, Value: value}},
	}
}
