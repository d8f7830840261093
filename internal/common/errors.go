// Package common defines shared constants and sentinel errors used across
// client and server layers of GophAuth. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound    = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")

	// Service-level errors.
	ErrorInternal     = errors.New("internal error")
	ErrorUnauthorized = errors.New("unauthorized")
	ErrValidation     = errors.New("validation error")

	// Token errors. ErrTokenMalformed covers strings that are not a JWT at all,
	// ErrInvalidToken covers a bad signature or unusable claims.
	ErrTokenMalformed = errors.New("malformed token")
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")
)
