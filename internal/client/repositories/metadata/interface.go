// Package metadata is a small key/value table in the client database. The
// session storage keeps the bearer token and the cached profile in it.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns (nil, nil) when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes every listed key; missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
