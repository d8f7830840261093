// Package storage persists the client session (bearer token and cached
// profile) and tells interested parties when another process changed it.
package storage

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/client/models"
)

// Snapshot is what is persisted. An empty Token means "logged out". User may
// be nil while Token is set, e.g. after a partial write by an older client.
type Snapshot struct {
	Token string
	User  *models.Profile
}

// Storage is the durable half of the session.
type Storage interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, s Snapshot) error
	// Clear removes the token and the user. Clearing an empty store is a no-op.
	Clear(ctx context.Context) error
}

// Notifier reports that the persisted session may have changed. The channel
// carries no payload; receivers reload through Storage. It is closed when ctx
// is done.
type Notifier interface {
	Subscribe(ctx context.Context) (<-chan struct{}, error)
}
