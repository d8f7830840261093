package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *CredentialStore {
	t.Helper()
	hasher, err := cryptox.NewPasswordHasher(cryptox.Argon2Params{Memory: 64, Iterations: 1, Parallelism: 1, SaltLength: 16, KeyLength: 32})
	require.NoError(t, err)
	s := NewCredentialStore(users.NewMemoryRepository(), hasher)
	s.newID = func() string { return "id-1" }
	return s
}

func TestCredentialStore_CreateHashesPassword(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	u, err := s.Create(ctx, "carol", "carol@x.com", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "id-1", u.ID)
	assert.NotContains(t, u.PasswordHash, "Passw0rd!")

	found, err := s.FindByEmail(ctx, "carol@x.com")
	require.NoError(t, err)
	assert.True(t, s.CheckPassword(found, "Passw0rd!"))
	assert.False(t, s.CheckPassword(found, "Passw0rd?"))

	byID, err := s.FindByID(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "carol", byID.Username)
}

func TestCredentialStore_DuplicateEmail(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	ids := []string{"a", "b"}
	s.newID = func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	_, err := s.Create(ctx, "carol", "carol@x.com", "Passw0rd!")
	require.NoError(t, err)

	_, err = s.Create(ctx, "carol2", "carol@x.com", "Passw0rd!")
	assert.ErrorIs(t, err, common.ErrAlreadyExists)

	_, err = s.FindByID(ctx, "b")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestCredentialStore_Missing(t *testing.T) {
	s := newStore(t)

	_, err := s.FindByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)
}
