package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRepository_Contract(t *testing.T) {
	runRepositoryContract(t, func(t *testing.T) Repository {
		return NewMemoryRepository()
	})
}

func TestMemoryRepository_ReturnsCopies(t *testing.T) {
	repo := NewMemoryRepository()
	ctx := context.Background()

	u := newUser("carol@x.com")
	_, err := repo.Create(ctx, u)
	require.NoError(t, err)

	got, err := repo.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	got.Username = "mallory"

	again, err := repo.GetUserByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", again.Username)
	assert.Equal(t, 1, repo.Len())
}
