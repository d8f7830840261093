package users

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUser(email string) *models.User {
	return &models.User{
		ID:           uuid.NewString(),
		Username:     "alice",
		Email:        email,
		PasswordHash: "$argon2id$v=19$m=64,t=1,p=1$c2FsdA$a2V5",
	}
}

// runRepositoryContract exercises behaviour every backend must share.
func runRepositoryContract(t *testing.T, newRepo func(t *testing.T) Repository) {
	t.Run("create then find", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		in := newUser("alice@example.com")
		created, err := repo.Create(ctx, in)
		require.NoError(t, err)
		assert.False(t, created.CreatedAt.IsZero())

		byEmail, err := repo.GetUserByEmail(ctx, "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, in.ID, byEmail.ID)
		assert.Equal(t, in.PasswordHash, byEmail.PasswordHash)

		byID, err := repo.GetUserByID(ctx, in.ID)
		require.NoError(t, err)
		assert.Equal(t, "alice", byID.Username)
		assert.Equal(t, "alice@example.com", byID.Email)
	})

	t.Run("not found", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.GetUserByEmail(ctx, "ghost@example.com")
		assert.ErrorIs(t, err, common.ErrorNotFound)

		_, err = repo.GetUserByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})

	t.Run("duplicate email", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Create(ctx, newUser("bob@x.com"))
		require.NoError(t, err)

		_, err = repo.Create(ctx, newUser("bob@x.com"))
		assert.ErrorIs(t, err, common.ErrAlreadyExists)
	})

	t.Run("concurrent creates with one email", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		const n = 16
		var ok, conflicts atomic.Int32
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, err := repo.Create(ctx, newUser("race@x.com"))
				switch {
				case err == nil:
					ok.Add(1)
				case assert.ErrorIs(t, err, common.ErrAlreadyExists):
					conflicts.Add(1)
				}
			}()
		}
		wg.Wait()

		assert.EqualValues(t, 1, ok.Load())
		assert.EqualValues(t, n-1, conflicts.Load())
	})
}
