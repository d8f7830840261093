// Package services contains the server-side business logic: the credential
// store that owns password hashing, and the signup/login flow built on top
// of it.
package services

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/google/uuid"
)

// PasswordHasher is implemented by cryptox.PasswordHasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// CredentialStore hashes passwords on the way in and hands out users on the
// way out. Uniqueness of the email is enforced by the repository.
type CredentialStore struct {
	repo   users.Repository
	hasher PasswordHasher
	newID  func() string
}

func NewCredentialStore(repo users.Repository, hasher PasswordHasher) *CredentialStore {
	return &CredentialStore{repo: repo, hasher: hasher, newID: uuid.NewString}
}

// Create returns common.ErrAlreadyExists when email is taken. The email is
// stored as given; callers normalize it.
func (s *CredentialStore) Create(ctx context.Context, username, email, password string) (*models.User, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           s.newID(),
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	return s.repo.Create(ctx, user)
}

func (s *CredentialStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetUserByEmail(ctx, email)
}

func (s *CredentialStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	return s.repo.GetUserByID(ctx, id)
}

// CheckPassword compares password against the stored digest in constant time.
func (s *CredentialStore) CheckPassword(user *models.User, password string) bool {
	return s.hasher.Verify(password, user.PasswordHash)
}
