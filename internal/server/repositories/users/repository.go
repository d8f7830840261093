// Package users persists accounts. Every implementation guarantees that
// Create is an atomic check-then-insert on the email: of two concurrent
// creates with the same email exactly one succeeds, the other gets
// common.ErrAlreadyExists.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

type Repository interface {
	// Create stores user as given; ID and Email must already be set.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
