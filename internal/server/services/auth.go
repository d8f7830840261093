package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/validation"
)

// TokenIssuer is implemented by auth.TokenManager.
type TokenIssuer interface {
	Issue(subject string, ttl time.Duration) (string, error)
}

type SignupRequest struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResult is what a successful signup or login hands back.
type AuthResult struct {
	Token string
	User  models.Profile
}

// AuthService implements signup and login. Every error it returns is either
// a *RejectedError or wraps common.ErrorInternal (or common.ErrorNotFound
// from Profile); nothing else escapes.
type AuthService struct {
	store    *CredentialStore
	tokens   TokenIssuer
	tokenTTL time.Duration
}

func NewAuthService(store *CredentialStore, tokens TokenIssuer, tokenTTL time.Duration) *AuthService {
	return &AuthService{store: store, tokens: tokens, tokenTTL: tokenTTL}
}

func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", common.ErrorInternal, op, err)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup validates req, refuses a taken email and creates the account.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*AuthResult, error) {
	fields, ok := validation.SignupFields(validation.SignupInput{
		Username:        req.Username,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
	})
	if !ok {
		return nil, &RejectedError{Kind: common.ErrValidation, Fields: fields}
	}

	username := strings.TrimSpace(req.Username)
	email := normalizeEmail(req.Email)

	_, err := s.store.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, reject(common.ErrAlreadyExists, validation.FieldEmail, "already exists", email)
	case !errors.Is(err, common.ErrorNotFound):
		return nil, internal("find user", err)
	}

	// The lookup above is only a fast path; the repository settles races.
	user, err := s.store.Create(ctx, username, email, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrAlreadyExists) {
			return nil, reject(common.ErrAlreadyExists, validation.FieldEmail, "already exists", email)
		}
		return nil, internal("create user", err)
	}

	return s.issue(user)
}

// Login checks credentials. An unknown email and a wrong password are
// reported separately, which tells the caller whether an account exists.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResult, error) {
	fields, ok := validation.LoginFields(validation.LoginInput{Email: req.Email, Password: req.Password})
	if !ok {
		return nil, &RejectedError{Kind: common.ErrValidation, Fields: fields}
	}

	email := normalizeEmail(req.Email)

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, reject(common.ErrorNotFound, validation.FieldEmail, "not found", email)
		}
		return nil, internal("find user", err)
	}

	if !s.store.CheckPassword(user, req.Password) {
		return nil, reject(common.ErrorUnauthorized, validation.FieldPassword, "incorrect", "")
	}

	return s.issue(user)
}

// Profile returns the public view of a user, or common.ErrorNotFound.
func (s *AuthService) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrorNotFound
		}
		return nil, internal("find user", err)
	}
	p := user.Profile()
	return &p, nil
}

func (s *AuthService) issue(user *models.User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID, s.tokenTTL)
	if err != nil {
		return nil, internal("issue token", err)
	}
	return &AuthResult{Token: token, User: user.Profile()}, nil
}
