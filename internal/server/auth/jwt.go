// Package auth issues and verifies the bearer tokens handed out at signup and
// login. Tokens are HS256 JWTs carrying only the subject (user id), the
// issue time and the expiry.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the lifetime of a session token.
const DefaultTTL = time.Hour

// Claims are the registered claims only; nothing sensitive is ever embedded.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenManager signs and verifies tokens with a process-wide secret.
type TokenManager struct {
	secret []byte
	now    func() time.Time
}

type Option func(*TokenManager)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *TokenManager) { m.now = now }
}

func NewTokenManager(secret []byte, opts ...Option) (*TokenManager, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwt secret must not be empty")
	}
	m := &TokenManager{secret: secret, now: time.Now}
	for _, opt := range opts {
		opt(m)
	}
	return m, nil
}

// Issue returns a signed token for subject valid for ttl.
func (m *TokenManager) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("empty token subject")
	}

	now := m.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and then the expiry. Failures are one of
// common.ErrTokenMalformed, common.ErrInvalidToken or common.ErrTokenExpired.
func (m *TokenManager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	token, err := parser.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, common.ErrTokenMalformed
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, common.ErrTokenExpired
		default:
			return nil, common.ErrInvalidToken
		}
	}

	if !token.Valid || claims.Subject == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}

// GetUserIDFromToken verifies tokenString and returns its subject.
func (m *TokenManager) GetUserIDFromToken(tokenString string) (string, error) {
	claims, err := m.Verify(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}
