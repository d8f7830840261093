// Package models holds the client-side view of server records.
package models

// Profile is the public user record returned by signup, login and /auth/me.
type Profile struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}
