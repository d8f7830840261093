// Package validation implements the input gate applied to signup and login
// payloads before any store or token work happens. Every validator is a pure
// function returning the ordered list of violated rules; an empty list means
// the field is valid. The same validators run on the server and, before a
// request is sent, in the CLI client.
package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Field names as they appear in request bodies and error responses.
const (
	FieldUsername        = "username"
	FieldEmail           = "email"
	FieldPassword        = "password"
	FieldConfirmPassword = "confirmPassword"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 30
	passwordMinLen = 8
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Username checks a signup username. The value is trimmed first.
func Username(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{"Username is required"}
	}

	var msgs []string
	if hasSpace(value) {
		msgs = append(msgs, "Username must not contain spaces")
	}
	if n := utf8.RuneCountInString(value); n < usernameMinLen || n > usernameMaxLen {
		msgs = append(msgs, "Username length must be 3-30")
	}
	return msgs
}

// Email checks loose local@domain.tld syntax. The value is trimmed first.
func Email(value string) []string {
	value = strings.TrimSpace(value)
	if value == "" {
		return []string{"Email is required"}
	}

	var msgs []string
	if !emailPattern.MatchString(value) {
		msgs = append(msgs, "Invalid email format")
	}
	if hasSpace(value) {
		msgs = append(msgs, "Email must not contain spaces")
	}
	return msgs
}

// SignupPassword enforces the full strength policy for new accounts.
func SignupPassword(value string) []string {
	if value == "" {
		return []string{"Password is required"}
	}

	var msgs []string
	if utf8.RuneCountInString(value) < passwordMinLen {
		msgs = append(msgs, "Password must be at least 8 characters")
	}
	if !isComplex(value) {
		msgs = append(msgs, "Password must include uppercase, lowercase, number, and symbol")
	}
	if hasSpace(value) {
		msgs = append(msgs, "Password must not contain spaces")
	}
	return msgs
}

// ConfirmPassword requires the confirmation to repeat password exactly.
func ConfirmPassword(confirm, password string) []string {
	if confirm == "" {
		return []string{"Confirm password is required"}
	}
	if confirm != password {
		return []string{"Passwords do not match"}
	}
	return nil
}

// LoginPassword is deliberately weaker than SignupPassword: accounts created
// under older rules must still be able to log in.
func LoginPassword(value string) []string {
	if value == "" {
		return []string{"Password is required"}
	}
	if hasSpace(value) {
		return []string{"Password must not contain spaces"}
	}
	return nil
}

func hasSpace(s string) bool {
	return strings.IndexFunc(s, unicode.IsSpace) >= 0
}

// isComplex mirrors the ASCII classes [A-Z], [a-z], \d and [\W_].
func isComplex(s string) bool {
	var upper, lower, digit, symbol bool
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		default:
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}
