// Package client talks to the auth server's HTTP API.
//
// # Error Handling
//
// Transport failures are reported as ErrUnavailable, a 401 as
// ErrUnauthorized and a 404 as ErrNotFound, all matchable with errors.Is.
// A 400 or 500 answer is an *APIError carrying the server's message and
// field errors; DisplayMessage condenses any of these into one line for a
// user.
//
// HTTPClient is safe for concurrent use. All operations honor context
// cancellation.
package client
