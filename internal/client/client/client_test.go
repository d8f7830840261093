package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/models"
	"github.com/dmitrijs2005/gophauth/internal/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *HTTPClient {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	return NewHTTPClient(ts.URL+"/api/", time.Second)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

var alice = models.Profile{ID: "u1", Username: "alice", Email: "alice@example.com"}

func TestSignup_Success(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/auth/signup", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		var req SignupRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Pw1!aaaa", req.ConfirmPassword)
		writeJSON(w, http.StatusCreated, AuthResponse{Message: "Signed Up Successfully..!!", Token: "tok", User: alice})
	})

	res, err := c.Signup(context.Background(), SignupRequest{Username: "alice", Email: "alice@example.com", Password: "Pw1!aaaa", ConfirmPassword: "Pw1!aaaa"})
	require.NoError(t, err)
	assert.Equal(t, "tok", res.Token)
	assert.Equal(t, alice, res.User)
}

func TestLogin_Rejected(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": []validation.FieldError{{Field: "password", Message: "incorrect"}},
		})
	})

	_, err := c.Login(context.Background(), LoginRequest{Email: "bob@x.com", Password: "Wrong1!"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Equal(t, "password incorrect", DisplayMessage(err))
	assert.True(t, IsRejection(err))
}

func TestLogin_ValidationMessages(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"errors": []validation.FieldError{{Field: "email", Messages: []string{"Invalid email format"}, Value: "x"}},
		})
	})

	_, err := c.Login(context.Background(), LoginRequest{Email: "x", Password: "p"})
	assert.Equal(t, "Invalid email format", DisplayMessage(err))
}

func TestServerError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "Login failed due to Internal Server Error..!!", "error": "internal error"})
	})

	_, err := c.Login(context.Background(), LoginRequest{})
	assert.Equal(t, "Login failed due to Internal Server Error..!!", DisplayMessage(err))
	assert.False(t, IsRejection(err))
}

func TestProfileAndDashboard_SendBearer(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Please login with Admin Credentials..!!"})
			return
		}
		switch r.URL.Path {
		case "/api/auth/me":
			writeJSON(w, http.StatusOK, map[string]any{"user": alice})
		case "/api/admin/dashboard":
			writeJSON(w, http.StatusOK, DashboardResponse{Message: "Welcome alice to Admin Dashboard..!!", User: alice})
		default:
			http.NotFound(w, r)
		}
	})
	ctx := context.Background()

	p, err := c.Profile(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, alice, *p)

	d, err := c.Dashboard(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "Welcome alice to Admin Dashboard..!!", d.Message)

	_, err = c.Dashboard(ctx, "stale")
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Equal(t, "Session expired, please log in again", DisplayMessage(err))
}

func TestNotFound(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "User not found..!!"})
	})

	_, err := c.Profile(context.Background(), "tok")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUnavailable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := ts.URL
	ts.Close()

	c := NewHTTPClient(url, time.Second)
	_, err := c.Login(context.Background(), LoginRequest{})
	assert.ErrorIs(t, err, ErrUnavailable)
	assert.Equal(t, "Server is unavailable, try again later", DisplayMessage(err))

	gw := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	_, err = gw.Login(context.Background(), LoginRequest{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestCancelledContext(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Login(ctx, LoginRequest{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAPIError_NoBody(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	_, err := c.Login(context.Background(), LoginRequest{})
	assert.Equal(t, "request failed with status 418", DisplayMessage(err))
	assert.EqualError(t, err, "server returned 418: request failed with status 418")
}
