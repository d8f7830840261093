package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/models"
	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/netx"
	"github.com/dmitrijs2005/gophauth/internal/validation"
)

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

type AuthResponse struct {
	Message string         `json:"message"`
	Token   string         `json:"token"`
	User    models.Profile `json:"user"`
}

type DashboardResponse struct {
	Message string         `json:"message"`
	User    models.Profile `json:"user"`
}

// Client is the server API as seen by the session manager.
type Client interface {
	Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Profile(ctx context.Context, token string) (*models.Profile, error)
	Dashboard(ctx context.Context, token string) (*DashboardResponse, error)
}

type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient targets baseURL, which includes the API prefix
// (e.g. "http://127.0.0.1:8080/api").
func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type errorBody struct {
	Message string                  `json:"message"`
	Errors  []validation.FieldError `json:"errors"`
}

func (c *HTTPClient) call(ctx context.Context, method, path, token string, body, out any, okStatus int) error {
	var header http.Header
	if token != "" {
		header = http.Header{}
		header.Set(common.AuthorizationHeader, common.BearerPrefix+token)
	}

	resp, err := netx.DoJSON(ctx, c.http, method, c.baseURL+path, header, body)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	switch resp.StatusCode {
	case okStatus:
		return resp.Decode(out)
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	apiErr := &APIError{StatusCode: resp.StatusCode}
	var eb errorBody
	if resp.Decode(&eb) == nil {
		apiErr.Message = eb.Message
		apiErr.Fields = eb.Errors
	}
	return apiErr
}

func (c *HTTPClient) Signup(ctx context.Context, req SignupRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.call(ctx, http.MethodPost, "/auth/signup", "", req, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	var out AuthResponse
	if err := c.call(ctx, http.MethodPost, "/auth/login", "", req, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Profile(ctx context.Context, token string) (*models.Profile, error) {
	var out struct {
		User models.Profile `json:"user"`
	}
	if err := c.call(ctx, http.MethodGet, "/auth/me", token, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.User, nil
}

func (c *HTTPClient) Dashboard(ctx context.Context, token string) (*DashboardResponse, error) {
	var out DashboardResponse
	if err := c.call(ctx, http.MethodGet, "/admin/dashboard", token, nil, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

var _ Client = (*HTTPClient)(nil)

// IsRejection reports whether err is the server refusing the request, as
// opposed to the server being unreachable.
func IsRejection(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode < http.StatusInternalServerError
}
