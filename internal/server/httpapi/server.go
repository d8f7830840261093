// Package httpapi exposes the auth service over HTTP/JSON with gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

// AuthService is implemented by services.AuthService.
type AuthService interface {
	Signup(ctx context.Context, req services.SignupRequest) (*services.AuthResult, error)
	Login(ctx context.Context, req services.LoginRequest) (*services.AuthResult, error)
	Profile(ctx context.Context, userID string) (*models.Profile, error)
}

// TokenVerifier is implemented by auth.TokenManager.
type TokenVerifier interface {
	GetUserIDFromToken(token string) (string, error)
}

type Server struct {
	address         string
	prefix          string
	shutdownTimeout time.Duration
	auth            AuthService
	tokens          TokenVerifier
	logger          logging.Logger
	metrics         *Metrics
	router          *gin.Engine
}

func NewServer(address, prefix string, shutdownTimeout time.Duration, l logging.Logger, as AuthService, tv TokenVerifier, m *Metrics) (*Server, error) {
	router := gin.New()
	if err := router.SetTrustedProxies(nil); err != nil {
		return nil, err
	}

	s := &Server{
		address:         address,
		prefix:          prefix,
		shutdownTimeout: shutdownTimeout,
		auth:            as,
		tokens:          tv,
		logger:          l.With("module", "http_server"),
		metrics:         m,
		router:          router,
	}

	router.Use(gin.Recovery(), s.requestID(), s.requestLogger())
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.GET("/", s.health("Server is running..!!"))
	s.router.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := s.router.Group(s.prefix)
	if s.prefix != "" && s.prefix != "/" {
		api.GET("", s.health("API is running..!!"))
	}

	authRoutes := api.Group("/auth")
	authRoutes.GET("", s.health("Auth Routes..!!"))
	authRoutes.POST("/signup", s.signup)
	authRoutes.POST("/login", s.login)
	authRoutes.GET("/me", s.bearerAuth(), s.me)

	admin := api.Group("/admin", s.bearerAuth())
	admin.GET("/dashboard", s.dashboard)
}

// Handler returns the router, for tests and for embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then drains in-flight requests for at
// most the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info(ctx, "Starting HTTP server", "address", s.address, "prefix", s.prefix)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Stopping HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
