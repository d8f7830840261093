// Package server wires configuration, storage, the auth service and the HTTP
// API together and runs them until the process is signalled.
package server

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/buildinfo"
	"github.com/dmitrijs2005/gophauth/internal/cryptox"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/httpapi"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	repos   repomanager.RepositoryManager
	server  *httpapi.Server
	closers []io.Closer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	return newApp(ctx, c, nil)
}

// newApp uses repos for the postgres backend, or the pgx manager when nil.
func newApp(ctx context.Context, c *config.Config, repos repomanager.RepositoryManager) (*App, error) {
	logger, err := logging.New(c.LogFormat, c.LogLevel, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	if repos == nil {
		repos = repomanager.NewPostgresRepositoryManager(logger)
	}

	app := &App{config: c, logger: logger, repos: repos}

	repo, err := app.openUsers(ctx)
	if err != nil {
		app.Close()
		return nil, err
	}

	hasher, err := cryptox.NewPasswordHasher(c.Argon2)
	if err != nil {
		app.Close()
		return nil, err
	}

	tokens, err := auth.NewTokenManager([]byte(c.SecretKey))
	if err != nil {
		app.Close()
		return nil, err
	}

	svc := services.NewAuthService(services.NewCredentialStore(repo, hasher), tokens, c.TokenTTL)

	app.server, err = httpapi.NewServer(c.HTTPAddr, c.APIPrefix, c.ShutdownTimeout, logger, svc, tokens, httpapi.NewMetrics())
	if err != nil {
		app.Close()
		return nil, err
	}

	return app, nil
}

// openUsers connects the configured credential backend.
func (app *App) openUsers(ctx context.Context) (users.Repository, error) {
	switch app.config.Storage {
	case config.StoragePostgres:
		db, err := app.repos.Open(ctx, app.config.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("db init error: %w", err)
		}
		app.closers = append(app.closers, db)

		if err := app.repos.RunMigrations(ctx, db); err != nil {
			return nil, fmt.Errorf("db migration error: %w", err)
		}
		return app.repos.Users(db), nil

	case config.StorageRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     app.config.RedisAddr,
			Password: app.config.RedisPassword,
			DB:       app.config.RedisDB,
		})
		app.closers = append(app.closers, rdb)

		if err := rdb.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		return users.NewRedisRepository(rdb, ""), nil

	case config.StorageMemory:
		app.logger.Warn(ctx, "using in-memory storage, accounts are lost on restart")
		return users.NewMemoryRepository(), nil
	}

	return nil, fmt.Errorf("unknown storage %q", app.config.Storage)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
		app.logger.Error(ctx, "http server failed", "error", err)
		cancelFunc()
	}
}

// Run blocks until ctx is cancelled or a termination signal arrives, then
// releases storage connections.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.config.Storage, "version", buildinfo.Version, "commit", buildinfo.Commit)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	app.Close()
	app.logger.Info(context.Background(), "App stopped")
}

func (app *App) Close() {
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			app.logger.Error(context.Background(), "close failed", "error", err)
		}
	}
	app.closers = nil
}
