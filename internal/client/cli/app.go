package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/client/session"
	"github.com/dmitrijs2005/gophauth/internal/client/storage"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

// App is one CLI process: a session manager over the shared session file
// plus the terminal it talks to.
type App struct {
	config   *config.Config
	logger   logging.Logger
	session  *session.Manager
	notifier storage.Notifier
	reader   *bufio.Reader
	out      io.Writer
	closers  []io.Closer
}

// appFactory is how commands obtain an App; tests swap in one backed by
// memory storage and a fake API.
type appFactory func(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*App, error)

// NewApp opens the session database at c.StoragePath and points the API
// client at c.ServerURL. Logs go to stderr so they never mix with command
// output.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out io.Writer) (*App, error) {
	logger, err := logging.New(c.LogFormat, c.LogLevel, os.Stderr)
	if err != nil {
		return nil, err
	}

	store, err := storage.OpenSQLite(ctx, c.StoragePath, logger)
	if err != nil {
		return nil, fmt.Errorf("open session storage: %w", err)
	}

	api := client.NewHTTPClient(c.ServerURL, c.RequestTimeout)
	mgr := session.NewManager(api, store, logger)

	app := newApp(c, logger, mgr, storage.NewFileWatcher(store.Path(), 0, logger), in, out)
	app.closers = append(app.closers, store)
	return app, nil
}

func newApp(c *config.Config, l logging.Logger, mgr *session.Manager, n storage.Notifier, in io.Reader, out io.Writer) *App {
	return &App{
		config:   c,
		logger:   l,
		session:  mgr,
		notifier: n,
		reader:   bufio.NewReader(in),
		out:      &lockedWriter{w: out},
	}
}

// lockedWriter serializes writes from command handlers and session
// listeners, which run on different goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (l *lockedWriter) Write(p []byte) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.w.Write(p)
}

// Boot restores the persisted session. An unreadable store leaves the session
// logged out and a failed profile refresh leaves it in the Error state; either
// is reported but does not stop the command.
func (a *App) Boot(ctx context.Context) {
	if err := a.session.Boot(ctx); err != nil {
		a.logger.Warn(ctx, "could not restore session", "error", err)
	}
}

// StartBackground keeps the session in step with other processes and with
// the clock until ctx is done.
func (a *App) StartBackground(ctx context.Context) error {
	if err := a.session.Watch(ctx, a.notifier); err != nil {
		return err
	}
	go a.session.StartExpiryWatcher(ctx, a.config.ExpiryCheckInterval)
	return nil
}

func (a *App) Close() error {
	var firstErr error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

// status renders the session for prompts and the status command.
func (a *App) status() string {
	return describe(a.session.View(), time.Now())
}

func describe(v session.View, now time.Time) string {
	switch v.State {
	case session.Authenticated:
		left := v.ExpiresAt.Sub(now).Round(time.Second)
		return fmt.Sprintf("logged in as %s <%s>, token expires in %s", v.User.Username, v.User.Email, left)
	case session.Authenticating:
		return "authenticating..."
	case session.Error:
		return "error: " + v.Err
	default:
		return "not logged in"
	}
}
