// Package session keeps the client's belief about "am I logged in" in step
// with a signed, expiring token held in durable storage shared by every
// client process on the machine.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/models"
	"github.com/dmitrijs2005/gophauth/internal/client/storage"
	"github.com/dmitrijs2005/gophauth/internal/logging"
)

type State int

const (
	Unauthenticated State = iota
	Authenticating
	Authenticated
	Error
)

func (s State) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	case Error:
		return "error"
	}
	return "unknown"
}

// View is a consistent snapshot of the manager for display.
type View struct {
	State     State
	User      *models.Profile
	ExpiresAt time.Time
	Err       string
}

var ErrNotAuthenticated = errors.New("not authenticated")

// Manager owns the in-memory session. Its methods may be called from any
// goroutine; network calls run without the lock held, so when two calls race
// the last one to finish wins.
type Manager struct {
	api    client.Client
	store  storage.Storage
	logger logging.Logger
	now    func() time.Time

	mu       sync.Mutex
	token    string
	user     *models.Profile
	state    State
	errMsg   string
	inflight int
	onChange []func(View)
}

type Option func(*Manager)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(api client.Client, store storage.Storage, l logging.Logger, opts ...Option) *Manager {
	m := &Manager{
		api:    api,
		store:  store,
		logger: l.With("module", "session"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OnChange registers fn to be called after every state change. fn runs
// without the manager lock held.
func (m *Manager) OnChange(fn func(View)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onChange = append(m.onChange, fn)
}

// Boot loads the persisted session. An expired token is dropped without a
// network call. A live token without a cached user triggers a profile
// refresh; a 401 there logs out.
func (m *Manager) Boot(ctx context.Context) error {
	snap, err := m.store.Load(ctx)
	if err != nil {
		m.set(func() { m.clearLocked(); m.state = Unauthenticated })
		return err
	}

	switch {
	case snap.Token == "":
		m.set(func() { m.clearLocked(); m.state = Unauthenticated })
		return nil

	case expired(snap.Token, m.now()):
		m.logger.Info(ctx, "persisted session expired")
		m.Logout(ctx)
		return nil

	case snap.User != nil:
		m.set(func() {
			m.token, m.user, m.errMsg = snap.Token, snap.User, ""
			m.state = Authenticated
		})
		return nil
	}

	return m.refreshProfile(ctx, snap.Token)
}

func (m *Manager) refreshProfile(ctx context.Context, token string) error {
	m.begin()
	user, err := m.api.Profile(ctx, token)
	switch {
	case err == nil:
		if saveErr := m.store.Save(ctx, storage.Snapshot{Token: token, User: user}); saveErr != nil {
			m.logger.Warn(ctx, "could not persist refreshed profile", "error", saveErr)
		}
		m.finish(func() {
			m.token, m.user, m.errMsg = token, user, ""
			m.state = Authenticated
		})
		return nil

	case errors.Is(err, client.ErrUnauthorized), errors.Is(err, client.ErrNotFound):
		m.end()
		m.Logout(ctx)
		return nil
	}

	m.finish(func() {
		m.token, m.user = token, nil
		m.state = Error
		m.errMsg = client.DisplayMessage(err)
	})
	return err
}

// Signup registers and, on success, persists the new session. On failure
// the state becomes Error with a single display message and the previous
// token and user stay as they were.
func (m *Manager) Signup(ctx context.Context, req client.SignupRequest) error {
	return m.authenticate(ctx, func() (*client.AuthResponse, error) {
		return m.api.Signup(ctx, req)
	})
}

// Login behaves like Signup.
func (m *Manager) Login(ctx context.Context, req client.LoginRequest) error {
	return m.authenticate(ctx, func() (*client.AuthResponse, error) {
		return m.api.Login(ctx, req)
	})
}

func (m *Manager) authenticate(ctx context.Context, call func() (*client.AuthResponse, error)) error {
	m.begin()

	res, err := call()
	if err == nil {
		user := res.User
		err = m.store.Save(ctx, storage.Snapshot{Token: res.Token, User: &user})
		if err == nil {
			m.finish(func() {
				m.token, m.user, m.errMsg = res.Token, &user, ""
				m.state = Authenticated
			})
			return nil
		}
		m.logger.Error(ctx, "could not persist session", "error", err)
	}

	m.finish(func() {
		m.state = Error
		m.errMsg = client.DisplayMessage(err)
	})
	return err
}

// Logout clears memory and storage. It cannot fail; a storage error is only
// logged.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.store.Clear(ctx); err != nil {
		m.logger.Warn(ctx, "could not clear persisted session", "error", err)
	}
	m.set(func() {
		m.clearLocked()
		m.state = Unauthenticated
	})
}

// IsAuthenticated recomputes expiry from the token on every call.
func (m *Manager) IsAuthenticated() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.authenticatedLocked()
}

func (m *Manager) authenticatedLocked() bool {
	return m.token != "" && m.user != nil && !expired(m.token, m.now())
}

// CheckExpiry logs out if the held token has expired. It reports whether a
// logout happened.
func (m *Manager) CheckExpiry(ctx context.Context) bool {
	m.mu.Lock()
	stale := m.token != "" && expired(m.token, m.now())
	m.mu.Unlock()

	if stale {
		m.logger.Info(ctx, "session expired")
		m.Logout(ctx)
	}
	return stale
}

// Sync adopts whatever storage holds now. It is the handler for changes
// made by other processes and never writes back, except to drop an expired
// token, which is what every process would do.
func (m *Manager) Sync(ctx context.Context) error {
	snap, err := m.store.Load(ctx)
	if err != nil {
		return err
	}

	if snap.Token != "" && expired(snap.Token, m.now()) {
		m.Logout(ctx)
		return nil
	}

	m.set(func() {
		m.token, m.user = snap.Token, snap.User
		if m.inflight > 0 {
			return
		}
		if m.token != "" && m.user != nil {
			m.state = Authenticated
			m.errMsg = ""
		} else if m.state != Error {
			m.state = Unauthenticated
		}
	})
	return nil
}

// Watch calls Sync on every notification until ctx is done.
func (m *Manager) Watch(ctx context.Context, n storage.Notifier) error {
	ch, err := n.Subscribe(ctx)
	if err != nil {
		return err
	}

	go func() {
		for range ch {
			if err := m.Sync(ctx); err != nil && ctx.Err() == nil {
				m.logger.Warn(ctx, "session sync failed", "error", err)
			}
		}
	}()
	return nil
}

// StartExpiryWatcher runs CheckExpiry every interval until ctx is done.
func (m *Manager) StartExpiryWatcher(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.CheckExpiry(ctx)
		case <-ctx.Done():
			return
		}
	}
}

// Dashboard calls the protected endpoint. A 401 logs the session out.
func (m *Manager) Dashboard(ctx context.Context) (*client.DashboardResponse, error) {
	if m.CheckExpiry(ctx) {
		return nil, ErrNotAuthenticated
	}

	m.mu.Lock()
	token, ok := m.token, m.authenticatedLocked()
	m.mu.Unlock()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	res, err := m.api.Dashboard(ctx, token)
	if errors.Is(err, client.ErrUnauthorized) {
		m.logger.Info(ctx, "server rejected token, logging out")
		m.Logout(ctx)
	}
	return res, err
}

// View returns the current state with expiry already applied.
func (m *Manager) View() View {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.viewLocked()
}

func (m *Manager) viewLocked() View {
	v := View{State: m.state, Err: m.errMsg}
	if m.user != nil {
		u := *m.user
		v.User = &u
	}
	if m.token != "" {
		v.ExpiresAt, _ = ExpiresAt(m.token)
	}
	if v.State == Authenticated && !m.authenticatedLocked() {
		v.State = Unauthenticated
	}
	return v
}

func (m *Manager) clearLocked() {
	m.token, m.user, m.errMsg = "", nil, ""
}

func (m *Manager) begin() {
	m.set(func() {
		m.inflight++
		m.state = Authenticating
		m.errMsg = ""
	})
}

// end undoes begin without touching state.
func (m *Manager) end() {
	m.mu.Lock()
	m.inflight--
	m.mu.Unlock()
}

func (m *Manager) finish(apply func()) {
	m.set(func() {
		m.inflight--
		apply()
	})
}

// set applies fn under the lock and notifies listeners if the view changed.
func (m *Manager) set(fn func()) {
	m.mu.Lock()
	before := m.viewLocked()
	fn()
	after := m.viewLocked()
	listeners := append([]func(View){}, m.onChange...)
	m.mu.Unlock()

	if viewChanged(before, after) {
		for _, l := range listeners {
			l(after)
		}
	}
}

func viewChanged(a, b View) bool {
	if a.State != b.State || a.Err != b.Err || !a.ExpiresAt.Equal(b.ExpiresAt) {
		return true
	}
	if (a.User == nil) != (b.User == nil) {
		return true
	}
	return a.User != nil && *a.User != *b.User
}
