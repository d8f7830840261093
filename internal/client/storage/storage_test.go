package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/client/models"
	"github.com/dmitrijs2005/gophauth/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var alice = &models.Profile{ID: "u1", Username: "alice", Email: "alice@example.com"}

func openTemp(t *testing.T) *SQLiteStorage {
	t.Helper()
	s, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "session.db"), logging.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func isClosed(ch <-chan struct{}) bool {
	select {
	case _, ok := <-ch:
		return !ok
	default:
		return false
	}
}

// runStorageContract checks behaviour every Storage must share.
func runStorageContract(t *testing.T, s Storage) {
	ctx := context.Background()

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{}, snap)

	require.NoError(t, s.Save(ctx, Snapshot{Token: "t1", User: alice}))
	snap, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t1", snap.Token)
	assert.Equal(t, alice, snap.User)
	assert.NotSame(t, alice, snap.User)

	require.NoError(t, s.Save(ctx, Snapshot{Token: "t2"}))
	snap, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{Token: "t2"}, snap)

	require.NoError(t, s.Clear(ctx))
	require.NoError(t, s.Clear(ctx))
	snap, err = s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, Snapshot{}, snap)
}

func TestMemoryStorage_Contract(t *testing.T) {
	runStorageContract(t, NewMemoryStorage())
}

func TestSQLiteStorage_Contract(t *testing.T) {
	runStorageContract(t, openTemp(t))
}

func TestSQLiteStorage_SharedBetweenHandles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")
	ctx := context.Background()

	a, err := OpenSQLite(ctx, path, logging.Nop())
	require.NoError(t, err)
	defer a.Close()
	b, err := OpenSQLite(ctx, path, logging.Nop())
	require.NoError(t, err)
	defer b.Close()

	require.NoError(t, a.Save(ctx, Snapshot{Token: "t", User: alice}))

	snap, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t", snap.Token)
	assert.Equal(t, path, b.Path())
}

func TestSQLiteStorage_CorruptUserIsMissing(t *testing.T) {
	s := openTemp(t)
	ctx := context.Background()

	repo := metadata.NewSQLiteRepository(s.db)
	require.NoError(t, repo.Set(ctx, keyToken, []byte("t")))
	require.NoError(t, repo.Set(ctx, keyUser, []byte("{not json")))

	snap, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "t", snap.Token)
	assert.Nil(t, snap.User)
}

func TestSQLiteStorage_ClosedDB(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, s.Close())

	_, err := s.Load(context.Background())
	assert.Error(t, err)
	assert.Error(t, s.Save(context.Background(), Snapshot{Token: "t"}))
}

func TestOpenSQLite_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "gophauth", "session.db")

	s, err := OpenSQLite(context.Background(), path, logging.Nop())
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.Save(context.Background(), Snapshot{Token: "t", User: alice}))
	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	s := openTemp(t)
	require.NoError(t, RunMigrations(context.Background(), s.db, logging.Nop()))
}

func TestRunMigrations_LogsThroughLogger(t *testing.T) {
	s := openTemp(t)

	var buf bytes.Buffer
	l, err := logging.NewSlogText(&buf, "debug")
	require.NoError(t, err)

	require.NoError(t, RunMigrations(context.Background(), s.db, l))
	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "goose:")
}

func TestMemoryStorage_NotifiesSubscribers(t *testing.T) {
	m := NewMemoryStorage()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := m.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, m.Save(context.Background(), Snapshot{Token: "t"}))
	require.NoError(t, m.Clear(context.Background()))

	select {
	case <-ch:
	case <-time.After(time.Second):
		t.Fatal("no notification")
	}

	cancel()
	require.Eventually(t, func() bool { return isClosed(ch) }, time.Second, 10*time.Millisecond)
}

func TestFileWatcher_SignalsOnDatabaseWrites(t *testing.T) {
	s := openTemp(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewFileWatcher(s.Path(), 20*time.Millisecond, logging.Nop())
	ch, err := w.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, s.Save(ctx, Snapshot{Token: "t", User: alice}))

	select {
	case _, ok := <-ch:
		require.True(t, ok)
	case <-time.After(3 * time.Second):
		t.Fatal("no notification after write")
	}
}

func TestFileWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := NewFileWatcher(filepath.Join(dir, "session.db"), 20*time.Millisecond, logging.Nop())
	ch, err := w.Subscribe(ctx)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600))

	select {
	case <-ch:
		t.Fatal("unexpected notification")
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	require.Eventually(t, func() bool { return isClosed(ch) }, time.Second, 10*time.Millisecond)
}

func TestFileWatcher_Matches(t *testing.T) {
	w := NewFileWatcher("/tmp/x/session.db", 0, logging.Nop())

	assert.True(t, w.matches("/tmp/x/session.db"))
	assert.True(t, w.matches("/tmp/x/session.db-wal"))
	assert.False(t, w.matches("/tmp/x/other.db"))
	assert.Equal(t, defaultDebounce, w.debounce)
}
