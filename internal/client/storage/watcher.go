package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 100 * time.Millisecond

// FileWatcher turns filesystem events on the client database into Notifier
// signals. The parent directory is watched rather than the file because
// SQLite writes through sidecar files (-wal, -journal) and may replace them.
type FileWatcher struct {
	dir      string
	base     string
	debounce time.Duration
	logger   logging.Logger
}

func NewFileWatcher(path string, debounce time.Duration, l logging.Logger) *FileWatcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &FileWatcher{
		dir:      filepath.Dir(path),
		base:     filepath.Base(path),
		debounce: debounce,
		logger:   l.With("module", "storage_watcher"),
	}
}

// matches reports whether name is the database or one of its sidecars.
func (w *FileWatcher) matches(name string) bool {
	return strings.HasPrefix(filepath.Base(name), w.base)
}

// Subscribe starts a dedicated fsnotify watcher. Bursts of events inside the
// debounce window produce one signal.
func (w *FileWatcher) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(w.dir); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	out := make(chan struct{}, 1)
	go w.loop(ctx, fsw, out)

	w.logger.Debug(ctx, "watching session storage", "dir", w.dir, "file", w.base)
	return out, nil
}

func (w *FileWatcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- struct{}) {
	defer close(out)
	defer fsw.Close()

	var pending <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.matches(event.Name) || event.Op == fsnotify.Chmod {
				continue
			}
			if pending == nil {
				pending = time.After(w.debounce)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "watcher error", "error", err)

		case <-pending:
			pending = nil
			select {
			case out <- struct{}{}:
			default:
			}
		}
	}
}

var _ Notifier = (*FileWatcher)(nil)
