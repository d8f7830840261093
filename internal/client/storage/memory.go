package storage

import (
	"context"
	"sync"
)

// MemoryStorage is an in-process Storage and Notifier. Several session
// managers sharing one MemoryStorage behave like tabs sharing a browser
// profile: every Save or Clear notifies all subscribers.
type MemoryStorage struct {
	mu   sync.Mutex
	snap Snapshot
	subs map[chan struct{}]struct{}
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{subs: make(map[chan struct{}]struct{})}
}

func (m *MemoryStorage) Load(ctx context.Context) (Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return copySnapshot(m.snap), nil
}

func (m *MemoryStorage) Save(ctx context.Context, s Snapshot) error {
	m.mu.Lock()
	m.snap = copySnapshot(s)
	m.mu.Unlock()
	m.notify()
	return nil
}

func (m *MemoryStorage) Clear(ctx context.Context) error {
	m.mu.Lock()
	m.snap = Snapshot{}
	m.mu.Unlock()
	m.notify()
	return nil
}

func (m *MemoryStorage) Subscribe(ctx context.Context) (<-chan struct{}, error) {
	ch := make(chan struct{}, 1)

	m.mu.Lock()
	m.subs[ch] = struct{}{}
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		delete(m.subs, ch)
		close(ch)
		m.mu.Unlock()
	}()
	return ch, nil
}

// notify coalesces: a subscriber that has not drained the previous signal
// gets only one.
func (m *MemoryStorage) notify() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for ch := range m.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func copySnapshot(s Snapshot) Snapshot {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

var _ interface {
	Storage
	Notifier
} = (*MemoryStorage)(nil)

var _ Storage = (*SQLiteStorage)(nil)
