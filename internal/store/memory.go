// internal/store/memory.go
//
// In-memory session store.
//
// Every HTTP session owns one *game.Engine. Engines are not safe for
// concurrent use, so each Entry serialises access through Do.
//
// Characteristics:
//   - Entries keyed by a random UUID.
//   - Map guarded by RWMutex; each entry has its own mutex.
//   - State is lost when the process restarts.
//   - Idle entries are dropped by Sweep.

package store

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/weaver/internal/game"
)

// ErrNotFound is returned for unknown or swept session IDs.
var ErrNotFound = errors.New("session not found")

// Store holds game sessions.
type Store interface {
	// Put registers eng under a new ID.
	Put(ctx context.Context, eng *game.Engine) (*Entry, error)

	// Get retrieves a session by ID.
	Get(ctx context.Context, id string) (*Entry, error)

	// Delete drops a session. Deleting an unknown ID is not an error.
	Delete(ctx context.Context, id string) error

	// Sweep removes sessions idle since before cutoff and returns them.
	Sweep(ctx context.Context, cutoff time.Time) []*Entry

	// Len is the number of live sessions.
	Len() int
}

// Entry is one session.
type Entry struct {
	ID string

	mu      sync.Mutex
	engine  *game.Engine
	last    game.Notification // written by the engine observer, under mu
	touched time.Time
	now     func() time.Time
}

// Do runs fn with exclusive access to the engine and marks the entry used.
func (e *Entry) Do(fn func(eng *game.Engine) error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.touched = e.now()
	return fn(e.engine)
}

// Last returns the most recent engine notification.
// It must not be called from inside Do.
func (e *Entry) Last() game.Notification {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.last
}

func (e *Entry) idleSince() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.touched
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu      sync.RWMutex
	entries map[string]*Entry
	now     func() time.Time
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{entries: make(map[string]*Entry), now: time.Now}
}

func (m *memory) Put(_ context.Context, eng *game.Engine) (*Entry, error) {
	if eng == nil {
		return nil, errors.New("store: nil engine")
	}
	e := &Entry{ID: uuid.NewString(), engine: eng, touched: m.now(), now: m.now}
	// Observers run inside engine calls, which only happen under e.mu.
	eng.Subscribe(func(n game.Notification) { e.last = n })

	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[e.ID] = e
	return e, nil
}

func (m *memory) Get(_ context.Context, id string) (*Entry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if e, ok := m.entries[id]; ok {
		return e, nil
	}
	return nil, ErrNotFound
}

func (m *memory) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *memory) Sweep(_ context.Context, cutoff time.Time) []*Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*Entry
	for id, e := range m.entries {
		if e.idleSince().Before(cutoff) {
			delete(m.entries, id)
			out = append(out, e)
		}
	}
	return out
}

func (m *memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
