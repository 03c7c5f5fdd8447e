package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Manager keeps one isolated Session per client.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	factory  func(id string) *Session
}

// NewManager returns a manager creating sessions with opts. Each session gets
// its own in-memory goal tracker unless newOpts supplies one.
func NewManager(newOpts func() Options) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		factory: func(id string) *Session {
			return New(id, newOpts())
		},
	}
}

// Get returns the session for id, creating it when absent. An empty id
// allocates a new random one.
func (m *Manager) Get(id string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	if id == "" {
		id = uuid.NewString()
	}
	if s, ok := m.sessions[id]; ok {
		return s
	}
	s := m.factory(id)
	m.sessions[id] = s
	return s
}

// Lookup returns an existing session.
func (m *Manager) Lookup(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Expire drops sessions idle for longer than ttl and returns how many.
func (m *Manager) Expire(ttl time.Duration, now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if now.Sub(s.LastUsed()) > ttl {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}
