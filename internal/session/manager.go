package session

import (
	"fmt"
	"io"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"
)

// Factory builds a session for a new identity. The manager calls it with
// the registry lock held; factories must not call back into the manager.
type Factory func(id string) (*Session, error)

// Manager is the registry of live sessions, keyed by session id.
type Manager struct {
	mu       sync.Mutex
	factory  Factory
	sessions map[string]*Session
	logger   *slog.Logger
}

// NewManager returns an empty registry backed by the given factory.
func NewManager(factory Factory, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Manager{
		factory:  factory,
		sessions: map[string]*Session{},
		logger:   logger,
	}
}

// Open returns the session for id, creating one when none exists. An empty
// id allocates a fresh identity.
func (m *Manager) Open(id string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if id == "" {
		id = uuid.NewString()
	}
	if s, ok := m.sessions[id]; ok {
		return s, nil
	}

	s, err := m.factory(id)
	if err != nil {
		return nil, fmt.Errorf("create session %s: %w", id, err)
	}
	m.sessions[id] = s
	m.logger.Debug("session opened", slog.String("session_id", id))
	return s, nil
}

// Get returns the live session for id.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	return s, ok
}

// Close tears down and removes one session. It reports whether the id was
// live.
func (m *Manager) Close(id string) bool {
	m.mu.Lock()
	s, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		s.Close()
	}
	return ok
}

// CloseAll tears down every live session.
func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	m.sessions = map[string]*Session{}
	m.mu.Unlock()

	for _, s := range sessions {
		s.Close()
	}
}

// IDs returns the live session ids in stable order.
func (m *Manager) IDs() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
