package compare

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/HerbHall/testerhub/pkg/models"
)

// DefaultSessionTTL is how long an untouched session is kept.
const DefaultSessionTTL = 30 * time.Minute

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("comparison session not found")

// Snapshot is a point-in-time copy of a session.
type Snapshot struct {
	ID        string        `json:"id"`
	Focal     *models.Tool  `json:"focal"`
	Picks     []models.Tool `json:"picks"`
	Full      bool          `json:"full"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type entry struct {
	session *Session
	touched time.Time
}

// Manager holds comparison sessions keyed by id for concurrent callers.
// Sessions idle for longer than the TTL are dropped on the next mutation.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*entry
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithTTL overrides DefaultSessionTTL. A non-positive ttl disables expiry.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) { m.ttl = ttl }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

// NewManager creates an empty session manager.
func NewManager(logger *zap.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		sessions: make(map[string]*entry),
		ttl:      DefaultSessionTTL,
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create starts a session focused on focal.
func (m *Manager) Create(focal models.Tool) Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.pruneLocked()
	s := NewSession()
	s.SetFocal(focal)
	id := uuid.NewString()
	e := &entry{session: s, touched: m.now()}
	m.sessions[id] = e
	m.logger.Debug("comparison session created", zap.String("session_id", id), zap.String("focal", focal.ID))
	return snapshot(id, e)
}

// Get returns a snapshot of the session.
func (m *Manager) Get(id string) (Snapshot, error) {
	var snap Snapshot
	err := m.with(id, false, func(e *entry) error {
		snap = snapshot(id, e)
		return nil
	})
	return snap, err
}

// Delete removes the session.
func (m *Manager) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.lookupLocked(id); !ok {
		return ErrSessionNotFound
	}
	delete(m.sessions, id)
	return nil
}

// SetFocal switches the session's focal tool, clearing picks when it changes.
func (m *Manager) SetFocal(id string, focal models.Tool) (Snapshot, error) {
	return m.mutate(id, func(s *Session) error {
		s.SetFocal(focal)
		return nil
	})
}

// Add appends a pick to the session.
func (m *Manager) Add(id string, t models.Tool) (Snapshot, error) {
	return m.mutate(id, func(s *Session) error { return s.Add(t) })
}

// Remove drops a pick from the session.
func (m *Manager) Remove(id, toolID string) (Snapshot, error) {
	return m.mutate(id, func(s *Session) error { return s.Remove(toolID) })
}

// Candidates searches tools by name for the session, excluding its focal
// tool and picks.
func (m *Manager) Candidates(id string, tools []models.Tool, query string) ([]models.Tool, error) {
	var out []models.Tool
	err := m.with(id, false, func(e *entry) error {
		out = e.session.Candidates(tools, query)
		return nil
	})
	return out, err
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

func (m *Manager) mutate(id string, fn func(s *Session) error) (Snapshot, error) {
	var snap Snapshot
	err := m.with(id, true, func(e *entry) error {
		if err := fn(e.session); err != nil {
			return err
		}
		snap = snapshot(id, e)
		return nil
	})
	return snap, err
}

func (m *Manager) with(id string, touch bool, fn func(e *entry) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.lookupLocked(id)
	if !ok {
		return ErrSessionNotFound
	}
	if touch {
		e.touched = m.now()
	}
	return fn(e)
}

// lookupLocked returns the live entry for id, dropping it if expired.
func (m *Manager) lookupLocked(id string) (*entry, bool) {
	e, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	if m.expired(e) {
		delete(m.sessions, id)
		return nil, false
	}
	return e, true
}

func (m *Manager) pruneLocked() {
	for id, e := range m.sessions {
		if m.expired(e) {
			delete(m.sessions, id)
			m.logger.Debug("comparison session expired", zap.String("session_id", id))
		}
	}
}

func (m *Manager) expired(e *entry) bool {
	return m.ttl > 0 && m.now().Sub(e.touched) > m.ttl
}

func snapshot(id string, e *entry) Snapshot {
	snap := Snapshot{
		ID:        id,
		Picks:     e.session.Picks(),
		Full:      e.session.Full(),
		UpdatedAt: e.touched,
	}
	if focal, ok := e.session.Focal(); ok {
		snap.Focal = &focal
	}
	return snap
}
