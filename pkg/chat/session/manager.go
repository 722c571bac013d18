package session

import (
	"errors"
	"sync"
	"time"

	"community-resources-be/internal/repository/memory"
	"community-resources-be/pkg/resource"
	"community-resources-be/pkg/store"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Manager handles session operations. Stored sessions are never modified in
// place: every change runs on a clone that replaces the stored session once
// the change succeeds, one change at a time per session.
type Manager struct {
	sessionRepo *memory.SessionRepository
	locks       sync.Map // session id -> *sync.Mutex
	now         func() time.Time
}

// NewManager creates a new session manager
func NewManager(sessionRepo *memory.SessionRepository) *Manager {
	m := &Manager{sessionRepo: sessionRepo, now: time.Now}
	sessionRepo.OnEvicted(func(id string) { m.locks.Delete(id) })
	return m
}

func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) lock(id string) func() {
	mu, _ := m.locks.LoadOrStore(id, &sync.Mutex{})
	mu.(*sync.Mutex).Lock()
	return mu.(*sync.Mutex).Unlock
}

// Create starts a new idle session on category c.
func (m *Manager) Create(c resource.Category) *store.Session {
	s := store.NewSession(uuid.NewString(), c, m.now())
	m.sessionRepo.Save(s)
	return s.Clone()
}

// LoadOrCreate returns a snapshot of the session, creating it on category c
// when it does not exist yet.
func (m *Manager) LoadOrCreate(id string, c resource.Category) *store.Session {
	unlock := m.lock(id)
	defer unlock()

	if s, found := m.sessionRepo.Get(id); found {
		return s.Clone()
	}
	s := store.NewSession(id, c, m.now())
	m.sessionRepo.Save(s)
	return s.Clone()
}

// Get returns a snapshot of the session.
func (m *Manager) Get(id string) (*store.Session, error) {
	s, found := m.sessionRepo.Get(id)
	if !found {
		return nil, ErrSessionNotFound
	}
	return s.Clone(), nil
}

// Update applies fn to a clone of the session and saves it if fn succeeds.
// The returned session is a snapshot of the saved state.
func (m *Manager) Update(id string, fn func(s *store.Session) error) (*store.Session, error) {
	unlock := m.lock(id)
	defer unlock()

	current, found := m.sessionRepo.Get(id)
	if !found {
		return nil, ErrSessionNotFound
	}

	next := current.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	return m.save(next), nil
}

// Turn is Update for a chat message: the user's text is recorded in the
// history first. When fn fails only that history entry is kept.
func (m *Manager) Turn(id, text string, fn func(s *store.Session) error) (*store.Session, error) {
	unlock := m.lock(id)
	defer unlock()

	current, found := m.sessionRepo.Get(id)
	if !found {
		return nil, ErrSessionNotFound
	}

	next := current.Clone()
	next.AddMessage(store.SpeakerUser, text, m.now())
	if err := fn(next); err != nil {
		kept := current.Clone()
		kept.AddMessage(store.SpeakerUser, text, m.now())
		m.save(kept)
		return nil, err
	}
	return m.save(next), nil
}

// Count is the number of live sessions.
func (m *Manager) Count() int {
	return m.sessionRepo.Count()
}

// Delete ends a session.
func (m *Manager) Delete(id string) {
	m.sessionRepo.Delete(id)
}

func (m *Manager) save(s *store.Session) *store.Session {
	s.UpdatedAt = m.now()
	m.sessionRepo.Save(s)
	return s.Clone()
}
