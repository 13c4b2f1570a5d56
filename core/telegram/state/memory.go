package state

import (
	"sync"
	"time"
)

type memoryManager struct {
	mu       sync.RWMutex
	sessions map[int64]*Session
	ttl      time.Duration
	now      func() time.Time
}

// NewMemoryManager constructs the in-memory Manager. Entries untouched for
// longer than ttl are treated as expired and evicted lazily on next access.
// A ttl of zero disables expiry.
func NewMemoryManager(ttl time.Duration) Manager {
	return &memoryManager{
		sessions: make(map[int64]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *memoryManager) expired(s *Session) bool {
	if m.ttl <= 0 {
		return false
	}
	return m.now().Sub(s.Touched) > m.ttl
}

// Get returns a copy of the user's session, or nil when there is none or it
// has expired. Reads never mutate live state beyond evicting expired entries.
func (m *memoryManager) Get(userID int64) *Session {
	m.mu.RLock()
	session, ok := m.sessions[userID]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	if m.expired(session) {
		m.mu.Lock()
		// Re-check under the write lock; another dispatch may have replaced it.
		if cur, ok := m.sessions[userID]; ok && m.expired(cur) {
			delete(m.sessions, userID)
		}
		m.mu.Unlock()
		return nil
	}
	return session.Clone()
}

// Set stores the session for a user, last write wins.
func (m *memoryManager) Set(userID int64, s *Session) {
	if s == nil {
		m.Clear(userID)
		return
	}
	cp := s.Clone()
	cp.Touched = m.now()
	m.mu.Lock()
	m.sessions[userID] = cp
	m.mu.Unlock()
}

// Clear removes the session for a user.
func (m *memoryManager) Clear(userID int64) {
	m.mu.Lock()
	delete(m.sessions, userID)
	m.mu.Unlock()
}

// InProgress reports whether the user has an active, non-expired conversation.
func (m *memoryManager) InProgress(userID int64) bool {
	return m.Get(userID) != nil
}
