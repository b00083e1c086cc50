package nav

import (
	"sync"

	"github.com/shuhratov/loyihabot/internal/repository"
)

// Session is the small per-user context that survives between drill-down
// steps: the active project-type filter and the plan-capture flag.
// Everything else rides in the command string itself. Cleared whenever a
// root-level command is processed.
type Session struct {
	ProjectType      repository.ProjectTypeFilter
	AwaitingPlanText bool
}

// SessionStore keeps sessions keyed by user identity.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[int64]Session
}

// NewSessionStore creates an empty session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{sessions: make(map[int64]Session)}
}

// Get returns the user's session, zero-valued if none exists.
func (s *SessionStore) Get(userID int64) Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sessions[userID]
}

// Set replaces the user's session.
func (s *SessionStore) Set(userID int64, sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[userID] = sess
}

// Clear drops the user's session.
func (s *SessionStore) Clear(userID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
}
