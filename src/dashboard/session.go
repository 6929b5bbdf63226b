package dashboard

import (
	"sync"
	"time"

	"github.com/samadjamali123/FloraGuard/src/core/analysis"

	"github.com/google/uuid"
)

// Session is the per-browser dashboard state: the last successful analysis
// and its explanation. The result is replaced wholesale by the next
// successful analysis and discarded when the session goes away with the
// process.
type Session struct {
	ID          string
	Result      *analysis.DetectionResult
	Explanation *string
	Mode        string
	LastError   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SessionStore keeps sessions in memory behind a mutex. All reads hand out
// copies and all writes go through store methods, so concurrent requests for
// the same session never touch a field unsynchronized. Result and explanation
// pointers are safe to share across copies: they are never mutated after a
// record is stored. Nothing is persisted.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewSessionStore() *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*Session),
	}
}

// Get returns a snapshot of the session for an ID, if it exists.
func (s *SessionStore) Get(id string) (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[id]
	if !ok {
		return Session{}, false
	}
	return *session, true
}

// Create registers a new session under a fresh ID and returns a snapshot.
func (s *SessionStore) Create() Session {
	now := time.Now()
	session := &Session{
		ID:        uuid.NewString(),
		Mode:      ModeAPI,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.ID] = session
	return *session
}

// RecordResult replaces the session's result wholesale and clears any error
// banner.
func (s *SessionStore) RecordResult(id, mode string, result *analysis.DetectionResult, explanation *string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return
	}
	session.Mode = mode
	session.Result = result
	session.Explanation = explanation
	session.LastError = ""
	session.UpdatedAt = time.Now()
}

// RecordFailure stores only the banner message; the previous result and
// explanation stay untouched.
func (s *SessionStore) RecordFailure(id, mode, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[id]
	if !ok {
		return
	}
	session.Mode = mode
	session.LastError = message
	session.UpdatedAt = time.Now()
}
