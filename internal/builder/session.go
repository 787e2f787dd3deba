package builder

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound indicates no draft session exists for the given ID.
type ErrSessionNotFound struct {
	SessionID uuid.UUID
}

func (e *ErrSessionNotFound) Error() string {
	return fmt.Sprintf("draft session not found: %s", e.SessionID)
}

// Session wraps a Builder for use across HTTP requests. The wizard itself
// is single-threaded per user; the mutex only guards against back-to-back
// requests racing on the same session.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time

	mu      sync.Mutex
	builder *Builder

	// CurrentRecordID is the client-remembered record a plain save
	// updates in place. uuid.Nil means no record has been saved yet.
	CurrentRecordID uuid.UUID
}

// With runs fn while holding the session lock.
func (s *Session) With(fn func(b *Builder)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.builder)
}

// Registry is an in-memory store of draft sessions, keyed by session ID
// and scoped to the owning user.
type Registry struct {
	mu       sync.RWMutex
	sessions map[uuid.UUID]*Session
}

// NewRegistry creates an empty session registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[uuid.UUID]*Session)}
}

// Create starts a new draft session for the user.
func (r *Registry) Create(userID uuid.UUID) *Session {
	s := &Session{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: time.Now(),
		builder:   New(),
	}
	r.mu.Lock()
	r.sessions[s.ID] = s
	r.mu.Unlock()
	return s
}

// Get returns the session if it exists and belongs to the user.
// A session owned by someone else is reported as not found.
func (r *Registry) Get(sessionID, userID uuid.UUID) (*Session, error) {
	r.mu.RLock()
	s, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if !ok || s.UserID != userID {
		return nil, &ErrSessionNotFound{SessionID: sessionID}
	}
	return s, nil
}

// Delete removes the session. Unknown IDs are a no-op.
func (r *Registry) Delete(sessionID uuid.UUID) {
	r.mu.Lock()
	delete(r.sessions, sessionID)
	r.mu.Unlock()
}
