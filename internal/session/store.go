// Package session keeps the in-memory editor sessions of the label designer.
// Each session owns one document and serializes access to it.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ticketing-console/labeldesigner/internal/config"
	"github.com/ticketing-console/labeldesigner/internal/layout"
)

// Session is one user's editor on one design. The visible fields and
// samples are fixed when the session opens.
type Session struct {
	ID      string
	EventID string

	mu     sync.Mutex // guards editor
	editor *layout.Editor

	meta     sync.Mutex // guards designID and touched
	designID string
	touched  time.Time

	fields  []layout.VisibleField
	samples layout.Samples
}

// Do runs fn with exclusive access to the session's editor.
func (s *Session) Do(fn func(ed *layout.Editor) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.editor)
}

// DesignID returns the stored design the session saves to, if any.
func (s *Session) DesignID() string {
	s.meta.Lock()
	defer s.meta.Unlock()
	return s.designID
}

// SetDesignID records the design the session was saved as.
func (s *Session) SetDesignID(id string) {
	s.meta.Lock()
	defer s.meta.Unlock()
	s.designID = id
}

// Fields returns the visible fields loaded for the session's event.
func (s *Session) Fields() []layout.VisibleField {
	return s.fields
}

// Samples returns the preview sample values for the session.
func (s *Session) Samples() layout.Samples {
	return s.samples
}

func (s *Session) touch(now time.Time) {
	s.meta.Lock()
	s.touched = now
	s.meta.Unlock()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.meta.Lock()
	defer s.meta.Unlock()
	return s.touched.Before(cutoff)
}

// Store holds the live sessions.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
	logger   *zap.Logger
}

// NewStore creates an empty session store.
func NewStore(cfg *config.Config, logger *zap.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      cfg.SessionTTL,
		now:      time.Now,
		logger:   logger,
	}
}

// Create registers a new session for editor.
func (st *Store) Create(eventID, designID string, editor *layout.Editor, fields []layout.VisibleField, samples layout.Samples) *Session {
	s := &Session{
		ID:       uuid.New().String(),
		EventID:  eventID,
		designID: designID,
		editor:   editor,
		fields:   fields,
		samples:  samples.WithFields(fields),
		touched:  st.now(),
	}

	st.mu.Lock()
	st.sessions[s.ID] = s
	st.mu.Unlock()

	st.logger.Info("Opened editor session",
		zap.String("session_id", s.ID),
		zap.String("event_id", eventID),
		zap.String("design_id", designID),
	)
	return s
}

// Get returns a session and marks it as recently used.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	s, ok := st.sessions[id]
	st.mu.RUnlock()
	if !ok {
		return nil, false
	}

	s.touch(st.now())
	return s, true
}

// Delete drops a session.
func (st *Store) Delete(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	st.logger.Info("Closed editor session", zap.String("session_id", id))
	return true
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many were dropped.
func (st *Store) Sweep() int {
	if st.ttl <= 0 {
		return 0
	}
	cutoff := st.now().Add(-st.ttl)

	st.mu.Lock()
	defer st.mu.Unlock()

	dropped := 0
	for id, s := range st.sessions {
		if !s.idleSince(cutoff) {
			continue
		}
		// A locked editor is serving a request right now.
		if !s.mu.TryLock() {
			continue
		}
		dirty := s.editor.Document().Dirty
		s.mu.Unlock()

		delete(st.sessions, id)
		dropped++
		if dirty {
			st.logger.Warn("Dropped idle session with unsaved changes", zap.String("session_id", id))
		}
	}
	if dropped > 0 {
		st.logger.Info("Swept idle editor sessions", zap.Int("dropped", dropped))
	}
	return dropped
}
