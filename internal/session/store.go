// internal/session/store.go
package session

import (
	"sync"
	"time"

	apperrors "voice-intent/internal/common/errors"
	"voice-intent/internal/common/logger"
	"voice-intent/internal/common/metrics"
)

// DefaultTTL is how long a session survives without activity.
const DefaultTTL = 10 * time.Minute

// Store is the session context contract used by the intent pipeline.
type Store interface {
	// Get returns the state for sessionID, creating a fresh one when the
	// session is unknown or its TTL has lapsed.
	Get(sessionID string) *State
	// UpdateIntent records the latest resolved intent and merges its slots
	// into the session, returning the updated state.
	UpdateIntent(sessionID, intent string, slots map[string]string) *State
	// SetPending stores the caller-computed continuity fields: the slots
	// still required, the confirmation flag, and the retry counter. The
	// judgment behind them belongs to the caller; the store only persists
	// them across turns.
	SetPending(sessionID string, pending []string, confirmationRequired bool, retryCount int) *State
	// Reset discards any state held for sessionID.
	Reset(sessionID string)
	// Cleanup removes all expired sessions and reports how many it dropped.
	Cleanup() int
	// Len reports the number of live sessions, expired entries included
	// until the next Get or Cleanup touches them.
	Len() int
}

// Mirror receives best-effort copies of session writes. Failures are logged
// and never surfaced to callers; the in-memory store stays authoritative.
type Mirror interface {
	Save(state *State, ttl time.Duration) error
	Delete(sessionID string) error
}

// MemoryStore is a mutex-guarded in-memory Store with per-session TTL.
// Expiry is lazy on Get plus an explicit Cleanup sweep.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*State

	ttl    time.Duration
	now    func() time.Time
	mirror Mirror
	log    logger.Logger
}

// Option customizes a MemoryStore.
type Option func(*MemoryStore)

// WithClock overrides the time source, used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *MemoryStore) { s.now = now }
}

// WithMirror attaches a write-through mirror.
func WithMirror(m Mirror) Option {
	return func(s *MemoryStore) { s.mirror = m }
}

// NewMemoryStore creates a store with the given TTL; ttl <= 0 falls back to
// DefaultTTL.
func NewMemoryStore(ttl time.Duration, log logger.Logger, opts ...Option) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	s := &MemoryStore{
		sessions: make(map[string]*State),
		ttl:      ttl,
		now:      time.Now,
		log:      log.With(map[string]interface{}{"component": "session"}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *MemoryStore) Get(sessionID string) *State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getLocked(sessionID).clone()
}

// getLocked returns the live state for sessionID, replacing expired or
// missing entries with a fresh one. Caller holds s.mu.
func (s *MemoryStore) getLocked(sessionID string) *State {
	now := s.now()
	if st, ok := s.sessions[sessionID]; ok {
		if now.Sub(st.LastUpdated) <= s.ttl {
			return st
		}
		delete(s.sessions, sessionID)
		metrics.SessionsExpired.Inc()
		s.log.Debug("session expired", map[string]interface{}{"sessionId": sessionID})
	}

	st := &State{
		SessionID:   sessionID,
		CreatedAt:   now,
		LastUpdated: now,
		FilledSlots: make(map[string]string),
	}
	s.sessions[sessionID] = st
	metrics.SessionsActive.Set(float64(len(s.sessions)))
	return st
}

func (s *MemoryStore) UpdateIntent(sessionID, intent string, slots map[string]string) *State {
	s.mu.Lock()
	st := s.getLocked(sessionID)
	st.LastIntent = intent
	for name, value := range slots {
		st.FilledSlots[name] = value
	}
	st.LastUpdated = s.now()
	out := st.clone()
	s.mu.Unlock()

	s.mirrorSave(out)
	return out
}

func (s *MemoryStore) SetPending(sessionID string, pending []string, confirmationRequired bool, retryCount int) *State {
	s.mu.Lock()
	st := s.getLocked(sessionID)
	st.PendingSlots = append([]string(nil), pending...)
	st.ConfirmationRequired = confirmationRequired
	st.RetryCount = retryCount
	st.LastUpdated = s.now()
	out := st.clone()
	s.mu.Unlock()

	s.mirrorSave(out)
	return out
}

func (s *MemoryStore) Reset(sessionID string) {
	s.mu.Lock()
	if _, ok := s.sessions[sessionID]; ok {
		delete(s.sessions, sessionID)
		metrics.SessionsActive.Set(float64(len(s.sessions)))
	}
	s.mu.Unlock()

	if s.mirror != nil {
		if err := s.mirror.Delete(sessionID); err != nil {
			s.log.WithError(err).Warn("session mirror delete failed", map[string]interface{}{
				"sessionId": sessionID,
			})
		}
	}
}

func (s *MemoryStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, st := range s.sessions {
		if now.Sub(st.LastUpdated) > s.ttl {
			delete(s.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		metrics.SessionsExpired.Add(float64(removed))
		metrics.SessionsActive.Set(float64(len(s.sessions)))
		s.log.Debug("session sweep", map[string]interface{}{"removed": removed})
	}
	return removed
}

func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *MemoryStore) mirrorSave(st *State) {
	if s.mirror == nil {
		return
	}
	if err := s.mirror.Save(st, s.ttl); err != nil {
		s.log.WithError(apperrors.NewSessionMirrorError(st.SessionID, err)).Warn("session mirror write failed", nil)
	}
}
