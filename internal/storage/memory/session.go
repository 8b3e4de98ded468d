// Package memory provides process-local storage for visitor sessions.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/errors"

	"github.com/maftown/spitbraai/internal/domain/cart"
)

var _ cart.Store = (*SessionStore)(nil)

// SessionStoreConfig configures session expiry.
type SessionStoreConfig struct {
	// TTL is how long an untouched session is kept.
	TTL time.Duration
	// MaxSessions caps the number of live sessions. When a new session would
	// exceed it, the least recently touched session is evicted. Zero means
	// no cap.
	MaxSessions int
}

// SessionStore keeps sessions in a map guarded by a single mutex. Sessions
// are handed out as copies so callers never share state with the store.
type SessionStore struct {
	cfg SessionStoreConfig
	now func() time.Time

	mu       sync.Mutex
	sessions map[string]*cart.Session
}

// NewSessionStore creates an empty SessionStore.
func NewSessionStore(cfg SessionStoreConfig) *SessionStore {
	return &SessionStore{
		cfg:      cfg,
		now:      time.Now,
		sessions: make(map[string]*cart.Session),
	}
}

// Get returns a copy of the session, or a fresh empty session when the id
// is unknown or expired. Reading does not create or extend a session.
func (s *SessionStore) Get(_ context.Context, id string) (*cart.Session, error) {
	if id == "" {
		return nil, errors.New("empty session id")
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.live(id, now)
	if !ok {
		return cart.NewSession(id, now), nil
	}
	return sess.Clone(), nil
}

// Update applies fn to a working copy of the session and commits it only
// when fn succeeds.
func (s *SessionStore) Update(_ context.Context, id string, fn func(*cart.Session) error) (*cart.Session, error) {
	if id == "" {
		return nil, errors.New("empty session id")
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	var work *cart.Session
	if sess, ok := s.live(id, now); ok {
		work = sess.Clone()
	} else {
		work = cart.NewSession(id, now)
	}

	if err := fn(work); err != nil {
		return nil, err
	}

	work.Touched = now
	if _, exists := s.sessions[id]; !exists {
		s.makeRoom()
	}
	s.sessions[id] = work
	return work.Clone(), nil
}

// Delete forgets the session.
func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

// Len returns the number of stored sessions, expired ones included until
// the next sweep.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Sweep removes expired sessions and returns how many were dropped.
func (s *SessionStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for id, sess := range s.sessions {
		if s.expired(sess, now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps expired sessions every interval until ctx is done.
func (s *SessionStore) Run(ctx context.Context, interval time.Duration, onSweep func(removed int)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := s.Sweep(); n > 0 && onSweep != nil {
				onSweep(n)
			}
		}
	}
}

// live returns the stored session if present and not expired. Caller holds mu.
func (s *SessionStore) live(id string, now time.Time) (*cart.Session, bool) {
	sess, ok := s.sessions[id]
	if !ok {
		return nil, false
	}
	if s.expired(sess, now) {
		delete(s.sessions, id)
		return nil, false
	}
	return sess, true
}

func (s *SessionStore) expired(sess *cart.Session, now time.Time) bool {
	return s.cfg.TTL > 0 && now.Sub(sess.Touched) >= s.cfg.TTL
}

// makeRoom evicts the least recently touched session when the store is at
// capacity. Caller holds mu.
func (s *SessionStore) makeRoom() {
	if s.cfg.MaxSessions <= 0 || len(s.sessions) < s.cfg.MaxSessions {
		return
	}
	var (
		oldestID string
		oldest   time.Time
	)
	for id, sess := range s.sessions {
		if oldestID == "" || sess.Touched.Before(oldest) {
			oldestID, oldest = id, sess.Touched
		}
	}
	delete(s.sessions, oldestID)
}
