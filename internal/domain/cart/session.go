package cart

import (
	"context"
	"time"

	"github.com/maftown/spitbraai/internal/domain/catalog"
)

// Session is the per-visitor ordering state.
type Session struct {
	ID       string
	Cart     Cart
	PrepMode catalog.PrepMode
	Touched  time.Time
}

// NewSession returns an empty session with the default preparation mode.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:       id,
		PrepMode: catalog.DefaultPrepMode,
		Touched:  now,
	}
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	c := *s
	c.Cart = s.Cart.Clone()
	return &c
}

// Store holds sessions. Implementations must run Update atomically with
// respect to other calls for the same id.
type Store interface {
	// Get returns a copy of the session, creating an empty one when absent.
	Get(ctx context.Context, id string) (*Session, error)
	// Update applies fn to the session under exclusive access and returns a
	// copy of the result. If fn fails the session is left unchanged.
	Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error)
	// Delete forgets the session.
	Delete(ctx context.Context, id string) error
}
