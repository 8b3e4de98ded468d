package memory

import (
	"context"
	"testing"
	"time"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maftown/spitbraai/internal/domain/cart"
	"github.com/maftown/spitbraai/internal/domain/catalog"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time { return c.t }

func newTestStore(cfg SessionStoreConfig) (*SessionStore, *fakeClock) {
	clock := &fakeClock{t: time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)}
	s := NewSessionStore(cfg)
	s.now = clock.now
	return s, clock
}

var lamb = catalog.Item{ID: "1", Name: "Lamb", Price: decimal.NewFromInt(2500), Category: catalog.CategorySpitbraai}

func addLamb(s *cart.Session) error {
	s.Cart.Add(lamb, nil)
	return nil
}

func TestSessionStore_GetUnknownReturnsEmpty(t *testing.T) {
	s, _ := newTestStore(SessionStoreConfig{TTL: time.Hour})

	sess, err := s.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", sess.ID)
	assert.True(t, sess.Cart.IsEmpty())
	assert.Equal(t, catalog.DefaultPrepMode, sess.PrepMode)
	assert.Equal(t, 0, s.Len(), "reading must not create a session")
}

func TestSessionStore_UpdatePersists(t *testing.T) {
	s, _ := newTestStore(SessionStoreConfig{TTL: time.Hour})
	ctx := context.Background()

	_, err := s.Update(ctx, "abc", addLamb)
	require.NoError(t, err)
	_, err = s.Update(ctx, "abc", addLamb)
	require.NoError(t, err)

	sess, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	l, ok := sess.Cart.Line("1")
	require.True(t, ok)
	assert.Equal(t, 2, l.Quantity)
}

func TestSessionStore_ReturnsCopies(t *testing.T) {
	s, _ := newTestStore(SessionStoreConfig{TTL: time.Hour})
	ctx := context.Background()

	got, err := s.Update(ctx, "abc", addLamb)
	require.NoError(t, err)
	got.Cart.Clear()

	sess, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Cart.Len())
}

func TestSessionStore_FailedUpdateLeavesSession(t *testing.T) {
	s, _ := newTestStore(SessionStoreConfig{TTL: time.Hour})
	ctx := context.Background()

	_, err := s.Update(ctx, "abc", addLamb)
	require.NoError(t, err)

	boom := errors.New("boom")
	_, err = s.Update(ctx, "abc", func(sess *cart.Session) error {
		sess.Cart.Clear()
		return boom
	})
	require.ErrorIs(t, err, boom)

	sess, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Cart.Len())
}

func TestSessionStore_Isolation(t *testing.T) {
	s, _ := newTestStore(SessionStoreConfig{TTL: time.Hour})
	ctx := context.Background()

	_, err := s.Update(ctx, "a", addLamb)
	require.NoError(t, err)

	other, err := s.Get(ctx, "b")
	require.NoError(t, err)
	assert.True(t, other.Cart.IsEmpty())
}

func TestSessionStore_Expiry(t *testing.T) {
	s, clock := newTestStore(SessionStoreConfig{TTL: time.Hour})
	ctx := context.Background()

	_, err := s.Update(ctx, "abc", addLamb)
	require.NoError(t, err)

	clock.t = clock.t.Add(59 * time.Minute)
	sess, err := s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, 1, sess.Cart.Len())

	clock.t = clock.t.Add(2 * time.Minute)
	sess, err = s.Get(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, sess.Cart.IsEmpty())
}

func TestSessionStore_Sweep(t *testing.T) {
	s, clock := newTestStore(SessionStoreConfig{TTL: time.Hour})
	ctx := context.Background()

	_, err := s.Update(ctx, "old", addLamb)
	require.NoError(t, err)
	clock.t = clock.t.Add(30 * time.Minute)
	_, err = s.Update(ctx, "new", addLamb)
	require.NoError(t, err)

	clock.t = clock.t.Add(45 * time.Minute)
	assert.Equal(t, 1, s.Sweep())
	assert.Equal(t, 1, s.Len())
}

func TestSessionStore_MaxSessionsEvictsOldest(t *testing.T) {
	s, clock := newTestStore(SessionStoreConfig{TTL: time.Hour, MaxSessions: 2})
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c"} {
		_, err := s.Update(ctx, id, addLamb)
		require.NoError(t, err)
		clock.t = clock.t.Add(time.Second)
	}

	assert.Equal(t, 2, s.Len())
	sess, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.True(t, sess.Cart.IsEmpty(), "oldest session should be evicted")
}

func TestSessionStore_EmptyID(t *testing.T) {
	s, _ := newTestStore(SessionStoreConfig{})
	_, err := s.Get(context.Background(), "")
	require.Error(t, err)
	_, err = s.Update(context.Background(), "", addLamb)
	require.Error(t, err)
}

func TestSessionStore_RunStopsOnCancel(t *testing.T) {
	s, _ := newTestStore(SessionStoreConfig{TTL: time.Hour})
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, time.Millisecond, nil) }()
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}
