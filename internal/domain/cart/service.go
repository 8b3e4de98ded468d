package cart

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/maftown/spitbraai/internal/domain/catalog"
)

// ErrEmpty is returned by Drain when the cart has no lines.
var ErrEmpty = errors.New("cart is empty")

// Service runs cart operations against a visitor's session.
type Service struct {
	items catalog.Repository
	store Store

	adds    metric.Int64Counter
	removes metric.Int64Counter
}

// NewService creates a cart Service.
func NewService(items catalog.Repository, store Store, mp metric.MeterProvider) (*Service, error) {
	meter := mp.Meter("github.com/maftown/spitbraai/internal/domain/cart")

	adds, err := meter.Int64Counter("cart.adds",
		metric.WithDescription("Items added to carts"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "cart.adds counter")
	}
	removes, err := meter.Int64Counter("cart.removes",
		metric.WithDescription("Cart lines removed or cleared"),
	)
	if err != nil {
		return nil, errors.Wrap(err, "cart.removes counter")
	}

	return &Service{
		items:   items,
		store:   store,
		adds:    adds,
		removes: removes,
	}, nil
}

// View returns the current state of the session.
func (s *Service) View(ctx context.Context, sessionID string) (*Session, error) {
	return s.store.Get(ctx, sessionID)
}

// Add puts one unit of the item into the cart. A new line is tagged with the
// session's selected mode whatever its category.
func (s *Service) Add(ctx context.Context, sessionID, itemID string) (*Session, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, errors.Wrapf(err, "get item %q", itemID)
	}

	sess, err := s.store.Update(ctx, sessionID, func(sess *Session) error {
		m := sess.PrepMode
		sess.Cart.Add(*item, &m)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "update session")
	}

	s.adds.Add(ctx, 1, metric.WithAttributes(attribute.String("category", string(item.Category))))
	zctx.From(ctx).Debug("Item added to cart",
		zap.String("item_id", itemID),
		zap.Int("cart_units", sess.Cart.Count()),
	)
	return sess, nil
}

// SetQuantity replaces a line's quantity; zero removes the line.
func (s *Service) SetQuantity(ctx context.Context, sessionID, itemID string, quantity int) (*Session, error) {
	sess, err := s.store.Update(ctx, sessionID, func(sess *Session) error {
		return sess.Cart.SetQuantity(itemID, quantity)
	})
	if err != nil {
		return nil, err
	}
	if quantity == 0 {
		s.removes.Add(ctx, 1)
	}
	return sess, nil
}

// Remove deletes a line regardless of its quantity.
func (s *Service) Remove(ctx context.Context, sessionID, itemID string) (*Session, error) {
	sess, err := s.store.Update(ctx, sessionID, func(sess *Session) error {
		sess.Cart.Remove(itemID)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "update session")
	}
	s.removes.Add(ctx, 1)
	return sess, nil
}

// Clear empties the cart.
func (s *Service) Clear(ctx context.Context, sessionID string) (*Session, error) {
	var cleared int
	sess, err := s.store.Update(ctx, sessionID, func(sess *Session) error {
		cleared = sess.Cart.Len()
		sess.Cart.Clear()
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "update session")
	}
	if cleared > 0 {
		s.removes.Add(ctx, int64(cleared))
	}
	return sess, nil
}

// SetPrepMode selects the preparation mode for the session.
func (s *Service) SetPrepMode(ctx context.Context, sessionID string, mode catalog.PrepMode) (*Session, error) {
	if _, err := catalog.ParsePrepMode(string(mode)); err != nil {
		return nil, err
	}
	sess, err := s.store.Update(ctx, sessionID, func(sess *Session) error {
		sess.PrepMode = mode
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "update session")
	}
	return sess, nil
}

// Drain atomically empties the cart and returns the session as it was
// before clearing. An empty cart yields ErrEmpty and is left untouched.
func (s *Service) Drain(ctx context.Context, sessionID string) (*Session, error) {
	var before *Session
	_, err := s.store.Update(ctx, sessionID, func(sess *Session) error {
		if sess.Cart.IsEmpty() {
			return ErrEmpty
		}
		before = sess.Clone()
		sess.Cart.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.removes.Add(ctx, int64(before.Cart.Len()))
	return before, nil
}
