package order

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"

	"github.com/maftown/spitbraai/internal/domain/cart"
	"github.com/maftown/spitbraai/internal/domain/catalog"
)

// ErrEmptyCart is returned when checking out a cart with no lines.
var ErrEmptyCart = errors.New("cart is empty")

// Carts is the cart access checkout needs.
type Carts interface {
	Drain(ctx context.Context, sessionID string) (*cart.Session, error)
}

// Config holds the hand-off target and message text.
type Config struct {
	// LinkBase is the messaging deep-link origin, e.g. https://wa.me.
	LinkBase string
	// Number is the business number that receives orders.
	Number   string
	Template Template
}

// Handoff is the result of a successful checkout: the message and the link
// that opens it in the messaging service.
type Handoff struct {
	Message  string
	Link     string
	Lines    []cart.Line
	Total    decimal.Decimal
	PrepMode catalog.PrepMode
}
