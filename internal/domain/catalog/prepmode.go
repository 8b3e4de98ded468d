package catalog

import "github.com/go-faster/errors"

// PrepMode is how a spitbraai is cooked.
type PrepMode string

const (
	PrepCharcoal PrepMode = "charcoal"
	PrepGas      PrepMode = "gas"
)

// DefaultPrepMode is selected for new sessions.
const DefaultPrepMode = PrepCharcoal

// PrepModes lists the modes in selector order.
var PrepModes = []PrepMode{PrepCharcoal, PrepGas}

// ErrUnknownPrepMode is returned by ParsePrepMode for unrecognised input.
var ErrUnknownPrepMode = errors.New("unknown preparation mode")

// ParsePrepMode converts s into a PrepMode.
func ParsePrepMode(s string) (PrepMode, error) {
	switch m := PrepMode(s); m {
	case PrepCharcoal, PrepGas:
		return m, nil
	default:
		return "", errors.Wrapf(ErrUnknownPrepMode, "%q", s)
	}
}

// Label is the selector and summary label.
func (m PrepMode) Label() string {
	if m == PrepGas {
		return "Gas Spitbraai"
	}
	return "Charcoal/Firewood"
}

// Short is the compact badge label used on cards.
func (m PrepMode) Short() string {
	if m == PrepGas {
		return "Gas"
	}
	return "Charcoal"
}

// Title is the heading of the pricing panel.
func (m PrepMode) Title() string {
	if m == PrepGas {
		return "Gas Spitbraai"
	}
	return "Charcoal/Firewood Spitbraai"
}

// Blurb describes the mode on the pricing panel.
func (m PrepMode) Blurb() string {
	if m == PrepGas {
		return "Clean, convenient cooking with consistent heat control. " +
			"Ideal for venues with restrictions or when you need precise temperature management."
	}
	return "Traditional authentic flavor with charcoal or firewood. " +
		"Perfect for that authentic South African braai experience with smoky, rich flavors."
}

// SummaryLabel is used in the cart line badge and checkout summary.
func (m PrepMode) SummaryLabel() string {
	if m == PrepGas {
		return "Gas"
	}
	return "Charcoal/Firewood"
}

// MessageLabel is the label written into the order message.
func (m PrepMode) MessageLabel() string {
	if m == PrepGas {
		return "Gas ⚡"
	}
	return "Charcoal/Firewood 🔥"
}

// Inclusion is the extra "What's Included" line for spitbraai items.
func (m PrepMode) Inclusion() string {
	if m == PrepGas {
		return "Gas cooking for consistent heat control"
	}
	return "Charcoal/firewood cooking for authentic flavor"
}
