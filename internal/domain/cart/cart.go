package cart

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/maftown/spitbraai/internal/domain/catalog"
)

// InvalidQuantityError indicates a negative quantity was requested for a line.
type InvalidQuantityError struct {
	ItemID   string
	Quantity int
}

func (e *InvalidQuantityError) Error() string {
	return fmt.Sprintf("invalid quantity %d for item %s", e.Quantity, e.ItemID)
}

// Line is a catalog item paired with a requested quantity.
type Line struct {
	Item     catalog.Item
	Quantity int
	// PrepMode is the preparation mode recorded when the line was created,
	// nil when none was given.
	PrepMode *catalog.PrepMode
}

// Subtotal is unit price × quantity.
func (l Line) Subtotal() decimal.Decimal {
	return l.Item.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Cart aggregates lines keyed by item id. Lines keep insertion order for
// display; a present line always has a quantity of at least one.
//
// The zero value is an empty cart ready to use.
type Cart struct {
	lines []Line
}

// Add increments the line for item by one, or appends a new line with
// quantity one. tag is recorded only when a new line is created.
func (c *Cart) Add(item catalog.Item, tag *catalog.PrepMode) {
	if i := c.index(item.ID); i >= 0 {
		c.lines[i].Quantity++
		return
	}
	l := Line{Item: item, Quantity: 1}
	if tag != nil {
		m := *tag
		l.PrepMode = &m
	}
	c.lines = append(c.lines, l)
}

// SetQuantity replaces the quantity of the line for id. Zero removes the
// line; a missing line is left alone.
func (c *Cart) SetQuantity(id string, quantity int) error {
	if quantity < 0 {
		return &InvalidQuantityError{ItemID: id, Quantity: quantity}
	}
	if quantity == 0 {
		c.Remove(id)
		return nil
	}
	if i := c.index(id); i >= 0 {
		c.lines[i].Quantity = quantity
	}
	return nil
}

// Remove deletes the line for id if present.
func (c *Cart) Remove(id string) {
	i := c.index(id)
	if i < 0 {
		return
	}
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Total is the sum of unit price × quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Count is the number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

// Len is the number of distinct lines.
func (c *Cart) Len() int {
	return len(c.lines)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.lines) == 0
}

// Line returns the line for id.
func (c *Cart) Line(id string) (Line, bool) {
	if i := c.index(id); i >= 0 {
		return c.lines[i], true
	}
	return Line{}, false
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Clone returns an independent copy of the cart.
func (c *Cart) Clone() Cart {
	return Cart{lines: c.Lines()}
}

func (c *Cart) index(id string) int {
	for i := range c.lines {
		if c.lines[i].Item.ID == id {
			return i
		}
	}
	return -1
}
