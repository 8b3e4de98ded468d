package api

import (
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/maftown/spitbraai/internal/domain/cart"
	"github.com/maftown/spitbraai/internal/domain/catalog"
)

func encodeAmount(e *jx.Encoder, d decimal.Decimal) {
	e.Num(jx.Num(d.String()))
}

func encodeItem(e *jx.Encoder, it catalog.Item) {
	e.ObjStart()
	e.FieldStart("id")
	e.Str(it.ID)
	e.FieldStart("name")
	e.Str(it.Name)
	e.FieldStart("description")
	e.Str(it.Description)
	e.FieldStart("price")
	encodeAmount(e, it.Price)
	e.FieldStart("image")
	e.Str(it.Image)
	e.FieldStart("category")
	e.Str(string(it.Category))
	if it.Servings != "" {
		e.FieldStart("servings")
		e.Str(it.Servings)
	}
	e.FieldStart("hidden")
	e.Bool(it.Hidden)
	e.ObjEnd()
}

func encodeTiers(e *jx.Encoder, tiers map[catalog.PrepMode][]catalog.Tier) {
	e.ObjStart()
	for _, m := range catalog.PrepModes {
		ts, ok := tiers[m]
		if !ok {
			continue
		}
		e.FieldStart(string(m))
		e.ArrStart()
		for _, t := range ts {
			e.ObjStart()
			e.FieldStart("name")
			e.Str(t.Name)
			e.FieldStart("price")
			if t.Price == nil {
				e.Null()
			} else {
				encodeAmount(e, *t.Price)
			}
			e.ObjEnd()
		}
		e.ArrEnd()
	}
	e.ObjEnd()
}

// encodeSession writes the cart view of a session. Each line carries the
// prep mode recorded when it was first added.
func encodeSession(e *jx.Encoder, sess *cart.Session) {
	e.ObjStart()
	e.FieldStart("prepMode")
	e.Str(string(sess.PrepMode))
	e.FieldStart("lines")
	e.ArrStart()
	for _, l := range sess.Cart.Lines() {
		e.ObjStart()
		e.FieldStart("item")
		encodeItem(e, l.Item)
		e.FieldStart("quantity")
		e.Int(l.Quantity)
		if l.PrepMode != nil {
			e.FieldStart("prepMode")
			e.Str(string(*l.PrepMode))
		}
		e.FieldStart("subtotal")
		encodeAmount(e, l.Subtotal())
		e.ObjEnd()
	}
	e.ArrEnd()
	e.FieldStart("count")
	e.Int(sess.Cart.Count())
	e.FieldStart("total")
	encodeAmount(e, sess.Cart.Total())
	e.ObjEnd()
}
