package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/maftown/spitbraai/internal/domain/order"
	"github.com/maftown/spitbraai/pkg/httpmiddleware"
)

var zeroTime time.Time

// checkout hands the cart off. The response carries the message and the
// link the client should open; the cart is emptied on success.
func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	var c order.Customer
	if err := decodeObject(r, func(d *jx.Decoder, key string) error {
		var dst *string
		switch key {
		case "name":
			dst = &c.Name
		case "phone":
			dst = &c.Phone
		case "email":
			dst = &c.Email
		case "address":
			dst = &c.Address
		default:
			return d.Skip()
		}
		if d.Next() == jx.Null {
			return d.Null()
		}
		v, err := d.Str()
		*dst = v
		return err
	}); err != nil {
		httpmiddleware.WriteError(w, http.StatusBadRequest, "invalid customer details")
		return
	}

	handoff, err := h.orders.Checkout(r.Context(), h.cookies.Ensure(w, r), c)
	if err != nil {
		var missing *order.MissingFieldError
		switch {
		case errors.As(err, &missing):
			httpmiddleware.WriteError(w, http.StatusUnprocessableEntity,
				"missing required fields: "+strings.Join(missing.Fields, ", "))
		case errors.Is(err, order.ErrEmptyCart):
			httpmiddleware.WriteError(w, http.StatusUnprocessableEntity, "cart is empty")
		default:
			internalError(w, r, errors.Wrap(err, "checkout"))
		}
		return
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("link")
	e.Str(handoff.Link)
	e.FieldStart("message")
	e.Str(handoff.Message)
	e.FieldStart("prepMode")
	e.Str(string(handoff.PrepMode))
	e.FieldStart("total")
	encodeAmount(&e, handoff.Total)
	e.ObjEnd()
	writeJSON(w, http.StatusOK, &e)
}
