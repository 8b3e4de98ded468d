package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/maftown/spitbraai/internal/domain/cart"
	"github.com/maftown/spitbraai/internal/domain/catalog"
	"github.com/maftown/spitbraai/pkg/httpmiddleware"
)

func (h *Handler) writeSession(w http.ResponseWriter, status int, sess *cart.Session) {
	var e jx.Encoder
	encodeSession(&e, sess)
	writeJSON(w, status, &e)
}

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	id, ok := h.cookies.ID(r)
	if !ok {
		h.writeSession(w, http.StatusOK, cart.NewSession("", zeroTime))
		return
	}
	sess, err := h.carts.View(r.Context(), id)
	if err != nil {
		internalError(w, r, errors.Wrap(err, "view cart"))
		return
	}
	h.writeSession(w, http.StatusOK, sess)
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	var itemID string
	if err := decodeObject(r, func(d *jx.Decoder, key string) error {
		if key != "itemId" {
			return d.Skip()
		}
		v, err := d.Str()
		itemID = v
		return err
	}); err != nil || itemID == "" {
		httpmiddleware.WriteError(w, http.StatusBadRequest, "itemId required")
		return
	}

	sess, err := h.carts.Add(r.Context(), h.cookies.Ensure(w, r), itemID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			httpmiddleware.WriteError(w, http.StatusNotFound, "item not found")
			return
		}
		internalError(w, r, errors.Wrap(err, "add item"))
		return
	}
	h.writeSession(w, http.StatusOK, sess)
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	quantity, seen := 0, false
	if err := decodeObject(r, func(d *jx.Decoder, key string) error {
		if key != "quantity" {
			return d.Skip()
		}
		v, err := d.Int()
		quantity, seen = v, true
		return err
	}); err != nil || !seen {
		httpmiddleware.WriteError(w, http.StatusBadRequest, "quantity required")
		return
	}

	sess, err := h.carts.SetQuantity(r.Context(), h.cookies.Ensure(w, r), r.PathValue("id"), quantity)
	if err != nil {
		var iq *cart.InvalidQuantityError
		if errors.As(err, &iq) {
			httpmiddleware.WriteError(w, http.StatusUnprocessableEntity, iq.Error())
			return
		}
		internalError(w, r, errors.Wrap(err, "set quantity"))
		return
	}
	h.writeSession(w, http.StatusOK, sess)
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	sess, err := h.carts.Remove(r.Context(), h.cookies.Ensure(w, r), r.PathValue("id"))
	if err != nil {
		internalError(w, r, errors.Wrap(err, "remove item"))
		return
	}
	h.writeSession(w, http.StatusOK, sess)
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	sess, err := h.carts.Clear(r.Context(), h.cookies.Ensure(w, r))
	if err != nil {
		internalError(w, r, errors.Wrap(err, "clear cart"))
		return
	}
	h.writeSession(w, http.StatusOK, sess)
}

func (h *Handler) setPrepMode(w http.ResponseWriter, r *http.Request) {
	var raw string
	if err := decodeObject(r, func(d *jx.Decoder, key string) error {
		if key != "mode" {
			return d.Skip()
		}
		v, err := d.Str()
		raw = v
		return err
	}); err != nil {
		httpmiddleware.WriteError(w, http.StatusBadRequest, "mode required")
		return
	}
	mode, err := catalog.ParsePrepMode(raw)
	if err != nil {
		httpmiddleware.WriteError(w, http.StatusBadRequest, "mode must be charcoal or gas")
		return
	}

	sess, err := h.carts.SetPrepMode(r.Context(), h.cookies.Ensure(w, r), mode)
	if err != nil {
		internalError(w, r, errors.Wrap(err, "set prep mode"))
		return
	}
	h.writeSession(w, http.StatusOK, sess)
}
