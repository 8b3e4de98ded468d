package handler

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-faster/errors"

	"github.com/maftown/spitbraai/internal/domain/cart"
	"github.com/maftown/spitbraai/internal/domain/catalog"
	"github.com/maftown/spitbraai/internal/domain/contact"
	"github.com/maftown/spitbraai/internal/domain/order"
)

// withNotice adds the notice key to a local path, keeping its fragment.
func withNotice(path, notice string) string {
	u, err := url.Parse(path)
	if err != nil {
		return path
	}
	q := u.Query()
	q.Set("notice", notice)
	u.RawQuery = q.Encode()
	return u.String()
}

func (h *Handler) addItem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := h.cookies.Ensure(w, r)
	if _, err := h.carts.Add(ctx, sid, r.FormValue("item_id")); err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "Item not found", http.StatusNotFound)
			return
		}
		h.fail(w, r, errors.Wrap(err, "add item"))
		return
	}
	h.redirect(w, r, withNotice(localPath(r.FormValue("return"), "/cart"), "added"))
}

func (h *Handler) setQuantity(w http.ResponseWriter, r *http.Request) {
	q, err := strconv.Atoi(r.FormValue("quantity"))
	if err != nil {
		http.Error(w, "Invalid quantity", http.StatusBadRequest)
		return
	}

	sid := h.cookies.Ensure(w, r)
	if _, err := h.carts.SetQuantity(r.Context(), sid, r.PathValue("id"), q); err != nil {
		var iq *cart.InvalidQuantityError
		if errors.As(err, &iq) {
			http.Error(w, "Invalid quantity", http.StatusBadRequest)
			return
		}
		h.fail(w, r, errors.Wrap(err, "set quantity"))
		return
	}
	h.redirect(w, r, "/cart")
}

func (h *Handler) removeItem(w http.ResponseWriter, r *http.Request) {
	sid := h.cookies.Ensure(w, r)
	if _, err := h.carts.Remove(r.Context(), sid, r.PathValue("id")); err != nil {
		h.fail(w, r, errors.Wrap(err, "remove item"))
		return
	}
	h.redirect(w, r, "/cart")
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	sid := h.cookies.Ensure(w, r)
	if _, err := h.carts.Clear(r.Context(), sid); err != nil {
		h.fail(w, r, errors.Wrap(err, "clear cart"))
		return
	}
	h.redirect(w, r, withNotice("/cart", "cleared"))
}

func (h *Handler) setPrepMode(w http.ResponseWriter, r *http.Request) {
	mode, err := catalog.ParsePrepMode(r.FormValue("mode"))
	if err != nil {
		http.Error(w, "Unknown spitbraai type", http.StatusBadRequest)
		return
	}
	sid := h.cookies.Ensure(w, r)
	if _, err := h.carts.SetPrepMode(r.Context(), sid, mode); err != nil {
		h.fail(w, r, errors.Wrap(err, "set prep mode"))
		return
	}
	h.redirect(w, r, localPath(r.FormValue("return"), "/#menu"))
}

func (h *Handler) submitContact(w http.ResponseWriter, r *http.Request) {
	q := contact.Inquiry{
		Name:    r.FormValue("name"),
		Phone:   r.FormValue("phone"),
		Message: r.FormValue("message"),
	}
	if err := h.inquiries.Submit(r.Context(), q); err != nil {
		var inv *contact.InvalidError
		if !errors.As(err, &inv) {
			h.fail(w, r, errors.Wrap(err, "submit inquiry"))
			return
		}
		h.renderHome(w, r, http.StatusUnprocessableEntity, contactForm{
			Name:    q.Name,
			Phone:   q.Phone,
			Message: q.Message,
			Error:   contactError(inv),
		})
		return
	}
	h.redirect(w, r, "/?notice=contact#contact")
}

func contactError(inv *contact.InvalidError) string {
	for _, f := range inv.Fields {
		if f == "message" {
			return "Please keep your message under " + strconv.Itoa(contact.MaxMessageLen) + " characters."
		}
	}
	return alertMissingDetails
}

func (h *Handler) submitCheckout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sid := h.cookies.Ensure(w, r)
	c := order.Customer{
		Name:    r.FormValue("name"),
		Phone:   r.FormValue("phone"),
		Email:   r.FormValue("email"),
		Address: r.FormValue("address"),
	}

	handoff, err := h.orders.Checkout(ctx, sid, c)
	var missing *order.MissingFieldError
	switch {
	case err == nil:
	case errors.As(err, &missing):
		sess, err := h.carts.View(ctx, sid)
		if err != nil {
			h.fail(w, r, errors.Wrap(err, "load session"))
			return
		}
		h.renderCheckout(w, r, http.StatusUnprocessableEntity, sess, checkoutView{
			Customer: c,
			Error:    alertMissingDetails,
		})
		return
	case errors.Is(err, order.ErrEmptyCart):
		h.redirect(w, r, withNotice("/cart", "empty"))
		return
	default:
		h.fail(w, r, errors.Wrap(err, "checkout"))
		return
	}

	h.redirect(w, r, handoff.Link)
}
