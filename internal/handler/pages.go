package handler

import (
	"net/http"

	"github.com/go-faster/errors"

	"github.com/maftown/spitbraai/internal/domain/cart"
	"github.com/maftown/spitbraai/internal/domain/catalog"
)

func (h *Handler) home(w http.ResponseWriter, r *http.Request) {
	h.renderHome(w, r, http.StatusOK, contactForm{})
}

func (h *Handler) renderHome(w http.ResponseWriter, r *http.Request, status int, form contactForm) {
	ctx := r.Context()
	sess, err := h.current(ctx, r)
	if err != nil {
		h.fail(w, r, errors.Wrap(err, "load session"))
		return
	}
	items, err := h.items.List(ctx)
	if err != nil {
		h.fail(w, r, errors.Wrap(err, "list items"))
		return
	}

	v := homeView{
		layoutView: h.layout(h.site.Business, sess, r.URL.Query().Get("notice")),
		Mode:       sess.PrepMode,
		Sections:   catalog.GroupByCategory(items),
		Contact:    form,
	}
	for _, m := range catalog.PrepModes {
		v.Modes = append(v.Modes, modeView{
			Mode:     m,
			Selected: m == sess.PrepMode,
			Tiers:    h.tiers[m],
		})
	}
	h.render(w, r, status, "home", v)
}

func (h *Handler) item(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := h.current(ctx, r)
	if err != nil {
		h.fail(w, r, errors.Wrap(err, "load session"))
		return
	}
	it, err := h.items.GetByID(ctx, r.PathValue("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "Item not found", http.StatusNotFound)
			return
		}
		h.fail(w, r, errors.Wrap(err, "get item"))
		return
	}

	mode := sess.PrepMode
	h.render(w, r, http.StatusOK, "item", itemView{
		layoutView: h.layout(it.Name, sess, r.URL.Query().Get("notice")),
		Item:       *it,
		Mode:       mode,
		ShowMode:   it.Category.SupportsPrepMode(),
		Inclusions: catalog.Inclusions(it.Category, &mode),
	})
}

func (h *Handler) cart(w http.ResponseWriter, r *http.Request) {
	sess, err := h.current(r.Context(), r)
	if err != nil {
		h.fail(w, r, errors.Wrap(err, "load session"))
		return
	}
	h.render(w, r, http.StatusOK, "cart", h.newCartView("Your Cart", sess, r.URL.Query().Get("notice")))
}

func (h *Handler) checkout(w http.ResponseWriter, r *http.Request) {
	sess, err := h.current(r.Context(), r)
	if err != nil {
		h.fail(w, r, errors.Wrap(err, "load session"))
		return
	}
	if sess.Cart.IsEmpty() {
		h.redirect(w, r, "/cart?notice=empty")
		return
	}
	h.renderCheckout(w, r, http.StatusOK, sess, checkoutView{})
}

func (h *Handler) renderCheckout(w http.ResponseWriter, r *http.Request, status int, sess *cart.Session, v checkoutView) {
	v.cartView = h.newCartView("Checkout", sess, "")
	h.render(w, r, status, "checkout", v)
}
