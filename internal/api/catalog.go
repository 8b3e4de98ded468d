package api

import (
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"

	"github.com/maftown/spitbraai/internal/domain/catalog"
	"github.com/maftown/spitbraai/pkg/httpmiddleware"
)

// listCatalog returns every item, hidden ones included, and the pricing tiers.
func (h *Handler) listCatalog(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context())
	if err != nil {
		internalError(w, r, errors.Wrap(err, "list items"))
		return
	}

	var e jx.Encoder
	e.ObjStart()
	e.FieldStart("items")
	e.ArrStart()
	for _, it := range items {
		encodeItem(&e, it)
	}
	e.ArrEnd()
	e.FieldStart("tiers")
	encodeTiers(&e, h.tiers)
	e.ObjEnd()
	writeJSON(w, http.StatusOK, &e)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	it, err := h.items.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			httpmiddleware.WriteError(w, http.StatusNotFound, "item not found")
			return
		}
		internalError(w, r, errors.Wrap(err, "get item"))
		return
	}

	var e jx.Encoder
	encodeItem(&e, *it)
	writeJSON(w, http.StatusOK, &e)
}
