// Package api exposes the catalog, cart and checkout over JSON.
package api

import (
	"io"
	"net/http"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/maftown/spitbraai/internal/domain/cart"
	"github.com/maftown/spitbraai/internal/domain/catalog"
	"github.com/maftown/spitbraai/internal/domain/order"
	"github.com/maftown/spitbraai/internal/session"
	"github.com/maftown/spitbraai/pkg/httpmiddleware"
)

// maxBody bounds request bodies.
const maxBody = 16 << 10

// HandlerConfig holds the Handler dependencies.
type HandlerConfig struct {
	Items   catalog.Repository
	Tiers   map[catalog.PrepMode][]catalog.Tier
	Carts   *cart.Service
	Orders  *order.Service
	Cookies *session.Cookies
}

// Handler serves the /api routes. Sessions are shared with the site through
// the same cookie.
type Handler struct {
	items   catalog.Repository
	tiers   map[catalog.PrepMode][]catalog.Tier
	carts   *cart.Service
	orders  *order.Service
	cookies *session.Cookies
}

// NewHandler constructs a Handler.
func NewHandler(cfg HandlerConfig) *Handler {
	return &Handler{
		items:   cfg.Items,
		tiers:   cfg.Tiers,
		carts:   cfg.Carts,
		orders:  cfg.Orders,
		cookies: cfg.Cookies,
	}
}

// Register adds the API routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/catalog", h.listCatalog)
	mux.HandleFunc("GET /api/catalog/{id}", h.getItem)

	mux.HandleFunc("GET /api/cart", h.getCart)
	mux.HandleFunc("DELETE /api/cart", h.clearCart)
	mux.HandleFunc("POST /api/cart/items", h.addItem)
	mux.HandleFunc("PATCH /api/cart/items/{id}", h.setQuantity)
	mux.HandleFunc("DELETE /api/cart/items/{id}", h.removeItem)
	mux.HandleFunc("PUT /api/cart/prep-mode", h.setPrepMode)

	mux.HandleFunc("POST /api/checkout", h.checkout)
}

// writeJSON sends an encoded body with the given status.
func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// internalError logs err and answers with a generic 500.
func internalError(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("API request failed", zap.Error(err))
	httpmiddleware.WriteError(w, http.StatusInternalServerError, "internal error")
}

// decodeObject reads a JSON object body and calls fn for every key.
func decodeObject(r *http.Request, fn func(d *jx.Decoder, key string) error) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody+1))
	if err != nil {
		return errors.Wrap(err, "read body")
	}
	if len(body) > maxBody {
		return errors.New("body too large")
	}
	if len(body) == 0 {
		return errors.New("empty body")
	}
	return jx.DecodeBytes(body).Obj(fn)
}
