// Package handler serves the server-rendered site: the informational
// sections, the menu, the cart and the checkout hand-off.
package handler

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/maftown/spitbraai/internal/content"
	"github.com/maftown/spitbraai/internal/domain/cart"
	"github.com/maftown/spitbraai/internal/domain/catalog"
	"github.com/maftown/spitbraai/internal/domain/contact"
	"github.com/maftown/spitbraai/internal/domain/order"
	"github.com/maftown/spitbraai/internal/session"
)

//go:embed templates/*.gohtml
var templatesFS embed.FS

var pageNames = []string{"home", "item", "cart", "checkout"}

// Options holds the Handler dependencies.
type Options struct {
	Site      *content.Site
	Items     catalog.Repository
	Tiers     map[catalog.PrepMode][]catalog.Tier
	Carts     *cart.Service
	Orders    *order.Service
	Inquiries *contact.Service
	Cookies   *session.Cookies
}

// Handler renders pages and handles the site's form posts.
type Handler struct {
	site      *content.Site
	items     catalog.Repository
	tiers     map[catalog.PrepMode][]catalog.Tier
	carts     *cart.Service
	orders    *order.Service
	inquiries *contact.Service
	cookies   *session.Cookies

	pages map[string]*template.Template
}

// New parses the page templates and returns a Handler.
func New(opts Options) (*Handler, error) {
	pages := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS,
			"templates/layout.gohtml",
			"templates/"+name+".gohtml",
		)
		if err != nil {
			return nil, errors.Wrapf(err, "parse %s template", name)
		}
		pages[name] = t
	}

	return &Handler{
		site:      opts.Site,
		items:     opts.Items,
		tiers:     opts.Tiers,
		carts:     opts.Carts,
		orders:    opts.Orders,
		inquiries: opts.Inquiries,
		cookies:   opts.Cookies,
		pages:     pages,
	}, nil
}

// Register adds the site routes to mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", h.home)
	mux.HandleFunc("GET /menu/{id}", h.item)
	mux.HandleFunc("GET /cart", h.cart)
	mux.HandleFunc("GET /cart/checkout", h.checkout)

	mux.HandleFunc("POST /cart/items", h.addItem)
	mux.HandleFunc("POST /cart/items/{id}", h.setQuantity)
	mux.HandleFunc("POST /cart/items/{id}/remove", h.removeItem)
	mux.HandleFunc("POST /cart/clear", h.clearCart)
	mux.HandleFunc("POST /prep-mode", h.setPrepMode)
	mux.HandleFunc("POST /contact", h.submitContact)
	mux.HandleFunc("POST /checkout", h.submitCheckout)
}

// current returns the visitor's session without creating one.
func (h *Handler) current(ctx context.Context, r *http.Request) (*cart.Session, error) {
	id, ok := h.cookies.ID(r)
	if !ok {
		return cart.NewSession("", zeroTime), nil
	}
	return h.carts.View(ctx, id)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		h.fail(w, r, errors.Wrapf(err, "render %s", page))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	zctx.From(r.Context()).Error("Request failed", zap.Error(err))
	http.Error(w, "Something went wrong. Please call us on "+h.site.Contact.PhoneDisplay+".", http.StatusInternalServerError)
}

func (h *Handler) redirect(w http.ResponseWriter, r *http.Request, to string) {
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// localPath accepts same-site absolute paths only.
func localPath(v, fallback string) string {
	if !strings.HasPrefix(v, "/") || strings.HasPrefix(v, "//") || strings.ContainsAny(v, "\\\r\n") {
		return fallback
	}
	return v
}
