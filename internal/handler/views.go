package handler

import (
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maftown/spitbraai/internal/content"
	"github.com/maftown/spitbraai/internal/domain/cart"
	"github.com/maftown/spitbraai/internal/domain/catalog"
	"github.com/maftown/spitbraai/internal/domain/order"
)

var zeroTime time.Time

const (
	alertMissingDetails = "Please fill in your name and phone number"
	contactThanks       = "Thank you for your inquiry! We will contact you soon."
)

// notices are the messages a redirect can ask the next page to show.
var notices = map[string]string{
	"added":   "Added to cart.",
	"cleared": "Your cart has been cleared.",
	"contact": contactThanks,
	"empty":   "Your cart is empty.",
}

var funcs = template.FuncMap{
	"rand":  order.Rand,
	"price": groupedRand,
	"asset": assetURL,
	"inc":   func(n int) int { return n + 1 },
	"dec":   func(n int) int { return max(n-1, 0) },
}

// groupedRand formats a price with thousands separators, e.g. R1,300.
func groupedRand(d decimal.Decimal) string {
	s := d.String()
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	whole, frac, hasFrac := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	if hasFrac {
		b.WriteString("." + frac)
	}
	return sign + "R" + b.String()
}

// assetURL links a local image, optionally resized to width. Absolute URLs
// are returned unchanged.
func assetURL(name string, width int) string {
	if strings.HasPrefix(name, "https://") || strings.HasPrefix(name, "http://") {
		return name
	}
	u := "/assets/" + url.PathEscape(name)
	if width > 0 {
		u += "?w=" + strconv.Itoa(width)
	}
	return u
}

type layoutView struct {
	Title     string
	Site      *content.Site
	CartCount int
	Notice    string
}

type modeView struct {
	Mode     catalog.PrepMode
	Selected bool
	Tiers    []catalog.Tier
}

type contactForm struct {
	Name    string
	Phone   string
	Message string
	Error   string
}

type homeView struct {
	layoutView
	Mode     catalog.PrepMode
	Modes    []modeView
	Sections []catalog.Section
	Contact  contactForm
}

type itemView struct {
	layoutView
	Item       catalog.Item
	Mode       catalog.PrepMode
	ShowMode   bool
	Inclusions []string
}

type lineView struct {
	cart.Line
	// Badge is the preparation mode label shown next to spitbraai lines.
	Badge string
}

type cartView struct {
	layoutView
	Lines []lineView
	Total decimal.Decimal
	Mode  catalog.PrepMode
}

type checkoutView struct {
	cartView
	Customer order.Customer
	Error    string
}

func (h *Handler) layout(title string, sess *cart.Session, notice string) layoutView {
	return layoutView{
		Title:     title,
		Site:      h.site,
		CartCount: sess.Cart.Count(),
		Notice:    notices[notice],
	}
}

func (h *Handler) newCartView(title string, sess *cart.Session, notice string) cartView {
	v := cartView{
		layoutView: h.layout(title, sess, notice),
		Total:      sess.Cart.Total(),
		Mode:       sess.PrepMode,
	}
	for _, l := range sess.Cart.Lines() {
		lv := lineView{Line: l}
		if l.Item.Category.SupportsPrepMode() {
			lv.Badge = sess.PrepMode.SummaryLabel()
		}
		v.Lines = append(v.Lines, lv)
	}
	return v
}
