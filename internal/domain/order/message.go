package order

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/maftown/spitbraai/internal/domain/cart"
	"github.com/maftown/spitbraai/internal/domain/catalog"
)

// Template holds the fixed text of an order message.
type Template struct {
	Icon    string
	Title   string
	Closing string
	Note    string
}

// DefaultTemplate returns the message text used by the business.
func DefaultTemplate(business string) Template {
	return Template{
		Icon:    "🍖",
		Title:   business + " Order",
		Closing: "Please confirm this order and provide delivery/pickup details.",
		Note: "We specialize in whole lamb and pork carcass spitbraai. " +
			"For braai meat cuts or other special arrangements, please let us know your requirements.",
	}
}

// Rand formats an amount in rand, e.g. R2050.
func Rand(d decimal.Decimal) string {
	return "R" + d.String()
}

// FormatMessage renders the order summary sent through the messaging link.
// Customer text is inserted verbatim.
func FormatMessage(tpl Template, mode catalog.PrepMode, c Customer, lines []cart.Line, total decimal.Decimal) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s *%s*\n\n", tpl.Icon, tpl.Title)
	fmt.Fprintf(&b, "*Spitbraai Type:* %s\n\n", mode.MessageLabel())

	b.WriteString("*Customer Details:*\n")
	fmt.Fprintf(&b, "Name: %s\n", c.Name)
	fmt.Fprintf(&b, "Phone: %s\n", c.Phone)
	fmt.Fprintf(&b, "Email: %s\n", c.Email)
	fmt.Fprintf(&b, "Address: %s\n\n", c.Address)

	b.WriteString("*Order Details:*\n")
	for _, l := range lines {
		fmt.Fprintf(&b, "• %s x%d - %s\n", l.Item.Name, l.Quantity, Rand(l.Subtotal()))
	}

	fmt.Fprintf(&b, "\n*Total: %s*\n\n", Rand(total))
	fmt.Fprintf(&b, "%s\n\n", tpl.Closing)
	fmt.Fprintf(&b, "*Special Note:* %s", tpl.Note)

	return b.String()
}

// componentUnescapes restores the marks JavaScript's encodeURIComponent
// leaves literal but url.QueryEscape escapes.
var componentUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeText percent-encodes msg the way encodeURIComponent does: spaces
// become %20 and the marks ! ' ( ) * stay literal.
func EncodeText(msg string) string {
	return componentUnescapes.Replace(url.QueryEscape(msg))
}

// DeepLink builds the messaging link that opens a chat with number and a
// pre-filled text. Non-digits are stripped from number.
func DeepLink(base, number, msg string) string {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, number)
	return strings.TrimRight(base, "/") + "/" + digits + "?text=" + EncodeText(msg)
}
