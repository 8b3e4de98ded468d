package order

import (
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maftown/spitbraai/internal/domain/cart"
	"github.com/maftown/spitbraai/internal/domain/catalog"
)

func testLines() ([]cart.Line, decimal.Decimal) {
	var c cart.Cart
	chicken := catalog.Item{ID: "4", Name: "Chicken Spitbraai", Price: decimal.NewFromInt(800), Category: catalog.CategorySpitbraai}
	pap := catalog.Item{ID: "5", Name: "Traditional Pap & Sous", Price: decimal.NewFromInt(150), Category: catalog.CategorySides}
	c.Add(chicken, nil)
	c.Add(chicken, nil)
	c.Add(pap, nil)
	_ = c.SetQuantity(pap.ID, 3)
	return c.Lines(), c.Total()
}

func TestFormatMessage(t *testing.T) {
	lines, total := testLines()
	c := Customer{Name: "Thabo", Phone: "+27 82 000 0000", Email: "t@example.com", Address: "12 Main Rd"}

	got := FormatMessage(DefaultTemplate("Maftown Spitbraai"), catalog.PrepCharcoal, c, lines, total)

	want := "🍖 *Maftown Spitbraai Order*\n\n" +
		"*Spitbraai Type:* Charcoal/Firewood 🔥\n\n" +
		"*Customer Details:*\n" +
		"Name: Thabo\n" +
		"Phone: +27 82 000 0000\n" +
		"Email: t@example.com\n" +
		"Address: 12 Main Rd\n\n" +
		"*Order Details:*\n" +
		"• Chicken Spitbraai x2 - R1600\n" +
		"• Traditional Pap & Sous x3 - R450\n" +
		"\n*Total: R2050*\n\n" +
		"Please confirm this order and provide delivery/pickup details.\n\n" +
		"*Special Note:* We specialize in whole lamb and pork carcass spitbraai. " +
		"For braai meat cuts or other special arrangements, please let us know your requirements."
	assert.Equal(t, want, got)
}

func TestFormatMessage_GasAndBlankOptionalFields(t *testing.T) {
	lines, total := testLines()

	got := FormatMessage(DefaultTemplate("Maftown Spitbraai"), catalog.PrepGas, Customer{Name: "A", Phone: "1"}, lines, total)

	assert.Contains(t, got, "*Spitbraai Type:* Gas ⚡\n")
	assert.Contains(t, got, "Email: \nAddress: \n\n")
}

func TestEncodeText(t *testing.T) {
	msg := "Pap & Sous x3 - R450\n*Total: R2050*"
	enc := EncodeText(msg)

	assert.NotContains(t, enc, " ")
	assert.NotContains(t, enc, "+")
	assert.NotContains(t, enc, "&")
	assert.NotContains(t, enc, "\n")
	assert.Contains(t, enc, "%20")

	dec, err := url.QueryUnescape(enc)
	require.NoError(t, err)
	assert.Equal(t, msg, dec)
}

func TestEncodeText_LiteralPlus(t *testing.T) {
	enc := EncodeText("+27 62")
	assert.Equal(t, "%2B27%2062", enc)
}

func TestEncodeText_UnreservedMarks(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"*Total: R2050*", "*Total%3A%20R2050*"},
		{"Gas (fast)!", "Gas%20(fast)!"},
		{"Thabo's order", "Thabo's%20order"},
		{"a~b-c_d.e", "a~b-c_d.e"},
		{"100%", "100%25"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, EncodeText(tt.in), tt.in)
	}
}

func TestDeepLink(t *testing.T) {
	link := DeepLink("https://wa.me/", "+27 62 727 0654", "hi there")
	assert.Equal(t, "https://wa.me/27627270654?text=hi%20there", link)

	u, err := url.Parse(DeepLink("https://wa.me", "27627270654", "a&b=c"))
	require.NoError(t, err)
	assert.Equal(t, "a&b=c", u.Query().Get("text"))
}

func TestCustomerValidate(t *testing.T) {
	tests := []struct {
		name    string
		c       Customer
		missing []string
	}{
		{name: "complete", c: Customer{Name: "A", Phone: "1"}},
		{name: "no name", c: Customer{Phone: "1"}, missing: []string{"name"}},
		{name: "no phone", c: Customer{Name: "A"}, missing: []string{"phone"}},
		{name: "empty both", c: Customer{Email: "x@y"}, missing: []string{"name", "phone"}},
		{name: "whitespace is present", c: Customer{Name: "  ", Phone: "\t"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.missing == nil {
				require.NoError(t, err)
				return
			}
			var mf *MissingFieldError
			require.ErrorAs(t, err, &mf)
			assert.Equal(t, tt.missing, mf.Fields)
			assert.True(t, strings.HasPrefix(mf.Error(), "missing required fields"))
		})
	}
}
