package catalog

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	doc, err := Default()
	require.NoError(t, err)

	require.Len(t, doc.Items, 8)
	assert.Equal(t, "Whole Lamb Spitbraai", doc.Items[0].Name)
	assert.True(t, decimal.NewFromInt(2500).Equal(doc.Items[0].Price))
	assert.Equal(t, CategorySpitbraai, doc.Items[0].Category)
	assert.Equal(t, "20-25 people", doc.Items[0].Servings)

	charcoal := doc.Tiers[PrepCharcoal]
	require.Len(t, charcoal, 3)
	require.NotNil(t, charcoal[1].Price)
	assert.True(t, decimal.NewFromInt(1300).Equal(*charcoal[1].Price))
	assert.Nil(t, charcoal[2].Price, "complete package is not priced yet")

	gas := doc.Tiers[PrepGas]
	require.Len(t, gas, 3)
	assert.True(t, decimal.NewFromInt(1200).Equal(*gas[0].Price))
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "empty", yaml: "items: []"},
		{name: "missing id", yaml: "items:\n  - name: X\n    price: 1\n    category: sides"},
		{name: "unknown category", yaml: "items:\n  - id: a\n    name: X\n    price: 1\n    category: drinks"},
		{name: "bad price", yaml: "items:\n  - id: a\n    name: X\n    price: cheap\n    category: sides"},
		{name: "negative price", yaml: "items:\n  - id: a\n    name: X\n    price: -5\n    category: sides"},
		{
			name: "duplicate id",
			yaml: "items:\n  - id: a\n    name: X\n    price: 1\n    category: sides\n  - id: a\n    name: Y\n    price: 2\n    category: sides",
		},
		{name: "unknown tier mode", yaml: "tiers:\n  wood: []\nitems:\n  - id: a\n    name: X\n    price: 1\n    category: sides"},
		{name: "not yaml", yaml: "items: [oops"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.Error(t, err)
		})
	}
}

func TestStatic(t *testing.T) {
	doc, err := Default()
	require.NoError(t, err)
	repo := NewStatic(doc)
	ctx := context.Background()

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, items, len(doc.Items))

	it, err := repo.GetByID(ctx, "5")
	require.NoError(t, err)
	assert.Equal(t, "Traditional Pap & Sous", it.Name)

	_, err = repo.GetByID(ctx, "999")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGroupByCategory(t *testing.T) {
	doc, err := Default()
	require.NoError(t, err)

	sections := GroupByCategory(doc.Items)
	require.Len(t, sections, 3)

	assert.Equal(t, "Whole Carcass Spitbraai", sections[0].Title())
	names := make([]string, 0, len(sections[0].Items))
	for _, it := range sections[0].Items {
		names = append(names, it.Name)
	}
	assert.Equal(t, []string{"Whole Lamb Spitbraai", "Pork Spitbraai"}, names)

	assert.Equal(t, CategorySides, sections[1].Category)
	assert.Len(t, sections[1].Items, 3)
	assert.Equal(t, CategoryDesserts, sections[2].Category)
	assert.Len(t, sections[2].Items, 1)
}

func TestGroupByCategory_SkipsEmpty(t *testing.T) {
	sections := GroupByCategory([]Item{
		{ID: "d", Category: CategoryDesserts},
		{ID: "h", Category: CategorySides, Hidden: true},
	})
	require.Len(t, sections, 1)
	assert.Equal(t, CategoryDesserts, sections[0].Category)
}

func TestInclusions(t *testing.T) {
	gas := PrepGas

	got := Inclusions(CategorySpitbraai, &gas)
	require.Len(t, got, 5)
	assert.Equal(t, "Gas cooking for consistent heat control", got[4])

	assert.Len(t, Inclusions(CategorySpitbraai, nil), 4)

	sides := Inclusions(CategorySides, &gas)
	assert.Equal(t, []string{"Fresh ingredients", "Traditional preparation", "Serving bowls included"}, sides)

	// The returned slice is a copy.
	sides[0] = "changed"
	assert.Equal(t, "Fresh ingredients", Inclusions(CategorySides, nil)[0])
}

func TestParsePrepMode(t *testing.T) {
	m, err := ParsePrepMode("gas")
	require.NoError(t, err)
	assert.Equal(t, PrepGas, m)
	assert.Equal(t, "Gas ⚡", m.MessageLabel())

	_, err = ParsePrepMode("electric")
	require.ErrorIs(t, err, ErrUnknownPrepMode)

	assert.Equal(t, "Charcoal/Firewood 🔥", DefaultPrepMode.MessageLabel())
	assert.True(t, CategorySpitbraai.SupportsPrepMode())
	assert.False(t, CategoryDesserts.SupportsPrepMode())
}
