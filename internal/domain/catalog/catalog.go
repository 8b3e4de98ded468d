package catalog

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested item does not exist.
var ErrNotFound = errors.New("item not found")

// Category groups menu items into the sections shown on the site.
type Category string

const (
	CategorySpitbraai Category = "spitbraai"
	CategorySides     Category = "sides"
	CategoryDesserts  Category = "desserts"
)

// Categories lists every category in menu display order.
var Categories = []Category{CategorySpitbraai, CategorySides, CategoryDesserts}

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategorySpitbraai, CategorySides, CategoryDesserts:
		return true
	default:
		return false
	}
}

// Title is the menu section heading for the category.
func (c Category) Title() string {
	switch c {
	case CategorySpitbraai:
		return "Whole Carcass Spitbraai"
	case CategorySides:
		return "Traditional Sides"
	case CategoryDesserts:
		return "Desserts"
	default:
		return string(c)
	}
}

// SupportsPrepMode reports whether items of this category are cooked with a
// selectable preparation mode.
func (c Category) SupportsPrepMode() bool {
	return c == CategorySpitbraai
}

// Item is an orderable catalog entry. Items are immutable once loaded.
type Item struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal
	Image       string
	Category    Category
	// Servings is free text such as "20-25 people". Empty when unknown.
	Servings string
	// Hidden items stay orderable by id but are not listed in the menu grid.
	Hidden bool
}

// Repository defines read operations for the catalog.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	GetByID(ctx context.Context, id string) (*Item, error)
}

// Section is one rendered menu block: a category and its listed items.
type Section struct {
	Category Category
	Items    []Item
}

// Title is the section heading.
func (s Section) Title() string {
	return s.Category.Title()
}

// GroupByCategory splits items into menu sections in display order,
// skipping hidden items and sections left empty.
func GroupByCategory(items []Item) []Section {
	byCategory := make(map[Category][]Item, len(Categories))
	for _, it := range items {
		if it.Hidden {
			continue
		}
		byCategory[it.Category] = append(byCategory[it.Category], it)
	}

	sections := make([]Section, 0, len(Categories))
	for _, c := range Categories {
		if len(byCategory[c]) == 0 {
			continue
		}
		sections = append(sections, Section{Category: c, Items: byCategory[c]})
	}
	return sections
}

var inclusions = map[Category][]string{
	CategorySpitbraai: {
		"Premium quality meat",
		"Traditional South African spices",
		"Professional cooking service",
		"Basic serving utensils",
	},
	CategorySides: {
		"Fresh ingredients",
		"Traditional preparation",
		"Serving bowls included",
	},
	CategoryDesserts: {
		"Homemade traditional recipe",
		"Served warm",
		"Choice of custard or ice cream",
	},
}

// Inclusions returns the "What's Included" list for a category. When mode is
// non-nil and the category supports a preparation mode, the mode's cooking
// line is appended.
func Inclusions(c Category, mode *PrepMode) []string {
	base := inclusions[c]
	out := make([]string, len(base), len(base)+1)
	copy(out, base)
	if mode != nil && c.SupportsPrepMode() {
		out = append(out, mode.Inclusion())
	}
	return out
}
