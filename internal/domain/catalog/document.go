package catalog

import (
	_ "embed"
	"os"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Tier is a service pricing option offered for a preparation mode.
type Tier struct {
	Name string
	// Price is nil while the tier is not yet priced.
	Price *decimal.Decimal
}

// Document is a parsed catalog file.
type Document struct {
	Items []Item
	Tiers map[PrepMode][]Tier
}

type documentYAML struct {
	Tiers map[string][]tierYAML `yaml:"tiers"`
	Items []itemYAML            `yaml:"items"`
}

type tierYAML struct {
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
}

type itemYAML struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Price       string `yaml:"price"`
	Image       string `yaml:"image"`
	Category    string `yaml:"category"`
	Servings    string `yaml:"servings"`
	Hidden      bool   `yaml:"hidden"`
}

// Default parses the catalog compiled into the binary.
func Default() (*Document, error) {
	return Parse(defaultCatalog)
}

// Parse decodes and validates a YAML catalog. Item order is preserved.
func Parse(data []byte) (*Document, error) {
	var raw documentYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, "decode catalog")
	}
	if len(raw.Items) == 0 {
		return nil, errors.New("catalog has no items")
	}

	doc := &Document{
		Items: make([]Item, 0, len(raw.Items)),
		Tiers: make(map[PrepMode][]Tier, len(raw.Tiers)),
	}

	seen := make(map[string]struct{}, len(raw.Items))
	for i, ri := range raw.Items {
		it, err := ri.item()
		if err != nil {
			return nil, errors.Wrapf(err, "item #%d", i+1)
		}
		if _, dup := seen[it.ID]; dup {
			return nil, errors.Errorf("item #%d: duplicate id %q", i+1, it.ID)
		}
		seen[it.ID] = struct{}{}
		doc.Items = append(doc.Items, it)
	}

	for key, rts := range raw.Tiers {
		mode, err := ParsePrepMode(key)
		if err != nil {
			return nil, errors.Wrap(err, "tiers")
		}
		tiers := make([]Tier, 0, len(rts))
		for _, rt := range rts {
			t := Tier{Name: rt.Name}
			if rt.Price != "" {
				p, err := decimal.NewFromString(rt.Price)
				if err != nil {
					return nil, errors.Wrapf(err, "tier %q price", rt.Name)
				}
				t.Price = &p
			}
			tiers = append(tiers, t)
		}
		doc.Tiers[mode] = tiers
	}

	return doc, nil
}

func (ri itemYAML) item() (Item, error) {
	if ri.ID == "" {
		return Item{}, errors.New("id is required")
	}
	if ri.Name == "" {
		return Item{}, errors.Errorf("%s: name is required", ri.ID)
	}
	c := Category(ri.Category)
	if !c.Valid() {
		return Item{}, errors.Errorf("%s: unknown category %q", ri.ID, ri.Category)
	}
	price, err := decimal.NewFromString(ri.Price)
	if err != nil {
		return Item{}, errors.Wrapf(err, "%s: price", ri.ID)
	}
	if price.IsNegative() {
		return Item{}, errors.Errorf("%s: negative price %s", ri.ID, price)
	}
	return Item{
		ID:          ri.ID,
		Name:        ri.Name,
		Description: ri.Description,
		Price:       price,
		Image:       ri.Image,
		Category:    c,
		Servings:    ri.Servings,
		Hidden:      ri.Hidden,
	}, nil
}

// Load reads a catalog file, or the embedded catalog when path is empty.
func Load(path string) (*Document, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read catalog file")
	}
	return Parse(data)
}
