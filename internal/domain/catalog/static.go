package catalog

import "context"

var _ Repository = (*Static)(nil)

// Static is a read-only in-memory Repository over a parsed Document.
type Static struct {
	items []Item
	byID  map[string]int
}

// NewStatic indexes the document's items.
func NewStatic(doc *Document) *Static {
	s := &Static{
		items: doc.Items,
		byID:  make(map[string]int, len(doc.Items)),
	}
	for i, it := range doc.Items {
		s.byID[it.ID] = i
	}
	return s
}

// List returns all items in catalog order, hidden ones included.
func (s *Static) List(_ context.Context) ([]Item, error) {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out, nil
}

// GetByID returns the item with the given id or ErrNotFound.
func (s *Static) GetByID(_ context.Context, id string) (*Item, error) {
	i, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	it := s.items[i]
	return &it, nil
}
