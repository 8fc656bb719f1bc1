package catalog

import (
	"fmt"

	"github.com/noah-isme/proposal-api/internal/pricing"
)

type indexEntry struct {
	product  Product
	category string
}

// Store is the immutable product catalog: categories in file order plus an
// id index for O(1) lookup. It is built once at startup and shared by
// reference across request handlers, which is safe because nothing mutates
// it after construction.
type Store struct {
	categories []Category
	index      map[string]indexEntry
}

// NewStore indexes the given categories. A product id appearing under two
// categories is a data error and is rejected here rather than silently
// resolved by iteration order.
func NewStore(categories []Category) (*Store, error) {
	index := make(map[string]indexEntry)
	for _, cat := range categories {
		for _, p := range cat.Products {
			if prev, ok := index[p.ID]; ok {
				return nil, fmt.Errorf("catalog: duplicate product id %s in categories %q and %q", p.ID, prev.category, cat.Name)
			}
			index[p.ID] = indexEntry{product: p, category: cat.Name}
		}
	}
	return &Store{categories: categories, index: index}, nil
}

// Categories returns categories in catalog file order.
func (s *Store) Categories() []Category {
	return s.categories
}

// Find resolves a product id into a pricing snapshot. The boolean reports
// whether the id exists; an unknown id is a normal outcome the caller skips,
// never an error.
func (s *Store) Find(id string) (pricing.Snapshot, bool) {
	entry, ok := s.index[id]
	if !ok {
		return pricing.Snapshot{}, false
	}
	return pricing.Snapshot{
		ID:          entry.product.ID,
		Description: entry.product.Description,
		Category:    entry.category,
		ListPrice:   entry.product.Price,
	}, true
}

// Len reports the number of products across all categories.
func (s *Store) Len() int {
	return len(s.index)
}
