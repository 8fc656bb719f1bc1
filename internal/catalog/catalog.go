package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
)

// Product is a single catalog entry. Products are immutable after load.
type Product struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

// Category is a named, ordered grouping of products. A product belongs to
// exactly one category.
type Category struct {
	Name     string    `json:"name"`
	Products []Product `json:"products"`
}

// decodeCategories reads the catalog file format: a JSON object mapping
// category name to a product array. Plain json.Unmarshal into a map would
// lose the author's category order, which the proposal document preserves for
// display, so the object is walked token by token instead.
func decodeCategories(r io.Reader) ([]Category, error) {
	dec := json.NewDecoder(r)
	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("catalog: read opening token: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, errors.New("catalog: document root must be a JSON object")
	}

	var categories []Category
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("catalog: read category name: %w", err)
		}
		name, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("catalog: unexpected token %v for category name", keyTok)
		}
		var products []Product
		if err := dec.Decode(&products); err != nil {
			return nil, fmt.Errorf("catalog: category %q: %w", name, err)
		}
		for _, p := range products {
			if p.ID == "" {
				return nil, fmt.Errorf("catalog: category %q contains a product without an id", name)
			}
			if p.Price.IsNegative() {
				return nil, fmt.Errorf("catalog: product %s has a negative list price", p.ID)
			}
		}
		categories = append(categories, Category{Name: name, Products: products})
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("catalog: read closing token: %w", err)
	}
	return categories, nil
}

// Load reads the catalog file at path and builds an indexed store. It is
// called once at process start; the returned store is read-only afterwards.
func Load(path string) (*Store, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: open %s: %w", path, err)
	}
	defer f.Close()

	categories, err := decodeCategories(f)
	if err != nil {
		return nil, err
	}
	return NewStore(categories)
}
