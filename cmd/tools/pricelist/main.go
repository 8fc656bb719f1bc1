package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/noah-isme/proposal-api/internal/catalog"
)

// pricelist applies a yearly price update to the catalog file: either a flat
// percentage uplift, a per-product override file, or both. Overrides win.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}

	in := flag.String("in", envOrDefault("CATALOG_PATH", "data/products.json"), "catalog file to read")
	out := flag.String("out", "", "output file (defaults to overwriting the input)")
	uplift := flag.String("uplift", "0", "percentage applied to every list price, e.g. 3.5")
	overridesPath := flag.String("overrides", "", "JSON file mapping product id to new list price")
	dryRun := flag.Bool("dry-run", false, "report changes without writing")
	flag.Parse()

	if *out == "" {
		*out = *in
	}

	pct, err := decimal.NewFromString(*uplift)
	if err != nil {
		log.Fatalf("Invalid uplift %q: %v", *uplift, err)
	}
	factor := decimal.NewFromInt(1).Add(pct.Div(decimal.NewFromInt(100)))

	overrides := map[string]decimal.Decimal{}
	if *overridesPath != "" {
		data, err := os.ReadFile(*overridesPath)
		if err != nil {
			log.Fatalf("Failed to read overrides: %v", err)
		}
		if err := json.Unmarshal(data, &overrides); err != nil {
			log.Fatalf("Failed to parse overrides: %v", err)
		}
	}

	store, err := catalog.Load(*in)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	changed := 0
	categories := store.Categories()
	for ci := range categories {
		for pi := range categories[ci].Products {
			p := &categories[ci].Products[pi]
			next := p.Price
			if override, ok := overrides[p.ID]; ok {
				next = override
			} else if !pct.IsZero() {
				next = p.Price.Mul(factor).Round(2)
			}
			if !next.Equal(p.Price) {
				log.Printf("%s: %s -> %s", p.ID, p.Price, next)
				p.Price = next
				changed++
			}
		}
	}

	log.Printf("%d of %d products updated", changed, store.Len())
	if *dryRun {
		log.Println("Dry run, nothing written")
		return
	}

	body, err := encodeCatalog(categories)
	if err != nil {
		log.Fatalf("Failed to encode catalog: %v", err)
	}
	if err := os.WriteFile(*out, body, 0o644); err != nil {
		log.Fatalf("Failed to write %s: %v", *out, err)
	}
	log.Printf("Wrote %s", *out)
}

// encodeCatalog writes categories as a JSON object in slice order. A plain
// map marshal would sort keys and lose the display order the catalog file
// carries.
func encodeCatalog(categories []catalog.Category) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{\n")
	for ci, cat := range categories {
		name, err := json.Marshal(cat.Name)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteString(": [\n")
		for pi, p := range cat.Products {
			entry, err := json.MarshalIndent(p, "    ", "  ")
			if err != nil {
				return nil, err
			}
			buf.WriteString("    ")
			buf.Write(entry)
			if pi < len(cat.Products)-1 {
				buf.WriteString(",")
			}
			buf.WriteString("\n")
		}
		buf.WriteString("  ]")
		if ci < len(categories)-1 {
			buf.WriteString(",")
		}
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}

func envOrDefault(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
