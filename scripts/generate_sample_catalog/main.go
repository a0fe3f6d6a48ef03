package main

import (
	"compress/gzip"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/shopspring/decimal"
)

type catalogLine struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

// Writes a gzipped JSON-lines product catalog that CATALOG_SEED_FILE can point at.
// Names already in the products table get their description and price refreshed;
// their stock is kept.
func main() {
	out := flag.String("out", "data/catalog/products.jsonl.gz", "output path")
	flag.Parse()

	if err := os.MkdirAll(filepath.Dir(*out), 0755); err != nil {
		log.Fatalf("Failed to create directory: %v", err)
	}

	lines := []catalogLine{
		{"Margherita Pizza", "Classic pizza with tomato sauce, mozzarella, and basil", decimal.RequireFromString("12.99"), 40},
		{"Pepperoni Pizza", "Pizza topped with pepperoni slices and mozzarella", decimal.RequireFromString("14.99"), 60},
		{"Mushroom Risotto", "Creamy arborio rice with wild mushrooms", decimal.RequireFromString("15.50"), 25},
		{"Falafel Wrap", "Chickpea falafel with tahini and pickled vegetables", decimal.RequireFromString("8.75"), 80},
		{"Tiramisu", "Espresso-soaked ladyfingers with mascarpone", decimal.RequireFromString("6.25"), 35},
	}

	if err := writeCatalog(*out, lines); err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}

	fmt.Printf("Created %s with %d products\n", *out, len(lines))
}

func writeCatalog(path string, lines []catalogLine) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	gz := gzip.NewWriter(file)
	enc := json.NewEncoder(gz)
	for _, l := range lines {
		if err := enc.Encode(l); err != nil {
			gz.Close()
			return fmt.Errorf("failed to write line: %w", err)
		}
	}

	if err := gz.Close(); err != nil {
		return fmt.Errorf("failed to flush gzip stream: %w", err)
	}
	return nil
}
