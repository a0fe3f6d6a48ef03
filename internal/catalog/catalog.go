// Package catalog imports product records from JSON-lines files kept on
// local disk or in S3, and upserts them into the product store.
package catalog

import (
	"bufio"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"food-orders/internal/model"

	"github.com/shopspring/decimal"
)

// Loader reads a catalog file and returns the products it describes.
type Loader interface {
	Load(ctx context.Context, path string) ([]model.Product, error)
}

// record is one line of a catalog file.
type record struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
}

// isGzip reports whether a catalog path names a gzip-compressed file.
func isGzip(path string) bool {
	return strings.HasSuffix(path, ".gz")
}

// decode parses JSON-lines product records from r. Blank lines are skipped;
// any malformed or invalid record aborts the whole load.
func decode(ctx context.Context, r io.Reader, gzipped bool) ([]model.Product, error) {
	if gzipped {
		gz, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		r = gz
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var products []model.Product
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		if lineNo%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var rec record
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			return nil, fmt.Errorf("line %d: invalid record: %w", lineNo, err)
		}
		if err := rec.validate(); err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		products = append(products, model.Product{
			Name:        strings.TrimSpace(rec.Name),
			Description: rec.Description,
			Price:       rec.Price.Round(2),
			Stock:       rec.Stock,
		})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	return products, nil
}

func (r record) validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return fmt.Errorf("name is required")
	}
	if r.Price.IsNegative() {
		return fmt.Errorf("price of %s must not be negative", r.Name)
	}
	if r.Stock < 0 {
		return fmt.Errorf("stock of %s must not be negative", r.Name)
	}
	return nil
}
