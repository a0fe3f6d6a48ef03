package catalog

import (
	"context"
	"fmt"

	"food-orders/internal/model"

	"github.com/rs/zerolog"
)

// Store persists imported products, matching existing rows by name.
type Store interface {
	UpsertByName(ctx context.Context, products []model.Product) error
}

// Seeder loads a catalog file and writes it to the store.
type Seeder struct {
	loader Loader
	store  Store
	logger zerolog.Logger
}

// NewSeeder creates a Seeder.
func NewSeeder(loader Loader, store Store, logger zerolog.Logger) *Seeder {
	return &Seeder{
		loader: loader,
		store:  store,
		logger: logger.With().Str("component", "catalog-seeder").Logger(),
	}
}

// Seed imports the catalog at path and returns how many products it held.
func (s *Seeder) Seed(ctx context.Context, path string) (int, error) {
	products, err := s.loader.Load(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("failed to load catalog: %w", err)
	}

	if len(products) == 0 {
		s.logger.Warn().Str("path", path).Msg("catalog file is empty")
		return 0, nil
	}

	if err := s.store.UpsertByName(ctx, products); err != nil {
		return 0, fmt.Errorf("failed to store catalog: %w", err)
	}

	s.logger.Info().
		Str("path", path).
		Int("count", len(products)).
		Msg("catalog imported")

	return len(products), nil
}
