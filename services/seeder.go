package services

import (
	"context"
	"fmt"
	"log/slog"
)

// CatalogSeeder fills the universities table from a catalog source
type CatalogSeeder struct {
	store  UniversityStore
	source CatalogSource
}

func NewCatalogSeeder(store UniversityStore, source CatalogSource) *CatalogSeeder {
	return &CatalogSeeder{
		store:  store,
		source: source,
	}
}

// SeedCatalog is idempotent: it does nothing once the table holds any university
func (s *CatalogSeeder) SeedCatalog(ctx context.Context) error {
	slog.Info("Starting catalog seeding...")

	seeded, err := s.isSeedingComplete(ctx)
	if err != nil {
		return fmt.Errorf("failed to check seeding status: %w", err)
	}
	if seeded {
		slog.Info("Catalog already seeded, skipping")
		return nil
	}

	universities, err := s.source.FetchUniversities(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch universities for seeding: %w", err)
	}
	if len(universities) == 0 {
		slog.Warn("Catalog source returned no universities, nothing to seed")
		return nil
	}

	if err := s.store.CreateUniversities(ctx, universities); err != nil {
		return fmt.Errorf("failed to create universities: %w", err)
	}

	slog.Info("Catalog seeding completed successfully", "universities", len(universities))
	return nil
}

func (s *CatalogSeeder) isSeedingComplete(ctx context.Context) (bool, error) {
	count, err := s.store.CountUniversities(ctx)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
