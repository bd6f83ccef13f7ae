package usecase

import (
	"context"
	"fmt"

	log "github.com/carousell/ct-go/pkg/logger/log_context"

	"github.com/trynbuy/storefront/internal/repo/mongodb"
)

// SeedCatalog populates the default product catalog on first startup.
func SeedCatalog(ctx context.Context, repo mongodb.ProductRepository) error {
	inserted, err := repo.SeedDefaults(ctx)
	if err != nil {
		return fmt.Errorf("seed catalog: %w", err)
	}
	if inserted > 0 {
		log.Infow(ctx, "seeded default catalog", "products", inserted)
	}
	return nil
}
