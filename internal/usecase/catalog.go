package usecase

import (
	"context"
	"fmt"

	"github.com/trynbuy/storefront/internal/models"
	"github.com/trynbuy/storefront/internal/repo/mongodb"
	"github.com/trynbuy/storefront/internal/repo/productcache"
)

// CatalogUsecase is the read-only catalog surface the storefront
// consumes; products are immutable values to everything above it.
type CatalogUsecase interface {
	ListProducts(ctx context.Context, category *models.ProductCategory) ([]models.Product, error)
	GetProduct(ctx context.Context, id models.ObjectID) (*models.Product, error)
}

type catalogUsecase struct {
	repo  mongodb.ProductRepository
	cache productcache.Cache
}

func NewCatalogUsecase(repo mongodb.ProductRepository, cache productcache.Cache) CatalogUsecase {
	return &catalogUsecase{
		repo:  repo,
		cache: cache,
	}
}

func (uc *catalogUsecase) ListProducts(ctx context.Context, category *models.ProductCategory) ([]models.Product, error) {
	if category != nil && !category.Valid() {
		return nil, models.ErrInvalidCategory
	}

	if products, ok := uc.cache.GetList(ctx, category); ok {
		return products, nil
	}

	products, err := uc.repo.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}

	uc.cache.SetList(ctx, category, products)
	return products, nil
}

func (uc *catalogUsecase) GetProduct(ctx context.Context, id models.ObjectID) (*models.Product, error) {
	if p, ok := uc.cache.GetProduct(ctx, id); ok {
		return p, nil
	}

	p, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	uc.cache.SetProduct(ctx, *p)
	return p, nil
}
