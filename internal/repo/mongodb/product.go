package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/trynbuy/storefront/internal/models"
)

type ProductRepository interface {
	List(ctx context.Context, category *models.ProductCategory) ([]models.Product, error)
	GetByID(ctx context.Context, id models.ObjectID) (*models.Product, error)
	SeedDefaults(ctx context.Context) (int, error)
}

type productRepo struct {
	baseRepo[models.Product]
}

func NewProductRepository(db *DB) ProductRepository {
	return &productRepo{
		baseRepo: newBaseRepo[models.Product](db.Database),
	}
}

// List returns the catalog, optionally filtered by category, newest first.
func (r *productRepo) List(ctx context.Context, category *models.ProductCategory) ([]models.Product, error) {
	filter := bson.M{}
	if category != nil {
		filter["category"] = *category
	}
	opts := options.Find().SetSort(bson.M{"created_at": -1})
	products, err := r.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

func (r *productRepo) GetByID(ctx context.Context, id models.ObjectID) (*models.Product, error) {
	return r.FindByID(ctx, id.String())
}

// SeedDefaults inserts the default catalog when the collection is
// empty; returns how many documents were inserted.
func (r *productRepo) SeedDefaults(ctx context.Context) (int, error) {
	count, err := r.Count(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("count products: %w", err)
	}
	if count > 0 {
		return 0, nil
	}

	ids, err := r.InsertMany(ctx, defaultCatalog())
	if err != nil {
		return 0, fmt.Errorf("seed products: %w", err)
	}
	return len(ids), nil
}
