package productcache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/redis/go-redis/v9"

	"github.com/trynbuy/storefront/internal/models"
)

// Cache is a read-through layer over catalog lookups. It never becomes
// a source of truth: misses and redis failures fall back to mongo, and
// only successful reads are written back.
type Cache interface {
	GetProduct(ctx context.Context, id models.ObjectID) (*models.Product, bool)
	SetProduct(ctx context.Context, p models.Product)
	GetList(ctx context.Context, category *models.ProductCategory) ([]models.Product, bool)
	SetList(ctx context.Context, category *models.ProductCategory, products []models.Product)
}

type cache struct {
	client *redis.Client
	ttl    time.Duration
}

func New(client *redis.Client, ttl time.Duration) Cache {
	return &cache{client: client, ttl: ttl}
}

func productKey(id models.ObjectID) string {
	return "product:" + id.String()
}

func listKey(category *models.ProductCategory) string {
	if category == nil {
		return "products:all"
	}
	return fmt.Sprintf("products:category:%s", *category)
}

func (c *cache) GetProduct(ctx context.Context, id models.ObjectID) (*models.Product, bool) {
	data, err := c.client.Get(ctx, productKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warnw(ctx, "product cache read", "error", err)
		}
		return nil, false
	}
	var p models.Product
	if err := json.Unmarshal(data, &p); err != nil {
		log.Warnw(ctx, "product cache decode", "error", err)
		return nil, false
	}
	return &p, true
}

func (c *cache) SetProduct(ctx context.Context, p models.Product) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, productKey(p.ID), data, c.ttl).Err(); err != nil {
		log.Warnw(ctx, "product cache write", "error", err)
	}
}

func (c *cache) GetList(ctx context.Context, category *models.ProductCategory) ([]models.Product, bool) {
	data, err := c.client.Get(ctx, listKey(category)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warnw(ctx, "product list cache read", "error", err)
		}
		return nil, false
	}
	var products []models.Product
	if err := json.Unmarshal(data, &products); err != nil {
		log.Warnw(ctx, "product list cache decode", "error", err)
		return nil, false
	}
	return products, true
}

func (c *cache) SetList(ctx context.Context, category *models.ProductCategory, products []models.Product) {
	data, err := json.Marshal(products)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, listKey(category), data, c.ttl).Err(); err != nil {
		log.Warnw(ctx, "product list cache write", "error", err)
	}
}

// Noop disables caching; every lookup goes to the source of truth.
func Noop() Cache {
	return noopCache{}
}

type noopCache struct{}

func (noopCache) GetProduct(context.Context, models.ObjectID) (*models.Product, bool) {
	return nil, false
}
func (noopCache) SetProduct(context.Context, models.Product) {}
func (noopCache) GetList(context.Context, *models.ProductCategory) ([]models.Product, bool) {
	return nil, false
}
func (noopCache) SetList(context.Context, *models.ProductCategory, []models.Product) {}
