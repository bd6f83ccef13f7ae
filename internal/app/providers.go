package app

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/fx"

	"github.com/trynbuy/storefront/internal/camera"
	"github.com/trynbuy/storefront/internal/cart"
	"github.com/trynbuy/storefront/internal/checkout"
	"github.com/trynbuy/storefront/internal/config"
	"github.com/trynbuy/storefront/internal/kafka"
	"github.com/trynbuy/storefront/internal/repo/mongodb"
	"github.com/trynbuy/storefront/internal/repo/productcache"
	"github.com/trynbuy/storefront/internal/repo/simcam"
	"github.com/trynbuy/storefront/internal/session"
)

func newMongoDB(lc fx.Lifecycle, cfg *config.Config) (*mongodb.DB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := mongodb.NewConnection(ctx, cfg.Database.URI, cfg.Database.Database)
	if err != nil {
		return nil, fmt.Errorf("init mongo client: %w", err)
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return db.Client.Ping(ctx, nil)
		},
		OnStop: func(ctx context.Context) error {
			return db.Close(ctx)
		},
	})

	return db, nil
}

func newRedisClient(lc fx.Lifecycle, cfg *config.Config) (*redis.Client, error) {
	if !cfg.Redis.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})

	return client, nil
}

func newProductCache(cfg *config.Config, client *redis.Client) productcache.Cache {
	if client == nil {
		return productcache.Noop()
	}
	return productcache.New(client, cfg.Redis.TTL)
}

func newOrderPublisher(lc fx.Lifecycle, cfg *config.Config) (kafka.Publisher, error) {
	pub, err := kafka.NewPublisher(cfg.Kafka)
	if err != nil {
		return nil, fmt.Errorf("init kafka publisher: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return pub.Close()
		},
	})

	return pub, nil
}

func newCameraDevice(cfg *config.Config) (camera.Device, error) {
	return simcam.New(cfg.Camera)
}

func newSessionManager(lc fx.Lifecycle, cfg *config.Config, device camera.Device, pub kafka.Publisher) *session.Manager {
	checkoutCfg := checkout.Config{
		SettleDelay:         cfg.Checkout.SettleDelay,
		ConfirmDisplayDelay: cfg.Checkout.ConfirmDisplayDelay,
	}

	manager := session.NewManager(session.ManagerConfig{
		IdleTTL: cfg.Session.IdleTTL,
		Build: func(id string) *session.Session {
			store := cart.NewStore()
			return &session.Session{
				Cart:     store,
				Camera:   camera.NewController(device),
				Checkout: checkout.NewOrchestrator(store, checkoutCfg, pub),
			}
		},
	})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go manager.Sweep(context.Background(), cfg.Session.SweepInterval)
			return nil
		},
		OnStop: func(ctx context.Context) error {
			manager.Stop()
			return nil
		},
	})

	return manager
}
