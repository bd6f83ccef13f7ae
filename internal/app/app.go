package app

import (
	"context"

	"github.com/carousell/ct-go/pkg/logger"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap/zapcore"

	"github.com/trynbuy/storefront/internal/config"
	"github.com/trynbuy/storefront/internal/repo/mongodb"
	"github.com/trynbuy/storefront/internal/server"
	"github.com/trynbuy/storefront/internal/usecase"
)

func Invoke(funcs ...any) *fx.App {
	log := logger.MustNamed("app")
	conf := config.MustLoad()
	log.Debugw("config loaded", log.Reflect("config", conf))
	return fx.New(
		fx.WithLogger(func() fxevent.Logger {
			l := &fxevent.ZapLogger{
				Logger: log.Unwrap().Desugar(),
			}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			newMongoDB,
			newRedisClient,
			newProductCache,
			newOrderPublisher,
			newCameraDevice,
			newSessionManager,

			server.NewHealthController,
			server.NewCatalogController,
			server.NewCartController,
			server.NewTryOnController,
			server.NewCheckoutController,

			usecase.NewCatalogUsecase,

			mongodb.NewProductRepository,
		),
		fx.Supply(conf),
		fx.Invoke(InitializeCatalog),
		fx.Invoke(funcs...),
	)
}

// InitializeCatalog seeds the default products on startup when the
// collection is empty.
func InitializeCatalog(
	lc fx.Lifecycle,
	productRepo mongodb.ProductRepository,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return usecase.SeedCatalog(ctx, productRepo)
		},
	})
}
