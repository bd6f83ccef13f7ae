package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/carousell/ct-go/pkg/logger"
	log "github.com/carousell/ct-go/pkg/logger/log_context"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"

	"github.com/trynbuy/storefront/internal/config"
	pkgmdw "github.com/trynbuy/storefront/internal/server/middleware"
)

func StartServer(
	lc fx.Lifecycle,
	sd fx.Shutdowner,
	conf *config.Config,
	catalog CatalogController,
	cart CartController,
	tryon TryOnController,
	checkout CheckoutController,
	health HealthController,
) {
	e := echo.New()
	e.Validator = pkgmdw.NewValidator()
	e.HTTPErrorHandler = pkgmdw.ErrorHandler(logger.MustNamed("http"))

	logConfig := pkgmdw.LogRequestConfig{
		Logger: logger.MustNamed("http"),
		Enabled: func(c echo.Context) bool {
			uri := c.Request().RequestURI
			return uri != "/health" && uri != "/metrics"
		},
	}

	e.Use(pkgmdw.Metrics())
	e.Use(pkgmdw.RequestID())
	e.Use(pkgmdw.LogRequest(logConfig))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			log.Errorw(c.Request().Context(), "PANIC RECOVER", "error", err, "stack", string(stack))
			return nil
		},
	}))

	e.GET("/health", health.Health)

	api := e.Group("/api/v1")
	api.GET("/products", catalog.ListProducts)
	api.GET("/products/:id", catalog.GetProduct)

	shopper := api.Group("", pkgmdw.RequireSession())
	shopper.GET("/cart", cart.GetCart)
	shopper.POST("/cart/items", cart.AddItem)
	shopper.PUT("/cart/items/:product_id", cart.UpdateItem)
	shopper.DELETE("/cart/items/:product_id", cart.RemoveItem)
	shopper.DELETE("/cart", cart.ClearCart)

	shopper.POST("/tryon/open", tryon.Open)
	shopper.GET("/tryon", tryon.Snapshot)
	shopper.POST("/tryon/toggle", tryon.ToggleFacing)
	shopper.POST("/tryon/close", tryon.Close)
	shopper.POST("/tryon/cart", tryon.AddToCart)

	shopper.POST("/checkout", checkout.PlaceOrder)
	shopper.GET("/checkout", checkout.Status)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow(ctx, "starting HTTP server", "addr", conf.Server.Addr)
				if err := e.Start(conf.Server.Addr); !errors.Is(err, http.ErrServerClosed) {
					sd.Shutdown()
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}
