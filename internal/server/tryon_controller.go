package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trynbuy/storefront/internal/camera"
	"github.com/trynbuy/storefront/internal/models"
	pkgmdw "github.com/trynbuy/storefront/internal/server/middleware"
	"github.com/trynbuy/storefront/internal/session"
	"github.com/trynbuy/storefront/internal/usecase"
	"github.com/trynbuy/storefront/pkg/util"
)

type TryOnController interface {
	Open(c echo.Context) error
	Snapshot(c echo.Context) error
	ToggleFacing(c echo.Context) error
	Close(c echo.Context) error
	AddToCart(c echo.Context) error
}

type tryOnController struct {
	sessions       *session.Manager
	catalogUsecase usecase.CatalogUsecase
}

func NewTryOnController(sessions *session.Manager, catalogUsecase usecase.CatalogUsecase) TryOnController {
	return &tryOnController{
		sessions:       sessions,
		catalogUsecase: catalogUsecase,
	}
}

// TryOnView pairs the camera snapshot with the previewed product; the
// overlay is a static product image composited client-side, so the
// product reference is all the presentation needs.
type TryOnView struct {
	camera.Snapshot
	Product *models.Product `json:"product,omitempty"`
}

func tryOnView(s *session.Session) TryOnView {
	return TryOnView{
		Snapshot: s.Camera.Snapshot(),
		Product:  s.Preview(),
	}
}

type OpenTryOnRequest struct {
	ProductID  string `json:"product_id" validate:"required,objectid"`
	FacingMode string `json:"facing_mode" validate:"omitempty,oneof=user environment"`
}

func (tc *tryOnController) Open(c echo.Context) error {
	var req OpenTryOnRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	product, err := tc.catalogUsecase.GetProduct(ctx, models.ObjectID(req.ProductID))
	if errors.Is(err, models.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !product.AREnabled {
		return echo.NewHTTPError(http.StatusConflict, "product does not support try-on")
	}

	s := tc.sessions.Get(pkgmdw.GetSessionID(c))
	s.SetPreview(product)

	err = s.Camera.Open(ctx, camera.FacingMode(req.FacingMode))
	switch {
	case errors.Is(err, camera.ErrAcquirePending), errors.Is(err, camera.ErrInvalidState):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case err != nil:
		// permission and hardware failures are state, not errors; the
		// retry affordance comes from the denied/error snapshot
		return c.JSON(http.StatusOK, tryOnView(s))
	}

	return c.JSON(http.StatusOK, tryOnView(s))
}

func (tc *tryOnController) Snapshot(c echo.Context) error {
	s := tc.sessions.Get(pkgmdw.GetSessionID(c))
	return c.JSON(http.StatusOK, tryOnView(s))
}

func (tc *tryOnController) ToggleFacing(c echo.Context) error {
	s := tc.sessions.Get(pkgmdw.GetSessionID(c))

	err := s.Camera.ToggleFacing(c.Request().Context())
	switch {
	case errors.Is(err, camera.ErrInvalidState), errors.Is(err, camera.ErrAcquirePending):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case err != nil:
		return c.JSON(http.StatusOK, tryOnView(s))
	}

	return c.JSON(http.StatusOK, tryOnView(s))
}

func (tc *tryOnController) Close(c echo.Context) error {
	s := tc.sessions.Get(pkgmdw.GetSessionID(c))
	s.Camera.Close()
	s.SetPreview(nil)

	return c.JSON(http.StatusOK, tryOnView(s))
}

// AddToCart adds the previewed product, mirroring the overlay's cart
// button; the preview must be open.
func (tc *tryOnController) AddToCart(c echo.Context) error {
	s := tc.sessions.Get(pkgmdw.GetSessionID(c))

	product := s.Preview()
	if product == nil {
		return echo.NewHTTPError(http.StatusConflict, "no try-on in progress")
	}
	s.Cart.AddItem(util.Val(product))

	return c.JSON(http.StatusOK, cartView(s))
}
