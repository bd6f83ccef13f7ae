package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/trynbuy/storefront/internal/checkout"
	"github.com/trynbuy/storefront/internal/models"
	pkgmdw "github.com/trynbuy/storefront/internal/server/middleware"
	"github.com/trynbuy/storefront/internal/session"
)

type CheckoutController interface {
	PlaceOrder(c echo.Context) error
	Status(c echo.Context) error
}

type checkoutController struct {
	sessions *session.Manager
}

func NewCheckoutController(sessions *session.Manager) CheckoutController {
	return &checkoutController{
		sessions: sessions,
	}
}

type PlaceOrderRequest struct {
	PaymentMethod string `json:"payment_method" validate:"required,oneof=upi debit credit netbanking"`
}

func (cc *checkoutController) PlaceOrder(c echo.Context) error {
	var req PlaceOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	s := cc.sessions.Get(pkgmdw.GetSessionID(c))

	ctx := c.Request().Context()
	order, err := s.Checkout.PlaceOrder(ctx, models.PaymentMethod(req.PaymentMethod))
	switch {
	case errors.Is(err, checkout.ErrEmptyCart):
		return echo.NewHTTPError(http.StatusConflict, "cart is empty")
	case errors.Is(err, checkout.ErrCheckoutInProgress):
		return echo.NewHTTPError(http.StatusConflict, "checkout already in progress")
	case errors.Is(err, checkout.ErrInvalidPayment):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case err != nil:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, order)
}

func (cc *checkoutController) Status(c echo.Context) error {
	s := cc.sessions.Get(pkgmdw.GetSessionID(c))
	return c.JSON(http.StatusOK, s.Checkout.Snapshot())
}
