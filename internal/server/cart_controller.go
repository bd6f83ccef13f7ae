package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trynbuy/storefront/internal/models"
	pkgmdw "github.com/trynbuy/storefront/internal/server/middleware"
	"github.com/trynbuy/storefront/internal/session"
	"github.com/trynbuy/storefront/internal/usecase"
	"github.com/trynbuy/storefront/pkg/util"
)

type CartController interface {
	GetCart(c echo.Context) error
	AddItem(c echo.Context) error
	UpdateItem(c echo.Context) error
	RemoveItem(c echo.Context) error
	ClearCart(c echo.Context) error
}

type cartController struct {
	sessions       *session.Manager
	catalogUsecase usecase.CatalogUsecase
}

func NewCartController(sessions *session.Manager, catalogUsecase usecase.CatalogUsecase) CartController {
	return &cartController{
		sessions:       sessions,
		catalogUsecase: catalogUsecase,
	}
}

// CartView is the cart as the presentation layer renders it: lines in
// insertion order plus the derived totals.
type CartView struct {
	Lines          []CartLineView `json:"lines"`
	TotalPrice     string         `json:"total_price"`
	TotalItemCount int            `json:"total_item_count"`
}

type CartLineView struct {
	Product   models.Product `json:"product"`
	Quantity  int            `json:"quantity"`
	LineTotal string         `json:"line_total"`
}

func cartView(s *session.Session) CartView {
	return CartView{
		Lines: util.ConvertList(s.Cart.Lines(), func(l models.CartLine) CartLineView {
			return CartLineView{
				Product:   l.Product,
				Quantity:  l.Quantity,
				LineTotal: l.LineTotal().StringFixed(2),
			}
		}),
		TotalPrice:     s.Cart.TotalPrice().StringFixed(2),
		TotalItemCount: s.Cart.TotalItemCount(),
	}
}

func (cc *cartController) GetCart(c echo.Context) error {
	s := cc.sessions.Get(pkgmdw.GetSessionID(c))
	return c.JSON(http.StatusOK, cartView(s))
}

type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required,objectid"`
}

func (cc *cartController) AddItem(c echo.Context) error {
	var req AddItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx := c.Request().Context()
	product, err := cc.catalogUsecase.GetProduct(ctx, models.ObjectID(req.ProductID))
	if errors.Is(err, models.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	s := cc.sessions.Get(pkgmdw.GetSessionID(c))
	s.Cart.AddItem(*product)

	return c.JSON(http.StatusOK, cartView(s))
}

type UpdateItemRequest struct {
	// zero and below remove the line rather than keeping it at zero
	Quantity int `json:"quantity"`
}

func (cc *cartController) UpdateItem(c echo.Context) error {
	var req UpdateItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	id, err := productIDParam(c)
	if err != nil {
		return err
	}

	s := cc.sessions.Get(pkgmdw.GetSessionID(c))
	s.Cart.UpdateQuantity(id, req.Quantity)

	return c.JSON(http.StatusOK, cartView(s))
}

func (cc *cartController) RemoveItem(c echo.Context) error {
	id, err := productIDParam(c)
	if err != nil {
		return err
	}

	s := cc.sessions.Get(pkgmdw.GetSessionID(c))
	s.Cart.RemoveItem(id)

	return c.JSON(http.StatusOK, cartView(s))
}

func productIDParam(c echo.Context) (models.ObjectID, error) {
	raw := c.Param("product_id")
	if _, err := primitive.ObjectIDFromHex(raw); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "invalid product ID")
	}
	return models.ObjectID(raw), nil
}

func (cc *cartController) ClearCart(c echo.Context) error {
	s := cc.sessions.Get(pkgmdw.GetSessionID(c))
	s.Cart.Clear()

	return c.JSON(http.StatusOK, cartView(s))
}
