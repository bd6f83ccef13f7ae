package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/trynbuy/storefront/internal/models"
	"github.com/trynbuy/storefront/internal/usecase"
)

type CatalogController interface {
	ListProducts(c echo.Context) error
	GetProduct(c echo.Context) error
}

type catalogController struct {
	catalogUsecase usecase.CatalogUsecase
}

func NewCatalogController(catalogUsecase usecase.CatalogUsecase) CatalogController {
	return &catalogController{
		catalogUsecase: catalogUsecase,
	}
}

func (cc *catalogController) ListProducts(c echo.Context) error {
	var category *models.ProductCategory
	if raw := c.QueryParam("category"); raw != "" {
		cat := models.ProductCategory(raw)
		if !cat.Valid() {
			return echo.NewHTTPError(http.StatusBadRequest, "invalid category")
		}
		category = &cat
	}

	ctx := c.Request().Context()
	products, err := cc.catalogUsecase.ListProducts(ctx, category)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, map[string]any{
		"products": products,
	})
}

func (cc *catalogController) GetProduct(c echo.Context) error {
	if _, err := primitive.ObjectIDFromHex(c.Param("id")); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product ID")
	}
	id := models.ObjectID(c.Param("id"))

	ctx := c.Request().Context()
	product, err := cc.catalogUsecase.GetProduct(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return echo.NewHTTPError(http.StatusNotFound, "product not found")
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, product)
}
