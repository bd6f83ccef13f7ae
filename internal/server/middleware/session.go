package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

const XSessionID = "x-session-id"

func GetSessionID(c echo.Context) string {
	if id, ok := c.Get(XSessionID).(string); ok {
		return id
	}
	return c.Request().Header.Get(XSessionID)
}

// RequireSession rejects requests without a shopper session header.
// Session identity is opaque here; there is no authentication tied to it.
func RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Request().Header.Get(XSessionID)
			if id == "" {
				return echo.NewHTTPError(http.StatusBadRequest, "missing "+XSessionID+" header")
			}
			c.Set(XSessionID, id)
			return next(c)
		}
	}
}
