package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestID(t *testing.T) {
	e := echo.New()

	handler := func(c echo.Context) error {
		reqID, ok := c.Get(XRequestID).(string)
		require.True(t, ok, "request ID missing from echo context")

		// the same ID must be reachable through every accessor
		assert.Equal(t, reqID, GetRequestIDFromContext(c.Request().Context()))
		assert.Equal(t, reqID, GetRequestIDFromEchoContext(c))

		return c.String(http.StatusOK, reqID)
	}

	t.Run("propagates the caller's ID", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(XRequestID, "shopper-trace-1")
		rec := httptest.NewRecorder()

		err := RequestID()(handler)(e.NewContext(req, rec))
		require.NoError(t, err)

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "shopper-trace-1", rec.Body.String())
		assert.Equal(t, "shopper-trace-1", rec.Header().Get(XRequestID))
	})

	t.Run("accepts the correlation header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(XCorrelationID, "upstream-7")
		rec := httptest.NewRecorder()

		err := RequestID()(handler)(e.NewContext(req, rec))
		require.NoError(t, err)

		assert.Equal(t, "upstream-7", rec.Header().Get(XRequestID))
	})

	t.Run("generates an ID when none is sent", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		rec := httptest.NewRecorder()

		err := RequestID()(handler)(e.NewContext(req, rec))
		require.NoError(t, err)

		generated := rec.Header().Get(XRequestID)
		require.NotEmpty(t, generated)
		_, err = uuid.Parse(generated)
		assert.NoError(t, err)
		assert.Equal(t, generated, rec.Body.String())
	})
}
