package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rentflow/payment-gateway/internal/core"
)

// writeError maps domain errors to HTTP responses. Gateway errors keep
// their sentinel text so callers can tell "retry initiation" from
// "gateway refused".
func writeError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, core.ErrValidation):
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, core.ErrUnauthorized):
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid credentials"})
	case errors.Is(err, core.ErrForbidden):
		return c.JSON(http.StatusForbidden, map[string]string{"error": "Access denied."})
	case errors.Is(err, core.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Not found"})
	case errors.Is(err, core.ErrDuplicateEntry):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, core.ErrGatewayUnavailable):
		return c.JSON(http.StatusBadGateway, map[string]string{
			"error": "Payment gateway unavailable, please retry",
		})
	case errors.Is(err, core.ErrGatewayRejected):
		return c.JSON(http.StatusUnprocessableEntity, map[string]string{
			"error": "Payment gateway rejected the request",
		})
	default:
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
}
