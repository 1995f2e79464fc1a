package presenter

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

// errorResponse is the error body every endpoint of this API returns: one
// "error" field naming the offending input or resource.
type errorResponse struct {
	Error string `json:"error"`
}

// OK wraps a successful response.
func OK(c echo.Context, payload any) error {
	return c.JSON(http.StatusOK, payload)
}

func BadRequest(c echo.Context, err error) error {
	slog.Warn("bad request",
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
}

func BadRequestMessage(c echo.Context, msg string) error {
	slog.Warn("bad request",
		slog.String("path", c.Path()),
		slog.String("error", msg),
	)
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// Unauthorized reports a request with no usable tenant identity.
func Unauthorized(c echo.Context, msg string) error {
	slog.Warn("unauthorized",
		slog.String("path", c.Path()),
		slog.String("error", msg),
	)
	return c.JSON(http.StatusUnauthorized, errorResponse{Error: msg})
}

// NotFound covers true absence and cross-tenant access alike; it is routine
// and not logged.
func NotFound(c echo.Context, msg string) error {
	return c.JSON(http.StatusNotFound, errorResponse{Error: msg})
}

func InternalError(c echo.Context, err error) error {
	slog.Error("internal error",
		slog.String("path", c.Path()),
		slog.String("error", err.Error()),
	)
	return c.JSON(http.StatusInternalServerError, errorResponse{Error: err.Error()})
}
