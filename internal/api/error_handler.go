package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/daskousik/blog-api/internal/core/domain"
)

// errorBody is the canonical envelope for errors raised outside the
// GraphQL executor (upload endpoint, routing, binding).
type errorBody struct {
	Message string              `json:"message"`
	Status  int                 `json:"status"`
	Data    []domain.FieldError `json:"data,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps domain error kinds to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders the same {message, status, data} shape the GraphQL layer uses.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		body := resolveError(err, log, c)
		_ = c.JSON(body.Status, body)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) errorBody {
	// Echo's own errors (bind failures, 404 from router, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return errorBody{Message: fmt.Sprintf("%v", he.Message), Status: he.Code}
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return errorBody{Message: de.Message, Status: de.Status(), Data: de.Data}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return errorBody{Message: "internal server error", Status: http.StatusInternalServerError}
}
