package graphql

import (
	"errors"
	"net/http"

	"github.com/graphql-go/graphql"
	"github.com/graphql-go/graphql/gqlerrors"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/daskousik/blog-api/internal/core/domain"
)

// Handler executes GraphQL requests against a fixed schema and formats
// errors into the {message, status, data} envelope clients expect.
type Handler struct {
	schema graphql.Schema
	logger zerolog.Logger
}

func NewHandler(schema graphql.Schema, logger zerolog.Logger) *Handler {
	return &Handler{schema: schema, logger: logger}
}

type request struct {
	Query         string                 `json:"query"`
	OperationName string                 `json:"operationName"`
	Variables     map[string]interface{} `json:"variables"`
}

type responseError struct {
	Message string              `json:"message"`
	Status  int                 `json:"status"`
	Data    []domain.FieldError `json:"data,omitempty"`
}

type response struct {
	Data   interface{}     `json:"data,omitempty"`
	Errors []responseError `json:"errors,omitempty"`
}

// Handle serves POST /graphql.
func (h *Handler) Handle(c echo.Context) error {
	var req request
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	result := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        c.Request().Context(),
	})

	resp := response{Data: result.Data}
	for _, fe := range result.Errors {
		resp.Errors = append(resp.Errors, h.formatError(c, fe))
	}

	return c.JSON(http.StatusOK, resp)
}

// formatError unwraps the resolver error, if any, and renders its kind,
// message and field details. Anything else (syntax errors, unexpected
// failures) is reported with the default 500 status; unexpected
// failures are additionally logged with their real cause.
func (h *Handler) formatError(c echo.Context, fe gqlerrors.FormattedError) responseError {
	err := underlying(fe)

	var de *domain.Error
	if errors.As(err, &de) {
		return responseError{Message: de.Message, Status: de.Status(), Data: de.Data}
	}

	if err != nil {
		h.logger.Error().
			Err(err).
			Str("path", c.Path()).
			Msg("unhandled resolver error")
	}

	return responseError{Message: fe.Message, Status: http.StatusInternalServerError}
}

// underlying walks through the graphql-go wrapper layers down to the
// error the resolver actually returned.
func underlying(err error) error {
	for err != nil {
		switch e := err.(type) {
		case gqlerrors.FormattedError:
			err = e.OriginalError()
		case *gqlerrors.Error:
			err = e.OriginalError
		default:
			return err
		}
	}
	return nil
}
