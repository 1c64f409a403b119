package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/daskousik/blog-api/internal/core/domain"
)

// validate is shared by all services; go-playground validators are
// stateless and safe for concurrent use.
var validate = validator.New()

// checkInput runs struct-tag validation and accumulates every violation
// into one slice, so callers can report all bad fields in a single
// response rather than failing on the first.
func checkInput(input any) []domain.FieldError {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return []domain.FieldError{{Field: "input", Message: err.Error()}}
	}

	fields := make([]domain.FieldError, 0, len(ve))
	for _, fe := range ve {
		fields = append(fields, domain.FieldError{
			Field:   strings.ToLower(fe.Field()),
			Message: fieldError(fe),
		})
	}
	return fields
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := strings.ToLower(fe.Field())
	switch fe.Tag() {
	case "required":
		return field + " must not be empty"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
