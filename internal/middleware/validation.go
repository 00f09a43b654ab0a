package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "github.com/kevindiazor/ThePUL/internal/errors"
)

// QueryValidator validates decoded query parameters against struct tags.
// Field names in errors come from the `query` tag.
type QueryValidator struct {
	validator *validator.Validate
}

// NewQueryValidator creates a query validator
func NewQueryValidator() *QueryValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("query"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &QueryValidator{validator: v}
}

// Validate returns nil or an *apierrors.APIError listing every failed field
func (q *QueryValidator) Validate(v interface{}) error {
	err := q.validator.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return apierrors.InvalidParameter("query", err.Error())
	}

	details := make([]apierrors.ValidationError, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		details = append(details, apierrors.ValidationError{
			Field:   fe.Field(),
			Message: formatValidationError(fe),
		})
	}
	return apierrors.NewWithDetails(apierrors.ErrInvalidParameter.StatusCode,
		apierrors.ErrInvalidParameter.ErrorCode, "Invalid query parameters", details)
}

func formatValidationError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "numeric":
		return fmt.Sprintf("%s must be a number", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "printascii":
		return fmt.Sprintf("%s must contain printable characters only", fe.Field())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
	}
}
