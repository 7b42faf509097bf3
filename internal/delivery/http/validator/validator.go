// Package validator adapts go-playground/validator to echo.Validator.
package validator

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	domainerrors "taskhub/internal/domain/errors"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// CustomValidator validates request DTOs through their `validate` tags.
type CustomValidator struct {
	validate *validator.Validate
}

// New builds a validator that reports fields by their json names.
func New() *CustomValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}

		return name
	})

	return &CustomValidator{validate: v}
}

// Validate implements echo.Validator. A rule violation comes back as *FieldError.
func (cv *CustomValidator) Validate(i any) error {
	err := cv.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.Wrap(err, "validate request")
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		messages = append(messages, describe(fieldErr))
	}

	return &FieldError{messages: messages}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "email":
		return fmt.Sprintf("%s must be a valid email address", fe.Field())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s cannot exceed %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s failed the %s rule", fe.Field(), fe.Tag())
	}
}

// FieldError lists every rule a request broke. It is a ValidationFailed AppError.
type FieldError struct {
	messages []string
}

func (e *FieldError) Error() string {
	return "validation failed: " + strings.Join(e.messages, "; ")
}

// Messages returns one human-readable line per broken rule.
func (e *FieldError) Messages() []string {
	return e.messages
}

func (e *FieldError) HTTPCode() int     { return http.StatusBadRequest }
func (e *FieldError) ErrorCode() string { return domainerrors.CodeValidationFailed }
func (e *FieldError) Message() string   { return domainerrors.ErrValidationFailed.Message() }
func (e *FieldError) Details() string   { return strings.Join(e.messages, "; ") }

// Is lets errors.Is match FieldError against domainerrors.ErrValidationFailed.
func (e *FieldError) Is(target error) bool {
	var app domainerrors.AppError
	if !errors.As(target, &app) {
		return false
	}

	return app.ErrorCode() == domainerrors.CodeValidationFailed
}
