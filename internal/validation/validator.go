// Package validation wires go-playground/validator into Echo and converts
// field failures into the error envelope's {code, message, path} details
// with Portuguese messages.
package validation

import (
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/felps-dev/i-revenue-api/internal/apperr"
)

// Validator implements echo.Validator on top of validator/v10.
type Validator struct {
	validate *validator.Validate
}

// New builds a Validator whose field names come from json tags, so the
// `path` reported to clients matches the request payload.
func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validate: v}
}

// Validate checks i and returns a 400 *apperr.Error carrying one detail per
// failed field.  A nil return means the payload is structurally valid.
func (v *Validator) Validate(i interface{}) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}
	fieldErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperr.New(http.StatusBadRequest, apperr.CodeValidationError, "Dados inválidos")
	}
	details := make([]apperr.Detail, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		details = append(details, apperr.Detail{
			Code:    fe.Tag(),
			Message: message(fe),
			Path:    fe.Field(),
		})
	}
	return apperr.New(http.StatusBadRequest, apperr.CodeValidationError, "Dados inválidos").
		WithDetails(details...)
}

// message renders a Portuguese message for a single field failure.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("O campo %s é obrigatório.", fe.Field())
	case "email":
		return "Email inválido"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("O campo %s deve ter no mínimo %s caracteres.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("O campo %s deve ser no mínimo %s.", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("O campo %s deve ser um número positivo.", fe.Field())
	case "oneof":
		return "Selecione um valor válido."
	default:
		return fmt.Sprintf("O campo %s é inválido.", fe.Field())
	}
}
