package app

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// requestValidator satisfies [echo.Validator]. Field names in errors use the
// JSON name of the field.
type requestValidator struct {
	validate *validator.Validate
}

func newValidator() *requestValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{validate: v}
}

func (v *requestValidator) Validate(i any) error {
	return v.validate.Struct(i)
}
