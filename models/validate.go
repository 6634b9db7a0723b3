package models

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/smartkrishi/smart-krishi-api/apperror"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report JSON field names so error messages match the request body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks a record or payload against its schema tags and returns the
// first violation as an *apperror.Error.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return apperror.BadRequest("Invalid payload", err)
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "required":
		return apperror.MissingField(fe.Field())
	case "gte":
		return apperror.InvalidField(fe.Field(), "must be >= "+fe.Param())
	case "lte":
		return apperror.InvalidField(fe.Field(), "must be <= "+fe.Param())
	default:
		return apperror.InvalidField(fe.Field(), "is invalid")
	}
}
