// Package validate runs client-side payload checks before any network
// call. These are advisory: the server stays authoritative and may
// reject a payload that passes here.
package validate

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

var validate *validator.Validate

func init() {
	validate = validator.New()

	// decimal fields validate through their float value so the numeric
	// tags (gt, gte, ...) apply to them directly
	validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
}

// FieldError is a field-scoped validation failure, recoverable by user
// correction.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Struct validates s and returns the first failure, or nil. Mutations
// abort before any network call when this returns non-nil.
func Struct(s interface{}) *FieldError {
	errs := StructAll(s)
	if len(errs) == 0 {
		return nil
	}
	return &errs[0]
}

// StructAll validates s and returns every failure.
func StructAll(s interface{}) []FieldError {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var out []FieldError
	for _, fe := range err.(validator.ValidationErrors) {
		field := fe.Field()
		tag := fe.Tag()
		param := fe.Param()

		var message string
		switch tag {
		case "required":
			message = fmt.Sprintf("%s is required", field)
		case "email":
			message = fmt.Sprintf("%s must be a valid email address", field)
		case "min":
			message = fmt.Sprintf("%s must be at least %s characters", field, param)
		case "max":
			message = fmt.Sprintf("%s must be at most %s characters", field, param)
		case "gt":
			message = fmt.Sprintf("%s must be greater than %s", field, param)
		case "eqfield":
			message = fmt.Sprintf("%s must match %s", field, param)
		default:
			message = fmt.Sprintf("%s is invalid", field)
		}

		fieldName := strings.ToLower(field[:1]) + field[1:]
		out = append(out, FieldError{Field: fieldName, Message: message})
	}
	return out
}
