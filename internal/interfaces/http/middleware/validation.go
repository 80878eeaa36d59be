package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/hyperflow/backend/internal/interfaces/http/dto"
	"github.com/shopspring/decimal"
)

var registerOnce sync.Once

// RegisterValidators adapts gin's validator to the API: errors name the JSON
// field, decimal amounts validate as numbers and the "amount" tag rejects
// zero or negative money. Safe to call more than once.
func RegisterValidators() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(fieldName)
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.InexactFloat64()
			}
			return nil
		}, decimal.Decimal{})
		// the tag is static, registration only fails on an empty name
		_ = v.RegisterValidation("amount", func(fl validator.FieldLevel) bool {
			return fl.Field().Kind() == reflect.Float64 && fl.Field().Float() > 0
		})
	})
}

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

var fieldMessages = map[string]func(validator.FieldError) string{
	"required": func(validator.FieldError) string { return "This field is required" },
	"email":    func(validator.FieldError) string { return "Invalid email format" },
	"uuid":     func(validator.FieldError) string { return "Invalid UUID format" },
	"url":      func(validator.FieldError) string { return "Invalid URL format" },
	"amount":   func(validator.FieldError) string { return "Must be a positive amount" },
	"oneof":    func(e validator.FieldError) string { return "Must be one of: " + e.Param() },
	"datetime": func(e validator.FieldError) string { return "Must be a date in format " + e.Param() },
	"min":      func(e validator.FieldError) string { return bound("at least", e) },
	"max":      func(e validator.FieldError) string { return bound("at most", e) },
	"gte":      func(e validator.FieldError) string { return "Must be greater than or equal to " + e.Param() },
	"lte":      func(e validator.FieldError) string { return "Must be less than or equal to " + e.Param() },
}

// bound words length limits on strings and slices, value limits otherwise
func bound(word string, e validator.FieldError) string {
	switch e.Kind() {
	case reflect.String:
		return "Must be " + word + " " + e.Param() + " characters"
	case reflect.Slice, reflect.Array, reflect.Map:
		return "Must have " + word + " " + e.Param() + " items"
	default:
		return "Must be " + word + " " + e.Param()
	}
}

// ValidationDetails lists one entry per offending field. Type mismatches in
// the JSON body are reported against the field they were decoded into.
func ValidationDetails(err error) []dto.ValidationDetail {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		details := make([]dto.ValidationDetail, 0, len(verrs))
		for _, e := range verrs {
			msg := "Invalid value"
			if format, ok := fieldMessages[e.Tag()]; ok {
				msg = format(e)
			}
			details = append(details, dto.ValidationDetail{Field: e.Field(), Message: msg})
		}
		return details
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return []dto.ValidationDetail{{Field: typeErr.Field, Message: "Must be a " + jsonKind(typeErr.Type)}}
	}
	return nil
}

func jsonKind(t reflect.Type) string {
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "list"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "number"
	}
}

// HandleValidationError writes a 400 with field details
func HandleValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed", GetRequestID(c), ValidationDetails(err)))
}
