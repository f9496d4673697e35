// Package validation checks request shapes with go-playground/validator and
// reports problems per JSON field.
package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a JSON field name to a human readable problem.
type FieldErrors map[string]string

func (f FieldErrors) Error() string {
	parts := make([]string, 0, len(f))
	for field, msg := range f {
		parts = append(parts, field+" "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()

	// Report JSON tag names instead of Go field names
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	// maxbytes limits the encoded length, unlike max which counts runes
	_ = v.RegisterValidation("maxbytes", func(fl validator.FieldLevel) bool {
		limit, err := strconv.Atoi(fl.Param())
		if err != nil {
			return false
		}
		return len(fl.Field().String()) <= limit
	})

	return &Validator{v: v}
}

var defaultValidator = New()

// Validate runs the struct's validate tags with the package validator.
func Validate(s any) error {
	return defaultValidator.Validate(s)
}

// Validate returns FieldErrors when s breaks one of its validate tags.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) {
			return err
		}
		fields := make(FieldErrors, len(validationErrs))
		for _, e := range validationErrs {
			fields[e.Field()] = friendlyMessage(e)
		}
		return fields
	}
	return nil
}

// DecodeError turns a JSON decoding failure into FieldErrors when the
// failure can be pinned to a field.
func DecodeError(err error) FieldErrors {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return FieldErrors{typeErr.Field: "must be " + withArticle(jsonKind(typeErr.Type))}
	}
	if errors.Is(err, io.EOF) {
		return FieldErrors{"body": "is required"}
	}
	return FieldErrors{"body": "must be a valid JSON object"}
}

func withArticle(word string) string {
	if word != "" && strings.ContainsRune("aeiou", rune(word[0])) {
		return "an " + word
	}
	return "a " + word
}

func jsonKind(t reflect.Type) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Bool:
		return "boolean"
	default:
		return t.Kind().String()
	}
}

func friendlyMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return fmt.Sprintf("must be at least %s characters", e.Param())
	case "max":
		return fmt.Sprintf("must not exceed %s characters", e.Param())
	case "maxbytes":
		return fmt.Sprintf("must not exceed %s bytes", e.Param())
	case "gte":
		return "must be greater than or equal to " + e.Param()
	case "gt":
		return "must be greater than " + e.Param()
	default:
		return "is invalid"
	}
}
