// Package validation wraps go-playground/validator and turns its errors into a
// field -> message map the admin UI can show next to the inputs.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldErrors maps a field key (its json name, with an optional prefix such
// as "variants[1].") to a message.
type FieldErrors map[string]string

// Error is returned when a value fails validation.
type Error struct {
	Fields FieldErrors
}

func (e *Error) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	return "validation failed: " + strings.Join(keys, ", ")
}

// New returns a validator that reports fields by their json names.
func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return strings.ToLower(f.Name)
		}
		return name
	})
	return v
}

// Merge adds the messages of err into out, prefixing every key. Errors that
// are not validation errors are recorded under the "_" key.
func Merge(out FieldErrors, prefix string, err error) {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			out[prefix+fe.Field()] = messageForTag(fe.Tag(), fe.Param())
		}
		return
	}
	out["_"] = "Invalid form data."
}

// FromError converts a bind or validation error into FieldErrors.
func FromError(err error) FieldErrors {
	out := FieldErrors{}
	Merge(out, "", err)
	return out
}

func messageForTag(tag, param string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "gte":
		return fmt.Sprintf("Must be greater than or equal to %s.", param)
	case "min":
		return "Must be at least " + param + " characters."
	case "max":
		return "Must be at most " + param + " characters."
	default:
		return "Invalid value."
	}
}
