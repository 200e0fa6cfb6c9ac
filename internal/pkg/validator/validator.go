package validator

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"

	"marketplace/internal/domain"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		if name == "" {
			return f.Name
		}
		return name
	})
}

// Validate checks struct tags and returns failed rules keyed by JSON field
// name, or nil when v is valid.
func Validate(v any) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return map[string]string{"_": err.Error()}
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		out[fe.Field()] = fe.Tag()
	}
	return out
}

// Check is Validate folded into a domain validation error.
func Check(v any) error {
	errs := Validate(v)
	if errs == nil {
		return nil
	}
	fields := make([]string, 0, len(errs))
	for field, tag := range errs {
		fields = append(fields, fmt.Sprintf("%s (%s)", field, tag))
	}
	slices.Sort(fields)
	return domain.Errorf(domain.ErrValidation, "invalid fields: %s", strings.Join(fields, ", "))
}
