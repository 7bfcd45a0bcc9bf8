// Package validation runs struct-tag validation and reports field-path issues.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/tourhub/tourhub/internal/shared"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// Validator wraps a configured validator.Validate.
type Validator struct {
	validate *validator.Validate
}

// New constructs a Validator that reports JSON field names and knows the
// "slug" and "notblank" rules.
func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	_ = v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return &Validator{validate: v}
}

// Struct validates input. It returns nil or a VALIDATION_ERROR carrying one
// issue per failed rule.
func (v *Validator) Struct(input any) *shared.ServiceError {
	if input == nil {
		return shared.Validation("input is required")
	}
	err := v.validate.Struct(input)
	if err == nil {
		return nil
	}
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return shared.Validation("input must be an object")
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return shared.Validation(err.Error())
	}
	issues := make([]shared.Issue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, shared.Issue{
			Path:    fieldPath(fe.Namespace()),
			Rule:    fe.Tag(),
			Message: message(fe),
		})
	}
	return shared.Validation("validation failed", issues...)
}

// embedded marks anonymous struct fields whose JSON fields are promoted.
const embedded = "^"

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		if field.Anonymous {
			return embedded + field.Name
		}
		return field.Name
	}
	return name
}

// fieldPath drops the root struct name and promoted embedded structs from a
// validator namespace.
func fieldPath(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	kept := parts[:0]
	for _, part := range parts {
		if strings.HasPrefix(part, embedded) {
			continue
		}
		kept = append(kept, part)
	}
	return strings.Join(kept, ".")
}

func message(fe validator.FieldError) string {
	field := fieldPath(fe.Namespace())
	switch fe.Tag() {
	case "required", "required_without":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be %s characters long", field, fe.Param())
	case "slug":
		return field + " must be lowercase words separated by hyphens"
	case "url":
		return field + " must be a valid URL"
	case "email":
		return field + " must be a valid email"
	default:
		return fmt.Sprintf("%s failed %s", field, fe.Tag())
	}
}
