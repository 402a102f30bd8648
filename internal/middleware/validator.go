package middleware

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/movie-catalog/internal/model"
)

// Validator adapts go-playground/validator to echo.Validator.  Field names
// in errors are the JSON names so messages match what clients sent.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	// A zero Date counts as missing for "required".
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		d, ok := field.Interface().(model.Date)
		if !ok || d.IsZero() {
			return nil
		}
		return d.Time
	}, model.Date{})
	v.RegisterStructValidation(patchDates, model.MoviePatch{}, model.PersonPatch{})
	return &Validator{v: v}
}

// patchDates rejects a patch that clears a required date.  An empty string
// decodes to a non-nil zero Date, which "omitempty" lets through.
func patchDates(sl validator.StructLevel) {
	switch p := sl.Current().Interface().(type) {
	case model.MoviePatch:
		if p.ReleaseDate != nil && p.ReleaseDate.IsZero() {
			sl.ReportError(p.ReleaseDate, "releaseDate", "ReleaseDate", "required", "")
		}
	case model.PersonPatch:
		if p.BirthDate != nil && p.BirthDate.IsZero() {
			sl.ReportError(p.BirthDate, "birthDate", "BirthDate", "required", "")
		}
	}
}

// Validate implements echo.Validator.
func (cv *Validator) Validate(i any) error {
	return cv.v.Struct(i)
}

// ValidationMessage renders err as "<Resource> validation failed: field:
// reason, field: reason".  Non-validation errors are returned verbatim.
func ValidationMessage(resource string, err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		parts = append(parts, fmt.Sprintf("%s: %s", fieldPath(fe), reason(fe)))
	}
	return fmt.Sprintf("%s validation failed: %s", resource, strings.Join(parts, ", "))
}

// fieldPath drops the struct name prefix (MovieInput.rating -> rating).
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 && i < len(ns)-1 && unicode.IsUpper(rune(ns[0])) {
		return ns[i+1:]
	}
	return fe.Field()
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "min":
		if fe.Kind() == reflect.String && fe.Param() == "1" {
			return "must not be empty"
		}
		return "must be at least " + fe.Param() + " characters"
	case "uuid":
		return "is not a valid id"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of " + fe.Param()
	}
	return "failed " + fe.Tag()
}
