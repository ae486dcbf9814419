package validator

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"go-doctor-scheduling/pkg/interval"

	"github.com/go-playground/validator/v10"
)

var weekdays = map[string]struct{}{
	"MONDAY": {}, "TUESDAY": {}, "WEDNESDAY": {}, "THURSDAY": {},
	"FRIDAY": {}, "SATURDAY": {}, "SUNDAY": {},
}

// messages renders a failed tag; param is the tag parameter, if any.
var messages = map[string]func(field, param string) string{
	"required":      func(f, _ string) string { return f + " is required" },
	"min":           func(f, p string) string { return f + " must be at least " + p },
	"max":           func(f, p string) string { return f + " must be at most " + p },
	"gte":           func(f, p string) string { return f + " must be greater than or equal to " + p },
	"lte":           func(f, p string) string { return f + " must be less than or equal to " + p },
	"oneof":         func(f, p string) string { return f + " must be one of: " + p },
	"clock":         func(f, _ string) string { return f + " must be a time of day as HH:MM" },
	"calendar_date": func(f, _ string) string { return f + " must be a date as YYYY-MM-DD" },
	"weekday":       func(f, _ string) string { return f + " must be an upper-case day name such as MONDAY" },
}

// CustomValidator validates request DTOs and reports failures keyed by
// their JSON path, e.g. "slots[1].start_time".
type CustomValidator struct {
	validator *validator.Validate
}

func NewValidator() *CustomValidator {
	v := validator.New()
	v.RegisterTagNameFunc(jsonName)

	// Registration only fails on an empty tag or nil func.
	_ = v.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, err := interval.ParseClock(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("calendar_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, ok := weekdays[fl.Field().String()]
		return ok
	})

	return &CustomValidator{validator: v}
}

func (cv *CustomValidator) Validate(i any) error {
	return cv.validator.Struct(i)
}

func (cv *CustomValidator) FormatValidationErrors(err error) map[string]string {
	out := make(map[string]string)

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return out
	}

	for _, e := range verrs {
		field := fieldPath(e.Namespace())
		if render, ok := messages[e.Tag()]; ok {
			out[field] = render(field, e.Param())
			continue
		}
		out[field] = field + " is invalid"
	}
	return out
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	}
	return name
}

// fieldPath drops the root struct name from a namespace.
func fieldPath(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}
