// Package validation runs the `validate` struct tags declared on the input
// models and reports the first failing rule as an apperrors.ValidationError.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/sheikh-saqib/personal-finance-tracker/internal/apperrors"
	"github.com/shopspring/decimal"
)

// ErrValidatorInit is returned when a custom rule fails to register.
var ErrValidatorInit = errors.New("validator initialization failed")

var (
	validate     *validator.Validate
	validateOnce sync.Once
	errValidate  error
)

func initValidator() (*validator.Validate, error) {
	vld := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON name.
	vld.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})

	rules := map[string]validator.Func{
		"notblank":            notBlank,
		"nonzero":             nonZero,
		"positive_decimal":    positiveDecimal,
		"nonnegative_decimal": nonNegativeDecimal,
	}
	for tag, fn := range rules {
		if err := vld.RegisterValidation(tag, fn); err != nil {
			return nil, fmt.Errorf("%w: failed to register '%s': %w", ErrValidatorInit, tag, err)
		}
	}
	return vld, nil
}

// Validator returns the shared validator instance.
func Validator() (*validator.Validate, error) {
	validateOnce.Do(func() {
		validate, errValidate = initValidator()
	})
	return validate, errValidate
}

func notBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// nonZero rejects the zero value of the field, including a pointed-to zero
// time, which "required" lets through.
func nonZero(fl validator.FieldLevel) bool {
	return !fl.Field().IsZero()
}

// positiveDecimal accepts decimal.Decimal and a set decimal.NullDecimal.
// The field is read directly: registering a custom type func that returns
// decimal.Decimal again would loop forever.
func positiveDecimal(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return v.IsPositive()
	case decimal.NullDecimal:
		return v.Valid && v.Decimal.IsPositive()
	}
	return false
}

// nonNegativeDecimal treats an unset decimal.NullDecimal as valid.
func nonNegativeDecimal(fl validator.FieldLevel) bool {
	switch v := fl.Field().Interface().(type) {
	case decimal.Decimal:
		return !v.IsNegative()
	case decimal.NullDecimal:
		return !v.Valid || !v.Decimal.IsNegative()
	}
	return false
}

// Messages maps a Go field name, or "Field.tag" for a single rule of that
// field, to the message reported when the rule fails. A %v verb in the
// message receives the offending value.
type Messages map[string]string

// Struct validates payload and returns nil, an apperrors.ValidationError for
// the first failing field, or a plain error when the validator itself fails.
func Struct(payload any, messages Messages) error {
	vld, err := Validator()
	if err != nil {
		return err
	}

	err = vld.Struct(payload)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("validate %T: %w", payload, err)
	}
	return apperrors.Validation("%s", messages.render(fieldErrs[0]))
}

func (m Messages) render(fe validator.FieldError) string {
	msg, ok := m[fe.StructField()+"."+fe.Tag()]
	if !ok {
		msg, ok = m[fe.StructField()]
	}
	if !ok {
		return fallback(fe)
	}
	if strings.Contains(msg, "%") {
		return fmt.Sprintf(msg, fe.Value())
	}
	return msg
}

var fallbackFormatters = map[string]func(field, param string) string{
	"required": func(field, _ string) string {
		return fmt.Sprintf("'%s' is required", field)
	},
	"required_if": func(field, _ string) string {
		return fmt.Sprintf("'%s' is required", field)
	},
	"nonzero": func(field, _ string) string {
		return fmt.Sprintf("'%s' is required", field)
	},
	"notblank": func(field, _ string) string {
		return fmt.Sprintf("'%s' is required", field)
	},
	"oneof": func(field, param string) string {
		return fmt.Sprintf("'%s' must be one of [%s]", field, param)
	},
	"min": func(field, param string) string {
		return fmt.Sprintf("'%s' must be at least %s", field, param)
	},
	"max": func(field, param string) string {
		return fmt.Sprintf("'%s' must be at most %s", field, param)
	},
	"positive_decimal": func(field, _ string) string {
		return fmt.Sprintf("'%s' must be greater than 0", field)
	},
	"nonnegative_decimal": func(field, _ string) string {
		return fmt.Sprintf("'%s' cannot be negative", field)
	},
}

func fallback(fe validator.FieldError) string {
	if format, ok := fallbackFormatters[fe.Tag()]; ok {
		return format(fe.Field(), fe.Param())
	}
	return fmt.Sprintf("'%s' is invalid", fe.Field())
}
