// Package validation validates request structs with go-playground/validator and
// converts failures into a single apperr validation error.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/ariefcatur/go-bookstore/internal/apperr"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Violation is one failed constraint on one field.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator wraps go-playground/validator with bookstore-specific tags:
//
//	notblank      string must contain a non-space character
//	digits=15_4   decimal has at most 15 integer and 4 fractional digits
//	decmin=0      decimal is greater than or equal to the parameter
type Validator struct {
	v *validator.Validate
}

// New creates a validator configured for request structs.
func New() *Validator {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := fld.Tag.Get("json")
		if name == "" {
			name = fld.Tag.Get("query")
		}
		if name == "" || name == "-" {
			return fld.Name
		}
		if i := strings.IndexByte(name, ','); i >= 0 {
			return name[:i]
		}
		return name
	})

	// Decimals are validated through their exact text form.
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.String()
		}
		return nil
	}, decimal.Decimal{})

	_ = v.RegisterValidation("notblank", notBlank)
	_ = v.RegisterValidation("digits", digits)
	_ = v.RegisterValidation("decmin", decimalMin)

	return &Validator{v: v}
}

// Validate checks s and returns an *apperr.Error with code 4001 on failure.
func (v *Validator) Validate(s any) error {
	if err := v.v.Struct(s); err != nil {
		return v.formatError(err)
	}
	return nil
}

func (v *Validator) formatError(err error) error {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	violations := make([]Violation, 0, len(validationErrs))
	messages := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		msg := friendlyMessage(e)
		violations = append(violations, Violation{Field: e.Field(), Message: msg})
		messages = append(messages, msg)
	}
	return apperr.Validation(strings.Join(messages, ";"), violations)
}

func friendlyMessage(e validator.FieldError) string {
	field := e.Field()
	switch e.Tag() {
	case "required", "notblank":
		return field + " is required"
	case "max":
		if e.Kind() == reflect.String {
			return "The length of " + field + " exceeds the limit"
		}
		return fmt.Sprintf("The %s cannot be greater than %s", field, e.Param())
	case "min", "gte", "decmin":
		if e.Kind() == reflect.String && e.Tag() != "decmin" {
			return fmt.Sprintf("The length of %s cannot be less than %s", field, e.Param())
		}
		return fmt.Sprintf("%s cannot less than %s", field, e.Param())
	case "digits":
		integer, fraction, _ := parseDigits(e.Param())
		return fmt.Sprintf("The integer part of the %s can have a maximum of %d digits, and the decimal part is limited to %d digits",
			field, integer, fraction)
	default:
		return "invalid " + field
	}
}

func notBlank(fl validator.FieldLevel) bool {
	field := fl.Field()
	if field.Kind() != reflect.String {
		return false
	}
	return strings.TrimSpace(field.String()) != ""
}

func digits(fl validator.FieldLevel) bool {
	maxInt, maxFrac, err := parseDigits(fl.Param())
	if err != nil {
		return false
	}
	d, ok := decimalValue(fl.Field())
	if !ok {
		return false
	}
	intDigits, fracDigits := countDigits(d)
	return intDigits <= maxInt && fracDigits <= maxFrac
}

func decimalMin(fl validator.FieldLevel) bool {
	limit, err := decimal.NewFromString(fl.Param())
	if err != nil {
		return false
	}
	d, ok := decimalValue(fl.Field())
	if !ok {
		return false
	}
	return d.GreaterThanOrEqual(limit)
}

// decimalValue reads a field that RegisterCustomTypeFunc already turned into text.
func decimalValue(field reflect.Value) (decimal.Decimal, bool) {
	if field.Kind() != reflect.String {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(field.String())
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// parseDigits reads an "integer_fraction" parameter such as "15_4".
func parseDigits(param string) (int, int, error) {
	intPart, fracPart, ok := strings.Cut(param, "_")
	if !ok {
		return 0, 0, fmt.Errorf("digits: malformed parameter %q", param)
	}
	integer, err := strconv.Atoi(intPart)
	if err != nil {
		return 0, 0, fmt.Errorf("digits: %w", err)
	}
	fraction, err := strconv.Atoi(fracPart)
	if err != nil {
		return 0, 0, fmt.Errorf("digits: %w", err)
	}
	return integer, fraction, nil
}

// countDigits returns the number of significant integer digits and the number
// of fractional digits of d.
func countDigits(d decimal.Decimal) (int, int) {
	text := d.Abs().String()
	intPart, fracPart, _ := strings.Cut(text, ".")
	intPart = strings.TrimLeft(intPart, "0")
	return len(intPart), len(fracPart)
}
