package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ValidationError carries every rejected field of a request
type ValidationError struct {
	Details []ValidationDetail
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Details))
	for _, d := range e.Details {
		fields = append(fields, d.Field)
	}
	return "validation failed: " + strings.Join(fields, ", ")
}

// DecodeError reports a request document that is not valid JSON for its type
type DecodeError struct {
	err error
}

func (e *DecodeError) Error() string {
	return "invalid request JSON: " + e.err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.err
}

// NewValidator returns a validator that reports JSON field names and
// understands uuid.UUID and decimal.Decimal fields
func NewValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// The nil UUID counts as absent so "required" rejects it
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		id, ok := field.Interface().(uuid.UUID)
		if !ok || id == uuid.Nil {
			return nil
		}
		return id.String()
	}, uuid.UUID{})

	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		d, ok := field.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}
		return d.InexactFloat64()
	}, decimal.Decimal{})

	return v
}

// Decode reads one JSON request from r into dst and validates it
func Decode(v *validator.Validate, r io.Reader, dst interface{}) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return &DecodeError{err: err}
	}
	if err := v.Struct(dst); err != nil {
		return FormatValidationErrors(err)
	}
	return nil
}

// FormatValidationErrors turns validator errors into a ValidationError.
// Other errors are returned unchanged.
func FormatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	details := make([]ValidationDetail, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, ValidationDetail{
			Field:   fieldPath(e),
			Message: getValidationMessage(e),
		})
	}
	return &ValidationError{Details: details}
}

// fieldPath drops the top-level struct name from the namespace, e.g.
// "IssueInput.lines[1].quantity" becomes "lines[1].quantity"
func fieldPath(e validator.FieldError) string {
	ns := e.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return e.Field()
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "required_without":
		return fmt.Sprintf("Required when %s is not set", e.Param())
	case "min":
		if e.Kind() == reflect.Slice {
			return "Must contain at least " + e.Param() + " item(s)"
		}
		return "Must be at least " + e.Param()
	case "max":
		if e.Kind() == reflect.String {
			return "Must be at most " + e.Param() + " characters"
		}
		return "Must be at most " + e.Param()
	case "oneof":
		return "Must be one of: " + e.Param()
	case "gte":
		return "Must be greater than or equal to " + e.Param()
	case "gt":
		return "Must be greater than " + e.Param()
	case "datetime":
		return "Must be a date formatted as " + e.Param()
	default:
		return "Invalid value"
	}
}
