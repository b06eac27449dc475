// Package serrors provides coded errors that survive wrapping and can be
// matched with errors.Is / errors.As.
package serrors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

type BaseError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	LocaleKey  string `json:"locale_key,omitempty"`
	underlying error
}

func NewError(code, message, localeKey string) *BaseError {
	return &BaseError{Code: code, Message: message, LocaleKey: localeKey}
}

func (e *BaseError) Error() string {
	if e.underlying != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.underlying)
	}
	return e.Message
}

func (e *BaseError) Unwrap() error {
	return e.underlying
}

// Is matches any *BaseError carrying the same code.
func (e *BaseError) Is(target error) bool {
	t, ok := target.(*BaseError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Wrap returns a copy of e that also carries err.
func (e *BaseError) Wrap(err error) *BaseError {
	cp := *e
	cp.underlying = err
	return &cp
}

// Withf returns a copy of e whose message is extended with the formatted detail.
func (e *BaseError) Withf(format string, args ...any) *BaseError {
	cp := *e
	cp.Message = e.Message + ": " + fmt.Sprintf(format, args...)
	return &cp
}

func NewFieldRequiredError(field, localeKey string) *BaseError {
	return NewError("FIELD_REQUIRED", fmt.Sprintf("%s is required", field), localeKey)
}

// ValidationErrors maps a field name to a human readable message.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// ProcessValidatorErrors converts validator errors into ValidationErrors.
// fieldName maps a struct field to the name exposed to callers; an empty
// result keeps the struct field name.
func ProcessValidatorErrors(errs validator.ValidationErrors, fieldName func(string) string) ValidationErrors {
	out := make(ValidationErrors, len(errs))
	for _, err := range errs {
		name := err.Field()
		if fieldName != nil {
			if mapped := fieldName(name); mapped != "" {
				name = mapped
			}
		}
		out[name] = message(err)
	}
	return out
}

func describe(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email"
	case "oneof":
		return "must be one of " + err.Param()
	case "min", "gte":
		return "must be at least " + err.Param()
	case "max", "lte":
		return "must be at most " + err.Param()
	default:
		return fmt.Sprintf("failed %q validation", err.Tag())
	}
}
