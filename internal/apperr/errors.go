package apperr

import (
	"errors"
	"fmt"
)

var (
	ErrConfiguration = errors.New("configuration error")
	ErrValidation    = errors.New("validation error")
)

// ConfigError reports malformed startup data: a lexicon row, an evaluation
// form or the process environment. Row is 1-based and zero when not tied to
// a tabular row.
type ConfigError struct {
	Source string
	Row    int
	Field  string
	Reason string
	Raw    error
}

func (e *ConfigError) Error() string {
	loc := e.Source
	if e.Row > 0 {
		loc = fmt.Sprintf("%s row %d", loc, e.Row)
	}
	msg := fmt.Sprintf("%s: %s", ErrConfiguration, loc)
	if e.Field != "" {
		msg += fmt.Sprintf(" field %q", e.Field)
	}
	msg += ": " + e.Reason
	if e.Raw != nil {
		msg += fmt.Sprintf(": %v", e.Raw)
	}
	return msg
}

func (e *ConfigError) Unwrap() []error {
	if e.Raw != nil {
		return []error{ErrConfiguration, e.Raw}
	}
	return []error{ErrConfiguration}
}

// ValidationError rejects caller input before any computation happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Config(source string, row int, field, reason string) *ConfigError {
	return &ConfigError{Source: source, Row: row, Field: field, Reason: reason}
}

func Validation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidation reports whether err (or anything it wraps) is a ValidationError.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func IsConfig(err error) bool {
	return errors.Is(err, ErrConfiguration)
}
