package config

import (
	"fmt"
	"strings"
)

// Error categories
const (
	CategoryMissing = "missing"
	CategoryInvalid = "invalid"
	CategoryLoad    = "load"
)

// ConfigError describes one problem with the configuration and, where
// possible, how to fix it.
//
//nolint:revive // exported as config.ConfigError for clarity at call sites
type ConfigError struct {
	Category string // CategoryMissing, CategoryInvalid or CategoryLoad
	Field    string // key path such as "badsec.retry.delays[1]", or a file name for load errors
	Message  string
	Hint     string // what to change
	err      error
}

// Error renders "config <category>: <field>: <message> (<hint>)".
func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("config ")
	b.WriteString(e.Category)
	b.WriteString(": ")
	if e.Field != "" {
		b.WriteString(e.Field)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Hint != "" {
		fmt.Fprintf(&b, " (%s)", e.Hint)
	}
	return b.String()
}

// Unwrap returns the underlying load error, if any.
func (e *ConfigError) Unwrap() error {
	return e.err
}

// NewMissingFieldError reports a required key with no value.
func NewMissingFieldError(field string) *ConfigError {
	return &ConfigError{
		Category: CategoryMissing,
		Field:    field,
		Message:  "value required",
		Hint:     fmt.Sprintf("set %s or add %s to %s", EnvVarName(field), field, DefaultFile),
	}
}

// NewInvalidFieldError reports a value outside an enumerated set.
func NewInvalidFieldError(field string, value any, allowed []string) *ConfigError {
	return &ConfigError{
		Category: CategoryInvalid,
		Field:    field,
		Message:  fmt.Sprintf("unsupported value %q", fmt.Sprint(value)),
		Hint:     "one of: " + strings.Join(allowed, ", "),
	}
}

// NewValidationError reports a value that fails a constraint.
func NewValidationError(field, message string) *ConfigError {
	return &ConfigError{
		Category: CategoryInvalid,
		Field:    field,
		Message:  message,
	}
}

// NewLoadError reports a source that could not be read or parsed.
func NewLoadError(source string, err error) *ConfigError {
	return &ConfigError{
		Category: CategoryLoad,
		Field:    source,
		Message:  err.Error(),
		err:      err,
	}
}
