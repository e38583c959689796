package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvStaging     = "staging"
	EnvProduction  = "production"
)

var validate = newValidator()

// newValidator reports fields by their koanf path rather than their Go name.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks cfg against its struct tags and returns every violation
// as a *ConfigError, joined.
func Validate(cfg *Config) error {
	if cfg == nil {
		return NewValidationError("config", "cannot be nil")
	}

	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := make([]error, 0, len(validationErrors))
	for _, fe := range validationErrors {
		errs = append(errs, toConfigError(fe))
	}
	return errors.Join(errs...)
}

func toConfigError(fe validator.FieldError) *ConfigError {
	field := fieldPath(fe)

	switch fe.Tag() {
	case "required":
		return NewMissingFieldError(field)
	case "oneof":
		return NewInvalidFieldError(field, fe.Value(), strings.Fields(fe.Param()))
	case "url":
		return NewValidationError(field, fmt.Sprintf("must be an absolute URL, got %q", fmt.Sprint(fe.Value())))
	case "min", "gte":
		return NewValidationError(field, fmt.Sprintf("must be at least %s", fe.Param()))
	case "gt":
		return NewValidationError(field, fmt.Sprintf("must be greater than %s", fe.Param()))
	default:
		return NewValidationError(field, fmt.Sprintf("failed %s validation", fe.Tag()))
	}
}

// fieldPath strips the root struct name from the validator namespace,
// turning "Config.badsec.retry.maxattempts" into "badsec.retry.maxattempts".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// EnvVarName returns the environment variable that sets a config key.
func EnvVarName(key string) string {
	if i := strings.IndexByte(key, '['); i >= 0 {
		key = key[:i]
	}
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
