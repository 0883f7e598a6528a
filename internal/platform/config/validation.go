package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate names fields by their koanf keys, so an error points at the
// YAML key to fix rather than the Go field.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("koanf"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	v.RegisterStructValidation(validateRefreshTimeouts, Config{})

	return v
}

// validateRefreshTimeouts requires the quote client to give up before the
// server stops writing, so a slow refresh still gets its error response.
func validateRefreshTimeouts(sl validator.StructLevel) {
	cfg, ok := sl.Current().Interface().(Config)
	if !ok || cfg.Client.Timeout <= 0 || cfg.Server.WriteTimeout <= 0 {
		return
	}

	if cfg.Client.Timeout >= cfg.Server.WriteTimeout {
		sl.ReportError(cfg.Client.Timeout, "client.timeout", "Timeout", "ltfield", "server.write_timeout")
	}
}

// Validate validates the configuration and returns an error if invalid.
// Validation fails fast: no command should run with invalid config.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationErrors(err)
	}
	return nil
}

// formatValidationErrors lists every invalid key, one per line.
func formatValidationErrors(err error) error {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return err
	}

	errs := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		field := formatFieldPath(e.Namespace())
		errs = append(errs, formatFieldError(field, e)+envHint(field))
	}

	return fmt.Errorf("config validation failed:\n  %s", strings.Join(errs, "\n  "))
}

// formatFieldError formats a single field validation error.
func formatFieldError(field string, e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "required_if":
		return fmt.Sprintf("%s is required when %s", field, conditionPath(field, e.Param()))
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, e.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, e.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, e.Param())
	case "startswith":
		return fmt.Sprintf("%s must start with %s", field, e.Param())
	case "url":
		return fmt.Sprintf("%s must be an absolute URL with a scheme, e.g. https://host", field)
	case "ltfield":
		return fmt.Sprintf("%s must be shorter than %s", field, e.Param())
	default:
		return fmt.Sprintf("%s failed validation: %s", field, e.Tag())
	}
}

// formatFieldPath drops the root struct name: "Config.storage.driver"
// becomes "storage.driver".
func formatFieldPath(namespace string) string {
	_, path, found := strings.Cut(namespace, ".")
	if !found {
		return namespace
	}

	return path
}

// conditionPath turns a required_if param such as "Driver sqlite" into
// "storage.driver is sqlite" for a field under storage.
func conditionPath(field, param string) string {
	name, value, _ := strings.Cut(param, " ")

	key := strings.ToLower(name)
	if i := strings.LastIndex(field, "."); i >= 0 {
		key = field[:i+1] + key
	}

	return fmt.Sprintf("%s is %s", key, value)
}

// envHint names the environment variable that overrides field. Keys with
// an underscore have none, since the loader maps "_" to ".".
func envHint(field string) string {
	if strings.Contains(field, "_") {
		return ""
	}

	return fmt.Sprintf(" (or set %s%s)", EnvPrefix, strings.ToUpper(strings.ReplaceAll(field, ".", "_")))
}
