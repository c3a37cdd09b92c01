package config

import (
	"fmt"
	"strings"

	apperrors "gomediate/internal/errors"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks every section and reports all problems at once
func (c *Config) Validate() error {
	var errs ValidationErrors

	if err := c.Bootstrap.Validate(); err != nil {
		errs = append(errs, ValidationError{Field: "bootstrap", Message: err.Error()})
	}

	switch strings.ToLower(c.Logging.Level) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, ValidationError{Field: "logging.level", Message: fmt.Sprintf("unknown level %q", c.Logging.Level)})
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, ValidationError{Field: "logging.format", Message: fmt.Sprintf("must be json or text, got %q", c.Logging.Format)})
	}

	if c.Server.Addr == "" {
		errs = append(errs, ValidationError{Field: "server.addr", Message: "is required"})
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		errs = append(errs, ValidationError{Field: "server.gin_mode", Message: fmt.Sprintf("must be debug, release or test, got %q", c.Server.GinMode)})
	}
	if c.Server.MaxBootstrapIterations <= 0 {
		errs = append(errs, ValidationError{Field: "server.max_bootstrap_iterations", Message: "must be positive"})
	}

	if len(errs) > 0 {
		return &apperrors.AppError{
			Code:    apperrors.CodeConfigInvalid,
			Message: "configuration validation failed",
			Cause:   errs,
		}
	}
	return nil
}
