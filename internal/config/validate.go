package config

import (
	"fmt"
	"strings"
	"time"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks semantic rules the schema cannot express.
func Validate(cfg *Config) error {
	if err := validateToolchain(&cfg.Toolchain); err != nil {
		return err
	}
	return validateRun(&cfg.Run)
}

func validateToolchain(tc *ToolchainConfig) error {
	if strings.TrimSpace(tc.Executable) == "" {
		return &ValidationError{Field: "toolchain.executable", Message: "is required"}
	}
	if strings.ContainsAny(tc.TestLogger, " \t\n") {
		return &ValidationError{Field: "toolchain.test_logger", Message: "must not contain whitespace"}
	}
	for key := range tc.Env {
		if key == "" || strings.Contains(key, "=") {
			return &ValidationError{
				Field:   "toolchain.env",
				Message: fmt.Sprintf("invalid variable name %q", key),
			}
		}
	}
	return nil
}

func validateRun(run *RunConfig) error {
	if run.Timeout != "" {
		d, err := time.ParseDuration(run.Timeout)
		if err != nil {
			return &ValidationError{Field: "run.timeout", Message: err.Error()}
		}
		if d <= 0 {
			return &ValidationError{Field: "run.timeout", Message: "must be positive"}
		}
	}
	if run.Parallel < 0 {
		return &ValidationError{Field: "run.parallel", Message: "must not be negative"}
	}
	return nil
}
