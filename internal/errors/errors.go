// Package errors provides structured error types and exit codes for devgenie.
package errors

import (
	"errors"
	"fmt"
)

// Exit codes returned by the CLI.
const (
	ExitSuccess          = 0 // Success
	ExitRuntimeError     = 1 // Runtime error (build failed, tests failed, etc.)
	ExitConfigError      = 2 // Configuration or usage error
	ExitEnvironmentError = 3 // Environment error (toolchain missing, etc.)
)

// ErrorKind represents the type of error.
type ErrorKind int

const (
	KindRuntime ErrorKind = iota
	KindConfig
	KindNotFound
	KindValidation
	KindEnvironment
)

// Error is the base error type for devgenie.
//
// Operational failures of a toolchain run (nonzero exit, spawn failure,
// cancellation) are reported through result values, not through Error.
// Error is reserved for caller misuse, configuration problems and CLI-level
// failures.
type Error struct {
	Kind    ErrorKind
	Message string
	Project string // Project path if applicable
	Command string // Toolchain subcommand if applicable
	Cause   error  // Underlying error
}

func (e *Error) Error() string {
	if e.Project != "" && e.Command != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Project, e.Command, e.Message)
	}
	if e.Project != "" {
		return fmt.Sprintf("[%s] %s", e.Project, e.Message)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// ExitCode returns the appropriate exit code for this error.
func (e *Error) ExitCode() int {
	switch e.Kind {
	case KindConfig, KindValidation:
		return ExitConfigError
	case KindEnvironment:
		return ExitEnvironmentError
	default:
		return ExitRuntimeError
	}
}

// New creates a new runtime error.
func New(message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
	}
}

// Newf creates a new runtime error with formatting.
func Newf(format string, args ...interface{}) *Error {
	return New(fmt.Sprintf(format, args...))
}

// Config creates a new configuration error.
func Config(message string) *Error {
	return &Error{
		Kind:    KindConfig,
		Message: message,
	}
}

// Configf creates a new configuration error with formatting.
func Configf(format string, args ...interface{}) *Error {
	return Config(fmt.Sprintf(format, args...))
}

// Validation creates an error for a caller contract violation.
func Validation(message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: message,
	}
}

// Environment creates a new environment error.
func Environment(message string) *Error {
	return &Error{
		Kind:    KindEnvironment,
		Message: message,
	}
}

// Environmentf creates a new environment error with formatting.
func Environmentf(format string, args ...interface{}) *Error {
	return Environment(fmt.Sprintf(format, args...))
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Message: message,
		Cause:   err,
	}
}

// ProjectError creates an error for a specific project and toolchain command.
func ProjectError(project, command, message string) *Error {
	return &Error{
		Kind:    KindRuntime,
		Project: project,
		Command: command,
		Message: message,
	}
}

// NotFound creates a not found error.
func NotFound(what, name string) *Error {
	return &Error{
		Kind:    KindNotFound,
		Message: fmt.Sprintf("%s not found: %s", what, name),
	}
}

// GetExitCode returns the exit code for an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var de *Error
	if errors.As(err, &de) {
		return de.ExitCode()
	}
	return ExitRuntimeError
}
