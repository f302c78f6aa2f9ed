// Package devgenie provides public constants for external tools integrating
// with the devgenie CLI.
package devgenie

// Exit codes returned by the devgenie CLI.
// These constants allow scripts and CI wrappers to check exit codes
// symbolically rather than using magic numbers.
const (
	// ExitSuccess indicates every requested build or test run succeeded.
	ExitSuccess = 0

	// ExitFailure indicates a runtime failure (build failed, tests failed, run canceled).
	ExitFailure = 1

	// ExitConfigError indicates a configuration or usage error.
	ExitConfigError = 2

	// ExitEnvError indicates an environment error (toolchain missing, etc.).
	ExitEnvError = 3
)
