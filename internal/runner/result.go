package runner

import "time"

// BuildResult is the outcome of one build. Success is exactly ExitCode == 0.
type BuildResult struct {
	RunID    string
	Project  string
	Success  bool
	Output   string // Captured standard output
	Errors   string // Captured standard error, or the start failure message
	Duration time.Duration
	ExitCode int
	Canceled bool
}

// TestResult is the outcome of one test run.
//
// The counts come from the toolchain's own summary. When no summary is
// recognized they are all zero and Parsed is false; Success still reflects
// the exit code alone.
type TestResult struct {
	RunID        string
	Project      string
	Success      bool
	TotalTests   int
	PassedTests  int
	FailedTests  int
	SkippedTests int
	Parsed       bool
	Duration     time.Duration // Duration reported by the toolchain
	Elapsed      time.Duration // Wall-clock time of the toolchain process
	Output       string
	Errors       string
	ExitCode     int
	Canceled     bool
}
