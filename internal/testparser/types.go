// Package testparser extracts structured results from free-form test
// toolchain reports.
package testparser

import "time"

// Summary holds the counts and duration extracted from a test report.
//
// Total is taken from the toolchain's own report when it prints one and is not
// recomputed. When nothing in the report is recognized every field keeps its
// zero value and Parsed is false, which is how callers tell "no summary found"
// apart from a genuine zero-test run.
type Summary struct {
	Total    int
	Passed   int
	Failed   int
	Skipped  int
	Duration time.Duration
	Parsed   bool // true if a summary was recognized
}

// Add adds another Summary to this one, aggregating counts and durations.
// The Parsed flag uses "sticky true" semantics: if any added Summary has
// Parsed=true, the aggregate will have Parsed=true.
func (s *Summary) Add(other *Summary) {
	if other == nil {
		return
	}
	s.Total += other.Total
	s.Passed += other.Passed
	s.Failed += other.Failed
	s.Skipped += other.Skipped
	s.Duration += other.Duration
	if other.Parsed {
		s.Parsed = true
	}
}

// Parser defines the interface for test report parsers.
type Parser interface {
	// Parse extracts a summary from the toolchain output. It never fails:
	// unrecognized text yields a zero Summary with Parsed=false.
	Parse(output string) Summary
	// Name returns the name of the parser.
	Name() string
}
