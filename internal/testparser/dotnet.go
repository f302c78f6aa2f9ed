package testparser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/acarl005/stripansi"
)

// DotnetParser parses `dotnet test` console output.
type DotnetParser struct{}

// Name returns the parser name.
func (p *DotnetParser) Name() string {
	return "dotnet"
}

var (
	// compactRegex matches the one-line summary printed per test assembly:
	//
	//	Passed!  - Failed:     0, Passed:    47, Skipped:     3, Total:    50, Duration: 1 s - Foo.Tests.dll (net8.0)
	//
	// Total and Duration are missing in older SDKs.
	compactRegex = regexp.MustCompile(`(?m)Failed:\s*(\d+),\s*Passed:\s*(\d+),\s*Skipped:\s*(\d+)(?:,\s*Total:\s*(\d+))?(?:,\s*Duration:[ \t]*([^\r\n]*))?`)

	// The verbose summary reports each count after "Total tests:". (?s)
	// lets the tail span the intervening lines; within it the labels are
	// found anywhere on a word boundary.
	verboseTotalRegex   = regexp.MustCompile(`(?s)Total tests:\s*(\d+)(.*)`)
	verbosePassedRegex  = regexp.MustCompile(`\bPassed:\s*(\d+)`)
	verboseFailedRegex  = regexp.MustCompile(`\bFailed:\s*(\d+)`)
	verboseSkippedRegex = regexp.MustCompile(`\bSkipped:\s*(\d+)`)

	// Without a "Total tests:" line only labels that start a line count.
	linePassedRegex  = regexp.MustCompile(`(?m)^\s*Passed:\s*(\d+)`)
	lineFailedRegex  = regexp.MustCompile(`(?m)^\s*Failed:\s*(\d+)`)
	lineSkippedRegex = regexp.MustCompile(`(?m)^\s*Skipped:\s*(\d+)`)

	executionTimeRegex = regexp.MustCompile(`Test execution time:[ \t]*([^\r\n]*)`)
	totalTimeRegex     = regexp.MustCompile(`Total time:[ \t]*([^\r\n]*)`)
)

// Parse extracts a summary from dotnet test output. Matchers are tried in
// order and the first one that recognizes anything wins:
//
//  1. The compact per-assembly line. A solution prints one such line per
//     test project; all of them are summed.
//  2. The verbose multi-line block ("Total tests: N" followed by
//     "Passed: N", "Failed: N", "Skipped: N"), with the duration taken from
//     "Test execution time:" or "Total time:".
//
// When neither matches, the zero Summary is returned.
func (p *DotnetParser) Parse(output string) Summary {
	output = stripansi.Strip(output)

	if s, ok := parseCompact(output); ok {
		return s
	}
	if s, ok := parseVerbose(output); ok {
		return s
	}
	return Summary{}
}

func parseCompact(output string) (Summary, bool) {
	matches := compactRegex.FindAllStringSubmatch(output, -1)
	if len(matches) == 0 {
		return Summary{}, false
	}

	var total Summary
	for _, m := range matches {
		s := Summary{Parsed: true}
		s.Failed = atoi(m[1])
		s.Passed = atoi(m[2])
		s.Skipped = atoi(m[3])
		if m[4] != "" {
			s.Total = atoi(m[4])
		} else {
			s.Total = s.Passed + s.Failed + s.Skipped
		}
		if m[5] != "" {
			s.Duration = ParseDuration(m[5])
		}
		total.Add(&s)
	}
	return total, true
}

func parseVerbose(output string) (Summary, bool) {
	s := Summary{}

	// Counts are searched after "Total tests:" when it is present so that
	// unrelated "Passed:" lines earlier in the log are not picked up.
	tail := output
	haveTotal := false
	passedRe, failedRe, skippedRe := linePassedRegex, lineFailedRegex, lineSkippedRegex
	if m := verboseTotalRegex.FindStringSubmatch(output); m != nil {
		s.Total = atoi(m[1])
		tail = m[2]
		haveTotal = true
		s.Parsed = true
		passedRe, failedRe, skippedRe = verbosePassedRegex, verboseFailedRegex, verboseSkippedRegex
	}

	if m := passedRe.FindStringSubmatch(tail); m != nil {
		s.Passed = atoi(m[1])
		s.Parsed = true
	}
	if m := failedRe.FindStringSubmatch(tail); m != nil {
		s.Failed = atoi(m[1])
		s.Parsed = true
	}
	if m := skippedRe.FindStringSubmatch(tail); m != nil {
		s.Skipped = atoi(m[1])
		s.Parsed = true
	}
	if !s.Parsed {
		return Summary{}, false
	}
	if !haveTotal {
		s.Total = s.Passed + s.Failed + s.Skipped
	}

	if m := executionTimeRegex.FindStringSubmatch(output); m != nil {
		s.Duration = ParseDuration(m[1])
	} else if m := totalTimeRegex.FindStringSubmatch(output); m != nil {
		s.Duration = ParseDuration(m[1])
	}
	return s, true
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
