package testparser

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Unit is the unit of a DurationLiteral.
type Unit int

const (
	UnitSeconds Unit = iota // default when the text carries no unit
	UnitMilliseconds
	UnitMinutes
)

func (u Unit) String() string {
	switch u {
	case UnitMilliseconds:
		return "ms"
	case UnitMinutes:
		return "min"
	default:
		return "s"
	}
}

// DurationLiteral is a number and unit read from report text, e.g. "2.5 s".
type DurationLiteral struct {
	Magnitude float64
	Unit      Unit
}

// Duration converts the literal to a time.Duration.
func (d DurationLiteral) Duration() time.Duration {
	var scale time.Duration
	switch d.Unit {
	case UnitMilliseconds:
		scale = time.Millisecond
	case UnitMinutes:
		scale = time.Minute
	default:
		scale = time.Second
	}
	return time.Duration(d.Magnitude * float64(scale))
}

// durationLiteralRegex matches a leading "<number><optional unit>" fragment.
// Anything after the unit is ignored as long as the unit ends on a word
// boundary, so "1 ms - Tests.dll (net8.0)" reads as 1ms.
var durationLiteralRegex = regexp.MustCompile(`(?i)^\s*(\d+(?:\.\d+)?)\s*(ms|minutes|min|m|seconds|sec|s)?\b`)

// ParseDurationLiteral reads a DurationLiteral from the start of s.
func ParseDurationLiteral(s string) (DurationLiteral, bool) {
	m := durationLiteralRegex.FindStringSubmatch(s)
	if m == nil {
		return DurationLiteral{}, false
	}
	// "00:00:01.52" is a clock value and "1.5h" a Go duration, not the
	// literals "00" and "1".
	if rest := s[len(m[0]):]; strings.HasPrefix(rest, ":") || strings.HasPrefix(rest, ".") {
		return DurationLiteral{}, false
	}
	mag, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return DurationLiteral{}, false
	}
	lit := DurationLiteral{Magnitude: mag, Unit: UnitSeconds}
	switch strings.ToLower(m[2]) {
	case "ms":
		lit.Unit = UnitMilliseconds
	case "m", "min", "minutes":
		lit.Unit = UnitMinutes
	}
	return lit, true
}

// clockRegex matches the [hh:]mm:ss[.fraction] form older toolchains print.
var clockRegex = regexp.MustCompile(`^\s*(?:(\d+):)?(\d{1,2}):(\d{1,2}(?:\.\d+)?)\b`)

// ParseDuration normalizes a free-text duration fragment. It tries a
// DurationLiteral first (a missing unit means seconds), then the generic
// forms "1m30s" and "00:01:30.5", and returns zero when nothing applies.
// A leading "<" is dropped, so "< 1 ms" reads as 1ms.
func ParseDuration(s string) time.Duration {
	s = strings.TrimPrefix(strings.TrimSpace(s), "<")
	if lit, ok := ParseDurationLiteral(s); ok {
		return lit.Duration()
	}
	if d, err := time.ParseDuration(strings.TrimSpace(s)); err == nil {
		return d
	}
	if d, ok := parseClock(s); ok {
		return d
	}
	return 0
}

func parseClock(s string) (time.Duration, bool) {
	m := clockRegex.FindStringSubmatch(s)
	if m == nil {
		return 0, false
	}
	var hours, minutes int
	if m[1] != "" {
		hours, _ = strconv.Atoi(m[1])
	}
	minutes, _ = strconv.Atoi(m[2])
	seconds, err := strconv.ParseFloat(m[3], 64)
	if err != nil {
		return 0, false
	}
	return time.Duration(hours)*time.Hour +
		time.Duration(minutes)*time.Minute +
		time.Duration(seconds*float64(time.Second)), true
}
