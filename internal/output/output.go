// Package output provides formatted output utilities for the CLI.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Writer handles CLI output formatting.
type Writer struct {
	out     io.Writer
	err     io.Writer
	color   bool
	quiet   bool
	lang    language.Tag
	printer *message.Printer
}

// New creates a new Writer with default settings.
func New() *Writer {
	return newWriter(os.Stdout, os.Stderr, isTerminal())
}

// NewWithWriters creates a Writer with custom io.Writers (for testing).
func NewWithWriters(out, err io.Writer, color bool) *Writer {
	return newWriter(out, err, color)
}

func newWriter(out, err io.Writer, color bool) *Writer {
	return &Writer{
		out:     out,
		err:     err,
		color:   color,
		lang:    language.English,
		printer: message.NewPrinter(language.English),
	}
}

// SetQuiet enables or disables quiet mode.
func (w *Writer) SetQuiet(quiet bool) {
	w.quiet = quiet
}

// SetColor enables or disables ANSI colors.
func (w *Writer) SetColor(color bool) {
	w.color = color
}

// SetLanguage selects the language used to format numbers and titles. An
// unparsable tag is reported and English is kept.
func (w *Writer) SetLanguage(tag string) error {
	if tag == "" {
		return nil
	}
	lang, err := language.Parse(tag)
	if err != nil {
		return fmt.Errorf("invalid language %q: %w", tag, err)
	}
	w.lang = lang
	w.printer = message.NewPrinter(lang)
	return nil
}

// Stdout returns the writer used for regular output.
func (w *Writer) Stdout() io.Writer {
	return w.out
}

// Stderr returns the writer used for diagnostics.
func (w *Writer) Stderr() io.Writer {
	return w.err
}

// Print writes to stdout.
func (w *Writer) Print(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format, args...)
}

// Println writes a line to stdout.
func (w *Writer) Println(format string, args ...interface{}) {
	fmt.Fprintf(w.out, format+"\n", args...)
}

// Error writes to stderr.
func (w *Writer) Error(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format, args...)
}

// Errorln writes a line to stderr.
func (w *Writer) Errorln(format string, args ...interface{}) {
	fmt.Fprintf(w.err, format+"\n", args...)
}

// Info prints an info message (skipped in quiet mode).
func (w *Writer) Info(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println(format, args...)
}

// Warning prints a warning message.
func (w *Writer) Warning(format string, args ...interface{}) {
	if w.color {
		w.Errorln(yellow+"warning: "+format+reset, args...)
	} else {
		w.Errorln("warning: "+format, args...)
	}
}

// ErrorPrefix prints an error message with devgenie prefix to stderr.
func (w *Writer) ErrorPrefix(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Errorln("%sdevgenie:%s %s", red, reset, msg)
	} else {
		w.Errorln("devgenie: %s", msg)
	}
}

// RunStart prints the start of a toolchain run.
func (w *Writer) RunStart(project, command string) {
	if w.quiet {
		return
	}
	w.Println("")
	label := fmt.Sprintf("─── [%s] %s ───", project, command)
	if w.color {
		w.Println("%s%s%s", bold+cyan, label, reset)
	} else {
		w.Println("%s", label)
	}
}

// RunSuccess prints a successful run.
func (w *Writer) RunSuccess(project, command string, d time.Duration) {
	if w.quiet {
		return
	}
	if w.color {
		w.Println("%s[%s]%s %s %s✓%s %s%s%s", green, project, reset, command, green, reset, dim, FormatDuration(d), reset)
	} else {
		w.Println("[%s] %s done (%s)", project, command, FormatDuration(d))
	}
}

// RunFailed prints a failed run to stderr.
func (w *Writer) RunFailed(project, command, reason string) {
	if w.color {
		w.Errorln("%s[%s] %s failed:%s %s", red, project, command, reset, reason)
	} else {
		w.Errorln("[%s] %s failed: %s", project, command, reason)
	}
}

// List prints a list of items.
func (w *Writer) List(items []string) {
	for _, item := range items {
		w.Println("  - %s", item)
	}
}

// Table renders rows under headers. Columns listed in numeric are
// right-aligned.
func (w *Writer) Table(headers []string, rows [][]string, numeric ...string) {
	t := table.NewWriter()
	t.SetOutputMirror(w.out)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)

	configs := make([]table.ColumnConfig, 0, len(numeric))
	for _, name := range numeric {
		configs = append(configs, table.ColumnConfig{Name: name, Align: text.AlignRight, AlignHeader: text.AlignRight})
	}
	t.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			r[i] = cell
		}
		t.AppendRow(r)
	}

	if w.color {
		t.SetStyle(table.StyleLight)
		t.Style().Color.Header = text.Colors{text.Bold}
	} else {
		t.SetStyle(table.StyleDefault)
	}
	t.Render()
}

// SummaryHeader prints a summary section header.
func (w *Writer) SummaryHeader(title string) {
	w.Println("")
	if w.color {
		w.Println("%s=== %s ===%s", bold+cyan, title, reset)
	} else {
		w.Println("=== %s ===", title)
	}
	w.Println("")
}

// SummaryItem prints a labeled summary item with value.
func (w *Writer) SummaryItem(label, value string) {
	if w.color {
		w.Println("  %s%s:%s %s", dim, label, reset, value)
	} else {
		w.Println("  %s: %s", label, value)
	}
}

// SummaryPassed prints a passed/success items summary.
func (w *Writer) SummaryPassed(label, value string) {
	if w.color {
		w.Println("  %s%s:%s %s%s%s", dim, label, reset, green, value, reset)
	} else {
		w.Println("  %s: %s", label, value)
	}
}

// SummaryFailed prints a failed items summary.
func (w *Writer) SummaryFailed(label, value string) {
	if w.color {
		w.Println("  %s%s:%s %s%s%s", dim, label, reset, red, value, reset)
	} else {
		w.Println("  %s: %s", label, value)
	}
}

// FinalSuccess prints the closing line of a successful multi-project run
// (skipped in quiet mode).
func (w *Writer) FinalSuccess(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println("")
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Println("%s%s%s", green, msg, reset)
	} else {
		w.Println("%s", msg)
	}
}

// FinalFailure prints the closing line of a failed multi-project run
// (skipped in quiet mode, where the returned error still reports it).
func (w *Writer) FinalFailure(format string, args ...interface{}) {
	if w.quiet {
		return
	}
	w.Println("")
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Println("%s%s%s", red, msg, reset)
	} else {
		w.Println("%s", msg)
	}
}

// Hint prints a hint message for the user.
func (w *Writer) Hint(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.Println("%s%s%s", dim, msg, reset)
	} else {
		w.Println("%s", msg)
	}
}

// Number formats n with the digit grouping of the current language.
func (w *Writer) Number(n int) string {
	return w.printer.Sprintf("%d", n)
}

// Percent formats a fraction in [0, 1] as a percentage with one decimal.
func (w *Writer) Percent(f float64) string {
	return w.printer.Sprintf("%.1f%%", f*100)
}

// Title converts s to title case for the current language.
func (w *Writer) Title(s string) string {
	return cases.Title(w.lang).String(s)
}

// FormatDuration renders d rounded for humans: milliseconds below one
// second, otherwise seconds with two decimals.
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return d.Round(time.Millisecond).String()
	}
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// isTerminal returns true if stdout is a terminal.
func isTerminal() bool {
	if fi, _ := os.Stdout.Stat(); fi != nil {
		return (fi.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// ANSI color codes.
const (
	reset  = "\033[0m"
	bold   = "\033[1m"
	dim    = "\033[2m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
)
