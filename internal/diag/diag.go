// Package diag holds structured diagnostic records (errors, warnings, info,
// log) produced by every stage of the compiler, along with a sink that
// collects them in report order and a severity-counting summary.
package diag

import (
	"fmt"
	"strings"

	"github.com/dekarrin/rosed"
)

// Severity classifies a Diagnostic. The numeric values match spec.md §6.
type Severity int

const (
	SeverityError Severity = 1
	SeverityWarn  Severity = 2
	SeverityInfo  Severity = 3
	SeverityLog   Severity = 4
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarn:
		return "warning"
	case SeverityInfo:
		return "info"
	case SeverityLog:
		return "log"
	default:
		return "unknown"
	}
}

// Span is an inclusive start / exclusive end range, all 1-based.
type Span struct {
	StartLine   int
	StartColumn int
	EndLine     int
	EndColumn   int
}

// Diagnostic is one structured error/warning/info/log record with a
// precise source position.
type Diagnostic struct {
	Message  string
	Line     int
	Column   int
	Span     *Span
	Severity Severity

	// SourceLine, when set, is the full text of Line, used only for
	// rendering a cursor under the offending column. It is not part of the
	// diagnostic's identity for equality/ordering purposes.
	SourceLine string
}

// Sink collects diagnostics in the order Report is called and tracks a
// running count by severity. The zero value is ready to use.
type Sink struct {
	records []Diagnostic
	counts  map[Severity]int
}

// Report appends d to the sink and updates the severity count.
func (s *Sink) Report(d Diagnostic) {
	if s.counts == nil {
		s.counts = make(map[Severity]int)
	}
	s.records = append(s.records, d)
	s.counts[d.Severity]++
}

// Errorf reports an Error-severity diagnostic at the given position.
func (s *Sink) Errorf(line, col int, format string, args ...interface{}) {
	s.Report(Diagnostic{Message: fmt.Sprintf(format, args...), Line: line, Column: col, Severity: SeverityError})
}

// Warnf reports a Warning-severity diagnostic at the given position.
func (s *Sink) Warnf(line, col int, format string, args ...interface{}) {
	s.Report(Diagnostic{Message: fmt.Sprintf(format, args...), Line: line, Column: col, Severity: SeverityWarn})
}

// All returns every diagnostic reported so far, in report order. The
// returned slice must not be mutated by the caller.
func (s *Sink) All() []Diagnostic {
	return s.records
}

// Count returns how many diagnostics of the given severity have been
// reported.
func (s *Sink) Count(sev Severity) int {
	return s.counts[sev]
}

// ErrorCount is a convenience for Count(SeverityError); compilation success
// is defined as ErrorCount() == 0.
func (s *Sink) ErrorCount() int {
	return s.Count(SeverityError)
}

// Render produces a human-readable, word-wrapped rendering of d suitable
// for terminal output, including a cursor line under the offending column
// when SourceLine is available.
func Render(d Diagnostic) string {
	header := fmt.Sprintf("%s: line %d, col %d: %s", d.Severity, d.Line, d.Column, d.Message)
	wrapped := rosed.Edit(header).Wrap(100).String()

	if d.SourceLine == "" {
		return wrapped
	}

	cursor := strings.Repeat(" ", max(0, d.Column-1)) + "^"
	return wrapped + "\n" + d.SourceLine + "\n" + cursor
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
