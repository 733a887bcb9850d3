package cli

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"

	"github.com/roach88/llql/internal/engine"
	"github.com/roach88/llql/internal/llql"
	"github.com/roach88/llql/internal/queryir"
)

// DiagnosticReporter writes errors for the user. Errors that carry a query
// position are followed by the offending line and a caret under the
// column.
type DiagnosticReporter struct {
	w      io.Writer
	label  *color.Color
	gutter *color.Color
}

// NewDiagnosticReporter creates a reporter writing to w. Colors follow
// fatih/color's terminal detection.
func NewDiagnosticReporter(w io.Writer) *DiagnosticReporter {
	return &DiagnosticReporter{
		w:      w,
		label:  color.New(color.FgRed, color.Bold),
		gutter: color.New(color.FgCyan),
	}
}

// Report writes err. src is the query text positions refer to; it may be
// empty for errors that are not about a query.
func (r *DiagnosticReporter) Report(src string, err error) {
	if err == nil {
		return
	}
	for _, e := range flatten(err) {
		r.label.Fprint(r.w, "error:")
		fmt.Fprintf(r.w, " %s\n", e)
		if pos, ok := position(e); ok {
			r.excerpt(src, pos)
		}
	}
}

func (r *DiagnosticReporter) excerpt(src string, pos queryir.Pos) {
	lines := strings.Split(src, "\n")
	if pos.Line < 1 || pos.Line > len(lines) {
		return
	}
	line := strings.TrimRight(lines[pos.Line-1], "\r")
	num := strconv.Itoa(pos.Line)

	// Tabs are kept so the caret lines up under the same column.
	var pad strings.Builder
	for i := 0; i < pos.Column-1 && i < len(line); i++ {
		if line[i] == '\t' {
			pad.WriteByte('\t')
		} else {
			pad.WriteByte(' ')
		}
	}

	r.gutter.Fprintf(r.w, "%s | ", num)
	fmt.Fprintln(r.w, line)
	r.gutter.Fprintf(r.w, "%s | ", strings.Repeat(" ", len(num)))
	fmt.Fprint(r.w, pad.String())
	r.label.Fprintln(r.w, "^")
}

// flatten splits errors.Join results so every parse error of a module is
// reported on its own line.
func flatten(err error) []error {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		var out []error
		for _, e := range joined.Unwrap() {
			out = append(out, flatten(e)...)
		}
		return out
	}
	return []error{err}
}

func position(err error) (queryir.Pos, bool) {
	var se *llql.SyntaxError
	if errors.As(err, &se) {
		return se.Pos, true
	}
	var ce *engine.CompileError
	if errors.As(err, &ce) {
		return ce.Pos, true
	}
	return queryir.Pos{}, false
}
