// Package printer renders query results as tables, canonical JSON or CSV.
package printer

import (
	"fmt"
	"io"

	"github.com/roach88/llql/internal/engine"
)

// Output formats.
const (
	FormatRender = "render"
	FormatJSON   = "json"
	FormatCSV    = "csv"
)

// Formats lists the accepted --output values.
var Formats = []string{FormatRender, FormatJSON, FormatCSV}

// Printer writes one result.
type Printer interface {
	Print(w io.Writer, r *engine.Result) error
}

// Options configures the table printer. JSON and CSV output ignore it.
type Options struct {
	Pagination bool
	PageSize   int
	// In supplies the paging commands when Pagination is on.
	In io.Reader
}

// New returns the printer for format.
func New(format string, opts Options) (Printer, error) {
	switch format {
	case FormatRender, "":
		return &TablePrinter{Pagination: opts.Pagination, PageSize: opts.PageSize, In: opts.In}, nil
	case FormatJSON:
		return JSONPrinter{}, nil
	case FormatCSV:
		return CSVPrinter{}, nil
	}
	return nil, fmt.Errorf("unknown output format %q (want render, json or csv)", format)
}
