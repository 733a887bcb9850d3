package printer

import (
	"encoding/csv"
	"io"

	"github.com/roach88/llql/internal/engine"
)

// CSVPrinter writes a header line followed by one record per row, each
// cell being the value's printed literal.
type CSVPrinter struct{}

func (CSVPrinter) Print(w io.Writer, r *engine.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(r.Columns); err != nil {
		return err
	}
	record := make([]string, len(r.Columns))
	for _, row := range r.Rows {
		for i, v := range row {
			record[i] = v.Literal()
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
