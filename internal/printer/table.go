package printer

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/roach88/llql/internal/engine"
)

// DefaultPageSize is the page length when pagination is on and no size
// was configured.
const DefaultPageSize = 10

// TablePrinter draws a boxed table. With Pagination on and more rows than
// PageSize, it shows one page at a time and reads n (next), p (previous)
// or q (quit) lines from In. Lines are read one at a time, so In may be
// shared with a caller that keeps reading after Print returns.
type TablePrinter struct {
	Pagination bool
	PageSize   int
	In         io.Reader

	lines *bufio.Reader
}

func (p *TablePrinter) Print(w io.Writer, r *engine.Result) error {
	if len(r.Columns) == 0 {
		return nil
	}
	size := p.PageSize
	if size < 1 {
		size = DefaultPageSize
	}
	if !p.Pagination || len(r.Rows) <= size {
		_, err := fmt.Fprintln(w, renderTable(r, 0, len(r.Rows)))
		return err
	}

	pages := (len(r.Rows) + size - 1) / size
	in := p.reader()
	page := 0
	for {
		start := page * size
		end := min(start+size, len(r.Rows))
		if _, err := fmt.Fprintln(w, renderTable(r, start, end)); err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "Page %d/%d\n", page+1, pages); err != nil {
			return err
		}
		if in == nil {
			return nil
		}

		for {
			if _, err := fmt.Fprint(w, "Enter 'n' for next page, 'p' for previous page or 'q' to quit: "); err != nil {
				return err
			}
			line, err := in.ReadString('\n')
			if err != nil && line == "" {
				fmt.Fprintln(w)
				if errors.Is(err, io.EOF) {
					return nil
				}
				return err
			}
			cmd := strings.ToLower(strings.TrimSpace(line))
			switch {
			case cmd == "q":
				return nil
			case cmd == "n" && page+1 < pages:
				page++
			case cmd == "p" && page > 0:
				page--
			default:
				continue
			}
			break
		}
	}
}

// reader wraps In once for the printer's lifetime. A *bufio.Reader is used
// as is so its buffered input stays visible to the caller.
func (p *TablePrinter) reader() *bufio.Reader {
	if p.lines == nil && p.In != nil {
		if br, ok := p.In.(*bufio.Reader); ok {
			p.lines = br
		} else {
			p.lines = bufio.NewReader(p.In)
		}
	}
	return p.lines
}

func renderTable(r *engine.Result, start, end int) string {
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	t := table.NewWriter()
	t.SetStyle(style)

	header := make(table.Row, len(r.Columns))
	for i, c := range r.Columns {
		header[i] = c
	}
	t.AppendHeader(header)

	for _, row := range r.Rows[start:end] {
		cells := make(table.Row, len(row))
		for i, v := range row {
			cells[i] = v.Literal()
		}
		t.AppendRow(cells)
	}
	return t.Render()
}
