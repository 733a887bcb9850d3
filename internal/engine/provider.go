package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/roach88/llql/internal/ir"
	"github.com/roach88/llql/internal/value"
)

// DataProvider yields the rows of a table. Scan calls fn once per row, in
// a stable order, and stops at the first error fn returns.
type DataProvider interface {
	Scan(ctx context.Context, table *Table, fn func(Row) error) error
}

// IRDataProvider serves the instructions table from a loaded session.
type IRDataProvider struct {
	session *ir.Session
}

// NewIRDataProvider creates a provider over session.
func NewIRDataProvider(session *ir.Session) *IRDataProvider {
	return &IRDataProvider{session: session}
}

// Scan visits every instruction of every defined function, modules in load
// order and everything else in source order.
func (p *IRDataProvider) Scan(ctx context.Context, table *Table, fn func(Row) error) error {
	if table.Name != InstructionsTable.Name {
		return fmt.Errorf("table %q: not provided by the IR session", table.Name)
	}
	rows := 0
	for _, m := range p.session.Modules() {
		file := value.TextValue(m.Name)
		for _, f := range m.Functions() {
			if err := ctx.Err(); err != nil {
				return err
			}
			fname := value.TextValue(f.Name())
			for _, b := range f.Blocks() {
				bname := value.TextValue(b.Name())
				for _, inst := range b.Instructions() {
					row := Row{fname, bname, value.InstValue{Node: inst}, file}
					if err := fn(row); err != nil {
						return err
					}
					rows++
				}
			}
		}
	}
	slog.Debug("rows scanned", "table", table.Name, "rows", rows)
	return nil
}
