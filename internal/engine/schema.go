package engine

import (
	"slices"
	"strings"

	"github.com/roach88/llql/internal/value"
)

// Column is one column of a table.
type Column struct {
	Name string
	Type value.DataType
}

// Table describes the rows a DataProvider yields for one table.
type Table struct {
	Name    string
	Columns []Column
}

// Index finds a column by name, ignoring case.
func (t *Table) Index(name string) (int, bool) {
	for i, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return i, true
		}
	}
	return -1, false
}

// ColumnNames returns the column names in declaration order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Row is one row of values, positioned by table column.
type Row []value.Value

// InstructionsTable is the table of every instruction in the session.
var InstructionsTable = &Table{
	Name: "instructions",
	Columns: []Column{
		{Name: "function_name", Type: value.Text},
		{Name: "basic_block_name", Type: value.Text},
		{Name: "instruction", Type: value.Inst},
		{Name: "file_name", Type: value.Text},
	},
}

// Schema is the set of queryable tables.
type Schema struct {
	tables []*Table
}

// NewSchema creates a schema over tables.
func NewSchema(tables ...*Table) *Schema {
	return &Schema{tables: tables}
}

// DefaultSchema holds the instructions table.
func DefaultSchema() *Schema {
	return NewSchema(InstructionsTable)
}

// Table finds a table by name, ignoring case.
func (s *Schema) Table(name string) (*Table, bool) {
	i := slices.IndexFunc(s.tables, func(t *Table) bool { return strings.EqualFold(t.Name, name) })
	if i < 0 {
		return nil, false
	}
	return s.tables[i], true
}

// TableNames lists the table names in declaration order.
func (s *Schema) TableNames() []string {
	names := make([]string, len(s.tables))
	for i, t := range s.tables {
		names[i] = t.Name
	}
	return names
}
