package store

import (
	"encoding/json"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/roach88/llql/internal/engine"
	"github.com/roach88/llql/internal/value"
)

// CellKind tags the scalar held by a Cell.
type CellKind uint8

const (
	CellNull CellKind = iota
	CellText
	CellInt
	CellFloat
	CellBool
	// CellLiteral holds the printed form of a value that has no scalar
	// encoding: instructions, arrays and matcher values.
	CellLiteral
)

// Cell is one stored result value.
type Cell struct {
	Kind  CellKind `msgpack:"k"`
	Text  string   `msgpack:"s,omitempty"`
	Int   int64    `msgpack:"i,omitempty"`
	Float float64  `msgpack:"f,omitempty"`
	Bool  bool     `msgpack:"b,omitempty"`
}

// Snapshot is the stored form of a result. IR nodes do not outlive the
// session that parsed them, so instructions are kept as their source text.
type Snapshot struct {
	Columns []string `msgpack:"columns"`
	Rows    [][]Cell `msgpack:"rows"`
}

// NewSnapshot captures r.
func NewSnapshot(r *engine.Result) *Snapshot {
	snap := &Snapshot{
		Columns: append([]string(nil), r.Columns...),
		Rows:    make([][]Cell, len(r.Rows)),
	}
	for i, row := range r.Rows {
		cells := make([]Cell, len(row))
		for j, v := range row {
			cells[j] = toCell(v)
		}
		snap.Rows[i] = cells
	}
	return snap
}

func toCell(v value.Value) Cell {
	switch vt := v.(type) {
	case value.NullValue:
		return Cell{Kind: CellNull}
	case value.TextValue:
		return Cell{Kind: CellText, Text: string(vt)}
	case value.IntValue:
		return Cell{Kind: CellInt, Int: int64(vt)}
	case value.FloatValue:
		return Cell{Kind: CellFloat, Float: float64(vt)}
	case value.BoolValue:
		return Cell{Kind: CellBool, Bool: bool(vt)}
	}
	return Cell{Kind: CellLiteral, Text: v.Literal()}
}

// Value converts the cell back into a query value. Literal cells come back
// as text.
func (c Cell) Value() value.Value {
	switch c.Kind {
	case CellText, CellLiteral:
		return value.TextValue(c.Text)
	case CellInt:
		return value.IntValue(c.Int)
	case CellFloat:
		return value.FloatValue(c.Float)
	case CellBool:
		return value.BoolValue(c.Bool)
	}
	return value.NullValue{}
}

// Result rebuilds a printable result.
func (s *Snapshot) Result() *engine.Result {
	r := &engine.Result{
		Columns: append([]string(nil), s.Columns...),
		Rows:    make([][]value.Value, len(s.Rows)),
	}
	for i, cells := range s.Rows {
		row := make([]value.Value, len(cells))
		for j, c := range cells {
			row[j] = c.Value()
		}
		r.Rows[i] = row
	}
	return r
}

func marshalSnapshot(s *Snapshot) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	data, err := msgpack.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return data, nil
}

func unmarshalSnapshot(data []byte) (*Snapshot, error) {
	if len(data) == 0 {
		return nil, nil
	}
	var s Snapshot
	if err := msgpack.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &s, nil
}

// marshalStrings stores a string list as a JSON array TEXT column.
func marshalStrings(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	data, err := json.Marshal(list)
	if err != nil {
		return "", fmt.Errorf("marshal list: %w", err)
	}
	return string(data), nil
}

func unmarshalStrings(data string) ([]string, error) {
	if data == "" {
		return []string{}, nil
	}
	var list []string
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		return nil, fmt.Errorf("unmarshal list: %w", err)
	}
	return list, nil
}
