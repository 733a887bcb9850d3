package engine

import (
	"github.com/roach88/llql/internal/builtin"
	"github.com/roach88/llql/internal/queryir"
	"github.com/roach88/llql/internal/value"
)

// node is a type-checked expression.
//
// This is a sealed interface - only types in this file implement it.
type node interface {
	dataType() value.DataType
}

type constNode struct{ v value.Value }

type columnNode struct {
	index int
	t     value.DataType
}

type callNode struct {
	fn   *builtin.Builtin
	args []node
}

// aggNode reads the finished value of aggregate slot.
type aggNode struct {
	slot int
	t    value.DataType
}

type notNode struct {
	operand node
	t       value.DataType
}

type logicalNode struct {
	op       value.LogicalOp
	lhs, rhs node
	t        value.DataType
}

type compareNode struct {
	op       queryir.CompareOp
	lhs, rhs node
}

type arrayNode struct {
	items []node
	elem  value.DataType
}

func (n constNode) dataType() value.DataType   { return n.v.Type() }
func (n columnNode) dataType() value.DataType  { return n.t }
func (n callNode) dataType() value.DataType    { return n.fn.Signature.Return }
func (n aggNode) dataType() value.DataType     { return n.t }
func (n notNode) dataType() value.DataType     { return n.t }
func (n logicalNode) dataType() value.DataType { return n.t }
func (compareNode) dataType() value.DataType   { return value.Bool }
func (n arrayNode) dataType() value.DataType   { return value.Array(n.elem) }

type aggKind uint8

const (
	aggCountStar aggKind = iota
	aggCount
	aggMin
	aggMax
)

// aggregate is one aggregate call site. arg is evaluated per input row.
type aggregate struct {
	kind aggKind
	arg  node
}

// orderKey is one ORDER BY key: either an output column or an expression.
type orderKey struct {
	output int // index into the output row, -1 when expr is used
	expr   node
	desc   bool
}

// Plan is a compiled statement. It is immutable and may be executed any
// number of times, concurrently.
type Plan struct {
	Table   *Table
	Columns []string

	star     bool
	items    []node
	where    node
	grouped  bool
	groupBy  []node
	aggs     []aggregate
	order    []orderKey
	distinct bool
	limit    int64 // -1 = unlimited
	offset   int64
}
