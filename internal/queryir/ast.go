package queryir

import (
	"github.com/roach88/llql/internal/value"
)

// Pos is a 1-based source position.
type Pos struct {
	Line   int
	Column int
}

// Statement is a complete query. Select is the only statement.
//
// This is a sealed interface - only types in this package implement it.
type Statement interface {
	statementNode()
}

// Expr is an expression node.
//
// This is a sealed interface - only types in this package implement it.
//
// Expr types:
//   - Literal: constant value
//   - Column: reference to a column of the FROM table
//   - Call: builtin or aggregate function call
//   - CountStar: COUNT(*)
//   - Array: [a, b, ...] list literal
//   - Not, Logical, Compare: operators
type Expr interface {
	exprNode()
	Position() Pos
}

// Select is
//
//	SELECT [DISTINCT] items FROM table [WHERE expr]
//	[GROUP BY exprs] [ORDER BY order] [LIMIT n [OFFSET m]]
//
// Star is set for SELECT *, in which case Items is empty.
type Select struct {
	Pos      Pos
	Distinct bool
	Star     bool
	Items    []SelectItem
	From     string
	FromPos  Pos
	Where    Expr // nil = no filter
	GroupBy  []Expr
	OrderBy  []OrderItem
	Limit    *int64
	Offset   *int64
}

func (Select) statementNode() {}

// SelectItem is one projected expression. Alias is empty when no AS was
// written.
type SelectItem struct {
	Expr  Expr
	Alias string
}

// Name is the column header for the item: its alias, or the expression
// text.
func (it SelectItem) Name() string {
	if it.Alias != "" {
		return it.Alias
	}
	return Format(it.Expr)
}

// OrderItem is one ORDER BY key.
type OrderItem struct {
	Expr Expr
	Desc bool
}

// Literal is a constant.
type Literal struct {
	At    Pos
	Value value.Value
}

// Column names a column of the FROM table.
type Column struct {
	At   Pos
	Name string
}

// Call is name(args...). Aggregate calls (count, min, max) are Calls too;
// see IsAggregate.
type Call struct {
	At   Pos
	Name string
	Args []Expr
}

// CountStar is COUNT(*).
type CountStar struct {
	At Pos
}

// Array is a list literal.
type Array struct {
	At    Pos
	Items []Expr
}

// Not is logical negation, written ! or NOT.
type Not struct {
	At      Pos
	Operand Expr
}

// Logical is a binary logical operator: || OR, && AND, ^ XOR.
type Logical struct {
	At       Pos
	Op       value.LogicalOp
	LHS, RHS Expr
}

// CompareOp is a comparison operator.
type CompareOp uint8

const (
	OpEq CompareOp = iota
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
)

var compareOpNames = [...]string{
	OpEq: "=",
	OpNe: "!=",
	OpLt: "<",
	OpLe: "<=",
	OpGt: ">",
	OpGe: ">=",
}

func (op CompareOp) String() string {
	if int(op) < len(compareOpNames) {
		return compareOpNames[op]
	}
	return "?"
}

// Compare is a binary comparison.
type Compare struct {
	At       Pos
	Op       CompareOp
	LHS, RHS Expr
}

func (Literal) exprNode()   {}
func (Column) exprNode()    {}
func (Call) exprNode()      {}
func (CountStar) exprNode() {}
func (Array) exprNode()     {}
func (Not) exprNode()       {}
func (Logical) exprNode()   {}
func (Compare) exprNode()   {}

func (e Literal) Position() Pos   { return e.At }
func (e Column) Position() Pos    { return e.At }
func (e Call) Position() Pos      { return e.At }
func (e CountStar) Position() Pos { return e.At }
func (e Array) Position() Pos     { return e.At }
func (e Not) Position() Pos       { return e.At }
func (e Logical) Position() Pos   { return e.At }
func (e Compare) Position() Pos   { return e.At }

// aggregates lists the aggregate function names.
var aggregates = map[string]bool{
	"count": true,
	"min":   true,
	"max":   true,
}

// IsAggregate reports whether name is an aggregate function.
func IsAggregate(name string) bool { return aggregates[name] }

// HasAggregate reports whether e contains an aggregate call anywhere.
func HasAggregate(e Expr) bool {
	found := false
	Inspect(e, func(n Expr) bool {
		switch x := n.(type) {
		case CountStar:
			found = true
		case Call:
			if IsAggregate(x.Name) {
				found = true
			}
		}
		return !found
	})
	return found
}

// Inspect walks e depth first, calling fn on every node. Returning false
// skips the node's children.
func Inspect(e Expr, fn func(Expr) bool) {
	if e == nil || !fn(e) {
		return
	}
	switch x := e.(type) {
	case Call:
		for _, a := range x.Args {
			Inspect(a, fn)
		}
	case Array:
		for _, it := range x.Items {
			Inspect(it, fn)
		}
	case Not:
		Inspect(x.Operand, fn)
	case Logical:
		Inspect(x.LHS, fn)
		Inspect(x.RHS, fn)
	case Compare:
		Inspect(x.LHS, fn)
		Inspect(x.RHS, fn)
	}
}
