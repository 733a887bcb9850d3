package engine

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/roach88/llql/internal/builtin"
	"github.com/roach88/llql/internal/queryir"
	"github.com/roach88/llql/internal/value"
)

var issueCodes = map[queryir.IssueKind]CompileErrorCode{
	queryir.IssueUnknownTable:    ErrCodeUnknownTable,
	queryir.IssueAggregateMisuse: ErrCodeAggregate,
	queryir.IssueGroupBy:         ErrCodeGroupBy,
	queryir.IssueInvalidLimit:    ErrCodeLimit,
}

// Compile validates stmt, resolves its names against schema and reg, type
// checks every expression and folds constant builtin calls. The first
// problem found is returned as a *CompileError.
func Compile(stmt *queryir.Select, reg *builtin.Registry, schema *Schema) (*Plan, error) {
	if res := queryir.Validate(stmt, schema.TableNames()...); !res.OK() {
		is := res.Issues[0]
		return nil, compileErrorf(issueCodes[is.Kind], is.Pos, "%s", is.Message)
	}
	table, _ := schema.Table(stmt.From)

	c := &checker{reg: reg, table: table}
	p := &Plan{
		Table:    table,
		grouped:  queryir.IsAggregateQuery(stmt),
		distinct: stmt.Distinct,
		limit:    -1,
	}
	if stmt.Limit != nil {
		p.limit = *stmt.Limit
	}
	if stmt.Offset != nil {
		p.offset = *stmt.Offset
	}

	if stmt.Where != nil {
		where, err := c.check(stmt.Where)
		if err != nil {
			return nil, err
		}
		switch where.dataType().(type) {
		case value.BoolType, value.NullType, value.AnyType:
		default:
			return nil, compileErrorf(ErrCodeOperatorType, stmt.Where.Position(),
				"WHERE expects %s, got %s", value.Bool, where.dataType())
		}
		p.where = where
	}

	for _, g := range stmt.GroupBy {
		n, err := c.check(g)
		if err != nil {
			return nil, err
		}
		p.groupBy = append(p.groupBy, n)
	}

	c.allowAgg = p.grouped
	if stmt.Star {
		p.star = true
		p.Columns = table.ColumnNames()
	} else {
		for _, it := range stmt.Items {
			n, err := c.check(it.Expr)
			if err != nil {
				return nil, err
			}
			p.items = append(p.items, n)
			p.Columns = append(p.Columns, it.Name())
		}
	}

	for _, o := range stmt.OrderBy {
		key := orderKey{output: outputIndex(stmt, o.Expr), desc: o.Desc}
		if key.output < 0 {
			n, err := c.check(o.Expr)
			if err != nil {
				return nil, err
			}
			key.expr = n
		}
		p.order = append(p.order, key)
	}
	p.aggs = c.aggs

	slog.Debug("statement compiled",
		"table", table.Name,
		"columns", len(p.Columns),
		"aggregates", len(p.aggs),
		"grouped", p.grouped)
	return p, nil
}

// outputIndex resolves an ORDER BY key to an output column: an alias, or
// an expression written identically in the select list.
func outputIndex(stmt *queryir.Select, e queryir.Expr) int {
	if col, ok := e.(queryir.Column); ok {
		for i, it := range stmt.Items {
			if it.Alias != "" && strings.EqualFold(it.Alias, col.Name) {
				return i
			}
		}
	}
	text := queryir.Format(e)
	for i, it := range stmt.Items {
		if queryir.Format(it.Expr) == text {
			return i
		}
	}
	return -1
}

type checker struct {
	reg      *builtin.Registry
	table    *Table
	allowAgg bool
	inAgg    bool
	aggs     []aggregate
}

func (c *checker) check(e queryir.Expr) (node, error) {
	switch x := e.(type) {
	case queryir.Literal:
		return constNode{v: x.Value}, nil

	case queryir.Column:
		i, ok := c.table.Index(x.Name)
		if !ok {
			return nil, compileErrorf(ErrCodeUnknownColumn, x.At, "unknown column %q in table %s", x.Name, c.table.Name)
		}
		return columnNode{index: i, t: c.table.Columns[i].Type}, nil

	case queryir.CountStar:
		return c.aggregate(x.At, "count", nil, true)

	case queryir.Call:
		if queryir.IsAggregate(x.Name) {
			return c.aggregate(x.At, x.Name, x.Args, false)
		}
		return c.call(x)

	case queryir.Array:
		return c.array(x)

	case queryir.Not:
		operand, err := c.check(x.Operand)
		if err != nil {
			return nil, err
		}
		t, err := value.BangType(operand.dataType())
		if err != nil {
			return nil, compileErrorf(ErrCodeOperatorType, x.At, "operator ! cannot be applied to %s", operand.dataType())
		}
		n := notNode{operand: operand, t: t}
		if k, ok := operand.(constNode); ok {
			return c.fold(x.At, "!", func() (value.Value, error) { return value.Bang(k.v) })
		}
		return n, nil

	case queryir.Logical:
		lhs, err := c.check(x.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := c.check(x.RHS)
		if err != nil {
			return nil, err
		}
		t, err := value.LogicalType(x.Op, lhs.dataType(), rhs.dataType())
		if err != nil {
			return nil, compileErrorf(ErrCodeOperatorType, x.At, "operator %s cannot be applied to %s and %s",
				x.Op, lhs.dataType(), rhs.dataType())
		}
		n := logicalNode{op: x.Op, lhs: lhs, rhs: rhs, t: t}
		lk, lok := lhs.(constNode)
		rk, rok := rhs.(constNode)
		if lok && rok {
			return c.fold(x.At, x.Op.String(), func() (value.Value, error) { return value.Logical(x.Op, lk.v, rk.v) })
		}
		return n, nil

	case queryir.Compare:
		lhs, err := c.check(x.LHS)
		if err != nil {
			return nil, err
		}
		rhs, err := c.check(x.RHS)
		if err != nil {
			return nil, err
		}
		if !canCompare(x.Op, lhs.dataType(), rhs.dataType()) {
			return nil, compileErrorf(ErrCodeOperatorType, x.At, "cannot compare %s %s %s",
				lhs.dataType(), x.Op, rhs.dataType())
		}
		n := compareNode{op: x.Op, lhs: lhs, rhs: rhs}
		_, lok := lhs.(constNode)
		_, rok := rhs.(constNode)
		if lok && rok {
			return c.fold(x.At, x.Op.String(), func() (value.Value, error) { return evalCompare(n, &scope{}) })
		}
		return n, nil
	}
	return nil, fmt.Errorf("unexpected expression %T", e)
}

func (c *checker) call(x queryir.Call) (node, error) {
	fn, ok := c.reg.Lookup(x.Name)
	if !ok {
		return nil, compileErrorf(ErrCodeUnknownFunction, x.At, "unknown function %s", x.Name)
	}
	sig := fn.Signature
	lo, hi := sig.MinArgs(), sig.MaxArgs()
	if len(x.Args) < lo || (hi >= 0 && len(x.Args) > hi) {
		return nil, compileErrorf(ErrCodeArity, x.At, "%s%s expects %s, got %d",
			fn.Name, sig, arityText(lo, hi), len(x.Args))
	}

	args := make([]node, len(x.Args))
	constant := true
	for i, a := range x.Args {
		n, err := c.check(a)
		if err != nil {
			return nil, err
		}
		param, _ := sig.ParamFor(i)
		if !value.Accepts(param, n.dataType()) {
			return nil, compileErrorf(ErrCodeArgumentType, a.Position(), "argument %d of %s: expected %s, got %s",
				i+1, fn.Name, param, n.dataType())
		}
		if _, ok := n.(constNode); !ok {
			constant = false
		}
		args[i] = n
	}

	n := callNode{fn: fn, args: args}
	if constant && fn.Kind != builtin.KindEvaluator {
		return c.fold(x.At, fn.Name, func() (value.Value, error) { return callBuiltin(n, &scope{}) })
	}
	return n, nil
}

func arityText(lo, hi int) string {
	switch {
	case hi < 0:
		return fmt.Sprintf("at least %d arguments", lo)
	case lo == hi:
		return fmt.Sprintf("%d arguments", lo)
	}
	return fmt.Sprintf("%d to %d arguments", lo, hi)
}

func (c *checker) aggregate(pos queryir.Pos, name string, args []queryir.Expr, star bool) (node, error) {
	if !c.allowAgg {
		return nil, compileErrorf(ErrCodeAggregate, pos, "aggregate %s is not allowed here", name)
	}
	if c.inAgg {
		return nil, compileErrorf(ErrCodeAggregate, pos, "aggregate functions cannot be nested")
	}

	agg := aggregate{kind: aggCountStar}
	t := value.DataType(value.Int)
	if !star {
		if len(args) != 1 {
			return nil, compileErrorf(ErrCodeArity, pos, "%s expects 1 argument, got %d", name, len(args))
		}
		c.inAgg = true
		arg, err := c.check(args[0])
		c.inAgg = false
		if err != nil {
			return nil, err
		}
		agg.arg = arg
		switch name {
		case "count":
			agg.kind = aggCount
		case "min", "max":
			agg.kind = aggMin
			if name == "max" {
				agg.kind = aggMax
			}
			switch arg.dataType().(type) {
			case value.IntType, value.FloatType, value.TextType, value.BoolType, value.NullType:
				t = arg.dataType()
			default:
				return nil, compileErrorf(ErrCodeArgumentType, args[0].Position(),
					"argument 1 of %s: expected an orderable value, got %s", name, arg.dataType())
			}
		}
	}
	c.aggs = append(c.aggs, agg)
	return aggNode{slot: len(c.aggs) - 1, t: t}, nil
}

func (c *checker) array(x queryir.Array) (node, error) {
	items := make([]node, len(x.Items))
	var elem value.DataType = value.Any
	constant := true
	for i, it := range x.Items {
		n, err := c.check(it)
		if err != nil {
			return nil, err
		}
		t := n.dataType()
		if _, isNull := t.(value.NullType); !isNull {
			if _, unset := elem.(value.AnyType); unset {
				elem = t
			} else if !value.Equal(elem, t) {
				return nil, compileErrorf(ErrCodeArgumentType, it.Position(), "array element %d: expected %s, got %s", i+1, elem, t)
			}
		}
		if _, ok := n.(constNode); !ok {
			constant = false
		}
		items[i] = n
	}
	n := arrayNode{items: items, elem: elem}
	if constant {
		v, _ := evalArray(n, &scope{})
		return constNode{v: v}, nil
	}
	return n, nil
}

// fold evaluates a constant expression at compile time.
func (c *checker) fold(pos queryir.Pos, what string, eval func() (value.Value, error)) (node, error) {
	v, err := eval()
	if err != nil {
		return nil, compileErrorf(ErrCodeFold, pos, "evaluating %s: %v", what, err)
	}
	return constNode{v: v}, nil
}

// canCompare reports whether lhs op rhs type checks. NULL compares with
// anything; numbers compare across Int and Float; instructions support only
// equality.
func canCompare(op queryir.CompareOp, lhs, rhs value.DataType) bool {
	for _, t := range []value.DataType{lhs, rhs} {
		switch t.(type) {
		case value.NullType, value.AnyType:
			return true
		}
	}
	if value.IsNumeric(lhs) && value.IsNumeric(rhs) {
		return true
	}
	if !value.Equal(lhs, rhs) {
		return false
	}
	switch lhs.(type) {
	case value.TextType, value.BoolType:
		return true
	case value.InstType:
		return op == queryir.OpEq || op == queryir.OpNe
	}
	return false
}
