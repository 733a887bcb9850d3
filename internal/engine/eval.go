package engine

import (
	"fmt"

	"github.com/roach88/llql/internal/queryir"
	"github.com/roach88/llql/internal/value"
)

// scope is the evaluation environment: the current input row and, for
// grouped queries, the finished aggregate values of the current group.
type scope struct {
	row  Row
	aggs []value.Value
}

func eval(n node, sc *scope) (value.Value, error) {
	switch x := n.(type) {
	case constNode:
		return x.v, nil

	case columnNode:
		if x.index >= len(sc.row) {
			return value.NullValue{}, nil
		}
		return sc.row[x.index], nil

	case callNode:
		return callBuiltin(x, sc)

	case aggNode:
		return sc.aggs[x.slot], nil

	case notNode:
		v, err := eval(x.operand, sc)
		if err != nil {
			return nil, err
		}
		if _, null := v.(value.NullValue); null {
			return v, nil
		}
		return value.Bang(v)

	case logicalNode:
		lhs, err := eval(x.lhs, sc)
		if err != nil {
			return nil, err
		}
		rhs, err := eval(x.rhs, sc)
		if err != nil {
			return nil, err
		}
		if isNull(lhs) || isNull(rhs) {
			return value.NullValue{}, nil
		}
		return value.Logical(x.op, lhs, rhs)

	case compareNode:
		return evalCompare(x, sc)

	case arrayNode:
		return evalArray(x, sc)
	}
	return nil, fmt.Errorf("unexpected node %T", n)
}

func isNull(v value.Value) bool {
	_, ok := v.(value.NullValue)
	return ok
}

func callBuiltin(n callNode, sc *scope) (value.Value, error) {
	args := make([]value.Value, len(n.args))
	for i, a := range n.args {
		v, err := eval(a, sc)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}
	v, err := n.fn.Call(args)
	if err != nil {
		return nil, &RuntimeError{Code: ErrCodeCallFailed, Message: n.fn.Name, Err: err}
	}
	return v, nil
}

// evalCompare yields NULL when either side is NULL.
func evalCompare(n compareNode, sc *scope) (value.Value, error) {
	lhs, err := eval(n.lhs, sc)
	if err != nil {
		return nil, err
	}
	rhs, err := eval(n.rhs, sc)
	if err != nil {
		return nil, err
	}
	if isNull(lhs) || isNull(rhs) {
		return value.NullValue{}, nil
	}

	switch n.op {
	case queryir.OpEq:
		return value.BoolValue(value.Equals(lhs, rhs)), nil
	case queryir.OpNe:
		return value.BoolValue(!value.Equals(lhs, rhs)), nil
	}
	c, ok := value.Compare(lhs, rhs)
	if !ok {
		return value.NullValue{}, nil
	}
	switch n.op {
	case queryir.OpLt:
		return value.BoolValue(c < 0), nil
	case queryir.OpLe:
		return value.BoolValue(c <= 0), nil
	case queryir.OpGt:
		return value.BoolValue(c > 0), nil
	case queryir.OpGe:
		return value.BoolValue(c >= 0), nil
	}
	return nil, fmt.Errorf("unexpected comparison %s", n.op)
}

func evalArray(n arrayNode, sc *scope) (value.Value, error) {
	items := make([]value.Value, len(n.items))
	for i, it := range n.items {
		v, err := eval(it, sc)
		if err != nil {
			return nil, err
		}
		items[i] = v
	}
	return value.ArrayValue{Elem: n.elem, Items: items}, nil
}
