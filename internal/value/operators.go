package value

import (
	"errors"
	"fmt"

	"github.com/roach88/llql/internal/matcher"
)

// ErrOperandType is returned when an operator is applied to operand types
// it does not support.
var ErrOperandType = errors.New("unsupported operand types")

// LogicalOp is one of the binary logical operators.
type LogicalOp uint8

const (
	OpOr LogicalOp = iota
	OpAnd
	OpXor
)

func (op LogicalOp) String() string {
	switch op {
	case OpOr:
		return "||"
	case OpAnd:
		return "&&"
	case OpXor:
		return "^"
	}
	return "?"
}

// BangType is the result type of !t.
func BangType(t DataType) (DataType, error) {
	switch t.(type) {
	case BoolType, InstMatcherType, TypeMatcherType:
		return t, nil
	}
	return nil, fmt.Errorf("!%s: %w", t, ErrOperandType)
}

// LogicalType is the result type of lhs op rhs. Both sides must have the
// same type, which is one of Bool, InstMatcher and TypeMatcher.
func LogicalType(op LogicalOp, lhs, rhs DataType) (DataType, error) {
	if Equal(lhs, rhs) {
		switch lhs.(type) {
		case BoolType, InstMatcherType, TypeMatcherType:
			return lhs, nil
		}
	}
	return nil, fmt.Errorf("%s %s %s: %w", lhs, op, rhs, ErrOperandType)
}

// Bang evaluates !v. On a matcher value it wraps the tree in Not.
func Bang(v Value) (Value, error) {
	switch vt := v.(type) {
	case BoolValue:
		return !vt, nil
	case InstMatcherValue:
		return InstMatcherValue{Matcher: matcher.NewNot(vt.Matcher)}, nil
	case TypeMatcherValue:
		return TypeMatcherValue{Matcher: matcher.NewTypeNot(vt.Matcher)}, nil
	}
	return nil, fmt.Errorf("!%s: %w", v.Type(), ErrOperandType)
}

// Logical evaluates lhs op rhs. On matcher values it combines the two
// trees without copying them.
func Logical(op LogicalOp, lhs, rhs Value) (Value, error) {
	switch l := lhs.(type) {
	case BoolValue:
		if r, ok := rhs.(BoolValue); ok {
			switch op {
			case OpOr:
				return l || r, nil
			case OpAnd:
				return l && r, nil
			case OpXor:
				return BoolValue(l != r), nil
			}
		}
	case InstMatcherValue:
		if r, ok := rhs.(InstMatcherValue); ok {
			switch op {
			case OpOr:
				return InstMatcherValue{Matcher: matcher.NewCombineOr(l.Matcher, r.Matcher)}, nil
			case OpAnd:
				return InstMatcherValue{Matcher: matcher.NewCombineAnd(l.Matcher, r.Matcher)}, nil
			case OpXor:
				return InstMatcherValue{Matcher: matcher.NewCombineXor(l.Matcher, r.Matcher)}, nil
			}
		}
	case TypeMatcherValue:
		if r, ok := rhs.(TypeMatcherValue); ok {
			switch op {
			case OpOr:
				return TypeMatcherValue{Matcher: matcher.NewTypeOr(l.Matcher, r.Matcher)}, nil
			case OpAnd:
				return TypeMatcherValue{Matcher: matcher.NewTypeAnd(l.Matcher, r.Matcher)}, nil
			case OpXor:
				return TypeMatcherValue{Matcher: matcher.NewTypeXor(l.Matcher, r.Matcher)}, nil
			}
		}
	}
	return nil, fmt.Errorf("%s %s %s: %w", lhs.Type(), op, rhs.Type(), ErrOperandType)
}
