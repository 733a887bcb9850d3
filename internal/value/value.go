package value

import (
	"cmp"
	"strconv"
	"strings"

	"github.com/roach88/llql/internal/ir"
	"github.com/roach88/llql/internal/matcher"
)

// Value is a sealed interface for runtime values of the query language.
// Only the types in this file implement it.
type Value interface {
	value()
	Type() DataType
	// Literal is the printed form of the value.
	Literal() string
}

// NullValue is SQL NULL.
type NullValue struct{}

type TextValue string
type IntValue int64
type FloatValue float64
type BoolValue bool

// ArrayValue is a list literal. Elem is the element type; an empty literal
// has element type Any.
type ArrayValue struct {
	Elem  DataType
	Items []Value
}

// InstValue wraps an IR node read from the instructions table.
type InstValue struct{ Node ir.Node }

// InstMatcherValue carries a node matcher tree.
type InstMatcherValue struct{ Matcher matcher.Matcher }

// TypeMatcherValue carries a type matcher tree.
type TypeMatcherValue struct{ Matcher matcher.TypeMatcher }

func (NullValue) value()        {}
func (TextValue) value()        {}
func (IntValue) value()         {}
func (FloatValue) value()       {}
func (BoolValue) value()        {}
func (ArrayValue) value()       {}
func (InstValue) value()        {}
func (InstMatcherValue) value() {}
func (TypeMatcherValue) value() {}

func (NullValue) Type() DataType        { return Null }
func (TextValue) Type() DataType        { return Text }
func (IntValue) Type() DataType         { return Int }
func (FloatValue) Type() DataType       { return Float }
func (BoolValue) Type() DataType        { return Bool }
func (v ArrayValue) Type() DataType     { return Array(v.Elem) }
func (InstValue) Type() DataType        { return Inst }
func (InstMatcherValue) Type() DataType { return InstMatcher }
func (TypeMatcherValue) Type() DataType { return TypeMatcher }

func (NullValue) Literal() string    { return "Null" }
func (v TextValue) Literal() string  { return string(v) }
func (v IntValue) Literal() string   { return strconv.FormatInt(int64(v), 10) }
func (v FloatValue) Literal() string { return strconv.FormatFloat(float64(v), 'g', -1, 64) }
func (v BoolValue) Literal() string  { return strconv.FormatBool(bool(v)) }

func (v ArrayValue) Literal() string {
	parts := make([]string, len(v.Items))
	for i, it := range v.Items {
		parts[i] = it.Literal()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func (v InstValue) Literal() string {
	if v.Node == nil {
		return "LLVMValue"
	}
	return v.Node.String()
}

// Matcher values print as a fixed placeholder; use matcher.String for a
// structural rendering.
func (InstMatcherValue) Literal() string { return "InstMatcherValue" }
func (TypeMatcherValue) Literal() string { return "TypeMatcherValue" }

// NewArray builds an array value, taking the element type from the first
// item.
func NewArray(items ...Value) ArrayValue {
	elem := Any
	if len(items) > 0 {
		elem = items[0].Type()
	}
	return ArrayValue{Elem: elem, Items: items}
}

// Equals reports value equality. Numbers compare across Int and Float.
// Instructions are equal when they are the same node. Matcher values are
// never equal to anything, themselves included.
func Equals(a, b Value) bool {
	switch av := a.(type) {
	case NullValue:
		_, ok := b.(NullValue)
		return ok
	case TextValue:
		bv, ok := b.(TextValue)
		return ok && av == bv
	case IntValue, FloatValue:
		c, ok := Compare(a, b)
		return ok && c == 0
	case BoolValue:
		bv, ok := b.(BoolValue)
		return ok && av == bv
	case ArrayValue:
		bv, ok := b.(ArrayValue)
		if !ok || len(av.Items) != len(bv.Items) {
			return false
		}
		for i := range av.Items {
			if !Equals(av.Items[i], bv.Items[i]) {
				return false
			}
		}
		return true
	case InstValue:
		bv, ok := b.(InstValue)
		return ok && av.Node == bv.Node
	}
	return false
}

// Compare orders two values. ok is false when they are incomparable:
// mismatched types, arrays, matcher values, or distinct instructions.
func Compare(a, b Value) (c int, ok bool) {
	switch av := a.(type) {
	case NullValue:
		if _, isNull := b.(NullValue); isNull {
			return 0, true
		}
	case TextValue:
		if bv, isText := b.(TextValue); isText {
			return strings.Compare(string(av), string(bv)), true
		}
	case IntValue:
		switch bv := b.(type) {
		case IntValue:
			return cmp.Compare(av, bv), true
		case FloatValue:
			return cmp.Compare(float64(av), float64(bv)), true
		}
	case FloatValue:
		switch bv := b.(type) {
		case IntValue:
			return cmp.Compare(float64(av), float64(bv)), true
		case FloatValue:
			return cmp.Compare(av, bv), true
		}
	case BoolValue:
		if bv, isBool := b.(BoolValue); isBool {
			switch {
			case av == bv:
				return 0, true
			case !bool(av):
				return -1, true
			default:
				return 1, true
			}
		}
	case InstValue:
		if bv, isInst := b.(InstValue); isInst && av.Node == bv.Node {
			return 0, true
		}
	}
	return 0, false
}

// SortCompare is a total order used by ORDER BY and DISTINCT. Nulls sort
// first; incomparable values fall back to their printed literals.
func SortCompare(a, b Value) int {
	_, an := a.(NullValue)
	_, bn := b.(NullValue)
	switch {
	case an && bn:
		return 0
	case an:
		return -1
	case bn:
		return 1
	}
	if c, ok := Compare(a, b); ok {
		return c
	}
	return strings.Compare(a.Literal(), b.Literal())
}

// IsTruthy reports whether v is the boolean true.
func IsTruthy(v Value) bool {
	b, ok := v.(BoolValue)
	return ok && bool(b)
}
