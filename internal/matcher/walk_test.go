package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/llql/internal/ir"
)

func TestString(t *testing.T) {
	four := uint64(4)
	name := "x"
	tests := []struct {
		matcher Matcher
		want    string
	}{
		{NewCommutativeAdd(NewConstInt(), nil), "c_add(const_int, any)"},
		{NewOrDisjoint(nil, NewSpecificInt(1)), "or_disjoint(any, specific_int(1))"},
		{NewBinary(BinAny, nil, nil), "binop(any, any)"},
		{NewIntCompare(ir.IntSLT, nil, NewZero()), "icmp_slt(any, specific_int(0))"},
		{NewCommutativeFloatCompare(ir.FloatUNE, nil, nil), "c_fcmp_une(any, any)"},
		{NewCast(CastExt, NewPowerOfTwo()), "ext(power2)"},
		{NewExtractValue(nil, []int64{0, 1}), "extract_value(any, [0 1])"},
		{NewArgument(&name, NewArrayType(NewIntType(8), &four)), `argument("x", array(int8, 4))`},
		{NewUnused(NewCall("puts")), `has_n_uses(call("puts"), 0)`},
		{NewOneOf(NewThrow(), NewRethrow()), "oneof(throw, rethrow)"},
		{NewNot(NewReturn(nil)), "not(return(any))"},
		{NewInstType(NewTypeOr(NewVoidType(), NewPointerType())), "inst_type(or(void, ptr))"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, String(tt.matcher))
		})
	}
}

func TestWalk_VisitsSharedSubtreesOnEachReference(t *testing.T) {
	leaf := NewConstInt()
	tree := NewCombineAnd(NewAdd(leaf, leaf), NewNot(leaf))

	// and, add, const_int, const_int, not, const_int
	assert.Equal(t, 6, Count(tree))

	var seen []string
	Walk(tree, func(m Matcher) bool {
		seen = append(seen, String(m))
		_, isNot := m.(*Not)
		return !isNot
	})
	assert.Equal(t, []string{
		"and(add(const_int, const_int), not(const_int))",
		"add(const_int, const_int)",
		"const_int",
		"const_int",
		"not(const_int)",
	}, seen)
}

// Every variant must be handled by String; a missing case falls through to
// the <%T> default.
func TestString_CoversEveryVariant(t *testing.T) {
	all := []Matcher{
		&Any{}, &Binary{}, &IntCompare{}, &FloatCompare{}, &Cast{}, &Call{},
		&Intrinsic{}, &Invoke{}, &LandingPad{}, &Resume{}, &Throw{}, &Rethrow{},
		&ConstInt{}, &ConstFloat{}, &ConstNull{}, &ConstPoison{}, &ConstNumber{},
		&ConstExpr{}, &Return{}, &Unreachable{}, &Label{}, &Argument{},
		&ExtractValue{}, &GetElementPtr{}, &OperandBundle{}, &OperandCount{},
		&InstType{}, &DebugLine{}, &DebugColumn{}, &Usage{}, &Not{}, &And{},
		&Or{}, &Xor{}, &OneOf{}, &AllOf{}, &NoneOf{},
	}
	for _, m := range all {
		assert.NotContains(t, String(m), "<*matcher.", "%T", m)
	}
}
