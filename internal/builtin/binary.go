package builtin

import (
	"github.com/roach88/llql/internal/ir"
	"github.com/roach88/llql/internal/matcher"
	"github.com/roach88/llql/internal/value"
)

// Each entry registers m_<name> and the commutative m_c_<name>.
var binaryOps = []struct {
	name string
	op   matcher.BinaryOp
}{
	{"add", matcher.BinAdd},
	{"sub", matcher.BinSub},
	{"mul", matcher.BinMul},
	{"div", matcher.BinSDiv},
	{"rem", matcher.BinSRem},
	{"fadd", matcher.BinFAdd},
	{"fsub", matcher.BinFSub},
	{"fmul", matcher.BinFMul},
	{"fdiv", matcher.BinFDiv},
	{"frem", matcher.BinFRem},
	{"binop", matcher.BinAny},
	{"or", matcher.BinOr},
	{"or_disjoint", matcher.BinOrDisjoint},
	{"and", matcher.BinAnd},
	{"xor", matcher.BinXor},
	{"shl", matcher.BinShl},
	{"shr", matcher.BinLShr},
	{"ashr", matcher.BinAShr},
}

var intPredicates = []struct {
	name string
	pred ir.IntPredicate
}{
	{"eq", ir.IntEQ},
	{"ne", ir.IntNE},
	{"ugt", ir.IntUGT},
	{"uge", ir.IntUGE},
	{"ult", ir.IntULT},
	{"ule", ir.IntULE},
	{"sgt", ir.IntSGT},
	{"sge", ir.IntSGE},
	{"slt", ir.IntSLT},
	{"sle", ir.IntSLE},
}

// The short names select the ordered predicates.
var floatPredicates = []struct {
	name string
	pred ir.FloatPredicate
}{
	{"eq", ir.FloatOEQ},
	{"ne", ir.FloatONE},
	{"gt", ir.FloatOGT},
	{"ge", ir.FloatOGE},
	{"lt", ir.FloatOLT},
	{"le", ir.FloatOLE},
	{"ord", ir.FloatORD},
	{"uno", ir.FloatUNO},
	{"ueq", ir.FloatUEQ},
	{"une", ir.FloatUNE},
	{"ugt", ir.FloatUGT},
	{"uge", ir.FloatUGE},
	{"ult", ir.FloatULT},
	{"ule", ir.FloatULE},
}

// sides reads the two optional operand matchers of a binary builtin.
func sides(args []value.Value) (lhs, rhs matcher.Matcher, err error) {
	if lhs, err = optMatcher(args, 0); err != nil {
		return nil, nil, err
	}
	if rhs, err = optMatcher(args, 1); err != nil {
		return nil, nil, err
	}
	return lhs, rhs, nil
}

func binaryFunc(build func(lhs, rhs matcher.Matcher) matcher.Matcher) Func {
	return func(args []value.Value) (value.Value, error) {
		lhs, rhs, err := sides(args)
		if err != nil {
			return nil, err
		}
		return inst(build(lhs, rhs)), nil
	}
}

func registerBinaryMatchers(r *Registry) {
	for _, b := range binaryOps {
		b := b
		constructor(r, "m_"+b.name, binarySig, binaryFunc(func(lhs, rhs matcher.Matcher) matcher.Matcher {
			return matcher.NewBinary(b.op, lhs, rhs)
		}))
		constructor(r, "m_c_"+b.name, binarySig, binaryFunc(func(lhs, rhs matcher.Matcher) matcher.Matcher {
			return matcher.NewCommutativeBinary(b.op, lhs, rhs)
		}))
	}
}

func registerCompareMatchers(r *Registry) {
	for _, p := range intPredicates {
		p := p
		constructor(r, "m_icmp_"+p.name, binarySig, binaryFunc(func(lhs, rhs matcher.Matcher) matcher.Matcher {
			return matcher.NewIntCompare(p.pred, lhs, rhs)
		}))
		constructor(r, "m_c_icmp_"+p.name, binarySig, binaryFunc(func(lhs, rhs matcher.Matcher) matcher.Matcher {
			return matcher.NewCommutativeIntCompare(p.pred, lhs, rhs)
		}))
	}
	for _, p := range floatPredicates {
		p := p
		constructor(r, "m_fcmp_"+p.name, binarySig, binaryFunc(func(lhs, rhs matcher.Matcher) matcher.Matcher {
			return matcher.NewFloatCompare(p.pred, lhs, rhs)
		}))
		constructor(r, "m_c_fcmp_"+p.name, binarySig, binaryFunc(func(lhs, rhs matcher.Matcher) matcher.Matcher {
			return matcher.NewCommutativeFloatCompare(p.pred, lhs, rhs)
		}))
	}
}
