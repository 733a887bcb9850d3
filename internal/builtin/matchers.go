package builtin

import (
	"fmt"

	"github.com/roach88/llql/internal/matcher"
	"github.com/roach88/llql/internal/value"
)

var castKinds = []struct {
	name string
	kind matcher.CastKind
}{
	{"m_cast", matcher.CastAny},
	{"m_trunc", matcher.CastTrunc},
	{"m_fp_to_ui", matcher.CastFPToUI},
	{"m_fp_to_si", matcher.CastFPToSI},
	{"m_fp_trunc", matcher.CastFPTrunc},
	{"m_int_to_ptr", matcher.CastIntToPtr},
	{"m_ptr_to_int", matcher.CastPtrToInt},
	{"m_ext", matcher.CastExt},
	{"m_fpext", matcher.CastFPExt},
	{"m_zext", matcher.CastZExt},
	{"m_sext", matcher.CastSExt},
	{"m_bit_cast", matcher.CastBitCast},
	{"m_addr_space_cast", matcher.CastAddrSpaceCast},
}

func registerCastMatchers(r *Registry) {
	for _, c := range castKinds {
		c := c
		constructor(r, c.name, castSig, func(args []value.Value) (value.Value, error) {
			inner, err := optMatcher(args, 0)
			if err != nil {
				return nil, err
			}
			return inst(matcher.NewCast(c.kind, inner)), nil
		})
	}
}

func registerCallMatchers(r *Registry) {
	named := func(build func(string) matcher.Matcher) Func {
		return func(args []value.Value) (value.Value, error) {
			name, err := optText(args, 0)
			if err != nil {
				return nil, err
			}
			if name == nil {
				return inst(build("")), nil
			}
			return inst(build(*name)), nil
		}
	}
	constructor(r, "m_call", optTextSig, named(matcher.NewCall))
	constructor(r, "m_intrinsic", optTextSig, named(matcher.NewIntrinsic))

	constant(r, "m_invoke", matcher.NewInvoke())
	constant(r, "m_landingpad", matcher.NewLandingPad())
	constant(r, "m_resume", matcher.NewResume())
	constant(r, "m_throw", matcher.NewThrow())
	constant(r, "m_rethrow", matcher.NewRethrow())
}

func registerConstantMatchers(r *Registry) {
	constant(r, "m_const_num", matcher.NewConstNumber())
	constant(r, "m_const_int", matcher.NewConstInt())
	constant(r, "m_zero", matcher.NewZero())
	constant(r, "m_one", matcher.NewOne())
	constant(r, "m_power2", matcher.NewPowerOfTwo())
	constant(r, "m_const_fp", matcher.NewConstFloat())
	constant(r, "m_const_null", matcher.NewConstNull())
	constant(r, "m_poison", matcher.NewConstPoison())
	constant(r, "m_const_expr", matcher.NewConstExpr())

	constructor(r, "m_specific_int", intSig, func(args []value.Value) (value.Value, error) {
		v, err := required[value.IntValue](args, 0)
		if err != nil {
			return nil, err
		}
		return inst(matcher.NewSpecificInt(int64(v))), nil
	})
	rangeSig := Signature{Params: []value.DataType{value.Int, value.Int}, Return: value.InstMatcher}
	constructor(r, "m_range_int", rangeSig, func(args []value.Value) (value.Value, error) {
		start, err := required[value.IntValue](args, 0)
		if err != nil {
			return nil, err
		}
		end, err := required[value.IntValue](args, 1)
		if err != nil {
			return nil, err
		}
		return inst(matcher.NewIntRange(int64(start), int64(end))), nil
	})
}

func errIndexType(v value.Value) error {
	return fmt.Errorf("index path element must be Int, got %s", v.Type())
}

func registerOtherMatchers(r *Registry) {
	constant(r, "m_any_inst", matcher.NewAny())
	constant(r, "m_unreachable", matcher.NewUnreachable())
	constant(r, "m_get_element_ptr", matcher.NewGetElementPtr())

	constructor(r, "m_return", castSig, func(args []value.Value) (value.Value, error) {
		inner, err := optMatcher(args, 0)
		if err != nil {
			return nil, err
		}
		return inst(matcher.NewReturn(inner)), nil
	})

	constructor(r, "m_label", optTextSig, func(args []value.Value) (value.Value, error) {
		name, err := optText(args, 0)
		if err != nil {
			return nil, err
		}
		return inst(matcher.NewLabel(name)), nil
	})

	argumentSig := Signature{
		Params: []value.DataType{value.Optional(value.Text), value.Optional(value.TypeMatcher)},
		Return: value.InstMatcher,
	}
	constructor(r, "m_argument", argumentSig, func(args []value.Value) (value.Value, error) {
		name, err := optText(args, 0)
		if err != nil {
			return nil, err
		}
		t, err := optTypeMatcher(args, 1)
		if err != nil {
			return nil, err
		}
		return inst(matcher.NewArgument(name, t)), nil
	})

	extractSig := Signature{
		Params: []value.DataType{value.Optional(value.InstMatcher), value.Optional(value.Array(value.Int))},
		Return: value.InstMatcher,
	}
	constructor(r, "m_extract_value", extractSig, func(args []value.Value) (value.Value, error) {
		inner, err := optMatcher(args, 0)
		if err != nil {
			return nil, err
		}
		arr, ok, err := arg[value.ArrayValue](args, 1)
		if err != nil {
			return nil, err
		}
		var indices []int64
		if ok {
			indices = make([]int64, 0, len(arr.Items))
			for _, it := range arr.Items {
				n, isInt := it.(value.IntValue)
				if !isInt {
					return nil, errIndexType(it)
				}
				indices = append(indices, int64(n))
			}
		}
		return inst(matcher.NewExtractValue(inner, indices)), nil
	})

	instTypeSig := Signature{Params: []value.DataType{value.TypeMatcher}, Return: value.InstMatcher}
	constructor(r, "m_inst_type", instTypeSig, func(args []value.Value) (value.Value, error) {
		t, err := reqTypeMatcher(args, 0)
		if err != nil {
			return nil, err
		}
		return inst(matcher.NewInstType(t)), nil
	})

	constructor(r, "m_operands_number", intSig, func(args []value.Value) (value.Value, error) {
		n, err := narrow[int](args, 0)
		if err != nil {
			return nil, err
		}
		return inst(matcher.NewOperandCount(n)), nil
	})

	constructor(r, "m_operand_bundle", textSig, func(args []value.Value) (value.Value, error) {
		tag, err := required[value.TextValue](args, 0)
		if err != nil {
			return nil, err
		}
		return inst(matcher.NewOperandBundle(string(tag))), nil
	})

	constructor(r, "m_dbg_line", intSig, func(args []value.Value) (value.Value, error) {
		line, err := narrow[uint32](args, 0)
		if err != nil {
			return nil, err
		}
		return inst(matcher.NewDebugLine(line)), nil
	})
	constructor(r, "m_dbg_column", intSig, func(args []value.Value) (value.Value, error) {
		col, err := narrow[uint32](args, 0)
		if err != nil {
			return nil, err
		}
		return inst(matcher.NewDebugColumn(col)), nil
	})
}

func registerUsageMatchers(r *Registry) {
	withCount := func(n int) Func {
		return func(args []value.Value) (value.Value, error) {
			inner, err := reqMatcher(args, 0)
			if err != nil {
				return nil, err
			}
			return inst(matcher.NewUsage(inner, n)), nil
		}
	}
	constructor(r, "m_unused", unarySig, withCount(0))
	constructor(r, "m_has_one_use", unarySig, withCount(1))

	nUsesSig := Signature{Params: []value.DataType{value.InstMatcher, value.Int}, Return: value.InstMatcher}
	constructor(r, "m_has_n_uses", nUsesSig, func(args []value.Value) (value.Value, error) {
		inner, err := reqMatcher(args, 0)
		if err != nil {
			return nil, err
		}
		n, err := narrow[int](args, 1)
		if err != nil {
			return nil, err
		}
		return inst(matcher.NewUsage(inner, n)), nil
	})
}

func registerCombinators(r *Registry) {
	nary := func(build func(...matcher.Matcher) matcher.Matcher) Func {
		return func(args []value.Value) (value.Value, error) {
			ms, err := matchers(args, 0)
			if err != nil {
				return nil, err
			}
			return inst(build(ms...)), nil
		}
	}
	pair := func(build func(lhs, rhs matcher.Matcher) matcher.Matcher) Func {
		return func(args []value.Value) (value.Value, error) {
			lhs, err := reqMatcher(args, 0)
			if err != nil {
				return nil, err
			}
			rhs, err := reqMatcher(args, 1)
			if err != nil {
				return nil, err
			}
			return inst(build(lhs, rhs)), nil
		}
	}

	constructor(r, "m_inst_combine_oneof", naryArgSig, nary(matcher.NewOneOf))
	constructor(r, "m_inst_combine_allof", naryArgSig, nary(matcher.NewAllOf))
	constructor(r, "m_inst_combine_noneof", naryArgSig, nary(matcher.NewNoneOf))
	constructor(r, "m_inst_oneof", naryArgSig, nary(matcher.NewOneOf))
	constructor(r, "m_inst_allof", naryArgSig, nary(matcher.NewAllOf))
	constructor(r, "m_inst_combine_and", pairSig, pair(matcher.NewCombineAnd))
	constructor(r, "m_inst_combine_or", pairSig, pair(matcher.NewCombineOr))
	constructor(r, "m_inst_combine_xor", pairSig, pair(matcher.NewCombineXor))
	constructor(r, "m_inst_combine_not", unarySig, func(args []value.Value) (value.Value, error) {
		inner, err := reqMatcher(args, 0)
		if err != nil {
			return nil, err
		}
		return inst(matcher.NewNot(inner)), nil
	})
}
