package builtin

import (
	"github.com/roach88/llql/internal/matcher"
	"github.com/roach88/llql/internal/value"
)

func registerTypeMatchers(r *Registry) {
	fixed := map[string]matcher.TypeMatcher{
		"m_void":            matcher.NewVoidType(),
		"m_int1":            matcher.NewIntType(1),
		"m_int8":            matcher.NewIntType(8),
		"m_int16":           matcher.NewIntType(16),
		"m_int32":           matcher.NewIntType(32),
		"m_int64":           matcher.NewIntType(64),
		"m_f32":             matcher.NewFloat32Type(),
		"m_f64":             matcher.NewFloat64Type(),
		"m_half":            matcher.NewHalfType(),
		"m_ptr":             matcher.NewPointerType(),
		"m_scalable_vector": matcher.NewScalableVectorType(),
		"m_any_type":        matcher.NewAnyType(),
	}
	for name, m := range fixed {
		m := m
		constructor(r, name, typeSig, func([]value.Value) (value.Value, error) { return typ(m), nil })
	}

	sequenceSig := Signature{
		Params: []value.DataType{value.TypeMatcher, value.Optional(value.Int)},
		Return: value.TypeMatcher,
	}
	sequence := func(build func(matcher.TypeMatcher, *uint64) matcher.TypeMatcher) Func {
		return func(args []value.Value) (value.Value, error) {
			elem, err := reqTypeMatcher(args, 0)
			if err != nil {
				return nil, err
			}
			var length *uint64
			if len(args) > 1 {
				if _, null := args[1].(value.NullValue); !null {
					n, err := narrow[uint64](args, 1)
					if err != nil {
						return nil, err
					}
					length = &n
				}
			}
			return typ(build(elem, length)), nil
		}
	}
	constructor(r, "m_array", sequenceSig, sequence(matcher.NewArrayType))
	constructor(r, "m_vector", sequenceSig, sequence(matcher.NewVectorType))
}
