package matcher

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/llql/internal/ir"
)

func TestMatchType(t *testing.T) {
	four, eight := uint64(4), uint64(8)
	i32 := ir.IntType(32)

	tests := []struct {
		name    string
		matcher TypeMatcher
		typ     *ir.Type
		want    bool
	}{
		{"void", NewVoidType(), ir.VoidType(), true},
		{"void on int", NewVoidType(), i32, false},
		{"int32", NewIntType(32), i32, true},
		{"int width mismatch", NewIntType(64), i32, false},
		{"int1", NewIntType(1), ir.IntType(1), true},
		{"f32", NewFloat32Type(), ir.FloatType(), true},
		{"f32 on double", NewFloat32Type(), ir.DoubleType(), false},
		{"f64", NewFloat64Type(), ir.DoubleType(), true},
		{"half", NewHalfType(), ir.HalfType(), true},
		{"half on bfloat", NewHalfType(), ir.BFloatType(), false},
		{"pointer", NewPointerType(), ir.PointerType(0), true},
		{"pointer any address space", NewPointerType(), ir.PointerType(3), true},
		{"array any length", NewArrayType(NewIntType(32), nil), ir.ArrayType(i32, 7), true},
		{"array length", NewArrayType(NewIntType(32), &four), ir.ArrayType(i32, 4), true},
		{"array length mismatch", NewArrayType(NewIntType(32), &eight), ir.ArrayType(i32, 4), false},
		{"array element mismatch", NewArrayType(NewIntType(8), nil), ir.ArrayType(i32, 4), false},
		{"array nil element", NewArrayType(nil, nil), ir.ArrayType(ir.DoubleType(), 2), true},
		{"vector", NewVectorType(NewIntType(32), &four), ir.VectorType(i32, 4, false), true},
		{"vector on array", NewVectorType(nil, nil), ir.ArrayType(i32, 4), false},
		{"vector on scalable", NewVectorType(nil, nil), ir.VectorType(i32, 4, true), false},
		{"scalable", NewScalableVectorType(), ir.VectorType(i32, 4, true), true},
		{"scalable on fixed", NewScalableVectorType(), ir.VectorType(i32, 4, false), false},
		{"any", NewAnyType(), ir.LabelType(), true},
		{"any nil", NewAnyType(), nil, true},
		{"int nil", NewIntType(32), nil, false},
		{"not", NewTypeNot(NewPointerType()), i32, true},
		{"and", NewTypeAnd(NewIntType(32), NewTypeNot(NewVoidType())), i32, true},
		{"or", NewTypeOr(NewVoidType(), NewIntType(32)), i32, true},
		{"xor both", NewTypeXor(NewIntType(32), NewAnyType()), i32, false},
		{"nil matcher", nil, i32, false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MatchType(tt.matcher, tt.typ))
		})
	}
}
