package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConstInt_SignExtends(t *testing.T) {
	tests := []struct {
		name string
		typ  *Type
		raw  int64
		want int64
	}{
		{"i1 true", IntType(1), 1, -1},
		{"i8 255", IntType(8), 255, -1},
		{"i8 127", IntType(8), 127, 127},
		{"i32 5", IntType(32), 5, 5},
		{"i64 min", IntType(64), -1 << 63, -1 << 63},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			v := NewConstInt(tc.typ, tc.raw, "")
			got, ok := v.SExtValue()
			require.True(t, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSExtValue_NotInteger(t *testing.T) {
	_, ok := NewConstFloat(DoubleType(), 1.5, "1.5").SExtValue()
	assert.False(t, ok)

	_, ok = NewWideConstInt(IntType(128), "340282366920938463463374607431768211455").SExtValue()
	assert.False(t, ok)
}

func TestOperand_OutOfRangeIsNil(t *testing.T) {
	inst := NewInstruction(InstSpec{Opcode: OpRet})
	assert.Nil(t, inst.Operand(0))
	assert.Nil(t, inst.Operand(-1))
	assert.Equal(t, 0, inst.NumOperands())
	assert.Nil(t, inst.Callee())
}

func TestLink_BuildsUseLists(t *testing.T) {
	m := NewModule("test.ll")
	arg := NewArgument("x", IntType(32))
	f := NewFunction("f", IntType(32), []*Value{arg}, false)
	b := NewBlock("entry")
	one := NewConstInt(IntType(32), 1, "1")
	add := NewInstruction(InstSpec{Opcode: OpAdd, Name: "a", Type: IntType(32), Operands: []*Value{arg, one}})
	mul := NewInstruction(InstSpec{Opcode: OpMul, Name: "b", Type: IntType(32), Operands: []*Value{add, add}})
	ret := NewInstruction(InstSpec{Opcode: OpRet, Operands: []*Value{mul}})
	b.Append(add)
	b.Append(mul)
	b.Append(ret)
	f.AddBlock(b)
	m.AddFunction(f)
	m.Link()

	assert.Equal(t, 2, add.NumUses())
	assert.Equal(t, 1, mul.NumUses())
	assert.Equal(t, 1, arg.NumUses())
	assert.Equal(t, 0, ret.NumUses())
	assert.Nil(t, one.FirstUse(), "constants carry no use-list")

	u := add.FirstUse()
	require.NotNil(t, u)
	assert.Same(t, mul, u.User())
	assert.Equal(t, 1, u.OperandIndex())
	require.NotNil(t, u.Next())
	assert.Equal(t, 0, u.Next().OperandIndex())
	assert.Nil(t, u.Next().Next())
	assert.Same(t, b, add.Block())
}

func TestCallee_IsLastOperand(t *testing.T) {
	callee := NewFunction("llvm.smax.i32", IntType(32), nil, true)
	call := NewInstruction(InstSpec{
		Opcode:   OpCall,
		Type:     IntType(32),
		Operands: []*Value{NewConstInt(IntType(32), 1, "1"), NewConstInt(IntType(32), 2, "2"), callee.Value()},
	})
	require.NotNil(t, call.Callee())
	assert.Equal(t, "llvm.smax.i32", call.Callee().Name())
	assert.NotZero(t, call.Callee().IntrinsicID())
}

func TestLookupIntrinsicID(t *testing.T) {
	assert.NotZero(t, LookupIntrinsicID("llvm.memcpy.p0.p0.i64"))
	assert.NotZero(t, LookupIntrinsicID("llvm.dbg.value"))
	assert.Equal(t, OtherIntrinsicID, LookupIntrinsicID("llvm.not.a.thing"))
	assert.Equal(t, OtherIntrinsicID, LookupIntrinsicID("llvm.log2.f64"))
	assert.Equal(t, OtherIntrinsicID, LookupIntrinsicID("llvm."))
	assert.Zero(t, LookupIntrinsicID("llvmfoo"))
	assert.NotEqual(t, OtherIntrinsicID, LookupIntrinsicID("llvm.vector.reduce.add.v4i32"))
	assert.NotEqual(t, LookupIntrinsicID("llvm.vector.reduce.add.v4i32"), LookupIntrinsicID("llvm.vector.reduce.and.v4i32"))
	assert.Zero(t, LookupIntrinsicID("memcpy"))
	assert.NotEqual(t, LookupIntrinsicID("llvm.smax.i32"), LookupIntrinsicID("llvm.smin.i32"))
	assert.Equal(t, LookupIntrinsicID("llvm.sadd.with.overflow.i32"), LookupIntrinsicID("llvm.sadd.with.overflow.i64"))
}

func TestOpcode_Families(t *testing.T) {
	assert.True(t, OpAdd.IsBinary())
	assert.True(t, OpXor.IsBinary())
	assert.False(t, OpICmp.IsBinary())
	assert.True(t, OpTrunc.IsCast())
	assert.True(t, OpAddrSpaceCast.IsCast())
	assert.False(t, OpCall.IsCast())
	assert.True(t, OpUnreachable.IsTerminator())

	op, ok := LookupOpcode("getelementptr")
	require.True(t, ok)
	assert.Equal(t, OpGetElementPtr, op)
	assert.Equal(t, "fcmp", OpFCmp.String())
	_, ok = LookupOpcode("bogus")
	assert.False(t, ok)
}

func TestPredicates(t *testing.T) {
	p, ok := LookupIntPredicate("sle")
	require.True(t, ok)
	assert.Equal(t, IntSLE, p)

	fp, ok := LookupFloatPredicate("uno")
	require.True(t, ok)
	assert.Equal(t, FloatUNO, fp)
	assert.Equal(t, "one", FloatONE.String())
}

func TestType_String(t *testing.T) {
	assert.Equal(t, "[4 x i8]", ArrayType(IntType(8), 4).String())
	assert.Equal(t, "<vscale x 4 x i32>", VectorType(IntType(32), 4, true).String())
	assert.Equal(t, "{ i32, ptr }", StructType("", false, IntType(32), PointerType(0)).String())
	assert.Equal(t, "ptr addrspace(3)", PointerType(3).String())
	assert.Equal(t, uint64(0), IntType(32).ArrayLen())
}
