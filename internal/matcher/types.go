package matcher

import "github.com/roach88/llql/internal/ir"

// TypeMatcher is a predicate over an IR type.
//
// This is a sealed interface: only the variants in this file implement it.
type TypeMatcher interface {
	typeMatcherNode()
}

// AnyType matches every type.
type AnyType struct{}

// VoidType matches void.
type VoidType struct{}

// IntType matches integers of exactly Width bits.
type IntType struct{ Width uint32 }

// FloatType matches float (Width 32) or double (Width 64).
type FloatType struct{ Width uint32 }

// HalfType matches the 16-bit IEEE half type.
type HalfType struct{}

// PointerType matches any pointer. Pointers are opaque, so the pointee is
// not inspected.
type PointerType struct{}

// ArrayType matches [N x Elem]. Without HasLen any length matches.
type ArrayType struct {
	Elem   TypeMatcher
	Len    uint64
	HasLen bool
}

// VectorType matches fixed-length <N x Elem> vectors.
type VectorType struct {
	Elem   TypeMatcher
	Len    uint64
	HasLen bool
}

// ScalableVectorType matches <vscale x N x T> of any shape.
type ScalableVectorType struct{}

// TypeNot negates a type matcher.
type TypeNot struct{ Inner TypeMatcher }

// TypeAnd, TypeOr and TypeXor combine two type matchers.
type TypeAnd struct{ LHS, RHS TypeMatcher }
type TypeOr struct{ LHS, RHS TypeMatcher }
type TypeXor struct{ LHS, RHS TypeMatcher }

func (*AnyType) typeMatcherNode()            {}
func (*VoidType) typeMatcherNode()           {}
func (*IntType) typeMatcherNode()            {}
func (*FloatType) typeMatcherNode()          {}
func (*HalfType) typeMatcherNode()           {}
func (*PointerType) typeMatcherNode()        {}
func (*ArrayType) typeMatcherNode()          {}
func (*VectorType) typeMatcherNode()         {}
func (*ScalableVectorType) typeMatcherNode() {}
func (*TypeNot) typeMatcherNode()            {}
func (*TypeAnd) typeMatcherNode()            {}
func (*TypeOr) typeMatcherNode()             {}
func (*TypeXor) typeMatcherNode()            {}

// Shared instances of the parameterless type matchers.
var (
	anyType            = &AnyType{}
	voidType           = &VoidType{}
	halfType           = &HalfType{}
	pointerType        = &PointerType{}
	scalableVectorType = &ScalableVectorType{}
)

func NewAnyType() TypeMatcher             { return anyType }
func NewVoidType() TypeMatcher            { return voidType }
func NewIntType(width uint32) TypeMatcher { return &IntType{Width: width} }
func NewFloat32Type() TypeMatcher         { return &FloatType{Width: 32} }
func NewFloat64Type() TypeMatcher         { return &FloatType{Width: 64} }
func NewHalfType() TypeMatcher            { return halfType }
func NewPointerType() TypeMatcher         { return pointerType }
func NewScalableVectorType() TypeMatcher  { return scalableVectorType }

// NewArrayType matches arrays whose elements match elem (nil means any).
// A nil length leaves the length unconstrained.
func NewArrayType(elem TypeMatcher, length *uint64) TypeMatcher {
	m := &ArrayType{Elem: orAnyType(elem)}
	if length != nil {
		m.Len, m.HasLen = *length, true
	}
	return m
}

// NewVectorType is the fixed-vector counterpart of NewArrayType.
func NewVectorType(elem TypeMatcher, length *uint64) TypeMatcher {
	m := &VectorType{Elem: orAnyType(elem)}
	if length != nil {
		m.Len, m.HasLen = *length, true
	}
	return m
}

func NewTypeNot(inner TypeMatcher) TypeMatcher    { return &TypeNot{Inner: inner} }
func NewTypeAnd(lhs, rhs TypeMatcher) TypeMatcher { return &TypeAnd{LHS: lhs, RHS: rhs} }
func NewTypeOr(lhs, rhs TypeMatcher) TypeMatcher  { return &TypeOr{LHS: lhs, RHS: rhs} }
func NewTypeXor(lhs, rhs TypeMatcher) TypeMatcher { return &TypeXor{LHS: lhs, RHS: rhs} }

func orAnyType(m TypeMatcher) TypeMatcher {
	if m == nil {
		return anyType
	}
	return m
}

// MatchType reports whether t satisfies m. A nil type matches only AnyType.
func MatchType(m TypeMatcher, t *ir.Type) bool {
	if m == nil {
		return false
	}
	switch tm := m.(type) {
	case *AnyType:
		return true
	case *TypeNot:
		return !MatchType(tm.Inner, t)
	case *TypeAnd:
		return MatchType(tm.LHS, t) && MatchType(tm.RHS, t)
	case *TypeOr:
		return MatchType(tm.LHS, t) || MatchType(tm.RHS, t)
	case *TypeXor:
		return MatchType(tm.LHS, t) != MatchType(tm.RHS, t)
	}
	if t == nil {
		return false
	}
	switch tm := m.(type) {
	case *VoidType:
		return t.Kind() == ir.VoidTypeKind
	case *IntType:
		return t.Kind() == ir.IntegerTypeKind && t.IntWidth() == tm.Width
	case *FloatType:
		switch tm.Width {
		case 32:
			return t.Kind() == ir.FloatTypeKind
		case 64:
			return t.Kind() == ir.DoubleTypeKind
		}
		return false
	case *HalfType:
		return t.Kind() == ir.HalfTypeKind
	case *PointerType:
		return t.Kind() == ir.PointerTypeKind
	case *ArrayType:
		if t.Kind() != ir.ArrayTypeKind || !MatchType(tm.Elem, t.Elem()) {
			return false
		}
		return !tm.HasLen || t.ArrayLen() == tm.Len
	case *VectorType:
		if t.Kind() != ir.VectorTypeKind || !MatchType(tm.Elem, t.Elem()) {
			return false
		}
		return !tm.HasLen || t.VectorLen() == tm.Len
	case *ScalableVectorType:
		return t.Kind() == ir.ScalableVectorTypeKind
	}
	return false
}
