package ir

import (
	"fmt"
	"strings"
)

// TypeKind classifies a Type.
type TypeKind uint8

const (
	VoidTypeKind TypeKind = iota
	HalfTypeKind
	BFloatTypeKind
	FloatTypeKind
	DoubleTypeKind
	X86FP80TypeKind
	FP128TypeKind
	PPCFP128TypeKind
	LabelTypeKind
	IntegerTypeKind
	FunctionTypeKind
	StructTypeKind
	ArrayTypeKind
	PointerTypeKind
	VectorTypeKind
	MetadataTypeKind
	TokenTypeKind
	ScalableVectorTypeKind
)

// Type is an immutable IR type. Only the fields relevant to Kind are set.
type Type struct {
	kind      TypeKind
	width     uint32 // integer bit width
	elem      *Type  // array/vector element, function return
	length    uint64 // array/vector element count
	fields    []*Type
	name      string // named struct
	addrSpace uint32
	packed    bool
	variadic  bool
}

var (
	voidType     = &Type{kind: VoidTypeKind}
	halfType     = &Type{kind: HalfTypeKind}
	bfloatType   = &Type{kind: BFloatTypeKind}
	floatType    = &Type{kind: FloatTypeKind}
	doubleType   = &Type{kind: DoubleTypeKind}
	x86fp80Type  = &Type{kind: X86FP80TypeKind}
	fp128Type    = &Type{kind: FP128TypeKind}
	ppcfp128Type = &Type{kind: PPCFP128TypeKind}
	labelType    = &Type{kind: LabelTypeKind}
	metadataType = &Type{kind: MetadataTypeKind}
	tokenType    = &Type{kind: TokenTypeKind}
	ptrType      = &Type{kind: PointerTypeKind}

	commonInts = map[uint32]*Type{
		1:  {kind: IntegerTypeKind, width: 1},
		8:  {kind: IntegerTypeKind, width: 8},
		16: {kind: IntegerTypeKind, width: 16},
		32: {kind: IntegerTypeKind, width: 32},
		64: {kind: IntegerTypeKind, width: 64},
	}
)

func VoidType() *Type     { return voidType }
func HalfType() *Type     { return halfType }
func BFloatType() *Type   { return bfloatType }
func FloatType() *Type    { return floatType }
func DoubleType() *Type   { return doubleType }
func X86FP80Type() *Type  { return x86fp80Type }
func FP128Type() *Type    { return fp128Type }
func PPCFP128Type() *Type { return ppcfp128Type }
func LabelType() *Type    { return labelType }
func MetadataType() *Type { return metadataType }
func TokenType() *Type    { return tokenType }

// IntType returns the integer type of the given bit width.
func IntType(width uint32) *Type {
	if t, ok := commonInts[width]; ok {
		return t
	}
	return &Type{kind: IntegerTypeKind, width: width}
}

// PointerType returns an opaque pointer in the given address space.
func PointerType(addrSpace uint32) *Type {
	if addrSpace == 0 {
		return ptrType
	}
	return &Type{kind: PointerTypeKind, addrSpace: addrSpace}
}

// ArrayType returns [n x elem].
func ArrayType(elem *Type, n uint64) *Type {
	return &Type{kind: ArrayTypeKind, elem: elem, length: n}
}

// VectorType returns <n x elem>, or <vscale x n x elem> when scalable.
func VectorType(elem *Type, n uint64, scalable bool) *Type {
	kind := VectorTypeKind
	if scalable {
		kind = ScalableVectorTypeKind
	}
	return &Type{kind: kind, elem: elem, length: n}
}

// StructType returns a literal struct type. A non-empty name makes it an
// identified struct; fields may be filled later by SetBody.
func StructType(name string, packed bool, fields ...*Type) *Type {
	return &Type{kind: StructTypeKind, name: name, packed: packed, fields: fields}
}

// FunctionType returns ret (params...).
func FunctionType(ret *Type, variadic bool, params ...*Type) *Type {
	return &Type{kind: FunctionTypeKind, elem: ret, fields: params, variadic: variadic}
}

// SetBody completes an identified struct declared before its definition.
func (t *Type) SetBody(packed bool, fields ...*Type) {
	t.packed = packed
	t.fields = fields
}

func (t *Type) Kind() TypeKind { return t.kind }

// IntWidth is the bit width of an integer type, 0 otherwise.
func (t *Type) IntWidth() uint32 { return t.width }

// Elem is the element type of arrays and vectors and the return type of
// function types.
func (t *Type) Elem() *Type { return t.elem }

// ArrayLen is the element count of an array type.
func (t *Type) ArrayLen() uint64 {
	if t.kind != ArrayTypeKind {
		return 0
	}
	return t.length
}

// VectorLen is the (minimum) element count of a vector type.
func (t *Type) VectorLen() uint64 {
	if t.kind != VectorTypeKind && t.kind != ScalableVectorTypeKind {
		return 0
	}
	return t.length
}

// Fields returns struct members or function parameter types.
func (t *Type) Fields() []*Type { return t.fields }

func (t *Type) AddrSpace() uint32 { return t.addrSpace }

// IsFloat reports whether t is one of the floating point kinds.
func (t *Type) IsFloat() bool {
	switch t.kind {
	case HalfTypeKind, BFloatTypeKind, FloatTypeKind, DoubleTypeKind,
		X86FP80TypeKind, FP128TypeKind, PPCFP128TypeKind:
		return true
	}
	return false
}

// String renders t in textual IR syntax.
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.kind {
	case VoidTypeKind:
		return "void"
	case HalfTypeKind:
		return "half"
	case BFloatTypeKind:
		return "bfloat"
	case FloatTypeKind:
		return "float"
	case DoubleTypeKind:
		return "double"
	case X86FP80TypeKind:
		return "x86_fp80"
	case FP128TypeKind:
		return "fp128"
	case PPCFP128TypeKind:
		return "ppc_fp128"
	case LabelTypeKind:
		return "label"
	case MetadataTypeKind:
		return "metadata"
	case TokenTypeKind:
		return "token"
	case IntegerTypeKind:
		return fmt.Sprintf("i%d", t.width)
	case PointerTypeKind:
		if t.addrSpace != 0 {
			return fmt.Sprintf("ptr addrspace(%d)", t.addrSpace)
		}
		return "ptr"
	case ArrayTypeKind:
		return fmt.Sprintf("[%d x %s]", t.length, t.elem)
	case VectorTypeKind:
		return fmt.Sprintf("<%d x %s>", t.length, t.elem)
	case ScalableVectorTypeKind:
		return fmt.Sprintf("<vscale x %d x %s>", t.length, t.elem)
	case StructTypeKind:
		if t.name != "" {
			return "%" + t.name
		}
		parts := make([]string, len(t.fields))
		for i, f := range t.fields {
			parts[i] = f.String()
		}
		if t.packed {
			return "<{ " + strings.Join(parts, ", ") + " }>"
		}
		return "{ " + strings.Join(parts, ", ") + " }"
	case FunctionTypeKind:
		parts := make([]string, 0, len(t.fields)+1)
		for _, f := range t.fields {
			parts = append(parts, f.String())
		}
		if t.variadic {
			parts = append(parts, "...")
		}
		return fmt.Sprintf("%s (%s)", t.elem, strings.Join(parts, ", "))
	}
	return "?"
}
