package value

import "fmt"

// DataType is a sealed interface describing the static type of a value or
// a builtin parameter.
type DataType interface {
	dataType()
	String() string
}

type (
	TextType        struct{}
	IntType         struct{}
	FloatType       struct{}
	BoolType        struct{}
	NullType        struct{}
	AnyType         struct{} // accepts every argument
	InstType        struct{}
	InstMatcherType struct{}
	TypeMatcherType struct{}
)

// ArrayType is a homogeneous list.
type ArrayType struct{ Elem DataType }

// OptionalType marks a builtin parameter that may be omitted. Only trailing
// parameters may be optional.
type OptionalType struct{ Base DataType }

// VarargsType marks a final parameter accepting zero or more arguments.
type VarargsType struct{ Base DataType }

func (TextType) dataType()        {}
func (IntType) dataType()         {}
func (FloatType) dataType()       {}
func (BoolType) dataType()        {}
func (NullType) dataType()        {}
func (AnyType) dataType()         {}
func (InstType) dataType()        {}
func (InstMatcherType) dataType() {}
func (TypeMatcherType) dataType() {}
func (ArrayType) dataType()       {}
func (OptionalType) dataType()    {}
func (VarargsType) dataType()     {}

func (TextType) String() string        { return "Text" }
func (IntType) String() string         { return "Int" }
func (FloatType) String() string       { return "Float" }
func (BoolType) String() string        { return "Boolean" }
func (NullType) String() string        { return "Null" }
func (AnyType) String() string         { return "Any" }
func (InstType) String() string        { return "LLVMValue" }
func (InstMatcherType) String() string { return "InstMatcher" }
func (TypeMatcherType) String() string { return "TypeMatcherType" }
func (t ArrayType) String() string     { return fmt.Sprintf("Array(%s)", t.Elem) }
func (t OptionalType) String() string  { return t.Base.String() + "?" }
func (t VarargsType) String() string   { return "..." + t.Base.String() }

// Shared instances.
var (
	Text        DataType = TextType{}
	Int         DataType = IntType{}
	Float       DataType = FloatType{}
	Bool        DataType = BoolType{}
	Null        DataType = NullType{}
	Any         DataType = AnyType{}
	Inst        DataType = InstType{}
	InstMatcher DataType = InstMatcherType{}
	TypeMatcher DataType = TypeMatcherType{}
)

func Optional(base DataType) DataType { return OptionalType{Base: base} }
func Varargs(base DataType) DataType  { return VarargsType{Base: base} }
func Array(elem DataType) DataType    { return ArrayType{Elem: elem} }

// Equal reports structural type equality.
func Equal(a, b DataType) bool {
	switch at := a.(type) {
	case ArrayType:
		bt, ok := b.(ArrayType)
		return ok && Equal(at.Elem, bt.Elem)
	case OptionalType:
		bt, ok := b.(OptionalType)
		return ok && Equal(at.Base, bt.Base)
	case VarargsType:
		bt, ok := b.(VarargsType)
		return ok && Equal(at.Base, bt.Base)
	}
	return a == b
}

// Accepts reports whether an argument of type arg may be passed where a
// parameter of type param is declared. Any accepts everything, Optional
// and Varargs accept their base type, and an argument of type Any (an
// unresolved expression) is accepted everywhere. An empty array literal
// has element type Any and so fits every array parameter.
func Accepts(param, arg DataType) bool {
	if _, ok := param.(AnyType); ok {
		return true
	}
	if _, ok := arg.(AnyType); ok {
		return true
	}
	switch pt := param.(type) {
	case OptionalType:
		if _, ok := arg.(NullType); ok {
			return true
		}
		return Accepts(pt.Base, arg)
	case VarargsType:
		return Accepts(pt.Base, arg)
	case ArrayType:
		at, ok := arg.(ArrayType)
		return ok && Accepts(pt.Elem, at.Elem)
	}
	return Equal(param, arg)
}

// IsNumeric reports whether t is Int or Float.
func IsNumeric(t DataType) bool {
	switch t.(type) {
	case IntType, FloatType:
		return true
	}
	return false
}

// IsMatcher reports whether t is one of the two matcher types.
func IsMatcher(t DataType) bool {
	switch t.(type) {
	case InstMatcherType, TypeMatcherType:
		return true
	}
	return false
}
