package ir

// InstSpec describes an instruction to be created with NewInstruction.
// Operands may be filled in later with SetOperands once forward references
// are resolved.
type InstSpec struct {
	Opcode    Opcode
	Name      string
	Type      *Type
	Operands  []*Value
	Flags     Flag
	IntPred   IntPredicate
	FloatPred FloatPredicate
	Indices   []int64
	Bundles   []Bundle
	Text      string
}

// NewInstruction creates an instruction value.
func NewInstruction(spec InstSpec) *Value {
	typ := spec.Type
	if typ == nil {
		typ = VoidType()
	}
	return &Value{
		kind:      KindInstruction,
		opcode:    spec.Opcode,
		name:      spec.Name,
		typ:       typ,
		operands:  spec.Operands,
		flags:     spec.Flags,
		intPred:   spec.IntPred,
		floatPred: spec.FloatPred,
		indices:   spec.Indices,
		bundles:   spec.Bundles,
		text:      spec.Text,
	}
}

// SetOperands replaces the operand list. It must be called before the
// owning module is linked.
func (v *Value) SetOperands(ops []*Value) { v.operands = ops }

// SetDebugLoc attaches a source location.
func (v *Value) SetDebugLoc(line, column uint32) {
	v.loc = &Location{Line: line, Column: column}
}

// SetText overrides the printed form of the value.
func (v *Value) SetText(text string) { v.text = text }

// NewArgument creates a formal parameter.
func NewArgument(name string, typ *Type) *Value {
	return &Value{kind: KindArgument, name: name, typ: typ}
}

// NewGlobalVariable creates a module-level variable. Its type is the
// pointer type of its address.
func NewGlobalVariable(name string, addrSpace uint32) *Value {
	return &Value{kind: KindGlobalVariable, name: name, typ: PointerType(addrSpace)}
}

// NewConstInt creates an integer constant. The value is truncated to the
// type's width and sign-extended, the way ConstantInt::getSExtValue reports
// it, so i1 true reads back as -1.
func NewConstInt(typ *Type, raw int64, text string) *Value {
	v := &Value{kind: KindConstantInt, typ: typ, text: text, intOK: true}
	if w := typ.IntWidth(); w > 0 && w < 64 {
		shift := 64 - w
		raw = raw << shift >> shift
	}
	v.intVal = raw
	return v
}

// NewWideConstInt creates an integer constant whose value does not fit in
// 64 bits; SExtValue reports ok=false for it.
func NewWideConstInt(typ *Type, text string) *Value {
	return &Value{kind: KindConstantInt, typ: typ, text: text}
}

// NewConstFloat creates a floating point constant.
func NewConstFloat(typ *Type, f float64, text string) *Value {
	return &Value{kind: KindConstantFP, typ: typ, floatVal: f, text: text}
}

// NewConstNull creates a null pointer constant.
func NewConstNull(typ *Type) *Value {
	return &Value{kind: KindConstantNull, typ: typ, text: "null"}
}

// NewPoison creates a poison value.
func NewPoison(typ *Type) *Value {
	return &Value{kind: KindPoison, typ: typ, text: "poison"}
}

// NewUndef creates an undef value.
func NewUndef(typ *Type) *Value {
	return &Value{kind: KindUndef, typ: typ, text: "undef"}
}

// NewConstExpr creates a constant expression such as
// getelementptr (...) or ptrtoint (...).
func NewConstExpr(typ *Type, op Opcode, text string) *Value {
	return &Value{kind: KindConstantExpr, opcode: op, typ: typ, text: text}
}

// NewConstAggregate creates a struct, array, vector, string or
// zeroinitializer constant.
func NewConstAggregate(typ *Type, text string) *Value {
	return &Value{kind: KindConstantAggregate, typ: typ, text: text}
}

// NewMetadataValue creates an opaque metadata operand.
func NewMetadataValue(text string) *Value {
	return &Value{kind: KindMetadata, typ: MetadataType(), text: text}
}

// NewOther creates a value of no specific kind (none, inline asm, ...).
func NewOther(typ *Type, text string) *Value {
	return &Value{kind: KindOther, typ: typ, text: text}
}

// SetOperand replaces operand i. It must be called before the owning
// module is linked.
func (v *Value) SetOperand(i int, op *Value) {
	if i >= 0 && i < len(v.operands) {
		v.operands[i] = op
	}
}
