package ir

// Node is the read-only accessor capability the matcher engine consumes.
// Every method is total: asking a node for something it does not have
// yields a zero value (OpNone, nil, 0, false) rather than a fault.
type Node interface {
	Opcode() Opcode
	Kind() ValueKind
	Type() *Type
	Name() string
	NumOperands() int
	// Operand returns nil when i is out of range.
	Operand(i int) Node
	IntPredicate() IntPredicate
	FloatPredicate() FloatPredicate
	// SExtValue is the sign-extended value of an integer constant. ok is
	// false for anything else, including integers wider than 64 bits that
	// do not fit.
	SExtValue() (v int64, ok bool)
	Callee() Node
	IntrinsicID() uint32
	DebugLine() uint32
	DebugColumn() uint32
	FirstUse() *Use
	NumOperandBundles() int
	OperandBundleTag(i int) string
	Indices() []int64
	HasFlag(f Flag) bool
	String() string
}

// ValueKind is the discriminant of a Value.
type ValueKind uint8

const (
	KindOther ValueKind = iota
	KindArgument
	KindBasicBlock
	KindFunction
	KindGlobalVariable
	KindConstantExpr
	KindConstantAggregate
	KindConstantInt
	KindConstantFP
	KindConstantNull
	KindUndef
	KindPoison
	KindInstruction
	KindMetadata
)

var valueKindNames = [...]string{
	KindOther:             "other",
	KindArgument:          "argument",
	KindBasicBlock:        "basic_block",
	KindFunction:          "function",
	KindGlobalVariable:    "global_variable",
	KindConstantExpr:      "constant_expr",
	KindConstantAggregate: "constant_aggregate",
	KindConstantInt:       "constant_int",
	KindConstantFP:        "constant_fp",
	KindConstantNull:      "constant_null",
	KindUndef:             "undef",
	KindPoison:            "poison",
	KindInstruction:       "instruction",
	KindMetadata:          "metadata",
}

func (k ValueKind) String() string {
	if int(k) < len(valueKindNames) {
		return valueKindNames[k]
	}
	return "unknown"
}

// IsConstant reports whether values of this kind are constants.
func (k ValueKind) IsConstant() bool {
	return k >= KindConstantExpr && k <= KindPoison
}

// Flag is a bit set of instruction flags written in the textual IR.
type Flag uint16

const (
	FlagNUW Flag = 1 << iota
	FlagNSW
	FlagExact
	FlagDisjoint
	FlagInBounds
	FlagTail
	FlagFastMath
)

var flagNames = map[string]Flag{
	"nuw":      FlagNUW,
	"nsw":      FlagNSW,
	"exact":    FlagExact,
	"disjoint": FlagDisjoint,
	"inbounds": FlagInBounds,
	"tail":     FlagTail,
	"musttail": FlagTail,
	"notail":   FlagTail,
}

var fastMathFlags = map[string]bool{
	"fast": true, "nnan": true, "ninf": true, "nsz": true,
	"arcp": true, "contract": true, "afn": true, "reassoc": true,
}

// LookupFlag maps an instruction keyword flag (nuw, disjoint, fast, ...)
// to its Flag bit.
func LookupFlag(name string) (Flag, bool) {
	if f, ok := flagNames[name]; ok {
		return f, true
	}
	if fastMathFlags[name] {
		return FlagFastMath, true
	}
	return 0, false
}

// Bundle is an operand bundle attached to a call or invoke. Its operands
// are stored inline in the owning instruction's operand list.
type Bundle struct {
	Tag      string
	Operands int
}

// Location is a resolved !DILocation attachment.
type Location struct {
	Line   uint32
	Column uint32
}

// Use is one entry of a value's use-list: a (user, operand index) pair.
type Use struct {
	user  *Value
	index int
	next  *Use
}

// User is the instruction that uses the value.
func (u *Use) User() Node { return u.user }

// OperandIndex is the operand slot of User holding the value.
func (u *Use) OperandIndex() int { return u.index }

// Next returns the following use, or nil at the end of the list.
func (u *Use) Next() *Use { return u.next }

// Value is the concrete IR node: instruction, argument, block, global or
// constant. A Value is immutable once its module has been linked.
type Value struct {
	kind      ValueKind
	opcode    Opcode
	name      string
	typ       *Type
	operands  []*Value
	flags     Flag
	intPred   IntPredicate
	floatPred FloatPredicate
	intVal    int64
	intOK     bool
	floatVal  float64
	indices   []int64
	bundles   []Bundle
	loc       *Location
	intrinsic uint32
	text      string
	uses      *Use
	numUses   int
	block     *Block
}

var _ Node = (*Value)(nil)

func (v *Value) Opcode() Opcode  { return v.opcode }
func (v *Value) Kind() ValueKind { return v.kind }
func (v *Value) Type() *Type     { return v.typ }

// Name is the symbol name without its sigil. Numbered locals are unnamed.
func (v *Value) Name() string { return v.name }

func (v *Value) NumOperands() int { return len(v.operands) }

func (v *Value) Operand(i int) Node {
	if i < 0 || i >= len(v.operands) || v.operands[i] == nil {
		return nil
	}
	return v.operands[i]
}

// Operands returns the operand slice. Callers must not modify it.
func (v *Value) Operands() []*Value { return v.operands }

func (v *Value) IntPredicate() IntPredicate     { return v.intPred }
func (v *Value) FloatPredicate() FloatPredicate { return v.floatPred }

func (v *Value) SExtValue() (int64, bool) {
	if v.kind != KindConstantInt {
		return 0, false
	}
	return v.intVal, v.intOK
}

// FloatValue is the value of a floating point constant.
func (v *Value) FloatValue() (float64, bool) {
	if v.kind != KindConstantFP {
		return 0, false
	}
	return v.floatVal, true
}

// Callee is the called operand of a call or invoke.
func (v *Value) Callee() Node {
	if v.opcode != OpCall && v.opcode != OpInvoke && v.opcode != OpCallBr {
		return nil
	}
	return v.Operand(len(v.operands) - 1)
}

func (v *Value) IntrinsicID() uint32 { return v.intrinsic }

func (v *Value) DebugLine() uint32 {
	if v.loc == nil {
		return 0
	}
	return v.loc.Line
}

func (v *Value) DebugColumn() uint32 {
	if v.loc == nil {
		return 0
	}
	return v.loc.Column
}

func (v *Value) FirstUse() *Use { return v.uses }

// NumUses is the length of the use-list.
func (v *Value) NumUses() int { return v.numUses }

func (v *Value) NumOperandBundles() int { return len(v.bundles) }

func (v *Value) OperandBundleTag(i int) string {
	if i < 0 || i >= len(v.bundles) {
		return ""
	}
	return v.bundles[i].Tag
}

func (v *Value) Indices() []int64 { return v.indices }

func (v *Value) HasFlag(f Flag) bool { return v.flags&f != 0 }

// Block is the basic block containing an instruction, or the block a
// KindBasicBlock value stands for.
func (v *Value) Block() *Block { return v.block }

// String returns the source text of instructions and constants, or the
// sigiled name of named values.
func (v *Value) String() string {
	if v.text != "" {
		return v.text
	}
	switch v.kind {
	case KindFunction, KindGlobalVariable:
		return "@" + v.name
	case KindArgument, KindBasicBlock, KindInstruction:
		if v.name != "" {
			return "%" + v.name
		}
	}
	return v.kind.String()
}

// addUse prepends a use, matching the most-recent-first order of LLVM
// use-lists.
func (v *Value) addUse(user *Value, index int) {
	v.uses = &Use{user: user, index: index, next: v.uses}
	v.numUses++
}
