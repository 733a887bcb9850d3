package matcher

import "github.com/roach88/llql/internal/ir"

// Matcher is a predicate over an IR node.
//
// This is a sealed interface: only the variants in this package implement
// it, which keeps the evaluator's type switch exhaustive.
//
// Variants:
//   - Any
//   - Binary, IntCompare, FloatCompare: opcode or predicate plus operands
//   - Cast, Call, Intrinsic, Invoke, LandingPad, Resume, Throw, Rethrow
//   - ConstInt, ConstFloat, ConstNull, ConstPoison, ConstNumber, ConstExpr
//   - Return, Unreachable, Label, Argument, ExtractValue, GetElementPtr
//   - OperandBundle, OperandCount, InstType, DebugLine, DebugColumn
//   - Usage
//   - Not, And, Or, Xor, OneOf, AllOf, NoneOf
type Matcher interface {
	matcherNode()
}

// Any matches every node, including a missing one.
type Any struct{}

// BinaryOp selects the opcode a Binary matcher accepts.
type BinaryOp uint8

const (
	// BinAny accepts any two-operand arithmetic, bitwise or shift opcode.
	BinAny BinaryOp = iota

	// Arithmetic.
	BinAdd
	BinSub
	BinMul
	BinSDiv
	BinSRem
	BinFAdd
	BinFSub
	BinFMul
	BinFDiv
	BinFRem

	// Bitwise.
	BinAnd
	BinOr
	BinOrDisjoint // or carrying the disjoint flag
	BinXor

	// Shifts.
	BinShl
	BinLShr
	BinAShr
)

var binaryOpcodes = [...]ir.Opcode{
	BinAdd:        ir.OpAdd,
	BinSub:        ir.OpSub,
	BinMul:        ir.OpMul,
	BinSDiv:       ir.OpSDiv,
	BinSRem:       ir.OpSRem,
	BinFAdd:       ir.OpFAdd,
	BinFSub:       ir.OpFSub,
	BinFMul:       ir.OpFMul,
	BinFDiv:       ir.OpFDiv,
	BinFRem:       ir.OpFRem,
	BinAnd:        ir.OpAnd,
	BinOr:         ir.OpOr,
	BinOrDisjoint: ir.OpOr,
	BinXor:        ir.OpXor,
	BinShl:        ir.OpShl,
	BinLShr:       ir.OpLShr,
	BinAShr:       ir.OpAShr,
}

func (op BinaryOp) String() string {
	switch op {
	case BinAny:
		return "binop"
	case BinOrDisjoint:
		return "or disjoint"
	}
	if int(op) < len(binaryOpcodes) {
		return binaryOpcodes[op].String()
	}
	return "?"
}

// accepts checks the node's opcode (and flags) against op.
func (op BinaryOp) accepts(n ir.Node) bool {
	switch op {
	case BinAny:
		return n.Opcode().IsBinary()
	case BinOrDisjoint:
		return n.Opcode() == ir.OpOr && n.HasFlag(ir.FlagDisjoint)
	}
	return int(op) < len(binaryOpcodes) && n.Opcode() == binaryOpcodes[op]
}

// Binary matches a two-operand instruction. With Commutative set the
// operands may also match in swapped order.
type Binary struct {
	Op          BinaryOp
	LHS, RHS    Matcher
	Commutative bool
}

// IntCompare matches an icmp with the given predicate.
type IntCompare struct {
	Pred        ir.IntPredicate
	LHS, RHS    Matcher
	Commutative bool
}

// FloatCompare matches an fcmp with the given predicate.
type FloatCompare struct {
	Pred        ir.FloatPredicate
	LHS, RHS    Matcher
	Commutative bool
}

// CastKind selects the conversion a Cast matcher accepts.
type CastKind uint8

const (
	CastAny CastKind = iota // any conversion opcode
	CastTrunc
	CastFPToUI
	CastFPToSI
	CastFPTrunc
	CastIntToPtr
	CastPtrToInt
	CastExt // zext, sext or fpext
	CastFPExt
	CastZExt
	CastSExt
	CastBitCast
	CastAddrSpaceCast
)

var castOpcodes = [...]ir.Opcode{
	CastTrunc:         ir.OpTrunc,
	CastFPToUI:        ir.OpFPToUI,
	CastFPToSI:        ir.OpFPToSI,
	CastFPTrunc:       ir.OpFPTrunc,
	CastIntToPtr:      ir.OpIntToPtr,
	CastPtrToInt:      ir.OpPtrToInt,
	CastFPExt:         ir.OpFPExt,
	CastZExt:          ir.OpZExt,
	CastSExt:          ir.OpSExt,
	CastBitCast:       ir.OpBitCast,
	CastAddrSpaceCast: ir.OpAddrSpaceCast,
}

func (k CastKind) String() string {
	switch k {
	case CastAny:
		return "cast"
	case CastExt:
		return "ext"
	}
	if int(k) < len(castOpcodes) {
		return castOpcodes[k].String()
	}
	return "?"
}

func (k CastKind) accepts(op ir.Opcode) bool {
	switch k {
	case CastAny:
		return op.IsCast()
	case CastExt:
		return op == ir.OpZExt || op == ir.OpSExt || op == ir.OpFPExt
	}
	return int(k) < len(castOpcodes) && castOpcodes[k] != ir.OpNone && op == castOpcodes[k]
}

// Cast matches a conversion whose source operand matches Inner.
type Cast struct {
	Kind  CastKind
	Inner Matcher
}

// Call matches a call instruction. A non-empty Name also requires the
// callee's symbol name to equal it.
type Call struct{ Name string }

// Intrinsic matches a call to a recognised intrinsic, optionally by exact
// callee name.
type Intrinsic struct{ Name string }

// Invoke, LandingPad and Resume match their opcode.
type Invoke struct{}
type LandingPad struct{}
type Resume struct{}

// Throw and Rethrow match calls or invokes of the C++ runtime's throw and
// rethrow entry points.
type Throw struct{}
type Rethrow struct{}

const (
	throwSymbol   = "__cxa_throw"
	rethrowSymbol = "__cxa_rethrow"
)

// IntCondKind selects the test applied to an integer constant.
type IntCondKind uint8

const (
	CondSpecific IntCondKind = iota
	CondInRange
	CondPowerOfTwo
)

// IntCond constrains the value of an integer constant.
type IntCond struct {
	Kind       IntCondKind
	Value      int64
	Start, End int64
}

// holds applies the condition to a sign-extended value. The power-of-two
// and range tests keep their historical definitions: (v & (v-1)) != 0 and
// v >= Start || v <= End.
func (c *IntCond) holds(v int64) bool {
	switch c.Kind {
	case CondSpecific:
		return v == c.Value
	case CondPowerOfTwo:
		return v&(v-1) != 0
	case CondInRange:
		return v >= c.Start || v <= c.End
	}
	return false
}

// ConstInt matches an integer constant satisfying Cond (nil: any).
type ConstInt struct{ Cond *IntCond }

// ConstFloat, ConstNull, ConstPoison and ConstExpr match constants of the
// corresponding kind. ConstNumber matches integer or floating constants.
type ConstFloat struct{}
type ConstNull struct{}
type ConstPoison struct{}
type ConstNumber struct{}
type ConstExpr struct{}

// Return matches ret whose operand matches Inner. ret void presents a
// missing operand, which only Any accepts.
type Return struct{ Inner Matcher }

// Unreachable matches the unreachable terminator.
type Unreachable struct{}

// Label matches a basic block, by name when HasName is set.
type Label struct {
	Name    string
	HasName bool
}

// Argument matches a formal parameter. Name (when HasName) and Type (when
// non-nil) are checked independently.
type Argument struct {
	Name    string
	HasName bool
	Type    TypeMatcher
}

// ExtractValue matches extractvalue whose aggregate matches Inner. A
// non-nil Indices requires the literal index path to equal it exactly.
type ExtractValue struct {
	Inner   Matcher
	Indices []int64
}

// GetElementPtr matches the getelementptr opcode.
type GetElementPtr struct{}

// OperandBundle matches an instruction carrying a bundle tagged Tag.
type OperandBundle struct{ Tag string }

// OperandCount matches nodes with exactly N operands.
type OperandCount struct{ N int }

// InstType matches the node's own type.
type InstType struct{ Type TypeMatcher }

// DebugLine and DebugColumn compare the attached source location.
type DebugLine struct{ Line uint32 }
type DebugColumn struct{ Column uint32 }

// Usage matches when Inner matches and the node has exactly Count uses.
// Only instructions, arguments, blocks, functions and globals keep
// use-lists. Constants are not uniqued, so a literal always has zero uses.
type Usage struct {
	Inner Matcher
	Count int
}

// Not negates Inner.
type Not struct{ Inner Matcher }

// And, Or and Xor combine two matchers.
type And struct{ LHS, RHS Matcher }
type Or struct{ LHS, RHS Matcher }
type Xor struct{ LHS, RHS Matcher }

// OneOf matches when more than one of Matchers matches.
type OneOf struct{ Matchers []Matcher }

// AllOf matches when every one of Matchers matches (vacuously true).
type AllOf struct{ Matchers []Matcher }

// NoneOf matches when none of Matchers matches (vacuously true).
type NoneOf struct{ Matchers []Matcher }

func (*Any) matcherNode()           {}
func (*Binary) matcherNode()        {}
func (*IntCompare) matcherNode()    {}
func (*FloatCompare) matcherNode()  {}
func (*Cast) matcherNode()          {}
func (*Call) matcherNode()          {}
func (*Intrinsic) matcherNode()     {}
func (*Invoke) matcherNode()        {}
func (*LandingPad) matcherNode()    {}
func (*Resume) matcherNode()        {}
func (*Throw) matcherNode()         {}
func (*Rethrow) matcherNode()       {}
func (*ConstInt) matcherNode()      {}
func (*ConstFloat) matcherNode()    {}
func (*ConstNull) matcherNode()     {}
func (*ConstPoison) matcherNode()   {}
func (*ConstNumber) matcherNode()   {}
func (*ConstExpr) matcherNode()     {}
func (*Return) matcherNode()        {}
func (*Unreachable) matcherNode()   {}
func (*Label) matcherNode()         {}
func (*Argument) matcherNode()      {}
func (*ExtractValue) matcherNode()  {}
func (*GetElementPtr) matcherNode() {}
func (*OperandBundle) matcherNode() {}
func (*OperandCount) matcherNode()  {}
func (*InstType) matcherNode()      {}
func (*DebugLine) matcherNode()     {}
func (*DebugColumn) matcherNode()   {}
func (*Usage) matcherNode()         {}
func (*Not) matcherNode()           {}
func (*And) matcherNode()           {}
func (*Or) matcherNode()            {}
func (*Xor) matcherNode()           {}
func (*OneOf) matcherNode()         {}
func (*AllOf) matcherNode()         {}
func (*NoneOf) matcherNode()        {}
