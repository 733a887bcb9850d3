package matcher

import "github.com/roach88/llql/internal/ir"

// Shared instances of the parameterless matchers. Trees are immutable, so
// every constructor below can hand out the same pointer.
var (
	anyMatcher    = &Any{}
	invokeM       = &Invoke{}
	landingPadM   = &LandingPad{}
	resumeM       = &Resume{}
	throwM        = &Throw{}
	rethrowM      = &Rethrow{}
	constFloatM   = &ConstFloat{}
	constNullM    = &ConstNull{}
	constPoisonM  = &ConstPoison{}
	constNumberM  = &ConstNumber{}
	constExprM    = &ConstExpr{}
	unreachableM  = &Unreachable{}
	gepM          = &GetElementPtr{}
	anyConstIntM  = &ConstInt{}
	anyCallM      = &Call{}
	anyIntrinsicM = &Intrinsic{}
	anyLabelM     = &Label{}
)

func orAny(m Matcher) Matcher {
	if m == nil {
		return anyMatcher
	}
	return m
}

func NewAny() Matcher { return anyMatcher }

// NewBinary matches op with operands in the given order. Nil sub-matchers
// default to Any.
func NewBinary(op BinaryOp, lhs, rhs Matcher) Matcher {
	return &Binary{Op: op, LHS: orAny(lhs), RHS: orAny(rhs)}
}

// NewCommutativeBinary is NewBinary that also accepts swapped operands.
func NewCommutativeBinary(op BinaryOp, lhs, rhs Matcher) Matcher {
	return &Binary{Op: op, LHS: orAny(lhs), RHS: orAny(rhs), Commutative: true}
}

func NewAdd(lhs, rhs Matcher) Matcher             { return NewBinary(BinAdd, lhs, rhs) }
func NewCommutativeAdd(lhs, rhs Matcher) Matcher  { return NewCommutativeBinary(BinAdd, lhs, rhs) }
func NewSub(lhs, rhs Matcher) Matcher             { return NewBinary(BinSub, lhs, rhs) }
func NewCommutativeSub(lhs, rhs Matcher) Matcher  { return NewCommutativeBinary(BinSub, lhs, rhs) }
func NewMul(lhs, rhs Matcher) Matcher             { return NewBinary(BinMul, lhs, rhs) }
func NewCommutativeMul(lhs, rhs Matcher) Matcher  { return NewCommutativeBinary(BinMul, lhs, rhs) }
func NewSDiv(lhs, rhs Matcher) Matcher            { return NewBinary(BinSDiv, lhs, rhs) }
func NewCommutativeSDiv(lhs, rhs Matcher) Matcher { return NewCommutativeBinary(BinSDiv, lhs, rhs) }
func NewSRem(lhs, rhs Matcher) Matcher            { return NewBinary(BinSRem, lhs, rhs) }
func NewCommutativeSRem(lhs, rhs Matcher) Matcher { return NewCommutativeBinary(BinSRem, lhs, rhs) }
func NewFAdd(lhs, rhs Matcher) Matcher            { return NewBinary(BinFAdd, lhs, rhs) }
func NewCommutativeFAdd(lhs, rhs Matcher) Matcher { return NewCommutativeBinary(BinFAdd, lhs, rhs) }
func NewFSub(lhs, rhs Matcher) Matcher            { return NewBinary(BinFSub, lhs, rhs) }
func NewCommutativeFSub(lhs, rhs Matcher) Matcher { return NewCommutativeBinary(BinFSub, lhs, rhs) }
func NewFMul(lhs, rhs Matcher) Matcher            { return NewBinary(BinFMul, lhs, rhs) }
func NewCommutativeFMul(lhs, rhs Matcher) Matcher { return NewCommutativeBinary(BinFMul, lhs, rhs) }
func NewFDiv(lhs, rhs Matcher) Matcher            { return NewBinary(BinFDiv, lhs, rhs) }
func NewCommutativeFDiv(lhs, rhs Matcher) Matcher { return NewCommutativeBinary(BinFDiv, lhs, rhs) }
func NewFRem(lhs, rhs Matcher) Matcher            { return NewBinary(BinFRem, lhs, rhs) }
func NewCommutativeFRem(lhs, rhs Matcher) Matcher { return NewCommutativeBinary(BinFRem, lhs, rhs) }

func NewAnd(lhs, rhs Matcher) Matcher            { return NewBinary(BinAnd, lhs, rhs) }
func NewCommutativeAnd(lhs, rhs Matcher) Matcher { return NewCommutativeBinary(BinAnd, lhs, rhs) }
func NewOr(lhs, rhs Matcher) Matcher             { return NewBinary(BinOr, lhs, rhs) }
func NewCommutativeOr(lhs, rhs Matcher) Matcher  { return NewCommutativeBinary(BinOr, lhs, rhs) }
func NewOrDisjoint(lhs, rhs Matcher) Matcher     { return NewBinary(BinOrDisjoint, lhs, rhs) }
func NewCommutativeOrDisjoint(lhs, rhs Matcher) Matcher {
	return NewCommutativeBinary(BinOrDisjoint, lhs, rhs)
}
func NewXor(lhs, rhs Matcher) Matcher            { return NewBinary(BinXor, lhs, rhs) }
func NewCommutativeXor(lhs, rhs Matcher) Matcher { return NewCommutativeBinary(BinXor, lhs, rhs) }

func NewShl(lhs, rhs Matcher) Matcher             { return NewBinary(BinShl, lhs, rhs) }
func NewCommutativeShl(lhs, rhs Matcher) Matcher  { return NewCommutativeBinary(BinShl, lhs, rhs) }
func NewLShr(lhs, rhs Matcher) Matcher            { return NewBinary(BinLShr, lhs, rhs) }
func NewCommutativeLShr(lhs, rhs Matcher) Matcher { return NewCommutativeBinary(BinLShr, lhs, rhs) }
func NewAShr(lhs, rhs Matcher) Matcher            { return NewBinary(BinAShr, lhs, rhs) }
func NewCommutativeAShr(lhs, rhs Matcher) Matcher { return NewCommutativeBinary(BinAShr, lhs, rhs) }

// NewIntCompare matches icmp with predicate pred.
func NewIntCompare(pred ir.IntPredicate, lhs, rhs Matcher) Matcher {
	return &IntCompare{Pred: pred, LHS: orAny(lhs), RHS: orAny(rhs)}
}

func NewCommutativeIntCompare(pred ir.IntPredicate, lhs, rhs Matcher) Matcher {
	return &IntCompare{Pred: pred, LHS: orAny(lhs), RHS: orAny(rhs), Commutative: true}
}

// NewFloatCompare matches fcmp with predicate pred.
func NewFloatCompare(pred ir.FloatPredicate, lhs, rhs Matcher) Matcher {
	return &FloatCompare{Pred: pred, LHS: orAny(lhs), RHS: orAny(rhs)}
}

func NewCommutativeFloatCompare(pred ir.FloatPredicate, lhs, rhs Matcher) Matcher {
	return &FloatCompare{Pred: pred, LHS: orAny(lhs), RHS: orAny(rhs), Commutative: true}
}

// NewCast matches a conversion of kind k whose source matches inner.
func NewCast(k CastKind, inner Matcher) Matcher {
	return &Cast{Kind: k, Inner: orAny(inner)}
}

// NewCall matches calls, to the named symbol when name is non-empty.
func NewCall(name string) Matcher {
	if name == "" {
		return anyCallM
	}
	return &Call{Name: name}
}

// NewIntrinsic matches calls to intrinsics, by exact name when non-empty.
func NewIntrinsic(name string) Matcher {
	if name == "" {
		return anyIntrinsicM
	}
	return &Intrinsic{Name: name}
}

func NewInvoke() Matcher     { return invokeM }
func NewLandingPad() Matcher { return landingPadM }
func NewResume() Matcher     { return resumeM }
func NewThrow() Matcher      { return throwM }
func NewRethrow() Matcher    { return rethrowM }

func NewConstInt() Matcher { return anyConstIntM }

func NewSpecificInt(v int64) Matcher {
	return &ConstInt{Cond: &IntCond{Kind: CondSpecific, Value: v}}
}

func NewZero() Matcher { return NewSpecificInt(0) }
func NewOne() Matcher  { return NewSpecificInt(1) }

func NewPowerOfTwo() Matcher {
	return &ConstInt{Cond: &IntCond{Kind: CondPowerOfTwo}}
}

func NewIntRange(start, end int64) Matcher {
	return &ConstInt{Cond: &IntCond{Kind: CondInRange, Start: start, End: end}}
}

func NewConstFloat() Matcher  { return constFloatM }
func NewConstNull() Matcher   { return constNullM }
func NewConstPoison() Matcher { return constPoisonM }
func NewConstNumber() Matcher { return constNumberM }
func NewConstExpr() Matcher   { return constExprM }

// NewReturn matches ret whose value matches inner (nil: Any).
func NewReturn(inner Matcher) Matcher { return &Return{Inner: orAny(inner)} }

func NewUnreachable() Matcher { return unreachableM }

// NewLabel matches basic blocks; name may be nil for any block.
func NewLabel(name *string) Matcher {
	if name == nil {
		return anyLabelM
	}
	return &Label{Name: *name, HasName: true}
}

// NewArgument matches function arguments. Either constraint may be nil.
func NewArgument(name *string, typ TypeMatcher) Matcher {
	m := &Argument{Type: typ}
	if name != nil {
		m.Name, m.HasName = *name, true
	}
	return m
}

// NewExtractValue matches extractvalue. A nil indices slice leaves the
// index path unconstrained; an empty non-nil slice requires an empty path.
func NewExtractValue(inner Matcher, indices []int64) Matcher {
	return &ExtractValue{Inner: orAny(inner), Indices: indices}
}

func NewGetElementPtr() Matcher              { return gepM }
func NewOperandBundle(tag string) Matcher    { return &OperandBundle{Tag: tag} }
func NewOperandCount(n int) Matcher          { return &OperandCount{N: n} }
func NewInstType(t TypeMatcher) Matcher      { return &InstType{Type: orAnyType(t)} }
func NewDebugLine(line uint32) Matcher       { return &DebugLine{Line: line} }
func NewDebugColumn(column uint32) Matcher   { return &DebugColumn{Column: column} }
func NewUsage(inner Matcher, n int) Matcher  { return &Usage{Inner: orAny(inner), Count: n} }
func NewUnused(inner Matcher) Matcher        { return NewUsage(inner, 0) }
func NewHasOneUse(inner Matcher) Matcher     { return NewUsage(inner, 1) }
func NewNot(inner Matcher) Matcher           { return &Not{Inner: inner} }
func NewAllOf(ms ...Matcher) Matcher         { return &AllOf{Matchers: ms} }
func NewOneOf(ms ...Matcher) Matcher         { return &OneOf{Matchers: ms} }
func NewNoneOf(ms ...Matcher) Matcher        { return &NoneOf{Matchers: ms} }
func NewCombineAnd(lhs, rhs Matcher) Matcher { return &And{LHS: lhs, RHS: rhs} }
func NewCombineOr(lhs, rhs Matcher) Matcher  { return &Or{LHS: lhs, RHS: rhs} }
func NewCombineXor(lhs, rhs Matcher) Matcher { return &Xor{LHS: lhs, RHS: rhs} }
