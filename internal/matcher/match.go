package matcher

import (
	"slices"

	"github.com/roach88/llql/internal/ir"
)

// Match reports whether n satisfies m. It never panics on malformed input:
// a nil matcher matches nothing, and a nil node matches only Any and the
// combinators that reduce to it.
func Match(m Matcher, n ir.Node) bool {
	if m == nil {
		return false
	}

	// Variants whose answer does not depend on n being present.
	switch mt := m.(type) {
	case *Any:
		return true
	case *Not:
		return !Match(mt.Inner, n)
	case *And:
		return Match(mt.LHS, n) && Match(mt.RHS, n)
	case *Or:
		return Match(mt.LHS, n) || Match(mt.RHS, n)
	case *Xor:
		return Match(mt.LHS, n) != Match(mt.RHS, n)
	case *OneOf:
		count := 0
		for _, sub := range mt.Matchers {
			if Match(sub, n) {
				count++
			}
		}
		return count > 1
	case *AllOf:
		for _, sub := range mt.Matchers {
			if !Match(sub, n) {
				return false
			}
		}
		return true
	case *NoneOf:
		for _, sub := range mt.Matchers {
			if Match(sub, n) {
				return false
			}
		}
		return true
	}

	if isNil(n) {
		return false
	}

	switch mt := m.(type) {
	case *Binary:
		if !mt.Op.accepts(n) {
			return false
		}
		return matchOperands(mt.LHS, mt.RHS, mt.Commutative, n)

	case *IntCompare:
		if n.Opcode() != ir.OpICmp || n.IntPredicate() != mt.Pred {
			return false
		}
		return matchOperands(mt.LHS, mt.RHS, mt.Commutative, n)

	case *FloatCompare:
		if n.Opcode() != ir.OpFCmp || n.FloatPredicate() != mt.Pred {
			return false
		}
		return matchOperands(mt.LHS, mt.RHS, mt.Commutative, n)

	case *Cast:
		if !mt.Kind.accepts(n.Opcode()) {
			return false
		}
		return Match(orAny(mt.Inner), n.Operand(0))

	case *Call:
		if n.Opcode() != ir.OpCall {
			return false
		}
		return mt.Name == "" || calleeName(n) == mt.Name

	case *Intrinsic:
		if n.Opcode() != ir.OpCall {
			return false
		}
		callee := n.Callee()
		if isNil(callee) || callee.IntrinsicID() == 0 {
			return false
		}
		return mt.Name == "" || callee.Name() == mt.Name

	case *Invoke:
		return n.Opcode() == ir.OpInvoke
	case *LandingPad:
		return n.Opcode() == ir.OpLandingPad
	case *Resume:
		return n.Opcode() == ir.OpResume
	case *Throw:
		return callsSymbol(n, throwSymbol)
	case *Rethrow:
		return callsSymbol(n, rethrowSymbol)

	case *ConstInt:
		if n.Kind() != ir.KindConstantInt {
			return false
		}
		if mt.Cond == nil {
			return true
		}
		v, ok := n.SExtValue()
		return ok && mt.Cond.holds(v)
	case *ConstFloat:
		return n.Kind() == ir.KindConstantFP
	case *ConstNull:
		return n.Kind() == ir.KindConstantNull
	case *ConstPoison:
		return n.Kind() == ir.KindPoison
	case *ConstNumber:
		return n.Kind() == ir.KindConstantInt || n.Kind() == ir.KindConstantFP
	case *ConstExpr:
		return n.Kind() == ir.KindConstantExpr

	case *Return:
		if n.Opcode() != ir.OpRet {
			return false
		}
		return Match(orAny(mt.Inner), n.Operand(0))
	case *Unreachable:
		return n.Opcode() == ir.OpUnreachable

	case *Label:
		if n.Kind() != ir.KindBasicBlock {
			return false
		}
		return !mt.HasName || n.Name() == mt.Name
	case *Argument:
		if n.Kind() != ir.KindArgument {
			return false
		}
		if mt.HasName && n.Name() != mt.Name {
			return false
		}
		return mt.Type == nil || MatchType(mt.Type, n.Type())

	case *ExtractValue:
		if n.Opcode() != ir.OpExtractValue {
			return false
		}
		if !Match(orAny(mt.Inner), n.Operand(0)) {
			return false
		}
		return mt.Indices == nil || slices.Equal(n.Indices(), mt.Indices)

	case *GetElementPtr:
		return n.Opcode() == ir.OpGetElementPtr
	case *OperandBundle:
		for i := 0; i < n.NumOperandBundles(); i++ {
			if n.OperandBundleTag(i) == mt.Tag {
				return true
			}
		}
		return false
	case *OperandCount:
		return n.NumOperands() == mt.N
	case *InstType:
		return MatchType(mt.Type, n.Type())
	case *DebugLine:
		return n.DebugLine() == mt.Line
	case *DebugColumn:
		return n.DebugColumn() == mt.Column

	case *Usage:
		if !Match(mt.Inner, n) {
			return false
		}
		count := 0
		for u := n.FirstUse(); u != nil; u = u.Next() {
			count++
		}
		return count == mt.Count
	}
	return false
}

// matchOperands applies the operand half of every binary family: in order,
// then swapped when commutative.
func matchOperands(lhs, rhs Matcher, commutative bool, n ir.Node) bool {
	lhs, rhs = orAny(lhs), orAny(rhs)
	a, b := n.Operand(0), n.Operand(1)
	if Match(lhs, a) && Match(rhs, b) {
		return true
	}
	return commutative && Match(lhs, b) && Match(rhs, a)
}

func calleeName(n ir.Node) string {
	callee := n.Callee()
	if isNil(callee) {
		return ""
	}
	return callee.Name()
}

func callsSymbol(n ir.Node, symbol string) bool {
	op := n.Opcode()
	if op != ir.OpCall && op != ir.OpInvoke {
		return false
	}
	return calleeName(n) == symbol
}

// isNil catches both an untyped nil and a typed nil *ir.Value stored in
// the interface.
func isNil(n ir.Node) bool {
	if n == nil {
		return true
	}
	v, ok := n.(*ir.Value)
	return ok && v == nil
}
