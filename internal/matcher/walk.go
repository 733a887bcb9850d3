package matcher

import (
	"fmt"
	"strings"
)

// Children returns the direct sub-matchers of m in evaluation order.
func Children(m Matcher) []Matcher {
	switch mt := m.(type) {
	case *Binary:
		return []Matcher{mt.LHS, mt.RHS}
	case *IntCompare:
		return []Matcher{mt.LHS, mt.RHS}
	case *FloatCompare:
		return []Matcher{mt.LHS, mt.RHS}
	case *Cast:
		return []Matcher{mt.Inner}
	case *Return:
		return []Matcher{mt.Inner}
	case *ExtractValue:
		return []Matcher{mt.Inner}
	case *Usage:
		return []Matcher{mt.Inner}
	case *Not:
		return []Matcher{mt.Inner}
	case *And:
		return []Matcher{mt.LHS, mt.RHS}
	case *Or:
		return []Matcher{mt.LHS, mt.RHS}
	case *Xor:
		return []Matcher{mt.LHS, mt.RHS}
	case *OneOf:
		return mt.Matchers
	case *AllOf:
		return mt.Matchers
	case *NoneOf:
		return mt.Matchers
	}
	return nil
}

// Walk visits m and its sub-matchers depth first. Returning false from fn
// skips the children of that node.
func Walk(m Matcher, fn func(Matcher) bool) {
	if m == nil || !fn(m) {
		return
	}
	for _, c := range Children(m) {
		Walk(c, fn)
	}
}

// Count returns the number of nodes in the tree.
func Count(m Matcher) int {
	n := 0
	Walk(m, func(Matcher) bool {
		n++
		return true
	})
	return n
}

// String renders m in builtin-call notation, e.g. "c_add(const_int, any)".
func String(m Matcher) string {
	var b strings.Builder
	writeMatcher(&b, m)
	return b.String()
}

// TypeString renders a type matcher in the same notation.
func TypeString(t TypeMatcher) string {
	var b strings.Builder
	writeType(&b, t)
	return b.String()
}

func writeMatcher(b *strings.Builder, m Matcher) {
	call := func(name string, args ...Matcher) {
		b.WriteString(name)
		b.WriteByte('(')
		for i, a := range args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeMatcher(b, a)
		}
		b.WriteByte(')')
	}
	prefix := func(commutative bool) string {
		if commutative {
			return "c_"
		}
		return ""
	}

	switch mt := m.(type) {
	case nil:
		b.WriteString("<nil>")
	case *Any:
		b.WriteString("any")
	case *Binary:
		call(prefix(mt.Commutative)+strings.ReplaceAll(mt.Op.String(), " ", "_"), mt.LHS, mt.RHS)
	case *IntCompare:
		call(prefix(mt.Commutative)+"icmp_"+mt.Pred.String(), mt.LHS, mt.RHS)
	case *FloatCompare:
		call(prefix(mt.Commutative)+"fcmp_"+mt.Pred.String(), mt.LHS, mt.RHS)
	case *Cast:
		call(mt.Kind.String(), mt.Inner)
	case *Call:
		fmt.Fprintf(b, "call(%q)", mt.Name)
	case *Intrinsic:
		fmt.Fprintf(b, "intrinsic(%q)", mt.Name)
	case *Invoke:
		b.WriteString("invoke")
	case *LandingPad:
		b.WriteString("landingpad")
	case *Resume:
		b.WriteString("resume")
	case *Throw:
		b.WriteString("throw")
	case *Rethrow:
		b.WriteString("rethrow")
	case *ConstInt:
		switch {
		case mt.Cond == nil:
			b.WriteString("const_int")
		case mt.Cond.Kind == CondSpecific:
			fmt.Fprintf(b, "specific_int(%d)", mt.Cond.Value)
		case mt.Cond.Kind == CondPowerOfTwo:
			b.WriteString("power2")
		case mt.Cond.Kind == CondInRange:
			fmt.Fprintf(b, "range_int(%d, %d)", mt.Cond.Start, mt.Cond.End)
		}
	case *ConstFloat:
		b.WriteString("const_fp")
	case *ConstNull:
		b.WriteString("const_null")
	case *ConstPoison:
		b.WriteString("poison")
	case *ConstNumber:
		b.WriteString("const_num")
	case *ConstExpr:
		b.WriteString("const_expr")
	case *Return:
		call("return", mt.Inner)
	case *Unreachable:
		b.WriteString("unreachable")
	case *Label:
		if mt.HasName {
			fmt.Fprintf(b, "label(%q)", mt.Name)
		} else {
			b.WriteString("label")
		}
	case *Argument:
		b.WriteString("argument(")
		if mt.HasName {
			fmt.Fprintf(b, "%q", mt.Name)
		} else {
			b.WriteString("_")
		}
		if mt.Type != nil {
			b.WriteString(", ")
			writeType(b, mt.Type)
		}
		b.WriteByte(')')
	case *ExtractValue:
		b.WriteString("extract_value(")
		writeMatcher(b, mt.Inner)
		if mt.Indices != nil {
			fmt.Fprintf(b, ", %v", mt.Indices)
		}
		b.WriteByte(')')
	case *GetElementPtr:
		b.WriteString("get_element_ptr")
	case *OperandBundle:
		fmt.Fprintf(b, "operand_bundle(%q)", mt.Tag)
	case *OperandCount:
		fmt.Fprintf(b, "operands_number(%d)", mt.N)
	case *InstType:
		b.WriteString("inst_type(")
		writeType(b, mt.Type)
		b.WriteByte(')')
	case *DebugLine:
		fmt.Fprintf(b, "dbg_line(%d)", mt.Line)
	case *DebugColumn:
		fmt.Fprintf(b, "dbg_column(%d)", mt.Column)
	case *Usage:
		b.WriteString("has_n_uses(")
		writeMatcher(b, mt.Inner)
		fmt.Fprintf(b, ", %d)", mt.Count)
	case *Not:
		call("not", mt.Inner)
	case *And:
		call("and", mt.LHS, mt.RHS)
	case *Or:
		call("or", mt.LHS, mt.RHS)
	case *Xor:
		call("xor", mt.LHS, mt.RHS)
	case *OneOf:
		call("oneof", mt.Matchers...)
	case *AllOf:
		call("allof", mt.Matchers...)
	case *NoneOf:
		call("noneof", mt.Matchers...)
	default:
		fmt.Fprintf(b, "<%T>", m)
	}
}

func writeType(b *strings.Builder, t TypeMatcher) {
	bin := func(name string, l, r TypeMatcher) {
		b.WriteString(name + "(")
		writeType(b, l)
		b.WriteString(", ")
		writeType(b, r)
		b.WriteByte(')')
	}
	switch tt := t.(type) {
	case nil:
		b.WriteString("<nil>")
	case *AnyType:
		b.WriteString("any_type")
	case *VoidType:
		b.WriteString("void")
	case *IntType:
		fmt.Fprintf(b, "int%d", tt.Width)
	case *FloatType:
		fmt.Fprintf(b, "f%d", tt.Width)
	case *HalfType:
		b.WriteString("half")
	case *PointerType:
		b.WriteString("ptr")
	case *ArrayType:
		b.WriteString("array(")
		writeType(b, tt.Elem)
		if tt.HasLen {
			fmt.Fprintf(b, ", %d", tt.Len)
		}
		b.WriteByte(')')
	case *VectorType:
		b.WriteString("vector(")
		writeType(b, tt.Elem)
		if tt.HasLen {
			fmt.Fprintf(b, ", %d", tt.Len)
		}
		b.WriteByte(')')
	case *ScalableVectorType:
		b.WriteString("scalable_vector")
	case *TypeNot:
		b.WriteString("not(")
		writeType(b, tt.Inner)
		b.WriteByte(')')
	case *TypeAnd:
		bin("and", tt.LHS, tt.RHS)
	case *TypeOr:
		bin("or", tt.LHS, tt.RHS)
	case *TypeXor:
		bin("xor", tt.LHS, tt.RHS)
	default:
		fmt.Fprintf(b, "<%T>", t)
	}
}
