package irtext

import (
	"strconv"

	"fortio.org/safecast"

	"github.com/roach88/llql/internal/ir"
)

var simpleTypes = map[string]func() *ir.Type{
	"void":      ir.VoidType,
	"half":      ir.HalfType,
	"bfloat":    ir.BFloatType,
	"float":     ir.FloatType,
	"double":    ir.DoubleType,
	"x86_fp80":  ir.X86FP80Type,
	"fp128":     ir.FP128Type,
	"ppc_fp128": ir.PPCFP128Type,
	"label":     ir.LabelType,
	"metadata":  ir.MetadataType,
	"token":     ir.TokenType,
}

// isTypeStart reports whether t can begin a type.
func (p *parser) isTypeStart(t token) bool {
	switch t.kind {
	case tokIdent:
		if _, ok := simpleTypes[t.text]; ok {
			return true
		}
		if t.text == "ptr" || t.text == "x86_amx" || t.text == "x86_mmx" || t.text == "target" {
			return true
		}
		_, ok := intWidth(t.text)
		return ok
	case tokLocal:
		return true
	case tokPunct:
		return t.text == "[" || t.text == "<" || t.text == "{"
	}
	return false
}

// intWidth parses the width of an "iN" type name.
func intWidth(s string) (uint32, bool) {
	if len(s) < 2 || s[0] != 'i' {
		return 0, false
	}
	n, err := strconv.ParseUint(s[1:], 10, 32)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint32(n), true
}

// parseType reads one type. It never returns nil; on error it records a
// diagnostic and returns void.
func (p *parser) parseType() *ir.Type {
	t := p.parseBaseType()
	for {
		switch {
		case p.cur().isPunct("*"):
			// Legacy typed pointer.
			p.pos++
			t = ir.PointerType(0)
		case p.cur().isIdent("addrspace") && p.peek(1).isPunct("("):
			p.pos++
			as := p.parseParenUint32()
			p.matchPunct("*")
			t = ir.PointerType(as)
		case p.cur().isPunct("("):
			t = p.parseFunctionType(t)
		default:
			return t
		}
	}
}

func (p *parser) parseBaseType() *ir.Type {
	t := p.cur()
	switch t.kind {
	case tokIdent:
		p.pos++
		if ctor, ok := simpleTypes[t.text]; ok {
			return ctor()
		}
		if w, ok := intWidth(t.text); ok {
			return ir.IntType(w)
		}
		switch t.text {
		case "ptr":
			if p.cur().isIdent("addrspace") {
				p.pos++
				return ir.PointerType(p.parseParenUint32())
			}
			return ir.PointerType(0)
		case "x86_amx", "x86_mmx":
			return ir.StructType(t.text, false)
		case "target":
			// target("name", params...)
			p.skipBalanced()
			return ir.StructType("target", false)
		}
	case tokLocal:
		p.pos++
		return p.namedType(t.text)
	case tokPunct:
		switch t.text {
		case "[":
			p.pos++
			n := p.parseLength()
			p.expectX()
			elem := p.parseType()
			p.expectPunct("]")
			return ir.ArrayType(elem, n)
		case "<":
			p.pos++
			if p.cur().isPunct("{") {
				fields := p.parseStructBody()
				p.expectPunct(">")
				return ir.StructType("", true, fields...)
			}
			scalable := p.matchIdent("vscale")
			if scalable {
				p.expectX()
			}
			n := p.parseLength()
			p.expectX()
			elem := p.parseType()
			p.expectPunct(">")
			return ir.VectorType(elem, n, scalable)
		case "{":
			fields := p.parseStructBody()
			return ir.StructType("", false, fields...)
		}
	}
	p.errorf(t, "expected type, found %s", t)
	return ir.VoidType()
}

func (p *parser) expectX() {
	if !p.matchIdent("x") {
		p.errorf(p.cur(), "expected 'x', found %s", p.cur())
	}
}

func (p *parser) parseLength() uint64 {
	t := p.cur()
	if t.kind != tokInt {
		p.errorf(t, "expected element count, found %s", t)
		return 0
	}
	p.pos++
	n, err := strconv.ParseUint(t.text, 10, 64)
	if err != nil {
		p.errorf(t, "invalid element count %s", t.text)
	}
	return n
}

// parseStructBody reads "{ T, T, ... }".
func (p *parser) parseStructBody() []*ir.Type {
	if !p.expectPunct("{") {
		return nil
	}
	var fields []*ir.Type
	for !p.cur().isPunct("}") && p.cur().kind != tokEOF && !p.lineFailed {
		fields = append(fields, p.parseType())
		if !p.matchPunct(",") {
			break
		}
	}
	p.expectPunct("}")
	return fields
}

func (p *parser) parseFunctionType(ret *ir.Type) *ir.Type {
	p.pos++ // (
	var params []*ir.Type
	variadic := false
	for !p.cur().isPunct(")") && p.cur().kind != tokEOF && !p.lineFailed {
		if p.cur().kind == tokEllipsis {
			p.pos++
			variadic = true
		} else {
			params = append(params, p.parseType())
			p.skipParamAttributes()
		}
		if !p.matchPunct(",") {
			break
		}
	}
	p.expectPunct(")")
	return ir.FunctionType(ret, variadic, params...)
}

// skipAttributes skips linkage, visibility, calling convention and return
// attributes in front of a type.
func (p *parser) skipAttributes() {
	for {
		t := p.cur()
		switch {
		case t.kind == tokIdent && !p.isTypeStart(t):
			p.pos++
			p.skipAttributeArgument(t)
		case t.kind == tokAttrGroup, t.kind == tokString:
			p.pos++
		default:
			return
		}
	}
}

// skipParamAttributes skips attributes between a parameter type and its
// value or name.
func (p *parser) skipParamAttributes() {
	for {
		t := p.cur()
		if t.kind != tokIdent || isValueKeyword(t.text) {
			return
		}
		p.pos++
		p.skipAttributeArgument(t)
	}
}

// skipAttributeArgument consumes the argument of attributes written as
// align 8, cc 10, dereferenceable(16) or byval(%T).
func (p *parser) skipAttributeArgument(attr token) {
	switch {
	case p.cur().isPunct("("):
		p.skipBalanced()
	case (attr.text == "align" || attr.text == "cc" || attr.text == "alignstack") && p.cur().kind == tokInt:
		p.pos++
	}
}

// isValueKeyword reports whether an identifier starts a constant value.
func isValueKeyword(s string) bool {
	switch s {
	case "true", "false", "null", "poison", "undef", "zeroinitializer", "none",
		"asm", "blockaddress", "dso_local_equivalent", "no_cfi", "splat":
		return true
	}
	_, isOp := ir.LookupOpcode(s)
	return isOp
}

// aggregateIndex returns the member type reached by an extractvalue path.
func aggregateIndex(t *ir.Type, indices []int64) *ir.Type {
	for _, idx := range indices {
		switch t.Kind() {
		case ir.StructTypeKind:
			fields := t.Fields()
			i, err := safecast.Conv[int](idx)
			if err != nil || i < 0 || i >= len(fields) {
				return ir.VoidType()
			}
			t = fields[i]
		case ir.ArrayTypeKind, ir.VectorTypeKind:
			t = t.Elem()
		default:
			return ir.VoidType()
		}
	}
	return t
}
