package irtext

import (
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/roach88/llql/internal/ir"
)

// isValueStart reports whether t can begin an operand value.
func isValueStart(t token) bool {
	switch t.kind {
	case tokLocal, tokGlobal, tokInt, tokFloat, tokCString, tokMeta:
		return true
	case tokIdent:
		return isValueKeyword(t.text)
	case tokPunct:
		return t.text == "{" || t.text == "[" || t.text == "<" || t.text == "!"
	}
	return false
}

// parseTypedValue reads "T v".
func (p *parser) parseTypedValue() operand {
	typ := p.parseType()
	p.skipParamAttributes()
	return p.parseValue(typ)
}

// parseValue reads a value of the given type.
func (p *parser) parseValue(typ *ir.Type) operand {
	start := p.pos
	t := p.cur()
	switch t.kind {
	case tokLocal, tokGlobal:
		p.pos++
		ref := t
		return operand{ref: &ref, typ: typ}
	case tokInt:
		p.pos++
		return operand{val: p.intConstant(typ, t), typ: typ}
	case tokFloat:
		p.pos++
		return operand{val: floatConstant(typ, t), typ: typ}
	case tokCString:
		p.pos++
		return operand{val: ir.NewConstAggregate(typ, p.textFrom(start)), typ: typ}
	case tokMeta:
		p.pos++
		if p.cur().isPunct("(") {
			p.skipBalanced()
		}
		return operand{val: ir.NewMetadataValue(p.textFrom(start)), typ: typ}
	case tokPunct:
		switch t.text {
		case "{", "[":
			p.skipBalanced()
			return operand{val: ir.NewConstAggregate(typ, p.textFrom(start)), typ: typ}
		case "<":
			p.skipAngled()
			return operand{val: ir.NewConstAggregate(typ, p.textFrom(start)), typ: typ}
		case "!":
			p.pos++
			p.skipBalanced()
			return operand{val: ir.NewMetadataValue(p.textFrom(start)), typ: typ}
		}
	case tokIdent:
		return operand{val: p.keywordConstant(typ), typ: typ}
	}
	p.errorf(t, "expected value, found %s", t)
	return operand{val: ir.NewUndef(typ), typ: typ}
}

func (p *parser) keywordConstant(typ *ir.Type) *ir.Value {
	start := p.pos
	t := p.consume()
	switch t.text {
	case "true":
		return ir.NewConstInt(typ, 1, "true")
	case "false":
		return ir.NewConstInt(typ, 0, "false")
	case "null":
		return ir.NewConstNull(typ)
	case "poison":
		return ir.NewPoison(typ)
	case "undef":
		return ir.NewUndef(typ)
	case "zeroinitializer":
		return ir.NewConstAggregate(typ, "zeroinitializer")
	case "none":
		return ir.NewOther(typ, "none")
	case "asm":
		// asm [sideeffect] [alignstack] [inteldialect] [unwind] "code", "constraints"
		for p.cur().kind == tokIdent {
			p.pos++
		}
		if p.cur().kind == tokString {
			p.pos++
		}
		if p.cur().isPunct(",") && p.peek(1).kind == tokString {
			p.pos += 2
		}
		return ir.NewOther(typ, p.textFrom(start))
	case "splat":
		p.skipBalanced()
		return ir.NewConstAggregate(typ, p.textFrom(start))
	}
	if op, ok := ir.LookupOpcode(t.text); ok {
		// Constant expression: op [flags] (operands)
		for p.cur().kind == tokIdent {
			p.pos++
		}
		p.skipBalanced()
		return ir.NewConstExpr(typ, op, p.textFrom(start))
	}
	// blockaddress(...), dso_local_equivalent @f, no_cfi @f
	if p.cur().isPunct("(") {
		p.skipBalanced()
	} else if p.cur().kind == tokGlobal {
		p.pos++
	}
	return ir.NewOther(typ, p.textFrom(start))
}

// skipAngled consumes "<...>" vector constants and "<{...}>" packed
// structs, which the lexer does not track as brackets.
func (p *parser) skipAngled() {
	depth := 0
	for p.cur().kind != tokEOF {
		t := p.consume()
		switch {
		case t.isPunct("<"):
			depth++
		case t.isPunct(">"):
			depth--
			if depth == 0 {
				return
			}
		case t.isPunct("("), t.isPunct("["), t.isPunct("{"):
			p.pos--
			p.skipBalanced()
		}
	}
}

func (p *parser) intConstant(typ *ir.Type, t token) *ir.Value {
	if typ.IsFloat() {
		f, _ := strconv.ParseFloat(t.text, 64)
		return ir.NewConstFloat(typ, f, t.text)
	}
	n, ok := new(big.Int).SetString(t.text, 10)
	if !ok {
		p.errorf(t, "invalid integer %s", t.text)
		return ir.NewUndef(typ)
	}
	w := typ.IntWidth()
	if w == 0 || w > 64 {
		if n.IsInt64() {
			return ir.NewConstInt(typ, n.Int64(), t.text)
		}
		return ir.NewWideConstInt(typ, t.text)
	}
	// Reduce to the low 64 bits; NewConstInt narrows to the type width.
	mask := new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 64), big.NewInt(1))
	low := new(big.Int).And(n, mask).Uint64()
	return ir.NewConstInt(typ, int64(low), t.text)
}

func floatConstant(typ *ir.Type, t token) *ir.Value {
	text := t.text
	if strings.HasPrefix(text, "0x") {
		digits := text[2:]
		if len(digits) > 0 && strings.ContainsRune("KLMHR", rune(digits[0])) {
			// x86_fp80, fp128, ppc_fp128, half and bfloat bit patterns are
			// kept textually only.
			return ir.NewConstFloat(typ, decodeNarrowHex(digits), text)
		}
		bits, err := strconv.ParseUint(digits, 16, 64)
		if err != nil {
			return ir.NewConstFloat(typ, 0, text)
		}
		return ir.NewConstFloat(typ, math.Float64frombits(bits), text)
	}
	f, _ := strconv.ParseFloat(text, 64)
	return ir.NewConstFloat(typ, f, text)
}

// decodeNarrowHex decodes 0xH (half) constants; other prefixed forms
// decode to 0.
func decodeNarrowHex(digits string) float64 {
	if digits[0] != 'H' {
		return 0
	}
	bits, err := strconv.ParseUint(digits[1:], 16, 16)
	if err != nil {
		return 0
	}
	sign := 1.0
	if bits&0x8000 != 0 {
		sign = -1
	}
	exp := int((bits >> 10) & 0x1f)
	frac := float64(bits & 0x3ff)
	switch exp {
	case 0:
		return sign * math.Ldexp(frac, -24)
	case 0x1f:
		if frac == 0 {
			return math.Inf(int(sign))
		}
		return math.NaN()
	}
	return sign * math.Ldexp(1+frac/1024, exp-15)
}
