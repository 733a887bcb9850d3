package irtext

import (
	"strconv"

	"github.com/roach88/llql/internal/ir"
)

// parseInstruction reads one instruction, including "%name =" and trailing
// metadata attachments. It returns nil after a syntax error.
func (p *parser) parseInstruction() *ir.Value {
	start := p.pos
	var nameTok *token
	if t := p.cur(); t.kind == tokLocal && p.peek(1).isPunct("=") {
		nameTok = &t
		p.pos += 2
	}
	var tail ir.Flag
	for p.cur().isIdent("tail") || p.cur().isIdent("musttail") || p.cur().isIdent("notail") {
		tail = ir.FlagTail
		p.pos++
	}
	opTok := p.cur()
	op, ok := ir.LookupOpcode(opTok.text)
	if opTok.kind != tokIdent || !ok {
		p.errorf(opTok, "expected instruction, found %s", opTok)
		return nil
	}
	p.pos++

	spec := ir.InstSpec{Opcode: op, Flags: tail}
	var ops []operand
	switch {
	case op.IsBinary():
		spec.Flags |= p.parseFlags()
		lhs := p.parseTypedValue()
		p.expectPunct(",")
		rhs := p.parseValue(lhs.typ)
		spec.Type = lhs.typ
		ops = []operand{lhs, rhs}
	case op.IsCast():
		spec.Flags |= p.parseFlags()
		v := p.parseTypedValue()
		if !p.matchIdent("to") {
			p.errorf(p.cur(), "expected 'to' in %s", op)
		}
		spec.Type = p.parseType()
		ops = []operand{v}
	default:
		ops = p.parseOperands(op, &spec)
	}
	if p.lineFailed {
		return nil
	}
	p.parseAttachments()
	if p.lineFailed {
		return nil
	}

	if nameTok != nil {
		spec.Name = localName(nameTok.text)
	}
	spec.Text = p.textFrom(start)
	inst := ir.NewInstruction(spec)
	p.bind(inst, ops)
	if nameTok != nil {
		p.defineLocal(*nameTok, inst)
	}
	if dbg, ok := p.pendingDbg(); ok {
		p.dbgRefs[inst] = dbg
	}
	return inst
}

// parseFlags consumes nuw/nsw/exact/disjoint/nneg and fast-math flags.
func (p *parser) parseFlags() ir.Flag {
	var flags ir.Flag
	for p.cur().kind == tokIdent {
		if f, ok := ir.LookupFlag(p.cur().text); ok {
			flags |= f
			p.pos++
			continue
		}
		if p.cur().isIdent("nneg") || p.cur().isIdent("samesign") {
			p.pos++
			continue
		}
		break
	}
	return flags
}

func (p *parser) parseOperands(op ir.Opcode, spec *ir.InstSpec) []operand {
	switch op {
	case ir.OpRet:
		spec.Type = ir.VoidType()
		if p.matchIdent("void") {
			return nil
		}
		return []operand{p.parseTypedValue()}

	case ir.OpUnreachable:
		return nil

	case ir.OpFNeg, ir.OpFreeze:
		spec.Flags = p.parseFlags()
		v := p.parseTypedValue()
		spec.Type = v.typ
		return []operand{v}

	case ir.OpICmp, ir.OpFCmp:
		spec.Flags = p.parseFlags()
		pred := p.consume()
		if op == ir.OpICmp {
			ip, ok := ir.LookupIntPredicate(pred.text)
			if !ok {
				p.errorf(pred, "unknown icmp predicate %s", pred)
			}
			spec.IntPred = ip
		} else {
			fp, ok := ir.LookupFloatPredicate(pred.text)
			if !ok {
				p.errorf(pred, "unknown fcmp predicate %s", pred)
			}
			spec.FloatPred = fp
		}
		lhs := p.parseTypedValue()
		p.expectPunct(",")
		rhs := p.parseValue(lhs.typ)
		spec.Type = compareResultType(lhs.typ)
		return []operand{lhs, rhs}

	case ir.OpSelect:
		p.parseFlags()
		c := p.parseTypedValue()
		p.expectPunct(",")
		a := p.parseTypedValue()
		p.expectPunct(",")
		b := p.parseTypedValue()
		spec.Type = a.typ
		return []operand{c, a, b}

	case ir.OpPHI:
		p.parseFlags()
		spec.Type = p.parseType()
		var ops []operand
		for p.matchPunct("[") {
			ops = append(ops, p.parseValue(spec.Type))
			p.expectPunct(",")
			p.parseValue(ir.LabelType())
			p.expectPunct("]")
			if !p.cur().isPunct(",") || !p.peek(1).isPunct("[") {
				break
			}
			p.pos++
		}
		return ops

	case ir.OpAlloca:
		p.matchIdent("inalloca")
		p.parseType()
		spec.Type = ir.PointerType(0)
		if p.cur().isPunct(",") && p.isTypeStart(p.peek(1)) {
			p.pos++
			return []operand{p.parseTypedValue()}
		}
		return nil

	case ir.OpLoad:
		p.matchIdent("atomic")
		p.matchIdent("volatile")
		spec.Type = p.parseType()
		p.expectPunct(",")
		return []operand{p.parseTypedValue()}

	case ir.OpStore:
		p.matchIdent("atomic")
		p.matchIdent("volatile")
		v := p.parseTypedValue()
		p.expectPunct(",")
		ptr := p.parseTypedValue()
		spec.Type = ir.VoidType()
		return []operand{v, ptr}

	case ir.OpGetElementPtr:
		for p.cur().kind == tokIdent && !p.isTypeStart(p.cur()) {
			if f, ok := ir.LookupFlag(p.cur().text); ok {
				spec.Flags |= f
			}
			p.pos++
			if p.cur().isPunct("(") {
				p.skipBalanced() // inrange(a, b)
			}
		}
		p.parseType()
		p.expectPunct(",")
		base := p.parseTypedValue()
		ops := []operand{base}
		for p.cur().isPunct(",") && (p.isTypeStart(p.peek(1)) || p.peek(1).isIdent("inrange")) {
			p.pos++
			p.matchIdent("inrange")
			ops = append(ops, p.parseTypedValue())
		}
		spec.Type = ir.PointerType(base.typ.AddrSpace())
		return ops

	case ir.OpExtractValue:
		agg := p.parseTypedValue()
		spec.Indices = p.parseIndexList()
		spec.Type = aggregateIndex(agg.typ, spec.Indices)
		return []operand{agg}

	case ir.OpInsertValue:
		agg := p.parseTypedValue()
		p.expectPunct(",")
		v := p.parseTypedValue()
		spec.Indices = p.parseIndexList()
		spec.Type = agg.typ
		return []operand{agg, v}

	case ir.OpExtractElement:
		v := p.parseTypedValue()
		p.expectPunct(",")
		idx := p.parseTypedValue()
		spec.Type = v.typ.Elem()
		return []operand{v, idx}

	case ir.OpInsertElement:
		v := p.parseTypedValue()
		p.expectPunct(",")
		e := p.parseTypedValue()
		p.expectPunct(",")
		idx := p.parseTypedValue()
		spec.Type = v.typ
		return []operand{v, e, idx}

	case ir.OpShuffleVector:
		a := p.parseTypedValue()
		p.expectPunct(",")
		b := p.parseTypedValue()
		p.expectPunct(",")
		mask := p.parseTypedValue()
		spec.Type = ir.VectorType(a.typ.Elem(), mask.typ.VectorLen(), a.typ.Kind() == ir.ScalableVectorTypeKind)
		return []operand{a, b, mask}

	case ir.OpCall, ir.OpInvoke, ir.OpCallBr:
		return p.parseCall(op, spec)

	case ir.OpLandingPad:
		spec.Type = p.parseType()
		return p.parseLandingPadClauses()

	case ir.OpResume:
		spec.Type = ir.VoidType()
		return []operand{p.parseTypedValue()}

	case ir.OpSwitch:
		spec.Type = ir.VoidType()
		cond := p.parseTypedValue()
		p.expectPunct(",")
		ops := []operand{cond, p.parseTypedValue()}
		if p.expectPunct("[") {
			for !p.cur().isPunct("]") && p.cur().kind != tokEOF && !p.lineFailed {
				ops = append(ops, p.parseTypedValue())
				p.expectPunct(",")
				ops = append(ops, p.parseTypedValue())
			}
			p.expectPunct("]")
		}
		return ops

	case ir.OpIndirectBr:
		spec.Type = ir.VoidType()
		ops := []operand{p.parseTypedValue()}
		p.expectPunct(",")
		if p.expectPunct("[") {
			for !p.cur().isPunct("]") && p.cur().kind != tokEOF && !p.lineFailed {
				ops = append(ops, p.parseTypedValue())
				p.matchPunct(",")
			}
			p.expectPunct("]")
		}
		return ops

	case ir.OpAtomicCmpXchg:
		p.matchIdent("weak")
		p.matchIdent("volatile")
		ptr := p.parseTypedValue()
		p.expectPunct(",")
		cmp := p.parseTypedValue()
		p.expectPunct(",")
		nv := p.parseTypedValue()
		spec.Type = ir.StructType("", false, cmp.typ, ir.IntType(1))
		return []operand{ptr, cmp, nv}

	case ir.OpAtomicRMW:
		p.matchIdent("volatile")
		p.pos++ // operation: xchg, add, ...
		ptr := p.parseTypedValue()
		p.expectPunct(",")
		v := p.parseTypedValue()
		spec.Type = v.typ
		return []operand{ptr, v}

	case ir.OpVAArg:
		v := p.parseTypedValue()
		p.expectPunct(",")
		spec.Type = p.parseType()
		return []operand{v}
	}

	// br, fence, catchpad, cleanuppad, catchswitch, catchret, cleanupret:
	// generic "T v, T v, ..." operand lists.
	return p.parseGenericOperands(spec)
}

func compareResultType(operand *ir.Type) *ir.Type {
	switch operand.Kind() {
	case ir.VectorTypeKind:
		return ir.VectorType(ir.IntType(1), operand.VectorLen(), false)
	case ir.ScalableVectorTypeKind:
		return ir.VectorType(ir.IntType(1), operand.VectorLen(), true)
	}
	return ir.IntType(1)
}

// parseIndexList reads ", 0, 1, ..." after an aggregate operand.
func (p *parser) parseIndexList() []int64 {
	var indices []int64
	for p.cur().isPunct(",") && p.peek(1).kind == tokInt {
		p.pos++
		t := p.consume()
		n, err := strconv.ParseInt(t.text, 10, 64)
		if err != nil {
			p.errorf(t, "invalid index %s", t.text)
			return indices
		}
		indices = append(indices, n)
	}
	if len(indices) == 0 {
		p.errorf(p.cur(), "expected index list")
	}
	return indices
}

func (p *parser) parseGenericOperands(spec *ir.InstSpec) []operand {
	var ops []operand
	spec.Type = ir.VoidType()
	for !p.atLineEnd() && !p.lineFailed {
		t := p.cur()
		switch {
		case t.isPunct(",") && p.peek(1).kind == tokMeta:
			return ops
		case p.isTypeStart(t):
			typ := p.parseType()
			if isValueStart(p.cur()) {
				ops = append(ops, p.parseValue(typ))
			}
		case t.kind == tokPunct && (t.text == "[" || t.text == "("):
			p.pos++
		default:
			p.pos++
		}
	}
	if spec.Opcode == ir.OpCatchPad || spec.Opcode == ir.OpCleanupPad || spec.Opcode == ir.OpCatchSwitch {
		spec.Type = ir.TokenType()
	}
	return ops
}

// parseCall reads call, invoke and callbr. Operand layout follows LLVM:
// arguments, bundle operands, (invoke destinations), callee last.
func (p *parser) parseCall(op ir.Opcode, spec *ir.InstSpec) []operand {
	spec.Flags |= p.parseFlags()
	p.skipAttributes()
	typ := p.parseType()
	ret := typ
	if typ.Kind() == ir.FunctionTypeKind {
		ret = typ.Elem()
	}
	spec.Type = ret
	callee := p.parseValue(ir.PointerType(0))

	var ops []operand
	if p.expectPunct("(") {
		for !p.cur().isPunct(")") && p.cur().kind != tokEOF && !p.lineFailed {
			ops = append(ops, p.parseArgument())
			if !p.matchPunct(",") {
				break
			}
		}
		p.expectPunct(")")
	}

	// Function attributes: #0, nounwind, memory(none), "key"="value".
	for !p.atLineEnd() && !p.cur().isPunct("[") && !p.cur().isPunct(",") && !p.cur().isIdent("to") {
		p.pos++
		if p.cur().isPunct("(") {
			p.skipBalanced()
		}
	}

	if p.cur().isPunct("[") {
		bundles, bundleOps := p.parseBundles()
		spec.Bundles = bundles
		ops = append(ops, bundleOps...)
	}

	if op == ir.OpInvoke {
		p.continueLine("to")
		if !p.matchIdent("to") {
			p.errorf(p.cur(), "expected 'to' in invoke")
			return nil
		}
		ops = append(ops, p.parseTypedValue())
		if !p.matchIdent("unwind") {
			p.errorf(p.cur(), "expected 'unwind' in invoke")
			return nil
		}
		ops = append(ops, p.parseTypedValue())
	}
	if op == ir.OpCallBr {
		// Indirect destinations are not modelled.
		for !p.atLineEnd() {
			p.pos++
		}
	}
	return append(ops, callee)
}

// parseArgument reads one call argument: "T attrs v" or "metadata ...".
func (p *parser) parseArgument() operand {
	start := p.pos
	typ := p.parseType()
	if typ.Kind() == ir.MetadataTypeKind {
		depth := 0
		for p.cur().kind != tokEOF {
			t := p.cur()
			if depth == 0 && (t.isPunct(",") || t.isPunct(")")) {
				break
			}
			switch {
			case t.isPunct("("), t.isPunct("{"), t.isPunct("["):
				depth++
			case t.isPunct(")"), t.isPunct("}"), t.isPunct("]"):
				depth--
			}
			p.pos++
		}
		return operand{val: ir.NewMetadataValue(p.textFrom(start)), typ: typ}
	}
	p.skipParamAttributes()
	return p.parseValue(typ)
}

// parseBundles reads [ "tag"(T v, ...), ... ].
func (p *parser) parseBundles() ([]ir.Bundle, []operand) {
	var bundles []ir.Bundle
	var ops []operand
	p.pos++ // [
	for !p.cur().isPunct("]") && p.cur().kind != tokEOF && !p.lineFailed {
		tag := p.cur()
		if tag.kind != tokString {
			p.errorf(tag, "expected operand bundle tag, found %s", tag)
			return nil, nil
		}
		p.pos++
		b := ir.Bundle{Tag: tag.text}
		if p.expectPunct("(") {
			for !p.cur().isPunct(")") && p.cur().kind != tokEOF && !p.lineFailed {
				ops = append(ops, p.parseTypedValue())
				b.Operands++
				if !p.matchPunct(",") {
					break
				}
			}
			p.expectPunct(")")
		}
		bundles = append(bundles, b)
		if !p.matchPunct(",") {
			break
		}
	}
	p.expectPunct("]")
	return bundles, ops
}

// parseLandingPadClauses reads cleanup/catch/filter clauses, which are
// usually written one per line.
func (p *parser) parseLandingPadClauses() []operand {
	var ops []operand
	for p.continueLine("cleanup", "catch", "filter") {
		if p.consume().text != "cleanup" {
			ops = append(ops, p.parseTypedValue())
		}
	}
	return ops
}

// continueLine skips line breaks when the next token is one of words, for
// instructions written across several lines.
func (p *parser) continueLine(words ...string) bool {
	i := p.pos
	for p.toks[i].kind == tokNewline {
		i++
	}
	for _, w := range words {
		if p.toks[i].isIdent(w) {
			p.pos = i
			return true
		}
	}
	return false
}

// parseAttachments consumes ", align 4", ", !dbg !12" and similar trailers,
// remembering the !dbg reference for pendingDbg.
func (p *parser) parseAttachments() {
	p.lastDbg = nil
	for !p.atLineEnd() {
		t := p.consume()
		if t.kind == tokMeta && t.text == "dbg" && p.cur().kind == tokMeta {
			ref := p.consume()
			p.lastDbg = &ref
		}
	}
}

func (p *parser) pendingDbg() (token, bool) {
	if p.lastDbg == nil {
		return token{}, false
	}
	return *p.lastDbg, true
}
