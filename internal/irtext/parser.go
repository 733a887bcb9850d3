package irtext

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/roach88/llql/internal/ir"
)

// maxErrors bounds how many syntax errors one file reports before the
// parser gives up.
const maxErrors = 10

// pendingRef is an operand slot whose symbol is resolved after the
// enclosing function (locals) or module (globals) has been read.
type pendingRef struct {
	inst  *ir.Value
	index int
	name  string
	tok   token
}

// operand is a parsed operand before symbol resolution.
type operand struct {
	val *ir.Value
	ref *token // tokLocal or tokGlobal awaiting resolution
	typ *ir.Type
}

type parser struct {
	file string
	src  []byte
	toks []token
	pos  int
	errs []error

	lineFailed bool

	mod      *ir.Module
	types    map[string]*ir.Type
	globals  map[string]*ir.Value
	locs     map[string]ir.Location
	dbgRefs  map[*ir.Value]token
	globRefs []pendingRef

	// per function
	locals    map[string]*ir.Value
	localRefs []pendingRef
	lastDbg   *token
}

// ParseFile reads and parses a textual IR file.
func ParseFile(path string) (*ir.Module, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bc":
		return nil, fmt.Errorf("%s: %w", path, ErrBitcode)
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read module: %w", err)
	}
	return Parse(path, src)
}

// Parse parses textual IR held in memory. name becomes the module name
// and the file reported in errors.
func Parse(name string, src []byte) (*ir.Module, error) {
	toks, err := lex(src)
	if err != nil {
		var se *SyntaxError
		if errors.As(err, &se) {
			se.File = name
		}
		return nil, err
	}
	p := &parser{
		file:    name,
		src:     src,
		toks:    toks,
		mod:     ir.NewModule(name),
		types:   make(map[string]*ir.Type),
		globals: make(map[string]*ir.Value),
		locs:    make(map[string]ir.Location),
		dbgRefs: make(map[*ir.Value]token),
	}
	p.parseModule()
	if len(p.errs) > 0 {
		return nil, errors.Join(p.errs...)
	}
	return p.mod, nil
}

// --- token cursor ---

func (p *parser) cur() token { return p.toks[p.pos] }

func (p *parser) peek(n int) token {
	if p.pos+n < len(p.toks) {
		return p.toks[p.pos+n]
	}
	return p.toks[len(p.toks)-1]
}

func (p *parser) consume() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) atLineEnd() bool {
	k := p.cur().kind
	return k == tokNewline || k == tokEOF
}

func (p *parser) matchPunct(s string) bool {
	if p.cur().isPunct(s) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) matchIdent(s string) bool {
	if p.cur().isIdent(s) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectPunct(s string) bool {
	if p.matchPunct(s) {
		return true
	}
	p.errorf(p.cur(), "expected %q, found %s", s, p.cur())
	return false
}

func (p *parser) errorf(at token, format string, args ...any) {
	if p.lineFailed || len(p.errs) >= maxErrors {
		return
	}
	p.lineFailed = true
	p.errs = append(p.errs, &SyntaxError{
		File:    p.file,
		Line:    at.line,
		Column:  at.col,
		Message: fmt.Sprintf(format, args...),
	})
}

// skipLine discards tokens up to and including the next newline.
func (p *parser) skipLine() {
	for !p.atLineEnd() {
		p.pos++
	}
	if p.cur().kind == tokNewline {
		p.pos++
	}
}

// skipBalanced consumes a parenthesised group starting at the current
// "(" token.
func (p *parser) skipBalanced() {
	if !p.cur().isPunct("(") && !p.cur().isPunct("[") && !p.cur().isPunct("{") {
		return
	}
	depth := 0
	for p.cur().kind != tokEOF {
		t := p.consume()
		switch {
		case t.isPunct("("), t.isPunct("["), t.isPunct("{"):
			depth++
		case t.isPunct(")"), t.isPunct("]"), t.isPunct("}"):
			depth--
			if depth == 0 {
				return
			}
		}
	}
}

// textFrom returns the source between token start (inclusive) and the
// last consumed token, with line breaks folded to single spaces.
func (p *parser) textFrom(start int) string {
	if p.pos == 0 || start >= p.pos {
		return ""
	}
	last := p.pos - 1
	for last > start && p.toks[last].kind == tokNewline {
		last--
	}
	raw := string(p.src[p.toks[start].start:p.toks[last].end])
	if !strings.Contains(raw, "\n") {
		return raw
	}
	lines := strings.Split(raw, "\n")
	for i := range lines {
		lines[i] = strings.TrimSpace(lines[i])
	}
	return strings.Join(lines, " ")
}

// --- module level ---

func (p *parser) parseModule() {
	for p.cur().kind != tokEOF && len(p.errs) < maxErrors {
		p.lineFailed = false
		t := p.cur()
		switch {
		case t.kind == tokNewline:
			p.pos++
		case t.isIdent("source_filename"):
			p.pos++
			if p.expectPunct("=") && p.cur().kind == tokString {
				p.mod.SourceFilename = p.consume().text
			}
			p.skipLine()
		case t.isIdent("define"), t.isIdent("declare"):
			p.parseFunction()
		case t.kind == tokLocal && p.peek(1).isPunct("=") && p.peek(2).isIdent("type"):
			p.parseTypeDef()
		case t.kind == tokGlobal && p.peek(1).isPunct("="):
			p.parseGlobal()
		case t.kind == tokMeta && p.peek(1).isPunct("="):
			p.parseMetadataDef()
		default:
			// target, attributes, comdat, module asm, uselistorder, ...
			p.skipLine()
		}
	}
	if len(p.errs) > 0 {
		return
	}
	p.resolveGlobals()
	p.resolveDebugLocs()
	p.mod.Link()
}

func (p *parser) parseTypeDef() {
	name := p.consume().text
	p.consume() // =
	p.consume() // type
	named := p.namedType(name)
	switch {
	case p.matchIdent("opaque"):
	case p.cur().isPunct("{"):
		body := p.parseStructBody()
		named.SetBody(false, body...)
	case p.cur().isPunct("<") && p.peek(1).isPunct("{"):
		p.pos++
		body := p.parseStructBody()
		p.expectPunct(">")
		named.SetBody(true, body...)
	default:
		// Alias of another type. Record the aliased type's fields so
		// aggregate indexing still works.
		t := p.parseType()
		named.SetBody(false, t.Fields()...)
	}
	p.skipLine()
}

// namedType returns the identified struct for name, creating a forward
// declaration on first reference.
func (p *parser) namedType(name string) *ir.Type {
	if t, ok := p.types[name]; ok {
		return t
	}
	t := ir.StructType(name, false)
	p.types[name] = t
	return t
}

func (p *parser) parseGlobal() {
	nameTok := p.consume()
	p.consume() // =
	var addrSpace uint32
	for !p.atLineEnd() {
		t := p.cur()
		if t.isIdent("addrspace") {
			p.pos++
			addrSpace = p.parseParenUint32()
			continue
		}
		if t.isIdent("global") || t.isIdent("constant") || t.isIdent("alias") || t.isIdent("ifunc") {
			break
		}
		p.pos++
	}
	g := ir.NewGlobalVariable(nameTok.text, addrSpace)
	if _, dup := p.globals[nameTok.text]; dup {
		p.errorf(nameTok, "redefinition of @%s", nameTok.text)
	}
	p.globals[nameTok.text] = g
	p.mod.AddGlobal(g)
	p.skipLine()
}

func (p *parser) parseParenUint32() uint32 {
	if !p.matchPunct("(") {
		return 0
	}
	var n uint32
	if p.cur().kind == tokInt {
		v, err := strconv.ParseUint(p.consume().text, 10, 32)
		if err == nil {
			n = uint32(v)
		}
	}
	p.expectPunct(")")
	return n
}

// parseMetadataDef records !DILocation nodes and skips all other metadata.
func (p *parser) parseMetadataDef() {
	id := p.consume().text
	p.consume() // =
	p.matchIdent("distinct")
	if p.cur().kind == tokMeta && p.cur().text == "DILocation" && p.peek(1).isPunct("(") {
		p.pos += 2
		var loc ir.Location
		for !p.cur().isPunct(")") && p.cur().kind != tokEOF {
			field := p.consume()
			if field.kind != tokIdent || !p.cur().isPunct(":") {
				continue
			}
			p.pos++
			if p.cur().kind != tokInt {
				continue
			}
			n, err := strconv.ParseUint(p.consume().text, 10, 32)
			if err != nil {
				continue
			}
			switch field.text {
			case "line":
				loc.Line = uint32(n)
			case "column":
				loc.Column = uint32(n)
			}
		}
		p.locs[id] = loc
	}
	p.skipLine()
}

// --- functions ---

func (p *parser) parseFunction() {
	isDefine := p.consume().text == "define"
	p.skipAttributes()
	ret := p.parseType()
	nameTok := p.cur()
	if nameTok.kind != tokGlobal {
		p.errorf(nameTok, "expected function name, found %s", nameTok)
		p.skipLine()
		return
	}
	p.pos++

	p.locals = make(map[string]*ir.Value)
	p.localRefs = nil
	params := p.parseParams()

	f := ir.NewFunction(nameTok.text, ret, params, !isDefine)
	if prev, dup := p.globals[nameTok.text]; dup && prev.Kind() == ir.KindFunction {
		p.errorf(nameTok, "redefinition of @%s", nameTok.text)
	}
	p.globals[nameTok.text] = f.Value()
	p.mod.AddFunction(f)

	if !isDefine {
		p.skipLine()
		return
	}
	// Skip trailing attributes, personality, section, !dbg ... up to the body.
	for !p.cur().isPunct("{") {
		if p.cur().kind == tokEOF {
			p.errorf(p.cur(), "expected function body for @%s", nameTok.text)
			return
		}
		p.pos++
	}
	p.pos++
	p.parseBody(f)
	p.resolveLocals()
	p.locals = nil
}

// parseParams reads "(T attrs %name, ..., ...)". Unnamed parameters take
// the implicit numbers LLVM assigns them.
func (p *parser) parseParams() []*ir.Value {
	var params []*ir.Value
	if !p.expectPunct("(") {
		return nil
	}
	next := 0
	for !p.cur().isPunct(")") && p.cur().kind != tokEOF {
		if p.matchPunct(",") {
			continue
		}
		if p.cur().kind == tokEllipsis {
			p.pos++
			continue
		}
		typ := p.parseType()
		p.skipParamAttributes()
		name := ""
		key := strconv.Itoa(next)
		if p.cur().kind == tokLocal {
			key = p.consume().text
			name = localName(key)
		}
		if name == "" {
			next++
		}
		arg := ir.NewArgument(name, typ)
		p.locals[key] = arg
		params = append(params, arg)
		if p.lineFailed {
			break
		}
	}
	p.expectPunct(")")
	return params
}

func (p *parser) parseBody(f *ir.Function) {
	var block *ir.Block
	for {
		p.lineFailed = false
		t := p.cur()
		switch {
		case t.kind == tokEOF:
			p.errorf(t, "unexpected end of file in function @%s", f.Name())
			return
		case t.kind == tokNewline:
			p.pos++
			continue
		case t.isPunct("}"):
			p.pos++
			return
		case t.kind == tokLabel:
			p.pos++
			block = ir.NewBlock(localName(t.text))
			p.defineLocal(t, block.Value())
			f.AddBlock(block)
			continue
		}
		if block == nil {
			block = ir.NewBlock("")
			f.AddBlock(block)
		}
		if inst := p.parseInstruction(); inst != nil {
			block.Append(inst)
		}
		if p.lineFailed {
			p.skipLine()
		}
		if len(p.errs) >= maxErrors {
			return
		}
	}
}

func (p *parser) defineLocal(at token, v *ir.Value) {
	if _, dup := p.locals[at.text]; dup {
		p.errorf(at, "redefinition of %%%s", at.text)
		return
	}
	p.locals[at.text] = v
}

// localName maps a textual local name to the IR name: numbered values are
// unnamed.
func localName(s string) string {
	if s == "" {
		return ""
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return s
		}
	}
	return ""
}

// --- symbol resolution ---

// bind assigns parsed operands to inst, deferring unresolved symbols.
func (p *parser) bind(inst *ir.Value, ops []operand) {
	vals := make([]*ir.Value, len(ops))
	for i, op := range ops {
		if op.val != nil {
			vals[i] = op.val
			continue
		}
		if op.ref == nil {
			vals[i] = ir.NewUndef(op.typ)
			continue
		}
		ref := pendingRef{inst: inst, index: i, name: op.ref.text, tok: *op.ref}
		if op.ref.kind == tokGlobal {
			p.globRefs = append(p.globRefs, ref)
		} else {
			p.localRefs = append(p.localRefs, ref)
		}
	}
	inst.SetOperands(vals)
}

func (p *parser) resolveLocals() {
	for _, ref := range p.localRefs {
		v, ok := p.locals[ref.name]
		if !ok {
			p.lineFailed = false
			p.errorf(ref.tok, "use of undefined value %%%s", ref.name)
			continue
		}
		ref.inst.SetOperand(ref.index, v)
	}
	p.localRefs = nil
}

func (p *parser) resolveGlobals() {
	for _, ref := range p.globRefs {
		v, ok := p.globals[ref.name]
		if !ok {
			p.lineFailed = false
			p.errorf(ref.tok, "use of undefined value @%s", ref.name)
			continue
		}
		ref.inst.SetOperand(ref.index, v)
	}
	p.globRefs = nil
}

func (p *parser) resolveDebugLocs() {
	for inst, ref := range p.dbgRefs {
		loc, ok := p.locs[ref.text]
		if !ok {
			continue
		}
		inst.SetDebugLoc(loc.Line, loc.Column)
	}
}
