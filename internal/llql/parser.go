package llql

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/roach88/llql/internal/queryir"
	"github.com/roach88/llql/internal/value"
)

type parser struct {
	toks []token
	pos  int
}

// Parse reads a script: zero or more statements separated by semicolons.
// An input holding only whitespace and comments yields no statements.
func Parse(src string) ([]queryir.Statement, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	var stmts []queryir.Statement
	for {
		for p.peek().isPunct(";") {
			p.pos++
		}
		if p.peek().kind == tokEOF {
			return stmts, nil
		}
		stmt, err := p.selectStmt()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
		if tok := p.peek(); tok.kind != tokEOF && !tok.isPunct(";") {
			return nil, p.errorf(tok, "expected ; or end of input, found %s", tok)
		}
	}
}

// ParseStatement reads exactly one statement, with an optional trailing
// semicolon.
func ParseStatement(src string) (*queryir.Select, error) {
	stmts, err := Parse(src)
	if err != nil {
		return nil, err
	}
	switch len(stmts) {
	case 0:
		return nil, &SyntaxError{Pos: queryir.Pos{Line: 1, Column: 1}, Message: "empty query"}
	case 1:
		s := stmts[0].(queryir.Select)
		return &s, nil
	}
	return nil, &SyntaxError{Pos: queryir.Pos{Line: 1, Column: 1}, Message: fmt.Sprintf("expected one statement, found %d", len(stmts))}
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	tok := p.toks[p.pos]
	if tok.kind != tokEOF {
		p.pos++
	}
	return tok
}

func (p *parser) errorf(tok token, format string, args ...any) error {
	return &SyntaxError{Pos: tok.pos, Message: fmt.Sprintf(format, args...)}
}

func (p *parser) acceptKeyword(kw string) bool {
	if p.peek().isKeyword(kw) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) acceptPunct(s string) bool {
	if p.peek().isPunct(s) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) expectKeyword(kw string) (token, error) {
	tok := p.peek()
	if !tok.isKeyword(kw) {
		return tok, p.errorf(tok, "expected %s, found %s", strings.ToUpper(kw), tok)
	}
	p.pos++
	return tok, nil
}

func (p *parser) expectPunct(s string) (token, error) {
	tok := p.peek()
	if !tok.isPunct(s) {
		return tok, p.errorf(tok, "expected %q, found %s", s, tok)
	}
	p.pos++
	return tok, nil
}

func (p *parser) ident(what string) (token, error) {
	tok := p.peek()
	if tok.kind != tokIdent || isReserved(tok.text) {
		return tok, p.errorf(tok, "expected %s, found %s", what, tok)
	}
	p.pos++
	return tok, nil
}

func (p *parser) selectStmt() (queryir.Select, error) {
	var s queryir.Select
	start, err := p.expectKeyword("select")
	if err != nil {
		return s, err
	}
	s.Pos = start.pos
	s.Distinct = p.acceptKeyword("distinct")

	if p.acceptPunct("*") {
		s.Star = true
	} else {
		for {
			item, err := p.selectItem()
			if err != nil {
				return s, err
			}
			s.Items = append(s.Items, item)
			if !p.acceptPunct(",") {
				break
			}
		}
	}

	if _, err := p.expectKeyword("from"); err != nil {
		return s, err
	}
	table, err := p.ident("table name")
	if err != nil {
		return s, err
	}
	s.From, s.FromPos = table.text, table.pos

	if p.acceptKeyword("where") {
		if s.Where, err = p.expr(); err != nil {
			return s, err
		}
	}

	if p.acceptKeyword("group") {
		if _, err := p.expectKeyword("by"); err != nil {
			return s, err
		}
		for {
			e, err := p.expr()
			if err != nil {
				return s, err
			}
			s.GroupBy = append(s.GroupBy, e)
			if !p.acceptPunct(",") {
				break
			}
		}
	}

	if p.acceptKeyword("order") {
		if _, err := p.expectKeyword("by"); err != nil {
			return s, err
		}
		for {
			e, err := p.expr()
			if err != nil {
				return s, err
			}
			item := queryir.OrderItem{Expr: e}
			if p.acceptKeyword("desc") {
				item.Desc = true
			} else {
				p.acceptKeyword("asc")
			}
			s.OrderBy = append(s.OrderBy, item)
			if !p.acceptPunct(",") {
				break
			}
		}
	}

	if p.acceptKeyword("limit") {
		n, err := p.count()
		if err != nil {
			return s, err
		}
		s.Limit = &n
		if p.acceptKeyword("offset") {
			m, err := p.count()
			if err != nil {
				return s, err
			}
			s.Offset = &m
		}
	}
	return s, nil
}

func (p *parser) selectItem() (queryir.SelectItem, error) {
	e, err := p.expr()
	if err != nil {
		return queryir.SelectItem{}, err
	}
	item := queryir.SelectItem{Expr: e}
	if p.acceptKeyword("as") {
		alias, err := p.ident("alias")
		if err != nil {
			return item, err
		}
		item.Alias = alias.text
	}
	return item, nil
}

// count reads the operand of LIMIT or OFFSET. A leading minus is accepted
// here and rejected by validation.
func (p *parser) count() (int64, error) {
	neg := p.acceptPunct("-")
	tok := p.next()
	if tok.kind != tokInt {
		return 0, p.errorf(tok, "expected integer, found %s", tok)
	}
	n, err := strconv.ParseInt(tok.text, 10, 64)
	if err != nil {
		return 0, p.errorf(tok, "integer %s out of range", tok.text)
	}
	if neg {
		n = -n
	}
	return n, nil
}

func (p *parser) expr() (queryir.Expr, error) { return p.or() }

func (p *parser) or() (queryir.Expr, error) {
	lhs, err := p.xor()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if !tok.isPunct("||") && !tok.isKeyword("or") {
			return lhs, nil
		}
		p.pos++
		rhs, err := p.xor()
		if err != nil {
			return nil, err
		}
		lhs = queryir.Logical{At: tok.pos, Op: value.OpOr, LHS: lhs, RHS: rhs}
	}
}

func (p *parser) xor() (queryir.Expr, error) {
	lhs, err := p.and()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if !tok.isPunct("^") && !tok.isKeyword("xor") {
			return lhs, nil
		}
		p.pos++
		rhs, err := p.and()
		if err != nil {
			return nil, err
		}
		lhs = queryir.Logical{At: tok.pos, Op: value.OpXor, LHS: lhs, RHS: rhs}
	}
}

func (p *parser) and() (queryir.Expr, error) {
	lhs, err := p.not()
	if err != nil {
		return nil, err
	}
	for {
		tok := p.peek()
		if !tok.isPunct("&&") && !tok.isKeyword("and") {
			return lhs, nil
		}
		p.pos++
		rhs, err := p.not()
		if err != nil {
			return nil, err
		}
		lhs = queryir.Logical{At: tok.pos, Op: value.OpAnd, LHS: lhs, RHS: rhs}
	}
}

func (p *parser) not() (queryir.Expr, error) {
	tok := p.peek()
	if tok.isPunct("!") || tok.isKeyword("not") {
		p.pos++
		operand, err := p.not()
		if err != nil {
			return nil, err
		}
		return queryir.Not{At: tok.pos, Operand: operand}, nil
	}
	return p.cmp()
}

var compareOps = map[string]queryir.CompareOp{
	"=":  queryir.OpEq,
	"!=": queryir.OpNe,
	"<":  queryir.OpLt,
	"<=": queryir.OpLe,
	">":  queryir.OpGt,
	">=": queryir.OpGe,
}

func (p *parser) cmp() (queryir.Expr, error) {
	lhs, err := p.primary()
	if err != nil {
		return nil, err
	}
	tok := p.peek()
	op, ok := compareOps[tok.text]
	if tok.kind != tokPunct || !ok {
		return lhs, nil
	}
	p.pos++
	rhs, err := p.primary()
	if err != nil {
		return nil, err
	}
	return queryir.Compare{At: tok.pos, Op: op, LHS: lhs, RHS: rhs}, nil
}

func (p *parser) primary() (queryir.Expr, error) {
	tok := p.next()
	switch tok.kind {
	case tokInt, tokFloat:
		return p.number(tok, false)
	case tokString:
		return queryir.Literal{At: tok.pos, Value: value.TextValue(tok.text)}, nil
	case tokIdent:
		switch strings.ToLower(tok.text) {
		case "true":
			return queryir.Literal{At: tok.pos, Value: value.BoolValue(true)}, nil
		case "false":
			return queryir.Literal{At: tok.pos, Value: value.BoolValue(false)}, nil
		case "null":
			return queryir.Literal{At: tok.pos, Value: value.NullValue{}}, nil
		}
		if isReserved(tok.text) {
			return nil, p.errorf(tok, "unexpected keyword %s", strings.ToUpper(tok.text))
		}
		if p.peek().isPunct("(") {
			return p.call(tok)
		}
		return queryir.Column{At: tok.pos, Name: tok.text}, nil
	case tokPunct:
		switch tok.text {
		case "-":
			num := p.next()
			if num.kind != tokInt && num.kind != tokFloat {
				return nil, p.errorf(num, "expected number after -, found %s", num)
			}
			return p.number(num, true)
		case "(":
			e, err := p.expr()
			if err != nil {
				return nil, err
			}
			if _, err := p.expectPunct(")"); err != nil {
				return nil, err
			}
			return e, nil
		case "[":
			items, err := p.list("]")
			if err != nil {
				return nil, err
			}
			return queryir.Array{At: tok.pos, Items: items}, nil
		}
	}
	return nil, p.errorf(tok, "expected expression, found %s", tok)
}

func (p *parser) call(name token) (queryir.Expr, error) {
	p.pos++ // (
	fn := strings.ToLower(name.text)
	if fn == "count" && p.peek().isPunct("*") {
		p.pos++
		if _, err := p.expectPunct(")"); err != nil {
			return nil, err
		}
		return queryir.CountStar{At: name.pos}, nil
	}
	args, err := p.list(")")
	if err != nil {
		return nil, err
	}
	return queryir.Call{At: name.pos, Name: fn, Args: args}, nil
}

// list reads a comma-separated expression list up to and including the
// closing token.
func (p *parser) list(closing string) ([]queryir.Expr, error) {
	var items []queryir.Expr
	if p.acceptPunct(closing) {
		return items, nil
	}
	for {
		e, err := p.expr()
		if err != nil {
			return nil, err
		}
		items = append(items, e)
		if p.acceptPunct(",") {
			continue
		}
		if _, err := p.expectPunct(closing); err != nil {
			return nil, err
		}
		return items, nil
	}
}

func (p *parser) number(tok token, neg bool) (queryir.Expr, error) {
	text := tok.text
	if neg {
		text = "-" + text
	}
	if tok.kind == tokInt {
		n, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return nil, p.errorf(tok, "integer %s out of range", text)
		}
		return queryir.Literal{At: tok.pos, Value: value.IntValue(n)}, nil
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, p.errorf(tok, "invalid float %s", text)
	}
	return queryir.Literal{At: tok.pos, Value: value.FloatValue(f)}, nil
}
