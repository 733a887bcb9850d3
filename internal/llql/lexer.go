package llql

import (
	"fmt"
	"strings"

	"github.com/roach88/llql/internal/queryir"
)

type lexer struct {
	src  string
	pos  int
	line int
	col  int
}

func lex(src string) ([]token, error) {
	l := &lexer{src: src, line: 1, col: 1}
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, tok)
		if tok.kind == tokEOF {
			return toks, nil
		}
	}
}

func (l *lexer) peekByte(off int) byte {
	if l.pos+off < len(l.src) {
		return l.src[l.pos+off]
	}
	return 0
}

func (l *lexer) advance() byte {
	c := l.src[l.pos]
	l.pos++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *lexer) here() queryir.Pos { return queryir.Pos{Line: l.line, Column: l.col} }

func (l *lexer) errorf(pos queryir.Pos, format string, args ...any) error {
	return &SyntaxError{Pos: pos, Message: fmt.Sprintf(format, args...)}
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) {
		c := l.peekByte(0)
		switch {
		case c == '-' && l.peekByte(1) == '-':
			for l.pos < len(l.src) && l.peekByte(0) != '\n' {
				l.advance()
			}
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		default:
			return l.scan()
		}
	}
	return token{kind: tokEOF, pos: l.here()}, nil
}

func (l *lexer) scan() (token, error) {
	pos := l.here()
	c := l.peekByte(0)
	switch {
	case isIdentStart(c):
		start := l.pos
		for l.pos < len(l.src) && isIdentPart(l.peekByte(0)) {
			l.advance()
		}
		return token{kind: tokIdent, text: l.src[start:l.pos], pos: pos}, nil
	case isDigit(c) || (c == '.' && isDigit(l.peekByte(1))):
		return l.number(pos)
	case c == '"' || c == '\'':
		return l.str(pos)
	}

	for _, p := range [...]string{"!=", "<>", "<=", ">=", "&&", "||"} {
		if strings.HasPrefix(l.src[l.pos:], p) {
			l.advance()
			l.advance()
			if p == "<>" {
				p = "!="
			}
			return token{kind: tokPunct, text: p, pos: pos}, nil
		}
	}
	switch c {
	case '(', ')', '[', ']', ',', ';', '*', '-', '=', '<', '>', '!', '^':
		l.advance()
		return token{kind: tokPunct, text: string(c), pos: pos}, nil
	}
	return token{}, l.errorf(pos, "unexpected character %q", rune(c))
}

func (l *lexer) number(pos queryir.Pos) (token, error) {
	start := l.pos
	kind := tokInt
	for isDigit(l.peekByte(0)) {
		l.advance()
	}
	if l.peekByte(0) == '.' {
		kind = tokFloat
		l.advance()
		for isDigit(l.peekByte(0)) {
			l.advance()
		}
	}
	if e := l.peekByte(0); e == 'e' || e == 'E' {
		off := 1
		if s := l.peekByte(1); s == '+' || s == '-' {
			off = 2
		}
		if isDigit(l.peekByte(off)) {
			kind = tokFloat
			for i := 0; i < off; i++ {
				l.advance()
			}
			for isDigit(l.peekByte(0)) {
				l.advance()
			}
		}
	}
	if isIdentStart(l.peekByte(0)) {
		return token{}, l.errorf(l.here(), "malformed number %q", l.src[start:l.pos+1])
	}
	return token{kind: kind, text: l.src[start:l.pos], pos: pos}, nil
}

func (l *lexer) str(pos queryir.Pos) (token, error) {
	quote := l.advance()
	var b strings.Builder
	for {
		if l.pos >= len(l.src) {
			return token{}, l.errorf(pos, "unterminated string")
		}
		c := l.advance()
		switch c {
		case quote:
			return token{kind: tokString, text: b.String(), pos: pos}, nil
		case '\n':
			return token{}, l.errorf(pos, "unterminated string")
		case '\\':
			if l.pos >= len(l.src) {
				return token{}, l.errorf(pos, "unterminated string")
			}
			esc := l.advance()
			switch esc {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '\\', '"', '\'':
				b.WriteByte(esc)
			default:
				return token{}, l.errorf(pos, "unknown escape \\%c", esc)
			}
		default:
			b.WriteByte(c)
		}
	}
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
