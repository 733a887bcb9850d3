package irtext

import (
	"fmt"
	"strings"
)

// lexer splits textual IR into tokens. Newlines inside parentheses and
// square brackets are dropped, so multi-line argument lists and switch
// tables read as one logical line. Braces do not count: they delimit
// function bodies.
type lexer struct {
	src       []byte
	pos       int
	line      int
	col       int
	depth     int
	lineStart bool
	toks      []token
}

func lex(src []byte) ([]token, error) {
	l := &lexer{src: src, line: 1, col: 1, lineStart: true}
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		l.toks = append(l.toks, tok)
		if tok.kind == tokEOF {
			return l.toks, nil
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

func (l *lexer) errorf(format string, args ...any) error {
	return &SyntaxError{Line: l.line, Column: l.col, Message: fmt.Sprintf(format, args...)}
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.src) {
		c := l.peekByte(0)
		switch {
		case c == ';':
			for l.pos < len(l.src) && l.peekByte(0) != '\n' {
				l.advance()
			}
		case c == '\n':
			start, line, col := l.pos, l.line, l.col
			l.advance()
			if l.depth == 0 {
				l.lineStart = true
				return token{kind: tokNewline, line: line, col: col, start: start, end: start + 1}, nil
			}
		case c == ' ' || c == '\t' || c == '\r':
			l.advance()
		default:
			tok, err := l.scan()
			l.lineStart = false
			return tok, err
		}
	}
	return token{kind: tokEOF, line: l.line, col: l.col, start: l.pos, end: l.pos}, nil
}

func isIdentByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '_' || c == '.' || c == '$' || c == '-'
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func (l *lexer) scan() (token, error) {
	atStart := l.lineStart
	tok := token{line: l.line, col: l.col, start: l.pos}
	finish := func(kind tokenKind, text string) (token, error) {
		tok.kind = kind
		tok.text = text
		tok.end = l.pos
		return tok, nil
	}

	c := l.peekByte(0)
	switch {
	case c == '%' || c == '@' || c == '!' || c == '#':
		l.advance()
		kind := map[byte]tokenKind{'%': tokLocal, '@': tokGlobal, '!': tokMeta, '#': tokAttrGroup}[c]
		if l.peekByte(0) == '"' {
			s, err := l.scanQuoted()
			if err != nil {
				return tok, err
			}
			if c == '!' {
				// !"metadata string"
				return finish(tokMeta, `"`+s+`"`)
			}
			return finish(kind, s)
		}
		name := l.scanWhile(isIdentByte)
		if name == "" {
			if c == '!' {
				return finish(tokPunct, "!")
			}
			return tok, l.errorf("expected name after %q", c)
		}
		return finish(kind, name)

	case c == '"':
		s, err := l.scanQuoted()
		if err != nil {
			return tok, err
		}
		if atStart && l.peekByte(0) == ':' {
			l.advance()
			return finish(tokLabel, s)
		}
		return finish(tokString, s)

	case c == '.' && l.peekByte(1) == '.' && l.peekByte(2) == '.':
		l.advance()
		l.advance()
		l.advance()
		return finish(tokEllipsis, "...")

	case isDigit(c) || (c == '-' || c == '+') && isDigit(l.peekByte(1)):
		return l.scanNumber(tok, atStart)

	case isIdentByte(c):
		word := l.scanWhile(isIdentByte)
		if word == "c" && l.peekByte(0) == '"' {
			s, err := l.scanQuoted()
			if err != nil {
				return tok, err
			}
			return finish(tokCString, s)
		}
		if atStart && l.peekByte(0) == ':' {
			l.advance()
			return finish(tokLabel, word)
		}
		return finish(tokIdent, word)
	}

	l.advance()
	switch c {
	case '(', '[':
		l.depth++
	case ')', ']':
		if l.depth > 0 {
			l.depth--
		}
	case '{', '}', '<', '>', ',', '=', '*', ':', '|', '^':
	default:
		return tok, l.errorf("unexpected character %q", c)
	}
	return finish(tokPunct, string(c))
}

func (l *lexer) scanWhile(pred func(byte) bool) string {
	start := l.pos
	for l.pos < len(l.src) && pred(l.src[l.pos]) {
		l.advance()
	}
	return string(l.src[start:l.pos])
}

// scanQuoted reads a double-quoted string and returns its raw contents.
// Escapes (\xx hex pairs) are kept verbatim.
func (l *lexer) scanQuoted() (string, error) {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.pos >= len(l.src) {
			return "", l.errorf("unterminated string")
		}
		c := l.advance()
		if c == '"' {
			return sb.String(), nil
		}
		if c == '\n' {
			return "", l.errorf("newline in string")
		}
		sb.WriteByte(c)
	}
}

func (l *lexer) scanNumber(tok token, atStart bool) (token, error) {
	isHex := func(c byte) bool {
		return isDigit(c) || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F'
	}
	var sb strings.Builder
	if c := l.peekByte(0); c == '-' || c == '+' {
		sb.WriteByte(l.advance())
	}
	if l.peekByte(0) == '0' && l.peekByte(1) == 'x' {
		// Hexadecimal floating point: 0x3FF0000000000000, 0xK..., 0xH...
		sb.WriteByte(l.advance())
		sb.WriteByte(l.advance())
		if c := l.peekByte(0); c == 'K' || c == 'L' || c == 'M' || c == 'H' || c == 'R' {
			sb.WriteByte(l.advance())
		}
		sb.WriteString(l.scanWhile(isHex))
		tok.kind, tok.text, tok.end = tokFloat, sb.String(), l.pos
		return tok, nil
	}
	sb.WriteString(l.scanWhile(isDigit))
	kind := tokInt
	if l.peekByte(0) == '.' && l.peekByte(1) != '.' {
		kind = tokFloat
		sb.WriteByte(l.advance())
		sb.WriteString(l.scanWhile(isDigit))
	}
	if c := l.peekByte(0); (c == 'e' || c == 'E') && kind == tokFloat {
		sb.WriteByte(l.advance())
		if c := l.peekByte(0); c == '-' || c == '+' {
			sb.WriteByte(l.advance())
		}
		sb.WriteString(l.scanWhile(isDigit))
	}
	if kind == tokInt && atStart && l.peekByte(0) == ':' {
		l.advance()
		kind = tokLabel
	}
	tok.kind, tok.text, tok.end = kind, sb.String(), l.pos
	return tok, nil
}
