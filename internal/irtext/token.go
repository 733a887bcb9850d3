package irtext

import "fmt"

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokNewline
	tokIdent     // keywords, type names, flags
	tokLabel     // label definition at line start: entry: / 1: / "x":
	tokLocal     // %name
	tokGlobal    // @name
	tokMeta      // !name or !N
	tokAttrGroup // #N
	tokInt
	tokFloat
	tokString  // "..."
	tokCString // c"..."
	tokEllipsis
	tokPunct // ( ) [ ] { } < > , = * : ! | ^
)

// token is one lexeme. For name-carrying kinds text holds the name without
// its sigil or quotes.
type token struct {
	kind  tokenKind
	text  string
	line  int
	col   int
	start int // byte offsets into the source
	end   int
}

func (t token) String() string {
	switch t.kind {
	case tokEOF:
		return "end of file"
	case tokNewline:
		return "end of line"
	case tokLocal:
		return "%" + t.text
	case tokGlobal:
		return "@" + t.text
	case tokMeta:
		return "!" + t.text
	case tokAttrGroup:
		return "#" + t.text
	case tokString:
		return fmt.Sprintf("%q", t.text)
	case tokLabel:
		return t.text + ":"
	}
	return t.text
}

func (t token) is(kind tokenKind, text string) bool {
	return t.kind == kind && t.text == text
}

func (t token) isPunct(p string) bool { return t.is(tokPunct, p) }
func (t token) isIdent(s string) bool { return t.is(tokIdent, s) }
