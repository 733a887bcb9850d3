package llql

import (
	"fmt"
	"strings"

	"github.com/roach88/llql/internal/queryir"
)

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokInt
	tokFloat
	tokString
	tokPunct // ( ) [ ] , ; * - = != <> < <= > >= ! && || ^
)

type token struct {
	kind tokenKind
	text string // string tokens hold the unescaped contents
	pos  queryir.Pos
}

func (t token) String() string {
	if t.kind == tokEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.text)
}

func (t token) isPunct(p string) bool { return t.kind == tokPunct && t.text == p }

// isKeyword matches an identifier case-insensitively.
func (t token) isKeyword(kw string) bool {
	return t.kind == tokIdent && strings.EqualFold(t.text, kw)
}

// reserved words cannot be used as column or function names.
var reserved = map[string]bool{
	"select": true, "distinct": true, "from": true, "where": true,
	"group": true, "by": true, "order": true, "asc": true, "desc": true,
	"limit": true, "offset": true, "as": true, "and": true, "or": true,
	"xor": true, "not": true, "true": true, "false": true, "null": true,
}

func isReserved(s string) bool { return reserved[strings.ToLower(s)] }
