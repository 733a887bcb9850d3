package queryir

import (
	"strconv"
	"strings"

	"github.com/roach88/llql/internal/value"
)

// Format renders e in canonical query syntax. Two expressions that format
// identically are treated as the same expression by GROUP BY.
func Format(e Expr) string {
	var b strings.Builder
	format(&b, e)
	return b.String()
}

func format(b *strings.Builder, e Expr) {
	switch x := e.(type) {
	case nil:
		b.WriteString("<nil>")
	case Literal:
		switch v := x.Value.(type) {
		case value.TextValue:
			b.WriteString(strconv.Quote(string(v)))
		case value.NullValue:
			b.WriteString("NULL")
		default:
			b.WriteString(v.Literal())
		}
	case Column:
		b.WriteString(x.Name)
	case Call:
		b.WriteString(x.Name)
		b.WriteByte('(')
		for i, a := range x.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, a)
		}
		b.WriteByte(')')
	case CountStar:
		b.WriteString("count(*)")
	case Array:
		b.WriteByte('[')
		for i, it := range x.Items {
			if i > 0 {
				b.WriteString(", ")
			}
			format(b, it)
		}
		b.WriteByte(']')
	case Not:
		b.WriteByte('!')
		formatOperand(b, x.Operand)
	case Logical:
		formatOperand(b, x.LHS)
		b.WriteString(" " + x.Op.String() + " ")
		formatOperand(b, x.RHS)
	case Compare:
		formatOperand(b, x.LHS)
		b.WriteString(" " + x.Op.String() + " ")
		formatOperand(b, x.RHS)
	}
}

// formatOperand parenthesizes operator operands so the output re-parses
// with the same shape.
func formatOperand(b *strings.Builder, e Expr) {
	switch e.(type) {
	case Logical, Compare:
		b.WriteByte('(')
		format(b, e)
		b.WriteByte(')')
	default:
		format(b, e)
	}
}

// FormatStatement renders s as a single line of canonical query text.
func FormatStatement(s *Select) string {
	var b strings.Builder
	b.WriteString("SELECT ")
	if s.Distinct {
		b.WriteString("DISTINCT ")
	}
	if s.Star {
		b.WriteByte('*')
	}
	for i, it := range s.Items {
		if i > 0 {
			b.WriteString(", ")
		}
		format(&b, it.Expr)
		if it.Alias != "" {
			b.WriteString(" AS " + it.Alias)
		}
	}
	b.WriteString(" FROM " + s.From)
	if s.Where != nil {
		b.WriteString(" WHERE ")
		format(&b, s.Where)
	}
	for i, g := range s.GroupBy {
		if i == 0 {
			b.WriteString(" GROUP BY ")
		} else {
			b.WriteString(", ")
		}
		format(&b, g)
	}
	for i, o := range s.OrderBy {
		if i == 0 {
			b.WriteString(" ORDER BY ")
		} else {
			b.WriteString(", ")
		}
		format(&b, o.Expr)
		if o.Desc {
			b.WriteString(" DESC")
		}
	}
	if s.Limit != nil {
		b.WriteString(" LIMIT " + strconv.FormatInt(*s.Limit, 10))
	}
	if s.Offset != nil {
		b.WriteString(" OFFSET " + strconv.FormatInt(*s.Offset, 10))
	}
	return b.String()
}
