package llql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/llql/internal/queryir"
	"github.com/roach88/llql/internal/value"
)

func parseOne(t *testing.T, src string) *queryir.Select {
	t.Helper()
	s, err := ParseStatement(src)
	require.NoError(t, err)
	return s
}

func TestParse_SelectStar(t *testing.T) {
	s := parseOne(t, "select * from instructions")

	assert.True(t, s.Star)
	assert.Empty(t, s.Items)
	assert.Equal(t, "instructions", s.From)
	assert.Equal(t, queryir.Pos{Line: 1, Column: 15}, s.FromPos)
	assert.Nil(t, s.Where)
	assert.Nil(t, s.Limit)
}

func TestParse_FullStatement(t *testing.T) {
	src := `SELECT DISTINCT function_name AS fn, count(*) AS n
FROM instructions
WHERE m_inst(instruction, m_c_add(m_const_int(), m_any_inst())) -- commutative
GROUP BY function_name
ORDER BY n DESC, fn ASC
LIMIT 10 OFFSET 2;`

	s := parseOne(t, src)

	assert.True(t, s.Distinct)
	require.Len(t, s.Items, 2)
	assert.Equal(t, "fn", s.Items[0].Alias)
	assert.Equal(t, queryir.Column{At: queryir.Pos{Line: 1, Column: 17}, Name: "function_name"}, s.Items[0].Expr)
	assert.IsType(t, queryir.CountStar{}, s.Items[1].Expr)
	assert.Equal(t, "m_inst(instruction, m_c_add(m_const_int(), m_any_inst()))", queryir.Format(s.Where))
	require.Len(t, s.GroupBy, 1)
	require.Len(t, s.OrderBy, 2)
	assert.True(t, s.OrderBy[0].Desc)
	assert.False(t, s.OrderBy[1].Desc)
	require.NotNil(t, s.Limit)
	require.NotNil(t, s.Offset)
	assert.Equal(t, int64(10), *s.Limit)
	assert.Equal(t, int64(2), *s.Offset)
}

func TestParse_Expressions(t *testing.T) {
	tests := []struct {
		name string
		expr string
		want string
	}{
		{"int", "42", "42"},
		{"negative int", "m_specific_int(-7)", "m_specific_int(-7)"},
		{"float", "1.5e3", "1500"},
		{"double quoted", `"entry"`, `"entry"`},
		{"single quoted", `'it\'s'`, `"it's"`},
		{"escapes", `"a\tb"`, `"a\tb"`},
		{"booleans", "TRUE && false", "true && false"},
		{"null", "null", "NULL"},
		{"function names fold", "M_ADD()", "m_add()"},
		{"array", "m_extract_value(m_any_inst(), [0, 1])", "m_extract_value(m_any_inst(), [0, 1])"},
		{"empty array", "[]", "[]"},
		{"keyword operators", "a OR b AND NOT c", "a || (b && !c)"},
		{"xor binds tighter than or", "a || b ^ c", "a || (b ^ c)"},
		{"and binds tighter than xor", "a ^ b && c", "a ^ (b && c)"},
		{"left associative", "a || b || c", "(a || b) || c"},
		{"parentheses", "(a || b) && c", "(a || b) && c"},
		{"double negation", "!!a", "!!a"},
		{"comparison", "len(function_name) >= 3", "len(function_name) >= 3"},
		{"not equal spelling", "a <> b", "a != b"},
		{"count star mixed case", "COUNT(*)", "count(*)"},
		{"count of column", "count(instruction)", "count(instruction)"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			s := parseOne(t, "SELECT "+tt.expr+" FROM instructions")
			require.Len(t, s.Items, 1)
			assert.Equal(t, tt.want, queryir.Format(s.Items[0].Expr))
		})
	}
}

func TestParse_LiteralValues(t *testing.T) {
	s := parseOne(t, "SELECT 3, -2.5, 'x', true, null FROM instructions")

	var got []value.Value
	for _, it := range s.Items {
		got = append(got, it.Expr.(queryir.Literal).Value)
	}
	assert.Equal(t, []value.Value{
		value.IntValue(3),
		value.FloatValue(-2.5),
		value.TextValue("x"),
		value.BoolValue(true),
		value.NullValue{},
	}, got)
}

func TestParse_NegativeLimitIsSyntacticallyValid(t *testing.T) {
	s := parseOne(t, "SELECT * FROM instructions LIMIT -1")
	require.NotNil(t, s.Limit)
	assert.Equal(t, int64(-1), *s.Limit)
}

func TestParse_Script(t *testing.T) {
	src := `
-- first
SELECT * FROM instructions;;
select function_name from instructions where m_inst(instruction, m_return());
`
	stmts, err := Parse(src)
	require.NoError(t, err)
	require.Len(t, stmts, 2)

	second := stmts[1].(queryir.Select)
	assert.Equal(t, queryir.Pos{Line: 4, Column: 1}, second.Pos)
}

func TestParse_EmptyScript(t *testing.T) {
	stmts, err := Parse("  -- nothing here\n")
	require.NoError(t, err)
	assert.Empty(t, stmts)

	_, err = ParseStatement("")
	var se *SyntaxError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "empty query", se.Message)
}

func TestParseStatement_RejectsMultiple(t *testing.T) {
	_, err := ParseStatement("SELECT * FROM a; SELECT * FROM b")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected one statement, found 2")
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		pos  queryir.Pos
		msg  string
	}{
		{"missing select", "FROM instructions", queryir.Pos{Line: 1, Column: 1}, `expected SELECT, found "FROM"`},
		{"missing from", "SELECT *", queryir.Pos{Line: 1, Column: 9}, "expected FROM, found end of input"},
		{"keyword as table", "SELECT * FROM where", queryir.Pos{Line: 1, Column: 15}, "expected table name"},
		{"unclosed call", "SELECT m_add( FROM instructions", queryir.Pos{Line: 1, Column: 15}, "unexpected keyword FROM"},
		{"unclosed paren", "SELECT (a FROM instructions", queryir.Pos{Line: 1, Column: 11}, `expected ")"`},
		{"trailing garbage", "SELECT * FROM instructions foo", queryir.Pos{Line: 1, Column: 28}, "expected ; or end of input"},
		{"bad character", "SELECT # FROM t", queryir.Pos{Line: 1, Column: 8}, "unexpected character '#'"},
		{"unterminated string", "SELECT 'abc", queryir.Pos{Line: 1, Column: 8}, "unterminated string"},
		{"unknown escape", `SELECT "\q"`, queryir.Pos{Line: 1, Column: 8}, `unknown escape \q`},
		{"malformed number", "SELECT 12ab FROM t", queryir.Pos{Line: 1, Column: 10}, "malformed number"},
		{"int overflow", "SELECT 99999999999999999999 FROM t", queryir.Pos{Line: 1, Column: 8}, "out of range"},
		{"limit needs int", "SELECT * FROM t LIMIT x", queryir.Pos{Line: 1, Column: 23}, "expected integer"},
		{"group needs by", "SELECT * FROM t GROUP x", queryir.Pos{Line: 1, Column: 23}, "expected BY"},
		{"dangling minus", "SELECT -a FROM t", queryir.Pos{Line: 1, Column: 9}, "expected number after -"},
		{"chained comparison", "SELECT a = b = c FROM t", queryir.Pos{Line: 1, Column: 14}, "expected FROM"},
		{"second line", "SELECT *\nFROM t\nWHERE )", queryir.Pos{Line: 3, Column: 7}, "expected expression"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.src)
			var se *SyntaxError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.pos, se.Pos)
			assert.Contains(t, se.Message, tt.msg)
		})
	}
}

func TestSyntaxError_Error(t *testing.T) {
	err := &SyntaxError{Pos: queryir.Pos{Line: 2, Column: 5}, Message: "boom"}
	assert.Equal(t, "2:5: boom", err.Error())
}
