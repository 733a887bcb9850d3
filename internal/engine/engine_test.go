package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/llql/internal/builtin"
	"github.com/roach88/llql/internal/llql"
	"github.com/roach88/llql/internal/matcher"
	"github.com/roach88/llql/internal/testutil"
	"github.com/roach88/llql/internal/value"
)

const addModule = `
define i32 @add(i32 %x, i32 %y) {
entry:
  %a = add i32 %x, 1
  %b = add i32 2, %a
  %c = mul i32 %b, %y
  ret i32 %c
}

define void @empty() {
entry:
  ret void
}
`

const subModule = `
define i32 @sub(i32 %x) {
entry:
  %s = sub i32 %x, 3
  br label %exit

exit:
  ret i32 %s
}
`

func newTestEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	session := testutil.Session(t, addModule, subModule)
	return New(NewIRDataProvider(session), opts...)
}

// query runs a single statement and returns its result.
func query(t *testing.T, e *Engine, src string) *Result {
	t.Helper()
	runs, err := e.Query(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	return runs[0].Result
}

// texts flattens a result to the literal text of each cell.
func texts(r *Result) [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = make([]string, len(row))
		for j, v := range row {
			out[i][j] = v.Literal()
		}
	}
	return out
}

func TestQuery_SelectStar(t *testing.T) {
	e := newTestEngine(t)

	res := query(t, e, "SELECT * FROM instructions")

	assert.Equal(t, []string{"function_name", "basic_block_name", "instruction", "file_name"}, res.Columns)
	require.Equal(t, 8, res.Len())
	assert.Equal(t, value.TextValue("add"), res.Rows[0][0])
	assert.Equal(t, value.TextValue("entry"), res.Rows[0][1])
	assert.IsType(t, value.InstValue{}, res.Rows[0][2])
	assert.Equal(t, value.TextValue("file0.ll"), res.Rows[0][3])
	assert.Equal(t, value.TextValue("exit"), res.Rows[7][1])
	assert.Equal(t, value.TextValue("file1.ll"), res.Rows[7][3])
}

func TestQuery_MatcherFilters(t *testing.T) {
	tests := []struct {
		name  string
		where string
		want  [][]string
	}{
		{
			name:  "commutative add with constant",
			where: "m_inst(instruction, m_c_add(m_const_int(), m_any_inst()))",
			want:  [][]string{{"add", "%a = add i32 %x, 1"}, {"add", "%b = add i32 2, %a"}},
		},
		{
			name:  "ordered add with constant first",
			where: "m_inst(instruction, m_add(m_const_int(), m_any_inst()))",
			want:  [][]string{{"add", "%b = add i32 2, %a"}},
		},
		{
			name:  "combined with operator",
			where: "m_inst(instruction, m_sub() || m_mul())",
			want:  [][]string{{"add", "%c = mul i32 %b, %y"}, {"sub", "%s = sub i32 %x, 3"}},
		},
		{
			name:  "negated matcher",
			where: "m_inst(instruction, !m_return() && !m_add()) AND function_name != 'sub'",
			want:  [][]string{{"add", "%c = mul i32 %b, %y"}},
		},
		{
			name:  "return of void",
			where: "m_inst(instruction, m_return(m_any_inst())) AND function_name = 'empty'",
			want:  [][]string{{"empty", "ret void"}},
		},
		{
			name:  "opcode evaluator",
			where: "inst_opcode(instruction) = 'br'",
			want:  [][]string{{"sub", "br label %exit"}},
		},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			res := query(t, e, "SELECT function_name, instruction FROM instructions WHERE "+tt.where)
			assert.Equal(t, tt.want, texts(res))
		})
	}
}

func TestQuery_Aggregates(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		columns []string
		want    [][]string
	}{
		{
			name:    "group and order by alias",
			src:     "SELECT function_name, count(*) AS n FROM instructions GROUP BY function_name ORDER BY n DESC",
			columns: []string{"function_name", "n"},
			want:    [][]string{{"add", "4"}, {"sub", "3"}, {"empty", "1"}},
		},
		{
			name:    "count without rows",
			src:     "SELECT count(*) FROM instructions WHERE false",
			columns: []string{"count(*)"},
			want:    [][]string{{"0"}},
		},
		{
			name:    "min and max",
			src:     "SELECT min(function_name), max(function_name) FROM instructions",
			columns: []string{"min(function_name)", "max(function_name)"},
			want:    [][]string{{"add", "sub"}},
		},
		{
			name:    "min of no rows is null",
			src:     "SELECT min(file_name) AS m FROM instructions WHERE false",
			columns: []string{"m"},
			want:    [][]string{{"Null"}},
		},
		{
			name:    "count skips nulls",
			src:     "SELECT count(inst_opcode(instruction)) FROM instructions",
			columns: []string{"count(inst_opcode(instruction))"},
			want:    [][]string{{"8"}},
		},
		{
			name:    "group by expression",
			src:     "SELECT upper(file_name), count(*) FROM instructions GROUP BY upper(file_name) ORDER BY upper(file_name)",
			columns: []string{"upper(file_name)", "count(*)"},
			want:    [][]string{{"FILE0.LL", "5"}, {"FILE1.LL", "3"}},
		},
		{
			name:    "grouped matcher count",
			src:     "SELECT file_name, count(*) FROM instructions WHERE m_inst(instruction, m_return()) GROUP BY file_name",
			columns: []string{"file_name", "count(*)"},
			want:    [][]string{{"file0.ll", "2"}, {"file1.ll", "1"}},
		},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			res := query(t, e, tt.src)
			assert.Equal(t, tt.columns, res.Columns)
			assert.Equal(t, tt.want, texts(res))
		})
	}
}

func TestQuery_OrderDistinctLimit(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want [][]string
	}{
		{
			name: "distinct",
			src:  "SELECT DISTINCT file_name FROM instructions",
			want: [][]string{{"file0.ll"}, {"file1.ll"}},
		},
		{
			name: "distinct after order",
			src:  "SELECT DISTINCT basic_block_name FROM instructions ORDER BY basic_block_name DESC",
			want: [][]string{{"exit"}, {"entry"}},
		},
		{
			name: "limit and offset",
			src:  "SELECT function_name FROM instructions LIMIT 2 OFFSET 3",
			want: [][]string{{"add"}, {"empty"}},
		},
		{
			name: "offset past end",
			src:  "SELECT function_name FROM instructions LIMIT 5 OFFSET 100",
			want: [][]string{},
		},
		{
			name: "limit zero",
			src:  "SELECT function_name FROM instructions LIMIT 0",
			want: [][]string{},
		},
		{
			name: "order is stable",
			src:  "SELECT function_name, inst_opcode(instruction) FROM instructions WHERE file_name = 'file0.ll' ORDER BY function_name DESC",
			want: [][]string{{"empty", "ret"}, {"add", "add"}, {"add", "add"}, {"add", "mul"}, {"add", "ret"}},
		},
		{
			name: "order by column outside select list",
			src:  "SELECT inst_opcode(instruction) FROM instructions WHERE function_name != 'add' ORDER BY basic_block_name DESC, function_name",
			want: [][]string{{"ret"}, {"ret"}, {"sub"}, {"br"}},
		},
		{
			name: "standard functions fold and evaluate",
			src:  "SELECT concat(lower('A'), '-', function_name), len(function_name) FROM instructions WHERE basic_block_name = 'exit'",
			want: [][]string{{"a-sub", "3"}},
		},
		{
			name: "distinct keeps matcher values apart",
			src:  "SELECT DISTINCT m_add() FROM instructions WHERE file_name = 'file0.ll'",
			want: [][]string{{"InstMatcherValue"}, {"InstMatcherValue"}, {"InstMatcherValue"}, {"InstMatcherValue"}, {"InstMatcherValue"}},
		},
		{
			name: "comparison with null yields null",
			src:  "SELECT function_name = NULL FROM instructions LIMIT 1",
			want: [][]string{{"Null"}},
		},
	}

	e := newTestEngine(t)
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			res := query(t, e, tt.src)
			assert.Equal(t, tt.want, texts(res))
		})
	}
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		code CompileErrorCode
		msg  string
	}{
		{"unknown table", "SELECT * FROM commits", ErrCodeUnknownTable, `unknown table "commits"`},
		{"unknown column", "SELECT author FROM instructions", ErrCodeUnknownColumn, `unknown column "author"`},
		{"unknown function", "SELECT m_nope() FROM instructions", ErrCodeUnknownFunction, "unknown function m_nope"},
		{"too many arguments", "SELECT m_add(m_any_inst(), m_any_inst(), m_any_inst()) FROM instructions", ErrCodeArity, "expects 0 to 2 arguments, got 3"},
		{"too few arguments", "SELECT m_inst(instruction) FROM instructions", ErrCodeArity, "expects 2 arguments, got 1"},
		{"argument type", "SELECT m_inst(instruction, 'x') FROM instructions", ErrCodeArgumentType, "argument 2 of m_inst: expected InstMatcher, got Text"},
		{"null for required", "SELECT m_specific_int(NULL) FROM instructions", ErrCodeArgumentType, "expected Int, got Null"},
		{"bang on text", "SELECT * FROM instructions WHERE !function_name", ErrCodeOperatorType, "operator ! cannot be applied to Text"},
		{"mixed logical", "SELECT * FROM instructions WHERE true && m_add()", ErrCodeOperatorType, "operator && cannot be applied to Boolean and InstMatcher"},
		{"where not boolean", "SELECT * FROM instructions WHERE m_add()", ErrCodeOperatorType, "WHERE expects Boolean, got InstMatcher"},
		{"incomparable", "SELECT * FROM instructions WHERE function_name < 3", ErrCodeOperatorType, "cannot compare Text < Int"},
		{"ordered instructions", "SELECT * FROM instructions WHERE instruction < instruction", ErrCodeOperatorType, "cannot compare"},
		{"aggregate in where", "SELECT * FROM instructions WHERE count(*) > 1", ErrCodeAggregate, "not allowed in WHERE"},
		{"nested aggregate", "SELECT max(count(*)) FROM instructions", ErrCodeAggregate, "cannot be nested"},
		{"aggregate arity", "SELECT count(file_name, function_name) FROM instructions", ErrCodeArity, "count expects 1 argument, got 2"},
		{"min of instructions", "SELECT min(instruction) FROM instructions", ErrCodeArgumentType, "orderable"},
		{"fold failure", "SELECT m_dbg_line(-1) FROM instructions", ErrCodeFold, "evaluating m_dbg_line"},
		{"group by violation", "SELECT function_name, count(*) FROM instructions GROUP BY file_name", ErrCodeGroupBy, `"function_name"`},
		{"negative limit", "SELECT * FROM instructions LIMIT -1", ErrCodeLimit, "LIMIT must not be negative"},
		{"mixed array", "SELECT m_extract_value(m_any_inst(), [0, 'a']) FROM instructions", ErrCodeArgumentType, "array element 2"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			stmt, err := llql.ParseStatement(tt.src)
			require.NoError(t, err)

			_, err = Compile(stmt, builtin.Default(), DefaultSchema())

			var ce *CompileError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.code, ce.Code)
			assert.Contains(t, ce.Message, tt.msg)
			assert.True(t, IsCompileError(err))
		})
	}
}

func TestCompile_FoldsConstantCalls(t *testing.T) {
	stmt, err := llql.ParseStatement(
		"SELECT m_c_add(m_const_int(), m_any_inst()), upper('x'), m_inst(instruction, m_return()), [1, 2] FROM instructions")
	require.NoError(t, err)

	plan, err := Compile(stmt, builtin.Default(), DefaultSchema())
	require.NoError(t, err)

	require.Len(t, plan.items, 4)
	matcherConst, ok := plan.items[0].(constNode)
	require.True(t, ok, "constructor call with constant arguments is folded")
	assert.IsType(t, value.InstMatcherValue{}, matcherConst.v)

	assert.Equal(t, constNode{v: value.TextValue("X")}, plan.items[1])

	call, ok := plan.items[2].(callNode)
	require.True(t, ok, "evaluators are never folded")
	assert.Equal(t, "m_inst", call.fn.Name)
	assert.IsType(t, constNode{}, call.args[1], "the matcher argument is folded once")

	arr, ok := plan.items[3].(constNode)
	require.True(t, ok)
	assert.Equal(t, value.Array(value.Int), arr.v.Type())
}

func TestEngine_RunMetadata(t *testing.T) {
	e := newTestEngine(t,
		WithClock(testutil.NewStepClock(time.Millisecond)),
		WithRunIDGenerator(testutil.NewFixedRunIDGenerator("run")),
		WithSequence(41),
	)

	runs, err := e.Query(context.Background(), "select * from instructions limit 1; SELECT count(*) FROM instructions")
	require.NoError(t, err)
	require.Len(t, runs, 2)

	first := runs[0]
	assert.Equal(t, "run-0001", first.ID)
	assert.Equal(t, int64(42), first.Seq)
	assert.Equal(t, "SELECT * FROM instructions LIMIT 1", first.Query)
	assert.Equal(t, 2*time.Millisecond, first.Front, "parse and compile")
	assert.Equal(t, time.Millisecond, first.Engine)
	assert.Equal(t, 1, first.Result.Len())

	second := runs[1]
	assert.Equal(t, "run-0002", second.ID)
	assert.Equal(t, int64(43), second.Seq)
	assert.Equal(t, time.Millisecond, second.Front)
	assert.Equal(t, [][]string{{"8"}}, texts(second.Result))
}

func TestEngine_StopsAtFirstFailure(t *testing.T) {
	e := newTestEngine(t)

	runs, err := e.Query(context.Background(),
		"SELECT * FROM instructions; SELECT nope FROM instructions; SELECT * FROM instructions")

	require.Error(t, err)
	require.Len(t, runs, 2)
	assert.NoError(t, runs[0].Err)
	assert.Nil(t, runs[1].Result)
	assert.Equal(t, err, runs[1].Err)
	assert.True(t, IsCompileError(err))
}

func TestEngine_SyntaxError(t *testing.T) {
	e := newTestEngine(t)

	runs, err := e.Query(context.Background(), "SELECT FROM")

	assert.Nil(t, runs)
	var se *llql.SyntaxError
	assert.ErrorAs(t, err, &se)
}

func TestExecute_Canceled(t *testing.T) {
	e := newTestEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := e.Query(ctx, "SELECT * FROM instructions")

	var re *RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeCanceled, re.Code)
	assert.ErrorIs(t, err, context.Canceled)
}

type failingProvider struct{ err error }

func (p failingProvider) Scan(context.Context, *Table, func(Row) error) error { return p.err }

func TestExecute_ScanFailure(t *testing.T) {
	boom := errors.New("disk on fire")
	e := New(failingProvider{err: boom})

	_, err := e.Query(context.Background(), "SELECT * FROM instructions")

	var re *RuntimeError
	require.ErrorAs(t, err, &re)
	assert.Equal(t, ErrCodeScanFailed, re.Code)
	assert.ErrorIs(t, err, boom)
	assert.True(t, IsRuntimeError(err))
}

func TestIRDataProvider_UnknownTable(t *testing.T) {
	p := NewIRDataProvider(testutil.Session(t, subModule))
	err := p.Scan(context.Background(), &Table{Name: "commits"}, func(Row) error { return nil })
	assert.Error(t, err)
}

func TestSequence(t *testing.T) {
	s := NewSequenceAt(10)
	assert.Equal(t, int64(11), s.Next())
	assert.Equal(t, int64(11), s.Current())
	assert.Equal(t, int64(1), NewSequence().Next())
}

func TestUUIDv7Generator(t *testing.T) {
	g := UUIDv7Generator{}
	a, b := g.Generate(), g.Generate()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
	assert.Less(t, a, b, "v7 ids sort by creation time")
}

func TestRowKey(t *testing.T) {
	one, keyed := rowKey([]value.Value{value.IntValue(1), value.TextValue("a")})
	require.True(t, keyed)
	oneFloat, _ := rowKey([]value.Value{value.FloatValue(1), value.TextValue("a")})
	assert.Equal(t, one, oneFloat)

	_, keyed = rowKey([]value.Value{value.TextValue("a"), value.InstMatcherValue{Matcher: matcher.NewAny()}})
	assert.False(t, keyed)
	_, keyed = rowKey([]value.Value{value.TypeMatcherValue{Matcher: matcher.NewAnyType()}})
	assert.False(t, keyed)
}
