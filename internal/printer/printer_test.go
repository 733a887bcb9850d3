package printer

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/llql/internal/engine"
	"github.com/roach88/llql/internal/testutil"
	"github.com/roach88/llql/internal/value"
)

func sampleResult(t *testing.T) *engine.Result {
	t.Helper()
	m := testutil.ParseIR(t, "define void @f() {\nentry:\n  ret void\n}\n")
	ret := testutil.NthInst(t, m, "f", 0)
	return &engine.Result{
		Columns: []string{"function_name", "n", "instruction", "ratio"},
		Rows: [][]value.Value{
			{value.TextValue("main"), value.IntValue(12), value.InstValue{Node: ret}, value.FloatValue(0.25)},
			{value.TextValue("helper"), value.IntValue(3), value.NullValue{}, value.FloatValue(1.5)},
		},
	}
}

func render(t *testing.T, p Printer, r *engine.Result) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, p.Print(&buf, r))
	return buf.Bytes()
}

func newGoldie(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func TestPrinters_Golden(t *testing.T) {
	tests := []struct {
		name    string
		printer Printer
	}{
		{"table", &TablePrinter{}},
		{"csv", CSVPrinter{}},
		{"json", JSONPrinter{}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			newGoldie(t).Assert(t, tt.name, render(t, tt.printer, sampleResult(t)))
		})
	}
}

func TestTablePrinter_Paged(t *testing.T) {
	p := &TablePrinter{Pagination: true, PageSize: 1, In: strings.NewReader("x\nn\nq\n")}
	newGoldie(t).Assert(t, "table_paged", render(t, p, sampleResult(t)))
}

func TestTablePrinter_PaginationNotNeeded(t *testing.T) {
	paged := &TablePrinter{Pagination: true, PageSize: 10, In: strings.NewReader("")}
	plain := &TablePrinter{}

	assert.Equal(t, render(t, plain, sampleResult(t)), render(t, paged, sampleResult(t)))
}

func TestTablePrinter_PagingStopsAtEndOfInput(t *testing.T) {
	p := &TablePrinter{Pagination: true, PageSize: 1, In: strings.NewReader("p\n")}

	out := string(render(t, p, sampleResult(t)))

	assert.Contains(t, out, "Page 1/2")
	assert.NotContains(t, out, "Page 2/2", "p on the first page stays put")
	assert.Equal(t, 2, strings.Count(out, "Enter 'n'"))
}

func TestTablePrinter_SharedInputKeepsUnreadLines(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("n\nq\nafter\n"))
	p := &TablePrinter{Pagination: true, PageSize: 1, In: in}

	out := string(render(t, p, sampleResult(t)))
	assert.Contains(t, out, "Page 2/2")

	rest, err := in.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "after\n", rest)
}

func TestTablePrinter_ReusesReaderAcrossCalls(t *testing.T) {
	p := &TablePrinter{Pagination: true, PageSize: 1, In: strings.NewReader("q\nn\nq\n")}

	first := string(render(t, p, sampleResult(t)))
	assert.NotContains(t, first, "Page 2/2")

	second := string(render(t, p, sampleResult(t)))
	assert.Contains(t, second, "Page 2/2")
}

func TestTablePrinter_NoColumns(t *testing.T) {
	assert.Empty(t, render(t, &TablePrinter{}, &engine.Result{}))
}

func TestMarshalResult_Canonical(t *testing.T) {
	r := &engine.Result{
		Columns: []string{"z", "é", "a", "a"},
		Rows: [][]value.Value{{
			value.TextValue("<b>&e\u0301"),
			value.TextValue("line\u2028sep\\u2028"),
			value.NewArray(value.IntValue(0), value.BoolValue(false)),
			value.IntValue(99),
		}},
	}

	out, err := MarshalResult(r)
	require.NoError(t, err)

	assert.Equal(t, "[{\"a\":[0,false],\"z\":\"<b>&é\",\"é\":\"line\u2028sep\\\\u2028\"}]", string(out))
}

func TestMarshalResult_Empty(t *testing.T) {
	out, err := MarshalResult(&engine.Result{Columns: []string{"a"}})
	require.NoError(t, err)
	assert.Equal(t, "[]", string(out))
}

func TestNew(t *testing.T) {
	for _, f := range Formats {
		p, err := New(f, Options{PageSize: 5})
		require.NoError(t, err, f)
		assert.NotNil(t, p)
	}

	p, err := New("", Options{Pagination: true, PageSize: 7})
	require.NoError(t, err)
	assert.Equal(t, &TablePrinter{Pagination: true, PageSize: 7}, p)

	_, err = New("yaml", Options{})
	assert.ErrorContains(t, err, `unknown output format "yaml"`)
}
