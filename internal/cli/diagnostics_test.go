package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/roach88/llql/internal/engine"
	"github.com/roach88/llql/internal/irtext"
	"github.com/roach88/llql/internal/llql"
	"github.com/roach88/llql/internal/queryir"
)

func TestDiagnosticReporter(t *testing.T) {
	tests := []struct {
		name string
		src  string
		err  error
		want string
	}{
		{
			name: "syntax error with caret",
			src:  "SELECT FROM instructions",
			err:  &llql.SyntaxError{Pos: queryir.Pos{Line: 1, Column: 8}, Message: "expected expression, found FROM"},
			want: "error: 1:8: expected expression, found FROM\n" +
				"1 | SELECT FROM instructions\n" +
				"  |        ^\n",
		},
		{
			name: "compile error on second line",
			src:  "SELECT function_name\nFROM instructions WHERE m_nope()",
			err: &engine.CompileError{
				Code:    engine.ErrCodeUnknownFunction,
				Pos:     queryir.Pos{Line: 2, Column: 25},
				Message: "unknown function m_nope",
			},
			want: "error: 2:25: E202: unknown function m_nope\n" +
				"2 | FROM instructions WHERE m_nope()\n" +
				"  |                         ^\n",
		},
		{
			name: "tabs are kept",
			src:  "\tSELECT x",
			err:  &llql.SyntaxError{Pos: queryir.Pos{Line: 1, Column: 9}, Message: "bad"},
			want: "error: 1:9: bad\n" +
				"1 | \tSELECT x\n" +
				"  | \t       ^\n",
		},
		{
			name: "position outside source",
			src:  "SELECT x",
			err:  &llql.SyntaxError{Pos: queryir.Pos{Line: 3, Column: 1}, Message: "unexpected end of input"},
			want: "error: 3:1: unexpected end of input\n",
		},
		{
			name: "runtime error",
			src:  "SELECT x FROM instructions",
			err:  &engine.RuntimeError{Code: engine.ErrCodeCanceled, Message: "query canceled"},
			want: "error: CANCELED: query canceled\n",
		},
		{
			name: "joined module errors",
			err: errors.Join(
				&irtext.SyntaxError{File: "a.ll", Line: 2, Column: 3, Message: "expected instruction"},
				&irtext.SyntaxError{File: "a.ll", Line: 7, Column: 1, Message: "unexpected end of file"},
			),
			want: "error: a.ll:2:3: expected instruction\n" +
				"error: a.ll:7:1: unexpected end of file\n",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			NewDiagnosticReporter(buf).Report(tt.src, tt.err)
			assert.Equal(t, tt.want, buf.String())
		})
	}
}

func TestDiagnosticReporter_NilError(t *testing.T) {
	buf := &bytes.Buffer{}
	NewDiagnosticReporter(buf).Report("SELECT x", nil)
	assert.Empty(t, buf.String())
}
