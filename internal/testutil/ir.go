package testutil

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/llql/internal/ir"
	"github.com/roach88/llql/internal/irtext"
)

// ParseIR parses a textual IR snippet, failing the test on syntax errors.
func ParseIR(t testing.TB, src string) *ir.Module {
	t.Helper()
	m, err := irtext.Parse("test.ll", []byte(src))
	require.NoError(t, err)
	return m
}

// Inst returns the instruction named name inside function fn.
func Inst(t testing.TB, m *ir.Module, fn, name string) *ir.Value {
	t.Helper()
	f := m.Function(fn)
	require.NotNil(t, f, "function @%s not found", fn)
	for _, b := range f.Blocks() {
		for _, inst := range b.Instructions() {
			if inst.Name() == name {
				return inst
			}
		}
	}
	t.Fatalf("instruction %%%s not found in @%s", name, fn)
	return nil
}

// NthInst returns the i-th instruction of fn in program order. It is the
// only way to reach unnamed instructions such as stores and terminators.
func NthInst(t testing.TB, m *ir.Module, fn string, i int) *ir.Value {
	t.Helper()
	f := m.Function(fn)
	require.NotNil(t, f, "function @%s not found", fn)
	for _, b := range f.Blocks() {
		if i < len(b.Instructions()) {
			return b.Instructions()[i]
		}
		i -= len(b.Instructions())
	}
	t.Fatalf("@%s has too few instructions", fn)
	return nil
}

// Session parses each snippet into its own module, named file0.ll,
// file1.ll, ... in order.
func Session(t testing.TB, srcs ...string) *ir.Session {
	t.Helper()
	mods := make([]*ir.Module, 0, len(srcs))
	for i, src := range srcs {
		m, err := irtext.Parse(fmt.Sprintf("file%d.ll", i), []byte(src))
		require.NoError(t, err)
		mods = append(mods, m)
	}
	return ir.NewSession(mods...)
}
