// Package builtin is the registry of functions callable from queries.
//
// Every entry pairs a signature, which the engine's type checker validates
// calls against, with the Go function that implements it. Matcher
// constructors are pure and run at compile time; only evaluators such as
// m_inst ever see a live IR node.
package builtin

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/roach88/llql/internal/value"
)

// Kind classifies a builtin for the engine's constant folder.
type Kind uint8

const (
	// KindConstructor builds a matcher tree from constant arguments.
	KindConstructor Kind = iota
	// KindEvaluator needs a row to run and is never folded.
	KindEvaluator
	// KindStandard is a pure helper over scalars.
	KindStandard
)

func (k Kind) String() string {
	switch k {
	case KindConstructor:
		return "constructor"
	case KindEvaluator:
		return "evaluator"
	case KindStandard:
		return "standard"
	}
	return "unknown"
}

// Signature declares parameter and return types. Optional parameters may
// only trail, and a Varargs parameter must be last.
type Signature struct {
	Params []value.DataType
	Return value.DataType
}

func (s Signature) String() string {
	params := make([]string, len(s.Params))
	for i, p := range s.Params {
		params[i] = p.String()
	}
	return "(" + strings.Join(params, ", ") + ") -> " + s.Return.String()
}

// MinArgs is the number of leading parameters that must be supplied.
func (s Signature) MinArgs() int {
	n := 0
	for _, p := range s.Params {
		switch p.(type) {
		case value.OptionalType, value.VarargsType:
			return n
		}
		n++
	}
	return n
}

// MaxArgs is the maximum number of arguments, or -1 when unbounded.
func (s Signature) MaxArgs() int {
	if len(s.Params) > 0 {
		if _, ok := s.Params[len(s.Params)-1].(value.VarargsType); ok {
			return -1
		}
	}
	return len(s.Params)
}

// ParamFor returns the declared type of argument i, following a trailing
// Varargs parameter.
func (s Signature) ParamFor(i int) (value.DataType, bool) {
	if i < len(s.Params) {
		return s.Params[i], true
	}
	if n := len(s.Params); n > 0 {
		if va, ok := s.Params[n-1].(value.VarargsType); ok {
			return va, true
		}
	}
	return nil, false
}

// Func implements a builtin. Arguments have already been type checked;
// omitted optional arguments are simply absent.
type Func func(args []value.Value) (value.Value, error)

// Builtin is one registry entry.
type Builtin struct {
	Name      string
	Kind      Kind
	Signature Signature
	Call      Func
}

// Registry maps function names to builtins. It is read-only once built and
// safe for concurrent lookups.
type Registry struct {
	byName map[string]*Builtin
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Builtin)}
}

// Register adds b. Names are case-sensitive and must be unique.
func (r *Registry) Register(b Builtin) error {
	if b.Name == "" || b.Call == nil || b.Signature.Return == nil {
		return fmt.Errorf("builtin %q: incomplete definition", b.Name)
	}
	if _, dup := r.byName[b.Name]; dup {
		return fmt.Errorf("builtin %q: already registered", b.Name)
	}
	if err := checkSignature(b.Signature); err != nil {
		return fmt.Errorf("builtin %q: %w", b.Name, err)
	}
	r.byName[b.Name] = &b
	return nil
}

func (r *Registry) mustRegister(b Builtin) {
	if err := r.Register(b); err != nil {
		panic(err)
	}
}

func checkSignature(s Signature) error {
	optional := false
	for i, p := range s.Params {
		switch p.(type) {
		case value.VarargsType:
			if i != len(s.Params)-1 {
				return fmt.Errorf("varargs parameter %d is not last", i)
			}
		case value.OptionalType:
			optional = true
		default:
			if optional {
				return fmt.Errorf("required parameter %d follows an optional one", i)
			}
		}
	}
	return nil
}

// Lookup returns the builtin called name.
func (r *Registry) Lookup(name string) (*Builtin, bool) {
	b, ok := r.byName[name]
	return b, ok
}

// Names returns every registered name in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Signatures returns a copy of the name to signature table.
func (r *Registry) Signatures() map[string]Signature {
	out := make(map[string]Signature, len(r.byName))
	for name, b := range r.byName {
		out[name] = b.Signature
	}
	return out
}

// Functions returns a copy of the name to implementation table.
func (r *Registry) Functions() map[string]Func {
	out := make(map[string]Func, len(r.byName))
	for name, b := range r.byName {
		out[name] = b.Call
	}
	return out
}

// Len returns the number of registered builtins.
func (r *Registry) Len() int { return len(r.byName) }

// Default returns the process-wide registry holding every builtin. It is
// built on first use.
var Default = sync.OnceValue(func() *Registry {
	r := NewRegistry()
	registerTypeMatchers(r)
	registerBinaryMatchers(r)
	registerCompareMatchers(r)
	registerCastMatchers(r)
	registerCallMatchers(r)
	registerConstantMatchers(r)
	registerOtherMatchers(r)
	registerUsageMatchers(r)
	registerCombinators(r)
	registerEvaluators(r)
	registerStandard(r)
	return r
})
