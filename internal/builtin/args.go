package builtin

import (
	"fmt"

	"fortio.org/safecast"

	"github.com/roach88/llql/internal/matcher"
	"github.com/roach88/llql/internal/value"
)

// arg returns argument i as T. ok is false when the argument was omitted
// or is NULL; a value of another type is an error.
func arg[T value.Value](args []value.Value, i int) (v T, ok bool, err error) {
	if i >= len(args) {
		return v, false, nil
	}
	if _, isNull := args[i].(value.NullValue); isNull {
		return v, false, nil
	}
	v, ok = args[i].(T)
	if !ok {
		return v, false, fmt.Errorf("argument %d: expected %T, got %s", i+1, v, args[i].Type())
	}
	return v, true, nil
}

// required is arg for parameters that must be present.
func required[T value.Value](args []value.Value, i int) (T, error) {
	v, ok, err := arg[T](args, i)
	if err != nil {
		return v, err
	}
	if !ok {
		return v, fmt.Errorf("argument %d: missing", i+1)
	}
	return v, nil
}

// optMatcher returns argument i as a node matcher, nil when omitted.
func optMatcher(args []value.Value, i int) (matcher.Matcher, error) {
	v, ok, err := arg[value.InstMatcherValue](args, i)
	if err != nil || !ok {
		return nil, err
	}
	return v.Matcher, nil
}

func reqMatcher(args []value.Value, i int) (matcher.Matcher, error) {
	v, err := required[value.InstMatcherValue](args, i)
	return v.Matcher, err
}

func reqTypeMatcher(args []value.Value, i int) (matcher.TypeMatcher, error) {
	v, err := required[value.TypeMatcherValue](args, i)
	return v.Matcher, err
}

func optTypeMatcher(args []value.Value, i int) (matcher.TypeMatcher, error) {
	v, ok, err := arg[value.TypeMatcherValue](args, i)
	if err != nil || !ok {
		return nil, err
	}
	return v.Matcher, nil
}

func optText(args []value.Value, i int) (*string, error) {
	v, ok, err := arg[value.TextValue](args, i)
	if err != nil || !ok {
		return nil, err
	}
	s := string(v)
	return &s, nil
}

// narrow converts argument i to a narrower integer type, rejecting values
// that do not fit.
func narrow[T int | uint32 | uint64](args []value.Value, i int) (T, error) {
	v, err := required[value.IntValue](args, i)
	if err != nil {
		return 0, err
	}
	n, err := safecast.Conv[T](int64(v))
	if err != nil {
		return 0, fmt.Errorf("argument %d: %d out of range: %w", i+1, v, err)
	}
	return n, nil
}

// matchers collects arguments from index from onward as node matchers.
func matchers(args []value.Value, from int) ([]matcher.Matcher, error) {
	out := make([]matcher.Matcher, 0, len(args)-min(from, len(args)))
	for i := from; i < len(args); i++ {
		m, err := reqMatcher(args, i)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func inst(m matcher.Matcher) value.Value { return value.InstMatcherValue{Matcher: m} }

func typ(m matcher.TypeMatcher) value.Value { return value.TypeMatcherValue{Matcher: m} }

// Common signatures.
var (
	noParams   = Signature{Return: value.InstMatcher}
	binarySig  = Signature{Params: []value.DataType{value.Optional(value.InstMatcher), value.Optional(value.InstMatcher)}, Return: value.InstMatcher}
	castSig    = Signature{Params: []value.DataType{value.Optional(value.InstMatcher)}, Return: value.InstMatcher}
	unarySig   = Signature{Params: []value.DataType{value.InstMatcher}, Return: value.InstMatcher}
	pairSig    = Signature{Params: []value.DataType{value.InstMatcher, value.InstMatcher}, Return: value.InstMatcher}
	naryArgSig = Signature{Params: []value.DataType{value.InstMatcher, value.Varargs(value.InstMatcher)}, Return: value.InstMatcher}
	typeSig    = Signature{Return: value.TypeMatcher}
	intSig     = Signature{Params: []value.DataType{value.Int}, Return: value.InstMatcher}
	textSig    = Signature{Params: []value.DataType{value.Text}, Return: value.InstMatcher}
	optTextSig = Signature{Params: []value.DataType{value.Optional(value.Text)}, Return: value.InstMatcher}
)

// constant registers a parameterless matcher constructor.
func constant(r *Registry, name string, m matcher.Matcher) {
	r.mustRegister(Builtin{
		Name:      name,
		Kind:      KindConstructor,
		Signature: noParams,
		Call:      func([]value.Value) (value.Value, error) { return inst(m), nil },
	})
}

func constructor(r *Registry, name string, sig Signature, fn Func) {
	r.mustRegister(Builtin{Name: name, Kind: KindConstructor, Signature: sig, Call: fn})
}
