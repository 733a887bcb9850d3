package builtin

import (
	"strings"
	"unicode/utf8"

	"github.com/roach88/llql/internal/matcher"
	"github.com/roach88/llql/internal/value"
)

func evaluator(r *Registry, name string, sig Signature, fn Func) {
	r.mustRegister(Builtin{Name: name, Kind: KindEvaluator, Signature: sig, Call: fn})
}

func standard(r *Registry, name string, sig Signature, fn Func) {
	r.mustRegister(Builtin{Name: name, Kind: KindStandard, Signature: sig, Call: fn})
}

func registerEvaluators(r *Registry) {
	mInstSig := Signature{Params: []value.DataType{value.Inst, value.InstMatcher}, Return: value.Bool}
	evaluator(r, "m_inst", mInstSig, func(args []value.Value) (value.Value, error) {
		node, err := required[value.InstValue](args, 0)
		if err != nil {
			return nil, err
		}
		m, err := reqMatcher(args, 1)
		if err != nil {
			return nil, err
		}
		return value.BoolValue(matcher.Match(m, node.Node)), nil
	})

	evaluator(r, "inst_opcode", Signature{Params: []value.DataType{value.Inst}, Return: value.Text},
		func(args []value.Value) (value.Value, error) {
			node, err := required[value.InstValue](args, 0)
			if err != nil {
				return nil, err
			}
			if node.Node == nil {
				return value.NullValue{}, nil
			}
			return value.TextValue(node.Node.Opcode().String()), nil
		})

	evaluator(r, "inst_uses", Signature{Params: []value.DataType{value.Inst}, Return: value.Int},
		func(args []value.Value) (value.Value, error) {
			node, err := required[value.InstValue](args, 0)
			if err != nil {
				return nil, err
			}
			if node.Node == nil {
				return value.IntValue(0), nil
			}
			n := 0
			for u := node.Node.FirstUse(); u != nil; u = u.Next() {
				n++
			}
			return value.IntValue(n), nil
		})
}

func registerStandard(r *Registry) {
	textToText := func(fn func(string) string) Func {
		return func(args []value.Value) (value.Value, error) {
			s, ok, err := arg[value.TextValue](args, 0)
			if err != nil || !ok {
				return value.NullValue{}, err
			}
			return value.TextValue(fn(string(s))), nil
		}
	}
	unary := Signature{Params: []value.DataType{value.Text}, Return: value.Text}
	standard(r, "lower", unary, textToText(strings.ToLower))
	standard(r, "upper", unary, textToText(strings.ToUpper))

	standard(r, "len", Signature{Params: []value.DataType{value.Text}, Return: value.Int},
		func(args []value.Value) (value.Value, error) {
			s, ok, err := arg[value.TextValue](args, 0)
			if err != nil || !ok {
				return value.NullValue{}, err
			}
			return value.IntValue(utf8.RuneCountInString(string(s))), nil
		})

	standard(r, "concat", Signature{Params: []value.DataType{value.Varargs(value.Any)}, Return: value.Text},
		func(args []value.Value) (value.Value, error) {
			var b strings.Builder
			for _, a := range args {
				if _, null := a.(value.NullValue); null {
					continue
				}
				b.WriteString(a.Literal())
			}
			return value.TextValue(b.String()), nil
		})
}
