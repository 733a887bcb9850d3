package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/roach88/llql/internal/value"
)

// Result is the output of one statement.
type Result struct {
	Columns []string
	Rows    [][]value.Value
}

// Len is the number of rows.
func (r *Result) Len() int { return len(r.Rows) }

// outRow is an output row with its sort keys.
type outRow struct {
	values []value.Value
	keys   []value.Value
}

// group accumulates the rows sharing one GROUP BY key.
type group struct {
	first Row
	state []aggState
}

type aggState struct {
	count int64
	best  value.Value
}

// Execute runs plan against provider.
func Execute(ctx context.Context, plan *Plan, provider DataProvider) (*Result, error) {
	var (
		out    []outRow
		groups []*group
		index  map[string]int
	)
	if plan.grouped {
		index = make(map[string]int)
	}

	err := provider.Scan(ctx, plan.Table, func(row Row) error {
		sc := &scope{row: row}
		if plan.where != nil {
			v, err := eval(plan.where, sc)
			if err != nil {
				return err
			}
			if !value.IsTruthy(v) {
				return nil
			}
		}
		if !plan.grouped {
			r, err := plan.project(sc)
			if err != nil {
				return err
			}
			out = append(out, r)
			return nil
		}

		keyVals := make([]value.Value, len(plan.groupBy))
		for i, g := range plan.groupBy {
			v, err := eval(g, sc)
			if err != nil {
				return err
			}
			keyVals[i] = v
		}
		key, keyed := rowKey(keyVals)
		gi, ok := index[key]
		if !keyed || !ok {
			gi = len(groups)
			if keyed {
				index[key] = gi
			}
			groups = append(groups, &group{first: row, state: make([]aggState, len(plan.aggs))})
		}
		return plan.accumulate(groups[gi], sc)
	})
	if err != nil {
		return nil, scanError(ctx, err)
	}

	if plan.grouped {
		// Aggregates without GROUP BY always produce one row.
		if len(groups) == 0 && len(plan.groupBy) == 0 {
			groups = append(groups, &group{state: make([]aggState, len(plan.aggs))})
		}
		for _, g := range groups {
			sc := &scope{row: g.first, aggs: plan.finish(g)}
			r, err := plan.project(sc)
			if err != nil {
				return nil, err
			}
			out = append(out, r)
		}
	}

	if len(plan.order) > 0 {
		slices.SortStableFunc(out, func(a, b outRow) int {
			for i, k := range plan.order {
				c := value.SortCompare(a.keys[i], b.keys[i])
				if k.desc {
					c = -c
				}
				if c != 0 {
					return c
				}
			}
			return 0
		})
	}

	if plan.distinct {
		seen := make(map[string]bool, len(out))
		out = slices.DeleteFunc(out, func(r outRow) bool {
			k, keyed := rowKey(r.values)
			if !keyed {
				return false
			}
			if seen[k] {
				return true
			}
			seen[k] = true
			return false
		})
	}

	out = page(out, plan.offset, plan.limit)

	res := &Result{Columns: plan.Columns, Rows: make([][]value.Value, len(out))}
	for i, r := range out {
		res.Rows[i] = r.values
	}
	return res, nil
}

// project evaluates the select list and ORDER BY keys.
func (p *Plan) project(sc *scope) (outRow, error) {
	var r outRow
	if p.star {
		r.values = slices.Clone(sc.row)
	} else {
		r.values = make([]value.Value, len(p.items))
		for i, it := range p.items {
			v, err := eval(it, sc)
			if err != nil {
				return r, err
			}
			r.values[i] = v
		}
	}
	if len(p.order) > 0 {
		r.keys = make([]value.Value, len(p.order))
		for i, k := range p.order {
			if k.output >= 0 {
				r.keys[i] = r.values[k.output]
				continue
			}
			v, err := eval(k.expr, sc)
			if err != nil {
				return r, err
			}
			r.keys[i] = v
		}
	}
	return r, nil
}

// accumulate folds one input row into the group's aggregate state. NULL
// arguments are ignored, as in SQL.
func (p *Plan) accumulate(g *group, sc *scope) error {
	for i, a := range p.aggs {
		st := &g.state[i]
		if a.kind == aggCountStar {
			st.count++
			continue
		}
		v, err := eval(a.arg, sc)
		if err != nil {
			return err
		}
		if isNull(v) {
			continue
		}
		switch a.kind {
		case aggCount:
			st.count++
		case aggMin:
			if st.best == nil || value.SortCompare(v, st.best) < 0 {
				st.best = v
			}
		case aggMax:
			if st.best == nil || value.SortCompare(v, st.best) > 0 {
				st.best = v
			}
		}
	}
	return nil
}

func (p *Plan) finish(g *group) []value.Value {
	vals := make([]value.Value, len(p.aggs))
	for i, a := range p.aggs {
		switch a.kind {
		case aggCountStar, aggCount:
			vals[i] = value.IntValue(g.state[i].count)
		default:
			if g.state[i].best == nil {
				vals[i] = value.NullValue{}
			} else {
				vals[i] = g.state[i].best
			}
		}
	}
	return vals
}

func page(rows []outRow, offset, limit int64) []outRow {
	n := int64(len(rows))
	if offset >= n {
		return nil
	}
	rows = rows[offset:]
	if limit >= 0 && limit < int64(len(rows)) {
		rows = rows[:limit]
	}
	return rows
}

// rowKey encodes values for grouping and DISTINCT. Instructions are keyed
// by identity, so two instructions with the same text stay distinct.
// Matcher values equal nothing, so a row holding one has no key and
// keyed is false.
func rowKey(vals []value.Value) (key string, keyed bool) {
	var b strings.Builder
	for _, v := range vals {
		switch x := v.(type) {
		case value.InstMatcherValue, value.TypeMatcherValue:
			return "", false
		case value.InstValue:
			fmt.Fprintf(&b, "I%p", x.Node)
		case value.IntValue, value.FloatValue:
			// 1 and 1.0 are equal, so they share a key.
			fmt.Fprintf(&b, "N%s", numberKey(x))
		default:
			fmt.Fprintf(&b, "%s:%q", v.Type(), v.Literal())
		}
		b.WriteByte(0)
	}
	return b.String(), true
}

func numberKey(v value.Value) string {
	switch x := v.(type) {
	case value.IntValue:
		return x.Literal()
	case value.FloatValue:
		if f := float64(x); f == float64(int64(f)) {
			return value.IntValue(int64(f)).Literal()
		}
		return x.Literal()
	}
	return v.Literal()
}

func scanError(ctx context.Context, err error) error {
	var re *RuntimeError
	switch {
	case errors.As(err, &re):
		return err
	case ctx.Err() != nil && errors.Is(err, ctx.Err()):
		return &RuntimeError{Code: ErrCodeCanceled, Message: "query canceled", Err: err}
	}
	return &RuntimeError{Code: ErrCodeScanFailed, Message: "reading rows", Err: err}
}
