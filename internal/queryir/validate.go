package queryir

import (
	"fmt"
	"strings"
)

// IssueKind classifies a validation issue.
type IssueKind uint8

const (
	IssueUnknownTable IssueKind = iota
	IssueAggregateMisuse
	IssueGroupBy
	IssueInvalidLimit
)

// Issue is one structural problem found by Validate.
type Issue struct {
	Kind    IssueKind
	Pos     Pos
	Message string
}

// ValidationResult contains the outcome of structural validation.
type ValidationResult struct {
	// Issues lists every problem found, in source order of discovery.
	// Empty means the statement is structurally valid.
	Issues []Issue
}

// OK reports whether validation found no issues.
func (r ValidationResult) OK() bool { return len(r.Issues) == 0 }

// Validate checks the rules that depend only on the shape of stmt:
//
//   - FROM must name one of tables (compared case-insensitively)
//   - LIMIT and OFFSET must not be negative
//   - WHERE must not contain aggregates
//   - aggregates must not nest
//   - with GROUP BY (or any aggregate), every non-aggregated select item and
//     ORDER BY key must appear in GROUP BY
//
// Column existence and types are checked later against the schema.
func Validate(stmt Statement, tables ...string) ValidationResult {
	v := &validator{}
	switch s := stmt.(type) {
	case Select:
		v.validateSelect(&s, tables)
	case *Select:
		v.validateSelect(s, tables)
	case nil:
		v.addIssue(IssueUnknownTable, Pos{}, "empty statement")
	}
	return ValidationResult{Issues: v.issues}
}

type validator struct {
	issues []Issue
}

func (v *validator) addIssue(kind IssueKind, pos Pos, format string, args ...any) {
	v.issues = append(v.issues, Issue{Kind: kind, Pos: pos, Message: fmt.Sprintf(format, args...)})
}

func (v *validator) validateSelect(s *Select, tables []string) {
	known := false
	for _, t := range tables {
		if strings.EqualFold(t, s.From) {
			known = true
			break
		}
	}
	if !known {
		v.addIssue(IssueUnknownTable, s.FromPos, "unknown table %q", s.From)
	}

	if s.Limit != nil && *s.Limit < 0 {
		v.addIssue(IssueInvalidLimit, s.Pos, "LIMIT must not be negative, got %d", *s.Limit)
	}
	if s.Offset != nil && *s.Offset < 0 {
		v.addIssue(IssueInvalidLimit, s.Pos, "OFFSET must not be negative, got %d", *s.Offset)
	}

	if s.Where != nil && HasAggregate(s.Where) {
		v.addIssue(IssueAggregateMisuse, s.Where.Position(), "aggregate functions are not allowed in WHERE")
	}
	for _, g := range s.GroupBy {
		if HasAggregate(g) {
			v.addIssue(IssueAggregateMisuse, g.Position(), "aggregate functions are not allowed in GROUP BY")
		}
	}

	for _, it := range s.Items {
		v.checkNesting(it.Expr, false)
	}
	for _, o := range s.OrderBy {
		v.checkNesting(o.Expr, false)
	}

	if !IsAggregateQuery(s) {
		return
	}
	if s.Star {
		v.addIssue(IssueGroupBy, s.Pos, "SELECT * cannot be combined with GROUP BY or aggregates")
		return
	}
	grouped := make(map[string]bool, len(s.GroupBy))
	for _, g := range s.GroupBy {
		grouped[Format(g)] = true
	}
	for _, it := range s.Items {
		v.checkGrouped(it.Expr, grouped, aliasSet(s))
	}
	for _, o := range s.OrderBy {
		v.checkGrouped(o.Expr, grouped, orderAliases(s))
	}
}

// IsAggregateQuery reports whether s groups rows: it has GROUP BY or an
// aggregate in its select list or ORDER BY.
func IsAggregateQuery(s *Select) bool {
	if len(s.GroupBy) > 0 {
		return true
	}
	for _, it := range s.Items {
		if HasAggregate(it.Expr) {
			return true
		}
	}
	for _, o := range s.OrderBy {
		if HasAggregate(o.Expr) {
			return true
		}
	}
	return false
}

// orderAliases holds every select alias. Each item has already been
// checked, so ORDER BY may name any of them.
func orderAliases(s *Select) map[string]bool {
	out := make(map[string]bool)
	for _, it := range s.Items {
		if it.Alias != "" {
			out[it.Alias] = true
		}
	}
	return out
}

func aliasSet(s *Select) map[string]bool {
	out := make(map[string]bool)
	for _, it := range s.Items {
		if it.Alias != "" && HasAggregate(it.Expr) {
			out[it.Alias] = true
		}
	}
	return out
}

// checkNesting rejects an aggregate whose arguments contain another
// aggregate.
func (v *validator) checkNesting(e Expr, inAggregate bool) {
	switch x := e.(type) {
	case CountStar:
		if inAggregate {
			v.addIssue(IssueAggregateMisuse, x.At, "aggregate functions cannot be nested")
		}
	case Call:
		agg := IsAggregate(x.Name)
		if agg && inAggregate {
			v.addIssue(IssueAggregateMisuse, x.At, "aggregate functions cannot be nested")
			return
		}
		for _, a := range x.Args {
			v.checkNesting(a, inAggregate || agg)
		}
	case Array:
		for _, it := range x.Items {
			v.checkNesting(it, inAggregate)
		}
	case Not:
		v.checkNesting(x.Operand, inAggregate)
	case Logical:
		v.checkNesting(x.LHS, inAggregate)
		v.checkNesting(x.RHS, inAggregate)
	case Compare:
		v.checkNesting(x.LHS, inAggregate)
		v.checkNesting(x.RHS, inAggregate)
	}
}

// checkGrouped requires every column reference outside an aggregate to be
// covered by a GROUP BY expression. Aliases of aggregated items may be
// referenced from ORDER BY.
func (v *validator) checkGrouped(e Expr, grouped, aliases map[string]bool) {
	if grouped[Format(e)] {
		return
	}
	switch x := e.(type) {
	case Column:
		if aliases[x.Name] {
			return
		}
		v.addIssue(IssueGroupBy, x.At, "column %q must appear in GROUP BY or be used in an aggregate function", x.Name)
	case Call:
		if IsAggregate(x.Name) {
			return
		}
		for _, a := range x.Args {
			v.checkGrouped(a, grouped, aliases)
		}
	case Array:
		for _, it := range x.Items {
			v.checkGrouped(it, grouped, aliases)
		}
	case Not:
		v.checkGrouped(x.Operand, grouped, aliases)
	case Logical:
		v.checkGrouped(x.LHS, grouped, aliases)
		v.checkGrouped(x.RHS, grouped, aliases)
	case Compare:
		v.checkGrouped(x.LHS, grouped, aliases)
		v.checkGrouped(x.RHS, grouped, aliases)
	}
}
