// Package queryir is the syntax tree of the query language and its
// structural validation.
//
// ARCHITECTURE:
//
// The tree sits between the parser and the engine:
//
//	[query text] → llql.Parse → [queryir.Statement] → engine.Compile → [plan]
//
// queryir knows nothing about builtin signatures or column types; those are
// the engine's concern. Validate only enforces rules that can be decided
// from the shape of the tree (which table is named, where aggregates
// appear, what LIMIT says).
//
// SEALED INTERFACES:
//
// Statement and Expr are sealed interfaces using the marker method pattern.
// Only types in this package implement them, so the engine's type switches
// are exhaustive:
//
//	switch e := expr.(type) {
//	case Literal:
//	case Column:
//	case Call:
//	...
//	}
//
// LITERALS:
//
// Literal values are value.Value, the same representation the engine
// evaluates with, so constant folding needs no conversion step.
package queryir
