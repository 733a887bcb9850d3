// Package engine type checks and evaluates llql statements over the rows of
// a DataProvider.
//
// ARCHITECTURE:
//
// A statement goes through two phases:
//
//	Compile: queryir.Select → Plan   (validation, name resolution, type checking, folding)
//	Execute: Plan × DataProvider → Result
//
// Compile resolves every function call against the builtin registry and
// every column against the table schema. Calls to constructor and standard
// builtins whose arguments are all constants are evaluated once, so a
// matcher tree such as m_c_add(m_const_int(), m_any_inst()) is built at
// compile time and shared by every row.
//
// Execute streams rows from the provider, filters with WHERE, groups and
// aggregates (count, min, max), then orders, deduplicates and pages the
// output. Evaluation never mutates the plan, so one plan may be executed
// concurrently.
//
// ERRORS:
//
// Compile failures are *CompileError values carrying a stable code (E200
// through E209) and the source position of the offending expression.
// Failures while reading rows or calling evaluator builtins are
// *RuntimeError values.
//
// ORDERING:
//
// Rows are produced in provider order: modules in load order, then
// functions, blocks and instructions in source order. ORDER BY sorts
// stably, so ties keep provider order and output is deterministic.
package engine
