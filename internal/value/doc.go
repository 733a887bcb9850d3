// Package value is the type vocabulary and value model of the query
// language.
//
// DataType and Value are sealed interfaces. Besides the usual scalars the
// vocabulary has three domain types: Inst (an IR node, printed as its
// source text), InstMatcher and TypeMatcher. Matcher values carry an
// immutable matcher tree and support only the logical operators, which
// build new trees through the matcher package's named combinators.
package value
