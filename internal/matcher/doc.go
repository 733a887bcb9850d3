// Package matcher implements structural predicates over LLVM IR nodes.
//
// A Matcher (or TypeMatcher) is an immutable tree built from a closed set
// of variants. Trees are evaluated by Match and MatchType, each a single
// exhaustive type switch. Subtrees are shared by pointer, so combining two
// trees never copies them, and one tree can be evaluated concurrently
// against any number of nodes.
//
// Every evaluator checks the node's opcode or kind before touching its
// operands. A nil node (for example a missing operand) matches only Any.
package matcher
