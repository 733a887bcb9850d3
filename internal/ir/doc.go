// Package ir is the in-memory model of LLVM IR modules queried by llql.
//
// The matcher engine sees IR only through the Node interface, a read-only
// accessor capability implemented by *Value. Modules are built by the
// textual parser (package irtext) through the constructors in builder.go,
// linked once to populate use-lists, and then owned by a Session.
//
// Key constraints:
//   - ir imports nothing internal; every other package may import ir
//   - values are immutable after Module.Link
//   - every Node accessor is total and never panics on a malformed node
package ir
