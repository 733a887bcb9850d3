package testutil

import "fmt"

// FixedRunIDGenerator hands out predictable run ids for history tests.
//
// Ids have the form "<prefix>-0001", "<prefix>-0002", ... so golden output
// and store assertions stay stable across runs.
//
// Thread-safety: not safe for concurrent use; tests drive it from one
// goroutine.
type FixedRunIDGenerator struct {
	prefix string
	n      int
}

// NewFixedRunIDGenerator returns a generator using prefix, or "run" when
// prefix is empty.
func NewFixedRunIDGenerator(prefix string) *FixedRunIDGenerator {
	if prefix == "" {
		prefix = "run"
	}
	return &FixedRunIDGenerator{prefix: prefix}
}

// Generate implements engine.RunIDGenerator.
func (g *FixedRunIDGenerator) Generate() string {
	g.n++
	return fmt.Sprintf("%s-%04d", g.prefix, g.n)
}
