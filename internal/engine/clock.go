package engine

import (
	"sync/atomic"
	"time"
)

// Clock supplies wall time for the front-end and engine timings reported
// with each run. Tests substitute a stepping clock.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Sequence is a monotonic counter stamping runs in execution order.
//
// Thread-safety: Sequence is safe for concurrent use (atomic operations).
type Sequence struct {
	seq atomic.Int64
}

// NewSequence creates a sequence starting at 0.
func NewSequence() *Sequence {
	return &Sequence{}
}

// NewSequenceAt creates a sequence that continues after start. Used to
// resume numbering from the last run recorded in the history store.
func NewSequenceAt(start int64) *Sequence {
	s := &Sequence{}
	s.seq.Store(start)
	return s
}

// Next returns the next sequence number.
func (s *Sequence) Next() int64 {
	return s.seq.Add(1)
}

// Current returns the last issued number without advancing.
func (s *Sequence) Current() int64 {
	return s.seq.Load()
}
