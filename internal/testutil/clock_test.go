package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStepClock_AdvancesByStep(t *testing.T) {
	clock := NewStepClock(time.Millisecond)

	first := clock.Now()
	second := clock.Now()
	third := clock.Now()

	assert.Equal(t, time.Unix(0, 0).UTC(), first)
	assert.Equal(t, time.Millisecond, second.Sub(first))
	assert.Equal(t, time.Millisecond, third.Sub(second))
}

func TestStepClock_Reset(t *testing.T) {
	clock := NewStepClock(time.Second)
	clock.Now()
	clock.Now()

	clock.Reset()
	assert.Equal(t, time.Unix(0, 0).UTC(), clock.Now())
}

func TestStepClock_ThreadSafe(t *testing.T) {
	clock := NewStepClock(time.Nanosecond)
	const goroutines = 50
	const calls = 100

	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < calls; j++ {
				clock.Now()
			}
		}()
	}
	wg.Wait()

	// Every reading advanced the clock exactly once.
	assert.Equal(t, time.Unix(0, goroutines*calls).UTC(), clock.Now())
}
