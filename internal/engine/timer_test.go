package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimerStartIsOnce(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	timer := NewTimer(10, clock.Now)
	assert.True(t, timer.Start())
	gen := timer.Generation()
	assert.False(t, timer.Start())
	assert.Equal(t, gen, timer.Generation())
	assert.True(t, timer.Running())
}

func TestTimerStopIsIdempotent(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	timer := NewTimer(10, clock.Now)
	timer.Stop()
	assert.False(t, timer.Running())
	timer.Start()
	clock.Advance(2 * time.Second)
	timer.Stop()
	clock.Advance(5 * time.Second)
	timer.Stop()
	assert.Equal(t, 2*time.Second, timer.Elapsed())
}

func TestTimerCountsDownAndExpires(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	timer := NewTimer(2, clock.Now)
	timer.Start()
	gen := timer.Generation()

	applied, expired := timer.Tick(gen)
	assert.True(t, applied)
	assert.False(t, expired)
	assert.Equal(t, 1, timer.Remaining())

	applied, expired = timer.Tick(gen)
	assert.True(t, applied)
	assert.True(t, expired)
	assert.Equal(t, 0, timer.Remaining())
	assert.False(t, timer.Running())

	applied, _ = timer.Tick(gen)
	assert.False(t, applied)
}

func TestTimerIgnoresStaleGeneration(t *testing.T) {
	timer := NewTimer(5, nil)
	timer.Start()
	stale := timer.Generation()
	timer.Reset(5)
	timer.Start()
	applied, _ := timer.Tick(stale)
	assert.False(t, applied)
	assert.Equal(t, 5, timer.Remaining())
}

func TestTimerElapsedBeforeStart(t *testing.T) {
	timer := NewTimer(5, nil)
	assert.Equal(t, time.Duration(0), timer.Elapsed())
}
