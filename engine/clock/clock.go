// Package clock keeps the camera's own millisecond clock. It only advances while the game runs,
// so tweens and stabilizer history freeze through pauses and menus.
package clock

import (
	"sync"
	"sync/atomic"
)

// MaxStep caps how far a single frame may advance the clock, in milliseconds.
const MaxStep = 200

type clockImpl struct {
	mu *sync.Mutex

	now       int64
	lastHost  int64
	hasHost   bool
	wasPaused atomic.Bool

	// pending is this frame's step, still eligible for rollback.
	pending int64
	// elapsed is this frame's step as observed by the camera, kept after rollback.
	elapsed int64
}

// Clock is the pausable camera frame clock.
type Clock interface {
	// Tick advances the clock by the host time since the previous tick, capped at MaxStep.
	// Frames on which the game is paused, or on which the paused state changes, do not advance it.
	//
	// Parameters:
	//   - hostNow: the host's monotonic time in milliseconds
	//   - paused: whether the game is paused this frame
	Tick(hostNow int64, paused bool)

	// Rollback undoes this frame's step. Call it when the camera did not update,
	// so time it never observed is not counted.
	//
	// Returns:
	//   - bool: true if a step was undone
	Rollback() bool

	// Now returns the camera time in milliseconds.
	Now() int64

	// Elapsed returns the step taken by the last Tick in milliseconds.
	Elapsed() int64

	// IsPaused reports whether the last Tick saw the game paused.
	IsPaused() bool
}

var _ Clock = &clockImpl{}

// NewClock creates a clock.
//
// Parameters:
//   - options: variadic list of ClockBuilderOption
//
// Returns:
//   - Clock: the newly created clock
func NewClock(options ...ClockBuilderOption) Clock {
	c := &clockImpl{mu: &sync.Mutex{}}
	for _, opt := range options {
		opt(c)
	}
	return c
}

func (c *clockImpl) Tick(hostNow int64, paused bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	anyPaused := paused
	if c.wasPaused.Swap(paused) != paused {
		anyPaused = true
	}

	c.pending = 0
	if !anyPaused && c.hasHost {
		diff := min(max(hostNow-c.lastHost, 0), MaxStep)
		c.now += diff
		c.pending = diff
	}
	c.lastHost = hostNow
	c.hasHost = true
	c.elapsed = c.pending
}

func (c *clockImpl) Rollback() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pending <= 0 {
		return false
	}
	c.now -= c.pending
	c.pending = 0
	return true
}

func (c *clockImpl) Now() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *clockImpl) Elapsed() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.elapsed
}

func (c *clockImpl) IsPaused() bool {
	return c.wasPaused.Load()
}
