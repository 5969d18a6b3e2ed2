package tween

import (
	"math"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
)

// MaxDurationMillis caps speed-derived durations so a near-zero speed cannot stall a value for minutes.
const MaxDurationMillis = 60000

const minSpeed = 0.00001

type step struct {
	target      float64
	duration    int64
	speed       float64
	bySpeed     bool
	easing      Easing
	started     bool
	beginTime   int64
	endTime     int64
	beginAmount float64
}

type scalarTweenImpl struct {
	current  float64
	min, max float64

	steps []*step

	pausedAt      int64
	paused        bool
	pausedCounter int
}

// ScalarTween interpolates a single scalar over time toward one or more queued targets.
// Timing is lazy: a step's begin and end times are stamped on the first Update after it is queued.
// It is not safe for concurrent use; the camera pipeline drives it from a single frame callback.
type ScalarTween interface {
	// Current returns the current value.
	//
	// Returns:
	//   - float64: the current value
	Current() float64

	// Active reports whether any tween step is pending.
	//
	// Returns:
	//   - bool: true if a step is queued or in flight
	Active() bool

	// Mod adds amount to the current value, clamped to bounds. Clears all queued steps.
	//
	// Parameters:
	//   - amount: the delta to add
	Mod(amount float64)

	// SetTo jumps to value, clamped to bounds. Clears all queued steps.
	//
	// Parameters:
	//   - value: the new value
	SetTo(value float64)

	// TweenTo queues a fixed-duration step toward target.
	//
	// Parameters:
	//   - target: the end value, clamped to bounds
	//   - durationMillis: how long the step takes regardless of distance
	//   - easing: the easing curve
	//   - replace: if true, drop every queued step first
	TweenTo(target float64, durationMillis int64, easing Easing, replace bool)

	// TweenToSpeed queues a rate-driven step toward target.
	// The duration is |target - current| / speed seconds, capped at MaxDurationMillis,
	// computed when the step starts.
	//
	// Parameters:
	//   - target: the end value, clamped to bounds
	//   - speedPerSecond: units per second
	//   - easing: the easing curve
	//   - replace: if true, drop every queued step first
	TweenToSpeed(target, speedPerSecond float64, easing Easing, replace bool)

	// Update advances the tween to now.
	//
	// Parameters:
	//   - now: frame time in milliseconds
	Update(now int64)

	// Pause suspends updates. Calls nest; only the outermost pause records the time.
	//
	// Parameters:
	//   - now: frame time in milliseconds
	Pause(now int64)

	// Unpause resumes updates once every Pause has been matched.
	// Stored begin and end times shift forward by the paused duration.
	//
	// Parameters:
	//   - now: frame time in milliseconds
	Unpause(now int64)
}

var _ ScalarTween = &scalarTweenImpl{}

// NewScalarTween creates a new ScalarTween. Bounds default to ±math.MaxFloat64.
//
// Parameters:
//   - options: variadic list of ScalarTweenBuilderOption
//
// Returns:
//   - ScalarTween: the newly created tween
func NewScalarTween(options ...ScalarTweenBuilderOption) ScalarTween {
	t := &scalarTweenImpl{
		min:   -math.MaxFloat64,
		max:   math.MaxFloat64,
		steps: make([]*step, 0, 4),
	}
	for _, opt := range options {
		opt(t)
	}
	if t.min > t.max {
		panic("tween: NewScalarTween requires min <= max")
	}
	t.current = common.Clamp(t.current, t.min, t.max)
	return t
}

func (t *scalarTweenImpl) Current() float64 {
	return t.current
}

func (t *scalarTweenImpl) Active() bool {
	return len(t.steps) != 0
}

func (t *scalarTweenImpl) Mod(amount float64) {
	t.steps = t.steps[:0]
	if amount == 0 {
		return
	}
	t.current = common.Clamp(t.current+amount, t.min, t.max)
}

func (t *scalarTweenImpl) SetTo(value float64) {
	t.steps = t.steps[:0]
	t.current = common.Clamp(value, t.min, t.max)
}

func (t *scalarTweenImpl) TweenTo(target float64, durationMillis int64, easing Easing, replace bool) {
	t.queue(&step{
		target:   common.Clamp(target, t.min, t.max),
		duration: max(durationMillis, 0),
		easing:   easing,
	}, replace)
}

func (t *scalarTweenImpl) TweenToSpeed(target, speedPerSecond float64, easing Easing, replace bool) {
	t.queue(&step{
		target:  common.Clamp(target, t.min, t.max),
		speed:   speedPerSecond,
		bySpeed: true,
		easing:  easing,
	}, replace)
}

func (t *scalarTweenImpl) Update(now int64) {
	for t.pausedCounter <= 0 && len(t.steps) != 0 {
		s := t.steps[0]

		if !s.started {
			s.started = true
			s.beginTime = now
			s.beginAmount = t.current
			s.endTime = now + t.durationOf(s)
		}

		if now >= s.endTime {
			t.current = s.target
			t.steps = t.steps[1:]
			continue
		}

		ratio := float64(now-s.beginTime) / float64(s.endTime-s.beginTime)
		ratio = s.easing.Apply(ratio)
		amount := (s.target-s.beginAmount)*ratio + s.beginAmount
		t.current = common.Clamp(amount, t.min, t.max)
		break
	}
}

func (t *scalarTweenImpl) Pause(now int64) {
	t.pausedCounter++
	if t.pausedCounter == 1 {
		t.pausedAt = now
		t.paused = true
	}
}

func (t *scalarTweenImpl) Unpause(now int64) {
	t.pausedCounter--
	if t.pausedCounter != 0 {
		return
	}

	var diff int64
	if t.paused {
		diff = now - t.pausedAt
		t.paused = false
	}
	if diff <= 0 {
		return
	}
	for _, s := range t.steps {
		if s.started {
			s.beginTime += diff
			s.endTime += diff
		}
	}
}

// durationOf resolves the step length in milliseconds at the moment the step starts.
func (t *scalarTweenImpl) durationOf(s *step) int64 {
	if !s.bySpeed {
		return s.duration
	}
	dur := math.Abs(s.target-t.current) / math.Max(s.speed, minSpeed) * 1000
	if dur > MaxDurationMillis {
		dur = MaxDurationMillis
	}
	return int64(dur)
}

func (t *scalarTweenImpl) queue(s *step, replace bool) {
	if replace {
		t.steps = t.steps[:0]
	}
	t.steps = append(t.steps, s)
}
