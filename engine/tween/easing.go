package tween

import "math"

// Easing selects the curve used to map elapsed ratio to progress.
type Easing int

const (
	// Linear progresses at a constant rate.
	Linear Easing = iota
	// Accelerating starts slow and speeds up until finished.
	Accelerating
	// Decelerating starts fast and slows down until finished.
	Decelerating
	// AccelAndDecel starts and ends slow, fastest in the middle.
	AccelAndDecel
)

// String returns the easing name as used in profile files.
func (e Easing) String() string {
	switch e {
	case Linear:
		return "linear"
	case Accelerating:
		return "accelerating"
	case Decelerating:
		return "decelerating"
	case AccelAndDecel:
		return "accelanddecel"
	}
	return "unknown"
}

// Apply evaluates the easing curve. The ratio is clamped to [0, 1] before evaluation,
// so the output is always within [0, 1] with Apply(0) == 0 and Apply(1) == 1.
//
// Parameters:
//   - ratio: elapsed fraction of the tween
//
// Returns:
//   - float64: eased progress in [0, 1]
func (e Easing) Apply(ratio float64) float64 {
	if ratio <= 0 {
		return 0
	}
	if ratio >= 1 {
		return 1
	}
	switch e {
	case Accelerating:
		return ratio * ratio
	case Decelerating:
		return math.Sqrt(ratio)
	case AccelAndDecel:
		return math.Sin(ratio*math.Pi-math.Pi*0.5)*0.5 + 0.5
	case Linear:
		return ratio
	}
	panic("tween: unknown easing")
}
