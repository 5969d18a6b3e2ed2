package stabilize

import (
	"math"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/target"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/tween"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/value"
)

// State is the lifecycle of a stabilizer.
type State int

const (
	// Empty has neither samples nor a result.
	Empty State = iota
	// Sampling has samples but has not produced a result yet.
	Sampling
	// Stable has a result that Get can return.
	Stable
)

// Sample is one recorded head offset, relative to the root in the root's yaw-normalized frame.
type Sample struct {
	Time int64
	// OffsetX is the head yaw relative to the root, in radians.
	OffsetX float64
	// OffsetY is the head pitch relative to the root, in radians.
	OffsetY float64
	// Position is the head position relative to the root.
	Position common.Vector3
}

// Tunables are the filter settings, refreshed from the value map each frame.
type Tunables struct {
	MaxHistoryDuration int64
	// IgnorePosition is the result dead band per axis, in units.
	IgnorePosition common.Vector3
	// IgnoreRotationX and IgnoreRotationY are the result dead bands for yaw and pitch, in radians.
	IgnoreRotationX float64
	IgnoreRotationY float64
	// IgnoreOffsetX and IgnoreOffsetY are subtracted from the raw offsets before they are stored, in radians.
	IgnoreOffsetX float64
	IgnoreOffsetY float64
}

// TunablesFrom reads the current stabilizer tunables out of the value map. Angles are converted from degrees.
//
// Parameters:
//   - values: the camera value map
//
// Returns:
//   - Tunables: the filter settings for this frame
func TunablesFrom(values value.Map) Tunables {
	return Tunables{
		MaxHistoryDuration: int64(values.Get(value.StabilizeHistoryDuration).CurrentValue()),
		IgnorePosition: common.Vector3{
			X: values.Get(value.StabilizeIgnorePositionX).CurrentValue(),
			Y: values.Get(value.StabilizeIgnorePositionY).CurrentValue(),
			Z: values.Get(value.StabilizeIgnorePositionZ).CurrentValue(),
		},
		IgnoreRotationX: common.DegToRad(values.Get(value.StabilizeIgnoreRotationX).CurrentValue()),
		IgnoreRotationY: common.DegToRad(values.Get(value.StabilizeIgnoreRotationY).CurrentValue()),
		IgnoreOffsetX:   common.DegToRad(values.Get(value.StabilizeIgnoreOffsetX).CurrentValue()),
		IgnoreOffsetY:   common.DegToRad(values.Get(value.StabilizeIgnoreOffsetY).CurrentValue()),
	}
}

type stabilizerImpl struct {
	identity target.Identity
	tunables Tunables

	history    []Sample
	result     Sample
	hasResult  bool
	needRecalc bool

	tweenFrom  common.Vector3
	tweenBegin int64
	tweenEnd   int64
}

// Stabilizer smooths head motion with a recency-weighted history and a dead band on the output.
// One stabilizer is bound to one target identity; a new target needs a new stabilizer.
type Stabilizer interface {
	// Identity returns the target identity the history was built for.
	Identity() target.Identity

	// ShouldRecreate reports whether id differs from the identity this stabilizer was built for.
	//
	// Parameters:
	//   - id: the current target identity
	//
	// Returns:
	//   - bool: true if the history no longer applies
	ShouldRecreate(id target.Identity) bool

	// State returns where the stabilizer is in its lifecycle.
	State() State

	// SetTunables replaces the filter settings.
	SetTunables(t Tunables)

	// Update records the head offset relative to root for this frame.
	//
	// Parameters:
	//   - root: world transform of the stabilize root
	//   - head: world transform of the head
	//   - now: frame time in milliseconds
	Update(root, head common.Transform, now int64)

	// Record appends an already-normalized sample.
	Record(s Sample)

	// Get rebuilds a world transform from the smoothed result around the current root.
	// The history is recalculated first if samples were added since the last call.
	//
	// Parameters:
	//   - root: world transform of the stabilize root
	//   - now: frame time in milliseconds
	//
	// Returns:
	//   - common.Transform: the smoothed head transform
	//   - bool: false if no result exists yet; the caller falls back to the raw head
	Get(root common.Transform, now int64) (common.Transform, bool)

	// Result returns the smoothed sample, recalculating if needed.
	Result(now int64) (Sample, bool)

	// HistoryLen returns the number of samples currently held.
	HistoryLen() int

	// AddTweenFrom starts a one-shot linear blend from a captured position. Ignored until a result exists.
	//
	// Parameters:
	//   - durationMillis: blend length
	//   - from: the position to blend from
	//   - now: frame time in milliseconds
	AddTweenFrom(durationMillis int64, from common.Vector3, now int64)

	// ApplyTween blends target from the captured position while the one-shot tween runs.
	//
	// Parameters:
	//   - pos: the already computed target position
	//   - now: frame time in milliseconds
	//
	// Returns:
	//   - common.Vector3: the blended position, or pos outside the tween window
	ApplyTween(pos common.Vector3, now int64) common.Vector3

	// ClearTweenFrom cancels the one-shot tween.
	ClearTweenFrom()
}

var _ Stabilizer = &stabilizerImpl{}

// NewStabilizer creates a stabilizer with no history.
//
// Parameters:
//   - options: variadic list of StabilizerBuilderOption
//
// Returns:
//   - Stabilizer: the newly created stabilizer
func NewStabilizer(options ...StabilizerBuilderOption) Stabilizer {
	s := &stabilizerImpl{
		history: make([]Sample, 0, 64),
	}
	for _, opt := range options {
		opt(s)
	}
	return s
}

func (s *stabilizerImpl) Identity() target.Identity {
	return s.identity
}

func (s *stabilizerImpl) ShouldRecreate(id target.Identity) bool {
	return s.identity != id
}

func (s *stabilizerImpl) State() State {
	switch {
	case s.hasResult:
		return Stable
	case len(s.history) != 0:
		return Sampling
	}
	return Empty
}

func (s *stabilizerImpl) SetTunables(t Tunables) {
	s.tunables = t
}

func (s *stabilizerImpl) Update(root, head common.Transform, now int64) {
	rel := head.Position.Sub(root.Position)
	rootAngles := root.Rotation.EulerAngles()

	s.Record(Sample{
		Time:     now,
		Position: normalizeYaw(rel, rootAngles.Z),
		OffsetX:  s.ignoreOffset(common.ClampToPi(head.Rotation.EulerAngles().Z-rootAngles.Z), s.tunables.IgnoreOffsetX),
		OffsetY:  s.ignoreOffset(common.ClampToPi(head.Rotation.EulerAngles().X-rootAngles.X), s.tunables.IgnoreOffsetY),
	})
}

func (s *stabilizerImpl) Record(sample Sample) {
	s.history = append(s.history, sample)
	s.needRecalc = true
}

func (s *stabilizerImpl) Get(root common.Transform, now int64) (common.Transform, bool) {
	r, ok := s.Result(now)
	if !ok {
		return common.Transform{}, false
	}

	rootAngles := root.Rotation.EulerAngles()
	pos := root.Position.Add(restoreYaw(r.Position, rootAngles.Z))

	pitch := common.ClampToPi(rootAngles.X + r.OffsetY)
	yaw := common.ClampToPi(rootAngles.Z + r.OffsetX)
	rot := common.Identity33()
	if pitch != 0 {
		rot = rot.RotateX(pitch)
	}
	if yaw != 0 {
		rot = rot.RotateZ(-yaw)
	}

	return common.Transform{Position: pos, Rotation: rot, Scale: 1}, true
}

func (s *stabilizerImpl) Result(now int64) (Sample, bool) {
	if s.needRecalc {
		s.recalculate(now)
		s.needRecalc = false
	}
	return s.result, s.hasResult
}

func (s *stabilizerImpl) HistoryLen() int {
	return len(s.history)
}

func (s *stabilizerImpl) AddTweenFrom(durationMillis int64, from common.Vector3, now int64) {
	if !s.hasResult || durationMillis <= 0 {
		return
	}
	s.tweenFrom = from
	s.tweenBegin = now
	s.tweenEnd = now + durationMillis
}

func (s *stabilizerImpl) ApplyTween(pos common.Vector3, now int64) common.Vector3 {
	if now >= s.tweenEnd || now < s.tweenBegin {
		return pos
	}
	ratio := float64(now-s.tweenBegin) / float64(s.tweenEnd-s.tweenBegin)
	return s.tweenFrom.Lerp(pos, tween.Linear.Apply(ratio))
}

func (s *stabilizerImpl) ClearTweenFrom() {
	s.tweenBegin = 0
	s.tweenEnd = 0
}

// ignoreOffset shrinks a raw offset toward zero by band, never crossing zero.
func (s *stabilizerImpl) ignoreOffset(offset, band float64) float64 {
	if band <= 0 {
		return offset
	}
	if offset >= 0 {
		return math.Max(offset-band, 0)
	}
	return math.Min(offset+band, 0)
}

func (s *stabilizerImpl) recalculate(now int64) {
	maxAge := s.tunables.MaxHistoryDuration

	cut := 0
	for cut < len(s.history) && s.history[cut].Time <= now-maxAge {
		cut++
	}
	if cut > 0 {
		s.history = append(s.history[:0], s.history[cut:]...)
	}
	if len(s.history) == 0 || maxAge <= 0 {
		return
	}

	var total Sample
	totalWeight := 0.0
	for i := len(s.history) - 1; i >= 0; i-- {
		h := s.history[i]
		ratio := float64(maxAge-(now-h.Time)) / float64(maxAge)
		w := ratio * ratio
		totalWeight += w
		total.Position = total.Position.Add(h.Position.Scale(w))
		total.OffsetX += h.OffsetX * w
		total.OffsetY += h.OffsetY * w
	}
	if totalWeight <= 0 {
		return
	}
	total.Position = total.Position.Scale(1 / totalWeight)
	total.OffsetX /= totalWeight
	total.OffsetY /= totalWeight
	total.Time = now

	if !s.hasResult {
		s.result = total
		s.hasResult = true
		return
	}

	changed := false
	r := &s.result
	r.Position.X, changed = deadband(r.Position.X, total.Position.X, s.tunables.IgnorePosition.X, changed)
	r.Position.Y, changed = deadband(r.Position.Y, total.Position.Y, s.tunables.IgnorePosition.Y, changed)
	r.Position.Z, changed = deadband(r.Position.Z, total.Position.Z, s.tunables.IgnorePosition.Z, changed)
	r.OffsetX, changed = deadband(r.OffsetX, total.OffsetX, s.tunables.IgnoreRotationX, changed)
	r.OffsetY, changed = deadband(r.OffsetY, total.OffsetY, s.tunables.IgnoreRotationY, changed)
	if changed {
		r.Time = now
	}
}

// deadband moves old toward want by the excess of |want-old| over band.
func deadband(old, want, band float64, changed bool) (float64, bool) {
	diff := want - old
	if math.Abs(diff) <= band {
		return old, changed
	}
	if diff >= 0 {
		diff -= band
	} else {
		diff += band
	}
	return old + diff, true
}

// normalizeYaw expresses a root-relative offset in a frame with the root's yaw removed,
// so samples stay comparable while the root turns.
func normalizeYaw(rel common.Vector3, rootYaw float64) common.Vector3 {
	return common.AxisZ(rootYaw).Transform(rel)
}

// restoreYaw is the inverse of normalizeYaw for the current root yaw.
func restoreYaw(rel common.Vector3, rootYaw float64) common.Vector3 {
	return common.AxisZ(-rootYaw).Transform(rel)
}
