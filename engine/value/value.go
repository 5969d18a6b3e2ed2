package value

import (
	"errors"
	"math"

	"github.com/Carmen-Shannon/oxy-ifpv/engine/tween"
)

var (
	// ErrUnknownValue is returned when a channel name does not resolve.
	ErrUnknownValue = errors.New("value: unknown value channel")
	// ErrBadModifierKind is returned when a modifier kind name does not resolve.
	ErrBadModifierKind = errors.New("value: unknown modifier kind")
)

// Flags alter how a channel resolves its target.
type Flags uint32

const (
	// NoTween makes every target change instant.
	NoTween Flags = 1 << iota
	// NoModifiers rejects modifiers; the channel only mirrors its binding.
	NoModifiers
	// IncreaseInstantly skips tweening when the target rises.
	IncreaseInstantly
	// DecreaseInstantly skips tweening when the target falls.
	DecreaseInstantly
	// DontUpdateIfDisabled updates at most once after the camera becomes disabled.
	DontUpdateIfDisabled
)

// Binding mirrors a channel onto a host-owned value such as the near clip distance.
type Binding interface {
	Get() float64
	Set(v float64)
}

type cameraValueImpl struct {
	key         string
	name        string
	defaultVal  float64
	current     float64
	changeSpeed float64
	easing      tween.Easing
	flags       Flags

	binding        Binding
	bindingDefault bool
	defaultLoaded  bool

	modifiers []*Modifier

	lastValue            float64
	targetValue          float64
	tw                   tween.ScalarTween
	updatedWhileDisabled int
}

// CameraValue is one named scalar channel resolved each frame from its default and a prioritized modifier list.
type CameraValue interface {
	// Key returns the identifier used by profiles and the name index, e.g. "Offset1PositionX".
	Key() string

	// Name returns the human-readable channel name.
	Name() string

	// DefaultValue returns the value the fold starts from.
	DefaultValue() float64

	// SetDefault replaces the default value. Bound channels that capture their default from the host ignore it.
	//
	// Parameters:
	//   - v: the new default
	SetDefault(v float64)

	// CurrentValue returns the resolved value for this frame.
	CurrentValue() float64

	// SetCurrentValue overwrites the current value without touching the modifiers.
	// Bound channels write straight through to the host.
	//
	// Parameters:
	//   - c: the new current value
	SetCurrentValue(c float64)

	// TargetValue returns the folded modifier target the channel is moving toward.
	TargetValue() float64

	// ChangeSpeed returns the tween speed in units per second.
	ChangeSpeed() float64

	// Easing returns the tween easing.
	Easing() tween.Easing

	// Flags returns the channel flags.
	Flags() Flags

	// Tweening reports whether a tween is in flight.
	Tweening() bool

	// AddModifier inserts a modifier, keeping the list sorted ascending by priority
	// with insertion order preserved among equal priorities.
	// Returns nil if the channel has the NoModifiers flag.
	//
	// Parameters:
	//   - kind: how the amount folds into the running value
	//   - amount: the modifier amount
	//   - options: owner, priority and removal options; priority defaults to GlobalPriority
	//
	// Returns:
	//   - *Modifier: the attached modifier, or nil
	AddModifier(kind ModifierKind, amount float64, options ...ModifierOption) *Modifier

	// RemoveModifier detaches a modifier.
	//
	// Parameters:
	//   - m: the modifier to remove
	//
	// Returns:
	//   - bool: true if it was attached to this channel
	RemoveModifier(m *Modifier) bool

	// RemoveModifiersOf detaches every modifier added by owner.
	//
	// Parameters:
	//   - owner: the owning state
	//
	// Returns:
	//   - int: how many modifiers were removed
	RemoveModifiersOf(owner Owner) int

	// Modifiers returns a copy of the modifier list in fold order.
	Modifiers() []*Modifier

	// Update resolves the target and advances any tween.
	//
	// Parameters:
	//   - now: frame time in milliseconds
	//   - enabled: whether the camera is enabled this frame
	Update(now int64, enabled bool)

	// Reset drops all modifiers and snaps back to the default.
	Reset()
}

var _ CameraValue = &cameraValueImpl{}

// NewCameraValue creates a new channel. The key is required.
//
// Parameters:
//   - key: the channel identifier
//   - options: variadic list of CameraValueBuilderOption
//
// Returns:
//   - CameraValue: the newly created channel
func NewCameraValue(key string, options ...CameraValueBuilderOption) CameraValue {
	if key == "" {
		panic("value: NewCameraValue requires a non-empty key")
	}
	v := &cameraValueImpl{
		key:         key,
		name:        key,
		changeSpeed: 1,
		easing:      tween.Linear,
	}
	for _, opt := range options {
		opt(v)
	}
	def := v.DefaultValue()
	v.lastValue = def
	v.targetValue = def
	if v.binding == nil {
		v.current = def
	}
	return v
}

func (v *cameraValueImpl) Key() string {
	return v.key
}

func (v *cameraValueImpl) Name() string {
	return v.name
}

func (v *cameraValueImpl) DefaultValue() float64 {
	if v.bindingDefault && !v.defaultLoaded && v.binding != nil {
		v.defaultVal = v.binding.Get()
		v.defaultLoaded = true
	}
	return v.defaultVal
}

func (v *cameraValueImpl) SetDefault(d float64) {
	if v.bindingDefault {
		return
	}
	v.defaultVal = d
}

func (v *cameraValueImpl) CurrentValue() float64 {
	if v.binding != nil {
		return v.binding.Get()
	}
	return v.current
}

func (v *cameraValueImpl) SetCurrentValue(c float64) {
	v.setCurrent(c)
}

func (v *cameraValueImpl) setCurrent(c float64) {
	if v.binding != nil {
		v.binding.Set(c)
		return
	}
	v.current = c
}

func (v *cameraValueImpl) TargetValue() float64 {
	return v.targetValue
}

func (v *cameraValueImpl) ChangeSpeed() float64 {
	return v.changeSpeed
}

func (v *cameraValueImpl) Easing() tween.Easing {
	return v.easing
}

func (v *cameraValueImpl) Flags() Flags {
	return v.flags
}

func (v *cameraValueImpl) Tweening() bool {
	return v.tw != nil
}

func (v *cameraValueImpl) AddModifier(kind ModifierKind, amount float64, options ...ModifierOption) *Modifier {
	if v.flags&NoModifiers != 0 {
		return nil
	}
	if _, ok := kindNames[kind]; !ok {
		panic("value: AddModifier called with invalid modifier kind")
	}

	m := &Modifier{
		Kind:       kind,
		Amount:     amount,
		Priority:   GlobalPriority,
		AutoRemove: true,
		channel:    v,
	}
	for _, opt := range options {
		opt(m)
	}

	idx := len(v.modifiers)
	for i, existing := range v.modifiers {
		if existing.Priority > m.Priority {
			idx = i
			break
		}
	}
	v.modifiers = append(v.modifiers, nil)
	copy(v.modifiers[idx+1:], v.modifiers[idx:])
	v.modifiers[idx] = m

	if m.AutoRemove && m.owner != nil {
		m.owner.TrackModifier(m)
	}
	v.updatedWhileDisabled = 0
	return m
}

func (v *cameraValueImpl) RemoveModifier(m *Modifier) bool {
	if m == nil || m.channel != v {
		return false
	}
	for i, existing := range v.modifiers {
		if existing == m {
			v.modifiers = append(v.modifiers[:i], v.modifiers[i+1:]...)
			v.updatedWhileDisabled = 0
			return true
		}
	}
	return false
}

func (v *cameraValueImpl) RemoveModifiersOf(owner Owner) int {
	if owner == nil {
		return 0
	}
	kept := v.modifiers[:0]
	removed := 0
	for _, m := range v.modifiers {
		if m.owner == owner {
			removed++
			continue
		}
		kept = append(kept, m)
	}
	for i := len(kept); i < len(v.modifiers); i++ {
		v.modifiers[i] = nil
	}
	v.modifiers = kept
	if removed > 0 {
		v.updatedWhileDisabled = 0
	}
	return removed
}

func (v *cameraValueImpl) Modifiers() []*Modifier {
	out := make([]*Modifier, len(v.modifiers))
	copy(out, v.modifiers)
	return out
}

func (v *cameraValueImpl) Reset() {
	if v.flags&NoModifiers != 0 {
		return
	}
	v.modifiers = v.modifiers[:0]
	def := v.DefaultValue()
	v.lastValue = def
	v.targetValue = def
	v.tw = nil
	v.setCurrent(def)
}

func (v *cameraValueImpl) Update(now int64, enabled bool) {
	if v.flags&NoModifiers != 0 {
		return
	}

	if v.flags&DontUpdateIfDisabled != 0 {
		if enabled {
			v.updatedWhileDisabled = 0
		} else {
			if v.updatedWhileDisabled > 0 {
				return
			}
			v.updatedWhileDisabled++
		}
	}

	v.expireModifiers(now)

	want, forced := v.fold()

	switch {
	case want != v.targetValue:
		v.targetValue = want
		if v.shouldTween(want, forced) {
			v.tw = tween.NewScalarTween(
				tween.WithValue(v.lastValue),
				tween.WithBounds(-math.MaxFloat64, math.MaxFloat64),
			)
			v.tw.TweenToSpeed(want, v.changeSpeed, v.easing, true)
			v.stepTween(now, want)
		} else {
			v.tw = nil
			v.setCurrent(want)
			v.lastValue = want
		}
	case v.tw != nil:
		v.stepTween(now, want)
	default:
		if v.CurrentValue() != want {
			v.setCurrent(want)
			v.lastValue = want
		}
	}
}

// expireModifiers arms pending delayed removals and drops those whose deadline has passed.
// A request is armed on the first tick that observes it, so the delay counts from that frame.
func (v *cameraValueImpl) expireModifiers(now int64) {
	for i := len(v.modifiers) - 1; i >= 0; i-- {
		m := v.modifiers[i]
		if !m.hasTimer {
			continue
		}
		if m.removeTimer < 0 {
			m.removeTimer = now - m.removeTimer
			continue
		}
		if now >= m.removeTimer {
			v.RemoveModifier(m)
		}
	}
}

// fold applies every modifier in ascending priority order starting from the default.
// A Force sets the forced mark; any later modifier that alters the value clears it.
func (v *cameraValueImpl) fold() (float64, bool) {
	want := v.DefaultValue()
	forced := false
	for _, m := range v.modifiers {
		switch m.Kind {
		case Set:
			want = m.Amount
			forced = false
		case SetIfLower:
			if m.Amount < want {
				want = m.Amount
				forced = false
			}
		case SetIfHigher:
			if m.Amount > want {
				want = m.Amount
				forced = false
			}
		case Add:
			want += m.Amount
			forced = false
		case Multiply:
			want *= m.Amount
			forced = false
		case Force:
			want = m.Amount
			forced = true
		default:
			panic("value: unreachable modifier kind in fold")
		}
	}
	return want, forced
}

func (v *cameraValueImpl) shouldTween(want float64, forced bool) bool {
	if forced || v.flags&NoTween != 0 {
		return false
	}
	if want > v.lastValue && v.flags&IncreaseInstantly != 0 {
		return false
	}
	if want < v.lastValue && v.flags&DecreaseInstantly != 0 {
		return false
	}
	return true
}

func (v *cameraValueImpl) stepTween(now int64, want float64) {
	v.tw.Update(now)
	v.lastValue = v.tw.Current()
	v.setCurrent(v.lastValue)
	if v.lastValue == want {
		v.tw = nil
	}
}
