package value

import (
	"fmt"
	"strings"
)

// GlobalPriority is the priority of modifiers not tied to any state.
// It sorts below every state so any active state can override it.
const GlobalPriority = -1000000

// ModifierKind selects how a modifier folds into the running value.
type ModifierKind int

const (
	// Set replaces the running value.
	Set ModifierKind = iota
	// SetIfLower replaces the running value if the amount is lower.
	SetIfLower
	// SetIfHigher replaces the running value if the amount is higher.
	SetIfHigher
	// Add accumulates the amount.
	Add
	// Multiply scales the running value.
	Multiply
	// Force replaces the running value and skips tweening unless a later modifier alters it.
	Force
)

var kindNames = map[ModifierKind]string{
	Set:         "set",
	SetIfLower:  "setiflower",
	SetIfHigher: "setifhigher",
	Add:         "add",
	Multiply:    "multiply",
	Force:       "force",
}

// String returns the lower-case kind name.
func (k ModifierKind) String() string {
	if n, ok := kindNames[k]; ok {
		return n
	}
	return fmt.Sprintf("ModifierKind(%d)", int(k))
}

// ParseModifierKind resolves a kind from its name. Matching is case-insensitive and
// accepts the long profile spellings "SetIfPreviousIsHigherThanThis" and "SetIfPreviousIsLowerThanThis".
//
// Parameters:
//   - s: the kind name
//
// Returns:
//   - ModifierKind: the parsed kind
//   - error: ErrBadModifierKind if the name is unknown
func ParseModifierKind(s string) (ModifierKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "set":
		return Set, nil
	case "add":
		return Add, nil
	case "multiply":
		return Multiply, nil
	case "force":
		return Force, nil
	case "setiflower", "setifpreviousishigherthanthis":
		return SetIfLower, nil
	case "setifhigher", "setifpreviousislowerthanthis":
		return SetIfHigher, nil
	}
	return Set, fmt.Errorf("%w: %q", ErrBadModifierKind, s)
}

// Owner is a state that collects the modifiers it adds so they can be removed when it deactivates.
type Owner interface {
	// Priority returns the owner's rank; modifiers inherit it unless overridden.
	Priority() int

	// TrackModifier registers a modifier for removal when the owner leaves.
	TrackModifier(m *Modifier)
}

// Modifier is one prioritized contribution to a CameraValue's target.
// It belongs to exactly one channel for its whole life.
type Modifier struct {
	Kind            ModifierKind
	Amount          float64
	Priority        int
	AutoRemove      bool
	AutoRemoveDelay int64

	owner   Owner
	channel *cameraValueImpl

	// removeTimer < 0 holds a requested delay not yet armed; > 0 is an absolute deadline.
	removeTimer int64
	hasTimer    bool
}

// Owner returns the state that added the modifier, or nil for global modifiers.
func (m *Modifier) Owner() Owner {
	return m.owner
}

// Channel returns the value channel the modifier belongs to.
func (m *Modifier) Channel() CameraValue {
	return m.channel
}

// Remove detaches the modifier from its channel immediately.
//
// Returns:
//   - bool: true if the modifier was still attached
func (m *Modifier) Remove() bool {
	return m.channel.RemoveModifier(m)
}

// RemoveDelayed schedules removal delayMillis after the next channel update observes the request.
//
// Parameters:
//   - delayMillis: delay in milliseconds
func (m *Modifier) RemoveDelayed(delayMillis int64) {
	m.removeTimer = -delayMillis
	m.hasTimer = true
}

// PendingRemoval reports whether a delayed removal has been requested.
func (m *Modifier) PendingRemoval() bool {
	return m.hasTimer
}

// ModifierOption configures a modifier as it is added.
type ModifierOption func(*Modifier)

// WithOwner ties the modifier to a state. The modifier takes the owner's priority and,
// when AutoRemove is set, is tracked for removal when the owner leaves.
//
// Parameters:
//   - o: the owning state
//
// Returns:
//   - ModifierOption: a function that sets the owner
func WithOwner(o Owner) ModifierOption {
	return func(m *Modifier) {
		m.owner = o
		if o != nil {
			m.Priority = o.Priority()
		}
	}
}

// WithPriority overrides the modifier priority.
//
// Parameters:
//   - p: the priority
//
// Returns:
//   - ModifierOption: a function that sets the priority
func WithPriority(p int) ModifierOption {
	return func(m *Modifier) {
		m.Priority = p
	}
}

// WithAutoRemove controls whether the modifier is removed when its owner leaves. Defaults to true.
func WithAutoRemove(auto bool) ModifierOption {
	return func(m *Modifier) {
		m.AutoRemove = auto
	}
}

// WithAutoRemoveDelay delays owner-triggered removal by delayMillis.
func WithAutoRemoveDelay(delayMillis int64) ModifierOption {
	return func(m *Modifier) {
		m.AutoRemoveDelay = delayMillis
	}
}
