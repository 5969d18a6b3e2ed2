// Package state holds the camera states: prioritized situations (mounted, sneaking, a custom
// profile...) that add value modifiers while they are active.
package state

import (
	"github.com/Carmen-Shannon/oxy-ifpv/engine/update"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/value"
)

// Built-in state priorities. Modifiers fold in ascending priority, so a higher state overrides a lower one.
// Custom profiles default to 50 and land above every built-in state.
const (
	PriorityDefault   = 0
	PriorityWalking   = 10
	PriorityRunning   = 11
	PrioritySprinting = 12
	PrioritySneaking  = 20
	PrioritySwimming  = 25
	PriorityMounted   = 30
)

// State is one camera situation managed by the Stack.
type State interface {
	value.Owner

	// Name identifies the state for Profile conditions. Matching is case-insensitive.
	Name() string

	// Group returns the exclusivity group. Within a non-zero group only the highest-priority
	// state that passes Check is active.
	Group() int

	// IsActive reports whether the state is currently active.
	IsActive() bool

	// Check reports whether the state wants to be active this frame.
	Check(ctx *update.Context) bool

	// OnEntering runs once when the state becomes active.
	OnEntering(ctx *update.Context)

	// OnLeaving runs once when the state stops being active, after its tracked modifiers were released.
	OnLeaving(ctx *update.Context)

	// Update runs every frame while the state is active.
	Update(ctx *update.Context)

	core() *base
}

// Controller is the camera surface states call back into.
type Controller interface {
	// MarkAutoTurn flags actor turns up to until as coming from the automatic turn.
	MarkAutoTurn(until int64)

	// TurnActorToCamera turns the followed actor to face the view after the view was clamped.
	TurnActorToCamera(ctx *update.Context)
}

type base struct {
	name     string
	priority int
	group    int

	active bool
	want   bool
	stack  *stackImpl

	removeOnLeave []*value.Modifier
}

func newBase(name string, priority, group int) base {
	return base{name: name, priority: priority, group: group}
}

func (b *base) Name() string {
	return b.name
}

func (b *base) Priority() int {
	return b.priority
}

func (b *base) Group() int {
	return b.group
}

func (b *base) IsActive() bool {
	return b.active
}

func (b *base) TrackModifier(m *value.Modifier) {
	b.removeOnLeave = append(b.removeOnLeave, m)
}

func (b *base) Check(ctx *update.Context) bool {
	return true
}

func (b *base) OnEntering(ctx *update.Context) {}

func (b *base) OnLeaving(ctx *update.Context) {}

func (b *base) Update(ctx *update.Context) {}

func (b *base) core() *base {
	return b
}

// set flips the active flag. Leaving releases every tracked modifier, after its delay when it has one.
func (b *base) set(active bool) {
	b.active = active
	if active {
		return
	}
	for _, m := range b.removeOnLeave {
		if m.AutoRemoveDelay > 0 {
			m.RemoveDelayed(m.AutoRemoveDelay)
		} else {
			m.Remove()
		}
	}
	b.removeOnLeave = b.removeOnLeave[:0]
}

// modify adds a modifier owned by the state.
func (b *base) modify(ctx *update.Context, id value.ID, kind value.ModifierKind, amount float64, options ...value.ModifierOption) *value.Modifier {
	return ctx.Values.Get(id).AddModifier(kind, amount, append([]value.ModifierOption{value.WithOwner(b)}, options...)...)
}

// controller returns the stack's camera controller, or nil.
func (b *base) controller() Controller {
	if b.stack == nil {
		return nil
	}
	return b.stack.controller
}

// movementAllowed is the shared gate of the on-foot states.
func movementAllowed(ctx *update.Context) bool {
	return ctx.Enabled && !ctx.Mounted && ctx.Actor() != nil
}

// addHeadBob loosens vertical stabilization so head bob shows through, and shortens the history.
func (b *base) addHeadBob(ctx *update.Context, forceHeadBob, forceReducedHistory bool, multiplier float64, extraDelay int64) {
	headBob := forceHeadBob || ctx.Settings.HeadBob
	if headBob {
		amount := ctx.Settings.HeadBobAmount
		if forceHeadBob {
			amount = 1
		}
		amount *= multiplier
		if amount > 0.01 {
			b.modify(ctx, value.StabilizeIgnorePositionY, value.SetIfLower, 0.5/amount, value.WithAutoRemoveDelay(extraDelay))
		}
	}
	if headBob || forceReducedHistory {
		b.modify(ctx, value.StabilizeHistoryDuration, value.SetIfLower, 100, value.WithAutoRemoveDelay(extraDelay))
	}
}
