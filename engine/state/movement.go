package state

import (
	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/update"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/value"
)

// Walking adds head bob while the actor walks.
type Walking struct {
	base
}

// NewWalking creates the walking state.
func NewWalking() *Walking {
	return &Walking{base: newBase("Walking", PriorityWalking, 0)}
}

func (s *Walking) Check(ctx *update.Context) bool {
	return movementAllowed(ctx) && ctx.Actor().Movement().Gait == host.GaitWalking
}

func (s *Walking) OnEntering(ctx *update.Context) {
	s.addHeadBob(ctx, false, false, 1, 0)
}

// Running loosens the horizontal offset dead-band and adds head bob.
type Running struct {
	base
}

// NewRunning creates the running state.
func NewRunning() *Running {
	return &Running{base: newBase("Running", PriorityRunning, 0)}
}

func (s *Running) Check(ctx *update.Context) bool {
	return movementAllowed(ctx) && ctx.Actor().Movement().Gait == host.GaitRunning
}

func (s *Running) OnEntering(ctx *update.Context) {
	s.modify(ctx, value.StabilizeIgnoreOffsetY, value.SetIfHigher, 23, value.WithAutoRemoveDelay(200))
	s.addHeadBob(ctx, false, false, 1, 0)
}

// Sprinting widens the offset dead-band and always shortens the stabilizer history.
type Sprinting struct {
	base
}

// NewSprinting creates the sprinting state.
func NewSprinting() *Sprinting {
	return &Sprinting{base: newBase("Sprinting", PrioritySprinting, 0)}
}

func (s *Sprinting) Check(ctx *update.Context) bool {
	if !movementAllowed(ctx) {
		return false
	}
	m := ctx.Actor().Movement()
	return !m.Sneaking && m.Gait == host.GaitSprinting
}

func (s *Sprinting) OnEntering(ctx *update.Context) {
	s.modify(ctx, value.StabilizeIgnoreOffsetY, value.SetIfHigher, 34, value.WithAutoRemoveDelay(200))
	s.addHeadBob(ctx, false, true, 1, 0)
}

// Sneak widens the offset dead-band while sneaking.
type Sneak struct {
	base
}

// NewSneak creates the sneak state.
func NewSneak() *Sneak {
	return &Sneak{base: newBase("Sneak", PrioritySneaking, 0)}
}

func (s *Sneak) Check(ctx *update.Context) bool {
	return movementAllowed(ctx) && ctx.Actor().Movement().Sneaking
}

func (s *Sneak) OnEntering(ctx *update.Context) {
	s.modify(ctx, value.StabilizeIgnoreOffsetY, value.SetIfHigher, 34, value.WithAutoRemoveDelay(300))
}

// Swimming adds no modifiers of its own; it exists so profiles can test for it.
type Swimming struct {
	base
}

// NewSwimming creates the swimming state.
func NewSwimming() *Swimming {
	return &Swimming{base: newBase("Swimming", PrioritySwimming, 0)}
}

func (s *Swimming) Check(ctx *update.Context) bool {
	return ctx.Enabled && ctx.Actor() != nil && ctx.Actor().Movement().Swimming
}

// Mounted stiffens stabilization while riding.
type Mounted struct {
	base
}

// NewMounted creates the mounted state.
func NewMounted() *Mounted {
	return &Mounted{base: newBase("Mounted", PriorityMounted, 0)}
}

func (s *Mounted) Check(ctx *update.Context) bool {
	return ctx.Enabled && ctx.Mounted
}

func (s *Mounted) OnEntering(ctx *update.Context) {
	s.modify(ctx, value.HideArms, value.Set, 0)
	s.modify(ctx, value.Show1stPersonArms, value.Set, 0)
	s.modify(ctx, value.StabilizeHistoryDuration, value.SetIfLower, 200)
	s.modify(ctx, value.StabilizeIgnorePositionZ, value.Add, 1)
	s.modify(ctx, value.StabilizeIgnorePositionY, value.Add, -0.5)
}
