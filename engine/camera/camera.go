// Package camera is the first-person camera orchestrator. Once per host frame it decides whether
// the camera is enabled, runs the states, resolves the value channels, composes the transform
// from the head, the stabilizer and the offset layers, resolves collision and writes the result
// into the host camera node.
package camera

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/clock"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/collision"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/config"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/cull"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/profile"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/stabilize"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/state"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/update"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/value"
)

// profileLoadTimeout bounds a profile directory scan on construction or reload.
const profileLoadTimeout = 5 * time.Second

type cameraImpl struct {
	mu *sync.Mutex

	host     host.Host
	settings config.Settings
	loader   func() (config.Settings, error)
	logger   *log.Logger

	values     value.Map
	stack      state.Stack
	table      cull.Table
	clock      clock.Clock
	resolver   collision.Resolver
	controller CameraController
	stabilizer stabilize.Stabilizer
	hider      *hider

	ownStack bool

	enabled              bool
	didCollide           bool
	usingFirstPersonArms bool
	final                common.Transform
	hasResult            bool

	lastActor          host.Actor
	lastActorWasPlayer bool
	lastTargetFormID   uint32

	turnX        float64
	turnY        float64
	turnFrames   int
	lastAutoTurn int64
	hadFreeLook  bool
}

// Camera is the immersive first-person camera bound to one host.
type Camera interface {
	state.Controller

	// Update runs one camera frame: it ticks the camera clock from the host, computes the
	// transform and commits it. The clock step is rolled back when the frame could not run.
	//
	// Returns:
	//   - bool: false if the host had no camera node or nothing to follow this frame
	Update() bool

	// IsEnabled reports whether the camera replaced the host camera on the last frame.
	IsEnabled() bool

	// LastResult returns the last committed transform.
	//
	// Returns:
	//   - common.Transform: the final transform of the last enabled frame
	//   - bool: false if no enabled frame has run yet
	LastResult() (common.Transform, bool)

	// DidCollideLastUpdate reports whether collision moved the camera on the last frame.
	DidCollideLastUpdate() bool

	// Values returns the value map.
	Values() value.Map

	// Stack returns the state stack.
	Stack() state.Stack

	// Cull returns the cull table.
	Cull() cull.Table

	// Clock returns the camera clock.
	Clock() clock.Clock

	// Controller returns the input controller.
	Controller() CameraController

	// Settings returns the active settings.
	Settings() config.Settings

	// SetWantState requests the camera on or off. See CameraController.SetWantState.
	SetWantState(s WantState) bool

	// Reload re-reads the settings, reseeds the value map and reloads profiles.
	//
	// Returns:
	//   - error: the settings loader error; the old settings stay active
	Reload() error

	// OnTurnToCamera is called by the host when it decides whether the actor follows the view.
	// FaceCamera overrides the decision, and switching from free look to following schedules
	// a stabilizer tween over the turn.
	//
	// Parameters:
	//   - freeLook: the host's decision
	//
	// Returns:
	//   - bool: the decision to use
	OnTurnToCamera(freeLook bool) bool

	// HandleActorTurnToCamera turns the followed actor toward the accumulated free-look rotation,
	// limited by ActorTurnTime, and consumes what was turned from the third-person state.
	//
	// Parameters:
	//   - fromFreeLookChanged: whether the turn comes from leaving free look
	HandleActorTurnToCamera(fromFreeLookChanged bool)

	// OnMakeTurn schedules a stabilizer tween sized by how far the actor is about to turn.
	OnMakeTurn()

	// FixLookSensitivity scales raw look deltas for the host. See CameraController.FixLookSensitivity.
	FixLookSensitivity(x, y, seconds float64) (float64, float64)
}

var _ Camera = &cameraImpl{}

// NewCamera creates a camera bound to a host. Missing collaborators are created with defaults:
// a value map bound to the host near clip and free-look rotation, a stack with the built-in
// states plus the profiles found in Settings.ProfileDir, an empty cull table, a clock, and a
// resolver over collision.DefaultLayers.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:       &sync.Mutex{},
		settings: config.Default(),
		logger:   log.Default(),
	}
	for _, option := range options {
		option(c)
	}
	if c.host == nil {
		panic("camera: NewCamera requires a non-nil Host")
	}

	if c.values == nil {
		c.values = NewValueMap(c.host, c.settings)
	}
	if c.stack == nil {
		c.stack = state.NewStack()
		c.ownStack = true
	}
	if c.table == nil {
		c.table = cull.NewTable()
	}
	if c.clock == nil {
		c.clock = clock.NewClock()
	}
	if c.resolver == nil {
		c.resolver = collision.NewResolver()
	}
	if c.controller == nil {
		c.controller = NewCameraController(
			WithToggleKey(c.settings.ToggleKey()),
			WithReloadKey(c.settings.ReloadKey()),
			WithReplaceDefaultCamera(c.settings.ReplaceDefaultCamera),
			WithFixLookSensitivity(c.settings.FixLookSensitivity),
			WithLookSensitivity(c.settings.LookSensitivityHorizontal, c.settings.LookSensitivityVertical),
		)
	}
	c.hider = newHider(c.table)

	c.stack.SetController(c)
	c.controller.Bind(c.values)
	if c.ownStack {
		c.loadProfiles(c.settings.ProfileDir)
	}
	return c
}

// NewValueMap builds a value map whose NearClip channel drives the host near clip and whose
// InputRotation channels mirror the host free-look rotation.
//
// Parameters:
//   - h: the host
//   - s: the settings to seed defaults from
//
// Returns:
//   - value.Map: the bound value map
func NewValueMap(h host.Host, s config.Settings) value.Map {
	freeLook := func(get func(host.ThirdPersonState) float64, set func(host.ThirdPersonState, float64)) value.Binding {
		return value.BindingFuncs{
			GetFunc: func() float64 {
				if third := h.ThirdPerson(); third != nil {
					return get(third)
				}
				return 0
			},
			SetFunc: func(v float64) {
				if third := h.ThirdPerson(); third != nil {
					set(third, v)
				}
			},
		}
	}

	return value.NewMap(s,
		value.WithChannelBinding(value.NearClip, value.BindingFuncs{GetFunc: h.NearClip, SetFunc: h.SetNearClip}),
		value.WithChannelBinding(value.InputRotationX, freeLook(
			host.ThirdPersonState.XRotationFromLastResetPoint,
			host.ThirdPersonState.SetXRotationFromLastResetPoint,
		)),
		value.WithChannelBinding(value.InputRotationY, freeLook(
			host.ThirdPersonState.YRotationFromLastResetPoint,
			host.ThirdPersonState.SetYRotationFromLastResetPoint,
		)),
	)
}

func (c *cameraImpl) Update() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.clock.Tick(c.host.Now(), c.host.IsPaused())
	if !c.update() {
		c.clock.Rollback()
		return false
	}
	return true
}

// update builds the frame context and runs the frame. Caller must hold the mutex.
func (c *cameraImpl) update() bool {
	node := c.host.CameraNode()
	if node == nil {
		return false
	}

	ctx := update.New(c.host, c.settings, c.values, c.clock.Now(), c.clock.Elapsed())
	if ctx.Target == nil {
		return false
	}
	ctx.Enabled = c.enabled
	ctx.DidCollideLastUpdate = c.didCollide

	actor := ctx.Actor()
	c.lastActor = actor
	c.lastActorWasPlayer = actor != nil && actor.IsPlayer()
	c.lastTargetFormID = ctx.Target.Object.FormID()

	c.frame(ctx, node)
	return true
}

// frame is the full per-frame order. Caller must hold the mutex.
func (c *cameraImpl) frame(ctx *update.Context, node host.Node) {
	wasEnabled := c.enabled
	isEnabled := c.calculateEnabled(ctx)
	if wasEnabled != isEnabled {
		c.stack.DisableAll(ctx)
		c.enabled = isEnabled
		ctx.Enabled = isEnabled
		if isEnabled {
			c.onEnabled(ctx)
		} else {
			c.onDisabled(ctx)
		}
	}

	if c.enabled {
		// Balanced even when a stage panics, so unscaled nodes shrink again on the next frame.
		c.table.OnUpdating(cull.Enter)
		defer c.table.OnUpdating(cull.Leave)

		id := ctx.Target.Identity()
		if c.stabilizer == nil || c.stabilizer.ShouldRecreate(id) {
			c.stabilizer = stabilize.NewStabilizer(stabilize.WithIdentity(id))
		}
		c.stabilizer.SetTunables(stabilize.TunablesFrom(ctx.Values))
	}

	c.stack.Check(ctx)
	c.stack.Update(ctx)
	ctx.Values.Update(ctx.Now, c.enabled)
	c.hider.update(ctx)
	c.usingFirstPersonArms = c.enabled && ctx.Value(value.Show1stPersonArms) >= 0.5

	if c.enabled {
		showThird := !(c.didCollide && ctx.Settings.HidePlayerWhenColliding)
		c.updateSkeleton(ctx, c.usingFirstPersonArms, showThird)

		result := c.compute(ctx)
		node.SetLocalTransform(result)
		c.hider.rotateFirstPerson(ctx, result)
		if third := c.host.ThirdPerson(); third != nil {
			third.SetPosition(result.Position)
		}
		c.headtrack(ctx)
	} else {
		c.didCollide = false
	}

	if !c.enabled && ctx.Settings.ReplaceDefaultCamera && ctx.CameraState == host.CameraFirstPerson {
		c.host.EnterThirdPerson()
		c.controller.SetWantState(EnabledFromTogglePOV)
	}
}

// compute resolves the anchor and runs every transform stage through collision.
// The smoothed anchor is read before this frame's head sample is recorded, so it trails
// the raw head by one frame.
func (c *cameraImpl) compute(ctx *update.Context) common.Transform {
	head := ctx.Target.HeadNode.WorldTransform()
	root := head
	if sroot := ctx.Target.StabilizeRootNode; sroot != nil {
		rootWorld := sroot.WorldTransform()
		if smoothed, ok := c.stabilizer.Get(rootWorld, ctx.Now); ok {
			root = smoothed
		}
		c.stabilizer.Update(rootWorld, head, ctx.Now)
	}

	cur := c.compose(ctx, root, head)
	cur.Position = c.stabilizer.ApplyTween(cur.Position, ctx.Now)

	pos, collided := c.resolver.Apply(ctx, cur)
	c.didCollide = collided
	cur.Position = pos

	c.final = cur
	c.hasResult = true
	return cur
}

// calculateEnabled handles the hotkeys and decides whether the camera may run this frame.
func (c *cameraImpl) calculateEnabled(ctx *update.Context) bool {
	toggle, reload := c.controller.Poll(c.host)
	if toggle {
		if c.enabled {
			c.controller.SetWantState(DisabledFromHotkey)
		} else {
			c.controller.SetWantState(EnabledFromHotkey)
		}
	}
	if reload {
		if err := c.reload(ctx); err != nil {
			c.logger.Printf("[Camera] reload failed: %v", err)
		}
		ctx.Settings = c.settings
		ctx.Values = c.values
	}

	wantEnabled := ctx.Values.Get(value.WantEnabled)
	wantDisabled := ctx.Values.Get(value.WantDisabled)
	wantEnabled.Update(ctx.Now, c.enabled)
	wantDisabled.Update(ctx.Now, c.enabled)
	if wantDisabled.CurrentValue() > 0 || wantEnabled.CurrentValue() <= 0 {
		return false
	}

	switch ctx.CameraState {
	case host.CameraFree, host.CameraFirstPerson, host.CameraTweenMenu, host.CameraAutoVanity:
		return false
	case host.CameraVATS:
		if ctx.Settings.DisableDuringKillmove {
			return false
		}
	}
	return !c.host.IsMenuOpen(host.RaceSexMenu)
}

func (c *cameraImpl) onEnabled(ctx *update.Context) {
	c.turnFrames = 0
	c.logger.Printf("[Camera] enabled (%s)", c.controller.WantState())
}

func (c *cameraImpl) onDisabled(ctx *update.Context) {
	c.hider.clear()
	c.stabilizer = nil
	c.updateSkeleton(ctx, false, true)
	c.logger.Printf("[Camera] disabled (%s)", c.controller.WantState())
}

// updateSkeleton shows or hides the player's first- and third-person skeletons.
func (c *cameraImpl) updateSkeleton(ctx *update.Context, showFirst, showThird bool) {
	actor := ctx.Actor()
	if actor == nil || !actor.IsPlayer() {
		return
	}
	fp, tp := actor.Skeleton(true), actor.Skeleton(false)
	if fp == nil || tp == nil {
		return
	}
	if fp.Enabled() != showFirst {
		fp.SetEnabled(showFirst)
	}
	if tp.Enabled() != showThird {
		tp.SetEnabled(showThird)
	}
}

func (c *cameraImpl) Reload() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	ctx := update.New(c.host, c.settings, c.values, c.clock.Now(), 0)
	ctx.Enabled = c.enabled
	return c.reload(ctx)
}

// reload swaps in fresh settings. States are disabled first so their modifiers leave the old channels.
// Caller must hold the mutex.
func (c *cameraImpl) reload(ctx *update.Context) error {
	if c.loader == nil {
		return nil
	}
	s, err := c.loader()
	if err != nil {
		return err
	}

	c.stack.DisableAll(ctx)
	c.settings = s
	c.values.Seed(s)
	c.controller.SetKeys(s.ToggleKey(), s.ReloadKey())
	c.controller.SetReplaceDefaultCamera(s.ReplaceDefaultCamera)
	c.controller.Bind(c.values)
	c.loadProfiles(s.ProfileDir)
	c.stabilizer = nil
	c.logger.Printf("[Camera] settings reloaded")
	return nil
}

// loadProfiles replaces the custom states with the profiles found in dir.
func (c *cameraImpl) loadProfiles(dir string) {
	if dir == "" {
		c.stack.SetProfiles(nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), profileLoadTimeout)
	defer cancel()

	profiles, err := profile.LoadDir(ctx, dir)
	if err != nil {
		c.logger.Printf("[Camera] loading profiles from %s: %v", dir, err)
		return
	}
	c.stack.SetProfiles(profiles)
	if len(profiles) > 0 {
		c.logger.Printf("[Camera] loaded %d profiles from %s", len(profiles), dir)
	}
}

func (c *cameraImpl) IsEnabled() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.enabled
}

func (c *cameraImpl) LastResult() (common.Transform, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.final, c.hasResult
}

func (c *cameraImpl) DidCollideLastUpdate() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.didCollide
}

func (c *cameraImpl) Values() value.Map {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.values
}

func (c *cameraImpl) Stack() state.Stack {
	return c.stack
}

func (c *cameraImpl) Cull() cull.Table {
	return c.table
}

func (c *cameraImpl) Clock() clock.Clock {
	return c.clock
}

func (c *cameraImpl) Controller() CameraController {
	return c.controller
}

func (c *cameraImpl) Settings() config.Settings {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.settings
}

func (c *cameraImpl) SetWantState(s WantState) bool {
	return c.controller.SetWantState(s)
}

func (c *cameraImpl) FixLookSensitivity(x, y, seconds float64) (float64, float64) {
	return c.controller.FixLookSensitivity(x, y, seconds, c.IsEnabled())
}
