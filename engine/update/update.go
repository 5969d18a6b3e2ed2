// Package update carries the per-frame context every camera stage reads.
package update

import (
	"github.com/Carmen-Shannon/oxy-ifpv/engine/config"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/target"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/value"
)

// Context is built once per frame and passed explicitly to each stage.
type Context struct {
	Host     host.Host
	Settings config.Settings
	Values   value.Map

	// Target is nil when nothing can be followed this frame.
	Target *target.Target

	// Now is the camera frame clock in milliseconds.
	Now int64
	// Elapsed is the time since the previous camera frame in milliseconds.
	Elapsed int64

	CameraState host.CameraStateID
	// Mounted caches Target.Mounted() for the frame.
	Mounted bool
	// Enabled is the camera's enabled state as computed at the start of the frame.
	Enabled bool
	// DidCollideLastUpdate reports whether the previous frame's collision moved the camera.
	DidCollideLastUpdate bool
}

// New builds a context for one frame and resolves the camera target.
//
// Parameters:
//   - h: the host
//   - s: the active settings
//   - values: the value map
//   - now: the camera frame clock in milliseconds
//   - elapsed: time since the previous camera frame in milliseconds
//
// Returns:
//   - *Context: the frame context
func New(h host.Host, s config.Settings, values value.Map, now, elapsed int64) *Context {
	ctx := &Context{
		Host:     h,
		Settings: s,
		Values:   values,
		Now:      now,
		Elapsed:  elapsed,
	}
	if h != nil {
		ctx.CameraState = h.CameraState()
		ctx.Target = target.Resolve(h.CameraTarget())
	}
	if ctx.Target != nil {
		ctx.Mounted = ctx.Target.Mounted()
	}
	return ctx
}

// Actor returns the followed actor, or nil.
func (c *Context) Actor() host.Actor {
	if c.Target == nil {
		return nil
	}
	return c.Target.Actor
}

// Value returns the current value of a channel.
//
// Parameters:
//   - id: the channel
//
// Returns:
//   - float64: the channel's current value
func (c *Context) Value(id value.ID) float64 {
	return c.Values.Get(id).CurrentValue()
}
