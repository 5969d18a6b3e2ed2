// Package collision pulls the camera in front of geometry between the followed actor and the eye.
package collision

import (
	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/update"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/value"
)

// DefaultLayers are the collision layers that block the camera. Clutter and props are excluded
// so small loose objects never shove the view around.
var DefaultLayers = []host.Layer{
	host.LayerAnimStatic, host.LayerBiped, host.LayerCharController,
	host.LayerDebrisLarge, host.LayerGround, host.LayerStatic,
	host.LayerTerrain, host.LayerTrap, host.LayerTrees, host.LayerUnidentified,
}

// LayerMask is a bit set of accepted collision layers.
type LayerMask uint64

// MaskOf builds a mask with a bit per layer.
//
// Parameters:
//   - layers: the accepted layers
//
// Returns:
//   - LayerMask: the combined mask
func MaskOf(layers ...host.Layer) LayerMask {
	var m LayerMask
	for _, l := range layers {
		if l >= 0 && l < 64 {
			m |= 1 << uint(l)
		}
	}
	return m
}

// Accepts reports whether hits on l block the camera. Hits without a known layer always do.
func (m LayerMask) Accepts(l host.Layer) bool {
	if l < 0 || l >= 64 {
		return true
	}
	return m&(1<<uint(l)) != 0
}

type resolverImpl struct {
	mask LayerMask
}

// Resolver clamps a desired camera position against the scene.
type Resolver interface {
	// LayerMask returns the accepted collision layers.
	LayerMask() LayerMask

	// Apply casts from the actor toward t.Position and returns the pulled-in position.
	// The rotation of t is never changed.
	//
	// Parameters:
	//   - ctx: the frame context
	//   - t: the desired camera transform
	//
	// Returns:
	//   - common.Vector3: the collided position, or t.Position when nothing was hit
	//   - bool: true if a blocking hit moved the camera
	Apply(ctx *update.Context, t common.Transform) (common.Vector3, bool)
}

var _ Resolver = &resolverImpl{}

// NewResolver creates a resolver accepting DefaultLayers unless WithLayers says otherwise.
//
// Parameters:
//   - options: variadic list of ResolverBuilderOption
//
// Returns:
//   - Resolver: the newly created resolver
func NewResolver(options ...ResolverBuilderOption) Resolver {
	r := &resolverImpl{mask: MaskOf(DefaultLayers...)}
	for _, opt := range options {
		opt(r)
	}
	return r
}

func (r *resolverImpl) LayerMask() LayerMask {
	return r.mask
}

func (r *resolverImpl) Apply(ctx *update.Context, t common.Transform) (common.Vector3, bool) {
	if ctx == nil || ctx.Host == nil || ctx.Values == nil {
		return t.Position, false
	}
	if ctx.Value(value.CollisionEnabled) < 0.5 {
		return t.Position, false
	}
	actor := ctx.Actor()
	if actor == nil {
		return t.Position, false
	}
	cell := actor.Cell()
	if cell == nil {
		return t.Position, false
	}

	safety := max(ctx.Value(value.NearClip)+1, 1)
	safety2 := max(ctx.Settings.CameraCollisionSafety, 0)
	margin := safety + safety2

	origin := actor.Position()
	origin.Z = t.Position.Z
	if safety2 > 0 {
		pulled := t
		pulled.Position = origin
		pulled.Scale = 1
		origin = pulled.Translate(common.Vector3{Y: -safety2 * 0.5})
	}

	dir := t.Position.Sub(origin)
	length := dir.Length()
	if length <= 0 {
		return t.Position, false
	}
	extended := length + margin
	end := origin.Add(dir.Normalize().Scale(extended))

	hits := ctx.Host.Raycast(cell, origin, end)
	if len(hits) == 0 {
		return t.Position, false
	}

	ignore := r.ignoreList(ctx, actor)
	best := -1.0
	for _, h := range hits {
		if !r.mask.Accepts(h.Layer) || ignored(h.Object, ignore) {
			continue
		}
		if best < 0 || h.Fraction < best {
			best = h.Fraction
		}
	}
	if best < 0 {
		return t.Position, false
	}

	// Negative is allowed: the camera may end up in front of the near clip point.
	adjusted := (best*extended - margin) / extended
	return origin.Add(end.Sub(origin).Scale(adjusted)), true
}

func (r *resolverImpl) ignoreList(ctx *update.Context, actor host.Actor) []host.Node {
	ignore := make([]host.Node, 0, 3)
	if sk := actor.Skeleton(true); sk != nil {
		ignore = append(ignore, sk)
	}
	if sk := actor.Skeleton(false); sk != nil {
		ignore = append(ignore, sk)
	}
	if ctx.Mounted {
		if m := actor.Mount(); m != nil {
			if sk := m.Skeleton(false); sk != nil {
				ignore = append(ignore, sk)
			}
		}
	}
	return ignore
}

func ignored(n host.Node, ignore []host.Node) bool {
	if n == nil {
		return false
	}
	for _, o := range ignore {
		if o.Address() == n.Address() {
			return true
		}
	}
	return false
}
