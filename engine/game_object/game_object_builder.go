package game_object

import (
	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the ID of the GameObject.
//
// Parameters:
//   - id: unique identifier for the GameObject
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the ID
func WithID(id uint64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.id = id
	}
}

// WithName sets the node name used by Lookup.
//
// Parameters:
//   - name: the node name
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the name
func WithName(name string) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.name = name
	}
}

// WithEnabled sets whether the GameObject is drawn.
//
// Parameters:
//   - enabled: true to draw the object, false to hide it
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the Enabled state
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.enabled.Store(enabled)
	}
}

// WithPosition sets the position relative to the parent.
//
// Parameters:
//   - x: the x position
//   - y: the y position
//   - z: the z position
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the local position
func WithPosition(x, y, z float64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.local.Position = common.Vector3{X: x, Y: y, Z: z}
	}
}

// WithScale sets the uniform scale relative to the parent.
//
// Parameters:
//   - s: the scale factor
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the local scale
func WithScale(s float64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.local.Scale = s
	}
}

// WithRotation sets the rotation relative to the parent from Euler angles.
//
// Parameters:
//   - pitch: rotation about X in radians
//   - roll: rotation about Y in radians
//   - yaw: rotation about Z in radians
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the local rotation
func WithRotation(pitch, roll, yaw float64) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.local.Rotation = common.FromEuler(pitch, roll, yaw)
	}
}

// WithCollider gives the object a world axis-aligned box collider centered on its world position.
//
// Parameters:
//   - halfExtents: half extents along each world axis
//   - layer: the collision layer reported on hits
//
// Returns:
//   - GameObjectBuilderOption: functional option to set the collider
func WithCollider(halfExtents common.Vector3, layer host.Layer) GameObjectBuilderOption {
	return func(obj *gameObject) {
		obj.colliderHalfExtents = halfExtents
		obj.colliderLayer = layer
	}
}

// WithChildren attaches the given objects as children.
//
// Parameters:
//   - children: the child objects
//
// Returns:
//   - GameObjectBuilderOption: functional option to attach children
func WithChildren(children ...GameObject) GameObjectBuilderOption {
	return func(obj *gameObject) {
		for _, c := range children {
			obj.AddChild(c)
		}
	}
}
