// Package host declares the narrow contract the camera pipeline needs from the game engine it runs in.
// Everything here is implemented by an adapter; the in-memory scene package provides a reference one.
package host

import "github.com/Carmen-Shannon/oxy-ifpv/common"

// CameraStateID identifies the host's own camera mode.
type CameraStateID int

const (
	CameraThirdPerson CameraStateID = iota
	CameraFirstPerson
	CameraFree
	CameraTweenMenu
	CameraAutoVanity
	CameraVATS
	CameraFurniture
	CameraHorse
	CameraDragon
	CameraBleedout
)

// RaceSexMenu is the character creation menu; the camera stays off while it is open.
const RaceSexMenu = "RaceSex Menu"

// Node is a scene graph node: a bone, a skeleton root or the camera node itself.
type Node interface {
	// Name returns the node name as authored in the skeleton.
	Name() string

	// Address returns a value unique to this node for its lifetime. Used for identity checks only.
	Address() uintptr

	// Parent returns the parent node, or nil for a detached or root node.
	Parent() Node

	// Enabled reports whether the node is drawn.
	Enabled() bool

	// SetEnabled shows or hides the node and its children.
	SetEnabled(enabled bool)

	// Scale returns the local uniform scale.
	Scale() float64

	// SetScale sets the local uniform scale.
	SetScale(s float64)

	// LocalTransform returns the transform relative to the parent.
	LocalTransform() common.Transform

	// SetLocalTransform replaces the transform relative to the parent and refreshes world transforms below it.
	SetLocalTransform(t common.Transform)

	// WorldTransform returns the transform in world space.
	WorldTransform() common.Transform

	// Lookup finds a descendant (or the node itself) by name, case-insensitively. First match wins.
	//
	// Parameters:
	//   - name: the node name
	//
	// Returns:
	//   - Node: the matching node, or nil
	Lookup(name string) Node
}

// Race describes an actor race for profile conditions.
type Race struct {
	FormID   uint32
	Name     string
	EditorID string
}

// Object is any placed reference the camera can follow.
type Object interface {
	// FormID returns the reference id.
	FormID() uint32

	// Name returns the display name.
	Name() string

	// Position returns the reference origin in world space, at the feet for actors.
	Position() common.Vector3

	// Cell returns the loaded cell the object stands in, or nil.
	Cell() Cell

	// Node returns the object's loaded 3D root, or nil.
	Node() Node
}

// Actor is an Object with a skeleton that can ride, be ridden and turn.
type Actor interface {
	Object

	// IsPlayer reports whether this is the player character.
	IsPlayer() bool

	// Skeleton returns the first- or third-person skeleton root, or nil if not loaded.
	Skeleton(firstPerson bool) Node

	// Race returns the actor race.
	Race() Race

	// HasKeyword reports whether the actor or its race carries the keyword.
	HasKeyword(keyword string) bool

	// Mount returns the actor being ridden, or nil.
	Mount() Actor

	// RiddenBy returns the rider if this actor is being ridden, or nil.
	RiddenBy() Actor

	// Rotation returns pitch (X) and yaw (Z) of the actor in radians.
	Rotation() common.Vector3

	// Turn rotates the actor by yaw about Z and pitch about X.
	Turn(yaw, pitch float64)

	// SetLookAt points the actor's head tracking at a world position.
	SetLookAt(pos common.Vector3)

	// SetHeadTracking toggles head tracking.
	SetHeadTracking(enabled bool)

	// HeadTracking reports whether head tracking is on.
	HeadTracking() bool

	// Movement returns how the actor is moving this frame.
	Movement() Movement
}

// Gait is the actor's movement speed class.
type Gait int

const (
	GaitStanding Gait = iota
	GaitWalking
	GaitRunning
	GaitSprinting
)

// MoveDirection is the movement direction relative to the actor's facing, in 45 degree steps
// clockwise from forward.
type MoveDirection int

const (
	MoveNone MoveDirection = iota - 1
	MoveForward
	MoveForwardRight
	MoveRight
	MoveBackwardRight
	MoveBackward
	MoveBackwardLeft
	MoveLeft
	MoveForwardLeft
)

// Movement is the actor's movement state for one frame.
type Movement struct {
	Gait      Gait
	Direction MoveDirection
	Sneaking  bool
	Swimming  bool
}

// Strafing reports whether the actor moves straight left or right.
func (m Movement) Strafing() bool {
	return m.Direction == MoveLeft || m.Direction == MoveRight
}

// Cell is a loaded interior or exterior cell.
type Cell interface {
	// Interior reports whether the cell is an interior.
	Interior() bool
}

// Layer is a collision layer reported with a ray hit.
type Layer int

// Collision layers, numbered as the host's physics reports them.
const (
	LayerUnknown        Layer = -1
	LayerUnidentified   Layer = 0
	LayerStatic         Layer = 1
	LayerAnimStatic     Layer = 2
	LayerTransparent    Layer = 3
	LayerClutter        Layer = 4
	LayerWeapon         Layer = 5
	LayerProjectile     Layer = 6
	LayerBiped          Layer = 8
	LayerTrees          Layer = 9
	LayerProps          Layer = 10
	LayerWater          Layer = 11
	LayerTerrain        Layer = 13
	LayerTrap           Layer = 14
	LayerGround         Layer = 17
	LayerDebrisSmall    Layer = 19
	LayerDebrisLarge    Layer = 20
	LayerClutterLarge   Layer = 29
	LayerCharController Layer = 30
)

// Hit is one intersection reported by a raycast.
type Hit struct {
	// Fraction is the distance along the ray in [0, 1].
	Fraction float64
	// Object is the node that was hit, or nil if the host could not resolve it.
	Object Node
	// Layer is the collision layer, LayerUnknown if the host has no physics body for the hit.
	Layer Layer
}

// Raycaster casts rays against the scene geometry of a cell.
type Raycaster interface {
	// Raycast returns every hit between from and to, in no particular order.
	//
	// Parameters:
	//   - cell: the cell to cast in
	//   - from: ray start in world space
	//   - to: ray end in world space
	//
	// Returns:
	//   - []Hit: the hits, empty if none
	Raycast(cell Cell, from, to common.Vector3) []Hit
}

// KeyState reports discrete key state for the toggle and reload hotkeys.
type KeyState interface {
	// KeyDown reports whether the key is currently held.
	KeyDown(key common.KeyCode) bool
}

// ThirdPersonState is the host's third-person camera state. The free-look rotation it accumulates
// feeds the input rotation channels.
type ThirdPersonState interface {
	// XRotationFromLastResetPoint returns the horizontal free-look rotation in radians.
	XRotationFromLastResetPoint() float64
	SetXRotationFromLastResetPoint(x float64)

	// YRotationFromLastResetPoint returns the vertical free-look rotation in radians.
	YRotationFromLastResetPoint() float64
	SetYRotationFromLastResetPoint(y float64)

	// FreeLooking reports whether the player is looking around without turning the actor.
	FreeLooking() bool

	// SetPosition mirrors the camera position into the state.
	SetPosition(pos common.Vector3)
}

// Host is the full per-frame view of the game the camera needs.
type Host interface {
	Raycaster
	KeyState

	// Now returns the frame clock in milliseconds.
	Now() int64

	// IsPaused reports whether the game is paused, e.g. in a menu.
	IsPaused() bool

	// Player returns the player actor, or nil before a save is loaded.
	Player() Actor

	// CameraTarget returns the reference the host camera follows, or nil.
	CameraTarget() Object

	// CameraNode returns the live camera node the result is written into, or nil.
	CameraNode() Node

	// CameraState returns the host camera mode.
	CameraState() CameraStateID

	// ThirdPerson returns the third-person state when the host camera is in it, else nil.
	ThirdPerson() ThirdPersonState

	// EnterThirdPerson switches the host camera out of its own first-person mode.
	EnterThirdPerson()

	// IsMenuOpen reports whether the named menu is open.
	IsMenuOpen(name string) bool

	// NearClip returns the host near clip distance.
	NearClip() float64

	// SetNearClip sets the host near clip distance.
	SetNearClip(d float64)
}
