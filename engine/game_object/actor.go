package game_object

import (
	"strings"
	"sync"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
)

type cell struct {
	interior bool
	root     GameObject
}

// Cell is a loaded cell holding the static geometry rays are cast against.
type Cell interface {
	host.Cell

	// Root returns the node every collider in the cell hangs below.
	//
	// Returns:
	//   - GameObject: the cell root
	Root() GameObject
}

var _ Cell = &cell{}

// NewCell creates a cell with an empty root node.
//
// Parameters:
//   - interior: true for an interior cell
//
// Returns:
//   - Cell: the new cell
func NewCell(interior bool) Cell {
	return &cell{
		interior: interior,
		root:     NewGameObject(WithName("CellRoot")),
	}
}

func (c *cell) Interior() bool {
	return c.interior
}

func (c *cell) Root() GameObject {
	return c.root
}

type actor struct {
	mu *sync.RWMutex

	formID uint32
	name   string
	player bool
	cell   host.Cell

	// root is the loaded 3D, which is also the third-person skeleton.
	root        GameObject
	firstPerson GameObject

	race     host.Race
	keywords map[string]struct{}

	mount *actor
	rider *actor

	rotation     common.Vector3
	lookAt       common.Vector3
	headTracking bool
	movement     host.Movement
}

// Actor is an in-memory host.Actor. Its yaw drives the rotation of the root node,
// so turning the actor turns the skeleton the camera samples.
type Actor interface {
	host.Actor

	// Root returns the third-person skeleton root as a GameObject.
	//
	// Returns:
	//   - GameObject: the skeleton root
	Root() GameObject

	// SetCell moves the actor into c.
	//
	// Parameters:
	//   - c: the new cell, or nil
	SetCell(c host.Cell)

	// SetMount puts the actor on m, or dismounts it when m is nil.
	//
	// Parameters:
	//   - m: the mount
	SetMount(m Actor)

	// SetRotation replaces pitch (X) and yaw (Z) and re-orients the root.
	//
	// Parameters:
	//   - rot: the new rotation in radians
	SetRotation(rot common.Vector3)

	// SetMovement replaces the movement state reported by Movement.
	//
	// Parameters:
	//   - m: the new movement state
	SetMovement(m host.Movement)

	// LookAt returns the last head tracking point.
	//
	// Returns:
	//   - common.Vector3: the world position passed to SetLookAt
	LookAt() common.Vector3
}

var _ Actor = &actor{}

// NewActor creates an actor. A root skeleton named "NPC Root [Root]" is created if none is given.
//
// Parameters:
//   - formID: the reference id
//   - options: functional options to configure the actor
//
// Returns:
//   - Actor: the new actor
func NewActor(formID uint32, options ...ActorBuilderOption) Actor {
	a := &actor{
		mu:       &sync.RWMutex{},
		formID:   formID,
		keywords: make(map[string]struct{}),
		movement: host.Movement{Direction: host.MoveNone},
	}
	for _, opt := range options {
		opt(a)
	}
	if a.root == nil {
		a.root = NewGameObject(WithName("NPC Root [Root]"))
	}
	a.applyYaw()
	return a
}

func (a *actor) FormID() uint32 {
	return a.formID
}

func (a *actor) Name() string {
	return a.name
}

func (a *actor) Position() common.Vector3 {
	return a.root.WorldTransform().Position
}

func (a *actor) Cell() host.Cell {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.cell
}

func (a *actor) SetCell(c host.Cell) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cell = c
}

func (a *actor) Node() host.Node {
	return a.root
}

func (a *actor) Root() GameObject {
	return a.root
}

func (a *actor) IsPlayer() bool {
	return a.player
}

func (a *actor) Skeleton(firstPerson bool) host.Node {
	if firstPerson {
		if a.firstPerson == nil {
			return nil
		}
		return a.firstPerson
	}
	return a.root
}

func (a *actor) Race() host.Race {
	return a.race
}

func (a *actor) HasKeyword(keyword string) bool {
	_, ok := a.keywords[strings.ToLower(keyword)]
	return ok
}

func (a *actor) Mount() host.Actor {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.mount == nil {
		return nil
	}
	return a.mount
}

func (a *actor) RiddenBy() host.Actor {
	a.mu.RLock()
	defer a.mu.RUnlock()
	if a.rider == nil {
		return nil
	}
	return a.rider
}

func (a *actor) SetMount(m Actor) {
	a.mu.Lock()
	old := a.mount
	a.mount = nil
	a.mu.Unlock()
	if old != nil {
		old.mu.Lock()
		old.rider = nil
		old.mu.Unlock()
	}

	mount, ok := m.(*actor)
	if !ok || mount == nil || mount == a {
		return
	}
	a.mu.Lock()
	a.mount = mount
	a.mu.Unlock()
	mount.mu.Lock()
	mount.rider = a
	mount.mu.Unlock()
}

func (a *actor) Rotation() common.Vector3 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.rotation
}

func (a *actor) SetRotation(rot common.Vector3) {
	a.mu.Lock()
	a.rotation = common.Vector3{X: common.ClampToPi(rot.X), Z: common.ClampToPi(rot.Z)}
	a.mu.Unlock()
	a.applyYaw()
}

func (a *actor) Turn(yaw, pitch float64) {
	a.mu.RLock()
	rot := a.rotation
	a.mu.RUnlock()
	rot.Z += yaw
	rot.X += pitch
	a.SetRotation(rot)
}

func (a *actor) SetLookAt(pos common.Vector3) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.lookAt = pos
}

func (a *actor) LookAt() common.Vector3 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.lookAt
}

func (a *actor) SetHeadTracking(enabled bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.headTracking = enabled
}

func (a *actor) HeadTracking() bool {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.headTracking
}

func (a *actor) Movement() host.Movement {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.movement
}

func (a *actor) SetMovement(m host.Movement) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if m.Gait == host.GaitStanding {
		m.Direction = host.MoveNone
	}
	a.movement = m
}

// applyYaw writes the actor yaw into the root's local rotation. Pitch only affects aiming.
func (a *actor) applyYaw() {
	a.mu.RLock()
	yaw := a.rotation.Z
	a.mu.RUnlock()
	t := a.root.LocalTransform()
	t.Rotation = common.FromEuler(0, 0, yaw)
	a.root.SetLocalTransform(t)
}
