package game_object

import (
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
)

var nextAddress atomic.Uintptr

type gameObject struct {
	mu *sync.RWMutex

	id       uint64
	address  uintptr
	name     string
	enabled  atomic.Bool
	parent   *gameObject
	children []*gameObject

	local common.Transform

	// collider is an axis-aligned box in world space around the world position; zero extents mean no collider.
	colliderHalfExtents common.Vector3
	colliderLayer       host.Layer
}

// GameObject is a node in the in-memory scene graph. It satisfies host.Node so the camera
// pipeline can read and write it the same way it would a node owned by a real game.
// A GameObject may carry a box collider that the scene raycasts against.
type GameObject interface {
	host.Node

	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// Children returns a copy of the direct children.
	//
	// Returns:
	//   - []GameObject: the child nodes in insertion order
	Children() []GameObject

	// AddChild attaches child below this node, detaching it from any previous parent.
	//
	// Parameters:
	//   - child: the node to attach
	AddChild(child GameObject)

	// RemoveChild detaches child if it is a direct child of this node.
	//
	// Parameters:
	//   - child: the node to detach
	RemoveChild(child GameObject)

	// Collider returns the box collider half extents and layer. ok is false if the object has no collider.
	//
	// Returns:
	//   - common.Vector3: half extents along each world axis
	//   - host.Layer: the collision layer reported on hits
	//   - bool: true if a collider is set
	Collider() (common.Vector3, host.Layer, bool)

	// SetCollider sets the box collider. Zero half extents remove it.
	//
	// Parameters:
	//   - halfExtents: half extents along each world axis
	//   - layer: the collision layer reported on hits
	SetCollider(halfExtents common.Vector3, layer host.Layer)

	// Walk visits this node and all descendants depth first. Returning false from fn stops the walk.
	//
	// Parameters:
	//   - fn: visitor
	Walk(fn func(GameObject) bool)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new enabled GameObject configured with the given options.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		mu:      &sync.RWMutex{},
		address: nextAddress.Add(0x10),
		local:   common.IdentityTransform(),
	}
	obj.enabled.Store(true)
	for _, option := range options {
		option(obj)
	}
	return obj
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) Name() string {
	return g.name
}

func (g *gameObject) Address() uintptr {
	return g.address
}

func (g *gameObject) Parent() host.Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.parent == nil {
		return nil
	}
	return g.parent
}

func (g *gameObject) Enabled() bool {
	return g.enabled.Load()
}

func (g *gameObject) SetEnabled(enabled bool) {
	g.enabled.Store(enabled)
}

func (g *gameObject) Scale() float64 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.local.Scale
}

func (g *gameObject) SetScale(s float64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.local.Scale = s
}

func (g *gameObject) LocalTransform() common.Transform {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.local
}

func (g *gameObject) SetLocalTransform(t common.Transform) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.local = t
}

func (g *gameObject) WorldTransform() common.Transform {
	g.mu.RLock()
	local, parent := g.local, g.parent
	g.mu.RUnlock()
	if parent == nil {
		return local
	}
	return parent.WorldTransform().Multiply(local)
}

func (g *gameObject) Lookup(name string) host.Node {
	var found host.Node
	g.Walk(func(n GameObject) bool {
		if strings.EqualFold(n.Name(), name) {
			found = n
			return false
		}
		return true
	})
	return found
}

func (g *gameObject) Children() []GameObject {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]GameObject, len(g.children))
	for i, c := range g.children {
		out[i] = c
	}
	return out
}

func (g *gameObject) AddChild(child GameObject) {
	c, ok := child.(*gameObject)
	if !ok || c == g {
		return
	}
	c.mu.RLock()
	old := c.parent
	c.mu.RUnlock()
	if old != nil {
		old.RemoveChild(c)
	}

	g.mu.Lock()
	g.children = append(g.children, c)
	g.mu.Unlock()

	c.mu.Lock()
	c.parent = g
	c.mu.Unlock()
}

func (g *gameObject) RemoveChild(child GameObject) {
	c, ok := child.(*gameObject)
	if !ok {
		return
	}
	g.mu.Lock()
	for i, existing := range g.children {
		if existing == c {
			g.children = append(g.children[:i], g.children[i+1:]...)
			break
		}
	}
	g.mu.Unlock()

	c.mu.Lock()
	if c.parent == g {
		c.parent = nil
	}
	c.mu.Unlock()
}

func (g *gameObject) Collider() (common.Vector3, host.Layer, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.colliderHalfExtents, g.colliderLayer, !g.colliderHalfExtents.IsZero()
}

func (g *gameObject) SetCollider(halfExtents common.Vector3, layer host.Layer) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.colliderHalfExtents = halfExtents
	g.colliderLayer = layer
}

func (g *gameObject) Walk(fn func(GameObject) bool) {
	g.walk(fn)
}

func (g *gameObject) walk(fn func(GameObject) bool) bool {
	if !fn(g) {
		return false
	}
	for _, c := range g.Children() {
		if !c.(*gameObject).walk(fn) {
			return false
		}
	}
	return true
}
