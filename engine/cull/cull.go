// Package cull hides or shrinks parts of the followed actor's skeleton while the camera is inside it,
// and puts them back for the passes that must still see them (shadows, the host's own update).
package cull

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
)

// UnscaleAmount is the scale written to unscaled nodes. Small enough to be invisible,
// non-zero so the host keeps updating the node's children.
const UnscaleAmount = 0.00087

// Phase selects the edge of a host callback: Enter before the pass, Leave after it.
type Phase int

const (
	Enter Phase = iota
	Leave
)

type disabled struct {
	node host.Node
	// reset is 1 if the node was visible when hidden, -1 if it was already hidden, 0 if not sampled yet.
	reset int
}

type unscaled struct {
	node  host.Node
	scale float64
}

type tableImpl struct {
	mu *sync.Mutex

	disabled []disabled
	unscaled []unscaled
	putBack  map[uintptr]struct{}

	stateCull   int
	stateUpdate int
}

// Table is the reference-counted hide/show bookkeeping for skeleton nodes.
// A node is hidden while neither the shadow pass nor the host update is in progress;
// Enter/Leave callbacks for those passes nest and may arrive reentrantly.
type Table interface {
	// AddDisable hides node now (if no pass is running) and keeps it hidden until removed.
	// Nodes without a parent are recorded but never touched.
	//
	// Parameters:
	//   - node: the node to hide
	AddDisable(node host.Node)

	// RemoveDisable stops hiding node and shows it again if it was visible when added.
	//
	// Parameters:
	//   - node: the node to release
	//
	// Returns:
	//   - bool: false if node was not in the table
	RemoveDisable(node host.Node) bool

	// AddUnscale shrinks node to UnscaleAmount while no pass is running.
	//
	// Parameters:
	//   - node: the node to shrink
	AddUnscale(node host.Node)

	// RemoveUnscale restores node's original scale and stops tracking it.
	//
	// Parameters:
	//   - node: the node to release
	//
	// Returns:
	//   - bool: false if node was not in the table
	RemoveUnscale(node host.Node) bool

	// Clear restores every tracked node and empties the table.
	Clear()

	// OnUpdating brackets the host's own scene update.
	OnUpdating(phase Phase)

	// OnCulling brackets the shadow culling pass.
	OnCulling(phase Phase)

	// Len returns the number of disabled and unscaled entries.
	Len() (disabledCount, unscaledCount int)
}

var _ Table = &tableImpl{}

// NewTable creates an empty cull table.
func NewTable() Table {
	return &tableImpl{
		mu:      &sync.Mutex{},
		putBack: make(map[uintptr]struct{}),
	}
}

func (c *tableImpl) AddDisable(node host.Node) {
	if node == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	reset := 0
	if c.stateCull <= 0 {
		reset = -1
		if node.Enabled() {
			reset = 1
			setEnabled(node, false)
		}
	}
	c.disabled = append(c.disabled, disabled{node: node, reset: reset})
}

func (c *tableImpl) RemoveDisable(node host.Node) bool {
	if node == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	addr := node.Address()
	for i, d := range c.disabled {
		if d.node.Address() != addr {
			continue
		}
		c.disabled = append(c.disabled[:i], c.disabled[i+1:]...)
		delete(c.putBack, addr)
		if d.reset > 0 {
			setEnabled(node, true)
		}
		return true
	}
	return false
}

func (c *tableImpl) AddUnscale(node host.Node) {
	if node == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	orig := node.Scale()
	if orig == UnscaleAmount {
		orig = 1
	}
	if c.hideUnscaled() {
		setScale(node, UnscaleAmount)
	}
	c.unscaled = append(c.unscaled, unscaled{node: node, scale: orig})
}

func (c *tableImpl) RemoveUnscale(node host.Node) bool {
	if node == nil {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	addr := node.Address()
	for i, u := range c.unscaled {
		if u.node.Address() != addr {
			continue
		}
		c.unscaled = append(c.unscaled[:i], c.unscaled[i+1:]...)
		setScale(node, u.scale)
		return true
	}
	return false
}

func (c *tableImpl) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range c.disabled {
		if d.reset > 0 {
			setEnabled(d.node, true)
		}
	}
	c.disabled = c.disabled[:0]
	for _, u := range c.unscaled {
		setScale(u.node, u.scale)
	}
	c.unscaled = c.unscaled[:0]
	clear(c.putBack)
}

func (c *tableImpl) OnUpdating(phase Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch phase {
	case Enter:
		c.incUpdate()
	case Leave:
		c.decUpdate()
	}
}

func (c *tableImpl) OnCulling(phase Phase) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch phase {
	case Enter:
		c.incCull()
	case Leave:
		c.decCull()
	}
}

func (c *tableImpl) Len() (int, int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.disabled), len(c.unscaled)
}

func (c *tableImpl) hideUnscaled() bool {
	return c.stateCull <= 0 && c.stateUpdate <= 0
}

func (c *tableImpl) incCull() {
	c.stateCull++
	if c.stateCull != 1 {
		return
	}
	for i := range c.disabled {
		d := &c.disabled[i]
		if d.reset == 0 {
			d.reset = -1
			if d.node.Enabled() {
				d.reset = 1
			}
		}
		if !d.node.Enabled() && d.reset > 0 {
			setEnabled(d.node, true)
			c.putBack[d.node.Address()] = struct{}{}
		}
	}
	if c.stateUpdate <= 0 {
		for _, u := range c.unscaled {
			setScale(u.node, u.scale)
		}
	}
}

func (c *tableImpl) decCull() {
	c.stateCull--
	if c.stateCull != 0 {
		return
	}
	for _, d := range c.disabled {
		if _, ok := c.putBack[d.node.Address()]; ok {
			setEnabled(d.node, false)
		}
	}
	clear(c.putBack)
	if c.stateUpdate <= 0 {
		for _, u := range c.unscaled {
			setScale(u.node, UnscaleAmount)
		}
	}
}

func (c *tableImpl) incUpdate() {
	c.stateUpdate++
	if c.stateUpdate != 1 {
		return
	}
	if c.stateCull <= 0 {
		for _, u := range c.unscaled {
			setScale(u.node, u.scale)
		}
	}
}

func (c *tableImpl) decUpdate() {
	c.stateUpdate--
	if c.stateUpdate != 0 {
		return
	}
	if c.stateCull <= 0 {
		for _, u := range c.unscaled {
			setScale(u.node, UnscaleAmount)
		}
	}
}

func setEnabled(n host.Node, enabled bool) {
	if n.Parent() == nil || n.Enabled() == enabled {
		return
	}
	n.SetEnabled(enabled)
}

func setScale(n host.Node, s float64) {
	if n.Parent() == nil {
		return
	}
	n.SetScale(s)
}
