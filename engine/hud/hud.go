// Package hud is a terminal inspector for the camera: its status, final transform, active states
// and every value channel, redrawn once per update.
package hud

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/camera"
	"github.com/gdamore/tcell/v2"
)

// Channel is one value channel as shown by the HUD.
type Channel struct {
	Key     string
	Current float64
	Target  float64
}

// Snapshot is everything the HUD draws for one frame.
type Snapshot struct {
	Enabled  bool
	Collided bool
	Want     string
	HasFinal bool
	Position common.Vector3
	// Yaw and Pitch are in degrees.
	Yaw    float64
	Pitch  float64
	States []string
	Values []Channel
}

// SnapshotOf captures the camera's current status.
//
// Parameters:
//   - c: the camera
//
// Returns:
//   - Snapshot: the captured status
func SnapshotOf(c camera.Camera) Snapshot {
	s := Snapshot{
		Enabled:  c.IsEnabled(),
		Collided: c.DidCollideLastUpdate(),
		Want:     c.Controller().WantState().String(),
	}
	if final, ok := c.LastResult(); ok {
		angles := final.Rotation.EulerAngles()
		s.HasFinal = true
		s.Position = final.Position
		s.Yaw = common.RadToDeg(angles.Z)
		s.Pitch = common.RadToDeg(angles.X)
	}
	for _, st := range c.Stack().States() {
		if st.IsActive() {
			s.States = append(s.States, st.Name())
		}
	}
	for _, v := range c.Values().All() {
		s.Values = append(s.Values, Channel{Key: v.Key(), Current: v.CurrentValue(), Target: v.TargetValue()})
	}
	return s
}

var (
	styleLabel    = tcell.StyleDefault.Foreground(tcell.ColorGray)
	styleText     = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	styleEnabled  = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	styleDisabled = tcell.StyleDefault.Foreground(tcell.ColorRed)
	styleCollided = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	styleChanged  = tcell.StyleDefault.Foreground(tcell.ColorAqua)
)

// channelWidth is the column width of one value entry.
const channelWidth = 48

// HUD draws camera snapshots to a terminal screen.
type HUD interface {
	// Draw clears the screen and draws s.
	//
	// Parameters:
	//   - s: the snapshot to draw
	Draw(s Snapshot)

	// Screen returns the underlying screen.
	Screen() tcell.Screen

	// Close restores the terminal.
	Close()
}

type hudImpl struct {
	mu     *sync.Mutex
	screen tcell.Screen
	title  string
	closed bool
}

var _ HUD = &hudImpl{}

// NewHUD initializes a screen and returns a HUD drawing to it. Without WithScreen the real
// terminal is used.
//
// Parameters:
//   - options: functional options to configure the HUD
//
// Returns:
//   - HUD: the HUD
//   - error: if the terminal could not be initialized
func NewHUD(options ...HUDBuilderOption) (HUD, error) {
	h := &hudImpl{
		mu:    &sync.Mutex{},
		title: "IFPV",
	}
	for _, opt := range options {
		opt(h)
	}
	if h.screen == nil {
		screen, err := tcell.NewScreen()
		if err != nil {
			return nil, fmt.Errorf("creating screen: %w", err)
		}
		h.screen = screen
	}
	if err := h.screen.Init(); err != nil {
		return nil, fmt.Errorf("initializing screen: %w", err)
	}
	h.screen.HideCursor()
	return h, nil
}

func (h *hudImpl) Screen() tcell.Screen {
	return h.screen
}

func (h *hudImpl) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	h.screen.Fini()
}

func (h *hudImpl) Draw(s Snapshot) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}

	h.screen.Clear()
	width, height := h.screen.Size()

	x := h.put(0, 0, h.title+"  ", styleLabel)
	if s.Enabled {
		x = h.put(x, 0, "ENABLED", styleEnabled)
	} else {
		x = h.put(x, 0, "DISABLED", styleDisabled)
	}
	x = h.put(x, 0, "  want: ", styleLabel)
	x = h.put(x, 0, s.Want, styleText)
	if s.Collided {
		h.put(x+2, 0, "COLLIDED", styleCollided)
	}

	if s.HasFinal {
		h.put(0, 1, fmt.Sprintf("pos %8.2f %8.2f %8.2f   yaw %7.2f   pitch %7.2f",
			s.Position.X, s.Position.Y, s.Position.Z, s.Yaw, s.Pitch), styleText)
	} else {
		h.put(0, 1, "no result", styleLabel)
	}

	x = h.put(0, 2, "states: ", styleLabel)
	for i, name := range s.States {
		if i > 0 {
			x = h.put(x, 2, ", ", styleLabel)
		}
		x = h.put(x, 2, name, styleText)
	}

	// Channels fill columns top to bottom below the header.
	const top = 4
	rows := height - top
	cols := max(width/channelWidth, 1)
	if rows <= 0 {
		h.screen.Show()
		return
	}
	for i, ch := range s.Values {
		col, row := i/rows, i%rows
		if col >= cols {
			break
		}
		style := styleText
		if ch.Current != ch.Target {
			style = styleChanged
		}
		cx := col * channelWidth
		h.put(cx, top+row, fmt.Sprintf("%-36s", ch.Key), styleLabel)
		h.put(cx+36, top+row, fmt.Sprintf("%10.3f", ch.Current), style)
	}

	h.screen.Show()
}

// put writes text at (x, y) and returns the column after it. Text past the right edge is dropped.
func (h *hudImpl) put(x, y int, text string, style tcell.Style) int {
	width, _ := h.screen.Size()
	for _, r := range text {
		if x >= width {
			break
		}
		h.screen.SetContent(x, y, r, nil, style)
		x++
	}
	return x
}
