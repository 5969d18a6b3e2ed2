package hud

import "github.com/gdamore/tcell/v2"

type HUDBuilderOption func(*hudImpl)

// WithScreen draws to an existing screen, e.g. a tcell.SimulationScreen. NewHUD initializes it.
func WithScreen(screen tcell.Screen) HUDBuilderOption {
	return func(h *hudImpl) {
		h.screen = screen
	}
}

// WithTitle sets the label at the start of the status line.
func WithTitle(title string) HUDBuilderOption {
	return func(h *hudImpl) {
		h.title = title
	}
}
