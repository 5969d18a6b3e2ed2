package window

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
)

// inputState collects key and cursor events from the platform callbacks so the camera can
// read them from its own goroutine.
type inputState struct {
	mu *sync.Mutex

	keys map[common.KeyCode]bool

	hasCursor      bool
	lastX, lastY   float64
	deltaX, deltaY float64
}

var _ host.KeyState = &inputState{}

func newInputState() *inputState {
	return &inputState{
		mu:   &sync.Mutex{},
		keys: make(map[common.KeyCode]bool),
	}
}

func (s *inputState) KeyDown(key common.KeyCode) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key]
}

func (s *inputState) setKey(key common.KeyCode, down bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if down {
		s.keys[key] = true
	} else {
		delete(s.keys, key)
	}
}

// moveCursor records an absolute cursor position. The first position only sets the reference.
// Screen Y grows downward, so it is flipped to make up positive.
func (s *inputState) moveCursor(x, y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasCursor {
		s.deltaX += x - s.lastX
		s.deltaY -= y - s.lastY
	}
	s.lastX, s.lastY = x, y
	s.hasCursor = true
}

func (s *inputState) takeDelta() (float64, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	dx, dy := s.deltaX, s.deltaY
	s.deltaX, s.deltaY = 0, 0
	return dx, dy
}

// releaseAll drops every held key, e.g. when the window loses focus.
func (s *inputState) releaseAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.keys)
}
