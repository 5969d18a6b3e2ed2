package camera

import (
	"sync"

	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/value"
)

// Host mouse heading defaults, used until overridden with WithMouseSettings.
const (
	defaultMouseHeading  = 0.0125
	defaultMouseHeadingX = 0.02
	defaultMouseHeadingY = 0.85

	// fixedLookRate replaces the per-frame division for the horizontal delta.
	fixedLookRate = 60.0
)

// cameraControllerImpl is the single implementation of CameraController.
type cameraControllerImpl struct {
	mu *sync.Mutex

	toggleKey common.KeyCode
	reloadKey common.KeyCode
	hadToggle bool
	hadReload bool

	replaceDefault bool
	want           WantState
	wantMod        *value.Modifier
	values         value.Map

	fixSensitivity bool
	sensX          float64
	sensY          float64
	heading        float64
	headingX       float64
	headingY       float64
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates a new camera controller with no hotkeys and unit sensitivity.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:       &sync.Mutex{},
		sensX:    1,
		sensY:    1,
		heading:  defaultMouseHeading,
		headingX: defaultMouseHeadingX,
		headingY: defaultMouseHeadingY,
	}

	for _, option := range options {
		option(cc)
	}
	return cc
}

func (cc *cameraControllerImpl) Poll(keys host.KeyState) (toggle, reload bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if keys == nil {
		cc.hadToggle, cc.hadReload = false, false
		return false, false
	}
	toggle = edge(keys, cc.toggleKey, &cc.hadToggle)
	reload = edge(keys, cc.reloadKey, &cc.hadReload)
	return toggle, reload
}

// edge reports a key going down. held carries the previous state between polls.
func edge(keys host.KeyState, key common.KeyCode, held *bool) bool {
	if key == common.KeyNone || !keys.KeyDown(key) {
		*held = false
		return false
	}
	if *held {
		return false
	}
	*held = true
	return true
}

func (cc *cameraControllerImpl) SetKeys(toggle, reload common.KeyCode) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.toggleKey = toggle
	cc.reloadKey = reload
}

func (cc *cameraControllerImpl) SetReplaceDefaultCamera(replace bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.replaceDefault = replace
}

func (cc *cameraControllerImpl) SetWantState(s WantState) bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if cc.wantOf(s) == 0 {
		return false
	}
	cc.want = s
	cc.applyWant()
	return true
}

func (cc *cameraControllerImpl) WantState() WantState {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.want
}

func (cc *cameraControllerImpl) Bind(values value.Map) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if values != cc.values {
		// The old map is discarded with its modifiers.
		cc.wantMod = nil
	}
	cc.values = values
	cc.applyWant()
}

// applyWant swaps the request modifier for one matching the current want state.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) applyWant() {
	if cc.wantMod != nil {
		cc.wantMod.Remove()
		cc.wantMod = nil
	}
	if cc.values == nil {
		return
	}
	switch w := cc.wantOf(cc.want); {
	case w > 0:
		cc.wantMod = cc.values.Get(value.WantEnabled).AddModifier(value.Add, 1, value.WithAutoRemove(false))
	case w < 0:
		cc.wantMod = cc.values.Get(value.WantDisabled).AddModifier(value.Add, 1, value.WithAutoRemove(false))
	}
}

// wantOf maps a request to +1 (enable), -1 (disable) or 0 (no preference).
// Caller must hold the mutex.
func (cc *cameraControllerImpl) wantOf(s WantState) int {
	switch s {
	case EnabledFromHotkey:
		return 1
	case DisabledFromHotkey:
		return -1
	case EnabledFromTogglePOV:
		if cc.replaceDefault {
			return 1
		}
	case DisabledFromTogglePOV:
		if cc.replaceDefault {
			return -1
		}
	}
	return 0
}

func (cc *cameraControllerImpl) FixLookSensitivity(x, y, seconds float64, enabled bool) (float64, float64) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if seconds <= 0 {
		return 0, 0
	}

	sensX, sensY := 1.0, 1.0
	if enabled {
		sensX, sensY = cc.sensX, cc.sensY
	}

	if cc.fixSensitivity && enabled {
		x *= cc.heading * cc.headingX * fixedLookRate * sensX
	} else {
		x *= (cc.heading * cc.headingX / seconds) * sensX
	}
	y *= cc.heading * cc.headingY * sensY
	return x, y
}
