package camera

import (
	"github.com/Carmen-Shannon/oxy-ifpv/common"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/value"
)

// WantState is a request to turn the camera on or off, and where it came from.
type WantState int

const (
	WantNone WantState = iota
	EnabledFromTogglePOV
	DisabledFromTogglePOV
	EnabledFromHotkey
	DisabledFromHotkey
)

// String returns the state name.
func (w WantState) String() string {
	switch w {
	case EnabledFromTogglePOV:
		return "EnabledFromTogglePOV"
	case DisabledFromTogglePOV:
		return "DisabledFromTogglePOV"
	case EnabledFromHotkey:
		return "EnabledFromHotkey"
	case DisabledFromHotkey:
		return "DisabledFromHotkey"
	}
	return "None"
}

// CameraController is the input-facing half of the camera. It owns hotkey edge detection,
// the enable/disable requests that feed the WantEnabled and WantDisabled channels, and
// the look sensitivity fix applied to raw mouse deltas.
type CameraController interface {
	// Poll samples the hotkeys and reports which ones went down since the last poll.
	//
	// Parameters:
	//   - keys: the host key source
	//
	// Returns:
	//   - toggle: true on the frame the toggle hotkey is pressed
	//   - reload: true on the frame the reload hotkey is pressed
	Poll(keys host.KeyState) (toggle, reload bool)

	// SetKeys replaces the toggle and reload hotkeys. KeyNone disables a hotkey.
	//
	// Parameters:
	//   - toggle: the toggle hotkey
	//   - reload: the reload hotkey
	SetKeys(toggle, reload common.KeyCode)

	// SetWantState records an enable or disable request. Requests that resolve to no
	// preference, e.g. a toggle-POV request while the default camera is not replaced, are ignored.
	//
	// Parameters:
	//   - s: the request
	//
	// Returns:
	//   - bool: true if the request was recorded
	SetWantState(s WantState) bool

	// WantState returns the last recorded request.
	WantState() WantState

	// Bind attaches the controller to a value map and re-applies the current request to it.
	// Called after the map is created or reseeded.
	//
	// Parameters:
	//   - values: the camera value map
	Bind(values value.Map)

	// SetReplaceDefaultCamera sets whether toggle-POV requests count.
	SetReplaceDefaultCamera(replace bool)

	// FixLookSensitivity scales raw look deltas by the host mouse settings and the user sensitivity.
	// While the camera is enabled the horizontal delta is made frame-rate independent.
	//
	// Parameters:
	//   - x: horizontal delta
	//   - y: vertical delta
	//   - seconds: the frame duration in seconds
	//   - enabled: whether the camera is enabled
	//
	// Returns:
	//   - float64: the scaled horizontal delta
	//   - float64: the scaled vertical delta
	FixLookSensitivity(x, y, seconds float64, enabled bool) (float64, float64)
}
