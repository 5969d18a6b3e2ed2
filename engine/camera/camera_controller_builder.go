package camera

import "github.com/Carmen-Shannon/oxy-ifpv/common"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithToggleKey sets the hotkey that flips the camera on and off.
//
// Parameters:
//   - key: the hotkey, KeyNone to disable
//
// Returns:
//   - CameraControllerOption: functional option to set the toggle key
func WithToggleKey(key common.KeyCode) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.toggleKey = key
	}
}

// WithReloadKey sets the hotkey that reloads settings and profiles.
//
// Parameters:
//   - key: the hotkey, KeyNone to disable
//
// Returns:
//   - CameraControllerOption: functional option to set the reload key
func WithReloadKey(key common.KeyCode) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.reloadKey = key
	}
}

// WithReplaceDefaultCamera makes the host's own first-person toggle switch this camera instead.
func WithReplaceDefaultCamera(replace bool) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.replaceDefault = replace
	}
}

// WithLookSensitivity sets the user look sensitivity multipliers.
//
// Parameters:
//   - horizontal: multiplier for the horizontal delta
//   - vertical: multiplier for the vertical delta
//
// Returns:
//   - CameraControllerOption: functional option to set the sensitivity
func WithLookSensitivity(horizontal, vertical float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.sensX = horizontal
		cc.sensY = vertical
	}
}

// WithFixLookSensitivity turns the frame-rate independent horizontal look on while enabled.
func WithFixLookSensitivity(fix bool) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.fixSensitivity = fix
	}
}

// WithMouseSettings overrides the host mouse heading settings.
//
// Parameters:
//   - heading: the base mouse heading sensitivity
//   - xScale: the horizontal scale
//   - yScale: the vertical scale
//
// Returns:
//   - CameraControllerOption: functional option to set the host mouse settings
func WithMouseSettings(heading, xScale, yScale float64) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.heading = heading
		cc.headingX = xScale
		cc.headingY = yScale
	}
}
