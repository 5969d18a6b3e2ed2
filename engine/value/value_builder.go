package value

import "github.com/Carmen-Shannon/oxy-ifpv/engine/tween"

type CameraValueBuilderOption func(*cameraValueImpl)

// WithName sets the human-readable channel name shown by the HUD.
func WithName(name string) CameraValueBuilderOption {
	return func(v *cameraValueImpl) {
		v.name = name
	}
}

// WithDefault sets the value the modifier fold starts from.
//
// Parameters:
//   - d: the default value
//
// Returns:
//   - CameraValueBuilderOption: a function that sets the default
func WithDefault(d float64) CameraValueBuilderOption {
	return func(v *cameraValueImpl) {
		v.defaultVal = d
	}
}

// WithChangeSpeed sets the tween speed in units per second.
//
// Parameters:
//   - speed: units per second
//
// Returns:
//   - CameraValueBuilderOption: a function that sets the change speed
func WithChangeSpeed(speed float64) CameraValueBuilderOption {
	return func(v *cameraValueImpl) {
		v.changeSpeed = speed
	}
}

// WithEasing sets the tween easing curve.
func WithEasing(e tween.Easing) CameraValueBuilderOption {
	return func(v *cameraValueImpl) {
		v.easing = e
	}
}

// WithFlags adds resolution flags.
//
// Parameters:
//   - f: flags to set, OR-ed with any already set
//
// Returns:
//   - CameraValueBuilderOption: a function that sets the flags
func WithFlags(f Flags) CameraValueBuilderOption {
	return func(v *cameraValueImpl) {
		v.flags |= f
	}
}

// WithBinding mirrors the channel onto a host value. Reads of the current value come from the
// binding and resolved values are written back to it.
//
// Parameters:
//   - b: the host binding
//   - captureDefault: if true, the first read from the binding becomes the default
//
// Returns:
//   - CameraValueBuilderOption: a function that sets the binding
func WithBinding(b Binding, captureDefault bool) CameraValueBuilderOption {
	return func(v *cameraValueImpl) {
		v.binding = b
		v.bindingDefault = captureDefault
	}
}
