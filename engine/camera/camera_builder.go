package camera

import (
	"log"

	"github.com/Carmen-Shannon/oxy-ifpv/engine/clock"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/collision"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/config"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/cull"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/state"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/value"
)

type CameraBuilderOption func(*cameraImpl)

// WithHost sets the host the camera reads from and writes into. Required.
//
// Parameters:
//   - h: the host
//
// Returns:
//   - CameraBuilderOption: a function that sets the host
func WithHost(h host.Host) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.host = h
	}
}

// WithSettings sets the initial settings.
//
// Parameters:
//   - s: the settings
//
// Returns:
//   - CameraBuilderOption: a function that sets the settings
func WithSettings(s config.Settings) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.settings = s
	}
}

// WithLoader sets the function the reload hotkey reads fresh settings from.
// Without a loader the reload hotkey does nothing.
//
// Parameters:
//   - loader: the settings source, e.g. config.Loader(path)
//
// Returns:
//   - CameraBuilderOption: a function that sets the loader
func WithLoader(loader func() (config.Settings, error)) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.loader = loader
	}
}

// WithValues uses an existing value map instead of one built by NewValueMap.
func WithValues(values value.Map) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.values = values
	}
}

// WithStack uses an existing state stack. Profiles are not loaded into a supplied stack.
func WithStack(stack state.Stack) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.stack = stack
	}
}

// WithCull uses an existing cull table.
func WithCull(table cull.Table) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.table = table
	}
}

// WithClock uses an existing camera clock.
func WithClock(clk clock.Clock) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.clock = clk
	}
}

// WithResolver uses an existing collision resolver.
func WithResolver(r collision.Resolver) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.resolver = r
	}
}

// WithController uses an existing input controller.
func WithController(cc CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = cc
	}
}

// WithLogger sets the logger for enable, disable and reload messages.
//
// Parameters:
//   - l: the logger
//
// Returns:
//   - CameraBuilderOption: a function that sets the logger
func WithLogger(l *log.Logger) CameraBuilderOption {
	return func(c *cameraImpl) {
		if l != nil {
			c.logger = l
		}
	}
}
