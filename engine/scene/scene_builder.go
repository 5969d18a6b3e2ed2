package scene

import (
	"github.com/Carmen-Shannon/oxy-ifpv/engine/game_object"
	"github.com/Carmen-Shannon/oxy-ifpv/engine/host"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithPlayer sets the player actor.
//
// Parameters:
//   - a: the player
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPlayer(a game_object.Actor) SceneBuilderOption {
	return func(s *scene) {
		s.player = a
	}
}

// WithCells registers cells for raycasting.
//
// Parameters:
//   - cells: the cells to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCells(cells ...game_object.Cell) SceneBuilderOption {
	return func(s *scene) {
		s.cells = append(s.cells, cells...)
	}
}

// WithCameraState sets the initial host camera mode. Defaults to first person.
//
// Parameters:
//   - id: the camera mode
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCameraState(id host.CameraStateID) SceneBuilderOption {
	return func(s *scene) {
		s.camState = id
	}
}

// WithNearClip sets the initial near clip distance. Defaults to 15.
func WithNearClip(d float64) SceneBuilderOption {
	return func(s *scene) {
		s.nearClip = d
	}
}

// WithStartTime sets the frame clock's starting value in milliseconds.
func WithStartTime(ms int64) SceneBuilderOption {
	return func(s *scene) {
		s.now = ms
	}
}

// WithRayWorkers sets the number of worker goroutines used to test colliders when a
// cell holds more than one batch of them. Defaults to runtime.NumCPU()-1.
//
// Parameters:
//   - n: the number of ray workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRayWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.rayWorkers = n
	}
}

// WithRayBatchSize sets how many colliders one worker task tests. Cells with no more than
// one batch are tested inline on the caller's goroutine. Defaults to 32.
//
// Parameters:
//   - n: colliders per task (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRayBatchSize(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.rayBatch = n
	}
}
