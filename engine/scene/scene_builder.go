package scene

import "github.com/NatC02/glb-freeze/engine/animation"

// SceneBuilderOption is a functional option applied to a scene during construction via NewScene.
type SceneBuilderOption func(*scene)

// WithFreezeTarget sets the playback time at which the scene's controller
// freezes the animation after a click starts it.
//
// Parameters:
//   - target: the freeze time in seconds
//
// Returns:
//   - SceneBuilderOption: a function that applies the freeze target to a scene
func WithFreezeTarget(target float32) SceneBuilderOption {
	return func(s *scene) {
		s.freezeTarget = &target
	}
}

// WithLightDirection sets the world-space direction the scene's directional
// light travels in. The vector does not need to be normalized.
//
// Parameters:
//   - x, y, z: the light direction components
//
// Returns:
//   - SceneBuilderOption: a function that applies the light direction to a scene
func WithLightDirection(x, y, z float32) SceneBuilderOption {
	return func(s *scene) {
		s.lightDirection = [3]float32{x, y, z}
	}
}

// WithControllerOptions appends extra options passed through to the playback
// controller when the scene constructs it (e.g. animation.WithDebug).
//
// Parameters:
//   - options: controller options to forward
//
// Returns:
//   - SceneBuilderOption: a function that applies the controller options to a scene
func WithControllerOptions(options ...animation.ControllerOption) SceneBuilderOption {
	return func(s *scene) {
		s.controllerOptions = append(s.controllerOptions, options...)
	}
}
