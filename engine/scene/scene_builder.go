package scene

import (
	"github.com/Carmen-Shannon/geosphere/engine/geodesic"
	"github.com/Carmen-Shannon/geosphere/engine/light"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithSubdivisions sets the initial subdivision depth. NewScene fails if it is negative or
// above the maximum.
//
// Parameters:
//   - n: the initial depth
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSubdivisions(n int) SceneBuilderOption {
	return func(s *scene) {
		s.settings.subdivisions = n
	}
}

// WithDual selects the dual polygon mesh for the initial build.
//
// Parameters:
//   - dual: true for the dual mesh
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithDual(dual bool) SceneBuilderOption {
	return func(s *scene) {
		s.settings.dual = dual
	}
}

// WithPolygonOrdering sets the initial dual polygon ordering.
//
// Parameters:
//   - ordering: the ordering strategy
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPolygonOrdering(ordering geodesic.PolygonOrdering) SceneBuilderOption {
	return func(s *scene) {
		s.settings.ordering = ordering
	}
}

// WithSnapPrecision sets the vertex deduplication precision used for every build.
//
// Parameters:
//   - precision: the snap precision, 0 for exact matching
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSnapPrecision(precision float64) SceneBuilderOption {
	return func(s *scene) {
		s.settings.snapPrecision = precision
	}
}

// WithMaxSubdivisions caps the depth SetSubdivisions accepts. Values below zero are ignored.
//
// Parameters:
//   - n: the maximum depth
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMaxSubdivisions(n int) SceneBuilderOption {
	return func(s *scene) {
		if n >= 0 {
			s.maxSubdivisions = n
		}
	}
}

// WithSwayAmplitude sets the peak model rotation in radians. Zero holds the sphere still.
//
// Parameters:
//   - amplitude: the amplitude in radians
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithSwayAmplitude(amplitude float32) SceneBuilderOption {
	return func(s *scene) {
		s.swayAmplitude = amplitude
	}
}

// WithPipelineKey sets the pipeline DrawCalls draws with. Defaults to DefaultPipelineKey.
//
// Parameters:
//   - key: the registered pipeline key
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithPipelineKey(key string) SceneBuilderOption {
	return func(s *scene) {
		s.pipelineKey = key
	}
}

// WithLight sets the directional light shading the sphere. Defaults to light.NewLight().
//
// Parameters:
//   - l: the light, nil keeps the default
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLight(l light.Light) SceneBuilderOption {
	return func(s *scene) {
		if l != nil {
			s.light = l
		}
	}
}

// WithCullingDisabled skips the bounding sphere visibility test in DrawCalls.
// By default culling is enabled (disabled = false).
//
// Parameters:
//   - disabled: true to always draw
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCullingDisabled(disabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.cullingDisabled = disabled
	}
}

// WithRebuildCallback registers fn to run after a rebuilt mesh is installed. fn runs on a
// worker goroutine with the scene locked and must not call back into the scene.
//
// Parameters:
//   - fn: the callback receiving the new mesh
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRebuildCallback(fn func(geodesic.Sphere)) SceneBuilderOption {
	return func(s *scene) {
		s.onRebuild = fn
	}
}
