package renderer

import (
	"github.com/Carmen-Shannon/geosphere/engine/renderer/pipeline"
)

// RendererBuilderOption is a functional option applied to a renderer during construction via NewRenderer.
type RendererBuilderOption func(*renderer)

// WithPipeline queues a Pipeline for registration when the renderer is created. When no
// pipeline is queued the renderer registers the sphere pipeline on its own.
//
// Parameters:
//   - p: the Pipeline to register
//
// Returns:
//   - RendererBuilderOption: a function that applies the pipeline option to a renderer
func WithPipeline(p pipeline.Pipeline) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPipelines = append(r.pendingPipelines, p)
	}
}

// WithPresentMode picks between vsync and uncapped presentation. Without it the
// surface presents uncapped.
//
// Parameters:
//   - mode: PresentModeVSync or PresentModeUncapped
//
// Returns:
//   - RendererBuilderOption: the option
func WithPresentMode(mode PresentMode) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingPresentMode = &mode
	}
}

// WithMSAA sets the sample count of the color target. MSAA4x is used when the
// option is absent; counts above 4 depend on the adapter.
//
// Parameters:
//   - count: the sample count, MSAAOff to resolve nothing
//
// Returns:
//   - RendererBuilderOption: the option
func WithMSAA(count MSAASampleCount) RendererBuilderOption {
	return func(r *renderer) {
		r.pendingMSAA = &count
	}
}

// WithForceSoftwareRenderer requests the fallback adapter, which needs a CPU
// Vulkan driver such as lavapipe. Useful for frame dumps on headless machines.
func WithForceSoftwareRenderer(force bool) RendererBuilderOption {
	return func(r *renderer) {
		r.forceFallbackAdapter = force
	}
}

// WithFrameCapture makes every frame copy its resolved image into a readback buffer so that
// CaptureFrame can return it. The surface is configured with copy-source usage for this.
//
// Parameters:
//   - enabled: true to enable frame capture
//
// Returns:
//   - RendererBuilderOption: a function that applies the frame capture option to a renderer
func WithFrameCapture(enabled bool) RendererBuilderOption {
	return func(r *renderer) {
		r.frameCapture = enabled
	}
}

// WithClearColor sets the color each frame is cleared to. Defaults to DefaultClearColor.
//
// Parameters:
//   - red, green, blue, alpha: the clear color components in [0, 1]
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(red, green, blue, alpha float64) RendererBuilderOption {
	return func(r *renderer) {
		r.clearColor = [4]float64{red, green, blue, alpha}
	}
}
