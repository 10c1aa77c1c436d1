package pipeline

import (
	"github.com/Carmen-Shannon/geosphere/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// PipelineBuilderOption configures a pipeline in NewPipeline. Depth test and
// write are always on and the topology is a triangle list.
type PipelineBuilderOption func(*pipeline)

// WithShader attaches the compiled vertex and fragment stages.
//
// Parameters:
//   - s: the shader
//
// Returns:
//   - PipelineBuilderOption: the option
func WithShader(s shader.Shader) PipelineBuilderOption {
	return func(p *pipeline) {
		p.shader = s
	}
}

// WithBlendEnabled turns alpha blending with the default blend state on or off.
func WithBlendEnabled(enabled bool) PipelineBuilderOption {
	return func(p *pipeline) {
		p.blendEnabled = enabled
	}
}

// WithCullMode picks which faces are discarded before rasterizing.
//
// Parameters:
//   - mode: wgpu.CullModeNone, wgpu.CullModeFront or wgpu.CullModeBack
//
// Returns:
//   - PipelineBuilderOption: the option
func WithCullMode(mode wgpu.CullMode) PipelineBuilderOption {
	return func(p *pipeline) {
		p.cullMode = mode
	}
}

// WithFrontFace sets which winding counts as front facing.
func WithFrontFace(frontFace wgpu.FrontFace) PipelineBuilderOption {
	return func(p *pipeline) {
		p.frontFace = frontFace
	}
}
