package renderer

import (
	_ "embed"

	"github.com/Carmen-Shannon/geosphere/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/geosphere/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// SpherePipelineKey is the key the sphere pipeline is registered under.
const SpherePipelineKey = "sphere"

// sphereShaderSource is the lit sphere shader. It reads VertexInput and CameraUniform
// through @geo:include annotations.
//
//go:embed assets/sphere.wgsl
var sphereShaderSource string

// NewSpherePipeline builds the pipeline used to draw the geodesic sphere: back faces culled
// with counter-clockwise fronts, less-than depth testing and straight alpha blending.
//
// Returns:
//   - pipeline.Pipeline: the unregistered sphere pipeline
//   - error: an error if the shader fails to pre-process
func NewSpherePipeline() (pipeline.Pipeline, error) {
	s, err := shader.NewShader(SpherePipelineKey, sphereShaderSource)
	if err != nil {
		return nil, err
	}
	return pipeline.NewPipeline(SpherePipelineKey,
		pipeline.WithShader(s),
		pipeline.WithCullMode(wgpu.CullModeBack),
		pipeline.WithFrontFace(wgpu.FrontFaceCCW),
		pipeline.WithBlendEnabled(true),
	), nil
}
