package pipeline

import (
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

func TestNewPipelineDefaults(t *testing.T) {
	p := NewPipeline("sphere")
	if p.PipelineKey() != "sphere" {
		t.Fatalf("key = %q", p.PipelineKey())
	}
	if !p.DepthTestEnabled() || !p.DepthWriteEnabled() || p.BlendEnabled() {
		t.Errorf("depth test %v, depth write %v, blend %v", p.DepthTestEnabled(), p.DepthWriteEnabled(), p.BlendEnabled())
	}
	if p.CullMode() != wgpu.CullModeNone || p.FrontFace() != wgpu.FrontFaceCCW || p.Topology() != wgpu.PrimitiveTopologyTriangleList {
		t.Errorf("cull %v, front face %v, topology %v", p.CullMode(), p.FrontFace(), p.Topology())
	}
	if p.BlendState() == nil || p.BlendState().Color.SrcFactor != wgpu.BlendFactorSrcAlpha {
		t.Errorf("unexpected default blend state %+v", p.BlendState())
	}
	if p.Shader() != nil || p.RenderPipeline() != nil {
		t.Error("new pipeline should have no shader or GPU object")
	}
	p.Release()
}

func TestPipelineOptions(t *testing.T) {
	p := NewPipeline("sphere",
		WithCullMode(wgpu.CullModeBack),
		WithFrontFace(wgpu.FrontFaceCW),
		WithBlendEnabled(true),
	)
	if p.CullMode() != wgpu.CullModeBack || p.FrontFace() != wgpu.FrontFaceCW {
		t.Errorf("cull %v, front face %v", p.CullMode(), p.FrontFace())
	}
	if !p.BlendEnabled() || !p.DepthWriteEnabled() || !p.DepthTestEnabled() {
		t.Errorf("blend %v, depth write %v, depth test %v", p.BlendEnabled(), p.DepthWriteEnabled(), p.DepthTestEnabled())
	}
}
