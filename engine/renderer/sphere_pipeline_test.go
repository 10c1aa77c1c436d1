package renderer

import (
	"testing"

	"github.com/Carmen-Shannon/geosphere/engine/camera"
	"github.com/Carmen-Shannon/geosphere/engine/geodesic"
	"github.com/Carmen-Shannon/geosphere/engine/light"
	"github.com/cogentcore/webgpu/wgpu"
)

func TestSpherePipelineMatchesGPUTypes(t *testing.T) {
	p, err := NewSpherePipeline()
	if err != nil {
		t.Fatalf("NewSpherePipeline: %v", err)
	}
	if p.PipelineKey() != SpherePipelineKey {
		t.Errorf("key = %q", p.PipelineKey())
	}
	if p.CullMode() != wgpu.CullModeBack || p.FrontFace() != wgpu.FrontFaceCCW || !p.BlendEnabled() || !p.DepthTestEnabled() {
		t.Errorf("cull %v, front %v, blend %v, depth %v", p.CullMode(), p.FrontFace(), p.BlendEnabled(), p.DepthTestEnabled())
	}

	s := p.Shader()
	layouts := s.VertexLayouts()
	if len(layouts) != 1 || layouts[0].ArrayStride != geodesic.GPUVertexStride {
		t.Fatalf("vertex layouts %+v, want one with stride %d", layouts, geodesic.GPUVertexStride)
	}

	entries := s.BindGroupLayoutDescriptor(0).Entries
	if len(entries) != 2 {
		t.Fatalf("group 0 has %d entries, want 2", len(entries))
	}
	var u camera.GPUCameraUniform
	if entries[0].Binding != cameraBinding || entries[0].Buffer.MinBindingSize != uint64(u.Size()) {
		t.Errorf("camera binding %d size %d, want %d size %d", entries[0].Binding, entries[0].Buffer.MinBindingSize, cameraBinding, u.Size())
	}
	var lu light.GPULightUniform
	if entries[1].Binding != lightBinding || entries[1].Buffer.MinBindingSize != uint64(lu.Size()) {
		t.Errorf("light binding %d size %d, want %d size %d", entries[1].Binding, entries[1].Buffer.MinBindingSize, lightBinding, lu.Size())
	}
	if len(s.BindGroupLayoutDescriptors()) != 1 {
		t.Errorf("shader declares %d bind groups, want 1", len(s.BindGroupLayoutDescriptors()))
	}
	if s.VertexEntryPoint() != "vs_main" || s.FragmentEntryPoint() != "fs_main" {
		t.Errorf("entry points %q / %q", s.VertexEntryPoint(), s.FragmentEntryPoint())
	}
}
