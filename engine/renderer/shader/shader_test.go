package shader

import (
	"strings"
	"testing"

	"github.com/Carmen-Shannon/geosphere/engine/camera"
	"github.com/Carmen-Shannon/geosphere/engine/geodesic"
	"github.com/cogentcore/webgpu/wgpu"
)

const testSource = `//@geo:include vertex
//@geo:include camera

// @geo:group 0 0 uniform camera camera

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) normal: vec3<f32>,
};

@vertex
fn vs_main(in: VertexInput) -> VertexOutput {
    var out: VertexOutput;
    out.clip_position = camera.mvp * vec4<f32>(in.position, 1.0);
    out.normal = in.normal;
    return out;
}

/* a /* nested */ block comment with @fragment fn decoy() */
@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    return vec4<f32>(in.normal, 1.0);
}
`

func TestPreProcessorExpandsIncludesAndGroups(t *testing.T) {
	pp := NewPreProcessor()
	out, err := pp.Process(testSource)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	for _, want := range []string{
		strings.TrimRight(geodesic.GPUVertexSource, "\n"),
		strings.TrimRight(camera.GPUCameraUniformSource, "\n"),
		"@group(0) @binding(0) var<uniform> camera: CameraUniform;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("processed source is missing %q", want)
		}
	}
	if strings.Contains(out, annotationPrefix) {
		t.Errorf("processed source still contains annotations:\n%s", out)
	}

	decls := pp.Declarations()
	if len(decls) != 1 {
		t.Fatalf("got %d declarations, want 1", len(decls))
	}
	d := decls[0]
	if d.Type != AnnotationTypeBindingGroup || *d.Group != 0 || *d.Binding != 0 || d.Args[2] != AnnotationArgCamera {
		t.Fatalf("unexpected declaration %+v", d)
	}
	if d.Line != 4 {
		t.Errorf("declaration line = %d, want 4", d.Line)
	}
}

func TestPreProcessorResetsDeclarations(t *testing.T) {
	pp := NewPreProcessor()
	if _, err := pp.Process(testSource); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, err := pp.Process("fn f() {}"); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if n := len(pp.Declarations()); n != 0 {
		t.Fatalf("declarations carried over between calls: %d", n)
	}
}

func TestPreProcessorRejectsBadAnnotations(t *testing.T) {
	cases := map[string]string{
		"empty":             "//@geo:",
		"unknown type":      "//@geo:frobnicate camera",
		"unknown include":   "//@geo:include shadow",
		"include arity":     "//@geo:include camera vertex",
		"group arity":       "//@geo:group 0 0 uniform camera",
		"bad group number":  "//@geo:group x 0 uniform camera camera",
		"negative binding":  "//@geo:group 0 -1 uniform camera camera",
		"bad address space": "//@geo:group 0 0 private camera camera",
		"bad struct type":   "//@geo:group 0 0 uniform camera shadow",
		"duplicate binding": "//@geo:group 0 0 uniform a camera\n//@geo:group 0 0 uniform b camera",
	}
	for name, src := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := NewPreProcessor().Process(src); err == nil {
				t.Fatalf("expected an error for %q", src)
			}
		})
	}
}

func TestPreProcessorLeavesPlainCommentsAlone(t *testing.T) {
	src := "// geo: not an annotation\nlet x = 1; // @geo:include camera"
	out, err := NewPreProcessor().Process(src)
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if out != src {
		t.Fatalf("source changed:\n%s", out)
	}
}

func TestNewShaderParsesLayouts(t *testing.T) {
	s, err := NewShader("sphere", testSource)
	if err != nil {
		t.Fatalf("NewShader: %v", err)
	}

	if s.VertexEntryPoint() != "vs_main" || s.FragmentEntryPoint() != "fs_main" {
		t.Fatalf("entry points %q / %q", s.VertexEntryPoint(), s.FragmentEntryPoint())
	}

	layouts := s.VertexLayouts()
	if len(layouts) != 1 {
		t.Fatalf("got %d vertex layouts, want 1", len(layouts))
	}
	l := layouts[0]
	if l.ArrayStride != geodesic.GPUVertexStride {
		t.Errorf("array stride = %d, want %d", l.ArrayStride, geodesic.GPUVertexStride)
	}
	if len(l.Attributes) != 2 {
		t.Fatalf("got %d attributes, want 2", len(l.Attributes))
	}
	for i, want := range []wgpu.VertexAttribute{
		{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
		{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
	} {
		if l.Attributes[i] != want {
			t.Errorf("attribute %d = %+v, want %+v", i, l.Attributes[i], want)
		}
	}

	desc := s.BindGroupLayoutDescriptor(0)
	if len(desc.Entries) != 1 {
		t.Fatalf("group 0 has %d entries, want 1", len(desc.Entries))
	}
	e := desc.Entries[0]
	if e.Buffer.Type != wgpu.BufferBindingTypeUniform {
		t.Errorf("binding type = %v, want uniform", e.Buffer.Type)
	}
	var u camera.GPUCameraUniform
	if e.Buffer.MinBindingSize != uint64(u.Size()) {
		t.Errorf("min binding size = %d, want %d", e.Buffer.MinBindingSize, u.Size())
	}
	if e.Visibility != wgpu.ShaderStageVertex|wgpu.ShaderStageFragment {
		t.Errorf("visibility = %v", e.Visibility)
	}
	if s.BindGroupVarName(0, 0) != "camera" || s.BindGroupVarName(3, 0) != "" {
		t.Errorf("var names %q / %q", s.BindGroupVarName(0, 0), s.BindGroupVarName(3, 0))
	}
	if s.Module().WGSLDescriptor.Code != s.Source() {
		t.Error("module code differs from processed source")
	}
	if len(s.Declarations()) != 1 {
		t.Errorf("got %d declarations", len(s.Declarations()))
	}
}

func TestNewShaderRequiresBothStages(t *testing.T) {
	src := "@vertex\nfn vs_main() -> @builtin(position) vec4<f32> { return vec4<f32>(); }"
	if _, err := NewShader("vertex-only", src); err == nil {
		t.Fatal("expected an error for a shader without a fragment stage")
	}
	if _, err := NewShader("bad", "//@geo:include nope"); err == nil {
		t.Fatal("expected a pre-processing error")
	}
}

func TestStructLayoutRules(t *testing.T) {
	structs := parseStructBlocks(stripComments(`
struct Outer { inner: Inner, tail: f32, };
struct Inner { a: vec3<f32>, b: f32, };
`))
	sizes := computeStructSizes(structs)
	if got := sizes["Inner"]; got.size != 16 || got.align != 16 {
		t.Errorf("Inner layout = %+v, want size 16 align 16", got)
	}
	if got := sizes["Outer"]; got.size != 32 {
		t.Errorf("Outer size = %d, want 32", got.size)
	}
}
