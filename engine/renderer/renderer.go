package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/geosphere/common"
	"github.com/Carmen-Shannon/geosphere/engine/camera"
	"github.com/Carmen-Shannon/geosphere/engine/light"
	"github.com/Carmen-Shannon/geosphere/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/geosphere/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/geosphere/engine/window"
)

// Binding indices of the per-frame uniforms within bind group 0.
const (
	cameraBinding = 0
	lightBinding  = 1
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	mesh     bind_group_provider.BindGroupProvider
	uniforms bind_group_provider.BindGroupProvider

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	frameCapture         bool
	clearColor           [4]float64
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
	pendingPipelines     []pipeline.Pipeline
}

// Renderer draws a single uploaded vertex buffer with one camera and one light uniform per frame.
//
// A frame is BeginFrame, any number of DrawMesh calls, EndFrame, optionally CaptureFrame,
// then Present. WriteCamera and WriteLight may be called at any time before EndFrame.
type Renderer interface {
	// Pipeline retrieves the registered Pipeline associated with the given key.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// RegisterPipeline creates the GPU objects for p, caches it by PipelineKey and builds the
	// uniform bind group against its layout if that has not happened yet. Keys that are already
	// registered are skipped.
	//
	// Parameters:
	//   - p: the Pipeline to register
	//
	// Returns:
	//   - error: an error if pipeline or bind group creation fails
	RegisterPipeline(p pipeline.Pipeline) error

	// Resize configures the underlying backend to handle a new surface size.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// SetPresentMode sets the surface present mode. A call to Resize is required after
	// changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// UploadMesh replaces the mesh vertex buffer with vertexData.
	//
	// Parameters:
	//   - vertexData: the packed vertex records
	//   - vertexCount: the number of vertices in vertexData
	//
	// Returns:
	//   - error: an error if the buffer could not be created
	UploadMesh(vertexData []byte, vertexCount int) error

	// VertexCount returns the number of vertices in the uploaded mesh.
	//
	// Returns:
	//   - int: the vertex count, 0 before the first upload
	VertexCount() int

	// WriteCamera writes the camera uniform for the next draw.
	//
	// Parameters:
	//   - u: the packed camera uniform
	WriteCamera(u camera.GPUCameraUniform)

	// WriteLight writes the directional light uniform.
	//
	// Parameters:
	//   - u: the packed light uniform
	WriteLight(u light.GPULightUniform)

	// BeginFrame acquires the swapchain texture and begins the main render pass.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawMesh draws the uploaded mesh with the pipeline registered under pipelineKey.
	//
	// Parameters:
	//   - pipelineKey: the key of a registered pipeline
	//
	// Returns:
	//   - error: an error if the pipeline is not registered
	DrawMesh(pipelineKey string) error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	Present()

	// CaptureFrame returns the frame submitted by the last EndFrame. It requires WithFrameCapture.
	//
	// Returns:
	//   - *common.FrameImage: the captured RGB frame
	//   - error: ErrNoCapturedFrame if nothing was captured, or a readback error
	CaptureFrame() (*common.FrameImage, error)

	// Release frees the mesh, uniforms, pipelines and the GPU device.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a Renderer on the given window's surface. Pipelines queued with
// WithPipeline are registered; when none are queued the sphere pipeline is registered.
// NewRenderer panics if the GPU cannot be initialized.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window whose surface is rendered to
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
		clearColor:    DefaultClearColor,
		mesh:          bind_group_provider.NewBindGroupProvider("Sphere Mesh"),
		uniforms:      bind_group_provider.NewBindGroupProvider("Frame Uniforms"),
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa, r.clearColor, r.frameCapture)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}
	r.backend.ConfigureSurface(window.Width(), window.Height())

	if len(r.pendingPipelines) == 0 {
		p, err := NewSpherePipeline()
		if err != nil {
			panic(err)
		}
		r.pendingPipelines = append(r.pendingPipelines, p)
	}
	for _, p := range r.pendingPipelines {
		if err := r.RegisterPipeline(p); err != nil {
			panic(err)
		}
	}
	r.pendingPipelines = nil

	return r
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) RegisterPipeline(p pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := p.PipelineKey()
	if _, exists := r.pipelineCache[key]; exists {
		return nil
	}
	if err := r.backend.RegisterRenderPipeline(p, []bind_group_provider.BindGroupProvider{r.uniforms}); err != nil {
		return fmt.Errorf("failed to register pipeline %s: %w", key, err)
	}
	if r.uniforms.BindGroup() == nil {
		if err := r.backend.InitBindGroup(r.uniforms, p.Shader().BindGroupLayoutDescriptor(0)); err != nil {
			return fmt.Errorf("failed to create uniform bind group: %w", err)
		}
		defaultLight := light.NewLight().Uniform()
		r.backend.WriteBuffers([]bind_group_provider.BufferWrite{{
			Provider: r.uniforms,
			Binding:  lightBinding,
			Data:     defaultLight.Marshal(),
		}})
	}
	r.pipelineCache[key] = p
	return nil
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) UploadMesh(vertexData []byte, vertexCount int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.InitMeshBuffers(r.mesh, vertexData, vertexCount)
}

func (r *renderer) VertexCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mesh.VertexCount()
}

func (r *renderer) WriteCamera(u camera.GPUCameraUniform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: r.uniforms,
		Binding:  cameraBinding,
		Offset:   0,
		Data:     u.Marshal(),
	}})
}

func (r *renderer) WriteLight(u light.GPULightUniform) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.WriteBuffers([]bind_group_provider.BufferWrite{{
		Provider: r.uniforms,
		Binding:  lightBinding,
		Offset:   0,
		Data:     u.Marshal(),
	}})
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawMesh(pipelineKey string) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}

	r.backend.DrawCall(p, r.mesh, []bind_group_provider.BindGroupProvider{r.uniforms})
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) CaptureFrame() (*common.FrameImage, error) {
	return r.backend.CaptureFrame()
}

func (r *renderer) Release() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for key, p := range r.pipelineCache {
		p.Release()
		delete(r.pipelineCache, key)
	}
	r.mesh.Release()
	r.uniforms.Release()
	r.backend.Release()
}
