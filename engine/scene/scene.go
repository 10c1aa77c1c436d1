package scene

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/geosphere/engine/camera"
	"github.com/Carmen-Shannon/geosphere/engine/geodesic"
	"github.com/Carmen-Shannon/geosphere/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// DefaultPipelineKey matches the key the renderer registers its sphere pipeline under.
const DefaultPipelineKey = "sphere"

// DefaultMaxSubdivisions is the deepest recursion SetSubdivisions accepts unless
// WithMaxSubdivisions overrides it. Depth 9 already produces millions of vertices.
const DefaultMaxSubdivisions = 9

// DefaultSwayAmplitude is the peak model rotation in radians.
const DefaultSwayAmplitude = 0.5

// MeshRenderer is the part of the renderer a Scene draws through.
type MeshRenderer interface {
	// UploadMesh replaces the GPU vertex buffer.
	UploadMesh(vertexData []byte, vertexCount int) error

	// WriteCamera writes the camera uniform for the next draw.
	WriteCamera(u camera.GPUCameraUniform)

	// WriteLight writes the directional light uniform for the next draw.
	WriteLight(u light.GPULightUniform)

	// DrawMesh draws the uploaded mesh with the given pipeline.
	DrawMesh(pipelineKey string) error
}

// meshSettings are the generation parameters the next rebuild will use.
type meshSettings struct {
	subdivisions  int
	dual          bool
	ordering      geodesic.PolygonOrdering
	snapPrecision float64
}

func (m meshSettings) options() []geodesic.SphereBuilderOption {
	return []geodesic.SphereBuilderOption{
		geodesic.WithSubdivisions(m.subdivisions),
		geodesic.WithDual(m.dual),
		geodesic.WithPolygonOrdering(m.ordering),
		geodesic.WithSnapPrecision(m.snapPrecision),
	}
}

// scene holds one geodesic sphere together with the camera and renderer that draw it.
// Mesh rebuilds run on a worker pool so input handlers never block on generation; the
// finished mesh is handed to the render goroutine through a pending upload flag.
// Thread-safe for concurrent access.
type scene struct {
	mu *sync.Mutex

	name   string
	active bool

	cam   camera.Camera
	light light.Light
	r     MeshRenderer

	pipelineKey     string
	maxSubdivisions int
	swayAmplitude   float32
	cullingDisabled bool

	settings       meshSettings
	sphere         geodesic.Sphere
	boundingRadius float32
	pendingUpload  bool
	generation     uint64

	elapsed float32
	paused  bool

	onRebuild func(geodesic.Sphere)

	rebuildPool worker.DynamicWorkerPool
	rebuildWG   sync.WaitGroup
	// queued counts submitted rebuilds that have not started; Release settles them.
	queued   int
	released bool
}

// Scene owns the sphere being displayed and the time and camera state used to draw it.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Light returns the directional light shading the sphere. Changes to it are picked
	// up by the next DrawCalls.
	Light() light.Light

	// Renderer returns the renderer the scene draws through.
	Renderer() MeshRenderer

	// SetRenderer replaces the scene's renderer. The current mesh is uploaded to the new
	// renderer on the next DrawCalls.
	//
	// Parameters:
	//   - r: the new renderer
	SetRenderer(r MeshRenderer)

	// Sphere returns the most recently generated mesh.
	//
	// Returns:
	//   - geodesic.Sphere: the mesh that is drawn, or will be drawn after its upload
	Sphere() geodesic.Sphere

	// Subdivisions returns the requested subdivision depth. It may be ahead of Sphere()
	// while a rebuild is running.
	Subdivisions() int

	// SetSubdivisions requests a rebuild at the given depth.
	//
	// Parameters:
	//   - n: the depth, between 0 and the scene's maximum inclusive
	//
	// Returns:
	//   - error: an error if n is out of range; the current mesh is kept
	SetSubdivisions(n int) error

	// Dual returns whether the dual polygon mesh is requested.
	Dual() bool

	// ToggleDual switches between the triangulated and dual mesh and requests a rebuild.
	ToggleDual()

	// Ordering returns the requested polygon ordering.
	Ordering() geodesic.PolygonOrdering

	// ToggleOrdering switches between nearest-neighbor and angular polygon ordering and
	// requests a rebuild.
	ToggleOrdering()

	// Wait blocks until every requested rebuild has finished.
	Wait()

	// Paused reports whether the sway animation is frozen.
	Paused() bool

	// TogglePaused freezes or resumes the sway animation.
	TogglePaused()

	// Elapsed returns the animation time in seconds.
	Elapsed() float32

	// Update advances the animation time by deltaTime unless paused and refreshes the
	// camera matrices.
	//
	// Parameters:
	//   - deltaTime: the fixed time step in seconds
	Update(deltaTime float32)

	// ModelMatrix returns the sway rotation for the current animation time.
	ModelMatrix() mgl32.Mat4

	// CullingDisabled returns whether the bounding sphere test is skipped.
	CullingDisabled() bool

	// SetCullingDisabled enables or disables the bounding sphere test.
	SetCullingDisabled(disabled bool)

	// DrawCalls uploads a pending mesh, writes the camera uniform and records the draw.
	// Must be called between the renderer's BeginFrame and EndFrame.
	//
	// Returns:
	//   - error: an error if no renderer is attached, or the upload or draw fails
	DrawCalls() error

	// Release stops the rebuild workers. Pending rebuilds are discarded and later
	// setting changes no longer rebuild the mesh. Wait still returns once a running
	// rebuild finishes.
	Release()
}

var _ Scene = &scene{}

// NewScene creates a Scene and generates its first mesh synchronously.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - r: the renderer to draw through, may be nil until SetRenderer is called
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
//   - error: an error if the initial mesh settings are invalid
func NewScene(name string, cam camera.Camera, r MeshRenderer, options ...SceneBuilderOption) (Scene, error) {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}

	s := &scene{
		mu:              &sync.Mutex{},
		name:            name,
		cam:             cam,
		r:               r,
		pipelineKey:     DefaultPipelineKey,
		maxSubdivisions: DefaultMaxSubdivisions,
		swayAmplitude:   DefaultSwayAmplitude,
		settings: meshSettings{
			ordering: geodesic.OrderNearestNeighbor,
		},
	}

	for _, option := range options {
		option(s)
	}
	if s.light == nil {
		s.light = light.NewLight()
	}

	if s.settings.subdivisions < 0 || s.settings.subdivisions > s.maxSubdivisions {
		return nil, fmt.Errorf("scene %q: subdivisions %d out of range [0, %d]", name, s.settings.subdivisions, s.maxSubdivisions)
	}

	sph, err := geodesic.NewSphere(s.settings.options()...)
	if err != nil {
		return nil, fmt.Errorf("scene %q: %w", name, err)
	}
	s.installLocked(sph)

	// One worker keeps rebuilds in request order; stale results are dropped by generation.
	s.rebuildPool = worker.NewDynamicWorkerPool(1, 16, time.Second)

	return s, nil
}

func (s *scene) Name() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cam
}

func (s *scene) Light() light.Light {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.light
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Renderer() MeshRenderer {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r
}

func (s *scene) SetRenderer(r MeshRenderer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r = r
	s.pendingUpload = true
}

func (s *scene) Sphere() geodesic.Sphere {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sphere
}

func (s *scene) Subdivisions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.subdivisions
}

func (s *scene) SetSubdivisions(n int) error {
	s.mu.Lock()
	if n < 0 || n > s.maxSubdivisions {
		limit := s.maxSubdivisions
		s.mu.Unlock()
		return fmt.Errorf("subdivisions %d out of range [0, %d]", n, limit)
	}
	s.mu.Unlock()

	s.rebuild(func(m *meshSettings) { m.subdivisions = n })
	return nil
}

func (s *scene) Dual() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.dual
}

func (s *scene) ToggleDual() {
	s.rebuild(func(m *meshSettings) { m.dual = !m.dual })
}

func (s *scene) Ordering() geodesic.PolygonOrdering {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings.ordering
}

func (s *scene) ToggleOrdering() {
	s.rebuild(func(m *meshSettings) {
		if m.ordering == geodesic.OrderAngular {
			m.ordering = geodesic.OrderNearestNeighbor
		} else {
			m.ordering = geodesic.OrderAngular
		}
	})
}

func (s *scene) Wait() {
	s.rebuildWG.Wait()
}

func (s *scene) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

func (s *scene) TogglePaused() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.paused = !s.paused
}

func (s *scene) Elapsed() float32 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

func (s *scene) Update(deltaTime float32) {
	s.mu.Lock()
	if !s.paused {
		s.elapsed += deltaTime
	}
	cam := s.cam
	s.mu.Unlock()

	if cam != nil {
		cam.Update()
	}
}

func (s *scene) ModelMatrix() mgl32.Mat4 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return camera.SwayRotation(s.elapsed, s.swayAmplitude)
}

func (s *scene) CullingDisabled() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cullingDisabled
}

func (s *scene) SetCullingDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cullingDisabled = disabled
}

func (s *scene) DrawCalls() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.r == nil {
		return fmt.Errorf("scene %q has no renderer attached", s.name)
	}

	if s.pendingUpload {
		if err := s.r.UploadMesh(s.sphere.VertexData(), s.sphere.VertexCount()); err != nil {
			return fmt.Errorf("scene %q: failed to upload mesh: %w", s.name, err)
		}
		s.pendingUpload = false
	}

	model := camera.SwayRotation(s.elapsed, s.swayAmplitude)
	if !s.cullingDisabled && !s.cam.Visible(model, s.boundingRadius) {
		return nil
	}

	s.r.WriteCamera(s.cam.Uniform(model))
	s.r.WriteLight(s.light.Uniform())
	return s.r.DrawMesh(s.pipelineKey)
}

func (s *scene) Release() {
	s.mu.Lock()
	if s.released {
		s.mu.Unlock()
		return
	}
	s.released = true
	dropped := s.queued
	s.queued = 0
	s.mu.Unlock()

	s.rebuildPool.ClearTaskQueue()
	s.rebuildPool.Stop()
	for range dropped {
		s.rebuildWG.Done()
	}
}

// rebuild applies mutate to the requested settings and queues a generation with the result.
func (s *scene) rebuild(mutate func(m *meshSettings)) {
	s.mu.Lock()
	mutate(&s.settings)
	if s.released {
		s.mu.Unlock()
		return
	}
	s.generation++
	gen := s.generation
	settings := s.settings
	s.queued++
	s.rebuildWG.Add(1)
	s.mu.Unlock()

	s.rebuildPool.SubmitTask(worker.Task{
		ID:      int(gen),
		Payload: settings,
		Do: func() (any, error) {
			s.mu.Lock()
			if s.released {
				// Release already counted this task as dropped.
				s.mu.Unlock()
				return nil, nil
			}
			s.queued--
			s.mu.Unlock()
			defer s.rebuildWG.Done()

			start := time.Now()
			sph, err := geodesic.NewSphere(settings.options()...)
			if err != nil {
				log.Printf("[Scene] rebuild %d failed: %v", gen, err)
				return nil, err
			}

			s.mu.Lock()
			defer s.mu.Unlock()
			if gen != s.generation {
				return nil, nil
			}
			s.installLocked(sph)
			log.Printf("[Scene] %s: built D=%d dual=%t ordering=%s, %d verts in %s",
				s.name, sph.Subdivisions(), sph.Dual(), sph.Ordering(), sph.VertexCount(), time.Since(start).Round(time.Millisecond))
			if s.onRebuild != nil {
				s.onRebuild(sph)
			}
			return sph, nil
		},
	})
}

// installLocked makes sph the current mesh. s.mu must be held.
func (s *scene) installLocked(sph geodesic.Sphere) {
	s.sphere = sph
	s.boundingRadius = geodesic.ComputeBoundingRadius(sph.Vertices())
	s.pendingUpload = true
}
