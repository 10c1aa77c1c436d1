package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/geosphere/common"
	"github.com/go-gl/mathgl/mgl32"
)

type cameraImpl struct {
	mu *sync.Mutex

	up mgl32.Vec3

	fov    float32
	aspect float32
	near   float32
	far    float32

	viewMatrix           mgl32.Mat4
	projectionMatrix     mgl32.Mat4
	viewProjectionMatrix mgl32.Mat4

	controller CameraController
}

// Camera holds perspective settings and computes view/projection matrices
// from its CameraController. Update must be called after the controller moves.
type Camera interface {
	// Fov returns the field of view in radians.
	//
	// Returns:
	//   - float32: field of view in radians
	Fov() float32

	// Aspect returns the aspect ratio (width / height).
	//
	// Returns:
	//   - float32: the aspect ratio
	Aspect() float32

	// Near returns the near clipping plane distance.
	Near() float32

	// Far returns the far clipping plane distance.
	Far() float32

	// Eye returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Eye() mgl32.Vec3

	// ViewMatrix returns the current view matrix.
	//
	// Returns:
	//   - mgl32.Mat4: the view matrix
	ViewMatrix() mgl32.Mat4

	// ProjectionMatrix returns the current projection matrix (WebGPU depth range).
	//
	// Returns:
	//   - mgl32.Mat4: the projection matrix
	ProjectionMatrix() mgl32.Mat4

	// ViewProjectionMatrix returns projection * view.
	//
	// Returns:
	//   - mgl32.Mat4: the combined matrix
	ViewProjectionMatrix() mgl32.Mat4

	// Controller returns the attached CameraController.
	//
	// Returns:
	//   - CameraController: the controller
	Controller() CameraController

	// Update re-reads position/target from the controller and recomputes matrices.
	Update()

	// SetAspect sets the aspect ratio (width / height) and recomputes matrices.
	//
	// Parameters:
	//   - aspect: the aspect ratio
	SetAspect(aspect float32)

	// SetFov sets the field of view in radians and recomputes matrices.
	//
	// Parameters:
	//   - fov: field of view in radians
	SetFov(fov float32)

	// Uniform builds the shader uniform for an object drawn with the given model matrix.
	//
	// Parameters:
	//   - model: the object's model matrix
	//
	// Returns:
	//   - GPUCameraUniform: the populated uniform
	Uniform(model mgl32.Mat4) GPUCameraUniform

	// Visible reports whether a bounding sphere centered at the model origin is
	// inside the view frustum.
	//
	// Parameters:
	//   - model: the object's model matrix
	//   - radius: the bounding radius in model space
	//
	// Returns:
	//   - bool: false if the object is entirely outside the frustum
	Visible(model mgl32.Mat4, radius float32) bool
}

var _ Camera = &cameraImpl{}

// NewCamera creates a new Camera: 45° vertical field of view, aspect 1, near
// 0.1, far 100. Without WithController a default orbit controller is attached,
// which puts the eye at (0, 0, 3) looking at the origin.
//
// Parameters:
//   - options: functional options to configure the camera
//
// Returns:
//   - Camera: the newly created camera
func NewCamera(options ...CameraBuilderOption) Camera {
	c := &cameraImpl{
		mu:     &sync.Mutex{},
		up:     mgl32.Vec3{0, 1, 0},
		fov:    45.0 * (math.Pi / 180.0), // radians
		aspect: 1.0,
		near:   0.1,
		far:    100.0,
	}
	for _, option := range options {
		option(c)
	}
	if c.controller == nil {
		c.controller = NewCameraController()
	}
	c.updateMatrices()
	return c
}

func (c *cameraImpl) Fov() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fov
}

func (c *cameraImpl) Aspect() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.aspect
}

func (c *cameraImpl) Near() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.near
}

func (c *cameraImpl) Far() float32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.far
}

func (c *cameraImpl) Eye() mgl32.Vec3 {
	return c.controller.Position()
}

func (c *cameraImpl) ViewMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewMatrix
}

func (c *cameraImpl) ProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.projectionMatrix
}

func (c *cameraImpl) ViewProjectionMatrix() mgl32.Mat4 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.viewProjectionMatrix
}

func (c *cameraImpl) Controller() CameraController {
	return c.controller
}

func (c *cameraImpl) Update() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.updateMatrices()
}

func (c *cameraImpl) SetAspect(aspect float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.aspect = aspect
	c.updateMatrices()
}

func (c *cameraImpl) SetFov(fov float32) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.fov = fov
	c.updateMatrices()
}

func (c *cameraImpl) Uniform(model mgl32.Mat4) GPUCameraUniform {
	c.mu.Lock()
	mvp := c.viewProjectionMatrix.Mul4(model)
	c.mu.Unlock()

	return GPUCameraUniform{
		MVP:          mvp,
		Model:        model,
		NormalMatrix: common.NormalMatrix(model),
		EyePosition:  c.controller.Position(),
	}
}

func (c *cameraImpl) Visible(model mgl32.Mat4, radius float32) bool {
	c.mu.Lock()
	frustum := common.ExtractFrustum(c.viewProjectionMatrix.Mul4(model))
	c.mu.Unlock()
	return frustum.ContainsSphere(mgl32.Vec3{}, radius)
}

// updateMatrices recalculates the view, projection and view-projection matrices.
// Caller must hold the mutex (or own c exclusively during construction).
func (c *cameraImpl) updateMatrices() {
	if c.controller == nil {
		return
	}
	c.viewMatrix = mgl32.LookAtV(c.controller.Position(), c.controller.Target(), c.up)
	c.projectionMatrix = common.Perspective(c.fov, c.aspect, c.near, c.far)
	c.viewProjectionMatrix = c.projectionMatrix.Mul4(c.viewMatrix)
}

// SwayRotation returns the model rotation about +Y at time t: an oscillation
// of amplitude radians following sin(t).
//
// Parameters:
//   - t: elapsed animation time in seconds
//   - amplitude: peak rotation in radians
//
// Returns:
//   - mgl32.Mat4: the model matrix
func SwayRotation(t, amplitude float32) mgl32.Mat4 {
	return mgl32.HomogRotate3DY(amplitude * float32(math.Sin(float64(t))))
}
