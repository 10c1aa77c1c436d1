package camera

// CameraBuilderOption configures a camera in NewCamera.
type CameraBuilderOption func(*cameraImpl)

// WithFov sets the vertical field of view.
//
// Parameters:
//   - fov: the angle in radians
//
// Returns:
//   - CameraBuilderOption: the option
func WithFov(fov float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.fov = fov
	}
}

// WithAspect sets width over height of the viewport the camera projects onto.
//
// Parameters:
//   - aspect: the viewport ratio
//
// Returns:
//   - CameraBuilderOption: the option
func WithAspect(aspect float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.aspect = aspect
	}
}

// WithNear moves the near clip plane.
func WithNear(near float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.near = near
	}
}

// WithFar moves the far clip plane. Anything wholly beyond it is culled.
func WithFar(far float32) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.far = far
	}
}

// WithController replaces the default orbit controller.
//
// Parameters:
//   - ctrl: the controller that positions the eye
//
// Returns:
//   - CameraBuilderOption: the option
func WithController(ctrl CameraController) CameraBuilderOption {
	return func(c *cameraImpl) {
		c.controller = ctrl
	}
}
