package camera

// CameraControllerOption configures an orbit controller in NewCameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithRadius sets the starting eye distance from the origin. Reset returns here.
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius = radius
	}
}

// WithAzimuth sets the starting angle around +Y, in radians. Zero is on +Z.
func WithAzimuth(azimuth float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.azimuth = azimuth
	}
}

// WithElevation sets the starting angle above the equator, in radians.
func WithElevation(elevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.elevation = elevation
	}
}

// WithRadiusBounds clamps zooming to [min, max].
//
// Parameters:
//   - min: the closest the eye may get
//   - max: the farthest the eye may get
//
// Returns:
//   - CameraControllerOption: the option
func WithRadiusBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = min
		cc.maxRadius = max
	}
}

// WithElevationBounds clamps tilting to [min, max] radians. Keep both inside
// (-π/2, π/2) or the view flips at the poles.
//
// Parameters:
//   - min: the lowest elevation
//   - max: the highest elevation
//
// Returns:
//   - CameraControllerOption: the option
func WithElevationBounds(min, max float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minElevation = min
		cc.maxElevation = max
	}
}

// WithOrbitSpeed sets the angle in radians of one orbit step.
func WithOrbitSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.orbitSpeed = speed
	}
}

// WithZoomSpeed sets the radius change of one unit of zoom.
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}
