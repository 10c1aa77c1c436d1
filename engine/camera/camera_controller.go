package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController owns the camera's positional state. The camera sits on a
// sphere around a target point described by radius, azimuth and elevation, and
// the Camera reads Position and Target from it to build the view matrix.
//
// With the defaults (radius 3, azimuth 0, elevation 0, target at the origin)
// the camera is at (0, 0, 3) looking down -Z.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget sets the look-at/pivot point and recomputes position from spherical coordinates.
	//
	// Parameters:
	//   - target: world-space coordinates
	SetTarget(target mgl32.Vec3)

	// Zoom adjusts the camera's distance by modifying orbit radius.
	// Positive delta zooms in (closer to target).
	//
	// Parameters:
	//   - delta: zoom amount scaled by ZoomSpeed
	Zoom(delta float32)

	// OrbitLeft rotates the camera left around the target by one orbit speed step.
	OrbitLeft()

	// OrbitRight rotates the camera right around the target by one orbit speed step.
	OrbitRight()

	// OrbitUp tilts the camera upward by one orbit speed step, clamped to max elevation.
	OrbitUp()

	// OrbitDown tilts the camera downward by one orbit speed step, clamped to min elevation.
	OrbitDown()

	// Orbit moves the camera by arbitrary angles, as a mouse drag does. Elevation is clamped.
	//
	// Parameters:
	//   - dAzimuth: the change in azimuth in radians
	//   - dElevation: the change in elevation in radians
	Orbit(dAzimuth, dElevation float32)

	// Reset restores the spherical coordinates the controller was built with.
	Reset()

	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: the orbit radius
	Radius() float32

	// SetRadius sets the orbit radius, clamped to the radius bounds.
	//
	// Parameters:
	//   - radius: the new orbit radius
	SetRadius(radius float32)

	// Azimuth returns the horizontal angle around the Y axis in radians.
	//
	// Returns:
	//   - float32: the azimuth
	Azimuth() float32

	// Elevation returns the vertical angle from the horizontal plane in radians.
	//
	// Returns:
	//   - float32: the elevation
	Elevation() float32
}
