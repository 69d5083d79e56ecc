package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController owns the camera's position and look-at target. The default
// implementation is an orbit rig: the position is kept on a sphere around the
// target described by radius, azimuth, and elevation.
type CameraController interface {
	// Position returns the world-space eye position.
	//
	// Returns:
	//   - mgl32.Vec3: the eye position
	Position() mgl32.Vec3

	// Target returns the world-space point the camera looks at.
	//
	// Returns:
	//   - mgl32.Vec3: the look-at target
	Target() mgl32.Vec3

	// SetPosition moves the eye and re-derives the orbit coordinates from it.
	//
	// Parameters:
	//   - position: the new eye position
	SetPosition(position mgl32.Vec3)

	// SetTarget moves the look-at target, keeping the orbit coordinates.
	//
	// Parameters:
	//   - target: the new target
	SetTarget(target mgl32.Vec3)

	// Orbit rotates the eye around the target. Elevation is clamped to the
	// configured bounds.
	//
	// Parameters:
	//   - dAzimuth: change of the horizontal angle in radians
	//   - dElevation: change of the vertical angle in radians
	Orbit(dAzimuth, dElevation float32)

	// Zoom moves the eye towards (positive delta) or away from the target,
	// clamped to the configured radius bounds.
	//
	// Parameters:
	//   - delta: the zoom amount in world units
	Zoom(delta float32)

	// Advance applies the auto-rotation for an elapsed frame time.
	//
	// Parameters:
	//   - dt: elapsed seconds
	Advance(dt float32)

	// Radius returns the distance between eye and target.
	Radius() float32

	// Azimuth returns the horizontal orbit angle in radians.
	Azimuth() float32

	// Elevation returns the vertical orbit angle in radians.
	Elevation() float32
}
