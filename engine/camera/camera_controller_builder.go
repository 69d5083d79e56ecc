package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a function that configures a controller during construction.
type CameraControllerOption func(*cameraControllerImpl)

// WithRadius sets the initial distance between eye and target.
//
// Parameters:
//   - radius: the orbit radius
//
// Returns:
//   - CameraControllerOption: a function that applies the radius option
func WithRadius(radius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.radius = radius
	}
}

// WithAzimuth sets the initial horizontal orbit angle in radians.
//
// Parameters:
//   - azimuth: the horizontal angle
//
// Returns:
//   - CameraControllerOption: a function that applies the azimuth option
func WithAzimuth(azimuth float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.azimuth = azimuth
	}
}

// WithElevation sets the initial vertical orbit angle in radians.
//
// Parameters:
//   - elevation: the vertical angle
//
// Returns:
//   - CameraControllerOption: a function that applies the elevation option
func WithElevation(elevation float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.elevation = elevation
	}
}

// WithTarget sets the look-at target.
//
// Parameters:
//   - x, y, z: target components
//
// Returns:
//   - CameraControllerOption: a function that applies the target option
func WithTarget(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = mgl32.Vec3{x, y, z}
	}
}

// WithEye places the eye at an explicit position. It must come after WithTarget
// when both are used, since the orbit coordinates are derived relative to the target.
//
// Parameters:
//   - x, y, z: eye position components
//
// Returns:
//   - CameraControllerOption: a function that applies the eye option
func WithEye(x, y, z float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.position = mgl32.Vec3{x, y, z}
		cc.updateSpherical()
	}
}

// WithRadiusBounds sets the zoom limits.
//
// Parameters:
//   - minRadius: closest allowed distance
//   - maxRadius: farthest allowed distance
//
// Returns:
//   - CameraControllerOption: a function that applies the bounds option
func WithRadiusBounds(minRadius, maxRadius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = minRadius
		cc.maxRadius = maxRadius
	}
}

// WithAutoRotate makes Advance orbit the eye at a constant azimuth speed.
//
// Parameters:
//   - speed: radians per second, zero to disable
//
// Returns:
//   - CameraControllerOption: a function that applies the auto-rotate option
func WithAutoRotate(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.autoRotate = speed
	}
}
