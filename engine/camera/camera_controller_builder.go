package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraControllerOption is a functional option for configuring a CameraController.
type CameraControllerOption func(*cameraControllerImpl)

// WithPosition sets the initial camera position, which is also the Reset position.
//
// Parameters:
//   - p: the world position
//
// Returns:
//   - CameraControllerOption: functional option to set the position
func WithPosition(p mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.position = p
	}
}

// WithTarget sets the look-at/pivot point, which is also the Reset target.
//
// Parameters:
//   - t: the target
//
// Returns:
//   - CameraControllerOption: functional option to set the target position
func WithTarget(t mgl32.Vec3) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.target = t
	}
}

// WithDamping sets the fraction of pending input applied per frame. Values outside (0, 1]
// are ignored.
//
// Parameters:
//   - damping: the damping factor
//
// Returns:
//   - CameraControllerOption: functional option to set the damping
func WithDamping(damping float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		if damping > 0 && damping <= 1 {
			cc.damping = damping
		}
	}
}

// WithZoomEnabled sets whether scrolling zooms the camera.
//
// Parameters:
//   - enabled: true to allow zooming
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom flag
func WithZoomEnabled(enabled bool) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomEnabled = enabled
	}
}

// WithRadiusLimits sets the range user zooming and orbiting may reach.
//
// Parameters:
//   - minRadius: closest allowed distance to the target
//   - maxRadius: farthest allowed distance from the target
//
// Returns:
//   - CameraControllerOption: functional option to set the radius limits
func WithRadiusLimits(minRadius, maxRadius float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.minRadius = minRadius
		cc.maxRadius = maxRadius
	}
}

// WithMouseSensitivity sets the radians of orbit per pixel of drag.
//
// Parameters:
//   - sensitivity: radians per pixel
//
// Returns:
//   - CameraControllerOption: functional option to set the mouse sensitivity
func WithMouseSensitivity(sensitivity float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.mouseSensitivity = sensitivity
	}
}

// WithZoomSpeed sets the world units moved per unit of scroll.
//
// Parameters:
//   - speed: units per scroll step
//
// Returns:
//   - CameraControllerOption: functional option to set the zoom speed
func WithZoomSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.zoomSpeed = speed
	}
}

// WithPanSpeed sets the world units moved per pixel of pan drag.
//
// Parameters:
//   - speed: units per pixel
//
// Returns:
//   - CameraControllerOption: functional option to set the pan speed
func WithPanSpeed(speed float32) CameraControllerOption {
	return func(cc *cameraControllerImpl) {
		cc.panSpeed = speed
	}
}
