package camera

import "github.com/go-gl/mathgl/mgl32"

// CameraController defines the orbit rig that owns the camera's position and target.
//
// User input (Rotate, Pan, Zoom) accumulates into pending deltas that Update applies with
// damping: each frame a damping fraction of the pending rotation and pan is applied and the
// rest carries over. Programmatic moves (SetPosition, SetTarget, LookAt) take effect
// immediately and are never clamped. While the rig is disabled, user input is discarded.
type CameraController interface {
	// Position returns the camera position in world space.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// SetPosition moves the camera without moving the target.
	//
	// Parameters:
	//   - p: the new world position
	SetPosition(p mgl32.Vec3)

	// Target returns the orbit pivot the camera looks at.
	//
	// Returns:
	//   - mgl32.Vec3: the target
	Target() mgl32.Vec3

	// SetTarget moves the orbit pivot without moving the camera.
	//
	// Parameters:
	//   - t: the new target
	SetTarget(t mgl32.Vec3)

	// LookAt turns the camera towards a point. The point becomes the orbit pivot.
	//
	// Parameters:
	//   - p: the point to look at
	LookAt(p mgl32.Vec3)

	// Rotate queues an orbit drag measured in pixels.
	//
	// Parameters:
	//   - dx: horizontal drag distance
	//   - dy: vertical drag distance
	Rotate(dx, dy float32)

	// Pan queues a pan drag measured in pixels along the camera's right and up axes.
	//
	// Parameters:
	//   - dx: horizontal drag distance
	//   - dy: vertical drag distance
	Pan(dx, dy float32)

	// Zoom moves the camera towards (positive delta) or away from the target.
	// Ignored while zoom or the rig is disabled.
	//
	// Parameters:
	//   - delta: scroll amount
	Zoom(delta float32)

	// Update applies pending damped input. Call once per frame before the camera updates.
	Update()

	// Reset restores the pose captured at construction and clears pending input.
	Reset()

	// Enabled reports whether user input is accepted.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled enables or disables user input. Disabling clears pending input.
	//
	// Parameters:
	//   - enabled: true to accept input
	SetEnabled(enabled bool)

	// ZoomEnabled reports whether Zoom has any effect.
	//
	// Returns:
	//   - bool: true if zoom is enabled
	ZoomEnabled() bool

	// SetZoomEnabled enables or disables zooming.
	//
	// Parameters:
	//   - enabled: true to allow zooming
	SetZoomEnabled(enabled bool)

	// Damping returns the fraction of pending input applied per frame.
	//
	// Returns:
	//   - float32: the damping factor in (0, 1]
	Damping() float32

	// Right returns the camera's local +X axis in world space. The axis is horizontal
	// because the camera's up vector is the world Y axis.
	//
	// Returns:
	//   - mgl32.Vec3: the unit right vector
	Right() mgl32.Vec3

	// Radius returns the distance from the camera to the target.
	//
	// Returns:
	//   - float32: the orbit radius
	Radius() float32
}
