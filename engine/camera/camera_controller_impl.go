package camera

import (
	"math"
	"sync"

	"github.com/Carmen-Shannon/oxy-orrery/common"
	"github.com/go-gl/mathgl/mgl32"
)

// pendingEpsilon is the magnitude below which pending input counts as settled.
const pendingEpsilon = 1e-6

// cameraControllerImpl is the single implementation of CameraController.
// Position is derived from target plus spherical coordinates whenever user input is
// applied. Programmatic moves set the position directly and re-derive the spherical
// coordinates from it.
type cameraControllerImpl struct {
	mu *sync.Mutex

	position mgl32.Vec3
	target   mgl32.Vec3

	// Spherical coordinates (offset from target)
	radius    float32
	azimuth   float32 // Horizontal angle around Y axis, 0 = +Z
	elevation float32 // Vertical angle from horizontal plane

	// Orbit constraints
	minRadius    float32
	maxRadius    float32
	maxElevation float32

	// Input settings
	damping          float32
	mouseSensitivity float32
	zoomSpeed        float32
	panSpeed         float32
	enabled          bool
	zoomEnabled      bool

	// Input not yet applied by Update
	pendingAzimuth   float32
	pendingElevation float32
	pendingPan       mgl32.Vec2

	defaultPosition mgl32.Vec3
	defaultTarget   mgl32.Vec3
}

// Compile-time interface compliance check
var _ CameraController = &cameraControllerImpl{}

// NewCameraController creates an enabled orbit rig at (0, 20, 100) looking at the origin with
// damping 0.5 and zoom enabled. The pose after options are applied becomes the Reset pose.
//
// Parameters:
//   - options: functional options to configure the controller
//
// Returns:
//   - CameraController: the newly created controller
func NewCameraController(options ...CameraControllerOption) CameraController {
	cc := &cameraControllerImpl{
		mu:       &sync.Mutex{},
		position: mgl32.Vec3{0, 20, 100},

		minRadius:    0.5,
		maxRadius:    1000.0,
		maxElevation: float32(math.Pi/2 - 0.01),

		damping:          0.5,
		mouseSensitivity: 0.005,
		zoomSpeed:        5.0,
		panSpeed:         0.1,
		enabled:          true,
		zoomEnabled:      true,
	}

	for _, option := range options {
		option(cc)
	}

	cc.defaultPosition = cc.position
	cc.defaultTarget = cc.target
	cc.updateSpherical()
	return cc
}

// --- internal helpers ---

// updatePosition recomputes the camera position from spherical coordinates.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updatePosition() {
	cosElev := float32(math.Cos(float64(cc.elevation)))
	sinElev := float32(math.Sin(float64(cc.elevation)))
	cosAzim := float32(math.Cos(float64(cc.azimuth)))
	sinAzim := float32(math.Sin(float64(cc.azimuth)))

	cc.position = cc.target.Add(mgl32.Vec3{
		cc.radius * cosElev * sinAzim,
		cc.radius * sinElev,
		cc.radius * cosElev * cosAzim,
	})
}

// updateSpherical derives radius, azimuth and elevation from position and target.
// Caller must hold the mutex.
func (cc *cameraControllerImpl) updateSpherical() {
	offset := cc.position.Sub(cc.target)
	cc.radius = offset.Len()
	if cc.radius < 1e-8 {
		cc.azimuth, cc.elevation = 0, 0
		return
	}
	cc.azimuth = float32(math.Atan2(float64(offset.X()), float64(offset.Z())))
	cc.elevation = float32(math.Asin(float64(mgl32.Clamp(offset.Y()/cc.radius, -1, 1))))
}

// localAxes computes the camera's local right and up axes consistent with the LookAt matrix.
// Falls back to the world axes if position and target coincide. Caller must hold the mutex.
func (cc *cameraControllerImpl) localAxes() (right, up mgl32.Vec3) {
	// backward = normalize(position - target), matching LookAt's z-axis
	back := common.SafeNormalize(cc.position.Sub(cc.target), mgl32.Vec3{0, 0, 1})

	// right = normalize(cross(worldUp, backward)) = (bz, 0, -bx)
	right = common.SafeNormalize(mgl32.Vec3{back.Z(), 0, -back.X()}, mgl32.Vec3{1, 0, 0})

	// up = cross(backward, right), matching LookAt's y-axis
	up = back.Cross(right)
	return right, up
}

// clearPending drops queued user input. Caller must hold the mutex.
func (cc *cameraControllerImpl) clearPending() {
	cc.pendingAzimuth = 0
	cc.pendingElevation = 0
	cc.pendingPan = mgl32.Vec2{}
}

func settled(v float32) bool {
	return v > -pendingEpsilon && v < pendingEpsilon
}

// --- CameraController methods ---

func (cc *cameraControllerImpl) Position() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.position
}

func (cc *cameraControllerImpl) SetPosition(p mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.position = p
	cc.updateSpherical()
}

func (cc *cameraControllerImpl) Target() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.target
}

func (cc *cameraControllerImpl) SetTarget(t mgl32.Vec3) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.target = t
	cc.updateSpherical()
}

func (cc *cameraControllerImpl) LookAt(p mgl32.Vec3) {
	cc.SetTarget(p)
}

func (cc *cameraControllerImpl) Rotate(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.enabled {
		return
	}
	cc.pendingAzimuth -= dx * cc.mouseSensitivity
	cc.pendingElevation += dy * cc.mouseSensitivity
}

func (cc *cameraControllerImpl) Pan(dx, dy float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.enabled {
		return
	}
	cc.pendingPan = cc.pendingPan.Add(mgl32.Vec2{-dx * cc.panSpeed, dy * cc.panSpeed})
}

func (cc *cameraControllerImpl) Zoom(delta float32) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	if !cc.enabled || !cc.zoomEnabled {
		return
	}
	cc.radius = mgl32.Clamp(cc.radius-delta*cc.zoomSpeed, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Update() {
	cc.mu.Lock()
	defer cc.mu.Unlock()

	if settled(cc.pendingAzimuth) && settled(cc.pendingElevation) &&
		settled(cc.pendingPan.X()) && settled(cc.pendingPan.Y()) {
		cc.clearPending()
		return
	}

	stepAzimuth := cc.pendingAzimuth * cc.damping
	stepElevation := cc.pendingElevation * cc.damping
	stepPan := cc.pendingPan.Mul(cc.damping)
	cc.pendingAzimuth -= stepAzimuth
	cc.pendingElevation -= stepElevation
	cc.pendingPan = cc.pendingPan.Sub(stepPan)

	right, up := cc.localAxes()
	cc.target = cc.target.Add(right.Mul(stepPan.X())).Add(up.Mul(stepPan.Y()))

	cc.azimuth += stepAzimuth
	cc.elevation = mgl32.Clamp(cc.elevation+stepElevation, -cc.maxElevation, cc.maxElevation)
	cc.radius = mgl32.Clamp(cc.radius, cc.minRadius, cc.maxRadius)
	cc.updatePosition()
}

func (cc *cameraControllerImpl) Reset() {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.clearPending()
	cc.position = cc.defaultPosition
	cc.target = cc.defaultTarget
	cc.updateSpherical()
}

func (cc *cameraControllerImpl) Enabled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.enabled
}

func (cc *cameraControllerImpl) SetEnabled(enabled bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.enabled = enabled
	if !enabled {
		cc.clearPending()
	}
}

func (cc *cameraControllerImpl) ZoomEnabled() bool {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.zoomEnabled
}

func (cc *cameraControllerImpl) SetZoomEnabled(enabled bool) {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	cc.zoomEnabled = enabled
}

func (cc *cameraControllerImpl) Damping() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.damping
}

func (cc *cameraControllerImpl) Right() mgl32.Vec3 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	right, _ := cc.localAxes()
	return right
}

func (cc *cameraControllerImpl) Radius() float32 {
	cc.mu.Lock()
	defer cc.mu.Unlock()
	return cc.radius
}
