// Package picking maps pointer positions to the bodies under them.
package picking

import (
	"github.com/Carmen-Shannon/oxy-orrery/common"
	"github.com/Carmen-Shannon/oxy-orrery/engine/body"
	"github.com/Carmen-Shannon/oxy-orrery/engine/camera"
	"github.com/Carmen-Shannon/oxy-orrery/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
)

// NDC converts client pixel coordinates to normalized device coordinates.
// x grows to the right and y grows upwards, both in [-1, 1]. A zero-sized viewport maps to
// the centre.
//
// Parameters:
//   - x, y: pointer position in pixels from the top-left corner
//   - width, height: viewport size in pixels
//
// Returns:
//   - mgl32.Vec2: the NDC position
func NDC(x, y float64, width, height int) mgl32.Vec2 {
	if width <= 0 || height <= 0 {
		return mgl32.Vec2{}
	}
	return mgl32.Vec2{
		float32(x/float64(width)*2 - 1),
		float32(-(y/float64(height)*2 - 1)),
	}
}

type picker struct {
	cam   camera.Camera
	scene scene.Scene
}

// Picker defines the interface for pointer ray casts against the scene.
type Picker interface {
	// Ray builds the world-space ray through an NDC point, from the near plane towards the far plane.
	//
	// Parameters:
	//   - ndc: the pointer in normalized device coordinates
	//
	// Returns:
	//   - common.Ray: the ray with a unit direction
	Ray(ndc mgl32.Vec2) common.Ray

	// Pick returns the nearest solid body under the pointer, or nil on a miss.
	//
	// Parameters:
	//   - ndc: the pointer in normalized device coordinates
	//
	// Returns:
	//   - body.Body: the hit body or nil
	Pick(ndc mgl32.Vec2) body.Body

	// Hover picks like Pick and also returns the cursor to show for the result.
	//
	// Parameters:
	//   - ndc: the pointer in normalized device coordinates
	//
	// Returns:
	//   - body.Body: the hit body or nil
	//   - common.Cursor: CursorPointer on a hit, CursorDefault otherwise
	Hover(ndc mgl32.Vec2) (body.Body, common.Cursor)
}

var _ Picker = &picker{}

// NewPicker creates a Picker that casts through cam into s. The camera matrices are read at
// pick time, so picks always reflect the last camera Update.
//
// Parameters:
//   - cam: the camera
//   - s: the scene to query
//
// Returns:
//   - Picker: the picker
func NewPicker(cam camera.Camera, s scene.Scene) Picker {
	if cam == nil || s == nil {
		panic("picking: NewPicker requires a Camera and a Scene")
	}
	return &picker{cam: cam, scene: s}
}

func (p *picker) Ray(ndc mgl32.Vec2) common.Ray {
	inv := p.cam.InverseViewProjection()
	near := common.Unproject(ndc, 0, inv)
	far := common.Unproject(ndc, 1, inv)
	return common.Ray{
		Origin: near,
		Dir:    common.SafeNormalize(far.Sub(near), mgl32.Vec3{0, 0, -1}),
	}
}

func (p *picker) Pick(ndc mgl32.Vec2) body.Body {
	return p.scene.FindBodyAt(p.Ray(ndc))
}

func (p *picker) Hover(ndc mgl32.Vec2) (body.Body, common.Cursor) {
	b := p.Pick(ndc)
	if b == nil {
		return nil, common.CursorDefault
	}
	return b, common.CursorPointer
}
