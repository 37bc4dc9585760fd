package common

import (
	"math"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// WorldUp is the +Y axis used as the camera up vector and the orbital plane normal.
var WorldUp = mgl32.Vec3{0, 1, 0}

// SliceToBytes converts any slice to a byte slice for GPU buffer uploads.
// Uses unsafe pointer operations to create a view into the original data.
// WARNING: The returned slice shares memory with the input - do not modify.
//
// Parameters:
//   - data: source slice of any type
//
// Returns:
//   - []byte: byte slice view of the input data, or nil if input is empty
func SliceToBytes[T any](data []T) []byte {
	if len(data) == 0 {
		return nil
	}
	var zero T
	size := unsafe.Sizeof(zero)
	return unsafe.Slice((*byte)(unsafe.Pointer(&data[0])), int(size)*len(data))
}

// Perspective builds a right-handed perspective projection that maps view depth into the
// WebGPU clip range [0, 1]. mgl32.Perspective targets the OpenGL [-1, 1] range and is not
// usable for the depth attachment here.
//
// Parameters:
//   - fovY: vertical field of view in radians
//   - aspect: viewport aspect ratio (width/height)
//   - near: near clipping plane distance (must be > 0)
//   - far: far clipping plane distance (must be > near)
//
// Returns:
//   - mgl32.Mat4: the column-major projection matrix
func Perspective(fovY, aspect, near, far float32) mgl32.Mat4 {
	f := 1.0 / float32(math.Tan(float64(fovY)/2.0))

	var m mgl32.Mat4
	m[0] = f / aspect
	m[5] = f
	m[10] = far / (near - far)
	m[11] = -1.0
	m[14] = (near * far) / (near - far)
	return m
}

// ModelMatrix composes translation, a rotation about the Y axis and a uniform scale.
// Bodies only ever spin around the orbital plane normal, so a single angle is enough.
//
// Parameters:
//   - position: world-space translation
//   - rotY: rotation about +Y in radians
//   - scale: uniform scale factor
//
// Returns:
//   - mgl32.Mat4: T * Ry * S
func ModelMatrix(position mgl32.Vec3, rotY, scale float32) mgl32.Mat4 {
	return mgl32.Translate3D(position.X(), position.Y(), position.Z()).
		Mul4(mgl32.HomogRotate3DY(rotY)).
		Mul4(mgl32.Scale3D(scale, scale, scale))
}

// Unproject maps a point in normalized device coordinates back into world space using an
// inverse view-projection matrix. Depth follows the WebGPU convention (0 = near, 1 = far).
//
// Parameters:
//   - ndc: x and y in [-1, 1]
//   - depth: clip depth in [0, 1]
//   - inverseViewProjection: inverse of projection * view
//
// Returns:
//   - mgl32.Vec3: the world-space point
func Unproject(ndc mgl32.Vec2, depth float32, inverseViewProjection mgl32.Mat4) mgl32.Vec3 {
	v := inverseViewProjection.Mul4x1(mgl32.Vec4{ndc.X(), ndc.Y(), depth, 1})
	if v.W() == 0 {
		return v.Vec3()
	}
	return v.Vec3().Mul(1 / v.W())
}

// SafeNormalize returns v scaled to unit length, or fallback when v is too short to normalize.
func SafeNormalize(v, fallback mgl32.Vec3) mgl32.Vec3 {
	l := v.Len()
	if l < 1e-8 {
		return fallback
	}
	return v.Mul(1 / l)
}
