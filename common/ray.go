package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// rayEpsilon rejects hits that start at, or sit behind, the ray origin.
const rayEpsilon = 1e-5

// Ray is a half-line in world space. Dir is expected to be unit length.
type Ray struct {
	Origin mgl32.Vec3
	Dir    mgl32.Vec3
}

// At returns the point at parametric distance t along the ray.
func (r Ray) At(t float32) mgl32.Vec3 {
	return r.Origin.Add(r.Dir.Mul(t))
}

// IntersectSphere returns the distance to the nearest intersection in front of the ray origin.
// A ray that starts inside the sphere reports the exit point.
//
// Parameters:
//   - center: sphere center in world space
//   - radius: sphere radius
//
// Returns:
//   - float32: distance along the ray to the hit
//   - bool: false when the ray misses or the sphere is entirely behind the origin
func (r Ray) IntersectSphere(center mgl32.Vec3, radius float32) (float32, bool) {
	oc := r.Origin.Sub(center)
	a := r.Dir.Dot(r.Dir)
	if a == 0 {
		return 0, false
	}
	b := 2 * oc.Dot(r.Dir)
	c := oc.Dot(oc) - radius*radius

	disc := b*b - 4*a*c
	if disc < 0 {
		return 0, false
	}
	sq := float32(math.Sqrt(float64(disc)))

	t0 := (-b - sq) / (2 * a)
	t1 := (-b + sq) / (2 * a)
	if t0 > rayEpsilon {
		return t0, true
	}
	if t1 > rayEpsilon {
		return t1, true
	}
	return 0, false
}
