package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func approx(a, b, eps float32) bool {
	return float32(math.Abs(float64(a-b))) <= eps
}

func TestPerspectiveDepthRange(t *testing.T) {
	proj := Perspective(mgl32.DegToRad(60), 16.0/9.0, 0.1, 1000)

	tests := []struct {
		name  string
		viewZ float32
		want  float32
	}{
		{"near plane", -0.1, 0},
		{"far plane", -1000, 1},
	}
	for _, tt := range tests {
		clip := proj.Mul4x1(mgl32.Vec4{0, 0, tt.viewZ, 1})
		got := clip.Z() / clip.W()
		if !approx(got, tt.want, 1e-4) {
			t.Errorf("%s: expected depth %f, got %f", tt.name, tt.want, got)
		}
	}
}

func TestUnprojectRoundTrip(t *testing.T) {
	view := mgl32.LookAtV(mgl32.Vec3{0, 20, 100}, mgl32.Vec3{}, WorldUp)
	proj := Perspective(mgl32.DegToRad(60), 1.5, 0.1, 1000)
	vp := proj.Mul4(view)
	inv := vp.Inv()

	world := mgl32.Vec3{3, -2, 80}
	clip := vp.Mul4x1(world.Vec4(1))
	ndc := mgl32.Vec2{clip.X() / clip.W(), clip.Y() / clip.W()}
	depth := clip.Z() / clip.W()

	got := Unproject(ndc, depth, inv)
	if !got.ApproxEqualThreshold(world, 1e-2) {
		t.Errorf("expected %v, got %v", world, got)
	}
}

func TestModelMatrixPlacesOrigin(t *testing.T) {
	m := ModelMatrix(mgl32.Vec3{20, 0, 0}, float32(math.Pi/2), 0.5)

	center := m.Mul4x1(mgl32.Vec4{0, 0, 0, 1}).Vec3()
	if !center.ApproxEqual(mgl32.Vec3{20, 0, 0}) {
		t.Errorf("expected translated origin, got %v", center)
	}

	edge := m.Mul4x1(mgl32.Vec4{1, 0, 0, 1}).Vec3()
	if !approx(edge.Sub(center).Len(), 0.5, 1e-5) {
		t.Errorf("expected scaled edge at distance 0.5, got %f", edge.Sub(center).Len())
	}
}

func TestSafeNormalizeFallback(t *testing.T) {
	fallback := mgl32.Vec3{1, 0, 0}
	if got := SafeNormalize(mgl32.Vec3{}, fallback); got != fallback {
		t.Errorf("expected fallback, got %v", got)
	}
	if got := SafeNormalize(mgl32.Vec3{0, 0, 5}, fallback); !got.ApproxEqual(mgl32.Vec3{0, 0, 1}) {
		t.Errorf("expected unit z, got %v", got)
	}
}
