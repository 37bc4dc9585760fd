package common

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestRayIntersectSphere(t *testing.T) {
	tests := []struct {
		name   string
		ray    Ray
		center mgl32.Vec3
		radius float32
		hit    bool
		dist   float32
	}{
		{
			name:   "head on",
			ray:    Ray{Origin: mgl32.Vec3{0, 0, 10}, Dir: mgl32.Vec3{0, 0, -1}},
			center: mgl32.Vec3{},
			radius: 1,
			hit:    true,
			dist:   9,
		},
		{
			name:   "miss to the side",
			ray:    Ray{Origin: mgl32.Vec3{5, 0, 10}, Dir: mgl32.Vec3{0, 0, -1}},
			center: mgl32.Vec3{},
			radius: 1,
			hit:    false,
		},
		{
			name:   "sphere behind origin",
			ray:    Ray{Origin: mgl32.Vec3{0, 0, 10}, Dir: mgl32.Vec3{0, 0, 1}},
			center: mgl32.Vec3{},
			radius: 1,
			hit:    false,
		},
		{
			name:   "origin inside sphere",
			ray:    Ray{Origin: mgl32.Vec3{}, Dir: mgl32.Vec3{1, 0, 0}},
			center: mgl32.Vec3{},
			radius: 2,
			hit:    true,
			dist:   2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := tt.ray.IntersectSphere(tt.center, tt.radius)
			if ok != tt.hit {
				t.Fatalf("expected hit=%v, got %v", tt.hit, ok)
			}
			if ok && !approx(d, tt.dist, 1e-4) {
				t.Errorf("expected distance %f, got %f", tt.dist, d)
			}
		})
	}
}

func TestRayAt(t *testing.T) {
	r := Ray{Origin: mgl32.Vec3{1, 2, 3}, Dir: mgl32.Vec3{0, 1, 0}}
	if got := r.At(4); got != (mgl32.Vec3{1, 6, 3}) {
		t.Errorf("expected (1,6,3), got %v", got)
	}
}
