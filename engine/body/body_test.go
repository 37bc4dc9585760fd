package body

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/gomega"
)

func TestOrbitPositionFollowsCircle(t *testing.T) {
	bodies := []Body{
		NewBody("Mercury", KindPlanet, WithRadius(0.5), WithOrbit(10, 20)),
		NewBody("Venus", KindPlanet, WithRadius(0.8), WithOrbit(20, 30)),
		NewBody("Earth", KindPlanet, WithRadius(1), WithOrbit(30, 40)),
	}
	times := []float64{0, 7.5, 123.4}

	for _, b := range bodies {
		for _, tm := range times {
			angle := tm / float64(b.OrbitPeriod())
			want := mgl32.Vec3{
				float32(float64(b.Distance()) * math.Cos(angle)),
				0,
				float32(float64(b.Distance()) * math.Sin(angle)),
			}
			if got := b.OrbitPosition(tm); !got.ApproxEqualThreshold(want, 1e-4) {
				t.Errorf("%s at t=%v: expected %v, got %v", b.Name(), tm, want, got)
			}
		}
	}
}

func TestNonPlanetsStayAtOrigin(t *testing.T) {
	g := NewWithT(t)

	sun := NewBody("Sun", KindSun, WithOrbit(5, 5))
	g.Expect(sun.OrbitPosition(42)).To(Equal(mgl32.Vec3{}))

	stars := NewBody("Starfield", KindStarfield, WithRadius(500))
	g.Expect(stars.OrbitPosition(42)).To(Equal(mgl32.Vec3{}))
}

func TestDefaultMeshPerKind(t *testing.T) {
	g := NewWithT(t)

	g.Expect(NewBody("Sun", KindSun).Mesh().Key()).To(Equal("sphere_64x64"))
	g.Expect(NewBody("Starfield", KindStarfield).Mesh().Key()).To(Equal("box"))
	g.Expect(NewBody(OrbitPathName("Earth"), KindOrbitPath).Mesh().Key()).To(Equal("circle_128"))
}

func TestKindSolid(t *testing.T) {
	tests := []struct {
		kind  Kind
		solid bool
	}{
		{KindSun, true},
		{KindPlanet, true},
		{KindStarfield, false},
		{KindOrbitPath, false},
	}
	for _, tt := range tests {
		if tt.kind.Solid() != tt.solid {
			t.Errorf("%s: expected solid=%v", tt.kind, tt.solid)
		}
	}
}

func TestExtentAndDispose(t *testing.T) {
	g := NewWithT(t)

	b := NewBody("Mars", KindPlanet, WithRadius(0.75))
	g.Expect(b.Extent()).To(BeNumerically("~", 1.5, 1e-6))
	g.Expect(b.Disposed()).To(BeFalse())

	b.Dispose()
	g.Expect(b.Disposed()).To(BeTrue())
}
