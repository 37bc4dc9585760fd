package scene

import (
	"errors"
	"testing"

	"github.com/Carmen-Shannon/oxy-orrery/common"
	"github.com/Carmen-Shannon/oxy-orrery/engine/body"
	"github.com/Carmen-Shannon/oxy-orrery/engine/light"
	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/gomega"
)

func newTestScene(t *testing.T) Scene {
	t.Helper()
	s := NewScene("test")
	bodies := []body.Body{
		body.NewBody("Sun", body.KindSun),
		body.NewBody("Mercury", body.KindPlanet, body.WithRadius(0.5), body.WithOrbit(10, 20), body.WithPosition(mgl32.Vec3{20, 0, 0})),
		body.NewBody("Venus", body.KindPlanet, body.WithRadius(0.8), body.WithOrbit(20, 30), body.WithPosition(mgl32.Vec3{0, 0, 30})),
		body.NewBody("Starfield", body.KindStarfield, body.WithRadius(500)),
	}
	for _, b := range bodies {
		if _, err := s.AddBody(b); err != nil {
			t.Fatalf("unexpected error adding %s: %v", b.Name(), err)
		}
	}
	return s
}

func TestAddBodyAssignsIDsAndRejectsDuplicates(t *testing.T) {
	g := NewWithT(t)
	s := newTestScene(t)

	g.Expect(s.Count()).To(Equal(4))
	g.Expect(s.BodyByName("Mercury").ID()).To(Equal(uint64(2)))

	_, err := s.AddBody(body.NewBody("Venus", body.KindPlanet))
	g.Expect(errors.Is(err, ErrDuplicateName)).To(BeTrue())
	g.Expect(s.Count()).To(Equal(4))
}

func TestListBodiesFilters(t *testing.T) {
	g := NewWithT(t)
	s := newTestScene(t)

	names := func(bodies []body.Body) []string {
		out := make([]string, 0, len(bodies))
		for _, b := range bodies {
			out = append(out, b.Name())
		}
		return out
	}

	g.Expect(names(s.ListBodies(nil))).To(Equal([]string{"Sun", "Mercury", "Venus", "Starfield"}))
	g.Expect(names(s.ListBodies(ByKind(body.KindPlanet)))).To(Equal([]string{"Mercury", "Venus"}))
	g.Expect(names(s.ListBodies(Solid()))).To(Equal([]string{"Sun", "Mercury", "Venus"}))
}

func TestRemoveBodyDisposes(t *testing.T) {
	g := NewWithT(t)
	s := newTestScene(t)

	mercury := s.BodyByName("Mercury")
	s.RemoveBody(mercury.ID())

	g.Expect(mercury.Disposed()).To(BeTrue())
	g.Expect(s.BodyByName("Mercury")).To(BeNil())
	g.Expect(s.Body(mercury.ID())).To(BeNil())

	// Removing twice is harmless.
	s.RemoveBody(mercury.ID())
	g.Expect(s.Count()).To(Equal(3))
}

func TestFindBodyAt(t *testing.T) {
	s := newTestScene(t)

	tests := []struct {
		name string
		ray  common.Ray
		want string
	}{
		{"hit mercury", common.Ray{Origin: mgl32.Vec3{20, 0, 50}, Dir: mgl32.Vec3{0, 0, -1}}, "Mercury"},
		{"hit the sun", common.Ray{Origin: mgl32.Vec3{0, 50, 0}, Dir: mgl32.Vec3{0, -1, 0}}, "Sun"},
		{"nearest of two", common.Ray{Origin: mgl32.Vec3{0, 0, 100}, Dir: mgl32.Vec3{0, 0, -1}}, "Venus"},
		{"starfield ignored", common.Ray{Origin: mgl32.Vec3{100, 100, 0}, Dir: mgl32.Vec3{0, 1, 0}}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.FindBodyAt(tt.ray)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("expected a miss, got %s", got.Name())
				}
				return
			}
			if got == nil || got.Name() != tt.want {
				t.Fatalf("expected %s, got %v", tt.want, got)
			}
		})
	}
}

func TestEnsureOrbitPathCreatesOnce(t *testing.T) {
	g := NewWithT(t)
	s := newTestScene(t)
	venus := s.BodyByName("Venus")

	path, created := s.EnsureOrbitPath(venus, 128)
	g.Expect(created).To(BeTrue())
	g.Expect(path.Name()).To(Equal("Venus_orbit"))
	g.Expect(path.Kind()).To(Equal(body.KindOrbitPath))
	g.Expect(path.Radius()).To(Equal(venus.Distance()))
	g.Expect(path.Visible()).To(BeFalse())
	g.Expect(path.Mesh().Vertices()).To(HaveLen(129))

	again, created := s.EnsureOrbitPath(venus, 128)
	g.Expect(created).To(BeFalse())
	g.Expect(again).To(BeIdenticalTo(path))
	g.Expect(s.OrbitPath("Venus")).To(BeIdenticalTo(path))
	g.Expect(s.ListBodies(ByKind(body.KindOrbitPath))).To(HaveLen(1))
}

func TestLightsKeepFill(t *testing.T) {
	g := NewWithT(t)
	s := NewScene("lights")

	g.Expect(s.Lights()).To(HaveLen(1))
	g.Expect(s.FillLight().Type()).To(Equal(light.LightTypeAmbient))
	g.Expect(s.FillLight().Intensity()).To(BeNumerically("~", 0.1, 1e-6))

	point := light.NewLight(light.LightTypePoint, light.WithIntensity(200))
	s.SetPrimaryLight(point)
	g.Expect(s.Lights()).To(HaveLen(2))
	g.Expect(s.PrimaryLight()).To(BeIdenticalTo(point))

	ambient := light.NewLight(light.LightTypeAmbient, light.WithIntensity(0.1))
	s.SetPrimaryLight(ambient)
	g.Expect(s.Lights()).To(ConsistOf(s.FillLight(), ambient))
}

func TestClearDisposesBodies(t *testing.T) {
	g := NewWithT(t)
	s := newTestScene(t)
	sun := s.BodyByName("Sun")

	s.Clear()
	g.Expect(s.Count()).To(BeZero())
	g.Expect(sun.Disposed()).To(BeTrue())
	g.Expect(s.FillLight()).NotTo(BeNil())
}
