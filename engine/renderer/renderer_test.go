package renderer

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-orrery/engine/body"
	"github.com/Carmen-Shannon/oxy-orrery/engine/camera"
	"github.com/Carmen-Shannon/oxy-orrery/engine/light"
	"github.com/Carmen-Shannon/oxy-orrery/engine/model"
	"github.com/Carmen-Shannon/oxy-orrery/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/gomega"
)

func TestUniformSizesMatchShader(t *testing.T) {
	g := NewWithT(t)

	var f GPUFrameUniforms
	var b GPUBodyUniforms
	g.Expect(f.Size()).To(Equal(144))
	g.Expect(f.Marshal()).To(HaveLen(144))
	g.Expect(b.Size()).To(Equal(96))
	g.Expect(b.Marshal()).To(HaveLen(96))
	g.Expect(SolarShaderSource).To(ContainSubstring("fn vs_main"))
}

func TestFrameUniformsCollectLights(t *testing.T) {
	tests := []struct {
		name        string
		primary     light.Light
		wantAmbient float32
		wantPoint   bool
	}{
		{
			name:        "ambient primary adds to the fill",
			primary:     light.NewLight(light.LightTypeAmbient, light.WithIntensity(0.1)),
			wantAmbient: 0.2,
		},
		{
			name:        "point primary leaves only the fill as ambient",
			primary:     light.NewLight(light.LightTypePoint, light.WithIntensity(200), light.WithRange(200)),
			wantAmbient: 0.1,
			wantPoint:   true,
		},
		{
			name:        "disabled primary is skipped",
			primary:     light.NewLight(light.LightTypePoint, light.WithEnabled(false)),
			wantAmbient: 0.1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)

			sc := scene.NewScene("test", scene.WithPrimaryLight(tt.primary))
			cam := camera.NewCamera()
			cam.Update()

			u := frameUniforms(sc, cam)
			g.Expect(u.Ambient[0]).To(BeNumerically("~", tt.wantAmbient, 1e-6))
			g.Expect(u.LightColor[3] == 1).To(Equal(tt.wantPoint))
			g.Expect(u.Params[0]).To(Equal(float32(PointLightDecay)))
			if tt.wantPoint {
				g.Expect(u.LightColor[0]).To(BeNumerically("~", 200, 1e-4))
				g.Expect(u.LightPos[3]).To(BeNumerically("~", 200, 1e-4))
			}
		})
	}
}

func TestBodyUniformsPackMaterial(t *testing.T) {
	g := NewWithT(t)

	b := body.NewBody("Sun", body.KindSun,
		body.WithPosition(mgl32.Vec3{3, 0, 0}),
		body.WithMaterial(model.NewMaterial(
			model.WithColor([3]float32{1, 0.5, 0.25}),
			model.WithUnlit(true),
			model.WithOpacity(0.8),
		)),
	)

	u := bodyUniforms(b)
	g.Expect(u.Color).To(Equal([4]float32{1, 0.5, 0.25, 0.8}))
	g.Expect(u.Flags[0]).To(Equal(float32(1)))
	g.Expect(u.Model[12]).To(Equal(float32(3)))

	raw := u.Marshal()
	tx := math.Float32frombits(binary.LittleEndian.Uint32(raw[48:52]))
	opacity := math.Float32frombits(binary.LittleEndian.Uint32(raw[76:80]))
	g.Expect(tx).To(Equal(float32(3)))
	g.Expect(opacity).To(BeNumerically("~", 0.8, 1e-6))
}

func TestDrawListOrdersPasses(t *testing.T) {
	g := NewWithT(t)

	sc := scene.NewScene("test")
	earth := body.NewBody("Earth", body.KindPlanet, body.WithOrbit(365, 30))
	hidden := body.NewBody("Mars", body.KindPlanet, body.WithOrbit(687, 40), body.WithVisible(false))
	sun := body.NewBody("Sun", body.KindSun)
	stars := body.NewBody("Starfield", body.KindStarfield,
		body.WithMaterial(model.NewMaterial(model.WithBackSide(true))))
	for _, b := range []body.Body{earth, hidden, sun, stars} {
		_, err := sc.AddBody(b)
		g.Expect(err).NotTo(HaveOccurred())
	}
	orbit, created := sc.EnsureOrbitPath(earth, 128)
	g.Expect(created).To(BeTrue())
	orbit.SetVisible(true)

	items := drawList(sc)
	names := make([]string, 0, len(items))
	passes := make([]string, 0, len(items))
	for _, it := range items {
		names = append(names, it.body.Name())
		passes = append(passes, it.pass.key())
	}

	g.Expect(names).To(Equal([]string{"Starfield", "Earth", "Sun", "Earth_orbit"}))
	g.Expect(passes).To(Equal([]string{"backdrop", "bodies", "bodies", "orbits"}))
}

func TestParseMSAA(t *testing.T) {
	tests := []struct {
		samples int
		want    MSAASampleCount
	}{
		{0, MSAAOff},
		{2, MSAAOff},
		{4, MSAA4x},
		{6, MSAA4x},
		{8, MSAA8x},
		{32, MSAA16x},
	}
	for _, tt := range tests {
		if got := ParseMSAA(tt.samples); got != tt.want {
			t.Errorf("ParseMSAA(%d): expected %d, got %d", tt.samples, tt.want, got)
		}
	}
}
