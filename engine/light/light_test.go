package light

import (
	"testing"

	. "github.com/onsi/gomega"
)

func TestNewLightDefaults(t *testing.T) {
	g := NewWithT(t)

	l := NewLight(LightTypePoint)
	g.Expect(l.Type()).To(Equal(LightTypePoint))
	g.Expect(l.Color()).To(Equal([3]float32{1, 1, 1}))
	g.Expect(l.Intensity()).To(Equal(float32(1)))
	g.Expect(l.Range()).To(Equal(float32(10)))
	g.Expect(l.Enabled()).To(BeTrue())
	g.Expect(l.CastsShadows()).To(BeFalse())
	g.Expect(l.ShadowMapSize()).To(Equal(uint32(DefaultShadowMapSize)))
}

func TestLightOptions(t *testing.T) {
	tests := []struct {
		name  string
		opts  []LightBuilderOption
		check func(g *WithT, l Light)
	}{
		{
			name: "position and color",
			opts: []LightBuilderOption{WithPosition(1, 2, 3), WithColor(1, 0.5, 0)},
			check: func(g *WithT, l Light) {
				g.Expect(l.Position()).To(Equal([3]float32{1, 2, 3}))
				g.Expect(l.Color()).To(Equal([3]float32{1, 0.5, 0}))
			},
		},
		{
			name: "intensity and range",
			opts: []LightBuilderOption{WithIntensity(200), WithRange(200)},
			check: func(g *WithT, l Light) {
				g.Expect(l.Intensity()).To(Equal(float32(200)))
				g.Expect(l.Range()).To(Equal(float32(200)))
			},
		},
		{
			name: "shadows keep the default size when zero",
			opts: []LightBuilderOption{WithCastsShadows(true, 0)},
			check: func(g *WithT, l Light) {
				g.Expect(l.CastsShadows()).To(BeTrue())
				g.Expect(l.ShadowMapSize()).To(Equal(uint32(DefaultShadowMapSize)))
			},
		},
		{
			name: "shadows with an explicit size",
			opts: []LightBuilderOption{WithCastsShadows(true, 1024)},
			check: func(g *WithT, l Light) {
				g.Expect(l.ShadowMapSize()).To(Equal(uint32(1024)))
			},
		},
		{
			name: "disabled",
			opts: []LightBuilderOption{WithEnabled(false)},
			check: func(g *WithT, l Light) {
				g.Expect(l.Enabled()).To(BeFalse())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			tt.check(g, NewLight(LightTypePoint, tt.opts...))
		})
	}
}

func TestLightSetters(t *testing.T) {
	g := NewWithT(t)

	l := NewLight(LightTypeAmbient)
	l.SetPosition(0, 5, 0)
	l.SetIntensity(0.4)
	l.SetEnabled(false)

	g.Expect(l.Position()).To(Equal([3]float32{0, 5, 0}))
	g.Expect(l.Intensity()).To(Equal(float32(0.4)))
	g.Expect(l.Enabled()).To(BeFalse())
	g.Expect(LightTypeAmbient.String()).To(Equal("ambient"))
	g.Expect(LightType(9).String()).To(Equal("unknown"))
}
