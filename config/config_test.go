package config

import (
	"os"
	"path/filepath"
	"testing"

	. "github.com/onsi/gomega"
)

func TestDefaultConfig(t *testing.T) {
	g := NewWithT(t)
	cfg := DefaultConfig()

	g.Expect(cfg.Camera.Fov).To(BeNumerically("==", 60))
	g.Expect(cfg.Camera.Near).To(BeNumerically("~", 0.1, 1e-6))
	g.Expect(cfg.Camera.Far).To(BeNumerically("==", 1000))
	g.Expect(cfg.Camera.Position).To(Equal([3]float32{0, 20, 100}))
	g.Expect(cfg.Camera.Damping).To(BeNumerically("==", 0.5))
	g.Expect(cfg.Camera.ZoomEnabled).To(BeTrue())
	g.Expect(cfg.Lighting.PointIntensity).To(BeNumerically("==", 200))
	g.Expect(cfg.Lighting.PointRange).To(BeNumerically("==", 200))
	g.Expect(cfg.Lighting.ShadowMapSize).To(Equal(uint32(4096)))
	g.Expect(cfg.Lighting.Color).To(Equal([3]float32{1, 1, 1}))
	g.Expect(cfg.Window.MinWidth).To(Equal(600))
	g.Expect(cfg.Window.MinHeight).To(Equal(200))
	g.Expect(cfg.Shell.AllowedOrigins).To(BeEmpty())
	g.Expect(cfg.Simulation.TimeScale).To(BeNumerically("~", 0.1, 1e-9))
	g.Expect(cfg.Simulation.OrbitSegments).To(Equal(128))
	g.Expect(cfg.Simulation.DistanceScale).To(BeNumerically("==", 10))
	g.Expect(cfg.Focus.FlyDuration).To(BeNumerically("==", 4))
	g.Expect(cfg.Focus.NudgeDuration).To(BeNumerically("==", 2))
	g.Expect(cfg.Focus.NudgePolicy).To(Equal(NudgeProportional))
	g.Expect(cfg.Validate()).To(Succeed())
}

func TestLoadOverridesDefaults(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "orrery.yaml")
	doc := `camera:
  fov: 45
simulation:
  time_scale: 0.5
focus:
  nudge_policy: flat
`
	g.Expect(os.WriteFile(path, []byte(doc), 0o644)).To(Succeed())

	cfg, err := Load(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(cfg.Camera.Fov).To(BeNumerically("==", 45))
	g.Expect(cfg.Camera.Far).To(BeNumerically("==", 1000))
	g.Expect(cfg.Simulation.TimeScale).To(BeNumerically("~", 0.5, 1e-9))
	g.Expect(cfg.Simulation.OrbitSegments).To(Equal(128))
	g.Expect(cfg.Focus.NudgePolicy).To(Equal(NudgeFlat))
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"unknown nudge policy", "focus:\n  nudge_policy: sideways\n"},
		{"inverted clip range", "camera:\n  near: 10\n  far: 1\n"},
		{"negative light colour", "lighting:\n  color: [1, -0.5, 1]\n"},
		{"zero damping", "camera:\n  damping: 0\n"},
		{"too few segments", "simulation:\n  orbit_segments: 2\n"},
		{"malformed", "camera: [\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewWithT(t)
			path := filepath.Join(t.TempDir(), "orrery.yaml")
			g.Expect(os.WriteFile(path, []byte(tt.doc), 0o644)).To(Succeed())
			_, err := Load(path)
			g.Expect(err).To(HaveOccurred())
		})
	}
}

func TestSaveRoundTrip(t *testing.T) {
	g := NewWithT(t)
	path := filepath.Join(t.TempDir(), "orrery.yaml")
	cfg := DefaultConfig()
	cfg.Window.Title = "Inner planets"
	g.Expect(Save(path, cfg)).To(Succeed())

	loaded, err := Load(path)
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(loaded).To(Equal(cfg))
}

func TestNudgeDistance(t *testing.T) {
	g := NewWithT(t)
	cfg := DefaultConfig()
	g.Expect(cfg.NudgeDistance(2)).To(BeNumerically("~", 1.4, 1e-6))

	cfg.Focus.NudgePolicy = NudgeFlat
	g.Expect(cfg.NudgeDistance(2)).To(BeNumerically("~", 1.5, 1e-6))
}
