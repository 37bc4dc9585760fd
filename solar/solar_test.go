package solar

import (
	"errors"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-orrery/common"
	"github.com/Carmen-Shannon/oxy-orrery/config"
	"github.com/Carmen-Shannon/oxy-orrery/engine/body"
	"github.com/Carmen-Shannon/oxy-orrery/engine/camera"
	"github.com/Carmen-Shannon/oxy-orrery/engine/input"
	"github.com/Carmen-Shannon/oxy-orrery/engine/light"
	"github.com/Carmen-Shannon/oxy-orrery/engine/loader"
	"github.com/Carmen-Shannon/oxy-orrery/engine/scene"
	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/gomega"
)

const (
	screenW = 1280
	screenH = 720
)

type fakeSurface struct {
	w, h    int
	cursors []common.Cursor
}

func (s *fakeSurface) Size() (int, int) { return s.w, s.h }

func (s *fakeSurface) SetCursor(c common.Cursor) { s.cursors = append(s.cursors, c) }

func (s *fakeSurface) last() common.Cursor {
	if len(s.cursors) == 0 {
		return common.CursorDefault
	}
	return s.cursors[len(s.cursors)-1]
}

type fakeScheduler struct {
	cb      func(dt float32)
	cancels int
}

func (s *fakeScheduler) RequestFrames(cb func(dt float32)) func() {
	s.cb = cb
	return func() {
		s.cancels++
		s.cb = nil
	}
}

type fakeRenderer struct {
	renders  int
	resized  [2]int
	released int
}

func (r *fakeRenderer) Resize(w, h int) { r.resized = [2]int{w, h} }

func (r *fakeRenderer) Render(scene.Scene, camera.Camera) error {
	r.renders++
	return nil
}

func (r *fakeRenderer) Release() { r.released++ }

type selection struct {
	name     string
	position mgl32.Vec3
}

type recorder struct {
	changed  []selection
	cleared  int
	degraded []string
}

func (r *recorder) SelectionChanged(name string, p mgl32.Vec3) {
	r.changed = append(r.changed, selection{name, p})
}

func (r *recorder) SelectionCleared() { r.cleared++ }

func (r *recorder) AssetDegraded(asset string, _ error) { r.degraded = append(r.degraded, asset) }

func innerPlanets() *loader.SolarSystem {
	return &loader.SolarSystem{Planets: []loader.PlanetRecord{
		{Name: "Mercury", Radius: 0.38, OrbitPeriod: 88, DistanceFromSun: 5.8, Color: "#8c8c8c"},
		{Name: "Venus", Radius: 0.95, OrbitPeriod: 225, DistanceFromSun: 10.8, Color: "#e6c07b"},
	}}
}

type harness struct {
	c        Controller
	surface  *fakeSurface
	input    input.Dispatcher
	renderer *fakeRenderer
	events   *recorder
}

func newHarness(t *testing.T, options ...ControllerOption) *harness {
	t.Helper()
	return newHarnessWith(t, innerPlanets(), options...)
}

func newHarnessWith(t *testing.T, data *loader.SolarSystem, options ...ControllerOption) *harness {
	t.Helper()
	h := &harness{
		surface:  &fakeSurface{w: screenW, h: screenH},
		input:    input.NewDispatcher(),
		renderer: &fakeRenderer{},
		events:   &recorder{},
	}
	options = append([]ControllerOption{WithRenderer(h.renderer), WithObserver(h.events)}, options...)
	c, err := New(h.surface, h.input, data, options...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	h.c = c
	t.Cleanup(c.Destroy)
	return h
}

// screen projects a world position to pixel coordinates with the current camera.
func (h *harness) screen(p mgl32.Vec3) (float64, float64) {
	clip := h.c.Camera().ViewProjection().Mul4x1(p.Vec4(1))
	nx, ny := clip.X()/clip.W(), clip.Y()/clip.W()
	return float64((nx + 1) / 2 * screenW), float64((1 - ny) / 2 * screenH)
}

func (h *harness) click(p mgl32.Vec3) {
	x, y := h.screen(p)
	h.input.ButtonDown(input.ButtonLeft, x, y)
	h.input.ButtonUp(input.ButtonLeft, x, y)
}

func (h *harness) frames(n int, dt float32) {
	for range n {
		h.c.Frame(dt)
	}
}

func TestNewBuildsScene(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t)
	s := h.c.Scene()

	g.Expect(h.c.State()).To(Equal(StateIdle))
	g.Expect(s.ListBodies(scene.ByKind(body.KindSun))).To(HaveLen(1))
	g.Expect(s.ListBodies(scene.ByKind(body.KindPlanet))).To(HaveLen(2))
	g.Expect(s.BodyByName(loader.StarfieldName)).NotTo(BeNil())
	g.Expect(s.BodyByName(loader.StarfieldName).Material().BackSide()).To(BeTrue())

	mercury := s.BodyByName("Mercury")
	g.Expect(mercury.Distance()).To(BeNumerically("~", 58, 1e-4))
	g.Expect(mercury.Position().ApproxEqual(mgl32.Vec3{58, 0, 0})).To(BeTrue())
	g.Expect(h.input.Subscribers()).To(Equal(1))
	g.Expect(h.c.Camera().Aspect()).To(BeNumerically("~", float32(screenW)/screenH, 1e-5))
}

func TestNewRejectsBadData(t *testing.T) {
	g := NewWithT(t)
	surface := &fakeSurface{w: screenW, h: screenH}

	_, err := New(surface, input.NewDispatcher(), nil)
	g.Expect(err).To(HaveOccurred())

	bad := innerPlanets()
	bad.Planets[1].Name = "Mercury"
	_, err = New(surface, input.NewDispatcher(), bad)
	g.Expect(err).To(MatchError(loader.ErrInvalidRecord))
}

func TestOrbitsFollowSimulationClock(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t)

	for _, step := range []float32{10, 250, 1000} {
		h.c.Frame(step)
		now := h.c.SimulationTime()
		for _, p := range h.c.Scene().ListBodies(scene.ByKind(body.KindPlanet)) {
			g.Expect(p.Position().ApproxEqualThreshold(p.OrbitPosition(now), 1e-3)).To(BeTrue(), p.Name())
		}
	}
	g.Expect(h.c.SimulationTime()).To(BeNumerically("~", 126, 1e-3))
	g.Expect(h.c.Scene().BodyByName(loader.SunName).Position()).To(Equal(mgl32.Vec3{}))
	g.Expect(h.renderer.renders).To(Equal(3))
}

func TestPauseFreezesClock(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t)
	h.c.Frame(1)
	before := h.c.SimulationTime()

	h.c.Pause()
	h.frames(5, 1)
	g.Expect(h.c.SimulationTime()).To(Equal(before))

	h.c.Resume()
	h.c.Frame(1)
	g.Expect(h.c.SimulationTime()).To(BeNumerically(">", before))
}

func TestFocusAndUnfocusMercury(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t)
	h.c.Frame(0)

	mercury := h.c.Scene().BodyByName("Mercury")
	venus := h.c.Scene().BodyByName("Venus")
	start := mercury.Position()
	camStart := h.c.Camera().Position()

	h.click(start)
	g.Expect(h.c.State()).To(Equal(StateFocusing))
	g.Expect(h.c.Stage()).To(Equal(StageCameraFly))
	g.Expect(h.c.Selected()).To(BeIdenticalTo(mercury))
	g.Expect(h.c.Camera().Controller().Enabled()).To(BeFalse())

	h.click(venus.Position())
	g.Expect(h.c.Selected()).To(BeIdenticalTo(mercury))

	h.frames(8, 0.5)
	g.Expect(h.c.Stage()).To(Equal(StageBodyNudge))
	away := camStart.Sub(start).Normalize()
	vantage := start.Add(away.Mul(1.5 * mercury.Extent()))
	g.Expect(h.c.Camera().Position().ApproxEqualThreshold(vantage, 1e-3)).To(BeTrue())
	g.Expect(h.c.Camera().Controller().Target().ApproxEqualThreshold(start, 1e-3)).To(BeTrue())
	g.Expect(mercury.Position()).To(Equal(start))
	g.Expect(h.events.changed).To(BeEmpty())

	h.frames(4, 0.5)
	g.Expect(h.c.State()).To(Equal(StateFocused))
	g.Expect(h.c.Stage()).To(Equal(StageNone))
	nudged := mercury.Position()
	g.Expect(nudged.Sub(start).Len()).To(BeNumerically("~", 0.7*mercury.Extent(), 1e-3))
	g.Expect(nudged.Sub(start).Dot(vantage.Sub(start))).To(BeNumerically("~", 0, 1e-3))

	g.Expect(h.events.changed).To(HaveLen(1))
	g.Expect(h.events.changed[0].name).To(Equal("Mercury"))
	g.Expect(h.events.changed[0].position).To(Equal(nudged))

	spin := mercury.Rotation()
	venusBefore := venus.Position()
	h.frames(10, 0.5)
	g.Expect(mercury.Rotation()).To(BeNumerically(">", spin))
	g.Expect(mercury.Position()).To(Equal(nudged))
	g.Expect(venus.Position()).NotTo(Equal(venusBefore))
	g.Expect(h.events.changed).To(HaveLen(1))

	h.c.Unfocus()
	g.Expect(h.c.State()).To(Equal(StateIdle))
	g.Expect(h.c.Selected()).To(BeNil())
	g.Expect(h.events.cleared).To(Equal(1))
	g.Expect(h.c.Camera().Controller().Enabled()).To(BeTrue())
	g.Expect(h.c.Camera().Position().ApproxEqual(mgl32.Vec3{0, 20, 100})).To(BeTrue())
	g.Expect(mercury.Position().ApproxEqualThreshold(mercury.OrbitPosition(h.c.SimulationTime()), 1e-3)).To(BeTrue())

	h.c.Frame(0.5)
	h.click(mercury.Position())
	g.Expect(h.c.State()).To(Equal(StateFocusing))
}

func TestUnselectedBodyOrbitsThroughFocusStages(t *testing.T) {
	g := NewWithT(t)
	h := newHarnessWith(t, &loader.SolarSystem{Planets: []loader.PlanetRecord{
		{Name: "Mercury", Radius: 0.5, OrbitPeriod: 10, DistanceFromSun: 2, Color: "#8c8c8c"},
		{Name: "Venus", Radius: 0.8, OrbitPeriod: 20, DistanceFromSun: 3, Color: "#e6c07b"},
	}})
	h.c.Frame(0)

	mercury := h.c.Scene().BodyByName("Mercury")
	venus := h.c.Scene().BodyByName("Venus")
	h.click(mercury.Position())
	g.Expect(h.c.Selected()).To(BeIdenticalTo(mercury))

	// Venus sits at d = 3 scaled by 10 and period 20 for every frame of both stages.
	stages := map[Stage]int{}
	for range 12 {
		h.c.Frame(0.5)
		stages[h.c.Stage()]++
		now := h.c.SimulationTime()
		want := mgl32.Vec3{
			float32(30 * math.Cos(now/20)),
			0,
			float32(30 * math.Sin(now/20)),
		}
		g.Expect(venus.Position().ApproxEqualThreshold(want, 1e-4)).To(BeTrue(), "t=%v", now)
	}
	g.Expect(stages).To(HaveKey(StageCameraFly))
	g.Expect(stages).To(HaveKey(StageBodyNudge))
	g.Expect(h.c.State()).To(Equal(StateFocused))
	g.Expect(h.events.changed).To(HaveLen(1))
}

func TestUnfocusDuringFlyCancelsSequence(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t)
	h.c.Frame(0)

	h.click(h.c.Scene().BodyByName("Mercury").Position())
	h.frames(3, 0.5)
	h.c.Unfocus()
	h.frames(20, 0.5)

	g.Expect(h.c.State()).To(Equal(StateIdle))
	g.Expect(h.events.changed).To(BeEmpty())
	g.Expect(h.events.cleared).To(Equal(1))
	g.Expect(h.c.Camera().Position().ApproxEqual(mgl32.Vec3{0, 20, 100})).To(BeTrue())
}

func TestUnfocusWhenIdleIsNoop(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t)
	h.c.Unfocus()
	g.Expect(h.events.cleared).To(Equal(0))
}

func TestFlatNudgePolicy(t *testing.T) {
	g := NewWithT(t)
	cfg := config.DefaultConfig()
	cfg.Focus.NudgePolicy = config.NudgeFlat
	h := newHarness(t, WithConfig(cfg))
	h.c.Frame(0)

	mercury := h.c.Scene().BodyByName("Mercury")
	start := mercury.Position()
	h.click(start)
	h.frames(12, 0.5)

	g.Expect(h.c.State()).To(Equal(StateFocused))
	g.Expect(mercury.Position().Sub(start).Len()).To(BeNumerically("~", 1.5, 1e-3))
}

func TestMissDoesNotFocus(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t)
	h.c.Frame(0)

	h.input.ButtonDown(input.ButtonLeft, 5, 5)
	h.input.ButtonUp(input.ButtonLeft, 5, 5)
	g.Expect(h.c.State()).To(Equal(StateIdle))
}

func TestHoverCursor(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t)
	h.c.Frame(0)

	x, y := h.screen(h.c.Scene().BodyByName("Mercury").Position())
	h.input.Move(x, y)
	g.Expect(h.surface.last()).To(Equal(common.CursorPointer))

	h.input.Move(5, 5)
	g.Expect(h.surface.last()).To(Equal(common.CursorDefault))

	calls := len(h.surface.cursors)
	h.input.Move(6, 6)
	g.Expect(h.surface.cursors).To(HaveLen(calls))
}

func TestDragRotatesRig(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t)
	before := h.c.Camera().Position()

	h.input.ButtonDown(input.ButtonLeft, 100, 100)
	h.input.Move(200, 100)
	h.input.ButtonUp(input.ButtonLeft, 200, 100)
	h.c.Frame(0.016)

	g.Expect(h.c.State()).To(Equal(StateIdle))
	g.Expect(h.c.Camera().Position()).NotTo(Equal(before))
}

func TestToggleOrbitsIsIdempotent(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t)
	s := h.c.Scene()
	paths := func() []body.Body { return s.ListBodies(scene.ByKind(body.KindOrbitPath)) }

	g.Expect(paths()).To(BeEmpty())

	h.c.ToggleOrbits(true)
	h.c.ToggleOrbits(true)
	g.Expect(paths()).To(HaveLen(2))
	g.Expect(s.OrbitPath("Mercury").Name()).To(Equal("Mercury_orbit"))
	g.Expect(s.OrbitPath("Mercury").Visible()).To(BeTrue())
	g.Expect(len(s.OrbitPath("Venus").Mesh().Vertices())).To(Equal(129))

	h.c.ToggleOrbits(false)
	g.Expect(paths()).To(HaveLen(2))
	for _, p := range paths() {
		g.Expect(p.Visible()).To(BeFalse())
	}
	g.Expect(h.c.OrbitsVisible()).To(BeFalse())
}

func TestOrbitsHiddenWhileFocused(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t)
	h.c.Frame(0)
	h.c.ToggleOrbits(true)

	h.click(h.c.Scene().BodyByName("Mercury").Position())
	g.Expect(h.c.Scene().OrbitPath("Venus").Visible()).To(BeFalse())
	g.Expect(h.c.OrbitsVisible()).To(BeTrue())

	h.c.Unfocus()
	g.Expect(h.c.Scene().OrbitPath("Venus").Visible()).To(BeTrue())
}

func TestUpdateLight(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t)
	s := h.c.Scene()

	h.c.UpdateLight(true)
	g.Expect(s.PrimaryLight().Type()).To(Equal(light.LightTypeAmbient))
	g.Expect(h.c.AmbientLight()).To(BeTrue())

	h.c.UpdateLight(false)
	primary := s.PrimaryLight()
	g.Expect(primary.Type()).To(Equal(light.LightTypePoint))
	g.Expect(primary.Intensity()).To(BeNumerically("==", 200))
	g.Expect(primary.Range()).To(BeNumerically("==", 200))
	g.Expect(primary.CastsShadows()).To(BeTrue())
	g.Expect(primary.ShadowMapSize()).To(Equal(uint32(4096)))

	g.Expect(s.Lights()).To(HaveLen(2))
	g.Expect(s.FillLight().Type()).To(Equal(light.LightTypeAmbient))
	g.Expect(s.FillLight().Intensity()).To(BeNumerically("~", 0.1, 1e-6))
}

func TestUpdateLightUsesConfiguredColor(t *testing.T) {
	g := NewWithT(t)
	cfg := config.DefaultConfig()
	cfg.Lighting.Color = [3]float32{1, 0.9, 0.7}
	h := newHarness(t, WithConfig(cfg))

	h.c.UpdateLight(false)
	g.Expect(h.c.Scene().PrimaryLight().Color()).To(Equal([3]float32{1, 0.9, 0.7}))

	h.c.UpdateLight(true)
	g.Expect(h.c.Scene().PrimaryLight().Color()).To(Equal([3]float32{1, 0.9, 0.7}))
}

func TestResize(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t)

	h.input.Resize(800, 400)
	g.Expect(h.c.Camera().Aspect()).To(BeNumerically("~", 2, 1e-6))
	g.Expect(h.renderer.resized).To(Equal([2]int{800, 400}))

	h.input.Resize(0, 400)
	g.Expect(h.renderer.resized).To(Equal([2]int{800, 400}))
}

func TestAssetDegradedIsReported(t *testing.T) {
	g := NewWithT(t)
	assets := loader.NewLoader(loader.WithTextureDecoding(false)).Materials(innerPlanets())
	assets.Degraded = []loader.DegradedAsset{{Body: "Venus", Path: "venus.jpg", Err: errors.New("missing")}}

	h := newHarness(t, WithAssets(assets))
	g.Expect(h.events.degraded).To(Equal([]string{"Venus"}))
	g.Expect(h.c.Degraded()).To(HaveLen(1))
}

func TestStartStopAndDestroy(t *testing.T) {
	g := NewWithT(t)
	h := newHarness(t)
	sched := &fakeScheduler{}

	h.c.Start(sched)
	g.Expect(sched.cb).NotTo(BeNil())
	sched.cb(0.016)
	g.Expect(h.renderer.renders).To(Equal(1))

	h.c.Destroy()
	h.c.Destroy()
	g.Expect(sched.cancels).To(Equal(1))
	g.Expect(h.input.Subscribers()).To(Equal(0))
	g.Expect(h.renderer.released).To(Equal(1))
	g.Expect(h.c.Scene().Count()).To(Equal(0))

	h.c.Frame(0.016)
	g.Expect(h.renderer.renders).To(Equal(1))
}
