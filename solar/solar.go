// Package solar implements the interactive solar-system controller. It owns the scene, the
// orbit camera rig, picking and the focus animation, and drives them once per frame.
package solar

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-orrery/common"
	"github.com/Carmen-Shannon/oxy-orrery/config"
	"github.com/Carmen-Shannon/oxy-orrery/engine/body"
	"github.com/Carmen-Shannon/oxy-orrery/engine/camera"
	"github.com/Carmen-Shannon/oxy-orrery/engine/input"
	"github.com/Carmen-Shannon/oxy-orrery/engine/loader"
	"github.com/Carmen-Shannon/oxy-orrery/engine/model"
	"github.com/Carmen-Shannon/oxy-orrery/engine/picking"
	"github.com/Carmen-Shannon/oxy-orrery/engine/scene"
	"github.com/Carmen-Shannon/oxy-orrery/engine/tween"
	"github.com/go-gl/mathgl/mgl32"
)

// State is the selection state of the controller.
type State int

const (
	// StateIdle is free orbit with picking enabled.
	StateIdle State = iota

	// StateFocusing runs the focus animation. Picks are dropped.
	StateFocusing

	// StateFocused holds the selected body in place, spinning, until Unfocus.
	StateFocused
)

func (s State) String() string {
	switch s {
	case StateFocusing:
		return "focusing"
	case StateFocused:
		return "focused"
	default:
		return "idle"
	}
}

// Stage names the running step of a focus animation.
type Stage int

const (
	StageNone Stage = iota
	StageCameraFly
	StageBodyNudge
)

func (s Stage) String() string {
	switch s {
	case StageCameraFly:
		return "camera-fly"
	case StageBodyNudge:
		return "body-nudge"
	default:
		return "none"
	}
}

// Surface is the output the scene is drawn to.
type Surface interface {
	// Size returns the framebuffer size in pixels.
	Size() (width, height int)

	// SetCursor changes the pointer shown over the surface.
	SetCursor(c common.Cursor)
}

// Scheduler calls back once per frame with the frame's delta in seconds.
type Scheduler interface {
	// RequestFrames registers cb for every subsequent frame.
	//
	// Parameters:
	//   - cb: the frame callback
	//
	// Returns:
	//   - func(): stops the callbacks. Safe to call more than once.
	RequestFrames(cb func(dt float32)) func()
}

// Renderer draws a scene from a camera.
type Renderer interface {
	// Resize reconfigures the output for a new framebuffer size.
	Resize(width, height int)

	// Render draws one frame.
	Render(s scene.Scene, cam camera.Camera) error

	// Release frees every GPU resource held by the renderer.
	Release()
}

type controller struct {
	mu *sync.Mutex

	cfg      *config.Config
	surface  Surface
	renderer Renderer

	scene   scene.Scene
	cam     camera.Camera
	rig     camera.CameraController
	picker  picking.Picker
	tweens  tween.Sequencer
	rigPose *rigTarget

	observers *observers
	degraded  []loader.DegradedAsset
	assets    *loader.Assets

	state    State
	stage    Stage
	selected body.Body
	fly      tween.Handle
	nudge    tween.Handle

	simTime      float64
	paused       bool
	ambient      bool
	orbitsWanted bool
	cursor       common.Cursor

	unsubscribe  func()
	cancelFrames func()
	destroyed    atomic.Bool
	destroyOnce  sync.Once
}

// Controller defines the public-facing interface of the solar-system controller.
//
// The controller is itself an input.Handler and subscribes to the input source it is given.
// All methods are meant to be called from the frame thread. Commands from other goroutines
// should be posted to the frame loop first.
type Controller interface {
	input.Handler

	// State returns the selection state.
	//
	// Returns:
	//   - State: idle, focusing or focused
	State() State

	// Stage returns the running focus stage, or StageNone outside StateFocusing.
	//
	// Returns:
	//   - Stage: the focus stage
	Stage() Stage

	// Selected returns the selected body, or nil in StateIdle.
	//
	// Returns:
	//   - body.Body: the selected body
	Selected() body.Body

	// SimulationTime returns the orbit clock in simulation units.
	//
	// Returns:
	//   - float64: the simulation time
	SimulationTime() float64

	// OrbitsVisible reports the orbit overlay toggle. Paths stay hidden while focusing even
	// when the toggle is on.
	//
	// Returns:
	//   - bool: the toggle state
	OrbitsVisible() bool

	// AmbientLight reports whether the primary light is the ambient kind.
	//
	// Returns:
	//   - bool: true for ambient, false for the point light
	AmbientLight() bool

	// Paused reports whether the simulation clock is frozen.
	//
	// Returns:
	//   - bool: true if paused
	Paused() bool

	// Scene returns the scene the controller owns.
	//
	// Returns:
	//   - scene.Scene: the scene
	Scene() scene.Scene

	// Camera returns the camera driven by the orbit rig.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Degraded returns the textures that fell back to flat colours when the scene was built.
	//
	// Returns:
	//   - []loader.DegradedAsset: the degraded assets
	Degraded() []loader.DegradedAsset

	// Frame advances the scene by one frame: the simulation clock, orbits, the selected body's
	// spin, tweens, the rig and the camera, then renders if a renderer is attached.
	//
	// Parameters:
	//   - dt: elapsed seconds since the last frame
	Frame(dt float32)

	// Start subscribes Frame to a scheduler. A previous subscription is cancelled first.
	//
	// Parameters:
	//   - s: the frame scheduler
	Start(s Scheduler)

	// Stop cancels the frame subscription.
	Stop()

	// Pause freezes the simulation clock. Tweens and the rig keep running.
	Pause()

	// Resume restarts the simulation clock.
	Resume()

	// UpdateLight replaces the primary light. The ambient fill is untouched.
	//
	// Parameters:
	//   - useAmbient: true for a soft ambient light, false for the shadow-casting point light at the sun
	UpdateLight(useAmbient bool)

	// ToggleOrbits shows or hides the orbit path of every planet, creating missing paths on
	// first show. Calling it twice with the same value changes nothing.
	//
	// Parameters:
	//   - show: the requested visibility
	ToggleOrbits(show bool)

	// Unfocus cancels any focus animation and returns to free orbit. No-op in StateIdle.
	Unfocus()

	// Subscribe registers an observer for selection and asset events.
	//
	// Parameters:
	//   - o: the observer
	//
	// Returns:
	//   - func(): removes the observer. Safe to call more than once.
	Subscribe(o Observer) func()

	// Destroy releases everything in reverse order of acquisition: the frame subscription, the
	// input subscription, tweens, the renderer and the scene. Safe to call more than once.
	Destroy()
}

var _ Controller = &controller{}

// New builds the scene from validated planet data and subscribes the controller to in.
//
// Parameters:
//   - surface: the output surface for size and cursor changes
//   - in: the pointer and resize event source
//   - data: the planet data
//   - options: functional options to configure the controller
//
// Returns:
//   - Controller: the controller, idle and not yet receiving frames
//   - error: error if data is missing or invalid
func New(surface Surface, in input.Source, data *loader.SolarSystem, options ...ControllerOption) (Controller, error) {
	if surface == nil || in == nil {
		panic("solar: New requires a surface and an input source")
	}
	if data == nil {
		return nil, errors.New("solar: no planet data")
	}
	if err := data.Validate(); err != nil {
		return nil, fmt.Errorf("solar: %w", err)
	}

	c := &controller{
		mu:        &sync.Mutex{},
		cfg:       config.DefaultConfig(),
		surface:   surface,
		observers: newObservers(),
		tweens:    tween.NewSequencer(),
	}
	for _, option := range options {
		option(c)
	}
	if err := c.cfg.Validate(); err != nil {
		return nil, fmt.Errorf("solar: %w", err)
	}

	assets := c.assets
	if assets == nil {
		flat := loader.NewLoader(loader.WithTextureDecoding(false), loader.WithSunColor(c.cfg.Assets.SunColor)).Materials(data)
		assets = &flat
	}
	c.degraded = assets.Degraded

	camCfg := c.cfg.Camera
	c.rig = camera.NewCameraController(
		camera.WithPosition(mgl32.Vec3(camCfg.Position)),
		camera.WithTarget(mgl32.Vec3(camCfg.Target)),
		camera.WithDamping(camCfg.Damping),
		camera.WithZoomEnabled(camCfg.ZoomEnabled),
		camera.WithRadiusLimits(camCfg.MinRadius, camCfg.MaxRadius),
	)
	w, h := surface.Size()
	aspect := float32(1)
	if w > 0 && h > 0 {
		aspect = float32(w) / float32(h)
	}
	c.cam = camera.NewCamera(
		camera.WithFov(mgl32.DegToRad(camCfg.Fov)),
		camera.WithClip(camCfg.Near, camCfg.Far),
		camera.WithAspect(aspect),
		camera.WithController(c.rig),
	)
	c.rigPose = &rigTarget{rig: c.rig, gone: &c.destroyed}

	c.scene = scene.NewScene("solar-system", scene.WithBodies(c.buildBodies(data, assets)...))
	c.scene.FillLight().SetIntensity(c.cfg.Lighting.FillIntensity)
	c.picker = picking.NewPicker(c.cam, c.scene)
	c.UpdateLight(c.cfg.Lighting.StartAmbient)
	if c.cfg.Simulation.ShowOrbits {
		c.ToggleOrbits(true)
	}

	for _, d := range c.degraded {
		c.observers.AssetDegraded(d.Body, d.Err)
	}

	c.unsubscribe = in.Subscribe(c)
	return c, nil
}

// buildBodies creates the sun, the starfield backdrop and one body per planet record.
func (c *controller) buildBodies(data *loader.SolarSystem, assets *loader.Assets) []body.Body {
	fallback := func(m model.Material) model.Material {
		if m != nil {
			return m
		}
		color, _ := model.ParseColor(model.FallbackColor)
		return model.NewMaterial(model.WithColor(color))
	}

	bodies := make([]body.Body, 0, len(data.Planets)+2)
	bodies = append(bodies,
		body.NewBody(loader.SunName, body.KindSun,
			body.WithRadius(1),
			body.WithMaterial(fallback(assets.Sun)),
		),
		body.NewBody(loader.StarfieldName, body.KindStarfield,
			body.WithRadius(c.cfg.Simulation.StarfieldSize/2),
			body.WithMaterial(fallback(assets.Starfield)),
		),
	)

	for _, rec := range data.Planets {
		p := body.NewBody(rec.Name, body.KindPlanet,
			body.WithRadius(rec.Radius),
			body.WithOrbit(rec.OrbitPeriod, rec.DistanceFromSun*c.cfg.Simulation.DistanceScale),
			body.WithMaterial(fallback(assets.Planets[rec.Name])),
		)
		p.SetPosition(p.OrbitPosition(0))
		bodies = append(bodies, p)
	}
	return bodies
}

func (c *controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *controller) Stage() Stage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stage
}

func (c *controller) Selected() body.Body {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selected
}

func (c *controller) SimulationTime() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.simTime
}

func (c *controller) OrbitsVisible() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.orbitsWanted
}

func (c *controller) AmbientLight() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ambient
}

func (c *controller) Paused() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.paused
}

func (c *controller) Scene() scene.Scene {
	return c.scene
}

func (c *controller) Camera() camera.Camera {
	return c.cam
}

func (c *controller) Degraded() []loader.DegradedAsset {
	return c.degraded
}

func (c *controller) Subscribe(o Observer) func() {
	return c.observers.add(o)
}

func (c *controller) Start(s Scheduler) {
	if c.destroyed.Load() {
		return
	}
	c.Stop()
	cancel := s.RequestFrames(c.Frame)
	c.mu.Lock()
	c.cancelFrames = cancel
	c.mu.Unlock()
}

func (c *controller) Stop() {
	c.mu.Lock()
	cancel := c.cancelFrames
	c.cancelFrames = nil
	c.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

func (c *controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = true
}

func (c *controller) Resume() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.paused = false
}

func (c *controller) Destroy() {
	c.destroyOnce.Do(func() {
		c.destroyed.Store(true)
		c.Stop()
		if c.unsubscribe != nil {
			c.unsubscribe()
		}
		c.tweens.CancelAll()
		if c.renderer != nil {
			c.renderer.Release()
		}
		c.scene.Clear()
		c.observers.clear()
		log.Printf("[Solar] controller destroyed")
	})
}
