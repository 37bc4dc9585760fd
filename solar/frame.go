package solar

import (
	"log"

	"github.com/Carmen-Shannon/oxy-orrery/engine/body"
	"github.com/Carmen-Shannon/oxy-orrery/engine/light"
	"github.com/Carmen-Shannon/oxy-orrery/engine/scene"
)

func (c *controller) Frame(dt float32) {
	if c.destroyed.Load() {
		return
	}

	c.mu.Lock()
	if !c.paused {
		c.simTime += float64(dt) * c.cfg.Simulation.TimeScale
	}
	t := c.simTime
	selected := c.selected
	spin := c.state == StateFocused && selected != nil
	c.mu.Unlock()

	for _, p := range c.scene.ListBodies(scene.ByKind(body.KindPlanet)) {
		if p == selected {
			continue
		}
		p.SetPosition(p.OrbitPosition(t))
	}
	if spin {
		selected.SetRotation(selected.Rotation() + c.cfg.Simulation.SelfRotation*dt)
	}

	c.tweens.Advance(dt)
	c.rig.Update()
	c.cam.Update()

	if c.renderer != nil {
		if err := c.renderer.Render(c.scene, c.cam); err != nil {
			log.Printf("[Solar] render failed: %v", err)
		}
	}
}

func (c *controller) UpdateLight(useAmbient bool) {
	lc := c.cfg.Lighting
	var primary light.Light
	if useAmbient {
		primary = light.NewLight(light.LightTypeAmbient,
			light.WithColor(lc.Color[0], lc.Color[1], lc.Color[2]),
			light.WithIntensity(lc.AmbientIntensity),
		)
	} else {
		primary = light.NewLight(light.LightTypePoint,
			light.WithPosition(0, 0, 0),
			light.WithColor(lc.Color[0], lc.Color[1], lc.Color[2]),
			light.WithIntensity(lc.PointIntensity),
			light.WithRange(lc.PointRange),
			light.WithCastsShadows(true, lc.ShadowMapSize),
		)
	}
	c.scene.SetPrimaryLight(primary)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.ambient = useAmbient
}

func (c *controller) ToggleOrbits(show bool) {
	c.mu.Lock()
	c.orbitsWanted = show
	idle := c.state == StateIdle
	c.mu.Unlock()

	if show {
		for _, p := range c.scene.ListBodies(scene.ByKind(body.KindPlanet)) {
			c.scene.EnsureOrbitPath(p, c.cfg.Simulation.OrbitSegments)
		}
	}
	c.showOrbitPaths(show && idle)
}

// showOrbitPaths sets the visibility of every existing orbit path.
func (c *controller) showOrbitPaths(visible bool) {
	for _, path := range c.scene.ListBodies(scene.ByKind(body.KindOrbitPath)) {
		path.SetVisible(visible)
	}
}
