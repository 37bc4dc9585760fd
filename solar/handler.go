package solar

import (
	"github.com/Carmen-Shannon/oxy-orrery/engine/input"
	"github.com/Carmen-Shannon/oxy-orrery/engine/picking"
)

func (c *controller) idle() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state == StateIdle && !c.destroyed.Load()
}

func (c *controller) PointerMove(x, y float64) {
	if !c.idle() {
		return
	}
	w, h := c.surface.Size()
	_, cursor := c.picker.Hover(picking.NDC(x, y, w, h))

	c.mu.Lock()
	changed := cursor != c.cursor
	c.cursor = cursor
	c.mu.Unlock()
	if changed {
		c.surface.SetCursor(cursor)
	}
}

func (c *controller) Click(x, y float64) {
	if !c.idle() {
		return
	}
	w, h := c.surface.Size()
	if b := c.picker.Pick(picking.NDC(x, y, w, h)); b != nil {
		c.focus(b)
	}
}

func (c *controller) Drag(button input.Button, dx, dy float64) {
	switch button {
	case input.ButtonLeft:
		c.rig.Rotate(float32(dx), float32(dy))
	case input.ButtonRight:
		c.rig.Pan(float32(dx), float32(dy))
	}
}

func (c *controller) Scroll(delta float64) {
	c.rig.Zoom(float32(delta))
}

func (c *controller) Resize(width, height int) {
	if width <= 0 || height <= 0 || c.destroyed.Load() {
		return
	}
	c.cam.SetAspect(float32(width) / float32(height))
	if c.renderer != nil {
		c.renderer.Resize(width, height)
	}
}
