package solar

import (
	"log"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-orrery/common"
	"github.com/Carmen-Shannon/oxy-orrery/engine/body"
	"github.com/Carmen-Shannon/oxy-orrery/engine/camera"
	"github.com/Carmen-Shannon/oxy-orrery/engine/tween"
	"github.com/go-gl/mathgl/mgl32"
)

// rigTarget exposes the rig position to the tween sequencer.
type rigTarget struct {
	rig  camera.CameraController
	gone *atomic.Bool
}

func (r *rigTarget) Position() mgl32.Vec3 {
	return r.rig.Position()
}

func (r *rigTarget) SetPosition(p mgl32.Vec3) {
	r.rig.SetPosition(p)
}

func (r *rigTarget) Disposed() bool {
	return r.gone.Load()
}

// focus starts the two-stage focus animation on b. Ignored unless idle.
func (c *controller) focus(b body.Body) {
	c.mu.Lock()
	if c.state != StateIdle || c.destroyed.Load() {
		c.mu.Unlock()
		return
	}
	c.state = StateFocusing
	c.stage = StageCameraFly
	c.selected = b
	c.cursor = common.CursorDefault
	c.mu.Unlock()

	c.rig.SetEnabled(false)
	c.showOrbitPaths(false)
	c.surface.SetCursor(common.CursorDefault)

	target := b.Position()
	from := c.rig.Position()
	away := common.SafeNormalize(from.Sub(target), mgl32.Vec3{0, 0, 1})
	vantage := target.Add(away.Mul(c.cfg.Focus.VantageFactor * b.Extent()))

	log.Printf("[Solar] focusing %s", b.Name())
	handle := c.tweens.Start(c.rigPose, from, vantage, c.cfg.Focus.FlyDuration,
		tween.WithName(StageCameraFly.String()),
		tween.WithOnUpdate(func(mgl32.Vec3) {
			c.rig.LookAt(b.Position())
		}),
		tween.WithOnComplete(func() {
			c.nudgeBody(b)
		}),
	)

	c.mu.Lock()
	c.fly = handle
	c.mu.Unlock()
}

// nudgeBody pushes the selected body sideways along the camera's right axis.
func (c *controller) nudgeBody(b body.Body) {
	c.mu.Lock()
	if c.state != StateFocusing || c.selected != b {
		c.mu.Unlock()
		return
	}
	c.stage = StageBodyNudge
	c.mu.Unlock()

	from := b.Position()
	to := from.Add(c.rig.Right().Mul(c.cfg.NudgeDistance(b.Extent())))
	handle := c.tweens.Start(b, from, to, c.cfg.Focus.NudgeDuration,
		tween.WithName(StageBodyNudge.String()),
		tween.WithOnComplete(func() {
			c.completeFocus(b)
		}),
	)

	c.mu.Lock()
	c.nudge = handle
	c.mu.Unlock()
}

func (c *controller) completeFocus(b body.Body) {
	c.mu.Lock()
	if c.state != StateFocusing || c.selected != b {
		c.mu.Unlock()
		return
	}
	c.state = StateFocused
	c.stage = StageNone
	c.mu.Unlock()

	c.observers.SelectionChanged(b.Name(), b.Position())
}

func (c *controller) Unfocus() {
	c.mu.Lock()
	if c.state == StateIdle {
		c.mu.Unlock()
		return
	}
	selected := c.selected
	fly, nudge := c.fly, c.nudge
	c.state = StateIdle
	c.stage = StageNone
	c.selected = nil
	c.fly, c.nudge = 0, 0
	showOrbits := c.orbitsWanted
	t := c.simTime
	c.mu.Unlock()

	c.tweens.Cancel(fly)
	c.tweens.Cancel(nudge)
	c.rig.Reset()
	c.rig.SetEnabled(true)
	c.cam.Update()
	c.showOrbitPaths(showOrbits)
	if selected != nil {
		selected.SetPosition(selected.OrbitPosition(t))
		log.Printf("[Solar] released %s", selected.Name())
	}

	c.observers.SelectionCleared()
}
