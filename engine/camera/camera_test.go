package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/gomega"
)

var (
	defaultPosition = mgl32.Vec3{0, 20, 100}
	origin          = mgl32.Vec3{}
)

func TestControllerDefaults(t *testing.T) {
	g := NewWithT(t)
	cc := NewCameraController()

	g.Expect(cc.Position()).To(Equal(defaultPosition))
	g.Expect(cc.Target()).To(Equal(origin))
	g.Expect(cc.Damping()).To(BeNumerically("~", 0.5, 1e-6))
	g.Expect(cc.ZoomEnabled()).To(BeTrue())
	g.Expect(cc.Enabled()).To(BeTrue())
}

func TestResetRestoresDefaultPose(t *testing.T) {
	tests := []struct {
		name  string
		setup func(cc CameraController)
	}{
		{"after rotate", func(cc CameraController) {
			cc.Rotate(300, -120)
			for range 10 {
				cc.Update()
			}
		}},
		{"after programmatic move", func(cc CameraController) {
			cc.SetPosition(mgl32.Vec3{3, 4, 5})
			cc.LookAt(mgl32.Vec3{20, 0, 0})
		}},
		{"with pending input", func(cc CameraController) {
			cc.Rotate(50, 50)
			cc.Pan(10, 10)
		}},
		{"while disabled", func(cc CameraController) {
			cc.SetEnabled(false)
			cc.SetTarget(mgl32.Vec3{1, 1, 1})
		}},
		{"twice", func(cc CameraController) {
			cc.Zoom(4)
			cc.Reset()
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cc := NewCameraController()
			tt.setup(cc)
			cc.Reset()
			if cc.Position() != defaultPosition || cc.Target() != origin {
				t.Fatalf("expected default pose, got position %v target %v", cc.Position(), cc.Target())
			}
			// No pending input may survive a reset.
			cc.Update()
			if cc.Position() != defaultPosition {
				t.Fatalf("expected pose to stay put after reset, got %v", cc.Position())
			}
		})
	}
}

func TestRotateIsDamped(t *testing.T) {
	g := NewWithT(t)
	cc := NewCameraController(WithMouseSensitivity(0.01))
	start := cc.Position()

	cc.Rotate(-100, 0)
	cc.Update()
	first := cc.Position()
	cc.Update()
	second := cc.Position()

	g.Expect(first).NotTo(Equal(start))
	// The second step applies half of what remained, so it is half as large as the first.
	firstStep := first.Sub(start).Len()
	secondStep := second.Sub(first).Len()
	g.Expect(secondStep).To(BeNumerically("<", firstStep))
	g.Expect(cc.Radius()).To(BeNumerically("~", start.Len(), 1e-3))
}

func TestDisabledRigIgnoresInput(t *testing.T) {
	g := NewWithT(t)
	cc := NewCameraController()

	cc.Rotate(100, 100)
	cc.SetEnabled(false)
	cc.Update()
	g.Expect(cc.Position()).To(Equal(defaultPosition))

	cc.Rotate(100, 100)
	cc.Zoom(5)
	cc.Update()
	g.Expect(cc.Position()).To(Equal(defaultPosition))
}

func TestZoomDisabled(t *testing.T) {
	g := NewWithT(t)
	cc := NewCameraController(WithZoomEnabled(false))

	cc.Zoom(10)
	g.Expect(cc.Position()).To(Equal(defaultPosition))

	cc.SetZoomEnabled(true)
	cc.Zoom(10)
	g.Expect(cc.Radius()).To(BeNumerically("<", defaultPosition.Len()))
}

func TestSetTargetKeepsPosition(t *testing.T) {
	g := NewWithT(t)
	cc := NewCameraController()

	cc.SetTarget(mgl32.Vec3{20, 0, 0})
	g.Expect(cc.Position().ApproxEqual(defaultPosition)).To(BeTrue())
	g.Expect(cc.Target()).To(Equal(mgl32.Vec3{20, 0, 0}))
}

func TestRightAxis(t *testing.T) {
	g := NewWithT(t)

	cc := NewCameraController()
	g.Expect(cc.Right().ApproxEqual(mgl32.Vec3{1, 0, 0})).To(BeTrue())

	side := NewCameraController(WithPosition(mgl32.Vec3{50, 0, 0}))
	g.Expect(side.Right().ApproxEqual(mgl32.Vec3{0, 0, -1})).To(BeTrue())

	above := NewCameraController(WithPosition(mgl32.Vec3{0, 50, 0}))
	g.Expect(above.Right()).To(Equal(mgl32.Vec3{1, 0, 0}))
}

func TestCameraMatrices(t *testing.T) {
	g := NewWithT(t)
	cam := NewCamera(WithAspect(2), WithController(NewCameraController()))

	g.Expect(cam.Fov()).To(BeNumerically("~", mgl32.DegToRad(60), 1e-6))
	g.Expect(cam.Near()).To(BeNumerically("~", 0.1, 1e-6))
	g.Expect(cam.Far()).To(BeNumerically("~", 1000, 1e-3))

	// The target projects to the centre of the screen.
	clip := cam.ViewProjection().Mul4x1(mgl32.Vec4{0, 0, 0, 1})
	g.Expect(clip.X() / clip.W()).To(BeNumerically("~", 0, 1e-5))
	g.Expect(clip.Y() / clip.W()).To(BeNumerically("~", 0, 1e-5))

	identity := cam.ViewProjection().Mul4(cam.InverseViewProjection())
	g.Expect(identity.ApproxEqualThreshold(mgl32.Ident4(), 1e-2)).To(BeTrue())

	cam.SetAspect(0)
	g.Expect(cam.Aspect()).To(BeNumerically("~", 2, 1e-6))
}
