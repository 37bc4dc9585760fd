package body

import (
	"github.com/Carmen-Shannon/oxy-orrery/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// BodyBuilderOption is a functional option for configuring a Body during construction.
type BodyBuilderOption func(*bodyImpl)

// WithRadius sets the visual radius and uniform scale of the body.
//
// Parameters:
//   - radius: the radius
//
// Returns:
//   - BodyBuilderOption: functional option to set the radius
func WithRadius(radius float32) BodyBuilderOption {
	return func(b *bodyImpl) {
		b.radius = radius
	}
}

// WithOrbit sets the orbital period and scaled distance from the sun.
//
// Parameters:
//   - period: the orbital period
//   - distance: the orbit radius
//
// Returns:
//   - BodyBuilderOption: functional option to set the orbit parameters
func WithOrbit(period, distance float32) BodyBuilderOption {
	return func(b *bodyImpl) {
		b.orbitPeriod = period
		b.distance = distance
	}
}

// WithMaterial sets the surface material.
//
// Parameters:
//   - m: the material
//
// Returns:
//   - BodyBuilderOption: functional option to set the material
func WithMaterial(m model.Material) BodyBuilderOption {
	return func(b *bodyImpl) {
		if m != nil {
			b.material = m
		}
	}
}

// WithMesh overrides the default mesh for the body kind.
//
// Parameters:
//   - m: the unit mesh
//
// Returns:
//   - BodyBuilderOption: functional option to set the mesh
func WithMesh(m model.Mesh) BodyBuilderOption {
	return func(b *bodyImpl) {
		b.mesh = m
	}
}

// WithPosition sets the initial world position.
//
// Parameters:
//   - p: the position
//
// Returns:
//   - BodyBuilderOption: functional option to set the position
func WithPosition(p mgl32.Vec3) BodyBuilderOption {
	return func(b *bodyImpl) {
		b.position = p
	}
}

// WithVisible sets whether the body starts visible.
//
// Parameters:
//   - visible: true to draw the body
//
// Returns:
//   - BodyBuilderOption: functional option to set the visibility
func WithVisible(visible bool) BodyBuilderOption {
	return func(b *bodyImpl) {
		b.visible = visible
	}
}

// WithParent records the body an orbit path traces.
//
// Parameters:
//   - name: the parent body name
//
// Returns:
//   - BodyBuilderOption: functional option to set the parent
func WithParent(name string) BodyBuilderOption {
	return func(b *bodyImpl) {
		b.parent = name
	}
}
