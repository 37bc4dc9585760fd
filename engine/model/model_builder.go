package model

import "github.com/Carmen-Shannon/oxy-orrery/common"

// MaterialBuilderOption is a functional option for configuring a Material via NewMaterial.
type MaterialBuilderOption func(*material)

// WithColor sets the linear RGB tint of the material.
//
// Parameters:
//   - color: the tint as (r, g, b)
//
// Returns:
//   - MaterialBuilderOption: a function that applies the colour option to a material
func WithColor(color [3]float32) MaterialBuilderOption {
	return func(m *material) {
		m.color = color
	}
}

// WithTexture sets the decoded texture sampled by the material.
//
// Parameters:
//   - tex: the RGBA texture data
//
// Returns:
//   - MaterialBuilderOption: a function that applies the texture option to a material
func WithTexture(tex *common.TextureStagingData) MaterialBuilderOption {
	return func(m *material) {
		m.texture = tex
	}
}

// WithUnlit skips lighting for the material.
//
// Parameters:
//   - unlit: true to render at full colour regardless of lights
//
// Returns:
//   - MaterialBuilderOption: a function that applies the unlit option to a material
func WithUnlit(unlit bool) MaterialBuilderOption {
	return func(m *material) {
		m.unlit = unlit
	}
}

// WithOpacity sets the material opacity. Values are clamped to [0, 1].
//
// Parameters:
//   - opacity: the opacity
//
// Returns:
//   - MaterialBuilderOption: a function that applies the opacity option to a material
func WithOpacity(opacity float32) MaterialBuilderOption {
	return func(m *material) {
		m.opacity = min(max(opacity, 0), 1)
	}
}

// WithBackSide draws only the inside faces of the mesh.
//
// Parameters:
//   - backSide: true for enclosing backdrops
//
// Returns:
//   - MaterialBuilderOption: a function that applies the side option to a material
func WithBackSide(backSide bool) MaterialBuilderOption {
	return func(m *material) {
		m.backSide = backSide
	}
}

// WithDegraded marks the material as a fallback for a texture that failed to load.
//
// Parameters:
//   - degraded: true if the material replaces a missing texture
//
// Returns:
//   - MaterialBuilderOption: a function that applies the degraded flag to a material
func WithDegraded(degraded bool) MaterialBuilderOption {
	return func(m *material) {
		m.degraded = degraded
	}
}
