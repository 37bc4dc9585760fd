package model

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-orrery/common"
	"github.com/lucasb-eyer/go-colorful"
)

// FallbackColor is the flat colour used when a body has neither a usable texture nor a colour.
const FallbackColor = "#808080"

// material is the implementation of the Material interface.
type material struct {
	color    [3]float32
	texture  *common.TextureStagingData
	unlit    bool
	opacity  float32
	backSide bool
	degraded bool
}

// Material describes how a body's surface is shaded.
//
// A material is either textured (the texture is sampled and multiplied by the colour) or flat
// (a 1x1 texture of the colour is bound instead). Materials are immutable once built.
type Material interface {
	// Color returns the linear RGB tint.
	//
	// Returns:
	//   - [3]float32: the tint as (r, g, b)
	Color() [3]float32

	// Texture returns the decoded texture, or nil for flat materials.
	//
	// Returns:
	//   - *common.TextureStagingData: the texture or nil
	Texture() *common.TextureStagingData

	// Unlit reports whether lighting is skipped when shading.
	//
	// Returns:
	//   - bool: true for self-illuminated surfaces such as the sun
	Unlit() bool

	// Opacity returns the surface opacity in [0, 1].
	//
	// Returns:
	//   - float32: the opacity
	Opacity() float32

	// BackSide reports whether only the inside faces are drawn.
	//
	// Returns:
	//   - bool: true for enclosing backdrops
	BackSide() bool

	// Degraded reports whether this material replaced a texture that failed to load.
	//
	// Returns:
	//   - bool: true if the material is a fallback
	Degraded() bool
}

var _ Material = &material{}

// NewMaterial creates a white, lit, opaque, front-facing material and applies the options.
//
// Parameters:
//   - options: functional options to configure the material
//
// Returns:
//   - Material: the new material
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		color:   [3]float32{1, 1, 1},
		opacity: 1,
	}
	for _, option := range options {
		option(m)
	}
	return m
}

// ParseColor converts a hex colour string ("#ffcc00" or "ffcc00") to linear RGB.
//
// Parameters:
//   - hex: the colour in hex notation
//
// Returns:
//   - [3]float32: the linear RGB colour
//   - error: error if the string is not a valid hex colour
func ParseColor(hex string) ([3]float32, error) {
	if hex != "" && hex[0] != '#' {
		hex = "#" + hex
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return [3]float32{}, fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	r, g, b := c.LinearRgb()
	return [3]float32{float32(r), float32(g), float32(b)}, nil
}

func (m *material) Color() [3]float32 {
	return m.color
}

func (m *material) Texture() *common.TextureStagingData {
	return m.texture
}

func (m *material) Unlit() bool {
	return m.unlit
}

func (m *material) Opacity() float32 {
	return m.opacity
}

func (m *material) BackSide() bool {
	return m.backSide
}

func (m *material) Degraded() bool {
	return m.degraded
}
