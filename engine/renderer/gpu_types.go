package renderer

import (
	_ "embed"
	"encoding/binary"
	"math"
	"sort"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-orrery/engine/body"
	"github.com/Carmen-Shannon/oxy-orrery/engine/camera"
	"github.com/Carmen-Shannon/oxy-orrery/engine/light"
	"github.com/Carmen-Shannon/oxy-orrery/engine/model"
	"github.com/Carmen-Shannon/oxy-orrery/engine/scene"
)

// SolarShaderSource is the WGSL module shared by every pipeline. It declares the Frame and Body
// uniforms matching GPUFrameUniforms and GPUBodyUniforms.
//
//go:embed assets/solar.wgsl
var SolarShaderSource string

// PointLightDecay is the distance exponent applied to point lights, matching inverse-square falloff.
const PointLightDecay = 2

// GPUFrameUniforms is the per-frame uniform shared by every draw.
// Size: 144 bytes (one mat4x4 and five vec4, std140 aligned).
type GPUFrameUniforms struct {
	ViewProj   [16]float32 // offset 0: column-major view-projection (64 bytes)
	CameraPos  [4]float32  // offset 64: eye position, w unused
	LightPos   [4]float32  // offset 80: point light position, w = range
	LightColor [4]float32  // offset 96: colour * intensity, w = 1 when the point light is on
	Ambient    [4]float32  // offset 112: summed ambient colour
	Params     [4]float32  // offset 128: x = decay exponent
}

// Size returns the size of the GPUFrameUniforms struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes
func (g *GPUFrameUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniforms into a little-endian byte buffer for GPU upload.
//
// Returns:
//   - []byte: 144-byte buffer ready for GPU upload
func (g *GPUFrameUniforms) Marshal() []byte {
	buf := make([]byte, 0, 144)
	buf = putFloats(buf, g.ViewProj[:])
	buf = putFloats(buf, g.CameraPos[:])
	buf = putFloats(buf, g.LightPos[:])
	buf = putFloats(buf, g.LightColor[:])
	buf = putFloats(buf, g.Ambient[:])
	buf = putFloats(buf, g.Params[:])
	return buf
}

// GPUBodyUniforms is the per-body uniform bound alongside the body's texture.
// Size: 96 bytes (one mat4x4 and two vec4, std140 aligned).
type GPUBodyUniforms struct {
	Model [16]float32 // offset 0: column-major model matrix (64 bytes)
	Color [4]float32  // offset 64: rgb tint, a = opacity
	Flags [4]float32  // offset 80: x = 1 when unlit
}

// Size returns the size of the GPUBodyUniforms struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes
func (g *GPUBodyUniforms) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the uniforms into a little-endian byte buffer for GPU upload.
//
// Returns:
//   - []byte: 96-byte buffer ready for GPU upload
func (g *GPUBodyUniforms) Marshal() []byte {
	buf := make([]byte, 0, 96)
	buf = putFloats(buf, g.Model[:])
	buf = putFloats(buf, g.Color[:])
	buf = putFloats(buf, g.Flags[:])
	return buf
}

func putFloats(buf []byte, values []float32) []byte {
	for _, v := range values {
		buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(v))
	}
	return buf
}

// frameUniforms collects the camera and every enabled light into the per-frame uniform.
// Ambient lights add colour * intensity to the ambient term. The first enabled point light is
// the one shaded; a scene only ever holds one primary.
func frameUniforms(sc scene.Scene, cam camera.Camera) GPUFrameUniforms {
	var u GPUFrameUniforms
	u.ViewProj = cam.ViewProjection()
	eye := cam.Position()
	u.CameraPos = [4]float32{eye.X(), eye.Y(), eye.Z(), 1}
	u.Params[0] = PointLightDecay

	pointSet := false
	for _, l := range sc.Lights() {
		if l == nil || !l.Enabled() {
			continue
		}
		c := l.Color()
		i := l.Intensity()
		switch l.Type() {
		case light.LightTypeAmbient:
			u.Ambient[0] += c[0] * i
			u.Ambient[1] += c[1] * i
			u.Ambient[2] += c[2] * i
		case light.LightTypePoint:
			if pointSet {
				continue
			}
			pointSet = true
			p := l.Position()
			u.LightPos = [4]float32{p[0], p[1], p[2], l.Range()}
			u.LightColor = [4]float32{c[0] * i, c[1] * i, c[2] * i, 1}
		}
	}
	return u
}

// bodyUniforms packs a body's transform and material.
func bodyUniforms(b body.Body) GPUBodyUniforms {
	u := GPUBodyUniforms{Model: b.ModelMatrix()}
	m := b.Material()
	if m == nil {
		u.Color = [4]float32{1, 1, 1, 1}
		return u
	}
	c := m.Color()
	u.Color = [4]float32{c[0], c[1], c[2], m.Opacity()}
	if m.Unlit() {
		u.Flags[0] = 1
	}
	return u
}

// pass orders the three pipelines within a frame.
type pass int

const (
	passBackdrop pass = iota
	passBodies
	passOrbits
)

func (p pass) key() string {
	switch p {
	case passBackdrop:
		return "backdrop"
	case passOrbits:
		return "orbits"
	default:
		return "bodies"
	}
}

// drawItem is one body scheduled for drawing with the pipeline of its pass.
type drawItem struct {
	pass pass
	body body.Body
}

// passFor picks the pipeline a body is drawn with from its mesh topology and material.
func passFor(b body.Body) pass {
	if b.Mesh() != nil && b.Mesh().Topology() == model.TopologyLineStrip {
		return passOrbits
	}
	if m := b.Material(); m != nil && m.BackSide() {
		return passBackdrop
	}
	return passBodies
}

// drawList returns the visible, live bodies of the scene ordered by pass, then by ID.
// The translucent backdrop goes first without writing depth, and orbit lines go last so they
// blend over everything solid.
func drawList(sc scene.Scene) []drawItem {
	bodies := sc.ListBodies(func(b body.Body) bool {
		return b.Visible() && !b.Disposed() && b.Mesh() != nil
	})
	items := make([]drawItem, 0, len(bodies))
	for _, b := range bodies {
		items = append(items, drawItem{pass: passFor(b), body: b})
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].pass != items[j].pass {
			return items[i].pass < items[j].pass
		}
		return items[i].body.ID() < items[j].body.ID()
	})
	return items
}
