package body

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-orrery/common"
	"github.com/Carmen-Shannon/oxy-orrery/engine/model"
	"github.com/go-gl/mathgl/mgl32"
)

// Kind classifies a body for rendering, picking and orbit simulation.
type Kind int

const (
	// KindSun is the single self-illuminated body at the origin.
	KindSun Kind = iota

	// KindPlanet is a body that follows a circular orbit around the sun.
	KindPlanet

	// KindStarfield is the enclosing backdrop drawn from the inside.
	KindStarfield

	// KindOrbitPath is the polyline overlay tracing a planet's orbit.
	KindOrbitPath
)

func (k Kind) String() string {
	switch k {
	case KindSun:
		return "sun"
	case KindPlanet:
		return "planet"
	case KindStarfield:
		return "starfield"
	case KindOrbitPath:
		return "orbit-path"
	default:
		return "unknown"
	}
}

// Solid reports whether bodies of this kind take part in picking.
func (k Kind) Solid() bool {
	return k == KindSun || k == KindPlanet
}

// OrbitPathName returns the name of the orbit path that belongs to the named body.
func OrbitPathName(parent string) string {
	return parent + "_orbit"
}

// bodyImpl is the implementation of the Body interface.
type bodyImpl struct {
	mu *sync.Mutex

	id          uint64
	name        string
	kind        Kind
	radius      float32
	orbitPeriod float32
	distance    float32
	mesh        model.Mesh
	material    model.Material
	parent      string

	position mgl32.Vec3
	rotation float32
	visible  bool
	disposed atomic.Bool
}

// Body defines the interface for a renderable celestial object.
//
// Every body is drawn from a unit mesh scaled uniformly by its radius: spheres for the sun and
// planets, a cube for the starfield and a unit circle for orbit paths (where the radius is the
// orbit distance).
type Body interface {
	// ID returns the identifier assigned by the scene, or zero before the body is added.
	//
	// Returns:
	//   - uint64: the body ID
	ID() uint64

	// SetID assigns the scene identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// Name returns the unique body name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// Kind returns the body classification.
	//
	// Returns:
	//   - Kind: sun, planet, starfield or orbit path
	Kind() Kind

	// Radius returns the visual radius, which is also the uniform model scale.
	//
	// Returns:
	//   - float32: the radius
	Radius() float32

	// OrbitPeriod returns the orbital period. The orbit angle at time t is t / period.
	//
	// Returns:
	//   - float32: the orbital period
	OrbitPeriod() float32

	// Distance returns the scaled orbit radius.
	//
	// Returns:
	//   - float32: the distance from the sun
	Distance() float32

	// Extent returns the size of the body's bounding box along its largest axis.
	//
	// Returns:
	//   - float32: twice the radius
	Extent() float32

	// Parent returns the name of the body an orbit path traces. Empty for other kinds.
	//
	// Returns:
	//   - string: the parent body name
	Parent() string

	// Position returns the current world position.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// SetPosition moves the body.
	//
	// Parameters:
	//   - p: the new world position
	SetPosition(p mgl32.Vec3)

	// Rotation returns the current rotation around the Y axis in radians.
	//
	// Returns:
	//   - float32: the Y rotation
	Rotation() float32

	// SetRotation sets the rotation around the Y axis.
	//
	// Parameters:
	//   - ry: the Y rotation in radians
	SetRotation(ry float32)

	// Visible returns whether the body is drawn.
	//
	// Returns:
	//   - bool: true if visible
	Visible() bool

	// SetVisible sets whether the body is drawn.
	//
	// Parameters:
	//   - visible: true to draw the body
	SetVisible(visible bool)

	// Mesh returns the unit geometry of the body.
	//
	// Returns:
	//   - model.Mesh: the mesh
	Mesh() model.Mesh

	// Material returns the surface material.
	//
	// Returns:
	//   - model.Material: the material
	Material() model.Material

	// SetMaterial replaces the surface material.
	//
	// Parameters:
	//   - m: the new material
	SetMaterial(m model.Material)

	// OrbitPosition evaluates the circular orbit at simulation time t.
	// The sun, starfield and orbit paths stay at the origin.
	//
	// Parameters:
	//   - t: the simulation time
	//
	// Returns:
	//   - mgl32.Vec3: (d·cos(t/P), 0, d·sin(t/P))
	OrbitPosition(t float64) mgl32.Vec3

	// ModelMatrix returns the world transform built from position, rotation and radius.
	//
	// Returns:
	//   - mgl32.Mat4: the model matrix
	ModelMatrix() mgl32.Mat4

	// Dispose marks the body as removed. Tweens bound to a disposed body are dropped.
	Dispose()

	// Disposed reports whether Dispose has been called.
	//
	// Returns:
	//   - bool: true once disposed
	Disposed() bool
}

var _ Body = &bodyImpl{}

// NewBody creates a visible body of the given kind at the origin and applies the options.
// When no mesh is supplied the kind decides the default: a sphere for the sun and planets,
// a box for the starfield and a circle for orbit paths.
//
// Parameters:
//   - name: the unique body name
//   - kind: the body classification
//   - options: functional options to configure the body
//
// Returns:
//   - Body: the new body
func NewBody(name string, kind Kind, options ...BodyBuilderOption) Body {
	b := &bodyImpl{
		mu:       &sync.Mutex{},
		name:     name,
		kind:     kind,
		radius:   1,
		visible:  true,
		material: model.NewMaterial(),
	}
	for _, option := range options {
		option(b)
	}
	if b.mesh == nil {
		switch kind {
		case KindStarfield:
			b.mesh = model.Box()
		case KindOrbitPath:
			b.mesh = model.Circle(128)
		default:
			b.mesh = model.UVSphere(64, 64)
		}
	}
	return b
}

func (b *bodyImpl) ID() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.id
}

func (b *bodyImpl) SetID(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.id = id
}

func (b *bodyImpl) Name() string {
	return b.name
}

func (b *bodyImpl) Kind() Kind {
	return b.kind
}

func (b *bodyImpl) Radius() float32 {
	return b.radius
}

func (b *bodyImpl) OrbitPeriod() float32 {
	return b.orbitPeriod
}

func (b *bodyImpl) Distance() float32 {
	return b.distance
}

func (b *bodyImpl) Extent() float32 {
	return 2 * b.radius
}

func (b *bodyImpl) Parent() string {
	return b.parent
}

func (b *bodyImpl) Position() mgl32.Vec3 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.position
}

func (b *bodyImpl) SetPosition(p mgl32.Vec3) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.position = p
}

func (b *bodyImpl) Rotation() float32 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rotation
}

func (b *bodyImpl) SetRotation(ry float32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.rotation = ry
}

func (b *bodyImpl) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible
}

func (b *bodyImpl) SetVisible(visible bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.visible = visible
}

func (b *bodyImpl) Mesh() model.Mesh {
	return b.mesh
}

func (b *bodyImpl) Material() model.Material {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.material
}

func (b *bodyImpl) SetMaterial(m model.Material) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.material = m
}

func (b *bodyImpl) OrbitPosition(t float64) mgl32.Vec3 {
	if b.kind != KindPlanet || b.orbitPeriod <= 0 {
		return mgl32.Vec3{}
	}
	angle := t / float64(b.orbitPeriod)
	d := float64(b.distance)
	return mgl32.Vec3{float32(d * math.Cos(angle)), 0, float32(d * math.Sin(angle))}
}

func (b *bodyImpl) ModelMatrix() mgl32.Mat4 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return common.ModelMatrix(b.position, b.rotation, b.radius)
}

func (b *bodyImpl) Dispose() {
	b.disposed.Store(true)
}

func (b *bodyImpl) Disposed() bool {
	return b.disposed.Load()
}
