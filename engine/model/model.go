package model

import (
	"math"
	"strconv"
	"sync"
)

// Topology selects how the vertex stream of a Mesh is assembled into primitives.
type Topology int

const (
	// TopologyTriangleList draws indexed triangles.
	TopologyTriangleList Topology = iota

	// TopologyLineStrip draws a connected polyline through every vertex in order.
	TopologyLineStrip
)

// Vertex is the interleaved vertex layout shared by every mesh: position, normal, uv.
// The struct is uploaded to the GPU as-is, so field order and sizes must match the shader.
type Vertex struct {
	Position [3]float32
	Normal   [3]float32
	UV       [2]float32
}

// VertexStride is the size of one Vertex in bytes.
const VertexStride = 32

// meshImpl is the implementation of the Mesh interface.
type meshImpl struct {
	key      string
	vertices []Vertex
	indices  []uint32
	topology Topology
}

// Mesh defines the interface for immutable, unit-sized geometry.
// Meshes are authored at unit scale and placed in the world by each body's model matrix,
// so a single sphere mesh serves the sun and every planet.
type Mesh interface {
	// Key returns a stable identifier used to cache GPU buffers for this mesh.
	//
	// Returns:
	//   - string: the cache key
	Key() string

	// Vertices returns the vertex data.
	//
	// Returns:
	//   - []Vertex: the vertices
	Vertices() []Vertex

	// Indices returns the triangle index list. Empty for line strips.
	//
	// Returns:
	//   - []uint32: the indices
	Indices() []uint32

	// Topology returns how the vertices are assembled.
	//
	// Returns:
	//   - Topology: triangle list or line strip
	Topology() Topology
}

var _ Mesh = &meshImpl{}

var meshCache sync.Map

func (m *meshImpl) Key() string {
	return m.key
}

func (m *meshImpl) Vertices() []Vertex {
	return m.vertices
}

func (m *meshImpl) Indices() []uint32 {
	return m.indices
}

func (m *meshImpl) Topology() Topology {
	return m.topology
}

// cached returns the mesh stored under key, building it on first use.
func cached(key string, build func() *meshImpl) Mesh {
	if m, ok := meshCache.Load(key); ok {
		return m.(Mesh)
	}
	m, _ := meshCache.LoadOrStore(key, build())
	return m.(Mesh)
}

// UVSphere returns a unit-radius sphere with the given number of longitudinal and
// latitudinal segments. The v coordinate runs from the north pole (+Y) to the south pole.
//
// Parameters:
//   - widthSegments: segments around the equator (minimum 3)
//   - heightSegments: segments from pole to pole (minimum 2)
//
// Returns:
//   - Mesh: the shared sphere mesh
func UVSphere(widthSegments, heightSegments int) Mesh {
	widthSegments = max(widthSegments, 3)
	heightSegments = max(heightSegments, 2)
	key := "sphere_" + strconv.Itoa(widthSegments) + "x" + strconv.Itoa(heightSegments)

	return cached(key, func() *meshImpl {
		vertices := make([]Vertex, 0, (widthSegments+1)*(heightSegments+1))
		for iy := 0; iy <= heightSegments; iy++ {
			v := float64(iy) / float64(heightSegments)
			for ix := 0; ix <= widthSegments; ix++ {
				u := float64(ix) / float64(widthSegments)
				x := -math.Cos(u*2*math.Pi) * math.Sin(v*math.Pi)
				y := math.Cos(v * math.Pi)
				z := math.Sin(u*2*math.Pi) * math.Sin(v*math.Pi)
				p := [3]float32{float32(x), float32(y), float32(z)}
				vertices = append(vertices, Vertex{
					Position: p,
					Normal:   p,
					UV:       [2]float32{float32(u), float32(v)},
				})
			}
		}

		row := uint32(widthSegments + 1)
		indices := make([]uint32, 0, widthSegments*heightSegments*6)
		for iy := 0; iy < heightSegments; iy++ {
			for ix := 0; ix < widthSegments; ix++ {
				a := uint32(iy)*row + uint32(ix) + 1
				b := uint32(iy)*row + uint32(ix)
				c := uint32(iy+1)*row + uint32(ix)
				d := uint32(iy+1)*row + uint32(ix) + 1
				// The pole rows collapse to a point, so each only contributes one triangle per quad.
				if iy != 0 {
					indices = append(indices, a, b, d)
				}
				if iy != heightSegments-1 {
					indices = append(indices, b, c, d)
				}
			}
		}

		return &meshImpl{key: key, vertices: vertices, indices: indices, topology: TopologyTriangleList}
	})
}

// boxFaces lists each face normal with a tangent pair whose cross product equals the normal,
// which keeps every face counter-clockwise when seen from outside.
var boxFaces = [6][3][3]float32{
	{{1, 0, 0}, {0, 0, -1}, {0, 1, 0}},
	{{-1, 0, 0}, {0, 0, 1}, {0, 1, 0}},
	{{0, 1, 0}, {1, 0, 0}, {0, 0, -1}},
	{{0, -1, 0}, {1, 0, 0}, {0, 0, 1}},
	{{0, 0, 1}, {1, 0, 0}, {0, 1, 0}},
	{{0, 0, -1}, {-1, 0, 0}, {0, 1, 0}},
}

// Box returns a cube spanning [-1, 1] on every axis with outward normals.
//
// Returns:
//   - Mesh: the shared box mesh
func Box() Mesh {
	return cached("box", func() *meshImpl {
		corners := [4][2]float32{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}
		vertices := make([]Vertex, 0, 24)
		indices := make([]uint32, 0, 36)
		for _, face := range boxFaces {
			n, u, v := face[0], face[1], face[2]
			base := uint32(len(vertices))
			for _, c := range corners {
				var p [3]float32
				for i := range p {
					p[i] = n[i] + c[0]*u[i] + c[1]*v[i]
				}
				vertices = append(vertices, Vertex{
					Position: p,
					Normal:   n,
					UV:       [2]float32{(c[0] + 1) / 2, 1 - (c[1]+1)/2},
				})
			}
			indices = append(indices, base, base+1, base+2, base, base+2, base+3)
		}
		return &meshImpl{key: "box", vertices: vertices, indices: indices, topology: TopologyTriangleList}
	})
}

// Circle returns a closed unit circle in the XZ plane as a line strip of segments+1 points.
// The first point is repeated at the end so the strip closes without an index buffer.
//
// Parameters:
//   - segments: number of straight segments (minimum 3)
//
// Returns:
//   - Mesh: the shared circle mesh
func Circle(segments int) Mesh {
	segments = max(segments, 3)
	key := "circle_" + strconv.Itoa(segments)

	return cached(key, func() *meshImpl {
		vertices := make([]Vertex, 0, segments+1)
		for i := 0; i <= segments; i++ {
			theta := float64(i) / float64(segments) * 2 * math.Pi
			vertices = append(vertices, Vertex{
				Position: [3]float32{float32(math.Cos(theta)), 0, float32(math.Sin(theta))},
				Normal:   [3]float32{0, 1, 0},
				UV:       [2]float32{float32(i) / float32(segments), 0},
			})
		}
		return &meshImpl{key: key, vertices: vertices, topology: TopologyLineStrip}
	})
}
