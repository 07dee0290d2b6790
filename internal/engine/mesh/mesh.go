// Package mesh provides the triangle mesh container used across the engine.
package mesh

import (
	"github.com/Faultbox/meshlod/pkg/math"
)

// Primitive identifies how the vertex stream is interpreted.
type Primitive int

const (
	Triangles Primitive = iota
	Lines
	Points
)

// Mesh holds geometry as flat float32 arrays ready for GPU upload.
// Positions and Normals are parallel xyz triples; Normals and Indices
// are optional.
type Mesh struct {
	// ID is a caller-assigned stable identifier used for LOD caching.
	ID        string
	Primitive Primitive
	Positions []float32
	Normals   []float32
	Indices   []uint32
}

// New creates an empty triangle mesh with the given identifier.
func New(id string) *Mesh {
	return &Mesh{ID: id, Primitive: Triangles}
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions) / 3
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	if m.Primitive != Triangles {
		return 0
	}
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return m.VertexCount() / 3
}

// HasNormals reports whether a per-vertex normal array is present.
func (m *Mesh) HasNormals() bool {
	return len(m.Normals) > 0
}

// HasIndices reports whether an index buffer is present.
func (m *Mesh) HasIndices() bool {
	return len(m.Indices) > 0
}

// AddVertex appends a vertex position and returns its index.
func (m *Mesh) AddVertex(x, y, z float32) int {
	m.Positions = append(m.Positions, x, y, z)
	return len(m.Positions)/3 - 1
}

// AddNormal appends a vertex normal.
func (m *Mesh) AddNormal(x, y, z float32) {
	m.Normals = append(m.Normals, x, y, z)
}

// AddIndex appends one index.
func (m *Mesh) AddIndex(i uint32) {
	m.Indices = append(m.Indices, i)
}

// AddTriangle appends three indices.
func (m *Mesh) AddTriangle(a, b, c uint32) {
	m.Indices = append(m.Indices, a, b, c)
}

// Position returns vertex i as a Vec3.
func (m *Mesh) Position(i int) math.Vec3 {
	return math.Vec3{X: m.Positions[i*3], Y: m.Positions[i*3+1], Z: m.Positions[i*3+2]}
}

// Normal returns the normal of vertex i as a Vec3.
func (m *Mesh) Normal(i int) math.Vec3 {
	return math.Vec3{X: m.Normals[i*3], Y: m.Normals[i*3+1], Z: m.Normals[i*3+2]}
}

// Copy returns a deep copy of the mesh.
func (m *Mesh) Copy() *Mesh {
	out := &Mesh{
		ID:        m.ID,
		Primitive: m.Primitive,
		Positions: make([]float32, len(m.Positions)),
		Indices:   make([]uint32, len(m.Indices)),
	}
	copy(out.Positions, m.Positions)
	copy(out.Indices, m.Indices)
	if len(m.Normals) > 0 {
		out.Normals = make([]float32, len(m.Normals))
		copy(out.Normals, m.Normals)
	}
	return out
}

// Reset clears all geometry but keeps the ID and primitive type.
func (m *Mesh) Reset() {
	m.Positions = m.Positions[:0]
	m.Normals = m.Normals[:0]
	m.Indices = m.Indices[:0]
}

// triangle returns the vertex indices of triangle t, honoring the
// index buffer when present.
func (m *Mesh) triangle(t int) (a, b, c int) {
	if len(m.Indices) > 0 {
		return int(m.Indices[t*3]), int(m.Indices[t*3+1]), int(m.Indices[t*3+2])
	}
	return t * 3, t*3 + 1, t*3 + 2
}

// GenerateNormals recomputes smooth per-vertex normals from the current
// topology. Face contributions are area-weighted (unnormalized cross
// product), which keeps slivers from dominating.
func (m *Mesh) GenerateNormals() {
	if m.Primitive != Triangles {
		return
	}
	normals := make([]math.Vec3, m.VertexCount())

	for t := 0; t < m.TriangleCount(); t++ {
		a, b, c := m.triangle(t)
		e1 := m.Position(b).Sub(m.Position(a))
		e2 := m.Position(c).Sub(m.Position(a))
		n := e1.Cross(e2)

		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}

	m.Normals = m.Normals[:0]
	for _, n := range normals {
		u := n.Normalize()
		if u == (math.Vec3{}) {
			u = math.Vec3{Y: 1}
		}
		m.Normals = append(m.Normals, u.X, u.Y, u.Z)
	}
}

// Weld merges vertices whose positions coincide within epsilon and
// returns an indexed copy. Needed to recover edge adjacency on flat
// triangle soups before simplification.
func (m *Mesh) Weld(epsilon float32) *Mesh {
	if epsilon <= 0 {
		epsilon = 0.0001
	}

	out := &Mesh{ID: m.ID, Primitive: m.Primitive}

	// Quantize positions for O(n) duplicate lookup
	seen := make(map[[3]int32]uint32)
	remap := make([]uint32, m.VertexCount())

	for i := 0; i < m.VertexCount(); i++ {
		p := m.Position(i)
		key := [3]int32{
			int32(p.X / epsilon),
			int32(p.Y / epsilon),
			int32(p.Z / epsilon),
		}
		if idx, ok := seen[key]; ok {
			remap[i] = idx
			continue
		}
		idx := uint32(out.AddVertex(p.X, p.Y, p.Z))
		if m.HasNormals() {
			n := m.Normal(i)
			out.AddNormal(n.X, n.Y, n.Z)
		}
		seen[key] = idx
		remap[i] = idx
	}

	if m.HasIndices() {
		for _, idx := range m.Indices {
			out.AddIndex(remap[idx])
		}
	} else {
		for i := 0; i < m.VertexCount(); i++ {
			out.AddIndex(remap[i])
		}
	}

	return out
}

// Bounds returns the axis-aligned bounding box of the mesh.
func (m *Mesh) Bounds() (min, max math.Vec3) {
	if m.VertexCount() == 0 {
		return math.Vec3{}, math.Vec3{}
	}
	min = m.Position(0)
	max = min
	for i := 1; i < m.VertexCount(); i++ {
		p := m.Position(i)
		if p.X < min.X {
			min.X = p.X
		}
		if p.Y < min.Y {
			min.Y = p.Y
		}
		if p.Z < min.Z {
			min.Z = p.Z
		}
		if p.X > max.X {
			max.X = p.X
		}
		if p.Y > max.Y {
			max.Y = p.Y
		}
		if p.Z > max.Z {
			max.Z = p.Z
		}
	}
	return min, max
}

// BoundingSphere returns the center and radius of a sphere enclosing
// the mesh, derived from the bounding box.
func (m *Mesh) BoundingSphere() (center math.Vec3, radius float32) {
	min, max := m.Bounds()
	center = min.Add(max).Scale(0.5)
	for i := 0; i < m.VertexCount(); i++ {
		if d := m.Position(i).Distance(center); d > radius {
			radius = d
		}
	}
	return center, radius
}
