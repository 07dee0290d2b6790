package mesh

import (
	"testing"

	"github.com/Faultbox/meshlod/pkg/math"
)

// quad builds two indexed triangles in the XZ plane.
func quad() *Mesh {
	m := New("quad")
	m.AddVertex(0, 0, 0)
	m.AddVertex(1, 0, 0)
	m.AddVertex(1, 0, 1)
	m.AddVertex(0, 0, 1)
	m.AddTriangle(0, 1, 2)
	m.AddTriangle(0, 2, 3)
	return m
}

func TestCounts(t *testing.T) {
	m := quad()
	if m.VertexCount() != 4 {
		t.Errorf("expected 4 vertices, got %d", m.VertexCount())
	}
	if m.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", m.TriangleCount())
	}

	// Non-indexed soup counts by vertex triples
	soup := New("soup")
	for i := 0; i < 6; i++ {
		soup.AddVertex(float32(i), 0, 0)
	}
	if soup.TriangleCount() != 2 {
		t.Errorf("expected 2 soup triangles, got %d", soup.TriangleCount())
	}
}

func TestCopyIsDeep(t *testing.T) {
	m := quad()
	m.GenerateNormals()
	c := m.Copy()

	c.Positions[0] = 99
	c.Indices[0] = 3
	if m.Positions[0] == 99 || m.Indices[0] == 3 {
		t.Error("Copy should not share storage with the source")
	}
	if c.ID != m.ID {
		t.Errorf("Copy should keep the ID, got %q", c.ID)
	}
	if len(c.Normals) != len(m.Normals) {
		t.Error("Copy should carry normals")
	}
}

func TestReset(t *testing.T) {
	m := quad()
	m.GenerateNormals()
	m.Reset()

	if m.VertexCount() != 0 || m.TriangleCount() != 0 || m.HasNormals() {
		t.Error("Reset should clear all geometry")
	}
	if m.ID != "quad" {
		t.Error("Reset should keep the ID")
	}
}

func TestGenerateNormals(t *testing.T) {
	m := quad()
	m.GenerateNormals()

	if len(m.Normals) != len(m.Positions) {
		t.Fatalf("normals should parallel positions: %d vs %d", len(m.Normals), len(m.Positions))
	}
	// Planar quad in XZ with this winding faces -Y
	for i := 0; i < m.VertexCount(); i++ {
		n := m.Normal(i)
		if n.Y > -0.99 {
			t.Errorf("vertex %d normal %v should point along -Y", i, n)
		}
	}
}

func TestWeldSoup(t *testing.T) {
	// Two triangles sharing an edge, stored as an unindexed soup
	soup := New("soup")
	soup.AddVertex(0, 0, 0)
	soup.AddVertex(1, 0, 0)
	soup.AddVertex(0, 0, 1)
	soup.AddVertex(1, 0, 0)
	soup.AddVertex(1, 0, 1)
	soup.AddVertex(0, 0, 1)

	w := soup.Weld(0.0001)
	if w.VertexCount() != 4 {
		t.Errorf("expected 4 welded vertices, got %d", w.VertexCount())
	}
	if w.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles after weld, got %d", w.TriangleCount())
	}
	if !w.HasIndices() {
		t.Error("welded mesh should be indexed")
	}
}

func TestBoundsAndSphere(t *testing.T) {
	m := quad()
	min, max := m.Bounds()
	if min != (math.Vec3{}) {
		t.Errorf("min should be origin, got %v", min)
	}
	if max != (math.Vec3{X: 1, Y: 0, Z: 1}) {
		t.Errorf("max should be (1,0,1), got %v", max)
	}

	center, radius := m.BoundingSphere()
	if center != (math.Vec3{X: 0.5, Y: 0, Z: 0.5}) {
		t.Errorf("center should be (0.5,0,0.5), got %v", center)
	}
	want := center.Distance(math.Vec3{})
	if d := radius - want; d > 0.001 || d < -0.001 {
		t.Errorf("radius should be %f, got %f", want, radius)
	}
}
