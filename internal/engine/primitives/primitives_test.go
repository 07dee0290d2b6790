package primitives

import "testing"

func TestGrid(t *testing.T) {
	m := Grid(4, 1)
	if m.VertexCount() != 25 {
		t.Errorf("expected 25 vertices, got %d", m.VertexCount())
	}
	if m.TriangleCount() != 32 {
		t.Errorf("expected 32 triangles, got %d", m.TriangleCount())
	}
	if !m.HasNormals() {
		t.Error("grid should have normals")
	}
}

func TestSphere(t *testing.T) {
	m := Sphere(8, 12, 2)
	if m.TriangleCount() == 0 {
		t.Fatal("sphere should have triangles")
	}

	// Every vertex sits on the radius
	for i := 0; i < m.VertexCount(); i++ {
		r := m.Position(i).Length()
		if r < 1.99 || r > 2.01 {
			t.Fatalf("vertex %d at radius %f, want 2", i, r)
		}
	}

	_, radius := m.BoundingSphere()
	if radius < 1.9 || radius > 2.1 {
		t.Errorf("bounding radius %f, want ~2", radius)
	}
}

func TestTorus(t *testing.T) {
	m := Torus(16, 8, 3, 1)
	if m.TriangleCount() != 16*8*2 {
		t.Errorf("expected %d triangles, got %d", 16*8*2, m.TriangleCount())
	}
}

func TestCube(t *testing.T) {
	m := Cube(2)
	if m.VertexCount() != 24 {
		t.Errorf("expected 24 vertices, got %d", m.VertexCount())
	}
	if m.TriangleCount() != 12 {
		t.Errorf("expected 12 triangles, got %d", m.TriangleCount())
	}

	min, max := m.Bounds()
	if min.X != -1 || max.X != 1 {
		t.Errorf("cube bounds should span [-1,1], got %v..%v", min, max)
	}
}

func TestUniqueIDs(t *testing.T) {
	a := Sphere(8, 8, 1)
	b := Sphere(16, 16, 1)
	if a.ID == b.ID {
		t.Error("different tessellations should get different IDs")
	}
}
