package formats

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/meshlod/internal/engine/primitives"
)

const cubeOBJ = `
# simple unit quad
v 0 0 0
v 1 0 0
v 1 0 1
v 0 0 1
vn 0 1 0
f 1//1 2//1 3//1
f 1//1 3//1 4//1
`

func TestParseOBJ(t *testing.T) {
	m, err := ParseOBJ(strings.NewReader(cubeOBJ), "quad.obj")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if m.VertexCount() != 4 {
		t.Errorf("expected 4 vertices, got %d", m.VertexCount())
	}
	if m.TriangleCount() != 2 {
		t.Errorf("expected 2 triangles, got %d", m.TriangleCount())
	}
	if !m.HasNormals() {
		t.Error("normals should be carried through")
	}
	if m.ID != "quad.obj" {
		t.Errorf("mesh ID should be the file name, got %q", m.ID)
	}
}

func TestParseOBJQuadFace(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 1 0 1
v 0 0 1
f 1 2 3 4
`
	m, err := ParseOBJ(strings.NewReader(src), "poly.obj")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if m.TriangleCount() != 2 {
		t.Errorf("quad should fan-triangulate into 2 triangles, got %d", m.TriangleCount())
	}
	// No vn records: normals are generated
	if !m.HasNormals() {
		t.Error("normals should be generated when the file has none")
	}
}

func TestParseOBJNegativeIndices(t *testing.T) {
	src := `
v 0 0 0
v 1 0 0
v 0 0 1
f -3 -2 -1
`
	m, err := ParseOBJ(strings.NewReader(src), "neg.obj")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if m.TriangleCount() != 1 {
		t.Errorf("expected 1 triangle, got %d", m.TriangleCount())
	}
}

func TestParseOBJBadIndex(t *testing.T) {
	src := `
v 0 0 0
f 1 2 3
`
	if _, err := ParseOBJ(strings.NewReader(src), "bad.obj"); err == nil {
		t.Error("out-of-range face index should fail")
	}
}

func TestParseOBJEmpty(t *testing.T) {
	if _, err := ParseOBJ(strings.NewReader("# nothing\n"), "empty.obj"); err == nil {
		t.Error("geometry-free obj should fail")
	}
}

func TestOBJRoundTrip(t *testing.T) {
	src := primitives.Sphere(6, 8, 1.5)

	var buf bytes.Buffer
	if err := WriteOBJ(&buf, src); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	back, err := ParseOBJ(&buf, src.ID)
	if err != nil {
		t.Fatalf("re-parse failed: %v", err)
	}
	if back.TriangleCount() != src.TriangleCount() {
		t.Errorf("round trip changed triangle count: %d -> %d",
			src.TriangleCount(), back.TriangleCount())
	}
}

func TestSaveAndLoadOBJ(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "torus.obj")

	src := primitives.Torus(8, 6, 2, 0.5)
	if err := SaveOBJ(path, src); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	back, err := LoadMesh(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if back.TriangleCount() != src.TriangleCount() {
		t.Errorf("save/load changed triangle count: %d -> %d",
			src.TriangleCount(), back.TriangleCount())
	}
}

func TestLoadMeshUnknownExtension(t *testing.T) {
	if _, err := LoadMesh("model.xyz"); err == nil {
		t.Error("unknown extension should fail")
	}
}
