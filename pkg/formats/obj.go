// Package formats loads and saves mesh file formats.
package formats

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/Faultbox/meshlod/internal/engine/mesh"
)

// LoadOBJ reads a Wavefront OBJ file into a mesh. The file's base name
// becomes the mesh ID.
func LoadOBJ(path string) (*mesh.Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening obj: %w", err)
	}
	defer f.Close()

	return ParseOBJ(f, filepath.Base(path))
}

// ParseOBJ parses OBJ data from r. Supports v, vn and f records with
// v, v/vt, v//vn and v/vt/vn face references; faces with more than
// three corners are fan-triangulated. Texture coordinates and material
// statements are skipped.
func ParseOBJ(r io.Reader, id string) (*mesh.Mesh, error) {
	var (
		positions [][3]float32
		normals   [][3]float32
	)
	out := mesh.New(id)

	// OBJ indexes positions and normals separately; corners shared by
	// several faces are deduplicated through this map.
	type cornerKey struct{ v, n int }
	corners := make(map[cornerKey]uint32)

	addCorner := func(c cornerKey) (uint32, error) {
		if idx, ok := corners[c]; ok {
			return idx, nil
		}
		if c.v < 0 || c.v >= len(positions) {
			return 0, fmt.Errorf("vertex index %d out of range", c.v+1)
		}
		p := positions[c.v]
		idx := uint32(out.AddVertex(p[0], p[1], p[2]))
		if c.n >= 0 {
			if c.n >= len(normals) {
				return 0, fmt.Errorf("normal index %d out of range", c.n+1)
			}
			n := normals[c.n]
			out.AddNormal(n[0], n[1], n[2])
		}
		corners[c] = idx
		return idx, nil
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || strings.HasPrefix(fields[0], "#") {
			continue
		}

		switch fields[0] {
		case "v":
			p, err := parseFloat3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			positions = append(positions, p)

		case "vn":
			n, err := parseFloat3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			normals = append(normals, n)

		case "f":
			if len(fields) < 4 {
				return nil, fmt.Errorf("line %d: face needs at least 3 corners", lineNo)
			}
			idx := make([]uint32, 0, len(fields)-1)
			for _, ref := range fields[1:] {
				v, n, err := parseFaceRef(ref, len(positions), len(normals))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				i, err := addCorner(cornerKey{v: v, n: n})
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", lineNo, err)
				}
				idx = append(idx, i)
			}
			// Fan-triangulate polygons
			for i := 1; i+1 < len(idx); i++ {
				out.AddTriangle(idx[0], idx[i], idx[i+1])
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading obj: %w", err)
	}

	if out.VertexCount() == 0 {
		return nil, fmt.Errorf("obj %q contains no geometry", id)
	}
	if len(out.Normals) != len(out.Positions) {
		// Partial or missing normals; recompute the lot
		out.GenerateNormals()
	}
	return out, nil
}

// parseFloat3 parses three float fields.
func parseFloat3(fields []string) ([3]float32, error) {
	var v [3]float32
	if len(fields) < 3 {
		return v, fmt.Errorf("expected 3 components, got %d", len(fields))
	}
	for i := 0; i < 3; i++ {
		f, err := strconv.ParseFloat(fields[i], 32)
		if err != nil {
			return v, fmt.Errorf("bad float %q: %w", fields[i], err)
		}
		v[i] = float32(f)
	}
	return v, nil
}

// parseFaceRef parses one face corner reference (v, v/vt, v//vn or
// v/vt/vn) into zero-based position and normal indices. The normal
// index is -1 when absent. Negative OBJ indices count from the end.
func parseFaceRef(ref string, numPositions, numNormals int) (v, n int, err error) {
	parts := strings.Split(ref, "/")
	n = -1

	v, err = parseOBJIndex(parts[0], numPositions)
	if err != nil {
		return 0, 0, fmt.Errorf("bad vertex reference %q: %w", ref, err)
	}
	if len(parts) == 3 && parts[2] != "" {
		n, err = parseOBJIndex(parts[2], numNormals)
		if err != nil {
			return 0, 0, fmt.Errorf("bad normal reference %q: %w", ref, err)
		}
	}
	return v, n, nil
}

// parseOBJIndex converts a one-based (or negative, relative) OBJ index
// to zero-based.
func parseOBJIndex(s string, count int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return count + i, nil
	}
	return i - 1, nil
}

// SaveOBJ writes the mesh to path as Wavefront OBJ.
func SaveOBJ(path string, m *mesh.Mesh) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating obj: %w", err)
	}
	defer f.Close()

	return WriteOBJ(f, m)
}

// WriteOBJ writes the mesh as OBJ text.
func WriteOBJ(w io.Writer, m *mesh.Mesh) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "# %s: %d vertices, %d triangles\n", m.ID, m.VertexCount(), m.TriangleCount())
	for i := 0; i < m.VertexCount(); i++ {
		p := m.Position(i)
		fmt.Fprintf(bw, "v %g %g %g\n", p.X, p.Y, p.Z)
	}
	if m.HasNormals() {
		for i := 0; i < m.VertexCount(); i++ {
			n := m.Normal(i)
			fmt.Fprintf(bw, "vn %g %g %g\n", n.X, n.Y, n.Z)
		}
	}

	for t := 0; t < m.TriangleCount(); t++ {
		var a, b, c int
		if m.HasIndices() {
			a, b, c = int(m.Indices[t*3]), int(m.Indices[t*3+1]), int(m.Indices[t*3+2])
		} else {
			a, b, c = t*3, t*3+1, t*3+2
		}
		if m.HasNormals() {
			fmt.Fprintf(bw, "f %d//%d %d//%d %d//%d\n", a+1, a+1, b+1, b+1, c+1, c+1)
		} else {
			fmt.Fprintf(bw, "f %d %d %d\n", a+1, b+1, c+1)
		}
	}
	return bw.Flush()
}
