package formats

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/Faultbox/meshlod/internal/engine/mesh"
)

// LoadGLTF reads a glTF or GLB file and flattens every triangle
// primitive into one mesh. Materials, animations and scene hierarchy
// are ignored; only geometry matters here.
func LoadGLTF(path string) (*mesh.Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening gltf: %w", err)
	}

	out := mesh.New(filepath.Base(path))

	for _, gm := range doc.Meshes {
		for _, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
				continue
			}

			posIdx, ok := prim.Attributes[gltf.POSITION]
			if !ok {
				continue
			}
			positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %q: reading positions: %w", gm.Name, err)
			}

			base := uint32(out.VertexCount())
			for _, p := range positions {
				out.AddVertex(p[0], p[1], p[2])
			}

			if nIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
				normals, err := modeler.ReadNormal(doc, doc.Accessors[nIdx], nil)
				if err != nil {
					return nil, fmt.Errorf("mesh %q: reading normals: %w", gm.Name, err)
				}
				for _, n := range normals {
					out.AddNormal(n[0], n[1], n[2])
				}
			}

			if prim.Indices != nil {
				indices, err := modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
				if err != nil {
					return nil, fmt.Errorf("mesh %q: reading indices: %w", gm.Name, err)
				}
				for _, i := range indices {
					out.AddIndex(base + i)
				}
			} else {
				for i := range positions {
					out.AddIndex(base + uint32(i))
				}
			}
		}
	}

	if out.VertexCount() == 0 {
		return nil, fmt.Errorf("gltf %q contains no triangle geometry", path)
	}
	if len(out.Normals) != len(out.Positions) {
		// Some primitives lacked normals; recompute the lot
		out.GenerateNormals()
	}
	return out, nil
}

// LoadMesh dispatches on the file extension: .obj, .gltf or .glb.
func LoadMesh(path string) (*mesh.Mesh, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".obj":
		return LoadOBJ(path)
	case ".gltf", ".glb":
		return LoadGLTF(path)
	default:
		return nil, fmt.Errorf("unsupported mesh format %q", filepath.Ext(path))
	}
}
