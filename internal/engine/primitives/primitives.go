// Package primitives builds procedural test meshes.
package primitives

import (
	"fmt"
	gomath "math"

	"github.com/Faultbox/meshlod/internal/engine/mesh"
)

// Grid returns a flat n x n quad grid in the XZ plane, cellSize units
// per cell, centered on the origin.
func Grid(n int, cellSize float32) *mesh.Mesh {
	m := mesh.New(fmt.Sprintf("primitive:grid:%d", n))
	half := float32(n) * cellSize / 2

	for z := 0; z <= n; z++ {
		for x := 0; x <= n; x++ {
			m.AddVertex(float32(x)*cellSize-half, 0, float32(z)*cellSize-half)
			m.AddNormal(0, 1, 0)
		}
	}
	stride := uint32(n + 1)
	for z := 0; z < n; z++ {
		for x := 0; x < n; x++ {
			i := uint32(z)*stride + uint32(x)
			m.AddTriangle(i, i+stride+1, i+1)
			m.AddTriangle(i, i+stride, i+stride+1)
		}
	}
	return m
}

// Sphere returns a UV sphere with the given stacks, slices and radius.
func Sphere(stacks, slices int, radius float32) *mesh.Mesh {
	if stacks < 2 {
		stacks = 2
	}
	if slices < 3 {
		slices = 3
	}
	m := mesh.New(fmt.Sprintf("primitive:sphere:%dx%d", stacks, slices))

	for i := 0; i <= stacks; i++ {
		phi := gomath.Pi * float64(i) / float64(stacks)
		for j := 0; j <= slices; j++ {
			theta := 2 * gomath.Pi * float64(j) / float64(slices)

			nx := float32(gomath.Sin(phi) * gomath.Cos(theta))
			ny := float32(gomath.Cos(phi))
			nz := float32(gomath.Sin(phi) * gomath.Sin(theta))

			m.AddVertex(nx*radius, ny*radius, nz*radius)
			m.AddNormal(nx, ny, nz)
		}
	}

	stride := uint32(slices + 1)
	for i := 0; i < stacks; i++ {
		for j := 0; j < slices; j++ {
			a := uint32(i)*stride + uint32(j)
			b := a + stride
			if i > 0 {
				m.AddTriangle(a, a+1, b)
			}
			if i < stacks-1 {
				m.AddTriangle(a+1, b+1, b)
			}
		}
	}
	return m
}

// Torus returns a torus with ring major segments around the main ring
// and side minor segments around the tube.
func Torus(ring, side int, majorRadius, minorRadius float32) *mesh.Mesh {
	if ring < 3 {
		ring = 3
	}
	if side < 3 {
		side = 3
	}
	m := mesh.New(fmt.Sprintf("primitive:torus:%dx%d", ring, side))

	for i := 0; i <= ring; i++ {
		u := 2 * gomath.Pi * float64(i) / float64(ring)
		cu, su := float32(gomath.Cos(u)), float32(gomath.Sin(u))
		for j := 0; j <= side; j++ {
			v := 2 * gomath.Pi * float64(j) / float64(side)
			cv, sv := float32(gomath.Cos(v)), float32(gomath.Sin(v))

			m.AddVertex(
				(majorRadius+minorRadius*cv)*cu,
				minorRadius*sv,
				(majorRadius+minorRadius*cv)*su,
			)
			m.AddNormal(cv*cu, sv, cv*su)
		}
	}

	stride := uint32(side + 1)
	for i := 0; i < ring; i++ {
		for j := 0; j < side; j++ {
			a := uint32(i)*stride + uint32(j)
			b := a + stride
			m.AddTriangle(a, b, a+1)
			m.AddTriangle(a+1, b, b+1)
		}
	}
	return m
}

// Cube returns an axis-aligned cube with the given edge length,
// centered on the origin, with per-face normals.
func Cube(size float32) *mesh.Mesh {
	m := mesh.New("primitive:cube")
	h := size / 2

	faces := [6]struct {
		normal  [3]float32
		corners [4][3]float32
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}

	for _, f := range faces {
		base := uint32(m.VertexCount())
		for _, c := range f.corners {
			m.AddVertex(c[0], c[1], c[2])
			m.AddNormal(f.normal[0], f.normal[1], f.normal[2])
		}
		m.AddTriangle(base, base+1, base+2)
		m.AddTriangle(base, base+2, base+3)
	}
	return m
}
