// Package lod implements mesh simplification and runtime level-of-detail
// selection for the renderer.
package lod

import (
	"github.com/Faultbox/meshlod/pkg/math"
)

// Quadric is a symmetric 4x4 error matrix stored as its 10 independent
// scalars. It accumulates squared distance to a set of supporting planes
// and scores candidate vertex merges.
type Quadric struct {
	XX, XY, XZ, XW float32
	YY, YZ, YW     float32
	ZZ, ZW         float32
	WW             float32
}

// QuadricFromTriangle builds the quadric of the triangle's supporting
// plane n.x + d = 0. Degenerate triangles yield the zero quadric.
func QuadricFromTriangle(v0, v1, v2 math.Vec3) Quadric {
	n := v1.Sub(v0).Cross(v2.Sub(v0))
	if n.Length() < 1e-8 {
		return Quadric{}
	}
	n = n.Normalize()
	d := -n.Dot(v0)

	return Quadric{
		XX: n.X * n.X, XY: n.X * n.Y, XZ: n.X * n.Z, XW: n.X * d,
		YY: n.Y * n.Y, YZ: n.Y * n.Z, YW: n.Y * d,
		ZZ: n.Z * n.Z, ZW: n.Z * d,
		WW: d * d,
	}
}

// Add returns q + other.
func (q Quadric) Add(other Quadric) Quadric {
	return Quadric{
		XX: q.XX + other.XX, XY: q.XY + other.XY, XZ: q.XZ + other.XZ, XW: q.XW + other.XW,
		YY: q.YY + other.YY, YZ: q.YZ + other.YZ, YW: q.YW + other.YW,
		ZZ: q.ZZ + other.ZZ, ZW: q.ZW + other.ZW,
		WW: q.WW + other.WW,
	}
}

// AddInPlace accumulates other into q.
func (q *Quadric) AddInPlace(other Quadric) {
	q.XX += other.XX
	q.XY += other.XY
	q.XZ += other.XZ
	q.XW += other.XW
	q.YY += other.YY
	q.YZ += other.YZ
	q.YW += other.YW
	q.ZZ += other.ZZ
	q.ZW += other.ZW
	q.WW += other.WW
}

// Error evaluates the quadratic form p^T Q p, approximating the summed
// squared distance from p to the accumulated planes.
func (q Quadric) Error(p math.Vec3) float32 {
	return q.XX*p.X*p.X + 2*q.XY*p.X*p.Y + 2*q.XZ*p.X*p.Z + 2*q.XW*p.X +
		q.YY*p.Y*p.Y + 2*q.YZ*p.Y*p.Z + 2*q.YW*p.Y +
		q.ZZ*p.Z*p.Z + 2*q.ZW*p.Z +
		q.WW
}

// OptimalPoint returns the position a collapsed edge should move to.
// Uses the edge midpoint rather than solving the quadric's 3x3 linear
// system; cheaper, and close enough for runtime LOD chains.
func (q Quadric) OptimalPoint(v1, v2 math.Vec3) math.Vec3 {
	return v1.Mid(v2)
}
