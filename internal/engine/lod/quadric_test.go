package lod

import (
	"testing"

	"github.com/Faultbox/meshlod/pkg/math"
)

func TestQuadricZeroOnPlane(t *testing.T) {
	// Triangle in the Y=0 plane
	q := QuadricFromTriangle(
		math.Vec3{X: 0, Y: 0, Z: 0},
		math.Vec3{X: 1, Y: 0, Z: 0},
		math.Vec3{X: 0, Y: 0, Z: 1},
	)

	// Any point on the plane has zero error
	for _, p := range []math.Vec3{
		{X: 0, Y: 0, Z: 0},
		{X: 5, Y: 0, Z: -3},
		{X: -10, Y: 0, Z: 10},
	} {
		if e := q.Error(p); e > 1e-5 || e < -1e-5 {
			t.Errorf("error at on-plane point %v should be 0, got %g", p, e)
		}
	}
}

func TestQuadricSquaredDistance(t *testing.T) {
	q := QuadricFromTriangle(
		math.Vec3{X: 0, Y: 0, Z: 0},
		math.Vec3{X: 1, Y: 0, Z: 0},
		math.Vec3{X: 0, Y: 0, Z: 1},
	)

	// A point 2 units off the plane has squared distance 4
	e := q.Error(math.Vec3{X: 0.3, Y: 2, Z: 0.3})
	if e < 3.99 || e > 4.01 {
		t.Errorf("error should approximate squared distance 4, got %g", e)
	}
}

func TestQuadricDegenerateTriangle(t *testing.T) {
	// Zero-area triangle yields the zero quadric
	q := QuadricFromTriangle(
		math.Vec3{X: 1, Y: 1, Z: 1},
		math.Vec3{X: 1, Y: 1, Z: 1},
		math.Vec3{X: 2, Y: 2, Z: 2},
	)

	if q != (Quadric{}) {
		t.Errorf("degenerate triangle should give zero quadric, got %+v", q)
	}
}

func TestQuadricAdditivity(t *testing.T) {
	q1 := QuadricFromTriangle(
		math.Vec3{X: 0, Y: 0, Z: 0},
		math.Vec3{X: 1, Y: 0, Z: 0},
		math.Vec3{X: 0, Y: 0, Z: 1},
	)
	q2 := QuadricFromTriangle(
		math.Vec3{X: 0, Y: 0, Z: 0},
		math.Vec3{X: 0, Y: 1, Z: 0},
		math.Vec3{X: 0, Y: 0, Z: 1},
	)

	sum := q1.Add(q2)
	p := math.Vec3{X: 3, Y: 4, Z: 0}
	want := q1.Error(p) + q2.Error(p)
	if got := sum.Error(p); abs(got-want) > 1e-4 {
		t.Errorf("summed quadric error %g should equal %g", got, want)
	}

	var acc Quadric
	acc.AddInPlace(q1)
	acc.AddInPlace(q2)
	if got := acc.Error(p); abs(got-want) > 1e-4 {
		t.Errorf("accumulated quadric error %g should equal %g", got, want)
	}
}

func TestOptimalPointIsMidpoint(t *testing.T) {
	var q Quadric
	v1 := math.Vec3{X: 0, Y: 2, Z: 4}
	v2 := math.Vec3{X: 2, Y: 0, Z: 0}

	p := q.OptimalPoint(v1, v2)
	if p != (math.Vec3{X: 1, Y: 1, Z: 2}) {
		t.Errorf("optimal point should be the midpoint, got %v", p)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
