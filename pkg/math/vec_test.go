package math

import "testing"

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	z := x.Cross(y)

	if z != (Vec3{0, 0, 1}) {
		t.Errorf("X cross Y should be Z, got %v", z)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 4, 0}
	n := v.Normalize()

	if abs(n.Length()-1) > 0.0001 {
		t.Errorf("normalized length should be 1, got %f", n.Length())
	}

	// Zero vector normalizes to zero, not NaN
	zero := Vec3{}.Normalize()
	if zero != (Vec3{}) {
		t.Errorf("zero vector should normalize to zero, got %v", zero)
	}
}

func TestVec3Distance(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{3, 4, 0}

	if d := a.Distance(b); abs(d-5) > 0.0001 {
		t.Errorf("distance should be 5, got %f", d)
	}
}

func TestVec3Mid(t *testing.T) {
	a := Vec3{0, 0, 0}
	b := Vec3{2, 4, 6}

	if m := a.Mid(b); m != (Vec3{1, 2, 3}) {
		t.Errorf("midpoint should be (1,2,3), got %v", m)
	}
}
