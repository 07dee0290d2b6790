package math

import (
	"math"
	"testing"
)

func TestIdentity(t *testing.T) {
	m := Identity()
	if m[0] != 1 || m[5] != 1 || m[10] != 1 || m[15] != 1 {
		t.Error("Identity diagonal should be 1")
	}
	if m[1] != 0 || m[4] != 0 {
		t.Error("Identity off-diagonal should be 0")
	}
}

func TestMulIdentity(t *testing.T) {
	m := Translate(1, 2, 3)
	id := Identity()
	result := m.Mul(id)

	for i := 0; i < 16; i++ {
		if result[i] != m[i] {
			t.Errorf("M * I should equal M, element %d: got %f, want %f", i, result[i], m[i])
		}
	}
}

func TestTranslation(t *testing.T) {
	m := Translate(5, 10, 15)

	pos := m.Translation()
	if pos.X != 5 || pos.Y != 10 || pos.Z != 15 {
		t.Errorf("Translation: got (%f, %f, %f), want (5, 10, 15)", pos.X, pos.Y, pos.Z)
	}
}

func TestTransformPoint(t *testing.T) {
	m := Translate(10, 20, 30)
	p := Vec3{1, 2, 3}
	result := m.TransformPoint(p)

	expected := Vec3{11, 22, 33}
	if result != expected {
		t.Errorf("TransformPoint: got %v, want %v", result, expected)
	}
}

func TestTransformPointScale(t *testing.T) {
	m := Scale(2, 2, 2)
	p := Vec3{1, 2, 3}
	result := m.TransformPoint(p)

	expected := Vec3{2, 4, 6}
	if result != expected {
		t.Errorf("TransformPoint with scale: got %v, want %v", result, expected)
	}
}

func TestRotateY90(t *testing.T) {
	m := RotateY(float32(math.Pi / 2)) // 90 degrees
	p := Vec3{1, 0, 0}                 // Point on X axis
	result := m.TransformPoint(p)

	// After 90 degree Y rotation, (1,0,0) should become approximately (0,0,-1)
	if abs(result.X) > 0.001 || abs(result.Y) > 0.001 || abs(result.Z+1) > 0.001 {
		t.Errorf("RotateY 90: got %v, want (0, 0, -1)", result)
	}
}

func TestPerspective(t *testing.T) {
	fov := float32(math.Pi / 4) // 45 degrees
	aspect := float32(1.0)
	near := float32(0.1)
	far := float32(100.0)

	m := Perspective(fov, aspect, near, far)

	if m[0] == 0 || m[5] == 0 {
		t.Error("Perspective should have non-zero elements")
	}
	// Element [15] should be 0 for perspective projection
	if m[15] != 0 {
		t.Errorf("Perspective [15] should be 0, got %f", m[15])
	}
	// Element [11] should be -1 for perspective projection
	if m[11] != -1 {
		t.Errorf("Perspective [11] should be -1, got %f", m[11])
	}
}

func TestLookAt(t *testing.T) {
	eye := Vec3{0, 0, 5}
	center := Vec3{0, 0, 0}
	up := Vec3{0, 1, 0}

	m := LookAt(eye, center, up)

	if m[15] != 1 {
		t.Errorf("LookAt [15] should be 1, got %f", m[15])
	}
}

func TestUniformScale(t *testing.T) {
	m := Scale(2, 2, 2)
	if s := m.UniformScale(); abs(s-2) > 0.001 {
		t.Errorf("UniformScale of Scale(2,2,2): got %f, want 2", s)
	}

	// Rotation must not change the extracted scale
	m = RotateY(0.7).Mul(Scale(3, 3, 3))
	if s := m.UniformScale(); abs(s-3) > 0.001 {
		t.Errorf("UniformScale of rotated scale: got %f, want 3", s)
	}

	// Non-uniform scale averages the axes
	m = Scale(1, 2, 3)
	if s := m.UniformScale(); abs(s-2) > 0.001 {
		t.Errorf("UniformScale of Scale(1,2,3): got %f, want 2", s)
	}
}

func TestBasisScales(t *testing.T) {
	m := Translate(5, 6, 7).Mul(Scale(2, 3, 4))
	sx, sy, sz := m.BasisScales()
	if abs(sx-2) > 0.001 || abs(sy-3) > 0.001 || abs(sz-4) > 0.001 {
		t.Errorf("BasisScales: got (%f, %f, %f), want (2, 3, 4)", sx, sy, sz)
	}
}

func abs(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}
