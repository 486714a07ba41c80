package geometry

import (
	"math"
	"testing"
)

func TestVector3Add(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	v2 := NewVector3(4, 5, 6)
	result := v1.Add(v2)

	expected := NewVector3(5, 7, 9)
	if result != expected {
		t.Errorf("Add failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Sub(t *testing.T) {
	v1 := NewVector3(5, 7, 9)
	v2 := NewVector3(1, 2, 3)
	result := v1.Sub(v2)

	expected := NewVector3(4, 5, 6)
	if result != expected {
		t.Errorf("Sub failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Scale(t *testing.T) {
	v := NewVector3(1, -2, 0.5)
	result := v.Scale(4)

	expected := NewVector3(4, -8, 2)
	if result != expected {
		t.Errorf("Scale failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Length(t *testing.T) {
	v := NewVector3(3, 4, 0)
	length := v.Length()

	expected := 5.0
	if math.Abs(length-expected) > 1e-10 {
		t.Errorf("Length failed: expected %v, got %v", expected, length)
	}
}

func TestVector3Distance(t *testing.T) {
	v1 := NewVector3(0, 0, 0)
	v2 := NewVector3(3, 4, 0)
	distance := v1.Distance(v2)

	expected := 5.0
	if math.Abs(distance-expected) > 1e-10 {
		t.Errorf("Distance failed: expected %v, got %v", expected, distance)
	}
}

func TestVector3DistanceSymmetric(t *testing.T) {
	a := NewVector3(0.12, 1.31, -0.02)
	b := NewVector3(-0.4, 0.2, 0.33)

	if a.Distance(b) != b.Distance(a) {
		t.Errorf("Distance not symmetric: %v vs %v", a.Distance(b), b.Distance(a))
	}
}

func TestVector3Normalize(t *testing.T) {
	v := NewVector3(3, 4, 0)
	normalized := v.Normalize()

	expectedLength := 1.0
	actualLength := normalized.Length()

	if math.Abs(actualLength-expectedLength) > 1e-10 {
		t.Errorf("Normalize failed: expected length %v, got %v", expectedLength, actualLength)
	}
}

func TestVector3NormalizeZero(t *testing.T) {
	normalized := Vector3{}.Normalize()

	if normalized != (Vector3{}) {
		t.Errorf("Normalize of zero vector: expected zero vector, got %v", normalized)
	}
	if math.IsNaN(normalized.X) || math.IsNaN(normalized.Y) || math.IsNaN(normalized.Z) {
		t.Errorf("Normalize of zero vector produced NaN: %v", normalized)
	}
}

func TestVector3Cross(t *testing.T) {
	v1 := NewVector3(1, 0, 0)
	v2 := NewVector3(0, 1, 0)
	result := v1.Cross(v2)

	expected := NewVector3(0, 0, 1)
	if result != expected {
		t.Errorf("Cross failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Dot(t *testing.T) {
	v1 := NewVector3(1, 2, 3)
	v2 := NewVector3(4, 5, 6)
	result := v1.Dot(v2)

	expected := 32.0 // 1*4 + 2*5 + 3*6 = 32
	if math.Abs(result-expected) > 1e-10 {
		t.Errorf("Dot failed: expected %v, got %v", expected, result)
	}
}

func TestVector3Lerp(t *testing.T) {
	a := NewVector3(0, 0, 0)
	b := NewVector3(2, 4, 6)

	mid := a.Lerp(b, 0.5)
	expected := NewVector3(1, 2, 3)
	if mid != expected {
		t.Errorf("Lerp failed: expected %v, got %v", expected, mid)
	}
}
