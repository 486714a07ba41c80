package geometry

import (
	"math"
	"testing"
)

func circlePoints(center Vector3, radius float64, count int) []Vector3 {
	points := make([]Vector3, count)
	for i := range points {
		angle := 2 * math.Pi * float64(i) / float64(count)
		points[i] = NewVector3(
			center.X+radius*math.Cos(angle),
			center.Y,
			center.Z+radius*math.Sin(angle),
		)
	}
	return points
}

func TestFitCircleToPoints3DExact(t *testing.T) {
	center := NewVector3(0.2, 1.1, -0.3)
	fit, err := FitCircleToPoints3D(circlePoints(center, 0.15, 48), AxisY)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if math.Abs(fit.Radius-0.15) > 1e-9 {
		t.Errorf("Radius failed: expected 0.15, got %v", fit.Radius)
	}
	if fit.Center.Distance(center) > 1e-9 {
		t.Errorf("Center failed: expected %v, got %v", center, fit.Center)
	}
	if fit.Normal != NewVector3(0, 1, 0) {
		t.Errorf("Normal failed: got %v", fit.Normal)
	}
	if fit.StdDev > 1e-9 {
		t.Errorf("StdDev should be ~0 for exact circle, got %v", fit.StdDev)
	}
	if math.Abs(fit.Circumference()-2*math.Pi*0.15) > 1e-9 {
		t.Errorf("Circumference failed: got %v", fit.Circumference())
	}
}

func TestFitCircleToPoints3DArc(t *testing.T) {
	// Quarter arc in the XY plane (Z constant)
	var points []Vector3
	for i := 0; i <= 10; i++ {
		angle := math.Pi / 2 * float64(i) / 10
		points = append(points, NewVector3(2*math.Cos(angle)+1, 2*math.Sin(angle)+3, 5))
	}

	fit, err := FitCircleToPoints3D(points, AxisZ)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if math.Abs(fit.Radius-2) > 1e-9 {
		t.Errorf("Radius failed: expected 2, got %v", fit.Radius)
	}
	if fit.Center.Distance(NewVector3(1, 3, 5)) > 1e-9 {
		t.Errorf("Center failed: got %v", fit.Center)
	}
}

func TestFitCircleToPoints3DErrors(t *testing.T) {
	if _, err := FitCircleToPoints3D([]Vector3{{}, {X: 1}}, AxisY); err == nil {
		t.Error("expected error for fewer than 3 points")
	}

	points := circlePoints(Vector3{}, 1, 8)
	if _, err := FitCircleToPoints3D(points, 3); err == nil {
		t.Error("expected error for invalid axis")
	}
}
