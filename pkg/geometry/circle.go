package geometry

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Axis indices used to pick the constant coordinate of an axis-aligned plane
const (
	AxisX = 0
	AxisY = 1
	AxisZ = 2
)

// CircleFit represents the result of fitting a circle to points
type CircleFit struct {
	Center Vector3 // Circle center in 3D
	Radius float64 // Circle radius
	Normal Vector3 // Normal vector of the plane containing the circle
	StdDev float64 // RMS of radial residuals (quality measure)
}

// Circumference returns 2πr for the fitted circle
func (c CircleFit) Circumference() float64 {
	return 2 * math.Pi * c.Radius
}

// FitCircleToPoints3D fits a circle to a set of 3D points constrained to a plane.
// The plane is defined by one constant axis coordinate (AxisX, AxisY or AxisZ).
//
// Uses the algebraic (Kåsa) least-squares formulation on the projected points:
//
//	u² + v² + D·u + E·v + F = 0
//	center = (−D/2, −E/2), r² = cu² + cv² − F
//
// so every point contributes to the fit, not only three of them.
func FitCircleToPoints3D(points []Vector3, constraintAxis int) (*CircleFit, error) {
	if len(points) < 3 {
		return nil, fmt.Errorf("need at least 3 points to fit a circle")
	}

	if constraintAxis < AxisX || constraintAxis > AxisZ {
		return nil, fmt.Errorf("invalid constraint axis: %d (must be 0, 1, or 2)", constraintAxis)
	}

	n := len(points)
	a := mat.NewDense(n, 3, nil)
	b := mat.NewVecDense(n, nil)
	us := make([]float64, n)
	vs := make([]float64, n)
	ws := make([]float64, n)

	for i, p := range points {
		u, v, w := project(p, constraintAxis)
		us[i], vs[i], ws[i] = u, v, w
		a.Set(i, 0, u)
		a.Set(i, 1, v)
		a.Set(i, 2, 1)
		b.SetVec(i, -(u*u + v*v))
	}

	var sol mat.VecDense
	if err := sol.SolveVec(a, b); err != nil {
		return nil, fmt.Errorf("circle fit failed: %w", err)
	}

	cu := -sol.AtVec(0) / 2
	cv := -sol.AtVec(1) / 2
	r2 := cu*cu + cv*cv - sol.AtVec(2)
	if r2 <= 0 || math.IsNaN(r2) || math.IsInf(r2, 0) {
		return nil, fmt.Errorf("points are collinear")
	}
	radius := math.Sqrt(r2)

	residuals := make([]float64, n)
	for i := range us {
		d := math.Hypot(us[i]-cu, vs[i]-cv) - radius
		residuals[i] = d * d
	}

	return &CircleFit{
		Center: unproject(cu, cv, stat.Mean(ws, nil), constraintAxis),
		Radius: radius,
		Normal: axisNormal(constraintAxis),
		StdDev: math.Sqrt(stat.Mean(residuals, nil)),
	}, nil
}

// project returns the two in-plane coordinates and the constant coordinate
func project(p Vector3, axis int) (u, v, w float64) {
	switch axis {
	case AxisX:
		return p.Y, p.Z, p.X
	case AxisY:
		return p.X, p.Z, p.Y
	default:
		return p.X, p.Y, p.Z
	}
}

func unproject(u, v, w float64, axis int) Vector3 {
	switch axis {
	case AxisX:
		return NewVector3(w, u, v)
	case AxisY:
		return NewVector3(u, w, v)
	default:
		return NewVector3(u, v, w)
	}
}

func axisNormal(axis int) Vector3 {
	switch axis {
	case AxisX:
		return NewVector3(1, 0, 0)
	case AxisY:
		return NewVector3(0, 1, 0)
	default:
		return NewVector3(0, 0, 1)
	}
}
