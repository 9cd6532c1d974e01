package geometry

import (
	"fmt"
	"math"
)

// RectPoint is a point in rectangular coordinates (meters).
type RectPoint struct {
	X, Y, Z float64
}

// SphericalPoint is a point in spherical coordinates. Theta is the polar
// angle measured from +Z, Phi the azimuth measured from +X in the XY plane.
type SphericalPoint struct {
	R, Theta, Phi float64
}

// CylindricalPoint is a point in cylindrical coordinates around the Z axis.
type CylindricalPoint struct {
	R, Theta, Z float64
}

// Rect builds a RectPoint.
func Rect(x, y, z float64) RectPoint { return RectPoint{X: x, Y: y, Z: z} }

// Norm returns the Euclidean distance from the array centre.
func (p RectPoint) Norm() float64 {
	return math.Sqrt(p.X*p.X + p.Y*p.Y + p.Z*p.Z)
}

// IsOrigin reports whether the point sits exactly on the array centre.
func (p RectPoint) IsOrigin() bool {
	return p.X == 0 && p.Y == 0 && p.Z == 0
}

// Neg mirrors the point through the Z axis (x and y negated, z kept).
func (p RectPoint) Neg() RectPoint {
	return RectPoint{X: -p.X, Y: -p.Y, Z: p.Z}
}

// Distance returns the Euclidean distance between two points.
func (p RectPoint) Distance(q RectPoint) float64 {
	dx := p.X - q.X
	dy := p.Y - q.Y
	dz := p.Z - q.Z
	return math.Sqrt(dx*dx + dy*dy + dz*dz)
}

// Spherical converts to spherical coordinates. The origin maps to the zero
// SphericalPoint.
func (p RectPoint) Spherical() SphericalPoint {
	r := p.Norm()
	if r == 0 {
		return SphericalPoint{}
	}
	return SphericalPoint{
		R:     r,
		Theta: math.Acos(p.Z / r),
		Phi:   math.Atan2(p.Y, p.X),
	}
}

// Cylindrical converts to cylindrical coordinates.
func (p RectPoint) Cylindrical() CylindricalPoint {
	return CylindricalPoint{
		R:     math.Hypot(p.X, p.Y),
		Theta: math.Atan2(p.Y, p.X),
		Z:     p.Z,
	}
}

func (p RectPoint) String() string {
	return fmt.Sprintf("(%.6g, %.6g, %.6g)", p.X, p.Y, p.Z)
}

// Rect converts to rectangular coordinates.
func (s SphericalPoint) Rect() RectPoint {
	sinTheta := math.Sin(s.Theta)
	return RectPoint{
		X: s.R * sinTheta * math.Cos(s.Phi),
		Y: s.R * sinTheta * math.Sin(s.Phi),
		Z: s.R * math.Cos(s.Theta),
	}
}

// Cylindrical converts to cylindrical coordinates.
func (s SphericalPoint) Cylindrical() CylindricalPoint {
	return CylindricalPoint{
		R:     s.R * math.Sin(s.Theta),
		Theta: s.Phi,
		Z:     s.R * math.Cos(s.Theta),
	}
}

// Rect converts to rectangular coordinates.
func (c CylindricalPoint) Rect() RectPoint {
	return RectPoint{
		X: c.R * math.Cos(c.Theta),
		Y: c.R * math.Sin(c.Theta),
		Z: c.Z,
	}
}

// Spherical converts to spherical coordinates.
func (c CylindricalPoint) Spherical() SphericalPoint {
	return c.Rect().Spherical()
}

// FromSteering returns the point at distance dist along the ray steered by
// xDeg about the Y axis and yDeg about the X axis.
//
// The two steering angles are not orthogonal on the sphere, so the direction
// (sin x·cos y, cos x·sin y, cos x·cos y) is divided by the foreshortening
// factor A = sqrt(1 − sin²x·sin²y), which keeps |result| == dist.
func FromSteering(xDeg, yDeg, dist float64) RectPoint {
	x := xDeg * math.Pi / 180.0
	y := yDeg * math.Pi / 180.0

	sinX, cosX := math.Sincos(x)
	sinY, cosY := math.Sincos(y)

	a := math.Sqrt(1 - sinX*sinX*sinY*sinY)
	if a == 0 {
		// both angles at ±90°: the ray lies in the array plane and the
		// direction is undefined, fall back to the X axis
		return RectPoint{X: math.Copysign(dist, sinX)}
	}

	return RectPoint{
		X: dist * sinX * cosY / a,
		Y: dist * cosX * sinY / a,
		Z: dist * cosX * cosY / a,
	}
}
