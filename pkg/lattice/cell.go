// Package lattice validates unit cells and classifies their crystal family.
//
// The solver only accepts boxed systems whose cell angles are all right
// angles. Cells that violate this are rejected; when the caller asks for
// coercion the cell is classified so the error can name the family, but no
// replacement cell is ever produced.
package lattice

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// RightAngle is the angle, in degrees, that every orthorhombic cell edge pair meets at.
const RightAngle = 90.0

// zeroTolerance snaps floating noise from trigonometry back to zero.
const zeroTolerance = 1e-10

// UnitCell is a periodic box described by edge lengths (Å) and inter-edge angles (degrees).
// Alpha is the angle between b and c, Beta between a and c, Gamma between a and b.
type UnitCell struct {
	A, B, C            float64
	Alpha, Beta, Gamma float64
}

// NewUnitCell builds a cell from lengths and angles, rejecting non-positive
// lengths and angles outside the open interval (0, 180).
func NewUnitCell(lengths, angles [3]float64) (UnitCell, error) {
	for i, l := range lengths {
		if !(l > 0) || math.IsInf(l, 0) {
			return UnitCell{}, &GeometryError{Reason: fmt.Sprintf("cell length %d must be positive, got %g", i, l)}
		}
	}
	for i, a := range angles {
		if !(a > 0 && a < 180) {
			return UnitCell{}, &GeometryError{Reason: fmt.Sprintf("cell angle %d must lie in (0, 180), got %g", i, a)}
		}
	}
	return UnitCell{
		A: lengths[0], B: lengths[1], C: lengths[2],
		Alpha: angles[0], Beta: angles[1], Gamma: angles[2],
	}, nil
}

// UnitCellFromVectors derives lengths and angles from three edge vectors.
func UnitCellFromVectors(v [3]r3.Vec) (UnitCell, error) {
	lengths := [3]float64{r3.Norm(v[0]), r3.Norm(v[1]), r3.Norm(v[2])}
	for i, l := range lengths {
		if l == 0 {
			return UnitCell{}, &GeometryError{Reason: fmt.Sprintf("cell vector %d has zero length", i)}
		}
	}
	angles := [3]float64{
		angleBetween(v[1], v[2]),
		angleBetween(v[0], v[2]),
		angleBetween(v[0], v[1]),
	}
	return NewUnitCell(lengths, angles)
}

func angleBetween(p, q r3.Vec) float64 {
	c := r3.Cos(p, q)
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * 180 / math.Pi
}

// Lengths returns the edge lengths in a, b, c order.
func (c UnitCell) Lengths() [3]float64 { return [3]float64{c.A, c.B, c.C} }

// Angles returns the angles in alpha, beta, gamma order.
func (c UnitCell) Angles() [3]float64 { return [3]float64{c.Alpha, c.Beta, c.Gamma} }

// IsOrthorhombic reports whether all three angles round to 90.00 degrees.
// Lengths play no part.
func (c UnitCell) IsOrthorhombic() bool {
	for _, a := range c.Angles() {
		if round2(a) != RightAngle {
			return false
		}
	}
	return true
}

// Vectors returns the edge vectors in the standard setting: a along x,
// b in the xy plane, c completing a right-handed frame.
func (c UnitCell) Vectors() [3]r3.Vec {
	cosA, cosB, cosG := cosDeg(c.Alpha), cosDeg(c.Beta), cosDeg(c.Gamma)
	sinG := sinDeg(c.Gamma)

	a := r3.Vec{X: c.A}
	b := r3.Vec{X: c.B * cosG, Y: c.B * sinG}
	cx := c.C * cosB
	cy := c.C * (cosA - cosB*cosG) / sinG
	cz := math.Sqrt(math.Max(0, c.C*c.C-cx*cx-cy*cy))
	return [3]r3.Vec{snap(a), snap(b), snap(r3.Vec{X: cx, Y: cy, Z: cz})}
}

// Matrix returns Vectors as rows of a 3×3 matrix.
func (c UnitCell) Matrix() [3][3]float64 {
	v := c.Vectors()
	var m [3][3]float64
	for i := range v {
		m[i] = [3]float64{v[i].X, v[i].Y, v[i].Z}
	}
	return m
}

func (c UnitCell) String() string {
	return fmt.Sprintf("cell(%g, %g, %g; %g, %g, %g)", c.A, c.B, c.C, c.Alpha, c.Beta, c.Gamma)
}

func cosDeg(d float64) float64 {
	v := math.Cos(d * math.Pi / 180)
	if math.Abs(v) < zeroTolerance {
		return 0
	}
	return v
}

func sinDeg(d float64) float64 {
	v := math.Sin(d * math.Pi / 180)
	if math.Abs(v) < zeroTolerance {
		return 0
	}
	return v
}

func snap(v r3.Vec) r3.Vec {
	f := func(x float64) float64 {
		if math.Abs(x) < zeroTolerance {
			return 0
		}
		return x
	}
	return r3.Vec{X: f(v.X), Y: f(v.Y), Z: f(v.Z)}
}

// round2 rounds to two decimal places, the precision every comparison in this package uses.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
