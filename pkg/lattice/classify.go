package lattice

import (
	"sort"
	"sync"
)

// CrystalClass is the geometric family of a unit cell.
type CrystalClass string

const (
	Cubic        CrystalClass = "cubic"
	Tetragonal   CrystalClass = "tetragonal"
	Monoclinic   CrystalClass = "monoclinic"
	Orthorhombic CrystalClass = "orthorhombic"
	Rhombohedral CrystalClass = "rhombohedral"
	Hexagonal    CrystalClass = "hexagonal"
	Triclinic    CrystalClass = "triclinic"
	Unclassified CrystalClass = "unclassified"
)

func (c CrystalClass) String() string { return string(c) }

// cellKey is the rounded, sorted shape of a cell. Equal keys always classify the same.
type cellKey struct {
	lengths [3]float64
	angles  [3]float64
}

// classCache memoizes Classify by value. Concurrent misses may both compute;
// they store the same answer.
var classCache sync.Map // cellKey -> CrystalClass

func keyOf(c UnitCell) cellKey {
	l := c.Lengths()
	a := c.Angles()
	for i := range l {
		l[i] = round2(l[i])
		a[i] = round2(a[i])
	}
	sort.Float64s(l[:])
	sort.Float64s(a[:])
	return cellKey{lengths: l, angles: a}
}

// Classify returns the crystal family of c. Several families share boundary
// cases at 90 and 120 degrees, so tests run in a fixed priority order and the
// first match wins.
func Classify(c UnitCell) CrystalClass {
	k := keyOf(c)
	if v, ok := classCache.Load(k); ok {
		return v.(CrystalClass)
	}
	class := classifyKey(k)
	classCache.Store(k, class)
	return class
}

func classifyKey(k cellKey) CrystalClass {
	l, a := k.lengths, k.angles
	lenAllEqual := l[0] == l[1] && l[1] == l[2]
	lenTwoEqual := !lenAllEqual && (l[0] == l[1] || l[1] == l[2])
	lenDistinct := l[0] != l[1] && l[1] != l[2]

	angAllRight := a[0] == RightAngle && a[1] == RightAngle && a[2] == RightAngle
	angAllEqual := a[0] == a[1] && a[1] == a[2]
	angDistinct := a[0] != a[1] && a[1] != a[2]
	sumNot270 := a[0]+a[1]+a[2] != 3*RightAngle

	switch {
	case lenAllEqual && angAllRight:
		return Cubic
	case lenTwoEqual && angAllRight:
		return Tetragonal
	case lenDistinct && angAllEqual && a[0] != RightAngle && sumNot270:
		return Monoclinic
	case lenDistinct && angAllRight:
		return Orthorhombic
	case lenAllEqual && angAllEqual && a[0] != RightAngle && sumNot270:
		return Rhombohedral
	case lenTwoEqual && a[0] == RightAngle && a[1] == RightAngle && a[2] == 120:
		return Hexagonal
	case lenDistinct && angDistinct && sumNot270:
		return Triclinic
	default:
		return Unclassified
	}
}

// CheckOrthorhombic returns c unchanged when it is orthorhombic.
// Otherwise it fails with a *GeometryError, or, when coerce is set, with an
// *UnsupportedTransformError naming the detected family. No transform is ever
// attempted.
func CheckOrthorhombic(c UnitCell, coerce bool) (UnitCell, error) {
	if c.IsOrthorhombic() {
		return c, nil
	}
	if !coerce {
		return UnitCell{}, &GeometryError{Reason: "non-orthorhombic cells are not supported"}
	}
	return UnitCell{}, &UnsupportedTransformError{Class: Classify(c)}
}
