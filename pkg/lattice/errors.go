package lattice

import (
	"errors"
	"fmt"
)

// Sentinel errors for lattice validation. Typed errors below match them with errors.Is.
var (
	ErrGeometry             = errors.New("geometry error")
	ErrUnsupportedTransform = errors.New("unsupported transform")
)

// GeometryError reports a cell the solver cannot accept. User-correctable.
type GeometryError struct {
	Reason string
}

func (e *GeometryError) Error() string {
	if e == nil {
		return ""
	}
	return "geometry: " + e.Reason
}

func (e *GeometryError) Is(target error) bool { return target == ErrGeometry }

// UnsupportedTransformError reports that coercion was requested for a cell
// whose crystal family has no orthorhombic transform.
type UnsupportedTransformError struct {
	Class CrystalClass
}

func (e *UnsupportedTransformError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("cannot transform to orthorhombic for %s cell", e.Class)
}

func (e *UnsupportedTransformError) Is(target error) bool { return target == ErrUnsupportedTransform }
