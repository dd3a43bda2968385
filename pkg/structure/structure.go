// Package structure translates a generic atom list and cell into the
// solver's posinp block.
package structure

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/spatial/r3"

	"github.com/dkoosis/dftjob/pkg/lattice"
)

// Angstroem is the only length unit this package emits. No conversion is
// performed; callers must supply positions and cells in Å.
const Angstroem = "angstroem"

// ErrInvalidStructure is returned for structures that are malformed independently of their cell.
var ErrInvalidStructure = errors.New("invalid structure")

// AtomSite is one atom: chemical symbol plus Cartesian position.
type AtomSite struct {
	Symbol   string
	Position [3]float64
}

// Structure is an ordered list of sites with one cell and per-axis periodicity.
// Site order is the atom index used when attaching results, so it is never changed.
type Structure struct {
	Sites    []AtomSite
	Cell     lattice.UnitCell
	Periodic [3]bool
	Units    string

	// Vectors holds the edge vectors as supplied. Nil means Cell's standard setting.
	Vectors *[3]r3.Vec
}

// IsPeriodic reports whether any axis is periodic.
func (s Structure) IsPeriodic() bool {
	return s.Periodic[0] || s.Periodic[1] || s.Periodic[2]
}

// Validate checks the structure's own consistency. Cell geometry is left to
// the lattice package.
func (s Structure) Validate() error {
	if s.Units != "" && s.Units != Angstroem {
		return fmt.Errorf("%w: unsupported length unit %q (only %q is accepted)", ErrInvalidStructure, s.Units, Angstroem)
	}
	if len(s.Sites) == 0 {
		return fmt.Errorf("%w: no atoms", ErrInvalidStructure)
	}
	for i, site := range s.Sites {
		if site.Symbol == "" {
			return fmt.Errorf("%w: atom %d has no symbol", ErrInvalidStructure, i)
		}
	}
	return nil
}
