package structure

import (
	"errors"
	"fmt"
	"io"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/dkoosis/dftjob/pkg/lattice"
)

// fileSite and fileStructure are the on-disk shape accepted by Load:
//
//	units: angstroem
//	pbc: [true, true, true]
//	cell: [[4, 0, 0], [0, 4, 0], [0, 0, 4]]   # or lengths + angles
//	sites:
//	  - {symbol: Ti, position: [2, 2, 2]}
type fileSite struct {
	Symbol   string     `yaml:"symbol"`
	Position [3]float64 `yaml:"position"`
}

type fileStructure struct {
	Units   string         `yaml:"units"`
	PBC     *[3]bool       `yaml:"pbc"`
	Cell    *[3][3]float64 `yaml:"cell"`
	Lengths *[3]float64    `yaml:"lengths"`
	Angles  *[3]float64    `yaml:"angles"`
	Sites   []fileSite     `yaml:"sites"`
}

// Load reads a structure description. A cell makes the structure periodic on
// all axes unless pbc says otherwise; no cell means free boundary conditions.
func Load(r io.Reader) (Structure, error) {
	var f fileStructure
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return Structure{}, fmt.Errorf("%w: empty structure file", ErrInvalidStructure)
		}
		return Structure{}, fmt.Errorf("decoding structure: %w", err)
	}

	s := Structure{Units: f.Units}
	if s.Units == "" {
		s.Units = Angstroem
	}
	for _, site := range f.Sites {
		s.Sites = append(s.Sites, AtomSite(site))
	}

	hasCell := f.Cell != nil || f.Lengths != nil
	switch {
	case f.Cell != nil && f.Lengths != nil:
		return Structure{}, fmt.Errorf("%w: give either cell or lengths/angles, not both", ErrInvalidStructure)
	case f.Cell != nil:
		var v [3]r3.Vec
		for i, row := range f.Cell {
			v[i] = r3.Vec{X: row[0], Y: row[1], Z: row[2]}
		}
		cell, err := lattice.UnitCellFromVectors(v)
		if err != nil {
			return Structure{}, err
		}
		s.Cell = cell
		s.Vectors = &v
	case f.Lengths != nil:
		angles := [3]float64{lattice.RightAngle, lattice.RightAngle, lattice.RightAngle}
		if f.Angles != nil {
			angles = *f.Angles
		}
		cell, err := lattice.NewUnitCell(*f.Lengths, angles)
		if err != nil {
			return Structure{}, err
		}
		s.Cell = cell
	}

	switch {
	case f.PBC != nil:
		s.Periodic = *f.PBC
	case hasCell:
		s.Periodic = [3]bool{true, true, true}
	}
	if s.IsPeriodic() && !hasCell {
		return Structure{}, fmt.Errorf("%w: periodic structure needs a cell", ErrInvalidStructure)
	}
	if err := s.Validate(); err != nil {
		return Structure{}, err
	}
	return s, nil
}
