package structure

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
)

// WriteXYZ writes the block in the solver's xyz flavour:
//
//	<natoms> angstroem
//	free | periodic a b c | surface a inf c
//	Sym x y z
//
// Only box (diagonal) cells can be written; anything else is an error.
func WriteXYZ(w io.Writer, b PositionBlock) error {
	bc, err := xyzBoundary(b)
	if err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	units := b.Units
	if units == "" {
		units = Angstroem
	}
	fmt.Fprintf(bw, "%d %s\n", len(b.Positions), units)
	fmt.Fprintln(bw, bc)
	for _, p := range b.Positions {
		fmt.Fprintf(bw, "%-4s %s %s %s\n", p.Symbol, xyzFloat(p.XYZ[0]), xyzFloat(p.XYZ[1]), xyzFloat(p.XYZ[2]))
	}
	return bw.Flush()
}

func xyzBoundary(b PositionBlock) (string, error) {
	if b.Cell == nil {
		return "free", nil
	}
	m := *b.Cell
	for i := range m {
		for j := range m[i] {
			if i != j && m[i][j] != 0 {
				return "", fmt.Errorf("xyz output needs a box cell, row %d is not axis-aligned", i)
			}
		}
	}
	p := b.Periodic()
	switch {
	case p[0] && p[1] && p[2]:
		return fmt.Sprintf("periodic %s %s %s", xyzFloat(m[0][0]), xyzFloat(m[1][1]), xyzFloat(m[2][2])), nil
	case p[0] && !p[1] && p[2]:
		return fmt.Sprintf("surface %s inf %s", xyzFloat(m[0][0]), xyzFloat(m[2][2])), nil
	case !p[0] && !p[1] && !p[2]:
		return "free", nil
	default:
		return "", fmt.Errorf("xyz output supports periodic, surface (free y) or free boundaries, got %v", p)
	}
}

func xyzFloat(x float64) string {
	if math.IsInf(x, 0) {
		return "inf"
	}
	return strconv.FormatFloat(x, 'f', -1, 64)
}
