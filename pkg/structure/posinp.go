package structure

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
	"gopkg.in/yaml.v3"

	"github.com/dkoosis/dftjob/pkg/lattice"
)

// Position is one entry of the posinp positions list, serialized as a
// single-key mapping {symbol: [x, y, z]}.
type Position struct {
	Symbol string
	XYZ    [3]float64
}

// PositionBlock is the posinp block of an input document.
// Cell is nil for free (non-periodic) boundary conditions.
type PositionBlock struct {
	Units     string
	Positions []Position
	Cell      *[3][3]float64
}

// Option configures Translate.
type Option func(*options)

type options struct {
	coerce bool
}

// WithCoerce asks for non-orthorhombic cells to be classified and reported
// as an unsupported transform instead of a plain geometry error.
func WithCoerce(coerce bool) Option {
	return func(o *options) { o.coerce = coerce }
}

// Translate builds the posinp block for s. Periodic structures must pass the
// orthorhombic check before anything is built; free structures skip it.
// Non-periodic axes of a partially periodic structure carry .inf in abc.
func Translate(s Structure, opts ...Option) (PositionBlock, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := s.Validate(); err != nil {
		return PositionBlock{}, err
	}

	block := PositionBlock{Units: Angstroem}
	if s.IsPeriodic() {
		cell, err := lattice.CheckOrthorhombic(s.Cell, o.coerce)
		if err != nil {
			return PositionBlock{}, err
		}
		m := cell.Matrix()
		if s.Vectors != nil {
			for i, v := range s.Vectors {
				m[i] = [3]float64{v.X, v.Y, v.Z}
			}
		}
		// A free axis is written as an infinite box edge.
		for i, periodic := range s.Periodic {
			if !periodic {
				m[i] = [3]float64{}
				m[i][i] = math.Inf(1)
			}
		}
		block.Cell = &m
	}

	block.Positions = make([]Position, len(s.Sites))
	for i, site := range s.Sites {
		block.Positions[i] = Position{Symbol: site.Symbol, XYZ: site.Position}
	}
	return block, nil
}

// Symbols returns the atom symbols in index order.
func (b PositionBlock) Symbols() []string {
	out := make([]string, len(b.Positions))
	for i, p := range b.Positions {
		out[i] = p.Symbol
	}
	return out
}

// MarshalYAML writes the canonical shape with fixed key order: units, positions, abc.
func (b PositionBlock) MarshalYAML() (any, error) {
	units := b.Units
	if units == "" {
		units = Angstroem
	}
	positions := &yaml.Node{Kind: yaml.SequenceNode}
	for _, p := range b.Positions {
		positions.Content = append(positions.Content, &yaml.Node{
			Kind:    yaml.MappingNode,
			Content: []*yaml.Node{strNode(p.Symbol), vecNode(p.XYZ)},
		})
	}
	root := &yaml.Node{Kind: yaml.MappingNode}
	root.Content = append(root.Content,
		strNode("units"), strNode(units),
		strNode("positions"), positions,
	)
	if b.Cell != nil {
		abc := &yaml.Node{Kind: yaml.SequenceNode}
		for _, row := range b.Cell {
			abc.Content = append(abc.Content, vecNode(row))
		}
		root.Content = append(root.Content, strNode("abc"), abc)
	}
	return root, nil
}

// UnmarshalYAML accepts both the canonical and the legacy posinp shapes.
func (b *PositionBlock) UnmarshalYAML(n *yaml.Node) error {
	var raw map[string]any
	if err := n.Decode(&raw); err != nil {
		return err
	}
	parsed, err := ParsePosinp(raw)
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// ParsePosinp reads a decoded posinp mapping. Two shapes are accepted:
//
//	{units, positions, abc}   canonical, abc is a 3×3 matrix of edge vectors
//	{cell, positions, units}  legacy, cell is three box lengths or a 3×3 matrix
//
// A legacy length of .inf marks a free axis; such cells are kept as written.
func ParsePosinp(raw map[string]any) (PositionBlock, error) {
	var b PositionBlock

	b.Units = Angstroem
	if u, ok := raw["units"]; ok {
		s, ok := u.(string)
		if !ok {
			return PositionBlock{}, fmt.Errorf("posinp: units must be a string, got %T", u)
		}
		b.Units = strings.ToLower(s)
	}
	if b.Units != Angstroem {
		return PositionBlock{}, fmt.Errorf("posinp: unsupported units %q", b.Units)
	}

	list, ok := raw["positions"].([]any)
	if !ok {
		return PositionBlock{}, fmt.Errorf("posinp: positions must be a list")
	}
	b.Positions = make([]Position, 0, len(list))
	for i, entry := range list {
		p, err := parsePosition(entry)
		if err != nil {
			return PositionBlock{}, fmt.Errorf("posinp: position %d: %w", i, err)
		}
		b.Positions = append(b.Positions, p)
	}

	switch {
	case raw["abc"] != nil:
		m, err := parseMatrix(raw["abc"])
		if err != nil {
			return PositionBlock{}, fmt.Errorf("posinp: abc: %w", err)
		}
		b.Cell = &m
	case raw["cell"] != nil:
		m, err := parseLegacyCell(raw["cell"])
		if err != nil {
			return PositionBlock{}, fmt.Errorf("posinp: cell: %w", err)
		}
		b.Cell = &m
	}
	return b, nil
}

// Periodic reports which axes carry a finite cell vector.
func (b PositionBlock) Periodic() [3]bool {
	var p [3]bool
	if b.Cell == nil {
		return p
	}
	for i, row := range b.Cell {
		p[i] = !math.IsInf(row[0], 0) && !math.IsInf(row[1], 0) && !math.IsInf(row[2], 0)
	}
	return p
}

// UnitCell returns the cell described by the block, if fully periodic.
func (b PositionBlock) UnitCell() (lattice.UnitCell, bool) {
	if b.Cell == nil {
		return lattice.UnitCell{}, false
	}
	p := b.Periodic()
	if !p[0] || !p[1] || !p[2] {
		return lattice.UnitCell{}, false
	}
	var v [3]r3.Vec
	for i, row := range b.Cell {
		v[i] = r3.Vec{X: row[0], Y: row[1], Z: row[2]}
	}
	cell, err := lattice.UnitCellFromVectors(v)
	if err != nil {
		return lattice.UnitCell{}, false
	}
	return cell, true
}

func parsePosition(entry any) (Position, error) {
	m, ok := entry.(map[string]any)
	if !ok {
		return Position{}, fmt.Errorf("expected a single-key mapping, got %T", entry)
	}
	// Extra keys (e.g. frozen flags) are tolerated; exactly one key must hold coordinates.
	var (
		pos   Position
		found int
	)
	for k, v := range m {
		xyz, err := parseVec(v)
		if err != nil {
			continue
		}
		pos = Position{Symbol: k, XYZ: xyz}
		found++
	}
	if found != 1 {
		return Position{}, fmt.Errorf("expected exactly one symbol with coordinates, found %d", found)
	}
	return pos, nil
}

func parseMatrix(v any) ([3][3]float64, error) {
	rows, ok := v.([]any)
	if !ok || len(rows) != 3 {
		return [3][3]float64{}, fmt.Errorf("expected 3 rows")
	}
	var m [3][3]float64
	for i, r := range rows {
		vec, err := parseVec(r)
		if err != nil {
			return [3][3]float64{}, fmt.Errorf("row %d: %w", i, err)
		}
		m[i] = vec
	}
	return m, nil
}

func parseLegacyCell(v any) ([3][3]float64, error) {
	if m, err := parseMatrix(v); err == nil {
		return m, nil
	}
	lengths, err := parseVec(v)
	if err != nil {
		return [3][3]float64{}, fmt.Errorf("expected three lengths or a 3×3 matrix: %w", err)
	}
	var m [3][3]float64
	for i, l := range lengths {
		m[i][i] = l
	}
	return m, nil
}

func parseVec(v any) ([3]float64, error) {
	list, ok := v.([]any)
	if !ok || len(list) != 3 {
		return [3]float64{}, fmt.Errorf("expected three numbers")
	}
	var out [3]float64
	for i, x := range list {
		f, err := toFloat(x)
		if err != nil {
			return [3]float64{}, err
		}
		out[i] = f
	}
	return out, nil
}

func toFloat(x any) (float64, error) {
	switch n := x.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case string:
		// Some writers quote infinities.
		switch strings.ToLower(strings.TrimSpace(n)) {
		case ".inf", "inf", "+inf", "infinity":
			return math.Inf(1), nil
		}
		return strconv.ParseFloat(n, 64)
	default:
		return 0, fmt.Errorf("not a number: %v (%T)", x, x)
	}
}

func strNode(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func vecNode(v [3]float64) *yaml.Node {
	n := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	for _, x := range v {
		n.Content = append(n.Content, floatNode(x))
	}
	return n
}

// floatNode formats x so it always resolves back to a float.
func floatNode(x float64) *yaml.Node {
	var s string
	switch {
	case math.IsInf(x, 1):
		s = ".inf"
	case math.IsInf(x, -1):
		s = "-.inf"
	case math.IsNaN(x):
		s = ".nan"
	default:
		s = strconv.FormatFloat(x, 'g', -1, 64)
		if !strings.ContainsAny(s, ".eE") {
			s += ".0"
		}
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!float", Value: s}
}
