package structure

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/dkoosis/dftjob/pkg/lattice"
)

func rutile(t *testing.T) Structure {
	t.Helper()
	const alat = 4.0
	cell, err := lattice.NewUnitCell([3]float64{alat, alat, alat}, [3]float64{90, 90, 90})
	require.NoError(t, err)
	return Structure{
		Sites: []AtomSite{
			{Symbol: "Ti", Position: [3]float64{alat / 2, alat / 2, alat / 2}},
			{Symbol: "O", Position: [3]float64{alat / 2, alat / 2, 0}},
			{Symbol: "O", Position: [3]float64{alat / 2, 0, alat / 2}},
		},
		Cell:     cell,
		Periodic: [3]bool{true, true, true},
		Units:    Angstroem,
	}
}

func hexagonal(t *testing.T, periodic bool) Structure {
	t.Helper()
	cell, err := lattice.NewUnitCell([3]float64{5, 5, 7}, [3]float64{90, 90, 120})
	require.NoError(t, err)
	return Structure{
		Sites:    []AtomSite{{Symbol: "C", Position: [3]float64{0, 0, 0}}},
		Cell:     cell,
		Periodic: [3]bool{periodic, periodic, periodic},
	}
}

func TestTranslate_PreservesAtomOrder_When_StructureValid(t *testing.T) {
	t.Parallel()

	s := rutile(t)
	block, err := Translate(s)
	require.NoError(t, err)

	require.Len(t, block.Positions, len(s.Sites))
	for i, site := range s.Sites {
		assert.Equal(t, site.Symbol, block.Positions[i].Symbol, "index %d", i)
		assert.Equal(t, site.Position, block.Positions[i].XYZ, "index %d", i)
	}
	assert.Equal(t, []string{"Ti", "O", "O"}, block.Symbols())
	assert.Equal(t, Angstroem, block.Units)
	require.NotNil(t, block.Cell)
	assert.Equal(t, [3][3]float64{{4, 0, 0}, {0, 4, 0}, {0, 0, 4}}, *block.Cell)
}

func TestTranslate_NeverSortsSites_When_SymbolsOutOfOrder(t *testing.T) {
	t.Parallel()

	s := Structure{Sites: []AtomSite{
		{Symbol: "Zn"}, {Symbol: "Al"}, {Symbol: "O"}, {Symbol: "Al"},
	}}
	block, err := Translate(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zn", "Al", "O", "Al"}, block.Symbols())
}

func TestTranslate_ReturnsGeometryError_When_PeriodicCellNotOrthorhombic(t *testing.T) {
	t.Parallel()

	_, err := Translate(hexagonal(t, true))
	require.Error(t, err)
	assert.ErrorIs(t, err, lattice.ErrGeometry)

	_, err = Translate(hexagonal(t, true), WithCoerce(true))
	require.Error(t, err)
	assert.ErrorIs(t, err, lattice.ErrUnsupportedTransform)
	assert.Contains(t, err.Error(), "hexagonal")
}

func TestTranslate_SkipsCellCheck_When_StructureIsFree(t *testing.T) {
	t.Parallel()

	block, err := Translate(hexagonal(t, false))
	require.NoError(t, err)
	assert.Nil(t, block.Cell)
	assert.Len(t, block.Positions, 1)
}

func TestTranslate_KeepsSuppliedVectors_When_Present(t *testing.T) {
	t.Parallel()

	yamlDoc := "cell: [[0, 4, 0], [4, 0, 0], [0, 0, 4]]\nsites:\n  - {symbol: H, position: [0, 0, 0]}\n"
	s, err := Load(strings.NewReader(yamlDoc))
	require.NoError(t, err)

	block, err := Translate(s)
	require.NoError(t, err)
	require.NotNil(t, block.Cell)
	assert.Equal(t, [3]float64{0, 4, 0}, block.Cell[0])
}

func TestTranslate_ReturnsInvalidStructure_When_UnitsOrAtomsWrong(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		s    Structure
	}{
		{"no atoms", Structure{}},
		{"bohr units", Structure{Units: "bohr", Sites: []AtomSite{{Symbol: "H"}}}},
		{"blank symbol", Structure{Sites: []AtomSite{{Symbol: ""}}}},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Translate(tt.s)
			assert.ErrorIs(t, err, ErrInvalidStructure)
		})
	}
}

func TestPositionBlock_MarshalsCanonicalShape(t *testing.T) {
	t.Parallel()

	block, err := Translate(rutile(t))
	require.NoError(t, err)

	out, err := yaml.Marshal(block)
	require.NoError(t, err)
	text := string(out)

	assert.Contains(t, text, "Ti: [2.0, 2.0, 2.0]")
	assert.Contains(t, text, "O: [2.0, 0.0, 2.0]")
	assert.Less(t, strings.Index(text, "units:"), strings.Index(text, "positions:"))
	assert.Less(t, strings.Index(text, "positions:"), strings.Index(text, "abc:"))
	assert.NotContains(t, text, "cell:")
}

func TestPositionBlock_RoundTrips_When_ReadBack(t *testing.T) {
	t.Parallel()

	block, err := Translate(rutile(t))
	require.NoError(t, err)
	out, err := yaml.Marshal(block)
	require.NoError(t, err)

	var back PositionBlock
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, block, back)

	cell, ok := back.UnitCell()
	require.True(t, ok)
	assert.Equal(t, lattice.Cubic, lattice.Classify(cell))
}

func TestParsePosinp_AcceptsLegacyShape(t *testing.T) {
	t.Parallel()

	legacy := `
cell: [8.0, .inf, 8.0]
units: angstroem
positions:
  - Si: [0.0, 0.0, 0.0]
  - H: [1.5, 0, 0]
`
	var raw map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(legacy), &raw))

	block, err := ParsePosinp(raw)
	require.NoError(t, err)
	assert.Equal(t, []string{"Si", "H"}, block.Symbols())
	assert.Equal(t, [3]float64{1.5, 0, 0}, block.Positions[1].XYZ)
	require.NotNil(t, block.Cell)
	assert.Equal(t, [3]bool{true, false, true}, block.Periodic())

	_, ok := block.UnitCell()
	assert.False(t, ok, "surface cell has no finite unit cell")

	out, err := yaml.Marshal(block)
	require.NoError(t, err)
	assert.Contains(t, string(out), "abc:")
	assert.Contains(t, string(out), ".inf")
	assert.NotContains(t, string(out), "cell:")
}

func TestParsePosinp_ReturnsError_When_ShapeInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"missing positions", "units: angstroem\n"},
		{"bohr", "units: bohr\npositions: []\n"},
		{"short vector", "positions:\n  - H: [0, 0]\n"},
		{"two symbols", "positions:\n  - {H: [0, 0, 0], He: [1, 1, 1]}\n"},
		{"bad abc", "positions: []\nabc: [[1, 0, 0]]\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var raw map[string]any
			require.NoError(t, yaml.Unmarshal([]byte(tt.doc), &raw))
			_, err := ParsePosinp(raw)
			assert.Error(t, err)
		})
	}
}

func TestLoad_ReadsLengthsAndAngles(t *testing.T) {
	t.Parallel()

	doc := `
lengths: [5, 6, 7]
sites:
  - {symbol: Na, position: [0, 0, 0]}
  - {symbol: Cl, position: [2.5, 3, 3.5]}
`
	s, err := Load(strings.NewReader(doc))
	require.NoError(t, err)
	assert.True(t, s.IsPeriodic())
	assert.Equal(t, lattice.Orthorhombic, lattice.Classify(s.Cell))
	assert.Len(t, s.Sites, 2)
}

func TestLoad_ReturnsError_When_FileInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		doc  string
	}{
		{"empty", ""},
		{"unknown field", "atoms: []\n"},
		{"periodic without cell", "pbc: [true, false, false]\nsites: [{symbol: H, position: [0, 0, 0]}]\n"},
		{"cell and lengths", "cell: [[1,0,0],[0,1,0],[0,0,1]]\nlengths: [1, 1, 1]\nsites: [{symbol: H, position: [0, 0, 0]}]\n"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := Load(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}
