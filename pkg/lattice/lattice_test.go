package lattice

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"gonum.org/v1/gonum/spatial/r3"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func mustCell(t *testing.T, a, b, c, alpha, beta, gamma float64) UnitCell {
	t.Helper()
	cell, err := NewUnitCell([3]float64{a, b, c}, [3]float64{alpha, beta, gamma})
	require.NoError(t, err)
	return cell
}

func TestIsOrthorhombic_ReturnsTrue_When_AnglesRoundToNinety(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		lengths [3]float64
		angles  [3]float64
		want    bool
	}{
		{"exact right angles", [3]float64{5, 5, 5}, [3]float64{90, 90, 90}, true},
		{"arbitrary lengths", [3]float64{1.3, 27, 0.4}, [3]float64{90, 90, 90}, true},
		{"noise below rounding", [3]float64{4, 5, 6}, [3]float64{90.004, 89.996, 90.001}, true},
		{"noise above rounding", [3]float64{4, 5, 6}, [3]float64{90.006, 90, 90}, false},
		{"hexagonal gamma", [3]float64{5, 5, 7}, [3]float64{90, 90, 120}, false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cell, err := NewUnitCell(tt.lengths, tt.angles)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cell.IsOrthorhombic())
		})
	}
}

func TestNewUnitCell_ReturnsGeometryError_When_InputInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		lengths [3]float64
		angles  [3]float64
	}{
		{"zero length", [3]float64{0, 1, 1}, [3]float64{90, 90, 90}},
		{"negative length", [3]float64{1, -1, 1}, [3]float64{90, 90, 90}},
		{"zero angle", [3]float64{1, 1, 1}, [3]float64{0, 90, 90}},
		{"straight angle", [3]float64{1, 1, 1}, [3]float64{90, 180, 90}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewUnitCell(tt.lengths, tt.angles)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrGeometry)
		})
	}
}

func TestClassify_ReturnsFamily_When_GivenReferenceCells(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cell [6]float64
		want CrystalClass
	}{
		{"cubic", [6]float64{5, 5, 5, 90, 90, 90}, Cubic},
		{"tetragonal", [6]float64{5, 5, 7, 90, 90, 90}, Tetragonal},
		{"tetragonal permuted", [6]float64{7, 5, 5, 90, 90, 90}, Tetragonal},
		{"orthorhombic", [6]float64{5, 6, 7, 90, 90, 90}, Orthorhombic},
		{"hexagonal", [6]float64{5, 5, 7, 90, 90, 120}, Hexagonal},
		{"hexagonal permuted", [6]float64{5, 7, 5, 90, 120, 90}, Hexagonal},
		{"rhombohedral", [6]float64{4, 4, 4, 70, 70, 70}, Rhombohedral},
		{"monoclinic", [6]float64{4, 5, 6, 80, 80, 80}, Monoclinic},
		{"triclinic", [6]float64{4, 5, 6, 70, 80, 100}, Triclinic},
		{"triclinic summing to 270", [6]float64{4, 5, 6, 80, 90, 100}, Unclassified},
		{"equal lengths mixed angles", [6]float64{4, 4, 4, 80, 90, 100}, Unclassified},
		{"rounding merges lengths", [6]float64{5.001, 4.999, 5.0, 90, 90, 90}, Cubic},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := tt.cell
			cell := mustCell(t, c[0], c[1], c[2], c[3], c[4], c[5])
			assert.Equal(t, tt.want, Classify(cell))
		})
	}
}

func TestClassify_IsStable_When_CalledConcurrently(t *testing.T) {
	t.Parallel()

	cells := []UnitCell{
		mustCell(t, 3.1, 3.1, 3.1, 90, 90, 90),
		mustCell(t, 3.1, 3.1, 8.2, 90, 90, 120),
		mustCell(t, 2.5, 3.5, 4.5, 60, 70, 80),
	}
	want := []CrystalClass{Cubic, Hexagonal, Triclinic}

	var wg sync.WaitGroup
	results := make([][]CrystalClass, 16)
	for g := range results {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for _, c := range cells {
				results[g] = append(results[g], Classify(c))
			}
		}(g)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestCheckOrthorhombic_ReturnsCellUnchanged_When_Orthorhombic(t *testing.T) {
	t.Parallel()

	cell := mustCell(t, 4, 5, 6, 90, 90, 90)
	for _, coerce := range []bool{false, true} {
		got, err := CheckOrthorhombic(cell, coerce)
		require.NoError(t, err)
		assert.Equal(t, cell, got)
	}
}

func TestCheckOrthorhombic_ReturnsGeometryError_When_NotCoercing(t *testing.T) {
	t.Parallel()

	for _, c := range [][6]float64{
		{5, 5, 7, 90, 90, 120},
		{4, 4, 4, 70, 70, 70},
		{4, 5, 6, 70, 80, 100},
	} {
		cell := mustCell(t, c[0], c[1], c[2], c[3], c[4], c[5])
		got, err := CheckOrthorhombic(cell, false)
		require.Error(t, err)
		assert.Equal(t, UnitCell{}, got)

		var ge *GeometryError
		require.True(t, errors.As(err, &ge))
		assert.Contains(t, ge.Error(), "non-orthorhombic cells are not supported")
		assert.NotErrorIs(t, err, ErrUnsupportedTransform)
	}
}

func TestCheckOrthorhombic_NamesDetectedClass_When_Coercing(t *testing.T) {
	t.Parallel()

	cell := mustCell(t, 5, 5, 7, 90, 90, 120)
	_, err := CheckOrthorhombic(cell, true)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedTransform)

	var ut *UnsupportedTransformError
	require.True(t, errors.As(err, &ut))
	assert.Equal(t, Hexagonal, ut.Class)
	assert.Contains(t, err.Error(), "hexagonal")
}

func TestVectors_RoundTripsThroughUnitCellFromVectors(t *testing.T) {
	t.Parallel()

	tests := []UnitCell{
		mustCell(t, 4, 5, 6, 90, 90, 90),
		mustCell(t, 3, 3, 5, 90, 90, 120),
		mustCell(t, 4, 5, 6, 70, 80, 100),
	}
	for _, cell := range tests {
		back, err := UnitCellFromVectors(cell.Vectors())
		require.NoError(t, err)
		assert.InDelta(t, cell.A, back.A, 1e-9)
		assert.InDelta(t, cell.B, back.B, 1e-9)
		assert.InDelta(t, cell.C, back.C, 1e-9)
		assert.InDelta(t, cell.Alpha, back.Alpha, 1e-9)
		assert.InDelta(t, cell.Beta, back.Beta, 1e-9)
		assert.InDelta(t, cell.Gamma, back.Gamma, 1e-9)
	}
}

func TestMatrix_IsDiagonal_When_Orthorhombic(t *testing.T) {
	t.Parallel()

	m := mustCell(t, 4, 5, 6, 90, 90, 90).Matrix()
	assert.Equal(t, [3][3]float64{{4, 0, 0}, {0, 5, 0}, {0, 0, 6}}, m)
}

func TestUnitCellFromVectors_ReturnsGeometryError_When_VectorIsZero(t *testing.T) {
	t.Parallel()

	_, err := UnitCellFromVectors([3]r3.Vec{{X: 1}, {}, {Z: 1}})
	assert.ErrorIs(t, err, ErrGeometry)
}
