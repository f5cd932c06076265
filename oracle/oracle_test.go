package oracle

import (
	"testing"

	"github.com/bits-and-blooms/bitset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxjeanfavre/grover/circuit"
	"github.com/maxjeanfavre/grover/grid"
	"github.com/maxjeanfavre/grover/register"
)

func blankLayout(t *testing.T, rows, cols int) *register.Layout {
	t.Helper()
	g, err := grid.New(rows, cols)
	require.NoError(t, err)
	l, err := register.NewLayout(g, AncillaBudget(g))
	require.NoError(t, err)
	return l
}

// assign builds an all-zero register assignment with the given row-major
// cell values loaded into the data region.
func assign(l *register.Layout, values []int) *bitset.BitSet {
	a := bitset.New(uint(l.NbQubits()))
	for i := 0; i < l.Rows(); i++ {
		for j := 0; j < l.Cols(); j++ {
			v := values[i*l.Cols()+j]
			for b := 0; b < l.K(); b++ {
				if v>>uint(b)&1 == 1 {
					a.Set(uint(l.Data(i, j, b)))
				}
			}
		}
	}
	return a
}

// forEachAssignment enumerates every possible data-region assignment.
func forEachAssignment(l *register.Layout, f func(values []int)) {
	nbCells := l.Rows() * l.Cols()
	total := 1
	for c := 0; c < nbCells; c++ {
		total *= 1 << uint(l.K())
	}
	values := make([]int, nbCells)
	for x := 0; x < total; x++ {
		v := x
		for c := 0; c < nbCells; c++ {
			values[c] = v % (1 << uint(l.K()))
			v /= 1 << uint(l.K())
		}
		f(values)
	}
}

func hasRowDuplicate(values []int, rows, cols int) bool {
	for i := 0; i < rows; i++ {
		for a := 0; a < cols; a++ {
			for b := a + 1; b < cols; b++ {
				if values[i*cols+a] == values[i*cols+b] {
					return true
				}
			}
		}
	}
	return false
}

func hasColDuplicate(values []int, rows, cols int) bool {
	for j := 0; j < cols; j++ {
		for a := 0; a < rows; a++ {
			for b := a + 1; b < rows; b++ {
				if values[a*cols+j] == values[b*cols+j] {
					return true
				}
			}
		}
	}
	return false
}

func TestCellValidityFlag(t *testing.T) {
	assert := require.New(t)

	l := blankLayout(t, 1, 3) // k=2, symbols {0,1,2}, value 3 is invalid
	c := circuit.New(l.NbQubits())
	assert.NoError(CellValidity(c, l))
	assert.Equal(0, l.AncillaInUse())

	forEachAssignment(l, func(values []int) {
		a := assign(l, values)
		want := a.Clone()
		outOfRange := false
		for _, v := range values {
			if v >= 3 {
				outOfRange = true
			}
		}
		if outOfRange {
			want.Set(uint(l.CellValidFlag()))
		}

		sign, err := c.Evaluate(a)
		assert.NoError(err)
		assert.Equal(1, sign)
		assert.True(a.Equal(want), "values %v", values)
	})
}

func TestCellValidityNoOpWhenAllValuesValid(t *testing.T) {
	// 2x2: symbols {0,1} fill the full bit range, nothing to check
	l := blankLayout(t, 2, 2)
	c := circuit.New(l.NbQubits())
	require.NoError(t, CellValidity(c, l))
	require.Equal(t, 0, c.Size())
}

func TestRowUniquenessFlag(t *testing.T) {
	assert := require.New(t)

	l := blankLayout(t, 1, 3)
	c := circuit.New(l.NbQubits())
	assert.NoError(RowUniqueness(c, l))

	forEachAssignment(l, func(values []int) {
		a := assign(l, values)
		want := a.Clone()
		if hasRowDuplicate(values, 1, 3) {
			want.Set(uint(l.RowFlag()))
		}

		_, err := c.Evaluate(a)
		assert.NoError(err)
		assert.True(a.Equal(want), "values %v", values)
	})
}

func TestColumnUniquenessFlag(t *testing.T) {
	assert := require.New(t)

	l := blankLayout(t, 3, 1)
	c := circuit.New(l.NbQubits())
	assert.NoError(ColumnUniqueness(c, l))

	forEachAssignment(l, func(values []int) {
		a := assign(l, values)
		want := a.Clone()
		if hasColDuplicate(values, 3, 1) {
			want.Set(uint(l.ColFlag()))
		}

		_, err := c.Evaluate(a)
		assert.NoError(err)
		assert.True(a.Equal(want), "values %v", values)
	})
}

func TestSubOracleRoundTripCleanliness(t *testing.T) {
	assert := require.New(t)

	subs := map[string]func(*circuit.Circuit, *register.Layout) error{
		"cell validity":     CellValidity,
		"row uniqueness":    RowUniqueness,
		"column uniqueness": ColumnUniqueness,
	}
	for name, sub := range subs {
		t.Run(name, func(t *testing.T) {
			l := blankLayout(t, 2, 2)
			c := circuit.New(l.NbQubits())
			assert.NoError(sub(c, l))
			assert.NoError(sub(c, l)) // each sub-oracle is an involution

			forEachAssignment(l, func(values []int) {
				a := assign(l, values)
				want := a.Clone()
				sign, err := c.Evaluate(a)
				assert.NoError(err)
				assert.Equal(1, sign)
				assert.True(a.Equal(want), "values %v", values)
			})
		})
	}
}

func TestMarkSetsGlobalFlag(t *testing.T) {
	assert := require.New(t)

	l := blankLayout(t, 2, 2)
	c := circuit.New(l.NbQubits())
	assert.NoError(Mark(c, l))

	forEachAssignment(l, func(values []int) {
		a := assign(l, values)
		want := a.Clone()
		if hasRowDuplicate(values, 2, 2) || hasColDuplicate(values, 2, 2) {
			want.Set(uint(l.GlobalFlag()))
		}

		_, err := c.Evaluate(a)
		assert.NoError(err)
		assert.True(a.Equal(want), "values %v", values)
	})
}

// TestPhaseBracket checks the full oracle bracket: mark, phase kick on the
// global flag, unmark. The register must come back bit-identical, and the
// amplitude sign must flip exactly for the valid completions.
func TestPhaseBracket(t *testing.T) {
	assert := require.New(t)

	cases := []struct {
		rows, cols int
		isValid    func(values []int) bool
	}{
		{2, 2, func(values []int) bool {
			return !hasRowDuplicate(values, 2, 2) && !hasColDuplicate(values, 2, 2)
		}},
		{1, 3, func(values []int) bool {
			for _, v := range values {
				if v >= 3 {
					return false
				}
			}
			return !hasRowDuplicate(values, 1, 3)
		}},
	}

	for _, tc := range cases {
		l := blankLayout(t, tc.rows, tc.cols)
		c := circuit.New(l.NbQubits())
		assert.NoError(Mark(c, l))
		gf := l.GlobalFlag()
		c.X(gf)
		c.Z(gf)
		c.X(gf)
		assert.NoError(Unmark(c, l))

		forEachAssignment(l, func(values []int) {
			a := assign(l, values)
			want := a.Clone()

			sign, err := c.Evaluate(a)
			assert.NoError(err)
			assert.True(a.Equal(want), "register must be restored for %v", values)
			if tc.isValid(values) {
				assert.Equal(-1, sign, "valid completion %v must be marked", values)
			} else {
				assert.Equal(1, sign, "invalid completion %v must not be marked", values)
			}
		})
	}
}

func TestAncillaBudget(t *testing.T) {
	assert := require.New(t)

	for _, shape := range [][2]int{{1, 1}, {1, 3}, {2, 2}, {2, 3}, {3, 3}, {4, 4}} {
		g, err := grid.New(shape[0], shape[1])
		assert.NoError(err)

		// the advertised budget is sufficient
		l, err := register.NewLayout(g, AncillaBudget(g))
		assert.NoError(err)
		assert.NoError(Mark(circuit.New(l.NbQubits()), l))

		// one bit less is not
		l, err = register.NewLayout(g, AncillaBudget(g)-1)
		assert.NoError(err)
		assert.Error(Mark(circuit.New(l.NbQubits()), l))
	}
}

func TestUnmarkIsExactInverse(t *testing.T) {
	l := blankLayout(t, 2, 2)

	fwd := circuit.New(l.NbQubits())
	require.NoError(t, Mark(fwd, l))
	inv := circuit.New(l.NbQubits())
	require.NoError(t, Unmark(inv, l))

	require.Equal(t, fwd.Size(), inv.Size())
	gates, igates := fwd.Gates(), inv.Gates()
	for i := range gates {
		assert.Equal(t, gates[i].Kind, igates[len(igates)-1-i].Kind)
		assert.Equal(t, gates[i].Target, igates[len(igates)-1-i].Target)
	}
}
