package search

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxjeanfavre/grover/circuit"
	"github.com/maxjeanfavre/grover/grid"
	"github.com/maxjeanfavre/grover/oracle"
	"github.com/maxjeanfavre/grover/register"
	"github.com/maxjeanfavre/grover/simulator"
)

func TestOptimalIterations(t *testing.T) {
	cases := []struct {
		n    int64
		m    uint64
		want int
	}{
		{64, 6, 2},
		{64, 1, 6},
		{4, 1, 1},
		{1024, 1, 25},
		{1, 1, 0}, // degenerate, uniform sampling
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, OptimalIterations(big.NewInt(tc.n), tc.m), "N=%d M=%d", tc.n, tc.m)
	}
}

func TestSearchSpace(t *testing.T) {
	g, err := grid.FromRows([][]int{{0, grid.BlankValue, grid.BlankValue}})
	require.NoError(t, err)
	// 2 blanks, k=2
	assert.Equal(t, big.NewInt(16), SearchSpace(g))

	full, err := grid.FromRows([][]int{{0, 1, 2}})
	require.NoError(t, err)
	assert.Equal(t, big.NewInt(1), SearchSpace(full))
}

func TestNewRejectsBadConfigurations(t *testing.T) {
	assert := require.New(t)

	g, err := grid.New(1, 3)
	assert.NoError(err)

	_, err = New(g, 0)
	assert.Error(err, "solution count below 1")

	// N = 64, M >= 32 cannot be amplified
	_, err = New(g, 32)
	assert.Error(err)
	_, err = New(g, 31)
	assert.NoError(err)

	// invalid grids are rejected before any derivation
	bad, err := grid.FromRows([][]int{{1, 1, grid.BlankValue}})
	assert.NoError(err)
	_, err = New(bad, 1)
	assert.Error(err)

	_, err = New(g, 6, WithShots(0))
	assert.Error(err)
	_, err = New(g, 6, WithBackend(nil))
	assert.Error(err)
}

func TestDerivedParameters(t *testing.T) {
	assert := require.New(t)

	g, err := grid.New(1, 3)
	assert.NoError(err)
	s, err := New(g, 6)
	assert.NoError(err)

	assert.Equal(big.NewInt(64), s.SearchSpaceSize())
	assert.Equal(2, s.Iterations())
}

func TestBuildCircuitShape(t *testing.T) {
	assert := require.New(t)

	g, err := grid.New(1, 3)
	assert.NoError(err)
	s, err := New(g, 6)
	assert.NoError(err)

	c, err := s.BuildCircuit()
	assert.NoError(err)
	assert.Equal(s.Layout().NbQubits(), c.NbQubits())
	assert.Greater(c.Size(), 0)
	assert.Greater(c.Depth(), 0)
	assert.Equal(0, s.Layout().AncillaInUse(), "all oracle leases must be returned")
}

func TestEndToEnd1x3(t *testing.T) {
	if testing.Short() {
		t.Skip("state-vector execution of the full pipeline")
	}
	assert := require.New(t)

	g, err := grid.New(1, 3)
	assert.NoError(err)
	s, err := New(g, 6, WithShots(1024), WithSeed(7))
	assert.NoError(err)

	results, err := s.Run()
	assert.NoError(err)
	assert.GreaterOrEqual(len(results), 6)

	// the six permutations of {0,1,2} must dominate the histogram
	var top, total uint64
	for i, r := range results {
		total += r.Count
		if i < 6 {
			top += r.Count
			assert.False(r.OutOfRange)
			assert.NoError(r.Grid.Verify(), "top result %d must be a valid completion", i)
		}
	}
	assert.Greater(float64(top)/float64(total), 0.9)
}

func TestRunIsDeterministicUnderSeed(t *testing.T) {
	if testing.Short() {
		t.Skip("state-vector execution of the full pipeline")
	}
	assert := require.New(t)

	g, err := grid.New(1, 2)
	assert.NoError(err)

	run := func() []Result {
		s, err := New(g, 1, WithShots(256), WithSeed(3))
		assert.NoError(err)
		results, err := s.Run()
		assert.NoError(err)
		return results
	}

	r1, r2 := run(), run()
	assert.Equal(len(r1), len(r2))
	for i := range r1 {
		assert.Equal(r1[i].Count, r2[i].Count)
	}
}

func TestDecodeReproducesInitializedGrid(t *testing.T) {
	assert := require.New(t)

	g, err := grid.FromRows([][]int{{0, 1}, {1, 0}})
	assert.NoError(err)
	l := layoutFor(t, g)

	c := circuit.New(l.NbQubits())
	l.Initialize(c)

	// a fully fixed grid prepares a single basis state
	hist, err := simulator.New().Sample(c, 1, 1)
	assert.NoError(err)
	assert.Len(hist, 1)

	results, err := Decode(hist, l)
	assert.NoError(err)
	assert.Len(results, 1)
	assert.False(results[0].OutOfRange)
	for i := 0; i < g.Rows(); i++ {
		for j := 0; j < g.Cols(); j++ {
			assert.Equal(g.At(i, j).Value(), results[0].Grid.At(i, j).Value(), "cell (%d,%d)", i, j)
		}
	}
}

func TestDiffusionActsOnBlankCellsOnly(t *testing.T) {
	assert := require.New(t)

	g, err := grid.FromRows([][]int{{0, grid.BlankValue, grid.BlankValue}})
	assert.NoError(err)
	s, err := New(g, 2)
	assert.NoError(err)

	// k=2, cell (0,0) is fixed so its qubits 0 and 1 are excluded
	assert.Equal([]int{2, 3, 4, 5}, s.blankDataBits())
}

func TestEndToEndFixedCells(t *testing.T) {
	if testing.Short() {
		t.Skip("state-vector execution of the full pipeline")
	}
	assert := require.New(t)

	g, err := grid.FromRows([][]int{{0, grid.BlankValue, grid.BlankValue}})
	assert.NoError(err)
	s, err := New(g, 2, WithShots(1024), WithSeed(11))
	assert.NoError(err)

	results, err := s.Run()
	assert.NoError(err)
	assert.GreaterOrEqual(len(results), 2)

	// the two completions {0,1,2} and {0,2,1} must dominate
	var top, total uint64
	for i, r := range results {
		total += r.Count
		if i < 2 {
			top += r.Count
			assert.False(r.OutOfRange)
			assert.NoError(r.Grid.Verify(), "top result %d must be a valid completion", i)
			assert.Equal(0, r.Grid.At(0, 0).Value(), "fixed cell must be preserved")
		}
	}
	assert.Greater(float64(top)/float64(total), 0.9)
}

func layoutFor(t *testing.T, g *grid.Grid) *register.Layout {
	t.Helper()
	l, err := register.NewLayout(g, oracle.AncillaBudget(g))
	require.NoError(t, err)
	return l
}

func TestDecodeAggregatesAndSorts(t *testing.T) {
	assert := require.New(t)

	g, err := grid.New(2, 2)
	assert.NoError(err)
	l := layoutFor(t, g)

	pad := make([]byte, l.NbQubits())
	for i := range pad {
		pad[i] = '0'
	}
	withData := func(bits string) string {
		s := append([]byte(nil), pad...)
		copy(s, bits)
		return string(s)
	}

	hist := map[string]uint64{
		withData("0110"): 40,
		withData("1001"): 60,
	}
	// a dirty flag bit must not change the decoded grid
	dirty := []byte(withData("0110"))
	dirty[l.GlobalFlag()] = '1'
	hist[string(dirty)] = 5

	results, err := Decode(hist, l)
	assert.NoError(err)
	assert.Equal(2, len(results))

	assert.Equal(uint64(60), results[0].Count)
	assert.Equal(1, results[0].Grid.At(0, 0).Value())
	assert.Equal(0, results[0].Grid.At(0, 1).Value())

	assert.Equal(uint64(45), results[1].Count, "identical grids must be merged")
	assert.Equal(0, results[1].Grid.At(0, 0).Value())
}

func TestDecodeSurfacesOutOfRange(t *testing.T) {
	assert := require.New(t)

	g, err := grid.New(1, 3) // k=2, symbol 3 is out of range
	assert.NoError(err)
	l := layoutFor(t, g)

	bits := make([]byte, l.NbQubits())
	for i := range bits {
		bits[i] = '0'
	}
	bits[l.Data(0, 1, 0)] = '1'
	bits[l.Data(0, 1, 1)] = '1'

	results, err := Decode(map[string]uint64{string(bits): 3}, l)
	assert.NoError(err)
	assert.Equal(1, len(results))
	assert.True(results[0].OutOfRange)
	assert.Equal(3, results[0].Grid.At(0, 1).Value(), "out-of-range values are surfaced as-is")
}

func TestDecodeRejectsMalformedBitstrings(t *testing.T) {
	g, err := grid.New(1, 2)
	require.NoError(t, err)
	l := layoutFor(t, g)

	_, err = Decode(map[string]uint64{"01": 1}, l)
	require.Error(t, err, "wrong length")

	bits := make([]byte, l.NbQubits())
	for i := range bits {
		bits[i] = '0'
	}
	bits[0] = 'x'
	_, err = Decode(map[string]uint64{string(bits): 1}, l)
	require.Error(t, err)
}
