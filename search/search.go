// Package search drives the amplitude amplification: it derives the search
// space size and iteration count for a grid, assembles the full circuit
// (initialization, oracle brackets, phase kicks, diffusion), submits it to
// an execution backend and decodes the sampled results.
package search

import (
	"fmt"
	"math"
	"math/big"

	"github.com/maxjeanfavre/grover/circuit"
	"github.com/maxjeanfavre/grover/grid"
	"github.com/maxjeanfavre/grover/logger"
	"github.com/maxjeanfavre/grover/oracle"
	"github.com/maxjeanfavre/grover/register"
	"github.com/maxjeanfavre/grover/simulator"
)

// Backend executes a circuit description and samples the register. It must
// be deterministic under a fixed seed and must not mutate the circuit.
// Histogram keys are bitstrings in qubit-index order: byte i of the key is
// the measured value of qubit i.
type Backend interface {
	Sample(c *circuit.Circuit, shots int, seed int64) (map[string]uint64, error)
}

// Search is the configured driver for one grid. It is built once per
// (grid, solution count) pair and can run any number of times.
type Search struct {
	layout      *register.Layout
	solutions   uint64
	searchSpace *big.Int
	iterations  int

	opt options
}

// New validates the configuration and derives the driver parameters: the
// search space size N = 2^(B·k) over the B blank cells, and the iteration
// count r = floor(π/4·√(N/M)) for the caller-supplied solution count M.
//
// M must satisfy 1 <= M < N/2; at M >= N/2 amplitude amplification cannot
// concentrate probability on the solutions and the configuration is
// rejected. r == 0 is a valid degenerate outcome (uniform sampling).
func New(g *grid.Grid, solutions uint64, opts ...Option) (*Search, error) {
	opt, err := defaultOptions(opts...)
	if err != nil {
		return nil, fmt.Errorf("invalid option: %w", err)
	}

	l, err := register.NewLayout(g, oracle.AncillaBudget(g))
	if err != nil {
		return nil, err
	}

	if solutions < 1 {
		return nil, fmt.Errorf("solution count must be at least 1, got %d", solutions)
	}
	n := SearchSpace(g)
	twoM := new(big.Int).Lsh(new(big.Int).SetUint64(solutions), 1)
	if twoM.Cmp(n) >= 0 {
		return nil, fmt.Errorf("solution count %d is at least half the search space %s: amplitude amplification cannot concentrate probability", solutions, n)
	}

	return &Search{
		layout:      l,
		solutions:   solutions,
		searchSpace: n,
		iterations:  OptimalIterations(n, solutions),
		opt:         opt,
	}, nil
}

// SearchSpace returns 2^(B·k) for the B blank cells of g.
func SearchSpace(g *grid.Grid) *big.Int {
	k := register.BitWidth(g.SymbolMax())
	return new(big.Int).Lsh(big.NewInt(1), uint(g.Blanks()*k))
}

// OptimalIterations returns floor(π/4·√(N/M)).
func OptimalIterations(n *big.Int, m uint64) int {
	ratio := new(big.Float).Quo(new(big.Float).SetInt(n), new(big.Float).SetUint64(m))
	root := new(big.Float).Sqrt(ratio)
	r, _ := new(big.Float).Mul(root, big.NewFloat(math.Pi/4)).Float64()
	return int(math.Floor(r))
}

// Layout returns the register layout of the search.
func (s *Search) Layout() *register.Layout { return s.layout }

// Iterations returns the derived Grover iteration count.
func (s *Search) Iterations() int { return s.iterations }

// SearchSpaceSize returns the derived search space size N.
func (s *Search) SearchSpaceSize() *big.Int { return new(big.Int).Set(s.searchSpace) }

// BuildCircuit assembles the full search circuit: grid initialization, then
// per iteration the oracle bracket (mark, phase kick on the global flag,
// unmark) and the diffusion operator over the blank-cell data qubits.
func (s *Search) BuildCircuit() (*circuit.Circuit, error) {
	l := s.layout
	c := circuit.New(l.NbQubits())
	l.Initialize(c)

	blankBits := s.blankDataBits()
	gf := l.GlobalFlag()

	for it := 0; it < s.iterations; it++ {
		if err := oracle.Mark(c, l); err != nil {
			return nil, fmt.Errorf("iteration %d: %w", it, err)
		}
		// phase kick: flip the sign of amplitudes with a clear global flag,
		// i.e. the assignments violating no constraint
		c.X(gf)
		c.Z(gf)
		c.X(gf)
		if err := oracle.Unmark(c, l); err != nil {
			return nil, fmt.Errorf("iteration %d: %w", it, err)
		}
		diffuse(c, blankBits)
	}
	return c, nil
}

// Run builds the circuit, submits it to the backend and decodes the sampled
// histogram into aggregated grids.
func (s *Search) Run() ([]Result, error) {
	c, err := s.BuildCircuit()
	if err != nil {
		return nil, err
	}

	log := logger.Logger()
	log.Info().
		Str("searchSpace", s.searchSpace.String()).
		Uint64("solutions", s.solutions).
		Int("iterations", s.iterations).
		Int("nbQubits", c.NbQubits()).
		Int("nbGates", c.Size()).
		Int("depth", c.Depth()).
		Int("shots", s.opt.shots).
		Msg("running grover search")

	hist, err := s.opt.backend.Sample(c, s.opt.shots, s.opt.seed)
	if err != nil {
		return nil, fmt.Errorf("backend: %w", err)
	}
	return Decode(hist, s.layout)
}

// diffuse emits the inversion-about-the-mean operator on the given qubits.
func diffuse(c *circuit.Circuit, qubits []int) {
	if len(qubits) == 0 {
		return
	}
	for _, q := range qubits {
		c.H(q)
	}
	for _, q := range qubits {
		c.X(q)
	}
	last := qubits[len(qubits)-1]
	if len(qubits) == 1 {
		c.Z(last)
	} else {
		c.H(last)
		c.MCX(qubits[:len(qubits)-1], last)
		c.H(last)
	}
	for _, q := range qubits {
		c.X(q)
	}
	for _, q := range qubits {
		c.H(q)
	}
}

// blankDataBits returns the data qubits of the blank cells in row-major
// order; the diffusion operator acts on these only, fixed cells are left
// untouched.
func (s *Search) blankDataBits() []int {
	l := s.layout
	g := l.Grid()
	var bits []int
	for i := 0; i < l.Rows(); i++ {
		for j := 0; j < l.Cols(); j++ {
			if g.At(i, j).IsFixed() {
				continue
			}
			bits = append(bits, l.CellBits(i, j)...)
		}
	}
	return bits
}

// ensure the default backend satisfies the interface
var _ Backend = (*simulator.Backend)(nil)
