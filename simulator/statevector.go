// Package simulator provides a dense state-vector execution backend for
// circuit descriptions. It is one implementation of the collaborator the
// search driver delegates to; the driver itself never depends on how the
// register is executed.
package simulator

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/maxjeanfavre/grover/circuit"
)

// DefaultMaxQubits caps the register size: the amplitude array holds
// 2^nbQubits complex values, so the cap protects against accidental
// multi-gigabyte allocations.
const DefaultMaxQubits = 26

// shotChunk is the number of samples drawn per worker; chunk seeds are
// derived from the base seed and the chunk index, so the histogram does not
// depend on scheduling.
const shotChunk = 4096

// Backend is a dense state-vector simulator.
type Backend struct {
	maxQubits int
}

// New returns a state-vector backend with the default register-size cap.
func New() *Backend {
	return &Backend{maxQubits: DefaultMaxQubits}
}

// NewWithMaxQubits returns a backend capped at maxQubits.
func NewWithMaxQubits(maxQubits int) *Backend {
	return &Backend{maxQubits: maxQubits}
}

// Sample executes the circuit from the all-zero state and measures the full
// register shots times. Histogram keys are bitstrings in qubit-index order:
// byte i of the key is the measured value of qubit i. Sampling is
// deterministic under a fixed seed.
func (b *Backend) Sample(c *circuit.Circuit, shots int, seed int64) (map[string]uint64, error) {
	if shots < 1 {
		return nil, fmt.Errorf("shots must be at least 1, got %d", shots)
	}
	amps, err := b.run(c)
	if err != nil {
		return nil, err
	}

	// cumulative distribution over basis states
	cum := make([]float64, len(amps))
	total := 0.0
	for i, a := range amps {
		total += real(a)*real(a) + imag(a)*imag(a)
		cum[i] = total
	}
	// the state is unitary-evolved from a normalized one, so total ~ 1;
	// normalize the draw rather than the distribution
	nbChunks := (shots + shotChunk - 1) / shotChunk
	counts := make([]map[int]uint64, nbChunks)

	var g errgroup.Group
	for chunk := 0; chunk < nbChunks; chunk++ {
		chunk := chunk
		g.Go(func() error {
			draws := shotChunk
			if chunk == nbChunks-1 {
				draws = shots - chunk*shotChunk
			}
			rng := rand.New(rand.NewSource(seed + int64(chunk)))
			local := make(map[int]uint64)
			for s := 0; s < draws; s++ {
				r := rng.Float64() * total
				idx := sort.SearchFloat64s(cum, r)
				if idx == len(cum) {
					idx = len(cum) - 1
				}
				local[idx]++
			}
			counts[chunk] = local
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	hist := make(map[string]uint64)
	for _, local := range counts {
		for idx, count := range local {
			hist[bitstring(idx, c.NbQubits())] += count
		}
	}
	return hist, nil
}

// run applies the gate sequence to the all-zero state and returns the final
// amplitudes.
func (b *Backend) run(c *circuit.Circuit) ([]complex128, error) {
	n := c.NbQubits()
	if n > b.maxQubits {
		return nil, fmt.Errorf("circuit has %d qubits, backend caps at %d", n, b.maxQubits)
	}
	amps := make([]complex128, 1<<uint(n))
	amps[0] = 1

	for _, g := range c.Gates() {
		applyGate(amps, g)
	}
	return amps, nil
}

func applyGate(amps []complex128, g circuit.Gate) {
	tbit := 1 << uint(g.Target)
	switch g.Kind {
	case circuit.H:
		f := complex(1/math.Sqrt2, 0)
		for i := range amps {
			if i&tbit == 0 {
				j := i | tbit
				amps[i], amps[j] = f*(amps[i]+amps[j]), f*(amps[i]-amps[j])
			}
		}
	case circuit.X:
		for i := range amps {
			if i&tbit == 0 {
				j := i | tbit
				amps[i], amps[j] = amps[j], amps[i]
			}
		}
	case circuit.Z:
		for i := range amps {
			if i&tbit != 0 {
				amps[i] = -amps[i]
			}
		}
	case circuit.CX, circuit.MCX:
		for i := range amps {
			if i&tbit == 0 && controlsMatch(i, g) {
				j := i | tbit
				amps[i], amps[j] = amps[j], amps[i]
			}
		}
	default:
		panic(fmt.Sprintf("simulator: unknown gate kind %d", g.Kind))
	}
}

func controlsMatch(i int, g circuit.Gate) bool {
	for t, q := range g.Controls {
		want := g.Polarity>>uint(t)&1 == 1
		if (i>>uint(q)&1 == 1) != want {
			return false
		}
	}
	return true
}

func bitstring(state, nbQubits int) string {
	buf := make([]byte, nbQubits)
	for q := 0; q < nbQubits; q++ {
		if state>>uint(q)&1 == 1 {
			buf[q] = '1'
		} else {
			buf[q] = '0'
		}
	}
	return string(buf)
}
