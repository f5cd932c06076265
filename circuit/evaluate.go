package circuit

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
)

// Evaluate applies the classical subset of the gate sequence (X, Z, CX, MCX)
// to the given basis-state assignment in place, and returns the phase sign
// (+1 or -1) the sequence gives that basis state.
//
// X, CX and MCX permute basis states; Z flips the sign when its qubit is set.
// A Hadamard gate makes the state non-classical and is reported as an error.
//
// The oracle and every gadget are built from the classical subset only, so
// Evaluate is the reference semantics the uncomputation tests check against.
func (c *Circuit) Evaluate(a *bitset.BitSet) (int, error) {
	if a.Len() < uint(c.nbQubits) {
		return 0, fmt.Errorf("assignment has %d bits, circuit needs %d", a.Len(), c.nbQubits)
	}
	sign := 1
	for i, g := range c.gates {
		switch g.Kind {
		case X:
			a.Flip(uint(g.Target))
		case Z:
			if a.Test(uint(g.Target)) {
				sign = -sign
			}
		case CX, MCX:
			if controlsSatisfied(a, g) {
				a.Flip(uint(g.Target))
			}
		case H:
			return 0, fmt.Errorf("gate %d (h on qubit %d) is not classical", i, g.Target)
		default:
			return 0, fmt.Errorf("gate %d has unknown kind %d", i, g.Kind)
		}
	}
	return sign, nil
}

func controlsSatisfied(a *bitset.BitSet, g Gate) bool {
	for t, q := range g.Controls {
		want := g.Polarity&(1<<uint(t)) != 0
		if a.Test(uint(q)) != want {
			return false
		}
	}
	return true
}
