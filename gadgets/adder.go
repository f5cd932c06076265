// Package gadgets provides the reusable reversible-arithmetic building
// blocks of the oracle: constant preparation, a ripple-carry adder, and the
// equality and threshold comparators built on top of it.
//
// Every gadget is paired with its exact inverse so it can be uncomputed
// without leaving any scratch bit dirty; the comparators bracket their own
// internal state and change only the designated target bit.
package gadgets

import (
	"fmt"

	"github.com/maxjeanfavre/grover/circuit"
)

// maj computes the carry-propagation step of the Cuccaro ripple-carry adder:
// x is the incoming carry, y a bit of b, z a bit of a. On exit z holds the
// outgoing carry (the majority of the three inputs).
func maj(c *circuit.Circuit, x, y, z int) {
	c.CX(z, y)
	c.CX(z, x)
	c.CCX(x, y, z)
}

// uma is the unmajority-and-add step undoing maj; on exit y holds the sum
// bit and x, z are restored.
func uma(c *circuit.Circuit, x, y, z int) {
	c.CCX(x, y, z)
	c.CX(z, x)
	c.CX(x, y)
}

// Add emits an in-place ripple-carry addition b += a over two equal-width
// operands (LSB first), with carry-in qubit cin (must be |0⟩) and carry-out
// qubit cout. a and cin are restored on exit.
func Add(c *circuit.Circuit, a, b []int, cin, cout int) {
	k := len(a)
	if len(b) != k {
		panic(fmt.Sprintf("gadgets: adder operands must have equal width, got %d and %d", k, len(b)))
	}
	if k == 0 {
		panic("gadgets: adder operands must have at least one bit")
	}

	maj(c, cin, b[0], a[0])
	for i := 1; i < k; i++ {
		maj(c, a[i-1], b[i], a[i])
	}
	c.CX(a[k-1], cout)
	for i := k - 1; i >= 1; i-- {
		uma(c, a[i-1], b[i], a[i])
	}
	uma(c, cin, b[0], a[0])
}

// AddInverse emits the exact inverse of Add with the same arguments.
func AddInverse(c *circuit.Circuit, a, b []int, cin, cout int) {
	tmp := circuit.New(c.NbQubits())
	Add(tmp, a, b, cin, cout)
	c.Compose(tmp.Inverse())
}
