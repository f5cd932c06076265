package gadgets

import (
	"fmt"

	"github.com/maxjeanfavre/grover/circuit"
)

// AdderAncilla is the number of scratch bits IsGreaterOrEqual needs beyond
// the threshold pattern: a carry-in and a carry-out qubit.
const AdderAncilla = 2

// PrepareConstant X-prepares the binary encoding of constant (LSB first)
// onto the given bits, which must be |0⟩. The emitted sequence is its own
// inverse: emitting it a second time restores the bits.
func PrepareConstant(c *circuit.Circuit, bits []int, constant uint64) {
	if len(bits) < 64 && constant>>uint(len(bits)) != 0 {
		panic(fmt.Sprintf("gadgets: constant %d does not fit in %d bits", constant, len(bits)))
	}
	for i, q := range bits {
		if constant>>uint(i)&1 == 1 {
			c.X(q)
		}
	}
}

// IsEqual toggles target iff the two equal-width registers a and b hold the
// same value. scratch must provide len(a) clean bits; they are computed to
// the bitwise XNOR of a and b, collapsed into target with a multi-controlled
// X, and restored by reversing the XNOR step.
func IsEqual(c *circuit.Circuit, a, b, scratch []int, target int) {
	k := len(a)
	if len(b) != k {
		panic(fmt.Sprintf("gadgets: comparator operands must have equal width, got %d and %d", k, len(b)))
	}
	if len(scratch) < k {
		panic(fmt.Sprintf("gadgets: equality comparator needs %d scratch bits, got %d", k, len(scratch)))
	}

	for i := 0; i < k; i++ {
		c.CX(a[i], scratch[i])
		c.CX(b[i], scratch[i])
		c.X(scratch[i])
	}

	c.MCX(scratch[:k], target)

	for i := k - 1; i >= 0; i-- {
		c.X(scratch[i])
		c.CX(b[i], scratch[i])
		c.CX(a[i], scratch[i])
	}
}

// IsEqualInverse emits the exact inverse of IsEqual; the sequence is an
// involution, so this is the same sequence again.
func IsEqualInverse(c *circuit.Circuit, a, b, scratch []int, target int) {
	IsEqual(c, a, b, scratch, target)
}

// IsGreaterOrEqual toggles target iff the register value (width k) is at
// least the threshold t previously loaded into anc[0..k-1] as 2^k - t via
// PrepareConstant. anc must provide k + AdderAncilla bits: the threshold
// pattern, a carry-in and a carry-out. The ripple-carry chain computing
// value + (2^k - t) is built, its carry-out (set exactly when value >= t)
// is copied to target, and the chain is reversed; only target changes.
func IsGreaterOrEqual(c *circuit.Circuit, value, anc []int, target int) {
	k := len(value)
	if len(anc) != k+AdderAncilla {
		panic(fmt.Sprintf("gadgets: threshold comparator needs %d ancilla bits, got %d", k+AdderAncilla, len(anc)))
	}
	cin, cout := anc[k], anc[k+1]

	Add(c, value, anc[:k], cin, cout)
	c.CX(cout, target)
	AddInverse(c, value, anc[:k], cin, cout)
}

// IsGreaterOrEqualInverse emits the exact inverse of IsGreaterOrEqual; the
// sequence is an involution, so this is the same sequence again.
func IsGreaterOrEqualInverse(c *circuit.Circuit, value, anc []int, target int) {
	IsGreaterOrEqual(c, value, anc, target)
}

// OrInto toggles target iff any of the flag bits is set, by De Morgan: a
// multi-controlled X triggering on the all-zero pattern, then an X.
func OrInto(c *circuit.Circuit, flags []int, target int) {
	if len(flags) == 0 {
		return
	}
	c.MCXState(flags, 0, target)
	c.X(target)
}
