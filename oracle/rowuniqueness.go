package oracle

import (
	"github.com/maxjeanfavre/grover/circuit"
	"github.com/maxjeanfavre/grover/gadgets"
	"github.com/maxjeanfavre/grover/register"
)

// RowUniqueness toggles the row flag iff any row contains a duplicate value.
//
// For each row, every unordered cell pair is checked with the equality
// comparator. The pairs sharing an anchor column j1 form one window: their
// flags exist simultaneously, are ORed into the anchor's flag, and are
// uncomputed before the next anchor. The anchor flags are ORed into a
// per-row flag and restored by repeating the (involutive) anchor sweeps; the
// per-row flags are ORed into the row flag and restored the same way.
func RowUniqueness(c *circuit.Circuit, l *register.Layout) error {
	n, m, k := l.Rows(), l.Cols(), l.K()
	if m < 2 {
		// no pairs, no duplicates
		return nil
	}

	scratch, err := l.ReserveAncilla(k)
	if err != nil {
		return err
	}
	defer scratch.Release()
	pairFlags, err := l.ReserveAncilla(m - 1)
	if err != nil {
		return err
	}
	defer pairFlags.Release()
	anchorFlags, err := l.ReserveAncilla(m - 1)
	if err != nil {
		return err
	}
	defer anchorFlags.Release()
	rowFlags, err := l.ReserveAncilla(n)
	if err != nil {
		return err
	}
	defer rowFlags.Release()

	// anchorSweep toggles anchorFlags[j1] by OR of [cell(i,j1) == cell(i,j2)]
	// over j2 > j1; pair order is ascending and the uncompute pass repeats it
	// in reverse, matching the compute pass exactly.
	anchorSweep := func(i, j1 int) {
		window := pairFlags.Bits()[:m-1-j1]
		for j2 := j1 + 1; j2 < m; j2++ {
			gadgets.IsEqual(c, l.CellBits(i, j1), l.CellBits(i, j2), scratch.Bits(), window[j2-j1-1])
		}
		gadgets.OrInto(c, window, anchorFlags.Bit(j1))
		for j2 := m - 1; j2 > j1; j2-- {
			gadgets.IsEqualInverse(c, l.CellBits(i, j1), l.CellBits(i, j2), scratch.Bits(), window[j2-j1-1])
		}
	}

	rowSweep := func(i int) {
		for j1 := 0; j1 < m-1; j1++ {
			anchorSweep(i, j1)
		}
		gadgets.OrInto(c, anchorFlags.Bits(), rowFlags.Bit(i))
		for j1 := 0; j1 < m-1; j1++ {
			anchorSweep(i, j1)
		}
	}

	for i := 0; i < n; i++ {
		rowSweep(i)
	}
	gadgets.OrInto(c, rowFlags.Bits(), l.RowFlag())
	for i := 0; i < n; i++ {
		rowSweep(i)
	}
	return nil
}
