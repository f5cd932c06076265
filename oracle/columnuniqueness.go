package oracle

import (
	"github.com/maxjeanfavre/grover/circuit"
	"github.com/maxjeanfavre/grover/gadgets"
	"github.com/maxjeanfavre/grover/register"
)

// ColumnUniqueness toggles the column flag iff any column contains a
// duplicate value. It is RowUniqueness transposed: C(n,2) pairs per column,
// anchored on the upper row of each pair.
func ColumnUniqueness(c *circuit.Circuit, l *register.Layout) error {
	n, m, k := l.Rows(), l.Cols(), l.K()
	if n < 2 {
		// no pairs, no duplicates
		return nil
	}

	scratch, err := l.ReserveAncilla(k)
	if err != nil {
		return err
	}
	defer scratch.Release()
	pairFlags, err := l.ReserveAncilla(n - 1)
	if err != nil {
		return err
	}
	defer pairFlags.Release()
	anchorFlags, err := l.ReserveAncilla(n - 1)
	if err != nil {
		return err
	}
	defer anchorFlags.Release()
	colFlags, err := l.ReserveAncilla(m)
	if err != nil {
		return err
	}
	defer colFlags.Release()

	anchorSweep := func(j, i1 int) {
		window := pairFlags.Bits()[:n-1-i1]
		for i2 := i1 + 1; i2 < n; i2++ {
			gadgets.IsEqual(c, l.CellBits(i1, j), l.CellBits(i2, j), scratch.Bits(), window[i2-i1-1])
		}
		gadgets.OrInto(c, window, anchorFlags.Bit(i1))
		for i2 := n - 1; i2 > i1; i2-- {
			gadgets.IsEqualInverse(c, l.CellBits(i1, j), l.CellBits(i2, j), scratch.Bits(), window[i2-i1-1])
		}
	}

	colSweep := func(j int) {
		for i1 := 0; i1 < n-1; i1++ {
			anchorSweep(j, i1)
		}
		gadgets.OrInto(c, anchorFlags.Bits(), colFlags.Bit(j))
		for i1 := 0; i1 < n-1; i1++ {
			anchorSweep(j, i1)
		}
	}

	for j := 0; j < m; j++ {
		colSweep(j)
	}
	gadgets.OrInto(c, colFlags.Bits(), l.ColFlag())
	for j := 0; j < m; j++ {
		colSweep(j)
	}
	return nil
}
