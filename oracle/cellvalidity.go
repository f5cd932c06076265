package oracle

import (
	"github.com/maxjeanfavre/grover/circuit"
	"github.com/maxjeanfavre/grover/gadgets"
	"github.com/maxjeanfavre/grover/register"
)

// CellValidity toggles the cell_valid flag iff any cell's value is outside
// [0, symbolMax). The shared threshold pattern 2^k - symbolMax is prepared
// once; each row is processed as a window of per-cell comparator flags that
// is ORed into a per-row flag and uncomputed before the next row. A second,
// identical sweep restores the per-row flags (each sweep is an involution),
// and the threshold preparation is reversed last. Every ancilla is back to
// |0⟩ on exit.
func CellValidity(c *circuit.Circuit, l *register.Layout) error {
	n, m, k := l.Rows(), l.Cols(), l.K()
	sm := l.Grid().SymbolMax()
	if sm == 1<<k {
		// every representable value is a valid symbol
		return nil
	}

	threshold, err := l.ReserveAncilla(k + gadgets.AdderAncilla)
	if err != nil {
		return err
	}
	defer threshold.Release()
	cellFlags, err := l.ReserveAncilla(m)
	if err != nil {
		return err
	}
	defer cellFlags.Release()
	rowFlags, err := l.ReserveAncilla(n)
	if err != nil {
		return err
	}
	defer rowFlags.Release()

	pattern := uint64(1<<k - sm)
	gadgets.PrepareConstant(c, threshold.Bits()[:k], pattern)

	sweep := func() {
		for i := 0; i < n; i++ {
			for j := 0; j < m; j++ {
				gadgets.IsGreaterOrEqual(c, l.CellBits(i, j), threshold.Bits(), cellFlags.Bit(j))
			}
			gadgets.OrInto(c, cellFlags.Bits(), rowFlags.Bit(i))
			for j := m - 1; j >= 0; j-- {
				gadgets.IsGreaterOrEqualInverse(c, l.CellBits(i, j), threshold.Bits(), cellFlags.Bit(j))
			}
		}
	}

	sweep()
	gadgets.OrInto(c, rowFlags.Bits(), l.CellValidFlag())
	sweep()

	gadgets.PrepareConstant(c, threshold.Bits()[:k], pattern)
	return nil
}
