// Package register maps a 2-D grid of symbols onto a flat qubit register.
//
// The Layout is the single owner of all index arithmetic: the data region
// (k bits per cell), the four constraint flags and the ancilla pool each get
// a fixed, non-overlapping offset range, and every other package addresses
// qubits only through the typed accessors.
package register

import (
	"fmt"

	"github.com/maxjeanfavre/grover/circuit"
	"github.com/maxjeanfavre/grover/grid"
)

// Layout assigns register offsets for a given grid shape. It is immutable
// once constructed, except for the ancilla lease bookkeeping.
type Layout struct {
	g       *grid.Grid
	n, m, k int

	baseData     int
	baseRowFlag  int
	baseColFlag  int
	baseCellFlag int
	idxGlobal    int
	baseAncilla  int
	nbAncilla    int

	// ancilla lease stack; strict LIFO, see ReserveAncilla
	ancillaNext int
	leases      []*AncillaLease
}

// NewLayout builds the register layout for g with the given ancilla budget.
// The grid is verified first; a grid that does not verify is a configuration
// error and no layout is produced.
func NewLayout(g *grid.Grid, ancillaBudget int) (*Layout, error) {
	if err := g.Verify(); err != nil {
		return nil, fmt.Errorf("invalid grid: %w", err)
	}
	if ancillaBudget < 0 {
		return nil, fmt.Errorf("ancilla budget must be non-negative, got %d", ancillaBudget)
	}
	n, m := g.Rows(), g.Cols()
	k := BitWidth(g.SymbolMax())

	l := &Layout{g: g, n: n, m: m, k: k}
	l.baseData = 0
	l.baseRowFlag = n * m * k
	l.baseColFlag = l.baseRowFlag + 1
	l.baseCellFlag = l.baseColFlag + 1
	l.idxGlobal = l.baseCellFlag + 1
	l.baseAncilla = l.idxGlobal + 1
	l.nbAncilla = ancillaBudget
	return l, nil
}

// BitWidth returns the number of bits needed to encode symbols in
// [0, symbolMax), with a minimum of one bit.
func BitWidth(symbolMax int) int {
	k := 1
	for 1<<k < symbolMax {
		k++
	}
	return k
}

// Grid returns the grid the layout was built from.
func (l *Layout) Grid() *grid.Grid { return l.g }

// Rows returns the grid row count.
func (l *Layout) Rows() int { return l.n }

// Cols returns the grid column count.
func (l *Layout) Cols() int { return l.m }

// K returns the per-cell bit width.
func (l *Layout) K() int { return l.k }

// NbQubits returns the total register size.
func (l *Layout) NbQubits() int { return l.baseAncilla + l.nbAncilla }

// Data returns the register index of bit b (LSB-first) of cell (i, j).
func (l *Layout) Data(i, j, b int) int {
	l.checkCell(i, j)
	if b < 0 || b >= l.k {
		panic(fmt.Sprintf("register: bit index %d out of range [0,%d)", b, l.k))
	}
	return l.baseData + (i*l.m+j)*l.k + b
}

// CellBits returns the k register indices of cell (i, j), LSB first.
func (l *Layout) CellBits(i, j int) []int {
	l.checkCell(i, j)
	base := l.baseData + (i*l.m+j)*l.k
	bits := make([]int, l.k)
	for b := range bits {
		bits[b] = base + b
	}
	return bits
}

// RowFlag returns the row-uniqueness violation flag index.
func (l *Layout) RowFlag() int { return l.baseRowFlag }

// ColFlag returns the column-uniqueness violation flag index.
func (l *Layout) ColFlag() int { return l.baseColFlag }

// CellValidFlag returns the cell-range violation flag index.
func (l *Layout) CellValidFlag() int { return l.baseCellFlag }

// GlobalFlag returns the global oracle flag index.
func (l *Layout) GlobalFlag() int { return l.idxGlobal }

// Label returns a human-readable name for register index q.
func (l *Layout) Label(q int) string {
	switch {
	case q < 0 || q >= l.NbQubits():
		return fmt.Sprintf("<out-of-range %d>", q)
	case q < l.baseRowFlag:
		cell, b := (q-l.baseData)/l.k, (q-l.baseData)%l.k
		return fmt.Sprintf("data(%d,%d,%d)", cell/l.m, cell%l.m, b)
	case q == l.baseRowFlag:
		return "row_flag"
	case q == l.baseColFlag:
		return "col_flag"
	case q == l.baseCellFlag:
		return "cell_valid_flag"
	case q == l.idxGlobal:
		return "global_flag"
	default:
		return fmt.Sprintf("ancilla(%d)", q-l.baseAncilla)
	}
}

// Initialize loads the grid into the data region: each blank cell's bits are
// put into equal superposition, each fixed cell is X-prepared to the binary
// encoding of its symbol (LSB first). Flags and ancillas stay |0⟩.
func (l *Layout) Initialize(c *circuit.Circuit) {
	for i := 0; i < l.n; i++ {
		for j := 0; j < l.m; j++ {
			cell := l.g.At(i, j)
			for b := 0; b < l.k; b++ {
				q := l.Data(i, j, b)
				if !cell.IsFixed() {
					c.H(q)
				} else if cell.Value()>>uint(b)&1 == 1 {
					c.X(q)
				}
			}
		}
	}
}

func (l *Layout) checkCell(i, j int) {
	if i < 0 || i >= l.n || j < 0 || j >= l.m {
		panic(fmt.Sprintf("register: cell index (%d,%d) out of range for %dx%d grid", i, j, l.n, l.m))
	}
}
