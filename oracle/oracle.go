// Package oracle builds the Latin-square validity oracle: three constraint
// checkers (cell validity, row uniqueness, column uniqueness), each a
// compute→aggregate→uncompute bracket over leased ancilla bits, composed
// into a single flag that marks valid grid completions.
package oracle

import (
	"fmt"

	"github.com/maxjeanfavre/grover/circuit"
	"github.com/maxjeanfavre/grover/debug"
	"github.com/maxjeanfavre/grover/gadgets"
	"github.com/maxjeanfavre/grover/grid"
	"github.com/maxjeanfavre/grover/register"
)

// AncillaBudget returns the worst-case number of simultaneously leased
// ancilla bits across the three constraint checkers for the given grid
// shape. Layouts built with this budget never fail a reservation.
func AncillaBudget(g *grid.Grid) int {
	n, m := g.Rows(), g.Cols()
	k := register.BitWidth(g.SymbolMax())

	budget := 0
	if g.SymbolMax() < 1<<k {
		// threshold pattern + carries, per-cell window, per-row flags
		budget = max(budget, k+gadgets.AdderAncilla+m+n)
	}
	if m >= 2 {
		// equality scratch, pair window, anchor flags, per-row flags
		budget = max(budget, k+2*(m-1)+n)
	}
	if n >= 2 {
		budget = max(budget, k+2*(n-1)+m)
	}
	return budget
}

// Mark emits the full validity oracle: the three constraint checkers set
// their flags, a multi-controlled X triggering on the all-clear pattern
// (followed by an X) writes their disjunction into the global flag, and the
// checkers are reversed in opposite order. On exit the register differs from
// entry only in the global flag, which is set iff any constraint is
// violated.
func Mark(c *circuit.Circuit, l *register.Layout) error {
	if err := CellValidity(c, l); err != nil {
		return fmt.Errorf("cell validity: %w", err)
	}
	if err := RowUniqueness(c, l); err != nil {
		return fmt.Errorf("row uniqueness: %w", err)
	}
	if err := ColumnUniqueness(c, l); err != nil {
		return fmt.Errorf("column uniqueness: %w", err)
	}

	flags := []int{l.CellValidFlag(), l.RowFlag(), l.ColFlag()}
	c.MCXState(flags, 0, l.GlobalFlag())
	c.X(l.GlobalFlag())

	if err := ColumnUniqueness(c, l); err != nil {
		return fmt.Errorf("column uniqueness (uncompute): %w", err)
	}
	if err := RowUniqueness(c, l); err != nil {
		return fmt.Errorf("row uniqueness (uncompute): %w", err)
	}
	if err := CellValidity(c, l); err != nil {
		return fmt.Errorf("cell validity (uncompute): %w", err)
	}

	if debug.Debug && l.AncillaInUse() != 0 {
		panic(fmt.Sprintf("oracle: %d ancilla bits still leased after oracle bracket\n%s", l.AncillaInUse(), debug.Stack()))
	}
	return nil
}

// Unmark emits the exact inverse of Mark with the same layout.
func Unmark(c *circuit.Circuit, l *register.Layout) error {
	tmp := circuit.New(c.NbQubits())
	if err := Mark(tmp, l); err != nil {
		return err
	}
	c.Compose(tmp.Inverse())
	return nil
}
