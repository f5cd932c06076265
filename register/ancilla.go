package register

import (
	"fmt"
)

// AncillaLease is a scoped claim on a contiguous block of ancilla bits.
// Leases are strictly stacked: the last lease reserved must be the first
// released, which keeps two active primitives from ever aliasing the same
// scratch bits. Every reserve site pairs with a deferred Release so the
// block is returned on all exit paths.
//
// A leased bit is clean (|0⟩) at reservation, and the borrower must leave it
// clean at release; a dirty ancilla raises no error anywhere, it silently
// corrupts every later oracle evaluation, which is why the uncomputation
// discipline exists.
type AncillaLease struct {
	layout   *Layout
	base     int // register index of the first bit
	count    int
	released bool
}

// ReserveAncilla claims count ancilla bits from the pool. Exhausting the
// budget is a configuration error: the budget was sized too small for the
// oracles being built.
func (l *Layout) ReserveAncilla(count int) (*AncillaLease, error) {
	if count < 0 {
		panic(fmt.Sprintf("register: cannot reserve %d ancilla bits", count))
	}
	if l.ancillaNext+count > l.nbAncilla {
		return nil, fmt.Errorf("requested %d ancilla bits with %d in use, budget is %d: increase the ancilla budget", count, l.ancillaNext, l.nbAncilla)
	}
	lease := &AncillaLease{
		layout: l,
		base:   l.baseAncilla + l.ancillaNext,
		count:  count,
	}
	l.ancillaNext += count
	l.leases = append(l.leases, lease)
	return lease, nil
}

// Release returns the lease's bits to the pool. Releasing out of stack
// order, or twice, is a programmer error and panics.
func (a *AncillaLease) Release() {
	if a.released {
		panic("register: ancilla lease released twice")
	}
	l := a.layout
	if len(l.leases) == 0 || l.leases[len(l.leases)-1] != a {
		panic("register: ancilla lease released out of stack order")
	}
	l.leases = l.leases[:len(l.leases)-1]
	l.ancillaNext -= a.count
	a.released = true
}

// Bit returns the register index of bit t of the lease.
func (a *AncillaLease) Bit(t int) int {
	if a.released {
		panic("register: use of released ancilla lease")
	}
	if t < 0 || t >= a.count {
		panic(fmt.Sprintf("register: lease bit %d out of range [0,%d)", t, a.count))
	}
	return a.base + t
}

// Bits returns the register indices of all bits of the lease.
func (a *AncillaLease) Bits() []int {
	if a.released {
		panic("register: use of released ancilla lease")
	}
	bits := make([]int, a.count)
	for t := range bits {
		bits[t] = a.base + t
	}
	return bits
}

// Len returns the number of bits in the lease.
func (a *AncillaLease) Len() int { return a.count }

// AncillaInUse returns the number of currently leased ancilla bits.
func (l *Layout) AncillaInUse() int { return l.ancillaNext }
