// Package circuit holds the reversible-operation sequence built by the
// register layout, the gadgets and the oracle, and consumed by an execution
// backend.
//
// A Circuit is a description only; nothing is executed here. The gate set is
// the minimum the oracle construction needs: H, X, Z, CX and a
// multi-controlled X with per-control polarity.
package circuit

import (
	"fmt"
)

// Kind enumerates the supported gate kinds.
type Kind uint8

const (
	// H is the Hadamard gate.
	H Kind = iota
	// X is the bit-flip gate.
	X
	// Z is the phase-flip gate.
	Z
	// CX is the controlled bit-flip gate.
	CX
	// MCX is the multi-controlled bit-flip gate with per-control polarity.
	MCX
)

func (k Kind) String() string {
	switch k {
	case H:
		return "h"
	case X:
		return "x"
	case Z:
		return "z"
	case CX:
		return "cx"
	case MCX:
		return "mcx"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Gate is a single operation on the flat register. Controls lists the
// control qubits of CX and MCX gates; bit t of Polarity set means control t
// triggers on |1⟩, cleared means it triggers on |0⟩.
type Gate struct {
	Kind     Kind   `cbor:"k"`
	Controls []int  `cbor:"c,omitempty"`
	Polarity uint64 `cbor:"p,omitempty"`
	Target   int    `cbor:"t"`
}

// maxControls bounds the control count so a polarity fits one word.
const maxControls = 64

// Circuit is an append-only gate sequence over a fixed-size register.
type Circuit struct {
	nbQubits int
	gates    []Gate
}

// New returns an empty circuit over nbQubits qubits.
func New(nbQubits int) *Circuit {
	if nbQubits < 1 {
		panic(fmt.Sprintf("circuit: register must have at least 1 qubit, got %d", nbQubits))
	}
	return &Circuit{nbQubits: nbQubits}
}

// NbQubits returns the register size the circuit is bound to.
func (c *Circuit) NbQubits() int { return c.nbQubits }

// Size returns the number of gates.
func (c *Circuit) Size() int { return len(c.gates) }

// Gates returns the gate sequence. The returned slice is owned by the
// circuit and must not be mutated.
func (c *Circuit) Gates() []Gate { return c.gates }

// H appends a Hadamard gate on q.
func (c *Circuit) H(q int) {
	c.checkQubit(q)
	c.gates = append(c.gates, Gate{Kind: H, Target: q})
}

// X appends a bit flip on q.
func (c *Circuit) X(q int) {
	c.checkQubit(q)
	c.gates = append(c.gates, Gate{Kind: X, Target: q})
}

// Z appends a phase flip on q.
func (c *Circuit) Z(q int) {
	c.checkQubit(q)
	c.gates = append(c.gates, Gate{Kind: Z, Target: q})
}

// CX appends a controlled bit flip of target, triggered by control being |1⟩.
func (c *Circuit) CX(control, target int) {
	c.checkQubit(control)
	c.checkQubit(target)
	if control == target {
		panic("circuit: cx control and target must differ")
	}
	c.gates = append(c.gates, Gate{Kind: CX, Controls: []int{control}, Polarity: 1, Target: target})
}

// CCX appends a doubly-controlled bit flip (Toffoli).
func (c *Circuit) CCX(control1, control2, target int) {
	c.MCX([]int{control1, control2}, target)
}

// MCX appends a multi-controlled bit flip triggered when every control
// is |1⟩.
func (c *Circuit) MCX(controls []int, target int) {
	c.MCXState(controls, allOnes(len(controls)), target)
}

// MCXState appends a multi-controlled bit flip with explicit control
// polarity: bit t of polarity set means controls[t] triggers on |1⟩,
// cleared means it triggers on |0⟩.
func (c *Circuit) MCXState(controls []int, polarity uint64, target int) {
	if len(controls) == 0 {
		panic("circuit: mcx needs at least one control")
	}
	if len(controls) > maxControls {
		panic(fmt.Sprintf("circuit: mcx supports at most %d controls, got %d", maxControls, len(controls)))
	}
	c.checkQubit(target)
	for _, q := range controls {
		c.checkQubit(q)
		if q == target {
			panic("circuit: mcx controls and target must differ")
		}
	}
	cp := make([]int, len(controls))
	copy(cp, controls)
	c.gates = append(c.gates, Gate{Kind: MCX, Controls: cp, Polarity: polarity, Target: target})
}

// Append adds a copy of gate g to the sequence.
func (c *Circuit) Append(g Gate) {
	switch g.Kind {
	case H:
		c.H(g.Target)
	case X:
		c.X(g.Target)
	case Z:
		c.Z(g.Target)
	case CX:
		if len(g.Controls) != 1 {
			panic("circuit: cx gate must have exactly one control")
		}
		c.CX(g.Controls[0], g.Target)
	case MCX:
		c.MCXState(g.Controls, g.Polarity, g.Target)
	default:
		panic(fmt.Sprintf("circuit: unknown gate kind %d", g.Kind))
	}
}

// Compose appends all gates of other to c. Both circuits must be bound to
// the same register size.
func (c *Circuit) Compose(other *Circuit) {
	if other.nbQubits != c.nbQubits {
		panic(fmt.Sprintf("circuit: cannot compose over %d qubits into %d qubits", other.nbQubits, c.nbQubits))
	}
	c.gates = append(c.gates, other.gates...)
}

// Inverse returns a new circuit undoing c: the gate order is reversed, and
// every gate in the set is its own inverse.
func (c *Circuit) Inverse() *Circuit {
	inv := New(c.nbQubits)
	inv.gates = make([]Gate, len(c.gates))
	for i, g := range c.gates {
		inv.gates[len(c.gates)-1-i] = g
	}
	return inv
}

// Depth returns the critical-path length of the circuit: gates acting on
// disjoint qubits count as parallel.
func (c *Circuit) Depth() int {
	level := make([]int, c.nbQubits)
	depth := 0
	for _, g := range c.gates {
		d := level[g.Target]
		for _, q := range g.Controls {
			if level[q] > d {
				d = level[q]
			}
		}
		d++
		level[g.Target] = d
		for _, q := range g.Controls {
			level[q] = d
		}
		if d > depth {
			depth = d
		}
	}
	return depth
}

func (c *Circuit) checkQubit(q int) {
	if q < 0 || q >= c.nbQubits {
		panic(fmt.Sprintf("circuit: qubit %d out of range [0,%d)", q, c.nbQubits))
	}
}

func allOnes(n int) uint64 {
	if n >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << n) - 1
}
