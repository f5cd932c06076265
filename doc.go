// Package grover implements a Grover-search solver for Latin-square (and
// general row/column-uniqueness) grid completions.
//
// The module is organized as a pipeline of small packages:
//   - grid: the grid specification (blank or fixed cells) and its validation
//   - register: the mapping of a grid onto a flat qubit register
//   - circuit: the reversible-operation sequence and its serialization
//   - gadgets: ripple-carry comparison primitives with exact uncomputation
//   - oracle: the constraint sub-oracles and the composed phase oracle
//   - search: the Grover driver, iteration-count derivation and result decoding
//   - simulator: a dense state-vector execution backend
//
// The search driver treats the execution backend as a black box; the bundled
// state-vector simulator is one implementation of it.
package grover

import (
	"github.com/blang/semver/v4"
)

// Version of the grover module
var Version = semver.MustParse("0.1.0")
