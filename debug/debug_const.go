//go:build !debug

package debug

// Debug controls the expensive invariant checks (ancilla cleanliness at
// bracket boundaries); it is switched on with the "debug" build tag.
const Debug = false
