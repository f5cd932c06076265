package search

import (
	"fmt"
	"sort"
	"strings"

	"github.com/maxjeanfavre/grover/grid"
	"github.com/maxjeanfavre/grover/register"
)

// Result is one decoded grid completion with its aggregated occurrence
// count. OutOfRange marks grids where some cell decoded to a value outside
// the symbol range; such samples signal insufficient iterations or a flawed
// oracle and are surfaced as-is for diagnostics, never dropped.
type Result struct {
	Grid       *grid.Grid
	Count      uint64
	OutOfRange bool
}

// Decode maps a sampled histogram back to grids: each cell's k data bits
// are decoded LSB-first (matching Initialize), identical grids are merged,
// and results are ordered by descending count (key order breaks ties).
func Decode(hist map[string]uint64, l *register.Layout) ([]Result, error) {
	type bucket struct {
		grid       *grid.Grid
		count      uint64
		outOfRange bool
	}
	buckets := make(map[string]*bucket)

	for bits, count := range hist {
		if len(bits) != l.NbQubits() {
			return nil, fmt.Errorf("bitstring has %d bits, register has %d", len(bits), l.NbQubits())
		}
		g, outOfRange, err := decodeOne(bits, l)
		if err != nil {
			return nil, err
		}
		key := gridKey(g)
		if b, ok := buckets[key]; ok {
			b.count += count
		} else {
			buckets[key] = &bucket{grid: g, count: count, outOfRange: outOfRange}
		}
	}

	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(a, b int) bool {
		if buckets[keys[a]].count != buckets[keys[b]].count {
			return buckets[keys[a]].count > buckets[keys[b]].count
		}
		return keys[a] < keys[b]
	})

	results := make([]Result, len(keys))
	for i, key := range keys {
		b := buckets[key]
		results[i] = Result{Grid: b.grid, Count: b.count, OutOfRange: b.outOfRange}
	}
	return results, nil
}

func decodeOne(bits string, l *register.Layout) (*grid.Grid, bool, error) {
	g, err := grid.New(l.Rows(), l.Cols())
	if err != nil {
		return nil, false, err
	}
	sm := l.Grid().SymbolMax()
	outOfRange := false
	for i := 0; i < l.Rows(); i++ {
		for j := 0; j < l.Cols(); j++ {
			v := 0
			for b := 0; b < l.K(); b++ {
				switch bits[l.Data(i, j, b)] {
				case '1':
					v |= 1 << uint(b)
				case '0':
				default:
					return nil, false, fmt.Errorf("bitstring has invalid character %q at qubit %d", bits[l.Data(i, j, b)], l.Data(i, j, b))
				}
			}
			if v >= sm {
				outOfRange = true
			}
			g.Set(i, j, grid.Fixed(v))
		}
	}
	return g, outOfRange, nil
}

func gridKey(g *grid.Grid) string {
	var sbb strings.Builder
	for i := 0; i < g.Rows(); i++ {
		for j := 0; j < g.Cols(); j++ {
			fmt.Fprintf(&sbb, "%d,", g.At(i, j).Value())
		}
	}
	return sbb.String()
}
