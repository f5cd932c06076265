// Package grid defines the Latin-square grid specification consumed by the
// register layout and the search driver.
//
// A grid is a rectangular array of cells; each cell is either blank or holds
// a fixed symbol in [0, max(rows, cols)). Validation happens here, before any
// circuit is built: the oracle suppresses invalid completions, it does not
// repair invalid inputs.
package grid

import (
	"fmt"
	"strings"
)

// BlankValue is the sentinel accepted by FromRows for a blank cell.
const BlankValue = -1

// Cell is a tagged variant: either blank or a fixed symbol.
type Cell struct {
	value int
	fixed bool
}

// Blank is the unassigned cell.
var Blank = Cell{}

// Fixed returns a cell holding symbol v.
func Fixed(v int) Cell {
	return Cell{value: v, fixed: true}
}

// IsFixed reports whether the cell holds a fixed symbol.
func (c Cell) IsFixed() bool {
	return c.fixed
}

// Value returns the fixed symbol; it panics on a blank cell.
func (c Cell) Value() int {
	if !c.fixed {
		panic("grid: Value() on a blank cell")
	}
	return c.value
}

// Grid is a rectangular rows×cols array of cells.
//
// The zero value is not usable; use New or FromRows.
type Grid struct {
	rows, cols int
	cells      []Cell
}

// New returns an all-blank grid with the given dimensions.
func New(rows, cols int) (*Grid, error) {
	if rows < 1 || cols < 1 {
		return nil, fmt.Errorf("grid dimensions must be at least 1x1, got %dx%d", rows, cols)
	}
	return &Grid{
		rows:  rows,
		cols:  cols,
		cells: make([]Cell, rows*cols),
	}, nil
}

// FromRows builds a grid from row-major integer rows, where BlankValue (-1)
// marks a blank cell. All rows must have the same length.
func FromRows(rows [][]int) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("grid must have at least one row")
	}
	m := len(rows[0])
	g, err := New(len(rows), m)
	if err != nil {
		return nil, err
	}
	for i, row := range rows {
		if len(row) != m {
			return nil, fmt.Errorf("row %d has length %d, expected %d", i, len(row), m)
		}
		for j, v := range row {
			if v != BlankValue {
				g.Set(i, j, Fixed(v))
			}
		}
	}
	return g, nil
}

// Rows returns the number of rows.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns.
func (g *Grid) Cols() int { return g.cols }

// SymbolMax returns the exclusive upper bound on symbols, max(rows, cols).
func (g *Grid) SymbolMax() int {
	return max(g.rows, g.cols)
}

// At returns the cell at (i, j).
func (g *Grid) At(i, j int) Cell {
	g.check(i, j)
	return g.cells[i*g.cols+j]
}

// Set assigns the cell at (i, j).
func (g *Grid) Set(i, j int, c Cell) {
	g.check(i, j)
	g.cells[i*g.cols+j] = c
}

// Blanks returns the number of blank cells.
func (g *Grid) Blanks() int {
	count := 0
	for _, c := range g.cells {
		if !c.fixed {
			count++
		}
	}
	return count
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	cells := make([]Cell, len(g.cells))
	copy(cells, g.cells)
	return &Grid{rows: g.rows, cols: g.cols, cells: cells}
}

// Verify checks the fixed cells of the grid: every fixed symbol must lie in
// [0, SymbolMax), and no row or column may contain a duplicate fixed symbol.
// A failure is a configuration error for the whole pipeline; nothing should
// be built from a grid that does not verify.
func (g *Grid) Verify() error {
	sm := g.SymbolMax()
	for i := 0; i < g.rows; i++ {
		seen := make(map[int]int, g.cols) // symbol -> column
		for j := 0; j < g.cols; j++ {
			c := g.At(i, j)
			if !c.IsFixed() {
				continue
			}
			v := c.Value()
			if v < 0 || v >= sm {
				return fmt.Errorf("cell (%d,%d) has symbol %d outside [0,%d)", i, j, v, sm)
			}
			if prev, ok := seen[v]; ok {
				return fmt.Errorf("row %d has duplicate symbol %d at columns %d and %d", i, v, prev, j)
			}
			seen[v] = j
		}
	}
	for j := 0; j < g.cols; j++ {
		seen := make(map[int]int, g.rows) // symbol -> row
		for i := 0; i < g.rows; i++ {
			c := g.At(i, j)
			if !c.IsFixed() {
				continue
			}
			v := c.Value()
			if prev, ok := seen[v]; ok {
				return fmt.Errorf("column %d has duplicate symbol %d at rows %d and %d", j, v, prev, i)
			}
			seen[v] = i
		}
	}
	return nil
}

// String renders the grid as a boxed ASCII table, blanks shown as dots.
func (g *Grid) String() string {
	width := 1
	for _, c := range g.cells {
		if c.fixed && len(fmt.Sprint(c.value)) > width {
			width = len(fmt.Sprint(c.value))
		}
	}
	width += 2

	var sbb strings.Builder
	sep := "+" + strings.Repeat(strings.Repeat("-", width)+"+", g.cols)
	sbb.WriteString(sep)
	sbb.WriteByte('\n')
	for i := 0; i < g.rows; i++ {
		sbb.WriteByte('|')
		for j := 0; j < g.cols; j++ {
			s := "."
			if c := g.At(i, j); c.fixed {
				s = fmt.Sprint(c.value)
			}
			pad := width - len(s)
			sbb.WriteString(strings.Repeat(" ", pad/2+pad%2))
			sbb.WriteString(s)
			sbb.WriteString(strings.Repeat(" ", pad/2))
			sbb.WriteByte('|')
		}
		sbb.WriteByte('\n')
		sbb.WriteString(sep)
		sbb.WriteByte('\n')
	}
	return sbb.String()
}

func (g *Grid) check(i, j int) {
	if i < 0 || i >= g.rows || j < 0 || j >= g.cols {
		panic(fmt.Sprintf("grid: cell index (%d,%d) out of range for %dx%d grid", i, j, g.rows, g.cols))
	}
}
