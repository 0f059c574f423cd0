package stage

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/mattn/go-runewidth"
)

// Cell is one terminal cell of host content. A zero Rune means the cell is
// empty and the layers beneath show through.
type Cell struct {
	Rune  rune
	Color colorful.Color
	// Wide marks the trailing half of a double-width rune.
	Wide bool
}

// Grid is the host content laid out in terminal cells.
type Grid struct {
	cols, rows int
	cells      []Cell
}

// NewGrid returns an empty cols×rows grid.
func NewGrid(cols, rows int) *Grid {
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return &Grid{cols: cols, rows: rows, cells: make([]Cell, cols*rows)}
}

func (g *Grid) Size() (cols, rows int) {
	return g.cols, g.rows
}

// At returns the cell at (col, row); ok is false outside the grid.
func (g *Grid) At(col, row int) (Cell, bool) {
	if g == nil || col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return Cell{}, false
	}
	return g.cells[row*g.cols+col], true
}

// Set places r at (col, row). Out of range writes are ignored.
func (g *Grid) Set(col, row int, r rune, c colorful.Color) {
	if col < 0 || row < 0 || col >= g.cols || row >= g.rows {
		return
	}
	g.cells[row*g.cols+col] = Cell{Rune: r, Color: c}
}

// WriteString writes s starting at (col, row) and returns the number of
// columns used. Text past the right edge is clipped; spaces leave cells
// empty so the fog stays visible between words.
func (g *Grid) WriteString(col, row int, s string, c colorful.Color) int {
	start := col
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if col+w > g.cols {
			break
		}
		if r != ' ' {
			g.Set(col, row, r, c)
			if w == 2 && col >= 0 && row >= 0 && row < g.rows {
				g.cells[row*g.cols+col+1] = Cell{Color: c, Wide: true}
			}
		}
		col += w
	}
	return col - start
}
