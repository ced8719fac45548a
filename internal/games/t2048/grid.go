package t2048

import (
	"fmt"
	"strings"
)

// Size is the board dimension.
const Size = 4

// Cell addresses a board position.
type Cell struct {
	Row int
	Col int
}

// Grid is the Size x Size board, row-major.
// It is an array, so assigning a Grid copies every tile: snapshots taken by
// assignment never alias the live board.
type Grid [Size][Size]Tile

// GridFromValues builds a grid from raw tile values.
func GridFromValues(values [Size][Size]int) Grid {
	var g Grid
	for r := range Size {
		for c := range Size {
			g[r][c] = Tile{Value: values[r][c]}
		}
	}
	return g
}

// Values returns the raw tile values (0 means empty).
func (g Grid) Values() [Size][Size]int {
	var values [Size][Size]int
	for r := range Size {
		for c := range Size {
			values[r][c] = g[r][c].Value
		}
	}
	return values
}

// Clone returns an independent copy of the grid.
func (g Grid) Clone() Grid {
	return g
}

// EmptyCells returns the positions of all empty tiles in row-major order.
func (g Grid) EmptyCells() []Cell {
	var cells []Cell
	for r := range Size {
		for c := range Size {
			if g[r][c].IsEmpty() {
				cells = append(cells, Cell{Row: r, Col: c})
			}
		}
	}
	return cells
}

// EmptyCount returns the number of empty tiles.
func (g Grid) EmptyCount() int {
	n := 0
	for r := range Size {
		for c := range Size {
			if g[r][c].IsEmpty() {
				n++
			}
		}
	}
	return n
}

// Sum returns the sum of all tile values.
func (g Grid) Sum() int {
	sum := 0
	for r := range Size {
		for c := range Size {
			sum += g[r][c].Value
		}
	}
	return sum
}

// MaxValue returns the highest tile value on the board.
func (g Grid) MaxValue() int {
	best := 0
	for r := range Size {
		for c := range Size {
			best = max(best, g[r][c].Value)
		}
	}
	return best
}

// CanMove reports whether any move is possible: an empty cell exists or two
// orthogonal neighbours hold the same value.
func (g Grid) CanMove() bool {
	for r := range Size {
		for c := range Size {
			v := g[r][c].Value
			if v == 0 {
				return true
			}
			if r > 0 && g[r-1][c].Value == v {
				return true
			}
			if c > 0 && g[r][c-1].Value == v {
				return true
			}
		}
	}
	return false
}

func (g *Grid) clear() {
	*g = Grid{}
}

// String renders the grid as text, one row per line, with "." for empty cells.
func (g Grid) String() string {
	var b strings.Builder
	for r := range Size {
		for c := range Size {
			if c > 0 {
				b.WriteByte(' ')
			}
			if g[r][c].IsEmpty() {
				fmt.Fprintf(&b, "%5s", ".")
			} else {
				fmt.Fprintf(&b, "%5d", g[r][c].Value)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
