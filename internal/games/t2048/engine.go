package t2048

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDirection is returned when a direction name cannot be parsed.
var ErrUnknownDirection = errors.New("t2048: unknown direction")

// Direction represents a move direction.
type Direction int

// Order matters: the auto-player evaluates candidates in this order and
// keeps it for ties.
const (
	DirLeft Direction = iota
	DirRight
	DirUp
	DirDown
)

// Directions lists every legal move in evaluation order.
var Directions = [...]Direction{DirLeft, DirRight, DirUp, DirDown}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection parses a direction name, case-insensitively.
// WASD and vim keys are accepted as aliases.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "a", "h":
		return DirLeft, nil
	case "right", "d", "l":
		return DirRight, nil
	case "up", "w", "k":
		return DirUp, nil
	case "down", "s", "j":
		return DirDown, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	if _, _, ok := rotations(d); !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownDirection, int(d))
	}
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(text []byte) error {
	parsed, err := ParseDirection(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// slideStats accumulates merge results for one move.
type slideStats struct {
	Gained int // Sum of merged tile values (score delta)
	Best   int // Highest value produced by a merge
}

// compress slides non-empty tiles toward index 0, keeping their order.
// Returns true if any tile changed position.
func compress(row *[Size]Tile) bool {
	changed := false
	write := 0

	for read := range Size {
		if row[read].IsEmpty() {
			continue
		}
		if read != write {
			row[write] = row[read]
			row[read] = Tile{}
			changed = true
		}
		write++
	}

	return changed
}

// merge combines equal neighbours left to right. The row is re-compressed
// after every merge, and the scan never returns to an index it merged into,
// so a tile merges at most once per move.
func merge(row *[Size]Tile, st *slideStats) bool {
	changed := false

	for i := 1; i < Size; i++ {
		left, right := &row[i-1], &row[i]
		if left.IsEmpty() || left.Value != right.Value {
			continue
		}

		left.Value *= 2
		right.Value = 0
		st.Gained += left.Value
		st.Best = max(st.Best, left.Value)

		compress(row)
		changed = true
	}

	return changed
}

// slideLeft compresses and merges every row toward column 0.
func slideLeft(g *Grid) (bool, slideStats) {
	var st slideStats
	changed := false

	for r := range Size {
		compressed := compress(&g[r])
		merged := merge(&g[r], &st)
		if compressed || merged {
			changed = true
		}
	}

	return changed, st
}

// rotateClockwise turns the grid 90 degrees clockwise in place:
// (i, j) receives the tile formerly at (Size-1-j, i).
func (g *Grid) rotateClockwise() {
	src := *g
	for i := range Size {
		for j := range Size {
			g[i][j] = src[Size-1-j][i]
		}
	}
}

func (g *Grid) rotate(times int) {
	for range times {
		g.rotateClockwise()
	}
}

// rotations returns how many clockwise turns bring dir onto "left" and how
// many turn the grid back afterwards.
func rotations(dir Direction) (before, after int, ok bool) {
	switch dir {
	case DirLeft:
		return 0, 0, true
	case DirRight:
		return 2, 2, true
	case DirUp:
		return 3, 1, true
	case DirDown:
		return 1, 3, true
	default:
		return 0, 0, false
	}
}

// slide applies one directional move to g without spawning.
// Every direction is the left move seen through a rotation.
func slide(g *Grid, dir Direction) (bool, slideStats) {
	before, after, ok := rotations(dir)
	if !ok {
		return false, slideStats{}
	}

	g.rotate(before)
	changed, st := slideLeft(g)
	g.rotate(after)

	return changed, st
}
