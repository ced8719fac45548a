package t2048

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownPolicy is returned when an auto-play policy name is invalid.
var ErrUnknownPolicy = errors.New("t2048: unknown autoplay policy")

// Policy selects how auto-play measures candidate moves.
type Policy string

const (
	// PolicyPure evaluates each direction on a throwaway copy of the board.
	// No tile is spawned and the live game is never touched.
	PolicyPure Policy = "pure"

	// PolicySpeculative really plays each direction, spawn included, measures
	// the result and undoes it.
	PolicySpeculative Policy = "speculative"
)

// ParsePolicy parses a policy name.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case PolicyPure, PolicySpeculative:
		return p, nil
	case "":
		return PolicyPure, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

// MoveEfficiency ranks one candidate move.
// EmptyCells is -1 for a move that leaves the board unchanged.
type MoveEfficiency struct {
	EmptyCells int
	Score      int
	Direction  Direction
}

// CompareEfficiency orders candidates best first: more empty cells, then
// higher score. Equal candidates compare as 0.
func CompareEfficiency(a, b MoveEfficiency) int {
	if c := cmp.Compare(b.EmptyCells, a.EmptyCells); c != 0 {
		return c
	}
	return cmp.Compare(b.Score, a.Score)
}

// RankMoves returns the candidates sorted best first. Ties keep their input
// order.
func RankMoves(effs []MoveEfficiency) []MoveEfficiency {
	ranked := slices.Clone(effs)
	slices.SortStableFunc(ranked, CompareEfficiency)
	return ranked
}

// EvaluateMove measures dir on a copy of grid without spawning.
func EvaluateMove(grid Grid, score int, dir Direction) MoveEfficiency {
	changed, st := slide(&grid, dir)
	if !changed {
		return MoveEfficiency{EmptyCells: -1, Score: 0, Direction: dir}
	}
	return MoveEfficiency{
		EmptyCells: grid.EmptyCount(),
		Score:      score + st.Gained,
		Direction:  dir,
	}
}

// Evaluate measures every direction, in Directions order, with the model's
// policy. The game state is the same afterwards; the speculative policy does
// advance the random source.
func (m *Model) Evaluate() []MoveEfficiency {
	if m.policy == PolicySpeculative {
		return m.evaluateSpeculative()
	}

	effs := make([]MoveEfficiency, 0, len(Directions))
	for _, dir := range Directions {
		effs = append(effs, EvaluateMove(m.grid, m.score, dir))
	}
	return effs
}

func (m *Model) evaluateSpeculative() []MoveEfficiency {
	effs := make([]MoveEfficiency, 0, len(Directions))
	best := m.maxTile
	// A capped history drops its oldest record on push; undo cannot bring it back.
	records := slices.Clone(m.history.records)

	for _, dir := range Directions {
		m.Move(dir)

		eff := MoveEfficiency{EmptyCells: -1, Score: 0, Direction: dir}
		if m.history.Changed(m.grid) {
			eff = MoveEfficiency{
				EmptyCells: m.grid.EmptyCount(),
				Score:      m.score,
				Direction:  dir,
			}
		}
		effs = append(effs, eff)

		m.Undo()
		m.maxTile = best
	}

	m.history.records = records
	return effs
}

// RandomMove plays a uniformly chosen direction, drawn from the model's
// random source, and returns it. The move may change nothing.
func (m *Model) RandomMove() Direction {
	dir := Directions[m.spawner.rng.Intn(len(Directions))]
	m.Move(dir)
	return dir
}

// AutoPlayStep plays the best-ranked move and returns its direction.
// On a board with no legal move every candidate ties and Left is played,
// which changes nothing but still records an undo entry.
func (m *Model) AutoPlayStep() Direction {
	ranked := RankMoves(m.Evaluate())
	best := ranked[0].Direction
	m.Move(best)
	return best
}
