package t2048

import (
	"errors"
	"fmt"
)

// ErrInvalidSnapshot is returned when a snapshot cannot be restored.
var ErrInvalidSnapshot = errors.New("t2048: invalid snapshot")

// GameStatus is the coarse state of a game.
type GameStatus string

const (
	StatusPlaying  GameStatus = "playing"
	StatusGameOver GameStatus = "game_over"
)

// Snapshot captures a game for save slots and the HTTP API.
// Undo history is not part of it.
type Snapshot struct {
	Board   [Size][Size]int `json:"board"`
	Score   int             `json:"score"`
	MaxTile int             `json:"max_tile"`
	Status  GameStatus      `json:"status"`
}

// Snapshot returns the current game snapshot.
func (m *Model) Snapshot() Snapshot {
	status := StatusPlaying
	if m.IsGameOver() {
		status = StatusGameOver
	}

	return Snapshot{
		Board:   m.grid.Values(),
		Score:   m.score,
		MaxTile: m.maxTile,
		Status:  status,
	}
}

// Restore replaces the board, score and best tile with snap and clears undo
// history. Status is derived from the board and ignored.
func (m *Model) Restore(snap Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}

	m.grid = GridFromValues(snap.Board)
	m.score = snap.Score
	m.maxTile = max(snap.MaxTile, m.grid.MaxValue())
	m.history.Clear()
	m.state = needsSnapshot
	return nil
}

// Validate checks that every tile is empty or a power of two >= 2 and that
// score and max tile are non-negative.
func (s Snapshot) Validate() error {
	if s.Score < 0 {
		return fmt.Errorf("%w: negative score %d", ErrInvalidSnapshot, s.Score)
	}
	if s.MaxTile < 0 {
		return fmt.Errorf("%w: negative max tile %d", ErrInvalidSnapshot, s.MaxTile)
	}

	for r := range Size {
		for c := range Size {
			if v := s.Board[r][c]; !validTileValue(v) {
				return fmt.Errorf("%w: tile %d at (%d,%d)", ErrInvalidSnapshot, v, r, c)
			}
		}
	}
	return nil
}

func validTileValue(v int) bool {
	if v == 0 {
		return true
	}
	return v >= 2 && v&(v-1) == 0
}
