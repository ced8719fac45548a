package response

import (
	"time"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// Game is the JSON view of one API game.
type Game struct {
	ID        string                      `json:"id"`
	Player    string                      `json:"player,omitempty"`
	Seed      int64                       `json:"seed"`
	Board     [t2048.Size][t2048.Size]int `json:"board"`
	Score     int                         `json:"score"`
	MaxTile   int                         `json:"max_tile"`
	Status    t2048.GameStatus            `json:"status"`
	Moves     int                         `json:"moves"`
	UndoDepth int                         `json:"undo_depth"`
	CanMove   bool                        `json:"can_move"`
	CreatedAt time.Time                   `json:"created_at"`
}

// MoveResult is returned by the move and auto endpoints.
type MoveResult struct {
	Game      Game   `json:"game"`
	Direction string `json:"direction"`
	Moved     bool   `json:"moved"`
}

// Score is one leaderboard row.
type Score struct {
	Rank      int       `json:"rank"`
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	MaxTile   int       `json:"max_tile"`
	Moves     int       `json:"moves"`
	CreatedAt time.Time `json:"created_at"`
}

// Scores is the leaderboard response.
type Scores struct {
	Scores []Score `json:"scores"`
}

// NewScores converts stored entries into ranked rows.
func NewScores(entries []storage.ScoreEntry) Scores {
	rows := make([]Score, len(entries))
	for i, e := range entries {
		rows[i] = Score{
			Rank:      i + 1,
			Player:    e.Player,
			Score:     e.Score,
			MaxTile:   e.MaxTile,
			Moves:     e.Moves,
			CreatedAt: e.CreatedAt,
		}
	}
	return Scores{Scores: rows}
}
