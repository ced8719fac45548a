// Package storage persists finished-game scores and named save slots.
// SQLite (pure-Go modernc.org/sqlite), Redis and in-memory backends share
// the Store interface.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// ErrNotFound is returned when a save slot does not exist.
var ErrNotFound = errors.New("storage: not found")

// DefaultTopLimit is used when TopScores is called with a non-positive limit.
const DefaultTopLimit = 10

// ScoreEntry is one finished game on the leaderboard.
type ScoreEntry struct {
	ID        int64     `json:"id"`
	Player    string    `json:"player"`
	Score     int       `json:"score"`
	MaxTile   int       `json:"max_tile"`
	Moves     int       `json:"moves"`
	CreatedAt time.Time `json:"created_at"`
}

// Store is implemented by every storage backend.
type Store interface {
	// SaveScore records a finished game and returns its ID.
	SaveScore(ctx context.Context, entry ScoreEntry) (int64, error)
	// TopScores returns the best scores, highest first.
	TopScores(ctx context.Context, limit int) ([]ScoreEntry, error)
	// HighScore returns the best score, or 0 if none exist.
	HighScore(ctx context.Context) (int, error)

	// SaveGame stores snap under slot, replacing any previous save.
	SaveGame(ctx context.Context, slot string, snap t2048.Snapshot) error
	// LoadGame returns the snapshot in slot or ErrNotFound.
	LoadGame(ctx context.Context, slot string) (t2048.Snapshot, error)
	// DeleteGame removes slot. Deleting a missing slot is not an error.
	DeleteGame(ctx context.Context, slot string) error

	Close() error
}

// Open creates the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case config.DriverSQLite:
		return OpenSQLite(cfg.DBPath)
	case config.DriverRedis:
		return OpenRedis(ctx, cfg.RedisURL, cfg.KeyPrefix)
	case config.DriverMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("storage: unknown driver %q", cfg.Driver)
	}
}

func topLimit(limit int) int {
	if limit <= 0 {
		return DefaultTopLimit
	}
	return limit
}
