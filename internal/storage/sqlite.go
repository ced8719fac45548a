package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// SQLiteStore manages the SQLite database connection.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite creates or opens a SQLite database at the given path.
// It creates the parent directories if needed and runs migrations.
func OpenSQLite(dbPath string) (*SQLiteStore, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	// Create parent directories
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &SQLiteStore{db: db}

	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}

	return store, nil
}

// migrate creates the database schema if it doesn't exist.
func (s *SQLiteStore) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL DEFAULT '',
			score INTEGER NOT NULL,
			max_tile INTEGER NOT NULL DEFAULT 0,
			moves INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_scores_top ON scores(score DESC);

		CREATE TABLE IF NOT EXISTS saved_games (
			slot TEXT PRIMARY KEY,
			snapshot TEXT NOT NULL,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveScore records a finished game.
// Returns the ID of the inserted record.
func (s *SQLiteStore) SaveScore(ctx context.Context, entry ScoreEntry) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"INSERT INTO scores (player, score, max_tile, moves) VALUES (?, ?, ?, ?)",
		entry.Player, entry.Score, entry.MaxTile, entry.Moves,
	)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot get inserted ID: %w", err)
	}

	return id, nil
}

// TopScores retrieves the top N scores, highest first.
func (s *SQLiteStore) TopScores(ctx context.Context, limit int) ([]ScoreEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, player, score, max_tile, moves, created_at
		 FROM scores
		 ORDER BY score DESC, id ASC
		 LIMIT ?`,
		topLimit(limit),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.Player, &e.Score, &e.MaxTile, &e.Moves, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// HighScore returns the highest score.
// Returns 0 if no scores exist.
func (s *SQLiteStore) HighScore(ctx context.Context) (int, error) {
	var score sql.NullInt64
	err := s.db.QueryRowContext(ctx, "SELECT MAX(score) FROM scores").Scan(&score)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}

	if !score.Valid {
		return 0, nil
	}

	return int(score.Int64), nil
}

// SaveGame stores snap under slot, replacing any previous save.
func (s *SQLiteStore) SaveGame(ctx context.Context, slot string, snap t2048.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("storage: cannot encode snapshot: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO saved_games (slot, snapshot, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT(slot) DO UPDATE SET snapshot = excluded.snapshot, updated_at = CURRENT_TIMESTAMP`,
		slot, string(data),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot save game: %w", err)
	}
	return nil
}

// LoadGame returns the snapshot stored under slot.
func (s *SQLiteStore) LoadGame(ctx context.Context, slot string) (t2048.Snapshot, error) {
	var data string
	err := s.db.QueryRowContext(ctx, "SELECT snapshot FROM saved_games WHERE slot = ?", slot).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return t2048.Snapshot{}, fmt.Errorf("storage: slot %q: %w", slot, ErrNotFound)
	}
	if err != nil {
		return t2048.Snapshot{}, fmt.Errorf("storage: cannot load game: %w", err)
	}

	var snap t2048.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return t2048.Snapshot{}, fmt.Errorf("storage: cannot decode snapshot: %w", err)
	}
	return snap, nil
}

// DeleteGame removes a save slot.
func (s *SQLiteStore) DeleteGame(ctx context.Context, slot string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM saved_games WHERE slot = ?", slot); err != nil {
		return fmt.Errorf("storage: cannot delete game: %w", err)
	}
	return nil
}

// parseTime handles both time.Time and string datetimes from the driver.
func parseTime(v any) time.Time {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		if parsed, err := time.Parse("2006-01-02 15:04:05", t); err == nil {
			return parsed
		}
	}
	return time.Time{}
}
