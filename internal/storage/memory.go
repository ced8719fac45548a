package storage

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// MemoryStore keeps everything in process memory.
type MemoryStore struct {
	mu sync.RWMutex

	scores []ScoreEntry
	games  map[string]t2048.Snapshot
	nextID int64
}

var _ Store = (*MemoryStore)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{
		games:  make(map[string]t2048.Snapshot),
		nextID: 1,
	}
}

// SaveScore appends entry and returns its ID.
func (s *MemoryStore) SaveScore(ctx context.Context, entry ScoreEntry) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = s.nextID
	s.nextID++
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	s.scores = append(s.scores, entry)
	return entry.ID, nil
}

// TopScores returns the best scores, highest first. Ties keep save order.
func (s *MemoryStore) TopScores(ctx context.Context, limit int) ([]ScoreEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sorted := slices.Clone(s.scores)
	slices.SortStableFunc(sorted, func(a, b ScoreEntry) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if limit = topLimit(limit); len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted, nil
}

// HighScore returns the best score, or 0 if none is recorded.
func (s *MemoryStore) HighScore(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	best := 0
	for _, e := range s.scores {
		best = max(best, e.Score)
	}
	return best, nil
}

// SaveGame stores snap under slot, replacing any previous save.
func (s *MemoryStore) SaveGame(ctx context.Context, slot string, snap t2048.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[slot] = snap
	return nil
}

// LoadGame returns the snapshot stored under slot.
func (s *MemoryStore) LoadGame(ctx context.Context, slot string) (t2048.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap, ok := s.games[slot]
	if !ok {
		return t2048.Snapshot{}, fmt.Errorf("storage: slot %q: %w", slot, ErrNotFound)
	}
	return snap, nil
}

// DeleteGame removes a save slot.
func (s *MemoryStore) DeleteGame(ctx context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, slot)
	return nil
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
