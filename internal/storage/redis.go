package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// RedisStore keeps scores in a sorted set and save slots as JSON strings.
type RedisStore struct {
	client *redis.Client
	prefix string
}

var _ Store = (*RedisStore)(nil)

// OpenRedis connects to the Redis server at url and verifies the connection.
func OpenRedis(ctx context.Context, url, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("storage: invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("storage: cannot connect to redis: %w", err)
	}

	return NewRedisWithClient(client, prefix), nil
}

// NewRedisWithClient creates a store on an existing client (for testing).
func NewRedisWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// SaveScore stores a finished game's score and returns its ID.
func (s *RedisStore) SaveScore(ctx context.Context, entry ScoreEntry) (int64, error) {
	id, err := s.client.Incr(ctx, scoreSeqKey(s.prefix)).Result()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot allocate score id: %w", err)
	}

	entry.ID = id
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return 0, fmt.Errorf("storage: cannot encode score: %w", err)
	}

	// Use pipeline for atomic save + ranking update
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, scoreKey(s.prefix, id), data, 0)
	pipe.ZAdd(ctx, scoresKey(s.prefix), redis.Z{
		Score:  -float64(entry.Score),
		Member: scoreMember(id),
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("storage: cannot save score: %w", err)
	}

	return id, nil
}

// TopScores returns the best scores, highest first. Ties keep save order.
func (s *RedisStore) TopScores(ctx context.Context, limit int) ([]ScoreEntry, error) {
	ids, err := s.client.ZRange(ctx, scoresKey(s.prefix), 0, int64(topLimit(limit)-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, 0, len(ids))
	for _, raw := range ids {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("storage: bad score id %q: %w", raw, err)
		}
		keys = append(keys, scoreKey(s.prefix, id))
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("storage: cannot load scores: %w", err)
	}

	entries := make([]ScoreEntry, 0, len(values))
	for _, v := range values {
		raw, ok := v.(string)
		if !ok {
			// Ranked but the record is gone; skip it.
			continue
		}

		var e ScoreEntry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("storage: cannot decode score: %w", err)
		}
		entries = append(entries, e)
	}

	return entries, nil
}

// HighScore returns the best score, or 0 if none is recorded.
func (s *RedisStore) HighScore(ctx context.Context) (int, error) {
	top, err := s.client.ZRangeWithScores(ctx, scoresKey(s.prefix), 0, 0).Result()
	if err != nil {
		return 0, fmt.Errorf("storage: cannot query high score: %w", err)
	}
	if len(top) == 0 {
		return 0, nil
	}
	return int(-top[0].Score), nil
}

// SaveGame writes snap to slot, replacing any earlier save.
func (s *RedisStore) SaveGame(ctx context.Context, slot string, snap t2048.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("storage: cannot encode snapshot: %w", err)
	}
	if err := s.client.Set(ctx, gameKey(s.prefix, slot), data, 0).Err(); err != nil {
		return fmt.Errorf("storage: cannot save game: %w", err)
	}
	return nil
}

// LoadGame reads the snapshot in slot. A missing slot wraps ErrNotFound.
func (s *RedisStore) LoadGame(ctx context.Context, slot string) (t2048.Snapshot, error) {
	data, err := s.client.Get(ctx, gameKey(s.prefix, slot)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return t2048.Snapshot{}, fmt.Errorf("storage: slot %q: %w", slot, ErrNotFound)
		}
		return t2048.Snapshot{}, fmt.Errorf("storage: cannot load game: %w", err)
	}

	var snap t2048.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return t2048.Snapshot{}, fmt.Errorf("storage: cannot decode snapshot: %w", err)
	}
	return snap, nil
}

// DeleteGame removes a save slot. Deleting a missing slot is not an error.
func (s *RedisStore) DeleteGame(ctx context.Context, slot string) error {
	if err := s.client.Del(ctx, gameKey(s.prefix, slot)).Err(); err != nil {
		return fmt.Errorf("storage: cannot delete game: %w", err)
	}
	return nil
}
