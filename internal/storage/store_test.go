package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
)

// StoreSuite runs the same behaviour checks against every backend.
type StoreSuite struct {
	suite.Suite
	open  func(t *testing.T) Store
	store Store
	ctx   context.Context
}

func TestMemoryStore(t *testing.T) {
	suite.Run(t, &StoreSuite{open: func(t *testing.T) Store {
		return NewMemory()
	}})
}

func TestSQLiteStore(t *testing.T) {
	suite.Run(t, &StoreSuite{open: func(t *testing.T) Store {
		store, err := OpenSQLite(filepath.Join(t.TempDir(), "scores.db"))
		require.NoError(t, err)
		return store
	}})
}

func TestRedisStore(t *testing.T) {
	suite.Run(t, &StoreSuite{open: func(t *testing.T) Store {
		mini := miniredis.RunT(t)
		client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
		return NewRedisWithClient(client, "test")
	}})
}

func (s *StoreSuite) SetupTest() {
	s.store = s.open(s.T())
	s.ctx = context.Background()
}

func (s *StoreSuite) TearDownTest() {
	if s.store != nil {
		_ = s.store.Close()
	}
}

func (s *StoreSuite) saveScores(scores ...int) {
	for _, score := range scores {
		_, err := s.store.SaveScore(s.ctx, ScoreEntry{Player: "p", Score: score, MaxTile: 64, Moves: 10})
		s.Require().NoError(err)
	}
}

// Score tests

func (s *StoreSuite) TestSaveScoreAssignsIDs() {
	id1, err := s.store.SaveScore(s.ctx, ScoreEntry{Score: 10})
	s.Require().NoError(err)
	id2, err := s.store.SaveScore(s.ctx, ScoreEntry{Score: 20})
	s.Require().NoError(err)

	s.NotZero(id1)
	s.NotEqual(id1, id2)
}

func (s *StoreSuite) TestTopScoresOrdered() {
	s.saveScores(100, 50, 200)

	scores, err := s.store.TopScores(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(scores, 3)

	s.Equal(200, scores[0].Score)
	s.Equal(100, scores[1].Score)
	s.Equal(50, scores[2].Score)
	s.Equal("p", scores[0].Player)
	s.Equal(64, scores[0].MaxTile)
	s.Equal(10, scores[0].Moves)
}

func (s *StoreSuite) TestTopScoresTiesKeepSaveOrder() {
	for _, player := range []string{"a", "b", "c"} {
		_, err := s.store.SaveScore(s.ctx, ScoreEntry{Player: player, Score: 100})
		s.Require().NoError(err)
	}
	_, err := s.store.SaveScore(s.ctx, ScoreEntry{Player: "d", Score: 200})
	s.Require().NoError(err)

	scores, err := s.store.TopScores(s.ctx, 3)
	s.Require().NoError(err)
	s.Require().Len(scores, 3)

	s.Equal([]string{"d", "a", "b"}, []string{scores[0].Player, scores[1].Player, scores[2].Player})
	s.Less(scores[1].ID, scores[2].ID)
}

func (s *StoreSuite) TestTopScoresLimit() {
	s.saveScores(100, 200, 300, 400, 500)

	scores, err := s.store.TopScores(s.ctx, 3)
	s.Require().NoError(err)
	s.Require().Len(scores, 3)
	s.Equal([]int{500, 400, 300}, []int{scores[0].Score, scores[1].Score, scores[2].Score})
}

func (s *StoreSuite) TestTopScoresDefaultLimit() {
	for i := range DefaultTopLimit + 5 {
		s.saveScores(i * 10)
	}

	scores, err := s.store.TopScores(s.ctx, 0)
	s.Require().NoError(err)
	s.Len(scores, DefaultTopLimit)
}

func (s *StoreSuite) TestTopScoresEmpty() {
	scores, err := s.store.TopScores(s.ctx, 10)
	s.Require().NoError(err)
	s.Empty(scores)
}

func (s *StoreSuite) TestHighScore() {
	high, err := s.store.HighScore(s.ctx)
	s.Require().NoError(err)
	s.Zero(high)

	s.saveScores(100, 300, 200)

	high, err = s.store.HighScore(s.ctx)
	s.Require().NoError(err)
	s.Equal(300, high)
}

// Save slot tests

func (s *StoreSuite) TestSaveAndLoadGame() {
	snap := t2048.Snapshot{
		Board:   [t2048.Size][t2048.Size]int{{2, 4, 8, 16}, {0, 0, 2, 0}},
		Score:   120,
		MaxTile: 16,
		Status:  t2048.StatusPlaying,
	}

	s.Require().NoError(s.store.SaveGame(s.ctx, "slot-1", snap))

	loaded, err := s.store.LoadGame(s.ctx, "slot-1")
	s.Require().NoError(err)
	s.Equal(snap, loaded)
}

func (s *StoreSuite) TestSaveGameOverwrites() {
	s.Require().NoError(s.store.SaveGame(s.ctx, "slot", t2048.Snapshot{Score: 1}))
	s.Require().NoError(s.store.SaveGame(s.ctx, "slot", t2048.Snapshot{Score: 2}))

	loaded, err := s.store.LoadGame(s.ctx, "slot")
	s.Require().NoError(err)
	s.Equal(2, loaded.Score)
}

func (s *StoreSuite) TestLoadGameNotFound() {
	_, err := s.store.LoadGame(s.ctx, "missing")
	s.ErrorIs(err, ErrNotFound)
}

func (s *StoreSuite) TestDeleteGame() {
	s.Require().NoError(s.store.SaveGame(s.ctx, "slot", t2048.Snapshot{Score: 1}))
	s.Require().NoError(s.store.DeleteGame(s.ctx, "slot"))

	_, err := s.store.LoadGame(s.ctx, "slot")
	s.ErrorIs(err, ErrNotFound)

	s.NoError(s.store.DeleteGame(s.ctx, "slot"), "deleting a missing slot")
}

func TestRedisKeysUsePrefix(t *testing.T) {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	store := NewRedisWithClient(client, "custom")
	defer store.Close()
	ctx := context.Background()

	_, err := store.SaveScore(ctx, ScoreEntry{Score: 42})
	require.NoError(t, err)
	require.NoError(t, store.SaveGame(ctx, "a", t2048.Snapshot{}))

	require.True(t, mini.Exists("custom:scores"))
	require.True(t, mini.Exists("custom:score:1"))
	require.True(t, mini.Exists("custom:game:a"))

	score, err := mini.ZScore("custom:scores", "00000000000000000001")
	require.NoError(t, err)
	require.Equal(t, float64(-42), score)
}

func TestOpen(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		store, err := Open(ctx, config.StorageConfig{Driver: config.DriverMemory})
		require.NoError(t, err)
		require.IsType(t, &MemoryStore{}, store)
		require.NoError(t, store.Close())
	})

	t.Run("sqlite", func(t *testing.T) {
		store, err := Open(ctx, config.StorageConfig{
			Driver: config.DriverSQLite,
			DBPath: filepath.Join(t.TempDir(), "scores.db"),
		})
		require.NoError(t, err)
		require.IsType(t, &SQLiteStore{}, store)
		require.NoError(t, store.Close())
	})

	t.Run("redis", func(t *testing.T) {
		mini := miniredis.RunT(t)
		store, err := Open(ctx, config.StorageConfig{
			Driver:    config.DriverRedis,
			RedisURL:  "redis://" + mini.Addr(),
			KeyPrefix: "t2048",
		})
		require.NoError(t, err)
		require.IsType(t, &RedisStore{}, store)
		require.NoError(t, store.Close())
	})

	t.Run("unknown driver", func(t *testing.T) {
		_, err := Open(ctx, config.StorageConfig{Driver: "postgres"})
		require.Error(t, err)
	})

	t.Run("redis unreachable", func(t *testing.T) {
		_, err := Open(ctx, config.StorageConfig{Driver: config.DriverRedis, RedisURL: "redis://127.0.0.1:1"})
		require.Error(t, err)
	})
}
