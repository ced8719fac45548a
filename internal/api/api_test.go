package api_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/charmbracelet/log"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/tui-2048/internal/api"
	"github.com/vovakirdan/tui-2048/internal/api/apierr"
	"github.com/vovakirdan/tui-2048/internal/api/response"
	"github.com/vovakirdan/tui-2048/internal/api/session"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

type testServer struct {
	handler  http.Handler
	sessions *session.Manager
	store    storage.Store
}

func newTestServer(t *testing.T, store storage.Store) *testServer {
	t.Helper()

	sessions := session.NewManager(t2048.DefaultOptions(), time.Hour)
	router := api.NewRouter(api.RouterConfig{
		Logger:   log.New(io.Discard),
		Sessions: sessions,
		Store:    store,
	})

	return &testServer{handler: router, sessions: sessions, store: store}
}

func (ts *testServer) request(method, path string, body any) *httptest.ResponseRecorder {
	var reqBody io.Reader = http.NoBody
	switch b := body.(type) {
	case nil:
	case string:
		reqBody = bytes.NewBufferString(b)
	default:
		data, _ := json.Marshal(b)
		reqBody = bytes.NewBuffer(data)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

func (ts *testServer) createGame(t *testing.T, body any) response.Game {
	t.Helper()

	rr := ts.request(http.MethodPost, "/api/v1/games", body)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var game response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &game))
	return game
}

// nearlyLost is one move right away from game over whatever tile spawns.
var nearlyLost = t2048.Snapshot{
	Board: [t2048.Size][t2048.Size]int{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{32, 4, 2, 4},
		{8, 16, 8, 0},
	},
	Score: 100,
}

func (ts *testServer) restore(t *testing.T, id string, snap t2048.Snapshot) {
	t.Helper()

	s, err := ts.sessions.Get(id)
	require.NoError(t, err)
	require.NoError(t, s.Do(func(st *session.State) error {
		return st.Model.Restore(snap)
	}))
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) apierr.APIError {
	t.Helper()

	var resp apierr.ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Error
}

func countTiles(board [t2048.Size][t2048.Size]int) int {
	n := 0
	for _, row := range board {
		for _, v := range row {
			if v != 0 {
				n++
			}
		}
	}
	return n
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.request(http.MethodGet, "/api/v1/health", nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ok")
}

func TestCreateGame(t *testing.T) {
	ts := newTestServer(t, storage.NewMemory())

	game := ts.createGame(t, nil)

	assert.NotEmpty(t, game.ID)
	assert.Equal(t, 2, countTiles(game.Board))
	assert.Equal(t, 0, game.Score)
	assert.Equal(t, t2048.StatusPlaying, game.Status)
	assert.Equal(t, 0, game.UndoDepth)
	assert.True(t, game.CanMove)
}

func TestCreateGameWithSeed(t *testing.T) {
	ts := newTestServer(t, storage.NewMemory())

	a := ts.createGame(t, map[string]any{"seed": 1234, "player": "alice"})
	b := ts.createGame(t, map[string]any{"seed": 1234})

	assert.NotEqual(t, a.ID, b.ID)
	assert.Equal(t, a.Board, b.Board)
	assert.Equal(t, int64(1234), a.Seed)
	assert.Equal(t, "alice", a.Player)
}

func TestCreateGameBadBody(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.request(http.MethodPost, "/api/v1/games", "{not json")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)
}

func TestGetGame(t *testing.T) {
	ts := newTestServer(t, nil)
	game := ts.createGame(t, nil)

	rr := ts.request(http.MethodGet, "/api/v1/games/"+game.ID, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var got response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, game, got)
}

func TestGetUnknownGame(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.request(http.MethodGet, "/api/v1/games/nope", nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, apierr.CodeGameNotFound, decodeError(t, rr).Code)
}

func TestMove(t *testing.T) {
	ts := newTestServer(t, nil)
	game := ts.createGame(t, nil)
	ts.restore(t, game.ID, t2048.Snapshot{Board: [t2048.Size][t2048.Size]int{{0, 0, 2, 2}}})

	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/moves", map[string]string{"direction": "left"})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var res response.MoveResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.True(t, res.Moved)
	assert.Equal(t, "left", res.Direction)
	assert.Equal(t, 4, res.Game.Board[0][0])
	assert.Equal(t, 4, res.Game.Score)
	assert.Equal(t, 1, res.Game.Moves)
	assert.Equal(t, 1, res.Game.UndoDepth)
	assert.Equal(t, 2, countTiles(res.Game.Board))
}

func TestMoveNoChange(t *testing.T) {
	ts := newTestServer(t, nil)
	game := ts.createGame(t, nil)
	ts.restore(t, game.ID, t2048.Snapshot{Board: [t2048.Size][t2048.Size]int{{2, 4}}})

	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/moves", map[string]string{"direction": "left"})
	require.Equal(t, http.StatusOK, rr.Code)

	var res response.MoveResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.False(t, res.Moved)
	assert.Equal(t, 0, res.Game.Moves)
	assert.Equal(t, 1, res.Game.UndoDepth, "a move that changes nothing still saves an undo record")
}

func TestMoveInvalidDirection(t *testing.T) {
	ts := newTestServer(t, nil)
	game := ts.createGame(t, nil)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/moves", map[string]string{"direction": "sideways"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidDirection, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/moves", "garbage")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, apierr.CodeInvalidRequest, decodeError(t, rr).Code)
}

func TestUndo(t *testing.T) {
	ts := newTestServer(t, nil)
	game := ts.createGame(t, nil)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/undo", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeNothingToUndo, decodeError(t, rr).Code)

	ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/moves", map[string]string{"direction": "up"})
	rr = ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/undo", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var got response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, game.Board, got.Board)
	assert.Equal(t, 0, got.UndoDepth)
}

func TestAutoMove(t *testing.T) {
	ts := newTestServer(t, nil)
	game := ts.createGame(t, nil)
	ts.restore(t, game.ID, t2048.Snapshot{Board: [t2048.Size][t2048.Size]int{
		{2, 2, 0, 0},
		{4, 0, 0, 0},
	}})

	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/auto", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var res response.MoveResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.True(t, res.Moved)
	assert.Equal(t, 4, res.Game.Score)
	assert.Contains(t, []string{"left", "right"}, res.Direction)
}

func TestGameOverRecordsScoreOnce(t *testing.T) {
	store := storage.NewMemory()
	ts := newTestServer(t, store)
	game := ts.createGame(t, map[string]any{"player": "bob"})
	ts.restore(t, game.ID, nearlyLost)

	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/moves", map[string]string{"direction": "right"})
	require.Equal(t, http.StatusOK, rr.Code)

	var res response.MoveResult
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &res))
	assert.Equal(t, t2048.StatusGameOver, res.Game.Status)
	assert.False(t, res.Game.CanMove)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/moves", map[string]string{"direction": "left"})
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, apierr.CodeGameOver, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/auto", nil)
	assert.Equal(t, http.StatusConflict, rr.Code)

	scores, err := store.TopScores(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, scores, 1)
	assert.Equal(t, "bob", scores[0].Player)
	assert.Equal(t, 100, scores[0].Score)
	assert.Equal(t, 1, scores[0].Moves)
}

func TestNewGame(t *testing.T) {
	ts := newTestServer(t, nil)
	game := ts.createGame(t, nil)
	ts.restore(t, game.ID, nearlyLost)
	ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/moves", map[string]string{"direction": "right"})

	rr := ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/new", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var got response.Game
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
	assert.Equal(t, game.ID, got.ID)
	assert.Equal(t, 0, got.Score)
	assert.Equal(t, 0, got.Moves)
	assert.Equal(t, 0, got.UndoDepth)
	assert.Equal(t, 2, countTiles(got.Board))
	assert.Equal(t, t2048.StatusPlaying, got.Status)
}

func TestDeleteGame(t *testing.T) {
	ts := newTestServer(t, nil)
	game := ts.createGame(t, nil)

	rr := ts.request(http.MethodDelete, "/api/v1/games/"+game.ID, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/v1/games/"+game.ID, nil)
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, 0, ts.sessions.Len())
}

func TestScores(t *testing.T) {
	store := storage.NewMemory()
	for _, score := range []int{300, 100, 200} {
		_, err := store.SaveScore(t.Context(), storage.ScoreEntry{Player: "p", Score: score})
		require.NoError(t, err)
	}
	ts := newTestServer(t, store)

	rr := ts.request(http.MethodGet, "/api/v1/scores?limit=2", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.Scores
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Scores, 2)
	assert.Equal(t, 300, resp.Scores[0].Score)
	assert.Equal(t, 1, resp.Scores[0].Rank)
	assert.Equal(t, 200, resp.Scores[1].Score)
}

func TestScoresBadLimit(t *testing.T) {
	ts := newTestServer(t, storage.NewMemory())

	rr := ts.request(http.MethodGet, "/api/v1/scores?limit=-3", nil)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestScoresWithoutStore(t *testing.T) {
	ts := newTestServer(t, nil)

	rr := ts.request(http.MethodGet, "/api/v1/scores", nil)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"scores":[]}`, rr.Body.String())
}

func TestGameOverWithRedisStore(t *testing.T) {
	mini := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mini.Addr()})
	store := storage.NewRedisWithClient(client, "apitest")
	t.Cleanup(func() { _ = store.Close() })

	ts := newTestServer(t, store)
	game := ts.createGame(t, nil)
	ts.restore(t, game.ID, nearlyLost)
	ts.request(http.MethodPost, "/api/v1/games/"+game.ID+"/moves", map[string]string{"direction": "right"})

	rr := ts.request(http.MethodGet, "/api/v1/scores", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp response.Scores
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp.Scores, 1)
	assert.Equal(t, 100, resp.Scores[0].Score)
	assert.True(t, mini.Exists("apitest:scores"))
}
