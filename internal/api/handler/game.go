package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/tui-2048/internal/api/apierr"
	"github.com/vovakirdan/tui-2048/internal/api/request"
	"github.com/vovakirdan/tui-2048/internal/api/response"
	"github.com/vovakirdan/tui-2048/internal/api/session"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// GameHandler handles game endpoints
type GameHandler struct {
	sessions *session.Manager
	store    storage.Store
	logger   *log.Logger
}

// NewGameHandler creates a new game handler. store may be nil, in which case
// finished games are not recorded.
func NewGameHandler(sessions *session.Manager, store storage.Store, logger *log.Logger) *GameHandler {
	return &GameHandler{
		sessions: sessions,
		store:    store,
		logger:   logger,
	}
}

// Create handles POST /api/v1/games
func (h *GameHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req request.CreateGameRequest
	if err := decodeOptional(r, &req); err != nil {
		apierr.WriteError(w, err)
		return
	}

	s := h.sessions.Create(req.Player, req.Seed)
	h.logger.Debug("game created", "id", s.ID, "player", s.Player, "seed", s.Seed)

	var resp response.Game
	_ = s.Do(func(st *session.State) error {
		resp = gameResponse(s, st)
		return nil
	})
	response.JSON(w, http.StatusCreated, resp)
}

// Get handles GET /api/v1/games/{id}
func (h *GameHandler) Get(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, http.StatusOK, func(s *session.Session, st *session.State) (any, error) {
		return gameResponse(s, st), nil
	})
}

// Move handles POST /api/v1/games/{id}/moves
func (h *GameHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req request.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("Invalid JSON body"))
		return
	}
	dir, err := t2048.ParseDirection(req.Direction)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	h.withSession(w, r, http.StatusOK, func(s *session.Session, st *session.State) (any, error) {
		if st.Model.IsGameOver() {
			return nil, apierr.ErrGameOver
		}
		moved := st.Model.Move(dir)
		return h.afterMove(r.Context(), s, st, dir, moved), nil
	})
}

// Auto handles POST /api/v1/games/{id}/auto
func (h *GameHandler) Auto(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, http.StatusOK, func(s *session.Session, st *session.State) (any, error) {
		if st.Model.IsGameOver() {
			return nil, apierr.ErrGameOver
		}
		before := st.Model.Board()
		dir := st.Model.AutoPlayStep()
		return h.afterMove(r.Context(), s, st, dir, st.Model.Board() != before), nil
	})
}

// Undo handles POST /api/v1/games/{id}/undo
func (h *GameHandler) Undo(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, http.StatusOK, func(s *session.Session, st *session.State) (any, error) {
		if !st.Model.Undo() {
			return nil, apierr.ErrNothingToUndo
		}
		if !st.Model.IsGameOver() {
			st.Recorded = false
		}
		return gameResponse(s, st), nil
	})
}

// New handles POST /api/v1/games/{id}/new
func (h *GameHandler) New(w http.ResponseWriter, r *http.Request) {
	h.withSession(w, r, http.StatusOK, func(s *session.Session, st *session.State) (any, error) {
		st.Model.NewGame()
		st.Moves = 0
		st.Recorded = false
		return gameResponse(s, st), nil
	})
}

// Delete handles DELETE /api/v1/games/{id}
func (h *GameHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Delete(mux.Vars(r)["id"]); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.NoContent(w)
}

// withSession looks up the session named in the path and runs fn under its
// lock, writing either fn's result with status or its error.
func (h *GameHandler) withSession(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	fn func(*session.Session, *session.State) (any, error),
) {
	s, err := h.sessions.Get(mux.Vars(r)["id"])
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	var resp any
	err = s.Do(func(st *session.State) error {
		var err error
		resp, err = fn(s, st)
		return err
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, status, resp)
}

// afterMove counts the move and records the score once the game ends.
func (h *GameHandler) afterMove(ctx context.Context, s *session.Session, st *session.State, dir t2048.Direction, moved bool) response.MoveResult {
	if moved {
		st.Moves++
	}

	if st.Model.IsGameOver() && !st.Recorded {
		st.Recorded = true
		h.recordScore(ctx, s, st)
	}

	return response.MoveResult{
		Game:      gameResponse(s, st),
		Direction: dir.String(),
		Moved:     moved,
	}
}

func (h *GameHandler) recordScore(ctx context.Context, s *session.Session, st *session.State) {
	if h.store == nil || st.Model.Score() == 0 {
		return
	}

	entry := storage.ScoreEntry{
		Player:  s.Player,
		Score:   st.Model.Score(),
		MaxTile: st.Model.MaxTile(),
		Moves:   st.Moves,
	}
	if _, err := h.store.SaveScore(ctx, entry); err != nil {
		h.logger.Error("could not record score", "id", s.ID, "error", err)
		return
	}
	h.logger.Info("game over", "id", s.ID, "player", s.Player, "score", entry.Score, "max_tile", entry.MaxTile)
}

func gameResponse(s *session.Session, st *session.State) response.Game {
	snap := st.Model.Snapshot()
	return response.Game{
		ID:        s.ID,
		Player:    s.Player,
		Seed:      s.Seed,
		Board:     snap.Board,
		Score:     snap.Score,
		MaxTile:   snap.MaxTile,
		Status:    snap.Status,
		Moves:     st.Moves,
		UndoDepth: st.Model.HistoryLen(),
		CanMove:   st.Model.CanMove(),
		CreatedAt: s.CreatedAt,
	}
}

// decodeOptional decodes a JSON body into v, accepting an empty body.
func decodeOptional(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return apierr.NewInvalidRequestError("Invalid JSON body")
}
