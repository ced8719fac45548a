package handler

import (
	"net/http"
	"strconv"

	"github.com/vovakirdan/tui-2048/internal/api/apierr"
	"github.com/vovakirdan/tui-2048/internal/api/response"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// maxScoreLimit caps the limit query parameter.
const maxScoreLimit = 100

// ScoreHandler serves the leaderboard.
type ScoreHandler struct {
	store storage.Store
}

// NewScoreHandler creates a new score handler.
func NewScoreHandler(store storage.Store) *ScoreHandler {
	return &ScoreHandler{store: store}
}

// List handles GET /api/v1/scores?limit=N
func (h *ScoreHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := storage.DefaultTopLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			apierr.WriteError(w, apierr.NewInvalidRequestError("limit must be a positive integer"))
			return
		}
		limit = min(n, maxScoreLimit)
	}

	if h.store == nil {
		response.JSON(w, http.StatusOK, response.NewScores(nil))
		return
	}

	entries, err := h.store.TopScores(r.Context(), limit)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.NewScores(entries))
}
