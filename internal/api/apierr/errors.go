package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/vovakirdan/tui-2048/internal/api/session"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeInvalidDirection = "INVALID_DIRECTION"
	CodeGameNotFound     = "GAME_NOT_FOUND"
	CodeGameOver         = "GAME_OVER"
	CodeNothingToUndo    = "NOTHING_TO_UNDO"
	CodeInternalError    = "INTERNAL_ERROR"
)

// Errors returned by handlers that have no lower-level sentinel.
var (
	ErrGameOver      = errors.New("game is over")
	ErrNothingToUndo = errors.New("nothing to undo")
)

type httpError struct {
	status   int
	apiError APIError
}

func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// Status returns the HTTP status WriteError would use for err.
func Status(err error) int {
	return toHTTPError(err).status
}

func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	switch {
	case errors.Is(err, session.ErrNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Game not found"}}
	case errors.Is(err, t2048.ErrUnknownDirection):
		return &httpError{http.StatusBadRequest, APIError{CodeInvalidDirection, "Direction must be left, right, up or down"}}
	case errors.Is(err, ErrGameOver):
		return &httpError{http.StatusConflict, APIError{CodeGameOver, "Game is over"}}
	case errors.Is(err, ErrNothingToUndo):
		return &httpError{http.StatusConflict, APIError{CodeNothingToUndo, "Nothing to undo"}}
	case errors.Is(err, storage.ErrNotFound):
		return &httpError{http.StatusNotFound, APIError{CodeGameNotFound, "Not found"}}
	default:
		return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
	}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
