package api

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"github.com/vovakirdan/tui-2048/internal/api/handler"
	"github.com/vovakirdan/tui-2048/internal/api/middleware"
	"github.com/vovakirdan/tui-2048/internal/api/session"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger   *log.Logger
	Sessions *session.Manager
	Store    storage.Store // May be nil
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	gameHandler := handler.NewGameHandler(cfg.Sessions, cfg.Store, cfg.Logger)
	scoreHandler := handler.NewScoreHandler(cfg.Store)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	games := api.PathPrefix("/games").Subrouter()
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id}", gameHandler.Delete).Methods(http.MethodDelete)
	games.HandleFunc("/{id}/moves", gameHandler.Move).Methods(http.MethodPost)
	games.HandleFunc("/{id}/undo", gameHandler.Undo).Methods(http.MethodPost)
	games.HandleFunc("/{id}/auto", gameHandler.Auto).Methods(http.MethodPost)
	games.HandleFunc("/{id}/new", gameHandler.New).Methods(http.MethodPost)

	api.HandleFunc("/scores", scoreHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
