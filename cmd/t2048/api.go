package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/api"
	"github.com/vovakirdan/tui-2048/internal/api/session"
)

var flagHTTPAddr string

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the JSON HTTP API",
	Long: `Serve 2048 games over HTTP. Games live in memory; finished games are
recorded to the configured store.

Endpoints (prefix /api/v1):
  POST   /games               Start a game ({"seed": 42, "player": "ann"})
  GET    /games/{id}          Current board
  POST   /games/{id}/moves    Move ({"direction": "left"})
  POST   /games/{id}/undo     Undo the last move
  POST   /games/{id}/auto     Let the auto-player move
  POST   /games/{id}/new      Start over in the same session
  DELETE /games/{id}          Drop the game
  GET    /scores?limit=N      Leaderboard
  GET    /health              Health check

Examples:
  t2048 api
  t2048 api --http :9000 --driver redis`,
	Args: cobra.NoArgs,
	RunE: runAPI,
}

func init() {
	apiCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP listen address (host:port)")
}

func runAPI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if flagHTTPAddr != "" {
		cfg.HTTP.Address = flagHTTPAddr
	}

	logger, err := newLogger("t2048-api")
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context(), cfg, logger, false)
	if err != nil {
		return err
	}
	defer closeStore(store, logger)

	sessions := session.NewManager(cfg.GameSettings().Rules, cfg.HTTP.SessionTTL)
	go sessions.RunCleanup(cmd.Context(), sessionCleanupInterval(cfg.HTTP.SessionTTL))

	router := api.NewRouter(api.RouterConfig{
		Logger:   logger,
		Sessions: sessions,
		Store:    store,
	})

	server := api.NewServer(cfg.HTTP.Address, router, cfg.HTTP.ShutdownTimeout, logger)
	return server.ListenAndServe(cmd.Context())
}

// sessionCleanupInterval sweeps a few times per TTL, at most once a minute.
func sessionCleanupInterval(ttl time.Duration) time.Duration {
	return max(ttl/4, time.Minute)
}
