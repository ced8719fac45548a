// t2048 plays 2048 in the terminal, over SSH, or as a JSON HTTP API.
//
// Usage:
//
//	t2048 play      - Play in this terminal
//	t2048 auto      - Let the auto-player run a game headless
//	t2048 scores    - Show the leaderboard
//	t2048 serve     - Start SSH server for remote play
//	t2048 api       - Start the HTTP API
//
// Global flags:
//
//	--config <path>     - Config file (default search: ~/.t2048/config.yaml, ./configs/t2048.yaml)
//	--seed <value>      - RNG seed for reproducible games
//	--db <path>         - SQLite database path; "" keeps scores in memory
//	--log-level <level> - debug, info, warn or error
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/config"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagSeed     int64
	flagDBPath   string
	flagDriver   string
	flagLogLevel string
	flagFPS      int
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "2048 in your terminal",
	Long: `t2048 is the 2048 sliding tile game for the terminal.

Available commands:
  play     - Play interactively
  auto     - Watch the auto-player finish a game
  scores   - View high scores
  serve    - Start SSH server for remote play
  api      - Start the JSON HTTP API

Examples:
  t2048 play
  t2048 play --seed 42
  t2048 auto --verbose
  t2048 serve --ssh :2222
  t2048 api --http :8080 --driver redis`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", `SQLite database path ("" in the config keeps scores in memory)`)
	rootCmd.PersistentFlags().StringVar(&flagDriver, "driver", "", "Storage driver: sqlite, redis or memory")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (frames per second)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(autoCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(apiCmd)
}

// loadConfig loads the config file and applies global flag overrides.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Runtime.Seed = flagSeed
	}
	if flags.Changed("fps") {
		cfg.Runtime.TickRate = flagFPS
	}
	if flags.Changed("driver") {
		cfg.Storage.Driver = flagDriver
	}
	if flags.Changed("db") {
		cfg.Storage.DBPath = flagDBPath
		if flagDBPath == "" {
			cfg.Storage.Driver = config.DriverMemory
		} else if !flags.Changed("driver") {
			cfg.Storage.Driver = config.DriverSQLite
		}
	}

	return cfg, cfg.Validate()
}

// newLogger builds the process logger at --log-level.
func newLogger(prefix string) (*log.Logger, error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	}), nil
}

// openStore opens the configured store. When optional is set a failure is
// logged and a nil store returned, so the game still runs without scores.
func openStore(ctx context.Context, cfg config.Config, logger *log.Logger, optional bool) (storage.Store, error) {
	store, err := storage.Open(ctx, cfg.Storage)
	if err == nil {
		logger.Debug("storage opened", "driver", cfg.Storage.Driver)
		return store, nil
	}
	if !optional {
		return nil, fmt.Errorf("could not open %s storage: %w", cfg.Storage.Driver, err)
	}

	logger.Warn("could not open scores storage, scores will not be saved", "driver", cfg.Storage.Driver, "error", err)
	return nil, nil
}

func closeStore(store storage.Store, logger *log.Logger) {
	if store == nil {
		return
	}
	if err := store.Close(); err != nil {
		logger.Error("could not close storage", "error", err)
	}
}
