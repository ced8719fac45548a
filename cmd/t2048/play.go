package main

import (
	"fmt"
	"os"
	"os/user"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/platform/tui"
)

var flagPlayer string

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play 2048",
	Long: `Start a game of 2048 in this terminal.

Controls:
  Arrows/WASD/HJKL - Slide tiles
  U/Backspace      - Undo
  N                - Let the auto-player make one move
  Space            - Toggle auto-play
  P/Esc            - Pause
  R                - New game
  Ctrl+S / Ctrl+L  - Save / load the game
  ?                - Toggle full help
  Q/Ctrl+C         - Quit

Examples:
  t2048 play
  t2048 play --seed 42
  t2048 play --config ./my-2048.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayer, "player", "", "Name recorded with scores (default: OS user)")
}

func runPlay(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger("t2048")
	if err != nil {
		return err
	}

	width, height := 80, 24 // Defaults
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		width = w
		height = h
	}

	store, _ := openStore(cmd.Context(), cfg, logger, true)
	defer closeStore(store, logger)

	game := t2048.New(cfg.GameSettings())
	state, err := tui.Run(game, cfg.RuntimeFor(width, height), tui.Options{
		Store:  store,
		Player: playerName(),
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("running game: %w", err)
	}

	fmt.Printf("Score: %d  Best tile: %d\n", state.Score, state.MaxTile)
	return nil
}

// playerName returns --player, falling back to the OS user name.
func playerName() string {
	if flagPlayer != "" {
		return flagPlayer
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}
