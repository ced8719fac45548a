package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagMaxMoves int
	flagVerbose  bool
	flagDelay    time.Duration
	flagPolicy   string
	flagAutoName string
	flagRandom   bool
)

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Let the auto-player run a game",
	Long: `Run a game with no terminal UI, letting the auto-player pick every move
until the game is over or --max-moves is reached. The final score is recorded.

Examples:
  t2048 auto
  t2048 auto --seed 7 --verbose
  t2048 auto --max-moves 200 --policy speculative
  t2048 auto --random                # Baseline: uniformly random moves`,
	Args: cobra.NoArgs,
	RunE: runAuto,
}

func init() {
	autoCmd.Flags().IntVar(&flagMaxMoves, "max-moves", 0, "Stop after this many moves (0 = until game over)")
	autoCmd.Flags().BoolVarP(&flagVerbose, "verbose", "v", false, "Print the board after every move")
	autoCmd.Flags().DurationVar(&flagDelay, "delay", 0, "Pause between moves (default from config)")
	autoCmd.Flags().StringVar(&flagPolicy, "policy", "", "Evaluation policy: pure or speculative (default from config)")
	autoCmd.Flags().StringVar(&flagAutoName, "player", "auto", "Name recorded with the score")
	autoCmd.Flags().BoolVar(&flagRandom, "random", false, "Play random moves instead of the auto-player's choice")
}

// autoOptions controls runAutoGame.
type autoOptions struct {
	MaxMoves int
	Verbose  bool
	Delay    time.Duration
	Random   bool
}

// autoResult summarizes a headless game.
type autoResult struct {
	Moves    int
	Score    int
	MaxTile  int
	GameOver bool
}

func runAuto(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("policy") {
		cfg.AutoPlay.Policy = flagPolicy
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	logger, err := newLogger("t2048-auto")
	if err != nil {
		return err
	}

	seed := cfg.Runtime.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	delay := cfg.AutoPlay.Delay
	if cmd.Flags().Changed("delay") {
		delay = flagDelay
	}

	store, _ := openStore(cmd.Context(), cfg, logger, true)
	defer closeStore(store, logger)

	settings := cfg.GameSettings()
	model := t2048.NewModel(rand.New(rand.NewSource(seed)), settings.Rules)
	if flagRandom {
		logger.Info("random play started", "seed", seed)
	} else {
		logger.Info("auto-play started", "seed", seed, "policy", model.Policy())
	}

	res, err := runAutoGame(cmd.Context(), model, autoOptions{
		MaxMoves: flagMaxMoves,
		Verbose:  flagVerbose,
		Delay:    delay,
		Random:   flagRandom,
	}, os.Stdout)
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	fmt.Printf("\n%s", model.Board())
	fmt.Printf("Moves: %d  Score: %d  Best tile: %d", res.Moves, res.Score, res.MaxTile)
	if res.GameOver {
		fmt.Print("  (game over)")
	}
	fmt.Println()

	if store != nil && res.Score > 0 {
		entry := storage.ScoreEntry{
			Player:  flagAutoName,
			Score:   res.Score,
			MaxTile: res.MaxTile,
			Moves:   res.Moves,
		}
		// Interrupted games are still recorded.
		if _, err := store.SaveScore(context.WithoutCancel(cmd.Context()), entry); err != nil {
			logger.Error("could not save score", "error", err)
		}
	}
	return nil
}

// runAutoGame lets the auto-player move until the game is over, MaxMoves
// board-changing moves were made, or ctx is cancelled. With Random set,
// directions are drawn at random and moves that change nothing are retried.
func runAutoGame(ctx context.Context, model *t2048.Model, opts autoOptions, out io.Writer) (autoResult, error) {
	var res autoResult
	var err error

	for !model.IsGameOver() {
		if opts.MaxMoves > 0 && res.Moves >= opts.MaxMoves {
			break
		}

		before := model.Board()
		var dir t2048.Direction
		if opts.Random {
			dir = model.RandomMove()
		} else {
			dir = model.AutoPlayStep()
		}
		if model.Board() == before {
			if opts.Random {
				continue
			}
			// No move changes the board.
			break
		}
		res.Moves++

		if opts.Verbose {
			fmt.Fprintf(out, "#%d %s  score %d\n%s\n", res.Moves, dir, model.Score(), model.Board())
		}

		if opts.Delay > 0 {
			select {
			case <-ctx.Done():
			case <-time.After(opts.Delay):
			}
		}
		if err = ctx.Err(); err != nil {
			break
		}
	}

	res.Score = model.Score()
	res.MaxTile = model.MaxTile()
	res.GameOver = model.IsGameOver()
	return res, err
}
