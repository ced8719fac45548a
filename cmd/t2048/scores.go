package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-2048/internal/platform/tui"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

var (
	flagScoresLimit int
	flagScoresPlain bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores",
	Short: "Show high scores",
	Long: `Display the leaderboard. In a terminal the scores open in a scrollable
table; otherwise, or with --plain, the top scores are printed.

Examples:
  t2048 scores
  t2048 scores --plain --limit 20
  t2048 scores --driver redis`,
	Args: cobra.NoArgs,
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", storage.DefaultTopLimit, "Number of scores to print with --plain")
	scoresCmd.Flags().BoolVar(&flagScoresPlain, "plain", false, "Print scores instead of opening the table")
}

func runScores(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger("t2048")
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context(), cfg, logger, false)
	if err != nil {
		return err
	}
	defer closeStore(store, logger)

	fd := int(os.Stdout.Fd())
	if !flagScoresPlain && term.IsTerminal(fd) {
		width, height, err := term.GetSize(fd)
		if err != nil {
			width, height = 80, 24
		}
		return tui.RunScoreboard(cmd.Context(), store, width, height)
	}

	scores, err := store.TopScores(cmd.Context(), flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}
	printScores(os.Stdout, scores)
	return nil
}

// printScores writes the leaderboard as plain text.
func printScores(w io.Writer, scores []storage.ScoreEntry) {
	fmt.Fprintln(w, "High Scores - 2048")
	fmt.Fprintln(w)

	if len(scores) == 0 {
		fmt.Fprintln(w, "No scores recorded yet.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Play 't2048 play' to set the first high score!")
		return
	}

	fmt.Fprintf(w, "  %-4s  %-8s  %-6s  %-6s  %-12s  %s\n", "Rank", "Score", "Tile", "Moves", "Player", "Date")
	fmt.Fprintf(w, "  %-4s  %-8s  %-6s  %-6s  %-12s  %s\n", "----", "-----", "----", "-----", "------", "----")

	for i, e := range scores {
		player := e.Player
		if player == "" {
			player = "-"
		}
		fmt.Fprintf(w, "  %-4d  %-8d  %-6d  %-6d  %-12s  %s\n",
			i+1, e.Score, e.MaxTile, e.Moves, player, e.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
}
