package t2048

import (
	"math/rand"

	"github.com/vovakirdan/tui-2048/internal/core"
)

// DefaultAutoStepTicks is how many ticks pass between auto-play moves.
const DefaultAutoStepTicks = 15

// Settings configures a Game.
type Settings struct {
	Rules         Options
	AutoStepTicks int // Ticks between moves while auto-play is on
}

// DefaultSettings returns the standard rules with the default auto-play pace.
func DefaultSettings() Settings {
	return Settings{
		Rules:         DefaultOptions(),
		AutoStepTicks: DefaultAutoStepTicks,
	}
}

// Game drives a Model from per-tick input frames.
type Game struct {
	settings Settings
	model    *Model
	tick     uint64

	// Screen dimensions
	screenW int
	screenH int

	paused    bool
	tooSmall  bool
	autoPlay  bool
	autoTicks int
	lastMove  Direction
	hasMoved  bool
}

// New creates a game. Call Reset before stepping it.
func New(settings Settings) *Game {
	if settings.AutoStepTicks <= 0 {
		settings.AutoStepTicks = DefaultAutoStepTicks
	}
	return &Game{settings: settings}
}

// ID returns the game identifier used for score records.
func (g *Game) ID() string {
	return "2048"
}

// Title returns the display name.
func (g *Game) Title() string {
	return "2048"
}

// Reset starts over with a fresh model seeded from cfg.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.model = NewModel(rand.New(rand.NewSource(cfg.Seed)), g.settings.Rules)
	g.tick = 0
	g.paused = false
	g.autoPlay = false
	g.autoTicks = 0
	g.hasMoved = false
	g.Resize(cfg.ScreenW, cfg.ScreenH)
}

// Resize updates the screen dimensions without touching the board.
func (g *Game) Resize(width, height int) {
	g.screenW = width
	g.screenH = height
	g.tooSmall = width < minScreenW || height < minScreenH
}

// Model exposes the underlying rule engine.
func (g *Game) Model() *Model {
	return g.model
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	return g.model.Snapshot()
}

// Restore loads snap into the running game and stops auto-play.
func (g *Game) Restore(snap Snapshot) error {
	if err := g.model.Restore(snap); err != nil {
		return err
	}
	g.autoPlay = false
	g.hasMoved = false
	return nil
}

// LastMove returns the direction of the most recent move, if any.
func (g *Game) LastMove() (Direction, bool) {
	return g.lastMove, g.hasMoved
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionRestart) {
		g.model.NewGame()
		g.autoPlay = false
		g.hasMoved = false
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionUndo) {
		g.model.Undo()
	}

	if in.Has(core.ActionAutoToggle) {
		g.autoPlay = !g.autoPlay
		g.autoTicks = 0
	}

	moved := false
	if !g.model.IsGameOver() {
		switch {
		case in.Has(core.ActionAutoStep):
			moved = g.autoStep()
		case g.autoPlay:
			g.autoTicks++
			if g.autoTicks >= g.settings.AutoStepTicks {
				g.autoTicks = 0
				moved = g.autoStep()
			}
		default:
			if dir, ok := directionInput(in); ok {
				moved = g.move(dir)
			}
		}
	}

	if g.model.IsGameOver() {
		g.autoPlay = false
	}

	return core.StepResult{State: g.State(), Moved: moved}
}

func (g *Game) move(dir Direction) bool {
	g.lastMove = dir
	g.hasMoved = true
	return g.model.Move(dir)
}

func (g *Game) autoStep() bool {
	before := g.model.Board()
	dir := g.model.AutoPlayStep()
	g.lastMove = dir
	g.hasMoved = true
	return g.model.Board() != before
}

// directionInput maps the first directional action in the frame to a move.
func directionInput(in core.InputFrame) (Direction, bool) {
	switch {
	case in.Has(core.ActionUp):
		return DirUp, true
	case in.Has(core.ActionDown):
		return DirDown, true
	case in.Has(core.ActionLeft):
		return DirLeft, true
	case in.Has(core.ActionRight):
		return DirRight, true
	}
	return 0, false
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.model.Score(),
		MaxTile:  g.model.MaxTile(),
		GameOver: g.model.IsGameOver(),
		Paused:   g.paused || g.tooSmall,
		AutoPlay: g.autoPlay,
	}
}
