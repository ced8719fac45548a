package tui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

// DefaultSlot is the save slot used when none is configured.
const DefaultSlot = "default"

// storeTimeout bounds every storage call made from the UI.
const storeTimeout = 5 * time.Second

// Options configures a game Model.
type Options struct {
	Store  storage.Store // May be nil: scores and saves are then disabled
	Player string        // Name recorded with scores
	Slot   string        // Save slot for ctrl+s / ctrl+l
	Logger *log.Logger
}

// Model is the Bubble Tea model running one 2048 game.
type Model struct {
	game       *t2048.Game
	screen     *core.Screen
	config     core.RuntimeConfig
	opts       Options
	keys       KeyMap
	help       help.Model
	inputFrame core.InputFrame
	gameState  core.GameState
	moves      int
	status     string
	quitting   bool
	scoreSaved bool // Whether score has been saved for current game over
}

// Messages produced by storage commands.
type (
	scoreSavedMsg struct{ err error }
	gameSavedMsg  struct{ err error }
	gameLoadedMsg struct {
		snap t2048.Snapshot
		err  error
	}
)

// NewModel creates a new Bubble Tea model for the given game.
func NewModel(game *t2048.Game, cfg core.RuntimeConfig, opts Options) Model {
	// Use time-based seed if not specified
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if opts.Slot == "" {
		opts.Slot = DefaultSlot
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	game.Reset(cfg)

	return Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, gameHeight(cfg.ScreenH)),
		config:     cfg,
		opts:       opts,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		inputFrame: core.NewInputFrame(),
		gameState:  game.State(),
	}
}

// gameHeight leaves the last terminal row for the help line.
func gameHeight(h int) int {
	return max(h-1, 0)
}

// Init starts the tick loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()

	case scoreSavedMsg:
		if msg.err != nil {
			m.opts.Logger.Error("could not save score", "error", msg.err)
			m.status = "Score not saved"
		}
		return m, nil

	case gameSavedMsg:
		if msg.err != nil {
			m.opts.Logger.Error("could not save game", "slot", m.opts.Slot, "error", msg.err)
			m.status = "Save failed"
		} else {
			m.status = fmt.Sprintf("Saved to slot %q", m.opts.Slot)
		}
		return m, nil

	case gameLoadedMsg:
		return m.handleLoaded(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	case key.Matches(msg, m.keys.Save):
		return m, m.saveGameCmd()
	case key.Matches(msg, m.keys.Load):
		return m, m.loadGameCmd()
	}

	if action := m.keys.Action(msg); action != core.ActionNone {
		m.inputFrame.Set(action)
		m.status = ""
	}
	return m, nil
}

// handleResize processes window resize events. The board is kept.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, gameHeight(msg.Height))
	m.game.Resize(msg.Width, gameHeight(msg.Height))
	m.help.Width = msg.Width
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	restarted := m.inputFrame.Has(core.ActionRestart)

	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	m.inputFrame.Clear()

	if restarted && !m.gameState.Paused {
		m.moves = 0
		m.scoreSaved = false
	}
	if result.Moved {
		m.moves++
	}

	cmds := []tea.Cmd{tickCmd(m.config.TickRate)}

	// Save score on game over (once)
	if m.gameState.GameOver && !m.scoreSaved && m.gameState.Score > 0 {
		m.scoreSaved = true
		if cmd := m.saveScoreCmd(); cmd != nil {
			cmds = append(cmds, cmd)
		}
	}
	// Undo out of a lost position reopens the game for recording.
	if !m.gameState.GameOver {
		m.scoreSaved = false
	}

	return m, tea.Batch(cmds...)
}

func (m Model) handleLoaded(msg gameLoadedMsg) (tea.Model, tea.Cmd) {
	switch {
	case errors.Is(msg.err, storage.ErrNotFound):
		m.status = fmt.Sprintf("No save in slot %q", m.opts.Slot)
	case msg.err != nil:
		m.opts.Logger.Error("could not load game", "slot", m.opts.Slot, "error", msg.err)
		m.status = "Load failed"
	default:
		if err := m.game.Restore(msg.snap); err != nil {
			m.opts.Logger.Error("saved game rejected", "slot", m.opts.Slot, "error", err)
			m.status = "Save is corrupt"
			return m, nil
		}
		m.gameState = m.game.State()
		// A finished save was already recorded when it ended.
		m.scoreSaved = m.gameState.GameOver
		m.moves = 0
		m.status = fmt.Sprintf("Loaded slot %q", m.opts.Slot)
	}
	return m, nil
}

func (m Model) saveScoreCmd() tea.Cmd {
	store := m.opts.Store
	if store == nil {
		return nil
	}

	entry := storage.ScoreEntry{
		Player:  m.opts.Player,
		Score:   m.gameState.Score,
		MaxTile: m.gameState.MaxTile,
		Moves:   m.moves,
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		_, err := store.SaveScore(ctx, entry)
		return scoreSavedMsg{err: err}
	}
}

func (m Model) saveGameCmd() tea.Cmd {
	store := m.opts.Store
	if store == nil {
		return nil
	}

	slot, snap := m.opts.Slot, m.game.Snapshot()
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		return gameSavedMsg{err: store.SaveGame(ctx, slot, snap)}
	}
}

func (m Model) loadGameCmd() tea.Cmd {
	store := m.opts.Store
	if store == nil {
		return nil
	}

	slot := m.opts.Slot
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()
		snap, err := store.LoadGame(ctx, slot)
		return gameLoadedMsg{snap: snap, err: err}
	}
}

// State returns the game state as of the last tick.
func (m Model) State() core.GameState {
	return m.gameState
}

// Moves returns how many board-changing moves the current game has had.
func (m Model) Moves() int {
	return m.moves
}

var (
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("229"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.game.Render(m.screen)

	footer := helpStyle.Render(m.help.View(m.keys))
	if m.status != "" {
		footer = statusStyle.Render(m.status)
	}
	return RenderScreen(m.screen) + "\n" + footer
}

// Run starts the Bubble Tea program with the given game.
func Run(game *t2048.Game, cfg core.RuntimeConfig, opts Options) (core.GameState, error) {
	model := NewModel(game, cfg, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	final, err := p.Run()
	if err != nil {
		return core.GameState{}, err
	}
	if m, ok := final.(Model); ok {
		return m.State(), nil
	}
	return model.State(), nil
}
