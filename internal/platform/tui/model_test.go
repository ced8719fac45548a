package tui

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-2048/internal/core"
	"github.com/vovakirdan/tui-2048/internal/games/t2048"
	"github.com/vovakirdan/tui-2048/internal/storage"
)

func testConfig() core.RuntimeConfig {
	return core.RuntimeConfig{
		ScreenW:  80,
		ScreenH:  30,
		TickRate: 60,
		Seed:     42,
	}
}

func newTestModel(t *testing.T, store storage.Store) Model {
	t.Helper()
	return NewModel(t2048.New(t2048.DefaultSettings()), testConfig(), Options{
		Store:  store,
		Player: "tester",
		Logger: log.New(io.Discard),
	})
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

// collect runs cmd and every command batched inside it, skipping ticks.
func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	switch msg := cmd().(type) {
	case tea.BatchMsg:
		var msgs []tea.Msg
		for _, c := range msg {
			msgs = append(msgs, collect(c)...)
		}
		return msgs
	case TickMsg:
		return nil
	default:
		return []tea.Msg{msg}
	}
}

func TestKeyMapActions(t *testing.T) {
	keys := DefaultKeyMap()
	tests := []struct {
		msg  tea.KeyMsg
		want core.Action
	}{
		{tea.KeyMsg{Type: tea.KeyUp}, core.ActionUp},
		{runeKey('w'), core.ActionUp},
		{runeKey('j'), core.ActionDown},
		{runeKey('a'), core.ActionLeft},
		{runeKey('l'), core.ActionRight},
		{runeKey('u'), core.ActionUndo},
		{tea.KeyMsg{Type: tea.KeyBackspace}, core.ActionUndo},
		{runeKey('n'), core.ActionAutoStep},
		{tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, core.ActionAutoToggle},
		{runeKey('p'), core.ActionPause},
		{tea.KeyMsg{Type: tea.KeyEsc}, core.ActionPause},
		{runeKey('r'), core.ActionRestart},
		{runeKey('q'), core.ActionNone},
		{tea.KeyMsg{Type: tea.KeyCtrlS}, core.ActionNone},
		{runeKey('z'), core.ActionNone},
	}

	for _, tt := range tests {
		t.Run(tt.msg.String(), func(t *testing.T) {
			if got := keys.Action(tt.msg); got != tt.want {
				t.Errorf("Action(%q) = %v, want %v", tt.msg.String(), got, tt.want)
			}
		})
	}
}

func TestKeyAppliesOnTick(t *testing.T) {
	m := newTestModel(t, nil)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	if m.game.Model().HistoryLen() != 0 {
		t.Fatal("move applied before the tick")
	}

	m, cmd := update(t, m, TickMsg(time.Now()))
	if m.game.Model().HistoryLen() != 1 {
		t.Errorf("HistoryLen() after tick = %d, want 1", m.game.Model().HistoryLen())
	}
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t, nil)

	m, cmd := update(t, m, runeKey('q'))
	if cmd == nil {
		t.Fatal("quit should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("quit command should produce tea.QuitMsg")
	}
	if m.View() != "" {
		t.Error("View() should be empty after quitting")
	}
}

func TestHelpToggle(t *testing.T) {
	m := newTestModel(t, nil)
	short := m.View()

	m, _ = update(t, m, runeKey('?'))
	full := m.View()

	if !strings.Contains(full, "restart") || full == short {
		t.Error("? should expand the help line")
	}
}

func TestResizeKeepsGame(t *testing.T) {
	m := newTestModel(t, nil)
	before := m.game.Snapshot()

	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})

	if m.game.Snapshot() != before {
		t.Error("resize changed the board")
	}
	if m.screen.Width() != 120 || m.screen.Height() != 39 {
		t.Errorf("screen = %dx%d, want 120x39", m.screen.Width(), m.screen.Height())
	}
}

func TestSaveAndLoad(t *testing.T) {
	store := storage.NewMemory()
	m := newTestModel(t, store)
	saved := m.game.Snapshot()

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	for _, msg := range collect(cmd) {
		m, _ = update(t, m, msg)
	}
	if !strings.Contains(m.status, "Saved") {
		t.Fatalf("status = %q, want a save confirmation", m.status)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	m, _ = update(t, m, TickMsg(time.Now()))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = update(t, m, TickMsg(time.Now()))

	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	for _, msg := range collect(cmd) {
		m, _ = update(t, m, msg)
	}

	if got := m.game.Snapshot(); got.Board != saved.Board || got.Score != saved.Score {
		t.Errorf("loaded %+v, want %+v", got, saved)
	}
	if !strings.Contains(m.status, "Loaded") {
		t.Errorf("status = %q, want a load confirmation", m.status)
	}
}

func TestLoadMissingSlot(t *testing.T) {
	m := newTestModel(t, storage.NewMemory())

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	for _, msg := range collect(cmd) {
		m, _ = update(t, m, msg)
	}

	if !strings.Contains(m.status, "No save") {
		t.Errorf("status = %q, want a missing-save message", m.status)
	}
}

func TestGameOverSavesScoreOnce(t *testing.T) {
	store := storage.NewMemory()
	m := newTestModel(t, store)
	err := m.game.Restore(t2048.Snapshot{
		Board: [t2048.Size][t2048.Size]int{
			{2, 4, 2, 4},
			{4, 2, 4, 2},
			{32, 4, 2, 4},
			{8, 16, 8, 0},
		},
		Score: 100,
	})
	if err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	for range 3 {
		var cmd tea.Cmd
		m, cmd = update(t, m, TickMsg(time.Now()))
		for _, msg := range collect(cmd) {
			m, _ = update(t, m, msg)
		}
	}

	if !m.State().GameOver {
		t.Fatal("game should be over")
	}
	scores, err := store.TopScores(context.Background(), 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("saved %d scores, want 1", len(scores))
	}
	if scores[0].Score != 100 || scores[0].Player != "tester" || scores[0].Moves != 1 {
		t.Errorf("saved %+v", scores[0])
	}
}

func TestLoadFinishedGameDoesNotRecordAgain(t *testing.T) {
	store := storage.NewMemory()
	lost := t2048.Snapshot{
		Board: [t2048.Size][t2048.Size]int{
			{2, 4, 2, 4},
			{4, 2, 4, 2},
			{2, 4, 2, 4},
			{4, 2, 4, 2},
		},
		Score: 500,
	}
	if err := store.SaveGame(context.Background(), DefaultSlot, lost); err != nil {
		t.Fatalf("SaveGame() failed: %v", err)
	}

	m := newTestModel(t, store)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	m, _ = update(t, m, TickMsg(time.Now()))

	for range 2 {
		var cmd tea.Cmd
		m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
		for _, msg := range collect(cmd) {
			m, _ = update(t, m, msg)
		}
		for range 3 {
			m, cmd = update(t, m, TickMsg(time.Now()))
			for _, msg := range collect(cmd) {
				m, _ = update(t, m, msg)
			}
		}
	}

	if !m.State().GameOver {
		t.Fatal("loaded game should be over")
	}
	if m.Moves() != 0 {
		t.Errorf("Moves() after load = %d, want 0", m.Moves())
	}
	scores, err := store.TopScores(context.Background(), 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 0 {
		t.Errorf("loading a finished game saved %d scores, want 0", len(scores))
	}
}

func TestScoreboardView(t *testing.T) {
	m := NewScoreboardModel([]storage.ScoreEntry{
		{Player: "ann", Score: 4096, MaxTile: 512, Moves: 700, CreatedAt: time.Now()},
	}, 80, 24)

	view := m.View()
	for _, want := range []string{"HIGH SCORES", "ann", "4096", "#1"} {
		if !strings.Contains(view, want) {
			t.Errorf("scoreboard missing %q", want)
		}
	}
}

func TestScoreboardEmpty(t *testing.T) {
	m := NewScoreboardModel(nil, 80, 24)

	if !strings.Contains(m.View(), "No scores yet") {
		t.Error("empty scoreboard should say so")
	}
}
