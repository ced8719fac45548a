package t2048

// Options configures a Model.
type Options struct {
	FourProbability float64 // Chance a spawned tile is a 4
	HistoryLimit    int     // Max undo depth, 0 = unlimited
	Policy          Policy  // Auto-play evaluation policy
}

// DefaultOptions returns the standard rules: 10% fours, unlimited undo and
// pure auto-play evaluation.
func DefaultOptions() Options {
	return Options{
		FourProbability: DefaultFourProbability,
		Policy:          PolicyPure,
	}
}

// Model holds one game: the board, score, best tile and undo history.
// A Model is not safe for concurrent use.
type Model struct {
	grid    Grid
	score   int
	maxTile int

	history *History
	spawner *Spawner
	state   snapshotState
	policy  Policy
}

// NewModel creates a model and starts a new game on it.
func NewModel(rng Random, opts Options) *Model {
	policy := opts.Policy
	if policy == "" {
		policy = PolicyPure
	}

	m := &Model{
		history: NewHistory(opts.HistoryLimit),
		spawner: NewSpawner(rng, opts.FourProbability),
		policy:  policy,
	}
	m.NewGame()
	return m
}

// NewGame clears the board, resets score and history, then spawns two tiles.
// The best tile reached is kept across games.
func (m *Model) NewGame() {
	m.grid.clear()
	m.score = 0
	m.history.Clear()
	m.state = needsSnapshot

	m.spawner.Spawn(&m.grid)
	m.spawner.Spawn(&m.grid)
}

// Grid returns a copy of the board values.
func (m *Model) Grid() [Size][Size]int {
	return m.grid.Values()
}

// Board returns a copy of the board.
func (m *Model) Board() Grid {
	return m.grid
}

// Score returns the running score.
func (m *Model) Score() int {
	return m.score
}

// MaxTile returns the highest tile value produced by a merge.
func (m *Model) MaxTile() int {
	return m.maxTile
}

// HistoryLen returns the number of undo records.
func (m *Model) HistoryLen() int {
	return m.history.Len()
}

// Policy returns the auto-play evaluation policy.
func (m *Model) Policy() Policy {
	return m.policy
}

// CanMove reports whether any move is still possible.
func (m *Model) CanMove() bool {
	return m.grid.CanMove()
}

// IsGameOver reports whether no move remains.
func (m *Model) IsGameOver() bool {
	return !m.grid.CanMove()
}

// Move performs one move in dir and reports whether the board changed.
// The pre-move state is saved for undo even when nothing moves. A new tile
// spawns only after a move that changed the board. Unknown directions do
// nothing and save nothing.
func (m *Model) Move(dir Direction) bool {
	if _, _, ok := rotations(dir); !ok {
		return false
	}

	if m.state == needsSnapshot {
		m.history.Push(m.grid, m.score)
		m.state = snapshotTaken
	}

	changed, st := slide(&m.grid, dir)
	m.score += st.Gained
	m.maxTile = max(m.maxTile, st.Best)

	if changed {
		m.spawner.Spawn(&m.grid)
	}

	m.state = needsSnapshot
	return changed
}

// Undo restores the board and score saved before the last move.
// It reports false, and does nothing, when there is nothing to undo.
func (m *Model) Undo() bool {
	rec, ok := m.history.Pop()
	if !ok {
		return false
	}

	m.grid = rec.Grid
	m.score = rec.Score
	m.state = needsSnapshot
	return true
}
