package t2048

// snapshotState tracks whether the current logical move still needs an undo
// snapshot. Right, up and down rotate the grid before sliding; the state
// keeps those internal steps from pushing a second snapshot.
type snapshotState int

const (
	needsSnapshot snapshotState = iota
	snapshotTaken
)

// Record is one undo entry: the board and score before a move.
type Record struct {
	Grid  Grid
	Score int
}

// History is a LIFO stack of pre-move records, most recent last.
// A positive limit caps its depth by discarding the oldest record.
type History struct {
	records []Record
	limit   int
}

// NewHistory creates a history. limit <= 0 means unlimited.
func NewHistory(limit int) *History {
	return &History{limit: max(limit, 0)}
}

// Push saves a copy of grid and score.
func (h *History) Push(grid Grid, score int) {
	h.records = append(h.records, Record{Grid: grid, Score: score})
	if h.limit > 0 && len(h.records) > h.limit {
		h.records = h.records[len(h.records)-h.limit:]
	}
}

// Pop removes and returns the most recent record.
// ok is false when the history is empty.
func (h *History) Pop() (Record, bool) {
	if len(h.records) == 0 {
		return Record{}, false
	}
	last := h.records[len(h.records)-1]
	h.records = h.records[:len(h.records)-1]
	return last, true
}

// Peek returns the most recent record without removing it.
func (h *History) Peek() (Record, bool) {
	if len(h.records) == 0 {
		return Record{}, false
	}
	return h.records[len(h.records)-1], true
}

// Len returns the number of stored records.
func (h *History) Len() int {
	return len(h.records)
}

// Limit returns the depth cap, 0 if unlimited.
func (h *History) Limit() int {
	return h.limit
}

// Clear drops every record.
func (h *History) Clear() {
	h.records = h.records[:0]
}

// Changed reports whether live has a strictly larger tile sum than the most
// recent record. A move that changed the board always spawned a tile, so the
// sum grows; an unchanged move leaves it equal.
func (h *History) Changed(live Grid) bool {
	top, ok := h.Peek()
	if !ok {
		return false
	}
	return live.Sum() > top.Grid.Sum()
}
