package t2048

// Tile is a single board cell. A zero value means the cell is empty.
type Tile struct {
	Value int
}

// IsEmpty reports whether the tile holds no value.
func (t Tile) IsEmpty() bool {
	return t.Value == 0
}
