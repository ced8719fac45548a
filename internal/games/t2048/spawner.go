package t2048

// DefaultFourProbability is the chance that a spawned tile is a 4.
const DefaultFourProbability = 0.1

// Random is the source of randomness for spawning. *rand.Rand satisfies it.
type Random interface {
	Intn(n int) int
	Float64() float64
}

// Spawner places a new tile on a random empty cell.
type Spawner struct {
	rng     Random
	fourPct float64
}

// NewSpawner creates a spawner. fourProbability outside [0, 1] falls back to
// DefaultFourProbability.
func NewSpawner(rng Random, fourProbability float64) *Spawner {
	if fourProbability < 0 || fourProbability > 1 {
		fourProbability = DefaultFourProbability
	}
	return &Spawner{rng: rng, fourPct: fourProbability}
}

// FourProbability returns the configured chance of spawning a 4.
func (s *Spawner) FourProbability() float64 {
	return s.fourPct
}

// Spawn puts a 2 or a 4 on a uniformly chosen empty cell of g.
// The cell is drawn first, then the value. A full grid is left untouched
// and no randomness is consumed.
func (s *Spawner) Spawn(g *Grid) (Cell, int, bool) {
	empty := g.EmptyCells()
	if len(empty) == 0 {
		return Cell{}, 0, false
	}

	cell := empty[s.rng.Intn(len(empty))]

	value := 2
	if s.rng.Float64() < s.fourPct {
		value = 4
	}

	g[cell.Row][cell.Col] = Tile{Value: value}
	return cell, value, true
}
