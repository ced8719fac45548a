package core

// RuntimeConfig contains configuration passed to the game at initialization.
// The game uses it to adapt to screen size and for deterministic spawning.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Simulation ticks per second (default 60)
	Seed     int64 // RNG seed for deterministic gameplay
}

// GameState represents the current state of a game.
// Returned by Game.State() to communicate status to the platform.
type GameState struct {
	Score    int  // Current score
	MaxTile  int  // Best tile produced so far
	GameOver bool // Whether no legal move remains
	Paused   bool // Whether the game is paused
	AutoPlay bool // Whether the auto-player drives moves
}

// StepResult is returned by Game.Step() after each simulation tick.
type StepResult struct {
	State GameState
	Moved bool // A move changed the board this tick
}
