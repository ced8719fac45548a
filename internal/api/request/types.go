package request

// CreateGameRequest is the request body for starting a game. Both fields
// are optional.
type CreateGameRequest struct {
	Player string `json:"player,omitempty"`
	Seed   int64  `json:"seed,omitempty"`
}

// MoveRequest is the request body for a move.
type MoveRequest struct {
	Direction string `json:"direction"`
}
