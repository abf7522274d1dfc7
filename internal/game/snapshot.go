package game

import "github.com/vovakirdan/t2048/internal/board"

// StateType represents the current game state.
type StateType string

const (
	StatePlaying  StateType = "playing"
	StateGameOver StateType = "game_over"
)

// Snapshot captures the complete game state. It is a value; holding one
// never aliases the live game.
type Snapshot struct {
	Seed      int64
	Moves     int
	Score     int
	Board     board.Board
	MaxTile   int // Highest tile on board
	State     StateType
	LastSpawn *board.Cell // Most recent spawn, nil before the first
}

// Over reports whether the snapshot is terminal.
func (s Snapshot) Over() bool {
	return s.State == StateGameOver
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	if g.over {
		state = StateGameOver
	}

	snap := Snapshot{
		Seed:    g.seed,
		Moves:   g.moves,
		Score:   g.score,
		Board:   g.board,
		MaxTile: board.MaxTile(g.board),
		State:   state,
	}
	if g.hasSpawn {
		cell := g.lastSpawn
		snap.LastSpawn = &cell
	}
	return snap
}
