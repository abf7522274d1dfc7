// Package game holds the lifecycle of a single 2048 game: the board, the
// cumulative score and the terminal flag.
package game

import (
	"fmt"
	"math/rand"

	"github.com/vovakirdan/t2048/internal/board"
	"github.com/vovakirdan/t2048/internal/core"
)

// Game is one 2048 game. It is not safe for concurrent use; hosts that
// share a game serialize access (see the service package).
type Game struct {
	rng       *rand.Rand
	seed      int64
	spawnFour float64

	board board.Board
	score int
	moves int
	over  bool

	lastSpawn board.Cell
	hasSpawn  bool
}

// MoveResult describes what a single move did.
type MoveResult struct {
	Direction board.Direction
	Changed   bool
	Gained    int // Score added by merges
	Merges    int
	Spawned   bool       // Whether a new tile was placed
	SpawnAt   board.Cell // Where the new tile landed
	Over      bool       // Whether the game ended with this move
}

// New creates a game. Call Reset before playing.
func New() *Game {
	return &Game{spawnFour: board.FourProbability}
}

// Reset initializes the game with two random tiles.
// A zero SpawnFour in cfg selects board.FourProbability.
func (g *Game) Reset(cfg core.RuntimeConfig) {
	g.seed = cfg.Seed
	g.rng = rand.New(rand.NewSource(cfg.Seed))
	g.spawnFour = cfg.SpawnFour
	if g.spawnFour <= 0 || g.spawnFour > 1 {
		g.spawnFour = board.FourProbability
	}

	g.board = board.Board{}
	g.score = 0
	g.moves = 0
	g.over = false
	g.hasSpawn = false

	// Spawn initial tiles (2 tiles)
	g.spawnTile()
	g.spawnTile()
}

// spawnTile places a new tile and remembers where it landed.
func (g *Game) spawnTile() bool {
	next, cell, ok := board.SpawnWithOdds(g.board, g.rng, g.spawnFour)
	if !ok {
		return false
	}
	g.board = next
	g.lastSpawn = cell
	g.hasSpawn = true
	return true
}

// Move applies a move. When the board changes the score grows by the
// merged values and exactly one new tile spawns. Unchanged moves and moves
// on a finished game do nothing.
func (g *Game) Move(dir board.Direction) MoveResult {
	res := MoveResult{Direction: dir, Over: g.over}
	if g.over || g.rng == nil {
		return res
	}

	o := board.Apply(g.board, dir)
	if !o.Changed {
		// Board didn't change - don't spawn new tile
		return res
	}

	g.board = o.Board
	g.score += o.Score
	g.moves++

	res.Changed = true
	res.Gained = o.Score
	res.Merges = o.Merges

	if g.spawnTile() {
		res.Spawned = true
		res.SpawnAt = g.lastSpawn
	}

	if board.IsTerminal(g.board) {
		g.over = true
	}
	res.Over = g.over

	return res
}

// Restore replaces the board and score, e.g. when resuming a saved game.
// The board is validated before anything changes.
func (g *Game) Restore(b board.Board, score int) error {
	if err := board.Validate(b); err != nil {
		return err
	}
	if score < 0 {
		return fmt.Errorf("game: negative score %d", score)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewSource(g.seed))
	}

	g.board = b
	g.score = score
	g.over = board.IsTerminal(b)
	g.hasSpawn = false
	return nil
}

// Board returns a copy of the current board.
func (g *Game) Board() board.Board {
	return g.board
}

// Score returns the cumulative score.
func (g *Game) Score() int {
	return g.score
}

// Over returns true once no move can change the board.
func (g *Game) Over() bool {
	return g.over
}

// Moves returns the number of moves that changed the board.
func (g *Game) Moves() int {
	return g.moves
}
