// Package core provides the runtime types shared by the game, the state
// store and the front-ends. It has no external dependencies.
package core

import "github.com/vovakirdan/t2048/internal/board"

// RuntimeConfig contains configuration passed to games at initialization.
type RuntimeConfig struct {
	ScreenW   int     // Screen width in characters
	ScreenH   int     // Screen height in characters
	TickRate  int     // UI refresh ticks per second
	Seed      int64   // RNG seed for deterministic spawns
	SpawnFour float64 // Probability that a spawned tile is a 4
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:   80,
		ScreenH:   24,
		TickRate:  30,
		Seed:      0, // 0 means use current time in platform layer
		SpawnFour: board.FourProbability,
	}
}
