package config

import (
	_ "embed"
	"time"

	"github.com/vovakirdan/t2048/internal/board"
	"github.com/vovakirdan/t2048/internal/registry"
	"github.com/vovakirdan/t2048/internal/search"
)

//go:embed defaults/t2048.yaml
var defaultYAML []byte

// Default returns the default configuration.
func Default() Config {
	return Config{
		Search: SearchConfig{
			Depth:     search.DefaultDepth,
			Parallel:  false,
			Evaluator: registry.DefaultEvaluator,
			Weights:   search.DefaultWeights,
		},
		Game: GameConfig{
			SpawnFour: board.FourProbability,
		},
		AutoPlay: AutoPlayConfig{
			Delay: 100 * time.Millisecond,
		},
		Storage: StorageConfig{
			DBPath: "~/.t2048/stats.db",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultYAML
}
