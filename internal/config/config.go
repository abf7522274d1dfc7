// Package config provides YAML-based configuration loading and search
// presets for the 2048 engine.
package config

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/t2048/internal/registry"
	"github.com/vovakirdan/t2048/internal/search"
)

// MaxDepth bounds the configurable lookahead. Depth 6 already takes
// seconds per move on open boards.
const MaxDepth = 6

// Config contains all configuration for the engine and its front-ends.
type Config struct {
	Search   SearchConfig   `yaml:"search"`
	Game     GameConfig     `yaml:"game"`
	AutoPlay AutoPlayConfig `yaml:"autoplay"`
	Storage  StorageConfig  `yaml:"storage"`
	Log      LogConfig      `yaml:"log"`
}

// SearchConfig defines the expectimax parameters.
type SearchConfig struct {
	Depth     int            `yaml:"depth"`
	Parallel  bool           `yaml:"parallel"`
	Evaluator string         `yaml:"evaluator"`
	Weights   search.Weights `yaml:"weights"`
}

// GameConfig defines game parameters.
type GameConfig struct {
	SpawnFour float64 `yaml:"spawn_four"` // Probability of spawning 4 instead of 2 (0.0-1.0)
}

// AutoPlayConfig defines the auto-play loop.
type AutoPlayConfig struct {
	Delay time.Duration `yaml:"delay"` // Pause between automatic moves
}

// StorageConfig defines where stats are stored.
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// LogConfig defines logging output.
type LogConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// Validate checks the configuration for out-of-range values.
func (c Config) Validate() error {
	if c.Search.Depth < 0 || c.Search.Depth > MaxDepth {
		return fmt.Errorf("config: search.depth %d out of range [0, %d]", c.Search.Depth, MaxDepth)
	}
	if !registry.Exists(c.Search.Evaluator) {
		return fmt.Errorf("config: unknown search.evaluator %q", c.Search.Evaluator)
	}
	if c.Game.SpawnFour < 0 || c.Game.SpawnFour > 1 {
		return fmt.Errorf("config: game.spawn_four %v out of range [0, 1]", c.Game.SpawnFour)
	}
	if c.AutoPlay.Delay < 0 {
		return fmt.Errorf("config: autoplay.delay must not be negative")
	}
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	return nil
}

// SearchOptions builds searcher options from the configuration.
func (c Config) SearchOptions() (search.Options, error) {
	ev, err := registry.Create(c.Search.Evaluator, c.Search.Weights)
	if err != nil {
		return search.Options{}, fmt.Errorf("config: %w", err)
	}
	return search.Options{
		Depth:     c.Search.Depth,
		Parallel:  c.Search.Parallel,
		Evaluator: ev,
	}, nil
}

// SearchPreset represents a named search strength.
type SearchPreset string

const (
	PresetFast   SearchPreset = "fast"
	PresetNormal SearchPreset = "normal"
	PresetDeep   SearchPreset = "deep"
)

// DepthForPreset returns the lookahead for a preset.
func DepthForPreset(preset SearchPreset) (int, error) {
	switch preset {
	case PresetFast:
		return 1, nil
	case PresetNormal:
		return search.DefaultDepth, nil
	case PresetDeep:
		return 3, nil
	default:
		return 0, fmt.Errorf("config: unknown preset %q (want fast, normal or deep)", preset)
	}
}

// ApplyPreset modifies the config based on a search preset.
// Deeper presets also enable parallel search.
func ApplyPreset(cfg *Config, preset SearchPreset) error {
	depth, err := DepthForPreset(preset)
	if err != nil {
		return err
	}
	cfg.Search.Depth = depth
	if preset == PresetDeep {
		cfg.Search.Parallel = true
	}
	return nil
}
