// t2048 is a terminal 2048 game with an expectimax move advisor.
//
// Usage:
//
//	t2048 play               - Play in the terminal (? for a hint, space for auto-play)
//	t2048 auto               - Let the search engine play games headlessly
//	t2048 hint <board>       - Print the best move for a board
//	t2048 scores             - Show the leaderboard
//	t2048 serve              - Start SSH server for remote play
//	t2048 evaluators         - List board evaluators
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.t2048/config.yaml, then ./configs/t2048.yaml)
//	--seed <value>      - Set RNG seed for reproducible games
//	--db <path>         - Set database path (default from config: ~/.t2048/stats.db)
//	--preset <name>     - Search preset: fast, normal, deep
//	--depth <n>         - Search depth, overrides the preset
//	--evaluator <name>  - Board evaluator
//	--log-level <lvl>   - debug, info, warn, error
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/t2048/internal/config"
	"github.com/vovakirdan/t2048/internal/core"
	"github.com/vovakirdan/t2048/internal/storage"
)

var (
	// Global flags
	flagConfig    string
	flagSeed      int64
	flagDBPath    string
	flagPreset    string
	flagDepth     int
	flagEvaluator string
	flagLogLevel  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "t2048",
	Short: "t2048 - 2048 in your terminal with an expectimax advisor",
	Long: `t2048 plays 2048 in the terminal and ships an expectimax search
engine that can suggest moves or play on its own.

Available commands:
  play        - Play a game interactively
  auto        - Let the engine play games headlessly
  hint        - Print the best move for a board
  scores      - View the leaderboard
  serve       - Start SSH server for remote play
  evaluators  - List board evaluators

Examples:
  t2048 play
  t2048 play --preset deep
  t2048 auto --games 20 --jobs 4
  t2048 hint "2 2 0 0/0 4 0 0/0 0 0 0/0 0 0 8"
  t2048 serve --ssh :2222`,
	SilenceUsage: true,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to stats database (default from config)")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Search preset: fast, normal, deep")
	rootCmd.PersistentFlags().IntVar(&flagDepth, "depth", -1, "Search depth (overrides preset)")
	rootCmd.PersistentFlags().StringVar(&flagEvaluator, "evaluator", "", "Board evaluator (see 't2048 evaluators')")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Add subcommands
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(autoCmd)
	rootCmd.AddCommand(hintCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(evaluatorsCmd)
}

// loadConfig loads the config file and applies command-line overrides.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}

	if flagPreset != "" {
		if err := config.ApplyPreset(&cfg, config.SearchPreset(flagPreset)); err != nil {
			return config.Config{}, err
		}
	}
	if flagDepth >= 0 {
		cfg.Search.Depth = flagDepth
	}
	if flagEvaluator != "" {
		cfg.Search.Evaluator = flagEvaluator
	}
	if flagDBPath != "" {
		cfg.Storage.DBPath = flagDBPath
	}
	if flagLogLevel != "" {
		cfg.Log.Level = flagLogLevel
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// mustLoadConfig loads the config or exits.
func mustLoadConfig() config.Config {
	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// newLogger creates a timestamped logger at the configured level.
func newLogger(cfg config.Config, w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		Prefix:          "t2048",
	})
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// runtimeConfig builds the game settings from config and flags.
func runtimeConfig(cfg config.Config) core.RuntimeConfig {
	rc := core.DefaultConfig()
	rc.Seed = flagSeed
	rc.SpawnFour = cfg.Game.SpawnFour
	return rc
}

// openStats opens the stats database. Failures are reported and the
// caller continues without storage.
func openStats(cfg config.Config) *storage.Store {
	stats, err := storage.Open(cfg.Storage.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open stats database: %v\n", err)
		return nil
	}
	return stats
}

// defaultIdentity names the local player.
func defaultIdentity() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "player"
}
