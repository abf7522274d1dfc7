package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/t2048/internal/board"
	"github.com/vovakirdan/t2048/internal/platform/tui"
	"github.com/vovakirdan/t2048/internal/search"
	"github.com/vovakirdan/t2048/internal/service"
)

var (
	flagPlayer  string
	flagLogFile string
	flagBoard   string
	flagScore   int
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a game",
	Long: `Start an interactive game.

Controls:
  Arrows/WASD/HJKL  - Move
  Mouse drag        - Swipe
  ?                 - Ask the engine for a hint
  Space             - Toggle auto-play
  R                 - New game
  Tab               - Leaderboard
  Q/Ctrl+C          - Quit

Examples:
  t2048 play
  t2048 play --preset fast
  t2048 play --seed 42 --player alice
  t2048 play --board "2 2 0 0/0 4 0 0/0 0 0 0/0 0 0 8" --score 12
  t2048 play --log-file ./t2048.log`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagPlayer, "player", defaultIdentity(), "Name scores are recorded under")
	playCmd.Flags().StringVar(&flagLogFile, "log-file", "", "Write logs to this file (discarded otherwise)")
	playCmd.Flags().StringVar(&flagBoard, "board", "", "Start from this position instead of a new game")
	playCmd.Flags().IntVar(&flagScore, "score", 0, "Starting score when --board is given")
}

func runPlay(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()

	opts, err := cfg.SearchOptions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	// Logs would corrupt the alternate screen
	var logOut io.Writer = io.Discard
	if flagLogFile != "" {
		f, err := os.OpenFile(flagLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
		logOut = f
	}
	logger := newLogger(cfg, logOut)

	// Get terminal size
	rc := runtimeConfig(cfg)
	if w, h, termErr := term.GetSize(int(os.Stdout.Fd())); termErr == nil {
		rc.ScreenW = w
		rc.ScreenH = h
	}

	stats := openStats(cfg)

	svcOpts := service.Options{
		Identity: flagPlayer,
		Config:   rc,
		Searcher: search.New(opts),
		Logger:   logger,
	}
	if stats != nil {
		svcOpts.Sink = stats
	}
	store := service.New(svcOpts)

	if flagBoard != "" {
		if err := restoreBoard(store, flagBoard, flagScore); err != nil {
			store.Close()
			if stats != nil {
				stats.Close()
			}
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}

	runErr := tui.Run(tui.Options{
		Store:     store,
		Stats:     stats,
		Config:    rc,
		AutoDelay: cfg.AutoPlay.Delay,
	})

	// Stop auto-play and close storage before potential exit
	store.Close()
	if stats != nil {
		stats.Close()
	}

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "Error running game: %v\n", runErr)
		os.Exit(1)
	}
}

// restoreBoard replaces the store's fresh game with a parsed position.
func restoreBoard(store *service.Store, s string, score int) error {
	b, err := board.Parse(s)
	if err != nil {
		return err
	}
	return store.Restore(b, score)
}
