package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"sort"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/t2048/internal/config"
	"github.com/vovakirdan/t2048/internal/core"
	"github.com/vovakirdan/t2048/internal/game"
	"github.com/vovakirdan/t2048/internal/search"
	"github.com/vovakirdan/t2048/internal/service"
	"github.com/vovakirdan/t2048/internal/storage"
)

var (
	flagGames    int
	flagJobs     int
	flagAutoName string
	flagNoRecord bool
)

var autoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Let the engine play games headlessly",
	Long: `Play complete games with the search engine choosing every move and
report the results. Games run concurrently and are recorded in the
stats database under --player.

With --seed, game i uses seed+i, so runs are reproducible.

Examples:
  t2048 auto
  t2048 auto --games 50 --jobs 8 --preset fast
  t2048 auto --seed 1 --games 10 --no-record`,
	Args: cobra.NoArgs,
	Run:  runAuto,
}

func init() {
	autoCmd.Flags().IntVar(&flagGames, "games", 10, "Number of games to play")
	autoCmd.Flags().IntVar(&flagJobs, "jobs", runtime.NumCPU(), "Games played at once")
	autoCmd.Flags().StringVar(&flagAutoName, "player", "engine", "Name results are recorded under")
	autoCmd.Flags().BoolVar(&flagNoRecord, "no-record", false, "Do not write results to the stats database")
}

// autoResult is the outcome of one headless game.
type autoResult struct {
	Seed     int64
	Score    int
	MaxTile  int
	Moves    int
	Duration time.Duration
}

func runAuto(_ *cobra.Command, _ []string) {
	cfg := mustLoadConfig()

	if flagGames <= 0 {
		fmt.Fprintln(os.Stderr, "Error: --games must be positive")
		os.Exit(1)
	}

	if err := autoMain(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// autoMain owns the stats store and signal context so they are released
// before the process exits.
func autoMain(cfg config.Config) error {
	logger := newLogger(cfg, os.Stderr)

	opts, err := cfg.SearchOptions()
	if err != nil {
		return err
	}
	// Games already run in parallel
	opts.Parallel = false
	searcher := search.New(opts)

	var stats *storage.Store
	if !flagNoRecord {
		stats = openStats(cfg)
		if stats != nil {
			defer stats.Close()
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rc := runtimeConfig(cfg)
	if rc.Seed == 0 {
		rc.Seed = time.Now().UnixNano()
	}

	logger.Info("starting", "games", flagGames, "jobs", flagJobs, "depth", searcher.Depth(), "evaluator", cfg.Search.Evaluator)

	var sink service.StatsSink
	if stats != nil {
		sink = stats
	}
	results, err := playAutoGames(ctx, autoRun{
		Searcher: searcher,
		Config:   rc,
		Games:    flagGames,
		Jobs:     flagJobs,
		Identity: flagAutoName,
		Sink:     sink,
		Logger:   logger,
	})
	if err != nil {
		return fmt.Errorf("stopped early: %w", err)
	}

	printAutoSummary(results, logger)
	return nil
}

// autoRun describes a batch of headless games. Game i uses Config.Seed+i.
type autoRun struct {
	Searcher *search.Searcher
	Config   core.RuntimeConfig
	Games    int
	Jobs     int
	Identity string
	Sink     service.StatsSink // Optional
	Logger   *log.Logger
}

// playAutoGames plays the batch concurrently. The first failing game
// cancels the rest.
func playAutoGames(ctx context.Context, run autoRun) ([]autoResult, error) {
	results := make([]autoResult, run.Games)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(run.Jobs, 1))

	for i := range run.Games {
		g.Go(func() error {
			gameCfg := run.Config
			gameCfg.Seed = run.Config.Seed + int64(i)

			res, err := playAuto(gctx, run.Searcher, gameCfg)
			if err != nil {
				return err
			}
			results[i] = res

			run.Logger.Info("game finished",
				"game", i+1,
				"seed", res.Seed,
				"score", res.Score,
				"max_tile", res.MaxTile,
				"moves", res.Moves,
				"took", res.Duration.Round(time.Millisecond),
			)

			if run.Sink != nil {
				if err := run.Sink.RecordGame(run.Identity, res.Score, res.MaxTile); err != nil {
					run.Logger.Error("failed to record game", "game", i+1, "err", err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// playAuto plays one game to the end with the searcher choosing moves.
func playAuto(ctx context.Context, searcher *search.Searcher, cfg core.RuntimeConfig) (autoResult, error) {
	start := time.Now()
	gm := game.New()
	gm.Reset(cfg)

	for !gm.Over() {
		dec, err := searcher.Decide(ctx, gm.Board())
		if err != nil {
			return autoResult{}, err
		}
		if !dec.Legal {
			break
		}
		gm.Move(dec.Direction)
	}

	snap := gm.Snapshot()
	return autoResult{
		Seed:     snap.Seed,
		Score:    snap.Score,
		MaxTile:  snap.MaxTile,
		Moves:    snap.Moves,
		Duration: time.Since(start),
	}, nil
}

// printAutoSummary prints aggregate results and the max tile distribution.
func printAutoSummary(results []autoResult, logger *log.Logger) {
	var total, best int
	tiles := make(map[int]int)
	for _, r := range results {
		total += r.Score
		best = max(best, r.Score)
		tiles[r.MaxTile]++
	}

	logger.Info("done",
		"games", len(results),
		"avg_score", total/len(results),
		"best_score", best,
	)

	keys := make([]int, 0, len(tiles))
	for t := range tiles {
		keys = append(keys, t)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(keys)))

	fmt.Println()
	fmt.Printf("  %-8s  %-6s  %s\n", "Max tile", "Games", "Share")
	fmt.Printf("  %-8s  %-6s  %s\n", "--------", "-----", "-----")
	for _, t := range keys {
		n := tiles[t]
		fmt.Printf("  %-8d  %-6d  %5.1f%%\n", t, n, 100*float64(n)/float64(len(results)))
	}
}
