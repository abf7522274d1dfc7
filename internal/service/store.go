// Package service hosts games for front-ends. A Store owns one
// authoritative game and serializes every read and write to it, so a TUI,
// an SSH session and the auto-play loop can share it safely.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/t2048/internal/board"
	"github.com/vovakirdan/t2048/internal/core"
	"github.com/vovakirdan/t2048/internal/game"
	"github.com/vovakirdan/t2048/internal/search"
)

// ErrAutoPlayRunning is returned when auto-play is started twice.
var ErrAutoPlayRunning = errors.New("service: auto-play already running")

// StatsSink receives finished games.
// This allows the store to report results without depending on the storage package.
type StatsSink interface {
	RecordGame(identity string, score, highestTile int) error
}

// Options configures a Store.
type Options struct {
	Identity string             // Player the games are recorded for
	Config   core.RuntimeConfig // Seed and spawn odds; Seed 0 picks a time-based seed
	Searcher *search.Searcher   // nil means search.New(search.DefaultOptions())
	Sink     StatsSink          // Optional
	Logger   *log.Logger        // nil means log.Default()
}

// Store guards a single game.
type Store struct {
	identity string
	cfg      core.RuntimeConfig
	searcher *search.Searcher
	sink     StatsSink
	logger   *log.Logger

	mu       sync.Mutex
	game     *game.Game
	played   int64 // Games started, mixed into the seed
	recorded bool  // Whether the current game was reported to the sink
	lastErr  error

	autoMu sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a store and starts its first game.
func New(opts Options) *Store {
	s := &Store{
		identity: opts.Identity,
		cfg:      opts.Config,
		searcher: opts.Searcher,
		sink:     opts.Sink,
		logger:   opts.Logger,
		game:     game.New(),
	}
	if s.searcher == nil {
		s.searcher = search.New(search.DefaultOptions())
	}
	if s.logger == nil {
		s.logger = log.Default()
	}

	s.mu.Lock()
	s.resetLocked()
	s.mu.Unlock()
	return s
}

// resetLocked starts a new game. Caller must hold mu.
func (s *Store) resetLocked() {
	cfg := s.cfg
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	} else {
		cfg.Seed += s.played
	}
	s.played++
	s.recorded = false
	s.game.Reset(cfg)
}

// Identity returns the player this store records for.
func (s *Store) Identity() string {
	return s.identity
}

// Current returns a copy of the game state.
func (s *Store) Current() game.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.Snapshot()
}

// Apply plays one move and reports whether the board changed.
// The finished game is sent to the sink once, when the move ends it.
func (s *Store) Apply(d board.Direction) (game.Snapshot, bool) {
	s.mu.Lock()
	res := s.game.Move(d)
	snap := s.game.Snapshot()
	report := res.Over && !s.recorded
	if report {
		s.recorded = true
	}
	s.mu.Unlock()

	if report {
		s.finish(snap)
	}
	return snap, res.Changed
}

// finish logs and records a finished game.
func (s *Store) finish(snap game.Snapshot) {
	s.logger.Info("game over",
		"identity", s.identity,
		"score", snap.Score,
		"max_tile", snap.MaxTile,
		"moves", snap.Moves,
	)
	if s.sink == nil || s.identity == "" {
		return
	}
	if err := s.sink.RecordGame(s.identity, snap.Score, snap.MaxTile); err != nil {
		s.logger.Error("failed to record game", "identity", s.identity, "err", err)
		s.mu.Lock()
		s.lastErr = err
		s.mu.Unlock()
	}
}

// Reset stops auto-play and starts a new game.
func (s *Store) Reset() game.Snapshot {
	s.StopAutoPlay()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.resetLocked()
	return s.game.Snapshot()
}

// Restore replaces the current game with the given board and score.
func (s *Store) Restore(b board.Board, score int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.game.Restore(b, score); err != nil {
		return err
	}
	s.recorded = false
	return nil
}

// LastError returns the most recent stats sink failure, if any.
func (s *Store) LastError() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastErr
}

// Hint searches the current position. The search runs on a snapshot
// without holding the lock.
func (s *Store) Hint(ctx context.Context) (search.Decision, error) {
	snap := s.Current()
	return s.searcher.Decide(ctx, snap.Board)
}

// StartAutoPlay plays the searcher's best move every delay until the game
// ends, ctx is cancelled or StopAutoPlay is called.
func (s *Store) StartAutoPlay(ctx context.Context, delay time.Duration) error {
	s.autoMu.Lock()
	defer s.autoMu.Unlock()

	if s.runningLocked() {
		return ErrAutoPlayRunning
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go s.autoPlay(ctx, delay, done)
	return nil
}

// StopAutoPlay cancels auto-play and waits for the loop to exit.
// Safe to call when auto-play is not running.
func (s *Store) StopAutoPlay() {
	s.autoMu.Lock()
	defer s.autoMu.Unlock()

	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
	s.cancel = nil
	s.done = nil
}

// AutoPlaying reports whether the auto-play loop is running.
func (s *Store) AutoPlaying() bool {
	s.autoMu.Lock()
	defer s.autoMu.Unlock()
	return s.runningLocked()
}

// runningLocked reports whether the loop is alive. Caller must hold autoMu.
func (s *Store) runningLocked() bool {
	if s.done == nil {
		return false
	}
	select {
	case <-s.done:
		return false
	default:
		return true
	}
}

// Close stops auto-play. The store stays readable.
func (s *Store) Close() {
	s.StopAutoPlay()
}

func (s *Store) autoPlay(ctx context.Context, delay time.Duration, done chan struct{}) {
	defer close(done)

	s.logger.Debug("auto-play started", "identity", s.identity, "delay", delay)
	defer s.logger.Debug("auto-play stopped", "identity", s.identity)

	var timer *time.Timer
	if delay > 0 {
		timer = time.NewTimer(delay)
		timer.Stop()
		defer timer.Stop()
	}

	for {
		snap := s.Current()
		if snap.Over() {
			return
		}

		dec, err := s.searcher.Decide(ctx, snap.Board)
		if err != nil || !dec.Legal {
			return
		}
		if _, over := s.applyAuto(dec.Direction); over {
			return
		}

		if timer == nil {
			if ctx.Err() != nil {
				return
			}
			continue
		}
		timer.Reset(delay)
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}
	}
}

// applyAuto plays a move for the loop and reports whether the game ended.
func (s *Store) applyAuto(d board.Direction) (game.Snapshot, bool) {
	snap, _ := s.Apply(d)
	return snap, snap.Over()
}
