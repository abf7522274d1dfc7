package service

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/t2048/internal/board"
	"github.com/vovakirdan/t2048/internal/core"
	"github.com/vovakirdan/t2048/internal/search"
)

type fakeSink struct {
	mu    sync.Mutex
	games []recordedGame
	err   error
}

type recordedGame struct {
	identity    string
	score, tile int
}

func (f *fakeSink) RecordGame(identity string, score, highestTile int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.games = append(f.games, recordedGame{identity, score, highestTile})
	return f.err
}

func (f *fakeSink) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.games)
}

func newTestStore(t *testing.T, sink StatsSink) *Store {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.Seed = 42
	s := New(Options{
		Identity: "alice",
		Config:   cfg,
		Searcher: search.New(search.Options{Depth: 1}),
		Sink:     sink,
		Logger:   log.New(io.Discard),
	})
	t.Cleanup(s.Close)
	return s
}

// oneMoveFromEnd has a single empty cell; Left fills the row and the spawn
// leaves no merges anywhere.
func oneMoveFromEnd(t *testing.T) board.Board {
	t.Helper()
	b, err := board.Parse("2 4 2 4/4 2 4 2/2 4 2 8/0 16 32 64")
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return b
}

func TestStoreNewGame(t *testing.T) {
	s := newTestStore(t, nil)

	snap := s.Current()
	if n := board.Size*board.Size - board.CountEmpty(snap.Board); n != 2 {
		t.Errorf("new game has %d tiles, want 2", n)
	}
	if snap.Score != 0 || snap.Over() {
		t.Errorf("new game snapshot = %+v", snap)
	}
	if s.Identity() != "alice" {
		t.Errorf("Identity() = %q", s.Identity())
	}
}

func TestStoreSeedsAdvancePerGame(t *testing.T) {
	s := newTestStore(t, nil)

	first := s.Current().Seed
	second := s.Reset().Seed
	if first != 42 || second != 43 {
		t.Errorf("seeds = %d, %d; want 42, 43", first, second)
	}
}

func TestStoreApplyRecordsOnce(t *testing.T) {
	sink := &fakeSink{}
	s := newTestStore(t, sink)

	if err := s.Restore(oneMoveFromEnd(t), 500); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}

	snap, changed := s.Apply(board.Left)
	if !changed {
		t.Fatal("Left should change the board")
	}
	if !snap.Over() {
		t.Fatalf("game should be over:\n%s", snap.Board)
	}

	// Moves after game over are ignored and not re-recorded
	if _, changed := s.Apply(board.Up); changed {
		t.Error("move after game over changed the board")
	}

	if sink.count() != 1 {
		t.Fatalf("sink called %d times, want 1", sink.count())
	}
	got := sink.games[0]
	if got.identity != "alice" || got.score != 500 || got.tile != 64 {
		t.Errorf("recorded %+v", got)
	}
}

func TestStoreSinkErrorSurfaces(t *testing.T) {
	sink := &fakeSink{err: errors.New("disk full")}
	s := newTestStore(t, sink)

	if s.LastError() != nil {
		t.Fatal("LastError should start nil")
	}
	if err := s.Restore(oneMoveFromEnd(t), 0); err != nil {
		t.Fatalf("Restore failed: %v", err)
	}
	s.Apply(board.Left)

	if err := s.LastError(); err == nil || err.Error() != "disk full" {
		t.Errorf("LastError() = %v, want disk full", err)
	}
}

func TestStoreRestoreRejectsMalformed(t *testing.T) {
	s := newTestStore(t, nil)
	before := s.Current()

	var bad board.Board
	bad[0][0] = 3
	if err := s.Restore(bad, 0); !errors.Is(err, board.ErrMalformed) {
		t.Errorf("Restore() = %v, want ErrMalformed", err)
	}
	if s.Current().Board != before.Board {
		t.Error("failed restore changed the board")
	}
}

func TestStoreHint(t *testing.T) {
	s := newTestStore(t, nil)

	dec, err := s.Hint(context.Background())
	if err != nil {
		t.Fatalf("Hint failed: %v", err)
	}
	if !dec.Legal {
		t.Fatal("fresh game should have a legal move")
	}

	snap := s.Current()
	if !board.Apply(snap.Board, dec.Direction).Changed {
		t.Errorf("hinted %v does not change the board", dec.Direction)
	}
}

func TestStoreConcurrentApply(t *testing.T) {
	s := newTestStore(t, nil)

	const workers = 8
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		changed int
	)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				d := board.Directions[(w+i)%4]
				if _, ok := s.Apply(d); ok {
					mu.Lock()
					changed++
					mu.Unlock()
				}
				s.Current()
			}
		}(w)
	}
	wg.Wait()

	if got := s.Current().Moves; got != changed {
		t.Errorf("Moves = %d, but %d applies reported a change", got, changed)
	}
}

func TestStoreAutoPlayFinishesGame(t *testing.T) {
	sink := &fakeSink{}
	s := newTestStore(t, sink)

	if err := s.StartAutoPlay(context.Background(), 0); err != nil {
		t.Fatalf("StartAutoPlay failed: %v", err)
	}

	deadline := time.Now().Add(60 * time.Second)
	for s.AutoPlaying() {
		if time.Now().After(deadline) {
			t.Fatal("auto-play did not finish the game")
		}
		time.Sleep(10 * time.Millisecond)
	}

	snap := s.Current()
	if !snap.Over() {
		t.Errorf("auto-play stopped before game over:\n%s", snap.Board)
	}
	if sink.count() != 1 {
		t.Errorf("sink called %d times, want 1", sink.count())
	}
}

func TestStoreAutoPlayStartStop(t *testing.T) {
	s := newTestStore(t, nil)
	ctx := context.Background()

	if err := s.StartAutoPlay(ctx, time.Hour); err != nil {
		t.Fatalf("StartAutoPlay failed: %v", err)
	}
	if !s.AutoPlaying() {
		t.Error("AutoPlaying should be true after start")
	}
	if err := s.StartAutoPlay(ctx, time.Hour); !errors.Is(err, ErrAutoPlayRunning) {
		t.Errorf("second start = %v, want ErrAutoPlayRunning", err)
	}

	s.StopAutoPlay()
	if s.AutoPlaying() {
		t.Error("AutoPlaying should be false after stop")
	}

	// At most the first move is played before the long delay
	if moves := s.Current().Moves; moves > 1 {
		t.Errorf("Moves = %d, want at most 1", moves)
	}

	// Stopping twice is fine and the loop can restart
	s.StopAutoPlay()
	if err := s.StartAutoPlay(ctx, time.Hour); err != nil {
		t.Errorf("restart failed: %v", err)
	}
}

func TestStoreAutoPlayStopsOnCancel(t *testing.T) {
	s := newTestStore(t, nil)
	ctx, cancel := context.WithCancel(context.Background())

	if err := s.StartAutoPlay(ctx, time.Hour); err != nil {
		t.Fatalf("StartAutoPlay failed: %v", err)
	}
	cancel()

	deadline := time.Now().Add(5 * time.Second)
	for s.AutoPlaying() {
		if time.Now().After(deadline) {
			t.Fatal("auto-play ignored cancellation")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestStoreResetStopsAutoPlay(t *testing.T) {
	s := newTestStore(t, nil)

	if err := s.StartAutoPlay(context.Background(), time.Hour); err != nil {
		t.Fatalf("StartAutoPlay failed: %v", err)
	}
	snap := s.Reset()

	if s.AutoPlaying() {
		t.Error("Reset should stop auto-play")
	}
	if snap.Moves != 0 || board.CountEmpty(snap.Board) != board.Size*board.Size-2 {
		t.Errorf("Reset snapshot = %+v", snap)
	}
}
