package main

import (
	"errors"
	"io"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/t2048/internal/board"
	"github.com/vovakirdan/t2048/internal/core"
	"github.com/vovakirdan/t2048/internal/search"
	"github.com/vovakirdan/t2048/internal/service"
)

func newPlayStore(t *testing.T) *service.Store {
	t.Helper()
	cfg := core.DefaultConfig()
	cfg.Seed = 5
	store := service.New(service.Options{
		Identity: "tester",
		Config:   cfg,
		Searcher: search.New(search.Options{Depth: 0}),
		Logger:   log.New(io.Discard),
	})
	t.Cleanup(store.Close)
	return store
}

func TestRestoreBoard(t *testing.T) {
	store := newPlayStore(t)

	if err := restoreBoard(store, "2 2 0 0/0 4 0 0/0 0 0 0/0 0 0 8", 12); err != nil {
		t.Fatalf("restoreBoard failed: %v", err)
	}

	snap := store.Current()
	want := board.Board{
		{2, 2, 0, 0},
		{0, 4, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 8},
	}
	if snap.Board != want {
		t.Errorf("board = %s, want %s", snap.Board, want)
	}
	if snap.Score != 12 {
		t.Errorf("score = %d, want 12", snap.Score)
	}
}

func TestRestoreBoardRejectsMalformed(t *testing.T) {
	store := newPlayStore(t)
	before := store.Current()

	for _, in := range []string{"2 2 0/0 0 0", "3 0 0 0/0 0 0 0/0 0 0 0/0 0 0 0"} {
		if err := restoreBoard(store, in, 0); !errors.Is(err, board.ErrMalformed) {
			t.Errorf("restoreBoard(%q) = %v, want ErrMalformed", in, err)
		}
	}
	if store.Current().Board != before.Board {
		t.Error("failed restore changed the board")
	}
}
