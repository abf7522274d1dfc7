package board

import (
	"errors"
	"math/rand"
	"testing"
)

func TestSlideLineMerge(t *testing.T) {
	tests := []struct {
		name     string
		input    line
		expected line
		score    int
		merges   int
	}{
		{
			name:     "simple merge",
			input:    line{2, 2, 0, 0},
			expected: line{4, 0, 0, 0},
			score:    4,
			merges:   1,
		},
		{
			name:     "trailing tile does not re-merge",
			input:    line{2, 0, 2, 2},
			expected: line{4, 2, 0, 0},
			score:    4,
			merges:   1,
		},
		{
			name:     "merge with trailing tile",
			input:    line{2, 2, 2, 0},
			expected: line{4, 2, 0, 0},
			score:    4,
			merges:   1,
		},
		{
			name:     "double merge",
			input:    line{4, 4, 4, 4},
			expected: line{8, 8, 0, 0},
			score:    16,
			merges:   2,
		},
		{
			name:     "no merge possible",
			input:    line{2, 4, 8, 16},
			expected: line{2, 4, 8, 16},
		},
		{
			name:     "slide with gap",
			input:    line{0, 0, 2, 2},
			expected: line{4, 0, 0, 0},
			score:    4,
			merges:   1,
		},
		{
			name:     "slide with multiple gaps",
			input:    line{2, 0, 0, 2},
			expected: line{4, 0, 0, 0},
			score:    4,
			merges:   1,
		},
		{
			name:     "no change needed",
			input:    line{4, 2, 0, 0},
			expected: line{4, 2, 0, 0},
		},
		{
			name:     "empty row",
			input:    line{0, 0, 0, 0},
			expected: line{0, 0, 0, 0},
		},
		{
			name:     "single tile",
			input:    line{0, 4, 0, 0},
			expected: line{4, 0, 0, 0},
		},
		{
			name:     "merged tile is not chained",
			input:    line{2, 2, 4, 0},
			expected: line{4, 4, 0, 0},
			score:    4,
			merges:   1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, score, merges := slideLine(tt.input)
			if result != tt.expected {
				t.Errorf("slideLine(%v) = %v, want %v", tt.input, result, tt.expected)
			}
			if score != tt.score {
				t.Errorf("slideLine(%v) score = %d, want %d", tt.input, score, tt.score)
			}
			if merges != tt.merges {
				t.Errorf("slideLine(%v) merges = %d, want %d", tt.input, merges, tt.merges)
			}
		})
	}
}

func TestMoveLeft(t *testing.T) {
	b := Board{
		{2, 2, 0, 0},
		{4, 0, 4, 0},
		{2, 2, 2, 2},
		{0, 0, 0, 2},
	}

	expected := Board{
		{4, 0, 0, 0},
		{8, 0, 0, 0},
		{4, 4, 0, 0},
		{2, 0, 0, 0},
	}

	result, changed, score := Move(b, Left)

	if result != expected {
		t.Errorf("Move left: got\n%v\nwant\n%v", result, expected)
	}
	if !changed {
		t.Error("Move left should indicate board changed")
	}
	if score != 4+8+4+4 {
		t.Errorf("Move left score = %d, want 20", score)
	}
}

func TestMoveRight(t *testing.T) {
	b := Board{
		{2, 2, 0, 0},
		{4, 0, 4, 0},
		{2, 2, 2, 2},
		{0, 0, 0, 2},
	}

	expected := Board{
		{0, 0, 0, 4},
		{0, 0, 0, 8},
		{0, 0, 4, 4},
		{0, 0, 0, 2},
	}

	result, changed, _ := Move(b, Right)

	if result != expected {
		t.Errorf("Move right: got\n%v\nwant\n%v", result, expected)
	}
	if !changed {
		t.Error("Move right should indicate board changed")
	}
}

func TestMoveUp(t *testing.T) {
	b := Board{
		{2, 4, 2, 0},
		{2, 0, 2, 0},
		{0, 4, 2, 0},
		{0, 0, 2, 2},
	}

	expected := Board{
		{4, 8, 4, 2},
		{0, 0, 4, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	result, changed, score := Move(b, Up)

	if result != expected {
		t.Errorf("Move up: got\n%v\nwant\n%v", result, expected)
	}
	if !changed {
		t.Error("Move up should indicate board changed")
	}
	if score != 4+8+4+4 {
		t.Errorf("Move up score = %d, want 20", score)
	}
}

func TestMoveDown(t *testing.T) {
	b := Board{
		{2, 4, 2, 2},
		{2, 0, 2, 0},
		{0, 4, 2, 0},
		{0, 0, 2, 0},
	}

	expected := Board{
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 4, 0},
		{4, 8, 4, 2},
	}

	result, changed, _ := Move(b, Down)

	if result != expected {
		t.Errorf("Move down: got\n%v\nwant\n%v", result, expected)
	}
	if !changed {
		t.Error("Move down should indicate board changed")
	}
}

func TestMoveDoesNotMutateInput(t *testing.T) {
	b := Board{
		{2, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}
	before := b

	Move(b, Left)

	if b != before {
		t.Errorf("Move mutated its input: got\n%v\nwant\n%v", b, before)
	}
}

func TestNoChangeIsStable(t *testing.T) {
	b := Board{
		{4, 2, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
		{0, 0, 0, 0},
	}

	result, changed, score := Move(b, Left)
	if changed {
		t.Error("Move left should not change already left-aligned tiles")
	}
	if result != b {
		t.Errorf("unchanged move returned a different board:\n%v", result)
	}
	if score != 0 {
		t.Errorf("unchanged move scored %d", score)
	}

	// Repeating an unchanged move stays unchanged
	if _, again, _ := Move(result, Left); again {
		t.Error("second unchanged move reported a change")
	}
}

func TestInvalidDirection(t *testing.T) {
	b := Board{{2, 2, 0, 0}}
	result, changed, _ := Move(b, Direction(9))
	if changed || result != b {
		t.Error("invalid direction should leave the board untouched")
	}
}

func TestTileAccounting(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	b := Spawn(Spawn(Board{}, rng), rng)

	for i := 0; i < 500 && !IsTerminal(b); i++ {
		d := Directions[rng.Intn(len(Directions))]
		o := Apply(b, d)
		if !o.Changed {
			continue
		}
		if got, want := CountEmpty(o.Board), CountEmpty(b)+o.Merges; got != want {
			t.Fatalf("move %v: %d empty cells after %d merges, want %d", d, got, o.Merges, want)
		}
		next := Spawn(o.Board, rng)
		if CountEmpty(next) != CountEmpty(o.Board)-1 {
			t.Fatalf("spawn after move %v did not add exactly one tile", d)
		}
		b = next
	}
}

func TestIsTerminal(t *testing.T) {
	// Board with no empty cells and no possible merges
	stuck := Board{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4096},
		{8192, 16384, 32768, 65536},
	}

	if !IsTerminal(stuck) {
		t.Error("Board with no moves should be terminal")
	}
	for _, d := range Directions {
		if _, changed, _ := Move(stuck, d); changed {
			t.Errorf("terminal board changed when moved %v", d)
		}
	}

	// Board with no empty cells but possible merges
	withMerge := Board{
		{2, 2, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4096},
		{8192, 16384, 32768, 65536},
	}

	if IsTerminal(withMerge) {
		t.Error("Board with possible merge should not be terminal")
	}

	// Board with empty cells
	withEmpty := Board{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 0, 4096},
		{8192, 16384, 32768, 65536},
	}

	if IsTerminal(withEmpty) {
		t.Error("Board with empty cell should not be terminal")
	}
}

func TestTerminalMatchesCanMove(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for i := 0; i < 200; i++ {
		var b Board
		for y := range Size {
			for x := range Size {
				// Dense boards with small values hit both outcomes
				b[y][x] = 1 << (1 + rng.Intn(5))
			}
		}
		if i%3 == 0 {
			b[rng.Intn(Size)][rng.Intn(Size)] = 0
		}
		if IsTerminal(b) == CanMove(b) {
			t.Fatalf("IsTerminal=%v but CanMove=%v for\n%v", IsTerminal(b), CanMove(b), b)
		}
	}
}

func TestSpawn(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	b := Board{
		{2, 0, 8, 0},
		{0, 64, 0, 256},
		{512, 0, 2048, 0},
		{0, 16, 0, 64},
	}

	for i := 0; i < 100; i++ {
		next := Spawn(b, rng)
		if CountEmpty(next) != CountEmpty(b)-1 {
			t.Fatalf("Spawn filled %d cells, want 1", CountEmpty(b)-CountEmpty(next))
		}
		for y := range Size {
			for x := range Size {
				if b[y][x] != next[y][x] {
					if b[y][x] != 0 {
						t.Fatalf("Spawn overwrote occupied cell (%d,%d)", x, y)
					}
					if next[y][x] != 2 && next[y][x] != 4 {
						t.Fatalf("Spawn placed %d, want 2 or 4", next[y][x])
					}
				}
			}
		}
	}
}

func TestSpawnFullBoard(t *testing.T) {
	full := Board{
		{2, 4, 2, 4},
		{4, 2, 4, 2},
		{2, 4, 2, 4},
		{4, 2, 4, 2},
	}
	rng := rand.New(rand.NewSource(1))

	if got := Spawn(full, rng); got != full {
		t.Error("Spawn on a full board should be a no-op")
	}
	if _, _, placed := SpawnWithOdds(full, rng, 0.5); placed {
		t.Error("SpawnWithOdds reported a placement on a full board")
	}
}

func TestSpawnOdds(t *testing.T) {
	rng := rand.New(rand.NewSource(3))

	if _, c, _ := SpawnWithOdds(Board{}, rng, 1); c.X < 0 || c.X >= Size || c.Y < 0 || c.Y >= Size {
		t.Fatalf("spawn cell out of range: %+v", c)
	}

	b, c, _ := SpawnWithOdds(Board{}, rng, 1)
	if b[c.Y][c.X] != 4 {
		t.Errorf("four probability 1 spawned %d", b[c.Y][c.X])
	}
	b, c, _ = SpawnWithOdds(Board{}, rng, 0)
	if b[c.Y][c.X] != 2 {
		t.Errorf("four probability 0 spawned %d", b[c.Y][c.X])
	}
}

func TestDeterministicSpawn(t *testing.T) {
	b1 := Spawn(Spawn(Board{}, rand.New(rand.NewSource(12345))), rand.New(rand.NewSource(12345)))
	b2 := Spawn(Spawn(Board{}, rand.New(rand.NewSource(12345))), rand.New(rand.NewSource(12345)))
	if b1 != b2 {
		t.Errorf("same seed should produce same board:\n%v\nvs\n%v", b1, b2)
	}
}

func TestMaxTile(t *testing.T) {
	b := Board{
		{2, 4, 8, 16},
		{32, 64, 128, 256},
		{512, 1024, 2048, 4},
		{8, 16, 32, 64},
	}

	if got := MaxTile(b); got != 2048 {
		t.Errorf("MaxTile = %d, want 2048", got)
	}
	if got := MaxTile(Board{}); got != 0 {
		t.Errorf("MaxTile(empty) = %d, want 0", got)
	}
}

func TestEmptyCells(t *testing.T) {
	b := Board{
		{2, 0, 8, 0},
		{0, 64, 0, 256},
		{512, 0, 2048, 0},
		{0, 16, 0, 64},
	}

	cells := EmptyCells(b)
	if len(cells) != 8 {
		t.Errorf("EmptyCells count = %d, want 8", len(cells))
	}
	if cells[0] != (Cell{X: 1, Y: 0}) {
		t.Errorf("first empty cell = %+v, want {1 0}", cells[0])
	}
	if CountEmpty(b) != 8 {
		t.Errorf("CountEmpty = %d, want 8", CountEmpty(b))
	}
}

func TestParseRoundTrip(t *testing.T) {
	b := Board{
		{2, 0, 8, 0},
		{0, 64, 0, 256},
		{512, 0, 2048, 0},
		{0, 16, 0, 64},
	}

	parsed, err := Parse(b.String())
	if err != nil {
		t.Fatalf("Parse() failed: %v", err)
	}
	if parsed != b {
		t.Errorf("Parse(String()) = %v, want %v", parsed, b)
	}

	multiline, err := Parse("2,0,8,0\n0,64,0,256\n512,0,2048,0\n0,16,0,64\n")
	if err != nil {
		t.Fatalf("Parse() multiline failed: %v", err)
	}
	if multiline != b {
		t.Errorf("multiline Parse = %v, want %v", multiline, b)
	}
}

func TestParseMalformed(t *testing.T) {
	inputs := []string{
		"2 2 0 0/0 0 0 0/0 0 0 0",
		"2 2 0/0 0 0 0/0 0 0 0/0 0 0 0",
		"2 x 0 0/0 0 0 0/0 0 0 0/0 0 0 0",
		"3 0 0 0/0 0 0 0/0 0 0 0/0 0 0 0",
		"-2 0 0 0/0 0 0 0/0 0 0 0/0 0 0 0",
		"1 0 0 0/0 0 0 0/0 0 0 0/0 0 0 0",
	}

	for _, in := range inputs {
		if _, err := Parse(in); !errors.Is(err, ErrMalformed) {
			t.Errorf("Parse(%q) error = %v, want ErrMalformed", in, err)
		}
	}
}

