// Package board implements the 2048 grid: slide-and-merge moves, random
// tile spawns and terminal detection. Boards are plain arrays, so every
// assignment is an independent snapshot.
package board

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Size is the board dimension.
const Size = 4

// Board is a Size x Size grid of tile values. Zero marks an empty cell.
type Board [Size][Size]int

// Cell is a board coordinate.
type Cell struct {
	X, Y int
}

// ErrMalformed is returned for boards that break the grid invariants.
var ErrMalformed = errors.New("board: malformed board")

// EmptyCells returns coordinates of all empty cells in row-major order.
func EmptyCells(b Board) []Cell {
	cells := make([]Cell, 0, Size*Size)
	for y := range Size {
		for x := range Size {
			if b[y][x] == 0 {
				cells = append(cells, Cell{X: x, Y: y})
			}
		}
	}
	return cells
}

// CountEmpty returns the number of empty cells.
func CountEmpty(b Board) int {
	n := 0
	for y := range Size {
		for x := range Size {
			if b[y][x] == 0 {
				n++
			}
		}
	}
	return n
}

// MaxTile returns the maximum tile value on the board, or 0 if it is empty.
func MaxTile(b Board) int {
	maxVal := 0
	for y := range Size {
		for x := range Size {
			if b[y][x] > maxVal {
				maxVal = b[y][x]
			}
		}
	}
	return maxVal
}

// hasPossibleMerge returns true if any two adjacent tiles hold the same value.
func hasPossibleMerge(b Board) bool {
	for y := range Size {
		for x := range Size {
			val := b[y][x]
			if val == 0 {
				continue
			}
			// Check right neighbor
			if x < Size-1 && b[y][x+1] == val {
				return true
			}
			// Check bottom neighbor
			if y < Size-1 && b[y+1][x] == val {
				return true
			}
		}
	}
	return false
}

// IsTerminal returns true if the board is full and no adjacent pair can merge.
func IsTerminal(b Board) bool {
	return CountEmpty(b) == 0 && !hasPossibleMerge(b)
}

// Validate checks that every cell is zero or a power of two >= 2.
func Validate(b Board) error {
	for y := range Size {
		for x := range Size {
			v := b[y][x]
			if v == 0 {
				continue
			}
			if v < 2 || v&(v-1) != 0 {
				return fmt.Errorf("%w: cell (%d,%d) holds %d, want 0 or a power of two", ErrMalformed, x, y, v)
			}
		}
	}
	return nil
}

// String renders the board as rows separated by '/', cells by spaces.
// The output round-trips through Parse.
func (b Board) String() string {
	var sb strings.Builder
	for y := range Size {
		if y > 0 {
			sb.WriteByte('/')
		}
		for x := range Size {
			if x > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteString(strconv.Itoa(b[y][x]))
		}
	}
	return sb.String()
}

// Parse reads a board from text. Rows are separated by '/' or newlines and
// cells by spaces or commas, e.g. "2 2 0 0/0 0 0 0/0 0 0 0/0 0 0 4".
func Parse(s string) (Board, error) {
	var b Board

	rows := strings.FieldsFunc(strings.TrimSpace(s), func(r rune) bool {
		return r == '/' || r == '\n' || r == ';'
	})
	if len(rows) != Size {
		return b, fmt.Errorf("%w: got %d rows, want %d", ErrMalformed, len(rows), Size)
	}

	for y, row := range rows {
		cells := strings.FieldsFunc(row, func(r rune) bool {
			return r == ' ' || r == ',' || r == '\t' || r == '\r'
		})
		if len(cells) != Size {
			return b, fmt.Errorf("%w: row %d has %d cells, want %d", ErrMalformed, y, len(cells), Size)
		}
		for x, c := range cells {
			v, err := strconv.Atoi(c)
			if err != nil {
				return b, fmt.Errorf("%w: cell (%d,%d): %v", ErrMalformed, x, y, err)
			}
			b[y][x] = v
		}
	}

	if err := Validate(b); err != nil {
		return Board{}, err
	}
	return b, nil
}
