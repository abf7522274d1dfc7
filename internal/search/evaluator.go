package search

import (
	"math"

	"github.com/vovakirdan/t2048/internal/board"
)

// Evaluator scores a board statically. Higher is better.
type Evaluator interface {
	Evaluate(b board.Board) float64
}

// EvaluatorFunc adapts a plain function to the Evaluator interface.
type EvaluatorFunc func(b board.Board) float64

// Evaluate calls f(b).
func (f EvaluatorFunc) Evaluate(b board.Board) float64 {
	return f(b)
}

// Weights are the coefficients of the heuristic terms.
type Weights struct {
	Empty        float64 `yaml:"empty"`
	Smoothness   float64 `yaml:"smoothness"`
	Monotonicity float64 `yaml:"monotonicity"`
	MaxTile      float64 `yaml:"max_tile"`
}

// DefaultWeights are the hand-tuned coefficients.
var DefaultWeights = Weights{
	Empty:        2.7,
	Smoothness:   0.1,
	Monotonicity: 1.0,
	MaxTile:      1.0,
}

// Heuristic is a linear combination of empty cells, smoothness,
// monotonicity and the log of the largest tile.
type Heuristic struct {
	Weights Weights
}

// NewHeuristic returns a heuristic using DefaultWeights.
func NewHeuristic() Heuristic {
	return Heuristic{Weights: DefaultWeights}
}

// Evaluate implements Evaluator.
func (h Heuristic) Evaluate(b board.Board) float64 {
	score := h.Weights.Empty*float64(board.CountEmpty(b)) +
		h.Weights.Smoothness*Smoothness(b) +
		h.Weights.Monotonicity*Monotonicity(b)

	if maxTile := board.MaxTile(b); maxTile > 0 {
		score += h.Weights.MaxTile * math.Log2(float64(maxTile))
	}
	return score
}

// Smoothness is the negated sum of absolute value differences between
// right and down neighbours, counting only pairs where both are occupied.
func Smoothness(b board.Board) float64 {
	total := 0
	for y := range board.Size {
		for x := range board.Size {
			v := b[y][x]
			if v == 0 {
				continue
			}
			if x < board.Size-1 && b[y][x+1] != 0 {
				total += absInt(v - b[y][x+1])
			}
			if y < board.Size-1 && b[y+1][x] != 0 {
				total += absInt(v - b[y+1][x])
			}
		}
	}
	return -float64(total)
}

// Monotonicity sums |log2(a) - log2(b)| over occupied horizontal pairs.
func Monotonicity(b board.Board) float64 {
	total := 0.0
	for y := range board.Size {
		for x := 0; x < board.Size-1; x++ {
			a, c := b[y][x], b[y][x+1]
			if a == 0 || c == 0 {
				continue
			}
			total += math.Abs(math.Log2(float64(a)) - math.Log2(float64(c)))
		}
	}
	return total
}

// EmptyCount scores a board by its number of empty cells.
func EmptyCount(b board.Board) float64 {
	return float64(board.CountEmpty(b))
}

// cornerWeights favour a snake of decreasing tiles from the top-left corner.
var cornerWeights = [board.Size][board.Size]float64{
	{15, 14, 13, 12},
	{8, 9, 10, 11},
	{7, 6, 5, 4},
	{0, 1, 2, 3},
}

// Corner rewards large tiles laid out along a snake from the top-left.
// Each tile contributes log2(value) times its position weight.
func Corner(b board.Board) float64 {
	total := 0.0
	for y := range board.Size {
		for x := range board.Size {
			if v := b[y][x]; v > 0 {
				total += cornerWeights[y][x] * math.Log2(float64(v))
			}
		}
	}
	return total
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
