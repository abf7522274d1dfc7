// Package search picks 2048 moves with depth-limited expectimax.
//
// Player nodes take the maximum over the moves that change the board.
// Chance nodes enumerate every empty cell and both spawn values, weighting
// each outcome by its probability. Leaves are scored by an Evaluator.
// The search never draws random numbers; every branch works on its own
// copy of the board.
package search

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/t2048/internal/board"
)

// DefaultDepth is the default lookahead.
const DefaultDepth = 2

// cancelCheckInterval is how many nodes a walker visits between context checks.
const cancelCheckInterval = 256

// Role is the side to act at a search node.
type Role int

const (
	Maximizer Role = iota // the player choosing a move
	Chance                // nature placing a tile
)

// String returns the role name.
func (r Role) String() string {
	if r == Chance {
		return "chance"
	}
	return "max"
}

// spawnOutcome is one possible tile value with its probability.
type spawnOutcome struct {
	value int
	prob  float64
}

var spawnOutcomes = [2]spawnOutcome{
	{value: 2, prob: 1 - board.FourProbability},
	{value: 4, prob: board.FourProbability},
}

// Options configures a Searcher.
type Options struct {
	Depth     int       // Lookahead passed to the root chance nodes
	Parallel  bool      // Evaluate top-level moves concurrently
	Evaluator Evaluator // Leaf evaluator; nil means NewHeuristic()
}

// DefaultOptions returns sequential search at DefaultDepth with the heuristic evaluator.
func DefaultOptions() Options {
	return Options{
		Depth:     DefaultDepth,
		Evaluator: NewHeuristic(),
	}
}

// Searcher runs expectimax. It holds no mutable state and is safe for
// concurrent use.
type Searcher struct {
	depth    int
	parallel bool
	eval     Evaluator
}

// New creates a searcher. Negative depths are treated as zero.
func New(opts Options) *Searcher {
	s := &Searcher{
		depth:    max(opts.Depth, 0),
		parallel: opts.Parallel,
		eval:     opts.Evaluator,
	}
	if s.eval == nil {
		s.eval = NewHeuristic()
	}
	return s
}

// Depth returns the configured lookahead.
func (s *Searcher) Depth() int {
	return s.depth
}

// MoveScore is the search result for one top-level direction.
type MoveScore struct {
	Direction board.Direction
	Legal     bool    // Whether the move changes the board
	Score     float64 // Expected value; zero when not legal
}

// Decision is the outcome of a root search.
type Decision struct {
	Direction board.Direction
	// Legal is false when no direction changes the board. Direction is
	// then board.Up and the game is over.
	Legal bool
	Score float64
	Moves [4]MoveScore // In board.Directions order
	Nodes int64        // Search nodes visited
}

// walker carries per-goroutine search state.
type walker struct {
	ctx   context.Context
	eval  Evaluator
	nodes int64
}

func (w *walker) search(b board.Board, depth int, role Role) (float64, error) {
	w.nodes++
	if w.nodes%cancelCheckInterval == 0 {
		if err := w.ctx.Err(); err != nil {
			return 0, err
		}
	}

	if depth <= 0 || board.IsTerminal(b) {
		return w.eval.Evaluate(b), nil
	}

	if role == Maximizer {
		return w.maximize(b, depth)
	}
	return w.expect(b, depth)
}

func (w *walker) maximize(b board.Board, depth int) (float64, error) {
	best := math.Inf(-1)
	legal := false

	for _, d := range board.Directions {
		o := board.Apply(b, d)
		if !o.Changed {
			continue
		}
		v, err := w.search(o.Board, depth-1, Chance)
		if err != nil {
			return 0, err
		}
		legal = true
		best = math.Max(best, v)
	}

	if !legal {
		return w.eval.Evaluate(b), nil
	}
	return best, nil
}

func (w *walker) expect(b board.Board, depth int) (float64, error) {
	empty := board.EmptyCells(b)
	if len(empty) == 0 {
		return w.eval.Evaluate(b), nil
	}

	cellProb := 1 / float64(len(empty))
	total := 0.0

	for _, c := range empty {
		for _, spawn := range spawnOutcomes {
			next := b
			next[c.Y][c.X] = spawn.value
			v, err := w.search(next, depth-1, Maximizer)
			if err != nil {
				return 0, err
			}
			total += spawn.prob * cellProb * v
		}
	}
	return total, nil
}

// Search returns the expectimax value of a node.
func (s *Searcher) Search(b board.Board, depth int, role Role) float64 {
	w := walker{ctx: context.Background(), eval: s.eval}
	v, _ := w.search(b, depth, role)
	return v
}

// BestMove returns the direction with the highest expected value.
// Ties go to the earliest direction in board.Directions. When no move
// changes the board it returns board.Up; callers must detect game over
// themselves.
func (s *Searcher) BestMove(b board.Board) board.Direction {
	d, _ := s.Decide(context.Background(), b)
	return d.Direction
}

// Decide scores every top-level move and picks the best one.
// It stops early with the context's error if ctx is cancelled.
func (s *Searcher) Decide(ctx context.Context, b board.Board) (Decision, error) {
	dec := Decision{Direction: board.Up}
	if err := ctx.Err(); err != nil {
		return dec, err
	}

	var next [4]board.Board
	for i, d := range board.Directions {
		o := board.Apply(b, d)
		next[i] = o.Board
		dec.Moves[i] = MoveScore{Direction: d, Legal: o.Changed}
	}

	var walkers [4]walker
	if s.parallel {
		g, gctx := errgroup.WithContext(ctx)
		for i := range dec.Moves {
			if !dec.Moves[i].Legal {
				continue
			}
			g.Go(func() error {
				walkers[i] = walker{ctx: gctx, eval: s.eval}
				v, err := walkers[i].search(next[i], s.depth, Chance)
				dec.Moves[i].Score = v
				return err
			})
		}
		if err := g.Wait(); err != nil {
			return dec, err
		}
	} else {
		w := &walkers[0]
		*w = walker{ctx: ctx, eval: s.eval}
		for i := range dec.Moves {
			if !dec.Moves[i].Legal {
				continue
			}
			v, err := w.search(next[i], s.depth, Chance)
			if err != nil {
				return dec, err
			}
			dec.Moves[i].Score = v
		}
	}

	for _, w := range walkers {
		dec.Nodes += w.nodes
	}

	bestScore := math.Inf(-1)
	for _, m := range dec.Moves {
		if m.Legal && (!dec.Legal || m.Score > bestScore) {
			bestScore = m.Score
			dec.Direction = m.Direction
			dec.Score = m.Score
			dec.Legal = true
		}
	}

	return dec, nil
}
