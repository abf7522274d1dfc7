package board

// FourProbability is the chance that a spawned tile is a 4 instead of a 2.
const FourProbability = 0.1

// Rand is the randomness a spawn needs. *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Float64() float64
}

// Spawn places a 2 or 4 on a uniformly chosen empty cell.
// A full board is returned unchanged.
func Spawn(b Board, rng Rand) Board {
	b, _, _ = SpawnWithOdds(b, rng, FourProbability)
	return b
}

// SpawnWithOdds is Spawn with a custom probability of spawning a 4.
// It also reports where the tile landed and whether one was placed.
func SpawnWithOdds(b Board, rng Rand, four float64) (Board, Cell, bool) {
	empty := EmptyCells(b)
	if len(empty) == 0 {
		return b, Cell{}, false
	}

	cell := empty[rng.Intn(len(empty))]

	value := 2
	if rng.Float64() < four {
		value = 4
	}

	b[cell.Y][cell.X] = value
	return b, cell, true
}
