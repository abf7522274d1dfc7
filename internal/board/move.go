package board

// line is one row or column read in the direction of travel.
type line [Size]int

// Outcome describes the result of applying a move.
type Outcome struct {
	Board   Board
	Changed bool
	Score   int // Sum of the values created by merges
	Merges  int
}

// compact shifts non-zero values to the front, keeping their order.
func compact(l line) line {
	var out line
	i := 0
	for _, v := range l {
		if v != 0 {
			out[i] = v
			i++
		}
	}
	return out
}

// mergePass merges equal neighbours once, left to right. A merged cell
// leaves a zero behind it, so it can never pair with the next tile.
func mergePass(l line) (line, int, int) {
	score, merges := 0, 0
	for i := 0; i < Size-1; i++ {
		if l[i] == 0 || l[i] != l[i+1] {
			continue
		}
		l[i] *= 2
		l[i+1] = 0
		score += l[i]
		merges++
		i++
	}
	return l, score, merges
}

// slideLine compacts, merges and compacts again.
func slideLine(l line) (line, int, int) {
	merged, score, merges := mergePass(compact(l))
	return compact(merged), score, merges
}

// readLine extracts line i of the board in the direction of travel.
func readLine(b *Board, d Direction, i int) line {
	var l line
	for k := range Size {
		switch d {
		case Left:
			l[k] = b[i][k]
		case Right:
			l[k] = b[i][Size-1-k]
		case Up:
			l[k] = b[k][i]
		case Down:
			l[k] = b[Size-1-k][i]
		}
	}
	return l
}

// writeLine stores l back into line i using the same ordering as readLine.
func writeLine(b *Board, d Direction, i int, l line) {
	for k := range Size {
		switch d {
		case Left:
			b[i][k] = l[k]
		case Right:
			b[i][Size-1-k] = l[k]
		case Up:
			b[k][i] = l[k]
		case Down:
			b[Size-1-k][i] = l[k]
		}
	}
}

// Apply slides every line toward d and merges equal tiles.
// The input board is never modified. Unknown directions leave it unchanged.
func Apply(b Board, d Direction) Outcome {
	out := Outcome{Board: b}
	if !d.Valid() {
		return out
	}

	for i := range Size {
		orig := readLine(&b, d, i)
		slid, score, merges := slideLine(orig)
		writeLine(&out.Board, d, i, slid)

		out.Score += score
		out.Merges += merges
		if slid != orig || merges > 0 {
			out.Changed = true
		}
	}

	return out
}

// Move performs a move in the given direction.
// Returns the new board, whether it changed, and the score gained.
func Move(b Board, d Direction) (Board, bool, int) {
	o := Apply(b, d)
	return o.Board, o.Changed, o.Score
}

// CanMove returns true if at least one direction changes the board.
func CanMove(b Board) bool {
	for _, d := range Directions {
		if Apply(b, d).Changed {
			return true
		}
	}
	return false
}
