package board

import "fmt"

// Direction represents a move direction.
type Direction int

// The declaration order is the search tie-break priority.
const (
	Up Direction = iota
	Right
	Down
	Left
)

// Directions lists every direction in tie-break order.
var Directions = [4]Direction{Up, Right, Down, Left}

// String returns the lowercase direction name.
func (d Direction) String() string {
	switch d {
	case Up:
		return "up"
	case Right:
		return "right"
	case Down:
		return "down"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// Valid reports whether d is one of the four compass directions.
func (d Direction) Valid() bool {
	return d >= Up && d <= Left
}
