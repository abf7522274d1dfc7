package core

import "github.com/vovakirdan/t2048/internal/board"

// Action represents a semantic player action, abstracted from physical key
// presses, swipes or the search engine.
type Action int

const (
	ActionNone     Action = iota
	ActionUp              // W, Up arrow, K
	ActionRight           // D, Right arrow, L
	ActionDown            // S, Down arrow, J
	ActionLeft            // A, Left arrow, H
	ActionHint            // ? - ask the search engine for a move
	ActionAutoPlay        // Space - toggle auto-play
	ActionRestart         // R - start a new game
	ActionScores          // Tab - show the leaderboard
	ActionQuit            // Q, Ctrl+C
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionRight:
		return "Right"
	case ActionDown:
		return "Down"
	case ActionLeft:
		return "Left"
	case ActionHint:
		return "Hint"
	case ActionAutoPlay:
		return "AutoPlay"
	case ActionRestart:
		return "Restart"
	case ActionScores:
		return "Scores"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Direction maps a movement action to its board direction.
// The second result is false for non-movement actions.
func (a Action) Direction() (board.Direction, bool) {
	switch a {
	case ActionUp:
		return board.Up, true
	case ActionRight:
		return board.Right, true
	case ActionDown:
		return board.Down, true
	case ActionLeft:
		return board.Left, true
	default:
		return board.Up, false
	}
}

// Source identifies where a move came from.
type Source int

const (
	SourceKeyboard Source = iota
	SourceTouch
	SourceSearch
)

// String returns the source name used in logs.
func (s Source) String() string {
	switch s {
	case SourceKeyboard:
		return "keyboard"
	case SourceTouch:
		return "touch"
	case SourceSearch:
		return "search"
	default:
		return "unknown"
	}
}
