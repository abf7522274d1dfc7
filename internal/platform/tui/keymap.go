package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/t2048/internal/core"
)

// PlayKeyMap defines the key bindings for the play screen.
type PlayKeyMap struct {
	Up       key.Binding
	Right    key.Binding
	Down     key.Binding
	Left     key.Binding
	Hint     key.Binding
	AutoPlay key.Binding
	Restart  key.Binding
	Scores   key.Binding
	Quit     key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k PlayKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Hint, k.AutoPlay, k.Restart, k.Scores, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k PlayKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Right, k.Down, k.Left},
		{k.Hint, k.AutoPlay, k.Restart, k.Scores, k.Quit},
	}
}

// DefaultPlayKeyMap returns default key bindings.
// Arrows, WASD and vim keys all move.
func DefaultPlayKeyMap() PlayKeyMap {
	return PlayKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "w", "k"),
			key.WithHelp("↑/w/k", "up"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "d", "l"),
			key.WithHelp("→/d/l", "right"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "s", "j"),
			key.WithHelp("↓/s/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "a", "h"),
			key.WithHelp("←/a/h", "left"),
		),
		Hint: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "hint"),
		),
		AutoPlay: key.NewBinding(
			key.WithKeys(" "),
			key.WithHelp("space", "auto-play"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "new game"),
		),
		Scores: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "scores"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// KeyMapper translates Bubble Tea key messages to game actions.
// This centralizes key bindings and makes them testable.
type KeyMapper struct {
	keys PlayKeyMap
}

// NewKeyMapper creates a new key mapper with default bindings.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{keys: DefaultPlayKeyMap()}
}

// Keys returns the bindings used by the mapper.
func (km *KeyMapper) Keys() PlayKeyMap {
	return km.keys
}

// MapKey translates a key message to an action.
// Returns the action (may be ActionNone) and whether it's a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (action core.Action, isQuit bool) {
	switch {
	case key.Matches(msg, km.keys.Quit):
		return core.ActionQuit, true
	case key.Matches(msg, km.keys.Up):
		return core.ActionUp, false
	case key.Matches(msg, km.keys.Right):
		return core.ActionRight, false
	case key.Matches(msg, km.keys.Down):
		return core.ActionDown, false
	case key.Matches(msg, km.keys.Left):
		return core.ActionLeft, false
	case key.Matches(msg, km.keys.Hint):
		return core.ActionHint, false
	case key.Matches(msg, km.keys.AutoPlay):
		return core.ActionAutoPlay, false
	case key.Matches(msg, km.keys.Restart):
		return core.ActionRestart, false
	case key.Matches(msg, km.keys.Scores):
		return core.ActionScores, false
	}

	return core.ActionNone, false
}

// minSwipe is the shortest drag, in cells, that counts as a swipe.
const minSwipe = 2

// SwipeDirection maps a mouse drag to a direction by its dominant axis.
// Screen y grows downward. Short drags are ignored.
func SwipeDirection(dx, dy int) (core.Action, bool) {
	ax, ay := dx, dy
	if ax < 0 {
		ax = -ax
	}
	if ay < 0 {
		ay = -ay
	}
	// Terminal cells are about twice as tall as wide
	ay *= 2
	if max(ax, ay) < minSwipe {
		return core.ActionNone, false
	}
	if ax >= ay {
		if dx > 0 {
			return core.ActionRight, true
		}
		return core.ActionLeft, true
	}
	if dy > 0 {
		return core.ActionDown, true
	}
	return core.ActionUp, true
}
