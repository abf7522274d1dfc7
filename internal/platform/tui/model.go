package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/t2048/internal/core"
	"github.com/vovakirdan/t2048/internal/game"
	"github.com/vovakirdan/t2048/internal/search"
	"github.com/vovakirdan/t2048/internal/service"
	"github.com/vovakirdan/t2048/internal/storage"
)

// hintTimeout bounds a single hint search.
const hintTimeout = 5 * time.Second

// Options configures the play model.
type Options struct {
	Store     *service.Store     // Game to play; required
	Stats     *storage.Store     // Optional, for best score and leaderboard
	Config    core.RuntimeConfig // Screen size and refresh rate
	AutoDelay time.Duration      // Pause between auto-play moves
}

// hintMsg carries a finished hint search.
type hintMsg struct {
	dec   search.Decision
	err   error
	moves int   // Move count of the position that was searched
	seed  int64 // Seed of the game it belongs to
}

// Model is the Bubble Tea model for playing 2048.
type Model struct {
	store     *service.Store
	stats     *storage.Store
	config    core.RuntimeConfig
	autoDelay time.Duration
	keyMapper *KeyMapper
	help      help.Model

	snap       game.Snapshot
	best       int
	hint       string
	hintErr    error
	lastAction core.Action
	lastSource core.Source

	dragging     bool
	dragX, dragY int

	scores   *ScoreboardModel
	quitting bool
}

// NewModel creates a new Bubble Tea model for the given store.
func NewModel(opts Options) Model {
	m := Model{
		store:     opts.Store,
		stats:     opts.Stats,
		config:    opts.Config,
		autoDelay: opts.AutoDelay,
		keyMapper: NewKeyMapper(),
		help:      help.New(),
		snap:      opts.Store.Current(),
	}
	m.best = m.loadBest()
	return m
}

// loadBest reads the player's best score, 0 without storage.
func (m Model) loadBest() int {
	if m.stats == nil || m.store.Identity() == "" {
		return 0
	}
	high, err := m.stats.HighScore(m.store.Identity())
	if err != nil {
		return 0
	}
	return high
}

// Init starts the refresh loop.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.scores != nil {
			return m.updateScores(msg)
		}
		return m.handleKey(msg)

	case tea.MouseMsg:
		return m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
		m.help.Width = msg.Width
		if m.scores != nil {
			return m.updateScores(msg)
		}
		return m, nil

	case hintMsg:
		if msg.moves == m.snap.Moves && msg.seed == m.snap.Seed {
			m.hintErr = msg.err
			m.hint = RenderDecision(msg.dec)
		}
		return m, nil

	case TickMsg:
		return m.handleTick()
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}
	return m.perform(action, core.SourceKeyboard)
}

// handleMouse turns a left-button drag into a move.
func (m Model) handleMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.scores != nil || msg.Button != tea.MouseButtonLeft {
		return m, nil
	}
	switch msg.Action {
	case tea.MouseActionPress:
		m.dragging = true
		m.dragX, m.dragY = msg.X, msg.Y
	case tea.MouseActionRelease:
		if !m.dragging {
			return m, nil
		}
		m.dragging = false
		if action, ok := SwipeDirection(msg.X-m.dragX, msg.Y-m.dragY); ok {
			return m.perform(action, core.SourceTouch)
		}
	}
	return m, nil
}

// perform executes an action from any input source.
func (m Model) perform(action core.Action, src core.Source) (tea.Model, tea.Cmd) {
	if dir, ok := action.Direction(); ok {
		snap, changed := m.store.Apply(dir)
		m.setSnapshot(snap)
		if changed {
			m.lastAction, m.lastSource = action, src
		}
		return m, nil
	}

	switch action {
	case core.ActionHint:
		m.hint = "thinking..."
		m.hintErr = nil
		return m, m.hintCmd()

	case core.ActionAutoPlay:
		if m.store.AutoPlaying() {
			m.store.StopAutoPlay()
		} else if err := m.store.StartAutoPlay(context.Background(), m.autoDelay); err != nil {
			m.hintErr = err
		}
		return m, nil

	case core.ActionRestart:
		m.setSnapshot(m.store.Reset())
		m.lastAction, m.lastSource = core.ActionNone, src
		return m, nil

	case core.ActionScores:
		sb := NewScoreboardModel(m.stats, m.store.Identity(), m.config.ScreenW, m.config.ScreenH)
		m.scores = &sb
		return m, nil
	}

	return m, nil
}

// updateScores forwards messages to the open scoreboard.
func (m Model) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.scores.Update(msg)
	sb, ok := next.(ScoreboardModel)
	if !ok {
		return m, cmd
	}
	switch {
	case sb.IsQuitting():
		m.quitting = true
		return m, tea.Quit
	case sb.IsGoingBack():
		m.scores = nil
		return m, cmd
	}
	m.scores = &sb
	return m, cmd
}

// hintCmd runs the search off the UI goroutine.
func (m Model) hintCmd() tea.Cmd {
	store := m.store
	moves, seed := m.snap.Moves, m.snap.Seed
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), hintTimeout)
		defer cancel()
		dec, err := store.Hint(ctx)
		return hintMsg{dec: dec, err: err, moves: moves, seed: seed}
	}
}

// handleTick picks up changes made by auto-play or other sessions.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	snap := m.store.Current()
	if snap.Moves != m.snap.Moves && m.store.AutoPlaying() {
		m.lastSource = core.SourceSearch
		m.lastAction = core.ActionNone
	}
	m.setSnapshot(snap)
	return m, tickCmd(m.config.TickRate)
}

// setSnapshot stores a new snapshot, dropping a stale hint and refreshing
// the best score when a game ends.
func (m *Model) setSnapshot(snap game.Snapshot) {
	if snap.Moves != m.snap.Moves || snap.Seed != m.snap.Seed {
		m.hint = ""
		m.hintErr = nil
	}
	if snap.Over() && !m.snap.Over() {
		m.best = max(m.best, m.loadBest(), snap.Score)
	}
	m.snap = snap
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if m.scores != nil {
		return m.scores.View()
	}

	lines := []string{
		titleStyle.Render("2048"),
		RenderHUD(m.snap, m.best, m.store.AutoPlaying()),
		"",
		RenderBoard(m.snap.Board, m.snap.LastSpawn),
		m.statusLine(),
	}

	switch {
	case m.hintErr != nil:
		lines = append(lines, errorStyle.Render(m.hintErr.Error()))
	case m.hint != "":
		lines = append(lines, hintStyle.Render(m.hint))
	default:
		lines = append(lines, "")
	}
	if err := m.store.LastError(); err != nil {
		lines = append(lines, errorStyle.Render("stats: "+err.Error()))
	}
	lines = append(lines, "", labelStyle.Render(m.help.View(m.keyMapper.Keys())))

	body := lipgloss.JoinVertical(lipgloss.Center, lines...)
	if m.config.ScreenW <= 0 || m.config.ScreenH <= 0 {
		return body
	}
	return lipgloss.Place(m.config.ScreenW, m.config.ScreenH, lipgloss.Center, lipgloss.Center, body)
}

// statusLine describes the last move or the end of the game.
func (m Model) statusLine() string {
	if m.snap.Over() {
		return overStyle.Render(fmt.Sprintf("GAME OVER  max tile %d  press r", m.snap.MaxTile))
	}
	switch {
	case m.lastSource == core.SourceSearch:
		return labelStyle.Render("auto-play")
	case m.lastAction != core.ActionNone:
		return labelStyle.Render(fmt.Sprintf("%s (%s)", strings.ToLower(m.lastAction.String()), m.lastSource))
	}
	return ""
}

// Run starts the Bubble Tea program with the given options and blocks
// until the player quits.
func Run(opts Options) error {
	model := NewModel(opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseCellMotion(), // Drag to swipe
	)

	_, err := p.Run()
	return err
}
