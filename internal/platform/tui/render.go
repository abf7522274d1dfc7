package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/t2048/internal/board"
	"github.com/vovakirdan/t2048/internal/game"
	"github.com/vovakirdan/t2048/internal/search"
)

const (
	tileWidth  = 7 // Inner width of a tile
	tileHeight = 3 // Inner height of a tile
)

// tileColors maps tile values to background/foreground ANSI 256 colors.
// Values past the table reuse the last entry.
var tileColors = []struct {
	value  int
	bg, fg string
}{
	{0, "236", "240"},
	{2, "255", "235"},
	{4, "230", "235"},
	{8, "215", "255"},
	{16, "209", "255"},
	{32, "203", "255"},
	{64, "196", "255"},
	{128, "228", "235"},
	{256, "227", "235"},
	{512, "226", "235"},
	{1024, "220", "235"},
	{2048, "214", "255"},
	{4096, "93", "255"},
}

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229"))
	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
	valueStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("255"))
	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))
	overStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Padding(0, 2)
	boardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240"))
)

// tileStyle returns the style for a tile value.
func tileStyle(v int) lipgloss.Style {
	c := tileColors[len(tileColors)-1]
	for _, tc := range tileColors {
		if tc.value == v {
			c = tc
			break
		}
	}
	return lipgloss.NewStyle().
		Width(tileWidth).
		Height(tileHeight).
		Align(lipgloss.Center, lipgloss.Center).
		Background(lipgloss.Color(c.bg)).
		Foreground(lipgloss.Color(c.fg)).
		Bold(v >= 8)
}

// RenderBoard draws the grid. The most recent spawn is underlined.
func RenderBoard(b board.Board, spawn *board.Cell) string {
	rows := make([]string, board.Size)
	for y := range board.Size {
		cells := make([]string, board.Size)
		for x := range board.Size {
			v := b[y][x]
			label := "·"
			if v != 0 {
				label = strconv.Itoa(v)
			}
			style := tileStyle(v)
			if spawn != nil && spawn.X == x && spawn.Y == y {
				style = style.Underline(true)
			}
			cells[x] = style.Render(label)
		}
		rows[y] = lipgloss.JoinHorizontal(lipgloss.Top, cells...)
	}
	return boardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

// RenderHUD draws the score line above the board.
func RenderHUD(snap game.Snapshot, best int, auto bool) string {
	field := func(label string, v int) string {
		return labelStyle.Render(label+" ") + valueStyle.Render(strconv.Itoa(v))
	}
	parts := []string{
		field("Score", snap.Score),
		field("Best", max(best, snap.Score)),
		field("Max", snap.MaxTile),
		field("Moves", snap.Moves),
	}
	if auto {
		parts = append(parts, hintStyle.Render("AUTO"))
	}
	return strings.Join(parts, "   ")
}

// RenderDecision formats a search result: the chosen move followed by the
// expected value of every direction.
func RenderDecision(dec search.Decision) string {
	if !dec.Legal {
		return "no legal move"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "best: %s", dec.Direction)
	for _, m := range dec.Moves {
		if !m.Legal {
			fmt.Fprintf(&sb, "  %s -", m.Direction)
			continue
		}
		fmt.Fprintf(&sb, "  %s %.2f", m.Direction, m.Score)
	}
	return sb.String()
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, text)
}
