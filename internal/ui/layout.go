package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mail-digest/internal/theme"
)

// Rows reserved above and below the content area.
const (
	headerRows    = 1
	statusBarRows = 1
)

// Layout tracks the terminal size and splits it into a one-row header,
// the content area, and a one-row status bar.
type Layout struct {
	Width  int
	Height int
}

// NewLayout creates a layout for the given terminal dimensions.
func NewLayout(width, height int) Layout {
	return Layout{Width: width, Height: height}
}

// ContentWidth returns the width available to the active view.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the rows available to the active view.
func (l Layout) ContentHeight() int {
	h := l.Height - headerRows - statusBarRows
	if h < 0 {
		h = 0
	}
	return h
}

// RenderHeader renders the title bar with the connection state pinned
// to the right edge: the connected account address, a progress note
// ("connecting…", "fetching…"), or "offline".
func (l Layout) RenderHeader(title, connState string) string {
	left := theme.HeaderStyle.Render("✉ " + title)
	right := theme.HeaderStyle.Render(connState)
	return l.fillBetween(left, right, theme.HeaderStyle)
}

// RenderStatusBar renders the bottom bar carrying key hints, or the
// pending error message when one is set.
func (l Layout) RenderStatusBar(hints string) string {
	return l.fillBetween(
		theme.StatusBarStyle.Render(hints), "", theme.StatusBarStyle,
	)
}

// RenderWithFrame stacks header, content, and status bar into the full
// terminal view.
func (l Layout) RenderWithFrame(
	header string,
	content string,
	statusBar string,
) string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		header,
		content,
		statusBar,
	)
}

// fillBetween pads the gap between two rendered segments with the
// bar's background color so the bar spans the full terminal width.
func (l Layout) fillBetween(
	left, right string, barStyle lipgloss.Style,
) string {
	gap := l.Width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 0 {
		gap = 0
	}

	fill := lipgloss.NewStyle().
		Background(barStyle.GetBackground()).
		Render(strings.Repeat(" ", gap))

	return lipgloss.JoinHorizontal(lipgloss.Top, left, fill, right)
}
