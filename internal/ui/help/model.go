package help

import (
	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mail-digest/internal/keys"
	"github.com/nhle/mail-digest/internal/theme"
)

// Model is the keyboard shortcut overlay.
type Model struct {
	keys   *keys.KeyMap
	help   help.Model
	width  int
	height int
}

// New creates the help overlay with the application theme applied to
// the key and description columns.
func New(k *keys.KeyMap, width, height int) Model {
	h := help.New()
	h.ShowAll = true
	h.Width = width - 4
	h.Styles.FullKey = lipgloss.NewStyle().
		Foreground(theme.ColorBlue).
		Bold(true)
	h.Styles.FullDesc = theme.DimmedStyle

	return Model{
		keys:   k,
		help:   h,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages for the help overlay. Navigation back out of
// the overlay is handled by the root model.
func (m Model) Update(_ tea.Msg) (Model, tea.Cmd) {
	return m, nil
}

// View renders the shortcut table inside the content panel.
func (m Model) View() string {
	title := theme.SectionTitleStyle.Render("Keyboard Shortcuts")
	hint := theme.HelpStyle.Render(
		"r and C work from the inbox; c works in the digest view.",
	)

	content := lipgloss.JoinVertical(
		lipgloss.Left,
		title,
		"",
		m.help.View(m.keys),
		"",
		hint,
	)

	return theme.PanelStyle.
		Width(m.width - 4).
		Height(m.height - 4).
		Render(content)
}

// SetSize updates the overlay dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.help.Width = width - 4
}
