package digestview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mail-digest/internal/keys"
	"github.com/nhle/mail-digest/internal/mail"
	"github.com/nhle/mail-digest/internal/model"
	"github.com/nhle/mail-digest/internal/theme"
)

// BackMsg signals the parent to navigate back to the inbox.
type BackMsg struct{}

// LoadedMsg carries a computed digest for display.
type LoadedMsg struct {
	Envelope mail.Envelope
	Cleaned  string
	Digest   model.Digest
}

// Model is the digest detail view.
type Model struct {
	envelope    mail.Envelope
	digest      model.Digest
	cleaned     string
	showCleaned bool
	loading     bool
	viewport    viewport.Model
	spinner     spinner.Model
	keys        *keys.KeyMap
	width       int
	height      int
}

// New creates a new digest view model.
func New(k *keys.KeyMap, width, height int) Model {
	vp := viewport.New(width, height-2)
	vp.Style = lipgloss.NewStyle()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.ColorBlue)

	return Model{
		viewport: vp,
		spinner:  sp,
		keys:     k,
		width:    width,
		height:   height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height - 2
}

// SetLoading puts the view into its spinner state while the message is
// fetched and the digest computed.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
	m.showCleaned = false
}

// StartSpinner returns the command that animates the loading spinner.
func (m Model) StartSpinner() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages for the digest view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case LoadedMsg:
		m.envelope = msg.Envelope
		m.digest = msg.Digest
		m.cleaned = msg.Cleaned
		m.loading = false
		m.viewport.SetContent(m.renderContent())
		m.viewport.GotoTop()
		return m, nil

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.ToggleCleaned):
			if !m.loading {
				m.showCleaned = !m.showCleaned
				m.viewport.SetContent(m.renderContent())
				m.viewport.GotoTop()
			}
			return m, nil
		}
	}

	// Delegate to viewport for scrolling.
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the digest view.
func (m Model) View() string {
	if m.loading {
		return theme.PanelStyle.
			Width(m.width - 4).
			Render(m.spinner.View() + " Generating digest…")
	}
	return m.viewport.View()
}

// renderContent builds the scrollable digest (or cleaned text) body.
func (m Model) renderContent() string {
	var b strings.Builder

	header := fmt.Sprintf(
		"%s\nFrom: %s",
		m.envelope.Subject, m.envelope.From,
	)
	b.WriteString(theme.SectionTitleStyle.Render(header))
	b.WriteString("\n\n")

	if m.showCleaned {
		b.WriteString(theme.SectionTitleStyle.Render("Cleaned Text"))
		b.WriteString("\n\n")
		b.WriteString(m.cleaned)
		return theme.PanelStyle.Width(m.width - 4).Render(b.String())
	}

	b.WriteString(theme.SectionTitleStyle.Render("Summary"))
	b.WriteString("\n")
	b.WriteString(m.digest.Summary)
	b.WriteString("\n\n")

	b.WriteString(theme.SectionTitleStyle.Render("Key Points"))
	b.WriteString("\n")
	if len(m.digest.KeyPoints) == 0 {
		b.WriteString(theme.DimmedStyle.Render(
			"No distinct key points identified.",
		))
		b.WriteString("\n")
	} else {
		for _, p := range m.digest.KeyPoints {
			b.WriteString("• " + p + "\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(theme.SectionTitleStyle.Render("Deadlines"))
	b.WriteString("\n")
	if len(m.digest.Deadlines) == 0 {
		b.WriteString(theme.DimmedStyle.Render(
			"No specific deadlines found.",
		))
		b.WriteString("\n")
	} else {
		for _, d := range m.digest.Deadlines {
			b.WriteString(theme.DeadlineStyle.Render(
				"⏰ " + d.Format(model.DeadlineFormat),
			))
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")

	b.WriteString(theme.SectionTitleStyle.Render("Attachments"))
	b.WriteString("\n")
	if len(m.digest.Attachments) == 0 {
		b.WriteString(theme.DimmedStyle.Render(
			"No file attachments mentioned in the text.",
		))
		b.WriteString("\n")
	} else {
		for _, a := range m.digest.Attachments {
			name := theme.AttachmentStyle.Render(a.Filename)
			if a.Context != "" {
				b.WriteString(fmt.Sprintf("📎 %s: %s\n", name, a.Context))
			} else {
				b.WriteString("📎 " + name + "\n")
			}
		}
	}

	return theme.PanelStyle.Width(m.width - 4).Render(b.String())
}
