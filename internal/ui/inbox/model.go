package inbox

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/mail-digest/internal/keys"
	"github.com/nhle/mail-digest/internal/mail"
)

// EnvelopesLoadedMsg is sent when the recent message headers have been
// fetched.
type EnvelopesLoadedMsg struct {
	Envelopes []mail.Envelope
}

// SelectedMsg is sent when the user selects a message to digest.
type SelectedMsg struct {
	UID uint32
}

// RefreshMsg asks the parent to refetch the inbox listing.
type RefreshMsg struct{}

// Model is the inbox listing view.
type Model struct {
	list   list.Model
	keys   *keys.KeyMap
	width  int
	height int
}

// New creates a new inbox list model.
func New(k *keys.KeyMap, width, height int) Model {
	l := list.New([]list.Item{}, ItemDelegate{}, width, height-2)
	l.Title = "Inbox"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)

	return Model{
		list:   l,
		keys:   k,
		width:  width,
		height: height,
	}
}

// Init returns the initial command.
func (m Model) Init() tea.Cmd {
	return nil
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, height-2)
}

// Update handles messages for the inbox view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case EnvelopesLoadedMsg:
		items := make([]list.Item, 0, len(msg.Envelopes))
		// Newest first.
		for i := len(msg.Envelopes) - 1; i >= 0; i-- {
			items = append(items, EnvelopeItem{Envelope: msg.Envelopes[i]})
		}
		return m, m.list.SetItems(items)

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Select):
			if item, ok := m.list.SelectedItem().(EnvelopeItem); ok {
				return m, func() tea.Msg {
					return SelectedMsg{UID: item.Envelope.UID}
				}
			}

		case key.Matches(msg, m.keys.Refresh):
			return m, func() tea.Msg {
				return RefreshMsg{}
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the inbox listing.
func (m Model) View() string {
	return m.list.View()
}
