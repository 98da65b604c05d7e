package connect

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/mail-digest/internal/model"
	"github.com/nhle/mail-digest/internal/theme"
)

// SubmitMsg is sent when the user completes the account form.
type SubmitMsg struct {
	Account  model.AccountConfig
	Password string
	Remember bool
}

// Model is the account/connect form view.
type Model struct {
	form   *huh.Form
	width  int
	height int

	// Form field values (huh binds to these).
	host     string
	port     string
	username string
	password string
	useTLS   bool
	remember bool

	errMessage string
}

// New creates a connect form prefilled from the stored account config.
func New(account model.AccountConfig, width, height int) Model {
	m := Model{
		host:     account.Host,
		port:     account.Port,
		username: account.Username,
		useTLS:   account.TLS,
		remember: true,
		width:    width,
		height:   height,
	}
	if m.port == "" {
		m.port = "993"
	}
	m.form = m.buildForm()
	return m
}

// Init starts the form.
func (m Model) Init() tea.Cmd {
	return m.form.Init()
}

// SetSize updates the view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.form = m.form.WithWidth(m.formWidth())
}

// SetError shows a connection failure above the form so the user can
// correct the settings and retry.
func (m *Model) SetError(message string) {
	m.errMessage = message
	m.form = m.buildForm()
}

// Update handles messages for the connect view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		account := model.AccountConfig{
			Host:     strings.TrimSpace(m.host),
			Port:     strings.TrimSpace(m.port),
			Username: strings.TrimSpace(m.username),
			TLS:      m.useTLS,
		}
		password := m.password

		// Rebuild so a failed connection returns to a live form.
		m.form = m.buildForm()
		return m, tea.Batch(
			m.form.Init(),
			func() tea.Msg {
				return SubmitMsg{
					Account:  account,
					Password: password,
					Remember: m.remember,
				}
			},
		)
	}

	return m, cmd
}

// View renders the connect form.
func (m Model) View() string {
	title := theme.SectionTitleStyle.Render("Connect your mailbox")

	parts := []string{title}
	if m.errMessage != "" {
		parts = append(parts, theme.ErrorStyle.Render(m.errMessage))
	}
	parts = append(parts, m.form.View())

	content := lipgloss.JoinVertical(lipgloss.Left, parts...)

	return theme.PanelStyle.
		Width(m.formWidth() + 4).
		Render(content)
}

func (m Model) formWidth() int {
	w := m.width - 8
	if w > 72 {
		w = 72
	}
	if w < 40 {
		w = 40
	}
	return w
}

func (m *Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("IMAP Server").
				Description("Hostname of your IMAP server").
				Placeholder("imap.example.com").
				Value(&m.host).
				Validate(validateRequired("IMAP Server")),
			huh.NewInput().
				Title("Port").
				Description("Usually 993 for TLS").
				Value(&m.port).
				Validate(validatePort),
			huh.NewInput().
				Title("Email Address").
				Placeholder("you@example.com").
				Value(&m.username).
				Validate(validateRequired("Email Address")),
			huh.NewInput().
				Title("Password").
				Description("Use an app password for Gmail/Outlook").
				EchoMode(huh.EchoModePassword).
				Value(&m.password).
				Validate(validateRequired("Password")),
			huh.NewConfirm().
				Title("Use TLS").
				Value(&m.useTLS),
			huh.NewConfirm().
				Title("Remember password in system keyring").
				Value(&m.remember),
		),
	).WithWidth(m.formWidth())
}

// validateRequired returns a validator that rejects empty input.
func validateRequired(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", field)
		}
		return nil
	}
}

func validatePort(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 65535 {
		return fmt.Errorf("port must be a number between 1 and 65535")
	}
	return nil
}
