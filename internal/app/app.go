package app

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/nhle/mail-digest/internal/credential"
	"github.com/nhle/mail-digest/internal/digest"
	"github.com/nhle/mail-digest/internal/keys"
	"github.com/nhle/mail-digest/internal/mail"
	"github.com/nhle/mail-digest/internal/model"
	"github.com/nhle/mail-digest/internal/ui"
	"github.com/nhle/mail-digest/internal/ui/connect"
	"github.com/nhle/mail-digest/internal/ui/digestview"
	helpview "github.com/nhle/mail-digest/internal/ui/help"
	"github.com/nhle/mail-digest/internal/ui/inbox"
)

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewConnect ViewState = iota
	ViewInbox
	ViewDigest
	ViewHelp
)

// connectedMsg is sent when a connection attempt succeeds.
type connectedMsg struct {
	client *mail.Client
}

// connectFailedMsg is sent when a connection attempt fails.
type connectFailedMsg struct {
	err error
}

// fetchFailedMsg is sent when loading the inbox listing fails.
type fetchFailedMsg struct {
	err error
}

// digestFailedMsg is sent when fetching or digesting a message fails.
type digestFailedMsg struct {
	uid uint32
	err error
}

// Model is the root Bubble Tea model that manages view routing, layout,
// and access to the mail client and digest pipeline.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	keys         *keys.KeyMap
	log          zerolog.Logger

	cfg      *model.AppConfig
	client   *mail.Client
	pipeline *digest.Pipeline

	connectView connect.Model
	inboxView   inbox.Model
	digestView  digestview.Model
	helpView    helpview.Model

	envelopes map[uint32]mail.Envelope
	password  string

	// pendingUID is the message whose digest command is in flight.
	// Results for any other message are stale and dropped: the user
	// can back out of the digest view while a command is still
	// running and select a different message.
	pendingUID uint32

	ready        bool
	connecting   bool
	fetching     bool
	errorMessage string
}

// New creates the root application model. password may be empty; when
// it is set (from the keyring or the environment) the app connects
// immediately instead of showing the account form.
func New(
	cfg *model.AppConfig,
	password string,
	pipeline *digest.Pipeline,
	log zerolog.Logger,
) Model {
	k := keys.DefaultKeyMap()

	m := Model{
		currentView: ViewConnect,
		keys:        k,
		log:         log,
		cfg:         cfg,
		pipeline:    pipeline,
		connectView: connect.New(cfg.Account, 80, 24),
		inboxView:   inbox.New(k, 80, 24),
		digestView:  digestview.New(k, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		envelopes:   make(map[uint32]mail.Envelope),
		password:    password,
	}

	if cfg.Account.Host != "" && cfg.Account.Username != "" && password != "" {
		m.connecting = true
	}
	return m
}

// Init returns the initial command. With stored credentials it starts
// the connection attempt right away; otherwise it starts the account
// form.
func (m Model) Init() tea.Cmd {
	if m.connecting {
		return m.connectCmd(m.cfg.Account, m.password)
	}
	return m.connectView.Init()
}

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		contentWidth := m.layout.ContentWidth()
		contentHeight := m.layout.ContentHeight()
		m.connectView.SetSize(contentWidth, contentHeight)
		m.inboxView.SetSize(contentWidth, contentHeight)
		m.digestView.SetSize(contentWidth, contentHeight)
		m.helpView.SetSize(contentWidth, contentHeight)
		// Forward to active view so huh forms can calculate their layout.
		return m.updateActiveView(msg)

	case connect.SubmitMsg:
		m.errorMessage = ""
		m.connecting = true
		m.password = msg.Password
		m.cfg.Account = msg.Account
		if msg.Remember {
			m.persistAccount(msg.Account, msg.Password)
		}
		return m, m.connectCmd(msg.Account, msg.Password)

	case connectedMsg:
		m.connecting = false
		m.fetching = true
		m.client = msg.client
		m.currentView = ViewInbox
		return m, m.loadEnvelopesCmd()

	case connectFailedMsg:
		m.connecting = false
		m.currentView = ViewConnect
		var authErr *mail.AuthError
		if errors.As(msg.err, &authErr) {
			m.connectView.SetError(authErr.Message)
		} else {
			m.connectView.SetError(msg.err.Error())
		}
		return m, m.connectView.Init()

	case inbox.EnvelopesLoadedMsg:
		m.fetching = false
		m.errorMessage = ""
		for _, env := range msg.Envelopes {
			m.envelopes[env.UID] = env
		}
		var cmd tea.Cmd
		m.inboxView, cmd = m.inboxView.Update(msg)
		return m, cmd

	case fetchFailedMsg:
		m.fetching = false
		m.errorMessage = msg.err.Error()
		return m, nil

	case inbox.RefreshMsg:
		m.fetching = true
		m.errorMessage = ""
		return m, m.loadEnvelopesCmd()

	case inbox.SelectedMsg:
		m.previousView = m.currentView
		m.currentView = ViewDigest
		m.pendingUID = msg.UID
		m.digestView.SetLoading(true)
		return m, tea.Batch(
			m.digestView.StartSpinner(),
			m.loadDigestCmd(msg.UID),
		)

	case digestview.LoadedMsg:
		if msg.Envelope.UID != m.pendingUID || m.currentView != ViewDigest {
			return m, nil
		}
		m.errorMessage = ""
		var cmd tea.Cmd
		m.digestView, cmd = m.digestView.Update(msg)
		return m, cmd

	case digestFailedMsg:
		if msg.uid != m.pendingUID || m.currentView != ViewDigest {
			return m, nil
		}
		m.errorMessage = msg.err.Error()
		m.digestView.SetLoading(false)
		m.currentView = ViewInbox
		return m, nil

	case digestview.BackMsg:
		m.currentView = ViewInbox
		return m, nil

	case tea.KeyMsg:
		// Global keys that work regardless of current view
		switch msg.String() {
		case "ctrl+c":
			return m, tea.Quit

		case "q":
			if m.currentView == ViewInbox {
				return m, tea.Quit
			}

		case "?":
			if m.currentView == ViewConnect {
				break
			}
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case "C":
			if m.currentView == ViewInbox {
				m.previousView = m.currentView
				m.currentView = ViewConnect
				m.connectView = connect.New(
					m.cfg.Account,
					m.layout.ContentWidth(),
					m.layout.ContentHeight(),
				)
				return m, m.connectView.Init()
			}

		case "esc":
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
		}
	}

	// Delegate to active sub-view
	return m.updateActiveView(msg)
}

// updateActiveView dispatches the message to the currently active view.
func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewConnect:
		m.connectView, cmd = m.connectView.Update(msg)
	case ViewInbox:
		m.inboxView, cmd = m.inboxView.Update(msg)
	case ViewDigest:
		m.digestView, cmd = m.digestView.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	}

	return m, cmd
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("Mail Digest", m.connectionStatus())
	content := m.renderContent()
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, content, statusBar)
}

// renderContent returns the rendered string for the current active view.
func (m Model) renderContent() string {
	switch m.currentView {
	case ViewConnect:
		return m.connectView.View()
	case ViewInbox:
		return m.inboxView.View()
	case ViewDigest:
		return m.digestView.View()
	case ViewHelp:
		return m.helpView.View()
	default:
		return ""
	}
}

// connectionStatus returns a short string for the header describing the
// connection state.
func (m Model) connectionStatus() string {
	switch {
	case m.connecting:
		return "connecting…"
	case m.fetching:
		return "fetching…"
	case m.client != nil:
		return m.cfg.Account.Username
	default:
		return "offline"
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	if m.errorMessage != "" {
		return m.errorMessage
	}

	switch m.currentView {
	case ViewConnect:
		return "enter next field | esc quit"
	case ViewDigest:
		return "esc back | c toggle cleaned text | j/k scroll"
	case ViewHelp:
		return "? close help | esc back"
	default:
		return "q quit | ? help | enter digest | r refresh | C reconnect"
	}
}

// persistAccount writes the account settings to the config file and the
// password to the system keyring. Failures are logged, not surfaced;
// the session works either way.
func (m Model) persistAccount(account model.AccountConfig, password string) {
	m.cfg.Account = account
	if err := model.SaveConfig(model.DefaultConfigPath(), m.cfg); err != nil {
		m.log.Warn().Err(err).Msg("saving config failed")
	}
	if err := credential.Set(credential.KeyIMAPPassword, password); err != nil {
		m.log.Warn().Err(err).Msg("storing password in keyring failed")
	}
}

// connectCmd returns a command that validates the IMAP credentials.
func (m Model) connectCmd(
	account model.AccountConfig, password string,
) tea.Cmd {
	cfg := m.cfg
	log := m.log
	return func() tea.Msg {
		client := mail.NewClient(
			account.Host,
			account.Port,
			account.Username,
			password,
			account.TLS,
			cfg.Fetch.SinceDays,
			log,
		)
		if err := client.ValidateConnection(context.Background()); err != nil {
			return connectFailedMsg{err: err}
		}
		return connectedMsg{client: client}
	}
}

// loadEnvelopesCmd returns a command that fetches the inbox listing.
func (m Model) loadEnvelopesCmd() tea.Cmd {
	client := m.client
	limit := m.cfg.Fetch.Limit
	return func() tea.Msg {
		envelopes, err := client.FetchEnvelopes(context.Background(), limit)
		if err != nil {
			return fetchFailedMsg{err: err}
		}
		return inbox.EnvelopesLoadedMsg{Envelopes: envelopes}
	}
}

// loadDigestCmd returns a command that fetches one message and runs the
// digest pipeline over its body.
func (m Model) loadDigestCmd(uid uint32) tea.Cmd {
	client := m.client
	pipeline := m.pipeline
	envelope, ok := m.envelopes[uid]
	if !ok {
		return func() tea.Msg {
			return digestFailedMsg{
				uid: uid,
				err: fmt.Errorf("unknown message %d", uid),
			}
		}
	}
	return func() tea.Msg {
		msg, err := client.FetchMessage(context.Background(), uid)
		if err != nil {
			return digestFailedMsg{uid: uid, err: err}
		}

		cleaned := pipeline.Clean(msg.Body())
		d, err := pipeline.ComputeDigest(context.Background(), cleaned)
		if err != nil {
			return digestFailedMsg{uid: uid, err: err}
		}

		return digestview.LoadedMsg{
			Envelope: envelope,
			Cleaned:  cleaned,
			Digest:   d,
		}
	}
}
