package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/sofactl/internal/session"
)

// Screen represents the current active screen in the application
type Screen string

const (
	ScreenConnect Screen = "connect"
	ScreenRemote  Screen = "remote"
	ScreenFailure Screen = "failure"
)

// failureKeyMap defines key bindings for the failure screen
type failureKeyMap struct {
	Retry key.Binding
	Quit  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k failureKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Retry, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k failureKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Retry, k.Quit},
	}
}

// AppModel is the top-level coordinator model that manages screen transitions
type AppModel struct {
	CurrentScreen Screen

	// Screen models
	ConnectModel ConnectModel
	RemoteModel  RemoteModel

	// Shared application state
	Config    session.Config
	Session   *session.Session
	LastError error

	// Connected reports whether a session reached the remote screen;
	// the CLI reads it from the final model after the program exits.
	Connected bool

	// UI state
	Width  int
	Height int

	// Help
	Help        help.Model
	FailureKeys failureKeyMap
}

// NewAppModel creates the application model starting at the connect
// screen. The session itself is created inside the connect command so
// a retry after failure gets a fresh one.
func NewAppModel(cfg session.Config) AppModel {
	failureKeys := failureKeyMap{
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	return AppModel{
		CurrentScreen: ScreenConnect,
		ConnectModel:  NewConnectModel(cfg),
		Config:        cfg,
		Help:          help.New(),
		FailureKeys:   failureKeys,
	}
}

// Init initializes the application
func (m AppModel) Init() tea.Cmd {
	return m.ConnectModel.Init()
}

// Update handles all messages and routes them to the appropriate screen
func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.ConnectModel.Width = msg.Width
		m.ConnectModel.Height = msg.Height
		m.RemoteModel.SetSize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		// Global quit handler
		if msg.String() == "ctrl+c" {
			return m.quit()
		}

	case connectResultMsg:
		if msg.err != nil {
			m.LastError = msg.err
			m.Session = msg.sess
			m.CurrentScreen = ScreenFailure
			return m, nil
		}
		m.Session = msg.sess
		m.Connected = true
		m.RemoteModel = NewRemoteModel(msg.sess, m.Config)
		m.RemoteModel.SetSize(m.Width, m.Height)
		m.CurrentScreen = ScreenRemote
		return m, nil

	case sendFailedMsg:
		m.LastError = msg.err
		m.CurrentScreen = ScreenFailure
		return m, nil
	}

	return m.updateCurrentScreen(msg)
}

// updateCurrentScreen routes updates to the currently active screen
func (m AppModel) updateCurrentScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.CurrentScreen {
	case ScreenConnect:
		m.ConnectModel, cmd = m.ConnectModel.Update(msg)

	case ScreenRemote:
		m.RemoteModel, cmd = m.RemoteModel.Update(msg)
		if m.RemoteModel.QuitRequested {
			return m.quit()
		}

	case ScreenFailure:
		return m.handleFailureScreen(msg)
	}

	return m, cmd
}

// handleFailureScreen handles user input on the failure screen
func (m AppModel) handleFailureScreen(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "r":
			// The failed session is terminal; start a fresh one.
			m.releaseSession()
			m.LastError = nil
			m.ConnectModel = NewConnectModel(m.Config)
			m.ConnectModel.Width = m.Width
			m.ConnectModel.Height = m.Height
			m.CurrentScreen = ScreenConnect
			return m, m.ConnectModel.Init()

		case "q":
			return m.quit()
		}
	}

	return m, nil
}

// quit releases the session and exits the program
func (m AppModel) quit() (tea.Model, tea.Cmd) {
	m.releaseSession()
	return m, tea.Quit
}

func (m *AppModel) releaseSession() {
	if m.Session != nil {
		m.Session.Stop()
		m.Session = nil
	}
}

// View renders the current screen
func (m AppModel) View() string {
	switch m.CurrentScreen {
	case ScreenConnect:
		return m.ConnectModel.View()
	case ScreenRemote:
		return m.RemoteModel.View()
	case ScreenFailure:
		return m.renderFailureScreen()
	default:
		return "Unknown screen"
	}
}

// renderFailureScreen renders the failure screen with troubleshooting hints
func (m AppModel) renderFailureScreen() string {
	var b strings.Builder

	b.WriteString(RenderTitle("✗ Session Failed"))
	b.WriteString("\n\n")

	if m.LastError != nil {
		b.WriteString(ErrorBoxStyle.Render(session.ShortMessage(m.LastError)))
		b.WriteString("\n\n")

		if hint := session.TroubleshootingHint(m.LastError); hint != "" {
			b.WriteString(HintBoxStyle.Render(hint))
			b.WriteString("\n\n")
		}
	}

	b.WriteString("Press r to start a new session, q to exit.\n")

	helpText := m.Help.View(m.FailureKeys)
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}
