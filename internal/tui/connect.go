package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/sofactl/internal/session"
)

// connectResultMsg carries the outcome of the session bring-up. On
// failure sess is still set so the coordinator can release its sockets.
type connectResultMsg struct {
	sess *session.Session
	err  error
}

// ConnectModel represents the connection progress screen
type ConnectModel struct {
	Spinner spinner.Model
	Config  session.Config

	Width  int
	Height int
}

// NewConnectModel creates the connect screen for the given session config
func NewConnectModel(cfg session.Config) ConnectModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = SpinnerStyle

	return ConnectModel{
		Spinner: s,
		Config:  cfg,
	}
}

// Init starts the spinner and kicks off the session bring-up
func (m ConnectModel) Init() tea.Cmd {
	return tea.Batch(m.Spinner.Tick, connectCmd(m.Config))
}

// connectCmd runs the full bring-up sequence off the UI goroutine:
// bind, announce, wait for the hub's dial-back, authenticate.
func connectCmd(cfg session.Config) tea.Cmd {
	return func() tea.Msg {
		sess := session.New(cfg, session.LogObserver{})

		steps := []func() error{
			sess.StartListening,
			sess.SendDiscovery,
			func() error { return sess.WaitForPeer(0) },
			func() error { return sess.Authenticate(0) },
		}
		for _, step := range steps {
			if err := step(); err != nil {
				return connectResultMsg{sess: sess, err: err}
			}
		}

		return connectResultMsg{sess: sess}
	}
}

// Update handles spinner ticks
func (m ConnectModel) Update(msg tea.Msg) (ConnectModel, tea.Cmd) {
	var cmd tea.Cmd
	m.Spinner, cmd = m.Spinner.Update(msg)
	return m, cmd
}

// View renders the connection progress screen
func (m ConnectModel) View() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Connecting to Hub"))
	b.WriteString("\n")

	b.WriteString(fmt.Sprintf("%s Waiting for the hub at %s to dial back...\n\n",
		m.Spinner.View(), m.Config.HubAddr))

	b.WriteString(SubtitleStyle.Render(
		"The discovery packet has been sent. The hub opens a TCP connection\n" +
			"to this machine; this can take up to a minute."))
	b.WriteString("\n")

	helpText := "ctrl+c quit"
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}
