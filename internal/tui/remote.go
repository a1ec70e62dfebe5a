package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muurk/sofactl/internal/protocol"
	"github.com/muurk/sofactl/internal/session"
)

// Messages for async button sends
type buttonSentMsg struct {
	name  string
	frame []byte
}

// sendFailedMsg is handled by the coordinator: a failed send is
// terminal for the session, so the remote screen never sees it.
type sendFailedMsg struct {
	err error
}

// remoteKeyMap defines key bindings for the remote screen
type remoteKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Send key.Binding
	Hex  key.Binding
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k remoteKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Send, k.Hex, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k remoteKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Send},
		{k.Hex, k.Quit},
	}
}

// hexModeKeyMap defines key bindings for raw hex entry mode
type hexModeKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k hexModeKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

// FullHelp returns keybindings for the expanded help view
func (k hexModeKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Confirm, k.Cancel},
	}
}

// buttonItem wraps a catalog button for use with bubbles/list
type buttonItem struct {
	name string
	code byte
}

// Implement list.Item interface
func (b buttonItem) FilterValue() string { return b.name }

func (b buttonItem) Title() string { return b.name }

func (b buttonItem) Description() string {
	return fmt.Sprintf("code 0x%02X", b.code)
}

// RemoteModel represents the remote control screen state
type RemoteModel struct {
	Session *session.Session
	Device  int

	ButtonList list.Model
	HexInput   textinput.Model
	HexMode    bool

	// Status line state
	LastAction string
	LastFrame  []byte

	QuitRequested bool

	Keys    remoteKeyMap
	HexKeys hexModeKeyMap
	Help    help.Model

	Width  int
	Height int
}

// NewRemoteModel creates the remote screen backed by an authenticated session
func NewRemoteModel(sess *session.Session, cfg session.Config) RemoteModel {
	device := cfg.DeviceID
	if device == 0 {
		device = protocol.DefaultDeviceID
	}

	items := make([]list.Item, 0)
	for _, name := range protocol.ButtonNames() {
		code, _ := protocol.ButtonCode(name)
		items = append(items, buttonItem{name: name, code: code})
	}

	delegate := list.NewDefaultDelegate()
	buttonList := list.New(items, delegate, 0, 0)
	buttonList.Title = "Buttons"
	buttonList.SetShowStatusBar(false)
	buttonList.SetFilteringEnabled(true)
	buttonList.SetShowHelp(false)

	input := textinput.New()
	input.Placeholder = "b6 or 0xb6"
	input.CharLimit = 4
	input.Width = 12

	keys := remoteKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Hex: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "raw hex"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
	}

	hexKeys := hexModeKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}

	return RemoteModel{
		Session:    sess,
		Device:     device,
		ButtonList: buttonList,
		HexInput:   input,
		Keys:       keys,
		HexKeys:    hexKeys,
		Help:       help.New(),
	}
}

// SetSize propagates terminal dimensions to the embedded list
func (m *RemoteModel) SetSize(width, height int) {
	m.Width = width
	m.Height = height
	// Leave room for chrome, title, status line and help
	listHeight := height - 12
	if listHeight < 5 {
		listHeight = 5
	}
	m.ButtonList.SetSize(width-6, listHeight)
}

// sendCmd sends one button press on the session
func sendCmd(sess *session.Session, device int, name string, code byte) tea.Cmd {
	return func() tea.Msg {
		if err := sess.SendCommand(device, int(code)); err != nil {
			return sendFailedMsg{err: err}
		}
		// Rebuild the frame for the status line; the encode cannot
		// fail here because both values fit a byte.
		frame, _ := protocol.EncodeCommand(device, int(code))
		return buttonSentMsg{name: name, frame: frame}
	}
}

// Update handles key input and send results
func (m RemoteModel) Update(msg tea.Msg) (RemoteModel, tea.Cmd) {
	switch msg := msg.(type) {
	case buttonSentMsg:
		m.LastAction = msg.name
		m.LastFrame = msg.frame
		return m, nil

	case tea.KeyMsg:
		if m.HexMode {
			return m.updateHexMode(msg)
		}

		// Ignore navigation keys while the list filter is active
		if m.ButtonList.FilterState() == list.Filtering {
			break
		}

		switch {
		case key.Matches(msg, m.Keys.Send):
			if item, ok := m.ButtonList.SelectedItem().(buttonItem); ok {
				return m, sendCmd(m.Session, m.Device, item.name, item.code)
			}
			return m, nil

		case key.Matches(msg, m.Keys.Hex):
			m.HexMode = true
			m.HexInput.SetValue("")
			m.HexInput.Focus()
			return m, textinput.Blink

		case key.Matches(msg, m.Keys.Quit):
			m.QuitRequested = true
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.ButtonList, cmd = m.ButtonList.Update(msg)
	return m, cmd
}

// updateHexMode handles key input while the raw hex entry is focused
func (m RemoteModel) updateHexMode(msg tea.KeyMsg) (RemoteModel, tea.Cmd) {
	switch {
	case key.Matches(msg, m.HexKeys.Confirm):
		value := m.HexInput.Value()
		m.HexMode = false
		m.HexInput.Blur()

		code, err := protocol.LookupButton(value)
		if err != nil {
			m.LastAction = err.Error()
			m.LastFrame = nil
			return m, nil
		}

		name := protocol.ButtonName(code)
		if name == "" {
			name = fmt.Sprintf("0x%02X", code)
		}
		return m, sendCmd(m.Session, m.Device, name, code)

	case key.Matches(msg, m.HexKeys.Cancel):
		m.HexMode = false
		m.HexInput.Blur()
		return m, nil
	}

	var cmd tea.Cmd
	m.HexInput, cmd = m.HexInput.Update(msg)
	return m, cmd
}

// View renders the remote control screen
func (m RemoteModel) View() string {
	var b strings.Builder

	b.WriteString(RenderTitle("Remote"))
	b.WriteString("\n")

	b.WriteString(m.ButtonList.View())
	b.WriteString("\n\n")

	if m.HexMode {
		b.WriteString("Raw button code: ")
		b.WriteString(m.HexInput.View())
		b.WriteString("\n")
	} else if m.LastAction != "" {
		status := fmt.Sprintf("Sent: %s", m.LastAction)
		b.WriteString(StatusStyle.Render(status))
		if m.LastFrame != nil {
			b.WriteString("  ")
			b.WriteString(FrameStyle.Render(fmt.Sprintf("[% X]", m.LastFrame)))
		}
		b.WriteString("\n")
	}

	var helpText string
	if m.HexMode {
		helpText = m.Help.View(m.HexKeys)
	} else {
		helpText = m.Help.View(m.Keys)
	}
	return RenderApplicationContainer(b.String(), helpText, m.Width, m.Height)
}
