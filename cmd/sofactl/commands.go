package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/muurk/sofactl/internal/config"
	"github.com/muurk/sofactl/internal/protocol"
	"github.com/muurk/sofactl/internal/session"
	"github.com/muurk/sofactl/internal/tui"
)

// Command flags
var (
	hubFlag      string
	portFlag     int
	hubIDFlag    string
	deviceFlag   int
	timeoutFlag  int
	repeatFlag   int
	gapFlag      time.Duration
	durationFlag time.Duration
)

func init() {
	// Common flags for session commands (persistent on root)
	rootCmd.PersistentFlags().StringVar(&hubFlag, "hub", "", "Hub IP address or configured nickname (required)")
	rootCmd.PersistentFlags().IntVar(&portFlag, "port", protocol.DefaultListenPort, "TCP port to listen on for the hub's dial-back")
	rootCmd.PersistentFlags().StringVar(&hubIDFlag, "hub-id", "", "Hub identifier as 8 hex digits (default from config or protocol)")
	rootCmd.PersistentFlags().IntVar(&deviceFlag, "device", 0, "Device identifier for button commands")
	rootCmd.PersistentFlags().IntVar(&timeoutFlag, "timeout", 0, "Seconds to wait for the hub's dial-back")

	// Add subcommands directly to root
	rootCmd.AddCommand(sendCmd)
	rootCmd.AddCommand(listenCmd)
	rootCmd.AddCommand(buttonsCmd)
	rootCmd.AddCommand(interactiveCmd)
}

// sendCmd sends one or more button presses over a single session
var sendCmd = &cobra.Command{
	Use:   "send <button> [button...]",
	Short: "Send button presses to the hub",
	Long: `Send one or more button presses to a SofaBaton hub.

This command announces itself over UDP, waits for the hub to dial back
over TCP, authenticates, and then sends a command frame for each button
in order. Buttons are catalog names (see 'sofactl buttons') or literal
hex byte values like 0xb6.`,
	Example: `  # Send volume-up to the hub at 192.168.40.65
  sofactl send volume-up --hub 192.168.40.65

  # Send to a configured nickname, repeating twice
  sofactl send volume-down --hub living-room --repeat 2

  # Send an unmapped button code
  sofactl send 0xb7 --hub living-room`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func init() {
	sendCmd.Flags().IntVar(&repeatFlag, "repeat", 1, "Times to send each button")
	sendCmd.Flags().DurationVar(&gapFlag, "gap", 500*time.Millisecond, "Delay between repeated presses")
}

func runSend(cmd *cobra.Command, args []string) error {
	// Resolve all buttons up front so a typo fails before any I/O
	codes := make([]byte, 0, len(args))
	for _, name := range args {
		code, err := protocol.LookupButton(name)
		if err != nil {
			return err
		}
		codes = append(codes, code)
	}
	if repeatFlag < 1 {
		return fmt.Errorf("--repeat must be at least 1, got %d", repeatFlag)
	}

	cfg, registry, nickname, err := buildSessionConfig()
	if err != nil {
		return err
	}

	sess, release := newSession(cfg, logFrames(registry))
	defer release()

	if err := bringUp(sess, cfg); err != nil {
		return sessionFailure(sess, err)
	}

	for _, code := range codes {
		label := protocol.ButtonName(code)
		if label == "" {
			label = fmt.Sprintf("0x%02X", code)
		}
		for i := 0; i < repeatFlag; i++ {
			if i > 0 {
				time.Sleep(gapFlag)
			}
			if err := sess.SendButton(code); err != nil {
				return sessionFailure(sess, err)
			}
			fmt.Printf("✓ Sent %s\n", label)
		}
	}

	recordSuccess(registry, nickname, cfg)
	return nil
}

// listenCmd holds the session open and prints whatever the hub sends
var listenCmd = &cobra.Command{
	Use:   "listen",
	Short: "Monitor traffic from the hub",
	Long: `Bring up a session and print every frame the hub sends.

Useful for capturing undocumented hub behavior: press buttons on the
physical remote or in the SofaBaton app and watch what arrives. Runs
until the duration elapses or Ctrl-C.`,
	Example: `  # Monitor indefinitely
  sofactl listen --hub living-room

  # Monitor for two minutes
  sofactl listen --hub 192.168.40.65 --duration 2m`,
	RunE: runListen,
}

func init() {
	listenCmd.Flags().DurationVar(&durationFlag, "duration", 0, "How long to monitor (0 = until interrupted)")
}

func runListen(cmd *cobra.Command, args []string) error {
	cfg, registry, nickname, err := buildSessionConfig()
	if err != nil {
		return err
	}

	sess, release := newSession(cfg, logFrames(registry))
	defer release()

	if err := bringUp(sess, cfg); err != nil {
		return sessionFailure(sess, err)
	}

	fmt.Println("Monitoring hub traffic (Ctrl-C to stop)...")

	var deadline time.Time
	if durationFlag > 0 {
		deadline = time.Now().Add(durationFlag)
	}

	for {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}

		data, err := sess.ReadRaw(2 * time.Second)
		if err != nil {
			if session.IsTimeout(err) {
				continue // nothing arrived in this poll window
			}
			if sess.State() == session.StateClosed {
				break // stopped by the signal handler
			}
			return reportSessionError(err)
		}
		fmt.Printf("%s  ← % X\n", time.Now().Format("15:04:05.000"), data)
	}

	recordSuccess(registry, nickname, cfg)
	return nil
}

// buttonsCmd lists the button catalog
var buttonsCmd = &cobra.Command{
	Use:   "buttons",
	Short: "List the button catalog",
	Long: `List the named buttons sofactl can send.

Only volume-up and volume-down are confirmed against a live hub; the
remaining codes are carried from the official app and may not match
your firmware. Unlisted codes can be sent as literal hex bytes.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Available buttons:")
		fmt.Println()
		for _, name := range protocol.ButtonNames() {
			code, _ := protocol.ButtonCode(name)
			fmt.Printf("  %-12s 0x%02X\n", name, code)
		}
		fmt.Println()
		fmt.Println("Unlisted codes can be sent directly: sofactl send 0xb7 --hub <hub>")
	},
}

// interactiveCmd launches the TUI remote
var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch the interactive remote",
	Long: `Launch an interactive TUI remote control.

The remote shows the button catalog in a scrollable list, sends the
selected button on Enter, and accepts raw hex codes for buttons that
are not in the catalog.

This is the default when sofactl runs with no arguments.`,
	Example: `  # Launch the remote
  sofactl interactive --hub living-room
  # Or simply (interactive is default):
  sofactl --hub living-room`,
	RunE: runInteractive,
}

func runInteractive(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("interactive mode requires a terminal; use 'sofactl send' for scripting")
	}

	cfg, registry, nickname, err := buildSessionConfig()
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewAppModel(cfg), tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("interactive remote error: %w", err)
	}

	// Only a session that actually connected earns a registry entry.
	if app, ok := final.(tui.AppModel); ok && app.Connected {
		recordSuccess(registry, nickname, cfg)
	}
	return nil
}

// buildSessionConfig resolves the --hub flag against the config
// registry and merges per-hub settings with the command-line flags.
// Flags win over registry values, which win over protocol defaults.
func buildSessionConfig() (session.Config, *config.Registry, string, error) {
	if hubFlag == "" {
		return session.Config{}, nil, "", fmt.Errorf("--hub is required (an IP address or a configured nickname)")
	}

	registry, err := config.LoadRegistry()
	if err != nil {
		return session.Config{}, nil, "", err
	}

	ip, entry, err := registry.ResolveHub(hubFlag)
	if err != nil {
		return session.Config{}, nil, "", err
	}

	cfg := session.Config{
		HubAddr:    ip,
		ListenPort: portFlag,
		DeviceID:   deviceFlag,
	}

	// The nickname only matters when the flag matched a registry entry
	nickname := ""
	if entry != nil {
		nickname = hubFlag
	}

	if entry != nil {
		if entry.ListenPort != 0 && cfg.ListenPort == protocol.DefaultListenPort {
			cfg.ListenPort = entry.ListenPort
		}
		if entry.DeviceID != 0 && cfg.DeviceID == 0 {
			cfg.DeviceID = entry.DeviceID
		}
		if hubIDFlag == "" {
			id, ok, err := entry.HubIDBytes()
			if err != nil {
				return session.Config{}, nil, "", err
			}
			if ok {
				cfg.HubID = id
			}
		}
	}

	if hubIDFlag != "" {
		hub := config.Hub{HubID: hubIDFlag}
		id, ok, err := hub.HubIDBytes()
		if err != nil {
			return session.Config{}, nil, "", err
		}
		if ok {
			cfg.HubID = id
		}
	}

	if timeoutFlag > 0 {
		cfg.AcceptTimeout = time.Duration(timeoutFlag) * time.Second
	} else if registry.Preferences != nil && registry.Preferences.AcceptTimeout > 0 {
		cfg.AcceptTimeout = time.Duration(registry.Preferences.AcceptTimeout) * time.Second
	}

	return cfg, registry, nickname, nil
}

// frameObserver echoes every frame to stdout, for users who set
// log_frames in the config file.
type frameObserver struct{}

func (frameObserver) StateChanged(from, to session.State) {}

func (frameObserver) FrameSent(label string, frame []byte) {
	fmt.Printf("→ %-13s % X\n", label, frame)
}

func (frameObserver) FrameReceived(label string, frame []byte) {
	fmt.Printf("← %-13s % X\n", label, frame)
}

// newSession creates the session and installs a signal handler that
// releases its sockets on Ctrl-C. The stop unblocks whatever call is
// in flight, which then errors, and the command unwinds through
// sessionFailure. The returned release func undoes the handler and
// the session and is safe to call after a handler-driven stop.
func newSession(cfg session.Config, logFrames bool) (*session.Session, func()) {
	var obs session.Observer = session.LogObserver{}
	if logFrames {
		obs = session.MultiObserver{session.LogObserver{}, frameObserver{}}
	}
	sess := session.New(cfg, obs)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		if _, ok := <-sigCh; ok {
			fmt.Fprintln(os.Stderr, "\nInterrupted, closing session")
			sess.Stop()
		}
	}()

	return sess, func() {
		signal.Stop(sigCh)
		close(sigCh)
		sess.Stop()
	}
}

// sessionFailure reports a failed session operation, distinguishing a
// Ctrl-C driven stop from a real protocol failure.
func sessionFailure(sess *session.Session, err error) error {
	if sess.State() == session.StateClosed {
		return fmt.Errorf("interrupted")
	}
	return reportSessionError(err)
}

// bringUp runs the full session sequence with progress output.
func bringUp(sess *session.Session, cfg session.Config) error {
	if err := sess.StartListening(); err != nil {
		return err
	}
	fmt.Printf("Listening on port %d\n", sess.Port())

	if err := sess.SendDiscovery(); err != nil {
		return err
	}
	fmt.Printf("Sent discovery announcement to %s, waiting for dial-back...\n", cfg.HubAddr)

	if err := sess.WaitForPeer(0); err != nil {
		return err
	}
	if err := sess.Authenticate(0); err != nil {
		return err
	}
	fmt.Println("✓ Hub connected and authenticated")

	return nil
}

// reportSessionError turns a session error into CLI output with a
// troubleshooting hint when one exists.
func reportSessionError(err error) error {
	if hint := session.TroubleshootingHint(err); hint != "" {
		fmt.Fprintf(os.Stderr, "\nTroubleshooting:\n%s\n\n", hint)
	}
	return fmt.Errorf("%s", session.ShortMessage(err))
}

func logFrames(registry *config.Registry) bool {
	return registry != nil && registry.Preferences != nil && registry.Preferences.LogFrames
}

// recordSuccess updates the registry after a successful session when
// the hub was addressed by nickname. Failure to save is not fatal.
func recordSuccess(registry *config.Registry, nickname string, cfg session.Config) {
	if registry == nil || nickname == "" {
		return
	}
	registry.RecordSession(nickname, cfg.HubAddr.String())
	if err := registry.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not save config: %v\n", err)
	}
}
