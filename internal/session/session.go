package session

import (
	"fmt"
	"net"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/muurk/sofactl/internal/discovery"
	"github.com/muurk/sofactl/internal/logging"
	"github.com/muurk/sofactl/internal/protocol"
)

// Defaults for the per-operation deadlines. Each operation carries
// exactly one deadline and is never retried.
const (
	DefaultAcceptTimeout   = 60 * time.Second
	DefaultReadTimeout     = 10 * time.Second
	DefaultResponseTimeout = 2 * time.Second

	readBufferSize = 1024
)

// Config holds the connection identity for a session.
type Config struct {
	// HubAddr is the hub's IP address.
	HubAddr net.IP

	// ListenPort is the TCP port to listen on for the hub's dial-back
	// connection. Zero selects an ephemeral port; the CLI passes
	// protocol.DefaultListenPort.
	ListenPort int

	// HubID is the opaque 4-byte identifier carried in the discovery
	// frame. The zero value means protocol.DefaultHubID.
	HubID [4]byte

	// DeviceID is the device identifier SendButton addresses. Zero
	// means protocol.DefaultDeviceID; use SendCommand to address
	// device 0 explicitly.
	DeviceID int

	// AcceptTimeout bounds WaitForPeer. Zero means DefaultAcceptTimeout.
	AcceptTimeout time.Duration

	// ReadTimeout bounds the authentication response read. Zero means
	// DefaultReadTimeout.
	ReadTimeout time.Duration

	// ResponseTimeout bounds the optional post-command response read.
	// Zero means DefaultResponseTimeout.
	ResponseTimeout time.Duration

	// DiscoveryPort overrides the hub's UDP discovery port. Zero means
	// the protocol default; only tests set this.
	DiscoveryPort int
}

// Session owns one discovery -> connect -> authenticate -> command
// lifecycle against a single hub. Create with New, release with Stop.
type Session struct {
	cfg Config
	obs Observer

	mu       sync.Mutex
	state    State
	listener *net.TCPListener
	conn     net.Conn
}

// New creates an idle session. A nil observer means NopObserver.
func New(cfg Config, obs Observer) *Session {
	if obs == nil {
		obs = NopObserver{}
	}
	if cfg.HubID == ([4]byte{}) {
		cfg.HubID = protocol.DefaultHubID
	}
	if cfg.DeviceID == 0 {
		cfg.DeviceID = protocol.DefaultDeviceID
	}
	if cfg.AcceptTimeout <= 0 {
		cfg.AcceptTimeout = DefaultAcceptTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if cfg.ResponseTimeout <= 0 {
		cfg.ResponseTimeout = DefaultResponseTimeout
	}
	return &Session{cfg: cfg, obs: obs, state: StateIdle}
}

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Port returns the bound listening port, or 0 before StartListening.
func (s *Session) Port() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return 0
	}
	return s.listener.Addr().(*net.TCPAddr).Port
}

// transition moves to the next state and notifies the observer. The
// caller must not hold s.mu. A session that a concurrent Stop already
// closed stays Closed.
func (s *Session) transition(to State) {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	from := s.state
	s.state = to
	s.mu.Unlock()
	if from != to {
		s.obs.StateChanged(from, to)
	}
}

// fail moves to Failed and wraps the cause. Terminal for the session.
// A session that was already stopped stays Closed; the error still
// carries the cause.
func (s *Session) fail(t ErrorType, message string, err error) *Error {
	s.mu.Lock()
	from := s.state
	if from != StateClosed {
		s.state = StateFailed
	}
	s.mu.Unlock()
	if from != StateClosed {
		s.obs.StateChanged(from, StateFailed)
	}
	return newError(t, from, message, err)
}

// activeConn returns the peer socket under the lock. Stop releases the
// socket at any time, including between a state check and the socket's
// first use; losing that race is a state error, never a nil
// dereference.
func (s *Session) activeConn(op string) (net.Conn, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conn == nil {
		return nil, newError(ErrTypeState, s.state,
			fmt.Sprintf("%s aborted: session stopped", op), nil)
	}
	return s.conn, nil
}

// requireState returns a non-fatal state error unless the session is in
// one of the wanted states. Never performs network I/O.
func (s *Session) requireState(op string, wanted ...State) error {
	s.mu.Lock()
	current := s.state
	s.mu.Unlock()
	for _, w := range wanted {
		if current == w {
			return nil
		}
	}
	return newError(ErrTypeState, current,
		fmt.Sprintf("%s is not valid in state %q", op, current), nil)
}

// StartListening binds the TCP listening socket. Idle -> Listening.
// The listener must be bound before SendDiscovery, or the hub's
// dial-back can race the bind.
func (s *Session) StartListening() error {
	if err := s.requireState("StartListening", StateIdle); err != nil {
		return err
	}

	addr := &net.TCPAddr{IP: net.IPv4zero, Port: s.cfg.ListenPort}
	listener, err := net.ListenTCP("tcp4", addr)
	if err != nil {
		return s.fail(ErrTypeBind, fmt.Sprintf("cannot listen on port %d", s.cfg.ListenPort), err)
	}

	s.mu.Lock()
	s.listener = listener
	s.mu.Unlock()
	s.transition(StateListening)

	logging.Debug("Listening for hub dial-back",
		zap.String("addr", listener.Addr().String()),
	)
	return nil
}

// SendDiscovery emits the UDP announcement that tells the hub to dial
// back to the bound listening port. Valid only in Listening; the
// session stays in Listening on success.
func (s *Session) SendDiscovery() error {
	if err := s.requireState("SendDiscovery", StateListening); err != nil {
		return err
	}

	emitter := &discovery.Emitter{
		HubAddr: s.cfg.HubAddr,
		Port:    s.cfg.DiscoveryPort,
	}
	frame, err := emitter.Announce(s.cfg.HubID, uint16(s.Port()))
	if frame != nil {
		s.obs.FrameSent("discovery", frame)
	}
	if err != nil {
		return s.fail(ErrTypeDiscovery, "discovery announcement failed", err)
	}
	return nil
}

// WaitForPeer blocks until the hub dials back, accepting exactly one
// inbound connection. Listening -> Connected. A timeout of zero means
// the configured AcceptTimeout. The listener accepts only this first
// peer and is not reused.
func (s *Session) WaitForPeer(timeout time.Duration) error {
	if err := s.requireState("WaitForPeer", StateListening); err != nil {
		return err
	}
	if timeout <= 0 {
		timeout = s.cfg.AcceptTimeout
	}

	s.mu.Lock()
	listener := s.listener
	state := s.state
	s.mu.Unlock()
	if listener == nil {
		return newError(ErrTypeState, state, "WaitForPeer aborted: session stopped", nil)
	}

	if err := listener.SetDeadline(time.Now().Add(timeout)); err != nil {
		return s.fail(ErrTypeIO, "cannot arm accept deadline", err)
	}

	conn, err := listener.Accept()
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return s.fail(ErrTypeTimeout,
				fmt.Sprintf("no hub connection within %s", timeout), err)
		}
		return s.fail(ErrTypeIO, "accept failed", err)
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	s.transition(StateConnected)

	logging.Info("Hub connected",
		zap.String("remote_addr", conn.RemoteAddr().String()),
	)
	return nil
}

// Authenticate performs the fixed handshake: the client - not the hub -
// sends the auth request, then waits for a single response beginning
// with the magic header. Connected -> Authenticating -> Authenticated.
// A timeout of zero means the configured ReadTimeout. No retry.
func (s *Session) Authenticate(timeout time.Duration) error {
	if err := s.requireState("Authenticate", StateConnected); err != nil {
		return err
	}
	if timeout <= 0 {
		timeout = s.cfg.ReadTimeout
	}

	s.transition(StateAuthenticating)

	conn, err := s.activeConn("Authenticate")
	if err != nil {
		return err
	}

	request := protocol.AuthRequest()
	if err := conn.SetWriteDeadline(time.Now().Add(timeout)); err != nil {
		return s.fail(ErrTypeIO, "cannot arm write deadline", err)
	}
	if _, err := conn.Write(request); err != nil {
		return s.fail(ErrTypeAuth, "failed to send auth request", err)
	}
	s.obs.FrameSent("auth-request", request)

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return s.fail(ErrTypeIO, "cannot arm read deadline", err)
	}

	buf := make([]byte, readBufferSize)
	n, err := conn.Read(buf)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return s.fail(ErrTypeTimeout,
				fmt.Sprintf("no auth response within %s", timeout), err)
		}
		return s.fail(ErrTypeAuth, "auth response read failed", err)
	}

	response := buf[:n]
	s.obs.FrameReceived("auth-response", response)

	if !protocol.IsValidResponse(response) {
		return s.fail(ErrTypeAuth,
			fmt.Sprintf("malformed auth response (% x)", response), nil)
	}

	s.transition(StateAuthenticated)
	return nil
}

// SendCommand encodes and writes one command frame, then attempts a
// single bounded read of the optional response. Valid only in
// Authenticated, where it self-loops; from any other state it fails
// with a state error and performs no network I/O. Absence of a response
// is logged, not treated as failure - the hub's acknowledgement is
// fire-and-forget.
func (s *Session) SendCommand(device, button int) error {
	if err := s.requireState("SendCommand", StateAuthenticated); err != nil {
		return err
	}

	frame, err := protocol.EncodeCommand(device, button)
	if err != nil {
		// Caller contract violation; the session state is untouched.
		return newError(ErrTypeProtocol, StateAuthenticated, err.Error(), err)
	}

	conn, err := s.activeConn("SendCommand")
	if err != nil {
		return err
	}

	if err := conn.SetWriteDeadline(time.Now().Add(s.cfg.ReadTimeout)); err != nil {
		return s.fail(ErrTypeIO, "cannot arm write deadline", err)
	}
	if _, err := conn.Write(frame); err != nil {
		return s.fail(ErrTypeIO, "command write failed", err)
	}
	s.obs.FrameSent("command", frame)

	// Optional acknowledgement; the protocol does not require one.
	if err := conn.SetReadDeadline(time.Now().Add(s.cfg.ResponseTimeout)); err != nil {
		return s.fail(ErrTypeIO, "cannot arm read deadline", err)
	}
	buf := make([]byte, readBufferSize)
	n, err := conn.Read(buf)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			logging.Debug("No command response from hub",
				zap.Int("device", device),
				zap.Int("button", button),
			)
			return nil
		}
		return s.fail(ErrTypeIO, "command response read failed", err)
	}
	s.obs.FrameReceived("command-response", buf[:n])
	return nil
}

// SendButton sends a command for the configured default device.
func (s *Session) SendButton(button byte) error {
	return s.SendCommand(s.cfg.DeviceID, int(button))
}

// ReadRaw performs one bounded read of whatever the hub sends next,
// for the monitor mode. Valid in Connected or Authenticated. A timeout
// returns a non-fatal ErrTypeTimeout so a monitor loop can poll; a
// closed or broken connection is terminal.
func (s *Session) ReadRaw(timeout time.Duration) ([]byte, error) {
	if err := s.requireState("ReadRaw", StateConnected, StateAuthenticated); err != nil {
		return nil, err
	}
	if timeout <= 0 {
		timeout = s.cfg.ReadTimeout
	}

	s.mu.Lock()
	conn := s.conn
	state := s.state
	s.mu.Unlock()
	if conn == nil {
		return nil, newError(ErrTypeState, state, "ReadRaw aborted: session stopped", nil)
	}

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, s.fail(ErrTypeIO, "cannot arm read deadline", err)
	}

	buf := make([]byte, readBufferSize)
	n, err := conn.Read(buf)
	if err != nil {
		if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
			return nil, newError(ErrTypeTimeout, state, "no data from hub", err)
		}
		return nil, s.fail(ErrTypeIO, "hub connection lost", err)
	}

	data := buf[:n]
	s.obs.FrameReceived("raw", data)
	return data, nil
}

// Stop releases both sockets and moves to Closed. Safe to call from any
// state, from a signal handler, and more than once.
func (s *Session) Stop() {
	s.mu.Lock()
	if s.state == StateClosed {
		s.mu.Unlock()
		return
	}
	from := s.state
	s.state = StateClosed

	if s.conn != nil {
		_ = s.conn.Close()
		s.conn = nil
	}
	if s.listener != nil {
		_ = s.listener.Close()
		s.listener = nil
	}
	s.mu.Unlock()

	s.obs.StateChanged(from, StateClosed)
	logging.Debug("Session stopped", zap.String("previous_state", from.String()))
}
