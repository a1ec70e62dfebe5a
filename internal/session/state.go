package session

import "fmt"

// State identifies where a session is in its lifecycle. The zero value
// is Idle.
type State int

const (
	// StateIdle is the initial state before any socket is opened.
	StateIdle State = iota
	// StateListening means the TCP listener is bound and waiting.
	StateListening
	// StateConnected means the hub's dial-back connection was accepted.
	StateConnected
	// StateAuthenticating means the auth request was sent and the
	// session is waiting for the hub's response.
	StateAuthenticating
	// StateAuthenticated means the handshake completed and commands
	// may be sent.
	StateAuthenticated
	// StateClosed is the terminal state after Stop.
	StateClosed
	// StateFailed is the terminal state after any unrecoverable error.
	StateFailed
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateListening:
		return "listening"
	case StateConnected:
		return "connected"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether no further transitions are possible other
// than Stop.
func (s State) Terminal() bool {
	return s == StateClosed || s == StateFailed
}
