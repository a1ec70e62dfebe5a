package session

import (
	"errors"
	"fmt"
)

// ErrorType represents the category of session error that occurred.
type ErrorType int

const (
	// ErrTypeBind indicates the listening port could not be bound.
	ErrTypeBind ErrorType = iota
	// ErrTypeDiscovery indicates the UDP discovery send failed.
	ErrTypeDiscovery
	// ErrTypeTimeout indicates no peer or no data within the window.
	ErrTypeTimeout
	// ErrTypeAuth indicates a malformed or absent auth response.
	ErrTypeAuth
	// ErrTypeProtocol indicates the caller supplied out-of-range
	// device or button values.
	ErrTypeProtocol
	// ErrTypeState indicates an operation was attempted from the
	// wrong session state.
	ErrTypeState
	// ErrTypeIO indicates a read or write on the peer socket failed.
	ErrTypeIO
)

// String returns a human-readable name for the error type.
func (et ErrorType) String() string {
	switch et {
	case ErrTypeBind:
		return "Bind Error"
	case ErrTypeDiscovery:
		return "Discovery Error"
	case ErrTypeTimeout:
		return "Timeout"
	case ErrTypeAuth:
		return "Auth Error"
	case ErrTypeProtocol:
		return "Protocol Error"
	case ErrTypeState:
		return "State Error"
	case ErrTypeIO:
		return "I/O Error"
	default:
		return fmt.Sprintf("ErrorType(%d)", et)
	}
}

// Error represents a failure during the hub session. Every Error except
// ErrTypeProtocol and ErrTypeState is terminal for the session.
type Error struct {
	Type    ErrorType // Category of error
	Message string    // Human-readable error message
	State   State     // Session state when the error occurred
	Err     error     // Underlying error (if any)
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the underlying error for error chain inspection
func (e *Error) Unwrap() error {
	return e.Err
}

func newError(t ErrorType, state State, message string, err error) *Error {
	return &Error{Type: t, Message: message, State: state, Err: err}
}

// IsTimeout checks if an error is a session timeout.
func IsTimeout(err error) bool {
	return hasType(err, ErrTypeTimeout)
}

// IsAuthError checks if an error is an authentication failure.
func IsAuthError(err error) bool {
	return hasType(err, ErrTypeAuth)
}

// IsStateError checks if an error is a wrong-state rejection.
func IsStateError(err error) bool {
	return hasType(err, ErrTypeState)
}

// IsProtocolError checks if an error is a caller contract violation.
func IsProtocolError(err error) bool {
	return hasType(err, ErrTypeProtocol)
}

func hasType(err error, t ErrorType) bool {
	var sessErr *Error
	if errors.As(err, &sessErr) {
		return sessErr.Type == t
	}
	return false
}

// ShortMessage returns a concise, user-friendly message for CLI output.
func ShortMessage(err error) string {
	var sessErr *Error
	if !errors.As(err, &sessErr) {
		return err.Error()
	}

	switch sessErr.Type {
	case ErrTypeBind:
		return fmt.Sprintf("Cannot bind listening port - %s", sessErr.Message)
	case ErrTypeDiscovery:
		return "Discovery packet could not be sent - check the hub IP"
	case ErrTypeTimeout:
		return "Hub did not respond in time"
	case ErrTypeAuth:
		return "Hub rejected or ignored the authentication handshake"
	case ErrTypeProtocol:
		return sessErr.Message
	case ErrTypeState:
		return sessErr.Message
	default:
		return sessErr.Message
	}
}

// TroubleshootingHint returns advice for an error, or "" when there is
// nothing useful to say.
func TroubleshootingHint(err error) string {
	var sessErr *Error
	if !errors.As(err, &sessErr) {
		return ""
	}

	switch sessErr.Type {
	case ErrTypeBind:
		return "Another process may be using the port. Try a different --port value."
	case ErrTypeDiscovery:
		return "Verify the hub IP address and that UDP port 8102 is not blocked."
	case ErrTypeTimeout:
		if sessErr.State == StateListening {
			return "The hub never dialled back. Check that the hub and this machine share a network,\n" +
				"and that the hub was power-cycled recently (it ignores discovery while busy)."
		}
		return "The hub connected but stopped responding. Restart the sequence from discovery."
	case ErrTypeAuth:
		return "The hub answered with an unrecognised frame. A firmware update may have\nchanged the handshake - capture the exchange and compare against doc.go."
	default:
		return ""
	}
}
