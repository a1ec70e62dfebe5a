package session

import (
	"github.com/muurk/sofactl/internal/logging"
)

// Observer receives protocol events from a session. The core never
// prints; the UI layer decides what to surface. Implementations must
// not block for long - events are delivered synchronously from the
// session's single thread of control.
type Observer interface {
	// StateChanged is called after every state transition.
	StateChanged(from, to State)

	// FrameSent is called with the raw bytes of every outbound frame.
	FrameSent(label string, frame []byte)

	// FrameReceived is called with the raw bytes of every inbound read.
	FrameReceived(label string, frame []byte)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) StateChanged(from, to State)              {}
func (NopObserver) FrameSent(label string, frame []byte)     {}
func (NopObserver) FrameReceived(label string, frame []byte) {}

// LogObserver forwards events to the structured logger.
type LogObserver struct{}

func (LogObserver) StateChanged(from, to State) {
	logging.LogStateChange(from.String(), to.String())
}

func (LogObserver) FrameSent(label string, frame []byte) {
	logging.LogFrame("sent", label, frame)
}

func (LogObserver) FrameReceived(label string, frame []byte) {
	logging.LogFrame("received", label, frame)
}

// MultiObserver fans events out to several observers in order.
type MultiObserver []Observer

func (m MultiObserver) StateChanged(from, to State) {
	for _, o := range m {
		o.StateChanged(from, to)
	}
}

func (m MultiObserver) FrameSent(label string, frame []byte) {
	for _, o := range m {
		o.FrameSent(label, frame)
	}
}

func (m MultiObserver) FrameReceived(label string, frame []byte) {
	for _, o := range m {
		o.FrameReceived(label, frame)
	}
}

var _ Observer = NopObserver{}
var _ Observer = LogObserver{}
var _ Observer = MultiObserver{}
