package tui

import (
	"errors"
	"testing"

	"github.com/muurk/sofactl/internal/session"
)

func TestConnectResultRouting(t *testing.T) {
	tests := []struct {
		name          string
		msg           connectResultMsg
		wantScreen    Screen
		wantConnected bool
	}{
		{
			name:          "successful bring-up reaches the remote",
			msg:           connectResultMsg{sess: session.New(session.Config{}, nil)},
			wantScreen:    ScreenRemote,
			wantConnected: true,
		},
		{
			name:       "failed bring-up lands on the failure screen",
			msg:        connectResultMsg{err: errors.New("no hub")},
			wantScreen: ScreenFailure,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewAppModel(session.Config{})

			updated, _ := m.Update(tt.msg)
			app, ok := updated.(AppModel)
			if !ok {
				t.Fatalf("Update() returned %T, want AppModel", updated)
			}
			if app.CurrentScreen != tt.wantScreen {
				t.Errorf("screen = %q, want %q", app.CurrentScreen, tt.wantScreen)
			}
			// The CLI uses Connected to decide whether the session
			// earned a registry entry.
			if app.Connected != tt.wantConnected {
				t.Errorf("Connected = %v, want %v", app.Connected, tt.wantConnected)
			}
		})
	}
}
