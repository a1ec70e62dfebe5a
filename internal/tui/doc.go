// Package tui implements the interactive remote control interface.
//
// This package provides a Bubble Tea application with three screens:
//
//   - Connect: shows a spinner while the session is brought up
//     (listen, discovery announcement, hub dial-back, authentication)
//   - Remote: a scrollable list of catalog buttons plus a raw hex
//     entry mode for unmapped button codes
//   - Failure: shows what went wrong with troubleshooting hints
//
// # Architecture
//
// The application follows the coordinator pattern: AppModel owns the
// current screen and routes messages to the active screen model. The
// session bring-up runs inside a tea.Cmd so the UI stays responsive
// while waiting for the hub to dial back, which can take tens of
// seconds.
//
// Because the hub session is stateful and terminal on failure, the
// remote screen never retries a failed send. A failed send transitions
// to the failure screen, from which the user can start a fresh session.
//
// # Usage Example
//
//	model := tui.NewAppModel(sessionConfig)
//	p := tea.NewProgram(model)
//	if _, err := p.Run(); err != nil {
//	    log.Fatal(err)
//	}
package tui
