// Package bubbletea provides the Bubble Tea TUI for the serline chat
// client: a scrollback console, a prompt input, and a status line that
// tracks gateway progress.
package bubbletea

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/serline/serline"
)

// App is the set of conversation operations the TUI drives. Connect and
// Ask block until done or cancelled and are run from command goroutines.
// A nil Connect disables the handshake (offline, console-only use).
type App struct {
	Connect func(ctx context.Context) error
	Ask     func(ctx context.Context, prompt string) error
	Save    func() (string, error)
	Clear   func()
}

// Run creates and runs the Bubble Tea TUI program. It blocks until the
// program exits. When the context is cancelled, the program quits.
func Run(ctx context.Context, m Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen())
	go func() {
		<-ctx.Done()
		p.Quit()
	}()
	_, err := p.Run()
	return err
}

// RefreshMsg signals that the scrollback changed and the viewport should
// re-render.
type RefreshMsg struct{}

// EngineEventMsg wraps an engine progress event for the status line.
type EngineEventMsg struct {
	Event serline.Event
}

// AskDoneMsg signals that an exchange has completed.
type AskDoneMsg struct {
	Err error
}

// ConnectDoneMsg signals that the handshake has completed.
type ConnectDoneMsg struct {
	Err error
}

// startConnectMsg kicks off the handshake; emitted by Init and /connect.
type startConnectMsg struct{}
