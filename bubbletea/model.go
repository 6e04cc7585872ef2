package bubbletea

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/serline/serline"
)

var _ tea.Model = Model{}

// Model is the Bubble Tea model for the serline TUI.
type Model struct {
	// Input is the prompt input component. Exported for test access.
	Input textinput.Model
	// Viewport is the scrollable console area. Exported for test access.
	Viewport viewport.Model

	app    App
	scroll *Scrollback
	styles Styles

	// msgCh carries messages posted from outside the program loop: sink
	// refreshes and engine events raised on the conversation goroutine.
	msgCh chan tea.Msg

	running    bool
	connecting bool
	connected  bool
	status     string
	cancel     context.CancelFunc
	err        error
	ready      bool
}

// New creates a TUI Model over the given app operations and scrollback.
func New(app App, scroll *Scrollback, theme serline.Theme) Model {
	ti := textinput.New()
	ti.Placeholder = "Type a message..."
	ti.Prompt = "> "
	ti.Focus()
	ti.CharLimit = serline.MaxPromptLen

	return Model{
		Input:  ti,
		app:    app,
		scroll: scroll,
		styles: NewStyles(theme),
		msgCh:  make(chan tea.Msg, 256),
	}
}

// Running returns whether an exchange is in flight.
func (m Model) Running() bool { return m.running }

// Connected returns whether the handshake has succeeded.
func (m Model) Connected() bool { return m.connected }

// Err returns the last error, if any.
func (m Model) Err() error { return m.err }

// Post delivers a message to the program loop. Safe from any goroutine;
// drops the message if the queue is full rather than blocking the engine.
func (m Model) Post(msg tea.Msg) {
	select {
	case m.msgCh <- msg:
	default:
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{textinput.Blink, listen(m.msgCh)}
	if m.app.Connect != nil {
		cmds = append(cmds, func() tea.Msg { return startConnectMsg{} })
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		return m.handleWindowSize(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case startConnectMsg:
		return m.startConnect()

	case ConnectDoneMsg:
		m.connecting = false
		m.cancel = nil
		m.status = ""
		m.connected = msg.Err == nil
		return m.refresh(), nil

	// RefreshMsg and EngineEventMsg arrive through msgCh, so each one
	// re-arms the listener; command results do not.
	case RefreshMsg:
		return m.refresh(), listen(m.msgCh)

	case EngineEventMsg:
		m.status = eventStatus(msg.Event)
		return m.refresh(), listen(m.msgCh)

	case AskDoneMsg:
		m.running = false
		m.cancel = nil
		m.status = ""
		// The conversation already surfaced the failure in the
		// scrollback; going offline is the only state change left.
		if errors.Is(msg.Err, serline.ErrNotConnected) {
			m.connected = false
		}
		m = m.refresh()
		return m, m.Input.Focus()
	}

	// Pass remaining messages to sub-components. The viewport always
	// receives them for scrolling (keyboard and mouse).
	var cmds []tea.Cmd
	var cmd tea.Cmd
	m.Viewport, cmd = m.Viewport.Update(msg)
	cmds = append(cmds, cmd)

	if !m.running {
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	var b strings.Builder
	b.WriteString(m.Viewport.View())
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n")
	b.WriteString(m.Input.View())
	return b.String()
}

func (m Model) handleWindowSize(msg tea.WindowSizeMsg) Model {
	inputH := 1
	statusH := 1
	borderH := 2 // newlines between sections
	vpHeight := msg.Height - inputH - statusH - borderH
	if vpHeight < 1 {
		vpHeight = 1
	}

	if !m.ready {
		m.Viewport = viewport.New(msg.Width, vpHeight)
		m.ready = true
	} else {
		m.Viewport.Width = msg.Width
		m.Viewport.Height = vpHeight
	}

	m.scroll.SetWidth(msg.Width)
	m.Input.Width = msg.Width
	return m.refresh()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		if m.cancel != nil {
			m.cancel()
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEsc:
		if m.cancel != nil {
			m.cancel()
			return m, nil
		}
		return m, tea.Quit

	case tea.KeyEnter:
		if m.running || m.connecting {
			return m, nil
		}
		text := strings.TrimSpace(m.Input.Value())
		if text == "" {
			return m, nil
		}
		if strings.HasPrefix(text, "/") {
			m.Input.SetValue("")
			return m.handleCommand(text)
		}
		return m.submitPrompt(text)
	}

	// When idle, keys go to both the input (typing) and the viewport
	// (scrolling). Only non-character keys reach the viewport so typed
	// letters never double as scroll commands.
	if !m.running {
		var cmds []tea.Cmd
		var cmd tea.Cmd
		if msg.Type != tea.KeyRunes {
			m.Viewport, cmd = m.Viewport.Update(msg)
			cmds = append(cmds, cmd)
		}
		m.Input, cmd = m.Input.Update(msg)
		cmds = append(cmds, cmd)
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m Model) submitPrompt(text string) (tea.Model, tea.Cmd) {
	m.Input.SetValue("")
	m.err = nil

	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.running = true
	m.status = ""
	m.Input.Blur()

	ask := m.app.Ask
	return m, func() tea.Msg {
		return AskDoneMsg{Err: ask(ctx, text)}
	}
}

func (m Model) handleCommand(text string) (tea.Model, tea.Cmd) {
	switch text {
	case "/clear":
		if m.app.Clear != nil {
			m.app.Clear()
		}
		m.scroll.Clear()
		m.scroll.AppendLine("History cleared.")
		return m.refresh(), nil

	case "/save":
		if m.app.Save == nil {
			m.scroll.AppendLine("[Saving is not configured]")
			return m.refresh(), nil
		}
		path, err := m.app.Save()
		if err != nil {
			m.scroll.AppendLine(fmt.Sprintf("[Save failed: %v]", err))
		} else {
			m.scroll.AppendLine("Transcript saved to " + path)
		}
		return m.refresh(), nil

	case "/connect":
		if m.app.Connect == nil {
			m.scroll.AppendLine("[No gateway configured]")
			return m.refresh(), nil
		}
		return m.startConnect()

	default:
		m.scroll.AppendLine("[Unknown command: " + text + "]")
		return m.refresh(), nil
	}
}

func (m Model) startConnect() (tea.Model, tea.Cmd) {
	if m.connecting || m.running {
		return m, nil
	}
	ctx, cancel := context.WithCancel(context.Background())
	m.cancel = cancel
	m.connecting = true

	connect := m.app.Connect
	return m, func() tea.Msg {
		return ConnectDoneMsg{Err: connect(ctx)}
	}
}

// refresh re-renders the scrollback into the viewport, honoring a pending
// scroll hint so long replies start at their first line.
func (m Model) refresh() Model {
	if !m.ready {
		return m
	}
	m.Viewport.SetContent(strings.Join(m.scroll.Lines(), "\n"))
	if hint, ok := m.scroll.TakeHint(); ok {
		m.Viewport.SetYOffset(hint)
	} else {
		m.Viewport.GotoBottom()
	}
	return m
}

func (m Model) statusLine() string {
	if m.err != nil {
		return m.styles.Error.Render(fmt.Sprintf("Error: %v", m.err))
	}
	if (m.running || m.connecting) && m.status != "" {
		return m.styles.Muted.Render(m.status)
	}
	if m.running {
		return m.styles.Muted.Render("Working...")
	}
	if m.connecting {
		return m.styles.Muted.Render("Connecting...")
	}
	if !m.connected {
		return m.styles.Error.Render("Offline") + m.styles.Muted.Render(" — /connect to retry")
	}
	return m.styles.Muted.Render("Enter to send, Esc to quit, /clear /save /connect")
}

// eventStatus maps an engine event to status line text.
func eventStatus(e serline.Event) string {
	switch e := e.(type) {
	case serline.EventHandshake:
		switch e.Stage {
		case serline.StageWake:
			return "Waking gateway..."
		case serline.StageReset:
			return "Resetting gateway..."
		case serline.StageSync:
			return "Syncing..."
		}
	case serline.EventAwaitingReply:
		return "Thinking..."
	case serline.EventHeader:
		if e.Truncated {
			return fmt.Sprintf("Receiving... 0/%d bytes (truncated)", e.Length)
		}
		return fmt.Sprintf("Receiving... 0/%d bytes", e.Length)
	case serline.EventChunk:
		return fmt.Sprintf("Receiving... %d/%d bytes", e.Received, e.Expected)
	}
	return ""
}

// listen waits for the next externally posted message.
func listen(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-ch
	}
}
