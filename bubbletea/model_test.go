package bubbletea_test

import (
	"context"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serline/serline"
	bt "github.com/serline/serline/bubbletea"
)

func TestNew(t *testing.T) {
	t.Parallel()

	m := bt.New(bt.App{}, bt.NewScrollback(80), serline.DefaultTheme())

	assert.False(t, m.Running())
	assert.False(t, m.Connected())
	assert.NoError(t, m.Err())
}

func TestModel_WindowSize(t *testing.T) {
	t.Parallel()

	t.Run("initializes viewport", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, bt.App{}, bt.NewScrollback(80))
		assert.NotEmpty(t, m.View())
		assert.Equal(t, 80, m.Viewport.Width)
		// 24 - input(1) - status(1) - separators(2)
		assert.Equal(t, 20, m.Viewport.Height)
	})

	t.Run("resize updates dimensions", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, bt.App{}, bt.NewScrollback(80))
		m = updateModel(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
		assert.Equal(t, 120, m.Viewport.Width)
		assert.Equal(t, 36, m.Viewport.Height)
	})
}

func TestModel_Submit(t *testing.T) {
	t.Parallel()

	t.Run("enter dispatches the prompt", func(t *testing.T) {
		t.Parallel()
		var got string
		app := bt.App{
			Ask: func(_ context.Context, prompt string) error {
				got = prompt
				return nil
			},
		}
		m := initModel(t, app, bt.NewScrollback(80))
		m.Input.SetValue("hello there")

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = updated.(bt.Model)
		require.True(t, m.Running())
		require.NotNil(t, cmd)

		msg := cmd()
		done, ok := msg.(bt.AskDoneMsg)
		require.True(t, ok)
		assert.NoError(t, done.Err)
		assert.Equal(t, "hello there", got)

		m = updateModel(t, m, done)
		assert.False(t, m.Running())
	})

	t.Run("enter with empty input does nothing", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, bt.App{}, bt.NewScrollback(80))
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		assert.False(t, m.Running())
	})

	t.Run("enter while running is ignored", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, bt.App{}, bt.NewScrollback(80))
		m = bt.SetRunningWithCancel(m, func() {})
		m.Input.SetValue("queued")
		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})
		assert.Equal(t, "queued", m.Input.Value())
	})

	t.Run("not connected failure flips offline", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, bt.App{}, bt.NewScrollback(80))
		m = updateModel(t, m, bt.ConnectDoneMsg{})
		require.True(t, m.Connected())

		m = updateModel(t, m, bt.AskDoneMsg{Err: serline.ErrNotConnected})
		assert.False(t, m.Connected())
	})
}

func TestModel_Cancel(t *testing.T) {
	t.Parallel()

	t.Run("esc while running cancels", func(t *testing.T) {
		t.Parallel()
		cancelled := false
		m := initModel(t, bt.App{}, bt.NewScrollback(80))
		m = bt.SetRunningWithCancel(m, func() { cancelled = true })

		m = updateModel(t, m, tea.KeyMsg{Type: tea.KeyEsc})

		assert.True(t, cancelled)
		assert.True(t, m.Running())
	})

	t.Run("esc when idle quits", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, bt.App{}, bt.NewScrollback(80))
		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
		require.NotNil(t, cmd)
		_, isQuit := cmd().(tea.QuitMsg)
		assert.True(t, isQuit)
	})

	t.Run("ctrl+c while running cancels instead of quitting", func(t *testing.T) {
		t.Parallel()
		cancelled := false
		m := initModel(t, bt.App{}, bt.NewScrollback(80))
		m = bt.SetRunningWithCancel(m, func() { cancelled = true })

		_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

		assert.True(t, cancelled)
		assert.Nil(t, cmd)
	})
}

func TestModel_Commands(t *testing.T) {
	t.Parallel()

	t.Run("clear empties scrollback and history", func(t *testing.T) {
		t.Parallel()
		cleared := false
		scroll := bt.NewScrollback(80)
		scroll.AppendLine("old line")
		m := initModel(t, bt.App{Clear: func() { cleared = true }}, scroll)
		m.Input.SetValue("/clear")

		updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		assert.True(t, cleared)
		assert.Equal(t, []string{"History cleared."}, scroll.Lines())
	})

	t.Run("save reports the path", func(t *testing.T) {
		t.Parallel()
		scroll := bt.NewScrollback(80)
		app := bt.App{Save: func() (string, error) { return "/tmp/x.json", nil }}
		m := initModel(t, app, scroll)
		m.Input.SetValue("/save")

		updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		require.NotEmpty(t, scroll.Lines())
		assert.Contains(t, scroll.Lines()[0], "/tmp/x.json")
	})

	t.Run("connect runs the handshake", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, bt.App{Connect: func(context.Context) error { return nil }}, bt.NewScrollback(80))
		m.Input.SetValue("/connect")

		updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		m = updated.(bt.Model)
		require.NotNil(t, cmd)

		done, ok := cmd().(bt.ConnectDoneMsg)
		require.True(t, ok)
		m = updateModel(t, m, done)
		assert.True(t, m.Connected())
	})

	t.Run("unknown command is reported", func(t *testing.T) {
		t.Parallel()
		scroll := bt.NewScrollback(80)
		m := initModel(t, bt.App{}, scroll)
		m.Input.SetValue("/bogus")

		updateModel(t, m, tea.KeyMsg{Type: tea.KeyEnter})

		require.NotEmpty(t, scroll.Lines())
		assert.Contains(t, scroll.Lines()[0], "/bogus")
	})
}

func TestModel_Status(t *testing.T) {
	t.Parallel()

	t.Run("engine events drive the status line", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, bt.App{}, bt.NewScrollback(80))
		m = bt.SetRunningWithCancel(m, func() {})

		m = updateModel(t, m, bt.EngineEventMsg{Event: serline.EventAwaitingReply{}})
		assert.Contains(t, m.View(), "Thinking...")

		m = updateModel(t, m, bt.EngineEventMsg{Event: serline.EventChunk{Received: 64, Expected: 200}})
		assert.Contains(t, m.View(), "64/200")
	})

	t.Run("offline shows reconnect hint", func(t *testing.T) {
		t.Parallel()
		m := initModel(t, bt.App{}, bt.NewScrollback(80))
		assert.Contains(t, m.View(), "/connect")
	})
}

func TestModel_Refresh(t *testing.T) {
	t.Parallel()

	t.Run("honors the scroll hint", func(t *testing.T) {
		t.Parallel()
		scroll := bt.NewScrollback(80)
		for range 10 {
			scroll.AppendLine("filler")
		}
		first := scroll.AppendBlock("AI: ", "the reply")
		for range 50 {
			scroll.AppendLine("more filler")
		}
		m := initModel(t, bt.App{}, scroll)
		scroll.SetScrollHint(first)

		m = updateModel(t, m, bt.RefreshMsg{})

		assert.Equal(t, first, m.Viewport.YOffset)
	})

	t.Run("scrolls to bottom without a hint", func(t *testing.T) {
		t.Parallel()
		scroll := bt.NewScrollback(80)
		for range 50 {
			scroll.AppendLine("filler")
		}
		m := initModel(t, bt.App{}, scroll)
		m = updateModel(t, m, bt.RefreshMsg{})
		assert.True(t, m.Viewport.AtBottom())
	})
}

func TestModel_ViewContainsScrollback(t *testing.T) {
	t.Parallel()

	scroll := bt.NewScrollback(80)
	scroll.AppendLine("a console line")
	m := initModel(t, bt.App{}, scroll)

	view := m.View()
	found := false
	for _, line := range strings.Split(view, "\n") {
		if strings.Contains(line, "a console line") {
			found = true
		}
	}
	assert.True(t, found)
}
