package mock_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serline/serline"
	"github.com/serline/serline/mock"
)

func TestChannel_Delegation(t *testing.T) {
	t.Parallel()

	t.Run("delegates reads and writes", func(t *testing.T) {
		t.Parallel()
		var wrote []byte
		ch := mock.Channel{
			AvailableFn:   func() bool { return true },
			ReadByteFn:    func() (byte, error) { return 'x', nil },
			WriteByteFn:   func(b byte) error { wrote = append(wrote, b); return nil },
			WriteStringFn: func(s string) error { wrote = append(wrote, s...); return nil },
		}
		assert.True(t, ch.Available())
		b, err := ch.ReadByte()
		require.NoError(t, err)
		assert.Equal(t, byte('x'), b)
		require.NoError(t, ch.WriteByte('A'))
		require.NoError(t, ch.WriteString("OK"))
		assert.Equal(t, []byte("AOK"), wrote)
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("link down")
		ch := mock.Channel{
			WriteByteFn: func(b byte) error { return wantErr },
		}
		assert.ErrorIs(t, ch.WriteByte('A'), wantErr)
	})

	t.Run("panics when function not set", func(t *testing.T) {
		t.Parallel()
		ch := mock.Channel{}
		assert.Panics(t, func() { ch.Available() })
	})
}

func TestClock_Delegation(t *testing.T) {
	t.Parallel()
	now := time.Unix(100, 0)
	var slept time.Duration
	c := mock.Clock{
		NowFn:   func() time.Time { return now },
		SleepFn: func(d time.Duration) { slept += d },
	}
	assert.Equal(t, now, c.Now())
	c.Sleep(5 * time.Millisecond)
	assert.Equal(t, 5*time.Millisecond, slept)
}

func TestSink_Delegation(t *testing.T) {
	t.Parallel()
	var lines []string
	var hint int
	s := mock.Sink{
		AppendLineFn:    func(line string) { lines = append(lines, line) },
		AppendBlockFn:   func(prefix, text string) int { lines = append(lines, prefix+text); return len(lines) - 1 },
		SetScrollHintFn: func(line int) { hint = line },
	}
	s.AppendLine("hello")
	first := s.AppendBlock("AI: ", "world")
	s.SetScrollHint(first)
	assert.Equal(t, []string{"hello", "AI: world"}, lines)
	assert.Equal(t, 1, hint)
}

func TestGateway_Delegation(t *testing.T) {
	t.Parallel()

	t.Run("delegates to ExchangeFn", func(t *testing.T) {
		t.Parallel()
		g := mock.Gateway{
			ConnectFn: func(ctx context.Context) error { return nil },
			ExchangeFn: func(ctx context.Context, turns []serline.Turn, prompt string) (serline.Reply, error) {
				return serline.Reply{Text: "hi " + prompt}, nil
			},
		}
		require.NoError(t, g.Connect(context.Background()))
		reply, err := g.Exchange(context.Background(), nil, "there")
		require.NoError(t, err)
		assert.Equal(t, "hi there", reply.Text)
	})

	t.Run("returns error", func(t *testing.T) {
		t.Parallel()
		g := mock.Gateway{
			ConnectFn: func(ctx context.Context) error { return serline.ErrHandshakeTimeout },
		}
		assert.ErrorIs(t, g.Connect(context.Background()), serline.ErrHandshakeTimeout)
	})
}
