package esp32

import (
	"context"
	"fmt"
	"strings"

	"github.com/serline/serline"
)

// send wakes the gateway and transmits one encoded request line. No
// response is expected synchronously; receive handles the reply.
func (c *Client) send(ctx context.Context, turns []serline.Turn, prompt string) error {
	// The gateway may have re-entered light sleep between turns. Rouse it
	// and discard whatever the wakeup puts on the line.
	if err := c.ch.WriteString(requestWake); err != nil {
		return fmt.Errorf("esp32: send: wake: %w", err)
	}
	if err := c.drain(ctx, requestDrain); err != nil {
		return fmt.Errorf("esp32: send: %w", err)
	}

	line := encodeRequest(turns, prompt)
	c.log.Debug("sending request", "bytes", len(line), "turns", len(turns))
	if err := c.ch.WriteString(line); err != nil {
		return fmt.Errorf("esp32: send: %w", err)
	}
	return nil
}

// encodeRequest builds the single-line request payload: the conversation
// turns in store order followed by the new prompt, every string escaped.
// It is a pure function of its inputs; identical inputs yield identical
// bytes.
func encodeRequest(turns []serline.Turn, prompt string) string {
	var b strings.Builder
	b.WriteString(`{"history":[`)
	for i, t := range turns {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(`{"role":"`)
		b.WriteString(string(t.Role))
		b.WriteString(`","parts":[{"text":"`)
		b.WriteString(escapeText(t.Content))
		b.WriteString(`"}]}`)
	}
	b.WriteString(`],"current_prompt":"`)
	b.WriteString(escapeText(prompt))
	b.WriteString("\"}\n")
	return b.String()
}

// escapeText applies the fixed substitution table: quote, backslash,
// newline, carriage return and tab become two-character escapes. Every
// other byte outside printable ASCII is dropped rather than escaped — the
// link and the target format are ASCII-oriented, and an unmappable byte is
// safer gone than mangled.
func escapeText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch ch := s[i]; ch {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if ch >= 0x20 && ch < 0x7f {
				b.WriteByte(ch)
			}
		}
	}
	return b.String()
}
