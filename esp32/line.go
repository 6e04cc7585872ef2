package esp32

import (
	"context"
	"errors"
	"time"

	"github.com/serline/serline"
)

// errDeadline marks an elapsed wait deadline. Callers translate it into
// the appropriate sentinel for the phase that was waiting.
var errDeadline = errors.New("deadline elapsed")

// lineReader accumulates bytes from the channel into newline-terminated
// lines. It backs every line-based wait: the handshake sentinels and the
// response header.
type lineReader struct {
	ch    serline.Channel
	clock serline.Clock
	buf   []byte
}

func newLineReader(ch serline.Channel, clock serline.Clock) *lineReader {
	return &lineReader{
		ch:    ch,
		clock: clock,
		buf:   make([]byte, 0, maxLineLen),
	}
}

// readLine polls until a full line arrives or the absolute deadline
// elapses. The returned line excludes the terminator and any trailing
// carriage return. Bytes past maxLineLen are dropped silently: the bound
// protects the buffer, an oversized line is not an error. Accumulated
// partial input survives across calls, so a line split across deadlines
// is not lost.
func (r *lineReader) readLine(ctx context.Context, deadline time.Time) (string, error) {
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if r.clock.Now().After(deadline) {
			return "", errDeadline
		}
		if !r.ch.Available() {
			r.clock.Sleep(pollInterval)
			continue
		}
		b, err := r.ch.ReadByte()
		if err != nil {
			return "", err
		}
		if b != '\n' {
			if len(r.buf) < maxLineLen {
				r.buf = append(r.buf, b)
			}
			continue
		}
		line := r.buf
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
		out := string(line)
		r.buf = r.buf[:0]
		return out, nil
	}
}
