package esp32

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/serline/serline"
)

// chunkResult signals how one chunk read ended. It replaces non-local
// control transfer out of the nested receive loops: the outer phase
// consumes the result and decides what follows.
type chunkResult int

const (
	chunkComplete chunkResult = iota
	chunkEarlyTerminator
	chunkCancelled
	chunkTimedOut
)

// receiveSession is the state threaded through one chunked receive. It
// lives for exactly one call. Invariant: received ≤ expected ≤ limit−1.
type receiveSession struct {
	expected int
	received int
	idle     time.Time // inactivity deadline, reset on every byte
	buf      []byte
}

// receive runs the four response phases: header, header ack, chunked body,
// trailing terminator.
func (c *Client) receive(ctx context.Context) (serline.Reply, error) {
	// Phase A: header. This is the long "model is answering" wait.
	length, err := c.awaitHeader(ctx)
	if err != nil {
		return serline.Reply{}, err
	}
	if length == 0 {
		// Valid empty reply. No ack, no chunk phase.
		c.emit(serline.EventHeader{})
		return serline.Reply{}, nil
	}

	// One slot stays reserved for the terminator; a longer declaration is
	// stored truncated. The sender still streams the full declared length
	// and drains it on its own schedule — the trailing wait and the next
	// session's drain tolerate the late remainder.
	truncated := false
	if length >= c.limit {
		length = c.limit - 1
		truncated = true
	}
	c.emit(serline.EventHeader{Length: length, Truncated: truncated})
	c.log.Debug("response header", "length", length, "truncated", truncated)

	// Phase B: acknowledge the header so the sender starts streaming.
	if err := c.ch.WriteByte(ackByte); err != nil {
		return serline.Reply{}, fmt.Errorf("esp32: receive: ack: %w", err)
	}

	// Phase C: acknowledgement-gated chunked body.
	sess := receiveSession{
		expected: length,
		idle:     c.clock.Now().Add(chunkIdleWait),
		buf:      make([]byte, 0, length),
	}

body:
	for sess.received < sess.expected {
		target := min(chunkSize, sess.expected-sess.received)
		res, err := c.readChunk(ctx, &sess, target)
		if err != nil {
			return serline.Reply{}, fmt.Errorf("esp32: receive: %w", err)
		}
		switch res {
		case chunkCancelled:
			return serline.Reply{Text: string(sess.buf), Truncated: truncated},
				fmt.Errorf("esp32: receive: %w", ctx.Err())
		case chunkTimedOut:
			return serline.Reply{Text: string(sess.buf), Truncated: truncated},
				fmt.Errorf("esp32: receive: %w", serline.ErrResponseTimeout)
		case chunkEarlyTerminator:
			// End of stream before the declared length: keep what we
			// have. No ack for a partial chunk.
			break body
		case chunkComplete:
			if err := c.ch.WriteByte(ackByte); err != nil {
				return serline.Reply{}, fmt.Errorf("esp32: receive: ack: %w", err)
			}
			c.emit(serline.EventChunk{Received: sess.received, Expected: sess.expected})
		}
	}

	// Phase D: the sender may still emit a final terminator after the last
	// acknowledged chunk. Wait briefly; absence is not a failure.
	c.awaitTrailer(ctx)

	c.log.Debug("response received", "bytes", sess.received)
	return serline.Reply{Text: string(sess.buf), Truncated: truncated}, nil
}

// awaitHeader loops over lines until a well-formed LEN or ERR header
// arrives. Chatter and malformed headers are discarded; the deadline spans
// the whole wait.
func (c *Client) awaitHeader(ctx context.Context) (int, error) {
	lr := newLineReader(c.ch, c.clock)
	deadline := c.clock.Now().Add(headerWait)
	for {
		line, err := lr.readLine(ctx, deadline)
		if err != nil {
			if errors.Is(err, errDeadline) {
				return 0, fmt.Errorf("esp32: header: %w", serline.ErrResponseTimeout)
			}
			return 0, fmt.Errorf("esp32: header: %w", err)
		}
		if msg, ok := strings.CutPrefix(line, headerErr); ok {
			return 0, fmt.Errorf("esp32: %w", &serline.GatewayError{Message: msg})
		}
		if digits, ok := strings.CutPrefix(line, headerLen); ok {
			n, convErr := strconv.Atoi(digits)
			if convErr != nil || n < 0 {
				c.log.Debug("discarding malformed header", "line", line)
				continue
			}
			return n, nil
		}
		c.log.Debug("discarding line", "line", line)
	}
}

// readChunk reads up to target bytes into the session buffer. Every
// received byte pushes the inactivity deadline out; only total silence
// times the chunk out.
func (c *Client) readChunk(ctx context.Context, sess *receiveSession, target int) (chunkResult, error) {
	got := 0
	for got < target {
		if ctx.Err() != nil {
			return chunkCancelled, nil
		}
		if c.ch.Available() {
			b, err := c.ch.ReadByte()
			if err != nil {
				return 0, err
			}
			if b == terminatorByte {
				return chunkEarlyTerminator, nil
			}
			sess.buf = append(sess.buf, b)
			sess.received++
			got++
			sess.idle = c.clock.Now().Add(chunkIdleWait)
			continue
		}
		if c.clock.Now().After(sess.idle) {
			return chunkTimedOut, nil
		}
		c.clock.Sleep(pollInterval)
	}
	return chunkComplete, nil
}

// awaitTrailer waits best-effort for the final terminator byte.
func (c *Client) awaitTrailer(ctx context.Context) {
	deadline := c.clock.Now().Add(trailerWait)
	for !c.clock.Now().After(deadline) {
		if ctx.Err() != nil {
			return
		}
		if c.ch.Available() {
			b, err := c.ch.ReadByte()
			if err != nil || b == terminatorByte {
				return
			}
			continue
		}
		c.clock.Sleep(pollInterval)
	}
}
