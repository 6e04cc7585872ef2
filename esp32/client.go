package esp32

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/serline/serline"
)

// Interface compliance check.
var _ serline.Gateway = (*Client)(nil)

// Client drives the gateway protocol over a [serline.Channel]. It holds
// configuration only; all per-call state lives on the stack of Connect and
// Exchange, so a failed call leaves nothing behind. The client is
// synchronous and expects a single caller.
type Client struct {
	ch      serline.Channel
	clock   serline.Clock
	log     *log.Logger
	limit   int
	onEvent func(serline.Event)
}

// Option configures a [Client].
type Option func(*Client)

// WithClock sets the time source. Useful for testing with a manual clock.
func WithClock(clock serline.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// WithLogger sets the debug logger. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) { c.log = logger }
}

// WithResponseLimit bounds stored response bytes. Values below two are
// ignored: the protocol reserves one slot for the terminator.
func WithResponseLimit(limit int) Option {
	return func(c *Client) {
		if limit >= 2 {
			c.limit = limit
		}
	}
}

// WithEventHandler sets a callback receiving progress events during
// Connect and Exchange. If nil, events are discarded.
func WithEventHandler(h func(serline.Event)) Option {
	return func(c *Client) { c.onEvent = h }
}

// New creates a Client over the given channel.
func New(ch serline.Channel, opts ...Option) *Client {
	c := &Client{
		ch:    ch,
		clock: serline.SystemClock(),
		log:   log.New(io.Discard),
		limit: DefaultResponseLimit,
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

func (c *Client) emit(e serline.Event) {
	if c.onEvent != nil {
		c.onEvent(e)
	}
}

// Connect performs the wake/reset/sync handshake. The sequence is strictly
// ordered and terminal on first failure. A cancelled context aborts at the
// next poll; an elapsed stage deadline (other than the wake wait, which
// falls through) reports [serline.ErrHandshakeTimeout].
func (c *Client) Connect(ctx context.Context) error {
	c.emit(serline.EventHandshake{Stage: serline.StageWake})
	c.log.Debug("handshake: drain and wake")

	if err := c.drain(ctx, drainWindow); err != nil {
		return fmt.Errorf("esp32: handshake: %w", err)
	}
	if err := c.ch.WriteString(wakeBurst); err != nil {
		return fmt.Errorf("esp32: handshake: wake: %w", err)
	}

	// The gateway answers AWAKE from light sleep or ESP_READY if it was
	// already up. Silence just means it never slept; proceed either way.
	if _, err := c.awaitLine(ctx, wakeWait, sentinelAwake, sentinelEspReady); err != nil && !errors.Is(err, errDeadline) {
		return fmt.Errorf("esp32: handshake: %w", err)
	}

	c.emit(serline.EventHandshake{Stage: serline.StageReset})
	c.log.Debug("handshake: reset")
	if err := c.ch.WriteString(cmdReset); err != nil {
		return fmt.Errorf("esp32: handshake: reset: %w", err)
	}
	if _, err := c.awaitLine(ctx, readyWait, sentinelEspReady); err != nil {
		if errors.Is(err, errDeadline) {
			return fmt.Errorf("esp32: handshake: await ready: %w", serline.ErrHandshakeTimeout)
		}
		return fmt.Errorf("esp32: handshake: %w", err)
	}

	if err := c.drain(ctx, syncDrain); err != nil {
		return fmt.Errorf("esp32: handshake: %w", err)
	}
	c.emit(serline.EventHandshake{Stage: serline.StageSync})
	c.log.Debug("handshake: sync")
	if err := c.ch.WriteString(cmdSync); err != nil {
		return fmt.Errorf("esp32: handshake: sync: %w", err)
	}
	if _, err := c.awaitLine(ctx, ackWait, sentinelReady); err != nil {
		if errors.Is(err, errDeadline) {
			return fmt.Errorf("esp32: handshake: await sync ack: %w", serline.ErrHandshakeTimeout)
		}
		return fmt.Errorf("esp32: handshake: %w", err)
	}

	c.log.Debug("handshake: connected")
	return nil
}

// Exchange transmits one request and receives the chunked response.
func (c *Client) Exchange(ctx context.Context, turns []serline.Turn, prompt string) (serline.Reply, error) {
	if err := c.send(ctx, turns, prompt); err != nil {
		return serline.Reply{}, err
	}
	c.emit(serline.EventAwaitingReply{})
	return c.receive(ctx)
}

// awaitLine reads lines until one matches an accepted sentinel, discarding
// everything else. The deadline is relative to now and spans all discarded
// lines, not each one.
func (c *Client) awaitLine(ctx context.Context, wait time.Duration, accept ...string) (string, error) {
	lr := newLineReader(c.ch, c.clock)
	deadline := c.clock.Now().Add(wait)
	for {
		line, err := lr.readLine(ctx, deadline)
		if err != nil {
			return "", err
		}
		for _, want := range accept {
			if line == want {
				return line, nil
			}
		}
		c.log.Debug("discarding line", "line", line)
	}
}

// drain consumes and discards whatever arrives during the window. Used to
// flush garbage left over from a previous session or a wake burst.
func (c *Client) drain(ctx context.Context, window time.Duration) error {
	deadline := c.clock.Now().Add(window)
	for !c.clock.Now().After(deadline) {
		if err := ctx.Err(); err != nil {
			return err
		}
		for c.ch.Available() {
			if _, err := c.ch.ReadByte(); err != nil {
				return err
			}
		}
		c.clock.Sleep(pollInterval)
	}
	return nil
}
