package serline

import (
	"context"
	"errors"
	"time"
)

// Conversation orchestrates one chat session: it owns the History, drives
// the Gateway, and writes the user-visible transcript to the Sink. Every
// protocol failure is recovered here and surfaced as a single bracketed
// line; afterwards the session is idle and reusable. The one exception is
// handshake failure, which leaves the session in an explicit offline state
// until Connect succeeds. Failed requests are never retried automatically.
type Conversation struct {
	gateway Gateway
	sink    Sink
	history *History

	sessionID string
	createdAt time.Time

	connected bool
}

// Option configures a Conversation.
type Option func(*Conversation)

// WithHistory sets the backing history store. The default holds
// DefaultHistoryCapacity turns.
func WithHistory(h *History) Option {
	return func(c *Conversation) { c.history = h }
}

// NewConversation creates a Conversation over the given gateway and sink.
// It starts offline; call Connect to perform the handshake.
func NewConversation(gateway Gateway, sink Sink, opts ...Option) *Conversation {
	c := &Conversation{
		gateway: gateway,
		sink:    sink,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.history == nil {
		c.history = NewHistory(DefaultHistoryCapacity)
	}
	s := NewSession()
	c.sessionID = s.ID
	c.createdAt = s.CreatedAt
	return c
}

// Connect performs the gateway handshake and records the outcome. On
// failure the conversation degrades to offline: Ask reports ErrNotConnected
// until a later Connect succeeds.
func (c *Conversation) Connect(ctx context.Context) error {
	c.sink.AppendLine("Connecting to gateway...")
	err := c.gateway.Connect(ctx)
	switch {
	case err == nil:
		c.connected = true
		c.sink.AppendLine("Connected!")
	case errors.Is(err, context.Canceled):
		c.connected = false
		c.sink.AppendLine("[Cancelled]")
	default:
		c.connected = false
		c.sink.AppendLine("Connection failed.")
	}
	return err
}

// Connected reports whether the last handshake succeeded.
func (c *Conversation) Connected() bool { return c.connected }

// Ask sends one prompt and receives the reply. The user's turn is recorded
// in history before transmission and stays there even if the exchange
// fails, so a re-submitted prompt carries the same context the gateway
// already saw.
func (c *Conversation) Ask(ctx context.Context, prompt string) error {
	if err := ValidatePrompt(prompt); err != nil {
		return err
	}

	c.sink.AppendBlock("You: ", prompt)
	c.sink.AppendLine("")

	if !c.connected {
		c.sink.AppendLine("[Not connected]")
		return ErrNotConnected
	}

	c.history.Append(RoleUser, prompt)

	reply, err := c.gateway.Exchange(ctx, c.history.Turns(), prompt)
	if err != nil {
		c.surface(err)
		return err
	}

	if reply.Text == "" {
		c.sink.AppendLine("AI: (empty response)")
		return nil
	}

	first := c.sink.AppendBlock("AI: ", reply.Text)
	c.sink.AppendLine("")
	c.sink.SetScrollHint(first)
	if reply.Truncated {
		c.sink.AppendLine("[Response truncated]")
	}

	c.history.Append(RoleModel, reply.Text)
	return nil
}

// Clear discards all conversation history.
func (c *Conversation) Clear() {
	c.history.Clear()
}

// Session returns a snapshot of the conversation for persistence.
func (c *Conversation) Session() Session {
	return Session{
		ID:        c.sessionID,
		Turns:     c.history.Turns(),
		CreatedAt: c.createdAt,
		UpdatedAt: time.Now(),
	}
}

// surface writes a single user-visible line describing a failed exchange.
func (c *Conversation) surface(err error) {
	var gwErr *GatewayError
	switch {
	case errors.As(err, &gwErr):
		c.sink.AppendLine("[ERR:" + gwErr.Message + "]")
	case errors.Is(err, context.Canceled):
		c.sink.AppendLine("[Cancelled]")
	case errors.Is(err, ErrResponseTimeout):
		c.sink.AppendLine("[Timeout waiting for response]")
	default:
		c.sink.AppendLine("[" + err.Error() + "]")
	}
}
