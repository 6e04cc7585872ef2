package serline

import "context"

// Reply is the result of one request/response exchange. Truncated is set
// when the gateway declared more bytes than the engine's response limit;
// the text then holds the stored prefix and the session remains usable.
type Reply struct {
	Text      string
	Truncated bool
}

// Gateway speaks the wire protocol to the LLM gateway on the far end of a
// Channel. Implementations are synchronous: at most one call is in flight
// at a time, and every internal wait carries its own deadline. Cancellation
// flows through the context and is polled cooperatively at every wait.
type Gateway interface {
	// Connect drives the wake/reset/sync handshake. It is terminal on first
	// failure; callers treat failure as degradation to an offline session.
	Connect(ctx context.Context) error

	// Exchange transmits the conversation turns plus the new prompt and
	// receives the chunked response. On cancellation or timeout the partial
	// reply received so far is discarded by the caller; the error reports
	// which phase failed.
	Exchange(ctx context.Context, turns []Turn, prompt string) (Reply, error)
}
