package serline

// Event is a sealed interface of engine progress notifications. Events are
// purely informational — failures come from the call's error return, not
// from events. The unexported marker method prevents external implementations.
type Event interface {
	event()
}

// HandshakeStage identifies the handshake step currently in progress.
type HandshakeStage int

const (
	StageWake  HandshakeStage = iota // draining and waking the gateway
	StageReset                       // RST sent, waiting for readiness
	StageSync                        // SYNC sent, waiting for the final ack
)

// EventHandshake reports handshake progress.
type EventHandshake struct {
	Stage HandshakeStage
}

func (EventHandshake) event() {}

// EventAwaitingReply signals that the request was transmitted and the
// engine is waiting for the response header.
type EventAwaitingReply struct{}

func (EventAwaitingReply) event() {}

// EventHeader reports the parsed response header. Length is the byte count
// the engine will store, after clamping to its response limit.
type EventHeader struct {
	Length    int
	Truncated bool
}

func (EventHeader) event() {}

// EventChunk reports body progress after each acknowledged chunk.
type EventChunk struct {
	Received int
	Expected int
}

func (EventChunk) event() {}

// Interface compliance checks.
var (
	_ Event = EventHandshake{}
	_ Event = EventAwaitingReply{}
	_ Event = EventHeader{}
	_ Event = EventChunk{}
)
