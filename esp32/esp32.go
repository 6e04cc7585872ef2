// Package esp32 implements [serline.Gateway] over the line-oriented serial
// protocol spoken by the ESP32 LLM gateway: a wake/reset/sync handshake,
// a single-line escaped JSON request, and an acknowledgement-gated chunked
// response.
//
// The engine is a cooperative polling loop. Every wait is bounded by an
// explicit deadline and polls the context for cancellation once per idle
// iteration, so cancellation resolves within one poll interval and no call
// blocks indefinitely. Deadline violations are expected, reported failures;
// the client returns to an idle, reusable state after every call.
package esp32

import "time"

// Wire protocol constants. Sentinels and commands are line-terminated ASCII
// with case-sensitive exact matches.
const (
	sentinelAwake    = "AWAKE"     // gateway woke from light sleep
	sentinelEspReady = "ESP_READY" // gateway main loop is up
	sentinelReady    = "READY"     // gateway acknowledged SYNC

	cmdReset = "RST\n"
	cmdSync  = "SYNC\n"

	headerLen = "LEN:" // success header, decimal byte count follows
	headerErr = "ERR:" // gateway-reported failure, message follows

	// wakeBurst rouses a gateway that may be in light sleep. The longer
	// burst opens a session; the shorter one precedes each request.
	wakeBurst   = "\n\n\n\n\n"
	requestWake = "\n\n\n"

	ackByte        byte = 'A'  // sent after the header and each chunk
	terminatorByte byte = 0x04 // end-of-stream, may also arrive early

	chunkSize  = 64 // bytes per acknowledged chunk
	maxLineLen = 32 // sentinel/header accumulation bound; excess is dropped
)

// Stage deadlines. Each stage has its own because the gateway's latencies
// differ: waking from light sleep is fast, a cold boot after RST is not,
// and an in-protocol sync ack sits in between. A single global deadline
// would starve the first stage or let later ones hang.
const (
	drainWindow  = 100 * time.Millisecond // flush stale bytes from a previous session
	wakeWait     = 2 * time.Second        // AWAKE/ESP_READY; falls through, gateway may already be awake
	readyWait    = 15 * time.Second       // ESP_READY after RST (cold boot)
	syncDrain    = 50 * time.Millisecond
	ackWait      = 5 * time.Second // READY after SYNC
	requestDrain = 20 * time.Millisecond

	// headerWait is the "model is thinking" window. chunkIdleWait is an
	// inactivity deadline reset on every received byte, not a total
	// transfer deadline: long generations are legitimate, stalls are not.
	headerWait    = 60 * time.Second
	chunkIdleWait = 120 * time.Second
	trailerWait   = 2 * time.Second

	pollInterval = 2 * time.Millisecond
)

// DefaultResponseLimit bounds how many response bytes the client stores.
// A declared length beyond it is clamped and the reply marked truncated.
const DefaultResponseLimit = 16384
