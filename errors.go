package serline

import "errors"

// Sentinel errors for common failure modes. All protocol failures are
// expected conditions: the engine surfaces them and returns to idle.
var (
	// ErrHandshakeTimeout indicates a handshake stage deadline elapsed.
	ErrHandshakeTimeout = errors.New("handshake timed out")

	// ErrResponseTimeout indicates a response phase deadline elapsed
	// (header wait or chunk inactivity).
	ErrResponseTimeout = errors.New("response timed out")

	// ErrNotConnected indicates a request was attempted on an offline session.
	ErrNotConnected = errors.New("not connected")

	// ErrValidation indicates a prompt failed validation.
	ErrValidation = errors.New("validation error")
)

// GatewayError is a failure the gateway itself reported in a response
// header. The message is surfaced to the user verbatim.
type GatewayError struct {
	Message string
}

func (e *GatewayError) Error() string {
	return "gateway error: " + e.Message
}
