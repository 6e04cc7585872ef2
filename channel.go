package serline

// Channel is a reliable, in-order byte link to the gateway. It has no
// framing of its own; the protocol engine builds lines and chunks on top.
//
// Available reports whether at least one byte can be read without blocking.
// ReadByte is only valid when Available has just returned true; the engine
// is the sole reader so the two calls cannot race. Link-level corruption is
// out of scope: a Channel either delivers bytes faithfully or errors.
type Channel interface {
	Available() bool
	ReadByte() (byte, error)
	WriteByte(b byte) error
	WriteString(s string) error
}
