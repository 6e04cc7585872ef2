package serial

import "io"

// NewChannel exports newChannel for testing over an in-memory pipe.
func NewChannel(rw io.ReadWriteCloser) *Channel {
	return newChannel(rw)
}
