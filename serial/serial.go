// Package serial implements [serline.Channel] over a local serial port.
package serial

import (
	"fmt"
	"io"
	"sync"

	"go.bug.st/serial"

	"github.com/serline/serline"
)

var _ serline.Channel = (*Channel)(nil)

// Channel adapts a serial port to [serline.Channel]. A background reader
// goroutine pulls bytes off the port into a buffered queue so Available
// is a non-blocking query, which is what the engine's polling loop needs.
// Writes go straight to the port.
type Channel struct {
	port io.ReadWriteCloser

	mu  sync.Mutex
	buf []byte
	err error

	done chan struct{}
}

// Open opens the named port at the given baud rate and starts the reader.
func Open(name string, baud int) (*Channel, error) {
	port, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("serial: open %s: %w", name, err)
	}
	return newChannel(port), nil
}

func newChannel(rw io.ReadWriteCloser) *Channel {
	c := &Channel{port: rw, done: make(chan struct{})}
	go c.readLoop()
	return c
}

func (c *Channel) readLoop() {
	defer close(c.done)
	buf := make([]byte, 256)
	for {
		n, err := c.port.Read(buf)
		c.mu.Lock()
		if n > 0 {
			c.buf = append(c.buf, buf[:n]...)
		}
		if err != nil {
			c.err = err
			c.mu.Unlock()
			return
		}
		c.mu.Unlock()
	}
}

// Available reports whether at least one byte is buffered.
func (c *Channel) Available() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.buf) > 0
}

// ReadByte returns the next buffered byte. With nothing buffered it
// reports the reader's terminal error, or io.EOF if the reader is still
// running — callers gate on Available and never hit that path.
func (c *Channel) ReadByte() (byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.buf) == 0 {
		if c.err != nil {
			return 0, fmt.Errorf("serial: read: %w", c.err)
		}
		return 0, io.EOF
	}
	b := c.buf[0]
	c.buf = c.buf[1:]
	return b, nil
}

// WriteByte writes one byte to the port.
func (c *Channel) WriteByte(b byte) error {
	return c.writeAll([]byte{b})
}

// WriteString writes the full string to the port.
func (c *Channel) WriteString(s string) error {
	return c.writeAll([]byte(s))
}

func (c *Channel) writeAll(data []byte) error {
	for len(data) > 0 {
		n, err := c.port.Write(data)
		if err != nil {
			return fmt.Errorf("serial: write: %w", err)
		}
		data = data[n:]
	}
	return nil
}

// Close closes the port and waits for the reader to exit.
func (c *Channel) Close() error {
	err := c.port.Close()
	<-c.done
	return err
}
