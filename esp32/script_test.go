package esp32_test

import (
	"time"

	"github.com/serline/serline"
)

// script simulates the gateway end of the serial link. Reads come from rx;
// writes are recorded and may trigger a scripted response, which is how
// the tests model the gateway reacting to commands. Single-byte writes
// (acks) are tracked separately from string writes (commands, requests).
type script struct {
	rx         []byte
	writes     []string
	byteWrites []byte
	onWrite    func(s *script, data string)
}

var _ serline.Channel = (*script)(nil)

func (s *script) Available() bool { return len(s.rx) > 0 }

func (s *script) ReadByte() (byte, error) {
	b := s.rx[0]
	s.rx = s.rx[1:]
	return b, nil
}

func (s *script) WriteByte(b byte) error {
	s.byteWrites = append(s.byteWrites, b)
	if s.onWrite != nil {
		s.onWrite(s, string(b))
	}
	return nil
}

func (s *script) WriteString(str string) error {
	s.writes = append(s.writes, str)
	if s.onWrite != nil {
		s.onWrite(s, str)
	}
	return nil
}

// feed queues bytes for the client to read.
func (s *script) feed(data string) {
	s.rx = append(s.rx, data...)
}

// acks returns how many acknowledgement bytes the client wrote.
func (s *script) acks() int {
	n := 0
	for _, b := range s.byteWrites {
		if b == 'A' {
			n++
		}
	}
	return n
}

// fakeClock advances only when the engine sleeps, so deadline behavior is
// tested without real waiting. onSleep, when set, runs before each advance
// and lets a test inject mid-wait actions such as cancellation.
type fakeClock struct {
	now     time.Time
	onSleep func()
}

var _ serline.Clock = (*fakeClock)(nil)

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(1000, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Sleep(d time.Duration) {
	if c.onSleep != nil {
		c.onSleep()
	}
	c.now = c.now.Add(d)
}

// elapsed reports how much fake time has passed since the clock started.
func (c *fakeClock) elapsed() time.Duration {
	return c.now.Sub(time.Unix(1000, 0))
}
