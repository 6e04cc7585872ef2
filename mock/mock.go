// Package mock provides test doubles for serline interfaces using function
// fields.
package mock

import (
	"context"
	"time"

	"github.com/serline/serline"
)

// Interface compliance checks.
var (
	_ serline.Channel = (*Channel)(nil)
	_ serline.Clock   = (*Clock)(nil)
	_ serline.Sink    = (*Sink)(nil)
	_ serline.Gateway = (*Gateway)(nil)
)

// Channel is a test double for serline.Channel.
// Set the function fields for the methods you need.
type Channel struct {
	AvailableFn   func() bool
	ReadByteFn    func() (byte, error)
	WriteByteFn   func(b byte) error
	WriteStringFn func(s string) error
}

// Available delegates to AvailableFn.
func (c *Channel) Available() bool {
	return c.AvailableFn()
}

// ReadByte delegates to ReadByteFn.
func (c *Channel) ReadByte() (byte, error) {
	return c.ReadByteFn()
}

// WriteByte delegates to WriteByteFn.
func (c *Channel) WriteByte(b byte) error {
	return c.WriteByteFn(b)
}

// WriteString delegates to WriteStringFn.
func (c *Channel) WriteString(s string) error {
	return c.WriteStringFn(s)
}

// Clock is a test double for serline.Clock.
// Set NowFn and SleepFn before use.
type Clock struct {
	NowFn   func() time.Time
	SleepFn func(d time.Duration)
}

// Now delegates to NowFn.
func (c *Clock) Now() time.Time {
	return c.NowFn()
}

// Sleep delegates to SleepFn.
func (c *Clock) Sleep(d time.Duration) {
	c.SleepFn(d)
}

// Sink is a test double for serline.Sink.
// Set the function fields for the methods you need.
type Sink struct {
	AppendLineFn    func(line string)
	AppendBlockFn   func(prefix, text string) int
	SetScrollHintFn func(line int)
}

// AppendLine delegates to AppendLineFn.
func (s *Sink) AppendLine(line string) {
	s.AppendLineFn(line)
}

// AppendBlock delegates to AppendBlockFn.
func (s *Sink) AppendBlock(prefix, text string) int {
	return s.AppendBlockFn(prefix, text)
}

// SetScrollHint delegates to SetScrollHintFn.
func (s *Sink) SetScrollHint(line int) {
	s.SetScrollHintFn(line)
}

// Gateway is a test double for serline.Gateway.
// Set ConnectFn and ExchangeFn before use.
type Gateway struct {
	ConnectFn  func(ctx context.Context) error
	ExchangeFn func(ctx context.Context, turns []serline.Turn, prompt string) (serline.Reply, error)
}

// Connect delegates to ConnectFn.
func (g *Gateway) Connect(ctx context.Context) error {
	return g.ConnectFn(ctx)
}

// Exchange delegates to ExchangeFn.
func (g *Gateway) Exchange(ctx context.Context, turns []serline.Turn, prompt string) (serline.Reply, error) {
	return g.ExchangeFn(ctx, turns, prompt)
}
