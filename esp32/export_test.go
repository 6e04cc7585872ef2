package esp32

import (
	"context"
	"time"

	"github.com/serline/serline"
)

// Test-only exports.

var (
	EncodeRequest = encodeRequest
	EscapeText    = escapeText
	ErrDeadline   = errDeadline
)

const MaxLineLen = maxLineLen

type LineReader = lineReader

func NewLineReader(ch serline.Channel, clock serline.Clock) *LineReader {
	return newLineReader(ch, clock)
}

func (r *lineReader) ReadLine(ctx context.Context, deadline time.Time) (string, error) {
	return r.readLine(ctx, deadline)
}
