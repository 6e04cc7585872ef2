package bubbletea

import (
	"strings"
	"sync"

	"github.com/rivo/uniseg"

	"github.com/serline/serline"
)

// DefaultMaxLines bounds the scrollback before old lines fall off.
const DefaultMaxLines = 1000

var _ serline.Sink = (*Scrollback)(nil)

// Scrollback is a bounded, width-aware line store implementing
// [serline.Sink]. The conversation appends from its own goroutine while
// the TUI reads, so every method is mutex-guarded. When the store is
// full the oldest lines fall off and the recorded scroll hint shifts
// with them.
type Scrollback struct {
	mu     sync.Mutex
	lines  []string
	max    int
	width  int
	hint   int
	hinted bool
	render func(text string, width int) string
	notify func()
}

// ScrollbackOption configures a [Scrollback].
type ScrollbackOption func(*Scrollback)

// WithMaxLines sets the line bound. Values below one are ignored.
func WithMaxLines(n int) ScrollbackOption {
	return func(s *Scrollback) {
		if n > 0 {
			s.max = n
		}
	}
}

// WithRenderer sets a block renderer applied to AppendBlock text, e.g.
// markdown to ANSI. The renderer owns wrapping its output to width.
func WithRenderer(render func(text string, width int) string) ScrollbackOption {
	return func(s *Scrollback) { s.render = render }
}

// NewScrollback creates a Scrollback wrapping at the given column width.
func NewScrollback(width int, opts ...ScrollbackOption) *Scrollback {
	if width <= 0 {
		width = 80
	}
	s := &Scrollback{max: DefaultMaxLines, width: width}
	for _, o := range opts {
		o(s)
	}
	return s
}

// SetNotify sets a callback invoked after every mutation, outside the
// lock. The TUI uses it to schedule a refresh.
func (s *Scrollback) SetNotify(notify func()) {
	s.mu.Lock()
	s.notify = notify
	s.mu.Unlock()
}

// SetWidth changes the wrap width for subsequent appends. Stored lines
// keep their original wrapping.
func (s *Scrollback) SetWidth(width int) {
	if width <= 0 {
		return
	}
	s.mu.Lock()
	s.width = width
	s.mu.Unlock()
}

// AppendLine appends one line, hard-wrapped if it exceeds the width.
func (s *Scrollback) AppendLine(line string) {
	s.mu.Lock()
	s.appendLocked(wrapText(line, s.width))
	notify := s.notify
	s.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// AppendBlock appends prefixed text wrapped to the width: the prefix
// leads the first line and continuation lines are indented under it.
// When a renderer is set it formats the text and its output lines are
// trusted as pre-wrapped. Returns the index of the block's first line.
func (s *Scrollback) AppendBlock(prefix, text string) int {
	s.mu.Lock()
	first := len(s.lines)

	prefixWidth := uniseg.StringWidth(prefix)
	bodyWidth := s.width - prefixWidth
	if bodyWidth < 10 {
		bodyWidth = 10
	}

	var body []string
	if s.render != nil {
		body = strings.Split(s.render(text, bodyWidth), "\n")
	} else {
		for _, line := range strings.Split(text, "\n") {
			body = append(body, wrapText(line, bodyWidth)...)
		}
	}

	indent := strings.Repeat(" ", prefixWidth)
	block := make([]string, len(body))
	for i, line := range body {
		if i == 0 {
			block[i] = prefix + line
		} else {
			block[i] = indent + line
		}
	}

	dropped := s.appendLocked(block)
	first -= dropped
	if first < 0 {
		first = 0
	}
	notify := s.notify
	s.mu.Unlock()
	if notify != nil {
		notify()
	}
	return first
}

// SetScrollHint records an advisory line index for the viewport to jump
// to on the next refresh.
func (s *Scrollback) SetScrollHint(line int) {
	s.mu.Lock()
	if line < 0 {
		line = 0
	}
	s.hint = line
	s.hinted = true
	s.mu.Unlock()
}

// TakeHint returns and clears the pending scroll hint.
func (s *Scrollback) TakeHint() (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.hinted {
		return 0, false
	}
	s.hinted = false
	return s.hint, true
}

// Lines returns a copy of the stored lines.
func (s *Scrollback) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.lines))
	copy(out, s.lines)
	return out
}

// Len returns the number of stored lines.
func (s *Scrollback) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.lines)
}

// Clear empties the scrollback and drops any pending hint.
func (s *Scrollback) Clear() {
	s.mu.Lock()
	s.lines = s.lines[:0]
	s.hinted = false
	notify := s.notify
	s.mu.Unlock()
	if notify != nil {
		notify()
	}
}

// appendLocked appends lines and enforces the bound, shifting the hint
// by the number of dropped lines. Returns how many lines were dropped.
func (s *Scrollback) appendLocked(lines []string) int {
	s.lines = append(s.lines, lines...)
	if len(s.lines) <= s.max {
		return 0
	}
	dropped := len(s.lines) - s.max
	s.lines = append(s.lines[:0], s.lines[dropped:]...)
	if s.hinted {
		s.hint -= dropped
		if s.hint < 0 {
			s.hint = 0
		}
	}
	return dropped
}
