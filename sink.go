package serline

// Sink receives the user-visible transcript. Implementations own layout:
// AppendBlock wraps prefix+text across the sink's column width, AppendLine
// adds one pre-formed line. Both return-free except AppendBlock, which
// reports the index of the block's first line so callers can ask for it to
// be scrolled into view. SetScrollHint is advisory; a sink may honor or
// ignore it.
type Sink interface {
	AppendLine(line string)
	AppendBlock(prefix, text string) int
	SetScrollHint(line int)
}
