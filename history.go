package serline

// DefaultHistoryCapacity is the number of turns kept when no explicit
// capacity is given. Matches the request size the gateway is sized for.
const DefaultHistoryCapacity = 20

// History is a bounded, ordered sequence of conversation turns. When full,
// appending evicts the oldest turn first, preserving recency order. It is
// not safe for concurrent use; the engine is synchronous and there is one
// conversation per session.
type History struct {
	capacity int
	turns    []Turn
}

// NewHistory creates a History holding at most capacity turns.
// A capacity of zero or less selects DefaultHistoryCapacity.
func NewHistory(capacity int) *History {
	if capacity <= 0 {
		capacity = DefaultHistoryCapacity
	}
	return &History{
		capacity: capacity,
		turns:    make([]Turn, 0, capacity),
	}
}

// Append stores a new turn at the tail, evicting the head turn first if the
// store is at capacity.
func (h *History) Append(role Role, content string) {
	if len(h.turns) >= h.capacity {
		copy(h.turns, h.turns[1:])
		h.turns = h.turns[:len(h.turns)-1]
	}
	h.turns = append(h.turns, Turn{Role: role, Content: content})
}

// Clear removes all turns.
func (h *History) Clear() {
	h.turns = h.turns[:0]
}

// Turns returns a copy of the stored turns in order, oldest first.
func (h *History) Turns() []Turn {
	out := make([]Turn, len(h.turns))
	copy(out, h.turns)
	return out
}

// Len returns the number of stored turns.
func (h *History) Len() int { return len(h.turns) }

// Cap returns the maximum number of turns the store holds.
func (h *History) Cap() int { return h.capacity }
