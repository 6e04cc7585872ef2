package serline

// Turn is a single conversation turn. Turns are immutable once stored:
// the History only ever appends new turns or evicts old ones whole.
type Turn struct {
	Role    Role
	Content string
}
