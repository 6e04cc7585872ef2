package bubbletea

// WrapText exports wrapText for testing.
var WrapText = wrapText

// SetRunningWithCancel is a test helper that puts the model in a running
// state with a cancel function.
func SetRunningWithCancel(m Model, cancel func()) Model {
	m.running = true
	m.cancel = cancel
	return m
}
