package serline

import "time"

// Clock abstracts time so the engine's deadlines and poll intervals are
// testable without real waiting. Now must be monotonic for the duration of
// a session. Sleep yields for at least d; the engine calls it once per idle
// poll iteration.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type systemClock struct{}

func (systemClock) Now() time.Time        { return time.Now() }
func (systemClock) Sleep(d time.Duration) { time.Sleep(d) }

// SystemClock returns a Clock backed by the real time package.
func SystemClock() Clock { return systemClock{} }
