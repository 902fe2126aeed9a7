package engine

import "time"

// Clock supplies the current wall-clock time. All engine timing is computed
// as deltas against recorded timestamps rather than scheduled callbacks, so
// tests can drive the engine deterministically with a fake clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }
