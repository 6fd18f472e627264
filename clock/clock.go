package clock

import "time"

// Interface is the clock surface this module's tracing machinery uses:
// construction of the timers that bound shutdown drains.  Abstracting it
// keeps drain behavior testable without real waits.
type Interface interface {
	NewTimer(time.Duration) Timer
}

type systemClock struct{}

func (sc systemClock) NewTimer(d time.Duration) Timer {
	return systemTimer{time.NewTimer(d)}
}

// System returns a clock backed by the time package
func System() Interface {
	return systemClock{}
}
