package clock

import "time"

// Timer is a single event that fires at a deadline.  It is the subset of
// time.Timer this module needs to bound waits, such as the drain deadline
// applied during reporter shutdown.
type Timer interface {
	C() <-chan time.Time
	Stop() bool
}

type systemTimer struct {
	*time.Timer
}

func (st systemTimer) C() <-chan time.Time {
	return st.Timer.C
}
