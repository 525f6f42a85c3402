package bus

import "errors"

// ErrWaitTimeout is returned when a readiness condition never asserted
// within the bounded number of poll attempts.
var ErrWaitTimeout = errors.New("bus: wait deadline exceeded")

// Poll invokes ready up to attempts times, calling idle between tries.
// It returns nil as soon as ready reports true, the read error if ready
// fails, or ErrWaitTimeout once the attempt budget is spent. The iteration
// cap is hard: Poll never blocks indefinitely, so a stuck data-ready line
// degrades to a timeout instead of stalling the monitoring loop.
func Poll(ready func() (bool, error), attempts int, idle func()) error {
	for i := 0; i < attempts; i++ {
		ok, err := ready()
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		if idle != nil {
			idle()
		}
	}
	return ErrWaitTimeout
}
