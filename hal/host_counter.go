//go:build !tinygo

package hal

import "time"

// hostCounter derives a cycle count from the wall clock at a configured
// frequency, standing in for a free-running hardware counter. The count
// wraps at 32 bits like the real thing.
type hostCounter struct {
	hz      uint32
	started bool
	t0      time.Time
	now     func() time.Time
}

func newHostCounter(hz uint32) *hostCounter {
	return newHostCounterWithClock(hz, time.Now)
}

func newHostCounterWithClock(hz uint32, now func() time.Time) *hostCounter {
	if now == nil {
		now = time.Now
	}
	return &hostCounter{hz: hz, now: now}
}

func (c *hostCounter) Start() {
	c.t0 = c.now()
	c.started = true
}

func (c *hostCounter) Read() uint32 {
	if !c.started {
		// Unspecified by contract; zero keeps host runs reproducible.
		return 0
	}
	return elapsedCycles(c.hz, c.now().Sub(c.t0).Nanoseconds())
}
