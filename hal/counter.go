package hal

// ManualCounter is a hand-advanced cycle counter for simulation and tests.
// It is not safe for concurrent use; step the executor and the counter from
// the same goroutine.
type ManualCounter struct {
	started bool
	cycles  uint32
}

func (c *ManualCounter) Start() { c.started = true }

// Read returns the current cycle count. The value before Start is
// unspecified by contract; this implementation happens to return zero.
func (c *ManualCounter) Read() uint32 { return c.cycles }

// Advance moves the counter forward n cycles, wrapping at 32 bits.
func (c *ManualCounter) Advance(n uint32) { c.cycles += n }

// Started reports whether Start has been called.
func (c *ManualCounter) Started() bool { return c.started }

// elapsedCycles converts elapsed nanoseconds to cycles at hz, congruent
// mod 2^32. The seconds and sub-second parts are converted separately so
// the intermediate products stay within uint64 for any uptime.
func elapsedCycles(hz uint32, ns int64) uint32 {
	secs := uint64(ns / 1e9)
	rem := uint64(ns % 1e9)
	return uint32(secs*uint64(hz) + rem*uint64(hz)/1e9)
}
