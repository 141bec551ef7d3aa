package kernel

// Instant is a sample of the free-running cycle counter.
//
// The counter is 32 bits wide and wraps; all arithmetic and ordering on
// Instant is modulo 2^32. Two Instants more than 2^31 cycles apart are not
// meaningfully ordered, which bounds how far ahead an activation may be
// scheduled.
type Instant uint32

// Duration is a span of clock cycles.
type Duration uint32

// Cycles returns a Duration of n clock cycles.
func Cycles(n uint32) Duration { return Duration(n) }

// Add returns the Instant d cycles after i, wrapping at the counter width.
func (i Instant) Add(d Duration) Instant {
	return Instant(uint32(i) + uint32(d))
}

// Before reports whether i is earlier than o.
//
// The comparison is on the signed difference, not raw magnitude, so it stays
// correct across counter rollover: Instant(0xFFFFFFFF).Before(0) is true.
func (i Instant) Before(o Instant) bool {
	return int32(uint32(o)-uint32(i)) > 0
}

// Elapsed reports whether i has been reached at time now.
func (i Instant) Elapsed(now Instant) bool {
	return !now.Before(i)
}

// Counter is the hardware cycle counter the executor runs against.
//
// Read is unspecified before Start; the executor only reads after arming the
// counter and hands init the start Instant instead.
type Counter interface {
	Start()
	Read() uint32
}
