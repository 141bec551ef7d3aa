//go:build tinygo

package hal

import "time"

type tinyGoDisplay struct {
	fb Framebuffer
}

func (d tinyGoDisplay) Framebuffer() Framebuffer { return d.fb }

// tinyGoCounter maps the monotonic runtime clock to CPU cycles. The chips
// this targets have no architecturally exposed CYCCNT, so the count is
// derived rather than read from a debug register; it still wraps at 32 bits.
type tinyGoCounter struct {
	hz      uint32
	started bool
	t0      time.Time
}

func newTinyGoCounter(hz uint32) *tinyGoCounter {
	return &tinyGoCounter{hz: hz}
}

func (c *tinyGoCounter) Start() {
	c.t0 = time.Now()
	c.started = true
}

func (c *tinyGoCounter) Read() uint32 {
	if !c.started {
		return 0
	}
	return elapsedCycles(c.hz, time.Since(c.t0).Nanoseconds())
}

type stubFramebuffer struct{}

func (stubFramebuffer) Width() int             { return 0 }
func (stubFramebuffer) Height() int            { return 0 }
func (stubFramebuffer) Format() PixelFormat    { return PixelFormatRGB565 }
func (stubFramebuffer) StrideBytes() int       { return 0 }
func (stubFramebuffer) Buffer() []byte         { return nil }
func (stubFramebuffer) ClearRGB(r, g, b uint8) {}
func (stubFramebuffer) Present() error         { return nil }
