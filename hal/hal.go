package hal

import "errors"

// Logger writes newline-delimited log lines.
//
// It is the diagnostic sink for task lifecycle events; lines may be dropped
// if the sink is unavailable.
type Logger interface {
	WriteLineString(s string)
	WriteLineBytes(b []byte)
}

// LED is a minimal output pin abstraction.
type LED interface {
	High()
	Low()
}

// Counter is the free-running cycle counter used as the scheduling timebase.
//
// Read before Start yields an unspecified value; the executor arms the
// counter during init and never reads it earlier.
type Counter interface {
	Start()
	Read() uint32
}

var ErrNotImplemented = errors.New("not implemented")

// DefaultClockHz is the assumed core clock when none is known: 16 MHz,
// the usual internal-oscillator default on small Cortex-M parts.
const DefaultClockHz = 16_000_000

// PixelFormat defines the framebuffer pixel encoding.
type PixelFormat uint8

const (
	// PixelFormatRGB565 is 16bpp: rrrrrggggggbbbbb.
	PixelFormatRGB565 PixelFormat = iota + 1
)

// Framebuffer is a simple pixel buffer plus a "present" hook. The host
// status panel draws into it; bare-metal targets may stub it out.
type Framebuffer interface {
	Width() int
	Height() int
	Format() PixelFormat
	StrideBytes() int
	Buffer() []byte
	ClearRGB(r, g, b uint8)
	Present() error
}

// Display provides access to the framebuffer (if available).
type Display interface {
	Framebuffer() Framebuffer
}

// HAL is the only contact point between the executor and the hardware.
type HAL interface {
	Logger() Logger
	LED() LED
	GPIO() GPIO
	Counter() Counter
	Display() Display
}
