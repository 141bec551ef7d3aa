//go:build !tinygo

package hal

import (
	"fmt"
	"os"
	"sync"
)

type hostHAL struct {
	logger *hostLogger
	led    *hostLED
	gpio   GPIO
	ctr    *hostCounter
	fb     *hostFramebuffer
}

// New returns a host HAL implementation at the default clock.
func New() HAL { return NewWithClock(DefaultClockHz) }

// NewWithClock returns a host HAL whose cycle counter runs at hz.
func NewWithClock(hz uint32) HAL {
	logger := &hostLogger{w: os.Stdout}
	led := &hostLED{logger: logger}
	pins := []GPIOPin{
		newLEDPin("LED", led),
		// SYSCLK/4 on a monitor pin, for watching the clock on a scope.
		newClockPin("MCO", hz, 4),
	}
	return &hostHAL{
		logger: logger,
		led:    led,
		gpio:   newPinBank(pins),
		ctr:    newHostCounter(hz),
		fb:     newHostFramebuffer(240, 160),
	}
}

func (h *hostHAL) Logger() Logger   { return h.logger }
func (h *hostHAL) LED() LED         { return h.led }
func (h *hostHAL) GPIO() GPIO       { return h.gpio }
func (h *hostHAL) Counter() Counter { return h.ctr }
func (h *hostHAL) Display() Display { return hostDisplay{fb: h.fb} }

type hostDisplay struct {
	fb *hostFramebuffer
}

func (d hostDisplay) Framebuffer() Framebuffer { return d.fb }

type hostLogger struct {
	mu sync.Mutex
	w  *os.File
}

func (l *hostLogger) WriteLineString(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.w, s)
}

func (l *hostLogger) WriteLineBytes(b []byte) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.w.Write(b)
	l.w.Write([]byte{'\n'})
}

type hostLED struct {
	mu     sync.Mutex
	on     bool
	logger *hostLogger
}

func (l *hostLED) High() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = true
}

func (l *hostLED) Low() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.on = false
}
