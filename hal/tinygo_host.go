//go:build tinygo && !baremetal

package hal

import (
	"fmt"
	"runtime"
)

type tinyGoHostHAL struct {
	logger *tinyGoHostLogger
	led    *tinyGoHostLED
	gpio   GPIO
	ctr    *tinyGoCounter
	fb     Framebuffer
}

// New returns a TinyGo-on-host HAL implementation.
//
// This is used by `tinygo run` targets like linux/wasm where there is no
// MCU pin mapping; the cycle counter runs at the default clock.
func New() HAL {
	l := &tinyGoHostLogger{}
	led := &tinyGoHostLED{logger: l}
	return &tinyGoHostHAL{
		logger: l,
		led:    led,
		gpio:   newPinBank([]GPIOPin{newLEDPin("LED", led)}),
		ctr:    newTinyGoCounter(DefaultClockHz),
		fb:     &stubFramebuffer{},
	}
}

func (h *tinyGoHostHAL) Logger() Logger   { return h.logger }
func (h *tinyGoHostHAL) LED() LED         { return h.led }
func (h *tinyGoHostHAL) GPIO() GPIO       { return h.gpio }
func (h *tinyGoHostHAL) Counter() Counter { return h.ctr }
func (h *tinyGoHostHAL) Display() Display { return tinyGoDisplay{fb: h.fb} }

type tinyGoHostLogger struct{}

func (l *tinyGoHostLogger) WriteLineString(s string) {
	println(s)
}

func (l *tinyGoHostLogger) WriteLineBytes(b []byte) {
	println(string(b))
}

type tinyGoHostLED struct {
	on     bool
	logger *tinyGoHostLogger
}

func (l *tinyGoHostLED) High() {
	l.on = true
	l.logger.WriteLineString(fmt.Sprintf("led: HIGH (tinygo/%s)", runtime.GOOS))
}

func (l *tinyGoHostLED) Low() {
	l.on = false
	l.logger.WriteLineString(fmt.Sprintf("led: LOW (tinygo/%s)", runtime.GOOS))
}
