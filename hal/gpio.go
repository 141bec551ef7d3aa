package hal

import (
	"fmt"
	"time"
)

// GPIOMode selects whether a pin is an input or output.
type GPIOMode uint8

const (
	GPIOModeInput GPIOMode = iota
	GPIOModeOutput
)

// GPIO provides access to general-purpose IO pins.
//
// Implementations may return nil if GPIO is unsupported.
type GPIO interface {
	PinCount() int
	Pin(id int) GPIOPin
	PinByName(name string) GPIOPin
}

// GPIOPin is a single digital IO pin.
type GPIOPin interface {
	Name() string
	Configure(mode GPIOMode) error
	Read() (level bool, err error)
	Write(level bool) error
}

type nullGPIO struct{}

func (nullGPIO) PinCount() int                 { return 0 }
func (nullGPIO) Pin(id int) GPIOPin            { return nil }
func (nullGPIO) PinByName(name string) GPIOPin { return nil }

type pinBank struct {
	pins []GPIOPin
}

func newPinBank(pins []GPIOPin) GPIO {
	if len(pins) == 0 {
		return nullGPIO{}
	}
	return &pinBank{pins: pins}
}

func (g *pinBank) PinCount() int { return len(g.pins) }

func (g *pinBank) Pin(id int) GPIOPin {
	if id < 0 || id >= len(g.pins) {
		return nil
	}
	return g.pins[id]
}

func (g *pinBank) PinByName(name string) GPIOPin {
	for _, p := range g.pins {
		if p != nil && p.Name() == name {
			return p
		}
	}
	return nil
}

// ledPin exposes an LED as an output-only pin.
type ledPin struct {
	led   LED
	name  string
	mode  GPIOMode
	level bool
}

func newLEDPin(name string, led LED) *ledPin {
	return &ledPin{led: led, name: name}
}

func (p *ledPin) Name() string { return p.name }

func (p *ledPin) Configure(mode GPIOMode) error {
	if mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: only output supported", p.name)
	}
	p.mode = mode
	return nil
}

func (p *ledPin) Read() (bool, error) { return p.level, nil }

func (p *ledPin) Write(level bool) error {
	if p.mode != GPIOModeOutput {
		return fmt.Errorf("gpio: pin %s: not configured for output", p.name)
	}
	p.level = level
	if p.led != nil {
		if level {
			p.led.High()
		} else {
			p.led.Low()
		}
	}
	return nil
}

// clockPin models a clock routed out to a monitor pin (the MCO pattern): a
// read-only square wave at clockHz/div with 50% duty, phase-locked to the
// moment the pin was created.
type clockPin struct {
	name   string
	period time.Duration
	t0     time.Time
	now    func() time.Time
}

func newClockPin(name string, clockHz, div uint32) GPIOPin {
	return newClockPinWithClock(name, clockHz, div, time.Now)
}

func newClockPinWithClock(name string, clockHz, div uint32, now func() time.Time) GPIOPin {
	if name == "" || clockHz == 0 {
		return nil
	}
	if div == 0 {
		div = 1
	}
	if now == nil {
		now = time.Now
	}
	period := time.Duration(uint64(time.Second) * uint64(div) / uint64(clockHz))
	if period <= 0 {
		period = time.Nanosecond
	}
	return &clockPin{name: name, period: period, t0: now(), now: now}
}

func (p *clockPin) Name() string { return p.name }

func (p *clockPin) Configure(mode GPIOMode) error {
	if mode != GPIOModeInput {
		return fmt.Errorf("gpio: pin %s: only input supported", p.name)
	}
	return nil
}

func (p *clockPin) Read() (bool, error) {
	elapsed := p.now().Sub(p.t0)
	if elapsed < 0 {
		elapsed = -elapsed
	}
	phase := elapsed % p.period
	return phase < p.period/2, nil
}

func (p *clockPin) Write(bool) error {
	return fmt.Errorf("gpio: pin %s: output unsupported", p.name)
}
