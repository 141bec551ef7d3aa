// Package app wires the demo application: a self-rescheduling LED toggle
// task plus a heartbeat, running on the static executor.
package app

import (
	"fmt"
	"time"

	"cyclic/hal"
	"cyclic/kernel"
)

// Task IDs.
const (
	TaskToggle kernel.TaskID = iota
	TaskHeartbeat
)

// Resource IDs.
const (
	ResLED kernel.ResourceID = iota
	ResStats
)

// Stats is shared state between the heartbeat task and the idle context.
type Stats struct {
	Beats     uint32
	LastCycle uint32
}

type toggleState struct {
	on bool
}

type application struct {
	sys   *kernel.System
	trace hal.Logger
	panel *panel

	// idle-phase snapshots for the panel
	snap Stats
	led  bool
}

// New initializes the application with default config and returns its step
// func.
func New(h hal.HAL) func() error {
	step, err := NewWithConfig(h, DefaultConfig())
	if err != nil {
		return func() error { return err }
	}
	return step
}

// Run initializes the application and steps it forever (bare-metal entry).
func Run(h hal.HAL) {
	step := New(h)
	for {
		if err := step(); err != nil {
			if log := h.Logger(); log != nil {
				log.WriteLineString("fatal: " + err.Error())
			}
			return
		}
		time.Sleep(time.Millisecond)
	}
}

// NewWithConfig builds the task table, runs init, and returns the step func
// that drives dispatch and the status panel.
func NewWithConfig(h hal.HAL, cfg Config) (func() error, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	a := &application{
		trace: cfg.Trace,
		panel: newPanel(h.Display().Framebuffer()),
	}
	if a.trace == nil {
		a.trace = h.Logger()
	}

	sys, err := kernel.New(a.table(h, cfg))
	if err != nil {
		return nil, err
	}
	a.sys = sys

	ctr := cfg.Counter
	if ctr == nil {
		ctr = h.Counter()
	}
	if err := sys.Start(ctr, a.trace); err != nil {
		return nil, err
	}
	return a.step, nil
}

func (a *application) table(h hal.HAL, cfg Config) kernel.Table {
	toggleOffset := kernel.Cycles(cfg.ToggleOffset)
	beatOffset := kernel.Cycles(cfg.HeartbeatOffset)

	return kernel.Table{
		Tasks: []kernel.TaskDef{
			TaskToggle: {
				Name:      "toggle",
				Priority:  1,
				Resources: []kernel.ResourceID{ResLED},
				Schedules: []kernel.TaskID{TaskToggle},
				Local:     &toggleState{},
				Run: func(c *kernel.Context) {
					st := c.Local().(*toggleState)
					c.Lock(ResLED, func(v any) {
						_ = v.(hal.GPIOPin).Write(st.on)
					})
					st.on = !st.on
					if err := c.Schedule(TaskToggle, c.Scheduled().Add(toggleOffset)); err != nil {
						a.logf("toggle: reschedule dropped: %v", err)
					}
				},
			},
			TaskHeartbeat: {
				Name:      "heartbeat",
				Priority:  2,
				Resources: []kernel.ResourceID{ResStats},
				Schedules: []kernel.TaskID{TaskHeartbeat},
				Run: func(c *kernel.Context) {
					now := uint32(c.Now())
					c.Lock(ResStats, func(v any) {
						s := v.(*Stats)
						s.Beats++
						s.LastCycle = now
					})
					if err := c.Schedule(TaskHeartbeat, c.Scheduled().Add(beatOffset)); err != nil {
						a.logf("heartbeat: reschedule dropped: %v", err)
					}
				},
			},
		},
		Resources: []kernel.ResourceDef{
			ResLED:   {Name: "led"},
			ResStats: {Name: "stats"},
		},
		Init: kernel.InitDef{
			Schedules: []kernel.TaskID{TaskToggle, TaskHeartbeat},
			Run: func(c *kernel.InitContext) error {
				pin := h.GPIO().PinByName("LED")
				if pin == nil {
					return fmt.Errorf("init: no LED pin")
				}
				if err := pin.Configure(hal.GPIOModeOutput); err != nil {
					return err
				}
				if err := c.Provide(ResLED, pin); err != nil {
					return err
				}
				if err := c.Provide(ResStats, &Stats{}); err != nil {
					return err
				}
				// A failed schedule here is a wiring bug: fatal, not dropped.
				if err := c.Schedule(TaskToggle, c.Start().Add(toggleOffset)); err != nil {
					return err
				}
				return c.Schedule(TaskHeartbeat, c.Start().Add(beatOffset))
			},
		},
		Idle: kernel.IdleDef{
			Resources: []kernel.ResourceID{ResLED, ResStats},
			Run: func(c *kernel.IdleContext) {
				c.Lock(ResStats, func(v any) {
					a.snap = *v.(*Stats)
				})
				c.Lock(ResLED, func(v any) {
					level, err := v.(hal.GPIOPin).Read()
					if err == nil {
						a.led = level
					}
				})
			},
		},
	}
}

// step runs one preemption opportunity and refreshes the panel.
func (a *application) step() error {
	a.sys.Step()
	a.panel.draw(a.led, a.snap, a.sys.Now())
	return nil
}

func (a *application) logf(format string, args ...any) {
	if a.trace == nil {
		return
	}
	a.trace.WriteLineString(fmt.Sprintf(format, args...))
}
