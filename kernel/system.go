package kernel

import (
	"errors"
	"fmt"
)

var (
	// ErrAlreadyScheduled is returned by Schedule when the target task
	// already has a pending activation.
	ErrAlreadyScheduled = errors.New("kernel: task already scheduled")

	// ErrStarted is returned by Start when the system has already left
	// the init phase. Init runs exactly once.
	ErrStarted = errors.New("kernel: already started")
)

type phase uint8

const (
	phaseNew phase = iota
	phaseInit
	phaseRunning
)

func (p phase) String() string {
	switch p {
	case phaseNew:
		return "new"
	case phaseInit:
		return "init"
	case phaseRunning:
		return "running"
	default:
		return "unknown"
	}
}

// Trace is the diagnostic line sink for lifecycle events. hal.Logger
// satisfies it. A nil Trace drops everything.
type Trace interface {
	WriteLineString(s string)
}

type taskState struct {
	def       TaskDef
	resMask   uint32
	schedMask uint32
	local     any
}

type resourceState struct {
	name     string
	ceiling  uint8
	value    any
	provided bool
}

// System is the static executor: task table, activation queue, resource
// store, and lifecycle phase.
type System struct {
	tasks     []taskState
	resources []resourceState

	init          InitDef
	initSchedMask uint32
	idle          IdleDef
	idleResMask   uint32

	phase   phase
	counter Counter
	trace   Trace

	acts    [maxTasks]activation
	pending uint32
	seq     uint64

	// ceiling is the current system ceiling: the highest ceiling among
	// held resources. Tasks at or below it are not dispatched.
	ceiling uint8
}

// New validates the table and returns an executor in the pre-init phase.
func New(t Table) (*System, error) {
	if err := t.validate(); err != nil {
		return nil, err
	}

	s := &System{
		init:          t.Init,
		initSchedMask: idMask(t.Init.Schedules),
		idle:          t.Idle,
		idleResMask:   idMask(t.Idle.Resources),
	}

	s.tasks = make([]taskState, len(t.Tasks))
	for id, td := range t.Tasks {
		s.tasks[id] = taskState{
			def:       td,
			resMask:   idMask(td.Resources),
			schedMask: idMask(td.Schedules),
			local:     td.Local,
		}
	}

	ceil := t.ceilings()
	s.resources = make([]resourceState, len(t.Resources))
	for id, rd := range t.Resources {
		s.resources[id] = resourceState{name: rd.Name, ceiling: ceil[id]}
	}
	return s, nil
}

// Start arms the counter and runs the init phase exactly once.
//
// Init receives the counter's start Instant (the counter must not be read
// directly during init) and must provide every declared resource value
// before returning. After Start succeeds the system is in the idle phase and
// Step drives dispatch.
func (s *System) Start(c Counter, tr Trace) error {
	if s.phase != phaseNew {
		return ErrStarted
	}
	s.phase = phaseInit
	s.counter = c
	s.trace = tr

	c.Start()
	start := Instant(c.Read())
	s.tracef("phase %s @ %d", s.phase, uint32(start))

	ictx := &InitContext{s: s, start: start}
	if err := s.init.Run(ictx); err != nil {
		return fmt.Errorf("init: %w", err)
	}
	for id := range s.resources {
		if !s.resources[id].provided {
			return fmt.Errorf("init: resource %q not provided", s.resources[id].name)
		}
	}

	s.phase = phaseRunning
	s.tracef("phase %s", s.phase)
	return nil
}

// Step is the preemption point: it dispatches every due, eligible activation
// in priority order, then runs the idle body once. Outside the running phase
// it does nothing.
func (s *System) Step() {
	if s.phase != phaseRunning {
		return
	}
	s.poll(Instant(s.counter.Read()))
	if s.idle.Run != nil {
		s.idle.Run(&IdleContext{s: s})
	}
}

// Now reads the monotonic counter. Meaningless before Start.
func (s *System) Now() Instant {
	if s.counter == nil {
		return 0
	}
	return Instant(s.counter.Read())
}

func (s *System) tracef(format string, args ...any) {
	if s.trace == nil {
		return
	}
	s.trace.WriteLineString(fmt.Sprintf(format, args...))
}
