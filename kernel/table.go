package kernel

import "fmt"

const (
	maxTasks     = 32
	maxResources = 32
)

// TaskID indexes a task in the table.
type TaskID uint8

// ResourceID indexes a resource in the table.
type ResourceID uint8

// TaskDef declares one run-to-completion task.
//
// Priority must be at least 1; priority 0 is reserved for the init/idle
// context. Resources and Schedules are the static capability sets: a body
// touching anything outside them is a configuration fault.
type TaskDef struct {
	Name      string
	Priority  uint8
	Run       func(*Context)
	Resources []ResourceID
	Schedules []TaskID

	// Local is the task-local storage slot, owned by the executor and
	// handed to the body for the extent of one dispatch.
	Local any
}

// ResourceDef declares one late-bound resource. The value itself is produced
// by init; the ceiling is computed from the declared users.
type ResourceDef struct {
	Name string
}

// InitDef declares the one-shot initialization phase.
type InitDef struct {
	Run       func(*InitContext) error
	Schedules []TaskID
}

// IdleDef declares the lowest-priority idle body. Run may be nil.
type IdleDef struct {
	Run       func(*IdleContext)
	Resources []ResourceID
}

// Table is the static declaration of every task, resource, and lifecycle
// hook the executor will ever run. It is validated once by New before the
// executor starts; nothing can be registered afterwards.
type Table struct {
	Tasks     []TaskDef
	Resources []ResourceDef
	Init      InitDef
	Idle      IdleDef
}

func (t *Table) validate() error {
	if len(t.Tasks) == 0 {
		return fmt.Errorf("table: no tasks")
	}
	if len(t.Tasks) > maxTasks {
		return fmt.Errorf("table: %d tasks, max %d", len(t.Tasks), maxTasks)
	}
	if len(t.Resources) > maxResources {
		return fmt.Errorf("table: %d resources, max %d", len(t.Resources), maxResources)
	}
	if t.Init.Run == nil {
		return fmt.Errorf("table: no init")
	}

	names := make(map[string]bool, len(t.Tasks))
	for id, td := range t.Tasks {
		if td.Name == "" {
			return fmt.Errorf("table: task %d: empty name", id)
		}
		if names[td.Name] {
			return fmt.Errorf("table: task %d: duplicate name %q", id, td.Name)
		}
		names[td.Name] = true
		if td.Run == nil {
			return fmt.Errorf("table: task %q: nil body", td.Name)
		}
		if td.Priority == 0 {
			return fmt.Errorf("table: task %q: priority 0 is reserved for idle", td.Name)
		}
		for _, r := range td.Resources {
			if int(r) >= len(t.Resources) {
				return fmt.Errorf("table: task %q: unknown resource %d", td.Name, r)
			}
		}
		for _, s := range td.Schedules {
			if int(s) >= len(t.Tasks) {
				return fmt.Errorf("table: task %q: unknown schedule target %d", td.Name, s)
			}
		}
	}

	rnames := make(map[string]bool, len(t.Resources))
	for id, rd := range t.Resources {
		if rd.Name == "" {
			return fmt.Errorf("table: resource %d: empty name", id)
		}
		if rnames[rd.Name] {
			return fmt.Errorf("table: resource %d: duplicate name %q", id, rd.Name)
		}
		rnames[rd.Name] = true
	}

	for _, s := range t.Init.Schedules {
		if int(s) >= len(t.Tasks) {
			return fmt.Errorf("table: init: unknown schedule target %d", s)
		}
	}
	for _, r := range t.Idle.Resources {
		if int(r) >= len(t.Resources) {
			return fmt.Errorf("table: idle: unknown resource %d", r)
		}
	}
	return nil
}

// ceilings computes the priority ceiling of every resource: the highest
// priority among its declared users. Idle counts at priority 0 and so never
// raises a ceiling.
func (t *Table) ceilings() []uint8 {
	c := make([]uint8, len(t.Resources))
	for _, td := range t.Tasks {
		for _, r := range td.Resources {
			if td.Priority > c[r] {
				c[r] = td.Priority
			}
		}
	}
	return c
}

func idMask[T ~uint8](ids []T) uint32 {
	var m uint32
	for _, id := range ids {
		m |= 1 << id
	}
	return m
}
