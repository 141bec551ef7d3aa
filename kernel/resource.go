package kernel

import "fmt"

// lock grants fn exclusive access to the resource value while the system
// ceiling is raised to the resource's ceiling. The ceiling is restored on
// every exit path, including a panicking body. Locks nest; the ceiling only
// ever goes up within a nest.
func (s *System) lock(id ResourceID, fn func(any)) {
	r := &s.resources[id]
	prev := s.ceiling
	if r.ceiling > s.ceiling {
		s.ceiling = r.ceiling
	}
	defer func() { s.ceiling = prev }()
	fn(r.value)
}

// checkDeclared panics on access outside the static declaration set. This is
// a configuration fault, not a runtime error: the table was wrong, and the
// program cannot meaningfully continue.
func (s *System) checkDeclared(mask uint32, id ResourceID, who string) {
	if int(id) >= len(s.resources) {
		panic(fmt.Sprintf("kernel: %s locks unknown resource %d", who, id))
	}
	if mask&(1<<id) == 0 {
		panic(fmt.Sprintf("kernel: %s locks undeclared resource %q", who, s.resources[id].name))
	}
}

func (s *System) checkSchedulable(mask uint32, target TaskID, who string) {
	if int(target) >= len(s.tasks) {
		panic(fmt.Sprintf("kernel: %s schedules unknown task %d", who, target))
	}
	if mask&(1<<target) == 0 {
		panic(fmt.Sprintf("kernel: %s schedules undeclared task %q", who, s.tasks[target].def.Name))
	}
}

func (s *System) provide(id ResourceID, v any) error {
	if int(id) >= len(s.resources) {
		return fmt.Errorf("provide: unknown resource %d", id)
	}
	r := &s.resources[id]
	if r.provided {
		return fmt.Errorf("provide: resource %q provided twice", r.name)
	}
	r.value = v
	r.provided = true
	return nil
}
