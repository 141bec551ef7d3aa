package kernel

// activation is a pending deferred dispatch of one task. At most one exists
// per task, tracked by the pending bitmask; seq orders activations that are
// otherwise identical (same priority, same due Instant).
type activation struct {
	due Instant
	seq uint64
}

// schedule arms an activation for the target task. The caller has already
// checked the schedule capability.
func (s *System) schedule(target TaskID, at Instant) error {
	if s.pending&(1<<target) != 0 {
		return ErrAlreadyScheduled
	}
	s.seq++
	s.acts[target] = activation{due: at, seq: s.seq}
	s.pending |= 1 << target
	return nil
}

// selectDue picks the next activation to dispatch at time now: among due,
// eligible tasks the highest priority wins, then the earliest due Instant,
// then schedule-call order. Eligible means priority strictly above the
// current system ceiling.
func (s *System) selectDue(now Instant) (TaskID, bool) {
	var (
		best  TaskID
		found bool
	)
	for id := range s.tasks {
		tid := TaskID(id)
		if s.pending&(1<<tid) == 0 {
			continue
		}
		if !s.acts[tid].due.Elapsed(now) {
			continue
		}
		if s.tasks[tid].def.Priority <= s.ceiling {
			continue
		}
		if !found || s.better(tid, best) {
			best = tid
			found = true
		}
	}
	return best, found
}

func (s *System) better(a, b TaskID) bool {
	pa, pb := s.tasks[a].def.Priority, s.tasks[b].def.Priority
	if pa != pb {
		return pa > pb
	}
	aa, ab := s.acts[a], s.acts[b]
	if aa.due != ab.due {
		return aa.due.Before(ab.due)
	}
	return aa.seq < ab.seq
}

// poll dispatches due activations until none is eligible. A body that
// schedules for a time already reached is picked up within the same poll,
// still in priority order.
func (s *System) poll(now Instant) int {
	n := 0
	for {
		id, ok := s.selectDue(now)
		if !ok {
			return n
		}
		s.dispatch(id)
		n++
	}
}

// dispatch consumes the activation and runs the task body to completion.
// The pending bit is cleared first so the body may immediately re-schedule
// its own task.
func (s *System) dispatch(id TaskID) {
	act := s.acts[id]
	s.pending &^= 1 << id

	ts := &s.tasks[id]
	s.tracef("dispatch %s @ %d", ts.def.Name, uint32(act.due))
	ts.def.Run(&Context{s: s, id: id, scheduled: act.due})
}
