package kernel

// Context is the capability bundle handed to a task body for one dispatch:
// the Instant the activation was due, the task-local slot, and lock/schedule
// rights limited to the task's static declarations.
type Context struct {
	s         *System
	id        TaskID
	scheduled Instant
}

// Scheduled returns the Instant this activation was due, which is the stable
// base for periodic re-scheduling (free of dispatch jitter).
func (c *Context) Scheduled() Instant { return c.scheduled }

// Now reads the monotonic counter.
func (c *Context) Now() Instant { return c.s.Now() }

// Local returns the task-local storage slot.
func (c *Context) Local() any { return c.s.tasks[c.id].local }

// Lock runs fn with exclusive access to a declared resource's value under
// the ceiling protocol. Locking an undeclared resource panics.
func (c *Context) Lock(r ResourceID, fn func(any)) {
	ts := &c.s.tasks[c.id]
	c.s.checkDeclared(ts.resMask, r, ts.def.Name)
	c.s.lock(r, fn)
}

// Schedule arms a future activation of a declared target task. Scheduling an
// undeclared target panics; scheduling a task that is already pending
// returns ErrAlreadyScheduled and leaves the pending activation armed.
func (c *Context) Schedule(target TaskID, at Instant) error {
	ts := &c.s.tasks[c.id]
	c.s.checkSchedulable(ts.schedMask, target, ts.def.Name)
	return c.s.schedule(target, at)
}

// InitContext is the capability bundle for the one-shot init phase. The
// counter is armed but semantically frozen during init; Start is the only
// valid notion of "now" here.
type InitContext struct {
	s     *System
	start Instant
}

// Start returns the Instant the counter was armed at.
func (c *InitContext) Start() Instant { return c.start }

// Provide binds a late resource value. Every declared resource must be
// provided exactly once before init returns.
func (c *InitContext) Provide(r ResourceID, v any) error {
	return c.s.provide(r, v)
}

// Schedule arms the first activation of a declared target task.
func (c *InitContext) Schedule(target TaskID, at Instant) error {
	c.s.checkSchedulable(c.s.initSchedMask, target, "init")
	return c.s.schedule(target, at)
}

// IdleContext is the capability bundle for the idle body. Idle runs at
// priority 0; locking a shared resource from idle raises the system ceiling
// and defers every task at or below that ceiling until the lock is released.
type IdleContext struct {
	s *System
}

// Lock runs fn with exclusive access to a declared resource's value.
func (c *IdleContext) Lock(r ResourceID, fn func(any)) {
	c.s.checkDeclared(c.s.idleResMask, r, "idle")
	c.s.lock(r, fn)
}

// Now reads the monotonic counter.
func (c *IdleContext) Now() Instant { return c.s.Now() }
