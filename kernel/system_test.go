package kernel

import (
	"errors"
	"testing"
)

// testCounter is a hand-advanced cycle counter.
type testCounter struct {
	started bool
	c       uint32
}

func (t *testCounter) Start()       { t.started = true }
func (t *testCounter) Read() uint32 { return t.c }

func noopInit(*InitContext) error { return nil }

func startSystem(t *testing.T, tbl Table) (*System, *testCounter) {
	t.Helper()
	sys, err := New(tbl)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ctr := &testCounter{}
	if err := sys.Start(ctr, nil); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !ctr.started {
		t.Fatal("Start() did not arm the counter")
	}
	return sys, ctr
}

func TestStartOnce(t *testing.T) {
	sys, ctr := startSystem(t, Table{
		Tasks: []TaskDef{{Name: "a", Priority: 1, Run: func(*Context) {}}},
		Init:  InitDef{Run: noopInit},
	})
	if err := sys.Start(ctr, nil); !errors.Is(err, ErrStarted) {
		t.Fatalf("second Start() = %v, want ErrStarted", err)
	}
}

func TestInitMustProvideAllResources(t *testing.T) {
	sys, err := New(Table{
		Tasks:     []TaskDef{{Name: "a", Priority: 1, Run: func(*Context) {}, Resources: []ResourceID{0}}},
		Resources: []ResourceDef{{Name: "led"}},
		Init:      InitDef{Run: noopInit},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := sys.Start(&testCounter{}, nil); err == nil {
		t.Fatal("Start() = nil, want missing-resource error")
	}
}

func TestInitProvideTwice(t *testing.T) {
	sys, err := New(Table{
		Tasks:     []TaskDef{{Name: "a", Priority: 1, Run: func(*Context) {}}},
		Resources: []ResourceDef{{Name: "led"}},
		Init: InitDef{Run: func(c *InitContext) error {
			if err := c.Provide(0, 1); err != nil {
				return err
			}
			return c.Provide(0, 2)
		}},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := sys.Start(&testCounter{}, nil); err == nil {
		t.Fatal("Start() = nil, want double-provide error")
	}
}

func TestDispatchOrderByDue(t *testing.T) {
	var order []string
	record := func(name string) func(*Context) {
		return func(*Context) { order = append(order, name) }
	}

	sys, ctr := startSystem(t, Table{
		Tasks: []TaskDef{
			{Name: "a", Priority: 1, Run: record("a")},
			{Name: "b", Priority: 1, Run: record("b")},
			{Name: "c", Priority: 1, Run: record("c")},
		},
		Init: InitDef{
			Schedules: []TaskID{0, 1, 2},
			Run: func(c *InitContext) error {
				// Scheduled out of order on purpose.
				if err := c.Schedule(2, c.Start().Add(30)); err != nil {
					return err
				}
				if err := c.Schedule(0, c.Start().Add(10)); err != nil {
					return err
				}
				return c.Schedule(1, c.Start().Add(20))
			},
		},
	})

	for ctr.c = 0; ctr.c <= 40; ctr.c++ {
		sys.Step()
	}
	want := []string{"a", "b", "c"}
	if len(order) != len(want) {
		t.Fatalf("dispatched %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("dispatched %v, want %v", order, want)
		}
	}
}

func TestDispatchPriorityTieBreak(t *testing.T) {
	var order []string
	record := func(name string) func(*Context) {
		return func(*Context) { order = append(order, name) }
	}

	sys, ctr := startSystem(t, Table{
		Tasks: []TaskDef{
			{Name: "lo", Priority: 1, Run: record("lo")},
			{Name: "hi", Priority: 3, Run: record("hi")},
			{Name: "mid", Priority: 2, Run: record("mid")},
		},
		Init: InitDef{
			Schedules: []TaskID{0, 1, 2},
			Run: func(c *InitContext) error {
				// All due at the same Instant: priority decides.
				at := c.Start().Add(5)
				for id := TaskID(0); id < 3; id++ {
					if err := c.Schedule(id, at); err != nil {
						return err
					}
				}
				return nil
			},
		},
	})

	ctr.c = 5
	sys.Step()
	want := []string{"hi", "mid", "lo"}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("dispatched %v, want %v", order, want)
		}
	}
}

func TestScheduleTwiceFails(t *testing.T) {
	ran := 0
	sys, ctr := startSystem(t, Table{
		Tasks: []TaskDef{{Name: "a", Priority: 1, Run: func(*Context) { ran++ }}},
		Init: InitDef{
			Schedules: []TaskID{0},
			Run: func(c *InitContext) error {
				if err := c.Schedule(0, c.Start().Add(10)); err != nil {
					return err
				}
				if err := c.Schedule(0, c.Start().Add(99)); !errors.Is(err, ErrAlreadyScheduled) {
					t.Fatalf("second Schedule() = %v, want ErrAlreadyScheduled", err)
				}
				return nil
			},
		},
	})

	// The original activation stays armed at +10, not +99.
	ctr.c = 10
	sys.Step()
	if ran != 1 {
		t.Fatalf("ran = %d, want 1", ran)
	}
	ctr.c = 100
	sys.Step()
	if ran != 1 {
		t.Fatalf("ran = %d after second window, want 1", ran)
	}
}

func TestSelfReschedule(t *testing.T) {
	var due []uint32
	sys, ctr := startSystem(t, Table{
		Tasks: []TaskDef{{
			Name:      "tick",
			Priority:  1,
			Schedules: []TaskID{0},
			Run: func(c *Context) {
				due = append(due, uint32(c.Scheduled()))
				if err := c.Schedule(0, c.Scheduled().Add(100)); err != nil {
					t.Fatalf("reschedule: %v", err)
				}
			},
		}},
		Init: InitDef{
			Schedules: []TaskID{0},
			Run: func(c *InitContext) error {
				return c.Schedule(0, c.Start().Add(100))
			},
		},
	})

	for ctr.c = 0; ctr.c <= 350; ctr.c += 50 {
		sys.Step()
	}
	want := []uint32{100, 200, 300}
	if len(due) != len(want) {
		t.Fatalf("dispatched at %v, want %v", due, want)
	}
	for i := range want {
		if due[i] != want[i] {
			t.Fatalf("dispatched at %v, want %v", due, want)
		}
	}
}

func TestRescheduleForElapsedInstantRunsSamePoll(t *testing.T) {
	ran := 0
	sys, ctr := startSystem(t, Table{
		Tasks: []TaskDef{{
			Name:      "burst",
			Priority:  1,
			Schedules: []TaskID{0},
			Run: func(c *Context) {
				ran++
				if ran < 3 {
					_ = c.Schedule(0, c.Scheduled())
				}
			},
		}},
		Init: InitDef{
			Schedules: []TaskID{0},
			Run: func(c *InitContext) error {
				return c.Schedule(0, c.Start())
			},
		},
	})

	ctr.c = 0
	sys.Step()
	if ran != 3 {
		t.Fatalf("ran = %d after one step, want 3", ran)
	}
}

func TestCeilingDefersLowAdmitsHigh(t *testing.T) {
	var order []string
	sys, ctr := startSystem(t, Table{
		Tasks: []TaskDef{
			{Name: "lo", Priority: 1, Resources: []ResourceID{0}, Run: func(*Context) { order = append(order, "lo") }},
			{Name: "hi", Priority: 2, Run: func(*Context) { order = append(order, "hi") }},
		},
		Resources: []ResourceDef{{Name: "shared"}}, // ceiling 1 (used by lo and idle)
		Idle:      IdleDef{Resources: []ResourceID{0}},
		Init: InitDef{
			Schedules: []TaskID{0, 1},
			Run: func(c *InitContext) error {
				if err := c.Provide(0, nil); err != nil {
					return err
				}
				if err := c.Schedule(0, c.Start().Add(5)); err != nil {
					return err
				}
				return c.Schedule(1, c.Start().Add(5))
			},
		},
	})

	// Poll from inside a held lock, as a counter interrupt would while the
	// idle context sits in a critical section. The resource ceiling is 1,
	// so "lo" (priority 1) must be deferred and "hi" (priority 2) admitted.
	ctr.c = 5
	sys.lock(0, func(any) {
		order = append(order, "locked")
		sys.poll(5)
	})
	sys.poll(5)

	want := []string{"locked", "hi", "lo"}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestCeilingRestoredAfterLock(t *testing.T) {
	sys, _ := startSystem(t, Table{
		Tasks: []TaskDef{
			{Name: "a", Priority: 3, Resources: []ResourceID{0}, Run: func(*Context) {}},
		},
		Resources: []ResourceDef{{Name: "r"}},
		Idle:      IdleDef{Resources: []ResourceID{0}},
		Init: InitDef{Run: func(c *InitContext) error {
			return c.Provide(0, nil)
		}},
	})

	sys.lock(0, func(any) {
		if sys.ceiling != 3 {
			t.Fatalf("ceiling = %d inside lock, want 3", sys.ceiling)
		}
		sys.lock(0, func(any) {
			if sys.ceiling != 3 {
				t.Fatalf("ceiling = %d inside nested lock, want 3", sys.ceiling)
			}
		})
		if sys.ceiling != 3 {
			t.Fatalf("ceiling = %d after nested unlock, want 3", sys.ceiling)
		}
	})
	if sys.ceiling != 0 {
		t.Fatalf("ceiling = %d after unlock, want 0", sys.ceiling)
	}
}

func TestUndeclaredResourcePanics(t *testing.T) {
	sys, ctr := startSystem(t, Table{
		Tasks: []TaskDef{{
			Name:     "rogue",
			Priority: 1,
			Run: func(c *Context) {
				c.Lock(0, func(any) {})
			},
		}},
		Resources: []ResourceDef{{Name: "led"}},
		Init: InitDef{
			Schedules: []TaskID{0},
			Run: func(c *InitContext) error {
				if err := c.Provide(0, nil); err != nil {
					return err
				}
				return c.Schedule(0, c.Start())
			},
		},
	})

	defer func() {
		if recover() == nil {
			t.Fatal("Lock of undeclared resource did not panic")
		}
	}()
	ctr.c = 1
	sys.Step()
}

func TestUndeclaredScheduleTargetPanics(t *testing.T) {
	sys, ctr := startSystem(t, Table{
		Tasks: []TaskDef{
			{Name: "a", Priority: 1, Run: func(c *Context) {
				_ = c.Schedule(1, c.Scheduled().Add(1))
			}},
			{Name: "b", Priority: 1, Run: func(*Context) {}},
		},
		Init: InitDef{
			Schedules: []TaskID{0},
			Run: func(c *InitContext) error {
				return c.Schedule(0, c.Start())
			},
		},
	})

	defer func() {
		if recover() == nil {
			t.Fatal("Schedule of undeclared target did not panic")
		}
	}()
	ctr.c = 1
	sys.Step()
}

func TestLockPassesLateResourceValue(t *testing.T) {
	type port struct{ level bool }
	p := &port{}

	sys, ctr := startSystem(t, Table{
		Tasks: []TaskDef{{
			Name:      "drive",
			Priority:  1,
			Resources: []ResourceID{0},
			Run: func(c *Context) {
				c.Lock(0, func(v any) {
					v.(*port).level = true
				})
			},
		}},
		Resources: []ResourceDef{{Name: "port"}},
		Init: InitDef{
			Schedules: []TaskID{0},
			Run: func(c *InitContext) error {
				if err := c.Provide(0, p); err != nil {
					return err
				}
				return c.Schedule(0, c.Start().Add(1))
			},
		},
	})

	ctr.c = 1
	sys.Step()
	if !p.level {
		t.Fatal("locked resource value was not the provided port")
	}
}
