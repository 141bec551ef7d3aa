//go:build !tinygo

// schedsim runs the demo application against a hand-advanced cycle counter
// and prints the dispatch trace. Useful for eyeballing schedule behavior
// without waiting on wall-clock time: a full LED period simulates instantly.
package main

import (
	"flag"
	"fmt"
	"os"

	"cyclic/app"
	"cyclic/hal"
)

func main() {
	var (
		cycles    uint64
		step      uint64
		toggleOff uint64
		beatOff   uint64
	)
	flag.Uint64Var(&cycles, "cycles", 64_000_000, "Total cycles to simulate.")
	flag.Uint64Var(&step, "step", 1_000_000, "Cycles per executor step.")
	flag.Uint64Var(&toggleOff, "toggle", 8_000_000, "Toggle period in cycles.")
	flag.Uint64Var(&beatOff, "heartbeat", 4_000_000, "Heartbeat period in cycles.")
	flag.Parse()

	if step == 0 || step > 1<<31 || toggleOff == 0 || toggleOff > 1<<31 || beatOff == 0 || beatOff > 1<<31 {
		fmt.Fprintln(os.Stderr, "schedsim: step and periods must be in 1..2^31 cycles")
		os.Exit(2)
	}

	ctr := &hal.ManualCounter{}
	cfg := app.DefaultConfig()
	cfg.ToggleOffset = uint32(toggleOff)
	cfg.HeartbeatOffset = uint32(beatOff)
	cfg.Counter = ctr
	cfg.Trace = stdoutSink{}

	stepFn, err := app.NewWithConfig(hal.New(), cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "schedsim:", err)
		os.Exit(1)
	}

	for done := uint64(0); done < cycles; done += step {
		ctr.Advance(uint32(step))
		if err := stepFn(); err != nil {
			fmt.Fprintln(os.Stderr, "schedsim:", err)
			os.Exit(1)
		}
	}
}

type stdoutSink struct{}

func (stdoutSink) WriteLineString(s string) { fmt.Println(s) }
func (stdoutSink) WriteLineBytes(b []byte)  { fmt.Println(string(b)) }
