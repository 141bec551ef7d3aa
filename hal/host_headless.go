//go:build !tinygo

package hal

import (
	"context"
	"fmt"
	"time"
)

// HeadlessConfig controls the no-window host runner.
type HeadlessConfig struct {
	Enabled bool
	ClockHz uint32 // simulated core clock
	StepHz  int    // executor step rate
	Steps   uint64 // stop after N steps (0 = run forever)
}

// RunHeadless steps the executor on a ticker without opening a window.
func RunHeadless(ctx context.Context, newApp func(HAL) func() error, cfg HeadlessConfig) error {
	if cfg.ClockHz == 0 {
		cfg.ClockHz = DefaultClockHz
	}
	if cfg.StepHz <= 0 {
		cfg.StepHz = 60
	}

	h := NewWithClock(cfg.ClockHz)
	step := newApp(h)

	d := time.Second / time.Duration(cfg.StepHz)
	if d <= 0 {
		return fmt.Errorf("invalid headless step rate: %d", cfg.StepHz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var n uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if step != nil {
				if err := step(); err != nil {
					return err
				}
			}
			n++
			if cfg.Steps > 0 && n >= cfg.Steps {
				return nil
			}
		}
	}
}
