//go:build !tinygo

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/rs/zerolog"

	"cyclic/app"
	"cyclic/hal"
)

func main() {
	var (
		hcfg       hal.HeadlessConfig
		configPath string
	)
	flag.BoolVar(&hcfg.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&hcfg.StepHz, "hz", 60, "Executor step rate in headless mode.")
	flag.Uint64Var(&hcfg.Steps, "steps", 0, "Stop after N steps in headless mode (0 = run forever).")
	flag.StringVar(&configPath, "config", "", "Path to a YAML config file.")
	flag.Parse()

	log := zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()

	cfg := app.DefaultConfig()
	if configPath != "" {
		var err error
		cfg, err = app.LoadConfig(configPath)
		if err != nil {
			log.Fatal().Err(err).Msg("load config")
		}
	}
	cfg.Trace = traceSink{l: log}

	log.Info().
		Uint32("clock_hz", cfg.ClockHz).
		Uint32("toggle_offset", cfg.ToggleOffset).
		Uint32("heartbeat_offset", cfg.HeartbeatOffset).
		Bool("headless", hcfg.Enabled).
		Msg("starting")

	newApp := func(h hal.HAL) func() error {
		step, err := app.NewWithConfig(h, cfg)
		if err != nil {
			return func() error { return err }
		}
		return step
	}

	if hcfg.Enabled {
		hcfg.ClockHz = cfg.ClockHz
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, newApp, hcfg); err != nil {
			if err == context.Canceled {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(newApp, cfg.ClockHz); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// traceSink adapts the structured host logger to the HAL line sink the
// executor traces through.
type traceSink struct {
	l zerolog.Logger
}

func (s traceSink) WriteLineString(line string) { s.l.Info().Msg(line) }
func (s traceSink) WriteLineBytes(b []byte)     { s.l.Info().Msg(string(b)) }
