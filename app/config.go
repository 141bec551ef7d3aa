package app

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"cyclic/hal"
)

// Config controls the demo application. The YAML form carries only the
// timing knobs; hardware overrides are wired by the entry point.
type Config struct {
	ClockHz         uint32 `yaml:"clock_hz"`
	ToggleOffset    uint32 `yaml:"toggle_offset_cycles"`
	HeartbeatOffset uint32 `yaml:"heartbeat_offset_cycles"`

	// Trace overrides the HAL logger as the executor's diagnostic sink.
	Trace hal.Logger `yaml:"-"`
	// Counter overrides the HAL cycle counter (simulation and tests).
	Counter hal.Counter `yaml:"-"`
}

// DefaultConfig is the classic 16 MHz bring-up: toggle every 8e6 cycles
// (0.5s), heartbeat every 4e6.
func DefaultConfig() Config {
	return Config{
		ClockHz:         hal.DefaultClockHz,
		ToggleOffset:    8_000_000,
		HeartbeatOffset: 4_000_000,
	}
}

// LoadConfig reads a YAML config over the defaults. Unknown fields are
// rejected.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("config %q: %w", path, err)
	}
	return cfg, nil
}

func (c Config) validate() error {
	if c.ClockHz == 0 {
		return fmt.Errorf("clock_hz must be positive")
	}
	if c.ToggleOffset == 0 {
		return fmt.Errorf("toggle_offset_cycles must be positive")
	}
	if c.HeartbeatOffset == 0 {
		return fmt.Errorf("heartbeat_offset_cycles must be positive")
	}
	return nil
}
