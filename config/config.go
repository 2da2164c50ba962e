// Package config defines the engine's ambient tunables (§2a/§3's
// EngineConfig) — ring capacity, command/event queue sizes, level-update
// rate, device-monitor poll intervals — with defaults overridable from a
// YAML document via gopkg.in/yaml.v3, the same library
// github.com/doismellburning/samoyed and
// github.com/agalue/sherpa-voice-assistant use for equivalent tunable
// config in the retrieval pack.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every tunable named in SPEC_FULL §3's EngineConfig.
type Config struct {
	RingCapacity          int           `yaml:"ring_capacity"`
	CommandInboxCapacity  int           `yaml:"command_inbox_capacity"`
	EventOutboxCapacity   int           `yaml:"event_outbox_capacity"`
	LevelUpdateHz         float64       `yaml:"level_update_hz"`
	// DeviceMonitorBase and DeviceMonitorMax are loaded and defaulted here
	// but devices.Monitor does not read them; it polls at a fixed
	// 50ms/200ms.
	DeviceMonitorBase     time.Duration `yaml:"device_monitor_base"`
	DeviceMonitorMax      time.Duration `yaml:"device_monitor_max"`
	PreviewPollInterval   time.Duration `yaml:"preview_poll_interval"`
}

// Default returns the spec's named defaults: ring 8192, inbox 32, outbox
// 64, level updates at 60Hz, device monitor 50ms/200ms, preview poll 50ms.
func Default() Config {
	return Config{
		RingCapacity:         8192,
		CommandInboxCapacity: 32,
		EventOutboxCapacity:  64,
		LevelUpdateHz:        60,
		DeviceMonitorBase:    50 * time.Millisecond,
		DeviceMonitorMax:     200 * time.Millisecond,
		PreviewPollInterval:  50 * time.Millisecond,
	}
}

// LevelUpdateInterval converts the configured rate into a ticker period.
func (c Config) LevelUpdateInterval() time.Duration {
	if c.LevelUpdateHz <= 0 {
		return time.Second / 60
	}
	return time.Duration(float64(time.Second) / c.LevelUpdateHz)
}

// Load reads defaults and overlays any fields present in the YAML
// document at path. A missing file is not an error — it simply leaves
// the defaults in place, since persisted engine config is optional.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	return cfg, nil
}
