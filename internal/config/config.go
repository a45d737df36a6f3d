// Package config loads server configuration: built-in defaults, then an
// optional YAML file, then EMSD_* environment variable overrides, then
// validation — the same layered pipeline as rcc/internal/config.Load and
// silvus-mock/internal/config.Load.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"
)

// Config holds every tunable server configuration option.
type Config struct {
	// RendezvousPath is the well-known named FIFO the listener reads
	// SETUP handshakes from.
	RendezvousPath string `yaml:"rendezvousPath"`

	// AccessDelay is the simulated memory-access delay injected around
	// catalog lookups. Zero means off, the required
	// test-friendly default.
	AccessDelay time.Duration `yaml:"accessDelayUs"`

	// MaxSessionCount is the size of the worker pool.
	MaxSessionCount int `yaml:"maxSessionCount"`

	// MaxWaitList is the capacity of the session queue.
	MaxWaitList int `yaml:"maxWaitList"`

	// MaxReservationSize bounds the number of seats accepted by one
	// RESERVE call.
	MaxReservationSize uint64 `yaml:"maxReservationSize"`

	// AuditLogPath is where the audit JSONL stream is written.
	AuditLogPath string `yaml:"auditLogPath"`
}

// Defaults mirror the original server's STATE_ACCESS_DELAY_US=0 test
// default and pick worker-pool/queue sizes sized for a modest process.
func Default() *Config {
	return &Config{
		RendezvousPath:     "/tmp/emsd.fifo",
		AccessDelay:        0,
		MaxSessionCount:    8,
		MaxWaitList:        32,
		MaxReservationSize: 256,
		AuditLogPath:       "logs/audit.jsonl",
	}
}

// Load builds a Config from defaults, an optional "emsd.yaml" in the
// working directory, and EMSD_* environment overrides, then validates it.
func Load() (*Config, error) {
	cfg := Default()

	if _, err := os.Stat("emsd.yaml"); err == nil {
		if err := loadFromFile(cfg, "emsd.yaml"); err != nil {
			return nil, fmt.Errorf("failed to load emsd.yaml: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return err
	}
	// yaml.v2 stores a plain integer into a time.Duration as nanoseconds;
	// accessDelayUs is a count of microseconds.
	var raw struct {
		AccessDelayUs *int64 `yaml:"accessDelayUs"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.AccessDelayUs != nil {
		cfg.AccessDelay = time.Duration(*raw.AccessDelayUs) * time.Microsecond
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("EMSD_RENDEZVOUS_PATH"); v != "" {
		cfg.RendezvousPath = v
	}
	if v := os.Getenv("EMSD_ACCESS_DELAY_US"); v != "" {
		if us, err := strconv.ParseUint(v, 10, 32); err == nil {
			cfg.AccessDelay = time.Duration(us) * time.Microsecond
		}
	}
	if v := os.Getenv("EMSD_MAX_SESSION_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxSessionCount = n
		}
	}
	if v := os.Getenv("EMSD_MAX_WAIT_LIST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.MaxWaitList = n
		}
	}
	if v := os.Getenv("EMSD_MAX_RESERVATION_SIZE"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			cfg.MaxReservationSize = n
		}
	}
	if v := os.Getenv("EMSD_AUDIT_LOG_PATH"); v != "" {
		cfg.AuditLogPath = v
	}
}
