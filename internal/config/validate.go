package config

import "fmt"

// Validate checks bound violations the way rcc/internal/config.ValidateTiming
// and silvus-mock/internal/config.validateConfig do: one error per field,
// first violation wins.
func Validate(cfg *Config) error {
	if cfg.RendezvousPath == "" {
		return fmt.Errorf("rendezvousPath must not be empty")
	}
	if len(cfg.RendezvousPath) > 40 {
		return fmt.Errorf("rendezvousPath %q exceeds the 40-byte wire field width", cfg.RendezvousPath)
	}
	if cfg.MaxSessionCount < 1 {
		return fmt.Errorf("maxSessionCount must be at least 1, got %d", cfg.MaxSessionCount)
	}
	if cfg.MaxWaitList < 1 {
		return fmt.Errorf("maxWaitList must be at least 1, got %d", cfg.MaxWaitList)
	}
	if cfg.MaxReservationSize < 1 {
		return fmt.Errorf("maxReservationSize must be at least 1, got %d", cfg.MaxReservationSize)
	}
	if cfg.AccessDelay < 0 {
		return fmt.Errorf("accessDelayUs must not be negative")
	}
	return nil
}
