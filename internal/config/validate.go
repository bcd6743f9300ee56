package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Validate checks cfg and normalizes case-insensitive fields.
func Validate(cfg *Config) error {
	if cfg == nil {
		return fmt.Errorf("%w: config is nil", ErrInvalidConfig)
	}
	cfg.Profile = strings.TrimSpace(cfg.Profile)
	if cfg.Profile == "" {
		return fmt.Errorf("%w: profile is required", ErrInvalidConfig)
	}
	if cfg.RolloverHour < 0 || cfg.RolloverHour > 23 {
		return fmt.Errorf("%w: rollover_hour %d out of range 0..23", ErrInvalidConfig, cfg.RolloverHour)
	}
	if _, err := cfg.Location(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}

	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	switch cfg.Storage.Backend {
	case BackendLocal, BackendMemory:
	case BackendRemote:
		if cfg.Storage.Remote.Addr == "" {
			return fmt.Errorf("%w: storage.remote.addr is required for the remote backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage backend %q", ErrInvalidConfig, cfg.Storage.Backend)
	}
	if cfg.Storage.CacheSize < 0 {
		return fmt.Errorf("%w: storage.cache_size must not be negative", ErrInvalidConfig)
	}

	if cfg.Log.Level != "" {
		if _, err := zerolog.ParseLevel(strings.ToLower(cfg.Log.Level)); err != nil {
			return fmt.Errorf("%w: log.level: %v", ErrInvalidConfig, err)
		}
	}
	return nil
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	switch strings.TrimSpace(c.Timezone) {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
