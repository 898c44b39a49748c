package scheduler

import (
	"time"
)

// Config controls how often the alert sweep runs and how long a single
// owner's evaluation may take.
type Config struct {
	RunInterval  time.Duration
	OwnerTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		RunInterval:  time.Hour,
		OwnerTimeout: 30 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.OwnerTimeout <= 0 {
		c.OwnerTimeout = defaults.OwnerTimeout
	}
	return c
}
