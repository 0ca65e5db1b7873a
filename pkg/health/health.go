package health

import (
	"context"
	"time"
)

// Result represents the outcome of one probe
type Result struct {
	Healthy   bool
	Message   string
	CheckedAt time.Time
	Duration  time.Duration
}

// Checker probes one dependency
type Checker interface {
	Check(ctx context.Context) Result
}

// Config tunes the monitor
type Config struct {
	// Interval is the time between probes.
	Interval time.Duration

	// Timeout is the maximum time to wait for one probe.
	Timeout time.Duration

	// Retries is the number of consecutive failures before the target is
	// considered lost.
	Retries int
}

// DefaultConfig returns the probe cadence used when nothing is configured
func DefaultConfig() Config {
	return Config{
		Interval: 30 * time.Second,
		Timeout:  10 * time.Second,
		Retries:  3,
	}
}

// Status tracks the probe history for a target
type Status struct {
	ConsecutiveFailures int
	LastCheck           time.Time
	LastResult          Result
	Healthy             bool
}
