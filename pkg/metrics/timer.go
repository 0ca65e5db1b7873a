package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Timer measures the duration of an operation
type Timer struct {
	start time.Time
}

// NewTimer starts a new timer
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the time since the timer started
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// ObserveDuration records the elapsed time into the given observer
func (t *Timer) ObserveDuration(observer prometheus.Observer) {
	observer.Observe(t.Elapsed().Seconds())
}
