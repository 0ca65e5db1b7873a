package health

import (
	"context"
	"sync"
	"time"

	"github.com/carouselhq/carousel/pkg/events"
	"github.com/carouselhq/carousel/pkg/log"
	"github.com/carouselhq/carousel/pkg/metrics"
)

// Monitor probes the automation host on an interval and publishes events
// when it is lost or recovers. The reconciler keeps running either way;
// the monitor exists so operators learn about a dead host from an event
// or the metrics endpoint instead of a paused-session pileup.
type Monitor struct {
	checker Checker
	config  Config
	broker  *events.Broker

	mu     sync.Mutex
	status Status

	stopCh chan struct{}
	doneCh chan struct{}
}

// NewMonitor creates a monitor over the given checker
func NewMonitor(checker Checker, cfg Config, broker *events.Broker) *Monitor {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultConfig().Interval
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.Retries <= 0 {
		cfg.Retries = DefaultConfig().Retries
	}

	return &Monitor{
		checker: checker,
		config:  cfg,
		broker:  broker,
		status:  Status{Healthy: true},
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
}

// Start begins probing in the background
func (m *Monitor) Start() {
	go m.run()
}

// Stop stops the monitor
func (m *Monitor) Stop() {
	close(m.stopCh)
	<-m.doneCh
}

// Status returns a copy of the current probe status
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

func (m *Monitor) run() {
	defer close(m.doneCh)

	ticker := time.NewTicker(m.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-ticker.C:
			m.probe()
		}
	}
}

func (m *Monitor) probe() {
	ctx, cancel := context.WithTimeout(context.Background(), m.config.Timeout)
	result := m.checker.Check(ctx)
	cancel()

	m.mu.Lock()
	m.status.LastCheck = result.CheckedAt
	m.status.LastResult = result

	if result.Healthy {
		wasLost := !m.status.Healthy
		m.status.ConsecutiveFailures = 0
		m.status.Healthy = true
		m.mu.Unlock()

		metrics.DeviceHostUp.Set(1)
		if wasLost {
			logger := log.WithComponent("health")
			logger.Info().Msg("automation host recovered")
			m.broker.Publish(&events.Event{
				Type:    events.EventDeviceConnected,
				Message: "automation host recovered",
			})
		}
		return
	}

	m.status.ConsecutiveFailures++
	failures := m.status.ConsecutiveFailures
	justLost := m.status.Healthy && failures >= m.config.Retries
	if justLost {
		m.status.Healthy = false
	}
	m.mu.Unlock()

	logger := log.WithComponent("health")
	logger.Warn().
		Str("message", result.Message).
		Int("consecutive_failures", failures).
		Msg("automation host probe failed")

	if justLost {
		metrics.DeviceHostUp.Set(0)
		m.broker.Publish(&events.Event{
			Type:    events.EventDeviceLost,
			Message: result.Message,
		})
	}
}
