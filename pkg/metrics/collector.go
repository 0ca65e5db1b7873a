package metrics

import (
	"time"

	"github.com/carouselhq/carousel/pkg/manager"
	"github.com/carouselhq/carousel/pkg/types"
)

// Collector collects metrics from the manager
type Collector struct {
	manager *manager.Manager
	stopCh  chan struct{}
}

// NewCollector creates a new metrics collector
func NewCollector(mgr *manager.Manager) *Collector {
	return &Collector{
		manager: mgr,
		stopCh:  make(chan struct{}),
	}
}

// Start begins collecting metrics
func (c *Collector) Start() {
	ticker := time.NewTicker(15 * time.Second)
	go func() {
		// Collect immediately on start
		c.collect()

		for {
			select {
			case <-ticker.C:
				c.collect()
			case <-c.stopCh:
				ticker.Stop()
				return
			}
		}
	}()
}

// Stop stops the collector
func (c *Collector) Stop() {
	close(c.stopCh)
}

func (c *Collector) collect() {
	c.collectSessionMetrics()
	c.collectAccountMetrics()
	c.collectVideoMetrics()
}

func (c *Collector) collectSessionMetrics() {
	sessions, err := c.manager.ListSessions()
	if err != nil {
		return
	}

	counts := make(map[types.SessionStatus]int)
	for _, session := range sessions {
		counts[session.Status]++
	}

	// Reset every known status so gauges drop to zero when empty
	for _, status := range []types.SessionStatus{
		types.SessionStatusIdle,
		types.SessionStatusUploading,
		types.SessionStatusWaiting,
		types.SessionStatusDeleting,
		types.SessionStatusCompleted,
		types.SessionStatusPaused,
	} {
		SessionsTotal.WithLabelValues(string(status)).Set(float64(counts[status]))
	}
}

func (c *Collector) collectAccountMetrics() {
	accounts, err := c.manager.ListAccounts()
	if err != nil {
		return
	}

	AccountsTotal.Set(float64(len(accounts)))
}

func (c *Collector) collectVideoMetrics() {
	videos, err := c.manager.ListVideos()
	if err != nil {
		return
	}

	VideosTotal.Set(float64(len(videos)))
}
