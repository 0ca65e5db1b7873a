package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Session metrics
	SessionsTotal = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "carousel_sessions_total",
			Help: "Total number of sessions by status",
		},
		[]string{"status"},
	)

	AccountsTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "carousel_accounts_total",
			Help: "Total number of registered accounts",
		},
	)

	VideosTotal = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "carousel_videos_total",
			Help: "Total number of stored videos",
		},
	)

	// Reconciler metrics
	ReconcilePassesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "carousel_reconcile_passes_total",
			Help: "Total number of reconciliation passes",
		},
	)

	ReconcileErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "carousel_reconcile_errors_total",
			Help: "Total number of loop-level reconciliation errors",
		},
	)

	ReconcileDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "carousel_reconcile_duration_seconds",
			Help:    "Duration of one reconciliation pass in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	UploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carousel_uploads_total",
			Help: "Total number of upload attempts by result",
		},
		[]string{"result"},
	)

	DeletionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carousel_deletions_total",
			Help: "Total number of deletion runs by result",
		},
		[]string{"result"},
	)

	SessionsPausedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "carousel_sessions_paused_total",
			Help: "Total number of sessions forced into the paused status",
		},
	)

	// Driver metrics
	DriverErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "carousel_driver_errors_total",
			Help: "Total number of device driver failures by operation",
		},
		[]string{"operation"},
	)

	DeviceHostUp = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "carousel_device_host_up",
			Help: "Whether the automation host answers health probes (1 or 0)",
		},
	)
)

func init() {
	// Register all metrics
	prometheus.MustRegister(SessionsTotal)
	prometheus.MustRegister(AccountsTotal)
	prometheus.MustRegister(VideosTotal)
	prometheus.MustRegister(ReconcilePassesTotal)
	prometheus.MustRegister(ReconcileErrorsTotal)
	prometheus.MustRegister(ReconcileDuration)
	prometheus.MustRegister(UploadsTotal)
	prometheus.MustRegister(DeletionsTotal)
	prometheus.MustRegister(SessionsPausedTotal)
	prometheus.MustRegister(DriverErrorsTotal)
	prometheus.MustRegister(DeviceHostUp)
}

// Handler returns the Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
