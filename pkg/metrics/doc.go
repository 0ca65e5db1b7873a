/*
Package metrics exposes Prometheus metrics for the Carousel daemon.

Two kinds of metrics are maintained:

  - Counters and histograms updated inline by the reconciler: passes,
    loop-level errors, pass duration, upload/deletion outcomes, pauses,
    driver failures by operation.
  - Gauges refreshed every 15 seconds by the Collector, which scans the
    store through the manager: sessions by status, account count, video
    count.

The Handler is mounted on the API server at /metrics.

	# HELP carousel_sessions_total Total number of sessions by status
	carousel_sessions_total{status="uploading"} 3
	carousel_sessions_total{status="waiting"} 1
	...
	carousel_reconcile_passes_total 1204
	carousel_uploads_total{result="success"} 7188
*/
package metrics
