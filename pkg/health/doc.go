/*
Package health monitors the automation host.

A Monitor probes the host's status endpoint on an interval and tracks
consecutive failures. Once the failure threshold is crossed it publishes
a device-lost event and drops the host gauge to zero; the first healthy
probe afterwards publishes recovery. Probing is observational only: the
reconciler keeps its own lazy-connect behavior and sessions are never
paused by a failed probe.
*/
package health
