/*
Package api serves the control-plane REST interface the dashboard and CLI
talk to.

The API manages records and issues direct device commands; it never drives
session cycles itself. Sessions created here start in the uploading phase
and are picked up by the reconciler on its next pass. The split keeps the
device in one pair of hands: the reconciler owns it during cycles, the
API's device endpoints are for manual setup and troubleshooting between
them.

Routes are grouped under /api by resource (accounts, videos,
hashtag-templates, carousel-sessions, device), with /api/status as a
one-call dashboard summary and Prometheus metrics on /metrics. Request
and response bodies use snake_case JSON, matching what the existing
frontend sends.
*/
package api
