/*
Package device controls the physical phone through an external automation
host.

The automation host is a separate process that owns the UI-automation
session (element lookup, tapping, typing) against the social app on the
device. Carousel talks to it over a small JSON-over-HTTP protocol and
treats every call as slow, flaky, and allowed to fail mid-operation.

# Architecture

	┌─────────────┐   JSON/HTTP    ┌─────────────────┐   UI actions   ┌────────┐
	│  Carousel   │ ─────────────► │ Automation host │ ─────────────► │ Phone  │
	│ (reconciler)│ ◄───────────── │  (Appium-style) │ ◄───────────── │  + app │
	└─────────────┘   success/fail └─────────────────┘                └────────┘

# Protocol

Every mutating endpoint returns a uniform envelope:

	{"success": true|false, "message": "...", "deleted": N, "path": "..."}

	POST /session/connect        {"udid": "..."}            establish session
	POST /session/disconnect                                 tear down session
	POST /account/switch         {"username": "..."}         activate account
	POST /video/upload           {"video_path", "description", "hashtags"}
	POST /video/delete-recent    {"count": N}                delete newest N posts
	POST /vpn                    {"action": "connect|disconnect"}
	POST /screenshot                                         capture screen
	GET  /device/info                                        device description

# Failure Model

A refused operation (success=false) and a transport error are equally
"the driver failed"; callers leave persisted state untouched and retry
on a later tick. The driver never retries internally.

# Ownership

The connection is singular and process-wide. Connect is lazy and
idempotent; the reconciler connects on first need and each session handler
owns the driver for its full duration. Introducing concurrent session
processing would require adding explicit locking around operations here
(the current mutex only guards the connected flag).
*/
package device
