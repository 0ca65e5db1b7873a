/*
Package reconciler implements the background loop that drives sessions
through their upload-wait-delete cycle.

# State machine

Each session moves through a fixed set of phases. The reconciler owns the
active phases; idle, completed and paused sessions are only re-activated
by an operator through the API or CLI.

	idle ──▶ uploading ──▶ waiting ──▶ deleting ──▶ completed
	              ▲                        │
	              └──── auto-restart ──────┘
	      (deletion or internal error) ──▶ paused

One pass handles each active session exactly once:

  - uploading: upload one video, or move to waiting with a deletion timer
    once the target count is reached. Driver failures during an upload
    are logged and retried on the next pass; the session stays in
    uploading.
  - waiting: no-op until the timer elapses, then move to deleting
  - deleting: remove the uploaded videos, then restart the cycle or
    complete the session. A failed deletion pauses the session.

# Pacing

The loop sleeps a fixed interval between passes, measured pass-end to
pass-start, so long device operations stretch the cadence rather than
stacking up. A pass-level failure switches the next sleep to a longer
backoff. Per-session failures never affect pacing: a session that cannot
make progress is retried or paused and the pass moves on. Pausing also
clears any pending deletion timer; resume derives the phase to re-enter
from the upload counters.

The device is a single exclusive resource, so sessions are processed
sequentially and the reconciler is the only driver caller during normal
operation.
*/
package reconciler
