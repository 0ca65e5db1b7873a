/*
Package events provides in-process publish/subscribe for session lifecycle
events.

The manager publishes an event on every status transition and on each
upload/delete outcome; subscribers (the API's event stream, tests,
future notification hooks) receive them over buffered channels.

Delivery is best-effort: a subscriber whose buffer is full misses events
rather than blocking the publisher. The per-session audit trail persisted
in the session document is the durable record; this broker is for live
observation only.
*/
package events
