/*
Package manager is the coordination layer between storage and everything
that mutates state.

All session transitions funnel through TransitionSession, which appends a
timestamped line to the session's audit log, maintains StartTime and
CompletionTime, persists the record, and publishes a matching event on the
broker. The reconciler, the HTTP API, and the CLI all mutate sessions
through this one path so the audit trail stays consistent no matter who
triggered the change.

	┌────────────┐   ┌──────────┐   ┌──────────┐
	│ reconciler │   │ HTTP API │   │   CLI    │
	└─────┬──────┘   └────┬─────┘   └────┬─────┘
	      └───────────────┼──────────────┘
	                ┌─────▼─────┐
	                │  Manager  │──▶ events.Broker
	                └─────┬─────┘
	                ┌─────▼─────┐
	                │   Store   │
	                └───────────┘

Entity CRUD methods are thin passthroughs to the store; they exist so
callers hold a single dependency rather than both a store and a broker.
*/
package manager
