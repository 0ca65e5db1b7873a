/*
Package log provides structured logging for Carousel using zerolog.

A single global logger is initialized once at process start via Init and
shared by every component. Components derive child loggers carrying a
"component" field; session-scoped code paths attach session_id, account_id
or video_id fields so that one session's activity can be filtered out of
the combined stream.

# Usage

	log.Init(log.Config{Level: log.InfoLevel, JSONOutput: true})

	logger := log.WithComponent("reconciler")
	logger.Info().Str("session_id", id).Msg("session transitioned to waiting")

Console output (the default) is for interactive runs; JSON output is for
production where logs are shipped and indexed.

Note that session audit trails are a separate mechanism: the reconciler
appends human-readable lines to each session's persisted Logs field. The
process log and the per-session audit log intentionally overlap.
*/
package log
