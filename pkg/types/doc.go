/*
Package types defines the core data structures shared across all Carousel
components.

This package contains only type definitions and small helpers with no
business logic, serving as the common vocabulary between the storage layer,
the reconciler, the device driver, and the API.

# Entity Model

	┌──────────┐       ┌───────────┐       ┌──────────┐
	│ Account  │◄──────┤  Session  ├──────►│  Video   │
	└──────────┘       └─────┬─────┘       └──────────┘
	                         │
	                         ▼
	               upload → wait → delete
	               (repeated per cycle)

Session is the unit of work: it references one account and one video and
tracks the progress of a repeating upload-wait-delete cycle. Accounts and
videos are not owned by sessions; several sessions may reference the same
account over time (never concurrently, by the single-loop design).

# Session Lifecycle

	idle ──► uploading ──► waiting ──► deleting ──► completed
	              ▲                        │
	              └────── auto restart ────┘
	                 (while cycle cap not reached)

	any active status ──► paused   (on failure; external resume required)

The reconciler only polls sessions whose status is in ActiveStatuses().
Idle, completed and paused sessions are inert until an API call moves them
back into the active set.

# Design Principles

 1. Types are serialized to JSON for bbolt storage; fields are exported.
 2. Nullable timestamps and the optional cycle cap use pointer types.
 3. Status enumerations are closed string sets, mirroring their on-disk form.
*/
package types
