/*
Package storage provides persistent state storage for Carousel using BoltDB.

The storage layer persists accounts, videos, sessions and hashtag templates
as JSON documents in an embedded BoltDB database, giving Carousel durable
state with zero external dependencies.

# Architecture

	┌──────────────────── STORAGE LAYER ────────────────────┐
	│                                                        │
	│  Store interface                                       │
	│      │                                                 │
	│      ▼                                                 │
	│  BoltStore ──► carousel.db (single file)               │
	│                  ├── accounts           (JSON values)  │
	│                  ├── videos             (JSON values)  │
	│                  ├── sessions           (JSON values)  │
	│                  └── hashtag_templates  (JSON values)  │
	│                                                        │
	└────────────────────────────────────────────────────────┘

Each entity type lives in its own bucket, keyed by entity ID. Values are
JSON-marshaled structs from pkg/types. Updates are upserts: writing an
entity replaces the previous document wholesale.

# Query Model

Point reads and full-bucket scans only. Secondary lookups (by username, by
status) are linear scans over the bucket, which is acceptable at Carousel's
scale: tens of accounts, hundreds of sessions. ListSessionsByStatus is the
one bounded query, used by the reconciler to fetch its per-tick batch.

# Consistency

BoltDB gives single-file ACID transactions, but Carousel deliberately does
NOT group related updates into one transaction: the reconciler's counter
updates to session, account and video documents are independent writes.
A crash between them leaves advisory counters slightly stale, which the
design accepts (see pkg/reconciler).
*/
package storage
