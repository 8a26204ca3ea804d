// Package sqlite provides the SQLite-backed sinks for groundwork.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. A single database file holds every sink:
//
//   - ChunkStore: segmented chunk rows, keyed by deterministic chunk ids
//   - LedgerStore: the append-only ingestion ledger
//   - FeatureStore: versioned query features
//   - EvaluationStore: retrieval metrics
//   - PollStore: poll loop state and cycle history
//
// # Schema
//
// The schema is managed through versioned migrations embedded from the
// migrations/ directory. Applied versions are recorded in schema_migrations.
//
// # Data Location
//
// By default, the database is stored at ~/.groundwork/data/groundwork.db
//
// # Timestamps
//
// Timestamps are stored as fixed-width UTC strings so that ORDER BY, MIN and MAX
// on the text columns follow time order.
package sqlite
