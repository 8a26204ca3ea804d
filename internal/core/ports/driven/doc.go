// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - ChunkStore: Append-only chunk sink (batch insert, filtered scan)
//   - LedgerStore: Ingested file identities keyed by content hash
//   - FeatureStore: Append-only versioned query features
//   - EvaluationStore: Append-only retrieval metrics
//   - PollStore: poll loop state and cycle history
//   - Inbox: The inbox/done directory contract
//   - TextExtractor: Cleaned per-page text for a file
//   - Segmenter: Splits documents into chunks
//   - ConfigStore: Application configuration
//
// Every store has a SQLite adapter for production and an in-memory
// adapter used as a test double.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
