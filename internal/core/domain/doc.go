// Package domain defines the core business entities for groundwork.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: Cleaned per-page text produced by an extractor
//   - Chunk: A bounded, overlapping segment of a document page
//   - IngestRecord: A ledger entry for a processed inbox file
//   - FeatureRecord: A versioned snapshot of query keyword features
//   - QueryResult: A ranked retrieval response
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
