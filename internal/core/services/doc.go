// Package services implements the driving port interfaces.
// Services contain the core logic of groundwork and orchestrate
// calls to driven ports (adapters):
//
//   - IngestService: deduplicated inbox ingestion into the chunk store
//   - RetrievalService and CachedRetriever: keyword-ranked chunk retrieval
//   - FeatureService: versioned query feature recording
//   - EvaluationService: retrieval metrics and what-if comparisons
//   - Scheduler: the polling loop that drives ingestion
//   - SettingsService: configuration resolution and validation
package services
