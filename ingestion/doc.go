// Package ingestion provides pipeline orchestration for loading the code catalog.
//
// The Pipeline type manages the catalog write path:
//   - Validating and upserting code records and cross-system mappings
//   - Generating embeddings asynchronously on a worker pool
//   - Checkpointing embedding progress for crash recovery
//
// Errors during async processing are logged but do not fail the ingestion
// operation; records left without a vector are picked up later by the
// backfill job.
package ingestion
