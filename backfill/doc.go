// Package backfill embeds catalog records that were ingested before their
// vectors could be generated.
//
// The embedding collaborator may lag catalog ingestion; until a record has a
// vector it is excluded from semantic search. The Backfiller sweeps the
// catalog for unembedded active records in batches, generates and normalizes
// their vectors with retry and exponential backoff, and reports progress as
// it goes.
package backfill
