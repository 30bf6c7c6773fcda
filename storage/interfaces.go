package storage

import (
	"context"

	"github.com/mmakkena/medcodeapi/core"
)

// Repository provides common storage operations shared across all repositories.
// Implementations must be thread-safe and support concurrent access.
type Repository interface {
	// WithTransaction executes a function within a transaction.
	// If fn returns an error, the transaction is rolled back.
	// If fn returns nil, the transaction is committed.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// CatalogRepository provides read and write operations over the code catalog.
// The retrieval engine only uses the read side; the write side belongs to the
// ingestion collaborator.
type CatalogRepository interface {
	Repository

	// AddCodeRecords upserts one or more code records.
	// Record IDs are derived from (system, code, version year), so adding the
	// same ref twice overwrites the earlier row.
	// Sets InsertedAt/UpdatedAt timestamps.
	AddCodeRecords(ctx context.Context, records ...*core.CodeRecord) ([]*core.CodeRecord, error)

	// UpdateCodeRecords updates existing code records.
	// Updates the UpdatedAt timestamp automatically.
	// Returns ErrNotFound if any record doesn't exist.
	UpdateCodeRecords(ctx context.Context, records ...*core.CodeRecord) ([]*core.CodeRecord, error)

	// DeleteCodeRecords removes code records by their IDs.
	// Also removes associated index entries.
	// Returns ErrNotFound if any record doesn't exist.
	DeleteCodeRecords(ctx context.Context, ids ...core.ID) error

	// GetCodeRecord retrieves a single code record by ID.
	// Returns ErrNotFound if the record doesn't exist.
	GetCodeRecord(ctx context.Context, id core.ID) (*core.CodeRecord, error)

	// GetCodeRecords retrieves multiple code records by their IDs.
	// Returns only the records that exist (no error for missing records).
	GetCodeRecords(ctx context.Context, ids ...core.ID) ([]*core.CodeRecord, error)

	// GetByRef retrieves a record by its natural key.
	// If versionYear is 0, the most recent version year for the ref is returned.
	// Returns ErrNotFound if no matching record exists.
	GetByRef(ctx context.Context, system core.CodeSystem, code string, versionYear int) (*core.CodeRecord, error)

	// PrefixScan returns active records whose code starts with the given
	// prefix, ordered by code then version year. system narrows the scan to
	// one code system; CodeSystemAny scans all of them. versionYear of 0
	// matches every version year. Returns up to limit records.
	PrefixScan(ctx context.Context, system core.CodeSystem, prefix string, versionYear, limit int) ([]*core.CodeRecord, error)

	// ScanActive iterates every active record, optionally narrowed to a
	// single code system and version year, calling fn for each. Iteration
	// stops on the first error from fn or when ctx is done.
	ScanActive(ctx context.Context, system core.CodeSystem, versionYear int, fn func(*core.CodeRecord) error) error

	// FindSimilar finds active code records similar to the given vector,
	// optionally narrowed to a single code system and version year.
	// Records without an embedding are silently excluded.
	// Returns up to limit matches ordered by cosine similarity (highest first),
	// keeping only matches with cosine >= minCosine.
	FindSimilar(ctx context.Context, vector []float32, system core.CodeSystem, versionYear int, minCosine float32, limit int) ([]*core.SimilarityMatch, error)

	// MissingVectors returns up to limit active records that have no
	// embedding yet, for the backfill job.
	MissingVectors(ctx context.Context, limit int) ([]*core.CodeRecord, error)
}

// MappingRepository provides operations over cross-system mapping edges.
type MappingRepository interface {
	Repository

	// AddMappings adds one or more mapping edges.
	// Adding an identical edge twice is idempotent.
	AddMappings(ctx context.Context, edges ...*core.MappingEdge) error

	// GetMappings retrieves every edge originating from (system, code),
	// ordered by descending confidence.
	GetMappings(ctx context.Context, system core.CodeSystem, code string) ([]*core.MappingEdge, error)
}

// CheckpointRepository persists ingestion-processor progress markers.
type CheckpointRepository interface {
	// SaveCheckpoint persists a checkpoint for a processor type.
	SaveCheckpoint(ctx context.Context, checkpoint *core.Checkpoint) error

	// LoadCheckpoint retrieves the checkpoint for a processor type.
	// Returns nil, nil if no checkpoint exists.
	LoadCheckpoint(ctx context.Context, processorType string) (*core.Checkpoint, error)
}
