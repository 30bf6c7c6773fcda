package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"github.com/mmakkena/medcodeapi/ai"
	"github.com/mmakkena/medcodeapi/core"
	"github.com/mmakkena/medcodeapi/storage"
	"github.com/panjf2000/ants/v2"
)

// Pipeline orchestrates the ingestion of catalog records and mappings.
// Records are written synchronously; embedding generation runs asynchronously
// on a worker pool so catalog writes never wait on the embedding service.
type Pipeline struct {
	catalog       storage.CatalogRepository
	mappings      storage.MappingRepository
	checkpoints   storage.CheckpointRepository
	embeddingPool *ants.Pool
	embeddingProc processor
	dimensions    int
	logger        *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent processing.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.embeddingPool != nil {
			p.embeddingPool.Release()
		}

		embeddingPool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.embeddingPool = embeddingPool
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// WithDimensions sets the expected embedding dimensionality. Generated
// vectors that do not match are rejected. 0 disables the check.
func WithDimensions(dimensions int) Option {
	return func(p *Pipeline) error {
		if dimensions < 0 {
			return fmt.Errorf("dimensions must not be negative, got %d", dimensions)
		}
		p.dimensions = dimensions
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(
	catalog storage.CatalogRepository,
	mappings storage.MappingRepository,
	checkpoints storage.CheckpointRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Pipeline, error) {
	if catalog == nil {
		return nil, ErrCatalogRepositoryRequired
	}
	if mappings == nil {
		return nil, ErrMappingRepositoryRequired
	}
	if checkpoints == nil {
		return nil, ErrCheckpointRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	embeddingPool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		catalog:       catalog,
		mappings:      mappings,
		checkpoints:   checkpoints,
		embeddingPool: embeddingPool,
		logger:        slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	// Create the processor after options are applied so it gets final config
	embeddingProc, err := newEmbeddingProcessor(catalog, checkpoints, embedder, p.dimensions, p.logger)
	if err != nil {
		p.Release()
		return nil, err
	}
	p.embeddingProc = embeddingProc

	return p, nil
}

// IngestCodes validates and upserts catalog records, then submits the batch
// for asynchronous embedding generation. Errors during async processing are
// logged but do not fail the ingestion.
func (p *Pipeline) IngestCodes(ctx context.Context, records ...*core.CodeRecord) error {
	for _, record := range records {
		if err := core.ValidateCodeRecord(record); err != nil {
			return err
		}
	}

	added, err := p.catalog.AddCodeRecords(ctx, records...)
	if err != nil {
		return err
	}
	if len(added) == 0 {
		return nil
	}

	ids := make([]core.ID, len(added))
	for i, record := range added {
		ids[i] = record.Id
	}

	// Submit for async processing
	return p.embeddingPool.Submit(func() {
		ctx := context.Background()
		if err := p.embeddingProc.process(ctx, ids...); err != nil {
			p.logger.Error("error processing embeddings", "err", err)
			return
		}
		if err := p.embeddingProc.checkpoint(ctx); err != nil {
			p.logger.Error("error applying embedding checkpoint", "err", err)
		}
	})
}

// IngestMappings validates and stores cross-system mapping edges.
func (p *Pipeline) IngestMappings(ctx context.Context, edges ...*core.MappingEdge) error {
	for _, edge := range edges {
		if err := core.ValidateMappingEdge(edge); err != nil {
			return err
		}
	}
	return p.mappings.AddMappings(ctx, edges...)
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.embeddingPool != nil {
		p.embeddingPool.Release()
	}
}
