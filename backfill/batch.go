package backfill

import (
	"context"
	"fmt"
	"time"

	"github.com/mmakkena/medcodeapi/ai"
	"github.com/mmakkena/medcodeapi/core"
	"github.com/mmakkena/medcodeapi/storage"
)

// BatchProcessor handles embedding generation for batches of catalog records.
type BatchProcessor struct {
	catalog        storage.CatalogRepository
	embedder       ai.Embedder
	dimensions     int
	maxRetries     int
	retryBaseDelay time.Duration
}

// NewBatchProcessor creates a new batch processor.
// dimensions: expected embedding dimensionality, 0 disables the check
// maxRetries: maximum number of retry attempts for embedding API calls
// retryBaseDelay: base delay for exponential backoff
func NewBatchProcessor(catalog storage.CatalogRepository, embedder ai.Embedder, dimensions, maxRetries int, retryBaseDelay time.Duration) *BatchProcessor {
	return &BatchProcessor{
		catalog:        catalog,
		embedder:       embedder,
		dimensions:     dimensions,
		maxRetries:     maxRetries,
		retryBaseDelay: retryBaseDelay,
	}
}

// Process generates embeddings for a batch of records and updates them in the
// catalog. Vectors are normalized after embedding so cosine similarity
// behaves as a pure angle measure.
func (bp *BatchProcessor) Process(ctx context.Context, records []*core.CodeRecord) error {
	if len(records) == 0 {
		return nil
	}

	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.ParaphrasedText
	}

	var embeddings [][]float32
	err := RetryWithBackoff(ctx, func() error {
		var err error
		embeddings, err = bp.embedder.EmbedTexts(ctx, texts)
		return err
	}, bp.maxRetries, bp.retryBaseDelay)

	if err != nil {
		return fmt.Errorf("failed to generate embeddings after %d attempts: %w", bp.maxRetries, err)
	}

	if len(embeddings) != len(records) {
		return fmt.Errorf("embedding count mismatch: expected %d, got %d", len(records), len(embeddings))
	}

	for i := range records {
		if err := core.ValidateVectorDimension(embeddings[i], bp.dimensions); err != nil {
			return fmt.Errorf("embedding for %s: %w", records[i].Ref(), err)
		}
		records[i].Vector = NormalizeVector(embeddings[i])
	}

	_, err = bp.catalog.UpdateCodeRecords(ctx, records...)
	if err != nil {
		return fmt.Errorf("failed to update records: %w", err)
	}

	return nil
}
