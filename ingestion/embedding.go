package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/mmakkena/medcodeapi/ai"
	"github.com/mmakkena/medcodeapi/core"
	"github.com/mmakkena/medcodeapi/storage"
)

// embeddingProcessorType keys the checkpoint row for embedding progress.
const embeddingProcessorType = "embeddings"

// embeddingProcessor generates embeddings for catalog records from their
// paraphrased text.
type embeddingProcessor struct {
	catalog     storage.CatalogRepository
	checkpoints storage.CheckpointRepository
	embedder    ai.Embedder
	dimensions  int
	lastID      core.ID
	logger      *slog.Logger
}

var _ processor = (*embeddingProcessor)(nil)

// newEmbeddingProcessor creates a new embedding processor. dimensions 0
// disables the vector dimension check.
func newEmbeddingProcessor(catalog storage.CatalogRepository, checkpoints storage.CheckpointRepository, embedder ai.Embedder, dimensions int, logger *slog.Logger) (processor, error) {
	if catalog == nil {
		return nil, ErrCatalogRepositoryRequired
	}
	if checkpoints == nil {
		return nil, ErrCheckpointRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &embeddingProcessor{
		catalog:     catalog,
		checkpoints: checkpoints,
		embedder:    embedder,
		dimensions:  dimensions,
		logger:      logger.With("processor", "embeddings"),
	}, nil
}

// process generates embeddings for the specified catalog records.
func (ep *embeddingProcessor) process(ctx context.Context, ids ...core.ID) error {
	ep.logger.Info("processing records for embeddings", "records", len(ids))

	// Sort first so checkpointing works correctly
	slices.Sort(ids)

	records, err := ep.catalog.GetCodeRecords(ctx, ids...)
	if err != nil {
		ep.logger.Error("error retrieving code records", "err", err)
		return err
	}
	if len(records) == 0 {
		// Every id was deleted between ingestion and this async pass.
		ep.logger.Warn("no records remain for embedding", "requested", len(ids))
		return nil
	}

	texts := make([]string, len(records))
	for i, record := range records {
		texts[i] = record.ParaphrasedText
	}

	ep.logger.Debug("generating embeddings for code records", "records", len(texts))
	embeddings, err := ep.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		ep.logger.Error("error generating embeddings", "err", err)
		return err
	}

	if len(embeddings) != len(records) {
		return fmt.Errorf("embedding result mismatch. expected %d, received %d", len(records), len(embeddings))
	}

	for i := range embeddings {
		if err := core.ValidateVectorDimension(embeddings[i], ep.dimensions); err != nil {
			return fmt.Errorf("embedding for %s: %w", records[i].Ref(), err)
		}
		records[i].Vector = embeddings[i]
	}

	updated, err := ep.catalog.UpdateCodeRecords(ctx, records...)
	if err != nil {
		return err
	}

	highestID := updated[len(updated)-1].Id
	if highestID > ep.lastID {
		ep.lastID = highestID
	}

	return nil
}

// checkpoint persists the highest processed record ID.
func (ep *embeddingProcessor) checkpoint(ctx context.Context) error {
	if ep.lastID == 0 {
		return nil
	}
	return ep.checkpoints.SaveCheckpoint(ctx, &core.Checkpoint{
		ProcessorType: embeddingProcessorType,
		LastID:        ep.lastID,
	})
}
