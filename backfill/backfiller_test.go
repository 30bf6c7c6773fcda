package backfill

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mmakkena/medcodeapi/ai/mock"
	"github.com/mmakkena/medcodeapi/core"
	"github.com/mmakkena/medcodeapi/storage"
	"github.com/mmakkena/medcodeapi/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedUnembedded(t *testing.T, catalog storage.CatalogRepository, count int) {
	t.Helper()
	ctx := context.Background()

	codes := []string{"I10", "I11", "E11.9", "E11.21", "R07.9", "J44.1", "99213"}
	require.LessOrEqual(t, count, len(codes))

	records := make([]*core.CodeRecord, 0, count)
	for i := 0; i < count; i++ {
		records = append(records, &core.CodeRecord{
			Code: codes[i], System: core.CodeSystemICD10CM, VersionYear: 2025,
			ParaphrasedText: "description for " + codes[i],
			License:         core.LicenseOpen,
			IsActive:        true,
		})
	}
	_, err := catalog.AddCodeRecords(ctx, records...)
	require.NoError(t, err)
}

func TestBackfillerRun(t *testing.T) {
	catalogRepo, mappingRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		mappingRepo.Close()
		catalogRepo.Close()
		backend.Close()
	}()
	ctx := context.Background()

	seedUnembedded(t, catalogRepo, 5)

	config := DefaultConfig()
	config.BatchSize = 2
	config.RetryDelay = time.Millisecond

	var out bytes.Buffer
	backfiller := NewBackfiller(catalogRepo, mock.NewMockEmbedder(), config, &out)
	require.NoError(t, backfiller.Run(ctx))

	missing, err := catalogRepo.MissingVectors(ctx, 0)
	require.NoError(t, err)
	assert.Empty(t, missing)
	assert.Contains(t, out.String(), "Backfill complete")

	// Second run is a no-op
	out.Reset()
	require.NoError(t, backfiller.Run(ctx))
	assert.Contains(t, out.String(), "No records awaiting embedding")
}

func TestBackfillerRun_EmbedderFailure(t *testing.T) {
	catalogRepo, mappingRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		mappingRepo.Close()
		catalogRepo.Close()
		backend.Close()
	}()

	seedUnembedded(t, catalogRepo, 2)

	embedder := mock.NewMockEmbedder()
	embedder.EmbedTextsFunc = func(context.Context, []string) ([][]float32, error) {
		return nil, errors.New("embedding service down")
	}

	config := DefaultConfig()
	config.MaxRetries = 2
	config.RetryDelay = time.Millisecond

	var out bytes.Buffer
	backfiller := NewBackfiller(catalogRepo, embedder, config, &out)
	err = backfiller.Run(context.Background())
	require.Error(t, err)

	// All retries were consumed before giving up
	assert.Equal(t, 2, embedder.CallCount())
}

func TestBackfillerRun_DimensionMismatch(t *testing.T) {
	catalogRepo, mappingRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		mappingRepo.Close()
		catalogRepo.Close()
		backend.Close()
	}()

	seedUnembedded(t, catalogRepo, 1)

	config := DefaultConfig()
	config.Dimensions = 768 // mock produces 384
	config.RetryDelay = time.Millisecond

	var out bytes.Buffer
	backfiller := NewBackfiller(catalogRepo, mock.NewMockEmbedder(), config, &out)
	err = backfiller.Run(context.Background())
	assert.ErrorIs(t, err, core.ErrVectorDimension)
}

func TestMissingVectorIterator_NoProgressGuard(t *testing.T) {
	catalogRepo, mappingRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		mappingRepo.Close()
		catalogRepo.Close()
		backend.Close()
	}()

	seedUnembedded(t, catalogRepo, 2)

	iterator := NewMissingVectorIterator(catalogRepo, 10)
	err = iterator.ForEach(context.Background(), func(records []*core.CodeRecord) error {
		// Never embeds anything
		return nil
	})
	assert.ErrorIs(t, err, ErrNoProgress)
}

func TestMissingVectorIterator_Batches(t *testing.T) {
	catalogRepo, mappingRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		mappingRepo.Close()
		catalogRepo.Close()
		backend.Close()
	}()
	ctx := context.Background()

	seedUnembedded(t, catalogRepo, 5)

	iterator := NewMissingVectorIterator(catalogRepo, 2)
	var batches []int
	err = iterator.ForEach(ctx, func(records []*core.CodeRecord) error {
		batches = append(batches, len(records))
		for _, record := range records {
			record.Vector = []float32{1, 0, 0}
		}
		_, err := catalogRepo.UpdateCodeRecords(ctx, records...)
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, []int{2, 2, 1}, batches)
}
