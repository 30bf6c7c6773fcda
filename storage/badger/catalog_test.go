package badger

import (
	"context"
	"fmt"
	"testing"

	"github.com/mmakkena/medcodeapi/core"
	"github.com/mmakkena/medcodeapi/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCatalog(t *testing.T) (storage.CatalogRepository, func()) {
	t.Helper()
	catalogRepo, mappingRepo, backend, err := NewMemoryRepositories()
	require.NoError(t, err)
	return catalogRepo, func() {
		mappingRepo.Close()
		catalogRepo.Close()
		backend.Close()
	}
}

func testRecord(system core.CodeSystem, code, text string, year int) *core.CodeRecord {
	return &core.CodeRecord{
		Code:            code,
		System:          system,
		VersionYear:     year,
		ParaphrasedText: text,
		License:         core.LicenseOpen,
		IsActive:        true,
	}
}

func TestCatalogRepository_AddAndGet(t *testing.T) {
	repo, cleanup := newTestCatalog(t)
	defer cleanup()
	ctx := context.Background()

	record := testRecord(core.CodeSystemICD10CM, "I10", "High blood pressure", 2025)
	added, err := repo.AddCodeRecords(ctx, record)
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.NotZero(t, added[0].Id)
	assert.False(t, added[0].InsertedAt.IsZero())

	got, err := repo.GetCodeRecord(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, "I10", got.Code)
	assert.Equal(t, core.CodeSystemICD10CM, got.System)
	assert.Equal(t, "High blood pressure", got.ParaphrasedText)
}

func TestCatalogRepository_AddIsUpsert(t *testing.T) {
	repo, cleanup := newTestCatalog(t)
	defer cleanup()
	ctx := context.Background()

	first := testRecord(core.CodeSystemICD10CM, "I10", "old text", 2025)
	_, err := repo.AddCodeRecords(ctx, first)
	require.NoError(t, err)

	second := testRecord(core.CodeSystemICD10CM, "i10", "new text", 2025)
	added, err := repo.AddCodeRecords(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, first.Id, added[0].Id)

	got, err := repo.GetCodeRecord(ctx, first.Id)
	require.NoError(t, err)
	assert.Equal(t, "new text", got.ParaphrasedText)
}

func TestCatalogRepository_GetCodeRecord_NotFound(t *testing.T) {
	repo, cleanup := newTestCatalog(t)
	defer cleanup()

	_, err := repo.GetCodeRecord(context.Background(), core.ID(999))
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCatalogRepository_GetByRef(t *testing.T) {
	repo, cleanup := newTestCatalog(t)
	defer cleanup()
	ctx := context.Background()

	_, err := repo.AddCodeRecords(ctx,
		testRecord(core.CodeSystemICD10CM, "E11.9", "Type 2 diabetes without complications", 2023),
		testRecord(core.CodeSystemICD10CM, "E11.9", "Type 2 diabetes without complications", 2025),
	)
	require.NoError(t, err)

	t.Run("exact version year", func(t *testing.T) {
		got, err := repo.GetByRef(ctx, core.CodeSystemICD10CM, "E11.9", 2023)
		require.NoError(t, err)
		assert.Equal(t, 2023, got.VersionYear)
	})

	t.Run("zero year resolves latest", func(t *testing.T) {
		got, err := repo.GetByRef(ctx, core.CodeSystemICD10CM, "e11.9", 0)
		require.NoError(t, err)
		assert.Equal(t, 2025, got.VersionYear)
	})

	t.Run("missing ref", func(t *testing.T) {
		_, err := repo.GetByRef(ctx, core.CodeSystemICD10CM, "Z99", 0)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("any system is rejected", func(t *testing.T) {
		_, err := repo.GetByRef(ctx, core.CodeSystemAny, "E11.9", 0)
		assert.ErrorIs(t, err, storage.ErrInvalidQuery)
	})
}

func TestCatalogRepository_PrefixScan(t *testing.T) {
	repo, cleanup := newTestCatalog(t)
	defer cleanup()
	ctx := context.Background()

	_, err := repo.AddCodeRecords(ctx,
		testRecord(core.CodeSystemICD10CM, "I10", "Essential hypertension", 2025),
		testRecord(core.CodeSystemICD10CM, "I10.1", "Hypertensive heart involvement", 2025),
		testRecord(core.CodeSystemICD10CM, "I11", "Hypertensive heart disease", 2025),
		testRecord(core.CodeSystemICD10CM, "E11.9", "Type 2 diabetes", 2025),
		testRecord(core.CodeSystemCPT, "I1000", "not a real CPT code but a prefix collision", 2025),
	)
	require.NoError(t, err)

	t.Run("prefix narrows by system", func(t *testing.T) {
		records, err := repo.PrefixScan(ctx, core.CodeSystemICD10CM, "I10", 0, 10)
		require.NoError(t, err)
		require.Len(t, records, 2)
		// Index order: most specific exact code first
		assert.Equal(t, "I10", records[0].Code)
		assert.Equal(t, "I10.1", records[1].Code)
	})

	t.Run("any system scans all systems", func(t *testing.T) {
		records, err := repo.PrefixScan(ctx, core.CodeSystemAny, "I10", 0, 10)
		require.NoError(t, err)
		assert.Len(t, records, 3)
	})

	t.Run("limit truncates", func(t *testing.T) {
		records, err := repo.PrefixScan(ctx, core.CodeSystemICD10CM, "I", 0, 1)
		require.NoError(t, err)
		assert.Len(t, records, 1)
	})

	t.Run("case insensitive", func(t *testing.T) {
		records, err := repo.PrefixScan(ctx, core.CodeSystemICD10CM, "i10", 0, 10)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})

	t.Run("inactive records are excluded", func(t *testing.T) {
		retired := testRecord(core.CodeSystemICD10CM, "I10.9", "retired child code", 2025)
		retired.IsActive = false
		_, err := repo.AddCodeRecords(ctx, retired)
		require.NoError(t, err)

		records, err := repo.PrefixScan(ctx, core.CodeSystemICD10CM, "I10", 0, 10)
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}

func TestCatalogRepository_PrefixScanBareCodeSurvivesTruncation(t *testing.T) {
	repo, cleanup := newTestCatalog(t)
	defer cleanup()
	ctx := context.Background()

	// A bare code must sort ahead of its dotted children in the index, so a
	// tight scan limit can never cut the exact match while keeping children.
	records := []*core.CodeRecord{
		testRecord(core.CodeSystemICD10CM, "E11", "Type 2 diabetes", 2025),
	}
	for i := 0; i < 8; i++ {
		code := fmt.Sprintf("E11.%d", i)
		records = append(records, testRecord(core.CodeSystemICD10CM, code, "Type 2 diabetes variant", 2025))
	}
	_, err := repo.AddCodeRecords(ctx, records...)
	require.NoError(t, err)

	got, err := repo.PrefixScan(ctx, core.CodeSystemICD10CM, "E11", 0, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "E11", got[0].Code)
	assert.Equal(t, "E11.0", got[1].Code)
}

func TestCatalogRepository_UpdateAndDelete(t *testing.T) {
	repo, cleanup := newTestCatalog(t)
	defer cleanup()
	ctx := context.Background()

	record := testRecord(core.CodeSystemCPT, "99213", "Office visit", 2025)
	added, err := repo.AddCodeRecords(ctx, record)
	require.NoError(t, err)

	added[0].Vector = []float32{0.1, 0.2, 0.3}
	updated, err := repo.UpdateCodeRecords(ctx, added[0])
	require.NoError(t, err)
	assert.True(t, updated[0].HasVector())

	got, err := repo.GetCodeRecord(ctx, added[0].Id)
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, got.Vector)

	require.NoError(t, repo.DeleteCodeRecords(ctx, added[0].Id))
	_, err = repo.GetCodeRecord(ctx, added[0].Id)
	assert.ErrorIs(t, err, storage.ErrNotFound)

	// Index entry is gone too
	records, err := repo.PrefixScan(ctx, core.CodeSystemCPT, "99213", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestCatalogRepository_UpdateMissing(t *testing.T) {
	repo, cleanup := newTestCatalog(t)
	defer cleanup()

	missing := testRecord(core.CodeSystemCPT, "00000", "missing", 2025)
	missing.Id = core.ID(42)
	_, err := repo.UpdateCodeRecords(context.Background(), missing)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestCatalogRepository_MissingVectors(t *testing.T) {
	repo, cleanup := newTestCatalog(t)
	defer cleanup()
	ctx := context.Background()

	embedded := testRecord(core.CodeSystemICD10CM, "I10", "has vector", 2025)
	embedded.Vector = []float32{1, 0, 0}
	_, err := repo.AddCodeRecords(ctx,
		embedded,
		testRecord(core.CodeSystemICD10CM, "I11", "no vector", 2025),
		testRecord(core.CodeSystemCPT, "99213", "no vector either", 2025),
	)
	require.NoError(t, err)

	missing, err := repo.MissingVectors(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, missing, 2)
	for _, record := range missing {
		assert.False(t, record.HasVector())
	}

	limited, err := repo.MissingVectors(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestCatalogRepository_ScanActive(t *testing.T) {
	repo, cleanup := newTestCatalog(t)
	defer cleanup()
	ctx := context.Background()

	retired := testRecord(core.CodeSystemICD10CM, "I15", "retired", 2025)
	retired.IsActive = false
	_, err := repo.AddCodeRecords(ctx,
		testRecord(core.CodeSystemICD10CM, "I10", "one", 2025),
		testRecord(core.CodeSystemCPT, "99213", "two", 2024),
		retired,
	)
	require.NoError(t, err)

	var seen []string
	err = repo.ScanActive(ctx, core.CodeSystemAny, 0, func(record *core.CodeRecord) error {
		seen = append(seen, record.Code)
		return nil
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"I10", "99213"}, seen)

	seen = nil
	err = repo.ScanActive(ctx, core.CodeSystemCPT, 2024, func(record *core.CodeRecord) error {
		seen = append(seen, record.Code)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"99213"}, seen)
}
