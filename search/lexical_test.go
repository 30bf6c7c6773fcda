package search

import (
	"context"
	"log/slog"
	"testing"

	"github.com/mmakkena/medcodeapi/core"
	"github.com/mmakkena/medcodeapi/storage/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefixScore(t *testing.T) {
	assert.InDelta(t, 1.0, prefixScore("I10", "I10"), 1e-6)
	assert.InDelta(t, 0.96, prefixScore("I10", "I10.1"), 1e-6)
	assert.InDelta(t, 0.94, prefixScore("I10", "I10.11"), 1e-6)
	// Very long suffixes stay above the floor
	assert.InDelta(t, prefixScoreFloor, prefixScore("I", "I1000000000000000000000000000000000000000000000000"), 1e-6)
	// Exact match always beats any child
	assert.Greater(t, prefixScore("I10", "I10"), prefixScore("I10", "I10.1"))
}

func TestFuzzyScore(t *testing.T) {
	assert.InDelta(t, 1.0, fuzzyScore("hypertension", "Hypertension"), 1e-6)
	assert.Greater(t, fuzzyScore("hypertension", "Essential primary hypertension"), float32(0.9))
	assert.Greater(t,
		fuzzyScore("diabetes", "Type 2 diabetes mellitus"),
		fuzzyScore("diabetes", "Fracture of femur"))
	assert.Zero(t, fuzzyScore("anything", ""))
}

func TestLexicalMatcher(t *testing.T) {
	catalogRepo, mappingRepo, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)
	defer func() {
		mappingRepo.Close()
		catalogRepo.Close()
		backend.Close()
	}()
	ctx := context.Background()

	seed := []*core.CodeRecord{
		{Code: "I10", System: core.CodeSystemICD10CM, VersionYear: 2025, ParaphrasedText: "Essential primary hypertension", License: core.LicenseOpen, IsActive: true},
		{Code: "I11.0", System: core.CodeSystemICD10CM, VersionYear: 2025, ParaphrasedText: "Hypertensive heart disease with heart failure", License: core.LicenseOpen, IsActive: true},
		{Code: "E11.9", System: core.CodeSystemICD10CM, VersionYear: 2025, ParaphrasedText: "Type 2 diabetes mellitus without complications", License: core.LicenseOpen, IsActive: true},
	}
	_, err = catalogRepo.AddCodeRecords(ctx, seed...)
	require.NoError(t, err)

	matcher := &lexicalMatcher{catalog: catalogRepo, logger: slog.Default()}

	t.Run("prefix path", func(t *testing.T) {
		matches, err := matcher.Match(ctx, "i10", core.CodeSystemICD10CM, 0, 10)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "I10", matches[0].record.Code)
		assert.InDelta(t, 1.0, matches[0].score, 1e-6)
	})

	t.Run("fuzzy fallback when no prefix candidates", func(t *testing.T) {
		matches, err := matcher.Match(ctx, "hypertension", core.CodeSystemICD10CM, 0, 10)
		require.NoError(t, err)
		require.NotEmpty(t, matches)
		assert.Equal(t, "I10", matches[0].record.Code)
	})

	t.Run("no fuzzy fallback when prefix path has candidates", func(t *testing.T) {
		matches, err := matcher.Match(ctx, "E11", core.CodeSystemICD10CM, 0, 10)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "E11.9", matches[0].record.Code)
		assert.Less(t, matches[0].score, float32(1.0))
	})

	t.Run("no candidates at all", func(t *testing.T) {
		matches, err := matcher.Match(ctx, "zzzzzz", core.CodeSystemICD10CM, 0, 10)
		require.NoError(t, err)
		assert.Empty(t, matches)
	})
}
