package badger

import (
	"context"
	"testing"

	"github.com/mmakkena/medcodeapi/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float32
	}{
		{"identical", []float32{1, 0, 0}, []float32{1, 0, 0}, 1.0},
		{"orthogonal", []float32{1, 0, 0}, []float32{0, 1, 0}, 0.0},
		{"opposite", []float32{1, 0, 0}, []float32{-1, 0, 0}, -1.0},
		{"zero vector", []float32{0, 0, 0}, []float32{1, 0, 0}, 0.0},
		{"length mismatch", []float32{1, 0}, []float32{1, 0, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, cosineSimilarity(tt.a, tt.b), 1e-6)
		})
	}
}

func TestFindSimilar(t *testing.T) {
	repo, cleanup := newTestCatalog(t)
	defer cleanup()
	ctx := context.Background()

	hypertension := testRecord(core.CodeSystemICD10CM, "I10", "Essential hypertension", 2025)
	hypertension.Vector = []float32{1, 0, 0}
	diabetes := testRecord(core.CodeSystemICD10CM, "E11.9", "Type 2 diabetes", 2025)
	diabetes.Vector = []float32{0.9, 0.1, 0}
	visit := testRecord(core.CodeSystemCPT, "99213", "Office visit", 2025)
	visit.Vector = []float32{0, 1, 0}
	unembedded := testRecord(core.CodeSystemICD10CM, "I11", "no vector yet", 2025)
	retired := testRecord(core.CodeSystemICD10CM, "I15", "retired", 2025)
	retired.Vector = []float32{1, 0, 0}
	retired.IsActive = false

	_, err := repo.AddCodeRecords(ctx, hypertension, diabetes, visit, unembedded, retired)
	require.NoError(t, err)

	t.Run("orders by descending cosine", func(t *testing.T) {
		matches, err := repo.FindSimilar(ctx, []float32{1, 0, 0}, core.CodeSystemAny, 0, -1, 10)
		require.NoError(t, err)
		require.Len(t, matches, 3)
		assert.Equal(t, "I10", matches[0].Record.Code)
		assert.Equal(t, "E11.9", matches[1].Record.Code)
		assert.Equal(t, "99213", matches[2].Record.Code)
		assert.InDelta(t, 1.0, matches[0].Cosine, 1e-6)
	})

	t.Run("system filter", func(t *testing.T) {
		matches, err := repo.FindSimilar(ctx, []float32{1, 0, 0}, core.CodeSystemCPT, 0, -1, 10)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "99213", matches[0].Record.Code)
	})

	t.Run("min cosine filter", func(t *testing.T) {
		matches, err := repo.FindSimilar(ctx, []float32{1, 0, 0}, core.CodeSystemAny, 0, 0.5, 10)
		require.NoError(t, err)
		assert.Len(t, matches, 2)
	})

	t.Run("limit truncates", func(t *testing.T) {
		matches, err := repo.FindSimilar(ctx, []float32{1, 0, 0}, core.CodeSystemAny, 0, -1, 1)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "I10", matches[0].Record.Code)
	})

	t.Run("inactive and unembedded records never match", func(t *testing.T) {
		matches, err := repo.FindSimilar(ctx, []float32{1, 0, 0}, core.CodeSystemICD10CM, 0, -1, 10)
		require.NoError(t, err)
		for _, m := range matches {
			assert.NotEqual(t, "I15", m.Record.Code)
			assert.NotEqual(t, "I11", m.Record.Code)
		}
	})

	t.Run("cancelled context aborts scan", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := repo.FindSimilar(cancelled, []float32{1, 0, 0}, core.CodeSystemAny, 0, -1, 10)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestBackendClose(t *testing.T) {
	_, _, backend, err := NewMemoryRepositories()
	require.NoError(t, err)

	require.NoError(t, backend.Close())
	assert.True(t, backend.IsClosed())
	// Closing twice is safe
	assert.NoError(t, backend.Close())
}
