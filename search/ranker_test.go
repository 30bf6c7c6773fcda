package search

import (
	"testing"

	"github.com/mmakkena/medcodeapi/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(system core.CodeSystem, code string) *core.CodeRecord {
	return &core.CodeRecord{Code: code, System: system, VersionYear: 2025, IsActive: true}
}

func TestFuse_BothSidesWeighted(t *testing.T) {
	lexical := []scoredRecord{{record: record(core.CodeSystemICD10CM, "E11.9"), score: 0.8}}
	semantic := []scoredRecord{{record: record(core.CodeSystemICD10CM, "E11.9"), score: 0.6}}

	candidates, total := fuse(lexical, semantic, 0.7, 0, 10)
	require.Len(t, candidates, 1)
	assert.Equal(t, 1, total)
	assert.True(t, candidates[0].hasLexical)
	assert.True(t, candidates[0].hasSemantic)
	// 0.7*0.6 + 0.3*0.8
	assert.InDelta(t, 0.66, candidates[0].fused, 1e-6)
}

func TestFuse_OneSidedKeepsRawScore(t *testing.T) {
	lexical := []scoredRecord{{record: record(core.CodeSystemICD10CM, "I10"), score: 0.9}}
	semantic := []scoredRecord{{record: record(core.CodeSystemCPT, "99213"), score: 0.75}}

	candidates, _ := fuse(lexical, semantic, 0.7, 0, 10)
	require.Len(t, candidates, 2)

	byCode := map[string]*candidate{}
	for _, c := range candidates {
		byCode[c.record.Code] = c
	}
	// Single-source hits are not scaled down by the weight share
	assert.InDelta(t, 0.9, byCode["I10"].fused, 1e-6)
	assert.InDelta(t, 0.75, byCode["99213"].fused, 1e-6)
}

func TestFuse_BothMatchersOutrankEqualLexical(t *testing.T) {
	// Two candidates with the same lexical score; one is also found
	// semantically and must outrank the other.
	lexical := []scoredRecord{
		{record: record(core.CodeSystemICD10CM, "E11.21"), score: 0.9},
		{record: record(core.CodeSystemICD10CM, "E11.22"), score: 0.9},
	}
	semantic := []scoredRecord{
		{record: record(core.CodeSystemICD10CM, "E11.22"), score: 0.95},
	}

	candidates, _ := fuse(lexical, semantic, 0.7, 0, 10)
	require.Len(t, candidates, 2)
	assert.Equal(t, "E11.22", candidates[0].record.Code)
	assert.Equal(t, "E11.21", candidates[1].record.Code)
	assert.Greater(t, candidates[0].fused, candidates[1].fused)
}

func TestFuse_DeduplicatesOnCodeAndSystem(t *testing.T) {
	// Same code string in two systems stays distinct; same (code, system)
	// from two version years collapses to one entry.
	lexical := []scoredRecord{
		{record: record(core.CodeSystemICD10CM, "I10"), score: 0.8},
		{record: &core.CodeRecord{Code: "I10", System: core.CodeSystemICD10CM, VersionYear: 2024, IsActive: true}, score: 0.95},
		{record: record(core.CodeSystemHCPCS, "I10"), score: 0.5},
	}

	candidates, _ := fuse(lexical, nil, 0.7, 0, 10)
	require.Len(t, candidates, 2)
	assert.InDelta(t, 0.95, candidates[0].fused, 1e-6)
	assert.Equal(t, core.CodeSystemICD10CM, candidates[0].record.System)
}

func TestFuse_MinSimilarityFiltersFusedScore(t *testing.T) {
	lexical := []scoredRecord{
		{record: record(core.CodeSystemICD10CM, "I10"), score: 0.9},
		{record: record(core.CodeSystemICD10CM, "I11"), score: 0.4},
	}

	candidates, total := fuse(lexical, nil, 0.7, 0.5, 10)
	require.Len(t, candidates, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "I10", candidates[0].record.Code)
}

func TestFuse_TieBreakShorterCodeThenLexicographic(t *testing.T) {
	lexical := []scoredRecord{
		{record: record(core.CodeSystemICD10CM, "I10.1"), score: 0.8},
		{record: record(core.CodeSystemICD10CM, "I11"), score: 0.8},
		{record: record(core.CodeSystemICD10CM, "I10"), score: 0.8},
	}

	candidates, _ := fuse(lexical, nil, 0, 0, 10)
	require.Len(t, candidates, 3)
	assert.Equal(t, "I10", candidates[0].record.Code)
	assert.Equal(t, "I11", candidates[1].record.Code)
	assert.Equal(t, "I10.1", candidates[2].record.Code)
}

func TestFuse_TruncatesToLimit(t *testing.T) {
	var lexical []scoredRecord
	for _, code := range []string{"I10", "I11", "I12", "I13", "I15"} {
		lexical = append(lexical, scoredRecord{record: record(core.CodeSystemICD10CM, code), score: 0.8})
	}

	candidates, total := fuse(lexical, nil, 0, 0, 2)
	assert.Len(t, candidates, 2)
	assert.Equal(t, 5, total)
}
