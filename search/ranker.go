package search

import (
	"slices"
	"strings"

	"github.com/mmakkena/medcodeapi/core"
)

// candidate is one fused entry in the unified candidate set, keyed by
// (code, code system).
type candidate struct {
	record      *core.CodeRecord
	lexical     float32
	semantic    float32
	hasLexical  bool
	hasSemantic bool
	fused       float32
}

type candidateKey struct {
	code   string
	system core.CodeSystem
}

// fuse merges lexical and semantic matches into one ranked candidate list.
//
// A candidate found by both matchers scores
// weight*semantic + (1-weight)*lexical. A candidate found by only one
// matcher keeps that matcher's raw score, so a single-source hit is never
// penalized toward zero. Candidates below minSimilarity are discarded, the
// set is deduplicated on (code, system) keeping the highest fused score,
// sorted by descending fused score with shorter-code-then-lexicographic
// tie-breaks, and truncated to limit. The second return value is the
// candidate count before truncation.
func fuse(lexical, semantic []scoredRecord, weight, minSimilarity float32, limit int) ([]*candidate, int) {
	merged := make(map[candidateKey]*candidate)

	for _, match := range lexical {
		key := candidateKey{code: match.record.Code, system: match.record.System}
		existing, ok := merged[key]
		if !ok {
			merged[key] = &candidate{record: match.record, lexical: match.score, hasLexical: true}
			continue
		}
		if !existing.hasLexical || match.score > existing.lexical {
			existing.lexical = match.score
			existing.hasLexical = true
		}
	}

	for _, match := range semantic {
		key := candidateKey{code: match.record.Code, system: match.record.System}
		existing, ok := merged[key]
		if !ok {
			merged[key] = &candidate{record: match.record, semantic: match.score, hasSemantic: true}
			continue
		}
		if !existing.hasSemantic || match.score > existing.semantic {
			existing.semantic = match.score
			existing.hasSemantic = true
		}
	}

	candidates := make([]*candidate, 0, len(merged))
	for _, c := range merged {
		c.fused = fusedScore(c, weight)
		if c.fused < minSimilarity {
			continue
		}
		candidates = append(candidates, c)
	}

	slices.SortFunc(candidates, func(a, b *candidate) int {
		if a.fused != b.fused {
			if a.fused > b.fused {
				return -1
			}
			return 1
		}
		if len(a.record.Code) != len(b.record.Code) {
			return len(a.record.Code) - len(b.record.Code)
		}
		return strings.Compare(a.record.Code, b.record.Code)
	})

	total := len(candidates)
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return candidates, total
}

// fusedScore applies the weighting rule. When one side is absent the present
// side's raw score is used unscaled.
func fusedScore(c *candidate, weight float32) float32 {
	switch {
	case c.hasLexical && c.hasSemantic:
		return weight*c.semantic + (1-weight)*c.lexical
	case c.hasSemantic:
		return c.semantic
	default:
		return c.lexical
	}
}
