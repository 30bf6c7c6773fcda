package search

import (
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/mmakkena/medcodeapi/core"
	"github.com/mmakkena/medcodeapi/storage"
	"github.com/xrash/smetrics"
)

const (
	// prefixLengthPenalty is subtracted per character of suffix beyond the
	// query, so the most specific exact match ranks first.
	prefixLengthPenalty = 0.02

	// prefixScoreFloor keeps long-suffix prefix matches above zero.
	prefixScoreFloor = 0.1

	// fuzzyScoreFloor drops fuzzy candidates with too weak a similarity to
	// be a plausible answer.
	fuzzyScoreFloor = 0.5
)

// scoredRecord pairs a catalog record with a single matcher's score in [0,1].
type scoredRecord struct {
	record *core.CodeRecord
	score  float32
}

// lexicalMatcher performs exact/prefix code matching with a fuzzy text
// fallback over the description fields.
type lexicalMatcher struct {
	catalog storage.CatalogRepository
	logger  *slog.Logger
}

// MatchPrefix finds active records whose code starts with the normalized
// query. An exact match scores 1.0; longer codes score slightly lower in
// proportion to the extra length.
func (m *lexicalMatcher) MatchPrefix(ctx context.Context, query string, system core.CodeSystem, versionYear, limit int) ([]scoredRecord, error) {
	normalized := core.NormalizeCode(query)
	if normalized == "" {
		return nil, nil
	}

	records, err := m.catalog.PrefixScan(ctx, system, normalized, versionYear, limit)
	if err != nil {
		return nil, err
	}

	matches := make([]scoredRecord, 0, len(records))
	for _, record := range records {
		matches = append(matches, scoredRecord{
			record: record,
			score:  prefixScore(normalized, record.Code),
		})
	}
	sortScored(matches)
	return matches, nil
}

// Match runs the prefix path and, only when it yields zero candidates, falls
// back to fuzzy similarity over ParaphrasedText and Category.
func (m *lexicalMatcher) Match(ctx context.Context, query string, system core.CodeSystem, versionYear, limit int) ([]scoredRecord, error) {
	matches, err := m.MatchPrefix(ctx, query, system, versionYear, limit)
	if err != nil {
		return nil, err
	}
	if len(matches) > 0 {
		return matches, nil
	}

	m.logger.Debug("no prefix candidates, falling back to fuzzy matching", "query", query)
	return m.matchFuzzy(ctx, query, system, versionYear, limit)
}

func (m *lexicalMatcher) matchFuzzy(ctx context.Context, query string, system core.CodeSystem, versionYear, limit int) ([]scoredRecord, error) {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return nil, nil
	}

	var matches []scoredRecord
	err := m.catalog.ScanActive(ctx, system, versionYear, func(record *core.CodeRecord) error {
		score := fuzzyScore(needle, record.ParaphrasedText)
		if s := fuzzyScore(needle, record.Category); s > score {
			score = s
		}
		if score >= fuzzyScoreFloor {
			matches = append(matches, scoredRecord{record: record, score: score})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sortScored(matches)
	if len(matches) > limit {
		matches = matches[:limit]
	}
	return matches, nil
}

// prefixScore scores a prefix candidate. The query is assumed normalized
// and a true prefix of code.
func prefixScore(query, code string) float32 {
	diff := len(code) - len(query)
	if diff <= 0 {
		return 1.0
	}
	score := 1.0 - prefixLengthPenalty*float32(diff)
	if score < prefixScoreFloor {
		return prefixScoreFloor
	}
	return score
}

// fuzzyScore computes a normalized similarity in [0,1] between the query and
// a text field, taking the best of the whole field and its individual words.
func fuzzyScore(needle, text string) float32 {
	if text == "" {
		return 0
	}
	haystack := strings.ToLower(text)

	best := smetrics.JaroWinkler(needle, haystack, 0.7, 4)
	for _, word := range strings.Fields(haystack) {
		if s := smetrics.JaroWinkler(needle, word, 0.7, 4); s > best {
			best = s
		}
	}
	return float32(best)
}

// sortScored orders by descending score, tie-breaking on shorter code then
// lexicographic code.
func sortScored(matches []scoredRecord) {
	slices.SortFunc(matches, func(a, b scoredRecord) int {
		if a.score != b.score {
			if a.score > b.score {
				return -1
			}
			return 1
		}
		if len(a.record.Code) != len(b.record.Code) {
			return len(a.record.Code) - len(b.record.Code)
		}
		return strings.Compare(a.record.Code, b.record.Code)
	})
}
