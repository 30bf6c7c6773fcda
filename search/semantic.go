package search

import (
	"context"
	"log/slog"

	"github.com/mmakkena/medcodeapi/ai"
	"github.com/mmakkena/medcodeapi/core"
	"github.com/mmakkena/medcodeapi/storage"
)

// semanticMatcher performs nearest-neighbor retrieval over the embedding
// space. It never computes catalog embeddings itself; only the query text is
// embedded, per request.
type semanticMatcher struct {
	catalog  storage.CatalogRepository
	embedder ai.Embedder
	logger   *slog.Logger
}

// Match embeds the query and returns the top-k active records by cosine
// similarity, rescaled from [-1,1] to [0,1]. Records without an embedding
// are excluded by the store, never an error.
func (m *semanticMatcher) Match(ctx context.Context, query string, system core.CodeSystem, versionYear, k int) ([]scoredRecord, error) {
	vector, err := m.embedder.EmbedText(ctx, query)
	if err != nil {
		m.logger.Warn("failed to embed query", "err", err)
		return nil, err
	}
	if len(vector) == 0 {
		m.logger.Warn("embedder returned an empty vector", "query", query)
		return nil, nil
	}

	similar, err := m.catalog.FindSimilar(ctx, vector, system, versionYear, -1, k)
	if err != nil {
		return nil, err
	}

	matches := make([]scoredRecord, 0, len(similar))
	for _, match := range similar {
		matches = append(matches, scoredRecord{
			record: match.Record,
			score:  rescaleCosine(match.Cosine),
		})
	}
	return matches, nil
}

// rescaleCosine maps cosine similarity from [-1,1] to [0,1].
func rescaleCosine(cos float32) float32 {
	return (cos + 1) / 2
}
