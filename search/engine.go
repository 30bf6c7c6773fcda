package search

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/mmakkena/medcodeapi/ai"
	"github.com/mmakkena/medcodeapi/core"
	"github.com/mmakkena/medcodeapi/storage"
)

// candidateFactor oversizes the per-matcher candidate pool relative to the
// request limit so fusion and filtering have enough material to rank.
const candidateFactor = 4

// DefaultSemanticTimeout bounds the wait on the vector matcher before the
// orchestrator proceeds lexical-only.
const DefaultSemanticTimeout = 2 * time.Second

// Engine orchestrates hybrid code retrieval: it classifies the query,
// dispatches the lexical and vector matchers, fuses their scores and applies
// facet filtering and license gating to the final results.
//
// The engine is read-only against the catalog and stateless between
// requests; it is safe for concurrent use.
type Engine struct {
	catalog         storage.CatalogRepository
	mappings        storage.MappingRepository
	lexical         *lexicalMatcher
	semantic        *semanticMatcher
	semanticTimeout time.Duration
	logger          *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) error {
		if logger == nil {
			logger = slog.Default()
		}
		e.logger = logger
		return nil
	}
}

// WithSemanticTimeout bounds how long a hybrid search waits for the vector
// matcher before degrading to lexical-only results.
func WithSemanticTimeout(timeout time.Duration) Option {
	return func(e *Engine) error {
		if timeout <= 0 {
			return fmt.Errorf("semantic timeout must be positive, got %s", timeout)
		}
		e.semanticTimeout = timeout
		return nil
	}
}

// NewEngine creates a search engine over the given repositories and embedder.
func NewEngine(
	catalog storage.CatalogRepository,
	mappings storage.MappingRepository,
	embedder ai.Embedder,
	opts ...Option,
) (*Engine, error) {
	if catalog == nil {
		return nil, ErrCatalogRepositoryRequired
	}
	if mappings == nil {
		return nil, ErrMappingRepositoryRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	e := &Engine{
		catalog:         catalog,
		mappings:        mappings,
		semanticTimeout: DefaultSemanticTimeout,
		logger:          slog.Default(),
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}

	e.lexical = &lexicalMatcher{catalog: catalog, logger: e.logger}
	e.semantic = &semanticMatcher{catalog: catalog, embedder: embedder, logger: e.logger}
	return e, nil
}

// Search runs one retrieval request and returns the ranked response.
func (e *Engine) Search(ctx context.Context, request *Request) (*Response, error) {
	return e.SearchWithMonitor(ctx, request, nil)
}

// SearchWithMonitor runs one retrieval request with monitoring.
// The monitor receives callbacks at each stage of the search process.
func (e *Engine) SearchWithMonitor(ctx context.Context, request *Request, monitor SearchMonitor) (*Response, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	if request == nil {
		return nil, fmt.Errorf("%w: request is nil", ErrInvalidQuery)
	}
	if err := request.Validate(); err != nil {
		return nil, err
	}

	mode := request.resolveMode()
	monitor.Start(request, mode)

	if mode == ModeFaceted {
		return e.searchFaceted(ctx, request, monitor)
	}

	candidateLimit := request.Limit * candidateFactor

	var (
		lexicalMatches  []scoredRecord
		semanticMatches []scoredRecord
		degraded        bool
	)

	switch mode {
	case ModeExact:
		matches, err := e.lexical.MatchPrefix(ctx, request.Query, request.System, request.VersionYear, candidateLimit)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
		}
		lexicalMatches = matches
		monitor.AfterLexicalMatch(len(matches))

	case ModeLexical:
		matches, err := e.lexical.Match(ctx, request.Query, request.System, request.VersionYear, candidateLimit)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
		}
		lexicalMatches = matches
		monitor.AfterLexicalMatch(len(matches))

	case ModeSemantic:
		semanticMatches, degraded = e.matchSemanticBounded(ctx, request, candidateLimit, monitor)

	case ModeHybrid:
		// Weight 0 and 1 are hard equivalences with single-matcher search,
		// so the dead-weighted matcher is never invoked at all.
		switch request.SemanticWeight {
		case 0:
			matches, err := e.lexical.Match(ctx, request.Query, request.System, request.VersionYear, candidateLimit)
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
			}
			lexicalMatches = matches
			monitor.AfterLexicalMatch(len(matches))
		case 1:
			semanticMatches, degraded = e.matchSemanticBounded(ctx, request, candidateLimit, monitor)
		default:
			var err error
			lexicalMatches, semanticMatches, degraded, err = e.matchHybrid(ctx, request, candidateLimit, monitor)
			if err != nil {
				return nil, err
			}
		}
	}

	lexicalMatches = filterByFacets(lexicalMatches, request.Facets)
	semanticMatches = filterByFacets(semanticMatches, request.Facets)

	candidates, total := fuse(lexicalMatches, semanticMatches, request.SemanticWeight, request.MinSimilarity, request.Limit)
	results := e.buildResults(ctx, candidates, request.Licensed)
	monitor.Finish(results)

	return &Response{Results: results, Degraded: degraded, TotalResults: total}, nil
}

// matchHybrid fans out to both matchers concurrently. The lexical matcher
// runs on the calling goroutine and is mandatory; the vector matcher is
// awaited for at most the configured timeout.
func (e *Engine) matchHybrid(ctx context.Context, request *Request, candidateLimit int, monitor SearchMonitor) (lexical, semantic []scoredRecord, degraded bool, err error) {
	type semanticOutcome struct {
		matches []scoredRecord
		err     error
	}

	semanticCtx, cancel := context.WithTimeout(ctx, e.semanticTimeout)
	defer cancel()

	outcome := make(chan semanticOutcome, 1)
	go func() {
		matches, err := e.semantic.Match(semanticCtx, request.Query, request.System, request.VersionYear, candidateLimit)
		outcome <- semanticOutcome{matches: matches, err: err}
	}()

	lexical, lexicalErr := e.lexical.Match(ctx, request.Query, request.System, request.VersionYear, candidateLimit)
	if lexicalErr != nil {
		return nil, nil, false, fmt.Errorf("%w: %w", ErrRetrieval, lexicalErr)
	}
	monitor.AfterLexicalMatch(len(lexical))

	select {
	case result := <-outcome:
		if result.err != nil {
			e.logger.Warn("semantic matcher unavailable, degrading to lexical-only", "err", result.err)
			monitor.Degraded("semantic matcher unavailable")
			return lexical, nil, true, nil
		}
		monitor.AfterSemanticMatch(len(result.matches))
		return lexical, result.matches, false, nil
	case <-semanticCtx.Done():
		e.logger.Warn("semantic matcher timed out, degrading to lexical-only", "timeout", e.semanticTimeout)
		monitor.Degraded("semantic matcher timed out")
		return lexical, nil, true, nil
	}
}

// matchSemanticBounded runs the vector matcher alone under the semantic
// timeout. Failure degrades to an empty result set rather than an error.
func (e *Engine) matchSemanticBounded(ctx context.Context, request *Request, candidateLimit int, monitor SearchMonitor) ([]scoredRecord, bool) {
	semanticCtx, cancel := context.WithTimeout(ctx, e.semanticTimeout)
	defer cancel()

	matches, err := e.semantic.Match(semanticCtx, request.Query, request.System, request.VersionYear, candidateLimit)
	if err != nil {
		e.logger.Warn("semantic matcher unavailable", "err", err)
		monitor.Degraded("semantic matcher unavailable")
		return nil, true
	}
	monitor.AfterSemanticMatch(len(matches))
	return matches, false
}

// searchFaceted bypasses both matchers and filters the full active catalog.
// Results carry a fused score of 1.0 and sort by system then code.
func (e *Engine) searchFaceted(ctx context.Context, request *Request, monitor SearchMonitor) (*Response, error) {
	var matched []*core.CodeRecord
	err := e.catalog.ScanActive(ctx, request.System, request.VersionYear, func(record *core.CodeRecord) error {
		if matchesFacets(record, request.Facets) {
			matched = append(matched, record)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	slices.SortFunc(matched, func(a, b *core.CodeRecord) int {
		if a.System != b.System {
			return int(a.System) - int(b.System)
		}
		return strings.Compare(a.Code, b.Code)
	})

	total := len(matched)
	if len(matched) > request.Limit {
		matched = matched[:request.Limit]
	}

	results := make([]*Result, 0, len(matched))
	for _, record := range matched {
		result := e.newResult(ctx, record, request.Licensed)
		result.FusedScore = 1.0
		results = append(results, result)
	}
	monitor.Finish(results)

	return &Response{Results: results, TotalResults: total}, nil
}

// GetByRef looks up a single code. versionYear 0 resolves the latest
// version present. A miss returns (nil, nil), not an error.
func (e *Engine) GetByRef(ctx context.Context, system core.CodeSystem, code string, versionYear int, licensed bool) (*Result, error) {
	record, err := e.catalog.GetByRef(ctx, system, code, versionYear)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if errors.Is(err, storage.ErrInvalidQuery) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidQuery, err)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}

	result := e.newResult(ctx, record, licensed)
	result.FusedScore = 1.0
	return result, nil
}

// Mappings returns the cross-system references for a code, ordered by
// descending confidence.
func (e *Engine) Mappings(ctx context.Context, system core.CodeSystem, code string) ([]*core.MappingEdge, error) {
	edges, err := e.mappings.GetMappings(ctx, system, code)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRetrieval, err)
	}
	return edges, nil
}

// buildResults converts ranked candidates into caller-facing results,
// applying the license gate and attaching mappings.
func (e *Engine) buildResults(ctx context.Context, candidates []*candidate, licensed bool) []*Result {
	results := make([]*Result, 0, len(candidates))
	for _, c := range candidates {
		result := e.newResult(ctx, c.record, licensed)
		result.FusedScore = c.fused
		if c.hasLexical {
			score := c.lexical
			result.LexicalScore = &score
		}
		if c.hasSemantic {
			score := c.semantic
			result.SemanticScore = &score
		}
		results = append(results, result)
	}
	return results
}

// newResult builds a Result for a record. A mapping-store error degrades to
// an empty mapping list, never a failed search.
func (e *Engine) newResult(ctx context.Context, record *core.CodeRecord, licensed bool) *Result {
	edges, err := e.mappings.GetMappings(ctx, record.System, record.Code)
	if err != nil {
		e.logger.Warn("failed to load mappings for result",
			"system", record.System, "code", record.Code, "err", err)
		edges = nil
	}

	return &Result{
		Code:        record.Code,
		System:      record.System,
		VersionYear: record.VersionYear,
		Text:        SelectText(record, licensed),
		Category:    record.Category,
		Facets:      maps.Clone(record.Facets),
		Mappings:    edges,
	}
}
