package search

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/mmakkena/medcodeapi/core"
)

// Mode selects which matchers a search request invokes.
type Mode int

const (
	// ModeAuto classifies the query string and picks a mode automatically.
	ModeAuto Mode = iota
	// ModeExact runs only the lexical matcher's prefix path.
	ModeExact
	// ModeLexical runs the full lexical matcher (prefix plus fuzzy fallback).
	ModeLexical
	// ModeSemantic runs only the vector matcher.
	ModeSemantic
	// ModeHybrid runs both matchers concurrently and fuses their scores.
	ModeHybrid
	// ModeFaceted bypasses both matchers and filters the active catalog by facets.
	ModeFaceted
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeAuto:
		return "auto"
	case ModeExact:
		return "exact"
	case ModeLexical:
		return "lexical"
	case ModeSemantic:
		return "semantic"
	case ModeHybrid:
		return "hybrid"
	case ModeFaceted:
		return "faceted"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// ParseMode converts a mode name to a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return ModeAuto, nil
	case "exact":
		return ModeExact, nil
	case "lexical":
		return ModeLexical, nil
	case "semantic":
		return ModeSemantic, nil
	case "hybrid":
		return ModeHybrid, nil
	case "faceted":
		return ModeFaceted, nil
	default:
		return ModeAuto, fmt.Errorf("%w: unknown mode %q", ErrInvalidQuery, s)
	}
}

const (
	// DefaultLimit is the result limit applied when the caller does not set one.
	DefaultLimit = 10
	// MaxLimit bounds the result limit.
	MaxLimit = 100
	// DefaultSemanticWeight is the hybrid fusion weight applied by NewRequest.
	DefaultSemanticWeight = 0.7
)

// Request describes one search over the code catalog.
// Construct with NewRequest so defaults are applied, then adjust fields.
type Request struct {
	// Query is the free-text or code-shaped search term.
	// May be empty only for faceted searches.
	Query string

	// Mode selects the matcher combination. ModeAuto classifies the query.
	Mode Mode

	// System restricts results to one code system. CodeSystemAny searches all.
	System core.CodeSystem

	// VersionYear restricts results to one catalog version year. 0 means any.
	VersionYear int

	// Facets narrows candidates by categorical attributes. Set-valued:
	// a record passes a key if its facet value is a member of the slice.
	// An empty map is the identity filter.
	Facets map[string][]string

	// Limit bounds the result list, between 1 and MaxLimit.
	Limit int

	// MinSimilarity discards results with a fused score below it, in [0,1].
	MinSimilarity float32

	// SemanticWeight is the semantic share of the fused score, in [0,1].
	// 0 is exactly lexical-only ranking, 1 exactly semantic-only.
	SemanticWeight float32

	// Licensed indicates the caller holds an entitlement to restricted text.
	// Supplied by the entitlement collaborator, treated as opaque here.
	Licensed bool
}

// NewRequest creates a Request with defaults applied.
func NewRequest(query string) *Request {
	return &Request{
		Query:          strings.TrimSpace(query),
		Mode:           ModeAuto,
		Limit:          DefaultLimit,
		SemanticWeight: DefaultSemanticWeight,
	}
}

// Validate checks the request bounds. Violations wrap ErrInvalidQuery.
func (r *Request) Validate() error {
	if r.Limit < 1 || r.Limit > MaxLimit {
		return fmt.Errorf("%w: limit must be between 1 and %d, got %d", ErrInvalidQuery, MaxLimit, r.Limit)
	}
	if r.MinSimilarity < 0 || r.MinSimilarity > 1 {
		return fmt.Errorf("%w: min similarity must be in [0,1], got %g", ErrInvalidQuery, r.MinSimilarity)
	}
	if r.SemanticWeight < 0 || r.SemanticWeight > 1 {
		return fmt.Errorf("%w: semantic weight must be in [0,1], got %g", ErrInvalidQuery, r.SemanticWeight)
	}
	if r.Mode == ModeFaceted {
		if len(r.Facets) == 0 {
			return fmt.Errorf("%w: faceted mode requires at least one facet", ErrInvalidQuery)
		}
		return nil
	}
	if strings.TrimSpace(r.Query) == "" {
		if r.Mode == ModeAuto && len(r.Facets) > 0 {
			return nil
		}
		return fmt.Errorf("%w: query must not be empty", ErrInvalidQuery)
	}
	return nil
}

// codeShapePattern matches short alphanumeric tokens with an optional decimal
// segment, the shape of catalog identifiers like I10, E11.9 or 99213.
var codeShapePattern = regexp.MustCompile(`^[A-Za-z0-9]{1,7}(\.[A-Za-z0-9]{1,4})?$`)

// looksLikeCode reports whether the query resembles a catalog code rather
// than natural language. A code always carries at least one digit.
func looksLikeCode(query string) bool {
	query = strings.TrimSpace(query)
	if !codeShapePattern.MatchString(query) {
		return false
	}
	return strings.ContainsAny(query, "0123456789")
}

// resolveMode maps ModeAuto to a concrete mode based on the query shape.
func (r *Request) resolveMode() Mode {
	if r.Mode != ModeAuto {
		return r.Mode
	}
	if strings.TrimSpace(r.Query) == "" {
		return ModeFaceted
	}
	if looksLikeCode(r.Query) {
		return ModeExact
	}
	return ModeHybrid
}
