package search

import "github.com/mmakkena/medcodeapi/core"

// Result is one ranked catalog hit. It carries only the text variant the
// caller is entitled to see; the gated field never leaves the engine.
type Result struct {
	// Code and System identify the catalog entry, with its VersionYear.
	Code        string
	System      core.CodeSystem
	VersionYear int

	// Text is the displayed text variant selected by the license gate.
	Text string

	// Category and Facets are the record's categorical attributes.
	Category string
	Facets   map[string]string

	// LexicalScore and SemanticScore are the per-matcher signals.
	// A nil score means the corresponding matcher did not produce this hit.
	LexicalScore  *float32
	SemanticScore *float32

	// FusedScore is the final ranking score, always in [0,1].
	FusedScore float32

	// Mappings are cross-system references for this code, ordered by
	// descending confidence.
	Mappings []*core.MappingEdge
}

// Response is the outcome of one search request.
type Response struct {
	// Results is the ranked, deduplicated hit list, never longer than the
	// request limit.
	Results []*Result

	// Degraded is true when one retrieval strategy was unavailable or timed
	// out and the response was produced by the surviving strategy alone.
	Degraded bool

	// TotalResults counts the candidates that passed filtering before the
	// limit truncation was applied.
	TotalResults int
}
