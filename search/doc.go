// Copyright 2025 The medcodeapi authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package search provides hybrid retrieval over the clinical code catalog.
//
// The Engine type implements a multi-stage pipeline that combines:
//   - Exact/prefix code matching and fuzzy text matching (lexical)
//   - Nearest-neighbor vector similarity over embeddings (semantic)
//   - Facet filtering, score fusion, deduplication and license gating
//
// A hybrid search fans out to both matchers concurrently and joins with a
// bounded wait: if the semantic side is unavailable or times out, the
// response is produced from the lexical side alone and flagged as degraded
// rather than failed. Only a lexical (catalog store) failure fails the
// request.
package search
