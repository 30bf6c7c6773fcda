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


package search

import "errors"

var (
	// ErrCatalogRepositoryRequired is returned when a catalog repository is not provided.
	ErrCatalogRepositoryRequired = errors.New("catalog repository required")

	// ErrMappingRepositoryRequired is returned when a mapping repository is not provided.
	ErrMappingRepositoryRequired = errors.New("mapping repository required")

	// ErrEmbedderRequired is returned when an embedder is not provided.
	ErrEmbedderRequired = errors.New("embedder required")

	// ErrInvalidQuery is returned when a request fails validation.
	// The request is rejected before any matcher runs.
	ErrInvalidQuery = errors.New("invalid search request")

	// ErrRetrieval is returned when the catalog store itself is unreachable.
	// This is the only condition that fails an entire search request.
	ErrRetrieval = errors.New("retrieval failed")
)
