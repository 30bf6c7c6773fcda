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


// Package ai provides abstractions for the embedding services used by the
// code retrieval engine.
//
// The package defines the Embedder interface so that search and ingestion
// depend on an abstraction rather than a concrete embedding client. Two
// implementation sub-packages are provided:
//
//   - ai/openai: Production implementation using OpenAI-compatible APIs
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewEmbedder) return the INTERFACE type to
// enforce abstraction and prevent accidental coupling to concrete
// implementations.
//
//	embedder, err := openai.NewEmbedder(config)  // returns ai.Embedder
//
// Test utility constructors (mock.NewMockEmbedder) return CONCRETE types to
// enable test assertions and behavior injection via the mock's public fields
// and methods (CallCount, EmbedTextFunc, Reset).
//
//	mockEmbed := mock.NewMockEmbedder()
//	mockEmbed.EmbedTextFunc = func(...) {...}
//	count := mockEmbed.CallCount()
//
// # Usage Example
//
//	config := ai.NewConfig(
//	    ai.WithHost("http://localhost:11434"),
//	    ai.WithEmbeddingModel("embeddinggemma"),
//	)
//	embedder, err := openai.NewEmbedder(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	vector, err := embedder.EmbedText(ctx, "essential hypertension")
package ai
