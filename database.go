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


package medcodeapi

import (
	"io"
	"log/slog"

	"github.com/mmakkena/medcodeapi/ai"
	"github.com/mmakkena/medcodeapi/ai/openai"
	"github.com/mmakkena/medcodeapi/backfill"
	"github.com/mmakkena/medcodeapi/ingestion"
	"github.com/mmakkena/medcodeapi/search"
	"github.com/mmakkena/medcodeapi/storage"
	"github.com/mmakkena/medcodeapi/storage/badger"
)

// Database aggregates the catalog store, its repositories and the embedding
// client behind one handle.
type Database struct {
	backend        *badger.Backend
	catalogRepo    storage.CatalogRepository
	mappingRepo    storage.MappingRepository
	checkpointRepo storage.CheckpointRepository
	embedder       ai.Embedder
	aiConfig       *ai.Config
	logger         *slog.Logger
}

// DatabaseOption configures a Database.
type DatabaseOption func(*databaseOptions)

type databaseOptions struct {
	aiConfig *ai.Config
	embedder ai.Embedder
	inMemory bool
}

// WithAIConfig sets the embedding service configuration.
func WithAIConfig(config *ai.Config) DatabaseOption {
	return func(o *databaseOptions) {
		if config != nil {
			o.aiConfig = config
		}
	}
}

// WithEmbedder injects a pre-built embedder instead of constructing the
// OpenAI-compatible client from the AI config.
func WithEmbedder(embedder ai.Embedder) DatabaseOption {
	return func(o *databaseOptions) {
		o.embedder = embedder
	}
}

// WithInMemory opens an ephemeral store instead of an on-disk one.
func WithInMemory() DatabaseOption {
	return func(o *databaseOptions) {
		o.inMemory = true
	}
}

// NewDatabase opens the catalog store at filePath and wires the repositories
// and embedding client.
func NewDatabase(filePath string, opts ...DatabaseOption) (*Database, error) {
	// Apply options
	options := &databaseOptions{
		aiConfig: ai.DefaultConfig(), // Default if not provided
	}
	for _, opt := range opts {
		opt(options)
	}

	// Open backend
	backend, err := badger.OpenBackend(filePath, options.inMemory)
	if err != nil {
		return nil, err
	}

	// Create catalog repository
	catalogRepo, err := badger.NewCatalogRepository(backend)
	if err != nil {
		backend.Close()
		return nil, err
	}

	// Create mapping repository
	mappingRepo, err := badger.NewMappingRepository(backend)
	if err != nil {
		catalogRepo.Close()
		backend.Close()
		return nil, err
	}

	// Create checkpoint repository
	checkpointRepo := badger.NewCheckpointRepository(backend)

	embedder := options.embedder
	if embedder == nil {
		embedder, err = openai.NewEmbedder(options.aiConfig)
		if err != nil {
			mappingRepo.Close()
			catalogRepo.Close()
			backend.Close()
			return nil, err
		}
	}

	return &Database{
		backend:        backend,
		catalogRepo:    catalogRepo,
		mappingRepo:    mappingRepo,
		checkpointRepo: checkpointRepo,
		embedder:       embedder,
		aiConfig:       options.aiConfig,
		logger:         slog.Default(),
	}, nil
}

// Close releases the repositories and the underlying store.
func (db *Database) Close() error {
	if err := db.mappingRepo.Close(); err != nil {
		db.logger.Error("error closing mapping repository", "err", err)
		return err
	}
	if err := db.catalogRepo.Close(); err != nil {
		db.logger.Error("error closing catalog repository", "err", err)
		return err
	}
	if err := db.backend.Close(); err != nil {
		db.logger.Error("error closing backend storage", "err", err)
		return err
	}
	return nil
}

func (db *Database) CatalogRepository() storage.CatalogRepository {
	return db.catalogRepo
}

func (db *Database) MappingRepository() storage.MappingRepository {
	return db.mappingRepo
}

func (db *Database) CheckpointRepository() storage.CheckpointRepository {
	return db.checkpointRepo
}

// NewSearchEngine builds a search engine over this database.
func (db *Database) NewSearchEngine(opts ...search.Option) (*search.Engine, error) {
	return search.NewEngine(db.catalogRepo, db.mappingRepo, db.embedder, opts...)
}

// NewIngestionPipeline builds a catalog write pipeline over this database.
func (db *Database) NewIngestionPipeline(opts ...ingestion.Option) (*ingestion.Pipeline, error) {
	return ingestion.NewPipeline(db.catalogRepo, db.mappingRepo, db.checkpointRepo, db.embedder, opts...)
}

// NewBackfiller builds an embedding backfill job over this database.
// Progress is written to the provided writer.
func (db *Database) NewBackfiller(config *backfill.Config, progress io.Writer) *backfill.Backfiller {
	return backfill.NewBackfiller(db.catalogRepo, db.embedder, config, progress)
}
