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


package backfill

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/mmakkena/medcodeapi/ai"
	"github.com/mmakkena/medcodeapi/core"
	"github.com/mmakkena/medcodeapi/storage"
)

// Config holds configuration for the backfill operation.
type Config struct {
	// BatchSize is the number of records to process in each batch
	BatchSize int

	// ReportInterval is how often to report progress (number of records)
	ReportInterval int

	// MaxRetries is the maximum number of retry attempts for failed operations
	MaxRetries int

	// RetryDelay is the base delay for exponential backoff
	RetryDelay time.Duration

	// Dimensions is the expected embedding dimensionality. 0 disables the check.
	Dimensions int
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BatchSize:      100,
		ReportInterval: 100,
		MaxRetries:     3,
		RetryDelay:     1 * time.Second,
	}
}

// Backfiller embeds every catalog record the ingestion path left without a
// vector, so they become eligible for semantic search.
type Backfiller struct {
	catalog   storage.CatalogRepository
	embedder  ai.Embedder
	config    *Config
	progress  io.Writer
	processor *BatchProcessor
	iterator  *MissingVectorIterator
}

// NewBackfiller creates a new backfiller.
// progress: where to write progress output (typically os.Stderr)
func NewBackfiller(catalog storage.CatalogRepository, embedder ai.Embedder, config *Config, progress io.Writer) *Backfiller {
	if config == nil {
		config = DefaultConfig()
	}

	processor := NewBatchProcessor(catalog, embedder, config.Dimensions, config.MaxRetries, config.RetryDelay)
	iterator := NewMissingVectorIterator(catalog, config.BatchSize)

	return &Backfiller{
		catalog:   catalog,
		embedder:  embedder,
		config:    config,
		progress:  progress,
		processor: processor,
		iterator:  iterator,
	}
}

// Run executes the backfill operation. Every active record without an
// embedding is vectorized and updated in place. Progress is reported to the
// configured writer.
func (b *Backfiller) Run(ctx context.Context) error {
	missing, err := b.catalog.MissingVectors(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to query unembedded records: %w", err)
	}

	total := len(missing)
	if total == 0 {
		fmt.Fprintf(b.progress, "No records awaiting embedding (0 records)\n")
		return nil
	}

	fmt.Fprintf(b.progress, "Starting embedding backfill of %d records (batch size: %d)\n",
		total, b.config.BatchSize)

	tracker := NewProgressTracker(b.progress, total, b.config.ReportInterval)
	tracker.Start()

	err = b.iterator.ForEach(ctx, func(records []*core.CodeRecord) error {
		if err := b.processor.Process(ctx, records); err != nil {
			return fmt.Errorf("failed to process batch: %w", err)
		}
		tracker.Increment(len(records))
		return nil
	})
	if err != nil {
		return err
	}

	tracker.Finish()

	elapsed := tracker.Elapsed()
	fmt.Fprintf(b.progress, "Backfill complete. Processed %d records in %v (%.1f records/sec)\n",
		total, elapsed.Round(time.Second), float64(total)/elapsed.Seconds())

	return nil
}
