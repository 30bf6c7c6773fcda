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

	"github.com/mmakkena/medcodeapi/core"
	"github.com/mmakkena/medcodeapi/storage"
)

const (
	// DefaultBatchSize is the default number of records to fetch in each batch
	DefaultBatchSize = 100
)

// MissingVectorIterator iterates over unembedded catalog records in batches.
// Each batch is re-queried from the store, so records embedded by the
// supplied function drop out of the next batch naturally.
type MissingVectorIterator struct {
	catalog   storage.CatalogRepository
	batchSize int
}

// NewMissingVectorIterator creates a new iterator.
// batchSize: number of records to fetch in each batch (must be > 0)
func NewMissingVectorIterator(catalog storage.CatalogRepository, batchSize int) *MissingVectorIterator {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &MissingVectorIterator{
		catalog:   catalog,
		batchSize: batchSize,
	}
}

// ForEach calls fn for each batch of unembedded records until none remain.
// Iteration stops on the first error from fn. A batch whose records are
// still unembedded after fn returns yields ErrNoProgress rather than
// looping forever. Context cancellation is checked between batches.
func (it *MissingVectorIterator) ForEach(ctx context.Context, fn func([]*core.CodeRecord) error) error {
	var lastFirstID core.ID
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		batch, err := it.catalog.MissingVectors(ctx, it.batchSize)
		if err != nil {
			return err
		}
		if len(batch) == 0 {
			return nil
		}

		if batch[0].Id == lastFirstID {
			return ErrNoProgress
		}
		lastFirstID = batch[0].Id

		if err := fn(batch); err != nil {
			return err
		}
	}
}
