package badger

import (
	"context"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/mmakkena/medcodeapi/core"
	"github.com/mmakkena/medcodeapi/storage"
)

// MappingRepository implements storage.MappingRepository for BadgerDB.
type MappingRepository struct {
	backend *Backend
}

var _ storage.MappingRepository = (*MappingRepository)(nil)

// NewMappingRepository creates a new MappingRepository.
func NewMappingRepository(backend *Backend) (*MappingRepository, error) {
	return &MappingRepository{
		backend: backend,
	}, nil
}

// Close releases resources. MappingRepository has no resources to release.
func (r *MappingRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *MappingRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// AddMappings adds one or more mapping edges. Keys are content-hashed, so
// identical edges overwrite each other.
func (r *MappingRepository) AddMappings(ctx context.Context, edges ...*core.MappingEdge) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, edge := range edges {
			edge.FromCode = core.NormalizeCode(edge.FromCode)
			edge.ToCode = core.NormalizeCode(edge.ToCode)

			key := makeMappingKey(edge)
			value := storage.MarshalMappingEdge(edge)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetMappings retrieves every edge originating from (system, code), ordered
// by descending confidence.
func (r *MappingRepository) GetMappings(ctx context.Context, system core.CodeSystem, code string) ([]*core.MappingEdge, error) {
	var edges []*core.MappingEdge
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makePartialMappingKey(system, code)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var edge *core.MappingEdge
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				edge, err = storage.UnmarshalMappingEdge(val)
				return err
			}); err != nil {
				return err
			}
			if edge != nil {
				edges = append(edges, edge)
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortFunc(edges, func(a, b *core.MappingEdge) int {
		if a.Confidence > b.Confidence {
			return -1
		}
		if a.Confidence < b.Confidence {
			return 1
		}
		return 0
	})

	return edges, nil
}
