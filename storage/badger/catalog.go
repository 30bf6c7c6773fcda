package badger

import (
	"bytes"
	"context"
	"errors"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mmakkena/medcodeapi/core"
	"github.com/mmakkena/medcodeapi/storage"
)

// errScanDone stops a scan early once enough records are collected.
var errScanDone = errors.New("scan done")

// CatalogRepository implements storage.CatalogRepository for BadgerDB.
type CatalogRepository struct {
	backend *Backend
}

var _ storage.CatalogRepository = (*CatalogRepository)(nil)

// NewCatalogRepository creates a new CatalogRepository.
func NewCatalogRepository(backend *Backend) (*CatalogRepository, error) {
	return &CatalogRepository{
		backend: backend,
	}, nil
}

// Close releases resources. CatalogRepository has no resources to release.
func (r *CatalogRepository) Close() error {
	return nil
}

// WithTransaction delegates to the backend.
func (r *CatalogRepository) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return r.backend.WithTransaction(ctx, fn)
}

// FindSimilar delegates to the backend.
func (r *CatalogRepository) FindSimilar(ctx context.Context, vector []float32, system core.CodeSystem, versionYear int, minCosine float32, limit int) ([]*core.SimilarityMatch, error) {
	return r.backend.FindSimilar(ctx, vector, system, versionYear, minCosine, limit)
}

// AddCodeRecords upserts one or more code records.
// IDs are content-based on (system, code, version year), so adding the same
// ref twice overwrites the earlier row.
func (r *CatalogRepository) AddCodeRecords(ctx context.Context, records ...*core.CodeRecord) ([]*core.CodeRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			record.Code = core.NormalizeCode(record.Code)
			record.Id = core.IDFromRef(record.System, record.Code, record.VersionYear)

			record.InsertedAt = time.Now().UTC()
			record.UpdatedAt = record.InsertedAt

			// Store primary record
			key := makeCodeRecordKey(record.Id)
			value := storage.MarshalCodeRecord(record)
			if err := tx.Set(key, value); err != nil {
				return err
			}

			// Update code index
			indexKey := makeCodeIndexKey(record.System, record.Code, record.VersionYear)
			if err := tx.Set(indexKey, storage.MarshalID(record.Id)); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// UpdateCodeRecords updates existing code records.
// The natural key (system, code, version year) is immutable and determines
// the record's ID, so the code index never needs rewriting here.
func (r *CatalogRepository) UpdateCodeRecords(ctx context.Context, records ...*core.CodeRecord) ([]*core.CodeRecord, error) {
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, record := range records {
			key := makeCodeRecordKey(record.Id)

			old, err := r.readCodeRecord(tx, key)
			if err != nil {
				return err
			}
			if old == nil {
				return storage.ErrNotFound
			}

			record.Code = core.NormalizeCode(record.Code)
			record.InsertedAt = old.InsertedAt
			record.UpdatedAt = time.Now().UTC()

			value := storage.MarshalCodeRecord(record)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)

	return records, err
}

// DeleteCodeRecords removes code records by their IDs.
func (r *CatalogRepository) DeleteCodeRecords(ctx context.Context, ids ...core.ID) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeCodeRecordKey(id)

			record, err := r.readCodeRecord(tx, key)
			if err != nil {
				return err
			}
			if record == nil {
				return storage.ErrNotFound
			}

			indexKey := makeCodeIndexKey(record.System, record.Code, record.VersionYear)
			if err := tx.Delete(indexKey); err != nil {
				return err
			}

			if err := tx.Delete(key); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// GetCodeRecord retrieves a single code record by ID.
func (r *CatalogRepository) GetCodeRecord(ctx context.Context, id core.ID) (*core.CodeRecord, error) {
	var result *core.CodeRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		key := makeCodeRecordKey(id)
		var err error
		result, err = r.readCodeRecord(tx, key)
		if err != nil {
			return err
		}
		if result == nil {
			return storage.ErrNotFound
		}
		return nil
	}, false)
	return result, err
}

// GetCodeRecords retrieves multiple code records by their IDs.
func (r *CatalogRepository) GetCodeRecords(ctx context.Context, ids ...core.ID) ([]*core.CodeRecord, error) {
	var result []*core.CodeRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			key := makeCodeRecordKey(id)
			record, err := r.readCodeRecord(tx, key)
			if err != nil {
				return err
			}
			if record != nil {
				result = append(result, record)
			}
		}
		return nil
	}, false)
	return result, err
}

// GetByRef retrieves a record by its natural key. A versionYear of 0 resolves
// to the most recent version year held for the ref.
func (r *CatalogRepository) GetByRef(ctx context.Context, system core.CodeSystem, code string, versionYear int) (*core.CodeRecord, error) {
	if err := core.ValidateCodeSystem(system); err != nil {
		return nil, storage.ErrInvalidQuery
	}

	if versionYear != 0 {
		return r.GetCodeRecord(ctx, core.IDFromRef(system, code, versionYear))
	}

	// Scan every version year of the ref; index order is ascending year,
	// so the last entry wins.
	var latest *core.CodeRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		prefix := makeRefIndexPrefix(system, code)
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			var id core.ID
			if err := iter.Item().Value(func(val []byte) error {
				var err error
				id, err = storage.UnmarshalID(val)
				return err
			}); err != nil {
				return err
			}

			record, err := r.readCodeRecord(tx, makeCodeRecordKey(id))
			if err != nil {
				return err
			}
			if record != nil {
				latest = record
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, storage.ErrNotFound
	}
	return latest, nil
}

// PrefixScan returns active records whose code starts with the given prefix,
// in (code, version year) order per system.
func (r *CatalogRepository) PrefixScan(ctx context.Context, system core.CodeSystem, prefix string, versionYear, limit int) ([]*core.CodeRecord, error) {
	systems := []core.CodeSystem{system}
	if system == core.CodeSystemAny {
		systems = core.KnownCodeSystems
	}

	var results []*core.CodeRecord
	err := r.backend.WithTx(func(tx *badger.Txn) error {
		for _, sys := range systems {
			scanPrefix := makePartialCodeIndexKey(sys, prefix)
			opts := badger.DefaultIteratorOptions
			opts.Prefix = scanPrefix
			iter := tx.NewIterator(opts)

			for iter.Rewind(); iter.Valid(); iter.Next() {
				if limit > 0 && len(results) >= limit {
					break
				}
				select {
				case <-ctx.Done():
					iter.Close()
					return ctx.Err()
				default:
				}

				var id core.ID
				if err := iter.Item().Value(func(val []byte) error {
					var err error
					id, err = storage.UnmarshalID(val)
					return err
				}); err != nil {
					iter.Close()
					return err
				}

				record, err := r.readCodeRecord(tx, makeCodeRecordKey(id))
				if err != nil {
					iter.Close()
					return err
				}
				if record == nil || !record.IsActive {
					continue
				}
				if versionYear != 0 && record.VersionYear != versionYear {
					continue
				}
				results = append(results, record)
			}
			iter.Close()

			if limit > 0 && len(results) >= limit {
				break
			}
		}
		return nil
	}, false)

	return results, err
}

// ScanActive iterates every active record, optionally narrowed to one system
// and version year.
func (r *CatalogRepository) ScanActive(ctx context.Context, system core.CodeSystem, versionYear int, fn func(*core.CodeRecord) error) error {
	return r.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(codeRecordPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			item := iter.Item()
			if bytes.HasPrefix(item.Key(), []byte(codeIndexPrefix)) {
				continue
			}

			var record *core.CodeRecord
			if err := item.Value(func(val []byte) error {
				var err error
				record, err = storage.UnmarshalCodeRecord(val)
				return err
			}); err != nil {
				return err
			}
			if record == nil || !record.IsActive {
				continue
			}
			if system != core.CodeSystemAny && record.System != system {
				continue
			}
			if versionYear != 0 && record.VersionYear != versionYear {
				continue
			}

			if err := fn(record); err != nil {
				return err
			}
		}
		return nil
	}, false)
}

// MissingVectors returns up to limit active records awaiting embedding.
func (r *CatalogRepository) MissingVectors(ctx context.Context, limit int) ([]*core.CodeRecord, error) {
	var results []*core.CodeRecord
	err := r.ScanActive(ctx, core.CodeSystemAny, 0, func(record *core.CodeRecord) error {
		if record.HasVector() {
			return nil
		}
		results = append(results, record)
		if limit > 0 && len(results) >= limit {
			return errScanDone
		}
		return nil
	})
	if err != nil && err != errScanDone {
		return nil, err
	}
	return results, nil
}

// readCodeRecord reads a code record from the transaction.
func (r *CatalogRepository) readCodeRecord(tx *badger.Txn, key []byte) (*core.CodeRecord, error) {
	item, err := tx.Get(key)
	if err != nil {
		if err == badger.ErrKeyNotFound {
			return nil, nil
		}
		return nil, err
	}

	var record *core.CodeRecord
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		record, unmarshalErr = storage.UnmarshalCodeRecord(val)
		return unmarshalErr
	})
	return record, err
}
