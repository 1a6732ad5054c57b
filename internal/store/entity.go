package store

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

const (
	indexSegment = "idx:"
	// multiSep separates the indexed value from the record ID in non-unique index keys.
	multiSep = "\x00"
)

// Entity provides generic CRUD operations for any domain type.
type Entity[T any] struct {
	store   *Badger
	prefix  string
	indexes []Index[T]
}

// Index defines a secondary index on an entity.
//
// A unique index maps prefix+"idx:"+name+":"+value to the record ID and
// rejects a second record with the same value. A non-unique index stores
// one empty key per record, prefix+"idx:"+name+":"+value+"\x00"+id, so all
// records sharing a value can be found with a prefix scan.
type Index[T any] struct {
	name   string
	unique bool
	keyGen func(*T) []string
}

// NewEntity creates a new Entity instance for type T.
func NewEntity[T any](s *Badger, prefix string) *Entity[T] {
	return &Entity[T]{
		store:   s,
		prefix:  prefix,
		indexes: make([]Index[T], 0),
	}
}

// WithUniqueIndex adds a unique secondary index to the entity.
func (e *Entity[T]) WithUniqueIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{name: name, unique: true, keyGen: keyGen})
	return e
}

// WithIndex adds a non-unique secondary index to the entity.
func (e *Entity[T]) WithIndex(name string, keyGen func(*T) []string) *Entity[T] {
	e.indexes = append(e.indexes, Index[T]{name: name, keyGen: keyGen})
	return e
}

// Create creates a new entity with the given ID.
// Returns ErrAlreadyExists if the ID or any unique index value is taken.
func (e *Entity[T]) Create(ctx context.Context, id string, entity *T) error {
	return e.store.update(ctx, func(txn *badger.Txn) error {
		_, err := e.getTxn(txn, id)
		if err == nil {
			return ErrAlreadyExists
		}
		if !errors.Is(err, ErrNotFound) {
			return err
		}
		return e.putTxn(txn, id, nil, entity)
	})
}

// Get retrieves an entity by ID.
// Returns ErrNotFound if the entity does not exist.
func (e *Entity[T]) Get(ctx context.Context, id string) (*T, error) {
	var entity *T
	err := e.store.view(ctx, func(txn *badger.Txn) error {
		var err error
		entity, err = e.getTxn(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// GetByIndex retrieves an entity through a unique secondary index.
func (e *Entity[T]) GetByIndex(ctx context.Context, indexName, value string) (*T, error) {
	var entity *T
	err := e.store.view(ctx, func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(e.prefix + indexSegment + indexName + ":" + value))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get index key: %w", err)
		}

		id, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}

		entity, err = e.getTxn(txn, string(id))
		return err
	})
	if err != nil {
		return nil, err
	}
	return entity, nil
}

// ListByIndex returns every entity carrying value in a non-unique index.
func (e *Entity[T]) ListByIndex(ctx context.Context, indexName, value string) ([]*T, error) {
	var entities []*T
	err := e.store.view(ctx, func(txn *badger.Txn) error {
		var err error
		entities, err = e.listByIndexTxn(txn, indexName, value)
		return err
	})
	if err != nil {
		return nil, err
	}
	return entities, nil
}

// Modify applies fn to the stored entity and writes the result back in the
// same transaction, keeping indexes in sync. If fn returns an error nothing
// is written. Conflicting concurrent writers are retried, so fn may run
// more than once and must not have side effects beyond the entity.
func (e *Entity[T]) Modify(ctx context.Context, id string, fn func(*T) error) (*T, error) {
	var result *T
	err := e.store.update(ctx, func(txn *badger.Txn) error {
		current, err := e.getTxn(txn, id)
		if err != nil {
			return err
		}

		oldKeys := e.indexKeys(current, id)
		if err := fn(current); err != nil {
			return err
		}
		if err := e.putTxn(txn, id, oldKeys, current); err != nil {
			return err
		}

		result = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete deletes an entity by ID, reporting whether it existed.
func (e *Entity[T]) Delete(ctx context.Context, id string) (bool, error) {
	var deleted bool
	err := e.store.update(ctx, func(txn *badger.Txn) error {
		entity, err := e.getTxn(txn, id)
		if errors.Is(err, ErrNotFound) {
			deleted = false
			return nil
		}
		if err != nil {
			return err
		}

		deleted = true
		return e.deleteTxn(txn, id, entity)
	})
	return deleted, err
}

// List returns an iterator over all entities.
func (e *Entity[T]) List(ctx context.Context) iter.Seq2[*T, error] {
	return func(yield func(*T, error) bool) {
		if err := ctx.Err(); err != nil {
			yield(nil, err)
			return
		}

		//nolint:errcheck // Errors are delivered through yield
		e.store.db.View(func(txn *badger.Txn) error {
			prefix := []byte(e.prefix)
			opts := badger.DefaultIteratorOptions
			opts.Prefix = prefix

			it := txn.NewIterator(opts)
			defer it.Close()

			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				if ctx.Err() != nil {
					yield(nil, ctx.Err())
					return ctx.Err()
				}

				// Skip index keys
				if strings.HasPrefix(string(it.Item().Key()[len(prefix):]), indexSegment) {
					continue
				}

				var entity T
				err := it.Item().Value(func(val []byte) error {
					return json.Unmarshal(val, &entity)
				})
				if err != nil {
					yield(nil, fmt.Errorf("failed to unmarshal entity: %w", err))
					return err
				}

				if !yield(&entity, nil) {
					return nil // Consumer stopped early
				}
			}
			return nil
		})
	}
}

// All collects List into a slice.
func (e *Entity[T]) All(ctx context.Context) ([]*T, error) {
	var out []*T
	for entity, err := range e.List(ctx) {
		if err != nil {
			return nil, err
		}
		out = append(out, entity)
	}
	return out, nil
}

// Transaction-scoped helpers. Callers in this package compose them inside
// a single Badger transaction when an operation spans several keys.

func (e *Entity[T]) getTxn(txn *badger.Txn, id string) (*T, error) {
	item, err := txn.Get([]byte(e.prefix + id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get key: %w", err)
	}

	var entity T
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &entity)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal entity: %w", err)
	}
	return &entity, nil
}

func (e *Entity[T]) listByIndexTxn(txn *badger.Txn, indexName, value string) ([]*T, error) {
	prefix := []byte(e.prefix + indexSegment + indexName + ":" + value + multiSep)

	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false

	var ids []string
	it := txn.NewIterator(opts)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		ids = append(ids, string(it.Item().Key()[len(prefix):]))
	}
	it.Close()

	entities := make([]*T, 0, len(ids))
	for _, id := range ids {
		entity, err := e.getTxn(txn, id)
		if errors.Is(err, ErrNotFound) {
			continue // dangling index entry
		}
		if err != nil {
			return nil, err
		}
		entities = append(entities, entity)
	}
	return entities, nil
}

// indexKeys returns every index key entity occupies, mapped to the value stored under it.
func (e *Entity[T]) indexKeys(entity *T, id string) map[string][]byte {
	keys := make(map[string][]byte)
	for _, idx := range e.indexes {
		for _, v := range idx.keyGen(entity) {
			if idx.unique {
				keys[e.prefix+indexSegment+idx.name+":"+v] = []byte(id)
			} else {
				keys[e.prefix+indexSegment+idx.name+":"+v+multiSep+id] = nil
			}
		}
	}
	return keys
}

// putTxn writes entity and its index keys. oldKeys are the keys the
// previous version occupied; they are reused or removed as needed.
func (e *Entity[T]) putTxn(txn *badger.Txn, id string, oldKeys map[string][]byte, entity *T) error {
	data, err := json.Marshal(entity)
	if err != nil {
		return fmt.Errorf("failed to marshal entity: %w", err)
	}

	newKeys := e.indexKeys(entity, id)
	for _, idx := range e.indexes {
		if !idx.unique {
			continue
		}
		for _, v := range idx.keyGen(entity) {
			key := e.prefix + indexSegment + idx.name + ":" + v
			if _, reused := oldKeys[key]; reused {
				continue
			}
			_, err := txn.Get([]byte(key))
			if err == nil {
				return fmt.Errorf("index %s conflict on key %s: %w", idx.name, v, ErrAlreadyExists)
			}
			if !errors.Is(err, badger.ErrKeyNotFound) {
				return fmt.Errorf("failed to check index key: %w", err)
			}
		}
	}

	for key := range oldKeys {
		if _, keep := newKeys[key]; keep {
			continue
		}
		if err := txn.Delete([]byte(key)); err != nil {
			return fmt.Errorf("failed to delete old index key: %w", err)
		}
	}

	if err := txn.Set([]byte(e.prefix+id), data); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}

	for key, val := range newKeys {
		if err := txn.Set([]byte(key), val); err != nil {
			return fmt.Errorf("failed to set index key: %w", err)
		}
	}
	return nil
}

func (e *Entity[T]) deleteTxn(txn *badger.Txn, id string, entity *T) error {
	for key := range e.indexKeys(entity, id) {
		if err := txn.Delete([]byte(key)); err != nil {
			return fmt.Errorf("failed to delete index key: %w", err)
		}
	}
	if err := txn.Delete([]byte(e.prefix + id)); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	return nil
}
