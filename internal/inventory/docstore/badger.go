package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/tair/inventory-tracker/internal/inventory/domain"
)

// BadgerStore keeps documents as JSON values in an embedded badger database.
// Keys are laid out as "<collection>/<key>".
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens a badger database at path. An empty path opens an in-memory database.
func NewBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil // Disable badger logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func documentKey(collection, key string) []byte {
	return []byte(collection + "/" + key)
}

func decodeFields(val []byte) (domain.Fields, error) {
	fields := domain.Fields{}
	dec := json.NewDecoder(bytes.NewReader(val))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return fields, nil
}

func (s *BadgerStore) ListAll(ctx context.Context, collection string) ([]domain.Document, error) {
	prefix := []byte(collection + "/")
	var docs []domain.Document

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			key := string(item.Key()[len(prefix):])
			err := item.Value(func(val []byte) error {
				fields, err := decodeFields(val)
				if err != nil {
					return err
				}
				docs = append(docs, domain.Document{Key: key, Fields: fields})
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}

func (s *BadgerStore) Get(ctx context.Context, collection, key string) (domain.Fields, error) {
	var fields domain.Fields
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		fields, err = getFields(txn, documentKey(collection, key))
		return err
	})
	if err != nil {
		return nil, err
	}
	return fields, nil
}

func getFields(txn *badger.Txn, key []byte) (domain.Fields, error) {
	item, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	var fields domain.Fields
	err = item.Value(func(val []byte) error {
		fields, err = decodeFields(val)
		return err
	})
	return fields, err
}

func (s *BadgerStore) Set(ctx context.Context, collection, key string, fields domain.Fields, merge bool) error {
	dbKey := documentKey(collection, key)

	return s.db.Update(func(txn *badger.Txn) error {
		record := fields
		if merge {
			existing, err := getFields(txn, dbKey)
			if err != nil && !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			record = existing.Merge(fields)
		}
		if record == nil {
			record = domain.Fields{}
		}

		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to marshal document: %w", err)
		}
		return txn.Set(dbKey, data)
	})
}

func (s *BadgerStore) Delete(ctx context.Context, collection, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(documentKey(collection, key))
	})
}

func (s *BadgerStore) Ping(ctx context.Context) error {
	if s.db.IsClosed() {
		return errors.New("badger database is closed")
	}
	return nil
}

// Close closes the database. Closing twice is a no-op.
func (s *BadgerStore) Close() error {
	if s.db != nil && !s.db.IsClosed() {
		return s.db.Close()
	}
	return nil
}
