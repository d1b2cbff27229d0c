// SPDX-License-Identifier: MIT

// Package store persists fetched census tables across restarts.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/pooja61096/uscensus/internal/census"
)

// ErrNotFound is returned when no snapshot exists for a key.
var ErrNotFound = errors.New("store: snapshot not found")

const keyPrefix = "tbl:"

// Snapshot is the stored value: the table plus its fetch time, so callers
// can judge staleness.
type Snapshot struct {
	Table     *census.Table `json:"table"`
	FetchedAt time.Time     `json:"fetched_at"`
}

// SnapshotStore is a badger-backed table store. Keys combine the dataset
// name and a caller-chosen key; entries expire after the configured TTL.
type SnapshotStore struct {
	db  *badger.DB
	ttl time.Duration
}

// Open opens (or creates) the store at path. A zero ttl keeps entries
// forever.
func Open(path string, ttl time.Duration) (*SnapshotStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open snapshot store: %w", err)
	}
	return &SnapshotStore{db: db, ttl: ttl}, nil
}

// Close closes the underlying database.
func (s *SnapshotStore) Close() error { return s.db.Close() }

// Put stores a table under dataset/key, stamped with the current time.
func (s *SnapshotStore) Put(dataset, key string, table *census.Table) error {
	snap := Snapshot{Table: table, FetchedAt: time.Now().UTC()}
	buf, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry(storeKey(dataset, key), buf)
		if s.ttl > 0 {
			e = e.WithTTL(s.ttl)
		}
		return txn.SetEntry(e)
	})
}

// Get returns the stored table and its fetch time.
func (s *SnapshotStore) Get(dataset, key string) (*census.Table, time.Time, error) {
	var snap Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(storeKey(dataset, key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, time.Time{}, ErrNotFound
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("read snapshot: %w", err)
	}
	return snap.Table, snap.FetchedAt, nil
}

// Delete removes a stored table. Deleting a missing key is not an error.
func (s *SnapshotStore) Delete(dataset, key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(storeKey(dataset, key))
	})
}

// List returns the keys stored for a dataset.
func (s *SnapshotStore) List(dataset string) ([]string, error) {
	prefix := storeKey(dataset, "")
	var keys []string
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			full := string(it.Item().Key())
			keys = append(keys, strings.TrimPrefix(full, string(prefix)))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return keys, nil
}

func storeKey(dataset, key string) []byte {
	return []byte(keyPrefix + dataset + ":" + key)
}
