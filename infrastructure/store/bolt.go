// Package store persists credentials, prompt templates, prompt history and
// composer state on top of a plain key-value store.
package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/boltdb/bolt"

	"github.com/ahrav/go-triptych/internal/ports"
)

var _ ports.KeyValueStore = (*BoltStore)(nil)

var bucketSettings = []byte("settings")

// BoltStore implements ports.KeyValueStore over a single BoltDB bucket.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens or creates the database at path, creating parent
// directories as needed. It fails after one second if another process holds
// the file lock.
func OpenBolt(path string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketSettings); err != nil {
			return fmt.Errorf("failed to create bucket %q: %w", bucketSettings, err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Get implements ports.KeyValueStore. The returned slice is a copy and
// stays valid after the transaction ends.
func (s *BoltStore) Get(_ context.Context, key string) ([]byte, bool, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketSettings).Get([]byte(key)); v != nil {
			out = append([]byte{}, v...)
		}
		return nil
	})
	if err != nil {
		return nil, false, ports.NewStoreError(key, "get", err)
	}
	return out, out != nil, nil
}

// Put implements ports.KeyValueStore.
func (s *BoltStore) Put(_ context.Context, key string, value []byte) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSettings).Put([]byte(key), value)
	})
	if err != nil {
		return ports.NewStoreError(key, "put", err)
	}
	return nil
}

// Delete implements ports.KeyValueStore.
func (s *BoltStore) Delete(_ context.Context, key string) error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSettings).Delete([]byte(key))
	})
	if err != nil {
		return ports.NewStoreError(key, "delete", err)
	}
	return nil
}
