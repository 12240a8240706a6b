package store

import (
	"context"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

// boltBucket is the single bucket holding all key-value pairs.
var boltBucket = []byte("keyValueStore")

// BoltStore is a durable Store backed by a bbolt file. It is the
// installation-local equivalent of the browser's IndexedDB: one file,
// one bucket, raw values.
type BoltStore struct {
	db *bolt.DB
}

// OpenBolt opens (creating if needed) a bolt-backed store at path.
func OpenBolt(path string) (*BoltStore, error) {
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open bolt store: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(boltBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close releases the underlying database file.
func (b *BoltStore) Close() error {
	return b.db.Close()
}

// Get implements Store.
func (b *BoltStore) Get(ctx context.Context, key string) ([]byte, error) {
	var value []byte
	err := b.db.View(func(tx *bolt.Tx) error {
		data := tx.Bucket(boltBucket).Get([]byte(key))
		if data == nil {
			return ErrNotFound
		}
		value = make([]byte, len(data))
		copy(value, data)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set implements Store.
func (b *BoltStore) Set(ctx context.Context, key string, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Put([]byte(key), value)
	})
}

// Delete implements Store.
func (b *BoltStore) Delete(ctx context.Context, key string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).Delete([]byte(key))
	})
}

// Keys implements Store.
func (b *BoltStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	err := b.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(boltBucket).ForEach(func(k, _ []byte) error {
			keys = append(keys, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// Clear implements Store.
func (b *BoltStore) Clear(ctx context.Context) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(boltBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(boltBucket)
		return err
	})
}
