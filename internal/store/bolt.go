package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

const kvBucket = "kv"

// boltKV is a kv backed by a single BoltDB bucket.
type boltKV struct {
	db *bolt.DB
}

// openBolt initializes a BoltDB file. The file lock means only one process
// can hold it; a second opener fails after a one second timeout.
func openBolt(path string) (*boltKV, error) {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create storage directory: %w", err)
		}
	}

	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bbolt db: %w", err)
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(kvBucket))
		return err
	}); err != nil {
		db.Close()
		return nil, fmt.Errorf("init bucket: %w", err)
	}
	return &boltKV{db: db}, nil
}

func (b *boltKV) get(key string) ([]byte, bool, error) {
	var (
		value []byte
		ok    bool
	)
	err := b.db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(kvBucket))
		if bucket == nil {
			return fmt.Errorf("kv bucket missing")
		}
		if v := bucket.Get([]byte(key)); v != nil {
			// v is only valid for the life of the transaction.
			value = append([]byte(nil), v...)
			ok = true
		}
		return nil
	})
	return value, ok, err
}

func (b *boltKV) put(key string, value []byte) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(kvBucket))
		if bucket == nil {
			return fmt.Errorf("kv bucket missing")
		}
		return bucket.Put([]byte(key), value)
	})
}

func (b *boltKV) close() error {
	if b == nil || b.db == nil {
		return nil
	}
	return b.db.Close()
}
