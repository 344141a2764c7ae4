// Package store persists the bookmark set between sessions.
//
// Every backend is a tiny key-value table. The bookmark set lives under a
// single key as a JSON array of ids and is overwritten wholesale on each
// write, so a Store never needs to know what an id refers to.
package store

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// BookmarksKey holds the current bookmark set.
	BookmarksKey = "saved_items"
	// LegacyBookmarksKey is read when BookmarksKey has never been written.
	LegacyBookmarksKey = "saved_articles"
)

// Store loads and saves the bookmark id list.
// Implementations are safe for concurrent use.
type Store interface {
	Load() ([]string, error)
	Save(ids []string) error
	Close() error
}

// kv is the minimal contract a backend implements.
// get reports ok=false when the key has never been written.
type kv interface {
	get(key string) (value []byte, ok bool, err error)
	put(key string, value []byte) error
	close() error
}

// Open creates the configured storage backend.
func Open(driver, path string) (Store, error) {
	driver = strings.TrimSpace(strings.ToLower(driver))

	switch driver {
	case "", "sqlite":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("sqlite storage requires a path")
		}
		db, err := openSQLite(path)
		if err != nil {
			return nil, err
		}
		return &bookmarkStore{kv: db}, nil
	case "bbolt", "bolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		db, err := openBolt(path)
		if err != nil {
			return nil, err
		}
		return &bookmarkStore{kv: db}, nil
	case "memory", "none":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", driver)
	}
}

// NewMemory returns a Store that lives only as long as the process.
func NewMemory() Store {
	return &bookmarkStore{kv: newMemoryKV()}
}

// bookmarkStore layers the JSON encoding and legacy-key lookup on top of a kv.
type bookmarkStore struct {
	kv kv
}

// Load returns the stored ids in the order they were saved. A missing key
// yields an empty, non-nil slice.
func (s *bookmarkStore) Load() ([]string, error) {
	for _, key := range []string{BookmarksKey, LegacyBookmarksKey} {
		raw, ok, err := s.kv.get(key)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", key, err)
		}
		if !ok {
			continue
		}
		return decodeIDs(key, raw)
	}
	return []string{}, nil
}

// Save overwrites the bookmark set.
func (s *bookmarkStore) Save(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode bookmarks: %w", err)
	}
	if err := s.kv.put(BookmarksKey, raw); err != nil {
		return fmt.Errorf("write %s: %w", BookmarksKey, err)
	}
	return nil
}

func (s *bookmarkStore) Close() error {
	return s.kv.close()
}

func decodeIDs(key string, raw []byte) ([]string, error) {
	var ids []string
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	if ids == nil {
		ids = []string{}
	}
	return ids, nil
}
