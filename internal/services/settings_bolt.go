package services

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"
)

var settingsBucket = []byte("settings")

// Compile-time interface guard.
var _ SettingsRepository = (*BoltSettingsRepository)(nil)

// BoltSettingsRepository implements SettingsRepository on a bbolt file.
// Each value is stored as a JSON-encoded Setting under its key.
type BoltSettingsRepository struct {
	mu     sync.RWMutex
	db     *bolt.DB
	closed bool
}

// OpenBoltSettingsRepository opens (or creates) the bbolt file at path.
func OpenBoltSettingsRepository(path string) (*BoltSettingsRepository, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("settings path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("ensure settings dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open settings db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(settingsBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create settings bucket: %w", err)
	}
	return &BoltSettingsRepository{db: db}, nil
}

// Close closes the underlying database. It is safe to call more than once.
func (r *BoltSettingsRepository) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	return r.db.Close()
}

func (r *BoltSettingsRepository) Get(_ context.Context, key string) (*Setting, error) {
	var s *Setting
	err := r.view(func(b *bolt.Bucket) error {
		raw := b.Get([]byte(key))
		if raw == nil {
			return ErrNotFound
		}
		decoded, err := decodeSetting(key, raw)
		if err != nil {
			return err
		}
		s = &decoded
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

func (r *BoltSettingsRepository) GetAll(_ context.Context) ([]Setting, error) {
	settings := []Setting{}
	err := r.view(func(b *bolt.Bucket) error {
		// bbolt iterates keys in byte order.
		return b.ForEach(func(k, v []byte) error {
			s, err := decodeSetting(string(k), v)
			if err != nil {
				return err
			}
			settings = append(settings, s)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *BoltSettingsRepository) Set(_ context.Context, key, value string) error {
	raw, err := json.Marshal(Setting{Key: key, Value: value, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("encode setting %q: %w", key, err)
	}
	return r.update(func(b *bolt.Bucket) error {
		if err := b.Put([]byte(key), raw); err != nil {
			return fmt.Errorf("set setting %q: %w", key, err)
		}
		return nil
	})
}

func (r *BoltSettingsRepository) Delete(_ context.Context, key string) error {
	return r.update(func(b *bolt.Bucket) error {
		if b.Get([]byte(key)) == nil {
			return ErrNotFound
		}
		if err := b.Delete([]byte(key)); err != nil {
			return fmt.Errorf("delete setting %q: %w", key, err)
		}
		return nil
	})
}

func (r *BoltSettingsRepository) view(fn func(b *bolt.Bucket) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrStoreClosed
	}
	return r.db.View(func(tx *bolt.Tx) error {
		return fn(tx.Bucket(settingsBucket))
	})
}

func (r *BoltSettingsRepository) update(fn func(b *bolt.Bucket) error) error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return ErrStoreClosed
	}
	return r.db.Update(func(tx *bolt.Tx) error {
		return fn(tx.Bucket(settingsBucket))
	})
}

func decodeSetting(key string, raw []byte) (Setting, error) {
	var s Setting
	if err := json.Unmarshal(raw, &s); err != nil {
		return Setting{}, fmt.Errorf("decode setting %q: %w", key, err)
	}
	s.Key = key
	return s, nil
}
