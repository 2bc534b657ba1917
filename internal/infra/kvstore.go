package infra

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrKeyNotFound is returned by KVStore.Get when the key was never written.
var ErrKeyNotFound = errors.New("kv: key not found")

// KVStore is the durable key-value contract the quote gateway persists through.
// Values are opaque byte blobs; callers own the encoding.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Ping(ctx context.Context) error
	Close() error
}

// StoreOptions selects and configures a KVStore backend.
type StoreOptions struct {
	Driver      string // redis | badger | postgres | memory
	RedisURL    string
	BadgerPath  string
	DatabaseURL string
}

// OpenStore builds the KVStore named by opts.Driver.
func OpenStore(opts StoreOptions) (KVStore, error) {
	switch opts.Driver {
	case "", "redis":
		rdb, err := NewRedis(opts.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(rdb), nil
	case "badger":
		return OpenBadgerStore(opts.BadgerPath)
	case "postgres":
		db, err := NewDatabase(opts.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(db)
	case "memory":
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("kv: unknown store driver %q", opts.Driver)
	}
}

// MemoryStore keeps values in process memory. Used for tests and local demos.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{data: make(map[string][]byte)}
}

func (m *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryStore) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }
