package preferences

import (
	"context"
	"errors"
	"sync"

	"worldmandia-web/internal/database"
)

// ErrNotFound is returned by a Backend when no record exists for a key
var ErrNotFound = errors.New("preference record not found")

// UpdateFunc computes the new raw record from the current one
type UpdateFunc func(current []byte, found bool) ([]byte, error)

// Backend persists raw preference records by key
type Backend interface {
	Load(ctx context.Context, key string) ([]byte, error)
	// Update atomically replaces the record under key with the result of fn
	Update(ctx context.Context, key string, fn UpdateFunc) ([]byte, error)
}

// SQLiteBackend stores records in the kv_store table
type SQLiteBackend struct {
	repo *database.KVRepo
}

// NewSQLiteBackend creates a backend on top of a key/value repository
func NewSQLiteBackend(repo *database.KVRepo) *SQLiteBackend {
	return &SQLiteBackend{repo: repo}
}

func (b *SQLiteBackend) Load(ctx context.Context, key string) ([]byte, error) {
	value, err := b.repo.Get(ctx, key)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

func (b *SQLiteBackend) Update(ctx context.Context, key string, fn UpdateFunc) ([]byte, error) {
	value, err := b.repo.Update(ctx, key, func(current string, found bool) (string, error) {
		next, err := fn([]byte(current), found)
		return string(next), err
	})
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// MemoryBackend keeps records in process memory
type MemoryBackend struct {
	mu      sync.Mutex
	records map[string][]byte
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string][]byte)}
}

func (b *MemoryBackend) Load(_ context.Context, key string) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	value, ok := b.records[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), value...), nil
}

func (b *MemoryBackend) Update(_ context.Context, key string, fn UpdateFunc) ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	current, found := b.records[key]
	next, err := fn(current, found)
	if err != nil {
		return nil, err
	}
	b.records[key] = append([]byte(nil), next...)
	return next, nil
}
