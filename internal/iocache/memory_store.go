package iocache

import (
	"sync"
	"time"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/schema"
)

type memoryEntry struct {
	value   []byte
	version int
	ts      int64
}

// MemoryStore is a process-local cache namespace. It is also the store used in tests.
type MemoryStore struct {
	mu        sync.RWMutex
	entries   map[string]memoryEntry
	namespace schema.Namespace
}

var _ contract.CacheStore = &MemoryStore{} // Compile-time check

// NewMemoryStore returns an empty store for a namespace.
func NewMemoryStore(ns schema.Namespace) *MemoryStore {
	return &MemoryStore{entries: make(map[string]memoryEntry), namespace: ns}
}

// Get retrieves a copy of a value by key. A missing key returns ErrNotFound.
func (ms *MemoryStore) Get(key string) ([]byte, int, int64, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	e, ok := ms.entries[key]
	if !ok {
		return nil, 0, 0, ErrNotFound
	}
	return append([]byte(nil), e.value...), e.version, e.ts, nil
}

// Set inserts or replaces a key/value pair.
func (ms *MemoryStore) Set(key string, value []byte, version int, timestamp int64) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.entries[key] = memoryEntry{value: append([]byte(nil), value...), version: version, ts: timestamp}
	return nil
}

// Len returns the number of stored entries.
func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.entries)
}

// GetStatus reports the entries held in memory.
func (ms *MemoryStore) GetStatus() (schema.CacheStatus, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	status := schema.CacheStatus{
		Backend:      string(schema.MemoryBackend),
		Namespace:    string(ms.namespace),
		Connected:    true,
		TotalEntries: len(ms.entries),
	}
	var oldest, newest int64
	first := true
	for k, e := range ms.entries {
		if first || e.ts < oldest {
			oldest = e.ts
		}
		if first || e.ts > newest {
			newest = e.ts
		}
		first = false
		status.TableSizeBytes += int64(len(k) + len(e.value))
	}
	if !first {
		status.OldestEntryTime = time.Unix(oldest, 0)
		status.LastEntryTime = time.Unix(newest, 0)
	}
	return status, nil
}

// Close is a no-op.
func (ms *MemoryStore) Close() error { return nil }

// NoopStore never holds anything. It backs the none backend.
type NoopStore struct {
	namespace schema.Namespace
}

var _ contract.CacheStore = NoopStore{} // Compile-time check

// Get always misses.
func (n NoopStore) Get(string) ([]byte, int, int64, error) { return nil, 0, 0, ErrNotFound }

// Set discards the value.
func (n NoopStore) Set(string, []byte, int, int64) error { return nil }

// GetStatus reports a disconnected store.
func (n NoopStore) GetStatus() (schema.CacheStatus, error) {
	return schema.CacheStatus{Backend: string(schema.NoneBackend), Namespace: string(n.namespace)}, nil
}

// Close is a no-op.
func (n NoopStore) Close() error { return nil }
