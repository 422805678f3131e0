package iocache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/schema"
	bolt "go.etcd.io/bbolt"
)

// ErrNotFound is returned by non-SQL stores when a key is missing.
var ErrNotFound = errors.New("cache entry not found")

// boltHeaderLen is the size of the timestamp and version prefix of every bolt value.
const boltHeaderLen = 12

// sharedHandle closes a resource once the last store using it is closed.
type sharedHandle struct {
	mu     sync.Mutex
	refs   int
	closed bool
	close  func() error
}

func newSharedHandle(closeFn func() error) *sharedHandle {
	return &sharedHandle{close: closeFn}
}

func (h *sharedHandle) acquire() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.refs++
}

// release drops one reference and closes the resource with the last one.
func (h *sharedHandle) release() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	h.refs--
	if h.refs > 0 {
		return nil
	}
	h.closed = true
	return h.close()
}

// boltFile is a bbolt database shared by the stores of all namespaces.
type boltFile struct {
	db     *bolt.DB
	path   string
	handle *sharedHandle
}

// openBoltFile opens path and makes sure every namespace bucket exists.
func openBoltFile(path string) (*boltFile, error) {
	if path == "" {
		path = contract.GetBoltFilePath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create directory for bolt cache %q: %w", path, err)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt cache at %q: %w", path, err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, ns := range schema.AllNamespaces {
			if _, err := tx.CreateBucketIfNotExists([]byte(tableFor(ns))); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bolt buckets: %w", err)
	}
	return &boltFile{db: db, path: path, handle: newSharedHandle(db.Close)}, nil
}

// BoltStore keeps one cache namespace in a bucket of a bbolt file.
type BoltStore struct {
	file      *boltFile
	bucket    []byte
	namespace schema.Namespace
}

var _ contract.CacheStore = &BoltStore{} // Compile-time check

// newBoltStore attaches a namespace store to an open file.
func newBoltStore(file *boltFile, ns schema.Namespace) *BoltStore {
	file.handle.acquire()
	return &BoltStore{file: file, bucket: []byte(tableFor(ns)), namespace: ns}
}

// NewBoltStores opens a bolt file and returns one store per namespace.
func NewBoltStores(path string) (map[schema.Namespace]contract.CacheStore, error) {
	file, err := openBoltFile(path)
	if err != nil {
		return nil, err
	}
	stores := make(map[schema.Namespace]contract.CacheStore, len(schema.AllNamespaces))
	for _, ns := range schema.AllNamespaces {
		stores[ns] = newBoltStore(file, ns)
	}
	return stores, nil
}

func encodeBoltValue(value []byte, version int, timestamp int64) []byte {
	buf := make([]byte, boltHeaderLen+len(value))
	binary.BigEndian.PutUint64(buf[0:8], uint64(timestamp))
	binary.BigEndian.PutUint32(buf[8:12], uint32(version))
	copy(buf[boltHeaderLen:], value)
	return buf
}

func decodeBoltValue(raw []byte) ([]byte, int, int64, error) {
	if len(raw) < boltHeaderLen {
		return nil, 0, 0, fmt.Errorf("corrupt bolt value: %d bytes", len(raw))
	}
	ts := int64(binary.BigEndian.Uint64(raw[0:8]))
	version := int(binary.BigEndian.Uint32(raw[8:12]))
	value := make([]byte, len(raw)-boltHeaderLen)
	copy(value, raw[boltHeaderLen:])
	return value, version, ts, nil
}

// Get retrieves a value by key. A missing key returns ErrNotFound.
func (bs *BoltStore) Get(key string) ([]byte, int, int64, error) {
	var raw []byte
	err := bs.file.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bs.bucket)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(key))
		if v == nil {
			return ErrNotFound
		}
		// bolt memory is only valid inside the transaction
		raw = make([]byte, len(v))
		copy(raw, v)
		return nil
	})
	if err != nil {
		return nil, 0, 0, err
	}
	return decodeBoltValue(raw)
}

// Set inserts or replaces a key/value pair.
func (bs *BoltStore) Set(key string, value []byte, version int, timestamp int64) error {
	return bs.file.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(bs.bucket)
		if err != nil {
			return err
		}
		return b.Put([]byte(key), encodeBoltValue(value, version, timestamp))
	})
}

// GetStatus walks the bucket to report entries and their time range.
func (bs *BoltStore) GetStatus() (schema.CacheStatus, error) {
	status := schema.CacheStatus{
		Backend:   string(schema.BoltBackend),
		Namespace: string(bs.namespace),
		Connected: true,
	}

	var oldest, newest int64
	err := bs.file.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bs.bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			if len(v) < boltHeaderLen {
				return nil
			}
			ts := int64(binary.BigEndian.Uint64(v[0:8]))
			if status.TotalEntries == 0 || ts < oldest {
				oldest = ts
			}
			if ts > newest {
				newest = ts
			}
			status.TotalEntries++
			status.TableSizeBytes += int64(len(k) + len(v))
			return nil
		})
	})
	if err != nil {
		return status, fmt.Errorf("failed to scan bolt bucket %s: %w", bs.bucket, err)
	}
	if status.TotalEntries > 0 {
		status.LastEntryTime = time.Unix(newest, 0)
		status.OldestEntryTime = time.Unix(oldest, 0)
	}
	return status, nil
}

// Close releases this store's hold on the shared file.
func (bs *BoltStore) Close() error {
	return bs.file.handle.release()
}
