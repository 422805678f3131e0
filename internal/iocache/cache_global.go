package iocache

import (
	"database/sql"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &CacheStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// OpenCacheStores opens one store per namespace on the backend.
func OpenCacheStores(backend schema.DatabaseBackend, connStr string) (map[schema.Namespace]contract.CacheStore, error) {
	switch backend {
	case schema.SQLiteBackend, schema.MySQLBackend, schema.PostgreSQLBackend:
		return NewSQLStores(backend, connStr)

	case schema.BoltBackend:
		return NewBoltStores(connStr)

	case schema.RedisBackend:
		return NewRedisStores(connStr)

	case schema.MemoryBackend:
		return NewMemoryManager().stores, nil

	case schema.NoneBackend:
		stores := make(map[schema.Namespace]contract.CacheStore, len(schema.AllNamespaces))
		for _, ns := range schema.AllNamespaces {
			stores[ns] = NoopStore{namespace: ns}
		}
		return stores, nil

	default:
		return nil, fmt.Errorf("unsupported cache backend: %s. Must be sqlite, mysql, postgresql, bolt, redis, memory, or none", backend)
	}
}

func closeStores(stores map[schema.Namespace]contract.CacheStore) {
	for _, s := range stores {
		_ = s.Close()
	}
}

// InitStores initializes the global manager with separate cache and load stores.
// cacheBackend can be empty to disable caching.
// loadBackend can be empty to disable load tracking.
func InitStores(cacheBackend schema.DatabaseBackend, cacheConnStr string, loadBackend schema.DatabaseBackend, loadConnStr string) error {
	var initErr error

	initOnce.Do(func() {
		var stores map[schema.Namespace]contract.CacheStore
		if cacheBackend != "" {
			var err error
			stores, err = OpenCacheStores(cacheBackend, cacheConnStr)
			if err != nil {
				initErr = fmt.Errorf("failed to initialize caching: %w", err)
				return
			}
		}

		var loads contract.LoadStore
		if loadBackend != "" {
			ls, err := NewLoadStore(loadBackend, loadConnStr)
			if err != nil {
				closeStores(stores)
				initErr = fmt.Errorf("failed to initialize load store: %w", err)
				return
			}
			loads = ls
		}

		Manager.set(stores, loads)
	})

	return initErr
}

// CloseCaching should be called on application shutdown.
func CloseCaching() { // called in main defer
	closeOnce.Do(func() {
		_ = Manager.Close()
	})
}

// ClearCache clears the cache for the specified backend.
// For SQLite and bolt, it deletes the database file.
// For SQL backends (MySQL/PostgreSQL), it drops the namespace tables.
// For Redis, it deletes every paddock key.
// For memory and none, it does nothing.
func ClearCache(backend schema.DatabaseBackend, filePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.BoltBackend:
		return removeFile(filePath)

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		for _, ns := range schema.AllNamespaces {
			if err := clearSQLTable(backend, connStr, tableFor(ns)); err != nil {
				return err
			}
		}
		return nil

	case schema.RedisBackend:
		return clearRedis(connStr)

	case schema.MemoryBackend, schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported cache backend for clearing: %s", backend)
	}
}

// ClearLoads clears the load bookkeeping for the specified backend.
func ClearLoads(backend schema.DatabaseBackend, filePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		return removeFile(filePath)

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		return clearSQLTable(backend, connStr, loadRunsTable)

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported load backend for clearing: %s", backend)
	}
}

// removeFile deletes a database file; a missing file is not an error.
func removeFile(path string) error {
	if path == "" {
		return fmt.Errorf("file path cannot be empty for file backends")
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove database file %s: %w", path, err)
	}
	return nil
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(backend schema.DatabaseBackend, connStr, tableName string) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}
	driverName := driverFor(backend)
	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
