package iocache

import (
	"sync"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/schema"
)

// CacheStoreManager manages the namespace stores and the load store.
type CacheStoreManager struct {
	sync.RWMutex // Protects the store pointers during initialization
	stores       map[schema.Namespace]contract.CacheStore
	loads        contract.LoadStore
}

var _ contract.CacheManager = &CacheStoreManager{} // Compile-time check

// NewCacheStoreManager builds a manager over already opened stores.
// Namespaces without a store fall back to a no-op store.
func NewCacheStoreManager(stores map[schema.Namespace]contract.CacheStore, loads contract.LoadStore) *CacheStoreManager {
	mgr := &CacheStoreManager{}
	mgr.set(stores, loads)
	return mgr
}

// NewMemoryManager returns a manager with in-memory stores and no load tracking.
func NewMemoryManager() *CacheStoreManager {
	stores := make(map[schema.Namespace]contract.CacheStore, len(schema.AllNamespaces))
	for _, ns := range schema.AllNamespaces {
		stores[ns] = NewMemoryStore(ns)
	}
	return NewCacheStoreManager(stores, nil)
}

func (mgr *CacheStoreManager) set(stores map[schema.Namespace]contract.CacheStore, loads contract.LoadStore) {
	mgr.Lock()
	defer mgr.Unlock()
	mgr.stores = make(map[schema.Namespace]contract.CacheStore, len(schema.AllNamespaces))
	for _, ns := range schema.AllNamespaces {
		if s, ok := stores[ns]; ok && s != nil {
			mgr.stores[ns] = s
		} else {
			mgr.stores[ns] = NoopStore{namespace: ns}
		}
	}
	if loads == nil {
		loads = &LoadStoreImpl{backend: schema.NoneBackend}
	}
	mgr.loads = loads
}

// GetStore returns the CacheStore of a namespace.
func (mgr *CacheStoreManager) GetStore(ns schema.Namespace) contract.CacheStore {
	mgr.RLock()
	defer mgr.RUnlock()
	if s, ok := mgr.stores[ns]; ok {
		return s
	}
	return NoopStore{namespace: ns}
}

// GetLoadStore returns the LoadStore.
func (mgr *CacheStoreManager) GetLoadStore() contract.LoadStore {
	mgr.RLock()
	defer mgr.RUnlock()
	if mgr.loads == nil {
		return &LoadStoreImpl{backend: schema.NoneBackend}
	}
	return mgr.loads
}

// Close closes every store held by the manager.
func (mgr *CacheStoreManager) Close() error {
	mgr.Lock()
	defer mgr.Unlock()
	var firstErr error
	for _, ns := range schema.AllNamespaces {
		if s := mgr.stores[ns]; s != nil {
			if err := s.Close(); err != nil && firstErr == nil {
				firstErr = err
			}
		}
	}
	if mgr.loads != nil {
		if err := mgr.loads.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
