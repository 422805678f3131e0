package iocache

import (
	"time"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/schema"
	"github.com/stretchr/testify/mock"
)

// MockCacheManager is a mock implementation of CacheManager for testing.
type MockCacheManager struct {
	mock.Mock
}

var _ contract.CacheManager = &MockCacheManager{} // Compile-time check

// GetStore implements the CacheManager interface.
func (m *MockCacheManager) GetStore(ns schema.Namespace) contract.CacheStore {
	ret := m.Called(ns)
	store, _ := ret.Get(0).(contract.CacheStore)
	return store
}

// GetLoadStore implements the CacheManager interface.
func (m *MockCacheManager) GetLoadStore() contract.LoadStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.LoadStore)
	return store
}

// MockCacheStore is a mock implementation of CacheStore for testing.
type MockCacheStore struct {
	mock.Mock
}

var _ contract.CacheStore = &MockCacheStore{} // Compile-time check

// Get implements the CacheStore interface.
func (m *MockCacheStore) Get(key string) ([]byte, int, int64, error) {
	args := m.Called(key)
	data, _ := args.Get(0).([]byte)
	return data, args.Int(1), args.Get(2).(int64), args.Error(3)
}

// Set implements the CacheStore interface.
func (m *MockCacheStore) Set(key string, data []byte, version int, ts int64) error {
	args := m.Called(key, data, version, ts)
	return args.Error(0)
}

// Close implements the CacheStore interface.
func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// GetStatus implements the CacheStore interface.
func (m *MockCacheStore) GetStatus() (schema.CacheStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.CacheStatus), args.Error(1)
}

// MockLoadStore is a mock implementation of LoadStore for testing.
type MockLoadStore struct {
	mock.Mock
}

var _ contract.LoadStore = &MockLoadStore{} // Compile-time check

// BeginLoad implements the LoadStore interface.
func (m *MockLoadStore) BeginLoad(season string, startedAt time.Time) (string, error) {
	args := m.Called(season, startedAt)
	return args.String(0), args.Error(1)
}

// EndLoad implements the LoadStore interface.
func (m *MockLoadStore) EndLoad(runID string, endedAt time.Time, outcome schema.LoadOutcome, summary schema.LoadSummary) error {
	args := m.Called(runID, endedAt, outcome, summary)
	return args.Error(0)
}

// GetStatus implements the LoadStore interface.
func (m *MockLoadStore) GetStatus() (schema.LoadStatus, error) {
	args := m.Called()
	return args.Get(0).(schema.LoadStatus), args.Error(1)
}

// GetAllLoadRuns implements the LoadStore interface.
func (m *MockLoadStore) GetAllLoadRuns() ([]schema.LoadRunRecord, error) {
	args := m.Called()
	runs, _ := args.Get(0).([]schema.LoadRunRecord)
	return runs, args.Error(1)
}

// Close implements the LoadStore interface.
func (m *MockLoadStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
