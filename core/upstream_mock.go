package core

import (
	"context"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/stretchr/testify/mock"
)

// MockStatsAPI is a mock implementation of StatsAPI for testing.
type MockStatsAPI struct {
	mock.Mock
}

var _ contract.StatsAPI = &MockStatsAPI{} // Compile-time check

func (m *MockStatsAPI) payload(args mock.Arguments) ([]byte, error) {
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

// DriverStandings implements the StatsAPI interface.
func (m *MockStatsAPI) DriverStandings(ctx context.Context, season string) ([]byte, error) {
	return m.payload(m.Called(ctx, season))
}

// ConstructorStandings implements the StatsAPI interface.
func (m *MockStatsAPI) ConstructorStandings(ctx context.Context, season string) ([]byte, error) {
	return m.payload(m.Called(ctx, season))
}

// Schedule implements the StatsAPI interface.
func (m *MockStatsAPI) Schedule(ctx context.Context, season string) ([]byte, error) {
	return m.payload(m.Called(ctx, season))
}

// RaceResults implements the StatsAPI interface.
func (m *MockStatsAPI) RaceResults(ctx context.Context, season, round string) ([]byte, error) {
	return m.payload(m.Called(ctx, season, round))
}

// DriverResults implements the StatsAPI interface.
func (m *MockStatsAPI) DriverResults(ctx context.Context, driverID string, limit int) ([]byte, error) {
	return m.payload(m.Called(ctx, driverID, limit))
}

// LapTimes implements the StatsAPI interface.
func (m *MockStatsAPI) LapTimes(ctx context.Context, season, round, driverID string, limit int) ([]byte, error) {
	return m.payload(m.Called(ctx, season, round, driverID, limit))
}

// MockImageAPI is a mock implementation of ImageAPI for testing.
type MockImageAPI struct {
	mock.Mock
}

var _ contract.ImageAPI = &MockImageAPI{} // Compile-time check

// LookupTitle implements the ImageAPI interface.
func (m *MockImageAPI) LookupTitle(ctx context.Context, title string) (string, error) {
	args := m.Called(ctx, title)
	return args.String(0), args.Error(1)
}

// Search implements the ImageAPI interface.
func (m *MockImageAPI) Search(ctx context.Context, query string) ([]int64, error) {
	args := m.Called(ctx, query)
	ids, _ := args.Get(0).([]int64)
	return ids, args.Error(1)
}

// LookupPage implements the ImageAPI interface.
func (m *MockImageAPI) LookupPage(ctx context.Context, pageID int64) (string, error) {
	args := m.Called(ctx, pageID)
	return args.String(0), args.Error(1)
}

// SearchPages implements the ImageAPI interface.
func (m *MockImageAPI) SearchPages(ctx context.Context, query string, limit int) ([]contract.WikiPage, error) {
	args := m.Called(ctx, query, limit)
	pages, _ := args.Get(0).([]contract.WikiPage)
	return pages, args.Error(1)
}

// Download implements the ImageAPI interface.
func (m *MockImageAPI) Download(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}
