package core

import (
	"context"
	"errors"
	"testing"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/internal/iocache"
	"github.com/huangsam/paddock/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestStats(t *testing.T, api *MockStatsAPI, store contract.CacheStore) *StatsClient {
	t.Helper()
	return NewStatsClient(api, store, WithClock(fakeClock(pastNow)))
}

func TestDriverStandingsCacheAside(t *testing.T) {
	api := &MockStatsAPI{}
	api.On("DriverStandings", mock.Anything, "2021").Return(fixture(t, "driver_standings_2021.json"), nil)
	store := iocache.NewMemoryStore(schema.JSONNamespace)
	stats := newTestStats(t, api, store)

	first, err := stats.DriverStandings(context.Background(), "2021")
	require.NoError(t, err)
	second, err := stats.DriverStandings(context.Background(), "2021")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	api.AssertNumberOfCalls(t, "DriverStandings", 1)
	assert.Equal(t, 1, store.Len())

	_, version, ts, err := store.Get("driverStandings_2021")
	require.NoError(t, err)
	assert.Equal(t, currentCacheVersion, version)
	assert.Equal(t, pastNow.Unix(), ts)
}

func TestDriverStandingsDedup(t *testing.T) {
	api := &MockStatsAPI{}
	api.On("DriverStandings", mock.Anything, "2021").Return(fixture(t, "driver_standings_2021.json"), nil)
	stats := newTestStats(t, api, nil)

	drivers, err := stats.DriverStandings(context.Background(), "2021")
	require.NoError(t, err)
	require.Len(t, drivers, 2)
	assert.Equal(t, "max_verstappen", drivers[0].DriverID)
	assert.Equal(t, []string{"Red Bull", "RB Honda"}, drivers[0].TeamNames)
	assert.Equal(t, "395.5", drivers[0].Points)
}

func TestStandingsMergeEveryList(t *testing.T) {
	api := &MockStatsAPI{}
	api.On("DriverStandings", mock.Anything, "2021").Return(fixture(t, "standings_split_2021.json"), nil)
	api.On("ConstructorStandings", mock.Anything, "2021").Return(fixture(t, "standings_split_2021.json"), nil)
	stats := newTestStats(t, api, nil)

	drivers, err := stats.DriverStandings(context.Background(), "2021")
	require.NoError(t, err)
	require.Len(t, drivers, 2)
	assert.Equal(t, "Max Verstappen", drivers[0].FullName())
	assert.Equal(t, "395.5", drivers[0].Points)
	assert.Equal(t, []string{"Red Bull", "RB Honda"}, drivers[0].TeamNames)
	assert.Equal(t, "Lewis Hamilton", drivers[1].FullName())

	constructors, err := stats.ConstructorStandings(context.Background(), "2021")
	require.NoError(t, err)
	require.Len(t, constructors, 2)
	assert.Equal(t, "Mercedes", constructors[0].Name)
	assert.Equal(t, "613.5", constructors[0].Points)
	assert.Equal(t, "Red Bull", constructors[1].Name)
}

func TestCurrentSeasonNotPersisted(t *testing.T) {
	api := &MockStatsAPI{}
	api.On("DriverStandings", mock.Anything, "2021").Return(fixture(t, "driver_standings_2021.json"), nil)
	store := iocache.NewMemoryStore(schema.JSONNamespace)
	stats := NewStatsClient(api, store, WithClock(fakeClock(pastNow.AddDate(-3, 0, 0))))

	assert.Equal(t, "2021", stats.CurrentSeason())
	for range 2 {
		_, err := stats.DriverStandings(context.Background(), "current")
		require.NoError(t, err)
	}
	api.AssertNumberOfCalls(t, "DriverStandings", 2)
	assert.Zero(t, store.Len())
}

func TestCurrentSeasonReadsExistingEntry(t *testing.T) {
	api := &MockStatsAPI{}
	store := iocache.NewMemoryStore(schema.JSONNamespace)
	require.NoError(t, store.Set("raceSchedule_2021", fixture(t, "schedule_2021.json"), currentCacheVersion, 1))
	stats := NewStatsClient(api, store, WithClock(fakeClock(pastNow.AddDate(-3, 0, 0))))

	races, err := stats.RaceSchedule(context.Background(), "2021")
	require.NoError(t, err)
	assert.Len(t, races, 2)
	api.AssertNotCalled(t, "Schedule", mock.Anything, mock.Anything)
}

func TestCorruptCacheEntryRefetches(t *testing.T) {
	api := &MockStatsAPI{}
	api.On("Schedule", mock.Anything, "2021").Return(fixture(t, "schedule_2021.json"), nil)
	store := iocache.NewMemoryStore(schema.JSONNamespace)
	require.NoError(t, store.Set("raceSchedule_2021", []byte("{not json"), currentCacheVersion, 1))
	stats := newTestStats(t, api, store)

	races, err := stats.RaceSchedule(context.Background(), "2021")
	require.NoError(t, err)
	assert.Len(t, races, 2)

	// The good payload replaced the corrupt one
	data, _, _, err := store.Get("raceSchedule_2021")
	require.NoError(t, err)
	assert.Equal(t, fixture(t, "schedule_2021.json"), data)
}

func TestOldCacheVersionIsMiss(t *testing.T) {
	api := &MockStatsAPI{}
	api.On("ConstructorStandings", mock.Anything, "2021").Return(fixture(t, "constructor_standings_2021.json"), nil)
	store := iocache.NewMemoryStore(schema.JSONNamespace)
	require.NoError(t, store.Set("constructorStandings_2021", fixture(t, "constructor_standings_2021.json"), currentCacheVersion+1, 1))
	stats := newTestStats(t, api, store)

	constructors, err := stats.ConstructorStandings(context.Background(), "2021")
	require.NoError(t, err)
	require.NotEmpty(t, constructors)
	assert.Equal(t, "Mercedes", constructors[0].Name)
	api.AssertNumberOfCalls(t, "ConstructorStandings", 1)
}

func TestFetchErrorPropagates(t *testing.T) {
	api := &MockStatsAPI{}
	fetchErr := &contract.FetchError{Op: "raceSchedule", URL: "http://stats/2021.json", StatusCode: 503}
	api.On("Schedule", mock.Anything, "2021").Return(nil, fetchErr)
	store := iocache.NewMemoryStore(schema.JSONNamespace)
	stats := newTestStats(t, api, store)

	_, err := stats.RaceSchedule(context.Background(), "2021")
	require.Error(t, err)
	assert.True(t, contract.IsFetchError(err))
	assert.Zero(t, store.Len())
}

func TestLiveDecodeErrorNotStored(t *testing.T) {
	api := &MockStatsAPI{}
	api.On("DriverStandings", mock.Anything, "2021").Return([]byte("<html>bad gateway</html>"), nil)
	store := iocache.NewMemoryStore(schema.JSONNamespace)
	stats := newTestStats(t, api, store)

	_, err := stats.DriverStandings(context.Background(), "2021")
	require.Error(t, err)
	assert.True(t, contract.IsDecodeError(err))
	assert.Zero(t, store.Len())
}

func TestCacheFailuresAreMisses(t *testing.T) {
	api := &MockStatsAPI{}
	api.On("Schedule", mock.Anything, "2021").Return(fixture(t, "schedule_2021.json"), nil)
	store := &iocache.MockCacheStore{}
	store.On("Get", "raceSchedule_2021").Return(nil, 0, int64(0), errors.New("connection reset"))
	store.On("Set", "raceSchedule_2021", mock.Anything, currentCacheVersion, pastNow.Unix()).Return(errors.New("disk full"))
	stats := newTestStats(t, api, store)

	races, err := stats.RaceSchedule(context.Background(), "2021")
	require.NoError(t, err)
	assert.Len(t, races, 2)
	store.AssertExpectations(t)
}

func TestRaceResults(t *testing.T) {
	api := &MockStatsAPI{}
	api.On("RaceResults", mock.Anything, "2021", "1").Return(fixture(t, "results_2021_1.json"), nil)
	store := iocache.NewMemoryStore(schema.JSONNamespace)
	stats := newTestStats(t, api, store)

	race, err := stats.RaceResults(context.Background(), "2021", "01")
	require.NoError(t, err)
	require.NotNil(t, race)
	assert.Equal(t, "1", race.Round)
	winner, ok := race.Winner()
	require.True(t, ok)
	assert.Equal(t, "Lewis Hamilton", winner.DriverName())

	_, _, _, err = store.Get("raceResults_2021_1")
	assert.NoError(t, err)
}

func TestRaceResultsValidation(t *testing.T) {
	stats := newTestStats(t, &MockStatsAPI{}, nil)

	tests := []struct {
		name   string
		season string
		round  string
		target error
	}{
		{"zero round", "2021", "0", contract.ErrInvalidRound},
		{"text round", "2021", "first", contract.ErrInvalidRound},
		{"future season", "2031", "1", contract.ErrInvalidSeason},
		{"ancient season", "1949", "1", contract.ErrInvalidSeason},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stats.RaceResults(context.Background(), tt.season, tt.round)
			assert.ErrorIs(t, err, tt.target)
		})
	}
}

func TestDriverResultsUncached(t *testing.T) {
	api := &MockStatsAPI{}
	api.On("DriverResults", mock.Anything, "hamilton", 5).Return(fixture(t, "driver_results_hamilton.json"), nil)
	store := iocache.NewMemoryStore(schema.JSONNamespace)
	stats := newTestStats(t, api, store)

	for range 2 {
		races, err := stats.DriverResults(context.Background(), "hamilton", 5)
		require.NoError(t, err)
		assert.NotEmpty(t, races)
	}
	api.AssertNumberOfCalls(t, "DriverResults", 2)
	assert.Zero(t, store.Len())

	_, err := stats.DriverResults(context.Background(), "", 5)
	assert.Error(t, err)
}

func TestLapTimesKeyCarriesLimit(t *testing.T) {
	api := &MockStatsAPI{}
	api.On("LapTimes", mock.Anything, "2021", "1", "hamilton", 10).Return(fixture(t, "laps_2021_1_hamilton.json"), nil)
	store := iocache.NewMemoryStore(schema.JSONNamespace)
	stats := newTestStats(t, api, store)

	laps, err := stats.LapTimes(context.Background(), "2021", "1", "hamilton", 10)
	require.NoError(t, err)
	assert.NotEmpty(t, laps)

	_, _, _, err = store.Get("lapTimes_2021_1_hamilton_10")
	assert.NoError(t, err)

	_, err = stats.LapTimes(context.Background(), "2021", "1", "", 10)
	assert.Error(t, err)
}

func TestCacheKeys(t *testing.T) {
	assert.Equal(t, "driverStandings_2008", driverStandingsKey("2008"))
	assert.Equal(t, "constructorStandings_2008", constructorStandingsKey("2008"))
	assert.Equal(t, "raceSchedule_2008", raceScheduleKey("2008"))
	assert.Equal(t, "raceResults_2008_18", raceResultsKey("2008", "18"))
	assert.Equal(t, "lapTimes_2008_18_massa_0", lapTimesKey("2008", "18", "massa", 0))
}
