package core

import (
	"context"
	"errors"
	"strconv"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/internal/ergast"
	"github.com/huangsam/paddock/schema"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// StatsClient serves normalized stats with cache-aside over the JSON namespace.
// Payloads of the current season are read from the cache but never written to it.
type StatsClient struct {
	api    contract.StatsAPI
	cache  *CacheView
	clock  clockwork.Clock
	logger zerolog.Logger
}

// NewStatsClient builds a client. A nil store disables caching.
func NewStatsClient(api contract.StatsAPI, store contract.CacheStore, opts ...Option) *StatsClient {
	o := buildOptions(opts)
	return &StatsClient{
		api:    api,
		cache:  NewCacheView(store, schema.JSONNamespace, o.clock, o.logger),
		clock:  o.clock,
		logger: o.logger,
	}
}

// CurrentSeason is the calendar year of the client's clock.
func (c *StatsClient) CurrentSeason() string {
	return strconv.Itoa(c.clock.Now().Year())
}

// cacheable reports whether payloads of season may be persisted.
func (c *StatsClient) cacheable(season string) bool {
	return season != c.CurrentSeason()
}

// season validates a season argument against the client's clock.
func (c *StatsClient) season(s string) (string, error) {
	return contract.ValidateSeason(s, c.clock.Now())
}

// cacheAside returns the decoded cached payload for key, or fetches, decodes and stores it.
func cacheAside[T any](ctx context.Context, c *StatsClient, key, season string,
	fetch func(context.Context) ([]byte, error), decode func([]byte) (T, error),
) (T, error) {
	if data, ok := c.cache.Get(key); ok {
		v, err := decode(data)
		if err == nil {
			return v, nil
		}
		c.logger.Warn().Err(err).Str("key", key).Msg("cached payload does not decode, refetching")
	}

	var zero T
	data, err := fetch(ctx)
	if err != nil {
		return zero, err
	}
	v, err := decode(data)
	if err != nil {
		return zero, err
	}
	if c.cacheable(season) {
		c.cache.Put(key, data)
	}
	return v, nil
}

// DriverStandings returns the drivers championship, merged by driver identity.
func (c *StatsClient) DriverStandings(ctx context.Context, season string) ([]schema.DriverStanding, error) {
	season, err := c.season(season)
	if err != nil {
		return nil, err
	}
	drivers, err := cacheAside(ctx, c, driverStandingsKey(season), season,
		func(ctx context.Context) ([]byte, error) { return c.api.DriverStandings(ctx, season) },
		ergast.DecodeDriverStandings)
	if err != nil {
		return nil, err
	}
	return DedupDrivers(drivers), nil
}

// ConstructorStandings returns the constructors championship, merged by name.
func (c *StatsClient) ConstructorStandings(ctx context.Context, season string) ([]schema.ConstructorStanding, error) {
	season, err := c.season(season)
	if err != nil {
		return nil, err
	}
	constructors, err := cacheAside(ctx, c, constructorStandingsKey(season), season,
		func(ctx context.Context) ([]byte, error) { return c.api.ConstructorStandings(ctx, season) },
		ergast.DecodeConstructorStandings)
	if err != nil {
		return nil, err
	}
	return DedupConstructors(constructors), nil
}

// RaceSchedule returns one race per round of the season.
func (c *StatsClient) RaceSchedule(ctx context.Context, season string) ([]schema.Race, error) {
	season, err := c.season(season)
	if err != nil {
		return nil, err
	}
	return cacheAside(ctx, c, raceScheduleKey(season), season,
		func(ctx context.Context) ([]byte, error) { return c.api.Schedule(ctx, season) },
		ergast.DecodeSchedule)
}

// RaceResults returns one round with its results, or nil if it has not been run.
func (c *StatsClient) RaceResults(ctx context.Context, season, round string) (*schema.Race, error) {
	season, err := c.season(season)
	if err != nil {
		return nil, err
	}
	round, err = contract.ValidateRound(round)
	if err != nil {
		return nil, err
	}
	return cacheAside(ctx, c, raceResultsKey(season, round), season,
		func(ctx context.Context) ([]byte, error) { return c.api.RaceResults(ctx, season, round) },
		ergast.DecodeRaceResults)
}

// DriverResults returns a driver's most recent results across seasons. Never cached.
func (c *StatsClient) DriverResults(ctx context.Context, driverID string, limit int) ([]schema.Race, error) {
	if driverID == "" {
		return nil, errors.New("driver id is required")
	}
	data, err := c.api.DriverResults(ctx, driverID, limit)
	if err != nil {
		return nil, err
	}
	return ergast.DecodeDriverResults(data)
}

// LapTimes returns a driver's lap timings in one round.
func (c *StatsClient) LapTimes(ctx context.Context, season, round, driverID string, limit int) ([]schema.LapTiming, error) {
	if driverID == "" {
		return nil, errors.New("driver id is required")
	}
	season, err := c.season(season)
	if err != nil {
		return nil, err
	}
	round, err = contract.ValidateRound(round)
	if err != nil {
		return nil, err
	}
	return cacheAside(ctx, c, lapTimesKey(season, round, driverID, limit), season,
		func(ctx context.Context) ([]byte, error) { return c.api.LapTimes(ctx, season, round, driverID, limit) },
		ergast.DecodeLapTimes)
}
