package core

import (
	"database/sql"
	"errors"
	"strconv"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/internal/iocache"
	"github.com/huangsam/paddock/schema"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// currentCacheVersion defines the version of the cache schema
const currentCacheVersion = 1

// Cache keys. Entries are immutable once written, so keys carry every input.
func driverStandingsKey(season string) string      { return "driverStandings_" + season }
func constructorStandingsKey(season string) string { return "constructorStandings_" + season }
func raceScheduleKey(season string) string         { return "raceSchedule_" + season }
func raceResultsKey(season, round string) string   { return "raceResults_" + season + "_" + round }

func lapTimesKey(season, round, driverID string, limit int) string {
	return "lapTimes_" + season + "_" + round + "_" + driverID + "_" + strconv.Itoa(limit)
}

// CacheView is a best-effort view of one namespace. Every failure is a miss.
type CacheView struct {
	store  contract.CacheStore
	ns     schema.Namespace
	clock  clockwork.Clock
	logger zerolog.Logger
}

// NewCacheView wraps store. A nil store disables caching.
func NewCacheView(store contract.CacheStore, ns schema.Namespace, clock clockwork.Clock, logger zerolog.Logger) *CacheView {
	return &CacheView{store: store, ns: ns, clock: clock, logger: logger}
}

// isMiss reports whether err is the store's way of saying "no such key".
func isMiss(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, iocache.ErrNotFound)
}

// Get returns the payload under key, if present and of the current version.
func (v *CacheView) Get(key string) ([]byte, bool) {
	if v == nil || v.store == nil {
		return nil, false
	}
	data, version, _, err := v.store.Get(key)
	switch {
	case err != nil && isMiss(err):
		v.logger.Debug().Str("namespace", string(v.ns)).Str("key", key).Msg("cache miss")
		return nil, false
	case err != nil:
		v.logger.Warn().Err(err).Str("namespace", string(v.ns)).Str("key", key).Msg("cache read failed, treating as miss")
		return nil, false
	case version != currentCacheVersion:
		v.logger.Debug().Str("key", key).Int("version", version).Msg("cache entry has old version")
		return nil, false
	}
	return data, true
}

// Put stores data under key. Failures are logged and dropped.
func (v *CacheView) Put(key string, data []byte) {
	if v == nil || v.store == nil {
		return
	}
	if err := v.store.Set(key, data, currentCacheVersion, v.clock.Now().Unix()); err != nil {
		v.logger.Warn().Err(err).Str("namespace", string(v.ns)).Str("key", key).Msg("cache write failed")
	}
}
