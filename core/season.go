package core

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/schema"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// SeasonLoader loads a whole season concurrently. Starting a load cancels the
// one in flight, and a superseded load never replaces the current snapshot.
type SeasonLoader struct {
	stats   *StatsClient
	images  *ImageResolver
	loads   contract.LoadStore
	workers int
	clock   clockwork.Clock
	logger  zerolog.Logger

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	current *schema.SeasonSnapshot
}

// NewSeasonLoader builds a loader. A nil images resolver skips image lookups
// and a nil loads store skips bookkeeping.
func NewSeasonLoader(stats *StatsClient, images *ImageResolver, loads contract.LoadStore, workers int, opts ...Option) *SeasonLoader {
	o := buildOptions(opts)
	if workers <= 0 {
		workers = 1
	}
	return &SeasonLoader{
		stats:   stats,
		images:  images,
		loads:   loads,
		workers: workers,
		clock:   o.clock,
		logger:  o.logger,
	}
}

// Current returns the snapshot of the last completed load, or nil.
func (l *SeasonLoader) Current() *schema.SeasonSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.current
}

// Cancel stops the load in flight, if any.
func (l *SeasonLoader) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
}

// begin registers a new load generation and cancels the previous one.
func (l *SeasonLoader) begin(parent context.Context) (context.Context, uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	ctx, cancel := context.WithCancel(parent)
	l.cancel = cancel
	return ctx, l.gen
}

// commit publishes snap if gen is still the latest load.
func (l *SeasonLoader) commit(gen uint64, snap *schema.SeasonSnapshot) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return false
	}
	if snap != nil {
		l.current = snap
	}
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	return true
}

func (l *SeasonLoader) isLatest(gen uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return gen == l.gen
}

// Load fetches standings, schedule, images and the results of every round run so far.
// It returns ErrSuperseded if another Load started before this one finished.
func (l *SeasonLoader) Load(parent context.Context, season string) (*schema.SeasonSnapshot, error) {
	season, err := l.stats.season(season)
	if err != nil {
		return nil, err
	}

	ctx, gen := l.begin(parent)
	start := l.clock.Now()
	runID := l.beginRecord(season, start)
	log := l.logger.With().Str("season", season).Uint64("generation", gen).Logger()

	snap, err := l.run(ctx, season)
	if err == nil {
		snap.RunID = runID
		snap.LoadedAt = l.clock.Now()
		snap.Duration = snap.LoadedAt.Sub(start)
	}

	if !l.commit(gen, snapOrNil(snap, err)) {
		log.Warn().Msg("season load superseded, discarding results")
		l.endRecord(runID, schema.SupersededOutcome, schema.LoadSummary{})
		return nil, contract.ErrSuperseded
	}
	if err != nil {
		log.Warn().Err(err).Msg("season load failed")
		l.endRecord(runID, schema.FailedOutcome, schema.LoadSummary{})
		return nil, err
	}
	l.endRecord(runID, schema.CompletedOutcome, snap.Summary())
	return snap, nil
}

func snapOrNil(snap *schema.SeasonSnapshot, err error) *schema.SeasonSnapshot {
	if err != nil {
		return nil
	}
	return snap
}

func (l *SeasonLoader) run(ctx context.Context, season string) (*schema.SeasonSnapshot, error) {
	snap := &schema.SeasonSnapshot{
		Season:  season,
		Results: make(map[string]schema.Race),
		Images:  make(map[string]schema.ImageRef),
	}

	// Phase 1: the three season-wide payloads
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		drivers, err := l.stats.DriverStandings(gctx, season)
		snap.Drivers = drivers
		return err
	})
	g.Go(func() error {
		constructors, err := l.stats.ConstructorStandings(gctx, season)
		snap.Constructors = constructors
		return err
	})
	g.Go(func() error {
		schedule, err := l.stats.RaceSchedule(gctx, season)
		snap.Schedule = schedule
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Phase 2: per-entity images and per-round results, keyed as they land
	var mu sync.Mutex
	g, gctx = errgroup.WithContext(ctx)
	g.SetLimit(l.workers)

	if l.images != nil {
		resolve := func(name string, kind schema.EntityKind) {
			g.Go(func() error {
				ref, err := l.images.Resolve(gctx, name, kind)
				if err != nil {
					return err
				}
				mu.Lock()
				snap.Images[schema.EntityKey(kind, name)] = ref
				mu.Unlock()
				return nil
			})
		}
		for _, d := range snap.Drivers {
			resolve(d.FullName(), schema.DriverEntity)
		}
		for _, c := range snap.Constructors {
			resolve(c.Name, schema.ConstructorEntity)
		}
	}

	for _, race := range PastRounds(snap.Schedule, l.clock.Now()) {
		round := race.Round
		g.Go(func() error {
			result, err := l.stats.RaceResults(gctx, season, round)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case gctx.Err() != nil:
				return gctx.Err()
			case err != nil:
				if snap.RoundErrors == nil {
					snap.RoundErrors = make(map[string]string)
				}
				snap.RoundErrors[round] = err.Error()
			case result != nil:
				snap.Results[round] = *result
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	snap.Drivers, snap.Constructors = AttachImages(snap.Drivers, snap.Constructors, snap.Images)
	return snap, nil
}

func (l *SeasonLoader) beginRecord(season string, start time.Time) string {
	if l.loads == nil {
		return ""
	}
	runID, err := l.loads.BeginLoad(season, start)
	if err != nil {
		l.logger.Warn().Err(err).Msg("failed to record season load start")
		return ""
	}
	return runID
}

func (l *SeasonLoader) endRecord(runID string, outcome schema.LoadOutcome, summary schema.LoadSummary) {
	if l.loads == nil || runID == "" {
		return
	}
	if err := l.loads.EndLoad(runID, l.clock.Now(), outcome, summary); err != nil {
		l.logger.Warn().Err(err).Str("run_id", runID).Msg("failed to record season load end")
	}
}

// IsSuperseded reports whether err means a newer load replaced this one.
func IsSuperseded(err error) bool {
	return errors.Is(err, contract.ErrSuperseded)
}
