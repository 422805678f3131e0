// Package core has the cache-aside stats client, image resolution, normalization
// and the cancellable season loader, plus the executors behind each command.
package core

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/internal/ergast"
	"github.com/huangsam/paddock/internal/outwriter"
	"github.com/huangsam/paddock/internal/wiki"
	"github.com/huangsam/paddock/schema"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// ExecutorFunc defines the function signature shared by the simple commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error

// Services bundles the core components built from one configuration.
type Services struct {
	Stats  *StatsClient
	Images *ImageResolver
	Loader *SeasonLoader
	Clock  clockwork.Clock
}

// NewServices wires the upstream clients and the cache stores of mgr from cfg.
func NewServices(cfg *contract.Config, mgr contract.CacheManager, opts ...Option) *Services {
	o := buildOptions(opts)
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	stats := ergast.New(
		ergast.WithHTTPClient(httpClient),
		ergast.WithBaseURL(cfg.StatsBaseURL),
		ergast.WithUserAgent(cfg.UserAgent),
		ergast.WithLogger(o.logger),
	)
	images := wiki.New(
		wiki.WithHTTPClient(httpClient),
		wiki.WithEndpoint(cfg.WikiBaseURL),
		wiki.WithThumbSize(cfg.ThumbSize),
		wiki.WithUserAgent(cfg.UserAgent),
		wiki.WithLogger(o.logger),
	)
	return newServicesWith(stats, images, cfg, mgr, opts...)
}

// newServicesWith builds the services over explicit upstreams.
func newServicesWith(stats contract.StatsAPI, images contract.ImageAPI, cfg *contract.Config, mgr contract.CacheManager, opts ...Option) *Services {
	o := buildOptions(opts)
	sc := NewStatsClient(stats, mgr.GetStore(schema.JSONNamespace), opts...)
	ir := NewImageResolver(images, mgr.GetStore(schema.TextNamespace), mgr.GetStore(schema.ImageNamespace), cfg.ImageBytes, opts...)
	return &Services{
		Stats:  sc,
		Images: ir,
		Loader: NewSeasonLoader(sc, ir, mgr.GetLoadStore(), cfg.Workers, opts...),
		Clock:  o.clock,
	}
}

// servicesFor builds the services of one command, logging through the context logger.
func servicesFor(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) *Services {
	return NewServices(cfg, mgr, WithLogger(*zerolog.Ctx(ctx)))
}

// logHeader prints a banner on stderr for human readable output.
func logHeader(ctx context.Context, cfg *contract.Config, format string, args ...any) {
	if shouldSuppressHeader(ctx) || cfg.Output != schema.TextOut || cfg.OutputFile != "" {
		return
	}
	_, _ = fmt.Fprintf(os.Stderr, "🏎️  "+format+"\n", args...)
}

// DriverStandings returns the season standings, with images when cfg.Images is set.
func (s *Services) DriverStandings(ctx context.Context, cfg *contract.Config) ([]schema.DriverStanding, error) {
	drivers, err := s.Stats.DriverStandings(ctx, cfg.Season)
	if err != nil {
		return nil, err
	}
	drivers = drivers[:min(len(drivers), cfg.ResultLimit)]
	if !cfg.Images {
		return drivers, nil
	}
	names := make([]string, len(drivers))
	for i, d := range drivers {
		names[i] = d.FullName()
	}
	images, err := s.resolveAll(ctx, names, schema.DriverEntity, cfg.Workers)
	if err != nil {
		return nil, err
	}
	drivers, _ = AttachImages(drivers, nil, images)
	return drivers, nil
}

// ConstructorStandings returns the season standings, with images when cfg.Images is set.
func (s *Services) ConstructorStandings(ctx context.Context, cfg *contract.Config) ([]schema.ConstructorStanding, error) {
	constructors, err := s.Stats.ConstructorStandings(ctx, cfg.Season)
	if err != nil {
		return nil, err
	}
	constructors = constructors[:min(len(constructors), cfg.ResultLimit)]
	if !cfg.Images {
		return constructors, nil
	}
	names := make([]string, len(constructors))
	for i, c := range constructors {
		names[i] = c.Name
	}
	images, err := s.resolveAll(ctx, names, schema.ConstructorEntity, cfg.Workers)
	if err != nil {
		return nil, err
	}
	_, constructors = AttachImages(nil, constructors, images)
	return constructors, nil
}

// resolveAll looks up images for names in parallel, keyed by EntityKey.
func (s *Services) resolveAll(ctx context.Context, names []string, kind schema.EntityKind, workers int) (map[string]schema.ImageRef, error) {
	var mu sync.Mutex
	images := make(map[string]schema.ImageRef, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(workers, 1))
	for _, name := range names {
		g.Go(func() error {
			ref, err := s.Images.Resolve(gctx, name, kind)
			if err != nil {
				return err
			}
			mu.Lock()
			images[schema.EntityKey(kind, name)] = ref
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

// ResolveDriverID maps a driver id or a fuzzy name onto a driver id, using the
// standings of cfg.Season. Unknown queries are passed through as ids.
func (s *Services) ResolveDriverID(ctx context.Context, cfg *contract.Config, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("driver is required")
	}
	drivers, err := s.Stats.DriverStandings(ctx, cfg.Season)
	if err != nil {
		return "", err
	}
	if d, ok := FindDriver(drivers, query); ok {
		return d.DriverID, nil
	}
	return strings.ToLower(strings.ReplaceAll(query, " ", "_")), nil
}

// GetDriverStandingsResults runs the driver standings query and returns the records.
func GetDriverStandingsResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.DriverStanding, error) {
	return servicesFor(ctx, cfg, mgr).DriverStandings(ctx, cfg)
}

// GetConstructorStandingsResults runs the constructor standings query and returns the records.
func GetConstructorStandingsResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.ConstructorStanding, error) {
	return servicesFor(ctx, cfg, mgr).ConstructorStandings(ctx, cfg)
}

// GetScheduleResults returns the race calendar of cfg.Season.
func GetScheduleResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) ([]schema.Race, error) {
	return servicesFor(ctx, cfg, mgr).Stats.RaceSchedule(ctx, cfg.Season)
}

// GetRaceResults returns round cfg.Round of cfg.Season, nil if it has not been run.
func GetRaceResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) (*schema.Race, error) {
	if cfg.Round == "" {
		return nil, fmt.Errorf("%w: round is required", contract.ErrInvalidRound)
	}
	return servicesFor(ctx, cfg, mgr).Stats.RaceResults(ctx, cfg.Season, cfg.Round)
}

// GetImageResult resolves the image of one entity.
func GetImageResult(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, name string, kind schema.EntityKind) (schema.ImageRef, error) {
	return servicesFor(ctx, cfg, mgr).Images.Resolve(ctx, name, kind)
}

// ExecuteDriverStandings prints the drivers championship of cfg.Season.
func ExecuteDriverStandings(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	svc := servicesFor(ctx, cfg, mgr)
	start := svc.Clock.Now()
	logHeader(ctx, cfg, "Drivers championship %s", cfg.Season)
	drivers, err := svc.DriverStandings(ctx, cfg)
	if err != nil {
		return err
	}
	return outwriter.WriteDriverStandings(cfg.Season, drivers, cfg, svc.Clock.Since(start))
}

// ExecuteConstructorStandings prints the constructors championship of cfg.Season.
func ExecuteConstructorStandings(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	svc := servicesFor(ctx, cfg, mgr)
	start := svc.Clock.Now()
	logHeader(ctx, cfg, "Constructors championship %s", cfg.Season)
	constructors, err := svc.ConstructorStandings(ctx, cfg)
	if err != nil {
		return err
	}
	return outwriter.WriteConstructorStandings(cfg.Season, constructors, cfg, svc.Clock.Since(start))
}

// ExecuteSchedule prints the race calendar of cfg.Season.
func ExecuteSchedule(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	svc := servicesFor(ctx, cfg, mgr)
	start := svc.Clock.Now()
	logHeader(ctx, cfg, "Race calendar %s", cfg.Season)
	races, err := svc.Stats.RaceSchedule(ctx, cfg.Season)
	if err != nil {
		return err
	}
	return outwriter.WriteSchedule(cfg.Season, races, cfg, svc.Clock.Since(start))
}

// ExecuteRaceResults prints the results of round cfg.Round.
func ExecuteRaceResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	if cfg.Round == "" {
		return fmt.Errorf("%w: round is required", contract.ErrInvalidRound)
	}
	svc := servicesFor(ctx, cfg, mgr)
	start := svc.Clock.Now()
	race, err := svc.Stats.RaceResults(ctx, cfg.Season, cfg.Round)
	if err != nil {
		return err
	}
	return outwriter.WriteRaceResults(cfg.Season, cfg.Round, race, cfg, svc.Clock.Since(start))
}

// ExecuteLapTimes prints a driver's laps in round cfg.Round, up to cfg.ResultLimit.
func ExecuteLapTimes(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, driver string) error {
	if cfg.Round == "" {
		return fmt.Errorf("%w: round is required", contract.ErrInvalidRound)
	}
	svc := servicesFor(ctx, cfg, mgr)
	start := svc.Clock.Now()
	driverID, err := svc.ResolveDriverID(ctx, cfg, driver)
	if err != nil {
		return err
	}
	logHeader(ctx, cfg, "Lap times of %s in %s round %s", driverID, cfg.Season, cfg.Round)
	laps, err := svc.Stats.LapTimes(ctx, cfg.Season, cfg.Round, driverID, cfg.ResultLimit)
	if err != nil {
		return err
	}
	return outwriter.WriteLapTimes(cfg.Season, cfg.Round, driverID, laps, cfg, svc.Clock.Since(start))
}

// ExecuteDriverResults prints the latest results of a driver across seasons.
// The driver may be an id or a name from the cfg.Season standings.
func ExecuteDriverResults(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, driver string) error {
	svc := servicesFor(ctx, cfg, mgr)
	start := svc.Clock.Now()
	driverID, err := svc.ResolveDriverID(ctx, cfg, driver)
	if err != nil {
		return err
	}
	logHeader(ctx, cfg, "Career results of %s", driverID)
	races, err := svc.Stats.DriverResults(ctx, driverID, cfg.ResultLimit)
	if err != nil {
		return err
	}
	return outwriter.WriteDriverResults(driverID, races, cfg, svc.Clock.Since(start))
}

// ExecuteImage prints the resolved image of one entity.
func ExecuteImage(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager, name string, kind schema.EntityKind) error {
	ref, err := GetImageResult(ctx, cfg, mgr, name, kind)
	if err != nil {
		return err
	}
	return outwriter.WriteImage(ref, cfg)
}

// ExecuteSeason loads a whole season concurrently and prints its summary.
// Cancelling ctx stops the load.
func ExecuteSeason(ctx context.Context, cfg *contract.Config, mgr contract.CacheManager) error {
	svc := servicesFor(ctx, cfg, mgr)
	logHeader(ctx, cfg, "Loading the %s season with %d workers", cfg.Season, cfg.Workers)
	snap, err := svc.Loader.Load(ctx, cfg.Season)
	if err != nil {
		return err
	}
	return outwriter.WriteSeason(snap, SeasonWinners(flattenRaces(snap.Results)), cfg)
}

// flattenRaces turns keyed results into a slice for SeasonWinners, which sorts by round.
func flattenRaces(results map[string]schema.Race) []schema.Race {
	races := make([]schema.Race, 0, len(results))
	for _, r := range results {
		races = append(races, r)
	}
	return races
}
