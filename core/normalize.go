package core

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/paddock/internal/wiki"
	"github.com/huangsam/paddock/schema"
	"github.com/sahilm/fuzzy"
)

// DedupDrivers keeps the first standing of every (given, family) name and
// appends the team names of later duplicates to it. Order is preserved.
func DedupDrivers(drivers []schema.DriverStanding) []schema.DriverStanding {
	out := make([]schema.DriverStanding, 0, len(drivers))
	index := make(map[schema.DriverKey]int, len(drivers))
	for _, d := range drivers {
		if i, ok := index[d.Key()]; ok {
			merged := append(append([]string(nil), out[i].TeamNames...), d.TeamNames...)
			out[i].TeamNames = schema.UniqueTeams(merged)
			continue
		}
		d.TeamNames = schema.UniqueTeams(d.TeamNames)
		index[d.Key()] = len(out)
		out = append(out, d)
	}
	return out
}

// DedupConstructors keeps the first standing of every constructor name.
func DedupConstructors(constructors []schema.ConstructorStanding) []schema.ConstructorStanding {
	out := make([]schema.ConstructorStanding, 0, len(constructors))
	seen := make(map[string]struct{}, len(constructors))
	for _, c := range constructors {
		if _, ok := seen[c.Name]; ok {
			continue
		}
		seen[c.Name] = struct{}{}
		out = append(out, c)
	}
	return out
}

// AttachImages returns copies of the standings with their resolved images set.
func AttachImages(drivers []schema.DriverStanding, constructors []schema.ConstructorStanding, images map[string]schema.ImageRef) ([]schema.DriverStanding, []schema.ConstructorStanding) {
	ds := make([]schema.DriverStanding, len(drivers))
	for i, d := range drivers {
		if ref, ok := images[schema.EntityKey(schema.DriverEntity, d.FullName())]; ok {
			d.Image = &ref
		}
		ds[i] = d
	}
	cs := make([]schema.ConstructorStanding, len(constructors))
	for i, c := range constructors {
		if ref, ok := images[schema.EntityKey(schema.ConstructorEntity, c.Name)]; ok {
			c.Image = &ref
		}
		cs[i] = c
	}
	return ds, cs
}

// PastRounds returns the rounds of a schedule that have started by now.
// Rounds without a parseable date are skipped.
func PastRounds(schedule []schema.Race, now time.Time) []schema.Race {
	var out []schema.Race
	for _, r := range schedule {
		start, ok := r.StartsAt()
		if ok && !start.After(now) {
			out = append(out, r)
		}
	}
	return out
}

// SeasonWinners summarizes every race that has a winner, ordered by round.
func SeasonWinners(races []schema.Race) []schema.RoundWinner {
	var out []schema.RoundWinner
	for _, race := range races {
		winner, ok := race.Winner()
		if !ok {
			continue
		}
		rw := schema.RoundWinner{
			Season:           race.Season,
			Round:            race.Round,
			RaceName:         race.Name,
			Winner:           winner.DriverName(),
			Constructor:      winner.ConstructorName,
			Time:             winner.Time,
			FastestLap:       schema.Unknown,
			FastestLapDriver: schema.Unknown,
		}
		for _, res := range race.Results {
			if res.FastestLap != nil && res.FastestLap.Rank == "1" {
				rw.FastestLap = res.FastestLap.Time
				rw.FastestLapDriver = res.DriverName()
				break
			}
		}
		out = append(out, rw)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return roundNumber(out[i].Round) < roundNumber(out[j].Round)
	})
	return out
}

func roundNumber(round string) int {
	n, err := strconv.Atoi(round)
	if err != nil {
		return 0
	}
	return n
}

// driverNames implements fuzzy.Source over folded driver names.
type driverNames []schema.DriverStanding

func (d driverNames) String(i int) string { return wiki.Fold(d[i].FullName()) }
func (d driverNames) Len() int            { return len(d) }

// FindDriver picks the standing that best matches a free-form query.
// Driver ids, codes and exact names win over fuzzy matches.
func FindDriver(drivers []schema.DriverStanding, query string) (schema.DriverStanding, bool) {
	q := wiki.Fold(query)
	if q == "" {
		return schema.DriverStanding{}, false
	}
	for _, d := range drivers {
		if strings.EqualFold(d.DriverID, query) || strings.EqualFold(d.Code, query) ||
			wiki.Fold(d.FullName()) == q || wiki.Fold(d.FamilyName) == q {
			return d, true
		}
	}
	matches := fuzzy.FindFrom(q, driverNames(drivers))
	if len(matches) == 0 {
		return schema.DriverStanding{}, false
	}
	return drivers[matches[0].Index], true
}
