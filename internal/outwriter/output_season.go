package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/internal/parquet"
	"github.com/huangsam/paddock/schema"
)

// seasonJSON is the JSON shape of a season load.
type seasonJSON struct {
	*schema.SeasonSnapshot
	Summary schema.LoadSummary   `json:"summary"`
	Winners []schema.RoundWinner `json:"winners"`
}

// WriteSeason outputs a completed season load. winners are derived from snap.Results by the caller.
func WriteSeason(snap *schema.SeasonSnapshot, winners []schema.RoundWinner, cfg *contract.Config) error {
	return dispatch(cfg, "season", renderers{
		table: func(w io.Writer) error { return writeSeasonText(w, snap, winners, cfg) },
		csv:   func(w io.Writer) error { return writeCSVResultsForWinners(w, winners) },
		json: func(w io.Writer) error {
			return writeJSON(w, seasonJSON{SeasonSnapshot: snap, Summary: snap.Summary(), Winners: winners})
		},
		parquet: func(path string) error {
			return parquet.WriteFile(parquet.ConvertRaceResults(sortedResults(snap)), path)
		},
	})
}

// sortedResults returns the loaded rounds in round order.
func sortedResults(snap *schema.SeasonSnapshot) []schema.Race {
	races := make([]schema.Race, 0, len(snap.Results))
	for _, r := range snap.Results {
		races = append(races, r)
	}
	sort.Slice(races, func(i, j int) bool {
		a, _ := strconv.Atoi(races[i].Round)
		b, _ := strconv.Atoi(races[j].Round)
		return a < b
	})
	return races
}

func writeSeasonText(w io.Writer, snap *schema.SeasonSnapshot, winners []schema.RoundWinner, cfg *contract.Config) error {
	sum := snap.Summary()
	if _, err := fmt.Fprintf(w, "🏎️  %s season: %d drivers, %d constructors, %d of %d rounds run\n",
		snap.Season, sum.Drivers, sum.Constructors, sum.Rounds, len(snap.Schedule)); err != nil {
		return err
	}
	if len(snap.Images) > 0 {
		if _, err := fmt.Fprintf(w, "Images: %d found, %d missing\n", sum.Images, sum.ImageMisses); err != nil {
			return err
		}
	}

	if len(snap.Drivers) > 0 {
		top := snap.Drivers[:min(len(snap.Drivers), 10)]
		var data [][]string
		for _, d := range top {
			data = append(data, []string{d.PositionText, d.FullName(), d.Teams(), d.Points, positionLabel(cfg, d.Position)})
		}
		if err := renderTable(w, []string{"Pos", "Driver", "Team", "Points", "Label"}, data); err != nil {
			return err
		}
	}
	if len(winners) > 0 {
		if err := writeWinnersTable(w, winners, cfg); err != nil {
			return err
		}
	}

	rounds := make([]string, 0, len(snap.RoundErrors))
	for round := range snap.RoundErrors {
		rounds = append(rounds, round)
	}
	sort.Strings(rounds)
	for _, round := range rounds {
		if _, err := fmt.Fprintf(w, "⚠️  round %s: %s\n", round, snap.RoundErrors[round]); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Loaded in %v with %d workers (run %s). Cache backend: %s\n",
		snap.Duration.Round(time.Millisecond), cfg.Workers, snap.RunID, cfg.CacheBackend)
	return err
}

// imageJSON is the JSON shape of a resolved image.
type imageJSON struct {
	schema.ImageRef
	Available bool `json:"available"`
	Bytes     int  `json:"bytes"`
}

// WriteImage outputs a resolved image reference.
func WriteImage(ref schema.ImageRef, cfg *contract.Config) error {
	return dispatch(cfg, "image", renderers{
		table: func(w io.Writer) error {
			if !ref.Available() {
				_, err := fmt.Fprintf(w, "No image available for %s %q\n", ref.Kind, ref.Entity)
				return err
			}
			data := [][]string{{ref.Entity, string(ref.Kind), string(ref.Source), ref.URL, strconv.Itoa(len(ref.Data))}}
			return renderTable(w, []string{"Entity", "Kind", "Source", "URL", "Bytes"}, data)
		},
		csv: func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"entity", "kind", "source", "url", "bytes"}, func(cw *csv.Writer) error {
				return cw.Write([]string{ref.Entity, string(ref.Kind), string(ref.Source), ref.URL, strconv.Itoa(len(ref.Data))})
			})
		},
		json: func(w io.Writer) error {
			return writeJSON(w, imageJSON{ImageRef: ref, Available: ref.Available(), Bytes: len(ref.Data)})
		},
	})
}
