package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/internal/parquet"
	"github.com/huangsam/paddock/schema"
)

// startsAtLayout renders race start times in tables and CSV.
const startsAtLayout = "2006-01-02 15:04 MST"

func formatStartsAt(r schema.Race) string {
	t, ok := r.StartsAt()
	if !ok {
		return schema.Unknown
	}
	return t.UTC().Format(startsAtLayout)
}

// WriteSchedule outputs the race calendar of a season.
func WriteSchedule(season string, races []schema.Race, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, "race schedule", renderers{
		table:   func(w io.Writer) error { return writeScheduleTable(w, season, races, cfg, duration) },
		csv:     func(w io.Writer) error { return writeCSVResultsForSchedule(w, races) },
		json:    func(w io.Writer) error { return writeJSON(w, races) },
		parquet: func(path string) error { return parquet.WriteFile(parquet.ConvertSchedule(races), path) },
	})
}

func writeScheduleTable(w io.Writer, season string, races []schema.Race, cfg *contract.Config, duration time.Duration) error {
	headers := []string{"Round", "Race", "Circuit", "Locality", "Country", "Starts"}
	nameWidth := GetMaxNameWidth(cfg, 60)

	var data [][]string
	for _, r := range races {
		data = append(data, []string{
			r.Round,
			contract.TruncateName(r.Name, nameWidth),
			contract.TruncateName(r.Circuit.Name, nameWidth),
			r.Circuit.Location.Locality,
			r.Circuit.Location.Country,
			formatStartsAt(r),
		})
	}
	if err := renderTable(w, headers, data); err != nil {
		return err
	}
	return footer(w, cfg, fmt.Sprintf("Showing %d rounds for the %s season", len(races), season), duration)
}

func writeCSVResultsForSchedule(w io.Writer, races []schema.Race) error {
	header := []string{"season", "round", "race", "circuit_id", "circuit", "locality", "country", "starts_at", "circuit_wiki"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range races {
			rec := []string{
				r.Season,
				r.Round,
				r.Name,
				r.Circuit.CircuitID,
				r.Circuit.Name,
				r.Circuit.Location.Locality,
				r.Circuit.Location.Country,
				formatStartsAt(r),
				r.Circuit.WikiURL,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteRaceResults outputs one round. A nil race is a round that has not been run.
func WriteRaceResults(season, round string, race *schema.Race, cfg *contract.Config, duration time.Duration) error {
	var races []schema.Race
	if race != nil {
		races = []schema.Race{*race}
	}
	return dispatch(cfg, "race results", renderers{
		table: func(w io.Writer) error { return writeRaceTable(w, season, round, race, cfg, duration) },
		csv:   func(w io.Writer) error { return writeCSVResultsForRaces(w, races) },
		json:  func(w io.Writer) error { return writeJSON(w, race) },
		parquet: func(path string) error {
			return parquet.WriteFile(parquet.ConvertRaceResults(races), path)
		},
	})
}

func writeRaceTable(w io.Writer, season, round string, race *schema.Race, cfg *contract.Config, duration time.Duration) error {
	if race == nil {
		_, err := fmt.Fprintf(w, "Round %s of the %s season has no results yet\n", round, season)
		return err
	}
	if _, err := fmt.Fprintf(w, "🏁 %s round %s: %s at %s\n", race.Season, race.Round, race.Name, race.Circuit.Name); err != nil {
		return err
	}

	headers := []string{"Pos", "Driver", "Team", "Grid", "Laps", "Status", "Time", "Points", "Label"}
	nameWidth := GetMaxNameWidth(cfg, 70)
	var data [][]string
	for _, res := range race.Results {
		data = append(data, []string{
			res.PositionText,
			contract.TruncateName(res.DriverName(), nameWidth),
			contract.TruncateName(res.ConstructorName, nameWidth),
			res.Grid,
			res.Laps,
			res.Status,
			res.Time,
			res.Points,
			positionLabel(cfg, res.Position),
		})
	}
	if err := renderTable(w, headers, data); err != nil {
		return err
	}
	return footer(w, cfg, fmt.Sprintf("Showing %d classified entries", len(race.Results)), duration)
}

// writeCSVResultsForRaces flattens races into one row per result.
func writeCSVResultsForRaces(w io.Writer, races []schema.Race) error {
	header := []string{
		"season", "round", "race", "position", "driver_id", "driver", "constructor",
		"grid", "laps", "status", "time", "points", "fastest_lap",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, race := range races {
			for _, res := range race.Results {
				fastest := ""
				if res.FastestLap != nil {
					fastest = res.FastestLap.Time
				}
				rec := []string{
					race.Season,
					race.Round,
					race.Name,
					res.PositionText,
					res.DriverID,
					res.DriverName(),
					res.ConstructorName,
					res.Grid,
					res.Laps,
					res.Status,
					res.Time,
					res.Points,
					fastest,
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}

// WriteDriverResults outputs a driver's results across seasons, one race per row.
func WriteDriverResults(driverID string, races []schema.Race, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, "driver results", renderers{
		table: func(w io.Writer) error { return writeCareerTable(w, driverID, races, cfg, duration) },
		csv:   func(w io.Writer) error { return writeCSVResultsForRaces(w, races) },
		json:  func(w io.Writer) error { return writeJSON(w, races) },
		parquet: func(path string) error {
			return parquet.WriteFile(parquet.ConvertRaceResults(races), path)
		},
	})
}

func writeCareerTable(w io.Writer, driverID string, races []schema.Race, cfg *contract.Config, duration time.Duration) error {
	headers := []string{"Season", "Round", "Race", "Team", "Grid", "Pos", "Points", "Status"}
	nameWidth := GetMaxNameWidth(cfg, 60)
	var data [][]string
	for _, race := range races {
		for _, res := range race.Results {
			data = append(data, []string{
				race.Season,
				race.Round,
				contract.TruncateName(race.Name, nameWidth),
				contract.TruncateName(res.ConstructorName, nameWidth),
				res.Grid,
				res.PositionText,
				res.Points,
				res.Status,
			})
		}
	}
	if err := renderTable(w, headers, data); err != nil {
		return err
	}
	return footer(w, cfg, fmt.Sprintf("Showing %d races for %s", len(races), driverID), duration)
}

// WriteLapTimes outputs a driver's lap timings in one round.
func WriteLapTimes(season, round, driverID string, laps []schema.LapTiming, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, "lap times", renderers{
		table: func(w io.Writer) error {
			var data [][]string
			for _, l := range laps {
				data = append(data, []string{l.Lap, l.Position, l.Time})
			}
			if err := renderTable(w, []string{"Lap", "Pos", "Time"}, data); err != nil {
				return err
			}
			return footer(w, cfg, fmt.Sprintf("Showing %d laps of %s in %s round %s", len(laps), driverID, season, round), duration)
		},
		csv: func(w io.Writer) error {
			return writeCSVWithHeader(w, []string{"lap", "driver_id", "position", "time"}, func(cw *csv.Writer) error {
				for _, l := range laps {
					if err := cw.Write([]string{l.Lap, l.DriverID, l.Position, l.Time}); err != nil {
						return err
					}
				}
				return nil
			})
		},
		json: func(w io.Writer) error { return writeJSON(w, laps) },
	})
}

// WriteWinners outputs the winner of every completed round.
func WriteWinners(season string, winners []schema.RoundWinner, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, "season winners", renderers{
		table: func(w io.Writer) error {
			if err := writeWinnersTable(w, winners, cfg); err != nil {
				return err
			}
			return footer(w, cfg, fmt.Sprintf("Showing %d winners for the %s season", len(winners), season), duration)
		},
		csv:  func(w io.Writer) error { return writeCSVResultsForWinners(w, winners) },
		json: func(w io.Writer) error { return writeJSON(w, winners) },
	})
}

func writeWinnersTable(w io.Writer, winners []schema.RoundWinner, cfg *contract.Config) error {
	headers := []string{"Round", "Race", "Winner", "Team", "Time", "Fastest Lap", "By"}
	nameWidth := GetMaxNameWidth(cfg, 55)
	var data [][]string
	for _, rw := range winners {
		data = append(data, []string{
			rw.Round,
			contract.TruncateName(rw.RaceName, nameWidth),
			rw.Winner,
			rw.Constructor,
			rw.Time,
			rw.FastestLap,
			rw.FastestLapDriver,
		})
	}
	return renderTable(w, headers, data)
}

func writeCSVResultsForWinners(w io.Writer, winners []schema.RoundWinner) error {
	header := []string{"season", "round", "race", "winner", "constructor", "time", "fastest_lap", "fastest_lap_driver"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, rw := range winners {
			rec := []string{rw.Season, rw.Round, rw.RaceName, rw.Winner, rw.Constructor, rw.Time, rw.FastestLap, rw.FastestLapDriver}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
