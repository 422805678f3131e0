// Package parquet exports paddock records to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/huangsam/paddock/schema"
	"github.com/parquet-go/parquet-go"
)

// LoadRun represents a single season load with its outcome.
// This struct maps to the paddock_load_runs database table.
type LoadRun struct {
	// RunID is the UUID of the load
	RunID string `parquet:"run_id,snappy"`

	// Season is the championship year that was loaded
	Season string `parquet:"season,snappy"`

	// StartedAt is when the load began (stored as TIMESTAMP with nanosecond precision)
	StartedAt time.Time `parquet:"started_at,snappy"`

	// EndedAt is when the load finished (nullable while running)
	EndedAt *time.Time `parquet:"ended_at,optional,snappy"`

	// DurationMs is the load duration in milliseconds (nullable while running)
	DurationMs *int64 `parquet:"duration_ms,optional,snappy"`

	Outcome      string `parquet:"outcome,snappy"`
	Drivers      int32  `parquet:"drivers,snappy"`
	Constructors int32  `parquet:"constructors,snappy"`
	Rounds       int32  `parquet:"rounds,snappy"`
	Images       int32  `parquet:"images,snappy"`
	ImageMisses  int32  `parquet:"image_misses,snappy"`
}

// DriverStanding is one row of a drivers championship export.
type DriverStanding struct {
	Season      string  `parquet:"season,snappy"`
	Position    *int32  `parquet:"position,optional,snappy"`
	Points      float64 `parquet:"points,snappy"`
	Wins        int32   `parquet:"wins,snappy"`
	DriverID    string  `parquet:"driver_id,snappy"`
	Code        string  `parquet:"code,snappy"`
	GivenName   string  `parquet:"given_name,snappy"`
	FamilyName  string  `parquet:"family_name,snappy"`
	Nationality string  `parquet:"nationality,snappy"`
	Teams       string  `parquet:"teams,snappy"`
	ImageURL    *string `parquet:"image_url,optional,snappy"`
}

// ConstructorStanding is one row of a constructors championship export.
type ConstructorStanding struct {
	Season        string  `parquet:"season,snappy"`
	Position      *int32  `parquet:"position,optional,snappy"`
	Points        float64 `parquet:"points,snappy"`
	Wins          int32   `parquet:"wins,snappy"`
	ConstructorID string  `parquet:"constructor_id,snappy"`
	Name          string  `parquet:"name,snappy"`
	Nationality   string  `parquet:"nationality,snappy"`
	ImageURL      *string `parquet:"image_url,optional,snappy"`
}

// RaceResult is one classified entry of a race.
type RaceResult struct {
	Season      string  `parquet:"season,snappy"`
	Round       int32   `parquet:"round,snappy"`
	RaceName    string  `parquet:"race_name,snappy"`
	Position    *int32  `parquet:"position,optional,snappy"`
	Grid        *int32  `parquet:"grid,optional,snappy"`
	Points      float64 `parquet:"points,snappy"`
	DriverID    string  `parquet:"driver_id,snappy"`
	Driver      string  `parquet:"driver,snappy"`
	Constructor string  `parquet:"constructor,snappy"`
	Laps        int32   `parquet:"laps,snappy"`
	Status      string  `parquet:"status,snappy"`
	Millis      *int64  `parquet:"millis,optional,snappy"`
	FastestLap  *string `parquet:"fastest_lap,optional,snappy"`
}

// ScheduledRace is one round of a season calendar.
type ScheduledRace struct {
	Season      string     `parquet:"season,snappy"`
	Round       int32      `parquet:"round,snappy"`
	RaceName    string     `parquet:"race_name,snappy"`
	StartsAt    *time.Time `parquet:"starts_at,optional,snappy"`
	Circuit     string     `parquet:"circuit,snappy"`
	Locality    string     `parquet:"locality,snappy"`
	Country     string     `parquet:"country,snappy"`
	CircuitWiki string     `parquet:"circuit_wiki,snappy"`
}

// Write encodes rows to w with a schema inferred from the struct tags of T.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile creates outputPath and writes rows to it.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteLoadRunsParquet writes load runs to a Parquet file.
func WriteLoadRunsParquet(data []LoadRun, outputPath string) error {
	return WriteFile(data, outputPath)
}

// ConvertLoadRunRecords converts schema.LoadRunRecord to LoadRun for Parquet export.
func ConvertLoadRunRecords(records []schema.LoadRunRecord) []LoadRun {
	result := make([]LoadRun, len(records))
	for i, record := range records {
		row := LoadRun{
			RunID:        record.RunID,
			Season:       record.Season,
			StartedAt:    record.StartedAt,
			EndedAt:      record.EndedAt,
			Outcome:      string(record.Outcome),
			Drivers:      int32(record.Drivers),
			Constructors: int32(record.Constructors),
			Rounds:       int32(record.Rounds),
			Images:       int32(record.Images),
			ImageMisses:  int32(record.ImageMisses),
		}
		if record.EndedAt != nil {
			ms := record.EndedAt.Sub(record.StartedAt).Milliseconds()
			row.DurationMs = &ms
		}
		result[i] = row
	}
	return result
}

// ConvertDriverStandings converts driver standings of a season for export.
func ConvertDriverStandings(season string, drivers []schema.DriverStanding) []DriverStanding {
	result := make([]DriverStanding, len(drivers))
	for i, d := range drivers {
		result[i] = DriverStanding{
			Season:      season,
			Position:    optionalInt32(d.Position),
			Points:      parseFloat(d.Points),
			Wins:        parseInt32(d.Wins),
			DriverID:    d.DriverID,
			Code:        d.Code,
			GivenName:   d.GivenName,
			FamilyName:  d.FamilyName,
			Nationality: d.Nationality,
			Teams:       d.Teams(),
			ImageURL:    imageURL(d.Image),
		}
	}
	return result
}

// ConvertConstructorStandings converts constructor standings of a season for export.
func ConvertConstructorStandings(season string, constructors []schema.ConstructorStanding) []ConstructorStanding {
	result := make([]ConstructorStanding, len(constructors))
	for i, c := range constructors {
		result[i] = ConstructorStanding{
			Season:        season,
			Position:      optionalInt32(c.Position),
			Points:        parseFloat(c.Points),
			Wins:          parseInt32(c.Wins),
			ConstructorID: c.ConstructorID,
			Name:          c.Name,
			Nationality:   c.Nationality,
			ImageURL:      imageURL(c.Image),
		}
	}
	return result
}

// ConvertRaceResults flattens the results of every race.
func ConvertRaceResults(races []schema.Race) []RaceResult {
	var result []RaceResult
	for _, race := range races {
		for _, r := range race.Results {
			row := RaceResult{
				Season:      race.Season,
				Round:       parseInt32(race.Round),
				RaceName:    race.Name,
				Position:    optionalInt32(r.Position),
				Grid:        optionalInt32(r.Grid),
				Points:      parseFloat(r.Points),
				DriverID:    r.DriverID,
				Driver:      r.DriverName(),
				Constructor: r.ConstructorName,
				Laps:        parseInt32(r.Laps),
				Status:      r.Status,
			}
			if ms, err := strconv.ParseInt(r.Millis, 10, 64); err == nil {
				row.Millis = &ms
			}
			if r.FastestLap != nil && r.FastestLap.Time != "" && r.FastestLap.Time != schema.Unknown {
				lap := r.FastestLap.Time
				row.FastestLap = &lap
			}
			result = append(result, row)
		}
	}
	return result
}

// ConvertSchedule converts a season calendar for export.
func ConvertSchedule(races []schema.Race) []ScheduledRace {
	result := make([]ScheduledRace, len(races))
	for i, race := range races {
		row := ScheduledRace{
			Season:      race.Season,
			Round:       parseInt32(race.Round),
			RaceName:    race.Name,
			Circuit:     race.Circuit.Name,
			Locality:    race.Circuit.Location.Locality,
			Country:     race.Circuit.Location.Country,
			CircuitWiki: race.Circuit.WikiURL,
		}
		if t, ok := race.StartsAt(); ok {
			row.StartsAt = &t
		}
		result[i] = row
	}
	return result
}

func optionalInt32(s string) *int32 {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return nil
	}
	v := int32(n)
	return &v
}

func parseInt32(s string) int32 {
	if v := optionalInt32(s); v != nil {
		return *v
	}
	return 0
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func imageURL(ref *schema.ImageRef) *string {
	if ref == nil || !ref.Available() || ref.URL == "" {
		return nil
	}
	u := ref.URL
	return &u
}
