package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/internal/parquet"
	"github.com/huangsam/paddock/schema"
)

// WriteDriverStandings outputs the drivers championship, dispatching based on the output format configured.
func WriteDriverStandings(season string, drivers []schema.DriverStanding, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, "driver standings", renderers{
		table: func(w io.Writer) error { return writeDriverTable(w, season, drivers, cfg, duration) },
		csv:   func(w io.Writer) error { return writeCSVResultsForDrivers(w, drivers) },
		json:  func(w io.Writer) error { return writeJSON(w, schema.LabelDrivers(drivers)) },
		parquet: func(path string) error {
			return parquet.WriteFile(parquet.ConvertDriverStandings(season, drivers), path)
		},
	})
}

// WriteConstructorStandings outputs the constructors championship.
func WriteConstructorStandings(season string, constructors []schema.ConstructorStanding, cfg *contract.Config, duration time.Duration) error {
	return dispatch(cfg, "constructor standings", renderers{
		table: func(w io.Writer) error { return writeConstructorTable(w, season, constructors, cfg, duration) },
		csv:   func(w io.Writer) error { return writeCSVResultsForConstructors(w, constructors) },
		json:  func(w io.Writer) error { return writeJSON(w, schema.LabelConstructors(constructors)) },
		parquet: func(path string) error {
			return parquet.WriteFile(parquet.ConvertConstructorStandings(season, constructors), path)
		},
	})
}

func imageCell(ref *schema.ImageRef) string {
	if ref == nil || !ref.Available() {
		return "-"
	}
	return string(ref.Source)
}

func imageURLCell(ref *schema.ImageRef) string {
	if ref == nil || !ref.Available() {
		return ""
	}
	return ref.URL
}

func writeDriverTable(w io.Writer, season string, drivers []schema.DriverStanding, cfg *contract.Config, duration time.Duration) error {
	headers := []string{"Pos", "Driver", "Code", "Team", "Points", "Wins", "Label"}
	if cfg.Images {
		headers = append(headers, "Image")
	}
	nameWidth := GetMaxNameWidth(cfg, 45)

	var data [][]string
	for _, d := range drivers {
		row := []string{
			d.PositionText,
			contract.TruncateName(d.FullName(), nameWidth),
			d.Code,
			contract.TruncateName(d.Teams(), nameWidth),
			d.Points,
			d.Wins,
			positionLabel(cfg, d.Position),
		}
		if cfg.Images {
			row = append(row, imageCell(d.Image))
		}
		data = append(data, row)
	}
	if err := renderTable(w, headers, data); err != nil {
		return err
	}
	return footer(w, cfg, fmt.Sprintf("Showing %d drivers for the %s season", len(drivers), season), duration)
}

func writeConstructorTable(w io.Writer, season string, constructors []schema.ConstructorStanding, cfg *contract.Config, duration time.Duration) error {
	headers := []string{"Pos", "Constructor", "Nationality", "Points", "Wins", "Label"}
	if cfg.Images {
		headers = append(headers, "Image")
	}
	nameWidth := GetMaxNameWidth(cfg, 45)

	var data [][]string
	for _, c := range constructors {
		row := []string{
			c.PositionText,
			contract.TruncateName(c.Name, nameWidth),
			c.Nationality,
			c.Points,
			c.Wins,
			positionLabel(cfg, c.Position),
		}
		if cfg.Images {
			row = append(row, imageCell(c.Image))
		}
		data = append(data, row)
	}
	if err := renderTable(w, headers, data); err != nil {
		return err
	}
	return footer(w, cfg, fmt.Sprintf("Showing %d constructors for the %s season", len(constructors), season), duration)
}

func writeCSVResultsForDrivers(w io.Writer, drivers []schema.DriverStanding) error {
	header := []string{
		"position", "driver_id", "code", "given_name", "family_name",
		"nationality", "teams", "points", "wins", "label", "image_url",
	}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, d := range drivers {
			rec := []string{
				d.Position,
				d.DriverID,
				d.Code,
				d.GivenName,
				d.FamilyName,
				d.Nationality,
				strings.Join(d.TeamNames, "|"),
				d.Points,
				d.Wins,
				schema.GetPositionLabel(d.Position),
				imageURLCell(d.Image),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeCSVResultsForConstructors(w io.Writer, constructors []schema.ConstructorStanding) error {
	header := []string{"position", "constructor_id", "name", "nationality", "points", "wins", "label", "image_url"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, c := range constructors {
			rec := []string{
				c.Position,
				c.ConstructorID,
				c.Name,
				c.Nationality,
				c.Points,
				c.Wins,
				schema.GetPositionLabel(c.Position),
				imageURLCell(c.Image),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
