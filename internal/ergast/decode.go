package ergast

import (
	"encoding/json"
	"errors"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/schema"
)

var errNoEnvelope = errors.New("missing MRData envelope")

// or returns the pointed-to value, or schema.Unknown when absent.
func or(p *string) string {
	if p == nil {
		return schema.Unknown
	}
	return *p
}

func parse(source string, data []byte) (*mrData, error) {
	var resp response
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, &contract.DecodeError{Source: source, Err: err}
	}
	if resp.MRData == nil {
		return nil, &contract.DecodeError{Source: source, Err: errNoEnvelope}
	}
	return resp.MRData, nil
}

func standingsLists(md *mrData) []standingsList {
	if md.StandingsTable == nil {
		return nil
	}
	return md.StandingsTable.StandingsLists
}

func races(md *mrData) []raceDTO {
	if md.RaceTable == nil {
		return nil
	}
	return md.RaceTable.Races
}

// DecodeDriverStandings maps every standings list of a payload in upstream order.
// Duplicates are kept; merging them is the caller's concern.
func DecodeDriverStandings(data []byte) ([]schema.DriverStanding, error) {
	md, err := parse("driverStandings", data)
	if err != nil {
		return nil, err
	}
	var rows []driverStandingDTO
	for _, list := range standingsLists(md) {
		rows = append(rows, list.DriverStandings...)
	}

	out := make([]schema.DriverStanding, 0, len(rows))
	for _, ds := range rows {
		d := toDriver(ds.Driver)
		teams := make([]string, 0, len(ds.Constructors))
		for _, c := range ds.Constructors {
			teams = append(teams, or(c.Name))
		}
		out = append(out, schema.DriverStanding{
			Position:     or(ds.Position),
			PositionText: or(ds.PositionText),
			Points:       or(ds.Points),
			Wins:         or(ds.Wins),
			DriverID:     d.id,
			Code:         d.code,
			Number:       d.number,
			GivenName:    d.given,
			FamilyName:   d.family,
			DateOfBirth:  d.dob,
			Nationality:  d.nationality,
			URL:          d.url,
			TeamNames:    teams,
		})
	}
	return out, nil
}

// DecodeConstructorStandings maps every standings list of a payload in upstream order.
func DecodeConstructorStandings(data []byte) ([]schema.ConstructorStanding, error) {
	md, err := parse("constructorStandings", data)
	if err != nil {
		return nil, err
	}
	var rows []constructorStandingDTO
	for _, list := range standingsLists(md) {
		rows = append(rows, list.ConstructorStandings...)
	}

	out := make([]schema.ConstructorStanding, 0, len(rows))
	for _, cs := range rows {
		c := toConstructor(cs.Constructor)
		out = append(out, schema.ConstructorStanding{
			Position:      or(cs.Position),
			PositionText:  or(cs.PositionText),
			Points:        or(cs.Points),
			Wins:          or(cs.Wins),
			ConstructorID: c.id,
			Name:          c.name,
			Nationality:   c.nationality,
			URL:           c.url,
		})
	}
	return out, nil
}

// DecodeSchedule maps a season calendar, one race per round.
func DecodeSchedule(data []byte) ([]schema.Race, error) {
	md, err := parse("raceSchedule", data)
	if err != nil {
		return nil, err
	}
	rs := races(md)
	out := make([]schema.Race, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRace(r))
	}
	return out, nil
}

// DecodeRaceResults maps the results of one round. A payload without races
// (a round that has not been run) returns nil and no error.
func DecodeRaceResults(data []byte) (*schema.Race, error) {
	md, err := parse("raceResults", data)
	if err != nil {
		return nil, err
	}
	rs := races(md)
	if len(rs) == 0 {
		return nil, nil
	}
	race := toRace(rs[0])
	return &race, nil
}

// DecodeDriverResults maps a driver's career results, one race per entry.
func DecodeDriverResults(data []byte) ([]schema.Race, error) {
	md, err := parse("driverResults", data)
	if err != nil {
		return nil, err
	}
	rs := races(md)
	out := make([]schema.Race, 0, len(rs))
	for _, r := range rs {
		out = append(out, toRace(r))
	}
	return out, nil
}

// DecodeLapTimes flattens the lap timings of a round.
func DecodeLapTimes(data []byte) ([]schema.LapTiming, error) {
	md, err := parse("lapTimes", data)
	if err != nil {
		return nil, err
	}
	var out []schema.LapTiming
	for _, r := range races(md) {
		for _, lap := range r.Laps {
			for _, t := range lap.Timings {
				out = append(out, schema.LapTiming{
					Lap:      or(lap.Number),
					DriverID: or(t.DriverID),
					Position: or(t.Position),
					Time:     or(t.Time),
				})
			}
		}
	}
	if out == nil {
		out = []schema.LapTiming{}
	}
	return out, nil
}

type driverFields struct {
	id, code, number, given, family, dob, nationality, url string
}

func toDriver(d *driverDTO) driverFields {
	if d == nil {
		d = &driverDTO{}
	}
	return driverFields{
		id:          or(d.DriverID),
		code:        or(d.Code),
		number:      or(d.PermanentNumber),
		given:       or(d.GivenName),
		family:      or(d.FamilyName),
		dob:         or(d.DateOfBirth),
		nationality: or(d.Nationality),
		url:         or(d.URL),
	}
}

type constructorFields struct {
	id, name, nationality, url string
}

func toConstructor(c *constructorDTO) constructorFields {
	if c == nil {
		c = &constructorDTO{}
	}
	return constructorFields{
		id:          or(c.ConstructorID),
		name:        or(c.Name),
		nationality: or(c.Nationality),
		url:         or(c.URL),
	}
}

func toRace(r raceDTO) schema.Race {
	race := schema.Race{
		Season: or(r.Season),
		Round:  or(r.Round),
		Name:   or(r.RaceName),
		Date:   or(r.Date),
		Time:   or(r.Time),
		URL:    or(r.URL),
	}

	circuit := r.Circuit
	if circuit == nil {
		circuit = &circuitDTO{}
	}
	loc := circuit.Location
	if loc == nil {
		loc = &locationDTO{}
	}
	race.Circuit = schema.Circuit{
		CircuitID: or(circuit.CircuitID),
		Name:      or(circuit.CircuitName),
		URL:       or(circuit.URL),
		WikiURL:   schema.CircuitWikiURL(or(circuit.CircuitName)),
		Location: schema.Location{
			Lat:      or(loc.Lat),
			Long:     or(loc.Long),
			Locality: or(loc.Locality),
			Country:  or(loc.Country),
		},
	}

	for _, res := range r.Results {
		race.Results = append(race.Results, toResult(res))
	}
	return race
}

func toResult(r resultDTO) schema.Result {
	d := toDriver(r.Driver)
	c := toConstructor(r.Constructor)
	res := schema.Result{
		Number:          or(r.Number),
		Position:        or(r.Position),
		PositionText:    or(r.PositionText),
		Points:          or(r.Points),
		Grid:            or(r.Grid),
		Laps:            or(r.Laps),
		Status:          or(r.Status),
		DriverID:        d.id,
		DriverCode:      d.code,
		GivenName:       d.given,
		FamilyName:      d.family,
		ConstructorID:   c.id,
		ConstructorName: c.name,
		Time:            schema.Unknown,
		Millis:          schema.Unknown,
	}
	if r.Time != nil {
		res.Time = or(r.Time.Time)
		res.Millis = or(r.Time.Millis)
	}
	if fl := r.FastestLap; fl != nil {
		lap := &schema.FastestLap{
			Rank:         or(fl.Rank),
			Lap:          or(fl.Lap),
			Time:         schema.Unknown,
			AverageSpeed: schema.Unknown,
			SpeedUnits:   schema.Unknown,
		}
		if fl.Time != nil {
			lap.Time = or(fl.Time.Time)
		}
		if fl.AverageSpeed != nil {
			lap.AverageSpeed = or(fl.AverageSpeed.Speed)
			lap.SpeedUnits = or(fl.AverageSpeed.Units)
		}
		res.FastestLap = lap
	}
	return res
}
