package schema

import (
	"strings"
	"time"
)

// WikiBaseURL prefixes circuit article links.
const WikiBaseURL = "https://en.wikipedia.org/wiki/"

// Location is where a circuit sits.
type Location struct {
	Lat      string `json:"lat"`
	Long     string `json:"long"`
	Locality string `json:"locality"`
	Country  string `json:"country"`
}

// Circuit describes the track a race is held on.
type Circuit struct {
	CircuitID string   `json:"circuit_id"`
	Name      string   `json:"name"`
	URL       string   `json:"url"`
	WikiURL   string   `json:"wiki_url"`
	Location  Location `json:"location"`
}

// FastestLap is the quickest lap a driver set in a race.
type FastestLap struct {
	Rank         string `json:"rank"`
	Lap          string `json:"lap"`
	Time         string `json:"time"`
	AverageSpeed string `json:"average_speed"`
	SpeedUnits   string `json:"speed_units"`
}

// Result is one classified (or retired) entry of a race.
type Result struct {
	Number          string      `json:"number"`
	Position        string      `json:"position"`
	PositionText    string      `json:"position_text"`
	Points          string      `json:"points"`
	Grid            string      `json:"grid"`
	Laps            string      `json:"laps"`
	Status          string      `json:"status"`
	DriverID        string      `json:"driver_id"`
	DriverCode      string      `json:"driver_code"`
	GivenName       string      `json:"given_name"`
	FamilyName      string      `json:"family_name"`
	ConstructorID   string      `json:"constructor_id"`
	ConstructorName string      `json:"constructor_name"`
	Time            string      `json:"time"`
	Millis          string      `json:"millis"`
	FastestLap      *FastestLap `json:"fastest_lap,omitempty"`
}

// DriverName returns "Given Family".
func (r Result) DriverName() string {
	return strings.TrimSpace(r.GivenName + " " + r.FamilyName)
}

// Race is one round of a season, optionally with its results.
type Race struct {
	Season  string   `json:"season"`
	Round   string   `json:"round"`
	Name    string   `json:"name"`
	Date    string   `json:"date"`
	Time    string   `json:"time"`
	URL     string   `json:"url"`
	Circuit Circuit  `json:"circuit"`
	Results []Result `json:"results,omitempty"`
}

// StartsAt parses the race start. Races with an unknown time start at midnight UTC.
func (r Race) StartsAt() (time.Time, bool) {
	if r.Date == "" || r.Date == Unknown {
		return time.Time{}, false
	}
	if r.Time != "" && r.Time != Unknown {
		if t, err := time.Parse(time.RFC3339, r.Date+"T"+r.Time); err == nil {
			return t, true
		}
	}
	t, err := time.Parse(time.DateOnly, r.Date)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Winner returns the result classified first, if any.
func (r Race) Winner() (Result, bool) {
	for _, res := range r.Results {
		if res.Position == "1" {
			return res, true
		}
	}
	return Result{}, false
}

// CircuitWikiURL builds the article link for a circuit name.
func CircuitWikiURL(circuitName string) string {
	if circuitName == "" || circuitName == Unknown {
		return ""
	}
	return WikiBaseURL + strings.ReplaceAll(circuitName, " ", "_")
}

// LapTiming is one driver's timing for one lap.
type LapTiming struct {
	Lap      string `json:"lap"`
	DriverID string `json:"driver_id"`
	Position string `json:"position"`
	Time     string `json:"time"`
}

// RoundWinner summarizes the outcome of one completed round.
type RoundWinner struct {
	Season           string `json:"season"`
	Round            string `json:"round"`
	RaceName         string `json:"race_name"`
	Winner           string `json:"winner"`
	Constructor      string `json:"constructor"`
	Time             string `json:"time"`
	FastestLap       string `json:"fastest_lap"`
	FastestLapDriver string `json:"fastest_lap_driver"`
}
