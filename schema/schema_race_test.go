package schema_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/huangsam/paddock/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRace() schema.Race {
	return schema.Race{
		Season: "2021",
		Round:  "22",
		Name:   "Abu Dhabi Grand Prix",
		Date:   "2021-12-12",
		Time:   "13:00:00Z",
		URL:    "http://en.wikipedia.org/wiki/2021_Abu_Dhabi_Grand_Prix",
		Circuit: schema.Circuit{
			CircuitID: "yas_marina",
			Name:      "Yas Marina Circuit",
			WikiURL:   schema.CircuitWikiURL("Yas Marina Circuit"),
			Location:  schema.Location{Lat: "24.4672", Long: "54.6031", Locality: "Abu Dhabi", Country: "UAE"},
		},
		Results: []schema.Result{
			{
				Number: "33", Position: "1", PositionText: "1", Points: "26", Grid: "1", Laps: "58",
				Status: "Finished", DriverID: "max_verstappen", GivenName: "Max", FamilyName: "Verstappen",
				ConstructorID: "red_bull", ConstructorName: "Red Bull", Time: "1:30:17.345", Millis: "5417345",
				FastestLap: &schema.FastestLap{Rank: "1", Lap: "39", Time: "1:26.103", AverageSpeed: "220.728", SpeedUnits: "kph"},
			},
			{
				Number: "44", Position: "2", PositionText: "2", Points: "18", Grid: "2", Laps: "58",
				Status: "Finished", DriverID: "hamilton", GivenName: "Lewis", FamilyName: "Hamilton",
				ConstructorID: "mercedes", ConstructorName: "Mercedes", Time: "+2.256", Millis: schema.Unknown,
			},
		},
	}
}

func TestRaceJSONRoundTrip(t *testing.T) {
	race := sampleRace()

	data, err := json.Marshal(race)
	require.NoError(t, err)

	var decoded schema.Race
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, race, decoded)
}

func TestRaceStartsAt(t *testing.T) {
	tests := []struct {
		name   string
		date   string
		tm     string
		want   time.Time
		wantOK bool
	}{
		{"date and time", "2021-12-12", "13:00:00Z", time.Date(2021, 12, 12, 13, 0, 0, 0, time.UTC), true},
		{"date only", "1950-05-13", "", time.Date(1950, 5, 13, 0, 0, 0, 0, time.UTC), true},
		{"unknown time", "1950-05-13", schema.Unknown, time.Date(1950, 5, 13, 0, 0, 0, 0, time.UTC), true},
		{"unknown date", schema.Unknown, "", time.Time{}, false},
		{"garbage date", "12/12/2021", "", time.Time{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := schema.Race{Date: tt.date, Time: tt.tm}.StartsAt()
			assert.Equal(t, tt.wantOK, ok)
			assert.True(t, tt.want.Equal(got), "got %v want %v", got, tt.want)
		})
	}
}

func TestRaceWinner(t *testing.T) {
	winner, ok := sampleRace().Winner()
	require.True(t, ok)
	assert.Equal(t, "Max Verstappen", winner.DriverName())

	_, ok = schema.Race{}.Winner()
	assert.False(t, ok)
}

func TestCircuitWikiURL(t *testing.T) {
	assert.Equal(t, "https://en.wikipedia.org/wiki/Circuit_de_Monaco", schema.CircuitWikiURL("Circuit de Monaco"))
	assert.Empty(t, schema.CircuitWikiURL(schema.Unknown))
	assert.Empty(t, schema.CircuitWikiURL(""))
}

func TestImageRefSentinel(t *testing.T) {
	none := schema.NoImage("Haas F1 Team", schema.ConstructorEntity)
	assert.False(t, none.Available())
	assert.Equal(t, schema.NoSource, none.Source)

	ref := schema.ImageRef{Entity: "Haas F1 Team", Kind: schema.ConstructorEntity, URL: "https://upload.example/haas.png", Source: schema.DirectSource}
	assert.True(t, ref.Available())
	assert.Equal(t, "constructor:Haas F1 Team", schema.EntityKey(ref.Kind, ref.Entity))
}

func TestSeasonSnapshotSummary(t *testing.T) {
	snap := &schema.SeasonSnapshot{
		Drivers:      make([]schema.DriverStanding, 3),
		Constructors: make([]schema.ConstructorStanding, 2),
		Results:      map[string]schema.Race{"1": {}, "2": {}},
		Images: map[string]schema.ImageRef{
			"driver:A": {URL: "https://x/a.jpg", Source: schema.DirectSource},
			"driver:B": schema.NoImage("B", schema.DriverEntity),
		},
	}

	sum := snap.Summary()
	assert.Equal(t, schema.LoadSummary{Drivers: 3, Constructors: 2, Rounds: 2, Images: 1, ImageMisses: 1}, sum)
}
