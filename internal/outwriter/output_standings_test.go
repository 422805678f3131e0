package outwriter

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/huangsam/paddock/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDrivers() []schema.DriverStanding {
	return []schema.DriverStanding{
		{
			Position: "1", PositionText: "1", Points: "395.5", Wins: "10",
			DriverID: "max_verstappen", Code: "VER", GivenName: "Max", FamilyName: "Verstappen",
			Nationality: "Dutch", TeamNames: []string{"Red Bull", "RB Honda"},
			Image: &schema.ImageRef{Entity: "Max Verstappen", Kind: schema.DriverEntity, URL: "https://img/ver.jpg", Source: schema.DirectSource},
		},
		{
			Position: "2", PositionText: "2", Points: "387.5", Wins: "8",
			DriverID: "hamilton", Code: "HAM", GivenName: "Lewis", FamilyName: "Hamilton",
			Nationality: "British", TeamNames: []string{"Mercedes"},
		},
	}
}

func sampleConstructors() []schema.ConstructorStanding {
	return []schema.ConstructorStanding{
		{Position: "1", PositionText: "1", Points: "613.5", Wins: "9", ConstructorID: "mercedes", Name: "Mercedes", Nationality: "German"},
		{Position: schema.Unknown, PositionText: "-", Points: "0", Wins: "0", ConstructorID: "haas", Name: "Haas F1 Team", Nationality: "American"},
	}
}

func TestWriteDriverTable(t *testing.T) {
	cfg := &contract.Config{Width: 120, Images: true, CacheBackend: schema.MemoryBackend}
	var buf bytes.Buffer
	require.NoError(t, writeDriverTable(&buf, "2021", sampleDrivers(), cfg, time.Second))

	out := buf.String()
	assert.Contains(t, out, "Verstappen")
	assert.Contains(t, out, "Red Bull, RB Honda")
	assert.Contains(t, strings.ToUpper(out), "IMAGE")
	assert.Contains(t, out, "direct")
	assert.Contains(t, out, "Showing 2 drivers for the 2021 season")
	assert.Contains(t, out, "Cache backend: memory")
}

func TestWriteDriverTableWithoutImages(t *testing.T) {
	cfg := &contract.Config{Width: 120}
	var buf bytes.Buffer
	require.NoError(t, writeDriverTable(&buf, "2021", sampleDrivers(), cfg, time.Second))
	assert.NotContains(t, strings.ToUpper(buf.String()), "IMAGE")
}

func TestWriteCSVResultsForDrivers(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, writeCSVResultsForDrivers(&buf, sampleDrivers()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "position,driver_id,code,given_name,family_name,nationality,teams,points,wins,label,image_url", lines[0])
	assert.Equal(t, "1,max_verstappen,VER,Max,Verstappen,Dutch,Red Bull|RB Honda,395.5,10,Leader,https://img/ver.jpg", lines[1])
	assert.True(t, strings.HasSuffix(lines[2], ",Podium,"))
}

func TestWriteDriverStandingsJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drivers.json")
	cfg := &contract.Config{Output: schema.JSONOut, OutputFile: path}
	require.NoError(t, WriteDriverStandings("2021", sampleDrivers(), cfg, time.Second))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	var result []map[string]any
	require.NoError(t, json.Unmarshal(content, &result))
	require.Len(t, result, 2)
	assert.Equal(t, "Leader", result[0]["label"])
	assert.Equal(t, "Red Bull, RB Honda", result[0]["teams"])
	assert.Equal(t, "max_verstappen", result[0]["driver_id"])
	assert.NotContains(t, result[1], "image")
}

func TestWriteDriverStandingsParquet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drivers.parquet")
	cfg := &contract.Config{Output: schema.ParquetOut, OutputFile: path}
	require.NoError(t, WriteDriverStandings("2021", sampleDrivers(), cfg, time.Second))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}

func TestWriteConstructorStandings(t *testing.T) {
	t.Run("table", func(t *testing.T) {
		var buf bytes.Buffer
		cfg := &contract.Config{Width: 100}
		require.NoError(t, writeConstructorTable(&buf, "2021", sampleConstructors(), cfg, time.Second))
		assert.Contains(t, buf.String(), "Haas F1 Team")
		assert.Contains(t, buf.String(), "Showing 2 constructors")
	})

	t.Run("csv", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writeCSVResultsForConstructors(&buf, sampleConstructors()))
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 3)
		assert.Equal(t, "1,mercedes,Mercedes,German,613.5,9,Leader,", lines[1])
		assert.Equal(t, "unknown,haas,Haas F1 Team,American,0,0,Field,", lines[2])
	})

	t.Run("parquet", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "constructors.parquet")
		cfg := &contract.Config{Output: schema.ParquetOut, OutputFile: path}
		require.NoError(t, WriteConstructorStandings("2021", sampleConstructors(), cfg, time.Second))
		_, err := os.Stat(path)
		require.NoError(t, err)
	})
}

func TestImageCells(t *testing.T) {
	missing := schema.NoImage("Max Verstappen", schema.DriverEntity)
	assert.Equal(t, "-", imageCell(nil))
	assert.Equal(t, "-", imageCell(&missing))
	assert.Empty(t, imageURLCell(&missing))

	found := &schema.ImageRef{URL: "https://img/x.jpg", Source: schema.CacheSource}
	assert.Equal(t, "cache", imageCell(found))
	assert.Equal(t, "https://img/x.jpg", imageURLCell(found))
}
