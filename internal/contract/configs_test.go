package contract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/paddock/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

// validInput returns a raw input that passes validation; tests mutate a copy.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Workers:      4,
		Limit:        DefaultResultLimit,
		Output:       "text",
		Color:        "yes",
		ThumbSize:    DefaultThumbSize,
		CacheBackend: string(schema.SQLiteBackend),
		LogLevel:     "warn",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError bool
		check       func(*testing.T, *Config)
	}{
		{
			name:   "valid minimal config",
			mutate: func(*ConfigRawInput) {},
			check: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "2025", cfg.Season)
				assert.Equal(t, DefaultStatsBaseURL, cfg.StatsBaseURL)
				assert.Equal(t, DefaultWikiBaseURL, cfg.WikiBaseURL)
				assert.Equal(t, DefaultHTTPTimeout, cfg.HTTPTimeout)
				assert.Equal(t, DefaultUserAgent, cfg.UserAgent)
				assert.True(t, cfg.UseColors)
			},
		},
		{
			name:   "positional season wins over flag",
			mutate: func(in *ConfigRawInput) { in.Season = "2019"; in.SeasonArg = "2021" },
			check:  func(t *testing.T, cfg *Config) { assert.Equal(t, "2021", cfg.Season) },
		},
		{
			name:   "round argument",
			mutate: func(in *ConfigRawInput) { in.SeasonArg = "2021"; in.RoundArg = "07" },
			check:  func(t *testing.T, cfg *Config) { assert.Equal(t, "7", cfg.Round) },
		},
		{
			name:   "trailing slash trimmed from stats url",
			mutate: func(in *ConfigRawInput) { in.StatsBaseURL = "http://localhost:8000/api/f1/" },
			check:  func(t *testing.T, cfg *Config) { assert.Equal(t, "http://localhost:8000/api/f1", cfg.StatsBaseURL) },
		},
		{
			name:   "custom http timeout",
			mutate: func(in *ConfigRawInput) { in.HTTPTimeout = "3s" },
			check:  func(t *testing.T, cfg *Config) { assert.Equal(t, 3*time.Second, cfg.HTTPTimeout) },
		},
		{name: "future season", mutate: func(in *ConfigRawInput) { in.Season = "2030" }, expectError: true},
		{name: "season before championship", mutate: func(in *ConfigRawInput) { in.Season = "1949" }, expectError: true},
		{name: "bad round", mutate: func(in *ConfigRawInput) { in.RoundArg = "-1" }, expectError: true},
		{name: "zero workers", mutate: func(in *ConfigRawInput) { in.Workers = 0 }, expectError: true},
		{name: "limit too large", mutate: func(in *ConfigRawInput) { in.Limit = MaxResultLimit + 1 }, expectError: true},
		{name: "invalid output", mutate: func(in *ConfigRawInput) { in.Output = "xml" }, expectError: true},
		{name: "parquet needs file", mutate: func(in *ConfigRawInput) { in.Output = "parquet" }, expectError: true},
		{name: "invalid color", mutate: func(in *ConfigRawInput) { in.Color = "maybe" }, expectError: true},
		{name: "thumb too small", mutate: func(in *ConfigRawInput) { in.ThumbSize = 10 }, expectError: true},
		{name: "bad log level", mutate: func(in *ConfigRawInput) { in.LogLevel = "loud" }, expectError: true},
		{name: "bad stats url", mutate: func(in *ConfigRawInput) { in.StatsBaseURL = "ftp://x" }, expectError: true},
		{name: "bad timeout", mutate: func(in *ConfigRawInput) { in.HTTPTimeout = "soon" }, expectError: true},
		{name: "invalid cache backend", mutate: func(in *ConfigRawInput) { in.CacheBackend = "mongo" }, expectError: true},
		{name: "redis without url", mutate: func(in *ConfigRawInput) { in.CacheBackend = "redis" }, expectError: true},
		{name: "bolt load backend unsupported", mutate: func(in *ConfigRawInput) { in.LoadBackend = "bolt" }, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)

			cfg := &Config{}
			err := ProcessAndValidate(cfg, input, testNow)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.check != nil {
				tt.check(t, cfg)
			}
		})
	}
}

func TestValidateSeason(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"", "2025", false},
		{"current", "2025", false},
		{" CURRENT ", "2025", false},
		{"2021", "2021", false},
		{"1950", "1950", false},
		{"2025", "2025", false},
		{"2026", "", true},
		{"1949", "", true},
		{"twenty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ValidateSeason(tt.in, testNow)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSeason)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValidateRound(t *testing.T) {
	got, err := ValidateRound("5")
	require.NoError(t, err)
	assert.Equal(t, "5", got)

	for _, bad := range []string{"", "0", "-3", "last"} {
		_, err := ValidateRound(bad)
		assert.ErrorIs(t, err, ErrInvalidRound, "round %q", bad)
	}
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"bolt empty", schema.BoltBackend, "", false},
		{"memory", schema.MemoryBackend, "", false},
		{"mysql ok", schema.MySQLBackend, "root:pw@tcp(localhost:3306)/paddock", false},
		{"mysql missing tcp", schema.MySQLBackend, "root:pw@localhost/paddock", true},
		{"mysql empty", schema.MySQLBackend, "", true},
		{"postgres ok", schema.PostgreSQLBackend, "host=localhost port=5432 dbname=paddock", false},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"redis ok", schema.RedisBackend, "redis://localhost:6379/0", false},
		{"rediss ok", schema.RedisBackend, "rediss://cache.internal:6380/1", false},
		{"redis wrong scheme", schema.RedisBackend, "localhost:6379", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateBackendConfigsSQLitePathConflict(t *testing.T) {
	dir := t.TempDir()
	shared := filepath.Join(dir, "shared.db")

	input := validInput()
	input.CacheDBConnect = shared
	input.LoadBackend = string(schema.SQLiteBackend)
	input.LoadDBConnect = shared

	err := validateBackendConfigs(&Config{}, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "different SQLite database files")

	input.LoadDBConnect = filepath.Join(dir, "loads.db")
	assert.NoError(t, validateBackendConfigs(&Config{}, input))
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{Season: "2021", Workers: 2}
	clone := cfg.Clone()
	clone.Season = "2022"
	assert.Equal(t, "2021", cfg.Season)
	assert.Equal(t, 2, clone.Workers)
}
