package contract

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/paddock/schema"
)

// Default values for configuration.
const (
	DefaultResultLimit  = 100
	MaxResultLimit      = 1000
	DefaultThumbSize    = 800
	DefaultHTTPTimeout  = 15 * time.Second
	DefaultStatsBaseURL = "https://api.jolpi.ca/ergast/f1"
	DefaultWikiBaseURL  = "https://en.wikipedia.org/w/api.php"
	DefaultUserAgent    = "paddock (+https://github.com/huangsam/paddock)"
	MinSeason           = 1950
	CurrentSeason       = "current"
)

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Config holds the runtime configuration.
// This struct remains the "final, validated" config.
type Config struct {
	Season      string
	Round       string
	Workers     int
	ResultLimit int
	Output      schema.OutputMode
	OutputFile  string
	Width       int // Terminal width override (0 = auto-detect)
	UseColors   bool

	Images     bool // Attach resolved images to standings output
	ImageBytes bool // Also download and cache image bytes for drivers
	ThumbSize  int

	StatsBaseURL string
	WikiBaseURL  string
	HTTPTimeout  time.Duration
	UserAgent    string
	LogLevel     string

	CacheBackend   schema.DatabaseBackend
	CacheDBConnect string // Please use env var as this is plaintext

	LoadBackend   schema.DatabaseBackend
	LoadDBConnect string // Please use env var as this is plaintext
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// These are set manually from positional args, so no tag
	SeasonArg string
	RoundArg  string

	// --- Fields from rootCmd.PersistentFlags() ---
	Season         string `mapstructure:"season"`
	Workers        int    `mapstructure:"workers"`
	Limit          int    `mapstructure:"limit"`
	Output         string `mapstructure:"output"`
	OutputFile     string `mapstructure:"output-file"`
	Width          int    `mapstructure:"width"`
	Color          string `mapstructure:"color"`
	Images         bool   `mapstructure:"images"`
	ImageBytes     bool   `mapstructure:"image-bytes"`
	ThumbSize      int    `mapstructure:"thumb-size"`
	StatsBaseURL   string `mapstructure:"stats-base-url"`
	WikiBaseURL    string `mapstructure:"wiki-base-url"`
	HTTPTimeout    string `mapstructure:"http-timeout"`
	UserAgent      string `mapstructure:"user-agent"`
	LogLevel       string `mapstructure:"log-level"`
	CacheBackend   string `mapstructure:"cache-backend"`
	CacheDBConnect string `mapstructure:"cache-db-connect"`
	LoadBackend    string `mapstructure:"load-backend"`
	LoadDBConnect  string `mapstructure:"load-db-connect"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct. now anchors the current season.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput, now time.Time) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processUpstreams(cfg, input); err != nil {
		return err
	}
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	return processSeasonAndRound(cfg, input, now)
}

// ValidateSeason normalizes a season argument. Empty and "current" mean the year of now.
func ValidateSeason(season string, now time.Time) (string, error) {
	season = strings.TrimSpace(strings.ToLower(season))
	if season == "" || season == CurrentSeason {
		return strconv.Itoa(now.Year()), nil
	}
	year, err := strconv.Atoi(season)
	if err != nil {
		return "", fmt.Errorf("%w: %q is not a year", ErrInvalidSeason, season)
	}
	if year < MinSeason || year > now.Year() {
		return "", fmt.Errorf("%w: %d must be between %d and %d", ErrInvalidSeason, year, MinSeason, now.Year())
	}
	return strconv.Itoa(year), nil
}

// ValidateRound checks that a round is a positive integer.
func ValidateRound(round string) (string, error) {
	r, err := strconv.Atoi(strings.TrimSpace(round))
	if err != nil || r <= 0 {
		return "", fmt.Errorf("%w: %q must be a positive integer", ErrInvalidRound, round)
	}
	return strconv.Itoa(r), nil
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for the networked backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.BoltBackend, schema.MemoryBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	case schema.RedisBackend:
		if connStr == "" {
			return fmt.Errorf("cache-db-connect is required when using %s backend", backend)
		}
		if !strings.HasPrefix(connStr, "redis://") && !strings.HasPrefix(connStr, "rediss://") {
			return fmt.Errorf("Redis connection string must start with redis:// or rediss://")
		}
	}
	return nil
}

// validateBackendConfigs validates cache and load backend configurations.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	// --- Cache Backend Validation ---
	cfg.CacheBackend = schema.DatabaseBackend(strings.ToLower(input.CacheBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.CacheBackend]; !ok {
		return fmt.Errorf("invalid cache backend '%s'. must be sqlite, mysql, postgresql, bolt, redis, memory, none", input.CacheBackend)
	}
	cfg.CacheDBConnect = input.CacheDBConnect
	if err := ValidateDatabaseConnectionString(cfg.CacheBackend, cfg.CacheDBConnect); err != nil {
		return err
	}

	// --- Load Backend Validation ---
	cfg.LoadBackend = schema.DatabaseBackend(strings.ToLower(input.LoadBackend))
	if cfg.LoadBackend == "" {
		return nil
	}
	if _, ok := schema.ValidLoadBackends[cfg.LoadBackend]; !ok {
		return fmt.Errorf("invalid load backend '%s'. must be sqlite, mysql, postgresql, none", input.LoadBackend)
	}
	cfg.LoadDBConnect = input.LoadDBConnect
	if err := ValidateDatabaseConnectionString(cfg.LoadBackend, cfg.LoadDBConnect); err != nil {
		return err
	}

	// Validate that cache and load tracking use different SQLite files
	if cfg.CacheBackend == schema.SQLiteBackend && cfg.LoadBackend == schema.SQLiteBackend {
		cachePath := cfg.CacheDBConnect
		if cachePath == "" {
			cachePath = GetCacheDBFilePath()
		}
		loadPath := cfg.LoadDBConnect
		if loadPath == "" {
			loadPath = GetLoadDBFilePath()
		}
		if cachePath == loadPath {
			return fmt.Errorf("cache and load storage must use different SQLite database files. Both resolve to %q", cachePath)
		}
	}
	return nil
}

// validateSimpleInputs processes and validates output and concurrency fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	// --- 0. Transfer simple non-validated fields from input -> cfg ---
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Images = input.Images
	cfg.ImageBytes = input.ImageBytes

	// Parse color flag
	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	// --- 1. ResultLimit Validation ---
	if input.Limit <= 0 || input.Limit > MaxResultLimit {
		return fmt.Errorf("limit must be greater than 0 and cannot exceed %d (received %d)", MaxResultLimit, input.Limit)
	}
	cfg.ResultLimit = input.Limit

	// --- 2. Workers Validation ---
	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	// --- 3. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", cfg.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	// --- 4. Thumbnail Size Validation ---
	if input.ThumbSize < 50 || input.ThumbSize > 2000 {
		return fmt.Errorf("thumb-size must be between 50 and 2000 (received %d)", input.ThumbSize)
	}
	cfg.ThumbSize = input.ThumbSize

	// --- 5. Log Level Validation ---
	if _, err := ParseLogLevel(input.LogLevel); err != nil {
		return err
	}
	cfg.LogLevel = input.LogLevel
	return nil
}

// processUpstreams validates the upstream endpoints and HTTP settings.
func processUpstreams(cfg *Config, input *ConfigRawInput) error {
	cfg.StatsBaseURL = strings.TrimRight(input.StatsBaseURL, "/")
	if cfg.StatsBaseURL == "" {
		cfg.StatsBaseURL = DefaultStatsBaseURL
	}
	cfg.WikiBaseURL = input.WikiBaseURL
	if cfg.WikiBaseURL == "" {
		cfg.WikiBaseURL = DefaultWikiBaseURL
	}
	for name, u := range map[string]string{"stats-base-url": cfg.StatsBaseURL, "wiki-base-url": cfg.WikiBaseURL} {
		if !strings.HasPrefix(u, "http://") && !strings.HasPrefix(u, "https://") {
			return fmt.Errorf("%s must be an http(s) URL (received %q)", name, u)
		}
	}

	cfg.HTTPTimeout = DefaultHTTPTimeout
	if input.HTTPTimeout != "" {
		d, err := time.ParseDuration(input.HTTPTimeout)
		if err != nil || d <= 0 {
			return fmt.Errorf("invalid --http-timeout %q: must be a positive duration like 15s", input.HTTPTimeout)
		}
		cfg.HTTPTimeout = d
	}

	cfg.UserAgent = input.UserAgent
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return nil
}

// processSeasonAndRound resolves positional arguments over the configured season.
func processSeasonAndRound(cfg *Config, input *ConfigRawInput, now time.Time) error {
	raw := input.Season
	if input.SeasonArg != "" {
		raw = input.SeasonArg
	}
	season, err := ValidateSeason(raw, now)
	if err != nil {
		return err
	}
	cfg.Season = season

	cfg.Round = ""
	if input.RoundArg != "" {
		round, err := ValidateRound(input.RoundArg)
		if err != nil {
			return err
		}
		cfg.Round = round
	}
	return nil
}
