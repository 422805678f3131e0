// Package ergast talks to an Ergast-compatible motorsport stats API.
package ergast

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/rs/zerolog"
)

// maxBodyBytes caps a single response body.
const maxBodyBytes = 32 << 20

// Client fetches raw JSON payloads. It never decodes or caches.
type Client struct {
	http      *http.Client
	baseURL   string
	userAgent string
	maxBody   int64
	logger    zerolog.Logger
}

var _ contract.StatsAPI = &Client{} // Compile-time check

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithBaseURL points the client at another Ergast mirror.
func WithBaseURL(raw string) Option {
	return func(c *Client) {
		if raw != "" {
			c.baseURL = strings.TrimRight(raw, "/")
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithMaxBodyBytes caps response bodies; larger ones fail with a FetchError.
func WithMaxBodyBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBody = n
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New returns a client for the default base URL unless overridden.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: contract.DefaultHTTPTimeout},
		baseURL:   contract.DefaultStatsBaseURL,
		userAgent: contract.DefaultUserAgent,
		maxBody:   maxBodyBytes,
		logger:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// DriverStandings fetches /{season}/driverStandings.json.
func (c *Client) DriverStandings(ctx context.Context, season string) ([]byte, error) {
	return c.get(ctx, "driverStandings", fmt.Sprintf("/%s/driverStandings.json", season), nil)
}

// ConstructorStandings fetches /{season}/constructorStandings.json?limit=100.
func (c *Client) ConstructorStandings(ctx context.Context, season string) ([]byte, error) {
	return c.get(ctx, "constructorStandings", fmt.Sprintf("/%s/constructorStandings.json", season), url.Values{"limit": {"100"}})
}

// Schedule fetches /{season}.json.
func (c *Client) Schedule(ctx context.Context, season string) ([]byte, error) {
	return c.get(ctx, "raceSchedule", fmt.Sprintf("/%s.json", season), nil)
}

// RaceResults fetches /{season}/{round}/results.json.
func (c *Client) RaceResults(ctx context.Context, season, round string) ([]byte, error) {
	return c.get(ctx, "raceResults", fmt.Sprintf("/%s/%s/results.json", season, round), nil)
}

// DriverResults fetches /drivers/{id}/results.json?limit=N.
func (c *Client) DriverResults(ctx context.Context, driverID string, limit int) ([]byte, error) {
	p := fmt.Sprintf("/drivers/%s/results.json", url.PathEscape(driverID))
	return c.get(ctx, "driverResults", p, limitQuery(limit))
}

// LapTimes fetches /{season}/{round}/drivers/{id}/laps.json?limit=N.
func (c *Client) LapTimes(ctx context.Context, season, round, driverID string, limit int) ([]byte, error) {
	p := fmt.Sprintf("/%s/%s/drivers/%s/laps.json", season, round, url.PathEscape(driverID))
	return c.get(ctx, "lapTimes", p, limitQuery(limit))
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}

// get performs one GET and returns the body of a 2xx response.
func (c *Client) get(ctx context.Context, op, path string, query url.Values) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &contract.FetchError{Op: op, URL: target, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &contract.FetchError{Op: op, URL: target, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Debug().Str("op", op).Str("url", target).Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).Msg("stats request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &contract.FetchError{Op: op, URL: target, StatusCode: resp.StatusCode}
	}
	body, err := contract.ReadLimited(resp.Body, c.maxBody)
	if err != nil {
		return nil, &contract.FetchError{Op: op, URL: target, Err: err}
	}
	return body, nil
}
