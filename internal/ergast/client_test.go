package ergast

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recorder serves a fixed body and remembers every request URI.
type recorder struct {
	mu     sync.Mutex
	uris   []string
	agents []string
	status int
	body   string
}

func (r *recorder) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mu.Lock()
	r.uris = append(r.uris, req.URL.RequestURI())
	r.agents = append(r.agents, req.Header.Get("User-Agent"))
	r.mu.Unlock()
	if r.status != 0 {
		w.WriteHeader(r.status)
	}
	_, _ = w.Write([]byte(r.body))
}

func (r *recorder) calls() ([]string, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.uris...), append([]string(nil), r.agents...)
}

func newTestClient(t *testing.T, rec *recorder) *Client {
	t.Helper()
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)
	return New(WithBaseURL(srv.URL+"/ergast/f1/"), WithHTTPClient(srv.Client()), WithUserAgent("paddock-test"))
}

func TestClientEndpoints(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name string
		call func(c *Client) ([]byte, error)
		want string
	}{
		{"driver standings", func(c *Client) ([]byte, error) { return c.DriverStandings(ctx, "2021") }, "/ergast/f1/2021/driverStandings.json"},
		{"constructor standings", func(c *Client) ([]byte, error) { return c.ConstructorStandings(ctx, "2021") }, "/ergast/f1/2021/constructorStandings.json?limit=100"},
		{"schedule", func(c *Client) ([]byte, error) { return c.Schedule(ctx, "2021") }, "/ergast/f1/2021.json"},
		{"race results", func(c *Client) ([]byte, error) { return c.RaceResults(ctx, "2021", "5") }, "/ergast/f1/2021/5/results.json"},
		{"driver results", func(c *Client) ([]byte, error) { return c.DriverResults(ctx, "hamilton", 50) }, "/ergast/f1/drivers/hamilton/results.json?limit=50"},
		{"driver results without limit", func(c *Client) ([]byte, error) { return c.DriverResults(ctx, "hamilton", 0) }, "/ergast/f1/drivers/hamilton/results.json"},
		{"lap times", func(c *Client) ([]byte, error) { return c.LapTimes(ctx, "2021", "1", "hamilton", 100) }, "/ergast/f1/2021/1/drivers/hamilton/laps.json?limit=100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &recorder{body: `{"MRData":{}}`}
			c := newTestClient(t, rec)

			body, err := tt.call(c)
			require.NoError(t, err)
			assert.JSONEq(t, `{"MRData":{}}`, string(body))
			uris, agents := rec.calls()
			require.Len(t, uris, 1)
			assert.Equal(t, tt.want, uris[0])
			assert.Equal(t, "paddock-test", agents[0])
		})
	}
}

func TestClientHTTPError(t *testing.T) {
	rec := &recorder{status: http.StatusServiceUnavailable, body: "down"}
	c := newTestClient(t, rec)

	_, err := c.DriverStandings(context.Background(), "2021")
	require.Error(t, err)

	var fe *contract.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
	assert.Equal(t, "driverStandings", fe.Op)
	assert.Contains(t, fe.Error(), "HTTP 503")
}

func TestClientBodyTooLarge(t *testing.T) {
	rec := &recorder{body: `{"MRData":{"series":"f1"}}`}
	srv := httptest.NewServer(rec)
	t.Cleanup(srv.Close)

	tight := New(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithMaxBodyBytes(8))
	_, err := tight.Schedule(context.Background(), "2021")
	require.Error(t, err)
	assert.True(t, contract.IsFetchError(err))
	assert.ErrorIs(t, err, contract.ErrBodyTooLarge)

	exact := New(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithMaxBodyBytes(int64(len(rec.body))))
	body, err := exact.Schedule(context.Background(), "2021")
	require.NoError(t, err)
	assert.Equal(t, rec.body, string(body))
}

func TestClientTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(WithBaseURL(url))
	_, err := c.Schedule(context.Background(), "2021")
	require.Error(t, err)
	assert.True(t, contract.IsFetchError(err))
}

func TestClientContextCancel(t *testing.T) {
	block := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-block:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(block)
		srv.Close()
	})

	c := New(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.RaceResults(ctx, "2021", "1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestNewDefaults(t *testing.T) {
	c := New()
	assert.Equal(t, contract.DefaultStatsBaseURL, c.baseURL)
	assert.Equal(t, contract.DefaultUserAgent, c.userAgent)

	c = New(WithBaseURL(""))
	assert.Equal(t, contract.DefaultStatsBaseURL, c.baseURL, "empty base URL keeps the default")
}
