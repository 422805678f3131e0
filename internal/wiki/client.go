// Package wiki looks up page thumbnails on a MediaWiki API.
package wiki

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"github.com/huangsam/paddock/internal/contract"
	"github.com/rs/zerolog"
)

// maxImageBytes caps a downloaded thumbnail.
const maxImageBytes = 16 << 20

// Client queries the pageimages and search modules of the MediaWiki API.
type Client struct {
	http      *http.Client
	endpoint  string
	thumbSize int
	userAgent string
	maxBody   int64
	logger    zerolog.Logger
}

var _ contract.ImageAPI = &Client{} // Compile-time check

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithEndpoint points the client at another api.php.
func WithEndpoint(raw string) Option {
	return func(c *Client) {
		if raw != "" {
			c.endpoint = raw
		}
	}
}

// WithThumbSize sets the requested thumbnail width.
func WithThumbSize(px int) Option {
	return func(c *Client) {
		if px > 0 {
			c.thumbSize = px
		}
	}
}

// WithUserAgent sets the User-Agent header. Wikimedia rejects anonymous clients.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithMaxBodyBytes caps responses and downloads; larger ones fail with a FetchError.
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

// New returns a client for English Wikipedia unless overridden.
func New(opts ...Option) *Client {
	c := &Client{
		http:      &http.Client{Timeout: contract.DefaultHTTPTimeout},
		endpoint:  contract.DefaultWikiBaseURL,
		thumbSize: contract.DefaultThumbSize,
		userAgent: contract.DefaultUserAgent,
		maxBody:   maxImageBytes,
		logger:    zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type thumbnail struct {
	Source string `json:"source"`
}

type page struct {
	PageID    int64      `json:"pageid"`
	Title     string     `json:"title"`
	Index     int        `json:"index"`
	Missing   *string    `json:"missing"`
	Thumbnail *thumbnail `json:"thumbnail"`
}

type searchHit struct {
	PageID int64  `json:"pageid"`
	Title  string `json:"title"`
}

type queryResponse struct {
	Query *struct {
		Pages  map[string]page `json:"pages"`
		Search []searchHit     `json:"search"`
	} `json:"query"`
}

// LookupTitle returns the thumbnail of the page with the exact title, or "".
func (c *Client) LookupTitle(ctx context.Context, title string) (string, error) {
	q := c.pageImagesQuery()
	q.Set("titles", title)
	resp, err := c.query(ctx, "lookupTitle", q)
	if err != nil {
		return "", err
	}
	return firstThumbnail(resp), nil
}

// LookupPage returns the thumbnail of the page with the given id, or "".
func (c *Client) LookupPage(ctx context.Context, pageID int64) (string, error) {
	q := c.pageImagesQuery()
	q.Set("pageids", strconv.FormatInt(pageID, 10))
	resp, err := c.query(ctx, "lookupPage", q)
	if err != nil {
		return "", err
	}
	return firstThumbnail(resp), nil
}

// Search runs a full-text search and returns page ids in rank order.
func (c *Client) Search(ctx context.Context, query string) ([]int64, error) {
	q := url.Values{
		"action":   {"query"},
		"list":     {"search"},
		"srsearch": {query},
		"format":   {"json"},
	}
	resp, err := c.query(ctx, "search", q)
	if err != nil {
		return nil, err
	}
	if resp.Query == nil {
		return nil, nil
	}
	ids := make([]int64, 0, len(resp.Query.Search))
	for _, hit := range resp.Query.Search {
		ids = append(ids, hit.PageID)
	}
	return ids, nil
}

// SearchPages uses search as a generator so each hit comes back with its thumbnail.
// Pages are returned in search rank order.
func (c *Client) SearchPages(ctx context.Context, query string, limit int) ([]contract.WikiPage, error) {
	q := c.pageImagesQuery()
	q.Set("generator", "search")
	q.Set("gsrsearch", query)
	q.Set("gsrlimit", strconv.Itoa(limit))
	q.Set("redirects", "1")
	resp, err := c.query(ctx, "searchPages", q)
	if err != nil {
		return nil, err
	}
	if resp.Query == nil {
		return nil, nil
	}

	pages := make([]page, 0, len(resp.Query.Pages))
	for _, p := range resp.Query.Pages {
		if p.Missing == nil {
			pages = append(pages, p)
		}
	}
	sort.SliceStable(pages, func(i, j int) bool {
		if pages[i].Index != pages[j].Index {
			return pages[i].Index < pages[j].Index
		}
		return pages[i].PageID < pages[j].PageID
	})

	out := make([]contract.WikiPage, 0, len(pages))
	for _, p := range pages {
		wp := contract.WikiPage{PageID: p.PageID, Title: p.Title}
		if p.Thumbnail != nil {
			wp.Thumbnail = p.Thumbnail.Source
		}
		out = append(out, wp)
	}
	return out, nil
}

// Download fetches the bytes of an image.
func (c *Client) Download(ctx context.Context, imageURL string) ([]byte, error) {
	return c.get(ctx, "download", imageURL)
}

func (c *Client) pageImagesQuery() url.Values {
	return url.Values{
		"action":      {"query"},
		"prop":        {"pageimages"},
		"format":      {"json"},
		"pithumbsize": {strconv.Itoa(c.thumbSize)},
	}
}

func (c *Client) query(ctx context.Context, op string, q url.Values) (*queryResponse, error) {
	target := c.endpoint + "?" + q.Encode()
	body, err := c.get(ctx, op, target)
	if err != nil {
		return nil, err
	}
	var resp queryResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &contract.DecodeError{Source: op, Err: err}
	}
	return &resp, nil
}

func (c *Client) get(ctx context.Context, op, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, &contract.FetchError{Op: op, URL: target, Err: err}
	}
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
		Dur("elapsed", time.Since(start)).Msg("wiki request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &contract.FetchError{Op: op, URL: target, StatusCode: resp.StatusCode}
	}
	body, err := contract.ReadLimited(resp.Body, c.maxBody)
	if err != nil {
		return nil, &contract.FetchError{Op: op, URL: target, Err: fmt.Errorf("read body: %w", err)}
	}
	return body, nil
}

// firstThumbnail picks the thumbnail of the lowest page id that has one.
func firstThumbnail(resp *queryResponse) string {
	if resp.Query == nil {
		return ""
	}
	ids := make([]string, 0, len(resp.Query.Pages))
	for id := range resp.Query.Pages {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		p := resp.Query.Pages[id]
		if p.Missing == nil && p.Thumbnail != nil && p.Thumbnail.Source != "" {
			return p.Thumbnail.Source
		}
	}
	return ""
}
