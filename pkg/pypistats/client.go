// Package pypistats provides a client for the pypistats.org API.
//
// It fetches recent and overall download counts plus Python-version and
// operating-system breakdowns for PyPI packages. Responses are cached on
// disk and transient failures are retried with exponential backoff.
package pypistats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/shakfu/pkgdb/pkg/httputil"
	"github.com/shakfu/pkgdb/pkg/stats"
)

const (
	defaultBaseURL = "https://pypistats.org/api"
	httpTimeout    = 10 * time.Second
)

var (
	// ErrNotFound is returned when a package doesn't exist on pypistats.org.
	ErrNotFound = errors.New("package not found")

	// ErrNetwork is returned for HTTP failures (timeouts, connection errors, 5xx responses).
	ErrNetwork = errors.New("network error")
)

// Client provides access to the pypistats.org download statistics API.
//
// All methods are safe for concurrent use by multiple goroutines.
type Client struct {
	http    *http.Client
	cache   *httputil.Cache
	baseURL string
}

// NewClient creates a Client with the given response cache.
// Pass a zero-TTL cache to effectively disable caching.
func NewClient(cache *httputil.Cache) *Client {
	return &Client{
		http:    &http.Client{Timeout: httpTimeout},
		cache:   cache,
		baseURL: defaultBaseURL,
	}
}

// NewClientWithBaseURL creates a Client pointed at a non-standard API root.
// Used by tests to target an httptest server.
func NewClientWithBaseURL(cache *httputil.Cache, baseURL string) *Client {
	c := NewClient(cache)
	c.baseURL = baseURL
	return c
}

// cached retrieves a value from cache or executes fetch and caches the result.
// If refresh is true, the cache is bypassed and fetch is always called.
func (c *Client) cached(ctx context.Context, key string, refresh bool, v any, fetch func() error) error {
	if !refresh && c.cache != nil {
		if ok, _ := c.cache.Get(key, v); ok {
			return nil
		}
	}
	if err := httputil.RetryWithBackoff(ctx, fetch); err != nil {
		return err
	}
	if c.cache != nil {
		_ = c.cache.Set(key, v)
	}
	return nil
}

func (c *Client) get(ctx context.Context, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &httputil.RetryableError{Err: fmt.Errorf("%w: %v", ErrNetwork, err)}
	}
	defer resp.Body.Close()

	if err := checkStatus(resp.StatusCode); err != nil {
		return err
	}
	return json.NewDecoder(resp.Body).Decode(v)
}

func checkStatus(code int) error {
	switch {
	case code == http.StatusOK:
		return nil
	case code == http.StatusNotFound:
		return ErrNotFound
	case code >= 500 || code == http.StatusTooManyRequests:
		return &httputil.RetryableError{Err: fmt.Errorf("%w: status %d", ErrNetwork, code)}
	default:
		return fmt.Errorf("%w: status %d", ErrNetwork, code)
	}
}

// RecentDownloads holds the rolling download counts for a package.
type RecentDownloads struct {
	LastDay   int `json:"last_day"`
	LastWeek  int `json:"last_week"`
	LastMonth int `json:"last_month"`
}

// Recent fetches the rolling day/week/month download counts for pkg.
func (c *Client) Recent(ctx context.Context, pkg string, refresh bool) (RecentDownloads, error) {
	var resp struct {
		Data RecentDownloads `json:"data"`
	}
	key := "recent:" + pkg
	err := c.cached(ctx, key, refresh, &resp, func() error {
		return c.get(ctx, fmt.Sprintf("%s/packages/%s/recent", c.baseURL, pkg), &resp)
	})
	if err != nil {
		return RecentDownloads{}, wrapNotFound(err, pkg)
	}
	return resp.Data, nil
}

type categoryRow struct {
	Category  string `json:"category"`
	Downloads int    `json:"downloads"`
}

type categoryResponse struct {
	Data []categoryRow `json:"data"`
}

// Overall fetches the all-time download total for pkg. Mirror downloads
// are excluded; only the without_mirrors series is counted.
func (c *Client) Overall(ctx context.Context, pkg string, refresh bool) (int, error) {
	var resp categoryResponse
	key := "overall:" + pkg
	err := c.cached(ctx, key, refresh, &resp, func() error {
		return c.get(ctx, fmt.Sprintf("%s/packages/%s/overall", c.baseURL, pkg), &resp)
	})
	if err != nil {
		return 0, wrapNotFound(err, pkg)
	}

	total := 0
	for _, row := range resp.Data {
		if row.Category == "without_mirrors" {
			total += row.Downloads
		}
	}
	return total, nil
}

// PythonMinor fetches downloads over the last month broken down by Python
// minor version, sorted by download count descending. Rows with a null
// version are dropped.
func (c *Client) PythonMinor(ctx context.Context, pkg string, refresh bool) ([]stats.Breakdown, error) {
	rows, err := c.categories(ctx, "python_minor:"+pkg,
		fmt.Sprintf("%s/packages/%s/python_minor", c.baseURL, pkg), refresh)
	if err != nil {
		return nil, wrapNotFound(err, pkg)
	}
	return foldCategories(rows, ""), nil
}

// System fetches downloads over the last month broken down by operating
// system, sorted by download count descending. Rows with a null system
// are reported as "Unknown".
func (c *Client) System(ctx context.Context, pkg string, refresh bool) ([]stats.Breakdown, error) {
	rows, err := c.categories(ctx, "system:"+pkg,
		fmt.Sprintf("%s/packages/%s/system", c.baseURL, pkg), refresh)
	if err != nil {
		return nil, wrapNotFound(err, pkg)
	}
	return foldCategories(rows, "Unknown"), nil
}

func (c *Client) categories(ctx context.Context, key, url string, refresh bool) ([]categoryRow, error) {
	var resp categoryResponse
	err := c.cached(ctx, key, refresh, &resp, func() error {
		return c.get(ctx, url, &resp)
	})
	if err != nil {
		return nil, err
	}
	return resp.Data, nil
}

// foldCategories sums rows per category and sorts descending by count.
// The API reports missing categories as the literal string "null"; those
// rows are relabeled to nullLabel, or dropped when nullLabel is empty.
func foldCategories(rows []categoryRow, nullLabel string) []stats.Breakdown {
	sums := make(map[string]int)
	for _, row := range rows {
		cat := row.Category
		if cat == "null" || cat == "" {
			if nullLabel == "" {
				continue
			}
			cat = nullLabel
		}
		sums[cat] += row.Downloads
	}

	out := make([]stats.Breakdown, 0, len(sums))
	for cat, n := range sums {
		out = append(out, stats.Breakdown{Category: cat, Downloads: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Downloads != out[j].Downloads {
			return out[i].Downloads > out[j].Downloads
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Fetch retrieves a complete snapshot for pkg: the rolling counts from the
// recent endpoint plus the all-time total from the overall endpoint. The
// snapshot is dated with today's date in UTC.
func (c *Client) Fetch(ctx context.Context, pkg string, refresh bool) (stats.Snapshot, error) {
	recent, err := c.Recent(ctx, pkg, refresh)
	if err != nil {
		return stats.Snapshot{}, err
	}
	total, err := c.Overall(ctx, pkg, refresh)
	if err != nil {
		return stats.Snapshot{}, err
	}

	return stats.Snapshot{
		Package:   pkg,
		Date:      time.Now().UTC().Format("2006-01-02"),
		LastDay:   recent.LastDay,
		LastWeek:  recent.LastWeek,
		LastMonth: recent.LastMonth,
		Total:     total,
	}, nil
}

func wrapNotFound(err error, pkg string) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, pkg)
	}
	return err
}
