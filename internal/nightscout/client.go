// Package nightscout implements the HTTP client for a Nightscout-compatible
// entries API. It is the concrete storage.SampleSource used in production;
// the backfill runner only sees the interface.
package nightscout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/glucolab/glucodash/internal/core/glucose"
)

const (
	entriesPath = "/api/v1/entries.json"

	// DefaultFetchTimeout bounds a single remote call. A hung upstream must
	// not stall the backfill loop indefinitely.
	DefaultFetchTimeout = 15 * time.Second
)

// ErrNoEntries is returned by Latest when the remote source has no readings.
var ErrNoEntries = errors.New("nightscout: no entries available")

// Entry is one reading with the display fields the dashboard needs on top
// of the raw sample pair.
type Entry struct {
	SGV        *int64 `json:"sgv"`
	DateMillis *int64 `json:"date"`
	DateString string `json:"dateString"`
	Direction  string `json:"direction"`
	Units      string `json:"units"`
}

// Client talks to one Nightscout server.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// NewClient creates a client for the given server.
// token is sent as the api-secret header on every request; pass "" for
// servers with open read access. timeout <= 0 selects DefaultFetchTimeout.
func NewClient(baseURL, token string, timeout time.Duration) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("nightscout: invalid base URL %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("nightscout: base URL %q must use http or https", baseURL)
	}
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

// FetchRange returns raw samples with timestamps in [from, to), newest
// first as served by the API, capped at limit.
func (c *Client) FetchRange(ctx context.Context, from, to time.Time, limit int) ([]glucose.RawSample, error) {
	params := url.Values{}
	params.Set("find[date][$gte]", strconv.FormatInt(from.UnixMilli(), 10))
	params.Set("find[date][$lt]", strconv.FormatInt(to.UnixMilli(), 10))
	params.Set("count", strconv.Itoa(limit))

	var samples []glucose.RawSample
	if err := c.get(ctx, params, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}

// Latest returns the most recent entry.
func (c *Client) Latest(ctx context.Context) (Entry, error) {
	params := url.Values{}
	params.Set("count", "1")

	var entries []Entry
	if err := c.get(ctx, params, &entries); err != nil {
		return Entry{}, err
	}
	if len(entries) == 0 {
		return Entry{}, ErrNoEntries
	}
	return entries[0], nil
}

func (c *Client) get(ctx context.Context, params url.Values, out interface{}) error {
	reqURL := c.baseURL + entriesPath + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("nightscout: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("api-secret", c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("nightscout: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("nightscout: unexpected status %d from %s", resp.StatusCode, entriesPath)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("nightscout: decode response: %w", err)
	}
	return nil
}
