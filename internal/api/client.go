package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/five82/lookout/internal/detection"
	"github.com/five82/lookout/internal/observability"
)

// Fetcher performs the initial bulk load of cameras and detections.
// This interface is implemented by *Client and can be used for testing.
type Fetcher interface {
	FetchDetections(ctx context.Context) ([]detection.Record, error)
	FetchCameras(ctx context.Context) ([]detection.Camera, error)
}

// Ensure Client implements Fetcher at compile time.
var _ Fetcher = (*Client)(nil)

// Client talks to the detection HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultBaseURL   = "http://localhost:3001"
	defaultUserAgent = "lookout/0.1"
	requestTimeout   = 5 * time.Second
)

// NewClient builds a Client rooted at base. A path prefix on base is kept so
// the API can live behind a reverse proxy.
func NewClient(base string) (*Client, error) {
	u, err := parseBaseURL(base)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: u,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchDetections retrieves the full detection snapshot.
func (c *Client) FetchDetections(ctx context.Context) ([]detection.Record, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var raw []json.RawMessage
	if err := c.get(ctx, "detections", &raw); err != nil {
		return nil, err
	}
	// Bad rows are dropped one by one, like malformed stream messages.
	records := make([]detection.Record, 0, len(raw))
	for i, item := range raw {
		rec, err := detection.DecodeRecord(item)
		if err != nil {
			observability.FetchMalformed.Inc()
			slog.Debug("dropping malformed detection", "index", i, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// FetchCameras retrieves the camera list.
func (c *Client) FetchCameras(ctx context.Context) ([]detection.Camera, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload []detection.Camera
	if err := c.get(ctx, "cameras", &payload); err != nil {
		return nil, err
	}
	return payload, nil
}

func (c *Client) get(ctx context.Context, path string, dest any) error {
	start := time.Now()
	defer func() {
		observability.FetchDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	}()

	reqURL := c.baseURL.ResolveReference(&url.URL{Path: path})
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api /%s returned status %d", path, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(base string) (*url.URL, error) {
	trimmed := strings.TrimSpace(base)
	if trimmed == "" {
		trimmed = defaultBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse api base %q: %w", base, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("api base %q has no host", base)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/"
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
