// Package gdacs implements the HTTP client for the GDACS event-list feed and
// the per-event AOI geometry endpoint.
package gdacs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/floodwatch/gdacs-flood-db/internal/domain"
)

const dateLayout = "2006-01-02"

// Client fetches flood events from the GDACS API. It implements
// pipeline.WindowFetcher and pipeline.GeometryFetcher.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retries    int
	logger     *slog.Logger
}

// NewClient creates a feed client. retries is the number of attempts per
// window before the window is given up as empty.
func NewClient(baseURL string, timeout time.Duration, retries int, logger *slog.Logger) *Client {
	if retries < 1 {
		retries = 1
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		retries: retries,
		logger:  logger,
	}
}

// eventList is the feed's top-level response. Features stay raw so one
// undecodable feature is skipped instead of poisoning the window.
type eventList struct {
	Features []json.RawMessage `json:"features"`
}

// FetchWindow queries one date window for flood events at all alert levels.
// After the configured retries are exhausted it returns an empty slice and no
// error: a persistently failing window means "no events in this window", not
// a pipeline failure. Context cancellation is the only error surfaced.
func (c *Client) FetchWindow(ctx context.Context, w domain.Window) ([]domain.RawFeature, error) {
	params := url.Values{
		"eventlist":  {"FL"},
		"fromdate":   {w.Start.Format(dateLayout)},
		"todate":     {w.End.Format(dateLayout)},
		"alertlevel": {"green;orange;red"},
	}
	fullURL := c.baseURL + "?" + params.Encode()

	for attempt := 1; attempt <= c.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		features, err := c.fetchOnce(ctx, fullURL)
		if err == nil {
			return features, nil
		}

		c.logger.Warn("window fetch attempt failed",
			"from", w.Start.Format(dateLayout),
			"to", w.End.Format(dateLayout),
			"attempt", attempt,
			"error", err,
		)
	}

	c.logger.Warn("skipping window after repeated failures",
		"from", w.Start.Format(dateLayout),
		"to", w.End.Format(dateLayout),
		"retries", c.retries,
	)
	return nil, nil
}

func (c *Client) fetchOnce(ctx context.Context, fullURL string) ([]domain.RawFeature, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("event list request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("event list request: status %d", resp.StatusCode)
	}

	var payload eventList
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode event list: %w", err)
	}

	features := make([]domain.RawFeature, 0, len(payload.Features))
	for _, raw := range payload.Features {
		var f domain.RawFeature
		if err := json.Unmarshal(raw, &f); err != nil {
			c.logger.Warn("skipping undecodable feature", "error", err)
			continue
		}
		features = append(features, f)
	}
	return features, nil
}

// FetchGeometry downloads the AOI geometry document behind an event's
// geometry URL.
func (c *Client) FetchGeometry(ctx context.Context, geometryURL string) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, geometryURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("geometry request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geometry request: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read geometry body: %w", err)
	}
	if !json.Valid(data) {
		return nil, fmt.Errorf("geometry response is not valid JSON")
	}
	return json.RawMessage(data), nil
}
