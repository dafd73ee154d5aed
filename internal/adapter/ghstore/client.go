// Package ghstore reads the summary data set published to a GitHub
// repository: one directory per calendar day, one JSON document per channel.
package ghstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"cryptopulse/internal/domain"
	"cryptopulse/internal/infra/logger"
	"cryptopulse/internal/infra/metrics"
)

const (
	defaultRawBaseURL = "https://raw.githubusercontent.com"
	defaultAPIBaseURL = "https://api.github.com"
)

// Config locates the data set inside the repository.
type Config struct {
	Owner    string
	Repo     string
	Branch   string
	DataPath string

	// Base URL overrides, used by tests. Empty means the public endpoints.
	RawBaseURL string
	APIBaseURL string
}

// Client implements domain.SummaryStore over GitHub's raw-content and
// contents-API endpoints.
type Client struct {
	cfg        Config
	httpClient *http.Client
	logger     *logger.ContextLogger
	metrics    *metrics.Metrics
}

func NewClient(cfg Config, httpClient *http.Client, cl *logger.ContextLogger, m *metrics.Metrics) *Client {
	if cfg.RawBaseURL == "" {
		cfg.RawBaseURL = defaultRawBaseURL
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	cfg.RawBaseURL = strings.TrimRight(cfg.RawBaseURL, "/")
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")
	return &Client{
		cfg:        cfg,
		httpClient: httpClient,
		logger:     cl,
		metrics:    m,
	}
}

func (c *Client) rawURL(path string) string {
	return fmt.Sprintf("%s/%s/%s/%s/%s",
		c.cfg.RawBaseURL, c.cfg.Owner, c.cfg.Repo, c.cfg.Branch, path)
}

func (c *Client) contentsURL(path string) string {
	return fmt.Sprintf("%s/repos/%s/%s/contents/%s?ref=%s",
		c.cfg.APIBaseURL, c.cfg.Owner, c.cfg.Repo, path, c.cfg.Branch)
}

// FetchDay returns the normalized records for one channel on one date. A
// missing file means the channel did not publish that day and is not an
// error; every other failure is logged and likewise reported as an empty
// slice so that one broken file never blocks the rest of the batch.
func (c *Client) FetchDay(ctx context.Context, date, channel string) []domain.VideoRecord {
	url := c.rawURL(fmt.Sprintf("%s/%s/%s.json", c.cfg.DataPath, date, channel))

	start := time.Now()
	body, status, err := c.get(ctx, url)
	c.metrics.FetchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		c.metrics.SummaryFetches.WithLabelValues(metrics.FetchResultError).Inc()
		c.logger.WithContext(ctx).Warn("summary fetch failed",
			slog.String("date", date),
			slog.String("channel", channel),
			slog.String("error", err.Error()))
		return nil
	}
	if status == http.StatusNotFound {
		c.metrics.SummaryFetches.WithLabelValues(metrics.FetchResultNotFound).Inc()
		c.logger.WithContext(ctx).Debug("no summary file",
			slog.String("date", date),
			slog.String("channel", channel))
		return nil
	}
	if status != http.StatusOK {
		c.metrics.SummaryFetches.WithLabelValues(metrics.FetchResultError).Inc()
		c.logger.WithContext(ctx).Warn("summary fetch returned unexpected status",
			slog.String("date", date),
			slog.String("channel", channel),
			slog.Int("status", status))
		return nil
	}

	records, err := domain.ParseDayDocument(body, date, channel)
	if err != nil {
		c.metrics.SummaryFetches.WithLabelValues(metrics.FetchResultError).Inc()
		c.logger.WithContext(ctx).Warn("summary document malformed",
			slog.String("date", date),
			slog.String("channel", channel),
			slog.String("error", err.Error()))
		return nil
	}

	c.metrics.SummaryFetches.WithLabelValues(metrics.FetchResultOK).Inc()
	return records
}

// contentsEntry is the subset of the contents-API response we care about.
type contentsEntry struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// ListDay returns the channel handles with a summary file for the date.
func (c *Client) ListDay(ctx context.Context, date string) []string {
	entries, err := c.listContents(ctx, fmt.Sprintf("%s/%s", c.cfg.DataPath, date))
	if err != nil {
		c.metrics.ListingFailures.Inc()
		c.logger.WithContext(ctx).Warn("day listing failed",
			slog.String("date", date),
			slog.String("error", err.Error()))
		return nil
	}

	var channels []string
	for _, e := range entries {
		if e.Type == "file" && strings.HasSuffix(e.Name, ".json") {
			channels = append(channels, strings.TrimSuffix(e.Name, ".json"))
		}
	}
	return channels
}

// listDates returns the date directories under the data root, newest first.
func (c *Client) listDates(ctx context.Context) ([]string, error) {
	entries, err := c.listContents(ctx, c.cfg.DataPath)
	if err != nil {
		c.metrics.ListingFailures.Inc()
		return nil, err
	}

	seen := make(map[string]bool)
	var dates []string
	for _, e := range entries {
		if e.Type != "dir" || !domain.DayPattern.MatchString(e.Name) || seen[e.Name] {
			continue
		}
		seen[e.Name] = true
		dates = append(dates, e.Name)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

func (c *Client) listContents(ctx context.Context, path string) ([]contentsEntry, error) {
	body, status, err := c.get(ctx, c.contentsURL(path))
	if err != nil {
		return nil, err
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("contents listing returned %d", status)
	}

	var entries []contentsEntry
	if err := json.Unmarshal(body, &entries); err != nil {
		return nil, fmt.Errorf("decode contents listing: %w", err)
	}
	return entries, nil
}

func (c *Client) get(ctx context.Context, url string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, nil
}

var _ domain.SummaryStore = (*Client)(nil)
