package covidlive

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/couchcryptid/covid-case-chart/internal/domain"
	"github.com/couchcryptid/covid-case-chart/internal/observability"
)

// Client fetches the daily-cases report page and extracts its table.
// It implements pipeline.SourceFetcher.
type Client struct {
	url         string
	httpClient  *http.Client
	selector    Selector
	newestFirst bool
	maxRetries  uint64
	backoff     func() backoff.BackOff
	metrics     *observability.Metrics
	logger      *slog.Logger
}

// Options configures a Client.
type Options struct {
	URL         string
	Selector    Selector
	NewestFirst bool          // page lists the latest day first
	Timeout     time.Duration // per attempt
	MaxRetries  int           // attempts after the first
}

// NewClient creates a covidlive page client.
func NewClient(opts Options, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		url: opts.URL,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		selector:    opts.Selector,
		newestFirst: opts.NewestFirst,
		maxRetries:  uint64(max(opts.MaxRetries, 0)),
		backoff:     defaultBackoff,
		metrics:     metrics,
		logger:      logger,
	}
}

// defaultBackoff starts at 200ms and doubles up to 5s, the same schedule the
// pipeline used for broker outages.
func defaultBackoff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 5 * time.Second
	b.Multiplier = 2
	b.MaxElapsedTime = 0
	return b
}

// FetchRows downloads the page and returns its rows oldest first. Transport
// failures and 5xx responses are retried; 4xx responses and table shape
// errors are not. Every failure wraps domain.ErrFetch.
func (c *Client) FetchRows(ctx context.Context) ([]domain.RawRow, error) {
	var rows []domain.RawRow
	attempt := 0

	op := func() error {
		attempt++
		c.metrics.FetchAttempts.Inc()

		var err error
		rows, err = c.fetchOnce(ctx)
		if err != nil {
			c.logger.Warn("fetch attempt failed", "attempt", attempt, "url", c.url, "error", err)
		}
		return err
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(c.backoff(), c.maxRetries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, fmt.Errorf("%w: %s after %d attempt(s): %w", domain.ErrFetch, c.url, attempt, err)
	}

	if c.newestFirst {
		slices.Reverse(rows)
	}
	c.logger.Debug("fetched source table", "rows", len(rows), "selector", c.selector.String())
	return rows, nil
}

func (c *Client) fetchOnce(ctx context.Context) ([]domain.RawRow, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "text/html")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("get page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		err := fmt.Errorf("source error: status %d: %s", resp.StatusCode, body)
		if resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests {
			return nil, err
		}
		return nil, backoff.Permanent(err)
	}

	rows, err := ExtractRows(resp.Body, c.selector)
	if err != nil {
		return nil, backoff.Permanent(err)
	}
	return rows, nil
}
