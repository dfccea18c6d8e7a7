// Package fetcher downloads establishment records from the open-data API.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"saludcl/internal/config"
	"saludcl/internal/logger"
	"saludcl/internal/models"
	"saludcl/pkg/utils"
)

const maxBodyBytes = 128 << 20

// Source produces the raw record table for a given limit.
type Source interface {
	Fetch(ctx context.Context, limit int) (*models.Table, error)
}

// Metrics describes a completed fetch.
type Metrics struct {
	Duration   time.Duration
	Bytes      int
	StatusCode int
	Attempts   int
}

// Client fetches the dataset over HTTP.
type Client struct {
	httpClient  *http.Client
	headers     *utils.HTTPHelper
	logger      *logger.Logger
	baseURL     string
	resourceID  string
	retryPolicy config.RetryPolicy
}

// NewClient creates a client from the source configuration.
func NewClient(src config.SourceConfig, log *logger.Logger) *Client {
	return NewClientWithHTTP(src, &http.Client{Timeout: src.GetTimeout()}, log)
}

// NewClientWithHTTP creates a client with an injected *http.Client.
func NewClientWithHTTP(src config.SourceConfig, httpClient *http.Client, log *logger.Logger) *Client {
	retry := src.Retry
	if retry.MaxAttempts < 1 {
		retry.MaxAttempts = 1
	}

	return &Client{
		httpClient:  httpClient,
		headers:     utils.NewHTTPHelper(src.UserAgent),
		logger:      log.With("component", "fetcher"),
		baseURL:     src.BaseURL,
		resourceID:  src.ResourceID,
		retryPolicy: retry,
	}
}

// Fetch downloads up to limit records.
func (c *Client) Fetch(ctx context.Context, limit int) (*models.Table, error) {
	table, _, err := c.FetchWithMetrics(ctx, limit)

	return table, err
}

// FetchWithMetrics downloads up to limit records and reports how it went.
func (c *Client) FetchWithMetrics(ctx context.Context, limit int) (*models.Table, Metrics, error) {
	var metrics Metrics

	if limit < 1 {
		return nil, metrics, ErrInvalidLimit
	}

	target, err := c.buildURL(limit)
	if err != nil {
		return nil, metrics, &TransportError{Err: err, URL: c.baseURL}
	}

	start := time.Now()

	var lastErr error

	for attempt := 1; attempt <= c.retryPolicy.MaxAttempts; attempt++ {
		metrics.Attempts = attempt

		if attempt > 1 {
			if waitErr := sleepCtx(ctx, c.retryPolicy.GetRetryDelay(attempt)); waitErr != nil {
				lastErr = waitErr

				break
			}
		}

		body, status, retryable, reqErr := c.do(ctx, target)
		metrics.StatusCode = status

		if reqErr != nil {
			lastErr = reqErr
			c.logger.Warn("fetch attempt failed", "attempt", attempt, "status", status, "error", reqErr)

			if !retryable {
				break
			}

			continue
		}

		metrics.Bytes = len(body)
		metrics.Duration = time.Since(start)

		table, decodeErr := DecodeRecords(body)
		if decodeErr != nil {
			return nil, metrics, &TransportError{Err: decodeErr, URL: target, StatusCode: status, Attempts: attempt}
		}

		c.logger.Info("fetched records",
			"records", table.Len(),
			"columns", len(table.Columns),
			"bytes", metrics.Bytes,
			"duration", metrics.Duration,
		)

		return table, metrics, nil
	}

	metrics.Duration = time.Since(start)

	return nil, metrics, &TransportError{
		Err:        lastErr,
		URL:        target,
		StatusCode: metrics.StatusCode,
		Attempts:   metrics.Attempts,
	}
}

// do performs one GET. retryable is true for network errors and transient statuses.
func (c *Client) do(ctx context.Context, target string) ([]byte, int, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, http.NoBody)
	if err != nil {
		return nil, 0, false, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header = c.headers.BuildHeaders(nil)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, ctx.Err() == nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))

		return nil, resp.StatusCode, isRetryableStatus(resp.StatusCode), fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, resp.StatusCode, true, fmt.Errorf("failed to read response body: %w", err)
	}

	if len(body) > maxBodyBytes {
		return nil, resp.StatusCode, false, ErrResponseTooLarge
	}

	return body, resp.StatusCode, false, nil
}

func (c *Client) buildURL(limit int) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url: %w", err)
	}

	q := u.Query()
	q.Set("resource_id", c.resourceID)
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	return u.String(), nil
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	switch statusCode {
	case http.StatusServiceUnavailable,
		http.StatusGatewayTimeout,
		http.StatusTooManyRequests,
		http.StatusRequestTimeout:
		return true
	}

	return false
}

var _ Source = (*Client)(nil)

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}

	var ne interface{ Timeout() bool }

	return errors.As(err, &ne) && ne.Timeout()
}
