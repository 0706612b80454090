// Package crawler provides the HTTP fetch layer shared by all source
// adapters: a retrying scraper and the RSS document model.
package crawler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"devscan/internal/config"
	"devscan/pkg/utils"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// Scraper handles web fetching with config-driven retry logic.
type Scraper struct {
	client       *http.Client
	retryPolicy  *config.RetryPolicy
	bufferSizeKb int
}

// NewScraper creates a new scraper instance with default retry policy.
func NewScraper() *Scraper {
	return NewScraperWithConfig(&config.RetryPolicy{
		MaxAttempts:       3,
		InitialDelayMs:    500,
		MaxDelayMs:        30000,
		BackoffMultiplier: 2.0,
		TimeoutSec:        30,
		BufferSizeKb:      8192,
	})
}

// NewScraperWithConfig creates a new scraper with a custom retry policy.
func NewScraperWithConfig(retryPolicy *config.RetryPolicy) *Scraper {
	bufferSizeKb := retryPolicy.BufferSizeKb
	if bufferSizeKb <= 0 {
		bufferSizeKb = 8192
	}

	return &Scraper{
		client: &http.Client{
			Timeout: retryPolicy.GetTimeout(),
		},
		retryPolicy:  retryPolicy,
		bufferSizeKb: bufferSizeKb,
	}
}

// FetchWithHeaders fetches a URL with extra request headers, retrying on
// transport errors and retryable status codes with exponential backoff.
func (s *Scraper) FetchWithHeaders(ctx context.Context, url string, extra map[string]string) (string, error) {
	var lastErr error

	for attempt := 1; attempt <= s.retryPolicy.MaxAttempts; attempt++ {
		if attempt > 1 {
			delay := s.retryPolicy.GetRetryDelay(attempt)
			if delay > 0 {
				select {
				case <-time.After(delay):
				case <-ctx.Done():
					return "", ctx.Err()
				}
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return "", fmt.Errorf("failed to create request: %w", err)
		}

		req.Header = utils.BuildHeaders(extra)

		resp, err := s.client.Do(req)
		if err != nil {
			lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", attempt, s.retryPolicy.MaxAttempts, err)

			continue
		}

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()

			lastErr = fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)

			if !isRetryableStatus(resp.StatusCode) {
				return "", lastErr
			}

			continue
		}

		// Cap the body read; bufferSizeKb is in KB.
		limit := int64(s.bufferSizeKb) * 1024
		body, err := io.ReadAll(io.LimitReader(resp.Body, limit))
		resp.Body.Close()

		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)

			continue
		}

		return string(body), nil
	}

	return "", lastErr
}

// Fetch fetches and returns content from the given URL.
func (s *Scraper) Fetch(ctx context.Context, url string) (string, error) {
	return s.FetchWithHeaders(ctx, url, nil)
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	// Retry on temporary failures
	switch statusCode {
	case http.StatusServiceUnavailable: // 503
		return true
	case http.StatusGatewayTimeout: // 504
		return true
	case http.StatusTooManyRequests: // 429
		return true
	case http.StatusRequestTimeout: // 408
		return true
	}

	return false
}
