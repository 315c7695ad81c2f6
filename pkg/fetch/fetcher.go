// Package fetch retrieves article pages over HTTP and parses them into
// queryable document trees.
//
// Every FetchDocument call is independent: there is no response cache, no
// de-duplication of identical URLs, and nothing shared between callers beyond
// the underlying connection pool. Sibling extractors requesting the same URL
// each pay for their own fetch and may observe different page states.
package fetch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"news-enricher/pkg/utils"
)

// Fetcher performs page GETs with bounded retry on transient failures and
// parses successful responses with goquery.
type Fetcher struct {
	client      *http.Client
	userAgent   string
	maxAttempts int           // Total attempts per URL (initial + retries)
	retryDelay  time.Duration // Fixed sleep between attempts
	log         *logrus.Logger
}

// NewFetcher creates a Fetcher. maxAttempts values below 1 are treated as 1.
func NewFetcher(client *http.Client, userAgent string, maxAttempts int, retryDelay time.Duration, log *logrus.Logger) *Fetcher {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return &Fetcher{
		client:      client,
		userAgent:   userAgent,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		log:         log,
	}
}

// FetchDocument GETs pageURL and returns the parsed document tree.
//
// Transient failures (connection, DNS, TLS, read timeouts, 5xx, 429) are
// retried up to the configured attempt budget with a fixed delay between
// attempts; each failed attempt is logged with the URL and error. Terminal
// failures (malformed URL, other 4xx, context cancellation) return
// immediately. Callers must treat any error as "no data available" for the
// page, never as a run-level failure.
func (f *Fetcher) FetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	var lastErr error

	reqLog := f.log.WithField("url", pageURL)

	for attempt := 1; attempt <= f.maxAttempts; attempt++ {
		// Check for cancellation before attempting or sleeping
		select {
		case <-ctx.Done():
			if lastErr != nil {
				return nil, fmt.Errorf("context cancelled (%v) after error: %w", ctx.Err(), lastErr)
			}
			return nil, ctx.Err()
		default:
		}

		if attempt > 1 {
			reqLog.WithFields(logrus.Fields{
				"attempt":      attempt,
				"max_attempts": f.maxAttempts,
				"delay":        f.retryDelay,
			}).Warn("Retrying fetch...")

			select {
			case <-time.After(f.retryDelay):
			case <-ctx.Done():
				reqLog.Warnf("Context cancelled during retry sleep: %v", ctx.Err())
				if lastErr != nil {
					return nil, fmt.Errorf("context cancelled (%v) during retry delay after error: %w", ctx.Err(), lastErr)
				}
				return nil, ctx.Err()
			}
		}

		doc, err := f.attempt(ctx, pageURL)
		if err == nil {
			reqLog.WithField("attempt", attempt).Debug("Successfully fetched and parsed")
			return doc, nil
		}
		lastErr = err

		if !utils.IsTransient(err) {
			reqLog.WithField("attempt", attempt).Debugf("Terminal fetch failure, not retrying: %v", err)
			return nil, err
		}
		reqLog.WithField("attempt", attempt).Errorf("Transient fetch failure: %v", err)
	}

	reqLog.Errorf("All %d fetch attempts failed. Last error: %v", f.maxAttempts, lastErr)
	return nil, fmt.Errorf("%w: %w", utils.ErrRetryFailed, lastErr)
}

// attempt performs a single GET-and-parse cycle.
func (f *Fetcher) attempt(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		// Malformed URL or missing schema: non-transient by construction
		return nil, fmt.Errorf("%w: %w", utils.ErrRequestCreation, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	statusCode := resp.StatusCode
	switch {
	case statusCode >= 200 && statusCode < 300:
		// Fall through to parsing

	case statusCode >= 500:
		return nil, fmt.Errorf("%w: status %s", utils.ErrServerHTTPError, resp.Status)

	case statusCode == http.StatusTooManyRequests:
		// Rate limited; treated like a server-side transient
		return nil, fmt.Errorf("%w: status %s", utils.ErrServerHTTPError, resp.Status)

	case statusCode >= 400:
		return nil, fmt.Errorf("%w: status %s", utils.ErrClientHTTPError, resp.Status)

	default:
		return nil, fmt.Errorf("%w: status %s", utils.ErrOtherHTTPError, resp.Status)
	}

	// Read the body up front so truncated transfers and encoding errors are
	// classified as transient rather than surfacing as parse failures
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrResponseBodyRead, err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: HTML parse failed: %w", utils.ErrParsing, err)
	}
	return doc, nil
}
