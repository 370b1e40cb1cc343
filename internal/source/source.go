// Package source holds what the lyrics source adapters share: an HTTP
// client that paces, decodes and classifies upstream calls, and the
// reporting of faults.
//
// The Source interface itself is defined in internal/lyrics (lyrics.Source),
// where it is consumed. Each sub-package here implements it for one provider.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"bestlyrics/internal/logger"
	"bestlyrics/internal/lyrics"
	"bestlyrics/internal/metrics"

	"golang.org/x/time/rate"
)

const (
	DefaultUserAgent = "bestlyrics/1.0"
	defaultTimeout   = 10 * time.Second
)

// Options configures the HTTP behaviour shared by all adapters.
type Options struct {
	Logger    *logger.Logger
	Metrics   *metrics.Collector
	UserAgent string
	Timeout   time.Duration // per HTTP request; 0 uses 10s
	RateLimit float64       // requests per second to one provider; 0 disables pacing
}

// Client performs upstream requests on behalf of one adapter.
type Client struct {
	id         lyrics.SourceID
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	logger     *logger.Logger
	metrics    *metrics.Collector
}

// NewClient creates a Client for the source id.
func NewClient(id lyrics.SourceID, opts Options) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	log := opts.Logger
	if log == nil {
		log = logger.New(false)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Client{
		id:         id,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    limiter,
		userAgent:  userAgent,
		logger:     log,
		metrics:    opts.Metrics,
	}
}

// GetJSON issues a GET request and decodes a 200 response body into v.
// Any failure is returned as *FetchError or *ParseError.
func (c *Client) GetJSON(ctx context.Context, reqURL string, v any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return &FetchError{Source: c.id, Err: fmt.Errorf("rate limit: %w", err)}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &FetchError{Source: c.id, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &FetchError{Source: c.id, Err: stripURL(err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &FetchError{Source: c.id, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &ParseError{Source: c.id, Err: err}
	}
	return nil
}

// Report logs a failed fetch and counts it. A 404 is a normal "no match"
// and is only logged in verbose mode.
func (c *Client) Report(err error) {
	var fetchErr *FetchError
	var parseErr *ParseError
	switch {
	case errors.As(err, &fetchErr) && fetchErr.NotFound():
		c.logger.Debug("%s: no match", c.id)
		c.metrics.Fault(string(c.id), metrics.KindNotFound)
	case errors.As(err, &parseErr):
		c.logger.Warn("%v", err)
		c.metrics.Fault(string(c.id), metrics.KindParse)
	default:
		c.logger.Warn("%v", err)
		c.metrics.Fault(string(c.id), metrics.KindFetch)
	}
}

// Skip records that the adapter did nothing because it is not configured.
func (c *Client) Skip(reason string) {
	c.logger.Debug("%s: skipped, %s", c.id, reason)
	c.metrics.Skipped(string(c.id))
}

// Reject records a response that was well-formed but unusable.
func (c *Client) Reject(reason string) {
	c.logger.Debug("%s: response rejected, %s", c.id, reason)
}

// stripURL drops the request URL from transport errors so query strings
// (which may carry API keys) never reach the logs.
func stripURL(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return fmt.Errorf("%s request failed: %w", urlErr.Op, urlErr.Err)
	}
	return err
}
