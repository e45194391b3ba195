// Package crossref provides a client for the Crossref REST API.
// It covers the two endpoints getbib needs: bibliographic work search and
// the BibTeX content-negotiation transform.
package crossref

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the Crossref REST API base URL.
	DefaultBaseURL = "https://api.crossref.org"
	// DefaultUserAgent identifies this application to Crossref.
	DefaultUserAgent = "getbib"

	// DefaultRate is the request budget per second for the public pool.
	DefaultRate = 5

	// DefaultTimeout bounds a single HTTP exchange.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxResponseBytes is the maximum response body size (10 MB).
	DefaultMaxResponseBytes int64 = 10 * 1024 * 1024
)

// Client talks to the Crossref REST API with rate limiting, a polite-pool
// contact address, and response size guards.
type Client struct {
	BaseURL    string
	Mailto     string
	UserAgent  string
	HTTPClient *http.Client
	Limiter    *rate.Limiter
	MaxBytes   int64
	Logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL sets the base URL for requests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.BaseURL = u }
}

// WithMailto sets the contact address that routes requests to the
// Crossref polite pool.
func WithMailto(addr string) Option {
	return func(c *Client) { c.Mailto = addr }
}

// WithUserAgent sets the User-Agent product token.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.UserAgent = ua }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.HTTPClient = hc }
}

// WithTimeout sets the timeout of the underlying HTTP client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.HTTPClient.Timeout = d }
}

// WithRate sets the number of requests allowed per second.
func WithRate(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.Limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithMaxResponseBytes sets the maximum allowed response body size.
func WithMaxResponseBytes(n int64) Option {
	return func(c *Client) { c.MaxBytes = n }
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.Logger = l }
}

// NewClient creates a new Crossref client with the given options.
func NewClient(opts ...Option) *Client {
	c := &Client{
		BaseURL:   DefaultBaseURL,
		UserAgent: DefaultUserAgent,
		MaxBytes:  DefaultMaxResponseBytes,
		Limiter:   rate.NewLimiter(rate.Limit(DefaultRate), 1),
		HTTPClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		Logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// userAgent returns the header value, advertising the contact address when
// one is configured as Crossref asks.
func (c *Client) userAgent() string {
	if c.Mailto == "" {
		return c.UserAgent
	}
	return fmt.Sprintf("%s (mailto:%s)", c.UserAgent, c.Mailto)
}

// doGet performs a rate-limited GET against the endpoint built from the
// path elements, returning the body of a 200 response. Any other status is
// reported as a *StatusError. Requests are never retried.
func (c *Client) doGet(ctx context.Context, accept string, params url.Values, elem ...string) ([]byte, error) {
	if params == nil {
		params = url.Values{}
	}
	if c.Mailto != "" {
		params.Set("mailto", c.Mailto)
	}

	u, err := url.JoinPath(c.BaseURL, elem...)
	if err != nil {
		return nil, fmt.Errorf("building URL: %w", err)
	}
	fullURL := u
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	if err := c.Limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent())
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	start := time.Now()
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		c.Logger.Debug().Err(err).Str("url", fullURL).Msg("crossref request failed")
		return nil, fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	c.Logger.Debug().
		Str("url", fullURL).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("crossref request")

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{StatusCode: resp.StatusCode, URL: fullURL}
	}

	// Read one byte past the limit to detect oversized responses.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.MaxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if int64(len(body)) > c.MaxBytes {
		return nil, fmt.Errorf("response exceeds maximum size of %d bytes", c.MaxBytes)
	}

	return body, nil
}
