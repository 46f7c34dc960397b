package fetcher

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html/charset"
	"golang.org/x/time/rate"

	"github.com/octobees/prospector/internal/entity"
	"github.com/octobees/prospector/internal/metrics"
)

const (
	defaultTimeout   = 10 * time.Second
	defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	maxBodyBytes     = 5 << 20
)

// HTTPClient captures the subset of http.Client used by the fetcher.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client fetches single pages with a bounded retry.
type Client struct {
	http      HTTPClient
	timeout   time.Duration
	retry     RetryPolicy
	userAgent string
	limiter   *rate.Limiter
	logger    *zap.Logger
	metrics   *metrics.Pipeline
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient injects a custom HTTP client.
func WithHTTPClient(client HTTPClient) Option {
	return func(c *Client) {
		if client != nil {
			c.http = client
		}
	}
}

// WithTimeout sets the per-attempt deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithRetryPolicy overrides DefaultRetryPolicy.
func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

// WithUserAgent overrides the browser user agent.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithRateLimit paces attempts across all goroutines sharing the client.
// A non-positive rate disables pacing.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithMetrics records fetch results.
func WithMetrics(m *metrics.Pipeline) Option {
	return func(c *Client) { c.metrics = m }
}

// New builds a Client. Certificate verification is disabled because many
// small company sites serve expired or self-signed certificates.
func New(opts ...Option) *Client {
	c := &Client{
		timeout:   defaultTimeout,
		retry:     DefaultRetryPolicy,
		userAgent: defaultUserAgent,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		c.http = &http.Client{Timeout: c.timeout, Transport: transport}
	}
	return c
}

// Fetch retrieves target. Failures are reported through the outcome, never as an error.
func (c *Client) Fetch(ctx context.Context, target string) entity.FetchOutcome {
	var out entity.FetchOutcome
	ok := Retry(ctx, c.retry, func(ctx context.Context) bool {
		attempt, err := c.get(ctx, target)
		out = attempt
		if err != nil {
			c.logger.Debug("fetch attempt failed", zap.String("url", target), zap.Error(err))
			return false
		}
		return true
	})
	out.Succeeded = ok
	c.metrics.ObserveFetch(ok)
	return out
}

var errStatus = errors.New("unexpected status")

func (c *Client) get(ctx context.Context, target string) (entity.FetchOutcome, error) {
	out := entity.FetchOutcome{FinalURL: target}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return out, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return out, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en-US;q=0.7,en;q=0.3")

	resp, err := c.http.Do(req)
	if err != nil {
		return out, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	out.HTTPStatus = resp.StatusCode
	if resp.Request != nil && resp.Request.URL != nil {
		out.FinalURL = resp.Request.URL.String()
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		return out, fmt.Errorf("%w: %d", errStatus, resp.StatusCode)
	}

	limited := io.LimitReader(resp.Body, maxBodyBytes)
	reader, err := charset.NewReader(limited, resp.Header.Get("Content-Type"))
	if err != nil {
		reader = limited
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return out, fmt.Errorf("read body: %w", err)
	}
	out.Body = strings.ToValidUTF8(string(body), "")
	return out, nil
}
