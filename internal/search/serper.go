package search

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/octobees/prospector/internal/entity"
)

// DefaultEndpoint is the Serper web search endpoint.
const DefaultEndpoint = "https://google.serper.dev/search"

// ErrMissingAPIKey is returned by New when no API key is configured.
var ErrMissingAPIKey = errors.New("search: api key is required")

// HTTPClient captures the subset of http.Client used by the search client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client queries a Serper-compatible JSON search API.
type Client struct {
	http     HTTPClient
	endpoint string
	apiKey   string
	region   string
	language string
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

// WithEndpoint overrides DefaultEndpoint.
func WithEndpoint(endpoint string) Option {
	return func(c *Client) {
		if endpoint != "" {
			c.endpoint = endpoint
		}
	}
}

// WithLocale sets the gl/hl parameters sent with every query.
func WithLocale(region, language string) Option {
	return func(c *Client) {
		if region != "" {
			c.region = region
		}
		if language != "" {
			c.language = language
		}
	}
}

// New builds a search client. Results default to Japanese locale.
func New(apiKey string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}
	c := &Client{
		http:     &http.Client{Timeout: 15 * time.Second},
		endpoint: DefaultEndpoint,
		apiKey:   apiKey,
		region:   "jp",
		language: "ja",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type searchRequest struct {
	Query    string `json:"q"`
	Num      int    `json:"num"`
	Region   string `json:"gl"`
	Language string `json:"hl"`
}

type searchResponse struct {
	Organic []struct {
		Title string `json:"title"`
		Link  string `json:"link"`
	} `json:"organic"`
}

// Search returns up to limit organic results for query. Results with no link
// are dropped.
func (c *Client) Search(ctx context.Context, query string, limit int) ([]entity.RawHit, error) {
	body, err := json.Marshal(searchRequest{Query: query, Num: limit, Region: c.region, Language: c.language})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-API-KEY", c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("search error: status %d: %s", resp.StatusCode, errorMessage(resp.Body))
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil && err != io.EOF {
		return nil, fmt.Errorf("could not decode search response: %w", err)
	}

	hits := make([]entity.RawHit, 0, len(payload.Organic))
	for _, item := range payload.Organic {
		if item.Link == "" {
			continue
		}
		hits = append(hits, entity.RawHit{Title: item.Title, URL: item.Link})
		if limit > 0 && len(hits) == limit {
			break
		}
	}
	return hits, nil
}

func errorMessage(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, 4<<10))
	if err != nil || len(data) == 0 {
		return "no body"
	}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil {
		if payload.Message != "" {
			return payload.Message
		}
		if payload.Error != "" {
			return payload.Error
		}
	}
	return strings.TrimSpace(string(data))
}
