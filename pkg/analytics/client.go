// Package analytics is a client for the UnleashNFTs (bitsCrunch) NFT analytics REST API.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tidwall/gjson"
)

const (
	DefaultBaseURL        = "https://api.unleashnfts.com"
	DefaultRequestTimeout = 30 * time.Second

	apiKeyHeader = "x-api-key"
	maxErrorBody = 512
)

// ErrNoAPIKey is returned before any request is made when the client has no key.
var ErrNoAPIKey = errors.New("no API key configured: run 'nftlens apikey set'")

// Client talks to the analytics API. Services share the client's configuration.
type Client struct {
	Blockchains    BlockchainService
	Market         MarketService
	MarketInsights MarketInsightsService
	NFT            NFTService

	cfg *clientConfig
}

type clientConfig struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	logger     zerolog.Logger
}

// Option configures a Client.
type Option func(*clientConfig)

func WithAPIKey(key string) Option {
	return func(c *clientConfig) { c.apiKey = strings.TrimSpace(key) }
}

func WithBaseURL(u string) Option {
	return func(c *clientConfig) {
		if strings.TrimSpace(u) != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *clientConfig) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithRequestTimeout bounds each individual request. Zero disables the bound.
func WithRequestTimeout(d time.Duration) Option {
	return func(c *clientConfig) { c.timeout = d }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *clientConfig) { c.logger = l }
}

// NewClient builds a Client. Without options it targets DefaultBaseURL with no key.
func NewClient(opts ...Option) *Client {
	cfg := &clientConfig{
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{},
		timeout:    DefaultRequestTimeout,
		logger:     zerolog.Nop(),
	}
	for _, o := range opts {
		o(cfg)
	}
	return &Client{
		Blockchains:    BlockchainService{cfg: cfg},
		Market:         MarketService{cfg: cfg},
		MarketInsights: MarketInsightsService{cfg: cfg},
		NFT:            NFTService{cfg: cfg},
		cfg:            cfg,
	}
}

// Error is a non-2xx response from the API.
type Error struct {
	StatusCode int
	Method     string
	URL        string
	Message    string
	Body       string
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, msg)
}

// IsNotFound reports whether err is a 404 from the API.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// IsUnauthorized reports whether the API rejected the key.
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && (apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden)
}

// request describes one GET call.
type request struct {
	path   string
	query  url.Values
	legacy bool // v1 endpoints also expect the key in Authorization and the query
}

func (c *clientConfig) get(ctx context.Context, r request) ([]byte, error) {
	if c.apiKey == "" {
		return nil, ErrNoAPIKey
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	q := url.Values{}
	for k, v := range r.query {
		q[k] = v
	}
	if r.legacy {
		q.Set(apiKeyHeader, c.apiKey)
	}
	endpoint := c.baseURL + r.path
	full := endpoint
	if enc := q.Encode(); enc != "" {
		full += "?" + enc
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("accept", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)
	if r.legacy {
		req.Header.Set("Authorization", c.apiKey)
	}

	start := time.Now()
	c.logger.Debug().Str("path", r.path).Str("query", r.query.Encode()).Msg("analytics request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug().Err(err).Str("path", r.path).Msg("analytics request failed")
		return nil, fmt.Errorf("request %s failed: %w", r.path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response from %s: %w", r.path, err)
	}

	c.logger.Debug().
		Str("path", r.path).
		Int("status", resp.StatusCode).
		Int("bytes", len(body)).
		Dur("elapsed", time.Since(start)).
		Msg("analytics response")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newError(resp.StatusCode, http.MethodGet, endpoint, body)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("invalid JSON response from %s", r.path)
	}
	return body, nil
}

func newError(status int, method, endpoint string, body []byte) *Error {
	e := &Error{StatusCode: status, Method: method, URL: endpoint}
	if gjson.ValidBytes(body) {
		for _, path := range []string{"message", "error.message", "error", "detail"} {
			if v := gjson.GetBytes(body, path); v.Type == gjson.String && v.String() != "" {
				e.Message = v.String()
				break
			}
		}
	}
	b := strings.TrimSpace(string(body))
	if len(b) > maxErrorBody {
		b = b[:maxErrorBody] + "..."
	}
	e.Body = b
	return e
}
