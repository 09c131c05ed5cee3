package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/reelx/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

const (
	DefaultBaseURL   = "http://localhost:3000"
	DefaultTimeout   = 10 * time.Second
	DefaultUserAgent = "reelx"
)

// ClientOpts configures a [Client].
type ClientOpts struct {
	BaseURL    string
	Tokens     TokenStore
	HTTPClient *http.Client
	Timeout    time.Duration
	// RateLimit is the maximum requests per second; zero disables limiting.
	RateLimit float64
	UserAgent string
	Logger    *log.Logger
}

// Client is the configured HTTP client for the movies service.
type Client struct {
	baseURL    string
	tokens     TokenStore
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	logger     *log.Logger
}

// NewClient creates a [Client], defaulting the base URL, timeout and user agent.
//
// A provided HTTPClient is copied so the timeout can be applied without mutating it.
func NewClient(opts ClientOpts) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Logger == nil {
		opts.Logger = shared.NopLogger()
	}

	httpClient := &http.Client{}
	if opts.HTTPClient != nil {
		c := *opts.HTTPClient
		httpClient = &c
	}
	httpClient.Timeout = opts.Timeout

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		tokens:     opts.Tokens,
		httpClient: httpClient,
		limiter:    limiter,
		userAgent:  opts.UserAgent,
		logger:     opts.Logger,
	}
}

// BaseURL returns the service root requests are sent to.
func (c *Client) BaseURL() string { return c.baseURL }

// Timeout returns the per-request timeout.
func (c *Client) Timeout() time.Duration { return c.httpClient.Timeout }

// do sends one request and decodes a 2xx body into result when result is non-nil.
// Every error it returns is an [*APIError].
func (c *Client) do(ctx context.Context, method, endpoint string, query url.Values, body, result any) error {
	req, err := c.newRequest(ctx, method, endpoint, query, body)
	if err != nil {
		return c.fail(method, endpoint, Normalize(false, nil, nil, err))
	}

	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return c.fail(method, endpoint, Normalize(false, nil, nil, err))
		}
	}

	c.logger.Debug("request", "method", method, "endpoint", endpoint)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return c.fail(method, endpoint, Normalize(true, nil, nil, err))
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil && resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return c.fail(method, endpoint, Normalize(true, nil, nil, err))
	}

	if resp.StatusCode == http.StatusUnauthorized {
		c.evictToken()
	}

	var decodeErr error
	if resp.StatusCode >= 200 && resp.StatusCode < 300 && result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			decodeErr = fmt.Errorf("failed to decode response: %w", err)
		}
	}

	if apiErr := Normalize(true, resp, data, decodeErr); apiErr != nil {
		return c.fail(method, endpoint, apiErr)
	}
	return nil
}

// newRequest builds the request and attaches headers. A token read failure is returned
// so the request is never dispatched.
func (c *Client) newRequest(ctx context.Context, method, endpoint string, query url.Values, body any) (*http.Request, error) {
	fullURL := c.baseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	if c.tokens != nil {
		token, err := c.tokens.Get()
		if err != nil {
			return nil, fmt.Errorf("failed to read access token: %w", err)
		}
		if token != "" {
			(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
		}
	}

	return req, nil
}

func (c *Client) evictToken() {
	if c.tokens == nil {
		return
	}
	if err := c.tokens.Remove(); err != nil {
		c.logger.Warn("failed to remove token after 401", "error", err)
		return
	}
	c.logger.Info("access token evicted after 401")
}

func (c *Client) fail(method, endpoint string, apiErr *APIError) error {
	kv := []any{"method", method, "endpoint", endpoint, "kind", apiErr.Kind, "status", apiErr.StatusCode}
	if cause := apiErr.Unwrap(); cause != nil {
		kv = append(kv, "cause", cause)
	}
	c.logger.Debug("request failed", kv...)
	return apiErr
}
