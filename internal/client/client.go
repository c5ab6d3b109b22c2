package client

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

// Default headers
const (
	userAgent        = "gobooks/1.0 (+https://github.com/tuannvm/gobooks)"
	acceptHeader     = "application/json"
	acceptLangHeader = "en-US,en;q=0.5"
)

// DefaultTimeout bounds a single request when no other timeout is configured.
const DefaultTimeout = 15 * time.Second

// Client is a thin HTTP client that applies default headers and request logging.
// It does not retry: every request maps to exactly one round trip.
type Client struct {
	baseURL string
	client  *http.Client
	headers map[string]string
	logger  logrus.FieldLogger
}

// SetDefaultHeader sets a default header that will be included in all requests
func (c *Client) SetDefaultHeader(key, value string) {
	if c.headers == nil {
		c.headers = make(map[string]string)
	}
	c.headers[key] = value
}

// New creates a new HTTP client with the specified configuration
func New(baseURL string, opts ...Option) *Client {
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})

	transport := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		ForceAttemptHTTP2:   true,
		MaxIdleConns:        10,
		IdleConnTimeout:     30 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	httpClient := &http.Client{
		Jar:       jar,
		Transport: transport,
		Timeout:   DefaultTimeout,
	}

	return NewWithHTTPClient(baseURL, httpClient, opts...)
}

// NewWithHTTPClient creates a new client with a custom HTTP client
func NewWithHTTPClient(baseURL string, httpClient *http.Client, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  httpClient,
		headers: make(map[string]string),
		logger:  logrus.StandardLogger(),
	}

	// Set default headers
	c.SetDefaultHeader("User-Agent", userAgent)
	c.SetDefaultHeader("Accept", acceptHeader)
	c.SetDefaultHeader("Accept-Language", acceptLangHeader)

	// Apply options
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Option configures the Client
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.client = httpClient
	}
}

// WithTimeout overrides the per-request timeout of the underlying http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// BaseURL returns the base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// GetURL performs a GET request against an absolute URL.
func (c *Client) GetURL(ctx context.Context, rawURL string, headers map[string]string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return c.do(req)
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := c.client.Do(req)
	entry := c.logger.WithFields(logrus.Fields{
		"method": req.Method,
		"host":   req.URL.Host,
		"path":   req.URL.Path,
		"took":   time.Since(start),
	})
	if err != nil {
		entry.WithError(err).Debug("http.request failed")
		return nil, err
	}
	entry.WithField("status", resp.StatusCode).Debug("http.request")
	return resp, nil
}
